package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/udaanlabs/pathshala-backend/internal/logger"
	"github.com/udaanlabs/pathshala-backend/internal/repos"
	"github.com/udaanlabs/pathshala-backend/internal/types"
)

type ClassGroupService interface {
	// Create registers the class group and seeds its full session sequence
	// in the same transaction, so a group can never exist half-seeded.
	Create(ctx context.Context, row *types.ClassGroup, template map[string]SlotTemplate) (*types.ClassGroup, error)
	GetByID(ctx context.Context, id uuid.UUID) (*types.ClassGroup, error)
	List(ctx context.Context, onlyActive bool) ([]*types.ClassGroup, error)
	SetActive(ctx context.Context, id uuid.UUID, active bool) error
}

type classGroupService struct {
	db            *gorm.DB
	log           *logger.Logger
	groupRepo     repos.ClassGroupRepo
	slotRepo      repos.SessionSlotRepo
	totalSessions int
}

func NewClassGroupService(db *gorm.DB, baseLog *logger.Logger, groupRepo repos.ClassGroupRepo, slotRepo repos.SessionSlotRepo, totalSessions int) ClassGroupService {
	if totalSessions <= 0 {
		totalSessions = types.DefaultTotalSessions
	}
	return &classGroupService{
		db:            db,
		log:           baseLog.With("service", "ClassGroupService"),
		groupRepo:     groupRepo,
		slotRepo:      slotRepo,
		totalSessions: totalSessions,
	}
}

func (s *classGroupService) Create(ctx context.Context, row *types.ClassGroup, template map[string]SlotTemplate) (*types.ClassGroup, error) {
	if row.SchoolName == "" || row.Grade == "" {
		return nil, fmt.Errorf("school name and grade are required")
	}
	row.IsActive = true

	err := runInTx(ctx, s.db, func(tx *gorm.DB) error {
		created, err := s.groupRepo.Create(ctx, tx, row)
		if err != nil {
			return fmt.Errorf("create class group: %w", err)
		}

		rows := make([]*types.SessionSlot, 0, s.totalSessions)
		for ordinal := 1; ordinal <= s.totalSessions; ordinal++ {
			rows = append(rows, newSessionSlot(created.ID, ordinal, template))
		}
		if _, err := s.slotRepo.CreateBatch(ctx, tx, rows); err != nil {
			return fmt.Errorf("seed session sequence: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("class group created and seeded",
		"class_group_id", row.ID.String(),
		"school_name", row.SchoolName,
		"grade", row.Grade,
		"slot_count", s.totalSessions)
	return row, nil
}

func (s *classGroupService) GetByID(ctx context.Context, id uuid.UUID) (*types.ClassGroup, error) {
	return s.groupRepo.GetByID(ctx, nil, id)
}

func (s *classGroupService) List(ctx context.Context, onlyActive bool) ([]*types.ClassGroup, error) {
	return s.groupRepo.List(ctx, nil, onlyActive)
}

func (s *classGroupService) SetActive(ctx context.Context, id uuid.UUID, active bool) error {
	if err := s.groupRepo.SetActive(ctx, nil, id, active); err != nil {
		return fmt.Errorf("set class group active: %w", err)
	}
	s.log.Info("class group active flag changed", "class_group_id", id.String(), "is_active", active)
	return nil
}
