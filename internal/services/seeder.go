package services

import (
	"context"
	"fmt"
	"strconv"
	"sync"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	"github.com/udaanlabs/pathshala-backend/internal/logger"
	"github.com/udaanlabs/pathshala-backend/internal/repos"
	"github.com/udaanlabs/pathshala-backend/internal/types"
)

// SlotTemplate seeds the title/description of one ordinal. Templates are
// keyed by the ordinal rendered as a string.
type SlotTemplate struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

type GenerateResult struct {
	ClassGroupID uuid.UUID `json:"class_group_id"`
	CreatedCount int       `json:"created_count"`
}

type RepairResult struct {
	CreatedCount      int   `json:"created_count"`
	FilledOrdinals    []int `json:"filled_ordinals"`
	DeactivatedCount  int   `json:"deactivated_count"`
	DuplicateOrdinals []int `json:"duplicate_ordinals,omitempty"`
}

// SeedOutcome is one item of a bulk seeding run. A failed class never
// aborts the others; errors are collected per item.
type SeedOutcome struct {
	ClassGroupID uuid.UUID `json:"class_group_id"`
	CreatedCount int       `json:"created_count"`
	Error        string    `json:"error,omitempty"`
}

type SeederService interface {
	GenerateFullSequence(ctx context.Context, classGroupID uuid.UUID, template map[string]SlotTemplate) (*GenerateResult, error)
	RepairGaps(ctx context.Context, classGroupID uuid.UUID) (*RepairResult, error)
	GenerateForAll(ctx context.Context, classGroupIDs []uuid.UUID, template map[string]SlotTemplate) []SeedOutcome
}

type seederService struct {
	db            *gorm.DB
	log           *logger.Logger
	slotRepo      repos.SessionSlotRepo
	totalSessions int
}

func NewSeederService(db *gorm.DB, baseLog *logger.Logger, slotRepo repos.SessionSlotRepo, totalSessions int) SeederService {
	if totalSessions <= 0 {
		totalSessions = types.DefaultTotalSessions
	}
	return &seederService{
		db:            db,
		log:           baseLog.With("service", "SeederService"),
		slotRepo:      slotRepo,
		totalSessions: totalSessions,
	}
}

func (s *seederService) GenerateFullSequence(ctx context.Context, classGroupID uuid.UUID, template map[string]SlotTemplate) (*GenerateResult, error) {
	var created int
	err := runInTx(ctx, s.db, func(tx *gorm.DB) error {
		count, err := s.slotRepo.CountActiveByClassGroup(ctx, tx, classGroupID)
		if err != nil {
			return fmt.Errorf("count existing slots: %w", err)
		}
		if count > 0 {
			return fmt.Errorf("%w: class group %s has %d active slots", ErrDuplicateSequence, classGroupID, count)
		}

		rows := make([]*types.SessionSlot, 0, s.totalSessions)
		for ordinal := 1; ordinal <= s.totalSessions; ordinal++ {
			rows = append(rows, newSessionSlot(classGroupID, ordinal, template))
		}
		if _, err := s.slotRepo.CreateBatch(ctx, tx, rows); err != nil {
			return fmt.Errorf("create slot batch: %w", err)
		}
		created = len(rows)
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("full session sequence generated",
		"class_group_id", classGroupID.String(),
		"created_count", created)
	return &GenerateResult{ClassGroupID: classGroupID, CreatedCount: created}, nil
}

func (s *seederService) RepairGaps(ctx context.Context, classGroupID uuid.UUID) (*RepairResult, error) {
	result := &RepairResult{FilledOrdinals: []int{}}
	err := runInTx(ctx, s.db, func(tx *gorm.DB) error {
		existing, err := s.slotRepo.GetActiveByClassGroup(ctx, tx, classGroupID)
		if err != nil {
			return fmt.Errorf("load active slots: %w", err)
		}
		// The first slot per ordinal survives; later duplicates are
		// soft-deleted so the active set converges on exactly {1..N}.
		present := make(map[int]bool, len(existing))
		extras := make([]uuid.UUID, 0)
		for _, slot := range existing {
			if present[slot.Ordinal] {
				extras = append(extras, slot.ID)
				result.DuplicateOrdinals = append(result.DuplicateOrdinals, slot.Ordinal)
				continue
			}
			present[slot.Ordinal] = true
		}
		if len(extras) > 0 {
			if err := s.slotRepo.DeactivateByIDs(ctx, tx, extras); err != nil {
				return fmt.Errorf("deactivate duplicate slots: %w", err)
			}
			result.DeactivatedCount = len(extras)
		}

		rows := make([]*types.SessionSlot, 0)
		for ordinal := 1; ordinal <= s.totalSessions; ordinal++ {
			if present[ordinal] {
				continue
			}
			rows = append(rows, newSessionSlot(classGroupID, ordinal, nil))
			result.FilledOrdinals = append(result.FilledOrdinals, ordinal)
		}
		if len(rows) == 0 {
			return nil
		}
		if _, err := s.slotRepo.CreateBatch(ctx, tx, rows); err != nil {
			return fmt.Errorf("create repair batch: %w", err)
		}
		result.CreatedCount = len(rows)
		return nil
	})
	if err != nil {
		return nil, err
	}

	if result.CreatedCount > 0 || result.DeactivatedCount > 0 {
		s.log.Info("sequence repaired",
			"class_group_id", classGroupID.String(),
			"filled_ordinals", result.FilledOrdinals,
			"deactivated_count", result.DeactivatedCount)
	}
	return result, nil
}

func (s *seederService) GenerateForAll(ctx context.Context, classGroupIDs []uuid.UUID, template map[string]SlotTemplate) []SeedOutcome {
	outcomes := make([]SeedOutcome, len(classGroupIDs))
	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(4)
	for i, id := range classGroupIDs {
		i, id := i, id
		g.Go(func() error {
			res, err := s.GenerateFullSequence(gctx, id, template)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				outcomes[i] = SeedOutcome{ClassGroupID: id, Error: err.Error()}
				// Failure of one class group must not abort the others.
				return nil
			}
			outcomes[i] = SeedOutcome{ClassGroupID: id, CreatedCount: res.CreatedCount}
			return nil
		})
	}
	_ = g.Wait()
	return outcomes
}

func newSessionSlot(classGroupID uuid.UUID, ordinal int, template map[string]SlotTemplate) *types.SessionSlot {
	slot := &types.SessionSlot{
		ClassGroupID: classGroupID,
		Ordinal:      ordinal,
		Position:     ordinal,
		IsActive:     true,
	}
	if template != nil {
		if t, ok := template[strconv.Itoa(ordinal)]; ok {
			if t.Title != "" {
				title := t.Title
				slot.Title = &title
			}
			if t.Description != "" {
				desc := t.Description
				slot.Description = &desc
			}
		}
	}
	return slot
}
