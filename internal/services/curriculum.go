package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/udaanlabs/pathshala-backend/internal/logger"
	"github.com/udaanlabs/pathshala-backend/internal/repos"
	"github.com/udaanlabs/pathshala-backend/internal/types"
)

// CurriculumService is the authoring surface for curriculum days. Every
// write invalidates the resolved-content cache for the touched (day,
// language) pair so readers never see stale material for a full TTL.
type CurriculumService interface {
	CreateDay(ctx context.Context, row *types.CurriculumDay) (*types.CurriculumDay, error)
	UpdateDay(ctx context.Context, row *types.CurriculumDay) (*types.CurriculumDay, error)
	SetStatus(ctx context.Context, id uuid.UUID, status types.CurriculumStatus) (*types.CurriculumDay, error)
	GetDay(ctx context.Context, id uuid.UUID) (*types.CurriculumDay, error)
	ListByLanguage(ctx context.Context, language string) ([]*types.CurriculumDay, error)
}

type curriculumService struct {
	db      *gorm.DB
	log     *logger.Logger
	dayRepo repos.CurriculumDayRepo
	content ContentService
}

func NewCurriculumService(db *gorm.DB, baseLog *logger.Logger, dayRepo repos.CurriculumDayRepo, content ContentService) CurriculumService {
	return &curriculumService{
		db:      db,
		log:     baseLog.With("service", "CurriculumService"),
		dayRepo: dayRepo,
		content: content,
	}
}

func validStatusValue(status types.CurriculumStatus) bool {
	switch status {
	case types.CurriculumDraft, types.CurriculumPublished, types.CurriculumArchived:
		return true
	}
	return false
}

func (s *curriculumService) CreateDay(ctx context.Context, row *types.CurriculumDay) (*types.CurriculumDay, error) {
	if row.DayNumber < 1 {
		return nil, fmt.Errorf("day number %d is invalid", row.DayNumber)
	}
	row.Language = strings.ToLower(strings.TrimSpace(row.Language))
	if row.Language == "" {
		return nil, fmt.Errorf("language is required")
	}
	if row.Status == "" {
		row.Status = types.CurriculumDraft
	}
	if !validStatusValue(row.Status) {
		return nil, fmt.Errorf("unknown curriculum status %q", row.Status)
	}

	existing, err := s.dayRepo.GetByDayAndLanguage(ctx, nil, row.DayNumber, row.Language)
	if err != nil {
		return nil, fmt.Errorf("check existing day: %w", err)
	}
	if existing != nil {
		return nil, fmt.Errorf("curriculum day %d already exists for language %s", row.DayNumber, row.Language)
	}

	created, err := s.dayRepo.Create(ctx, nil, row)
	if err != nil {
		return nil, fmt.Errorf("create curriculum day: %w", err)
	}
	s.invalidate(ctx, created)
	s.log.Info("curriculum day created",
		"curriculum_day_id", created.ID.String(),
		"day", created.DayNumber,
		"language", created.Language)
	return created, nil
}

func (s *curriculumService) UpdateDay(ctx context.Context, row *types.CurriculumDay) (*types.CurriculumDay, error) {
	current, err := s.dayRepo.GetByID(ctx, nil, row.ID)
	if err != nil {
		return nil, fmt.Errorf("load curriculum day: %w", err)
	}

	// Identity fields are immutable; only content and flags move.
	current.Title = row.Title
	current.Summary = row.Summary
	current.Blocks = row.Blocks
	current.ActiveForFacilitators = row.ActiveForFacilitators
	current.ForceFallback = row.ForceFallback

	if err := s.dayRepo.Update(ctx, nil, current); err != nil {
		return nil, fmt.Errorf("update curriculum day: %w", err)
	}
	s.invalidate(ctx, current)
	return current, nil
}

func (s *curriculumService) SetStatus(ctx context.Context, id uuid.UUID, status types.CurriculumStatus) (*types.CurriculumDay, error) {
	if !validStatusValue(status) {
		return nil, fmt.Errorf("unknown curriculum status %q", status)
	}
	current, err := s.dayRepo.GetByID(ctx, nil, id)
	if err != nil {
		return nil, fmt.Errorf("load curriculum day: %w", err)
	}

	current.Status = status
	if err := s.dayRepo.Update(ctx, nil, current); err != nil {
		return nil, fmt.Errorf("update curriculum day status: %w", err)
	}
	s.invalidate(ctx, current)
	s.log.Info("curriculum day status changed",
		"curriculum_day_id", current.ID.String(),
		"day", current.DayNumber,
		"language", current.Language,
		"status", string(status))
	return current, nil
}

func (s *curriculumService) GetDay(ctx context.Context, id uuid.UUID) (*types.CurriculumDay, error) {
	return s.dayRepo.GetByID(ctx, nil, id)
}

func (s *curriculumService) ListByLanguage(ctx context.Context, language string) ([]*types.CurriculumDay, error) {
	return s.dayRepo.ListByLanguage(ctx, nil, strings.ToLower(strings.TrimSpace(language)))
}

func (s *curriculumService) invalidate(ctx context.Context, row *types.CurriculumDay) {
	day := row.DayNumber
	lang := row.Language
	if err := s.content.Invalidate(ctx, &day, &lang); err != nil {
		s.log.Warn("content cache invalidation failed",
			"day", day,
			"language", lang,
			"error", err)
	}
}
