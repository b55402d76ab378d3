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

// FacilitatorSpan is a contiguous run of ordinals delivered by the same
// facilitator, derived by replaying occurrences in ordinal order. Spans
// are never stored; the occurrence history is the single source of truth.
type FacilitatorSpan struct {
	FacilitatorID uuid.UUID `json:"facilitator_id"`
	StartOrdinal  int       `json:"start_ordinal"`
	EndOrdinal    int       `json:"end_ordinal"`
	OrdinalCount  int       `json:"ordinal_count"`
}

// AssignmentReport describes the handover to a new facilitator. It is
// informational only and mutates nothing.
type AssignmentReport struct {
	ClassGroupID         uuid.UUID          `json:"class_group_id"`
	NewFacilitatorID     uuid.UUID          `json:"new_facilitator_id"`
	PriorFacilitatorID   *uuid.UUID         `json:"prior_facilitator_id,omitempty"`
	LastCompletedOrdinal int                `json:"last_completed_ordinal"`
	ContinuationOrdinal  int                `json:"continuation_ordinal"`
	NextSlot             *types.SessionSlot `json:"next_slot,omitempty"`
}

type ContinuityService interface {
	LastCompletedOrdinal(ctx context.Context, classGroupID uuid.UUID) (int, error)
	// NextSessionFor resolves the resume point for a facilitator. A
	// facilitator with no delivery history in the class inherits the
	// continuation ordinal of whoever came before; a returning
	// facilitator just gets the class's next pending slot.
	NextSessionFor(ctx context.Context, classGroupID, facilitatorID uuid.UUID) (*types.SessionSlot, error)
	AssignFacilitator(ctx context.Context, classGroupID, newFacilitatorID uuid.UUID) (*AssignmentReport, error)
	AssignmentTimeline(ctx context.Context, classGroupID uuid.UUID) ([]FacilitatorSpan, error)
}

type continuityService struct {
	db            *gorm.DB
	log           *logger.Logger
	slotRepo      repos.SessionSlotRepo
	occRepo       repos.OccurrenceRepo
	sequence      SequenceService
	totalSessions int
}

func NewContinuityService(db *gorm.DB, baseLog *logger.Logger, slotRepo repos.SessionSlotRepo, occRepo repos.OccurrenceRepo, sequence SequenceService, totalSessions int) ContinuityService {
	if totalSessions <= 0 {
		totalSessions = types.DefaultTotalSessions
	}
	return &continuityService{
		db:            db,
		log:           baseLog.With("service", "ContinuityService"),
		slotRepo:      slotRepo,
		occRepo:       occRepo,
		sequence:      sequence,
		totalSessions: totalSessions,
	}
}

func (s *continuityService) LastCompletedOrdinal(ctx context.Context, classGroupID uuid.UUID) (int, error) {
	slots, err := s.slotRepo.GetActiveByClassGroup(ctx, nil, classGroupID)
	if err != nil {
		return 0, fmt.Errorf("load active slots: %w", err)
	}
	occs, err := s.occRepo.ListByClassGroup(ctx, nil, classGroupID)
	if err != nil {
		return 0, fmt.Errorf("load occurrences: %w", err)
	}
	latest := latestOccurrenceBySlot(occs)

	last := 0
	for _, slot := range slots {
		if occ, ok := latest[slot.ID]; ok && occ.State.Terminal() && slot.Ordinal > last {
			last = slot.Ordinal
		}
	}
	return last, nil
}

func (s *continuityService) NextSessionFor(ctx context.Context, classGroupID, facilitatorID uuid.UUID) (*types.SessionSlot, error) {
	hasHistory, err := s.occRepo.ExistsForFacilitator(ctx, nil, classGroupID, facilitatorID)
	if err != nil {
		return nil, fmt.Errorf("check facilitator history: %w", err)
	}
	if hasHistory {
		return s.sequence.NextPending(ctx, classGroupID)
	}

	// New to this class: inherit wherever the previous facilitator left
	// off. A holiday-marked slot is not completed, so the continuation
	// ordinal can land on it.
	last, err := s.LastCompletedOrdinal(ctx, classGroupID)
	if err != nil {
		return nil, err
	}
	continuation := last + 1
	if continuation > s.totalSessions {
		return nil, nil
	}

	slot, err := s.slotRepo.GetByClassGroupAndOrdinal(ctx, nil, classGroupID, continuation)
	if err != nil {
		return nil, fmt.Errorf("load continuation slot: %w", err)
	}
	if slot == nil {
		s.log.Warn("continuation ordinal has no active slot; sequence needs repair",
			"class_group_id", classGroupID.String(),
			"continuation_ordinal", continuation)
	}
	return slot, nil
}

func (s *continuityService) AssignFacilitator(ctx context.Context, classGroupID, newFacilitatorID uuid.UUID) (*AssignmentReport, error) {
	last, err := s.LastCompletedOrdinal(ctx, classGroupID)
	if err != nil {
		return nil, err
	}

	report := &AssignmentReport{
		ClassGroupID:         classGroupID,
		NewFacilitatorID:     newFacilitatorID,
		LastCompletedOrdinal: last,
		ContinuationOrdinal:  last + 1,
	}

	// Prior facilitator is derived from history, never stored.
	latest, err := s.occRepo.GetLatestByClassGroup(ctx, nil, classGroupID)
	if err != nil {
		return nil, fmt.Errorf("load latest occurrence: %w", err)
	}
	if latest != nil {
		report.PriorFacilitatorID = latest.FacilitatorID
	}

	next, err := s.NextSessionFor(ctx, classGroupID, newFacilitatorID)
	if err != nil {
		return nil, err
	}
	report.NextSlot = next

	s.log.Info("facilitator assignment resolved",
		"class_group_id", classGroupID.String(),
		"new_facilitator_id", newFacilitatorID.String(),
		"last_completed_ordinal", report.LastCompletedOrdinal,
		"continuation_ordinal", report.ContinuationOrdinal)
	return report, nil
}

func (s *continuityService) AssignmentTimeline(ctx context.Context, classGroupID uuid.UUID) ([]FacilitatorSpan, error) {
	slots, err := s.slotRepo.GetActiveByClassGroup(ctx, nil, classGroupID)
	if err != nil {
		return nil, fmt.Errorf("load active slots: %w", err)
	}
	occs, err := s.occRepo.ListByClassGroup(ctx, nil, classGroupID)
	if err != nil {
		return nil, fmt.Errorf("load occurrences: %w", err)
	}
	latest := latestOccurrenceBySlot(occs)

	spans := []FacilitatorSpan{}
	for _, slot := range slots {
		occ, ok := latest[slot.ID]
		if !ok || occ.FacilitatorID == nil {
			continue
		}
		fid := *occ.FacilitatorID
		if n := len(spans); n > 0 && spans[n-1].FacilitatorID == fid {
			spans[n-1].EndOrdinal = slot.Ordinal
			spans[n-1].OrdinalCount++
			continue
		}
		spans = append(spans, FacilitatorSpan{
			FacilitatorID: fid,
			StartOrdinal:  slot.Ordinal,
			EndOrdinal:    slot.Ordinal,
			OrdinalCount:  1,
		})
	}
	return spans, nil
}
