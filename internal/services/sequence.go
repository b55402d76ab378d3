package services

import (
	"context"
	"fmt"
	"math"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/udaanlabs/pathshala-backend/internal/logger"
	"github.com/udaanlabs/pathshala-backend/internal/repos"
	"github.com/udaanlabs/pathshala-backend/internal/types"
)

type ProgressReport struct {
	Total         int     `json:"total"`
	Conducted     int     `json:"conducted"`
	Cancelled     int     `json:"cancelled"`
	Holiday       int     `json:"holiday"`
	Pending       int     `json:"pending"`
	CompletionPct float64 `json:"completion_pct"`
	NextOrdinal   int     `json:"next_ordinal"`
}

type IntegrityReport struct {
	IsValid           bool     `json:"is_valid"`
	Errors            []string `json:"errors"`
	Warnings          []string `json:"warnings"`
	MissingOrdinals   []int    `json:"missing_ordinals,omitempty"`
	DuplicateOrdinals []int    `json:"duplicate_ordinals,omitempty"`
}

type SequenceService interface {
	// NextPending returns the slot the class group is currently on. If any
	// occurrence was recorded today the slot it belongs to is returned
	// unchanged, terminal or not; the active ordinal only advances with
	// the calendar date. Returns nil when every active slot is terminal.
	NextPending(ctx context.Context, classGroupID uuid.UUID) (*types.SessionSlot, error)
	ValidateIntegrity(ctx context.Context, classGroupID uuid.UUID) (*IntegrityReport, error)
	Progress(ctx context.Context, classGroupID uuid.UUID) (*ProgressReport, error)
}

type sequenceService struct {
	db            *gorm.DB
	log           *logger.Logger
	slotRepo      repos.SessionSlotRepo
	occRepo       repos.OccurrenceRepo
	clock         Clock
	totalSessions int
}

func NewSequenceService(db *gorm.DB, baseLog *logger.Logger, slotRepo repos.SessionSlotRepo, occRepo repos.OccurrenceRepo, clock Clock, totalSessions int) SequenceService {
	if totalSessions <= 0 {
		totalSessions = types.DefaultTotalSessions
	}
	return &sequenceService{
		db:            db,
		log:           baseLog.With("service", "SequenceService"),
		slotRepo:      slotRepo,
		occRepo:       occRepo,
		clock:         clock,
		totalSessions: totalSessions,
	}
}

// latestOccurrenceBySlot folds occurrences (sorted date-ascending by the
// repo) down to the newest row per slot. Spans and progress are always
// derived from this fold rather than stored.
func latestOccurrenceBySlot(occs []*types.SessionOccurrence) map[uuid.UUID]*types.SessionOccurrence {
	latest := make(map[uuid.UUID]*types.SessionOccurrence, len(occs))
	for _, occ := range occs {
		latest[occ.SlotID] = occ
	}
	return latest
}

func (s *sequenceService) NextPending(ctx context.Context, classGroupID uuid.UUID) (*types.SessionSlot, error) {
	today := s.clock.Today()

	todayOcc, err := s.occRepo.GetByClassGroupAndDate(ctx, nil, classGroupID, today)
	if err != nil {
		return nil, fmt.Errorf("load today's occurrence: %w", err)
	}
	if todayOcc != nil {
		slot, err := s.slotRepo.GetByID(ctx, nil, todayOcc.SlotID)
		if err != nil {
			return nil, fmt.Errorf("load slot for today's occurrence: %w", err)
		}
		return slot, nil
	}

	slots, err := s.slotRepo.GetActiveByClassGroup(ctx, nil, classGroupID)
	if err != nil {
		return nil, fmt.Errorf("load active slots: %w", err)
	}
	if len(slots) == 0 {
		// Distinct anomaly from "sequence completed": the class was never
		// seeded, or every slot was deactivated.
		s.log.Warn("class group has no active session slots", "class_group_id", classGroupID.String())
		return nil, nil
	}

	occs, err := s.occRepo.ListByClassGroup(ctx, nil, classGroupID)
	if err != nil {
		return nil, fmt.Errorf("load occurrences: %w", err)
	}
	latest := latestOccurrenceBySlot(occs)

	for _, slot := range slots {
		occ, ok := latest[slot.ID]
		if !ok || !occ.State.Terminal() {
			return slot, nil
		}
	}
	return nil, nil
}

func (s *sequenceService) ValidateIntegrity(ctx context.Context, classGroupID uuid.UUID) (*IntegrityReport, error) {
	slots, err := s.slotRepo.GetActiveByClassGroup(ctx, nil, classGroupID)
	if err != nil {
		return nil, fmt.Errorf("load active slots: %w", err)
	}

	report := &IntegrityReport{Errors: []string{}, Warnings: []string{}}

	if len(slots) == 0 {
		report.Errors = append(report.Errors, "no active session slots exist for this class group")
		report.IsValid = false
		return report, nil
	}

	seen := make(map[int]int, len(slots))
	for _, slot := range slots {
		seen[slot.Ordinal]++
		if slot.Ordinal < 1 || slot.Ordinal > s.totalSessions {
			report.Errors = append(report.Errors, fmt.Sprintf("ordinal %d is outside the valid range [1,%d]", slot.Ordinal, s.totalSessions))
		}
		if slot.Position != slot.Ordinal {
			report.Warnings = append(report.Warnings, fmt.Sprintf("slot ordinal %d has drifted position %d", slot.Ordinal, slot.Position))
		}
	}

	for ordinal := 1; ordinal <= s.totalSessions; ordinal++ {
		count := seen[ordinal]
		if count == 0 {
			report.MissingOrdinals = append(report.MissingOrdinals, ordinal)
		} else if count > 1 {
			report.DuplicateOrdinals = append(report.DuplicateOrdinals, ordinal)
		}
	}
	if len(report.MissingOrdinals) > 0 {
		report.Errors = append(report.Errors, fmt.Sprintf("missing ordinals: %v", report.MissingOrdinals))
	}
	if len(report.DuplicateOrdinals) > 0 {
		report.Errors = append(report.Errors, fmt.Sprintf("duplicate ordinals: %v", report.DuplicateOrdinals))
	}

	report.IsValid = len(report.Errors) == 0
	if !report.IsValid {
		s.log.Warn("sequence integrity violation",
			"class_group_id", classGroupID.String(),
			"errors", report.Errors)
	}
	return report, nil
}

func (s *sequenceService) Progress(ctx context.Context, classGroupID uuid.UUID) (*ProgressReport, error) {
	slots, err := s.slotRepo.GetActiveByClassGroup(ctx, nil, classGroupID)
	if err != nil {
		return nil, fmt.Errorf("load active slots: %w", err)
	}
	occs, err := s.occRepo.ListByClassGroup(ctx, nil, classGroupID)
	if err != nil {
		return nil, fmt.Errorf("load occurrences: %w", err)
	}
	latest := latestOccurrenceBySlot(occs)

	report := &ProgressReport{Total: len(slots)}
	for _, slot := range slots {
		occ, ok := latest[slot.ID]
		if !ok {
			report.Pending++
			continue
		}
		switch occ.State {
		case types.StateConducted:
			report.Conducted++
		case types.StateCancelled:
			report.Cancelled++
		case types.StateHoliday:
			report.Holiday++
		default:
			report.Pending++
		}
	}
	if report.Total > 0 {
		pct := float64(report.Conducted+report.Cancelled) / float64(report.Total) * 100
		report.CompletionPct = math.Round(pct*100) / 100
	}

	next, err := s.NextPending(ctx, classGroupID)
	if err != nil {
		return nil, err
	}
	if next != nil {
		report.NextOrdinal = next.Ordinal
	} else {
		// Sentinel: one past the end of the sequence, not an error.
		report.NextOrdinal = s.totalSessions + 1
	}
	return report, nil
}
