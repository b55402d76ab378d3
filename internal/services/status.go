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

// validTransitions is the full occurrence state machine. Absence of an
// entry means the transition is illegal, whatever the date. A holiday
// slot may be marked holiday again on a later date; terminal states
// admit nothing further.
var validTransitions = map[types.OccurrenceState]map[types.OccurrenceState]bool{
	types.StatePending: {
		types.StateConducted: true,
		types.StateHoliday:   true,
		types.StateCancelled: true,
	},
	types.StateHoliday: {
		types.StateConducted: true,
		types.StateHoliday:   true,
	},
	types.StateConducted: {},
	types.StateCancelled: {},
}

// canTransition treats a same-state request against today's existing row
// as a correction, not a transition; across dates the table is strict.
func canTransition(from, to types.OccurrenceState, sameDate bool) bool {
	if sameDate && from == to {
		return true
	}
	return validTransitions[from][to]
}

type StatusService interface {
	Conduct(ctx context.Context, slotID, facilitatorID uuid.UUID, remarks string, durationMinutes int) (*types.SessionOccurrence, error)
	MarkHoliday(ctx context.Context, slotID, facilitatorID uuid.UUID, reason string) (*types.SessionOccurrence, error)
	Cancel(ctx context.Context, slotID, facilitatorID uuid.UUID, reasonCode, remarks string) (*types.SessionOccurrence, error)
}

type statusService struct {
	db       *gorm.DB
	log      *logger.Logger
	slotRepo repos.SessionSlotRepo
	occRepo  repos.OccurrenceRepo
	clock    Clock
}

func NewStatusService(db *gorm.DB, baseLog *logger.Logger, slotRepo repos.SessionSlotRepo, occRepo repos.OccurrenceRepo, clock Clock) StatusService {
	return &statusService{
		db:       db,
		log:      baseLog.With("service", "StatusService"),
		slotRepo: slotRepo,
		occRepo:  occRepo,
		clock:    clock,
	}
}

func (s *statusService) Conduct(ctx context.Context, slotID, facilitatorID uuid.UUID, remarks string, durationMinutes int) (*types.SessionOccurrence, error) {
	return s.apply(ctx, slotID, facilitatorID, types.StateConducted, func(occ *types.SessionOccurrence) {
		if remarks != "" {
			occ.Remarks = &remarks
		}
		if durationMinutes > 0 {
			occ.DurationMinutes = &durationMinutes
		}
		occ.CancellationReason = nil
		occ.RescheduleAllowed = false
	})
}

func (s *statusService) MarkHoliday(ctx context.Context, slotID, facilitatorID uuid.UUID, reason string) (*types.SessionOccurrence, error) {
	return s.apply(ctx, slotID, facilitatorID, types.StateHoliday, func(occ *types.SessionOccurrence) {
		if reason != "" {
			occ.Remarks = &reason
		}
		occ.RescheduleAllowed = true
	})
}

func (s *statusService) Cancel(ctx context.Context, slotID, facilitatorID uuid.UUID, reasonCode, remarks string) (*types.SessionOccurrence, error) {
	// Reason code membership is checked before touching any state.
	if !types.ValidCancellationReason(reasonCode) {
		return nil, fmt.Errorf("%w: %q", ErrUnknownReasonCode, reasonCode)
	}
	return s.apply(ctx, slotID, facilitatorID, types.StateCancelled, func(occ *types.SessionOccurrence) {
		occ.CancellationReason = &reasonCode
		if remarks != "" {
			occ.Remarks = &remarks
		}
		occ.RescheduleAllowed = false
	})
}

// apply performs the guarded read-modify-write for today's occurrence of
// the slot. The current row is locked so two near-simultaneous requests
// against the same (slot, date) pair cannot both win conflicting
// transitions. The from state is the slot's latest occurrence across all
// dates: a terminal slot stays terminal after the calendar rolls over.
func (s *statusService) apply(ctx context.Context, slotID, facilitatorID uuid.UUID, target types.OccurrenceState, mutate func(*types.SessionOccurrence)) (*types.SessionOccurrence, error) {
	today := s.clock.Today()

	var result *types.SessionOccurrence
	err := runInTx(ctx, s.db, func(tx *gorm.DB) error {
		slot, err := s.slotRepo.GetByID(ctx, tx, slotID)
		if err != nil {
			return fmt.Errorf("load slot: %w", err)
		}

		current, err := s.occRepo.GetBySlotAndDateForUpdate(ctx, tx, slotID, today)
		if err != nil {
			return fmt.Errorf("load current occurrence: %w", err)
		}

		from := types.StatePending
		if current != nil {
			from = current.State
		} else {
			latest, err := s.occRepo.GetLatestBySlotForUpdate(ctx, tx, slotID)
			if err != nil {
				return fmt.Errorf("load latest occurrence: %w", err)
			}
			if latest != nil {
				from = latest.State
			}
		}
		if !canTransition(from, target, current != nil) {
			return fmt.Errorf("%w: ordinal %d of class group %s cannot go %s -> %s",
				ErrInvalidTransition, slot.Ordinal, slot.ClassGroupID, from, target)
		}

		occ := current
		if occ == nil {
			occ = &types.SessionOccurrence{
				SlotID:       slotID,
				ClassGroupID: slot.ClassGroupID,
				Date:         today,
			}
		}
		occ.State = target
		occ.FacilitatorID = &facilitatorID
		mutate(occ)

		if err := s.occRepo.Upsert(ctx, tx, occ); err != nil {
			return fmt.Errorf("upsert occurrence: %w", err)
		}

		s.log.Info("session occurrence recorded",
			"class_group_id", slot.ClassGroupID.String(),
			"ordinal", slot.Ordinal,
			"state", string(target),
			"facilitator_id", facilitatorID.String())
		result = occ
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}
