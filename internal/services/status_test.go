package services

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	"github.com/udaanlabs/pathshala-backend/internal/types"
)

func newStatusFixture(t *testing.T) (StatusService, *fakeSlotRepo, *fakeOccurrenceRepo, *types.SessionSlot) {
	t.Helper()
	slotRepo := &fakeSlotRepo{}
	occRepo := &fakeOccurrenceRepo{}
	classGroupID := uuid.New()
	slots := seedSlots(slotRepo, classGroupID, 3)
	clock := &fixedClock{now: day("2026-03-02")}
	svc := NewStatusService(nil, testLogger(t), slotRepo, occRepo, clock)
	return svc, slotRepo, occRepo, slots[0]
}

func TestConductCreatesOccurrence(t *testing.T) {
	svc, _, occRepo, slot := newStatusFixture(t)
	facilitator := uuid.New()

	occ, err := svc.Conduct(context.Background(), slot.ID, facilitator, "covered chapter 2", 45)
	if err != nil {
		t.Fatalf("Conduct: %v", err)
	}
	if occ.State != types.StateConducted {
		t.Fatalf("State=%s, want conducted", occ.State)
	}
	if occ.FacilitatorID == nil || *occ.FacilitatorID != facilitator {
		t.Fatalf("FacilitatorID=%v, want %s", occ.FacilitatorID, facilitator)
	}
	if occ.Remarks == nil || *occ.Remarks != "covered chapter 2" {
		t.Fatalf("Remarks=%v", occ.Remarks)
	}
	if occ.DurationMinutes == nil || *occ.DurationMinutes != 45 {
		t.Fatalf("DurationMinutes=%v", occ.DurationMinutes)
	}
	if len(occRepo.occs) != 1 {
		t.Fatalf("stored %d occurrences, want 1", len(occRepo.occs))
	}
}

func TestHolidayThenConducted(t *testing.T) {
	svc, _, _, slot := newStatusFixture(t)
	facilitator := uuid.New()

	holiday, err := svc.MarkHoliday(context.Background(), slot.ID, facilitator, "local festival")
	if err != nil {
		t.Fatalf("MarkHoliday: %v", err)
	}
	if holiday.State != types.StateHoliday || !holiday.RescheduleAllowed {
		t.Fatalf("holiday occurrence wrong: %+v", holiday)
	}

	// A holiday is non-terminal: it may still be conducted the same day.
	occ, err := svc.Conduct(context.Background(), slot.ID, facilitator, "", 0)
	if err != nil {
		t.Fatalf("Conduct after holiday: %v", err)
	}
	if occ.State != types.StateConducted {
		t.Fatalf("State=%s, want conducted", occ.State)
	}
}

func TestTerminalStatesAreImmutable(t *testing.T) {
	svc, _, _, slot := newStatusFixture(t)
	facilitator := uuid.New()

	if _, err := svc.Conduct(context.Background(), slot.ID, facilitator, "", 0); err != nil {
		t.Fatalf("Conduct: %v", err)
	}
	_, err := svc.Cancel(context.Background(), slot.ID, facilitator, types.ReasonEmergency, "")
	if !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("Cancel after conduct err=%v, want ErrInvalidTransition", err)
	}

	_, err = svc.MarkHoliday(context.Background(), slot.ID, facilitator, "")
	if !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("MarkHoliday after conduct err=%v, want ErrInvalidTransition", err)
	}
}

func TestSameDayCorrectionOverwrites(t *testing.T) {
	svc, _, occRepo, slot := newStatusFixture(t)
	facilitator := uuid.New()

	if _, err := svc.Conduct(context.Background(), slot.ID, facilitator, "first", 30); err != nil {
		t.Fatalf("Conduct: %v", err)
	}
	occ, err := svc.Conduct(context.Background(), slot.ID, facilitator, "corrected", 40)
	if err != nil {
		t.Fatalf("same-day correction: %v", err)
	}
	if occ.Remarks == nil || *occ.Remarks != "corrected" {
		t.Fatalf("Remarks=%v, want corrected", occ.Remarks)
	}
	if len(occRepo.occs) != 1 {
		t.Fatalf("stored %d occurrences, want 1 after correction", len(occRepo.occs))
	}
}

func newStatusFixtureAt(t *testing.T, date string) (StatusService, *fakeOccurrenceRepo, *fixedClock, *types.SessionSlot) {
	t.Helper()
	slotRepo := &fakeSlotRepo{}
	occRepo := &fakeOccurrenceRepo{}
	slots := seedSlots(slotRepo, uuid.New(), 3)
	clock := &fixedClock{now: day(date)}
	svc := NewStatusService(nil, testLogger(t), slotRepo, occRepo, clock)
	return svc, occRepo, clock, slots[0]
}

func TestHolidayCannotBeCancelledOnALaterDate(t *testing.T) {
	svc, occRepo, clock, slot := newStatusFixtureAt(t, "2026-03-02")
	facilitator := uuid.New()

	if _, err := svc.MarkHoliday(context.Background(), slot.ID, facilitator, "local festival"); err != nil {
		t.Fatalf("MarkHoliday: %v", err)
	}

	clock.now = day("2026-03-03")
	_, err := svc.Cancel(context.Background(), slot.ID, facilitator, types.ReasonSchoolClosed, "")
	if !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("Cancel after holiday on a later date err=%v, want ErrInvalidTransition", err)
	}
	if len(occRepo.occs) != 1 {
		t.Fatalf("stored %d occurrences, want 1 after rejected cross-date cancel", len(occRepo.occs))
	}

	// Conducting the inherited holiday slot on the later date is the one
	// transition a holiday admits.
	occ, err := svc.Conduct(context.Background(), slot.ID, facilitator, "", 0)
	if err != nil {
		t.Fatalf("Conduct after holiday on a later date: %v", err)
	}
	if occ.State != types.StateConducted || !occ.Date.Equal(day("2026-03-03")) {
		t.Fatalf("occurrence wrong: %+v", occ)
	}
	if len(occRepo.occs) != 2 {
		t.Fatalf("stored %d occurrences, want a new row for the new date", len(occRepo.occs))
	}
}

func TestTerminalStateHoldsAcrossDates(t *testing.T) {
	svc, occRepo, clock, slot := newStatusFixtureAt(t, "2026-03-02")
	facilitator := uuid.New()

	if _, err := svc.Conduct(context.Background(), slot.ID, facilitator, "", 0); err != nil {
		t.Fatalf("Conduct: %v", err)
	}

	clock.now = day("2026-03-03")
	if _, err := svc.Cancel(context.Background(), slot.ID, facilitator, types.ReasonEmergency, ""); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("Cancel after conduct on a later date err=%v, want ErrInvalidTransition", err)
	}
	if _, err := svc.Conduct(context.Background(), slot.ID, facilitator, "", 0); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("re-Conduct on a later date err=%v, want ErrInvalidTransition", err)
	}
	if _, err := svc.MarkHoliday(context.Background(), slot.ID, facilitator, ""); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("MarkHoliday after conduct on a later date err=%v, want ErrInvalidTransition", err)
	}
	if len(occRepo.occs) != 1 {
		t.Fatalf("stored %d occurrences, want the single terminal row", len(occRepo.occs))
	}
}

func TestHolidayMayRepeatAcrossDates(t *testing.T) {
	svc, occRepo, clock, slot := newStatusFixtureAt(t, "2026-03-02")
	facilitator := uuid.New()

	if _, err := svc.MarkHoliday(context.Background(), slot.ID, facilitator, "festival day one"); err != nil {
		t.Fatalf("MarkHoliday: %v", err)
	}
	clock.now = day("2026-03-03")
	if _, err := svc.MarkHoliday(context.Background(), slot.ID, facilitator, "festival day two"); err != nil {
		t.Fatalf("MarkHoliday on second date: %v", err)
	}
	if len(occRepo.occs) != 2 {
		t.Fatalf("stored %d occurrences, want one per holiday date", len(occRepo.occs))
	}

	clock.now = day("2026-03-04")
	occ, err := svc.Conduct(context.Background(), slot.ID, facilitator, "", 0)
	if err != nil {
		t.Fatalf("Conduct after repeated holidays: %v", err)
	}
	if occ.State != types.StateConducted {
		t.Fatalf("State=%s, want conducted", occ.State)
	}
}

func TestCancelRejectsUnknownReasonCode(t *testing.T) {
	svc, _, occRepo, slot := newStatusFixture(t)

	_, err := svc.Cancel(context.Background(), slot.ID, uuid.New(), "rainy_day", "")
	if !errors.Is(err, ErrUnknownReasonCode) {
		t.Fatalf("err=%v, want ErrUnknownReasonCode", err)
	}
	if len(occRepo.occs) != 0 {
		t.Fatalf("unknown reason code must not mutate state")
	}
}

func TestCancelStoresReasonCode(t *testing.T) {
	svc, _, _, slot := newStatusFixture(t)

	occ, err := svc.Cancel(context.Background(), slot.ID, uuid.New(), types.ReasonSchoolClosed, "flooding")
	if err != nil {
		t.Fatalf("Cancel: %v", err)
	}
	if occ.State != types.StateCancelled {
		t.Fatalf("State=%s, want cancelled", occ.State)
	}
	if occ.CancellationReason == nil || *occ.CancellationReason != types.ReasonSchoolClosed {
		t.Fatalf("CancellationReason=%v", occ.CancellationReason)
	}
}
