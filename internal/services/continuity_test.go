package services

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/udaanlabs/pathshala-backend/internal/types"
)

func newContinuityFixture(t *testing.T, total int) (ContinuityService, *fakeSlotRepo, *fakeOccurrenceRepo, uuid.UUID) {
	t.Helper()
	slotRepo := &fakeSlotRepo{}
	occRepo := &fakeOccurrenceRepo{}
	classGroupID := uuid.New()
	seedSlots(slotRepo, classGroupID, total)
	clock := &fixedClock{now: day("2026-03-02")}
	log := testLogger(t)
	sequence := NewSequenceService(nil, log, slotRepo, occRepo, clock, total)
	svc := NewContinuityService(nil, log, slotRepo, occRepo, sequence, total)
	return svc, slotRepo, occRepo, classGroupID
}

func conductRange(occRepo *fakeOccurrenceRepo, slots []*types.SessionSlot, facilitator uuid.UUID, from, to int, start time.Time) time.Time {
	date := start
	for i := from - 1; i < to; i++ {
		record(occRepo, slots[i], facilitator, types.StateConducted, date)
		date = date.AddDate(0, 0, 1)
	}
	return date
}

func TestNewFacilitatorResumesAfterHandover(t *testing.T) {
	svc, slotRepo, occRepo, classGroupID := newContinuityFixture(t, 150)
	alice := uuid.New()
	bob := uuid.New()

	slots, _ := slotRepo.GetActiveByClassGroup(context.Background(), nil, classGroupID)
	conductRange(occRepo, slots, alice, 1, 50, day("2025-10-01"))

	last, err := svc.LastCompletedOrdinal(context.Background(), classGroupID)
	if err != nil {
		t.Fatalf("LastCompletedOrdinal: %v", err)
	}
	if last != 50 {
		t.Fatalf("LastCompletedOrdinal=%d, want 50", last)
	}

	slot, err := svc.NextSessionFor(context.Background(), classGroupID, bob)
	if err != nil {
		t.Fatalf("NextSessionFor: %v", err)
	}
	if slot == nil || slot.Ordinal != 51 {
		t.Fatalf("new facilitator got %+v, want ordinal 51", slot)
	}
}

func TestHolidayOrdinalIsInheritedNotSkipped(t *testing.T) {
	svc, slotRepo, occRepo, classGroupID := newContinuityFixture(t, 150)
	alice := uuid.New()
	bob := uuid.New()

	slots, _ := slotRepo.GetActiveByClassGroup(context.Background(), nil, classGroupID)
	date := conductRange(occRepo, slots, alice, 1, 40, day("2025-10-01"))
	// Ordinal 41 fell on a holiday: recorded but not completed.
	record(occRepo, slots[40], alice, types.StateHoliday, date)

	slot, err := svc.NextSessionFor(context.Background(), classGroupID, bob)
	if err != nil {
		t.Fatalf("NextSessionFor: %v", err)
	}
	if slot == nil || slot.Ordinal != 41 {
		t.Fatalf("got %+v, want the holiday ordinal 41", slot)
	}
}

func TestReturningFacilitatorGetsNextPending(t *testing.T) {
	svc, slotRepo, occRepo, classGroupID := newContinuityFixture(t, 150)
	alice := uuid.New()

	slots, _ := slotRepo.GetActiveByClassGroup(context.Background(), nil, classGroupID)
	conductRange(occRepo, slots, alice, 1, 12, day("2025-10-01"))

	slot, err := svc.NextSessionFor(context.Background(), classGroupID, alice)
	if err != nil {
		t.Fatalf("NextSessionFor: %v", err)
	}
	if slot == nil || slot.Ordinal != 13 {
		t.Fatalf("returning facilitator got %+v, want ordinal 13", slot)
	}
}

func TestNextSessionForCompletedSequence(t *testing.T) {
	svc, slotRepo, occRepo, classGroupID := newContinuityFixture(t, 5)
	alice := uuid.New()
	bob := uuid.New()

	slots, _ := slotRepo.GetActiveByClassGroup(context.Background(), nil, classGroupID)
	conductRange(occRepo, slots, alice, 1, 5, day("2025-10-01"))

	slot, err := svc.NextSessionFor(context.Background(), classGroupID, bob)
	if err != nil {
		t.Fatalf("NextSessionFor: %v", err)
	}
	if slot != nil {
		t.Fatalf("got %+v, want nil for completed sequence", slot)
	}
}

func TestAssignFacilitatorReport(t *testing.T) {
	svc, slotRepo, occRepo, classGroupID := newContinuityFixture(t, 150)
	alice := uuid.New()
	bob := uuid.New()

	slots, _ := slotRepo.GetActiveByClassGroup(context.Background(), nil, classGroupID)
	conductRange(occRepo, slots, alice, 1, 50, day("2025-10-01"))

	report, err := svc.AssignFacilitator(context.Background(), classGroupID, bob)
	if err != nil {
		t.Fatalf("AssignFacilitator: %v", err)
	}
	if report.LastCompletedOrdinal != 50 || report.ContinuationOrdinal != 51 {
		t.Fatalf("report ordinals wrong: %+v", report)
	}
	if report.PriorFacilitatorID == nil || *report.PriorFacilitatorID != alice {
		t.Fatalf("PriorFacilitatorID=%v, want %s", report.PriorFacilitatorID, alice)
	}
	if report.NextSlot == nil || report.NextSlot.Ordinal != 51 {
		t.Fatalf("NextSlot=%+v, want ordinal 51", report.NextSlot)
	}
	// Assignment is informational: nothing was written.
	if len(occRepo.occs) != 50 {
		t.Fatalf("assignment mutated occurrences: %d", len(occRepo.occs))
	}
}

func TestAssignmentTimelineSpans(t *testing.T) {
	svc, slotRepo, occRepo, classGroupID := newContinuityFixture(t, 100)
	alice := uuid.New()
	bob := uuid.New()

	slots, _ := slotRepo.GetActiveByClassGroup(context.Background(), nil, classGroupID)
	date := conductRange(occRepo, slots, alice, 1, 50, day("2025-09-01"))
	conductRange(occRepo, slots, bob, 51, 80, date)

	spans, err := svc.AssignmentTimeline(context.Background(), classGroupID)
	if err != nil {
		t.Fatalf("AssignmentTimeline: %v", err)
	}
	if len(spans) != 2 {
		t.Fatalf("got %d spans, want 2: %+v", len(spans), spans)
	}
	if spans[0].FacilitatorID != alice || spans[0].StartOrdinal != 1 || spans[0].EndOrdinal != 50 || spans[0].OrdinalCount != 50 {
		t.Fatalf("first span wrong: %+v", spans[0])
	}
	if spans[1].FacilitatorID != bob || spans[1].StartOrdinal != 51 || spans[1].EndOrdinal != 80 || spans[1].OrdinalCount != 30 {
		t.Fatalf("second span wrong: %+v", spans[1])
	}
}
