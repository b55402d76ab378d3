package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/udaanlabs/pathshala-backend/internal/requestdata"
	"github.com/udaanlabs/pathshala-backend/internal/services"
	"github.com/udaanlabs/pathshala-backend/internal/types"
)

type fakeStatusService struct {
	err error
	occ *types.SessionOccurrence
}

func (f *fakeStatusService) Conduct(ctx context.Context, slotID, facilitatorID uuid.UUID, remarks string, durationMinutes int) (*types.SessionOccurrence, error) {
	return f.occ, f.err
}

func (f *fakeStatusService) MarkHoliday(ctx context.Context, slotID, facilitatorID uuid.UUID, reason string) (*types.SessionOccurrence, error) {
	return f.occ, f.err
}

func (f *fakeStatusService) Cancel(ctx context.Context, slotID, facilitatorID uuid.UUID, reasonCode, remarks string) (*types.SessionOccurrence, error) {
	return f.occ, f.err
}

type fakeSequenceService struct {
	slot *types.SessionSlot
}

func (f *fakeSequenceService) NextPending(ctx context.Context, classGroupID uuid.UUID) (*types.SessionSlot, error) {
	return f.slot, nil
}

func (f *fakeSequenceService) ValidateIntegrity(ctx context.Context, classGroupID uuid.UUID) (*services.IntegrityReport, error) {
	return &services.IntegrityReport{IsValid: true}, nil
}

func (f *fakeSequenceService) Progress(ctx context.Context, classGroupID uuid.UUID) (*services.ProgressReport, error) {
	return &services.ProgressReport{}, nil
}

func conductRequest(t *testing.T, h *SessionHandler, slotID string, facilitatorID uuid.UUID) *httptest.ResponseRecorder {
	t.Helper()
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Params = gin.Params{{Key: "slotID", Value: slotID}}
	req := httptest.NewRequest(http.MethodPost, "/", nil)
	if facilitatorID != uuid.Nil {
		ctx := requestdata.WithRequestData(req.Context(), &requestdata.RequestData{UserID: facilitatorID})
		req = req.WithContext(ctx)
	}
	c.Request = req
	h.Conduct(c)
	return w
}

func decodeEnvelope(t *testing.T, w *httptest.ResponseRecorder) ErrorEnvelope {
	t.Helper()
	var envelope ErrorEnvelope
	if err := json.Unmarshal(w.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("decode error envelope: %v (body %s)", err, w.Body.String())
	}
	return envelope
}

func TestConductMapsInvalidTransitionToConflict(t *testing.T) {
	h := NewSessionHandler(&fakeStatusService{err: services.ErrInvalidTransition}, &fakeSequenceService{})

	w := conductRequest(t, h, uuid.New().String(), uuid.New())
	if w.Code != http.StatusConflict {
		t.Fatalf("status=%d, want 409", w.Code)
	}
	envelope := decodeEnvelope(t, w)
	if envelope.Error.Code != "invalid_transition" {
		t.Fatalf("code=%q, want invalid_transition", envelope.Error.Code)
	}
	if envelope.Error.Message == "" {
		t.Fatalf("error envelope missing message")
	}
}

func TestConductRejectsBadSlotID(t *testing.T) {
	h := NewSessionHandler(&fakeStatusService{}, &fakeSequenceService{})

	w := conductRequest(t, h, "not-a-uuid", uuid.New())
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status=%d, want 400", w.Code)
	}
	if envelope := decodeEnvelope(t, w); envelope.Error.Code != "invalid_slot_id" {
		t.Fatalf("code=%q, want invalid_slot_id", envelope.Error.Code)
	}
}

func TestConductRequiresIdentity(t *testing.T) {
	h := NewSessionHandler(&fakeStatusService{}, &fakeSequenceService{})

	w := conductRequest(t, h, uuid.New().String(), uuid.Nil)
	if w.Code != http.StatusForbidden {
		t.Fatalf("status=%d, want 403", w.Code)
	}
	if envelope := decodeEnvelope(t, w); envelope.Error.Code != "forbidden" {
		t.Fatalf("code=%q, want forbidden", envelope.Error.Code)
	}
}

func TestConductSuccessEnvelope(t *testing.T) {
	occ := &types.SessionOccurrence{ID: uuid.New(), State: types.StateConducted}
	h := NewSessionHandler(&fakeStatusService{occ: occ}, &fakeSequenceService{})

	w := conductRequest(t, h, uuid.New().String(), uuid.New())
	if w.Code != http.StatusOK {
		t.Fatalf("status=%d, want 200", w.Code)
	}
	var body struct {
		Occurrence *types.SessionOccurrence `json:"occurrence"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body.Occurrence == nil || body.Occurrence.State != types.StateConducted {
		t.Fatalf("occurrence missing from response: %s", w.Body.String())
	}
}
