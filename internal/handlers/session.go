package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/udaanlabs/pathshala-backend/internal/requestdata"
	"github.com/udaanlabs/pathshala-backend/internal/services"
)

type SessionHandler struct {
	status   services.StatusService
	sequence services.SequenceService
}

func NewSessionHandler(status services.StatusService, sequence services.SequenceService) *SessionHandler {
	return &SessionHandler{status: status, sequence: sequence}
}

func respondTransitionError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrInvalidTransition):
		RespondError(c, http.StatusConflict, "invalid_transition", err)
	case errors.Is(err, services.ErrUnknownReasonCode):
		RespondError(c, http.StatusBadRequest, "unknown_reason_code", err)
	default:
		RespondError(c, http.StatusBadRequest, "session_update_failed", err)
	}
}

func facilitatorFromContext(c *gin.Context) (uuid.UUID, bool) {
	rd := requestdata.GetRequestData(c.Request.Context())
	if rd == nil || rd.UserID == uuid.Nil {
		RespondError(c, http.StatusForbidden, "forbidden", nil)
		return uuid.Nil, false
	}
	return rd.UserID, true
}

// GET /api/class-groups/:id/next-session
func (h *SessionHandler) NextPending(c *gin.Context) {
	classGroupID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_class_group_id", err)
		return
	}
	slot, err := h.sequence.NextPending(c.Request.Context(), classGroupID)
	if err != nil {
		RespondError(c, http.StatusInternalServerError, "next_session_failed", err)
		return
	}
	if slot == nil {
		RespondOK(c, gin.H{"slot": nil, "sequence_complete": true})
		return
	}
	RespondOK(c, gin.H{"slot": slot, "sequence_complete": false})
}

// POST /api/sessions/:slotID/conduct
func (h *SessionHandler) Conduct(c *gin.Context) {
	slotID, err := uuid.Parse(c.Param("slotID"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_slot_id", err)
		return
	}
	facilitatorID, ok := facilitatorFromContext(c)
	if !ok {
		return
	}
	var req struct {
		Remarks         string `json:"remarks"`
		DurationMinutes int    `json:"duration_minutes"`
	}
	_ = c.ShouldBindJSON(&req)

	occ, err := h.status.Conduct(c.Request.Context(), slotID, facilitatorID, req.Remarks, req.DurationMinutes)
	if err != nil {
		respondTransitionError(c, err)
		return
	}
	RespondOK(c, gin.H{"occurrence": occ})
}

// POST /api/sessions/:slotID/holiday
func (h *SessionHandler) MarkHoliday(c *gin.Context) {
	slotID, err := uuid.Parse(c.Param("slotID"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_slot_id", err)
		return
	}
	facilitatorID, ok := facilitatorFromContext(c)
	if !ok {
		return
	}
	var req struct {
		Reason string `json:"reason"`
	}
	_ = c.ShouldBindJSON(&req)

	occ, err := h.status.MarkHoliday(c.Request.Context(), slotID, facilitatorID, req.Reason)
	if err != nil {
		respondTransitionError(c, err)
		return
	}
	RespondOK(c, gin.H{"occurrence": occ})
}

// POST /api/sessions/:slotID/cancel
func (h *SessionHandler) Cancel(c *gin.Context) {
	slotID, err := uuid.Parse(c.Param("slotID"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_slot_id", err)
		return
	}
	facilitatorID, ok := facilitatorFromContext(c)
	if !ok {
		return
	}
	var req struct {
		ReasonCode string `json:"reason_code"`
		Remarks    string `json:"remarks"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_request_body", err)
		return
	}

	occ, err := h.status.Cancel(c.Request.Context(), slotID, facilitatorID, req.ReasonCode, req.Remarks)
	if err != nil {
		respondTransitionError(c, err)
		return
	}
	RespondOK(c, gin.H{"occurrence": occ})
}
