package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/udaanlabs/pathshala-backend/internal/services"
)

type ContinuityHandler struct {
	continuity services.ContinuityService
}

func NewContinuityHandler(continuity services.ContinuityService) *ContinuityHandler {
	return &ContinuityHandler{continuity: continuity}
}

// GET /api/class-groups/:id/next-session-for/:facilitatorID
func (h *ContinuityHandler) NextSessionFor(c *gin.Context) {
	classGroupID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_class_group_id", err)
		return
	}
	facilitatorID, err := uuid.Parse(c.Param("facilitatorID"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_facilitator_id", err)
		return
	}
	slot, err := h.continuity.NextSessionFor(c.Request.Context(), classGroupID, facilitatorID)
	if err != nil {
		RespondError(c, http.StatusInternalServerError, "next_session_for_failed", err)
		return
	}
	if slot == nil {
		RespondOK(c, gin.H{"slot": nil, "sequence_complete": true})
		return
	}
	RespondOK(c, gin.H{"slot": slot, "sequence_complete": false})
}

// POST /api/class-groups/:id/assign
func (h *ContinuityHandler) Assign(c *gin.Context) {
	classGroupID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_class_group_id", err)
		return
	}
	var req struct {
		FacilitatorID uuid.UUID `json:"facilitator_id"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || req.FacilitatorID == uuid.Nil {
		RespondError(c, http.StatusBadRequest, "facilitator_id_required", err)
		return
	}
	report, err := h.continuity.AssignFacilitator(c.Request.Context(), classGroupID, req.FacilitatorID)
	if err != nil {
		RespondError(c, http.StatusInternalServerError, "assign_failed", err)
		return
	}
	RespondOK(c, gin.H{"assignment": report})
}

// GET /api/class-groups/:id/timeline
func (h *ContinuityHandler) Timeline(c *gin.Context) {
	classGroupID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_class_group_id", err)
		return
	}
	spans, err := h.continuity.AssignmentTimeline(c.Request.Context(), classGroupID)
	if err != nil {
		RespondError(c, http.StatusInternalServerError, "load_timeline_failed", err)
		return
	}
	RespondOK(c, gin.H{"timeline": spans})
}
