package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/udaanlabs/pathshala-backend/internal/services"
	"github.com/udaanlabs/pathshala-backend/internal/types"
)

type ClassGroupHandler struct {
	groupService services.ClassGroupService
	sequence     services.SequenceService
	seeder       services.SeederService
}

func NewClassGroupHandler(groupService services.ClassGroupService, sequence services.SequenceService, seeder services.SeederService) *ClassGroupHandler {
	return &ClassGroupHandler{
		groupService: groupService,
		sequence:     sequence,
		seeder:       seeder,
	}
}

// POST /api/class-groups
func (h *ClassGroupHandler) Create(c *gin.Context) {
	var req struct {
		SchoolName string                           `json:"school_name"`
		Grade      string                           `json:"grade"`
		Section    string                           `json:"section"`
		Template   map[string]services.SlotTemplate `json:"template"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_request_body", err)
		return
	}
	group := types.ClassGroup{
		SchoolName: req.SchoolName,
		Grade:      req.Grade,
		Section:    req.Section,
	}
	created, err := h.groupService.Create(c.Request.Context(), &group, req.Template)
	if err != nil {
		RespondError(c, http.StatusBadRequest, "create_class_group_failed", err)
		return
	}
	RespondOK(c, gin.H{"class_group": created})
}

// GET /api/class-groups
func (h *ClassGroupHandler) List(c *gin.Context) {
	onlyActive := c.Query("active") == "true"
	groups, err := h.groupService.List(c.Request.Context(), onlyActive)
	if err != nil {
		RespondError(c, http.StatusInternalServerError, "load_class_groups_failed", err)
		return
	}
	RespondOK(c, gin.H{"class_groups": groups})
}

// GET /api/class-groups/:id
func (h *ClassGroupHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_class_group_id", err)
		return
	}
	group, err := h.groupService.GetByID(c.Request.Context(), id)
	if err != nil {
		RespondError(c, http.StatusNotFound, "class_group_not_found", err)
		return
	}
	RespondOK(c, gin.H{"class_group": group})
}

// PATCH /api/class-groups/:id/active
func (h *ClassGroupHandler) SetActive(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_class_group_id", err)
		return
	}
	var req struct {
		IsActive bool `json:"is_active"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_request_body", err)
		return
	}
	if err := h.groupService.SetActive(c.Request.Context(), id, req.IsActive); err != nil {
		RespondError(c, http.StatusBadRequest, "set_active_failed", err)
		return
	}
	RespondOK(c, gin.H{"class_group_id": id, "is_active": req.IsActive})
}

// GET /api/class-groups/:id/progress
func (h *ClassGroupHandler) Progress(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_class_group_id", err)
		return
	}
	report, err := h.sequence.Progress(c.Request.Context(), id)
	if err != nil {
		RespondError(c, http.StatusInternalServerError, "load_progress_failed", err)
		return
	}
	RespondOK(c, gin.H{"progress": report})
}

// GET /api/class-groups/:id/integrity
func (h *ClassGroupHandler) Integrity(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_class_group_id", err)
		return
	}
	report, err := h.sequence.ValidateIntegrity(c.Request.Context(), id)
	if err != nil {
		RespondError(c, http.StatusInternalServerError, "validate_integrity_failed", err)
		return
	}
	RespondOK(c, gin.H{"integrity": report})
}

// POST /api/class-groups/:id/repair
func (h *ClassGroupHandler) Repair(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_class_group_id", err)
		return
	}
	result, err := h.seeder.RepairGaps(c.Request.Context(), id)
	if err != nil {
		RespondError(c, http.StatusInternalServerError, "repair_failed", err)
		return
	}
	RespondOK(c, gin.H{"repair": result})
}

// POST /api/class-groups/:id/generate
func (h *ClassGroupHandler) Generate(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_class_group_id", err)
		return
	}
	// Body is optional; a bare POST generates untitled slots.
	var req struct {
		Template map[string]services.SlotTemplate `json:"template"`
	}
	_ = c.ShouldBindJSON(&req)
	result, err := h.seeder.GenerateFullSequence(c.Request.Context(), id, req.Template)
	if err != nil {
		if errors.Is(err, services.ErrDuplicateSequence) {
			RespondError(c, http.StatusConflict, "sequence_already_generated", err)
			return
		}
		RespondError(c, http.StatusBadRequest, "generate_failed", err)
		return
	}
	RespondOK(c, gin.H{"generated": result})
}

// POST /api/class-groups/generate-all
func (h *ClassGroupHandler) GenerateAll(c *gin.Context) {
	var req struct {
		ClassGroupIDs []uuid.UUID                      `json:"class_group_ids"`
		Template      map[string]services.SlotTemplate `json:"template"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_request_body", err)
		return
	}
	if len(req.ClassGroupIDs) == 0 {
		RespondError(c, http.StatusBadRequest, "class_group_ids_required", nil)
		return
	}
	outcomes := h.seeder.GenerateForAll(c.Request.Context(), req.ClassGroupIDs, req.Template)
	RespondOK(c, gin.H{"outcomes": outcomes})
}
