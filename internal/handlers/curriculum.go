package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/udaanlabs/pathshala-backend/internal/services"
	"github.com/udaanlabs/pathshala-backend/internal/types"
)

type CurriculumHandler struct {
	curriculum services.CurriculumService
}

func NewCurriculumHandler(curriculum services.CurriculumService) *CurriculumHandler {
	return &CurriculumHandler{curriculum: curriculum}
}

type curriculumDayRequest struct {
	DayNumber             int            `json:"day_number"`
	Language              string         `json:"language"`
	Title                 string         `json:"title"`
	Summary               string         `json:"summary"`
	Blocks                datatypes.JSON `json:"blocks"`
	ActiveForFacilitators *bool          `json:"active_for_facilitators"`
	ForceFallback         bool           `json:"force_fallback"`
}

// POST /api/curriculum/days
func (h *CurriculumHandler) Create(c *gin.Context) {
	var req curriculumDayRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_request_body", err)
		return
	}
	active := true
	if req.ActiveForFacilitators != nil {
		active = *req.ActiveForFacilitators
	}
	row := types.CurriculumDay{
		DayNumber:             req.DayNumber,
		Language:              req.Language,
		Title:                 req.Title,
		Summary:               req.Summary,
		Blocks:                req.Blocks,
		ActiveForFacilitators: active,
		ForceFallback:         req.ForceFallback,
	}
	created, err := h.curriculum.CreateDay(c.Request.Context(), &row)
	if err != nil {
		RespondError(c, http.StatusBadRequest, "create_curriculum_day_failed", err)
		return
	}
	RespondOK(c, gin.H{"curriculum_day": created})
}

// PUT /api/curriculum/days/:id
func (h *CurriculumHandler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_curriculum_day_id", err)
		return
	}
	var req curriculumDayRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_request_body", err)
		return
	}
	active := true
	if req.ActiveForFacilitators != nil {
		active = *req.ActiveForFacilitators
	}
	row := types.CurriculumDay{
		ID:                    id,
		Title:                 req.Title,
		Summary:               req.Summary,
		Blocks:                req.Blocks,
		ActiveForFacilitators: active,
		ForceFallback:         req.ForceFallback,
	}
	updated, err := h.curriculum.UpdateDay(c.Request.Context(), &row)
	if err != nil {
		RespondError(c, http.StatusBadRequest, "update_curriculum_day_failed", err)
		return
	}
	RespondOK(c, gin.H{"curriculum_day": updated})
}

// POST /api/curriculum/days/:id/status
func (h *CurriculumHandler) SetStatus(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_curriculum_day_id", err)
		return
	}
	var req struct {
		Status string `json:"status"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_request_body", err)
		return
	}
	updated, err := h.curriculum.SetStatus(c.Request.Context(), id, types.CurriculumStatus(req.Status))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "set_status_failed", err)
		return
	}
	RespondOK(c, gin.H{"curriculum_day": updated})
}

// GET /api/curriculum/days/:id
func (h *CurriculumHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_curriculum_day_id", err)
		return
	}
	row, err := h.curriculum.GetDay(c.Request.Context(), id)
	if err != nil {
		RespondError(c, http.StatusNotFound, "curriculum_day_not_found", err)
		return
	}
	RespondOK(c, gin.H{"curriculum_day": row})
}

// GET /api/curriculum/days?language=hi
func (h *CurriculumHandler) ListByLanguage(c *gin.Context) {
	language := c.Query("language")
	if language == "" {
		RespondError(c, http.StatusBadRequest, "language_required", nil)
		return
	}
	rows, err := h.curriculum.ListByLanguage(c.Request.Context(), language)
	if err != nil {
		RespondError(c, http.StatusInternalServerError, "load_curriculum_days_failed", err)
		return
	}
	RespondOK(c, gin.H{"curriculum_days": rows})
}
