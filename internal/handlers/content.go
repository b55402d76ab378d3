package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/udaanlabs/pathshala-backend/internal/services"
)

type ContentHandler struct {
	content services.ContentService
}

func NewContentHandler(content services.ContentService) *ContentHandler {
	return &ContentHandler{content: content}
}

// GET /api/content/:language/:day
func (h *ContentHandler) Resolve(c *gin.Context) {
	day, err := strconv.Atoi(c.Param("day"))
	if err != nil || day < 1 {
		RespondError(c, http.StatusBadRequest, "invalid_day_number", err)
		return
	}
	language := c.Param("language")
	if language == "" {
		RespondError(c, http.StatusBadRequest, "language_required", nil)
		return
	}
	resolved := h.content.Resolve(c.Request.Context(), day, language)
	RespondOK(c, gin.H{"content": resolved})
}

// POST /api/content/invalidate
func (h *ContentHandler) Invalidate(c *gin.Context) {
	var req struct {
		Day      *int    `json:"day"`
		Language *string `json:"language"`
	}
	_ = c.ShouldBindJSON(&req)

	if err := h.content.Invalidate(c.Request.Context(), req.Day, req.Language); err != nil {
		RespondError(c, http.StatusInternalServerError, "invalidate_failed", err)
		return
	}
	RespondOK(c, gin.H{"invalidated": true})
}
