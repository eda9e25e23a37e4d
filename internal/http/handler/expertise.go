package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"nthora.app/server/internal/http/middleware"
	"nthora.app/server/internal/service"
)

type ExpertiseHandler struct {
	expertise service.ExpertiseService
}

func NewExpertiseHandler(expertise service.ExpertiseService) *ExpertiseHandler {
	return &ExpertiseHandler{expertise: expertise}
}

func (h *ExpertiseHandler) List(c *gin.Context) {
	ctx := c.Request.Context()
	user := middleware.GetUser(ctx)

	expertise, err := h.expertise.ListByUser(ctx, user.ID)
	if err != nil {
		slog.ErrorContext(ctx, "failed to list expertise", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load expertise"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"expertise": expertise})
}

type DeclareExpertiseRequest struct {
	Tags                []string `json:"tags"`
	FreeText            string   `json:"free_text"`
	MaxQuestionsPerWeek int      `json:"max_questions_per_week"`
}

func (h *ExpertiseHandler) Declare(c *gin.Context) {
	ctx := c.Request.Context()
	user := middleware.GetUser(ctx)

	var req DeclareExpertiseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "tags or free_text required"})
		return
	}

	declared, err := h.expertise.Declare(ctx, service.DeclareExpertiseParams{
		UserID:              user.ID,
		Tags:                req.Tags,
		FreeText:            req.FreeText,
		MaxQuestionsPerWeek: req.MaxQuestionsPerWeek,
	})
	if err != nil {
		if errors.Is(err, service.ErrEmptyExpertise) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		slog.ErrorContext(ctx, "failed to declare expertise", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to declare expertise"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"expertise": declared})
}
