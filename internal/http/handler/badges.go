package handler

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"nthora.app/server/internal/http/middleware"
	"nthora.app/server/internal/service"
)

type BadgeHandler struct {
	badges service.BadgeService
}

func NewBadgeHandler(badges service.BadgeService) *BadgeHandler {
	return &BadgeHandler{badges: badges}
}

func (h *BadgeHandler) Summary(c *gin.Context) {
	ctx := c.Request.Context()
	user := middleware.GetUser(ctx)

	summary, err := h.badges.Summary(ctx, user.ID)
	if err != nil {
		slog.ErrorContext(ctx, "failed to load badge summary", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load badges"})
		return
	}

	c.JSON(http.StatusOK, summary)
}
