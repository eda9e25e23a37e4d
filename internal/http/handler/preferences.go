package handler

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"nthora.app/server/internal/http/middleware"
	"nthora.app/server/internal/service"
)

type PreferencesHandler struct {
	preferences service.PreferencesService
}

func NewPreferencesHandler(preferences service.PreferencesService) *PreferencesHandler {
	return &PreferencesHandler{preferences: preferences}
}

func (h *PreferencesHandler) Get(c *gin.Context) {
	ctx := c.Request.Context()
	user := middleware.GetUser(ctx)

	prefs, err := h.preferences.Get(ctx, user.ID)
	if err != nil {
		slog.ErrorContext(ctx, "failed to load preferences", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load preferences"})
		return
	}

	c.JSON(http.StatusOK, prefs)
}

func (h *PreferencesHandler) Put(c *gin.Context) {
	ctx := c.Request.Context()
	user := middleware.GetUser(ctx)

	var doc map[string]any
	if err := c.ShouldBindJSON(&doc); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "a preferences object is required"})
		return
	}

	prefs, err := h.preferences.Put(ctx, user.ID, doc)
	if err != nil {
		slog.ErrorContext(ctx, "failed to store preferences", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to store preferences"})
		return
	}

	c.JSON(http.StatusOK, prefs)
}
