package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"nthora.app/server/internal/http/middleware"
	"nthora.app/server/internal/service"
)

type ActivityHandler struct {
	activity service.ActivityService
	prefs    service.PreferencesService
}

func NewActivityHandler(activity service.ActivityService, prefs service.PreferencesService) *ActivityHandler {
	return &ActivityHandler{activity: activity, prefs: prefs}
}

func (h *ActivityHandler) Feed(c *gin.Context) {
	ctx := c.Request.Context()
	user := middleware.GetUser(ctx)

	// The stored preferences supply the defaults; query parameters win
	// for a single request without touching the stored document.
	resolved, err := h.prefs.Get(ctx, user.ID)
	if err != nil {
		slog.WarnContext(ctx, "failed to load preferences, using defaults", "error", err)
		resolved = h.prefs.Resolve(nil)
	}
	nf := resolved.NetworkFeed

	opts := service.FeedOptions{
		MaxDegree: nf.MaxDegree,
		Limit:     int32(nf.ResultLimit),
		Search:    c.Query("q"),
		Type:      service.ActivityFilter(nf.ActivityTypes),
		ShowTags:  nf.ShowTags,
		HideTags:  nf.HideTags,
		Sort:      service.SortOrder(nf.SortOrder),
	}

	if v := c.Query("sort"); v != "" {
		opts.Sort = service.SortOrder(v)
	}
	if v := c.Query("type"); v != "" {
		opts.Type = service.ActivityFilter(v)
	}
	if v := c.Query("max_degree"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			opts.MaxDegree = n
		}
	}
	if v := c.Query("limit"); v != "" {
		if n, err := strconv.ParseInt(v, 10, 32); err == nil {
			opts.Limit = int32(n)
		}
	}
	if v := c.Query("degree"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			opts.Degree = &n
		}
	}
	if v, ok := c.GetQueryArray("show_tag"); ok {
		opts.ShowTags = v
	}
	if v, ok := c.GetQueryArray("hide_tag"); ok {
		opts.HideTags = v
	}

	feed, err := h.activity.Feed(ctx, user.ID, opts)
	if err != nil {
		if errors.Is(err, service.ErrGraphUnavailable) {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "network graph is not available"})
			return
		}
		slog.ErrorContext(ctx, "failed to load activity feed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load activity"})
		return
	}

	c.JSON(http.StatusOK, feed)
}

func (h *ActivityHandler) NetworkUsers(c *gin.Context) {
	ctx := c.Request.Context()
	user := middleware.GetUser(ctx)

	maxDegree := 2
	if v := c.Query("max_degree"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			maxDegree = n
		}
	}

	members, err := h.activity.NetworkMembers(ctx, user.ID, maxDegree)
	if err != nil {
		if errors.Is(err, service.ErrGraphUnavailable) {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "network graph is not available"})
			return
		}
		slog.ErrorContext(ctx, "failed to resolve network", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to resolve network"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"members": members})
}
