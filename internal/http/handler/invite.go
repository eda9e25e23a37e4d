package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"nthora.app/server/internal/http/middleware"
	"nthora.app/server/internal/service"
	"nthora.app/server/internal/store"
)

type InviteHandler struct {
	invites service.InviteService
}

func NewInviteHandler(invites service.InviteService) *InviteHandler {
	return &InviteHandler{invites: invites}
}

type ValidateInviteResponse struct {
	Valid          bool   `json:"valid"`
	Reason         string `json:"reason,omitempty"`
	RemainingUses  int    `json:"remaining_uses,omitempty"`
	FastTrackCount int    `json:"fast_track_count,omitempty"`
}

func (h *InviteHandler) Validate(c *gin.Context) {
	ctx := c.Request.Context()

	code := c.Query("code")
	if code == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "code is required"})
		return
	}

	invite, err := h.invites.Validate(ctx, code)
	if err != nil {
		reason := ""
		switch {
		case errors.Is(err, service.ErrInviteNotFound):
			reason = "not_found"
		case errors.Is(err, service.ErrInviteInactive):
			reason = "inactive"
		case errors.Is(err, service.ErrInviteExpired):
			reason = "expired"
		case errors.Is(err, service.ErrInviteExhausted):
			reason = "exhausted"
		default:
			slog.ErrorContext(ctx, "failed to validate invite", "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to validate invite"})
			return
		}
		c.JSON(http.StatusOK, ValidateInviteResponse{Valid: false, Reason: reason})
		return
	}

	c.JSON(http.StatusOK, ValidateInviteResponse{
		Valid:          true,
		RemainingUses:  invite.RemainingUses(),
		FastTrackCount: invite.FastTrackThreshold,
	})
}

type ApproveRequest struct {
	Reason *string `json:"reason,omitempty"`
}

func (h *InviteHandler) Approve(c *gin.Context) {
	ctx := c.Request.Context()
	user := middleware.GetUser(ctx)

	pendingID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid pending member id"})
		return
	}

	var req ApproveRequest
	_ = c.ShouldBindJSON(&req)

	pending, err := h.invites.Approve(ctx, pendingID, user.ID, req.Reason)
	if err != nil {
		switch {
		case errors.Is(err, store.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "pending member not found"})
		case errors.Is(err, service.ErrSelfApproval):
			c.JSON(http.StatusForbidden, gin.H{"error": "you cannot approve yourself"})
		default:
			slog.ErrorContext(ctx, "failed to approve member", "error", err, "pending_member_id", pendingID)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to record approval"})
		}
		return
	}

	c.JSON(http.StatusOK, pending)
}

type CreateInviteRequest struct {
	MaxUses            int        `json:"max_uses"`
	FastTrackThreshold int        `json:"fast_track_threshold"`
	ExpiresAt          *time.Time `json:"expires_at,omitempty"`
	CreatedBy          int64      `json:"created_by"`
}

func (h *InviteHandler) Create(c *gin.Context) {
	ctx := c.Request.Context()

	var req CreateInviteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	invite, err := h.invites.Create(ctx, service.CreateInviteParams{
		CreatedBy:          req.CreatedBy,
		MaxUses:            req.MaxUses,
		FastTrackThreshold: req.FastTrackThreshold,
		ExpiresAt:          req.ExpiresAt,
	})
	if err != nil {
		slog.ErrorContext(ctx, "failed to create invite", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create invite"})
		return
	}

	c.JSON(http.StatusCreated, invite)
}

func (h *InviteHandler) List(c *gin.Context) {
	ctx := c.Request.Context()

	limit := int32(50)
	offset := int32(0)
	if v := c.Query("limit"); v != "" {
		if n, err := strconv.ParseInt(v, 10, 32); err == nil {
			limit = int32(n)
		}
	}
	if v := c.Query("offset"); v != "" {
		if n, err := strconv.ParseInt(v, 10, 32); err == nil {
			offset = int32(n)
		}
	}

	invites, err := h.invites.List(ctx, limit, offset)
	if err != nil {
		slog.ErrorContext(ctx, "failed to list invites", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list invites"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"invites": invites})
}

func (h *InviteHandler) ListPending(c *gin.Context) {
	ctx := c.Request.Context()

	pending, err := h.invites.ListPending(ctx)
	if err != nil {
		slog.ErrorContext(ctx, "failed to list pending members", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list pending members"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"pending_members": pending})
}

type DeactivateRequest struct {
	InviteID string `json:"invite_id" binding:"required"`
}

func (h *InviteHandler) Deactivate(c *gin.Context) {
	ctx := c.Request.Context()

	var req DeactivateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invite_id is required"})
		return
	}

	inviteID, err := strconv.ParseInt(req.InviteID, 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid invite id"})
		return
	}

	invite, err := h.invites.Deactivate(ctx, inviteID)
	if err != nil {
		if errors.Is(err, service.ErrInviteNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "invite not found"})
			return
		}
		slog.ErrorContext(ctx, "failed to deactivate invite", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to deactivate invite"})
		return
	}

	c.JSON(http.StatusOK, invite)
}
