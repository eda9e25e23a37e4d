package handler

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"nthora.app/server/internal/http/middleware"
	"nthora.app/server/internal/service"
)

type OnboardingHandler struct {
	onboarding   service.OnboardingService
	isProduction bool
}

func NewOnboardingHandler(onboarding service.OnboardingService, isProduction bool) *OnboardingHandler {
	return &OnboardingHandler{
		onboarding:   onboarding,
		isProduction: isProduction,
	}
}

type StartRequest struct {
	Email string `json:"email" binding:"required"`
}

func (h *OnboardingHandler) Start(c *gin.Context) {
	ctx := c.Request.Context()

	var req StartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "email is required"})
		return
	}

	state, err := h.onboarding.Start(ctx, req.Email)
	if err != nil {
		slog.ErrorContext(ctx, "onboarding start failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to start onboarding"})
		return
	}

	c.JSON(http.StatusOK, state)
}

type InviteCodeRequest struct {
	Email string `json:"email" binding:"required"`
	Code  string `json:"code" binding:"required"`
}

func (h *OnboardingHandler) SubmitInviteCode(c *gin.Context) {
	ctx := c.Request.Context()

	var req InviteCodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "email and code are required"})
		return
	}

	state, err := h.onboarding.SubmitInviteCode(ctx, req.Email, req.Code)
	if err != nil {
		slog.ErrorContext(ctx, "invite code submission failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to validate invite code"})
		return
	}

	c.JSON(http.StatusOK, state)
}

type ProfileRequest struct {
	Email         string `json:"email" binding:"required"`
	Code          string `json:"code" binding:"required"`
	FullName      string `json:"full_name" binding:"required"`
	Headline      string `json:"headline"`
	ExpertiseText string `json:"expertise_text"`
}

func (h *OnboardingHandler) SubmitProfile(c *gin.Context) {
	ctx := c.Request.Context()

	var req ProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "email, code and full_name are required"})
		return
	}

	state, err := h.onboarding.SubmitProfile(ctx, service.SubmitProfileParams{
		Email:         req.Email,
		InviteCode:    req.Code,
		FullName:      req.FullName,
		Headline:      req.Headline,
		ExpertiseText: req.ExpertiseText,
	})
	if err != nil {
		slog.ErrorContext(ctx, "profile submission failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to submit profile"})
		return
	}

	c.JSON(http.StatusOK, state)
}

type VerifyRequest struct {
	Email         string `json:"email" binding:"required"`
	Code          string `json:"code" binding:"required"` // the OTP
	Step          string `json:"step" binding:"required"`
	InviteCode    string `json:"invite_code"`
	FullName      string `json:"full_name"`
	Headline      string `json:"headline"`
	ExpertiseText string `json:"expertise_text"`
}

func (h *OnboardingHandler) Verify(c *gin.Context) {
	ctx := c.Request.Context()

	var req VerifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "email, code and step are required"})
		return
	}

	state, err := h.onboarding.VerifyOTP(ctx, service.OnboardingState{
		Step:          service.OnboardingStep(req.Step),
		Email:         req.Email,
		InviteCode:    req.InviteCode,
		FullName:      req.FullName,
		Headline:      req.Headline,
		ExpertiseText: req.ExpertiseText,
	}, req.Code)
	if err != nil {
		slog.ErrorContext(ctx, "otp verification failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to verify code"})
		return
	}

	if state.Step == service.StepJoined && state.Session != nil {
		c.SetCookie(
			middleware.SessionCookieName,
			strconv.FormatInt(state.Session.ID, 10),
			sessionMaxAge,
			"/",
			"",
			h.isProduction,
			true,
		)
	}

	c.JSON(http.StatusOK, state)
}
