package router

import (
	"github.com/gin-gonic/gin"

	"nthora.app/server/internal/http/handler"
)

func OnboardingRouter(rg *gin.RouterGroup, h *handler.OnboardingHandler) {
	rg.POST("/start", h.Start)
	rg.POST("/invite-code", h.SubmitInviteCode)
	rg.POST("/profile", h.SubmitProfile)
	rg.POST("/verify", h.Verify)
}
