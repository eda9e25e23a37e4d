package router

import (
	"github.com/gin-gonic/gin"

	"nthora.app/server/internal/http/handler"
	"nthora.app/server/internal/http/middleware"
	"nthora.app/server/internal/service"
)

type RouterConfig struct {
	IsProduction bool
	AdminAPIKey  string
}

func SetupRoutes(router *gin.Engine, services *service.Services, cfg RouterConfig) {
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	authService := services.Auth()
	requireAuth := middleware.RequireAuth(authService)

	authHandler := handler.NewAuthHandler(authService, cfg.IsProduction)
	AuthRouter(router.Group("/auth"), authHandler, requireAuth)

	onboardingHandler := handler.NewOnboardingHandler(services.Onboarding(), cfg.IsProduction)
	OnboardingRouter(router.Group("/onboarding"), onboardingHandler)

	inviteHandler := handler.NewInviteHandler(services.Invites())
	router.GET("/invites/validate", inviteHandler.Validate)

	v1 := router.Group("/api/v1")
	v1.Use(requireAuth)
	{
		questionHandler := handler.NewQuestionHandler(services.Questions())
		QuestionRouter(v1, questionHandler)

		activityHandler := handler.NewActivityHandler(services.Activity(), services.Preferences())
		v1.GET("/activity", activityHandler.Feed)
		v1.GET("/network/users", activityHandler.NetworkUsers)

		badgeHandler := handler.NewBadgeHandler(services.Badges())
		v1.GET("/badges", badgeHandler.Summary)

		prefHandler := handler.NewPreferencesHandler(services.Preferences())
		v1.GET("/preferences", prefHandler.Get)
		v1.PUT("/preferences", prefHandler.Put)

		expertiseHandler := handler.NewExpertiseHandler(services.Expertise())
		v1.GET("/expertise", expertiseHandler.List)
		v1.POST("/expertise", expertiseHandler.Declare)

		v1.POST("/members/:id/approve", inviteHandler.Approve)
	}

	admin := router.Group("/admin")
	admin.Use(middleware.RequireAdminKey(cfg.AdminAPIKey))
	AdminRouter(admin, inviteHandler)
}
