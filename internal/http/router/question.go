package router

import (
	"github.com/gin-gonic/gin"

	"nthora.app/server/internal/http/handler"
)

func QuestionRouter(rg *gin.RouterGroup, h *handler.QuestionHandler) {
	rg.GET("/questions", h.Feed)
	rg.GET("/questions/:id", h.Get)
	rg.POST("/questions", h.Post)
	rg.POST("/questions/:id/responses", h.Respond)
	rg.POST("/responses/:id/vote", h.Vote)
	rg.POST("/demo/seed", h.SeedDemo)
}
