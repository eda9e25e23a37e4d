package router

import (
	"github.com/gin-gonic/gin"

	"nthora.app/server/internal/http/handler"
)

func AdminRouter(rg *gin.RouterGroup, h *handler.InviteHandler) {
	rg.POST("/invites", h.Create)
	rg.GET("/invites", h.List)
	rg.GET("/invites/pending-members", h.ListPending)
	rg.POST("/invites/deactivate", h.Deactivate)
}
