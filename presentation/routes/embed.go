package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/ryos-app/ryos-server/presentation/controllers/embed"
)

func EmbedRoutes(router *gin.RouterGroup, controller embed.EmbedController) {
	router.GET("/iframe-check", controller.Handle)
}
