package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/ryos-app/ryos-server/presentation/controllers/aimodels"
)

func AIModelRoutes(router *gin.RouterGroup, controller aimodels.AIModelController) {
	models := router.Group("/ai-models")
	{
		models.GET("", controller.GetModels)
		models.GET("/:id", controller.GetModel)
	}
}
