package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/ryos-app/ryos-server/presentation/controllers/audit"
)

func AuditRoutes(router *gin.RouterGroup, controller audit.AuditController) {
	router.GET("/audit/rooms/:roomId", controller.GetRoomHistory)
}
