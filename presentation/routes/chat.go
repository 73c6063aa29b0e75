package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/ryos-app/ryos-server/presentation/controllers/chat"
)

// ChatRoutes mounts the action-dispatch gateway. Every chat operation goes
// through the one endpoint; the verb narrows the action set.
func ChatRoutes(router *gin.RouterGroup, controller chat.ChatController) {
	chatRooms := router.Group("/chat-rooms")
	{
		chatRooms.GET("", controller.HandleGet)
		chatRooms.POST("", controller.HandlePost)
		chatRooms.DELETE("", controller.HandleDelete)
	}
}
