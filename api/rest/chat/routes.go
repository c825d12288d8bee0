package chat

import (
	"github.com/gin-gonic/gin"

	"codeberg.org/taxdesk/server/internal/chat"
)

func RegisterRoutes(router *gin.RouterGroup, manager *chat.Manager, answerer chat.Answerer, middleware ...gin.HandlerFunc) {
	group := router.Group("")
	group.Use(middleware...)

	group.POST("/send_message", SendMessageHandler(manager, answerer))
	group.POST("/reset_chat", ResetChatHandler(manager))
	group.GET("/chat/history", HistoryHandler(manager))
	group.GET("/chat/stats", StatsHandler(manager))
	group.DELETE("/chat/session", DeleteSessionHandler(manager))
}
