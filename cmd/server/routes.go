package main

import (
	"github.com/gin-gonic/gin"

	chatapi "codeberg.org/taxdesk/server/api/rest/chat"
	"codeberg.org/taxdesk/server/api/rest/documents"
	"codeberg.org/taxdesk/server/api/rest/health"
)

// sets up all API routes and middleware
func RegisterRoutes(router *gin.Engine, server *Server) {
	router.Use(CORSMiddleware())
	router.GET("/health", health.Handler)

	api := router.Group("/api")

	{
		api.GET("/ping", health.PingHandler)

		chatapi.RegisterRoutes(api, server.sessions, server.orchestrator, RateLimitMiddleware())
		documents.RegisterRoutes(api, server.config.InputDir, server.coordinator, server.tracker, server.store)
	}
}
