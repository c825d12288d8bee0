package documents

import (
	"github.com/gin-gonic/gin"

	"codeberg.org/taxdesk/server/internal/ingest"
)

func RegisterRoutes(router *gin.RouterGroup, uploadDir string, runner IngestRunner, tracker *ingest.Tracker, store Store) {
	group := router.Group("/documents")

	group.POST("/upload", UploadHandler(uploadDir, runner))
	group.GET("/status", StatusHandler(tracker))
	group.GET("/sources", SourcesHandler(store))
	group.GET("/info", InfoHandler(store))
}
