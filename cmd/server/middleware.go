package main

import (
	"os"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/ulule/limiter/v3"
	mgin "github.com/ulule/limiter/v3/drivers/middleware/gin"
	"github.com/ulule/limiter/v3/drivers/store/memory"

	"codeberg.org/taxdesk/server/internal/errors"
)

// chat endpoints call paid LLM APIs, so keep the per-IP rate modest
var chatRate = limiter.Rate{
	Period: time.Minute,
	Limit:  30,
}

func CORSMiddleware() gin.HandlerFunc {
	corsConfig := cors.DefaultConfig()

	if origins := os.Getenv("ALLOWED_ORIGINS"); origins != "" {
		corsConfig.AllowOrigins = strings.Split(origins, ",")
	} else {
		corsConfig.AllowAllOrigins = true
	}

	corsConfig.AllowHeaders = append(corsConfig.AllowHeaders, "Authorization")
	corsConfig.MaxAge = 12 * time.Hour

	return cors.New(corsConfig)
}

// per-IP in-memory rate limiting for the chat endpoints
func RateLimitMiddleware() gin.HandlerFunc {
	instance := limiter.New(memory.NewStore(), chatRate)

	return mgin.NewMiddleware(instance,
		mgin.WithLimitReachedHandler(func(c *gin.Context) {
			errors.TooManyRequests(c, "rate limit exceeded, slow down")
		}),
	)
}
