package adminhttp

import (
	"math/rand/v2"
	"time"

	"github.com/gin-gonic/gin"
)

// requestID tags each request with an id (honoring an inbound X-Request-ID)
// so logging.Info/Error(c) calls downstream can correlate log lines for the
// same request.
func requestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader("X-Request-ID")
		if id == "" {
			id = generateRequestID()
		}
		c.Header("X-Request-ID", id)
		c.Set("request_id", id)
		c.Set("start_time", time.Now())
		c.Next()
	}
}

func generateRequestID() string {
	const charset = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	b := make([]byte, 12)
	for i := range b {
		b[i] = charset[rand.IntN(len(charset))]
	}
	return string(b)
}
