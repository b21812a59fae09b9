package middlewares

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"agenthub/services/agent-api/internal/utils/functional"
)

// CORSMiddleware answers browser origin checks for the configured origin
// list. Origins outside the list get no allow headers, so the browser
// blocks the response. The list comes from CORS_ALLOWED_ORIGINS.
func CORSMiddleware(allowedOrigins []string) gin.HandlerFunc {
	allowed := functional.ToSet(allowedOrigins)
	return func(c *gin.Context) {
		origin := c.Request.Header.Get("Origin")

		if _, ok := allowed[origin]; ok {
			c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
			c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
			c.Writer.Header().Add("Vary", "Origin")
		}

		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Authorization, Content-Type, X-Request-Id")
		c.Writer.Header().Set("Access-Control-Expose-Headers", "X-Request-Id")
		c.Writer.Header().Set("Access-Control-Max-Age", "3600")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}
