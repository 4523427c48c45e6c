package middleware

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/printshop/backend/internal/infrastructure/config"
)

// RequestIDKey is the gin context key for the request ID
const RequestIDKey = "request_id"

// RequestID attaches a request ID to every request, generating one
// when the client did not supply an X-Request-ID header
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader("X-Request-ID")
		if requestID == "" {
			requestID = generateRequestID()
		}
		c.Set(RequestIDKey, requestID)
		c.Writer.Header().Set("X-Request-ID", requestID)
		c.Next()
	}
}

func generateRequestID() string {
	b := make([]byte, 8)
	if _, err := rand.Read(b); err != nil {
		return fmt.Sprintf("%d", time.Now().UnixNano())
	}
	return hex.EncodeToString(b)
}

// CORS returns a CORS middleware driven by the HTTP configuration.
// An empty origin list rejects every cross-origin request.
func CORS(cfg config.HTTPConfig) gin.HandlerFunc {
	allowWildcard := false
	for _, o := range cfg.CORSAllowOrigins {
		if o == "*" {
			allowWildcard = true
			break
		}
	}

	allowMethods := strings.Join(cfg.CORSAllowMethods, ", ")
	allowHeaders := strings.Join(cfg.CORSAllowHeaders, ", ")

	return func(c *gin.Context) {
		origin := c.Request.Header.Get("Origin")

		allowed := allowWildcard
		if !allowed {
			for _, o := range cfg.CORSAllowOrigins {
				if o == origin {
					allowed = true
					break
				}
			}
		}

		if origin != "" && allowed {
			c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
			c.Writer.Header().Set("Access-Control-Allow-Methods", allowMethods)
			c.Writer.Header().Set("Access-Control-Allow-Headers", allowHeaders)
			c.Writer.Header().Set("Access-Control-Expose-Headers", "X-Request-ID")
			c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		}

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}
