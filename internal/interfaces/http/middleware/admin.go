package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// AdminOnly rejects requests from non-admin agents. It must run after
// the JWT middleware has populated the claims.
func AdminOnly() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !IsAdmin(c) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "ERR_FORBIDDEN",
					"message": "Administrator role required",
				},
			})
			return
		}
		c.Next()
	}
}
