package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// EditorMiddleware restricts a route group to editors and admins.
func EditorMiddleware() gin.HandlerFunc {
	return requireRole("editor", "admin")
}

// AdminMiddleware restricts a route group to admins.
func AdminMiddleware() gin.HandlerFunc {
	return requireRole("admin")
}

func requireRole(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		// Role was set by AuthMiddleware
		roleInterface, exists := c.Get("role")
		if !exists {
			abortForbidden(c)
			return
		}

		role, ok := roleInterface.(string)
		if !ok {
			abortForbidden(c)
			return
		}

		for _, allowed := range roles {
			if role == allowed {
				c.Next()
				return
			}
		}

		abortForbidden(c)
	}
}

func abortForbidden(c *gin.Context) {
	c.JSON(http.StatusForbidden, gin.H{
		"success": false,
		"error":   "Access denied: insufficient role",
	})
	c.Abort()
}
