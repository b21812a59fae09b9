package middlewares

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"agenthub/services/agent-api/internal/domain"
	"agenthub/services/agent-api/internal/domain/tenant"
)

// RequireAdmin ensures the authenticated principal holds a role allowed to
// manage tenant-wide resources. The role comes from the membership store,
// not from token claims. Dev principals pass as the implicit SPEED role.
func RequireAdmin(members *tenant.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		principal, ok := PrincipalFromContext(c)
		if !ok || principal.UserID == "" {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error":   "Unauthorized",
				"message": "Authentication required",
			})
			c.Abort()
			return
		}

		if principal.AuthMethod == domain.AuthMethodDev {
			c.Next()
			return
		}

		role, err := members.RoleOf(c.Request.Context(), principal.UserID)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error":   "Unauthorized",
				"message": "Unknown member",
			})
			c.Abort()
			return
		}

		if !role.CanEditAll() {
			c.JSON(http.StatusForbidden, gin.H{
				"error":   "Forbidden",
				"message": "Admin access required",
			})
			c.Abort()
			return
		}

		c.Next()
	}
}
