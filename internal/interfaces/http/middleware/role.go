package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/waterworks/backend/internal/domain/identity"
)

// RequireRole rejects requests whose authenticated user carries none of
// the allowed roles. It must run after JWT authentication.
func RequireRole(roles ...identity.Role) gin.HandlerFunc {
	allowed := make(map[identity.Role]bool, len(roles))
	for _, r := range roles {
		allowed[r] = true
	}

	return func(c *gin.Context) {
		role := identity.Role(GetJWTRole(c))
		if !allowed[role] {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "ERR_FORBIDDEN",
					"message": "Insufficient role for this operation",
				},
			})
			return
		}
		c.Next()
	}
}

// RequireAdministrator restricts a route group to administrators
func RequireAdministrator() gin.HandlerFunc {
	return RequireRole(identity.RoleAdministrator)
}
