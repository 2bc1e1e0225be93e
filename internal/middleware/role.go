package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"laborhub/internal/domain"
	"laborhub/internal/pkg/response"
)

// RequireRole ensures that the authenticated user has the specified role
func RequireRole(requiredRole string) gin.HandlerFunc {
	return func(c *gin.Context) {
		role, exists := c.Get(CtxRole)
		if !exists {
			response.Abort(c, http.StatusUnauthorized, "UNAUTHORIZED", "Role not found in token")
			return
		}

		if r, _ := role.(string); r != requiredRole {
			response.Abort(c, http.StatusForbidden, "FORBIDDEN", "Access denied: insufficient permissions")
			return
		}

		c.Next()
	}
}

func CustomerOnly() gin.HandlerFunc { return RequireRole(domain.RoleCustomer) }

func LaborOnly() gin.HandlerFunc { return RequireRole(domain.RoleLabor) }
