package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/clinic/backend/internal/interfaces/http/dto"
)

// RequireRoles aborts with 403 unless the authenticated user holds one of
// the given roles. It must run after JWTAuthMiddleware.
func RequireRoles(roles ...string) gin.HandlerFunc {
	allowed := make(map[string]bool, len(roles))
	for _, role := range roles {
		allowed[role] = true
	}

	return func(c *gin.Context) {
		role := GetJWTRole(c)
		if role == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized,
				dto.NewErrorResponse(dto.ErrCodeUnauthorized, "Authentication required"))
			return
		}
		if !allowed[role] {
			c.AbortWithStatusJSON(http.StatusForbidden,
				dto.NewErrorResponse(dto.ErrCodeForbidden, "Insufficient permissions for this operation"))
			return
		}
		c.Next()
	}
}
