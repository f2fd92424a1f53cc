package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"atlascrm/internal/authz"
)

// RequireRoles gates a route group on role capability. Superuser always
// passes; the fine-grained record-level rules stay in the services.
func RequireRoles(allowed ...authz.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		v, exists := c.Get("role")
		if !exists {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "no role in context"})
			return
		}
		role, _ := v.(string)
		set := authz.Classify(authz.Principal{Role: role})
		for _, r := range allowed {
			if set.Has(r) {
				c.Next()
				return
			}
		}
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "forbidden"})
	}
}
