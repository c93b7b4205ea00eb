package middleware

import (
	"net/http"

	"go-leavetrack/internal/shared/response"

	"github.com/gin-gonic/gin"
)

// Enforcer is a local interface so this package does not depend on the
// rbac package directly; anything with casbin's Enforce signature fits.
type Enforcer interface {
	Enforce(rvals ...interface{}) (bool, error)
}

// Authorize gates a route on (role, resource, action) against the static
// policy table. Ownership checks (SELF vs TEAM rows) happen later, inside
// the service, through the scope package.
func Authorize(e Enforcer, resource, action string) gin.HandlerFunc {
	return func(c *gin.Context) {
		role := c.GetString("role")
		if role == "" {
			response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "Missing auth context", nil)
			c.Abort()
			return
		}

		allowed, err := e.Enforce(role, resource, action)
		if err != nil {
			response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", err.Error(), nil)
			c.Abort()
			return
		}

		if !allowed {
			response.Error(c, http.StatusForbidden, "FORBIDDEN",
				"You do not have permission to access this resource",
				gin.H{"required": resource + ":" + action},
			)
			c.Abort()
			return
		}
		c.Next()
	}
}
