// Package middleware provides HTTP middleware for the API.
package middleware

import (
	"github.com/gin-gonic/gin"

	"quotedesk/internal/core/apperror"
	appctx "quotedesk/internal/core/context"
)

// RequirePermission middleware checks a resource/action grant before the
// handler runs. Admins automatically have all permissions. The service
// layer re-checks; this middleware just rejects early with a clean 403.
func RequirePermission(resource, action string) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := appctx.GetUser(c.Request.Context())
		if user == nil {
			_ = c.Error(apperror.NewUnauthorized("authentication required"))
			c.Abort()
			return
		}

		if !user.Can(resource, action) {
			_ = c.Error(
				apperror.NewForbidden("insufficient permissions").
					WithDetail("resource", resource).
					WithDetail("action", action),
			)
			c.Abort()
			return
		}

		c.Next()
	}
}
