package middlewares

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Jobly-Solutions/lente-ai-sub001/internal/interfaces/httpserver/responses"
)

// AdminGateConfig controls the admin access check.
type AdminGateConfig struct {
	// IsBootstrap reports whether an email is granted admin regardless of
	// its stored role, so a fresh deployment can reach the admin API
	// before any role has been assigned. Typically config.IsBootstrapAdmin.
	// Transitional; role rows are the source of truth.
	IsBootstrap func(email string) bool
	// Disabled turns the gate off entirely. Only for local development.
	Disabled bool
}

// RequireAdmin ensures the resolved profile carries the admin role or
// is a bootstrap admin. Must run after AuthMiddleware.
func RequireAdmin(cfg AdminGateConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		if cfg.Disabled {
			c.Next()
			return
		}

		profile, ok := ProfileFromContext(c)
		if !ok || profile == nil {
			responses.HandleErrorWithStatus(c, http.StatusUnauthorized, nil, "authentication required")
			return
		}

		if profile.IsAdmin() {
			c.Next()
			return
		}

		if cfg.IsBootstrap != nil && cfg.IsBootstrap(profile.Email) {
			c.Next()
			return
		}

		responses.HandleErrorWithStatus(c, http.StatusForbidden, nil, "admin access required")
	}
}
