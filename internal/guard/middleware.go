package guard

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"resume-builder/internal/shared/server/middleware"
	"resume-builder/internal/shared/server/respond"
)

// RequireSession aborts requests without an authenticated identity.
func RequireSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method == http.MethodOptions {
			c.Next()
			return
		}
		if middleware.UserIDFromContext(c) == "" {
			respond.Error(c, http.StatusUnauthorized, "session_required", "sign in to continue",
				gin.H{"redirect": RouteLanding.Path()})
			return
		}
		c.Next()
	}
}

// RequireOnboarded aborts requests from users who have not finished onboarding.
// It must run after RequireSession.
func (g *Guard) RequireOnboarded() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method == http.MethodOptions {
			c.Next()
			return
		}
		decision := g.ForUser(c.Request.Context(), middleware.UserIDFromContext(c))
		if decision.Route != RouteDashboard {
			respond.Error(c, http.StatusForbidden, "onboarding_required", "finish onboarding first",
				gin.H{"redirect": RouteOnboarding.Path()})
			return
		}
		c.Next()
	}
}
