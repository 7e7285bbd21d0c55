// Package guard decides where a visitor belongs: landing, onboarding or dashboard.
package guard

import (
	"context"
	"strings"

	"resume-builder/internal/accounts"
	"resume-builder/internal/profiles"
	"resume-builder/internal/shared/telemetry"
)

type Route string

const (
	RouteLanding    Route = "landing"
	RouteOnboarding Route = "onboarding"
	RouteDashboard  Route = "dashboard"
)

// Path is the client location for r.
func (r Route) Path() string {
	switch r {
	case RouteOnboarding:
		return "/onboarding"
	case RouteDashboard:
		return "/dashboard"
	default:
		return "/"
	}
}

// Decision is the outcome of evaluating a visitor.
type Decision struct {
	Route   Route
	Session *accounts.Session
	Profile *profiles.Profile
}

// SessionResolver resolves tokens to live sessions.
type SessionResolver interface {
	GetSession(ctx context.Context, token string) (accounts.Session, error)
}

type Guard struct {
	Sessions SessionResolver
	Profiles profiles.Repo
}

// Evaluate resolves the token and profile. A missing or invalid session ends at landing
// without any profile read. Profile read failures are treated as not onboarded.
func (g *Guard) Evaluate(ctx context.Context, token string) Decision {
	if strings.TrimSpace(token) == "" {
		return Decision{Route: RouteLanding}
	}
	sess, err := g.Sessions.GetSession(ctx, token)
	if err != nil {
		return Decision{Route: RouteLanding}
	}
	return g.forUser(ctx, &sess)
}

// ForUser evaluates an already authenticated user.
func (g *Guard) ForUser(ctx context.Context, userID string) Decision {
	return g.forUser(ctx, &accounts.Session{UserID: userID})
}

func (g *Guard) forUser(ctx context.Context, sess *accounts.Session) Decision {
	profile, err := g.Profiles.Get(ctx, sess.UserID)
	if err != nil {
		telemetry.Warn("guard.profile_lookup_failed", map[string]any{
			"user_id": sess.UserID,
			"error":   err.Error(),
		})
		return Decision{Route: RouteOnboarding, Session: sess}
	}
	if !profile.OnboardingComplete {
		return Decision{Route: RouteOnboarding, Session: sess, Profile: &profile}
	}
	return Decision{Route: RouteDashboard, Session: sess, Profile: &profile}
}
