package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"resume-builder/internal/shared/telemetry"
)

const (
	userIDKey    = "userId"
	userEmailKey = "userEmail"
	sessionIDKey = "sessionId"
	tokenKey     = "sessionToken"
)

// Identity is the authenticated principal attached to a request.
type Identity struct {
	UserID    string
	Email     string
	SessionID string
}

// SessionVerifier resolves a bearer token to a live session.
type SessionVerifier interface {
	VerifyToken(ctx context.Context, token string) (Identity, error)
}

// Authenticate attaches the identity of a valid bearer token to the context.
// Requests without a valid token continue anonymously; route guards decide what to do with them.
func Authenticate(verifier SessionVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method == http.MethodOptions {
			c.Next()
			return
		}
		token := BearerToken(c)
		if token == "" || verifier == nil {
			c.Next()
			return
		}
		c.Set(tokenKey, token)

		ident, err := verifier.VerifyToken(c.Request.Context(), token)
		if err != nil {
			telemetry.Debug("auth.token_rejected", map[string]any{
				"request_id": RequestIDFromContext(c),
				"error":      err.Error(),
			})
			c.Next()
			return
		}
		SetIdentity(c, ident)
		c.Next()
	}
}

// BearerToken extracts the token from the Authorization header.
func BearerToken(c *gin.Context) string {
	header := strings.TrimSpace(c.GetHeader("Authorization"))
	if !strings.HasPrefix(header, "Bearer ") {
		return ""
	}
	return strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
}

// SetIdentity stores ident on the request context.
func SetIdentity(c *gin.Context, ident Identity) {
	c.Set(userIDKey, ident.UserID)
	if ident.Email != "" {
		c.Set(userEmailKey, ident.Email)
	}
	if ident.SessionID != "" {
		c.Set(sessionIDKey, ident.SessionID)
	}
}

// IdentityFromContext returns the identity set by Authenticate.
func IdentityFromContext(c *gin.Context) (Identity, bool) {
	id := UserIDFromContext(c)
	if id == "" {
		return Identity{}, false
	}
	return Identity{
		UserID:    id,
		Email:     c.GetString(userEmailKey),
		SessionID: c.GetString(sessionIDKey),
	}, true
}

// UserIDFromContext fetches the user ID set by the auth middleware.
func UserIDFromContext(c *gin.Context) string {
	if c == nil {
		return ""
	}
	val, _ := c.Get(userIDKey)
	if id, ok := val.(string); ok {
		return id
	}
	return ""
}

// SessionIDFromContext fetches the session ID set by the auth middleware.
func SessionIDFromContext(c *gin.Context) string {
	if c == nil {
		return ""
	}
	return c.GetString(sessionIDKey)
}
