package apperr

import (
	"context"
	"database/sql"
	"errors"
	"net"
	"strings"
)

// Classify maps an arbitrary error onto the taxonomy. Errors that are already
// classified are returned unchanged.
func Classify(err error) *Error {
	if err == nil {
		return nil
	}
	if e, ok := As(err); ok {
		return e
	}
	if errors.Is(err, context.Canceled) {
		return NewUnknown("canceled", "request canceled", err)
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return NewTransient("timeout", "the operation timed out", err)
	}
	if errors.Is(err, sql.ErrNoRows) {
		e := NewNotFound("not_found", "resource not found")
		e.Cause = err
		return e
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return NewTransient("network", "a network error occurred", err)
	}

	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "http status 5"),
		strings.Contains(msg, "http status 429"),
		strings.Contains(msg, "server_error"),
		strings.Contains(msg, "rate limit"),
		strings.Contains(msg, "circuit breaker is open"),
		strings.Contains(msg, "too many requests"):
		return NewTransient("upstream_unavailable", "an upstream service is unavailable", err)
	case strings.Contains(msg, "connection reset"),
		strings.Contains(msg, "connection refused"),
		strings.Contains(msg, "connection closed"),
		strings.Contains(msg, "broken pipe"),
		strings.Contains(msg, "tls handshake timeout"),
		strings.Contains(msg, "i/o timeout"),
		strings.HasSuffix(msg, "eof"):
		return NewTransient("network", "a network error occurred", err)
	case strings.Contains(msg, "jwt"), strings.Contains(msg, "token is expired"):
		e := NewAuthExpired("auth_expired", "session expired")
		e.Cause = err
		return e
	}
	return NewUnknown("internal", "unexpected error", err)
}
