package accounts

import (
	"errors"

	"resume-builder/internal/shared/apperr"
)

var ErrNotFound = errors.New("user not found")

var (
	ErrEmailTaken         = apperr.NewValidation("email_taken", "an account with this email already exists")
	ErrInvalidEmail       = apperr.NewValidation("invalid_email", "email address is invalid")
	ErrWeakPassword       = apperr.NewValidation("weak_password", "password must be at least 8 characters")
	ErrPasswordTooLong    = apperr.NewValidation("password_too_long", "password must be at most 72 bytes")
	ErrInvalidCredentials = apperr.NewAuthExpired("invalid_credentials", "email or password is incorrect")
	ErrSessionExpired     = apperr.NewAuthExpired("session_expired", "session expired, sign in again")
)
