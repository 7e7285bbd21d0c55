package accounts

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"resume-builder/internal/profiles"
	"resume-builder/internal/shared/apperr"
	"resume-builder/internal/shared/auth"
	"resume-builder/internal/shared/server/middleware"
	"resume-builder/internal/shared/telemetry"
)

const (
	minPasswordLength = 8
	// bcrypt rejects longer input.
	maxPasswordLength = 72
)

type Service struct {
	Users    Repo
	Profiles profiles.Repo
	Sessions *SessionStore
	Signer   *auth.Signer
	// BcryptCost defaults to bcrypt.DefaultCost.
	BcryptCost int

	validate *validator.Validate
}

func NewService(users Repo, profileRepo profiles.Repo, sessions *SessionStore, signer *auth.Signer) *Service {
	return &Service{
		Users:    users,
		Profiles: profileRepo,
		Sessions: sessions,
		Signer:   signer,
		validate: validator.New(),
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// SignUp creates a password account with a fresh profile and opens a session.
func (s *Service) SignUp(ctx context.Context, email, password string) (Session, error) {
	email = normalizeEmail(email)
	if err := s.validator().Var(email, "required,email"); err != nil {
		return Session{}, ErrInvalidEmail
	}
	if len(password) < minPasswordLength {
		return Session{}, ErrWeakPassword
	}
	if len(password) > maxPasswordLength {
		return Session{}, ErrPasswordTooLong
	}

	cost := s.BcryptCost
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return Session{}, fmt.Errorf("hash password: %w", err)
	}
	hashStr := string(hash)

	user := User{ID: uuid.NewString(), Email: email, PasswordHash: &hashStr, Provider: ProviderPassword}
	if err := s.Users.Create(ctx, user); err != nil {
		return Session{}, err
	}
	if _, err := s.Profiles.Ensure(ctx, user.ID); err != nil {
		return Session{}, fmt.Errorf("create profile: %w", err)
	}
	telemetry.Info("account.signed_up", map[string]any{"user_id": user.ID, "provider": ProviderPassword})
	return s.openSession(ctx, user)
}

// SignInWithPassword verifies credentials and opens a session.
func (s *Service) SignInWithPassword(ctx context.Context, email, password string) (Session, error) {
	user, err := s.Users.GetByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return Session{}, ErrInvalidCredentials
		}
		return Session{}, err
	}
	if user.PasswordHash == nil {
		return Session{}, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(*user.PasswordHash), []byte(password)); err != nil {
		return Session{}, ErrInvalidCredentials
	}
	return s.openSession(ctx, user)
}

// SignInWithProvider signs in an externally verified email, creating the account on first use.
func (s *Service) SignInWithProvider(ctx context.Context, provider, email string) (Session, error) {
	email = normalizeEmail(email)
	if err := s.validator().Var(email, "required,email"); err != nil {
		return Session{}, ErrInvalidEmail
	}
	user, err := s.Users.GetByEmail(ctx, email)
	if errors.Is(err, ErrNotFound) {
		user = User{ID: uuid.NewString(), Email: email, Provider: provider}
		if err = s.Users.Create(ctx, user); errors.Is(err, ErrEmailTaken) {
			user, err = s.Users.GetByEmail(ctx, email)
		}
	}
	if err != nil {
		return Session{}, err
	}
	if _, err := s.Profiles.Ensure(ctx, user.ID); err != nil {
		return Session{}, fmt.Errorf("ensure profile: %w", err)
	}
	return s.openSession(ctx, user)
}

// SignOut revokes the session.
func (s *Service) SignOut(ctx context.Context, sessionID string) error {
	if strings.TrimSpace(sessionID) == "" {
		return nil
	}
	if err := s.Sessions.Revoke(ctx, sessionID); err != nil {
		return apperr.Classify(err)
	}
	return nil
}

// GetSession resolves a token to its live session.
func (s *Service) GetSession(ctx context.Context, token string) (Session, error) {
	claims, err := s.Signer.Verify(token)
	if err != nil {
		return Session{}, ErrSessionExpired.Wrap(err)
	}
	live, err := s.Sessions.Live(ctx, claims.SessionID, claims.UserID())
	if err != nil {
		return Session{}, apperr.Classify(err)
	}
	if !live {
		return Session{}, ErrSessionExpired
	}
	sess := Session{
		Token:     token,
		SessionID: claims.SessionID,
		UserID:    claims.UserID(),
		Email:     claims.Email,
	}
	if claims.ExpiresAt != nil {
		sess.ExpiresAt = claims.ExpiresAt.Time
	}
	return sess, nil
}

// VerifyToken adapts GetSession for the authentication middleware.
func (s *Service) VerifyToken(ctx context.Context, token string) (middleware.Identity, error) {
	sess, err := s.GetSession(ctx, token)
	if err != nil {
		return middleware.Identity{}, err
	}
	return middleware.Identity{UserID: sess.UserID, Email: sess.Email, SessionID: sess.SessionID}, nil
}

// GetUser loads the account record.
func (s *Service) GetUser(ctx context.Context, userID string) (User, error) {
	user, err := s.Users.GetByID(ctx, userID)
	if errors.Is(err, ErrNotFound) {
		return User{}, apperr.NewNotFound("user_not_found", "user not found")
	}
	return user, err
}

func (s *Service) openSession(ctx context.Context, user User) (Session, error) {
	sessionID := uuid.NewString()
	token, expiresAt, err := s.Signer.Sign(user.ID, user.Email, sessionID)
	if err != nil {
		return Session{}, fmt.Errorf("sign token: %w", err)
	}
	if err := s.Sessions.Open(ctx, sessionID, user.ID, s.Signer.TTL()); err != nil {
		return Session{}, apperr.Classify(err)
	}
	return Session{
		Token:     token,
		SessionID: sessionID,
		UserID:    user.ID,
		Email:     user.Email,
		ExpiresAt: expiresAt,
	}, nil
}

func (s *Service) validator() *validator.Validate {
	if s.validate == nil {
		s.validate = validator.New()
	}
	return s.validate
}
