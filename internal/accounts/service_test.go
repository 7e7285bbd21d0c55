package accounts

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"resume-builder/internal/profiles"
	"resume-builder/internal/shared/apperr"
	"resume-builder/internal/shared/auth"
	"resume-builder/internal/shared/storage/kv"
)

func newTestService(t *testing.T) (*Service, *profiles.MemoryRepo) {
	t.Helper()
	signer, err := auth.NewSigner("test-secret", time.Hour, false)
	require.NoError(t, err)
	profileRepo := profiles.NewMemoryRepo()
	svc := NewService(NewMemoryRepo(), profileRepo, &SessionStore{KV: kv.NewMemoryStore(time.Minute)}, signer)
	svc.BcryptCost = bcrypt.MinCost
	return svc, profileRepo
}

func TestSignUpCreatesUserProfileAndSession(t *testing.T) {
	svc, profileRepo := newTestService(t)
	ctx := context.Background()

	sess, err := svc.SignUp(ctx, "  Ada@Example.com ", "correct horse")
	require.NoError(t, err)
	assert.Equal(t, "ada@example.com", sess.Email)
	assert.NotEmpty(t, sess.Token)

	profile, err := profileRepo.Get(ctx, sess.UserID)
	require.NoError(t, err)
	assert.False(t, profile.OnboardingComplete)

	got, err := svc.GetSession(ctx, sess.Token)
	require.NoError(t, err)
	assert.Equal(t, sess.UserID, got.UserID)
}

func TestSignUpValidation(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.SignUp(ctx, "not-an-email", "long enough")
	assert.ErrorIs(t, err, ErrInvalidEmail)

	_, err = svc.SignUp(ctx, "a@example.com", "short")
	assert.ErrorIs(t, err, ErrWeakPassword)

	_, err = svc.SignUp(ctx, "long@example.com", strings.Repeat("p", 80))
	assert.ErrorIs(t, err, ErrPasswordTooLong)
	assert.True(t, apperr.IsValidation(err))

	_, err = svc.SignUp(ctx, "a@example.com", "long enough")
	require.NoError(t, err)
	_, err = svc.SignUp(ctx, "A@example.com", "long enough")
	assert.ErrorIs(t, err, ErrEmailTaken)
	assert.True(t, apperr.IsValidation(err))
}

func TestSignInWithPassword(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	_, err := svc.SignUp(ctx, "a@example.com", "long enough")
	require.NoError(t, err)

	_, err = svc.SignInWithPassword(ctx, "a@example.com", "wrong password")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	assert.True(t, apperr.IsAuthExpired(err))

	_, err = svc.SignInWithPassword(ctx, "missing@example.com", "long enough")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	sess, err := svc.SignInWithPassword(ctx, "A@EXAMPLE.COM", "long enough")
	require.NoError(t, err)
	assert.NotEmpty(t, sess.SessionID)
}

func TestSignOutRevokesSession(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	sess, err := svc.SignUp(ctx, "a@example.com", "long enough")
	require.NoError(t, err)

	require.NoError(t, svc.SignOut(ctx, sess.SessionID))

	_, err = svc.GetSession(ctx, sess.Token)
	assert.ErrorIs(t, err, ErrSessionExpired)
	_, err = svc.VerifyToken(ctx, sess.Token)
	assert.True(t, apperr.IsAuthExpired(err))
}

func TestGetSessionRejectsGarbage(t *testing.T) {
	svc, _ := newTestService(t)
	_, err := svc.GetSession(context.Background(), "not-a-token")
	assert.True(t, apperr.IsAuthExpired(err))
}

func TestSignInWithProviderCreatesOnce(t *testing.T) {
	svc, profileRepo := newTestService(t)
	ctx := context.Background()

	first, err := svc.SignInWithProvider(ctx, ProviderGoogle, "g@example.com")
	require.NoError(t, err)
	second, err := svc.SignInWithProvider(ctx, ProviderGoogle, "G@example.com")
	require.NoError(t, err)
	assert.Equal(t, first.UserID, second.UserID)
	assert.NotEqual(t, first.SessionID, second.SessionID)

	_, err = profileRepo.Get(ctx, first.UserID)
	require.NoError(t, err)

	// provider accounts have no password
	_, err = svc.SignInWithPassword(ctx, "g@example.com", "anything at all")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}
