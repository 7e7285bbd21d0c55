package accounts

import (
	"context"
	"errors"
	"time"

	"resume-builder/internal/shared/storage/kv"
)

// SessionStore tracks live sessions so sign-out revokes tokens before they expire.
type SessionStore struct {
	KV kv.Store
}

type sessionRecord struct {
	UserID    string    `json:"userId"`
	CreatedAt time.Time `json:"createdAt"`
}

func sessionKey(sessionID string) string { return "session:" + sessionID }

// Open records sessionID as live for ttl.
func (s *SessionStore) Open(ctx context.Context, sessionID, userID string, ttl time.Duration) error {
	return kv.SetJSON(ctx, s.KV, sessionKey(sessionID), sessionRecord{UserID: userID, CreatedAt: time.Now().UTC()}, ttl)
}

// Live reports whether sessionID is open and owned by userID.
func (s *SessionStore) Live(ctx context.Context, sessionID, userID string) (bool, error) {
	var rec sessionRecord
	if err := kv.GetJSON(ctx, s.KV, sessionKey(sessionID), &rec); err != nil {
		if errors.Is(err, kv.ErrNotFound) {
			return false, nil
		}
		return false, err
	}
	return rec.UserID == userID, nil
}

// Revoke closes sessionID. Closing an unknown session is not an error.
func (s *SessionStore) Revoke(ctx context.Context, sessionID string) error {
	return s.KV.Delete(ctx, sessionKey(sessionID))
}
