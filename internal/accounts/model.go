package accounts

import "time"

const (
	ProviderPassword = "password"
	ProviderGoogle   = "google"
)

// User is an authenticated identity.
type User struct {
	ID           string    `json:"id" db:"id"`
	Email        string    `json:"email" db:"email"`
	PasswordHash *string   `json:"-" db:"password_hash"`
	Provider     string    `json:"provider" db:"provider"`
	CreatedAt    time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt    time.Time `json:"updatedAt" db:"updated_at"`
}

// Session is a signed-in user together with the token that proves it.
type Session struct {
	Token     string    `json:"token"`
	SessionID string    `json:"sessionId"`
	UserID    string    `json:"userId"`
	Email     string    `json:"email"`
	ExpiresAt time.Time `json:"expiresAt"`
}
