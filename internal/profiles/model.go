package profiles

import "time"

// Profile is the per-user record gating access to the dashboard.
type Profile struct {
	UserID             string    `json:"userId" db:"user_id"`
	OnboardingComplete bool      `json:"onboardingComplete" db:"onboarding_complete"`
	CreatedAt          time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt          time.Time `json:"updatedAt" db:"updated_at"`
}
