package jobdescriptions

import "time"

// JobDescription is a pasted or uploaded job posting.
type JobDescription struct {
	ID          string    `json:"id" db:"id"`
	UserID      string    `json:"userId" db:"user_id"`
	Title       *string   `json:"title,omitempty" db:"title"`
	Description string    `json:"description" db:"description"`
	CreatedAt   time.Time `json:"createdAt" db:"created_at"`
}

// TitleOrEmpty dereferences Title.
func (j JobDescription) TitleOrEmpty() string {
	if j.Title == nil {
		return ""
	}
	return *j.Title
}
