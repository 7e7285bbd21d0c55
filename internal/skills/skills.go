// Package skills serves the per-skill view over skill blobs. Each tag of a
// skill_blob blob is one skill; a trailing "(level)" carries the proficiency.
package skills

import (
	"context"
	"strconv"
	"strings"
	"time"

	"resume-builder/internal/blobs"
)

type Skill struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	BlobID    string    `json:"blobId"`
	Name      string    `json:"name"`
	Level     *string   `json:"level,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// BlobLister is the slice of the blob service this package reads from.
type BlobLister interface {
	List(ctx context.Context, userID, category, search string, limit, offset int) ([]blobs.Blob, blobs.Filter, error)
}

type Service struct {
	Blobs BlobLister
}

// List returns every skill of the user, newest skill blob first, tags in order.
func (s *Service) List(ctx context.Context, userID string) ([]Skill, error) {
	var out []Skill
	offset := 0
	for {
		page, f, err := s.Blobs.List(ctx, userID, string(blobs.CategorySkill), "", blobs.MaxLimit, offset)
		if err != nil {
			return nil, err
		}
		for _, b := range page {
			out = append(out, FromBlob(b)...)
		}
		if len(page) < f.Limit {
			break
		}
		offset += len(page)
	}
	if out == nil {
		out = []Skill{}
	}
	return out, nil
}

// FromBlob expands a skill blob into its skills.
func FromBlob(b blobs.Blob) []Skill {
	if b.Category != blobs.CategorySkill {
		return nil
	}
	out := make([]Skill, 0, len(b.Tags))
	for i, tag := range b.Tags {
		name, level := ParseTag(tag)
		if name == "" {
			continue
		}
		out = append(out, Skill{
			ID:        b.ID + ":" + strconv.Itoa(i),
			UserID:    b.UserID,
			BlobID:    b.ID,
			Name:      name,
			Level:     level,
			CreatedAt: b.CreatedAt,
		})
	}
	return out
}

// ParseTag splits "Go (expert)" into name and level.
func ParseTag(tag string) (string, *string) {
	tag = strings.TrimSpace(tag)
	if !strings.HasSuffix(tag, ")") {
		return tag, nil
	}
	open := strings.LastIndex(tag, "(")
	if open <= 0 {
		return tag, nil
	}
	level := strings.TrimSpace(tag[open+1 : len(tag)-1])
	name := strings.TrimSpace(tag[:open])
	if level == "" || name == "" {
		return tag, nil
	}
	return name, &level
}

// FormatTag is the inverse of ParseTag.
func FormatTag(name, level string) string {
	name = strings.TrimSpace(name)
	level = strings.TrimSpace(level)
	if level == "" {
		return name
	}
	return name + " (" + level + ")"
}
