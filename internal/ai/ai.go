// Package ai scores blobs against a job description and renders resumes.
package ai

import (
	"context"
	"sort"

	"resume-builder/internal/blobs"
)

// Suggestion is one blob's relevance to a job, in [0, 1].
type Suggestion struct {
	BlobID         string  `json:"blobId"`
	RelevanceScore float64 `json:"relevanceScore"`
	Reason         string  `json:"reason,omitempty"`
}

// Bullet is resume text written for one blob.
type Bullet struct {
	BlobID string `json:"blobId"`
	Text   string `json:"text"`
}

type Suggester interface {
	Suggest(ctx context.Context, jobText string, items []blobs.Blob) ([]Suggestion, error)
}

// BulletWriter writes resume bullets for the chosen blobs. feedback may be empty.
type BulletWriter interface {
	WriteBullets(ctx context.Context, jobText, feedback string, items []blobs.Blob) ([]Bullet, error)
}

// Provider is a model backend that can both score and write.
type Provider interface {
	Suggester
	BulletWriter
	// Name identifies the backend, e.g. "openai".
	Name() string
	// Model is the model identifier, empty for non-LLM backends.
	Model() string
}

// Section groups the selected blobs of one category.
type Section struct {
	Category blobs.Category
	Label    string
	Blobs    []blobs.Blob
}

type RenderInput struct {
	UserID   string
	ResumeID string
	JobTitle string
	JobText  string
	Feedback string
	Sections []Section
	// Pinned blobs are rendered first within their section.
	Pinned map[string]bool
}

// Document is a rendered resume stored in the object store.
type Document struct {
	URL        string
	StorageKey string
	MimeType   string
	Bullets    []Bullet
}

type Renderer interface {
	Render(ctx context.Context, in RenderInput) (Document, error)
}

// GroupSections buckets items by category in display order, dropping empty categories.
func GroupSections(items []blobs.Blob) []Section {
	byCat := make(map[blobs.Category][]blobs.Blob, len(blobs.Categories))
	for _, b := range items {
		byCat[b.Category] = append(byCat[b.Category], b)
	}
	out := make([]Section, 0, len(byCat))
	for _, cat := range blobs.Categories {
		if list := byCat[cat]; len(list) > 0 {
			out = append(out, Section{Category: cat, Label: cat.Label(), Blobs: list})
		}
	}
	return out
}

// SortSuggestions orders by score descending, then blob id for stability.
func SortSuggestions(items []Suggestion) {
	sort.SliceStable(items, func(i, j int) bool {
		if items[i].RelevanceScore != items[j].RelevanceScore {
			return items[i].RelevanceScore > items[j].RelevanceScore
		}
		return items[i].BlobID < items[j].BlobID
	})
}

// Normalize clamps scores into [0, 1], drops unknown or duplicate blob ids and
// adds a zero-score entry for every blob the provider skipped.
func Normalize(raw []Suggestion, items []blobs.Blob) []Suggestion {
	known := make(map[string]struct{}, len(items))
	for _, b := range items {
		known[b.ID] = struct{}{}
	}
	seen := make(map[string]struct{}, len(raw))
	out := make([]Suggestion, 0, len(items))
	for _, s := range raw {
		if _, ok := known[s.BlobID]; !ok {
			continue
		}
		if _, dup := seen[s.BlobID]; dup {
			continue
		}
		seen[s.BlobID] = struct{}{}
		s.RelevanceScore = clamp01(s.RelevanceScore)
		out = append(out, s)
	}
	for _, b := range items {
		if _, ok := seen[b.ID]; !ok {
			out = append(out, Suggestion{BlobID: b.ID})
		}
	}
	SortSuggestions(out)
	return out
}

func clamp01(v float64) float64 {
	switch {
	case v != v, v < 0:
		return 0
	case v > 1:
		return 1
	default:
		return v
	}
}

func flatten(sections []Section) []blobs.Blob {
	var out []blobs.Blob
	for _, s := range sections {
		out = append(out, s.Blobs...)
	}
	return out
}
