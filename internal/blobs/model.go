package blobs

import (
	"time"

	"resume-builder/internal/shared/util"
)

// Blob is one reusable experience record.
type Blob struct {
	ID          string    `json:"id"`
	UserID      string    `json:"userId"`
	Category    Category  `json:"category"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Tags        []string  `json:"tags"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// DescriptionWordCount counts words in the description.
func (b Blob) DescriptionWordCount() int {
	return util.WordCount(b.Description)
}

// View is the API representation of a blob.
type View struct {
	Blob
	CategoryLabel        string `json:"categoryLabel"`
	DescriptionWordCount int    `json:"descriptionWordCount"`
}

func ToView(b Blob) View {
	if b.Tags == nil {
		b.Tags = []string{}
	}
	return View{Blob: b, CategoryLabel: b.Category.Label(), DescriptionWordCount: b.DescriptionWordCount()}
}

func ToViews(items []Blob) []View {
	out := make([]View, 0, len(items))
	for _, b := range items {
		out = append(out, ToView(b))
	}
	return out
}

// Filter narrows a blob listing. An empty Category means every category.
type Filter struct {
	Category Category
	Search   string
	Limit    int
	Offset   int
}

// Matches reports whether b passes the category and search constraints.
func (f Filter) Matches(b Blob) bool {
	if f.Category != "" && b.Category != f.Category {
		return false
	}
	if f.Search == "" {
		return true
	}
	return util.ContainsFold(b.Title, f.Search) || util.ContainsFold(b.Description, f.Search)
}
