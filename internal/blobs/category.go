package blobs

import (
	"strings"

	"resume-builder/internal/shared/apperr"
)

// Category is the closed set of blob kinds.
type Category string

const (
	CategoryWorkExperience Category = "work_experience"
	CategoryVolunteering   Category = "volunteering"
	CategoryProject        Category = "project"
	CategorySchool         Category = "school"
	CategoryAward          Category = "award"
	CategorySkill          Category = "skill_blob"
)

// AllCategories is the filter value matching every category.
const AllCategories = "all"

// Categories lists every category in display order.
var Categories = []Category{
	CategoryWorkExperience,
	CategoryVolunteering,
	CategoryProject,
	CategorySchool,
	CategoryAward,
	CategorySkill,
}

var ErrInvalidCategory = apperr.NewValidation("invalid_category", "unknown blob category")

// Label is the display name of c.
func (c Category) Label() string {
	switch c {
	case CategoryWorkExperience:
		return "Work Experience"
	case CategoryVolunteering:
		return "Volunteering"
	case CategoryProject:
		return "Projects"
	case CategorySchool:
		return "Education"
	case CategoryAward:
		return "Awards"
	case CategorySkill:
		return "Skills"
	default:
		return string(c)
	}
}

func (c Category) Valid() bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

// ParseCategory validates raw as a category. Matching is exact.
func ParseCategory(raw string) (Category, error) {
	c := Category(strings.TrimSpace(raw))
	if !c.Valid() {
		return "", ErrInvalidCategory.WithDetails(map[string]any{"category": raw})
	}
	return c, nil
}

// ParseFilterCategory accepts "all" or an empty value as no category constraint.
func ParseFilterCategory(raw string) (Category, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" || trimmed == AllCategories {
		return "", nil
	}
	return ParseCategory(trimmed)
}
