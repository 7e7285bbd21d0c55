package jobdescriptions

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"

	"resume-builder/internal/shared/apperr"
	"resume-builder/internal/shared/util"
)

const maxTitleLength = 120

var (
	ErrEmptyDescription = apperr.NewValidation("job_description_required", "paste a job description first")
	errJobNotFound      = apperr.NewNotFound("job_description_not_found", "job description not found")
)

type Service struct {
	Repo Repo
}

// Create stores text with a title taken from its first non-blank line.
func (s *Service) Create(ctx context.Context, userID, text string) (JobDescription, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return JobDescription{}, ErrEmptyDescription
	}
	jd := JobDescription{
		ID:          uuid.NewString(),
		UserID:      userID,
		Description: text,
	}
	if title := util.FirstLine(text, maxTitleLength); title != "" {
		jd.Title = &title
	}
	return s.Repo.Create(ctx, jd)
}

func (s *Service) Get(ctx context.Context, userID, id string) (JobDescription, error) {
	jd, err := s.Repo.Get(ctx, userID, id)
	if errors.Is(err, ErrNotFound) {
		return JobDescription{}, errJobNotFound.Wrap(err)
	}
	return jd, err
}
