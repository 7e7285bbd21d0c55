package generatedresumes

import (
	"context"
	"errors"
	"time"

	"resume-builder/internal/shared/storage/object"
	"resume-builder/internal/shared/telemetry"
)

const urlTTL = 15 * time.Minute

// Service contains business logic for generated resumes.
type Service struct {
	Repo Repo
	// Store refreshes document URLs on read. Nil keeps the stored URL.
	Store object.ObjectStore
}

func (s *Service) Create(ctx context.Context, resume GeneratedResume) (GeneratedResume, error) {
	created, err := s.Repo.Create(ctx, resume)
	if err != nil {
		return GeneratedResume{}, err
	}
	telemetry.Info("generated_resume.created", map[string]any{
		"userId":            created.UserID,
		"generatedResumeId": created.ID,
		"selected":          len(created.SelectedBlobIDs),
		"pinned":            len(created.PinnedBlobIDs),
	})
	return created, nil
}

// Get returns a generated resume by ID for a user.
func (s *Service) Get(ctx context.Context, userID, id string) (GeneratedResume, error) {
	resume, err := s.Repo.GetByID(ctx, userID, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return GeneratedResume{}, errResumeNotFound.Wrap(err)
		}
		return GeneratedResume{}, err
	}
	return s.withFreshURL(ctx, resume), nil
}

// List returns generated resumes for a user ordered newest-first.
func (s *Service) List(ctx context.Context, userID string, f ListFilter) ([]GeneratedResume, ListFilter, error) {
	f = f.normalize()
	items, err := s.Repo.ListByUser(ctx, userID, f)
	if err != nil {
		return nil, f, err
	}
	for i := range items {
		items[i] = s.withFreshURL(ctx, items[i])
	}
	return items, f, nil
}

func (s *Service) Count(ctx context.Context, userID string) (int, error) {
	return s.Repo.Count(ctx, userID)
}

func (s *Service) withFreshURL(ctx context.Context, resume GeneratedResume) GeneratedResume {
	if s.Store == nil || resume.StorageKey == "" {
		return resume
	}
	url, err := s.Store.URL(ctx, resume.StorageKey, urlTTL)
	if err != nil {
		telemetry.Warn("generated_resume.url_failed", map[string]any{"generatedResumeId": resume.ID, "error": err})
		return resume
	}
	resume.FinalPDFURL = &url
	return resume
}
