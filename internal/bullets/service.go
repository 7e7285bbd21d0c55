package bullets

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"resume-builder/internal/shared/telemetry"
)

// Draft is a bullet produced during rendering, before it is recorded.
type Draft struct {
	BlobID string
	Text   string
}

type Service struct {
	Repo Repo
}

// Record appends a version per non-blank draft, tagged with the job context.
func (s *Service) Record(ctx context.Context, userID, jobContext string, drafts []Draft) ([]Version, error) {
	var ctxPtr *string
	if jc := strings.TrimSpace(jobContext); jc != "" {
		ctxPtr = &jc
	}
	items := make([]Version, 0, len(drafts))
	for _, d := range drafts {
		text := strings.TrimSpace(d.Text)
		if text == "" || d.BlobID == "" {
			continue
		}
		items = append(items, Version{
			ID:         uuid.NewString(),
			UserID:     userID,
			BlobID:     d.BlobID,
			Text:       text,
			JobContext: ctxPtr,
		})
	}
	if len(items) == 0 {
		return []Version{}, nil
	}
	out, err := s.Repo.CreateMany(ctx, items)
	if err != nil {
		return nil, err
	}
	telemetry.Debug("bullets.recorded", map[string]any{"userId": userID, "count": len(out)})
	return out, nil
}

func (s *Service) ListByBlob(ctx context.Context, userID, blobID string) ([]Version, error) {
	return s.Repo.ListByBlob(ctx, userID, blobID)
}

func (s *Service) Count(ctx context.Context, userID string) (int, error) {
	return s.Repo.Count(ctx, userID)
}
