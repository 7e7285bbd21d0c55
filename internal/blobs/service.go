package blobs

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"resume-builder/internal/shared/metrics"
	"resume-builder/internal/shared/storage/kv"
	"resume-builder/internal/shared/telemetry"
	"resume-builder/internal/shared/util"
)

const (
	MaxTitleLength       = 200
	MaxDescriptionLength = 8000
	MaxTags              = 50

	idempotencyTTL = 10 * time.Minute
	pendingMarker  = "pending"
)

type Service struct {
	Repo Repo
	// KV backs Idempotency-Key deduplication. Nil disables it.
	KV kv.Store
	// OnChange runs after a user's blob set changes.
	OnChange func(ctx context.Context, userID string)
}

func NewService(repo Repo, store kv.Store) *Service {
	return &Service{Repo: repo, KV: store}
}

// Input carries the writable fields of a blob.
type Input struct {
	Category    string
	Title       string
	Description string
	Tags        []string
}

// Patch updates only the non-nil fields.
type Patch struct {
	Category    *string
	Title       *string
	Description *string
	Tags        *[]string
}

func (s *Service) List(ctx context.Context, userID, category, search string, limit, offset int) ([]Blob, Filter, error) {
	cat, err := ParseFilterCategory(category)
	if err != nil {
		return nil, Filter{}, err
	}
	f := normalizePage(Filter{
		Category: cat,
		Search:   strings.TrimSpace(search),
		Limit:    limit,
		Offset:   offset,
	})
	items, err := s.Repo.List(ctx, userID, f)
	if err != nil {
		return nil, f, err
	}
	return items, f, nil
}

func (s *Service) Get(ctx context.Context, userID, id string) (Blob, error) {
	b, err := s.Repo.Get(ctx, userID, id)
	if err != nil {
		return Blob{}, asAppErr(err)
	}
	return b, nil
}

// Create validates in and persists a new blob. A repeated idempotencyKey returns
// the blob created by the first request.
func (s *Service) Create(ctx context.Context, userID string, in Input, idempotencyKey string) (Blob, error) {
	blob, err := build(userID, in)
	if err != nil {
		return Blob{}, err
	}

	idemKey := ""
	if s.KV != nil && strings.TrimSpace(idempotencyKey) != "" {
		idemKey = "idem:blob:" + userID + ":" + strings.TrimSpace(idempotencyKey)
		ok, err := s.KV.SetNX(ctx, idemKey, []byte(pendingMarker), idempotencyTTL)
		if err != nil {
			return Blob{}, err
		}
		if !ok {
			return s.replay(ctx, userID, idemKey)
		}
	}

	created, err := s.Repo.Create(ctx, blob)
	if err != nil {
		if idemKey != "" {
			_ = s.KV.Delete(context.WithoutCancel(ctx), idemKey)
		}
		return Blob{}, err
	}
	if idemKey != "" {
		if err := s.KV.Set(ctx, idemKey, []byte(created.ID), idempotencyTTL); err != nil {
			telemetry.Warn("blobs.idempotency.store_failed", map[string]any{"userId": userID, "error": err})
		}
	}

	metrics.AddBlobsCreated(1)
	s.changed(ctx, userID)
	telemetry.Info("blobs.created", map[string]any{
		"userId":   userID,
		"blobId":   created.ID,
		"category": string(created.Category),
	})
	return created, nil
}

func (s *Service) replay(ctx context.Context, userID, idemKey string) (Blob, error) {
	raw, err := s.KV.Get(ctx, idemKey)
	if err != nil {
		if errors.Is(err, kv.ErrNotFound) {
			return Blob{}, ErrRequestInProgress
		}
		return Blob{}, err
	}
	if string(raw) == pendingMarker {
		return Blob{}, ErrRequestInProgress
	}
	return s.Get(ctx, userID, string(raw))
}

// CreateBatch persists every input in one all-or-none write.
func (s *Service) CreateBatch(ctx context.Context, userID string, inputs []Input) ([]Blob, error) {
	if len(inputs) == 0 {
		return []Blob{}, nil
	}
	items := make([]Blob, 0, len(inputs))
	for _, in := range inputs {
		b, err := build(userID, in)
		if err != nil {
			return nil, err
		}
		items = append(items, b)
	}
	created, err := s.Repo.CreateMany(ctx, items)
	if err != nil {
		return nil, err
	}
	metrics.AddBlobsCreated(len(created))
	s.changed(ctx, userID)
	return created, nil
}

func (s *Service) Update(ctx context.Context, userID, id string, p Patch) (Blob, error) {
	cur, err := s.Repo.Get(ctx, userID, id)
	if err != nil {
		return Blob{}, asAppErr(err)
	}
	in := Input{
		Category:    string(cur.Category),
		Title:       cur.Title,
		Description: cur.Description,
		Tags:        cur.Tags,
	}
	if p.Category != nil {
		in.Category = *p.Category
	}
	if p.Title != nil {
		in.Title = *p.Title
	}
	if p.Description != nil {
		in.Description = *p.Description
	}
	if p.Tags != nil {
		in.Tags = *p.Tags
	}
	next, err := build(userID, in)
	if err != nil {
		return Blob{}, err
	}
	next.ID = cur.ID
	next.CreatedAt = cur.CreatedAt

	updated, err := s.Repo.Update(ctx, next)
	if err != nil {
		return Blob{}, asAppErr(err)
	}
	return updated, nil
}

// Delete removes the blob and returns only once the store has acknowledged it.
func (s *Service) Delete(ctx context.Context, userID, id string) error {
	if err := s.Repo.Delete(ctx, userID, id); err != nil {
		telemetry.Warn("blobs.delete.failed", map[string]any{"userId": userID, "blobId": id, "error": err})
		return asAppErr(err)
	}
	s.changed(ctx, userID)
	telemetry.Info("blobs.deleted", map[string]any{"userId": userID, "blobId": id})
	return nil
}

func (s *Service) ListByIDs(ctx context.Context, userID string, ids []string) ([]Blob, error) {
	return s.Repo.ListByIDs(ctx, userID, ids)
}

func (s *Service) Count(ctx context.Context, userID string) (int, error) {
	return s.Repo.Count(ctx, userID)
}

func (s *Service) changed(ctx context.Context, userID string) {
	if s.OnChange != nil {
		s.OnChange(ctx, userID)
	}
}

func build(userID string, in Input) (Blob, error) {
	cat, err := ParseCategory(in.Category)
	if err != nil {
		return Blob{}, err
	}
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return Blob{}, ErrTitleRequired
	}
	if len([]rune(title)) > MaxTitleLength {
		return Blob{}, ErrTitleTooLong
	}
	desc := strings.TrimSpace(in.Description)
	if len([]rune(desc)) > MaxDescriptionLength {
		return Blob{}, ErrDescriptionTooLong
	}
	tags := util.CleanList(in.Tags)
	if len(tags) > MaxTags {
		return Blob{}, ErrTooManyTags
	}
	return Blob{
		ID:          uuid.NewString(),
		UserID:      userID,
		Category:    cat,
		Title:       title,
		Description: desc,
		Tags:        tags,
	}, nil
}
