// Package dashboard serves the per-user overview counts.
package dashboard

import (
	"context"
	"time"

	"github.com/patrickmn/go-cache"
	"golang.org/x/sync/errgroup"
)

const statsTTL = 30 * time.Second

// Counter counts a user's rows of one kind.
type Counter interface {
	Count(ctx context.Context, userID string) (int, error)
}

type Stats struct {
	Blobs          int `json:"blobs"`
	Resumes        int `json:"resumes"`
	BulletVersions int `json:"bulletVersions"`
}

type Service struct {
	Blobs   Counter
	Resumes Counter
	Bullets Counter
	cache   *cache.Cache
}

func NewService(blobsCounter, resumesCounter, bulletsCounter Counter) *Service {
	return &Service{
		Blobs:   blobsCounter,
		Resumes: resumesCounter,
		Bullets: bulletsCounter,
		cache:   cache.New(statsTTL, 2*statsTTL),
	}
}

// Stats returns cached counts or computes them concurrently.
func (s *Service) Stats(ctx context.Context, userID string) (Stats, error) {
	if v, ok := s.cache.Get(userID); ok {
		return v.(Stats), nil
	}

	var out Stats
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		n, err := s.Blobs.Count(gctx, userID)
		out.Blobs = n
		return err
	})
	g.Go(func() error {
		n, err := s.Resumes.Count(gctx, userID)
		out.Resumes = n
		return err
	})
	g.Go(func() error {
		n, err := s.Bullets.Count(gctx, userID)
		out.BulletVersions = n
		return err
	})
	if err := g.Wait(); err != nil {
		return Stats{}, err
	}
	s.cache.Set(userID, out, cache.DefaultExpiration)
	return out, nil
}

// Invalidate drops the cached counts for userID.
func (s *Service) Invalidate(_ context.Context, userID string) {
	s.cache.Delete(userID)
}
