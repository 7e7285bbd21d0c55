package onboarding

import (
	"context"
	"errors"
	"strings"
	"time"

	"resume-builder/internal/blobs"
	"resume-builder/internal/profiles"
	"resume-builder/internal/shared/metrics"
	"resume-builder/internal/shared/storage/kv"
	"resume-builder/internal/shared/telemetry"
	"resume-builder/internal/shared/util"
)

const defaultDraftTTL = 72 * time.Hour

// BlobWriter is the slice of the blob service used on submit.
type BlobWriter interface {
	CreateBatch(ctx context.Context, userID string, inputs []blobs.Input) ([]blobs.Blob, error)
	Update(ctx context.Context, userID, id string, p blobs.Patch) (blobs.Blob, error)
}

type Service struct {
	KV       kv.Store
	Locker   *kv.Locker
	Blobs    BlobWriter
	Profiles profiles.Repo
	DraftTTL time.Duration
	Now      func() time.Time
}

func NewService(store kv.Store, blobSvc BlobWriter, profileRepo profiles.Repo, draftTTL time.Duration) *Service {
	if draftTTL <= 0 {
		draftTTL = defaultDraftTTL
	}
	return &Service{
		KV:       store,
		Locker:   kv.NewLocker(store),
		Blobs:    blobSvc,
		Profiles: profileRepo,
		DraftTTL: draftTTL,
		Now:      func() time.Time { return time.Now().UTC() },
	}
}

// SubmitResult is returned once the wizard has been persisted.
type SubmitResult struct {
	Created  []blobs.Blob `json:"created"`
	Updated  int          `json:"updated"`
	Redirect string       `json:"redirect"`
}

func draftKey(userID string) string { return "draft:onboarding:" + userID }

func (s *Service) Get(ctx context.Context, userID string) (State, error) {
	return s.load(ctx, userID)
}

func (s *Service) AddEntry(ctx context.Context, userID, step string) (State, error) {
	return s.mutate(ctx, userID, func(st *State) error { return st.AddEntry(step) })
}

func (s *Service) RemoveEntry(ctx context.Context, userID, step string, index int) (State, error) {
	return s.mutate(ctx, userID, func(st *State) error { return st.RemoveEntry(step, index) })
}

func (s *Service) EditEntry(ctx context.Context, userID, step string, index int, field, value string) (State, error) {
	return s.mutate(ctx, userID, func(st *State) error { return st.EditEntry(step, index, field, value) })
}

func (s *Service) Back(ctx context.Context, userID string) (State, error) {
	return s.mutate(ctx, userID, func(st *State) error {
		st.Back()
		return nil
	})
}

// Next advances the wizard. On the last step it submits and returns the result.
func (s *Service) Next(ctx context.Context, userID string) (State, *SubmitResult, error) {
	var (
		out    State
		result *SubmitResult
	)
	err := s.Locker.WithLock(ctx, draftKey(userID), func(ctx context.Context) error {
		st, err := s.load(ctx, userID)
		if err != nil {
			return err
		}
		if st.Next() == TransitionAdvanced {
			if err := s.save(ctx, userID, &st); err != nil {
				return err
			}
			out = st
			return nil
		}
		res, err := s.submitLocked(ctx, userID, &st)
		out = st
		result = res
		return err
	})
	return out, result, err
}

// Submit persists every non-blank entry and completes onboarding.
func (s *Service) Submit(ctx context.Context, userID string) (State, *SubmitResult, error) {
	var (
		out    State
		result *SubmitResult
	)
	err := s.Locker.WithLock(ctx, draftKey(userID), func(ctx context.Context) error {
		st, err := s.load(ctx, userID)
		if err != nil {
			return err
		}
		res, err := s.submitLocked(ctx, userID, &st)
		out = st
		result = res
		return err
	})
	return out, result, err
}

func (s *Service) submitLocked(ctx context.Context, userID string, st *State) (*SubmitResult, error) {
	if st.Submitted {
		return nil, ErrAlreadySubmitted
	}

	type ref struct {
		step  string
		index int
	}
	var (
		inputs  []blobs.Input
		refs    []ref
		updated int
	)
	for _, step := range Steps {
		for i, e := range st.Entries[step.Key] {
			if e.blank() {
				continue
			}
			in := toInput(step, e)
			if e.BlobID != "" {
				// persisted by an earlier submit, edited since
				patch := blobs.Patch{Title: &in.Title, Description: &in.Description}
				if step.Tags {
					patch.Tags = &in.Tags
				}
				_, err := s.Blobs.Update(ctx, userID, e.BlobID, patch)
				switch {
				case err == nil:
					updated++
					continue
				case errors.Is(err, blobs.ErrNotFound):
					// deleted in the browser since; persist it again
					st.Entries[step.Key][i].BlobID = ""
				default:
					return nil, err
				}
			}
			inputs = append(inputs, in)
			refs = append(refs, ref{step: step.Key, index: i})
		}
	}

	created, err := s.Blobs.CreateBatch(ctx, userID, inputs)
	if err != nil {
		return nil, err
	}
	for i, b := range created {
		r := refs[i]
		st.Entries[r.step][r.index].BlobID = b.ID
	}
	// record blob ids before touching the profile so a retry never inserts twice
	if err := s.save(ctx, userID, st); err != nil {
		return nil, err
	}

	if _, err := s.Profiles.MarkOnboardingComplete(ctx, userID); err != nil {
		if errors.Is(err, profiles.ErrNotFound) {
			if _, err := s.Profiles.Ensure(ctx, userID); err != nil {
				return nil, err
			}
			_, err = s.Profiles.MarkOnboardingComplete(ctx, userID)
		}
		if err != nil {
			return nil, err
		}
	}

	st.Submitted = true
	if err := s.save(ctx, userID, st); err != nil {
		return nil, err
	}
	metrics.IncOnboardingCompleted()
	telemetry.Info("onboarding.submitted", map[string]any{
		"userId":  userID,
		"created": len(created),
		"updated": updated,
	})
	return &SubmitResult{Created: created, Updated: updated, Redirect: "/dashboard"}, nil
}

func toInput(step Step, e Entry) blobs.Input {
	title := strings.TrimSpace(e.Title)
	if title == "" {
		title = step.Title
	}
	in := blobs.Input{Category: string(step.Category), Title: title}
	if step.Tags {
		in.Tags = util.SplitList(e.Description)
		in.Description = ""
	} else {
		in.Description = strings.TrimSpace(e.Description)
		in.Tags = []string{}
	}
	return in
}

func (s *Service) mutate(ctx context.Context, userID string, fn func(*State) error) (State, error) {
	var out State
	err := s.Locker.WithLock(ctx, draftKey(userID), func(ctx context.Context) error {
		st, err := s.load(ctx, userID)
		if err != nil {
			return err
		}
		if err := fn(&st); err != nil {
			return err
		}
		if err := s.save(ctx, userID, &st); err != nil {
			return err
		}
		out = st
		return nil
	})
	return out, err
}

func (s *Service) load(ctx context.Context, userID string) (State, error) {
	var st State
	err := kv.GetJSON(ctx, s.KV, draftKey(userID), &st)
	if errors.Is(err, kv.ErrNotFound) {
		return NewState(), nil
	}
	if err != nil {
		return State{}, err
	}
	st.repair()
	return st, nil
}

func (s *Service) save(ctx context.Context, userID string, st *State) error {
	st.UpdatedAt = s.Now()
	return kv.SetJSON(ctx, s.KV, draftKey(userID), st, s.DraftTTL)
}
