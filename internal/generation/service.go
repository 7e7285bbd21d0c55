// Package generation drives the Input, Select and Preview resume wizard.
package generation

import (
	"context"
	"errors"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"

	"resume-builder/internal/ai"
	"resume-builder/internal/blobs"
	"resume-builder/internal/bullets"
	"resume-builder/internal/extract"
	"resume-builder/internal/generatedresumes"
	"resume-builder/internal/jobdescriptions"
	"resume-builder/internal/shared/metrics"
	"resume-builder/internal/shared/storage/kv"
	"resume-builder/internal/shared/storage/object"
	"resume-builder/internal/shared/telemetry"
)

const (
	defaultDraftTTL = 72 * time.Hour
	maxFeedback     = 2000
)

type JobStore interface {
	Create(ctx context.Context, userID, text string) (jobdescriptions.JobDescription, error)
}

type BlobSource interface {
	List(ctx context.Context, userID, category, search string, limit, offset int) ([]blobs.Blob, blobs.Filter, error)
	ListByIDs(ctx context.Context, userID string, ids []string) ([]blobs.Blob, error)
}

type ResumeStore interface {
	Create(ctx context.Context, resume generatedresumes.GeneratedResume) (generatedresumes.GeneratedResume, error)
}

type BulletRecorder interface {
	Record(ctx context.Context, userID, jobContext string, drafts []bullets.Draft) ([]bullets.Version, error)
}

// Deps are the collaborators a Service needs.
type Deps struct {
	Jobs      JobStore
	Blobs     BlobSource
	Resumes   ResumeStore
	Bullets   BulletRecorder
	Suggester ai.Suggester
	Renderer  ai.Renderer
	// Uploads stores job description files. Nil disables uploads.
	Uploads object.ObjectStore
}

type Service struct {
	Deps
	KV        kv.Store
	Locker    *kv.Locker
	Threshold float64
	DraftTTL  time.Duration
	Now       func() time.Time
	NewID     func() string
	// OnChange runs after a resume has been generated.
	OnChange func(ctx context.Context, userID string)
}

func NewService(store kv.Store, deps Deps, draftTTL time.Duration) *Service {
	if draftTTL <= 0 {
		draftTTL = defaultDraftTTL
	}
	return &Service{
		Deps:      deps,
		KV:        store,
		Locker:    kv.NewLocker(store),
		Threshold: DefaultThreshold,
		DraftTTL:  draftTTL,
		Now:       func() time.Time { return time.Now().UTC() },
		NewID:     uuid.NewString,
	}
}

func draftKey(id string) string { return "draft:generation:" + id }

// Start opens a new wizard on the Input step.
func (s *Service) Start(ctx context.Context, userID string) (Draft, error) {
	now := s.Now()
	d := Draft{
		ID:         s.NewID(),
		UserID:     userID,
		Step:       StepInput,
		Candidates: []Candidate{},
		CreatedAt:  now,
	}
	if err := s.save(ctx, &d); err != nil {
		return Draft{}, err
	}
	metrics.IncGeneration("start", "ok")
	return d, nil
}

func (s *Service) Get(ctx context.Context, userID, id string) (Draft, error) {
	return s.load(ctx, userID, id)
}

func (s *Service) SetJobText(ctx context.Context, userID, id, text string) (Draft, error) {
	return s.mutate(ctx, userID, id, func(d *Draft) error { return d.SetJobText(text) })
}

func (s *Service) ToggleSelected(ctx context.Context, userID, id, blobID string) (Draft, error) {
	return s.mutate(ctx, userID, id, func(d *Draft) error { return d.ToggleSelected(blobID) })
}

func (s *Service) TogglePin(ctx context.Context, userID, id, blobID string) (Draft, error) {
	return s.mutate(ctx, userID, id, func(d *Draft) error { return d.TogglePin(blobID) })
}

func (s *Service) Back(ctx context.Context, userID, id string) (Draft, error) {
	return s.mutate(ctx, userID, id, func(d *Draft) error {
		d.Back()
		return nil
	})
}

// Discard removes the draft. Generated resumes are kept.
func (s *Service) Discard(ctx context.Context, userID, id string) error {
	return s.Locker.WithLock(ctx, draftKey(id), func(ctx context.Context) error {
		if _, err := s.load(ctx, userID, id); err != nil {
			return err
		}
		return s.KV.Delete(ctx, draftKey(id))
	})
}

// Analyze scores the user's blobs against the job text and moves to Select.
// Failures keep the wizard on Input with LastError set.
func (s *Service) Analyze(ctx context.Context, userID, id string) (Draft, error) {
	return s.step(ctx, userID, id, "analyze", s.analyze)
}

// Next advances one step: Input analyzes, Select renders.
func (s *Service) Next(ctx context.Context, userID, id string) (Draft, error) {
	d, err := s.load(ctx, userID, id)
	if err != nil {
		return Draft{}, err
	}
	switch d.Step {
	case StepInput:
		return s.Analyze(ctx, userID, id)
	case StepSelect:
		return s.step(ctx, userID, id, "render", func(ctx context.Context, d *Draft) error {
			if err := d.canRender(); err != nil {
				return err
			}
			d.Feedback = ""
			return s.render(ctx, d)
		})
	default:
		return d, ErrWrongStep.WithDetails(map[string]any{"step": d.Step})
	}
}

// RequestChanges re-renders the preview with feedback, producing a new resume.
func (s *Service) RequestChanges(ctx context.Context, userID, id, feedback string) (Draft, error) {
	feedback = strings.TrimSpace(feedback)
	if len([]rune(feedback)) > maxFeedback {
		return Draft{}, ErrFeedbackSize
	}
	return s.step(ctx, userID, id, "revise", func(ctx context.Context, d *Draft) error {
		if err := d.require(StepPreview); err != nil {
			return err
		}
		if len(d.SelectedIDs()) == 0 {
			return ErrNoSelection
		}
		d.Feedback = feedback
		return s.render(ctx, d)
	})
}

// UploadJobDescription stores a job posting file and puts its text into Input.
func (s *Service) UploadJobDescription(ctx context.Context, userID, id, fileName string, r io.Reader) (Draft, error) {
	if s.Uploads == nil {
		return Draft{}, extract.ErrUnsupportedType
	}
	return s.step(ctx, userID, id, "upload", func(ctx context.Context, d *Draft) error {
		if err := d.require(StepInput); err != nil {
			return err
		}
		key, _, mimeType, err := s.Uploads.Save(ctx, userID, fileName, r)
		if err != nil {
			return err
		}
		text, err := extract.Text(ctx, s.Uploads, key, mimeType, fileName)
		if err != nil {
			return err
		}
		d.JobText = text
		return nil
	})
}

// step runs fn under the draft lock. A failing fn records LastError and the
// draft is saved either way, so the client sees why it stayed put.
func (s *Service) step(ctx context.Context, userID, id, name string, fn func(context.Context, *Draft) error) (Draft, error) {
	var (
		out    Draft
		runErr error
	)
	err := s.Locker.WithLock(ctx, draftKey(id), func(ctx context.Context) error {
		d, err := s.load(ctx, userID, id)
		if err != nil {
			return err
		}
		d.LastError = nil
		if runErr = fn(ctx, &d); runErr != nil {
			d.fail(runErr)
		}
		if err := s.save(context.WithoutCancel(ctx), &d); err != nil {
			return err
		}
		out = d
		return nil
	})
	if err != nil {
		metrics.IncGeneration(name, "error")
		return Draft{}, err
	}
	if runErr != nil {
		metrics.IncGeneration(name, "error")
		telemetry.Warn("generation.step_failed", map[string]any{
			"userId":       userID,
			"generationId": id,
			"step":         name,
			"error":        runErr.Error(),
		})
		return out, runErr
	}
	metrics.IncGeneration(name, "ok")
	return out, nil
}

func (s *Service) analyze(ctx context.Context, d *Draft) error {
	if err := d.require(StepInput); err != nil {
		return err
	}
	text := strings.TrimSpace(d.JobText)
	if text == "" {
		return jobdescriptions.ErrEmptyDescription
	}
	items, err := s.allBlobs(ctx, d.UserID)
	if err != nil {
		return err
	}
	if len(items) == 0 {
		return ErrNoBlobs
	}
	raw, err := s.Suggester.Suggest(ctx, text, items)
	if err != nil {
		return err
	}
	jd, err := s.Jobs.Create(ctx, d.UserID, text)
	if err != nil {
		return err
	}
	d.JobDescriptionID = jd.ID
	d.JobTitle = jd.TitleOrEmpty()
	d.applySuggestions(items, ai.Normalize(raw, items), s.Threshold)
	telemetry.Info("generation.analyzed", map[string]any{
		"userId":       d.UserID,
		"generationId": d.ID,
		"candidates":   len(d.Candidates),
		"selected":     len(d.SelectedIDs()),
	})
	return nil
}

func (s *Service) allBlobs(ctx context.Context, userID string) ([]blobs.Blob, error) {
	var out []blobs.Blob
	for offset := 0; ; offset += blobs.MaxLimit {
		page, _, err := s.Blobs.List(ctx, userID, "all", "", blobs.MaxLimit, offset)
		if err != nil {
			return nil, err
		}
		out = append(out, page...)
		if len(page) < blobs.MaxLimit {
			return out, nil
		}
	}
}

func (s *Service) render(ctx context.Context, d *Draft) error {
	selected, err := s.Blobs.ListByIDs(ctx, d.UserID, d.SelectedIDs())
	if err != nil {
		return err
	}
	if len(selected) == 0 {
		return ErrNoSelection
	}
	pinned := make(map[string]bool)
	for _, id := range d.PinnedIDs() {
		pinned[id] = true
	}

	resumeID := s.NewID()
	doc, err := s.Renderer.Render(ctx, ai.RenderInput{
		UserID:   d.UserID,
		ResumeID: resumeID,
		JobTitle: d.JobTitle,
		JobText:  d.JobText,
		Feedback: d.Feedback,
		Sections: ai.GroupSections(selected),
		Pinned:   pinned,
	})
	if err != nil {
		return err
	}

	record := generatedresumes.GeneratedResume{
		ID:              resumeID,
		UserID:          d.UserID,
		JobTitle:        d.JobTitle,
		SelectedBlobIDs: d.SelectedIDs(),
		PinnedBlobIDs:   d.PinnedIDs(),
		ExcludedBlobIDs: d.ExcludedIDs(),
		FinalPDFURL:     &doc.URL,
		StorageKey:      doc.StorageKey,
		MimeType:        doc.MimeType,
	}
	if d.JobDescriptionID != "" {
		jdID := d.JobDescriptionID
		record.JobDescriptionID = &jdID
	}
	if name, model := s.modelInfo(); name != "" {
		record.ModelProvider = &name
		if model != "" {
			record.ModelName = &model
		}
	}
	created, err := s.Resumes.Create(ctx, record)
	if err != nil {
		return err
	}

	d.Document = &Document{
		ResumeID:   created.ID,
		URL:        doc.URL,
		StorageKey: doc.StorageKey,
		MimeType:   doc.MimeType,
	}
	d.Step = StepPreview
	if s.OnChange != nil {
		s.OnChange(ctx, d.UserID)
	}

	drafts := make([]bullets.Draft, 0, len(doc.Bullets))
	for _, b := range doc.Bullets {
		drafts = append(drafts, bullets.Draft{BlobID: b.BlobID, Text: b.Text})
	}
	if _, err := s.Bullets.Record(ctx, d.UserID, d.JobTitle, drafts); err != nil {
		// the resume exists, so stay on Preview and tell the client
		telemetry.Error("generation.bullets_failed", map[string]any{
			"userId":       d.UserID,
			"generationId": d.ID,
			"resumeId":     created.ID,
			"error":        err.Error(),
		})
		d.LastError = &LastError{
			Code:      "bullets_not_saved",
			Message:   "resume generated but bullet history could not be saved",
			Retryable: false,
		}
	}
	return nil
}

type namedModel interface {
	Name() string
	Model() string
}

func (s *Service) modelInfo() (string, string) {
	if m, ok := s.Suggester.(namedModel); ok {
		return m.Name(), m.Model()
	}
	return "", ""
}

func (s *Service) mutate(ctx context.Context, userID, id string, fn func(*Draft) error) (Draft, error) {
	var out Draft
	err := s.Locker.WithLock(ctx, draftKey(id), func(ctx context.Context) error {
		d, err := s.load(ctx, userID, id)
		if err != nil {
			return err
		}
		if err := fn(&d); err != nil {
			return err
		}
		if err := s.save(ctx, &d); err != nil {
			return err
		}
		out = d
		return nil
	})
	return out, err
}

func (s *Service) load(ctx context.Context, userID, id string) (Draft, error) {
	var d Draft
	err := kv.GetJSON(ctx, s.KV, draftKey(id), &d)
	if errors.Is(err, kv.ErrNotFound) {
		return Draft{}, ErrNotFound
	}
	if err != nil {
		return Draft{}, err
	}
	// drafts of other users are reported as missing
	if d.UserID != userID {
		return Draft{}, ErrNotFound
	}
	if d.Candidates == nil {
		d.Candidates = []Candidate{}
	}
	return d, nil
}

func (s *Service) save(ctx context.Context, d *Draft) error {
	d.UpdatedAt = s.Now()
	return kv.SetJSON(ctx, s.KV, draftKey(d.ID), d, s.DraftTTL)
}
