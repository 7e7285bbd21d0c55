package generation

import (
	"context"
	"errors"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"resume-builder/internal/ai"
	"resume-builder/internal/blobs"
	"resume-builder/internal/bullets"
	"resume-builder/internal/generatedresumes"
	"resume-builder/internal/jobdescriptions"
	"resume-builder/internal/shared/apperr"
	"resume-builder/internal/shared/storage/kv"
	"resume-builder/internal/shared/storage/object/local"
)

// stubSuggester scores blobs by title and can fail a set number of times first.
type stubSuggester struct {
	scores   map[string]float64
	failures int
	calls    atomic.Int32
}

func (s *stubSuggester) Name() string  { return "stub" }
func (s *stubSuggester) Model() string { return "stub-1" }

func (s *stubSuggester) Suggest(_ context.Context, _ string, items []blobs.Blob) ([]ai.Suggestion, error) {
	n := s.calls.Add(1)
	if int(n) <= s.failures {
		return nil, apperr.NewTransient("ai_unavailable", "model is unavailable", errors.New("http status 503"))
	}
	out := make([]ai.Suggestion, 0, len(items))
	for _, b := range items {
		out = append(out, ai.Suggestion{BlobID: b.ID, RelevanceScore: s.scores[b.Title]})
	}
	return out, nil
}

type fixture struct {
	svc       *Service
	blobs     *blobs.Service
	resumes   *generatedresumes.Service
	bullets   *bullets.Service
	jobs      *jobdescriptions.Service
	suggester *stubSuggester
	changes   int
	ids       map[string]string
}

const goJob = "Backend Engineer\nWe need a Go engineer to build services on PostgreSQL."

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := kv.NewMemoryStore(time.Minute)
	objects := local.New(t.TempDir(), "")
	f := &fixture{
		blobs:     blobs.NewService(blobs.NewMemoryRepo(), store),
		resumes:   &generatedresumes.Service{Repo: generatedresumes.NewMemoryRepo()},
		bullets:   &bullets.Service{Repo: bullets.NewMemoryRepo()},
		jobs:      &jobdescriptions.Service{Repo: jobdescriptions.NewMemoryRepo()},
		suggester: &stubSuggester{scores: map[string]float64{"Go services": 0.9, "Postgres tuning": 0.6, "Dean's List": 0.05}},
		ids:       map[string]string{},
	}
	f.svc = NewService(store, Deps{
		Jobs:      f.jobs,
		Blobs:     f.blobs,
		Resumes:   f.resumes,
		Bullets:   f.bullets,
		Suggester: f.suggester,
		Renderer:  &ai.HTMLRenderer{Writer: ai.Heuristic{}, Store: objects},
		Uploads:   objects,
	}, time.Hour)
	f.svc.OnChange = func(context.Context, string) { f.changes++ }

	ctx := context.Background()
	for _, in := range []blobs.Input{
		{Category: "work_experience", Title: "Go services", Description: "Built Go services backed by PostgreSQL for payments."},
		{Category: "project", Title: "Postgres tuning", Description: "Tuned slow PostgreSQL queries and cut latency in half."},
		{Category: "award", Title: "Dean's List", Description: "Top ten percent of the class."},
	} {
		b, err := f.blobs.Create(ctx, "u1", in, "")
		require.NoError(t, err)
		f.ids[b.Title] = b.ID
	}
	return f
}

func (f *fixture) analyzed(t *testing.T) Draft {
	t.Helper()
	ctx := context.Background()
	d, err := f.svc.Start(ctx, "u1")
	require.NoError(t, err)
	_, err = f.svc.SetJobText(ctx, "u1", d.ID, goJob)
	require.NoError(t, err)
	d, err = f.svc.Analyze(ctx, "u1", d.ID)
	require.NoError(t, err)
	return d
}

func TestAnalyzeRejectsBlankJobWithoutCallingSuggester(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	d, err := f.svc.Start(ctx, "u1")
	require.NoError(t, err)
	_, err = f.svc.SetJobText(ctx, "u1", d.ID, "  \n\t ")
	require.NoError(t, err)

	_, err = f.svc.Analyze(ctx, "u1", d.ID)
	require.Error(t, err)
	assert.True(t, apperr.IsValidation(err))
	assert.Equal(t, int32(0), f.suggester.calls.Load())

	got, err := f.svc.Get(ctx, "u1", d.ID)
	require.NoError(t, err)
	assert.Equal(t, StepInput, got.Step)
	require.NotNil(t, got.LastError)
	assert.Equal(t, "job_description_required", got.LastError.Code)
	assert.False(t, got.LastError.Retryable)

	n, err := f.jobs.Repo.Count(ctx, "u1")
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestAnalyzeOrdersAndPreselects(t *testing.T) {
	f := newFixture(t)
	d := f.analyzed(t)

	assert.Equal(t, StepSelect, d.Step)
	require.Len(t, d.Candidates, 3)
	assert.Equal(t, "Go services", d.Candidates[0].Title)
	assert.Equal(t, "Postgres tuning", d.Candidates[1].Title)
	assert.True(t, d.Candidates[0].Selected)
	assert.True(t, d.Candidates[1].Selected)
	assert.False(t, d.Candidates[2].Selected)
	assert.Equal(t, "Backend Engineer", d.JobTitle)
	assert.NotEmpty(t, d.JobDescriptionID)
	assert.Nil(t, d.LastError)
}

func TestAnalyzeSelectsTopWhenNonePass(t *testing.T) {
	f := newFixture(t)
	f.suggester.scores = map[string]float64{"Go services": 0.1, "Postgres tuning": 0.2}
	d := f.analyzed(t)

	assert.Equal(t, []string{f.ids["Postgres tuning"], f.ids["Go services"]}, d.SelectedIDs())
}

func TestAnalyzeTransientFailureKeepsInputAndCanRetry(t *testing.T) {
	f := newFixture(t)
	f.suggester.failures = 1
	ctx := context.Background()
	d, err := f.svc.Start(ctx, "u1")
	require.NoError(t, err)
	_, err = f.svc.SetJobText(ctx, "u1", d.ID, goJob)
	require.NoError(t, err)

	got, err := f.svc.Analyze(ctx, "u1", d.ID)
	require.Error(t, err)
	assert.True(t, apperr.IsTransient(err))
	assert.Equal(t, StepInput, got.Step)
	require.NotNil(t, got.LastError)
	assert.True(t, got.LastError.Retryable)

	got, err = f.svc.Analyze(ctx, "u1", d.ID)
	require.NoError(t, err)
	assert.Equal(t, StepSelect, got.Step)
	assert.Nil(t, got.LastError)
}

func TestNextFromSelectRequiresSelection(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	d := f.analyzed(t)

	for _, id := range d.SelectedIDs() {
		_, err := f.svc.ToggleSelected(ctx, "u1", d.ID, id)
		require.NoError(t, err)
	}
	got, err := f.svc.Next(ctx, "u1", d.ID)
	assert.ErrorIs(t, err, ErrNoSelection)
	assert.Equal(t, StepSelect, got.Step)

	_, err = f.svc.ToggleSelected(ctx, "u1", d.ID, f.ids["Dean's List"])
	require.NoError(t, err)
	got, err = f.svc.Next(ctx, "u1", d.ID)
	require.NoError(t, err)
	assert.Equal(t, StepPreview, got.Step)
}

func TestNextRendersAndPersistsResume(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	d := f.analyzed(t)

	_, err := f.svc.TogglePin(ctx, "u1", d.ID, f.ids["Postgres tuning"])
	require.NoError(t, err)
	got, err := f.svc.Next(ctx, "u1", d.ID)
	require.NoError(t, err)

	assert.Equal(t, StepPreview, got.Step)
	require.NotNil(t, got.Document)
	assert.True(t, strings.HasPrefix(got.Document.URL, "/api/v1/files/renders/u1/"))
	assert.Equal(t, 1, f.changes)

	resume, err := f.resumes.Get(ctx, "u1", got.Document.ResumeID)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{f.ids["Go services"], f.ids["Postgres tuning"]}, resume.SelectedBlobIDs)
	assert.Equal(t, []string{f.ids["Postgres tuning"]}, resume.PinnedBlobIDs)
	assert.Equal(t, []string{f.ids["Dean's List"]}, resume.ExcludedBlobIDs)
	require.NotNil(t, resume.ModelProvider)
	assert.Equal(t, "stub", *resume.ModelProvider)
	require.NotNil(t, resume.JobDescriptionID)
	assert.Equal(t, d.JobDescriptionID, *resume.JobDescriptionID)

	versions, err := f.bullets.ListByBlob(ctx, "u1", f.ids["Go services"])
	require.NoError(t, err)
	assert.NotEmpty(t, versions)
}

func TestRequestChangesCreatesNewResume(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	d := f.analyzed(t)
	first, err := f.svc.Next(ctx, "u1", d.ID)
	require.NoError(t, err)

	second, err := f.svc.RequestChanges(ctx, "u1", d.ID, "Lead with the database work")
	require.NoError(t, err)
	assert.Equal(t, StepPreview, second.Step)
	assert.Equal(t, "Lead with the database work", second.Feedback)
	assert.NotEqual(t, first.Document.ResumeID, second.Document.ResumeID)

	n, err := f.resumes.Count(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestRequestChangesOnlyInPreview(t *testing.T) {
	f := newFixture(t)
	d := f.analyzed(t)
	_, err := f.svc.RequestChanges(context.Background(), "u1", d.ID, "shorter")
	assert.ErrorIs(t, err, ErrWrongStep)
}

func TestBackMovesOneStep(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	d := f.analyzed(t)
	_, err := f.svc.Next(ctx, "u1", d.ID)
	require.NoError(t, err)

	got, err := f.svc.Back(ctx, "u1", d.ID)
	require.NoError(t, err)
	assert.Equal(t, StepSelect, got.Step)
	got, err = f.svc.Back(ctx, "u1", d.ID)
	require.NoError(t, err)
	assert.Equal(t, StepInput, got.Step)
	got, err = f.svc.Back(ctx, "u1", d.ID)
	require.NoError(t, err)
	assert.Equal(t, StepInput, got.Step)
}

func TestDraftsAreOwnerScoped(t *testing.T) {
	f := newFixture(t)
	d := f.analyzed(t)

	_, err := f.svc.Get(context.Background(), "u2", d.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = f.svc.ToggleSelected(context.Background(), "u2", d.ID, f.ids["Go services"])
	assert.True(t, apperr.IsNotFound(err))
}

func TestUploadJobDescriptionFillsInput(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	d, err := f.svc.Start(ctx, "u1")
	require.NoError(t, err)

	got, err := f.svc.UploadJobDescription(ctx, "u1", d.ID, "posting.txt", strings.NewReader(goJob))
	require.NoError(t, err)
	assert.Equal(t, goJob, got.JobText)
	assert.Equal(t, StepInput, got.Step)
}
