package blobs

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"resume-builder/internal/shared/apperr"
	"resume-builder/internal/shared/storage/kv"
)

func newTestService() (*Service, *MemoryRepo) {
	repo := NewMemoryRepo()
	return NewService(repo, kv.NewMemoryStore(time.Minute)), repo
}

func seed(t *testing.T, svc *Service, userID string, inputs ...Input) []Blob {
	t.Helper()
	out := make([]Blob, 0, len(inputs))
	for _, in := range inputs {
		b, err := svc.Create(context.Background(), userID, in, "")
		require.NoError(t, err)
		out = append(out, b)
	}
	return out
}

func TestListSearchIsCaseInsensitiveOnTitleOrDescription(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()
	seed(t, svc, "u1",
		Input{Category: "work_experience", Title: "Software Engineering Intern", Description: "Built internal tools"},
		Input{Category: "award", Title: "Dean's List", Description: "Top of class"},
	)

	for _, q := range []string{"SOFTWARE", "intern", "  engineering "} {
		items, _, err := svc.List(ctx, "u1", "all", q, 0, 0)
		require.NoError(t, err)
		require.Len(t, items, 1, "query %q", q)
		assert.Equal(t, "Software Engineering Intern", items[0].Title)
	}

	items, _, err := svc.List(ctx, "u1", "all", "xyz", 0, 0)
	require.NoError(t, err)
	assert.Empty(t, items)

	items, _, err = svc.List(ctx, "u1", "", "top of", 0, 0)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "Dean's List", items[0].Title)
}

func TestListAllReturnsEverythingNewestFirst(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()
	seeded := seed(t, svc, "u1",
		Input{Category: "school", Title: "State University"},
		Input{Category: "project", Title: "Compiler"},
		Input{Category: "volunteering", Title: "Food bank"},
	)
	seed(t, svc, "u2", Input{Category: "school", Title: "Someone else"})

	items, f, err := svc.List(ctx, "u1", "all", "", 0, 0)
	require.NoError(t, err)
	assert.Equal(t, DefaultLimit, f.Limit)
	require.Len(t, items, 3)
	for i := range items {
		assert.Equal(t, seeded[len(seeded)-1-i].ID, items[i].ID)
	}
	for i := 1; i < len(items); i++ {
		assert.False(t, items[i].CreatedAt.After(items[i-1].CreatedAt))
	}

	schools, _, err := svc.List(ctx, "u1", "school", "", 0, 0)
	require.NoError(t, err)
	require.Len(t, schools, 1)
	assert.Equal(t, "State University", schools[0].Title)
}

func TestListRejectsUnknownCategory(t *testing.T) {
	svc, _ := newTestService()
	_, _, err := svc.List(context.Background(), "u1", "hobbies", "", 0, 0)
	assert.True(t, apperr.IsValidation(err))
}

func TestCreatedProjectAppearsFirst(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()
	seed(t, svc, "u1",
		Input{Category: "work_experience", Title: "Backend Engineer"},
		Input{Category: "school", Title: "State University"},
	)

	desc := strings.TrimSpace(strings.Repeat("Built a storefront with payments and search. ", 8)) + " Shipped it to production."
	created, err := svc.Create(ctx, "u1", Input{
		Category:    "project",
		Title:       "E-commerce Platform",
		Description: desc,
		Tags:        []string{"go", " ", "Go", "postgres"},
	}, "")
	require.NoError(t, err)
	assert.Equal(t, 60, created.DescriptionWordCount())
	assert.Equal(t, []string{"go", "postgres"}, created.Tags)

	items, _, err := svc.List(ctx, "u1", "all", "", 0, 0)
	require.NoError(t, err)
	require.Len(t, items, 3)
	assert.Equal(t, created.ID, items[0].ID)
	assert.Equal(t, "E-commerce Platform", items[0].Title)
}

func TestCreateValidation(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	_, err := svc.Create(ctx, "u1", Input{Category: "project", Title: "   "}, "")
	assert.ErrorIs(t, err, ErrTitleRequired)

	_, err = svc.Create(ctx, "u1", Input{Category: "hobby", Title: "Chess"}, "")
	assert.ErrorIs(t, err, ErrInvalidCategory)

	_, err = svc.Create(ctx, "u1", Input{Category: "project", Title: strings.Repeat("x", MaxTitleLength+1)}, "")
	assert.ErrorIs(t, err, ErrTitleTooLong)
}

func TestCategoryParsingIsExact(t *testing.T) {
	for _, raw := range []string{"WORK_EXPERIENCE", "Project", "Skill_Blob"} {
		_, err := ParseCategory(raw)
		assert.ErrorIs(t, err, ErrInvalidCategory, raw)
	}
	_, err := ParseFilterCategory("ALL")
	assert.ErrorIs(t, err, ErrInvalidCategory)

	c, err := ParseCategory(" work_experience ")
	require.NoError(t, err)
	assert.Equal(t, CategoryWorkExperience, c)
	c, err = ParseFilterCategory("all")
	require.NoError(t, err)
	assert.Empty(t, c)
}

func TestCreateIdempotencyKeyDeduplicates(t *testing.T) {
	svc, repo := newTestService()
	ctx := context.Background()
	in := Input{Category: "award", Title: "Hackathon winner"}

	first, err := svc.Create(ctx, "u1", in, "req-1")
	require.NoError(t, err)
	second, err := svc.Create(ctx, "u1", in, "req-1")
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)

	n, err := repo.Count(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	// keys are per user
	other, err := svc.Create(ctx, "u2", in, "req-1")
	require.NoError(t, err)
	assert.NotEqual(t, first.ID, other.ID)
}

func TestCreateReportsInFlightDuplicate(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()
	ok, err := svc.KV.SetNX(ctx, "idem:blob:u1:req-2", []byte(pendingMarker), time.Minute)
	require.NoError(t, err)
	require.True(t, ok)

	_, err = svc.Create(ctx, "u1", Input{Category: "award", Title: "Hackathon"}, "req-2")
	assert.ErrorIs(t, err, ErrRequestInProgress)
}

func TestUpdatePatchesOnlyProvidedFields(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()
	b := seed(t, svc, "u1", Input{Category: "project", Title: "Compiler", Description: "A toy compiler", Tags: []string{"c"}})[0]

	title := "Optimizing compiler"
	updated, err := svc.Update(ctx, "u1", b.ID, Patch{Title: &title})
	require.NoError(t, err)
	assert.Equal(t, "Optimizing compiler", updated.Title)
	assert.Equal(t, "A toy compiler", updated.Description)
	assert.Equal(t, []string{"c"}, updated.Tags)
	assert.Equal(t, b.CreatedAt, updated.CreatedAt)

	_, err = svc.Update(ctx, "u2", b.ID, Patch{Title: &title})
	assert.True(t, apperr.IsNotFound(err))
}

func TestDeleteIsOwnerScopedAndNotifies(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()
	var notified []string
	svc.OnChange = func(_ context.Context, userID string) { notified = append(notified, userID) }

	b := seed(t, svc, "u1", Input{Category: "school", Title: "State University"})[0]

	err := svc.Delete(ctx, "u2", b.ID)
	assert.True(t, apperr.IsNotFound(err))

	require.NoError(t, svc.Delete(ctx, "u1", b.ID))
	_, err = svc.Get(ctx, "u1", b.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Equal(t, []string{"u1", "u1"}, notified)
}

type failingRepo struct {
	*MemoryRepo
	err error
}

func (f failingRepo) Delete(context.Context, string, string) error { return f.err }

func TestDeleteFailureKeepsBlob(t *testing.T) {
	mem := NewMemoryRepo()
	svc := NewService(failingRepo{MemoryRepo: mem, err: apperr.NewTransient("network", "store unreachable", nil)}, nil)
	ctx := context.Background()
	b, err := svc.Create(ctx, "u1", Input{Category: "award", Title: "Scholarship"}, "")
	require.NoError(t, err)

	err = svc.Delete(ctx, "u1", b.ID)
	assert.True(t, apperr.IsTransient(err))

	_, err = svc.Get(ctx, "u1", b.ID)
	assert.NoError(t, err)
}

func TestCreateBatchValidatesEverythingFirst(t *testing.T) {
	svc, repo := newTestService()
	ctx := context.Background()

	_, err := svc.CreateBatch(ctx, "u1", []Input{
		{Category: "project", Title: "Good"},
		{Category: "project", Title: ""},
	})
	assert.ErrorIs(t, err, ErrTitleRequired)
	n, _ := repo.Count(ctx, "u1")
	assert.Zero(t, n)

	created, err := svc.CreateBatch(ctx, "u1", []Input{
		{Category: "project", Title: "One"},
		{Category: "skill_blob", Title: "Technical skills", Tags: []string{"Go", "SQL"}},
	})
	require.NoError(t, err)
	assert.Len(t, created, 2)
}
