package onboarding

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"resume-builder/internal/shared/apperr"
)

func TestNewStateHasOneEntryPerStep(t *testing.T) {
	st := NewState()
	assert.Equal(t, 0, st.Index)
	for _, step := range Steps {
		assert.Len(t, st.Entries[step.Key], 1, step.Key)
	}
}

func TestRemoveOnlyEntryIsNoop(t *testing.T) {
	st := NewState()
	require.NoError(t, st.EditEntry("work", 0, "title", "Barista"))
	require.NoError(t, st.RemoveEntry("work", 0))
	require.Len(t, st.Entries["work"], 1)
	assert.Equal(t, "Barista", st.Entries["work"][0].Title)
}

func TestRemoveEntryKeepsOthers(t *testing.T) {
	st := NewState()
	require.NoError(t, st.AddEntry("projects"))
	require.NoError(t, st.AddEntry("projects"))
	require.NoError(t, st.EditEntry("projects", 0, "title", "a"))
	require.NoError(t, st.EditEntry("projects", 1, "title", "b"))
	require.NoError(t, st.EditEntry("projects", 2, "title", "c"))

	require.NoError(t, st.RemoveEntry("projects", 1))
	require.Len(t, st.Entries["projects"], 2)
	assert.Equal(t, "a", st.Entries["projects"][0].Title)
	assert.Equal(t, "c", st.Entries["projects"][1].Title)

	err := st.RemoveEntry("projects", 5)
	assert.ErrorIs(t, err, ErrEntryOutOfRange)
	assert.True(t, apperr.IsValidation(err))
}

func TestEditEntryRejectsUnknownStepAndField(t *testing.T) {
	st := NewState()
	assert.ErrorIs(t, st.EditEntry("hobbies", 0, "title", "x"), ErrUnknownStep)
	assert.ErrorIs(t, st.EditEntry("work", 0, "company", "x"), ErrUnknownField)
}

func TestNextNeverLeavesRange(t *testing.T) {
	st := NewState()
	for i := 0; i < len(Steps)-1; i++ {
		assert.Equal(t, TransitionAdvanced, st.Next())
	}
	assert.Equal(t, "skills", st.Current().Key)
	assert.Equal(t, 100, st.Progress())

	assert.Equal(t, TransitionSubmit, st.Next())
	assert.Equal(t, len(Steps)-1, st.Index)

	for i := 0; i < len(Steps)+2; i++ {
		st.Back()
	}
	assert.Equal(t, 0, st.Index)
}

func TestRepairClampsStoredDraft(t *testing.T) {
	st := State{Index: 42}
	st.repair()
	assert.Equal(t, len(Steps)-1, st.Index)
	assert.Len(t, st.Entries["awards"], 1)
}
