package onboarding

import (
	"strings"
	"time"
)

// Entry is one record typed into a step. BlobID is set once it has been persisted.
type Entry struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	BlobID      string `json:"blobId,omitempty"`
}

func (e Entry) blank() bool {
	return strings.TrimSpace(e.Title) == "" && strings.TrimSpace(e.Description) == ""
}

// State is the wizard draft. Every step always holds at least one entry.
type State struct {
	Index     int                `json:"index"`
	Entries   map[string][]Entry `json:"entries"`
	Submitted bool               `json:"submitted"`
	UpdatedAt time.Time          `json:"updatedAt"`
}

// Transition reports what Next did.
type Transition string

const (
	TransitionAdvanced Transition = "advanced"
	TransitionSubmit   Transition = "submit"
)

// NewState returns a wizard on the first step with one blank entry per step.
func NewState() State {
	st := State{Entries: make(map[string][]Entry, len(Steps))}
	st.repair()
	return st
}

// repair restores the invariants after decoding a stored draft.
func (s *State) repair() {
	if s.Entries == nil {
		s.Entries = make(map[string][]Entry, len(Steps))
	}
	for _, step := range Steps {
		if len(s.Entries[step.Key]) == 0 {
			s.Entries[step.Key] = []Entry{{}}
		}
	}
	if s.Index < 0 {
		s.Index = 0
	}
	if s.Index > len(Steps)-1 {
		s.Index = len(Steps) - 1
	}
}

func (s *State) entries(key string) ([]Entry, error) {
	if _, ok := stepByKey(key); !ok {
		return nil, ErrUnknownStep.WithDetails(map[string]any{"step": key})
	}
	return s.Entries[key], nil
}

func (s *State) AddEntry(key string) error {
	list, err := s.entries(key)
	if err != nil {
		return err
	}
	s.Entries[key] = append(list, Entry{})
	return nil
}

// RemoveEntry drops the entry at index. Removing the only entry is a no-op.
func (s *State) RemoveEntry(key string, index int) error {
	list, err := s.entries(key)
	if err != nil {
		return err
	}
	if index < 0 || index >= len(list) {
		return ErrEntryOutOfRange.WithDetails(map[string]any{"step": key, "index": index})
	}
	if len(list) == 1 {
		return nil
	}
	s.Entries[key] = append(list[:index:index], list[index+1:]...)
	s.Submitted = false
	return nil
}

// EditEntry sets field ("title" or "description") and clears Submitted.
func (s *State) EditEntry(key string, index int, field, value string) error {
	list, err := s.entries(key)
	if err != nil {
		return err
	}
	if index < 0 || index >= len(list) {
		return ErrEntryOutOfRange.WithDetails(map[string]any{"step": key, "index": index})
	}
	switch field {
	case "title":
		list[index].Title = value
	case "description":
		list[index].Description = value
	default:
		return ErrUnknownField.WithDetails(map[string]any{"field": field})
	}
	s.Submitted = false
	return nil
}

// Next advances one step; on the last step it asks for submission and stays put.
func (s *State) Next() Transition {
	if s.Index < len(Steps)-1 {
		s.Index++
		return TransitionAdvanced
	}
	return TransitionSubmit
}

func (s *State) Back() {
	if s.Index > 0 {
		s.Index--
	}
}

func (s *State) Current() Step {
	return Steps[s.Index]
}

// Progress is the share of steps reached, in percent.
func (s *State) Progress() int {
	return (s.Index + 1) * 100 / len(Steps)
}
