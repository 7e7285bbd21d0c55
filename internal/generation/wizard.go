package generation

import (
	"resume-builder/internal/ai"
	"resume-builder/internal/blobs"
	"resume-builder/internal/shared/apperr"
)

const (
	// DefaultThreshold is the score at which a suggestion starts out selected.
	DefaultThreshold = 0.25
	// fallbackSelected is how many top suggestions are selected when none reach the threshold.
	fallbackSelected = 3
)

func (d *Draft) require(step Step) error {
	if d.Step != step {
		return ErrWrongStep.WithDetails(map[string]any{"step": d.Step, "want": step})
	}
	return nil
}

func (d *Draft) SetJobText(text string) error {
	if err := d.require(StepInput); err != nil {
		return err
	}
	d.JobText = text
	d.LastError = nil
	return nil
}

// applySuggestions replaces the candidates with scored blobs, best first, and
// moves the wizard to Select.
func (d *Draft) applySuggestions(items []blobs.Blob, suggestions []ai.Suggestion, threshold float64) {
	byID := make(map[string]blobs.Blob, len(items))
	for _, b := range items {
		byID[b.ID] = b
	}
	out := make([]Candidate, 0, len(suggestions))
	passed := 0
	for _, s := range suggestions {
		b, ok := byID[s.BlobID]
		if !ok {
			continue
		}
		c := Candidate{
			BlobID:         b.ID,
			Title:          b.Title,
			Category:       b.Category,
			CategoryLabel:  b.Category.Label(),
			RelevanceScore: s.RelevanceScore,
			Reason:         s.Reason,
			Selected:       s.RelevanceScore >= threshold,
		}
		if c.Selected {
			passed++
		}
		out = append(out, c)
	}
	if passed == 0 {
		for i := 0; i < len(out) && i < fallbackSelected; i++ {
			if out[i].RelevanceScore > 0 {
				out[i].Selected = true
			}
		}
	}
	d.Candidates = out
	d.Document = nil
	d.LastError = nil
	d.Step = StepSelect
}

func (d *Draft) candidate(blobID string) (*Candidate, error) {
	for i := range d.Candidates {
		if d.Candidates[i].BlobID == blobID {
			return &d.Candidates[i], nil
		}
	}
	return nil, ErrUnknownBlob.WithDetails(map[string]any{"blobId": blobID})
}

// ToggleSelected flips selection. Unselecting also unpins.
func (d *Draft) ToggleSelected(blobID string) error {
	if err := d.require(StepSelect); err != nil {
		return err
	}
	c, err := d.candidate(blobID)
	if err != nil {
		return err
	}
	c.Selected = !c.Selected
	if !c.Selected {
		c.Pinned = false
	}
	return nil
}

// TogglePin flips the pin. Pinning also selects.
func (d *Draft) TogglePin(blobID string) error {
	if err := d.require(StepSelect); err != nil {
		return err
	}
	c, err := d.candidate(blobID)
	if err != nil {
		return err
	}
	c.Pinned = !c.Pinned
	if c.Pinned {
		c.Selected = true
	}
	return nil
}

// Back moves exactly one step toward Input.
func (d *Draft) Back() {
	switch d.Step {
	case StepPreview:
		d.Step = StepSelect
	case StepSelect:
		d.Step = StepInput
	}
	d.LastError = nil
}

func (d *Draft) canRender() error {
	if err := d.require(StepSelect); err != nil {
		return err
	}
	if len(d.SelectedIDs()) == 0 {
		return ErrNoSelection
	}
	return nil
}

func (d *Draft) SelectedIDs() []string {
	return d.ids(func(c Candidate) bool { return c.Selected })
}

func (d *Draft) PinnedIDs() []string {
	return d.ids(func(c Candidate) bool { return c.Pinned })
}

// ExcludedIDs are suggested blobs the user left unselected.
func (d *Draft) ExcludedIDs() []string {
	return d.ids(func(c Candidate) bool { return !c.Selected })
}

func (d *Draft) ids(keep func(Candidate) bool) []string {
	out := make([]string, 0, len(d.Candidates))
	for _, c := range d.Candidates {
		if keep(c) {
			out = append(out, c.BlobID)
		}
	}
	return out
}

// fail records err for the client and returns it unchanged.
func (d *Draft) fail(err error) error {
	e := apperr.Classify(err)
	d.LastError = &LastError{
		Code:      e.Code,
		Message:   e.Message,
		Retryable: e.Kind == apperr.Transient,
	}
	return err
}
