package ai

import (
	"context"
	"math"
	"sort"
	"strings"

	"resume-builder/internal/blobs"
	"resume-builder/internal/shared/util"
)

// Heuristic scores by keyword overlap and writes bullets from the blob text.
// It makes no network calls.
type Heuristic struct{}

func (Heuristic) Name() string  { return "heuristic" }
func (Heuristic) Model() string { return "" }

var stopwords = map[string]struct{}{
	"a": {}, "an": {}, "and": {}, "are": {}, "as": {}, "at": {}, "be": {}, "by": {}, "for": {},
	"from": {}, "has": {}, "have": {}, "in": {}, "is": {}, "it": {}, "of": {}, "on": {}, "or": {},
	"our": {}, "that": {}, "the": {}, "this": {}, "to": {}, "we": {}, "will": {}, "with": {},
	"you": {}, "your": {}, "who": {}, "what": {}, "about": {}, "role": {}, "team": {},
	"work": {}, "job": {}, "years": {}, "experience": {}, "plus": {},
}

func terms(s string) map[string]struct{} {
	out := make(map[string]struct{})
	for _, tok := range util.Tokens(s) {
		if len(tok) < 2 {
			continue
		}
		if _, stop := stopwords[tok]; stop {
			continue
		}
		out[tok] = struct{}{}
	}
	return out
}

func blobText(b blobs.Blob) string {
	return b.Title + " " + b.Description + " " + strings.Join(b.Tags, " ")
}

// Score returns the set-cosine similarity between the job and the blob terms,
// with a bonus for each tag that appears verbatim in the job text.
func Score(jobText string, b blobs.Blob) float64 {
	job := terms(jobText)
	doc := terms(blobText(b))
	if len(job) == 0 || len(doc) == 0 {
		return 0
	}
	overlap := 0
	for t := range doc {
		if _, ok := job[t]; ok {
			overlap++
		}
	}
	score := float64(overlap) / math.Sqrt(float64(len(job))*float64(len(doc)))
	lowerJob := strings.ToLower(jobText)
	for _, tag := range b.Tags {
		if tag = strings.ToLower(strings.TrimSpace(tag)); len(tag) > 1 && strings.Contains(lowerJob, tag) {
			score += 0.1
		}
	}
	return math.Round(clamp01(score)*1000) / 1000
}

func (Heuristic) Suggest(ctx context.Context, jobText string, items []blobs.Blob) ([]Suggestion, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	out := make([]Suggestion, 0, len(items))
	for _, b := range items {
		out = append(out, Suggestion{BlobID: b.ID, RelevanceScore: Score(jobText, b)})
	}
	SortSuggestions(out)
	return out, nil
}

const maxHeuristicBullets = 3

// WriteBullets picks up to three description sentences per blob, favouring
// those sharing terms with the job and the feedback.
func (Heuristic) WriteBullets(ctx context.Context, jobText, feedback string, items []blobs.Blob) ([]Bullet, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	focus := terms(jobText + " " + feedback)
	var out []Bullet
	for _, b := range items {
		sentences := splitSentences(b.Description)
		if len(sentences) == 0 {
			if b.Category == blobs.CategorySkill && len(b.Tags) > 0 {
				out = append(out, Bullet{BlobID: b.ID, Text: strings.Join(b.Tags, ", ")})
			}
			continue
		}
		type ranked struct {
			idx   int
			score int
		}
		rs := make([]ranked, len(sentences))
		for i, s := range sentences {
			n := 0
			for t := range terms(s) {
				if _, ok := focus[t]; ok {
					n++
				}
			}
			rs[i] = ranked{idx: i, score: n}
		}
		sort.SliceStable(rs, func(i, j int) bool { return rs[i].score > rs[j].score })
		if len(rs) > maxHeuristicBullets {
			rs = rs[:maxHeuristicBullets]
		}
		sort.Slice(rs, func(i, j int) bool { return rs[i].idx < rs[j].idx })
		for _, r := range rs {
			out = append(out, Bullet{BlobID: b.ID, Text: sentences[r.idx]})
		}
	}
	return out, nil
}

func splitSentences(s string) []string {
	var out []string
	for _, line := range strings.Split(s, "\n") {
		line = strings.TrimSpace(strings.TrimLeft(strings.TrimSpace(line), "-*•"))
		for _, part := range strings.SplitAfter(line, ". ") {
			part = strings.TrimSpace(part)
			part = strings.TrimSuffix(part, ".")
			if part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}

var _ Provider = Heuristic{}
