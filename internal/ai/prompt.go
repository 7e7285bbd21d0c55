package ai

import (
	"encoding/json"
	"fmt"
	"strings"

	"resume-builder/internal/blobs"
)

const (
	SystemPromptSuggest = "You match a candidate's experience records to a job description. Respond with JSON only. Output must match the schema exactly."
	SystemPromptBullets = "You write concise, truthful resume bullet points from a candidate's own records. Never invent employers, numbers or technologies. Respond with JSON only."
)

const maxPromptDescription = 1500

// SuggestPrompt lists the job and every blob for relevance scoring.
func SuggestPrompt(jobText string, items []blobs.Blob) string {
	var b strings.Builder
	b.WriteString("Score how relevant each record is to the job on a scale from 0 to 1.\n")
	b.WriteString(`Return {"suggestions":[{"blobId":string,"score":number,"reason":string}]} with one entry per record.`)
	b.WriteString("\n\nJOB DESCRIPTION:\n")
	b.WriteString(strings.TrimSpace(jobText))
	b.WriteString("\n\nRECORDS:\n")
	writeRecords(&b, items)
	return b.String()
}

// BulletsPrompt asks for one to three bullets per blob.
func BulletsPrompt(jobText, feedback string, items []blobs.Blob) string {
	var b strings.Builder
	b.WriteString("Write one to three resume bullets per record, tailored to the job.\n")
	b.WriteString(`Return {"bullets":[{"blobId":string,"text":string}]}.`)
	b.WriteString("\n\nJOB DESCRIPTION:\n")
	b.WriteString(strings.TrimSpace(jobText))
	if fb := strings.TrimSpace(feedback); fb != "" {
		b.WriteString("\n\nREQUESTED CHANGES:\n")
		b.WriteString(fb)
	}
	b.WriteString("\n\nRECORDS:\n")
	writeRecords(&b, items)
	return b.String()
}

func writeRecords(b *strings.Builder, items []blobs.Blob) {
	for _, item := range items {
		desc := item.Description
		if r := []rune(desc); len(r) > maxPromptDescription {
			desc = string(r[:maxPromptDescription])
		}
		fmt.Fprintf(b, "- blobId: %s\n  category: %s\n  title: %s\n", item.ID, item.Category.Label(), item.Title)
		if desc != "" {
			fmt.Fprintf(b, "  description: %s\n", strings.ReplaceAll(desc, "\n", " "))
		}
		if len(item.Tags) > 0 {
			fmt.Fprintf(b, "  tags: %s\n", strings.Join(item.Tags, ", "))
		}
	}
}

type suggestPayload struct {
	Suggestions []struct {
		BlobID string  `json:"blobId"`
		Score  float64 `json:"score"`
		Reason string  `json:"reason"`
	} `json:"suggestions"`
}

// ParseSuggestions decodes a model response produced from SuggestPrompt.
func ParseSuggestions(raw []byte) ([]Suggestion, error) {
	var p suggestPayload
	if err := json.Unmarshal(stripFence(raw), &p); err != nil {
		return nil, fmt.Errorf("decode suggestions: %w", err)
	}
	out := make([]Suggestion, 0, len(p.Suggestions))
	for _, s := range p.Suggestions {
		out = append(out, Suggestion{BlobID: strings.TrimSpace(s.BlobID), RelevanceScore: s.Score, Reason: s.Reason})
	}
	return out, nil
}

type bulletsPayload struct {
	Bullets []Bullet `json:"bullets"`
}

// ParseBullets decodes a model response produced from BulletsPrompt, keeping
// only bullets for known blobs.
func ParseBullets(raw []byte, items []blobs.Blob) ([]Bullet, error) {
	var p bulletsPayload
	if err := json.Unmarshal(stripFence(raw), &p); err != nil {
		return nil, fmt.Errorf("decode bullets: %w", err)
	}
	known := make(map[string]struct{}, len(items))
	for _, b := range items {
		known[b.ID] = struct{}{}
	}
	out := make([]Bullet, 0, len(p.Bullets))
	for _, b := range p.Bullets {
		b.Text = strings.TrimSpace(b.Text)
		if _, ok := known[b.BlobID]; !ok || b.Text == "" {
			continue
		}
		out = append(out, b)
	}
	return out, nil
}

// stripFence removes a markdown code fence some models wrap JSON in.
func stripFence(raw []byte) []byte {
	s := strings.TrimSpace(string(raw))
	if !strings.HasPrefix(s, "```") {
		return []byte(s)
	}
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return []byte(strings.TrimSpace(s))
}
