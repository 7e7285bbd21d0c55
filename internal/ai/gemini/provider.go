package gemini

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/genai"

	"resume-builder/internal/ai"
	"resume-builder/internal/blobs"
	"resume-builder/internal/shared/apperr"
	"resume-builder/internal/shared/telemetry"
)

// generator is the slice of *genai.Models the provider calls.
type generator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// Provider implements ai.Provider on Google Gemini.
type Provider struct {
	models generator
	model  string
}

func New(ctx context.Context, apiKey, model string) (*Provider, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, fmt.Errorf("GEMINI_API_KEY is required")
	}
	if strings.TrimSpace(model) == "" {
		model = "gemini-2.0-flash"
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}
	return &Provider{models: client.Models, model: model}, nil
}

func (p *Provider) Name() string  { return "gemini" }
func (p *Provider) Model() string { return p.model }

func (p *Provider) Suggest(ctx context.Context, jobText string, items []blobs.Blob) ([]ai.Suggestion, error) {
	raw, err := p.generate(ctx, "suggest", ai.SystemPromptSuggest, ai.SuggestPrompt(jobText, items), suggestSchema())
	if err != nil {
		return nil, err
	}
	return ai.ParseSuggestions(raw)
}

func (p *Provider) WriteBullets(ctx context.Context, jobText, feedback string, items []blobs.Blob) ([]ai.Bullet, error) {
	raw, err := p.generate(ctx, "bullets", ai.SystemPromptBullets, ai.BulletsPrompt(jobText, feedback, items), bulletsSchema())
	if err != nil {
		return nil, err
	}
	return ai.ParseBullets(raw, items)
}

func (p *Provider) generate(ctx context.Context, op, system, user string, cfg *genai.GenerateContentConfig) ([]byte, error) {
	temp := float32(0.2)
	cfg.Temperature = &temp
	cfg.SystemInstruction = genai.NewContentFromText(system, genai.RoleUser)

	result, err := p.models.GenerateContent(ctx, p.model, genai.Text(user), cfg)
	if err != nil {
		return nil, classify(err)
	}
	text := strings.TrimSpace(result.Text())
	if text == "" {
		return nil, fmt.Errorf("gemini response empty content")
	}
	fields := map[string]any{"model": p.model, "operation": op}
	if u := result.UsageMetadata; u != nil {
		fields["prompt_tokens"] = u.PromptTokenCount
		fields["completion_tokens"] = u.CandidatesTokenCount
		fields["total_tokens"] = u.TotalTokenCount
	}
	telemetry.Debug("ai.gemini.response", fields)
	return []byte(text), nil
}

// classify marks quota and availability failures as retryable.
func classify(err error) error {
	msg := strings.ToLower(err.Error())
	for _, marker := range []string{"error 429", "error 500", "error 502", "error 503", "error 504", "unavailable", "resource_exhausted", "deadline_exceeded"} {
		if strings.Contains(msg, marker) {
			return apperr.NewTransient("upstream_unavailable", "gemini is temporarily unavailable", err)
		}
	}
	return err
}

func suggestSchema() *genai.GenerateContentConfig {
	return &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
		ResponseSchema: &genai.Schema{
			Type: genai.TypeObject,
			Properties: map[string]*genai.Schema{
				"suggestions": {
					Type: genai.TypeArray,
					Items: &genai.Schema{
						Type: genai.TypeObject,
						Properties: map[string]*genai.Schema{
							"blobId": {Type: genai.TypeString},
							"score":  {Type: genai.TypeNumber},
							"reason": {Type: genai.TypeString},
						},
						Required: []string{"blobId", "score"},
					},
				},
			},
			Required: []string{"suggestions"},
		},
	}
}

func bulletsSchema() *genai.GenerateContentConfig {
	return &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
		ResponseSchema: &genai.Schema{
			Type: genai.TypeObject,
			Properties: map[string]*genai.Schema{
				"bullets": {
					Type: genai.TypeArray,
					Items: &genai.Schema{
						Type: genai.TypeObject,
						Properties: map[string]*genai.Schema{
							"blobId": {Type: genai.TypeString},
							"text":   {Type: genai.TypeString},
						},
						Required: []string{"blobId", "text"},
					},
				},
			},
			Required: []string{"bullets"},
		},
	}
}

var _ ai.Provider = (*Provider)(nil)
