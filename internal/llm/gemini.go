package llm

import (
	"context"
	"fmt"
	"time"

	"google.golang.org/genai"

	"github.com/scan-io-git/revio/pkg/shared/config"
)

// Gemini calls the Gemini API through the Google Gen AI SDK.
type Gemini struct {
	apiKey      string
	model       string
	baseURL     string
	timeout     time.Duration
	temperature float32
}

// NewGemini creates a Gemini back end.
func NewGemini(cfg config.Gemini, temperature float64) *Gemini {
	return &Gemini{
		apiKey:      cfg.APIKey,
		model:       config.SetThen(cfg.Model, config.DefaultGeminiModel),
		temperature: float32(temperature),
	}
}

// WithBaseURL points the SDK to another endpoint.
func (g *Gemini) WithBaseURL(baseURL string) *Gemini {
	g.baseURL = baseURL
	return g
}

// WithTimeout bounds every request. Zero leaves only the caller's context.
func (g *Gemini) WithTimeout(timeout time.Duration) *Gemini {
	g.timeout = timeout
	return g
}

func (g *Gemini) Name() string { return "gemini" }

func (g *Gemini) Complete(ctx context.Context, req Request) (string, error) {
	if g.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.timeout)
		defer cancel()
	}

	clientConfig := &genai.ClientConfig{
		APIKey:  g.apiKey,
		Backend: genai.BackendGeminiAPI,
	}
	if g.baseURL != "" {
		clientConfig.HTTPOptions = genai.HTTPOptions{BaseURL: g.baseURL}
	}

	client, err := genai.NewClient(ctx, clientConfig)
	if err != nil {
		return "", fmt.Errorf("failed to create Gemini client: %w", err)
	}

	temperature := g.temperature
	result, err := client.Models.GenerateContent(ctx,
		g.model,
		[]*genai.Content{{Parts: []*genai.Part{{Text: req.UserPrompt}}}},
		&genai.GenerateContentConfig{
			Temperature:       &temperature,
			SystemInstruction: &genai.Content{Parts: []*genai.Part{{Text: req.SystemPrompt}}},
		},
	)
	if err != nil {
		return "", fmt.Errorf("gemini request failed: %w", err)
	}

	if len(result.Candidates) > 0 {
		candidate := result.Candidates[0]
		if candidate.Content != nil && len(candidate.Content.Parts) > 0 {
			return candidate.Content.Parts[0].Text, nil
		}
	}
	return noResponse, nil
}
