package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-resty/resty/v2"

	"github.com/scan-io-git/revio/pkg/shared/config"
)

type message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatCompletionRequest struct {
	Model       string    `json:"model"`
	Messages    []message `json:"messages"`
	Temperature float64   `json:"temperature"`
}

type chatCompletionResponse struct {
	Choices []struct {
		Message message `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// OpenAI calls the chat completions endpoint of OpenAI or a compatible server.
type OpenAI struct {
	client      *resty.Client
	apiKey      string
	model       string
	baseURL     string
	temperature float64
}

// NewOpenAI creates an OpenAI back end.
func NewOpenAI(client *resty.Client, cfg config.OpenAI, temperature float64) *OpenAI {
	return &OpenAI{
		client:      client,
		apiKey:      cfg.APIKey,
		model:       config.SetThen(cfg.Model, config.DefaultOpenAIModel),
		baseURL:     strings.TrimSuffix(config.SetThen(cfg.BaseURL, config.DefaultOpenAIBaseURL), "/"),
		temperature: temperature,
	}
}

func (o *OpenAI) Name() string { return "openai" }

func (o *OpenAI) Complete(ctx context.Context, req Request) (string, error) {
	var result chatCompletionResponse
	resp, err := o.client.R().
		SetContext(ctx).
		SetAuthToken(o.apiKey).
		SetBody(chatCompletionRequest{
			Model: o.model,
			Messages: []message{
				{Role: "system", Content: req.SystemPrompt},
				{Role: "user", Content: req.UserPrompt},
			},
			Temperature: o.temperature,
		}).
		SetResult(&result).
		SetError(&result).
		Post(o.baseURL + "/v1/chat/completions")
	if err != nil {
		return "", fmt.Errorf("openai request failed: %w", err)
	}
	if resp.IsError() {
		if result.Error != nil && result.Error.Message != "" {
			return "", fmt.Errorf("openai returned status %d: %s", resp.StatusCode(), result.Error.Message)
		}
		return "", fmt.Errorf("openai returned status %d", resp.StatusCode())
	}
	if len(result.Choices) == 0 {
		return noResponse, nil
	}
	return result.Choices[0].Message.Content, nil
}
