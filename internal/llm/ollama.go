package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-resty/resty/v2"

	"github.com/scan-io-git/revio/pkg/shared/config"
)

type ollamaChatRequest struct {
	Model    string                 `json:"model"`
	Messages []message              `json:"messages"`
	Stream   bool                   `json:"stream"`
	Options  map[string]interface{} `json:"options,omitempty"`
}

type ollamaChatResponse struct {
	Message *message `json:"message"`
	Error   string   `json:"error,omitempty"`
}

// Ollama calls the /api/chat endpoint of a local Ollama server.
type Ollama struct {
	client      *resty.Client
	host        string
	model       string
	temperature float64
}

// NewOllama creates an Ollama back end.
func NewOllama(client *resty.Client, cfg config.Ollama, temperature float64) *Ollama {
	return &Ollama{
		client:      client,
		host:        strings.TrimSuffix(config.SetThen(cfg.Host, config.DefaultOllamaHost), "/"),
		model:       config.SetThen(cfg.Model, config.DefaultOllamaModel),
		temperature: temperature,
	}
}

func (o *Ollama) Name() string { return "ollama" }

func (o *Ollama) Complete(ctx context.Context, req Request) (string, error) {
	var result ollamaChatResponse
	resp, err := o.client.R().
		SetContext(ctx).
		SetBody(ollamaChatRequest{
			Model: o.model,
			Messages: []message{
				{Role: "system", Content: req.SystemPrompt},
				{Role: "user", Content: req.UserPrompt},
			},
			Options: map[string]interface{}{"temperature": o.temperature},
		}).
		SetResult(&result).
		SetError(&result).
		Post(o.host + "/api/chat")
	if err != nil {
		return "", o.hint(err)
	}
	if resp.IsError() {
		if result.Error != "" {
			return "", o.hint(fmt.Errorf("status %d: %s", resp.StatusCode(), result.Error))
		}
		return "", o.hint(fmt.Errorf("status %d", resp.StatusCode()))
	}
	if result.Message == nil {
		return noResponse, nil
	}
	return result.Message.Content, nil
}

func (o *Ollama) hint(err error) error {
	return fmt.Errorf("ollama request failed, make sure the Ollama server is running (`ollama serve`) and model `%s` is pulled. Error: %w", o.model, err)
}
