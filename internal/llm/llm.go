package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-resty/resty/v2"
	"github.com/hashicorp/go-hclog"

	"github.com/scan-io-git/revio/pkg/shared/config"
	"github.com/scan-io-git/revio/pkg/shared/httpclient"
)

const noResponse = "No response generated."

// Request is a single system + user prompt exchange.
type Request struct {
	SystemPrompt string
	UserPrompt   string
}

// Completion is the outcome of a best-effort model call.
// Unavailability is a result variant, not an error: callers always get something to show.
type Completion struct {
	Text        string
	Unavailable bool
	Reason      string
}

// Unavailable creates a placeholder completion carrying the reason the model could not answer.
func Unavailable(reason string) Completion {
	return Completion{Unavailable: true, Reason: reason}
}

// String returns the text to show to the user.
func (c Completion) String() string {
	if c.Unavailable {
		return "AI summary unavailable: " + c.Reason
	}
	return c.Text
}

// Provider is a language model back end.
type Provider interface {
	Name() string
	Complete(ctx context.Context, req Request) (string, error)
}

// Client selects a provider from configuration and degrades failures to Unavailable completions.
type Client struct {
	logger   hclog.Logger
	provider Provider
	reason   string
}

// NewClient picks the configured provider.
// "auto" prefers OpenAI when a key is set, then Gemini when a key is set, then a local Ollama server.
func NewClient(logger hclog.Logger, cfg *config.Config) *Client {
	rc := httpclient.InitializeRestyClient(logger.Named("http"), cfg)
	c := &Client{logger: logger}
	c.provider, c.reason = selectProvider(rc, cfg.LLM)
	if c.provider != nil {
		logger.Debug("language model selected", "provider", c.provider.Name())
	} else {
		logger.Debug("language model unavailable", "reason", c.reason)
	}
	return c
}

// NewClientWithProvider wraps an already constructed provider.
func NewClientWithProvider(logger hclog.Logger, p Provider) *Client {
	return &Client{logger: logger, provider: p}
}

func selectProvider(rc *resty.Client, cfg config.LLM) (Provider, string) {
	switch strings.ToLower(config.SetThen(cfg.Provider, "auto")) {
	case "openai":
		if cfg.OpenAI.APIKey == "" {
			return nil, "LLM_PROVIDER=openai selected but OPENAI_API_KEY is not configured."
		}
		return NewOpenAI(rc, cfg.OpenAI, cfg.Temperature), ""
	case "gemini":
		if cfg.Gemini.APIKey == "" {
			return nil, "LLM_PROVIDER=gemini selected but GEMINI_API_KEY is not configured."
		}
		return NewGemini(cfg.Gemini, cfg.Temperature).WithTimeout(rc.GetClient().Timeout), ""
	case "ollama":
		return NewOllama(rc, cfg.Ollama, cfg.Temperature), ""
	case "auto":
		switch {
		case cfg.OpenAI.APIKey != "":
			return NewOpenAI(rc, cfg.OpenAI, cfg.Temperature), ""
		case cfg.Gemini.APIKey != "":
			return NewGemini(cfg.Gemini, cfg.Temperature).WithTimeout(rc.GetClient().Timeout), ""
		default:
			return NewOllama(rc, cfg.Ollama, cfg.Temperature), ""
		}
	default:
		return nil, fmt.Sprintf("unknown LLM provider %q", cfg.Provider)
	}
}

// Provider returns the selected back end name, or an empty string when none is usable.
func (c *Client) Provider() string {
	if c.provider == nil {
		return ""
	}
	return c.provider.Name()
}

// Complete asks the model and never fails: any problem becomes an Unavailable completion.
func (c *Client) Complete(ctx context.Context, req Request) Completion {
	if c.provider == nil {
		return Unavailable(c.reason)
	}

	text, err := c.provider.Complete(ctx, req)
	if err != nil {
		c.logger.Warn("language model request failed", "provider", c.provider.Name(), "error", err)
		return Unavailable(err.Error())
	}

	text = strings.TrimSpace(text)
	if text == "" {
		text = noResponse
	}
	return Completion{Text: text}
}
