package config

import (
	"crypto/tls"
	"os"
	"time"
)

const (
	DefaultComplexityThreshold = "C"
	DefaultSnippetFilename     = "snippet.py"
	DefaultPython              = "python3"

	DefaultOpenAIModel   = "gpt-4o-mini"
	DefaultOpenAIBaseURL = "https://api.openai.com"
	DefaultOllamaHost    = "http://localhost:11434"
	DefaultOllamaModel   = "llama3.1:8b"
	DefaultGeminiModel   = "gemini-2.5-flash"
	DefaultGitLabBaseURL = "https://gitlab.com"
)

// BaseHTTPConfig holds common HTTP client configuration settings.
type BaseHTTPConfig struct {
	RetryCount       int
	RetryWaitTime    time.Duration
	RetryMaxWaitTime time.Duration
	Timeout          time.Duration
	TLSClientConfig  *tls.Config
	Proxy            string
}

// RestyHttpClientConfig holds additional configuration settings for the resty http client.
type RestyHttpClientConfig struct {
	BaseHTTPConfig
	Debug bool
}

// DefaultHttpConfig is the base configuration applicable to all HTTP clients.
func DefaultHttpConfig() BaseHTTPConfig {
	return BaseHTTPConfig{
		RetryCount:       2,
		RetryWaitTime:    1 * time.Second,
		RetryMaxWaitTime: 2 * time.Second,
		Timeout:          60 * time.Second,
		TLSClientConfig: &tls.Config{
			MinVersion: tls.VersionTLS12,
		},
		Proxy: "",
	}
}

// DefaultRestyConfig returns the http config used for resty clients.
func DefaultRestyConfig() RestyHttpClientConfig {
	return RestyHttpClientConfig{
		BaseHTTPConfig: DefaultHttpConfig(),
		Debug:          false,
	}
}

// applyEnv maps environment variables onto configuration fields.
// Environment values win over the YAML file.
func applyEnv(cfg *Config) {
	overrides := []struct {
		env    string
		target *string
	}{
		{"LLM_PROVIDER", &cfg.LLM.Provider},
		{"OPENAI_API_KEY", &cfg.LLM.OpenAI.APIKey},
		{"OPENAI_MODEL", &cfg.LLM.OpenAI.Model},
		{"OPENAI_BASE_URL", &cfg.LLM.OpenAI.BaseURL},
		{"OLLAMA_HOST", &cfg.LLM.Ollama.Host},
		{"OLLAMA_MODEL", &cfg.LLM.Ollama.Model},
		{"GEMINI_API_KEY", &cfg.LLM.Gemini.APIKey},
		{"GEMINI_MODEL", &cfg.LLM.Gemini.Model},
		{"GITHUB_TOKEN", &cfg.VCS.GitHub.Token},
		{"GITHUB_BASE_URL", &cfg.VCS.GitHub.BaseURL},
		{"GITLAB_TOKEN", &cfg.VCS.GitLab.Token},
		{"GITLAB_BASE_URL", &cfg.VCS.GitLab.BaseURL},
		{"REVIO_S3_BUCKET", &cfg.Upload.S3.Bucket},
		{"AWS_REGION", &cfg.Upload.S3.Region},
	}
	for _, o := range overrides {
		if v := os.Getenv(o.env); v != "" {
			*o.target = v
		}
	}
}

func applyDefaults(cfg *Config) {
	cfg.Analyzers.Python = SetThen(cfg.Analyzers.Python, DefaultPython)
	cfg.Analyzers.Ruff.Binary = SetThen(cfg.Analyzers.Ruff.Binary, "ruff")
	cfg.Analyzers.Radon.Binary = SetThen(cfg.Analyzers.Radon.Binary, "radon")

	cfg.Review.ComplexityThreshold = SetThen(cfg.Review.ComplexityThreshold, DefaultComplexityThreshold)
	cfg.Review.SnippetFilename = SetThen(cfg.Review.SnippetFilename, DefaultSnippetFilename)
	cfg.Review.MaxSummaryFindings = SetThen(cfg.Review.MaxSummaryFindings, 60)
	cfg.Review.MaxSummaryFiles = SetThen(cfg.Review.MaxSummaryFiles, 20)
	cfg.Review.MaxChatFindings = SetThen(cfg.Review.MaxChatFindings, 80)

	cfg.LLM.Provider = SetThen(cfg.LLM.Provider, "auto")
	cfg.LLM.Temperature = SetThen(cfg.LLM.Temperature, 0.2)
	cfg.LLM.OpenAI.Model = SetThen(cfg.LLM.OpenAI.Model, DefaultOpenAIModel)
	cfg.LLM.OpenAI.BaseURL = SetThen(cfg.LLM.OpenAI.BaseURL, DefaultOpenAIBaseURL)
	cfg.LLM.Ollama.Host = SetThen(cfg.LLM.Ollama.Host, DefaultOllamaHost)
	cfg.LLM.Ollama.Model = SetThen(cfg.LLM.Ollama.Model, DefaultOllamaModel)
	cfg.LLM.Gemini.Model = SetThen(cfg.LLM.Gemini.Model, DefaultGeminiModel)

	cfg.VCS.Timeout = SetThen(cfg.VCS.Timeout, 30*time.Second)
	cfg.VCS.MaxFiles = SetThen(cfg.VCS.MaxFiles, 100)
	cfg.VCS.MaxPatchChars = SetThen(cfg.VCS.MaxPatchChars, 8000)
	cfg.VCS.GitLab.BaseURL = SetThen(cfg.VCS.GitLab.BaseURL, DefaultGitLabBaseURL)

	cfg.Upload.S3.Prefix = SetThen(cfg.Upload.S3.Prefix, "revio")
}
