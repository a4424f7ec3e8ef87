package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearConfigEnv(t *testing.T) {
	t.Helper()
	keys := []string{
		"REVIO_CONFIG", "LLM_PROVIDER", "OPENAI_API_KEY", "OPENAI_MODEL", "OPENAI_BASE_URL",
		"OLLAMA_HOST", "OLLAMA_MODEL", "GEMINI_API_KEY", "GEMINI_MODEL",
		"GITHUB_TOKEN", "GITHUB_BASE_URL", "GITLAB_TOKEN", "GITLAB_BASE_URL",
		"REVIO_S3_BUCKET", "AWS_REGION",
	}
	for _, k := range keys {
		t.Setenv(k, "")
	}
}

func TestLoadConfigDefaults(t *testing.T) {
	clearConfigEnv(t)

	cfg, err := LoadConfig("")
	require.NoError(t, err)

	assert.Equal(t, "C", cfg.Review.ComplexityThreshold)
	assert.Equal(t, "snippet.py", cfg.Review.SnippetFilename)
	assert.Equal(t, "auto", cfg.LLM.Provider)
	assert.Equal(t, DefaultOpenAIModel, cfg.LLM.OpenAI.Model)
	assert.Equal(t, DefaultOllamaHost, cfg.LLM.Ollama.Host)
	assert.Equal(t, 30*time.Second, cfg.VCS.Timeout)
	assert.Equal(t, 8000, cfg.VCS.MaxPatchChars)
	assert.Equal(t, "ruff", cfg.Analyzers.Ruff.Binary)
	assert.Equal(t, "radon", cfg.Analyzers.Radon.Binary)
	assert.NoError(t, ValidateConfig(cfg))
}

func TestLoadConfigFileAndEnvPriority(t *testing.T) {
	clearConfigEnv(t)

	path := filepath.Join(t.TempDir(), "config.yml")
	content := `
logger:
  level: debug
review:
  complexity_threshold: D
llm:
  provider: ollama
  ollama:
    model: qwen2.5-coder
vcs:
  timeout: 5s
  github:
    token: from-file
analyzers:
  ruff:
    additional_args: ["--select", "E,F"]
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	t.Setenv("GITHUB_TOKEN", "from-env")

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.Logger.Level)
	assert.Equal(t, "D", cfg.Review.ComplexityThreshold)
	assert.Equal(t, "ollama", cfg.LLM.Provider)
	assert.Equal(t, "qwen2.5-coder", cfg.LLM.Ollama.Model)
	assert.Equal(t, 5*time.Second, cfg.VCS.Timeout)
	assert.Equal(t, "from-env", cfg.VCS.GitHub.Token)
	assert.Equal(t, []string{"--select", "E,F"}, cfg.Analyzers.Ruff.AdditionalArgs)
}

func TestLoadConfigRejectsDirectory(t *testing.T) {
	clearConfigEnv(t)

	_, err := LoadConfig(t.TempDir())
	assert.Error(t, err)
}

func TestValidateConfig(t *testing.T) {
	clearConfigEnv(t)

	tests := []struct {
		name    string
		mutate  func(cfg *Config)
		wantErr bool
	}{
		{name: "defaults", mutate: func(cfg *Config) {}},
		{name: "lowercase threshold", mutate: func(cfg *Config) { cfg.Review.ComplexityThreshold = "e" }},
		{name: "threshold out of range", mutate: func(cfg *Config) { cfg.Review.ComplexityThreshold = "G" }, wantErr: true},
		{name: "threshold too long", mutate: func(cfg *Config) { cfg.Review.ComplexityThreshold = "AB" }, wantErr: true},
		{name: "unknown llm provider", mutate: func(cfg *Config) { cfg.LLM.Provider = "bard" }, wantErr: true},
		{name: "negative retry count", mutate: func(cfg *Config) { cfg.HTTPClient.RetryCount = -1 }, wantErr: true},
		{name: "negative vcs timeout", mutate: func(cfg *Config) { cfg.VCS.Timeout = -time.Second }, wantErr: true},
		{name: "bad proxy port", mutate: func(cfg *Config) { cfg.HTTPClient.Proxy = Proxy{Host: "proxy", Port: 70000} }, wantErr: true},
		{name: "bad gitlab url", mutate: func(cfg *Config) { cfg.VCS.GitLab.BaseURL = "not a url" }, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := LoadConfig("")
			require.NoError(t, err)
			tt.mutate(cfg)

			err = ValidateConfig(cfg)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestGetBoolValue(t *testing.T) {
	yes := true
	cfg := &Config{Logger: Logger{JSONFormat: &yes}}

	assert.True(t, GetBoolValue(cfg, "Logger.JSONFormat", false))
	assert.True(t, GetBoolValue(cfg, "HTTPClient.TLSClientConfig.Verify", true))
	assert.False(t, GetBoolValue(cfg, "HTTPClient.Debug", false))
	assert.True(t, GetBoolValue(nil, "Logger.JSONFormat", true))
	assert.True(t, GetBoolValue(cfg, "Missing.Field", true))
}
