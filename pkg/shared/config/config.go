package config

import (
	"fmt"
	"os"
	"time"

	yaml "gopkg.in/yaml.v2"
)

// Config is the global configuration of revio.
type Config struct {
	Logger     Logger     `yaml:"logger"`
	HTTPClient HTTPClient `yaml:"http_client"`
	Analyzers  Analyzers  `yaml:"analyzers"`
	Review     Review     `yaml:"review"`
	LLM        LLM        `yaml:"llm"`
	VCS        VCS        `yaml:"vcs"`
	Upload     Upload     `yaml:"upload"`
}

type Logger struct {
	Level      string `yaml:"level"`
	JSONFormat *bool  `yaml:"json_format"`
}

type HTTPClient struct {
	Debug            *bool           `yaml:"debug"`
	RetryCount       int             `yaml:"retry_count"`
	RetryWaitTime    time.Duration   `yaml:"retry_wait_time"`
	RetryMaxWaitTime time.Duration   `yaml:"retry_max_wait_time"`
	Timeout          time.Duration   `yaml:"timeout"`
	TLSClientConfig  TLSClientConfig `yaml:"tls_client_config"`
	Proxy            Proxy           `yaml:"proxy"`
}

type TLSClientConfig struct {
	Verify *bool `yaml:"verify"`
}

type Proxy struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

// Analyzers configures the external analysis tools.
type Analyzers struct {
	Python string `yaml:"python"` // interpreter used for "python -m <tool>" when the tool is not on PATH
	Ruff   Tool   `yaml:"ruff"`
	Radon  Tool   `yaml:"radon"`
}

// Tool configures a single external analysis tool.
type Tool struct {
	Binary         string   `yaml:"binary"`
	AdditionalArgs []string `yaml:"additional_args"`
}

type Review struct {
	ComplexityThreshold string `yaml:"complexity_threshold"`
	SnippetFilename     string `yaml:"snippet_filename"`
	MaxSummaryFindings  int    `yaml:"max_summary_findings"`
	MaxSummaryFiles     int    `yaml:"max_summary_files"`
	MaxChatFindings     int    `yaml:"max_chat_findings"`
}

// LLM configures the language model used for AI summaries and the review bot.
type LLM struct {
	Provider    string  `yaml:"provider"` // auto, openai, ollama, gemini
	Temperature float64 `yaml:"temperature"`
	OpenAI      OpenAI  `yaml:"openai"`
	Ollama      Ollama  `yaml:"ollama"`
	Gemini      Gemini  `yaml:"gemini"`
}

type OpenAI struct {
	APIKey  string `yaml:"api_key"`
	Model   string `yaml:"model"`
	BaseURL string `yaml:"base_url"`
}

type Ollama struct {
	Host  string `yaml:"host"`
	Model string `yaml:"model"`
}

type Gemini struct {
	APIKey string `yaml:"api_key"`
	Model  string `yaml:"model"`
}

// VCS configures the remote pull request collaborators.
type VCS struct {
	Timeout       time.Duration `yaml:"timeout"`
	MaxFiles      int           `yaml:"max_files"`
	MaxPatchChars int           `yaml:"max_patch_chars"`
	GitHub        VCSProvider   `yaml:"github"`
	GitLab        VCSProvider   `yaml:"gitlab"`
}

type VCSProvider struct {
	Token   string `yaml:"token"`
	BaseURL string `yaml:"base_url"`
}

type Upload struct {
	S3 S3 `yaml:"s3"`
}

type S3 struct {
	Bucket string `yaml:"bucket"`
	Prefix string `yaml:"prefix"`
	Region string `yaml:"region"`
}

// ValidateConfigPath checks that the path points to a regular file.
func ValidateConfigPath(path string) error {
	s, err := os.Stat(path)
	if err != nil {
		return err
	}
	if s.IsDir() {
		return fmt.Errorf("'%s' is a directory, not a file", path)
	}
	return nil
}

// LoadYAML decodes the YAML file at configPath into data.
func LoadYAML(configPath string, data interface{}) error {
	if err := ValidateConfigPath(configPath); err != nil {
		return err
	}

	file, err := os.Open(configPath)
	if err != nil {
		return err
	}
	defer file.Close()

	d := yaml.NewDecoder(file)
	if err := d.Decode(data); err != nil {
		return err
	}

	return nil
}

// LoadConfig builds the configuration from an optional YAML file, environment overrides and defaults.
// An empty configPath falls back to REVIO_CONFIG; when neither is set only defaults and environment are used.
func LoadConfig(configPath string) (*Config, error) {
	cfg := &Config{}

	if configPath == "" {
		configPath = os.Getenv("REVIO_CONFIG")
	}
	if configPath != "" {
		if err := LoadYAML(configPath, cfg); err != nil {
			return nil, fmt.Errorf("failed to load config %q: %w", configPath, err)
		}
	}

	applyEnv(cfg)
	applyDefaults(cfg)
	return cfg, nil
}
