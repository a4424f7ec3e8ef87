package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"
)

var supportedLLMProviders = []string{"auto", "openai", "ollama", "gemini"}

// ValidateConfig checks if the global configurations have valid values.
func ValidateConfig(cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("YAML global config: configuration object is nil")
	}
	if err := ValidateHTTPConfig(&cfg.HTTPClient); err != nil {
		return fmt.Errorf("YAML global config: http_client directive is invalid: %w", err)
	}
	if err := ValidateReviewConfig(&cfg.Review); err != nil {
		return fmt.Errorf("YAML global config: review directive is invalid: %w", err)
	}
	if err := ValidateLLMConfig(&cfg.LLM); err != nil {
		return fmt.Errorf("YAML global config: llm directive is invalid: %w", err)
	}
	if err := ValidateVCSConfig(&cfg.VCS); err != nil {
		return fmt.Errorf("YAML global config: vcs directive is invalid: %w", err)
	}
	return nil
}

// ValidateHTTPConfig checks if the HTTP configurations have valid values.
func ValidateHTTPConfig(httpConfig *HTTPClient) error {
	if httpConfig == nil {
		return fmt.Errorf("HTTP configuration is nil")
	}
	if httpConfig.RetryCount < 0 || httpConfig.RetryCount > 20 {
		return fmt.Errorf("retry_count must be between 0 and 20: %d", httpConfig.RetryCount)
	}

	durations := map[string]time.Duration{
		"RetryMaxWaitTime": httpConfig.RetryMaxWaitTime,
		"RetryWaitTime":    httpConfig.RetryWaitTime,
		"Timeout":          httpConfig.Timeout,
	}
	for name, duration := range durations {
		if err := validateDuration(duration, name, 10*time.Minute); err != nil {
			return err
		}
	}

	return validateProxy(&httpConfig.Proxy)
}

// ValidateReviewConfig checks the review defaults.
func ValidateReviewConfig(review *Review) error {
	if review == nil {
		return fmt.Errorf("review configuration is nil")
	}
	threshold := strings.ToUpper(review.ComplexityThreshold)
	if len(threshold) != 1 || threshold[0] < 'A' || threshold[0] > 'F' {
		return fmt.Errorf("complexity_threshold must be a letter between A and F: %q", review.ComplexityThreshold)
	}
	if review.MaxSummaryFindings < 0 || review.MaxSummaryFiles < 0 || review.MaxChatFindings < 0 {
		return fmt.Errorf("payload limits cannot be negative")
	}
	return nil
}

// ValidateLLMConfig checks the language model settings.
func ValidateLLMConfig(llm *LLM) error {
	if llm == nil {
		return fmt.Errorf("llm configuration is nil")
	}
	provider := strings.ToLower(llm.Provider)
	for _, p := range supportedLLMProviders {
		if provider == p {
			return nil
		}
	}
	return fmt.Errorf("unsupported provider %q, expected one of: %s", llm.Provider, strings.Join(supportedLLMProviders, ", "))
}

// ValidateVCSConfig checks remote repository settings.
func ValidateVCSConfig(vcs *VCS) error {
	if vcs == nil {
		return fmt.Errorf("vcs configuration is nil")
	}
	if err := validateDuration(vcs.Timeout, "timeout", 10*time.Minute); err != nil {
		return err
	}
	if vcs.MaxFiles < 0 || vcs.MaxPatchChars < 0 {
		return fmt.Errorf("max_files and max_patch_chars cannot be negative")
	}
	for name, baseURL := range map[string]string{"github": vcs.GitHub.BaseURL, "gitlab": vcs.GitLab.BaseURL} {
		if baseURL == "" {
			continue
		}
		if _, err := url.ParseRequestURI(baseURL); err != nil {
			return fmt.Errorf("%s base_url is invalid: %w", name, err)
		}
	}
	return nil
}

// validateDuration checks that a time.Duration is valid and within a specified maximum duration.
func validateDuration(d time.Duration, name string, max time.Duration) error {
	if d < 0 {
		return fmt.Errorf("invalid duration for %q: %v cannot be negative", name, d)
	}
	if d > max {
		return fmt.Errorf("%q duration is too long: %v exceeds maximum of %v", name, d, max)
	}
	return nil
}

// validateProxy checks if the given Proxy settings are valid.
func validateProxy(proxy *Proxy) error {
	if proxy == nil {
		return fmt.Errorf("proxy configuration is nil")
	}

	if proxy.Host == "" || proxy.Port == 0 {
		return nil
	}

	if err := validateHost(&proxy.Host); err != nil {
		return err
	}

	return validatePort(proxy.Port)
}

// validateHost ensures the host includes a scheme; adds "http" if missing.
func validateHost(host *string) error {
	if host == nil {
		return fmt.Errorf("host string pointer is nil")
	}

	if !strings.Contains(*host, "://") {
		*host = "http://" + *host
	}
	*host = strings.TrimRight(*host, "/")

	if _, err := url.Parse(*host); err != nil {
		return fmt.Errorf("invalid host URL: %w", err)
	}

	return nil
}

// validatePort checks if the port part of the proxy configuration is valid.
func validatePort(port int) error {
	if port < 1 || port > 65535 {
		return fmt.Errorf("port must be between 1 and 65535, got %d", port)
	}
	return nil
}
