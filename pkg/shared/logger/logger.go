package logger

import (
	"io"
	"os"
	"strings"

	"github.com/hashicorp/go-hclog"

	"github.com/scan-io-git/revio/pkg/shared/config"
)

// NewLogger creates a named hclog.Logger writing to stderr, so that stdout only carries rendered reports.
func NewLogger(cfg *config.Config, name string) hclog.Logger {
	return newLogger(cfg, name, os.Stderr)
}

func newLogger(cfg *config.Config, name string, output io.Writer) hclog.Logger {
	return hclog.New(&hclog.LoggerOptions{
		Name:        name,
		DisableTime: true,
		JSONFormat:  config.GetBoolValue(cfg, "Logger.JSONFormat", false),
		Output:      output,
		Level:       determineLogLevel(cfg),
	})
}

// determineLogLevel returns a log level determined first by an environment variable, and if not set, by the provided configuration.
// If neither configuration nor environment variable specifies a log level, it defaults to INFO.
func determineLogLevel(cfg *config.Config) hclog.Level {
	if logLevelEnv := os.Getenv("REVIO_LOG_LEVEL"); logLevelEnv != "" {
		return getLogLevel(strings.ToUpper(logLevelEnv))
	}
	if cfg != nil {
		return getLogLevel(strings.ToUpper(cfg.Logger.Level))
	}
	return hclog.Info
}

func getLogLevel(levelStr string) hclog.Level {
	switch levelStr {
	case "TRACE":
		return hclog.Trace
	case "DEBUG":
		return hclog.Debug
	case "INFO":
		return hclog.Info
	case "WARN":
		return hclog.Warn
	case "ERROR":
		return hclog.Error
	default:
		return hclog.Info
	}
}
