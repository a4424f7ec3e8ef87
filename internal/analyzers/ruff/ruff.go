package ruff

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/hashicorp/go-hclog"

	"github.com/scan-io-git/revio/internal/analyzers"
	"github.com/scan-io-git/revio/internal/findings"
	"github.com/scan-io-git/revio/internal/runner"
	"github.com/scan-io-git/revio/pkg/shared/config"
)

const defaultMessage = "Style issue"

// issue is one entry of "ruff check --output-format json".
type issue struct {
	Code     *string `json:"code"`
	Filename string  `json:"filename"`
	Message  string  `json:"message"`
	Location *struct {
		Row int `json:"row"`
	} `json:"location"`
	Fix *struct {
		Message *string `json:"message"`
	} `json:"fix"`
}

// Analyzer runs ruff and normalizes its issues into findings.
type Analyzer struct {
	logger   hclog.Logger
	executor runner.Executor
	binary   string
	python   string
	extra    []string
}

// New creates a ruff analyzer from the analyzers section of the configuration.
func New(logger hclog.Logger, executor runner.Executor, cfg config.Analyzers) *Analyzer {
	return &Analyzer{
		logger:   logger,
		executor: executor,
		binary:   config.SetThen(cfg.Ruff.Binary, "ruff"),
		python:   config.SetThen(cfg.Python, config.DefaultPython),
		extra:    cfg.Ruff.AdditionalArgs,
	}
}

func (a *Analyzer) buildCommandArgs(path string) []string {
	commandArgs := []string{"check", path, "--output-format", "json"}
	return append(commandArgs, a.extra...)
}

// Analyze lints path and returns one medium-severity finding per reported issue.
func (a *Analyzer) Analyze(ctx context.Context, path string) ([]findings.Finding, error) {
	if err := analyzers.CheckTarget(path); err != nil {
		return nil, err
	}

	res, err := a.executor.Run(ctx, runner.Command{
		Binary: a.binary,
		Python: a.python,
		Module: findings.ToolRuff,
		Args:   a.buildCommandArgs(path),
	})
	if err != nil {
		return nil, err
	}
	if err := analyzers.CheckExitStatus(findings.ToolRuff, res); err != nil {
		a.logger.Error("ruff execution error", "error", err)
		return nil, err
	}
	if analyzers.IsBlank(res.Stdout) {
		return []findings.Finding{}, nil
	}

	var issues []issue
	if err := json.Unmarshal(res.Stdout, &issues); err != nil {
		return nil, fmt.Errorf("failed to decode ruff output: %w", err)
	}

	result := make([]findings.Finding, 0, len(issues))
	for _, is := range issues {
		f, err := toFinding(is, path)
		if err != nil {
			return nil, err
		}
		result = append(result, f)
	}
	a.logger.Debug("ruff finished", "path", path, "findings", len(result))
	return result, nil
}

func toFinding(is issue, target string) (findings.Finding, error) {
	filePath := is.Filename
	if filePath == "" {
		filePath = target
	}
	message := is.Message
	if message == "" {
		message = defaultMessage
	}
	line := 0
	if is.Location != nil {
		line = is.Location.Row
	}

	f, err := findings.New(findings.ToolRuff, filePath, line, findings.SeverityMedium, message)
	if err != nil {
		return f, err
	}
	if is.Code != nil {
		f = f.WithRule(*is.Code)
	}
	if is.Fix != nil && is.Fix.Message != nil {
		f = f.WithSuggestion(*is.Fix.Message)
	}
	return f, nil
}
