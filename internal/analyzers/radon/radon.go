package radon

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"github.com/hashicorp/go-hclog"

	"github.com/scan-io-git/revio/internal/analyzers"
	"github.com/scan-io-git/revio/internal/findings"
	"github.com/scan-io-git/revio/internal/runner"
	"github.com/scan-io-git/revio/pkg/shared/config"
)

const refactorSuggestion = "Refactor into smaller functions and simplify branching."

// block is one code block entry of "radon cc -j".
type block struct {
	Type       string `json:"type"`
	Name       string `json:"name"`
	Rank       string `json:"rank"`
	Complexity int    `json:"complexity"`
	Lineno     int    `json:"lineno"`
}

// fileResult is one file of the radon report, in the order radon printed it.
type fileResult struct {
	path   string
	blocks []block
}

// Analyzer runs radon and keeps blocks at or above a complexity grade.
type Analyzer struct {
	logger   hclog.Logger
	executor runner.Executor
	binary   string
	python   string
	extra    []string
}

// New creates a radon analyzer from the analyzers section of the configuration.
func New(logger hclog.Logger, executor runner.Executor, cfg config.Analyzers) *Analyzer {
	return &Analyzer{
		logger:   logger,
		executor: executor,
		binary:   config.SetThen(cfg.Radon.Binary, "radon"),
		python:   config.SetThen(cfg.Python, config.DefaultPython),
		extra:    cfg.Radon.AdditionalArgs,
	}
}

func (a *Analyzer) buildCommandArgs(path string) []string {
	commandArgs := []string{"cc", "-j", "-s"}
	commandArgs = append(commandArgs, a.extra...)
	return append(commandArgs, path)
}

// Analyze measures path and returns a finding for every block whose grade is at least minGrade.
func (a *Analyzer) Analyze(ctx context.Context, path string, minGrade Grade) ([]findings.Finding, error) {
	if err := analyzers.CheckTarget(path); err != nil {
		return nil, err
	}

	res, err := a.executor.Run(ctx, runner.Command{
		Binary: a.binary,
		Python: a.python,
		Module: findings.ToolRadon,
		Args:   a.buildCommandArgs(path),
	})
	if err != nil {
		return nil, err
	}
	if err := analyzers.CheckExitStatus(findings.ToolRadon, res); err != nil {
		a.logger.Error("radon execution error", "error", err)
		return nil, err
	}
	if analyzers.IsBlank(res.Stdout) {
		return []findings.Finding{}, nil
	}

	files, err := a.decode(res.Stdout)
	if err != nil {
		return nil, fmt.Errorf("failed to decode radon output: %w", err)
	}

	result := []findings.Finding{}
	for _, file := range files {
		for _, b := range file.blocks {
			grade := rankGrade(b.Rank)
			if !grade.AtLeast(minGrade) {
				continue
			}
			f, err := toFinding(file.path, b, grade)
			if err != nil {
				return nil, err
			}
			result = append(result, f)
		}
	}
	a.logger.Debug("radon finished", "path", path, "threshold", minGrade.String(), "findings", len(result))
	return result, nil
}

// decode walks the top-level object token by token so files keep radon's output order.
// Files radon could not parse are reported as {"error": "..."} and are skipped.
func (a *Analyzer) decode(data []byte) ([]fileResult, error) {
	dec := json.NewDecoder(bytes.NewReader(data))

	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil, fmt.Errorf("expected a JSON object, got %v", tok)
	}

	var files []fileResult
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		path, ok := tok.(string)
		if !ok {
			return nil, fmt.Errorf("expected a file path, got %v", tok)
		}

		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return nil, fmt.Errorf("file %q: %w", path, err)
		}
		raw = bytes.TrimSpace(raw)

		if len(raw) > 0 && raw[0] == '{' {
			var failure struct {
				Error string `json:"error"`
			}
			if err := json.Unmarshal(raw, &failure); err != nil {
				return nil, fmt.Errorf("file %q: %w", path, err)
			}
			a.logger.Warn("radon could not analyze file", "path", path, "error", failure.Error)
			continue
		}

		var blocks []block
		if err := json.Unmarshal(raw, &blocks); err != nil {
			return nil, fmt.Errorf("file %q: %w", path, err)
		}
		files = append(files, fileResult{path: path, blocks: blocks})
	}

	if _, err := dec.Token(); err != nil {
		return nil, err
	}
	return files, nil
}

func toFinding(path string, b block, grade Grade) (findings.Finding, error) {
	blockType := config.SetThen(b.Type, "block")
	name := config.SetThen(b.Name, "unknown")
	message := fmt.Sprintf("High cyclomatic complexity (%d) in %s `%s`", b.Complexity, blockType, name)

	f, err := findings.New(findings.ToolRadon, path, b.Lineno, grade.Severity(), message)
	if err != nil {
		return f, err
	}
	return f.WithRule("CC-" + grade.String()).WithSuggestion(refactorSuggestion), nil
}
