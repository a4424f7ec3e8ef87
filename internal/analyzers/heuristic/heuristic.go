package heuristic

import (
	"context"
	"fmt"
	"os"
	"unicode/utf8"

	"github.com/hashicorp/go-hclog"
	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/python"

	"github.com/scan-io-git/revio/internal/findings"
)

const syntaxSuggestion = "Fix syntax before running deeper analysis."

// Analyzer parses Python files in-process and walks their syntax trees for risky patterns.
type Analyzer struct {
	logger   hclog.Logger
	language *sitter.Language
}

// New creates a heuristic analyzer for Python sources.
func New(logger hclog.Logger) *Analyzer {
	return &Analyzer{
		logger:   logger,
		language: python.GetLanguage(),
	}
}

// Analyze scans every Python file under path.
// A file that fails to parse yields a single HR000 finding and the remaining files are still scanned.
func (a *Analyzer) Analyze(ctx context.Context, path string) ([]findings.Finding, error) {
	files, err := pythonFiles(path)
	if err != nil {
		return nil, fmt.Errorf("failed to list python files in %q: %w", path, err)
	}

	result := []findings.Finding{}
	for _, file := range files {
		src, err := os.ReadFile(file)
		if err != nil {
			return nil, fmt.Errorf("failed to read %q: %w", file, err)
		}
		if err := a.analyzeSource(ctx, file, src, &result); err != nil {
			return nil, err
		}
	}
	a.logger.Debug("heuristic scan finished", "path", path, "files", len(files), "findings", len(result))
	return result, nil
}

// AnalyzeSource scans a single in-memory Python source reported under filePath.
func (a *Analyzer) AnalyzeSource(ctx context.Context, filePath string, src []byte) ([]findings.Finding, error) {
	result := []findings.Finding{}
	if err := a.analyzeSource(ctx, filePath, src, &result); err != nil {
		return nil, err
	}
	return result, nil
}

func (a *Analyzer) analyzeSource(ctx context.Context, filePath string, src []byte, out *[]findings.Finding) error {
	if !utf8.Valid(src) {
		*out = append(*out, syntaxFinding(filePath, 0, "file is not valid UTF-8"))
		return nil
	}

	parser := sitter.NewParser()
	parser.SetLanguage(a.language)

	tree, err := parser.ParseCtx(ctx, nil, src)
	if err != nil {
		return fmt.Errorf("failed to parse %q: %w", filePath, err)
	}
	root := tree.RootNode()

	if bad := firstSyntaxError(root); bad != nil {
		a.logger.Debug("syntax error", "file", filePath, "line", bad.StartPoint().Row+1, "node", bad.Type())
		*out = append(*out, syntaxFinding(filePath, int(bad.StartPoint().Row)+1, syntaxReason(bad, src)))
		return nil
	}

	v := &visitor{filePath: filePath, src: src, out: out}
	v.walk(root)
	return nil
}

func syntaxFinding(filePath string, line int, reason string) findings.Finding {
	return findings.Finding{
		Tool:       findings.ToolHeuristic,
		FilePath:   filePath,
		Line:       line,
		Severity:   findings.SeverityHigh,
		Message:    "Syntax error: " + reason,
		Suggestion: syntaxSuggestion,
		RuleID:     RuleSyntaxError,
	}
}
