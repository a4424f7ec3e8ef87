package findings

import (
	"fmt"
	"strings"

	reviewerrors "github.com/scan-io-git/revio/pkg/shared/errors"
)

// Severity is the ordered classification used for prioritization and summary counts.
type Severity string

const (
	SeverityLow    Severity = "low"
	SeverityMedium Severity = "medium"
	SeverityHigh   Severity = "high"
)

// Severities lists every severity from the most to the least important.
var Severities = []Severity{SeverityHigh, SeverityMedium, SeverityLow}

// Rank returns the position of the severity in the low < medium < high order, or -1 if unknown.
func (s Severity) Rank() int {
	switch s {
	case SeverityLow:
		return 0
	case SeverityMedium:
		return 1
	case SeverityHigh:
		return 2
	default:
		return -1
	}
}

// Valid reports whether s is one of the defined severities.
func (s Severity) Valid() bool {
	return s.Rank() >= 0
}

// ParseSeverity converts a case-insensitive string to a Severity.
func ParseSeverity(s string) (Severity, error) {
	sev := Severity(strings.ToLower(strings.TrimSpace(s)))
	if !sev.Valid() {
		return "", reviewerrors.NewValidationError("severity", fmt.Sprintf("unknown severity %q", s))
	}
	return sev, nil
}

// Tool tags of the analyzers producing findings.
const (
	ToolRuff      = "ruff"
	ToolRadon     = "radon"
	ToolHeuristic = "heuristic"
)

// Finding is one normalized issue produced by an analyzer.
// Line is 1-based; zero means the tool reported no line.
type Finding struct {
	Tool       string   `json:"tool"`
	FilePath   string   `json:"file_path"`
	Line       int      `json:"line,omitempty"`
	Severity   Severity `json:"severity"`
	Message    string   `json:"message"`
	Suggestion string   `json:"suggestion,omitempty"`
	RuleID     string   `json:"rule_id,omitempty"`
}

// New constructs a Finding and enforces the model invariants.
func New(tool, filePath string, line int, severity Severity, message string) (Finding, error) {
	f := Finding{
		Tool:     tool,
		FilePath: filePath,
		Line:     line,
		Severity: severity,
		Message:  message,
	}
	return f, f.Validate()
}

// WithSuggestion returns a copy of f carrying a remediation hint.
func (f Finding) WithSuggestion(suggestion string) Finding {
	f.Suggestion = suggestion
	return f
}

// WithRule returns a copy of f carrying a rule identifier.
func (f Finding) WithRule(ruleID string) Finding {
	f.RuleID = ruleID
	return f
}

// Validate checks that the finding respects the model invariants.
func (f Finding) Validate() error {
	switch {
	case f.Tool == "":
		return reviewerrors.NewValidationError("finding", "tool is empty")
	case f.FilePath == "":
		return reviewerrors.NewValidationError("finding", "file path is empty")
	case !f.Severity.Valid():
		return reviewerrors.NewValidationError("finding", fmt.Sprintf("unknown severity %q", f.Severity))
	case strings.TrimSpace(f.Message) == "":
		return reviewerrors.NewValidationError("finding", "message is empty")
	case f.Line < 0:
		return reviewerrors.NewValidationError("finding", fmt.Sprintf("line %d is negative", f.Line))
	}
	return nil
}

// Location renders "path:line", or only the path when no line is known.
func (f Finding) Location() string {
	if f.Line > 0 {
		return fmt.Sprintf("%s:%d", f.FilePath, f.Line)
	}
	return f.FilePath
}
