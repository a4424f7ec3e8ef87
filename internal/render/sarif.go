package render

import (
	"bytes"
	"fmt"

	"github.com/owenrumney/go-sarif/v2/sarif"

	"github.com/scan-io-git/revio/internal/findings"
)

type toolInfo struct {
	name string
	uri  string
}

// One run per analyzer, always present and in pipeline order.
var sarifTools = []toolInfo{
	{name: findings.ToolRuff, uri: "https://docs.astral.sh/ruff/"},
	{name: findings.ToolRadon, uri: "https://radon.readthedocs.io/"},
	{name: findings.ToolHeuristic, uri: "https://github.com/scan-io-git/revio"},
}

// SARIF renders the report as a SARIF 2.1.0 log.
func SARIF(report *findings.ReviewReport) ([]byte, error) {
	log, err := sarif.New(sarif.Version210)
	if err != nil {
		return nil, fmt.Errorf("failed to create SARIF report: %w", err)
	}

	byTool := make(map[string][]findings.Finding)
	for _, f := range report.Findings() {
		byTool[f.Tool] = append(byTool[f.Tool], f)
	}

	for _, tool := range sarifTools {
		run := sarif.NewRunWithInformationURI(tool.name, tool.uri)
		run.Results = []*sarif.Result{}
		for _, f := range byTool[tool.name] {
			addResult(run, f)
		}
		log.AddRun(run)
	}

	var buf bytes.Buffer
	if err := log.PrettyWrite(&buf); err != nil {
		return nil, fmt.Errorf("failed to encode SARIF report: %w", err)
	}
	return buf.Bytes(), nil
}

func addResult(run *sarif.Run, f findings.Finding) {
	ruleID := f.RuleID
	if ruleID == "" {
		ruleID = f.Tool
	}
	level := toSarifLevel(f.Severity)

	rule := run.AddRule(ruleID).
		WithDescription(f.Message).
		WithDefaultConfiguration(&sarif.ReportingConfiguration{Level: level})
	if f.Suggestion != "" {
		suggestion := f.Suggestion
		rule.Help = &sarif.MultiformatMessageString{Text: &suggestion}
	}

	physical := sarif.NewPhysicalLocation().
		WithArtifactLocation(sarif.NewArtifactLocation().WithUri(f.FilePath))
	if f.Line > 0 {
		physical.WithRegion(sarif.NewRegion().WithStartLine(f.Line))
	}

	result := sarif.NewRuleResult(rule.ID).
		WithMessage(sarif.NewTextMessage(f.Message)).
		WithLevel(level).
		WithLocations([]*sarif.Location{sarif.NewLocation().WithPhysicalLocation(physical)})
	run.AddResult(result)
}

func toSarifLevel(severity findings.Severity) string {
	switch severity {
	case findings.SeverityHigh:
		return "error"
	case findings.SeverityMedium:
		return "warning"
	default:
		return "note"
	}
}
