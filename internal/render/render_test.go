package render

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scan-io-git/revio/internal/findings"
	reviewerrors "github.com/scan-io-git/revio/pkg/shared/errors"
)

func mustFinding(t *testing.T, tool, path string, line int, sev findings.Severity, msg string) findings.Finding {
	t.Helper()
	f, err := findings.New(tool, path, line, sev, msg)
	require.NoError(t, err)
	return f
}

func sampleReport(t *testing.T) *findings.ReviewReport {
	t.Helper()
	report := findings.NewReport("/work/app")
	require.NoError(t, report.AddFindings([]findings.Finding{
		mustFinding(t, findings.ToolRuff, "app.py", 3, findings.SeverityMedium, "`os` imported but unused").WithRule("F401").WithSuggestion("Remove unused import: `os`"),
		mustFinding(t, findings.ToolRadon, "app.py", 10, findings.SeverityHigh, "High cyclomatic complexity (31) in function `handle`").WithRule("CC-E"),
		mustFinding(t, findings.ToolHeuristic, "app.py", 0, findings.SeverityLow, "note without line"),
		mustFinding(t, findings.ToolHeuristic, "util.py", 7, findings.SeverityHigh, "Use of `eval` may introduce security risks.").WithRule("HR002"),
	}))
	require.NoError(t, report.SetMetadata("branch", "main"))
	return report.Seal()
}

func TestParseFormat(t *testing.T) {
	for in, want := range map[string]Format{"": FormatMarkdown, "MD": FormatMarkdown, "json": FormatJSON, " Sarif ": FormatSARIF} {
		got, err := ParseFormat(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got)
	}

	_, err := ParseFormat("html")
	var validationErr *reviewerrors.ValidationError
	assert.ErrorAs(t, err, &validationErr)
}

func TestJSONRoundTrip(t *testing.T) {
	report := findings.NewReport("https://github.com/acme/api/pull/7")
	require.NoError(t, report.AddFindings([]findings.Finding{
		mustFinding(t, findings.ToolRuff, "a.py", 1, findings.SeverityMedium, "x").WithRule("E501"),
		mustFinding(t, findings.ToolHeuristic, "b.py", 0, findings.SeverityHigh, "y"),
	}))
	require.NoError(t, report.SetAISummary("- fix it"))
	require.NoError(t, report.SetMetadata("files_changed", 3))
	report.Seal()

	data, err := JSON(report)
	require.NoError(t, err)

	parsed, err := ParseJSON(data)
	require.NoError(t, err)
	assert.True(t, parsed.Sealed())
	assert.Equal(t, report.Target(), parsed.Target())
	assert.Equal(t, report.Findings(), parsed.Findings())
	summary, ok := parsed.AISummary()
	assert.True(t, ok)
	assert.Equal(t, "- fix it", summary)
	assert.EqualValues(t, 3, parsed.Metadata()["files_changed"])

	again, err := JSON(parsed)
	require.NoError(t, err)
	assert.JSONEq(t, string(data), string(again))
}

func TestJSONNullSummary(t *testing.T) {
	data, err := JSON(findings.NewReport("empty").Seal())
	require.NoError(t, err)

	var doc map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &doc))
	summary, present := doc["ai_summary"]
	assert.True(t, present)
	assert.Nil(t, summary)
	assert.Equal(t, []interface{}{}, doc["findings"])
	assert.EqualValues(t, 0, doc["total_findings"])
}

func TestParseJSONAcceptsNullFields(t *testing.T) {
	data := []byte(`{"target": "t", "total_findings": 1, "findings": [
		{"tool": "ruff", "file_path": "a.py", "line": null, "severity": "low", "message": "m", "suggestion": null, "rule_id": null}
	], "ai_summary": null, "metadata": {}}`)

	report, err := ParseJSON(data)
	require.NoError(t, err)
	require.Len(t, report.Findings(), 1)
	assert.Equal(t, 0, report.Findings()[0].Line)
	_, ok := report.AISummary()
	assert.False(t, ok)
}

func TestParseJSONRejectsInvalidFinding(t *testing.T) {
	_, err := ParseJSON([]byte(`{"target": "t", "findings": [{"tool": "ruff", "file_path": "a.py", "severity": "critical", "message": "m"}]}`))
	assert.Error(t, err)

	_, err = ParseJSON([]byte(`not json`))
	assert.Error(t, err)
}

func TestMarkdownRanksBySeverity(t *testing.T) {
	want := "# Code Review Report: /work/app\n" +
		"\n" +
		"## Summary\n" +
		"- Total findings: 4\n" +
		"- High: 2\n" +
		"- Medium: 1\n" +
		"- Low: 1\n" +
		"\n" +
		"## Findings\n" +
		"- [HIGH] `app.py:10` `radon`: High cyclomatic complexity (31) in function `handle`\n" +
		"- [HIGH] `util.py:7` `heuristic`: Use of `eval` may introduce security risks.\n" +
		"- [MEDIUM] `app.py:3` `ruff`: `os` imported but unused\n" +
		"  Suggestion: Remove unused import: `os`\n" +
		"- [LOW] `app.py` `heuristic`: note without line\n"
	assert.Equal(t, want, Markdown(sampleReport(t)))
}

func TestMarkdownEmptyWithSummary(t *testing.T) {
	report := findings.NewReport("/tmp/clean")
	require.NoError(t, report.SetAISummary("AI summary unavailable: no key"))
	report.Seal()

	want := "# Code Review Report: /tmp/clean\n" +
		"\n" +
		"## Summary\n" +
		"- Total findings: 0\n" +
		"- High: 0\n" +
		"- Medium: 0\n" +
		"- Low: 0\n" +
		"\n" +
		"## AI Insights\n" +
		"AI summary unavailable: no key\n" +
		"\n" +
		"## Findings\n" +
		"No issues found.\n"
	assert.Equal(t, want, Markdown(report))
}

func TestMarkdownBaselineLine(t *testing.T) {
	report := findings.NewReport("/tmp/app")
	require.NoError(t, report.SetMetadata("baseline_new", 2))
	require.NoError(t, report.SetMetadata("baseline_fixed", 5))
	report.Seal()

	assert.Contains(t, Markdown(report), "- Low: 0\n- New since baseline: 2 (fixed: 5)\n\n## Findings\n")
}

func TestSARIF(t *testing.T) {
	data, err := SARIF(sampleReport(t))
	require.NoError(t, err)

	var doc struct {
		Version string `json:"version"`
		Runs    []struct {
			Tool struct {
				Driver struct {
					Name  string `json:"name"`
					Rules []struct {
						ID string `json:"id"`
					} `json:"rules"`
				} `json:"driver"`
			} `json:"tool"`
			Results []struct {
				RuleID    string `json:"ruleId"`
				Level     string `json:"level"`
				Locations []struct {
					PhysicalLocation struct {
						ArtifactLocation struct {
							URI string `json:"uri"`
						} `json:"artifactLocation"`
						Region *struct {
							StartLine int `json:"startLine"`
						} `json:"region"`
					} `json:"physicalLocation"`
				} `json:"locations"`
			} `json:"results"`
		} `json:"runs"`
	}
	require.NoError(t, json.Unmarshal(data, &doc))

	assert.Equal(t, "2.1.0", doc.Version)
	require.Len(t, doc.Runs, 3)
	assert.Equal(t, "ruff", doc.Runs[0].Tool.Driver.Name)
	assert.Equal(t, "radon", doc.Runs[1].Tool.Driver.Name)
	assert.Equal(t, "heuristic", doc.Runs[2].Tool.Driver.Name)

	require.Len(t, doc.Runs[0].Results, 1)
	assert.Equal(t, "F401", doc.Runs[0].Results[0].RuleID)
	assert.Equal(t, "warning", doc.Runs[0].Results[0].Level)
	assert.Equal(t, 3, doc.Runs[0].Results[0].Locations[0].PhysicalLocation.Region.StartLine)

	heuristic := doc.Runs[2].Results
	require.Len(t, heuristic, 2)
	assert.Equal(t, "heuristic", heuristic[0].RuleID)
	assert.Equal(t, "note", heuristic[0].Level)
	assert.Nil(t, heuristic[0].Locations[0].PhysicalLocation.Region)
	assert.Equal(t, "util.py", heuristic[1].Locations[0].PhysicalLocation.ArtifactLocation.URI)
	assert.Equal(t, "error", heuristic[1].Level)
}

func TestRenderDispatch(t *testing.T) {
	report := sampleReport(t)
	for _, format := range Formats {
		out, err := Render(report, format)
		require.NoError(t, err)
		assert.NotEmpty(t, out)
	}
	_, err := Render(report, Format("xml"))
	assert.Error(t, err)
	assert.Equal(t, ".sarif", FormatSARIF.Extension())
}
