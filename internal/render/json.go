package render

import (
	"encoding/json"
	"fmt"

	"github.com/scan-io-git/revio/internal/findings"
)

type jsonReport struct {
	Target        string                 `json:"target"`
	TotalFindings int                    `json:"total_findings"`
	Findings      []findings.Finding     `json:"findings"`
	AISummary     *string                `json:"ai_summary"`
	Metadata      map[string]interface{} `json:"metadata"`
}

// JSON renders the report as an indented JSON document.
// Findings keep insertion order and ai_summary is null when no summary is attached.
func JSON(report *findings.ReviewReport) ([]byte, error) {
	doc := jsonReport{
		Target:        report.Target(),
		TotalFindings: report.Total(),
		Findings:      report.Findings(),
		Metadata:      report.Metadata(),
	}
	if summary, ok := report.AISummary(); ok {
		doc.AISummary = &summary
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode report: %w", err)
	}
	return append(data, '\n'), nil
}

// ParseJSON rebuilds a sealed report from its JSON rendering.
func ParseJSON(data []byte) (*findings.ReviewReport, error) {
	var doc jsonReport
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to decode report: %w", err)
	}

	report := findings.NewReport(doc.Target)
	if err := report.AddFindings(doc.Findings); err != nil {
		return nil, fmt.Errorf("report contains an invalid finding: %w", err)
	}
	if doc.AISummary != nil {
		if err := report.SetAISummary(*doc.AISummary); err != nil {
			return nil, err
		}
	}
	for k, v := range doc.Metadata {
		if err := report.SetMetadata(k, v); err != nil {
			return nil, err
		}
	}
	return report.Seal(), nil
}
