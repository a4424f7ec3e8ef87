package render

import (
	"fmt"
	"strings"

	"github.com/scan-io-git/revio/internal/findings"
)

// Markdown renders a human-readable report.
// Findings are listed from high to low severity; equal severities keep their insertion order.
func Markdown(report *findings.ReviewReport) string {
	var b strings.Builder
	line := func(format string, args ...interface{}) {
		fmt.Fprintf(&b, format, args...)
		b.WriteByte('\n')
	}

	line("# Code Review Report: %s", report.Target())
	line("")

	counts := report.CountBySeverity()
	line("## Summary")
	line("- Total findings: %d", report.Total())
	line("- High: %d", counts[findings.SeverityHigh])
	line("- Medium: %d", counts[findings.SeverityMedium])
	line("- Low: %d", counts[findings.SeverityLow])
	md := report.Metadata()
	if n, ok := md["baseline_new"]; ok {
		line("- New since baseline: %v (fixed: %v)", n, md["baseline_fixed"])
	}
	line("")

	if summary, ok := report.AISummary(); ok && summary != "" {
		line("## AI Insights")
		line("%s", summary)
		line("")
	}

	line("## Findings")
	ranked := report.Ranked()
	if len(ranked) == 0 {
		line("No issues found.")
	}
	for _, f := range ranked {
		line("- [%s] `%s` `%s`: %s", strings.ToUpper(string(f.Severity)), f.Location(), f.Tool, f.Message)
		if f.Suggestion != "" {
			line("  Suggestion: %s", f.Suggestion)
		}
	}

	return strings.TrimSpace(b.String()) + "\n"
}
