package findings

import (
	"fmt"
	"sort"

	reviewerrors "github.com/scan-io-git/revio/pkg/shared/errors"
)

// ReviewReport is the aggregate result of one review target.
// It is built by a single flow, then sealed and handed to renderers read-only.
type ReviewReport struct {
	target    string
	findings  []Finding
	aiSummary *string
	metadata  map[string]interface{}
	sealed    bool
}

// NewReport creates an empty report for target.
func NewReport(target string) *ReviewReport {
	return &ReviewReport{
		target:   target,
		metadata: make(map[string]interface{}),
	}
}

// Target returns the human-readable identifier of what was reviewed.
func (r *ReviewReport) Target() string {
	return r.target
}

// Findings returns a copy of the findings in insertion order.
func (r *ReviewReport) Findings() []Finding {
	out := make([]Finding, len(r.findings))
	copy(out, r.findings)
	return out
}

// Total returns the number of findings.
func (r *ReviewReport) Total() int {
	return len(r.findings)
}

// AISummary returns the attached narrative, if any.
func (r *ReviewReport) AISummary() (string, bool) {
	if r.aiSummary == nil {
		return "", false
	}
	return *r.aiSummary, true
}

// Metadata returns a copy of the metadata sidecar.
func (r *ReviewReport) Metadata() map[string]interface{} {
	out := make(map[string]interface{}, len(r.metadata))
	for k, v := range r.metadata {
		out[k] = v
	}
	return out
}

// Sealed reports whether the report was handed off.
func (r *ReviewReport) Sealed() bool {
	return r.sealed
}

// AddFindings appends findings after validating each of them.
func (r *ReviewReport) AddFindings(newFindings []Finding) error {
	if r.sealed {
		return reviewerrors.ErrReportSealed
	}
	for i, f := range newFindings {
		if err := f.Validate(); err != nil {
			return fmt.Errorf("finding #%d from %q: %w", i, f.Tool, err)
		}
	}
	r.findings = append(r.findings, newFindings...)
	return nil
}

// SetAISummary attaches the narrative. It can be set only once.
func (r *ReviewReport) SetAISummary(summary string) error {
	if r.sealed {
		return reviewerrors.ErrReportSealed
	}
	if r.aiSummary != nil {
		return reviewerrors.ErrSummaryAlreadySet
	}
	r.aiSummary = &summary
	return nil
}

// SetMetadata stores a sidecar value.
func (r *ReviewReport) SetMetadata(key string, value interface{}) error {
	if r.sealed {
		return reviewerrors.ErrReportSealed
	}
	r.metadata[key] = value
	return nil
}

// Seal freezes the report. Further mutations return ErrReportSealed.
func (r *ReviewReport) Seal() *ReviewReport {
	r.sealed = true
	return r
}

// CountBySeverity returns the number of findings per severity, with every severity present.
func (r *ReviewReport) CountBySeverity() map[Severity]int {
	counts := map[Severity]int{
		SeverityHigh:   0,
		SeverityMedium: 0,
		SeverityLow:    0,
	}
	for _, f := range r.findings {
		counts[f.Severity]++
	}
	return counts
}

// Ranked returns the findings ordered from high to low severity.
// The sort is stable, so findings of equal severity keep their insertion order.
func (r *ReviewReport) Ranked() []Finding {
	out := r.Findings()
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Severity.Rank() > out[j].Severity.Rank()
	})
	return out
}
