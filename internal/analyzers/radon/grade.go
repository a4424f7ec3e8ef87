package radon

import (
	"fmt"
	"strings"

	"github.com/scan-io-git/revio/internal/findings"
	reviewerrors "github.com/scan-io-git/revio/pkg/shared/errors"
)

// Grade is a radon cyclomatic complexity rank, A (simplest) through F.
type Grade byte

const (
	GradeA Grade = 'A'
	GradeB Grade = 'B'
	GradeC Grade = 'C'
	GradeD Grade = 'D'
	GradeE Grade = 'E'
	GradeF Grade = 'F'
)

// ParseGrade reads a case-insensitive threshold letter between A and F.
func ParseGrade(s string) (Grade, error) {
	s = strings.ToUpper(strings.TrimSpace(s))
	if len(s) != 1 || s[0] < byte(GradeA) || s[0] > byte(GradeF) {
		return 0, reviewerrors.NewValidationError("complexity threshold", fmt.Sprintf("%q is not a grade between A and F", s))
	}
	return Grade(s[0]), nil
}

// rankGrade converts a rank reported by radon. A missing rank counts as A.
func rankGrade(rank string) Grade {
	rank = strings.ToUpper(strings.TrimSpace(rank))
	if rank == "" {
		return GradeA
	}
	return Grade(rank[0])
}

// AtLeast reports whether g is the same or a worse grade than min.
func (g Grade) AtLeast(min Grade) bool {
	return g >= min
}

// Severity maps the grade of a qualifying block: E and F are high, everything else medium.
func (g Grade) Severity() findings.Severity {
	if g >= GradeE {
		return findings.SeverityHigh
	}
	return findings.SeverityMedium
}

func (g Grade) String() string {
	return string(rune(g))
}
