// Package baseline correlates the findings of a review with an earlier report.
package baseline

import (
	"github.com/scan-io-git/revio/internal/findings"
)

// Diff splits current findings into new and known ones and lists the previous findings that disappeared.
type Diff struct {
	New   []findings.Finding
	Known []findings.Finding
	Fixed []findings.Finding
}

// stage decides whether two findings with the same tool, rule and file are the same issue.
type stage func(current, previous findings.Finding) bool

// stages run from strict to loose. An issue matched in one stage is not offered to later stages,
// while one stage may match an issue to several others.
var stages = []stage{
	// same place, same message
	func(c, p findings.Finding) bool { return c.Line == p.Line && c.Message == p.Message },
	// code moved inside the file
	func(c, p findings.Finding) bool { return c.Message == p.Message },
	// message changed, e.g. a complexity grade went from C to D
	func(c, p findings.Finding) bool { return c.Line == p.Line },
}

// Compare correlates current with previous. Order inside every list follows the input order.
func Compare(current, previous []findings.Finding) Diff {
	matchedCurrent := make([]bool, len(current))
	matchedPrevious := make([]bool, len(previous))

	for _, match := range stages {
		var currentThis, previousThis []int
		for pi, p := range previous {
			if matchedPrevious[pi] {
				continue
			}
			for ci, c := range current {
				if matchedCurrent[ci] || !sameRule(c, p) || !match(c, p) {
					continue
				}
				currentThis = append(currentThis, ci)
				previousThis = append(previousThis, pi)
			}
		}
		for _, ci := range currentThis {
			matchedCurrent[ci] = true
		}
		for _, pi := range previousThis {
			matchedPrevious[pi] = true
		}
	}

	var diff Diff
	for ci, c := range current {
		if matchedCurrent[ci] {
			diff.Known = append(diff.Known, c)
		} else {
			diff.New = append(diff.New, c)
		}
	}
	for pi, p := range previous {
		if !matchedPrevious[pi] {
			diff.Fixed = append(diff.Fixed, p)
		}
	}
	return diff
}

func sameRule(a, b findings.Finding) bool {
	return a.Tool != "" && a.Tool == b.Tool && a.RuleID == b.RuleID && a.FilePath == b.FilePath
}
