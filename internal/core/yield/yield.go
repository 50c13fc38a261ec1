// Package yield computes build yield and failure-mode pareto figures from
// the latest report of each board.
// This is part of the Functional Core - no I/O, only pure functions.
package yield

import (
	"sort"

	"github.com/example/testhub/internal/core/identity"
	"github.com/example/testhub/internal/core/report"
)

// Filter selects boards by identity fields. Empty fields match anything.
type Filter struct {
	Name     string
	Revision string
	Variant  string
}

// Matches reports whether id satisfies the filter.
func (f Filter) Matches(id identity.BoardIdentity) bool {
	if f.Name != "" && f.Name != id.Name {
		return false
	}
	if f.Revision != "" && f.Revision != id.Revision {
		return false
	}
	if f.Variant != "" && f.Variant != id.Variant {
		return false
	}
	return true
}

// Board is the input for one board: its identity and its document.
type Board struct {
	Identity identity.BoardIdentity
	Report   report.ReportFile
}

// FailureMode counts how many boards failed a given test.
type FailureMode struct {
	Description string
	Count       int
}

// Summary is the yield for a set of boards.
type Summary struct {
	Boards       int
	Tested       int
	Passed       int
	Failed       int
	Percent      float64
	FailureModes []FailureMode
}

// Compute derives the yield over boards matching filter. A board counts by
// the verdict of its most recent test report; boards with no report are
// counted in Boards but not in Tested.
func Compute(boards []Board, filter Filter) Summary {
	var s Summary
	modes := make(map[string]int)

	for _, b := range boards {
		if !filter.Matches(b.Identity) {
			continue
		}
		s.Boards++

		latest, ok := b.Report.Latest()
		if !ok {
			continue
		}
		s.Tested++
		if latest.OverallStatus == report.Pass {
			s.Passed++
			continue
		}
		s.Failed++
		for _, r := range latest.TestResults {
			if r.Conclusion == report.Fail {
				modes[r.Description]++
			}
		}
	}

	if s.Tested > 0 {
		s.Percent = float64(s.Passed) / float64(s.Tested) * 100
	}
	s.FailureModes = pareto(modes)
	return s
}

// pareto orders failure modes by descending count, then by description.
func pareto(modes map[string]int) []FailureMode {
	out := make([]FailureMode, 0, len(modes))
	for desc, n := range modes {
		out = append(out, FailureMode{Description: desc, Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Description < out[j].Description
	})
	return out
}
