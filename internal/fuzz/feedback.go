package fuzz

import (
	"fuzzbank/internal/corpus"
	"fuzzbank/internal/scheduler"
)

// CoverageFeedback keeps an input when its run touched a coverage index no
// retained input has touched before.
type CoverageFeedback struct {
	seen map[uint32]struct{}
}

var _ Feedback = (*CoverageFeedback)(nil)

func NewCoverageFeedback() *CoverageFeedback {
	return &CoverageFeedback{seen: make(map[uint32]struct{})}
}

func (f *CoverageFeedback) IsInteresting(obs *Observation) bool {
	if obs.ExitKind != ExitOk {
		// crashes and hangs go to the objective side, not the corpus
		return false
	}
	for _, idx := range obs.Coverage {
		if _, ok := f.seen[idx]; !ok {
			return true
		}
	}
	return false
}

// Append records the run on the retained testcase and marks its coverage as
// known, so later duplicates stop being interesting.
func (f *CoverageFeedback) Append(tc *corpus.Testcase, obs *Observation) {
	for _, idx := range obs.Coverage {
		f.seen[idx] = struct{}{}
	}
	tc.SetExecTime(obs.ExecTime)
	tc.AddMetadata(&scheduler.CoverageMetadata{Indexes: obs.Coverage})
}
