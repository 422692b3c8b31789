// Package scheduler decides which corpus entry gets mutated next. Schedulers
// keep no storage of their own; they are policies layered over a Corpus plus
// metadata attached to the testcases.
package scheduler

import (
	"errors"

	"fuzzbank/internal/corpus"
)

// ErrEmptyCorpus is returned by Next when there is nothing to schedule.
var ErrEmptyCorpus = errors.New("no enabled entries in corpus")

type Scheduler interface {
	// OnAdd is called right after a new testcase was inserted, so the
	// scheduler can attach its initial metadata (depth, handicap, score).
	OnAdd(c corpus.Corpus, id corpus.CorpusId) error
	// OnRemove is called after a testcase left the corpus, so weighting
	// structures can drop it.
	OnRemove(c corpus.Corpus, id corpus.CorpusId)
	// Next picks the id to mutate next and moves the corpus cursor to it.
	Next(c corpus.Corpus) (corpus.CorpusId, error)
}

// setCurrent moves the cursor and bumps the pick counter of the chosen entry.
func setCurrent(c corpus.Corpus, id corpus.CorpusId) error {
	cell, err := c.Get(id)
	if err != nil {
		return err
	}
	cell.WithMut(func(tc *corpus.Testcase) {
		tc.IncScheduledCount()
	})
	c.SetCurrent(id)
	return nil
}
