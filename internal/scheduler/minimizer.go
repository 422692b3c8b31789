package scheduler

import (
	"math/rand"

	"fuzzbank/internal/corpus"
)

// skipNonFavoredProb is the chance to skip an entry that is not top-rated
// for any coverage index when favored alternatives exist.
const skipNonFavoredProb = 0.95

// MinimizerScheduler biases any base scheduler toward small, fast inputs
// that keep covering the indexes they are the best known witness for. It is
// a secondary selection pass: the base policy proposes ids and non-favored
// ones are probabilistically skipped, never replaced outright.
type MinimizerScheduler struct {
	base Scheduler
	rng  *rand.Rand

	// best known entry per coverage index, by favor factor (len * exec ms,
	// lower is better; ties keep the older id)
	topRated map[uint32]corpus.CorpusId
	factors  map[corpus.CorpusId]float64
	// refcount of indexes an id is top rated for
	favored map[corpus.CorpusId]int
}

var _ Scheduler = (*MinimizerScheduler)(nil)

func NewMinimizerScheduler(base Scheduler, seed int64) *MinimizerScheduler {
	return &MinimizerScheduler{
		base:     base,
		rng:      rand.New(rand.NewSource(seed)),
		topRated: make(map[uint32]corpus.CorpusId),
		factors:  make(map[corpus.CorpusId]float64),
		favored:  make(map[corpus.CorpusId]int),
	}
}

func (s *MinimizerScheduler) OnAdd(c corpus.Corpus, id corpus.CorpusId) error {
	if err := s.base.OnAdd(c, id); err != nil {
		return err
	}

	cell, err := c.Get(id)
	if err != nil {
		return err
	}

	var indexes []uint32
	factor := 0.0
	cell.With(func(tc *corpus.Testcase) {
		factor = favorFactor(tc)
		if cov, ok := coverageMetadata(tc); ok {
			indexes = cov.Indexes
		}
	})
	s.factors[id] = factor

	for _, idx := range indexes {
		old, claimed := s.topRated[idx]
		if claimed && s.factors[old] <= factor {
			continue
		}
		if claimed {
			s.release(old)
		}
		s.topRated[idx] = id
		s.favored[id]++
	}
	return nil
}

func (s *MinimizerScheduler) OnRemove(c corpus.Corpus, id corpus.CorpusId) {
	for idx, owner := range s.topRated {
		if owner == id {
			delete(s.topRated, idx)
		}
	}
	delete(s.favored, id)
	delete(s.factors, id)
	s.base.OnRemove(c, id)
}

func (s *MinimizerScheduler) Next(c corpus.Corpus) (corpus.CorpusId, error) {
	id, err := s.base.Next(c)
	if err != nil {
		return 0, err
	}
	// bounded walk so a fully non-favored corpus still terminates
	for range c.Count() {
		if len(s.favored) == 0 || s.favored[id] > 0 {
			break
		}
		if s.rng.Float64() >= skipNonFavoredProb {
			break
		}
		id, err = s.base.Next(c)
		if err != nil {
			return 0, err
		}
	}
	return id, nil
}

func (s *MinimizerScheduler) release(id corpus.CorpusId) {
	if n := s.favored[id]; n > 1 {
		s.favored[id] = n - 1
	} else {
		delete(s.favored, id)
	}
}

// favorFactor rates an entry for minimization: input length times execution
// milliseconds. Smaller and faster wins the coverage index.
func favorFactor(tc *corpus.Testcase) float64 {
	factor := float64(len(tc.Input()))
	if execTime, ok := tc.ExecTime(); ok {
		ms := float64(execTime.Milliseconds())
		if ms < 1 {
			ms = 1
		}
		factor *= ms
	}
	return factor
}
