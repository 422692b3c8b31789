package scheduler

import (
	"math/rand"
	"sort"
	"time"

	"go.uber.org/zap"

	"fuzzbank/internal/corpus"
)

// PowerQueueScheduler samples entries proportionally to their perf score
// instead of walking the queue round-robin. The cumulative weight table is
// rebuilt lazily: a generation counter is bumped on every add/remove and the
// table is recomputed on the first Next after that, or when the enabled count
// drifted (enable/disable happens without scheduler hooks).
type PowerQueueScheduler struct {
	logger *zap.Logger
	rng    *rand.Rand

	// running averages over everything ever added, for scoring
	sumExec  time.Duration
	sumEdges int
	added    int

	queueCycles     int
	picksSinceCycle int

	table      []cumEntry
	total      float64
	generation uint64
	builtGen   uint64
	builtCount int
}

type cumEntry struct {
	id  corpus.CorpusId
	cum float64
}

var _ Scheduler = (*PowerQueueScheduler)(nil)

func NewPowerQueueScheduler(logger *zap.Logger, seed int64) *PowerQueueScheduler {
	return &PowerQueueScheduler{
		logger:     logger,
		rng:        rand.New(rand.NewSource(seed)),
		generation: 1,
	}
}

func (s *PowerQueueScheduler) OnAdd(c corpus.Corpus, id corpus.CorpusId) error {
	depth := 0
	if cur, ok := c.Current(); ok {
		if cell, err := c.Get(cur); err == nil {
			cell.With(func(tc *corpus.Testcase) {
				if meta, ok := schedulerMetadata(tc); ok {
					depth = meta.Depth
				}
			})
		}
	}

	cell, err := c.Get(id)
	if err != nil {
		return err
	}
	cell.WithMut(func(tc *corpus.Testcase) {
		meta := &SchedulerMetadata{
			Depth:    depth + 1,
			Handicap: s.queueCycles,
		}
		if execTime, ok := tc.ExecTime(); ok {
			s.sumExec += execTime
		}
		if cov, ok := coverageMetadata(tc); ok {
			s.sumEdges += len(cov.Indexes)
		}
		s.added++
		meta.PerfScore = perfScore(tc, meta, s.avgExec(), s.avgEdges())
		tc.AddMetadata(meta)
	})
	s.generation++
	return nil
}

func (s *PowerQueueScheduler) OnRemove(c corpus.Corpus, id corpus.CorpusId) {
	s.generation++
}

func (s *PowerQueueScheduler) Next(c corpus.Corpus) (corpus.CorpusId, error) {
	if c.Count() == 0 {
		return 0, ErrEmptyCorpus
	}
	if s.builtGen != s.generation || s.builtCount != c.Count() {
		s.rebuild(c)
	}

	id := s.sample(c)
	if err := setCurrent(c, id); err != nil {
		return 0, err
	}

	s.picksSinceCycle++
	if s.picksSinceCycle >= c.Count() {
		s.picksSinceCycle = 0
		s.queueCycles++
		s.logger.Debug("queue cycle completed", zap.Int("cycles", s.queueCycles))
	}
	return id, nil
}

// rebuild walks the enabled partition in navigation order and recomputes the
// cumulative weight table. Entries the queue scheduler never scored weigh in
// at the base score.
func (s *PowerQueueScheduler) rebuild(c corpus.Corpus) {
	s.table = s.table[:0]
	s.total = 0

	for id, ok := c.First(); ok; id, ok = c.Next(id) {
		score := baseScore
		if cell, err := c.Get(id); err == nil {
			cell.With(func(tc *corpus.Testcase) {
				if meta, ok := schedulerMetadata(tc); ok && meta.PerfScore > 0 {
					score = meta.PerfScore
				}
			})
		}
		s.total += score
		s.table = append(s.table, cumEntry{id: id, cum: s.total})
	}

	s.builtGen = s.generation
	s.builtCount = len(s.table)
	s.logger.Debug("rebuilt weight table",
		zap.Int("entries", len(s.table)),
		zap.Float64("total_weight", s.total))
}

// sample draws proportionally to perf score. Equal draws resolve to the
// entry with the lowest id because the table is in navigation order and the
// search takes the first bucket whose cumulative weight covers the draw.
func (s *PowerQueueScheduler) sample(c corpus.Corpus) corpus.CorpusId {
	if len(s.table) == 0 || s.total <= 0 {
		id, _ := c.First()
		return id
	}
	r := s.rng.Float64() * s.total
	idx := sort.Search(len(s.table), func(i int) bool {
		return s.table[i].cum > r
	})
	if idx >= len(s.table) {
		idx = len(s.table) - 1
	}
	return s.table[idx].id
}

func (s *PowerQueueScheduler) avgExec() time.Duration {
	if s.added == 0 {
		return 0
	}
	return s.sumExec / time.Duration(s.added)
}

func (s *PowerQueueScheduler) avgEdges() float64 {
	if s.added == 0 {
		return 0
	}
	return float64(s.sumEdges) / float64(s.added)
}
