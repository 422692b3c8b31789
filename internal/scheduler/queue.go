package scheduler

import "fuzzbank/internal/corpus"

// QueueScheduler walks enabled entries in insertion order, wrapping back to
// the first entry after the last one. The base policy every other scheduler
// here builds on.
type QueueScheduler struct{}

var _ Scheduler = (*QueueScheduler)(nil)

func NewQueueScheduler() *QueueScheduler {
	return &QueueScheduler{}
}

func (s *QueueScheduler) OnAdd(c corpus.Corpus, id corpus.CorpusId) error {
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
		tc.AddMetadata(&SchedulerMetadata{Depth: depth + 1})
	})
	return nil
}

func (s *QueueScheduler) OnRemove(c corpus.Corpus, id corpus.CorpusId) {}

func (s *QueueScheduler) Next(c corpus.Corpus) (corpus.CorpusId, error) {
	if c.Count() == 0 {
		return 0, ErrEmptyCorpus
	}

	id, ok := corpus.CorpusId(0), false
	if cur, hasCur := c.Current(); hasCur {
		id, ok = c.Next(cur)
	}
	if !ok {
		// no cursor yet, cursor gone, or end of queue: wrap to the oldest
		id, _ = c.First()
	}
	if err := setCurrent(c, id); err != nil {
		return 0, err
	}
	return id, nil
}
