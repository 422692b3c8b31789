package scheduler

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fuzzbank/internal/corpus"
)

func addEntry(t *testing.T, c corpus.Corpus, s Scheduler, input corpus.Input) corpus.CorpusId {
	t.Helper()
	id, err := c.Add(corpus.NewTestcase(input))
	require.NoError(t, err)
	require.NoError(t, s.OnAdd(c, id))
	return id
}

func TestQueueSchedulerEmptyCorpus(t *testing.T) {
	c := corpus.NewInMemoryCorpus(corpus.BackendLinked)
	s := NewQueueScheduler()

	_, err := s.Next(c)
	assert.ErrorIs(t, err, ErrEmptyCorpus)
}

func TestQueueSchedulerRoundRobin(t *testing.T) {
	c := corpus.NewInMemoryCorpus(corpus.BackendLinked)
	s := NewQueueScheduler()

	a := addEntry(t, c, s, corpus.Input{1})
	b := addEntry(t, c, s, corpus.Input{2})
	x := addEntry(t, c, s, corpus.Input{3})

	// insertion order, then wrap
	for _, want := range []corpus.CorpusId{a, b, x, a, b} {
		got, err := s.Next(c)
		require.NoError(t, err)
		assert.Equal(t, want, got)
		cur, ok := c.Current()
		assert.True(t, ok)
		assert.Equal(t, want, cur)
	}
}

func TestQueueSchedulerSkipsDisabled(t *testing.T) {
	c := corpus.NewInMemoryCorpus(corpus.BackendLinked)
	s := NewQueueScheduler()

	a := addEntry(t, c, s, corpus.Input{1})
	b := addEntry(t, c, s, corpus.Input{2})
	x := addEntry(t, c, s, corpus.Input{3})
	require.NoError(t, c.Disable(b))

	for _, want := range []corpus.CorpusId{a, x, a} {
		got, err := s.Next(c)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
}

func TestQueueSchedulerCursorGone(t *testing.T) {
	c := corpus.NewInMemoryCorpus(corpus.BackendLinked)
	s := NewQueueScheduler()

	a := addEntry(t, c, s, corpus.Input{1})
	b := addEntry(t, c, s, corpus.Input{2})

	got, err := s.Next(c)
	require.NoError(t, err)
	assert.Equal(t, a, got)

	// the scheduled entry is removed; the walk restarts from the head
	_, err = c.Remove(a)
	require.NoError(t, err)
	s.OnRemove(c, a)

	got, err = s.Next(c)
	require.NoError(t, err)
	assert.Equal(t, b, got)
}

func TestQueueSchedulerDepthChain(t *testing.T) {
	c := corpus.NewInMemoryCorpus(corpus.BackendLinked)
	s := NewQueueScheduler()

	a := addEntry(t, c, s, corpus.Input{1})
	assert.Equal(t, 1, depthOf(t, c, a))

	// children of the scheduled entry inherit depth+1
	_, err := s.Next(c)
	require.NoError(t, err)
	b := addEntry(t, c, s, corpus.Input{2})
	assert.Equal(t, 2, depthOf(t, c, b))
}

func TestSchedulingBumpsPickCount(t *testing.T) {
	c := corpus.NewInMemoryCorpus(corpus.BackendLinked)
	s := NewQueueScheduler()
	a := addEntry(t, c, s, corpus.Input{1})

	for range 3 {
		_, err := s.Next(c)
		require.NoError(t, err)
	}

	cell, err := c.Get(a)
	require.NoError(t, err)
	cell.With(func(tc *corpus.Testcase) {
		assert.Equal(t, 3, tc.ScheduledCount())
	})
}

func depthOf(t *testing.T, c corpus.Corpus, id corpus.CorpusId) int {
	t.Helper()
	cell, err := c.Get(id)
	require.NoError(t, err)
	depth := 0
	cell.With(func(tc *corpus.Testcase) {
		meta, ok := schedulerMetadata(tc)
		require.True(t, ok)
		depth = meta.Depth
	})
	return depth
}
