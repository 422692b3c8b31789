package corpus

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var backendsUnderTest = []Backend{BackendLinked, BackendBTree}

// setupCorpus adds three testcases with distinct byte patterns
// ([1,2,3],[2,3,4],[3,4,5]) and returns their ids.
func setupCorpus(t *testing.T, backend Backend) (*InMemoryCorpus, []CorpusId) {
	t.Helper()
	c := NewInMemoryCorpus(backend)
	var ids []CorpusId
	for i := byte(0); i < 3; i++ {
		id, err := c.Add(NewTestcase(Input{i + 1, i + 2, i + 3}))
		require.NoError(t, err)
		ids = append(ids, id)
	}
	return c, ids
}

func assertCounts(t *testing.T, c Corpus, enabled, disabled int) {
	t.Helper()
	assert.Equal(t, enabled, c.Count(), "wrong number of enabled testcases")
	assert.Equal(t, disabled, c.CountDisabled(), "wrong number of disabled testcases")
	assert.Equal(t, enabled+disabled, c.CountAll(), "wrong total number of testcases")
}

func forEachBackend(t *testing.T, f func(t *testing.T, backend Backend)) {
	for _, backend := range backendsUnderTest {
		t.Run(string(backend), func(t *testing.T) {
			f(t, backend)
		})
	}
}

func TestCorpusBasicOperations(t *testing.T) {
	forEachBackend(t, func(t *testing.T, backend Backend) {
		c, ids := setupCorpus(t, backend)
		assertCounts(t, c, 3, 0)

		for _, id := range ids {
			_, err := c.Get(id)
			assert.NoError(t, err)
			_, err = c.GetFromAll(id)
			assert.NoError(t, err)
		}

		invalid := CorpusId(999)
		_, err := c.Get(invalid)
		assert.ErrorIs(t, err, ErrKeyNotFound)
		_, err = c.GetFromAll(invalid)
		assert.ErrorIs(t, err, ErrKeyNotFound)
	})
}

func TestCorpusDisableEnable(t *testing.T) {
	forEachBackend(t, func(t *testing.T, backend Backend) {
		c, ids := setupCorpus(t, backend)
		invalid := CorpusId(999)

		require.NoError(t, c.Disable(ids[1]))
		assertCounts(t, c, 2, 1)

		// disabled testcase is only reachable through GetFromAll
		_, err := c.Get(ids[1])
		assert.ErrorIs(t, err, ErrKeyNotFound)
		_, err = c.GetFromAll(ids[1])
		assert.NoError(t, err)

		// the others are untouched
		_, err = c.Get(ids[0])
		assert.NoError(t, err)
		_, err = c.Get(ids[2])
		assert.NoError(t, err)

		require.NoError(t, c.Enable(ids[1]))
		assertCounts(t, c, 3, 0)
		for _, id := range ids {
			_, err := c.Get(id)
			assert.NoError(t, err)
		}

		// strict state machine: no silent no-op path
		require.NoError(t, c.Disable(ids[1]))
		assert.ErrorIs(t, c.Disable(ids[1]), ErrKeyNotFound, "double disable must fail")
		assert.ErrorIs(t, c.Enable(ids[0]), ErrKeyNotFound, "enabling an enabled id must fail")
		assert.ErrorIs(t, c.Disable(invalid), ErrKeyNotFound)
		assert.ErrorIs(t, c.Enable(invalid), ErrKeyNotFound)
	})
}

func TestCorpusOperationsAfterDisabled(t *testing.T) {
	forEachBackend(t, func(t *testing.T, backend Backend) {
		c, ids := setupCorpus(t, backend)

		require.NoError(t, c.Disable(ids[0]))
		assertCounts(t, c, 2, 1)

		// Remove finds disabled entries too and hands back ownership
		removed, err := c.Remove(ids[0])
		require.NoError(t, err)
		assert.Equal(t, Input{1, 2, 3}, removed.Input())
		assertCounts(t, c, 2, 0)

		removed, err = c.Remove(ids[1])
		require.NoError(t, err)
		assert.Equal(t, Input{2, 3, 4}, removed.Input())
		assertCounts(t, c, 1, 0)

		for _, id := range ids[:2] {
			_, err := c.Get(id)
			assert.ErrorIs(t, err, ErrKeyNotFound)
			_, err = c.GetFromAll(id)
			assert.ErrorIs(t, err, ErrKeyNotFound)
		}
		_, err = c.Get(ids[2])
		assert.NoError(t, err)
	})
}

func TestCorpusRemoveRoundTrip(t *testing.T) {
	forEachBackend(t, func(t *testing.T, backend Backend) {
		c := NewInMemoryCorpus(backend)
		id, err := c.Add(NewTestcase(Input{0xde, 0xad}))
		require.NoError(t, err)

		tc, err := c.Remove(id)
		require.NoError(t, err)
		assert.Equal(t, Input{0xde, 0xad}, tc.Input())

		_, err = c.Get(id)
		assert.ErrorIs(t, err, ErrKeyNotFound)
		_, err = c.GetFromAll(id)
		assert.ErrorIs(t, err, ErrKeyNotFound)
		_, err = c.Remove(id)
		assert.ErrorIs(t, err, ErrKeyNotFound)
	})
}

func TestCorpusMonotonicIds(t *testing.T) {
	forEachBackend(t, func(t *testing.T, backend Backend) {
		c := NewInMemoryCorpus(backend)

		free := c.PeekFreeID()
		id, err := c.Add(NewTestcase(Input{1}))
		require.NoError(t, err)
		assert.Equal(t, free, id, "peeked id must match the issued one")

		// the counter is shared between partitions
		id2, err := c.AddDisabled(NewTestcase(Input{2}))
		require.NoError(t, err)
		assert.Greater(t, id2, id)

		// removal never frees an id for reuse
		_, err = c.Remove(id2)
		require.NoError(t, err)
		id3, err := c.Add(NewTestcase(Input{3}))
		require.NoError(t, err)
		assert.Greater(t, id3, id2)
	})
}

func TestCorpusReplace(t *testing.T) {
	forEachBackend(t, func(t *testing.T, backend Backend) {
		c, ids := setupCorpus(t, backend)

		old, err := c.Replace(ids[0], NewTestcase(Input{9, 9, 9}))
		require.NoError(t, err)
		assert.Equal(t, Input{1, 2, 3}, old.Input())

		cell, err := c.Get(ids[0])
		require.NoError(t, err)
		cell.With(func(tc *Testcase) {
			assert.Equal(t, Input{9, 9, 9}, tc.Input())
		})

		_, err = c.Replace(CorpusId(999), NewTestcase(Input{0}))
		assert.ErrorIs(t, err, ErrKeyNotFound)
	})
}

// Replace only targets the enabled partition; a disabled entry is not
// replaceable through it. Intentional asymmetry, pinned here.
func TestReplaceDisabledRejected(t *testing.T) {
	forEachBackend(t, func(t *testing.T, backend Backend) {
		c, ids := setupCorpus(t, backend)
		require.NoError(t, c.Disable(ids[1]))

		_, err := c.Replace(ids[1], NewTestcase(Input{7}))
		assert.ErrorIs(t, err, ErrKeyNotFound)

		// still reachable and unchanged through the all-partitions path
		cell, err := c.GetFromAll(ids[1])
		require.NoError(t, err)
		cell.With(func(tc *Testcase) {
			assert.Equal(t, Input{2, 3, 4}, tc.Input())
		})
	})
}

func TestCorpusCurrentCursor(t *testing.T) {
	forEachBackend(t, func(t *testing.T, backend Backend) {
		c, ids := setupCorpus(t, backend)

		_, ok := c.Current()
		assert.False(t, ok)

		c.SetCurrent(ids[2])
		cur, ok := c.Current()
		assert.True(t, ok)
		assert.Equal(t, ids[2], cur)

		// the cursor is not validated against the corpus
		_, err := c.Remove(ids[2])
		require.NoError(t, err)
		cur, ok = c.Current()
		assert.True(t, ok)
		assert.Equal(t, ids[2], cur)

		c.ClearCurrent()
		_, ok = c.Current()
		assert.False(t, ok)
	})
}

func TestCorpusNavigation(t *testing.T) {
	forEachBackend(t, func(t *testing.T, backend Backend) {
		c, ids := setupCorpus(t, backend)

		first, ok := c.First()
		assert.True(t, ok)
		assert.Equal(t, ids[0], first)
		last, ok := c.Last()
		assert.True(t, ok)
		assert.Equal(t, ids[2], last)

		next, ok := c.Next(ids[0])
		assert.True(t, ok)
		assert.Equal(t, ids[1], next)
		prev, ok := c.Prev(ids[2])
		assert.True(t, ok)
		assert.Equal(t, ids[1], prev)

		_, ok = c.Next(ids[2])
		assert.False(t, ok)
		_, ok = c.Prev(ids[0])
		assert.False(t, ok)
		_, ok = c.Next(CorpusId(999))
		assert.False(t, ok)

		// navigation only sees the enabled partition
		require.NoError(t, c.Disable(ids[1]))
		next, ok = c.Next(ids[0])
		assert.True(t, ok)
		assert.Equal(t, ids[2], next)
	})
}

func TestCorpusNth(t *testing.T) {
	forEachBackend(t, func(t *testing.T, backend Backend) {
		c, ids := setupCorpus(t, backend)

		assert.Equal(t, ids[0], c.Nth(0))
		assert.Equal(t, ids[2], c.Nth(2))

		require.NoError(t, c.Disable(ids[1]))
		// enabled keys first, then disabled keys at the offset
		assert.Equal(t, ids[0], c.NthFromAll(0))
		assert.Equal(t, ids[2], c.NthFromAll(1))
		assert.Equal(t, ids[1], c.NthFromAll(2))

		// out of range is a caller contract violation
		assert.Panics(t, func() { c.Nth(5) })
		assert.Panics(t, func() { c.NthFromAll(5) })
	})
}

// Moving an id between partitions appends it to the target's navigation
// order; re-enabling does not restore the original position. Scheduler
// fairness depends on this, so it is pinned for the linked backend.
func TestNavigationOrderAfterEnableCycle(t *testing.T) {
	c, ids := setupCorpus(t, BackendLinked)
	a, b, x := ids[0], ids[1], ids[2]

	require.NoError(t, c.Disable(b))
	assert.Equal(t, []CorpusId{a, x}, enabledOrder(c))

	require.NoError(t, c.Enable(b))
	assert.Equal(t, []CorpusId{a, x, b}, enabledOrder(c), "re-enabled entry must be appended")

	first, _ := c.First()
	last, _ := c.Last()
	assert.Equal(t, a, first)
	assert.Equal(t, b, last)
}

// The ordered backend infers navigation from key order, so after an enable
// cycle the old id sorts back into its numeric position. Known divergence
// between the two backends, inherent to keying by id.
func TestBTreeNavigationOrdersByKey(t *testing.T) {
	c, ids := setupCorpus(t, BackendBTree)
	a, b, x := ids[0], ids[1], ids[2]

	require.NoError(t, c.Disable(b))
	require.NoError(t, c.Enable(b))
	assert.Equal(t, []CorpusId{a, b, x}, enabledOrder(c))
}

func enabledOrder(c Corpus) []CorpusId {
	var order []CorpusId
	for id, ok := c.First(); ok; id, ok = c.Next(id) {
		order = append(order, id)
	}
	return order
}

// Walking backwards from Last must visit the same ids as walking forward.
func TestNavigationSymmetry(t *testing.T) {
	forEachBackend(t, func(t *testing.T, backend Backend) {
		c, _ := setupCorpus(t, backend)
		forward := enabledOrder(c)

		var backward []CorpusId
		for id, ok := c.Last(); ok; id, ok = c.Prev(id) {
			backward = append([]CorpusId{id}, backward...)
		}
		assert.Equal(t, forward, backward)
	})
}

func TestEmptyCorpus(t *testing.T) {
	forEachBackend(t, func(t *testing.T, backend Backend) {
		c := NewInMemoryCorpus(backend)
		assertCounts(t, c, 0, 0)

		_, ok := c.First()
		assert.False(t, ok)
		_, ok = c.Last()
		assert.False(t, ok)
		assert.Equal(t, CorpusId(0), c.PeekFreeID())
	})
}
