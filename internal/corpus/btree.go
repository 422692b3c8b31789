package corpus

import "github.com/google/btree"

// btreeMap is the ordered-map StorageMap: a B-tree keyed by id, no explicit
// links. Navigation order is inferred from key order, which is a valid
// substitute for insertion order only because ids grow monotonically and an
// entry is never reinserted under a smaller id. Less memory than linkedMap,
// O(log n) navigation.
type btreeMap struct {
	tree *btree.BTreeG[btreeEntry]
	keys []CorpusId
}

type btreeEntry struct {
	id   CorpusId
	cell *Cell
}

func btreeEntryLess(a, b btreeEntry) bool {
	return a.id < b.id
}

// NewBTreeMap returns the ordered-map storage backend.
func NewBTreeMap() StorageMap {
	return &btreeMap{
		tree: btree.NewG(2, btreeEntryLess),
	}
}

func (m *btreeMap) append(id CorpusId, cell *Cell) {
	m.keys = insertKey(m.keys, id)
	m.tree.ReplaceOrInsert(btreeEntry{id: id, cell: cell})
}

func (m *btreeMap) Get(id CorpusId) (*Cell, bool) {
	entry, ok := m.tree.Get(btreeEntry{id: id})
	if !ok {
		return nil, false
	}
	return entry.cell, true
}

func (m *btreeMap) Replace(id CorpusId, tc *Testcase) (*Testcase, bool) {
	entry, ok := m.tree.Get(btreeEntry{id: id})
	if !ok {
		return nil, false
	}
	return entry.cell.replace(tc), true
}

func (m *btreeMap) Remove(id CorpusId) (*Cell, bool) {
	entry, ok := m.tree.Delete(btreeEntry{id: id})
	if !ok {
		return nil, false
	}
	m.keys = removeKey(m.keys, id)
	return entry.cell, true
}

func (m *btreeMap) Next(id CorpusId) (CorpusId, bool) {
	if _, ok := m.tree.Get(btreeEntry{id: id}); !ok {
		return noID, false
	}
	next := noID
	m.tree.AscendGreaterOrEqual(btreeEntry{id: id}, func(e btreeEntry) bool {
		if e.id == id {
			return true
		}
		next = e.id
		return false
	})
	if next == noID {
		return noID, false
	}
	return next, true
}

func (m *btreeMap) Prev(id CorpusId) (CorpusId, bool) {
	if _, ok := m.tree.Get(btreeEntry{id: id}); !ok {
		return noID, false
	}
	prev := noID
	m.tree.DescendLessOrEqual(btreeEntry{id: id}, func(e btreeEntry) bool {
		if e.id == id {
			return true
		}
		prev = e.id
		return false
	})
	if prev == noID {
		return noID, false
	}
	return prev, true
}

func (m *btreeMap) First() (CorpusId, bool) {
	entry, ok := m.tree.Min()
	if !ok {
		return noID, false
	}
	return entry.id, true
}

func (m *btreeMap) Last() (CorpusId, bool) {
	entry, ok := m.tree.Max()
	if !ok {
		return noID, false
	}
	return entry.id, true
}

func (m *btreeMap) Count() int {
	return m.tree.Len()
}

func (m *btreeMap) Nth(n int) CorpusId {
	return m.keys[n]
}

func (m *btreeMap) Keys() []CorpusId {
	return m.keys
}
