package corpus

// linkedItem wraps a cell plus the sibling ids forming a doubly-linked chain
// over the hash map. The chain head is first and the tail is last; removing
// an endpoint updates the sentinels, removing a middle node splices the
// neighbors.
type linkedItem struct {
	cell *Cell
	prev CorpusId
	next CorpusId
}

// linkedMap is the O(1)-navigation StorageMap: hash map plus an explicit
// doubly-linked list of ids in insertion order.
type linkedMap struct {
	items map[CorpusId]*linkedItem
	keys  []CorpusId
	first CorpusId
	last  CorpusId
}

// NewLinkedMap returns the hash-map-plus-linked-list storage backend.
func NewLinkedMap() StorageMap {
	return &linkedMap{
		items: make(map[CorpusId]*linkedItem),
		first: noID,
		last:  noID,
	}
}

func (m *linkedMap) append(id CorpusId, cell *Cell) {
	item := &linkedItem{cell: cell, prev: noID, next: noID}
	if m.last != noID {
		m.items[m.last].next = id
		item.prev = m.last
	}
	if m.first == noID {
		m.first = id
	}
	m.last = id
	m.keys = insertKey(m.keys, id)
	m.items[id] = item
}

func (m *linkedMap) Get(id CorpusId) (*Cell, bool) {
	item, ok := m.items[id]
	if !ok {
		return nil, false
	}
	return item.cell, true
}

func (m *linkedMap) Replace(id CorpusId, tc *Testcase) (*Testcase, bool) {
	item, ok := m.items[id]
	if !ok {
		return nil, false
	}
	return item.cell.replace(tc), true
}

func (m *linkedMap) Remove(id CorpusId) (*Cell, bool) {
	item, ok := m.items[id]
	if !ok {
		return nil, false
	}
	delete(m.items, id)
	m.keys = removeKey(m.keys, id)
	if item.prev != noID {
		m.items[item.prev].next = item.next
	} else {
		m.first = item.next
	}
	if item.next != noID {
		m.items[item.next].prev = item.prev
	} else {
		m.last = item.prev
	}
	return item.cell, true
}

func (m *linkedMap) Next(id CorpusId) (CorpusId, bool) {
	item, ok := m.items[id]
	if !ok || item.next == noID {
		return noID, false
	}
	return item.next, true
}

func (m *linkedMap) Prev(id CorpusId) (CorpusId, bool) {
	item, ok := m.items[id]
	if !ok || item.prev == noID {
		return noID, false
	}
	return item.prev, true
}

func (m *linkedMap) First() (CorpusId, bool) {
	if m.first == noID {
		return noID, false
	}
	return m.first, true
}

func (m *linkedMap) Last() (CorpusId, bool) {
	if m.last == noID {
		return noID, false
	}
	return m.last, true
}

func (m *linkedMap) Count() int {
	return len(m.items)
}

func (m *linkedMap) Nth(n int) CorpusId {
	return m.keys[n]
}

func (m *linkedMap) Keys() []CorpusId {
	return m.keys
}
