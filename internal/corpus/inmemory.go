package corpus

import "math"

// Backend selects the storage map implementation. A composition-time choice,
// invisible to callers of Corpus.
type Backend string

const (
	// BackendLinked is the hash map + doubly-linked list variant.
	BackendLinked Backend = "linked"
	// BackendBTree is the ordered-map variant.
	BackendBTree Backend = "btree"
)

// NewStorageMap builds the storage backend for the given name. Unknown names
// fall back to the linked variant.
func NewStorageMap(b Backend) StorageMap {
	if b == BackendBTree {
		return NewBTreeMap()
	}
	return NewLinkedMap()
}

// InMemoryCorpus keeps every testcase in memory. Simplest and fastest
// backing; progress is lost on exit.
type InMemoryCorpus struct {
	storage *TestcaseStorage

	current    CorpusId
	hasCurrent bool
}

var _ Corpus = (*InMemoryCorpus)(nil)

func NewInMemoryCorpus(backend Backend) *InMemoryCorpus {
	return &InMemoryCorpus{
		storage: newTestcaseStorage(func() StorageMap { return NewStorageMap(backend) }),
	}
}

func (c *InMemoryCorpus) Count() int {
	return c.storage.enabled.Count()
}

func (c *InMemoryCorpus) CountDisabled() int {
	return c.storage.disabled.Count()
}

func (c *InMemoryCorpus) CountAll() int {
	return saturatingAdd(c.storage.enabled.Count(), c.storage.disabled.Count())
}

func (c *InMemoryCorpus) Add(tc *Testcase) (CorpusId, error) {
	return c.storage.Insert(NewCell(tc)), nil
}

func (c *InMemoryCorpus) AddDisabled(tc *Testcase) (CorpusId, error) {
	return c.storage.InsertDisabled(NewCell(tc)), nil
}

func (c *InMemoryCorpus) Replace(id CorpusId, tc *Testcase) (*Testcase, error) {
	old, ok := c.storage.enabled.Replace(id, tc)
	if !ok {
		return nil, keyNotFound(id, "enabled testcases")
	}
	return old, nil
}

func (c *InMemoryCorpus) Remove(id CorpusId) (*Testcase, error) {
	cell, ok := c.storage.enabled.Remove(id)
	if !ok {
		cell, ok = c.storage.disabled.Remove(id)
	}
	if !ok {
		return nil, keyNotFound(id, "corpus")
	}
	return cell.take(), nil
}

func (c *InMemoryCorpus) Get(id CorpusId) (*Cell, error) {
	cell, ok := c.storage.enabled.Get(id)
	if !ok {
		return nil, keyNotFound(id, "enabled testcases")
	}
	return cell, nil
}

func (c *InMemoryCorpus) GetFromAll(id CorpusId) (*Cell, error) {
	cell, ok := c.storage.enabled.Get(id)
	if !ok {
		cell, ok = c.storage.disabled.Get(id)
	}
	if !ok {
		return nil, keyNotFound(id, "corpus")
	}
	return cell, nil
}

func (c *InMemoryCorpus) Current() (CorpusId, bool) {
	return c.current, c.hasCurrent
}

func (c *InMemoryCorpus) SetCurrent(id CorpusId) {
	c.current = id
	c.hasCurrent = true
}

func (c *InMemoryCorpus) ClearCurrent() {
	c.current = noID
	c.hasCurrent = false
}

func (c *InMemoryCorpus) Next(id CorpusId) (CorpusId, bool) {
	return c.storage.enabled.Next(id)
}

func (c *InMemoryCorpus) Prev(id CorpusId) (CorpusId, bool) {
	return c.storage.enabled.Prev(id)
}

func (c *InMemoryCorpus) First() (CorpusId, bool) {
	return c.storage.enabled.First()
}

func (c *InMemoryCorpus) Last() (CorpusId, bool) {
	return c.storage.enabled.Last()
}

func (c *InMemoryCorpus) Nth(n int) CorpusId {
	return c.storage.enabled.Nth(n)
}

func (c *InMemoryCorpus) NthFromAll(n int) CorpusId {
	enabled := c.Count()
	if n >= enabled {
		return c.storage.disabled.Nth(n - enabled)
	}
	return c.storage.enabled.Nth(n)
}

func (c *InMemoryCorpus) PeekFreeID() CorpusId {
	return c.storage.PeekFreeID()
}

func (c *InMemoryCorpus) Disable(id CorpusId) error {
	cell, ok := c.storage.enabled.Remove(id)
	if !ok {
		return keyNotFound(id, "enabled testcases")
	}
	return c.storage.insertWithID(cell, true, id)
}

func (c *InMemoryCorpus) Enable(id CorpusId) error {
	cell, ok := c.storage.disabled.Remove(id)
	if !ok {
		return keyNotFound(id, "disabled testcases")
	}
	return c.storage.insertWithID(cell, false, id)
}

func saturatingAdd(a, b int) int {
	if a > math.MaxInt-b {
		return math.MaxInt
	}
	return a + b
}
