package corpus

import "slices"

// StorageMap is an insertion-ordered mapping from CorpusId to a testcase
// cell with bidirectional navigation. Two interchangeable implementations
// exist: a hash map threaded with a doubly-linked id chain (O(1) navigation)
// and an ordered map keyed by id (O(log n) navigation, valid only because
// ids are issued monotonically and never reissued). Both must answer every
// query identically for identical operation histories.
type StorageMap interface {
	// Get returns the cell for id, without side effects.
	Get(id CorpusId) (*Cell, bool)
	// Replace swaps the payload at id, preserving position and links.
	// Returns false if id is absent.
	Replace(id CorpusId, tc *Testcase) (*Testcase, bool)
	// Remove unlinks id and returns its cell, or false if absent.
	Remove(id CorpusId) (*Cell, bool)
	// Next and Prev return the adjacent id in insertion order, or false at
	// the ends or when id is absent.
	Next(id CorpusId) (CorpusId, bool)
	Prev(id CorpusId) (CorpusId, bool)
	// First and Last return the oldest/newest surviving id.
	First() (CorpusId, bool)
	Last() (CorpusId, bool)
	Count() int
	// Nth indexes the sorted key sequence. Out of range is a caller
	// contract violation and panics.
	Nth(n int) CorpusId
	// Keys returns the sorted ids. The slice is shared; callers must not
	// mutate it.
	Keys() []CorpusId

	// append inserts id at the end of the navigation order (the ordered
	// variant places it by key order instead, which is the same thing for
	// freshly issued ids). The id must not be present already;
	// TestcaseStorage guarantees that.
	append(id CorpusId, cell *Cell)
}

// insertKey keeps a sorted key slice via binary search. Idempotent.
func insertKey(keys []CorpusId, id CorpusId) []CorpusId {
	idx, found := slices.BinarySearch(keys, id)
	if found {
		return keys
	}
	return slices.Insert(keys, idx, id)
}

// removeKey is the inverse of insertKey. Idempotent.
func removeKey(keys []CorpusId, id CorpusId) []CorpusId {
	idx, found := slices.BinarySearch(keys, id)
	if !found {
		return keys
	}
	return slices.Delete(keys, idx, idx+1)
}

// TestcaseStorage owns the enabled and disabled partitions plus the single
// progressive id counter that keeps ids unique across both.
type TestcaseStorage struct {
	enabled  StorageMap
	disabled StorageMap

	// next id to issue; always greater than every id ever issued
	progressiveID CorpusId
}

func newTestcaseStorage(newMap func() StorageMap) *TestcaseStorage {
	return &TestcaseStorage{
		enabled:  newMap(),
		disabled: newMap(),
	}
}

// Insert stores the cell in the enabled partition under a fresh id.
func (s *TestcaseStorage) Insert(cell *Cell) CorpusId {
	return s.insert(cell, false)
}

// InsertDisabled stores the cell in the disabled partition under a fresh id.
func (s *TestcaseStorage) InsertDisabled(cell *Cell) CorpusId {
	return s.insert(cell, true)
}

func (s *TestcaseStorage) insert(cell *Cell, disabled bool) CorpusId {
	id := s.progressiveID
	s.progressiveID++
	s.target(disabled).append(id, cell)
	return id
}

// insertWithID reinserts a removed cell under its original id, appending it
// to the end of the target partition's navigation order. Rejects ids the
// counter has not issued yet; that would be id time travel.
func (s *TestcaseStorage) insertWithID(cell *Cell, disabled bool, id CorpusId) error {
	if id >= s.progressiveID {
		return illegalState("reinserting a testcase with an id not issued yet")
	}
	s.target(disabled).append(id, cell)
	return nil
}

func (s *TestcaseStorage) target(disabled bool) StorageMap {
	if disabled {
		return s.disabled
	}
	return s.enabled
}

// PeekFreeID returns the id the next Insert will issue, without mutating
// state. Collaborators use it to pre-compute file names before insertion.
func (s *TestcaseStorage) PeekFreeID() CorpusId {
	return s.progressiveID
}

// Enabled exposes the enabled partition for navigation.
func (s *TestcaseStorage) Enabled() StorageMap { return s.enabled }

// Disabled exposes the disabled partition.
func (s *TestcaseStorage) Disabled() StorageMap { return s.disabled }
