// Package corpus stores fuzzing testcases, assigns them stable ids and keeps
// them ordered for scheduling. Entries live in one of two partitions: enabled
// entries participate in scheduling, disabled ones are held but excluded.
package corpus

// Corpus is the capability contract the scheduler and the campaign loop are
// written against. Alternate backings (on-disk, hybrid) must satisfy the same
// contracts so callers stay storage-agnostic.
type Corpus interface {
	// Count returns the number of enabled entries.
	Count() int
	// CountDisabled returns the number of disabled entries.
	CountDisabled() int
	// CountAll returns the saturating sum of both partitions.
	CountAll() int

	// Add appends a testcase to the enabled partition. Always succeeds.
	Add(tc *Testcase) (CorpusId, error)
	// AddDisabled appends a testcase to the disabled partition.
	AddDisabled(tc *Testcase) (CorpusId, error)
	// Replace swaps the payload of an *enabled* entry and returns the old
	// one. Disabled entries are not replaceable through this call;
	// ErrKeyNotFound either way.
	Replace(id CorpusId, tc *Testcase) (*Testcase, error)
	// Remove takes an entry out of the corpus, checking enabled first and
	// then disabled, and transfers ownership to the caller.
	Remove(id CorpusId) (*Testcase, error)

	// Get returns the cell of an enabled entry.
	Get(id CorpusId) (*Cell, error)
	// GetFromAll checks enabled first, then disabled.
	GetFromAll(id CorpusId) (*Cell, error)

	// Current is the scheduler cursor. No validation that the id still
	// exists; callers must check.
	Current() (CorpusId, bool)
	SetCurrent(id CorpusId)
	ClearCurrent()

	// Navigation over the enabled partition only.
	Next(id CorpusId) (CorpusId, bool)
	Prev(id CorpusId) (CorpusId, bool)
	First() (CorpusId, bool)
	Last() (CorpusId, bool)
	// Nth indexes the enabled key sequence; out of range panics.
	Nth(n int) CorpusId
	// NthFromAll indexes enabled first, then disabled at offset n-Count().
	NthFromAll(n int) CorpusId

	// PeekFreeID previews the id the next Add will issue.
	PeekFreeID() CorpusId

	// Disable moves Enabled -> Disabled; Enable moves Disabled -> Enabled.
	// Both fail with ErrKeyNotFound when the entry is not in the source
	// partition; there is no silent no-op path. The moved entry is appended
	// to the end of the target partition's navigation order.
	Disable(id CorpusId) error
	Enable(id CorpusId) error
}
