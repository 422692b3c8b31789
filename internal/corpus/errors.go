package corpus

import (
	"errors"
	"fmt"
)

// ErrKeyNotFound is returned when an id is absent from the partition(s) an
// operation looks at. It is always recoverable; the caller decides whether a
// missing testcase is fatal or ignorable.
var ErrKeyNotFound = errors.New("key not found")

// ErrIllegalState signals an internal invariant violation, e.g. reinserting a
// testcase under an id the progressive counter has not issued yet. It points
// at a bug and should be surfaced, not retried.
var ErrIllegalState = errors.New("illegal state")

func keyNotFound(id CorpusId, where string) error {
	return fmt.Errorf("%w: %v not found in %s", ErrKeyNotFound, id, where)
}

func illegalState(msg string) error {
	return fmt.Errorf("%w: %s", ErrIllegalState, msg)
}
