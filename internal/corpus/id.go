package corpus

import "fmt"

// CorpusId is the stable handle of one testcase inside a corpus instance.
// Ids are issued monotonically and never reused, so they are totally ordered
// and safe to compare across enable/disable moves.
type CorpusId int

// noID marks an absent link; real ids are always non-negative.
const noID CorpusId = -1

func (id CorpusId) String() string {
	return fmt.Sprintf("CorpusId(%d)", int(id))
}

// Index converts the id to a plain index for array-style addressing.
func (id CorpusId) Index() int {
	return int(id)
}
