package corpus

import "sync/atomic"

// Cell is the shared, interior-mutable slot a testcase lives in. Access is
// runtime-checked: any number of readers, or exactly one writer, scoped to
// one logical step of the fuzzing loop. A conflicting borrow is a programming
// error and panics instead of corrupting state; there is no blocking and no
// cross-thread locking protocol.
type Cell struct {
	// borrow state: 0 free, n>0 reader count, -1 exclusive writer
	state atomic.Int32
	tc    *Testcase
}

const cellWriter = int32(-1)

func NewCell(tc *Testcase) *Cell {
	return &Cell{tc: tc}
}

// Borrow grants shared read access. The returned release func must be called
// when the logical step is over; calling it more than once is a no-op.
func (c *Cell) Borrow() (*Testcase, func()) {
	for {
		v := c.state.Load()
		if v == cellWriter {
			panic("corpus: testcase already mutably borrowed")
		}
		if c.state.CompareAndSwap(v, v+1) {
			break
		}
	}
	var released atomic.Bool
	return c.tc, func() {
		if released.CompareAndSwap(false, true) {
			c.state.Add(-1)
		}
	}
}

// BorrowMut grants exclusive write access. Panics if the cell is borrowed in
// any way.
func (c *Cell) BorrowMut() (*Testcase, func()) {
	if !c.state.CompareAndSwap(0, cellWriter) {
		panic("corpus: testcase already borrowed")
	}
	var released atomic.Bool
	return c.tc, func() {
		if released.CompareAndSwap(false, true) {
			c.state.Store(0)
		}
	}
}

// With runs f under a shared borrow.
func (c *Cell) With(f func(*Testcase)) {
	tc, release := c.Borrow()
	defer release()
	f(tc)
}

// WithMut runs f under an exclusive borrow.
func (c *Cell) WithMut(f func(*Testcase)) {
	tc, release := c.BorrowMut()
	defer release()
	f(tc)
}

// replace swaps the payload and returns the old one. Requires the cell to be
// unborrowed, like any other write.
func (c *Cell) replace(tc *Testcase) *Testcase {
	old, release := c.BorrowMut()
	c.tc = tc
	release()
	return old
}

// take moves the testcase out of the cell, leaving it unusable. Used by
// Remove to transfer ownership back to the caller.
func (c *Cell) take() *Testcase {
	tc, release := c.BorrowMut()
	c.tc = nil
	release()
	return tc
}
