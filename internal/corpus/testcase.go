package corpus

import "time"

// Input is one fuzzing payload. The corpus treats it as opaque bytes.
type Input []byte

// Clone returns an independent copy of the input.
func (in Input) Clone() Input {
	out := make(Input, len(in))
	copy(out, in)
	return out
}

// Metadata is an open-ended piece of state attached to a testcase by
// feedback or scheduling layers. One instance per kind is kept.
type Metadata interface {
	MetadataKind() string
}

// Testcase is one fuzzing input plus everything the campaign has learned
// about it. The storage map owns it once inserted; callers get it back only
// through Remove or Replace.
type Testcase struct {
	input    Input
	metadata map[string]Metadata

	// cached fields, filled in lazily by the executor/feedback cycle
	execTime    time.Duration
	hasExecTime bool
	filename    string

	scheduledCount int
}

func NewTestcase(input Input) *Testcase {
	return &Testcase{
		input:    input,
		metadata: make(map[string]Metadata),
	}
}

// NewTestcaseWithFilename builds a testcase whose input is also persisted on
// disk by a collaborator (the corpus itself never touches the filesystem).
func NewTestcaseWithFilename(input Input, filename string) *Testcase {
	tc := NewTestcase(input)
	tc.filename = filename
	return tc
}

func (tc *Testcase) Input() Input {
	return tc.input
}

func (tc *Testcase) SetInput(input Input) {
	tc.input = input
}

// Metadata returns the attached metadata of the given kind, if any.
func (tc *Testcase) Metadata(kind string) (Metadata, bool) {
	m, ok := tc.metadata[kind]
	return m, ok
}

// AddMetadata attaches m, replacing any previous instance of the same kind.
func (tc *Testcase) AddMetadata(m Metadata) {
	tc.metadata[m.MetadataKind()] = m
}

func (tc *Testcase) RemoveMetadata(kind string) {
	delete(tc.metadata, kind)
}

// ExecTime is the cached execution time of the last run, if recorded.
func (tc *Testcase) ExecTime() (time.Duration, bool) {
	return tc.execTime, tc.hasExecTime
}

func (tc *Testcase) SetExecTime(d time.Duration) {
	tc.execTime = d
	tc.hasExecTime = true
}

func (tc *Testcase) Filename() string {
	return tc.filename
}

func (tc *Testcase) SetFilename(name string) {
	tc.filename = name
}

// ScheduledCount is how many times a scheduler has picked this testcase.
func (tc *Testcase) ScheduledCount() int {
	return tc.scheduledCount
}

func (tc *Testcase) IncScheduledCount() {
	tc.scheduledCount++
}
