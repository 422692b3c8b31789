package fuzz

import (
	"context"
	"math/rand"
	"time"

	"fuzzbank/internal/corpus"
)

// ExitKind classifies one target run.
type ExitKind int

const (
	ExitOk ExitKind = iota
	ExitCrash
	ExitTimeout
	ExitOOM
)

// Observation is what the executor saw while running one input. The corpus
// core never runs anything itself; it only records outcomes after the fact.
type Observation struct {
	ExitKind ExitKind
	ExecTime time.Duration
	// Coverage is the set of coverage map indexes the run touched.
	Coverage []uint32
}

// Executor runs the target with one input. Process isolation, timeouts and
// cancellation are its problem; the campaign loop only consumes the outcome.
type Executor interface {
	Run(ctx context.Context, input corpus.Input) (*Observation, error)
}

// Feedback decides whether an execution outcome is interesting enough to
// keep, and attaches its metadata to retained testcases.
type Feedback interface {
	IsInteresting(obs *Observation) bool
	Append(tc *corpus.Testcase, obs *Observation)
}

// Mutator derives a new input from a scheduled one. The actual operators
// (havoc, tokens, ...) live outside this core.
type Mutator interface {
	Mutate(rng *rand.Rand, input corpus.Input) corpus.Input
}
