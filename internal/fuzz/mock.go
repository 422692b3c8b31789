package fuzz

import (
	"context"
	"hash/fnv"
	"math/rand"
	"time"

	"fuzzbank/internal/corpus"
)

// MockExecutor fakes a target: coverage and timing are derived
// deterministically from the input bytes. Good enough to drive the corpus
// and schedulers in local smoke runs and tests.
type MockExecutor struct {
	// MapSize is the size of the simulated coverage map.
	MapSize uint32
}

var _ Executor = (*MockExecutor)(nil)

func NewMockExecutor() *MockExecutor {
	return &MockExecutor{MapSize: 1 << 16}
}

func (e *MockExecutor) Run(ctx context.Context, input corpus.Input) (*Observation, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	h := fnv.New64a()
	h.Write(input)
	state := h.Sum64()

	// every 4-byte window lights up one pseudo index
	edges := len(input)/4 + 1
	coverage := make([]uint32, 0, edges)
	for i := range edges {
		state = state*6364136223846793005 + uint64(i) + 1442695040888963407
		coverage = append(coverage, uint32(state>>33)%e.MapSize)
	}

	return &Observation{
		ExitKind: ExitOk,
		ExecTime: time.Duration(50+len(input)) * time.Microsecond,
		Coverage: coverage,
	}, nil
}

// FlipMutator is the placeholder mutation operator: flip one random bit and
// occasionally grow the input by a byte.
type FlipMutator struct{}

var _ Mutator = (*FlipMutator)(nil)

func (m *FlipMutator) Mutate(rng *rand.Rand, input corpus.Input) corpus.Input {
	out := input.Clone()
	if len(out) == 0 || rng.Intn(8) == 0 {
		out = append(out, byte(rng.Intn(256)))
		return out
	}
	pos := rng.Intn(len(out))
	out[pos] ^= 1 << uint(rng.Intn(8))
	return out
}
