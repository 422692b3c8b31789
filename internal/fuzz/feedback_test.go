package fuzz

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fuzzbank/internal/corpus"
	"fuzzbank/internal/scheduler"
)

func TestCoverageFeedbackNovelty(t *testing.T) {
	f := NewCoverageFeedback()

	obs := &Observation{ExitKind: ExitOk, ExecTime: time.Millisecond, Coverage: []uint32{1, 2}}
	assert.True(t, f.IsInteresting(obs))

	tc := corpus.NewTestcase(corpus.Input{1})
	f.Append(tc, obs)

	// the same coverage is no longer news
	assert.False(t, f.IsInteresting(obs))
	// one fresh index is enough
	assert.True(t, f.IsInteresting(&Observation{ExitKind: ExitOk, Coverage: []uint32{2, 3}}))
}

func TestCoverageFeedbackIgnoresAbnormalExits(t *testing.T) {
	f := NewCoverageFeedback()

	for _, kind := range []ExitKind{ExitCrash, ExitTimeout, ExitOOM} {
		obs := &Observation{ExitKind: kind, Coverage: []uint32{42}}
		assert.False(t, f.IsInteresting(obs))
	}
}

func TestCoverageFeedbackAppend(t *testing.T) {
	f := NewCoverageFeedback()
	tc := corpus.NewTestcase(corpus.Input{1})
	obs := &Observation{ExitKind: ExitOk, ExecTime: 3 * time.Millisecond, Coverage: []uint32{5, 6}}

	f.Append(tc, obs)

	d, ok := tc.ExecTime()
	require.True(t, ok)
	assert.Equal(t, 3*time.Millisecond, d)

	meta, ok := tc.Metadata(scheduler.CoverageMetadataKind)
	require.True(t, ok)
	cov, ok := meta.(*scheduler.CoverageMetadata)
	require.True(t, ok)
	assert.Equal(t, []uint32{5, 6}, cov.Indexes)
}
