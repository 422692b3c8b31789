package scheduler

import "fuzzbank/internal/corpus"

const (
	// SchedulerMetadataKind keys the scheduling state on a testcase.
	SchedulerMetadataKind = "scheduler"
	// CoverageMetadataKind keys the coverage indexes the feedback layer
	// attaches to interesting testcases.
	CoverageMetadataKind = "coverage"
)

// SchedulerMetadata is attached to every scheduled testcase by OnAdd and
// consulted when weighting entries against each other.
type SchedulerMetadata struct {
	// Depth is the mutation chain length from an original seed.
	Depth int
	// Handicap is the number of queue cycles the campaign had already run
	// when this entry arrived. Late arrivals get a score boost to catch up.
	Handicap int
	// PerfScore is the current power-schedule weight.
	PerfScore float64
}

func (m *SchedulerMetadata) MetadataKind() string { return SchedulerMetadataKind }

// CoverageMetadata records which coverage map indexes an input touched.
type CoverageMetadata struct {
	Indexes []uint32
}

func (m *CoverageMetadata) MetadataKind() string { return CoverageMetadataKind }

func schedulerMetadata(tc *corpus.Testcase) (*SchedulerMetadata, bool) {
	m, ok := tc.Metadata(SchedulerMetadataKind)
	if !ok {
		return nil, false
	}
	sm, ok := m.(*SchedulerMetadata)
	return sm, ok
}

func coverageMetadata(tc *corpus.Testcase) (*CoverageMetadata, bool) {
	m, ok := tc.Metadata(CoverageMetadataKind)
	if !ok {
		return nil, false
	}
	cm, ok := m.(*CoverageMetadata)
	return cm, ok
}
