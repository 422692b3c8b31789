package scheduler

import (
	"time"

	"fuzzbank/internal/corpus"
)

const (
	baseScore = 100.0
	// maxScore caps the boost a single entry can accumulate.
	maxScore = 1600.0
	minScore = 1.0
)

// perfScore rates a testcase for power scheduling: fast inputs that touch
// many coverage indexes score high, slow or shallow ones score low. Late
// arrivals (high handicap) and deep mutation chains get a boost so they are
// not starved by the established part of the queue.
func perfScore(tc *corpus.Testcase, meta *SchedulerMetadata, avgExec time.Duration, avgEdges float64) float64 {
	score := baseScore

	if execTime, ok := tc.ExecTime(); ok && avgExec > 0 {
		switch {
		case execTime > avgExec*10:
			score *= 0.1
		case execTime > avgExec*4:
			score *= 0.25
		case execTime > avgExec*2:
			score *= 0.5
		case execTime*4 < avgExec:
			score *= 3
		case execTime*3 < avgExec:
			score *= 2
		case execTime*2 < avgExec:
			score *= 1.5
		}
	}

	if cov, ok := coverageMetadata(tc); ok && avgEdges > 0 {
		edges := float64(len(cov.Indexes))
		switch {
		case edges*0.3 > avgEdges:
			score *= 3
		case edges*0.5 > avgEdges:
			score *= 2
		case edges*0.75 > avgEdges:
			score *= 1.5
		case edges*3 < avgEdges:
			score *= 0.25
		case edges*2 < avgEdges:
			score *= 0.5
		case edges*1.5 < avgEdges:
			score *= 0.75
		}
	}

	switch {
	case meta.Handicap >= 4:
		score *= 4
	case meta.Handicap > 0:
		score *= 2
	}

	switch {
	case meta.Depth >= 14:
		score *= 4
	case meta.Depth >= 8:
		score *= 3
	case meta.Depth >= 4:
		score *= 2
	}

	if score > maxScore {
		score = maxScore
	}
	if score < minScore {
		score = minScore
	}
	return score
}
