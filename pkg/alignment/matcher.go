package alignment

import (
	"time"

	"github.com/cypherlabdev/sporttery-odds-service/internal/models"
)

// DefaultTolerance is the widest time-of-day gap at which two updates from
// different series are considered simultaneous
const DefaultTolerance = 300 * time.Second

// FindMatch returns the index of the candidate closest in time of day to
// target. Only candidates with the same update date are eligible, the first
// of several equally close candidates wins, and a candidate further away
// than tolerance never matches. Unparsable times never match.
func FindMatch(target models.OddsObservation, candidates []models.OddsObservation, tolerance time.Duration) (int, bool) {
	targetSec, ok := clockSeconds(target.UpdateTime)
	if !ok {
		return -1, false
	}

	limit := int(tolerance / time.Second)
	bestIdx := -1
	bestDiff := 0

	for i, c := range candidates {
		if c.UpdateDate != target.UpdateDate {
			continue
		}
		sec, ok := clockSeconds(c.UpdateTime)
		if !ok {
			continue
		}
		diff := sec - targetSec
		if diff < 0 {
			diff = -diff
		}
		if diff > limit {
			continue
		}
		if bestIdx < 0 || diff < bestDiff {
			bestIdx = i
			bestDiff = diff
		}
	}

	return bestIdx, bestIdx >= 0
}

// LatestAtOrBefore returns the index of the latest observation in series whose
// full timestamp is not after target's. Among equal timestamps the first wins.
func LatestAtOrBefore(series []models.OddsObservation, target models.OddsObservation) (int, bool) {
	limit, ok := fullTimestamp(target)
	if !ok {
		return -1, false
	}

	bestIdx := -1
	var best time.Time
	for i, o := range series {
		ts, ok := fullTimestamp(o)
		if !ok || ts.After(limit) {
			continue
		}
		if bestIdx < 0 || ts.After(best) {
			bestIdx = i
			best = ts
		}
	}

	return bestIdx, bestIdx >= 0
}
