package alignment

import (
	"fmt"
	"strings"
	"time"

	"github.com/cypherlabdev/sporttery-odds-service/internal/models"
)

var (
	clockLayouts    = []string{"15:04:05", "15:04"}
	datetimeLayouts = []string{"2006-01-02 15:04:05", "2006-01-02 15:04"}
)

// clockSeconds parses a time of day into seconds since midnight. A value
// carrying a date prefix ("2026-02-27 10:19:53") is reduced to its clock part.
func clockSeconds(value string) (int, bool) {
	value = strings.TrimSpace(value)
	if i := strings.LastIndexByte(value, ' '); i >= 0 {
		value = value[i+1:]
	}
	for _, layout := range clockLayouts {
		t, err := time.Parse(layout, value)
		if err == nil {
			return t.Hour()*3600 + t.Minute()*60 + t.Second(), true
		}
	}
	return 0, false
}

// fullTimestamp parses the update date and time of an observation
func fullTimestamp(o models.OddsObservation) (time.Time, bool) {
	value := strings.TrimSpace(o.UpdateDate) + " " + strings.TrimSpace(o.UpdateTime)
	for _, layout := range datetimeLayouts {
		t, err := time.Parse(layout, value)
		if err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// CheckOrdered verifies that series is in non-decreasing timestamp order.
// Observations with unparsable timestamps are skipped.
func CheckOrdered(series []models.OddsObservation) error {
	var prev time.Time
	prevIdx := -1
	for i, o := range series {
		ts, ok := fullTimestamp(o)
		if !ok {
			continue
		}
		if prevIdx >= 0 && ts.Before(prev) {
			return fmt.Errorf("observation %d (%s %s) precedes observation %d", i, o.UpdateDate, o.UpdateTime, prevIdx)
		}
		prev = ts
		prevIdx = i
	}
	return nil
}
