package alignment

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cypherlabdev/sporttery-odds-service/internal/models"
)

func at(date, clock string) models.OddsObservation {
	return models.OddsObservation{UpdateDate: date, UpdateTime: clock}
}

// TestFindMatch tests nearest-update matching
func TestFindMatch(t *testing.T) {
	candidates := []models.OddsObservation{
		at(testDate, "10:00:00"),
		at(testDate, "10:10:00"),
		at("2026-02-28", "10:04:00"),
		at(testDate, "not-a-time"),
		at(testDate, "11:00"),
	}

	tests := []struct {
		name      string
		target    models.OddsObservation
		tolerance time.Duration
		wantIdx   int
		wantFound bool
	}{
		{name: "Exact match", target: at(testDate, "10:10:00"), tolerance: DefaultTolerance, wantIdx: 1, wantFound: true},
		{name: "Nearest within tolerance", target: at(testDate, "10:08:00"), tolerance: DefaultTolerance, wantIdx: 1, wantFound: true},
		{name: "Tie keeps first", target: at(testDate, "10:05:00"), tolerance: DefaultTolerance, wantIdx: 0, wantFound: true},
		{name: "Tolerance is inclusive", target: at(testDate, "10:15:00"), tolerance: DefaultTolerance, wantIdx: 1, wantFound: true},
		{name: "Just outside tolerance", target: at(testDate, "10:15:01"), tolerance: DefaultTolerance, wantIdx: -1, wantFound: false},
		{name: "Other date ignored", target: at("2026-02-28", "10:00:00"), tolerance: DefaultTolerance, wantIdx: 2, wantFound: true},
		{name: "No candidate on date", target: at("2026-03-01", "10:00:00"), tolerance: DefaultTolerance, wantIdx: -1, wantFound: false},
		{name: "Hour-minute candidate", target: at(testDate, "11:02:00"), tolerance: DefaultTolerance, wantIdx: 4, wantFound: true},
		{name: "Date prefixed target", target: at(testDate, "2026-02-27 10:01:00"), tolerance: DefaultTolerance, wantIdx: 0, wantFound: true},
		{name: "Malformed target", target: at(testDate, "ten o'clock"), tolerance: DefaultTolerance, wantIdx: -1, wantFound: false},
		{name: "Narrow tolerance", target: at(testDate, "10:02:00"), tolerance: time.Minute, wantIdx: -1, wantFound: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			idx, found := FindMatch(tt.target, candidates, tt.tolerance)
			assert.Equal(t, tt.wantFound, found)
			assert.Equal(t, tt.wantIdx, idx)
		})
	}
}

// TestFindMatch_EmptyCandidates tests matching against nothing
func TestFindMatch_EmptyCandidates(t *testing.T) {
	idx, found := FindMatch(at(testDate, "10:00:00"), nil, DefaultTolerance)
	assert.False(t, found)
	assert.Equal(t, -1, idx)
}

// TestLatestAtOrBefore tests the backward scan by full timestamp
func TestLatestAtOrBefore(t *testing.T) {
	series := []models.OddsObservation{
		at("2026-02-26", "23:50:00"),
		at(testDate, "10:00:00"),
		at(testDate, "10:00:00"),
		at(testDate, "12:30"),
		at(testDate, "garbage"),
	}

	tests := []struct {
		name      string
		target    models.OddsObservation
		wantIdx   int
		wantFound bool
	}{
		{name: "Before everything", target: at("2026-02-26", "08:00:00"), wantIdx: -1, wantFound: false},
		{name: "Previous day", target: at(testDate, "09:00:00"), wantIdx: 0, wantFound: true},
		{name: "Equal timestamps keep first", target: at(testDate, "10:00:00"), wantIdx: 1, wantFound: true},
		{name: "Between updates", target: at(testDate, "12:00:00"), wantIdx: 1, wantFound: true},
		{name: "After everything", target: at("2026-03-01", "00:00:00"), wantIdx: 3, wantFound: true},
		{name: "Malformed target", target: at(testDate, "noon"), wantIdx: -1, wantFound: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			idx, found := LatestAtOrBefore(series, tt.target)
			assert.Equal(t, tt.wantFound, found)
			assert.Equal(t, tt.wantIdx, idx)
		})
	}
}

// TestCheckOrdered tests timestamp order verification
func TestCheckOrdered(t *testing.T) {
	t.Run("Ordered", func(t *testing.T) {
		series := []models.OddsObservation{
			at(testDate, "10:00:00"),
			at(testDate, "10:00:00"),
			at(testDate, "bad"),
			at("2026-02-28", "09:00:00"),
		}
		assert.NoError(t, CheckOrdered(series))
	})

	t.Run("Out of order", func(t *testing.T) {
		series := []models.OddsObservation{
			at(testDate, "10:00:00"),
			at(testDate, "09:59:59"),
		}
		err := CheckOrdered(series)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "observation 1")
	})

	t.Run("Empty", func(t *testing.T) {
		assert.NoError(t, CheckOrdered(nil))
	})
}

// TestClockSeconds tests time-of-day parsing
func TestClockSeconds(t *testing.T) {
	tests := []struct {
		value string
		want  int
		ok    bool
	}{
		{value: "00:00:00", want: 0, ok: true},
		{value: "10:19:53", want: 37193, ok: true},
		{value: "10:19", want: 37140, ok: true},
		{value: " 2026-02-27 10:19:53 ", want: 37193, ok: true},
		{value: "25:00:00", ok: false},
		{value: "", ok: false},
	}

	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			got, ok := clockSeconds(tt.value)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}
