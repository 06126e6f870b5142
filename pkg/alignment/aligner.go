package alignment

import (
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/cypherlabdev/sporttery-odds-service/internal/models"
)

// Origin tells which pass of the alignment produced a row
type Origin string

const (
	// OriginHandicap rows are driven by a handicap-line update
	OriginHandicap Origin = "handicap"
	// OriginSweep rows cover moneyline updates no handicap-line update consumed
	OriginSweep Origin = "sweep"
	// OriginHandicapOnly rows track handicap draw drift when there is no moneyline history
	OriginHandicapOnly Origin = "handicap_only"
)

// Row is one aligned delta row. Indexes are -1 when no observation of that
// series contributed.
type Row struct {
	Win            Diff   `json:"win_diff"`
	Lose           Diff   `json:"lose_diff"`
	DoubleDraw     Diff   `json:"double_draw_diff"`
	Origin         Origin `json:"origin"`
	MoneylineIndex int    `json:"moneyline_index"`
	HandicapIndex  int    `json:"handicap_index"`
}

// Negative reports whether any available diff of the row is below zero
func (r Row) Negative() bool {
	return r.Win.Negative() || r.Lose.Negative() || r.DoubleDraw.Negative()
}

// Params holds alignment parameters
type Params struct {
	Tolerance time.Duration // nearest-match window, 300s by default
	// HandicapOnlyFallback emits handicap draw drift rows when the moneyline
	// history is empty and the handicap line has at least two updates.
	HandicapOnlyFallback bool
}

// DefaultParams returns the standard alignment parameters
func DefaultParams() Params {
	return Params{Tolerance: DefaultTolerance}
}

// Aligner merges a match's moneyline and handicap-line histories into delta rows
type Aligner struct {
	params Params
	logger zerolog.Logger
}

// NewAligner creates a new aligner
func NewAligner(params Params, logger zerolog.Logger) *Aligner {
	if params.Tolerance <= 0 {
		params.Tolerance = DefaultTolerance
	}
	return &Aligner{
		params: params,
		logger: logger.With().Str("component", "aligner").Logger(),
	}
}

// Params returns the parameters the aligner was built with
func (a *Aligner) Params() Params {
	return a.params
}

// Align produces the delta rows for one match. Both series are expected in
// ascending timestamp order; out-of-order input is logged and processed as is.
// An empty moneyline history yields no rows.
func (a *Aligner) Align(moneyline, handicapLine []models.OddsObservation) []Row {
	if err := CheckOrdered(moneyline); err != nil {
		a.logger.Warn().Err(err).Str("series", string(models.Moneyline)).Msg("history not in timestamp order")
	}
	if err := CheckOrdered(handicapLine); err != nil {
		a.logger.Warn().Err(err).Str("series", string(models.HandicapLine)).Msg("history not in timestamp order")
	}

	rows := []Row{}
	switch {
	case len(moneyline) == 0:
		if a.params.HandicapOnlyFallback && len(handicapLine) >= 2 {
			rows = handicapOnly(handicapLine)
		}
	case len(handicapLine) == 0:
	default:
		rows = a.align(moneyline, handicapLine)
	}

	a.logger.Debug().
		Int("moneyline_count", len(moneyline)).
		Int("handicap_count", len(handicapLine)).
		Int("row_count", len(rows)).
		Msg("aligned odds history")

	return rows
}

// align runs the primary pass over the handicap line and then sweeps the
// moneyline updates it left uncovered.
func (a *Aligner) align(moneyline, handicapLine []models.OddsObservation) []Row {
	baseWin := moneyline[0].Win
	baseLose := moneyline[0].Lose

	// index 0 is the baseline and never yields a win/lose diff of its own
	usedWinLose := map[int]bool{0: true}
	drawCovered := map[int]bool{}
	lastDraw := moneyline[0].Draw

	rows := make([]Row, 0, len(handicapLine)+len(moneyline)-1)

	for r, hl := range handicapLine {
		row := Row{
			Win:            unavailable,
			Lose:           unavailable,
			Origin:         OriginHandicap,
			MoneylineIndex: -1,
			HandicapIndex:  r,
		}
		var draw decimal.Decimal

		if r == 0 {
			if len(moneyline) >= 2 {
				row.Win = computeDiff(moneyline[1].Win, baseWin)
				row.Lose = computeDiff(moneyline[1].Lose, baseLose)
				row.MoneylineIndex = 1
				usedWinLose[1] = true
			}
			draw = moneyline[0].Draw
			drawCovered[0] = true
			lastDraw = draw
		} else {
			k, found := FindMatch(hl, moneyline, a.params.Tolerance)
			if found && !usedWinLose[k] {
				row.Win = computeDiff(moneyline[k].Win, baseWin)
				row.Lose = computeDiff(moneyline[k].Lose, baseLose)
				row.MoneylineIndex = k
				usedWinLose[k] = true
				drawCovered[k] = true
				draw = moneyline[k].Draw
				lastDraw = draw
			} else {
				// the nearest update was already shown, so its draw counts as covered too
				if found {
					drawCovered[k] = true
				}
				// approximation: may reuse a stale draw when nothing precedes this update
				draw = lastDraw
				if j, ok := LatestAtOrBefore(moneyline, hl); ok {
					draw = moneyline[j].Draw
					lastDraw = draw
				}
			}
		}

		row.DoubleDraw = computeDiff(hl.Draw, draw)
		rows = append(rows, row)
	}

	for i := 1; i < len(moneyline); i++ {
		if usedWinLose[i] && drawCovered[i] {
			continue
		}

		row := Row{
			Win:            unavailable,
			Lose:           unavailable,
			DoubleDraw:     unavailable,
			Origin:         OriginSweep,
			MoneylineIndex: i,
			HandicapIndex:  -1,
		}
		if !usedWinLose[i] {
			row.Win = computeDiff(moneyline[i].Win, baseWin)
			row.Lose = computeDiff(moneyline[i].Lose, baseLose)
		}
		if j, ok := LatestAtOrBefore(handicapLine, moneyline[i]); ok {
			row.DoubleDraw = computeDiff(handicapLine[j].Draw, moneyline[i].Draw)
			row.HandicapIndex = j
		}
		rows = append(rows, row)
	}

	return rows
}

// handicapOnly reports the handicap draw drift against the first handicap update
func handicapOnly(handicapLine []models.OddsObservation) []Row {
	base := handicapLine[0].Draw
	rows := make([]Row, 0, len(handicapLine)-1)
	for i := 1; i < len(handicapLine); i++ {
		rows = append(rows, Row{
			Win:            unavailable,
			Lose:           unavailable,
			DoubleDraw:     computeDiff(handicapLine[i].Draw, base),
			Origin:         OriginHandicapOnly,
			MoneylineIndex: -1,
			HandicapIndex:  i,
		})
	}
	return rows
}
