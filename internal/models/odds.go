package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// OddsKind identifies which history series an observation belongs to
type OddsKind string

const (
	// Moneyline is the unadjusted win/draw/lose pool (HAD)
	Moneyline OddsKind = "had"
	// HandicapLine is the goal-handicap win/draw/lose pool (HHAD)
	HandicapLine OddsKind = "hhad"
)

// OddsObservation is one timestamped update in a moneyline or handicap-line history.
// A zero price means the source did not report it.
type OddsObservation struct {
	UpdateDate string          `json:"update_date"` // YYYY-MM-DD
	UpdateTime string          `json:"update_time"` // HH:MM:SS
	Kind       OddsKind        `json:"kind"`
	Handicap   decimal.Decimal `json:"handicap"` // HandicapLine only
	Win        decimal.Decimal `json:"win"`
	Draw       decimal.Decimal `json:"draw"`
	Lose       decimal.Decimal `json:"lose"`
}

// OddsHistory holds both history series of a single match
type OddsHistory struct {
	MatchID      string            `json:"match_id"`
	Moneyline    []OddsObservation `json:"had_history"`
	HandicapLine []OddsObservation `json:"hhad_history"`
	FetchedAt    time.Time         `json:"fetched_at"`
}

// IsEmpty reports whether neither series has any observation
func (h *OddsHistory) IsEmpty() bool {
	return h == nil || (len(h.Moneyline) == 0 && len(h.HandicapLine) == 0)
}

// EmptyHistory returns a history with no observations for matchID
func EmptyHistory(matchID string) *OddsHistory {
	return &OddsHistory{
		MatchID:      matchID,
		Moneyline:    []OddsObservation{},
		HandicapLine: []OddsObservation{},
		FetchedAt:    time.Now().UTC(),
	}
}

// OddsHistoryMessage is the Kafka message published by the crawler
type OddsHistoryMessage struct {
	Histories []OddsHistory `json:"histories"`
	Date      string        `json:"date"`
	Timestamp time.Time     `json:"timestamp"`
	BatchID   string        `json:"batch_id"`
}
