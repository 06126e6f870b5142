package models

import (
	"github.com/shopspring/decimal"
)

// Match statuses reported by the providers
const (
	StatusSelling  = "selling"
	StatusFinished = "finished"
)

// MoneylineOdds is the current HAD block of a match
type MoneylineOdds struct {
	Win  decimal.Decimal `json:"win"`
	Draw decimal.Decimal `json:"draw"`
	Lose decimal.Decimal `json:"lose"`
}

// HandicapOdds is the current HHAD block of a match
type HandicapOdds struct {
	Handicap decimal.Decimal `json:"handicap"`
	Win      decimal.Decimal `json:"win"`
	Draw     decimal.Decimal `json:"draw"`
	Lose     decimal.Decimal `json:"lose"`
}

// Match is a lottery football fixture with its current odds
type Match struct {
	MatchID   string `json:"match_id"`
	MatchTime string `json:"match_time"`
	MatchNum  string `json:"match_num,omitempty"`
	League    string `json:"league"`
	HomeTeam  string `json:"home_team"`
	AwayTeam  string `json:"away_team"`
	Status    string `json:"status,omitempty"`

	HalfScore string `json:"half_score,omitempty"`
	FullScore string `json:"full_score,omitempty"`
	Result    string `json:"result,omitempty"`

	HadOdds  MoneylineOdds              `json:"had_odds"`
	HhadOdds HandicapOdds               `json:"hhad_odds"`
	CrsOdds  map[string]decimal.Decimal `json:"crs_odds,omitempty"`  // "2:1" -> price
	TtgOdds  map[string]decimal.Decimal `json:"ttg_odds,omitempty"`  // "0".."6", "7+" -> price
	HafuOdds map[string]decimal.Decimal `json:"hafu_odds,omitempty"` // "win_draw" -> price
}

// MatchDetail is a match together with its odds history
type MatchDetail struct {
	Match
	Moneyline    []OddsObservation `json:"had_history"`
	HandicapLine []OddsObservation `json:"hhad_history"`
}

// NewMatchDetail joins a match with its history. A nil history yields empty series.
func NewMatchDetail(m Match, h *OddsHistory) *MatchDetail {
	d := &MatchDetail{
		Match:        m,
		Moneyline:    []OddsObservation{},
		HandicapLine: []OddsObservation{},
	}
	if h != nil {
		if h.Moneyline != nil {
			d.Moneyline = h.Moneyline
		}
		if h.HandicapLine != nil {
			d.HandicapLine = h.HandicapLine
		}
	}
	return d
}

// HafuKeys lists half/full-time outcomes in display order
var HafuKeys = []string{
	"win_win", "win_draw", "win_lose",
	"draw_win", "draw_draw", "draw_lose",
	"lose_win", "lose_draw", "lose_lose",
}

// TtgKeys lists total-goal outcomes in display order
var TtgKeys = []string{"0", "1", "2", "3", "4", "5", "6", "7+"}
