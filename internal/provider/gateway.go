package provider

import (
	"bytes"
	"encoding/json"
	"strings"

	"github.com/shopspring/decimal"
)

// looseString accepts a JSON string, number or null. The gateway is not
// consistent about quoting ids and prices.
type looseString string

func (s *looseString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*s = ""
		return nil
	}
	if data[0] == '"' {
		var v string
		if err := json.Unmarshal(data, &v); err != nil {
			return err
		}
		*s = looseString(v)
		return nil
	}
	*s = looseString(data)
	return nil
}

// price parses a price or goal line. Signed goal lines ("+1") are accepted;
// anything unparsable is treated as not reported.
func (s looseString) price() decimal.Decimal {
	v := strings.TrimSpace(strings.ReplaceAll(string(s), "+", ""))
	if v == "" {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(v)
	if err != nil {
		return decimal.Zero
	}
	return d
}

// gatewayResponse is the envelope of every sporttery gateway endpoint
type gatewayResponse struct {
	Success      bool            `json:"success"`
	ErrorMessage string          `json:"errorMessage"`
	Value        json.RawMessage `json:"value"`
}

type gatewayPool struct {
	PoolCode string      `json:"poolCode"`
	H        looseString `json:"h"`
	D        looseString `json:"d"`
	A        looseString `json:"a"`
	GoalLine looseString `json:"goalLine"`
}

type sellingMatch struct {
	MatchID         looseString   `json:"matchId"`
	MatchDate       string        `json:"matchDate"`
	MatchTime       string        `json:"matchTime"`
	MatchNumStr     string        `json:"matchNumStr"`
	LeagueAbbName   string        `json:"leagueAbbName"`
	HomeTeamAbbName string        `json:"homeTeamAbbName"`
	AwayTeamAbbName string        `json:"awayTeamAbbName"`
	OddsList        []gatewayPool `json:"oddsList"`
}

type sellingValue struct {
	MatchInfoList []struct {
		SubMatchList []sellingMatch `json:"subMatchList"`
	} `json:"matchInfoList"`
}

type resultMatch struct {
	MatchID        looseString `json:"matchId"`
	MatchDate      string      `json:"matchDate"`
	MatchNumStr    string      `json:"matchNumStr"`
	LeagueNameAbbr string      `json:"leagueNameAbbr"`
	HomeTeam       string      `json:"homeTeam"`
	AwayTeam       string      `json:"awayTeam"`
	SectionsNo1    string      `json:"sectionsNo1"`
	SectionsNo999  string      `json:"sectionsNo999"`
	WinFlag        string      `json:"winFlag"`
	H              looseString `json:"h"`
	D              looseString `json:"d"`
	A              looseString `json:"a"`
	GoalLine       looseString `json:"goalLine"`
}

type resultValue struct {
	MatchResult []resultMatch `json:"matchResult"`
}

type historyItem struct {
	UpdateDate string      `json:"updateDate"`
	UpdateTime string      `json:"updateTime"`
	H          looseString `json:"h"`
	D          looseString `json:"d"`
	A          looseString `json:"a"`
	GoalLine   looseString `json:"goalLine"`
}

type fixedBonusValue struct {
	OddsHistory struct {
		HadList  []historyItem `json:"hadList"`
		HhadList []historyItem `json:"hhadList"`
	} `json:"oddsHistory"`
}

// winFlagLabels translates the result flag of a finished match
var winFlagLabels = map[string]string{
	"H": "主胜",
	"D": "平局",
	"A": "客胜",
}
