package provider

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/cypherlabdev/sporttery-odds-service/internal/config"
	"github.com/cypherlabdev/sporttery-odds-service/internal/models"
	"github.com/cypherlabdev/sporttery-odds-service/internal/service"
)

// crsKeys lists the correct-score outcomes carried by the fixtures
var crsKeys = []string{
	"1:0", "2:0", "2:1", "3:0", "3:1", "3:2", "4:0", "4:1",
	"0:0", "1:1", "2:2", "3:3",
	"0:1", "0:2", "1:2", "0:3", "1:3", "2:3",
}

type mockFixture struct {
	kickoff  string
	league   string
	home     string
	away     string
	had      [3]string
	handicap int64
	hhad     [3]string
	crs      []string // crsKeys order
	ttg      []string // models.TtgKeys order
	hafu     []string // models.HafuKeys order
}

var mockFixtures = []mockFixture{
	{
		kickoff: "18:00", league: "英超", home: "曼城", away: "利物浦",
		had: [3]string{"2.15", "3.40", "3.25"}, handicap: -1, hhad: [3]string{"3.10", "3.55", "2.05"},
		crs:  []string{"7.50", "10.00", "8.50", "18.00", "15.00", "25.00", "40.00", "35.00", "8.00", "6.50", "14.00", "50.00", "9.00", "14.00", "10.00", "25.00", "20.00", "30.00"},
		ttg:  []string{"9.00", "5.00", "3.60", "3.20", "4.50", "7.00", "15.00", "25.00"},
		hafu: []string{"3.50", "12.00", "28.00", "5.80", "5.00", "7.50", "18.00", "12.00", "6.00"},
	},
	{
		kickoff: "19:30", league: "西甲", home: "皇家马德里", away: "巴塞罗那",
		had: [3]string{"2.30", "3.25", "3.10"}, handicap: -1, hhad: [3]string{"3.25", "3.40", "2.00"},
		crs:  []string{"7.00", "9.50", "8.00", "16.00", "14.00", "22.00", "38.00", "32.00", "7.50", "6.00", "13.00", "45.00", "8.50", "13.00", "9.50", "22.00", "18.00", "28.00"},
		ttg:  []string{"8.50", "4.80", "3.40", "3.00", "4.20", "6.50", "14.00", "22.00"},
		hafu: []string{"3.80", "11.00", "25.00", "5.50", "4.80", "7.00", "16.00", "11.00", "5.50"},
	},
	{
		kickoff: "20:00", league: "德甲", home: "拜仁慕尼黑", away: "多特蒙德",
		had: [3]string{"1.65", "3.80", "5.00"}, handicap: -2, hhad: [3]string{"3.40", "3.50", "1.95"},
		crs:  []string{"8.00", "7.50", "8.50", "10.00", "11.00", "20.00", "15.00", "18.00", "10.00", "7.50", "16.00", "55.00", "14.00", "22.00", "16.00", "40.00", "30.00", "35.00"},
		ttg:  []string{"10.00", "5.50", "3.80", "3.10", "4.00", "6.00", "12.00", "20.00"},
		hafu: []string{"2.50", "10.00", "22.00", "5.00", "5.50", "9.00", "20.00", "15.00", "8.50"},
	},
	{
		kickoff: "20:00", league: "意甲", home: "国际米兰", away: "AC米兰",
		had: [3]string{"1.90", "3.50", "3.90"}, handicap: -1, hhad: [3]string{"2.90", "3.30", "2.25"},
		crs:  []string{"6.50", "8.50", "7.50", "15.00", "13.00", "22.00", "35.00", "30.00", "8.50", "6.00", "14.00", "48.00", "10.00", "16.00", "12.00", "28.00", "22.00", "32.00"},
		ttg:  []string{"9.50", "5.20", "3.50", "3.00", "4.30", "6.80", "14.50", "24.00"},
		hafu: []string{"3.00", "10.50", "24.00", "5.20", "4.80", "7.50", "18.00", "12.00", "7.00"},
	},
	{
		kickoff: "21:00", league: "法甲", home: "巴黎圣日耳曼", away: "马赛",
		had: [3]string{"1.45", "4.20", "6.50"}, handicap: -2, hhad: [3]string{"2.80", "3.40", "2.30"},
		crs:  []string{"8.50", "6.50", "9.00", "8.00", "10.00", "18.00", "12.00", "16.00", "12.00", "8.50", "18.00", "60.00", "16.00", "28.00", "20.00", "50.00", "40.00", "42.00"},
		ttg:  []string{"12.00", "6.00", "4.00", "3.20", "3.80", "5.50", "10.00", "18.00"},
		hafu: []string{"2.20", "8.50", "20.00", "4.50", "6.00", "10.00", "22.00", "18.00", "11.00"},
	},
	{
		kickoff: "21:30", league: "英超", home: "阿森纳", away: "切尔西",
		had: [3]string{"1.85", "3.60", "4.00"}, handicap: -1, hhad: [3]string{"2.75", "3.40", "2.35"},
		crs:  []string{"6.50", "8.00", "7.50", "14.00", "12.50", "20.00", "32.00", "28.00", "9.00", "6.50", "14.50", "50.00", "11.00", "18.00", "13.00", "30.00", "25.00", "35.00"},
		ttg:  []string{"9.50", "5.00", "3.50", "3.10", "4.20", "6.50", "13.00", "22.00"},
		hafu: []string{"2.80", "11.00", "25.00", "5.50", "5.00", "8.00", "20.00", "14.00", "7.50"},
	},
	{
		kickoff: "22:00", league: "西甲", home: "马德里竞技", away: "塞维利亚",
		had: [3]string{"1.70", "3.60", "4.80"}, handicap: -1, hhad: [3]string{"2.50", "3.20", "2.60"},
		crs:  []string{"6.00", "7.50", "8.00", "12.00", "13.00", "22.00", "28.00", "26.00", "9.50", "7.00", "15.00", "52.00", "12.00", "20.00", "14.00", "35.00", "28.00", "38.00"},
		ttg:  []string{"10.00", "5.50", "3.60", "3.00", "4.10", "6.20", "13.00", "21.00"},
		hafu: []string{"2.60", "10.00", "22.00", "5.00", "5.20", "8.50", "19.00", "14.00", "8.00"},
	},
	{
		kickoff: "22:30", league: "德甲", home: "勒沃库森", away: "莱比锡红牛",
		had: [3]string{"2.00", "3.40", "3.60"}, handicap: 0, hhad: [3]string{"2.80", "3.10", "2.50"},
		crs:  []string{"6.50", "8.50", "7.50", "15.00", "13.50", "22.00", "35.00", "30.00", "8.00", "6.00", "13.00", "48.00", "9.50", "15.00", "11.00", "26.00", "20.00", "30.00"},
		ttg:  []string{"8.50", "4.80", "3.30", "3.00", "4.20", "6.50", "14.00", "22.00"},
		hafu: []string{"3.20", "10.50", "24.00", "5.20", "4.60", "7.00", "17.00", "11.00", "6.50"},
	},
}

// synthetic history shape: offsets from the opening update and price drifts
// that converge on the fixture's current odds
var (
	mockMoneylineOffsets = []time.Duration{0, 90 * time.Minute, 255 * time.Minute, 460 * time.Minute}
	mockMoneylineDrift   = [][3]string{{"0.10", "-0.05", "-0.10"}, {"0.05", "0", "-0.05"}, {"0.02", "0.05", "-0.02"}, {"0", "0", "0"}}
	mockHandicapOffsets  = []time.Duration{0, 92 * time.Minute, 300 * time.Minute}
	mockHandicapDrift    = [][3]string{{"-0.08", "0.10", "0.06"}, {"-0.04", "0.05", "0.03"}, {"0", "0", "0"}}
)

// MockProvider serves a fixed set of fixtures dated today with synthetic
// odds histories, for running the service without upstream access
type MockProvider struct {
	today   string
	matches []models.Match
	logger  zerolog.Logger
}

// NewMockProvider creates a mock provider whose fixtures are dated on now's day
func NewMockProvider(now time.Time, logger zerolog.Logger) *MockProvider {
	today := now.Format(dateLayout)
	prefix := strings.ReplaceAll(today, "-", "")

	matches := make([]models.Match, 0, len(mockFixtures))
	for i, f := range mockFixtures {
		matches = append(matches, f.toMatch(fmt.Sprintf("%s%03d", prefix, i+1), today))
	}

	return &MockProvider{
		today:   today,
		matches: matches,
		logger:  logger.With().Str("component", "mock_provider").Logger(),
	}
}

// Name returns the provider name
func (p *MockProvider) Name() string {
	return config.ProviderMock
}

// GetMatches returns the fixtures kicking off on date, or all of them when date is empty
func (p *MockProvider) GetMatches(ctx context.Context, date string) ([]models.Match, error) {
	matches := make([]models.Match, 0, len(p.matches))
	for _, m := range p.matches {
		if date == "" || strings.HasPrefix(m.MatchTime, date) {
			matches = append(matches, m)
		}
	}
	return matches, nil
}

// GetMatchOdds returns a copy of the fixture
func (p *MockProvider) GetMatchOdds(ctx context.Context, matchID string) (*models.Match, error) {
	m := findMatch(p.matches, matchID)
	if m == nil {
		return nil, service.ErrMatchNotFound
	}
	return m, nil
}

// GetOddsHistory returns a deterministic history ending at the fixture's current odds
func (p *MockProvider) GetOddsHistory(ctx context.Context, matchID string) (*models.OddsHistory, error) {
	idx := -1
	for i := range p.matches {
		if p.matches[i].MatchID == matchID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return models.EmptyHistory(matchID), nil
	}

	m := p.matches[idx]
	opening, err := time.Parse(dateLayout+" 15:04:05", p.today+" 09:00:00")
	if err != nil {
		return nil, fmt.Errorf("failed to parse opening time: %w", err)
	}
	// stagger fixtures so their update clocks differ
	opening = opening.Add(time.Duration(idx*3) * time.Minute)

	history := &models.OddsHistory{
		MatchID:      matchID,
		Moneyline:    make([]models.OddsObservation, 0, len(mockMoneylineOffsets)),
		HandicapLine: make([]models.OddsObservation, 0, len(mockHandicapOffsets)),
		FetchedAt:    time.Now().UTC(),
	}
	for i, offset := range mockMoneylineOffsets {
		ts := opening.Add(offset)
		d := mockMoneylineDrift[i]
		history.Moneyline = append(history.Moneyline, models.OddsObservation{
			UpdateDate: ts.Format(dateLayout),
			UpdateTime: ts.Format("15:04:05"),
			Kind:       models.Moneyline,
			Win:        m.HadOdds.Win.Add(decimal.RequireFromString(d[0])),
			Draw:       m.HadOdds.Draw.Add(decimal.RequireFromString(d[1])),
			Lose:       m.HadOdds.Lose.Add(decimal.RequireFromString(d[2])),
		})
	}
	for i, offset := range mockHandicapOffsets {
		ts := opening.Add(offset)
		d := mockHandicapDrift[i]
		history.HandicapLine = append(history.HandicapLine, models.OddsObservation{
			UpdateDate: ts.Format(dateLayout),
			UpdateTime: ts.Format("15:04:05"),
			Kind:       models.HandicapLine,
			Handicap:   m.HhadOdds.Handicap,
			Win:        m.HhadOdds.Win.Add(decimal.RequireFromString(d[0])),
			Draw:       m.HhadOdds.Draw.Add(decimal.RequireFromString(d[1])),
			Lose:       m.HhadOdds.Lose.Add(decimal.RequireFromString(d[2])),
		})
	}

	p.logger.Debug().Str("match_id", matchID).Msg("generated synthetic odds history")
	return history, nil
}

func (f mockFixture) toMatch(id, today string) models.Match {
	return models.Match{
		MatchID:   id,
		MatchTime: today + " " + f.kickoff,
		League:    f.league,
		HomeTeam:  f.home,
		AwayTeam:  f.away,
		Status:    models.StatusSelling,
		HadOdds: models.MoneylineOdds{
			Win:  decimal.RequireFromString(f.had[0]),
			Draw: decimal.RequireFromString(f.had[1]),
			Lose: decimal.RequireFromString(f.had[2]),
		},
		HhadOdds: models.HandicapOdds{
			Handicap: decimal.NewFromInt(f.handicap),
			Win:      decimal.RequireFromString(f.hhad[0]),
			Draw:     decimal.RequireFromString(f.hhad[1]),
			Lose:     decimal.RequireFromString(f.hhad[2]),
		},
		CrsOdds:  priceMap(crsKeys, f.crs),
		TtgOdds:  priceMap(models.TtgKeys, f.ttg),
		HafuOdds: priceMap(models.HafuKeys, f.hafu),
	}
}

func priceMap(keys, values []string) map[string]decimal.Decimal {
	out := make(map[string]decimal.Decimal, len(keys))
	for i, k := range keys {
		if i < len(values) {
			out[k] = decimal.RequireFromString(values[i])
		}
	}
	return out
}
