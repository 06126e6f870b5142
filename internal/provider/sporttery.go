package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"slices"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"golang.org/x/time/rate"

	"github.com/cypherlabdev/sporttery-odds-service/internal/config"
	"github.com/cypherlabdev/sporttery-odds-service/internal/metrics"
	"github.com/cypherlabdev/sporttery-odds-service/internal/models"
	"github.com/cypherlabdev/sporttery-odds-service/internal/service"
)

const (
	sellingEndpoint    = "/uniform/football/getMatchListV1.qry"
	resultsEndpoint    = "/uniform/football/getUniformMatchResultV1.qry"
	fixedBonusEndpoint = "/uniform/football/getFixedBonusV1.qry"

	clientCode = "3001"
	dateLayout = "2006-01-02"
)

// browserHeaders are sent with every gateway request; the gateway rejects bare clients
var browserHeaders = map[string]string{
	"User-Agent":      "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
	"Accept":          "application/json, text/plain, */*",
	"Accept-Language": "zh-CN,zh;q=0.9,en;q=0.8",
	"Referer":         "https://www.sporttery.cn/",
	"Origin":          "https://www.sporttery.cn",
}

// SportteryProvider reads matches, odds and odds histories from the official
// lottery gateway
type SportteryProvider struct {
	baseURL     string
	client      *http.Client
	rateLimiter *rate.Limiter
	recentDays  int
	metrics     *metrics.Metrics
	logger      zerolog.Logger
	now         func() time.Time
}

// NewSportteryProvider creates a new gateway provider
func NewSportteryProvider(cfg config.SportteryConfig, m *metrics.Metrics, logger zerolog.Logger) *SportteryProvider {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	perSecond := cfg.RateLimitPerSecond
	if perSecond <= 0 {
		perSecond = 5
	}
	burst := int(perSecond)
	if burst < 1 {
		burst = 1
	}
	recentDays := cfg.RecentDays
	if recentDays <= 0 {
		recentDays = 14
	}

	return &SportteryProvider{
		baseURL:     strings.TrimRight(cfg.BaseURL, "/"),
		client:      &http.Client{Timeout: timeout},
		rateLimiter: rate.NewLimiter(rate.Limit(perSecond), burst),
		recentDays:  recentDays,
		metrics:     m,
		logger:      logger.With().Str("component", "sporttery_provider").Logger(),
		now:         time.Now,
	}
}

// Name returns the provider name
func (p *SportteryProvider) Name() string {
	return config.ProviderSporttery
}

// GetMatches lists matches on sale for date, falling back to that day's
// results. Without a date it falls back to the results of the recent window.
func (p *SportteryProvider) GetMatches(ctx context.Context, date string) ([]models.Match, error) {
	selling, err := p.sellingMatches(ctx)
	if err != nil {
		// results are still worth trying when the selling list is down
		p.logger.Warn().Err(err).Msg("failed to fetch selling matches")
	}

	if date == "" {
		if len(selling) > 0 {
			return selling, nil
		}
		today := p.now()
		return p.queryResults(ctx, today.AddDate(0, 0, -p.recentDays).Format(dateLayout), today.Format(dateLayout))
	}

	var onDate []models.Match
	for _, m := range selling {
		if strings.HasPrefix(m.MatchTime, date) {
			onDate = append(onDate, m)
		}
	}
	if len(onDate) > 0 {
		return onDate, nil
	}

	return p.queryResults(ctx, date, date)
}

// GetMatchOdds looks the match up among the selling matches, then among recent results
func (p *SportteryProvider) GetMatchOdds(ctx context.Context, matchID string) (*models.Match, error) {
	selling, err := p.sellingMatches(ctx)
	if err != nil {
		p.logger.Warn().Err(err).Str("match_id", matchID).Msg("failed to fetch selling matches")
	}
	if m := findMatch(selling, matchID); m != nil {
		return withEmptyMarkets(m), nil
	}

	today := p.now()
	recent, err := p.queryResults(ctx, today.AddDate(0, 0, -p.recentDays).Format(dateLayout), today.Format(dateLayout))
	if err != nil {
		return nil, fmt.Errorf("failed to look up match %s: %w", matchID, err)
	}
	if m := findMatch(recent, matchID); m != nil {
		return withEmptyMarkets(m), nil
	}

	return nil, service.ErrMatchNotFound
}

// GetOddsHistory fetches both history series of a match. Upstream failures
// degrade to an empty history.
func (p *SportteryProvider) GetOddsHistory(ctx context.Context, matchID string) (*models.OddsHistory, error) {
	var value fixedBonusValue
	err := p.request(ctx, fixedBonusEndpoint, url.Values{
		"clientCode": {clientCode},
		"matchId":    {matchID},
	}, &value)
	p.metrics.ObserveProviderRequest(p.Name(), "history", err)
	if err != nil {
		p.logger.Warn().Err(err).Str("match_id", matchID).Msg("failed to fetch odds history")
		return models.EmptyHistory(matchID), nil
	}

	history := &models.OddsHistory{
		MatchID:      matchID,
		Moneyline:    make([]models.OddsObservation, 0, len(value.OddsHistory.HadList)),
		HandicapLine: make([]models.OddsObservation, 0, len(value.OddsHistory.HhadList)),
		FetchedAt:    p.now().UTC(),
	}
	for _, item := range value.OddsHistory.HadList {
		history.Moneyline = append(history.Moneyline, item.observation(models.Moneyline))
	}
	for _, item := range value.OddsHistory.HhadList {
		history.HandicapLine = append(history.HandicapLine, item.observation(models.HandicapLine))
	}
	SortHistory(history)

	p.logger.Debug().
		Str("match_id", matchID).
		Int("had_count", len(history.Moneyline)).
		Int("hhad_count", len(history.HandicapLine)).
		Msg("fetched odds history")

	return history, nil
}

func (p *SportteryProvider) sellingMatches(ctx context.Context) ([]models.Match, error) {
	var value sellingValue
	err := p.request(ctx, sellingEndpoint, url.Values{"clientCode": {clientCode}}, &value)
	p.metrics.ObserveProviderRequest(p.Name(), "selling", err)
	if err != nil {
		return nil, err
	}

	var matches []models.Match
	for _, group := range value.MatchInfoList {
		for _, m := range group.SubMatchList {
			if match, ok := m.toMatch(); ok {
				matches = append(matches, match)
			}
		}
	}
	return matches, nil
}

func (p *SportteryProvider) queryResults(ctx context.Context, startDate, endDate string) ([]models.Match, error) {
	var value resultValue
	err := p.request(ctx, resultsEndpoint, url.Values{
		"matchBeginDate": {startDate},
		"matchEndDate":   {endDate},
		"leagueId":       {""},
		"pageSize":       {"30"},
		"pageNo":         {"1"},
		"isFix":          {"0"},
		"matchPage":      {"1"},
		"pcOrWap":        {"1"},
	}, &value)
	p.metrics.ObserveProviderRequest(p.Name(), "results", err)
	if err != nil {
		return nil, fmt.Errorf("failed to query results %s..%s: %w", startDate, endDate, err)
	}

	matches := make([]models.Match, 0, len(value.MatchResult))
	for _, m := range value.MatchResult {
		if match, ok := m.toMatch(); ok {
			matches = append(matches, match)
		}
	}
	return matches, nil
}

// request performs a rate-limited GET against the gateway and decodes the
// envelope's value into out
func (p *SportteryProvider) request(ctx context.Context, endpoint string, params url.Values, out interface{}) error {
	if err := p.rateLimiter.Wait(ctx); err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.baseURL+endpoint, nil)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.URL.RawQuery = params.Encode()
	for k, v := range browserHeaders {
		req.Header.Set(k, v)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to call %s: %w", endpoint, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("failed to call %s: status %d, body: %s", endpoint, resp.StatusCode, string(body))
	}

	var envelope gatewayResponse
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return fmt.Errorf("failed to decode %s response: %w", endpoint, err)
	}
	if !envelope.Success {
		msg := envelope.ErrorMessage
		if msg == "" {
			msg = "unknown error"
		}
		return fmt.Errorf("gateway error on %s: %s", endpoint, msg)
	}
	if len(envelope.Value) == 0 || string(envelope.Value) == "null" {
		return nil
	}
	if err := json.Unmarshal(envelope.Value, out); err != nil {
		return fmt.Errorf("failed to decode %s value: %w", endpoint, err)
	}
	return nil
}

func (m sellingMatch) toMatch() (models.Match, bool) {
	id := strings.TrimSpace(string(m.MatchID))
	if id == "" {
		return models.Match{}, false
	}

	match := models.Match{
		MatchID:   id,
		MatchTime: strings.TrimSpace(m.MatchDate + " " + m.MatchTime),
		MatchNum:  m.MatchNumStr,
		League:    m.LeagueAbbName,
		HomeTeam:  m.HomeTeamAbbName,
		AwayTeam:  m.AwayTeamAbbName,
		Status:    models.StatusSelling,
	}
	for _, pool := range m.OddsList {
		switch pool.PoolCode {
		case "HAD":
			match.HadOdds = models.MoneylineOdds{Win: pool.H.price(), Draw: pool.D.price(), Lose: pool.A.price()}
		case "HHAD":
			match.HhadOdds = models.HandicapOdds{
				Handicap: pool.GoalLine.price(),
				Win:      pool.H.price(),
				Draw:     pool.D.price(),
				Lose:     pool.A.price(),
			}
		}
	}
	return match, true
}

func (m resultMatch) toMatch() (models.Match, bool) {
	id := strings.TrimSpace(string(m.MatchID))
	if id == "" {
		return models.Match{}, false
	}

	result := m.WinFlag
	if label, ok := winFlagLabels[m.WinFlag]; ok {
		result = label
	}

	// the results endpoint only carries the handicap goal line, not its prices
	return models.Match{
		MatchID:   id,
		MatchTime: m.MatchDate,
		MatchNum:  m.MatchNumStr,
		League:    m.LeagueNameAbbr,
		HomeTeam:  m.HomeTeam,
		AwayTeam:  m.AwayTeam,
		Status:    models.StatusFinished,
		HalfScore: m.SectionsNo1,
		FullScore: m.SectionsNo999,
		Result:    result,
		HadOdds:   models.MoneylineOdds{Win: m.H.price(), Draw: m.D.price(), Lose: m.A.price()},
		HhadOdds:  models.HandicapOdds{Handicap: m.GoalLine.price()},
	}, true
}

func (i historyItem) observation(kind models.OddsKind) models.OddsObservation {
	o := models.OddsObservation{
		UpdateDate: strings.TrimSpace(i.UpdateDate),
		UpdateTime: strings.TrimSpace(i.UpdateTime),
		Kind:       kind,
		Win:        i.H.price(),
		Draw:       i.D.price(),
		Lose:       i.A.price(),
	}
	if kind == models.HandicapLine {
		o.Handicap = i.GoalLine.price()
	}
	return o
}

// SortHistory orders both series of h by update date and time. Equal
// timestamps keep their upstream order.
func SortHistory(h *models.OddsHistory) {
	byTimestamp := func(a, b models.OddsObservation) int {
		if c := strings.Compare(a.UpdateDate, b.UpdateDate); c != 0 {
			return c
		}
		return strings.Compare(a.UpdateTime, b.UpdateTime)
	}
	slices.SortStableFunc(h.Moneyline, byTimestamp)
	slices.SortStableFunc(h.HandicapLine, byTimestamp)
}

func findMatch(matches []models.Match, matchID string) *models.Match {
	for i := range matches {
		if matches[i].MatchID == matchID {
			m := matches[i]
			return &m
		}
	}
	return nil
}

// withEmptyMarkets fills the score, total-goal and half/full-time markets the
// gateway list endpoints do not carry
func withEmptyMarkets(m *models.Match) *models.Match {
	if m.CrsOdds == nil {
		m.CrsOdds = map[string]decimal.Decimal{}
	}
	if m.TtgOdds == nil {
		m.TtgOdds = map[string]decimal.Decimal{}
	}
	if m.HafuOdds == nil {
		m.HafuOdds = map[string]decimal.Decimal{}
	}
	return m
}
