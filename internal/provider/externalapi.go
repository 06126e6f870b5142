package provider

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/cypherlabdev/sporttery-odds-service/internal/config"
	"github.com/cypherlabdev/sporttery-odds-service/internal/metrics"
	"github.com/cypherlabdev/sporttery-odds-service/internal/models"
	"github.com/cypherlabdev/sporttery-odds-service/internal/service"
)

// ErrMissingAppKey is returned when the external provider is configured without an app key
var ErrMissingAppKey = errors.New("external api app key is not configured")

const footballQueryEndpoint = "/football/query"

type externalResponse struct {
	Status looseString     `json:"status"`
	Msg    string          `json:"msg"`
	Result json.RawMessage `json:"result"`
}

type externalMatch struct {
	MatchID   looseString `json:"matchid"`
	MatchTime string      `json:"matchtime"`
	HomeTeam  string      `json:"hometeam"`
	AwayTeam  string      `json:"awayteam"`
}

// ExternalAPIProvider lists fixtures of the major leagues from a third-party
// football API. It carries no lottery odds and no odds history.
type ExternalAPIProvider struct {
	baseURL string
	appKey  string
	leagues []string
	client  *http.Client
	metrics *metrics.Metrics
	logger  zerolog.Logger
	now     func() time.Time
}

// NewExternalAPIProvider creates a new external API provider
func NewExternalAPIProvider(cfg config.ExternalAPIConfig, m *metrics.Metrics, logger zerolog.Logger) (*ExternalAPIProvider, error) {
	if cfg.AppKey == "" {
		return nil, ErrMissingAppKey
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	return &ExternalAPIProvider{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		appKey:  cfg.AppKey,
		leagues: cfg.Leagues,
		client:  &http.Client{Timeout: timeout},
		metrics: m,
		logger:  logger.With().Str("component", "external_api_provider").Logger(),
		now:     time.Now,
	}, nil
}

// Name returns the provider name
func (p *ExternalAPIProvider) Name() string {
	return config.ProviderExternal
}

// GetMatches queries every configured league for date (today when empty).
// A failing league is skipped.
func (p *ExternalAPIProvider) GetMatches(ctx context.Context, date string) ([]models.Match, error) {
	if date == "" {
		date = p.now().Format(dateLayout)
	}

	var matches []models.Match
	for _, league := range p.leagues {
		list, err := p.query(ctx, league, date)
		p.metrics.ObserveProviderRequest(p.Name(), "matches", err)
		if err != nil {
			p.logger.Warn().Err(err).Str("league", league).Str("date", date).Msg("failed to query league")
			continue
		}
		for _, item := range list {
			id := strings.TrimSpace(string(item.MatchID))
			if id == "" {
				continue
			}
			matches = append(matches, models.Match{
				MatchID:   id,
				MatchTime: item.MatchTime,
				League:    league,
				HomeTeam:  item.HomeTeam,
				AwayTeam:  item.AwayTeam,
			})
		}
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return matches, nil
}

// GetMatchOdds returns the fixture with empty odds blocks
func (p *ExternalAPIProvider) GetMatchOdds(ctx context.Context, matchID string) (*models.Match, error) {
	matches, err := p.GetMatches(ctx, "")
	if err != nil {
		return nil, fmt.Errorf("failed to look up match %s: %w", matchID, err)
	}
	if m := findMatch(matches, matchID); m != nil {
		return withEmptyMarkets(m), nil
	}
	return nil, service.ErrMatchNotFound
}

// GetOddsHistory always returns an empty history
func (p *ExternalAPIProvider) GetOddsHistory(ctx context.Context, matchID string) (*models.OddsHistory, error) {
	return models.EmptyHistory(matchID), nil
}

func (p *ExternalAPIProvider) query(ctx context.Context, league, date string) ([]externalMatch, error) {
	params := url.Values{
		"appkey":    {p.appKey},
		"matchname": {league},
		"date":      {date},
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.baseURL+footballQueryEndpoint+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to call football query: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("failed to call football query: status %d, body: %s", resp.StatusCode, string(body))
	}

	var envelope externalResponse
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return nil, fmt.Errorf("failed to decode football query response: %w", err)
	}
	if envelope.Status != "0" {
		msg := envelope.Msg
		if msg == "" {
			msg = "unknown error"
		}
		return nil, fmt.Errorf("external api error: %s", msg)
	}

	return decodeExternalList(envelope.Result)
}

// decodeExternalList accepts either a bare list or an object with a "list" field
func decodeExternalList(raw json.RawMessage) ([]externalMatch, error) {
	trimmed := strings.TrimSpace(string(raw))
	if trimmed == "" || trimmed == "null" {
		return nil, nil
	}
	if strings.HasPrefix(trimmed, "[") {
		var list []externalMatch
		if err := json.Unmarshal(raw, &list); err != nil {
			return nil, fmt.Errorf("failed to decode match list: %w", err)
		}
		return list, nil
	}

	var wrapped struct {
		List []externalMatch `json:"list"`
	}
	if err := json.Unmarshal(raw, &wrapped); err != nil {
		return nil, fmt.Errorf("failed to decode match list: %w", err)
	}
	return wrapped.List, nil
}
