package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/cypherlabdev/sporttery-odds-service/internal/models"
)

// Schema creates the odds history table. Observations are keyed by match,
// series and timestamp, so re-archiving a history only adds new updates.
const Schema = `
CREATE TABLE IF NOT EXISTS odds_history (
	match_id    TEXT           NOT NULL,
	kind        TEXT           NOT NULL,
	update_date TEXT           NOT NULL,
	update_time TEXT           NOT NULL,
	handicap    NUMERIC(10, 3) NOT NULL DEFAULT 0,
	win         NUMERIC(10, 3) NOT NULL DEFAULT 0,
	draw        NUMERIC(10, 3) NOT NULL DEFAULT 0,
	lose        NUMERIC(10, 3) NOT NULL DEFAULT 0,
	archived_at TIMESTAMPTZ    NOT NULL DEFAULT now(),
	PRIMARY KEY (match_id, kind, update_date, update_time)
)`

const insertObservation = `
	INSERT INTO odds_history (match_id, kind, update_date, update_time, handicap, win, draw, lose, archived_at)
	VALUES ($1, $2, $3, $4, $5::numeric, $6::numeric, $7::numeric, $8::numeric, $9)
	ON CONFLICT (match_id, kind, update_date, update_time) DO NOTHING`

const selectHistory = `
	SELECT kind, update_date, update_time, handicap::text, win::text, draw::text, lose::text
	FROM odds_history
	WHERE match_id = $1
	ORDER BY update_date, update_time`

// PostgresArchive stores crawled odds histories in Postgres
type PostgresArchive struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// PostgresArchiveConfig holds archive connection configuration
type PostgresArchiveConfig struct {
	DSN      string
	MaxConns int32
}

// NewPostgresArchive connects to Postgres and verifies the connection
func NewPostgresArchive(ctx context.Context, config PostgresArchiveConfig, logger zerolog.Logger) (*PostgresArchive, error) {
	poolCfg, err := pgxpool.ParseConfig(config.DSN)
	if err != nil {
		return nil, fmt.Errorf("failed to parse postgres dsn: %w", err)
	}
	if config.MaxConns > 0 {
		poolCfg.MaxConns = config.MaxConns
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping postgres: %w", err)
	}

	return &PostgresArchive{
		pool:   pool,
		logger: logger.With().Str("component", "postgres_archive").Logger(),
	}, nil
}

// EnsureSchema creates the odds history table when it is missing
func (a *PostgresArchive) EnsureSchema(ctx context.Context) error {
	if _, err := a.pool.Exec(ctx, Schema); err != nil {
		return fmt.Errorf("failed to create odds_history table: %w", err)
	}
	return nil
}

// SaveHistory archives every observation of history. Already archived
// observations are left untouched.
func (a *PostgresArchive) SaveHistory(ctx context.Context, history *models.OddsHistory) error {
	rows := historyRows(history)
	if len(rows) == 0 {
		return nil
	}

	archivedAt := history.FetchedAt
	if archivedAt.IsZero() {
		archivedAt = time.Now().UTC()
	}

	batch := &pgx.Batch{}
	for _, r := range rows {
		batch.Queue(insertObservation, append(r, archivedAt)...)
	}

	results := a.pool.SendBatch(ctx, batch)
	defer results.Close()

	inserted := 0
	for range rows {
		ct, err := results.Exec()
		if err != nil {
			return fmt.Errorf("failed to archive history of %s: %w", history.MatchID, err)
		}
		inserted += int(ct.RowsAffected())
	}

	a.logger.Debug().
		Str("match_id", history.MatchID).
		Int("count", len(rows)).
		Int("inserted", inserted).
		Msg("archived odds history")

	return nil
}

// LoadHistory reads a match's archived history in timestamp order. A match
// with nothing archived yields an empty history.
func (a *PostgresArchive) LoadHistory(ctx context.Context, matchID string) (*models.OddsHistory, error) {
	rows, err := a.pool.Query(ctx, selectHistory, matchID)
	if err != nil {
		return nil, fmt.Errorf("failed to query history of %s: %w", matchID, err)
	}
	defer rows.Close()

	history := models.EmptyHistory(matchID)
	for rows.Next() {
		var r archivedRow
		if err := rows.Scan(&r.kind, &r.updateDate, &r.updateTime, &r.handicap, &r.win, &r.draw, &r.lose); err != nil {
			return nil, fmt.Errorf("failed to scan history of %s: %w", matchID, err)
		}
		o, err := r.observation()
		if err != nil {
			return nil, fmt.Errorf("failed to decode history of %s: %w", matchID, err)
		}
		switch o.Kind {
		case models.Moneyline:
			history.Moneyline = append(history.Moneyline, o)
		case models.HandicapLine:
			history.HandicapLine = append(history.HandicapLine, o)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read history of %s: %w", matchID, err)
	}

	return history, nil
}

// Ping checks the Postgres connection
func (a *PostgresArchive) Ping(ctx context.Context) error {
	return a.pool.Ping(ctx)
}

// Close closes the connection pool
func (a *PostgresArchive) Close() {
	a.pool.Close()
}

// historyRows flattens both series into insert arguments, prices as text
func historyRows(history *models.OddsHistory) [][]any {
	if history == nil {
		return nil
	}
	rows := make([][]any, 0, len(history.Moneyline)+len(history.HandicapLine))
	for _, series := range [][]models.OddsObservation{history.Moneyline, history.HandicapLine} {
		for _, o := range series {
			rows = append(rows, []any{
				history.MatchID,
				string(o.Kind),
				o.UpdateDate,
				o.UpdateTime,
				o.Handicap.String(),
				o.Win.String(),
				o.Draw.String(),
				o.Lose.String(),
			})
		}
	}
	return rows
}

type archivedRow struct {
	kind       string
	updateDate string
	updateTime string
	handicap   string
	win        string
	draw       string
	lose       string
}

func (r archivedRow) observation() (models.OddsObservation, error) {
	var prices [4]decimal.Decimal
	for i, s := range []string{r.handicap, r.win, r.draw, r.lose} {
		d, err := decimal.NewFromString(s)
		if err != nil {
			return models.OddsObservation{}, fmt.Errorf("invalid price %q: %w", s, err)
		}
		prices[i] = d
	}

	return models.OddsObservation{
		UpdateDate: r.updateDate,
		UpdateTime: r.updateTime,
		Kind:       models.OddsKind(r.kind),
		Handicap:   prices[0],
		Win:        prices[1],
		Draw:       prices[2],
		Lose:       prices[3],
	}, nil
}
