package repository

import (
	"context"
	"time"

	"callguard-lab/internal/domain/models"
	"callguard-lab/internal/infrastructure/database"
	"callguard-lab/pkg/logger"
)

// StatsRepository persists analysis records and serves aggregate
// queries over them. Writes are best-effort: failures are logged and
// swallowed so a database outage never affects verdicts.
type StatsRepository struct {
	db  *database.Database
	log *logger.Logger
}

// NewStatsRepository creates a stats repository.
func NewStatsRepository(db *database.Database, log *logger.Logger) *StatsRepository {
	return &StatsRepository{
		db:  db,
		log: log.WithComponent("stats_repository"),
	}
}

// Record inserts one analysis record. Implements the engine's Recorder
// contract: errors are logged, never returned.
func (r *StatsRepository) Record(ctx context.Context, rec models.AnalysisRecord) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	_, err := r.db.Pool.Exec(ctx, `
		INSERT INTO analysis_stats (created_at, source, risk, is_scam, categories, actions, model_used, total_time_ms)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		rec.CreatedAt, rec.Source, rec.Risk, rec.IsScam,
		rec.Categories, rec.Actions, rec.ModelUsed, rec.TotalMS,
	)
	if err != nil {
		r.log.Error().Err(err).Msg("failed to persist analysis record")
	}
}

// Summary is the aggregate view over recorded analyses.
type Summary struct {
	Total       int64            `json:"total"`
	Scams       int64            `json:"scams"`
	ByRisk      map[string]int64 `json:"by_risk"`
	BySource    map[string]int64 `json:"by_source"`
	ModelUsed   int64            `json:"model_used"`
	AvgTotalMS  float64          `json:"avg_total_ms"`
	WindowStart time.Time        `json:"window_start"`
	WindowEnd   time.Time        `json:"window_end"`
}

// Summarize aggregates records within [since, until).
func (r *StatsRepository) Summarize(ctx context.Context, since, until time.Time) (*Summary, error) {
	s := &Summary{
		ByRisk:      make(map[string]int64),
		BySource:    make(map[string]int64),
		WindowStart: since,
		WindowEnd:   until,
	}

	err := r.db.Pool.QueryRow(ctx, `
		SELECT COUNT(*),
		       COUNT(*) FILTER (WHERE is_scam),
		       COUNT(*) FILTER (WHERE model_used),
		       COALESCE(AVG(total_time_ms), 0)
		FROM analysis_stats
		WHERE created_at >= $1 AND created_at < $2`,
		since, until,
	).Scan(&s.Total, &s.Scams, &s.ModelUsed, &s.AvgTotalMS)
	if err != nil {
		return nil, err
	}

	rows, err := r.db.Pool.Query(ctx, `
		SELECT risk, COUNT(*)
		FROM analysis_stats
		WHERE created_at >= $1 AND created_at < $2
		GROUP BY risk`,
		since, until,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var risk string
		var n int64
		if err := rows.Scan(&risk, &n); err != nil {
			return nil, err
		}
		s.ByRisk[risk] = n
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	srcRows, err := r.db.Pool.Query(ctx, `
		SELECT source, COUNT(*)
		FROM analysis_stats
		WHERE created_at >= $1 AND created_at < $2
		GROUP BY source`,
		since, until,
	)
	if err != nil {
		return nil, err
	}
	defer srcRows.Close()
	for srcRows.Next() {
		var source string
		var n int64
		if err := srcRows.Scan(&source, &n); err != nil {
			return nil, err
		}
		s.BySource[source] = n
	}
	if err := srcRows.Err(); err != nil {
		return nil, err
	}

	return s, nil
}

// EnsureSchema creates the analysis_stats table if missing.
func (r *StatsRepository) EnsureSchema(ctx context.Context) error {
	_, err := r.db.Pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS analysis_stats (
			id BIGSERIAL PRIMARY KEY,
			created_at TIMESTAMPTZ NOT NULL,
			source TEXT NOT NULL,
			risk TEXT NOT NULL,
			is_scam BOOLEAN NOT NULL,
			categories TEXT[] NOT NULL DEFAULT '{}',
			actions TEXT[] NOT NULL DEFAULT '{}',
			model_used BOOLEAN NOT NULL DEFAULT FALSE,
			total_time_ms BIGINT NOT NULL DEFAULT 0
		);
		CREATE INDEX IF NOT EXISTS idx_analysis_stats_created_at ON analysis_stats (created_at)`)
	return err
}
