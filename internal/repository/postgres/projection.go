package postgres

import (
	"context"
	"database/sql"
	"time"

	"gridiron/internal/domain/projection"
	"gridiron/internal/metrics"
	"gridiron/pkg/errors"
)

// Compile-time checks
var (
	_ projection.Repository         = (*ProjectionRepository)(nil)
	_ projection.BaselineRepository = (*BaselineRepository)(nil)
)

// ProjectionRepository implements projection.Repository using sqlx
type ProjectionRepository struct {
	db DBTX
}

// NewProjectionRepository creates a new projection repository
func NewProjectionRepository(db DBTX) *ProjectionRepository {
	return &ProjectionRepository{db: db}
}

// Upsert inserts or overwrites the record for its natural key.
// A single ON CONFLICT statement, never select-then-insert: two concurrent
// writers for the same key race safely and the last commit wins.
func (r *ProjectionRepository) Upsert(ctx context.Context, rec *projection.Record) error {
	query := `
		INSERT INTO ml_projections
		  (player_id, market_code, model_name, lookback, as_of_game_date, prediction, features)
		VALUES
		  ($1, $2, $3, $4, $5, $6, CAST($7 AS jsonb))
		ON CONFLICT (player_id, market_code, model_name, lookback, as_of_game_date)
		DO UPDATE SET
		  prediction = EXCLUDED.prediction,
		  features = EXCLUDED.features,
		  created_at = NOW()`

	// Empty features must land as SQL NULL, not an unparsable empty string
	var features interface{}
	if len(rec.Features) > 0 {
		features = string(rec.Features)
	}

	start := time.Now()
	_, err := r.db.ExecContext(ctx, query,
		rec.PlayerID, rec.MarketCode, rec.ModelName, rec.Lookback,
		rec.AsOfGameDate, rec.Prediction, features,
	)
	metrics.RecordDBQuery("projection_upsert", time.Since(start), err)

	return err
}

// History retrieves prior records in reverse-chronological order
func (r *ProjectionRepository) History(ctx context.Context, filter projection.HistoryFilter) ([]projection.Record, error) {
	rows := []projection.Record{}

	query := `
		SELECT player_id, market_code, model_name, lookback, as_of_game_date,
		       prediction, features, created_at
		FROM ml_projections
		WHERE player_id = $1
		  AND market_code = $2
		  AND model_name = $3
		  AND lookback = $4
		ORDER BY as_of_game_date DESC
		LIMIT $5`

	start := time.Now()
	err := r.db.SelectContext(ctx, &rows, query,
		filter.PlayerID, filter.MarketCode, filter.ModelName, filter.Lookback, filter.Limit,
	)
	metrics.RecordDBQuery("projection_history", time.Since(start), err)
	if err != nil {
		return nil, err
	}

	return rows, nil
}

// BaselineRepository implements projection.BaselineRepository using sqlx
type BaselineRepository struct {
	db DBTX
}

// NewBaselineRepository creates a new baseline projection repository
func NewBaselineRepository(db DBTX) *BaselineRepository {
	return &BaselineRepository{db: db}
}

// Latest retrieves the most recent precomputed baseline row
func (r *BaselineRepository) Latest(ctx context.Context, playerID, marketID int64, modelName string) (*projection.Baseline, error) {
	var b projection.Baseline

	query := `
		SELECT player_id, market_id, model_name, game_date, opponent,
		       mean, stddev, p_over, created_at
		FROM projections
		WHERE player_id = $1
		  AND market_id = $2
		  AND model_name = $3
		ORDER BY game_date DESC
		LIMIT 1`

	err := r.db.GetContext(ctx, &b, query, playerID, marketID, modelName)
	if err == sql.ErrNoRows {
		return nil, errors.ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	return &b, nil
}
