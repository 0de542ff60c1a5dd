package postgres

import (
	"context"
	"database/sql"

	"gridiron/internal/domain/feature"
	"gridiron/pkg/errors"
)

// Compile-time check
var _ feature.Repository = (*FeatureRepository)(nil)

// FeatureRepository implements feature.Repository using sqlx
type FeatureRepository struct {
	db DBTX
}

// NewFeatureRepository creates a new feature store repository
func NewFeatureRepository(db DBTX) *FeatureRepository {
	return &FeatureRepository{db: db}
}

// Latest retrieves the most recent snapshot by as_of_game_date.
// The column list is fixed and matches feature.Columns; the snapshot owns
// the positional ordering, not the query.
func (r *FeatureRepository) Latest(ctx context.Context, playerID, marketID int64, lookback int) (*feature.Snapshot, error) {
	var snap feature.Snapshot

	query := `
		SELECT player_id, market_id, lookback, as_of_game_date, opponent,
		       mean, stddev, weighted_mean, trend
		FROM player_market_features
		WHERE player_id = $1
		  AND market_id = $2
		  AND lookback = $3
		ORDER BY as_of_game_date DESC
		LIMIT 1`

	err := r.db.GetContext(ctx, &snap, query, playerID, marketID, lookback)
	if err == sql.ErrNoRows {
		return nil, errors.ErrFeatureNotFound
	}
	if err != nil {
		return nil, err
	}

	return &snap, nil
}
