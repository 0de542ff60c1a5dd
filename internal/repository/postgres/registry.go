package postgres

import (
	"context"
	"database/sql"

	"gridiron/internal/domain/registry"
	"gridiron/pkg/errors"
)

// Compile-time check
var _ registry.Repository = (*RegistryRepository)(nil)

// RegistryRepository implements registry.Repository using sqlx.
// Both tables are written exclusively by the training job; the serving core
// reads the binding on every request so a rebind takes effect immediately.
type RegistryRepository struct {
	db DBTX
}

// NewRegistryRepository creates a new model registry repository
func NewRegistryRepository(db DBTX) *RegistryRepository {
	return &RegistryRepository{db: db}
}

// GetActive retrieves the binding currently serving a market
func (r *RegistryRepository) GetActive(ctx context.Context, marketID int64) (*registry.ActiveModelBinding, error) {
	var binding registry.ActiveModelBinding

	query := `
		SELECT market_id, model_name, lookback, artifact_path, updated_at
		FROM active_models
		WHERE market_id = $1`

	err := r.db.GetContext(ctx, &binding, query, marketID)
	if err == sql.ErrNoRows {
		return nil, errors.ErrNoActiveModel
	}
	if err != nil {
		return nil, err
	}

	return &binding, nil
}

// ListTrained retrieves trained model rows for a market, newest first
func (r *RegistryRepository) ListTrained(ctx context.Context, marketID int64) ([]registry.TrainedModel, error) {
	models := []registry.TrainedModel{}

	query := `
		SELECT model_name, market_id, lookback, artifact_path,
		       train_rows, test_rows, mae, rmse, r2, created_at
		FROM trained_models
		WHERE market_id = $1
		ORDER BY created_at DESC`

	if err := r.db.SelectContext(ctx, &models, query, marketID); err != nil {
		return nil, err
	}

	return models, nil
}
