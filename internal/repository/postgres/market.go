package postgres

import (
	"context"
	"database/sql"

	"gridiron/internal/domain/market"
	"gridiron/pkg/errors"
)

// Compile-time check
var _ market.Repository = (*MarketRepository)(nil)

// MarketRepository implements market.Repository using sqlx
type MarketRepository struct {
	db DBTX
}

// NewMarketRepository creates a new market repository
func NewMarketRepository(db DBTX) *MarketRepository {
	return &MarketRepository{db: db}
}

// GetByCode retrieves a market by its stable code (e.g. rec_yds)
func (r *MarketRepository) GetByCode(ctx context.Context, code string) (*market.Market, error) {
	var m market.Market

	query := `SELECT id, code, name, stat_field FROM prop_markets WHERE code = $1`

	err := r.db.GetContext(ctx, &m, query, code)
	if err == sql.ErrNoRows {
		return nil, errors.ErrMarketNotFound
	}
	if err != nil {
		return nil, err
	}

	return &m, nil
}

// List retrieves all markets ordered by code
func (r *MarketRepository) List(ctx context.Context) ([]market.Market, error) {
	markets := []market.Market{}

	query := `SELECT id, code, name, stat_field FROM prop_markets ORDER BY code`

	if err := r.db.SelectContext(ctx, &markets, query); err != nil {
		return nil, err
	}

	return markets, nil
}
