package postgres

import (
	"context"
	"database/sql"

	"gridiron/internal/domain/player"
	"gridiron/pkg/errors"
)

// Compile-time check
var _ player.Repository = (*PlayerRepository)(nil)

// PlayerRepository implements player.Repository using sqlx
type PlayerRepository struct {
	db DBTX
}

// NewPlayerRepository creates a new player repository
func NewPlayerRepository(db DBTX) *PlayerRepository {
	return &PlayerRepository{db: db}
}

// GetByID retrieves a player by internal id
func (r *PlayerRepository) GetByID(ctx context.Context, id int64) (*player.Player, error) {
	var p player.Player

	query := `
		SELECT id, external_id, first_name, last_name, position, team
		FROM players
		WHERE id = $1`

	err := r.db.GetContext(ctx, &p, query, id)
	if err == sql.ErrNoRows {
		return nil, errors.ErrPlayerNotFound
	}
	if err != nil {
		return nil, err
	}

	return &p, nil
}

const playerSearchWhere = `
	WHERE
	  (first_name || ' ' || last_name) ILIKE $1
	  OR first_name ILIKE $1
	  OR last_name ILIKE $1
	  OR COALESCE(team, '') ILIKE $1
	  OR COALESCE(position, '') ILIKE $1
	  OR COALESCE(external_id, '') ILIKE $1`

// List retrieves players alphabetically with optional search and pagination
func (r *PlayerRepository) List(ctx context.Context, filter player.ListFilter) ([]player.Player, error) {
	players := []player.Player{}

	if filter.Search != "" {
		query := `
			SELECT id, external_id, first_name, last_name, position, team
			FROM players` + playerSearchWhere + `
			ORDER BY last_name, first_name
			LIMIT $2 OFFSET $3`

		err := r.db.SelectContext(ctx, &players, query,
			"%"+filter.Search+"%", filter.Limit, filter.Offset)
		if err != nil {
			return nil, err
		}
		return players, nil
	}

	query := `
		SELECT id, external_id, first_name, last_name, position, team
		FROM players
		ORDER BY last_name, first_name
		LIMIT $1 OFFSET $2`

	err := r.db.SelectContext(ctx, &players, query, filter.Limit, filter.Offset)
	if err != nil {
		return nil, err
	}

	return players, nil
}

// Count returns the number of players matching the filter, ignoring pagination
func (r *PlayerRepository) Count(ctx context.Context, filter player.ListFilter) (int, error) {
	var total int

	if filter.Search != "" {
		query := `SELECT COUNT(*) FROM players` + playerSearchWhere
		if err := r.db.GetContext(ctx, &total, query, "%"+filter.Search+"%"); err != nil {
			return 0, err
		}
		return total, nil
	}

	if err := r.db.GetContext(ctx, &total, `SELECT COUNT(*) FROM players`); err != nil {
		return 0, err
	}

	return total, nil
}
