package seeds

import (
	"testing"

	"github.com/jmoiron/sqlx"
)

// SetupSchema creates the serving tables inside the test transaction.
// DDL is transactional in Postgres, so the rollback at test end removes
// everything, including the tables themselves.
func SetupSchema(t *testing.T, tx *sqlx.Tx) {
	t.Helper()

	schema := []string{
		`CREATE TABLE IF NOT EXISTS players (
			id BIGSERIAL PRIMARY KEY,
			external_id TEXT,
			first_name TEXT NOT NULL,
			last_name TEXT NOT NULL,
			position TEXT,
			team TEXT
		)`,
		`CREATE TABLE IF NOT EXISTS prop_markets (
			id BIGSERIAL PRIMARY KEY,
			code TEXT NOT NULL UNIQUE,
			name TEXT NOT NULL,
			stat_field TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS active_models (
			market_id BIGINT PRIMARY KEY REFERENCES prop_markets(id),
			model_name TEXT NOT NULL,
			lookback INT NOT NULL,
			artifact_path TEXT NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE TABLE IF NOT EXISTS trained_models (
			id BIGSERIAL PRIMARY KEY,
			model_name TEXT NOT NULL,
			market_id BIGINT NOT NULL REFERENCES prop_markets(id),
			lookback INT NOT NULL,
			artifact_path TEXT NOT NULL,
			train_rows INT NOT NULL DEFAULT 0,
			test_rows INT NOT NULL DEFAULT 0,
			mae DOUBLE PRECISION NOT NULL DEFAULT 0,
			rmse DOUBLE PRECISION NOT NULL DEFAULT 0,
			r2 DOUBLE PRECISION NOT NULL DEFAULT 0,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE TABLE IF NOT EXISTS player_market_features (
			player_id BIGINT NOT NULL REFERENCES players(id),
			market_id BIGINT NOT NULL REFERENCES prop_markets(id),
			lookback INT NOT NULL,
			as_of_game_date DATE NOT NULL,
			opponent TEXT,
			mean DOUBLE PRECISION NOT NULL,
			stddev DOUBLE PRECISION NOT NULL,
			weighted_mean DOUBLE PRECISION NOT NULL,
			trend DOUBLE PRECISION NOT NULL,
			PRIMARY KEY (player_id, market_id, lookback, as_of_game_date)
		)`,
		`CREATE TABLE IF NOT EXISTS ml_projections (
			player_id BIGINT NOT NULL,
			market_code TEXT NOT NULL,
			model_name TEXT NOT NULL,
			lookback INT NOT NULL,
			as_of_game_date DATE NOT NULL,
			prediction DOUBLE PRECISION NOT NULL,
			features JSONB,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			PRIMARY KEY (player_id, market_code, model_name, lookback, as_of_game_date)
		)`,
		`CREATE TABLE IF NOT EXISTS projections (
			player_id BIGINT NOT NULL,
			market_id BIGINT NOT NULL,
			model_name TEXT NOT NULL,
			game_date DATE NOT NULL,
			opponent TEXT,
			mean DOUBLE PRECISION NOT NULL,
			stddev DOUBLE PRECISION NOT NULL,
			p_over DOUBLE PRECISION NOT NULL DEFAULT 0,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			PRIMARY KEY (player_id, market_id, model_name, game_date)
		)`,
	}

	for _, stmt := range schema {
		if _, err := tx.Exec(stmt); err != nil {
			t.Fatalf("failed to create schema: %v", err)
		}
	}
}
