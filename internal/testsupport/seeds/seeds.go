package seeds

import (
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
)

// PlayerFixture describes one seeded player row
type PlayerFixture struct {
	ExternalID string
	FirstName  string
	LastName   string
	Position   string
	Team       string
}

// SeedPlayer inserts a player and returns its generated id
func SeedPlayer(t *testing.T, tx *sqlx.Tx, f PlayerFixture) int64 {
	t.Helper()

	if f.FirstName == "" {
		f.FirstName = "Test"
	}
	if f.LastName == "" {
		f.LastName = "Player"
	}

	var id int64
	err := tx.QueryRow(`
		INSERT INTO players (external_id, first_name, last_name, position, team)
		VALUES (NULLIF($1, ''), $2, $3, NULLIF($4, ''), NULLIF($5, ''))
		RETURNING id`,
		f.ExternalID, f.FirstName, f.LastName, f.Position, f.Team,
	).Scan(&id)
	if err != nil {
		t.Fatalf("failed to seed player: %v", err)
	}
	return id
}

// SeedMarket inserts a prop market and returns its generated id
func SeedMarket(t *testing.T, tx *sqlx.Tx, code, name, statField string) int64 {
	t.Helper()

	var id int64
	err := tx.QueryRow(`
		INSERT INTO prop_markets (code, name, stat_field)
		VALUES ($1, $2, $3)
		RETURNING id`,
		code, name, statField,
	).Scan(&id)
	if err != nil {
		t.Fatalf("failed to seed market: %v", err)
	}
	return id
}

// SeedActiveModel binds a model to a market
func SeedActiveModel(t *testing.T, tx *sqlx.Tx, marketID int64, modelName string, lookback int, artifactPath string) {
	t.Helper()

	_, err := tx.Exec(`
		INSERT INTO active_models (market_id, model_name, lookback, artifact_path)
		VALUES ($1, $2, $3, $4)`,
		marketID, modelName, lookback, artifactPath,
	)
	if err != nil {
		t.Fatalf("failed to seed active model: %v", err)
	}
}

// SeedTrainedModel inserts a training registry row
func SeedTrainedModel(t *testing.T, tx *sqlx.Tx, marketID int64, modelName string, lookback int, mae float64, createdAt time.Time) {
	t.Helper()

	_, err := tx.Exec(`
		INSERT INTO trained_models
		  (model_name, market_id, lookback, artifact_path, train_rows, test_rows, mae, rmse, r2, created_at)
		VALUES ($1, $2, $3, $4, 800, 200, $5, $6, 0.4, $7)`,
		modelName, marketID, lookback, "/artifacts/"+modelName+".json", mae, mae*1.3, createdAt,
	)
	if err != nil {
		t.Fatalf("failed to seed trained model: %v", err)
	}
}

// FeatureFixture describes one seeded feature snapshot row
type FeatureFixture struct {
	PlayerID     int64
	MarketID     int64
	Lookback     int
	AsOfGameDate time.Time
	Opponent     string
	Mean         float64
	StdDev       float64
	WeightedMean float64
	Trend        float64
}

// SeedFeature inserts a feature snapshot row
func SeedFeature(t *testing.T, tx *sqlx.Tx, f FeatureFixture) {
	t.Helper()

	_, err := tx.Exec(`
		INSERT INTO player_market_features
		  (player_id, market_id, lookback, as_of_game_date, opponent,
		   mean, stddev, weighted_mean, trend)
		VALUES ($1, $2, $3, $4, NULLIF($5, ''), $6, $7, $8, $9)`,
		f.PlayerID, f.MarketID, f.Lookback, f.AsOfGameDate, f.Opponent,
		f.Mean, f.StdDev, f.WeightedMean, f.Trend,
	)
	if err != nil {
		t.Fatalf("failed to seed feature snapshot: %v", err)
	}
}

// SeedBaseline inserts a precomputed baseline projection row
func SeedBaseline(t *testing.T, tx *sqlx.Tx, playerID, marketID int64, modelName string, gameDate time.Time, mean, stddev, pOver float64) {
	t.Helper()

	_, err := tx.Exec(`
		INSERT INTO projections
		  (player_id, market_id, model_name, game_date, mean, stddev, p_over)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		playerID, marketID, modelName, gameDate, mean, stddev, pOver,
	)
	if err != nil {
		t.Fatalf("failed to seed baseline projection: %v", err)
	}
}
