package main

import (
	"encoding/json"
	"flag"
	"os"
	"path/filepath"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"

	"gridiron/internal/adapters/config"
	"gridiron/internal/domain/feature"
	"gridiron/internal/ml"
	"gridiron/pkg/logger"
)

// Seeds a local database with enough data to serve projections end to end:
// a handful of players, the standard markets, feature snapshots, a demo
// linear artifact on disk and an active binding pointing at it.
func main() {
	artifactDir := flag.String("artifact-dir", "", "Override artifact output directory")
	dryRun := flag.Bool("dry-run", false, "Validate config and connectivity without writing")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	if err := logger.Init(cfg.App.LogLevel, cfg.App.Env); err != nil {
		panic("failed to init logger: " + err.Error())
	}
	log := logger.Get()

	dir := cfg.Artifacts.Dir
	if *artifactDir != "" {
		dir = *artifactDir
	}

	log.Infow("Starting seeder",
		"database", cfg.Postgres.Database,
		"artifact_dir", dir,
		"dry_run", *dryRun,
	)

	db, err := sqlx.Connect("postgres", cfg.Postgres.DSN())
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	if *dryRun {
		log.Info("✅ Dry-run mode: config validated, database reachable")
		return
	}

	artifactPath, err := writeDemoArtifact(dir)
	if err != nil {
		log.Fatalf("Failed to write demo artifact: %v", err)
	}
	log.Infow("Demo artifact written", "path", artifactPath)

	if err := seed(db, artifactPath); err != nil {
		log.Fatalf("Failed to seed database: %v", err)
	}

	log.Info("✅ Seeding complete")
}

// writeDemoArtifact writes a linear bundle whose coefficients weight the
// recent weighted mean most heavily, a reasonable demo shape
func writeDemoArtifact(dir string) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}

	bundle := ml.Bundle{
		Kind:        ml.KindLinear,
		ModelName:   "demo_ridge_v1",
		Lookback:    5,
		FeatureCols: feature.Columns,
		Linear: &ml.LinearParams{
			Coef:      []float64{0.35, -0.05, 0.55, 8.0},
			Intercept: 4.2,
		},
	}

	data, err := json.MarshalIndent(bundle, "", "  ")
	if err != nil {
		return "", err
	}

	path := filepath.Join(dir, "demo_ridge_v1.json")
	return path, os.WriteFile(path, data, 0o644)
}

type demoPlayer struct {
	first, last, position, team string
}

var demoPlayers = []demoPlayer{
	{"Jalen", "Harper", "WR", "BUF"},
	{"Marcus", "Reed", "RB", "KC"},
	{"Devon", "Castillo", "TE", "PHI"},
	{"Trey", "Whitfield", "WR", "DAL"},
}

var demoMarkets = []struct{ code, name, statField string }{
	{"rec_yds", "Receiving Yards", "receiving_yards"},
	{"rush_yds", "Rushing Yards", "rushing_yards"},
	{"receptions", "Receptions", "receptions"},
}

func seed(db *sqlx.DB, artifactPath string) error {
	tx, err := db.Beginx()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	playerIDs := make([]int64, 0, len(demoPlayers))
	for _, p := range demoPlayers {
		var id int64
		err := tx.QueryRow(`
			INSERT INTO players (first_name, last_name, position, team)
			VALUES ($1, $2, $3, $4)
			RETURNING id`,
			p.first, p.last, p.position, p.team,
		).Scan(&id)
		if err != nil {
			return err
		}
		playerIDs = append(playerIDs, id)
	}

	gameDate := time.Now().AddDate(0, 0, -3).Truncate(24 * time.Hour)

	for _, m := range demoMarkets {
		var marketID int64
		err := tx.QueryRow(`
			INSERT INTO prop_markets (code, name, stat_field)
			VALUES ($1, $2, $3)
			ON CONFLICT (code) DO UPDATE SET name = EXCLUDED.name
			RETURNING id`,
			m.code, m.name, m.statField,
		).Scan(&marketID)
		if err != nil {
			return err
		}

		if _, err := tx.Exec(`
			INSERT INTO active_models (market_id, model_name, lookback, artifact_path)
			VALUES ($1, 'demo_ridge_v1', 5, $2)
			ON CONFLICT (market_id) DO UPDATE SET
			  model_name = EXCLUDED.model_name,
			  lookback = EXCLUDED.lookback,
			  artifact_path = EXCLUDED.artifact_path,
			  updated_at = NOW()`,
			marketID, artifactPath,
		); err != nil {
			return err
		}

		for i, playerID := range playerIDs {
			base := 40.0 + float64(i)*12.0
			if _, err := tx.Exec(`
				INSERT INTO player_market_features
				  (player_id, market_id, lookback, as_of_game_date, opponent,
				   mean, stddev, weighted_mean, trend)
				VALUES ($1, $2, 5, $3, 'NE', $4, $5, $6, $7)
				ON CONFLICT (player_id, market_id, lookback, as_of_game_date) DO NOTHING`,
				playerID, marketID, gameDate,
				base, base*0.2, base*1.05, 0.05,
			); err != nil {
				return err
			}
		}
	}

	return tx.Commit()
}
