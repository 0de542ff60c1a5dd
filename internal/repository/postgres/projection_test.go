package postgres

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gridiron/internal/domain/projection"
	"gridiron/internal/testsupport"
	"gridiron/internal/testsupport/seeds"
	"gridiron/pkg/errors"
)

func TestProjectionRepository_UpsertIsIdempotent(t *testing.T) {
	tx := setupTestTx(t)
	repo := NewProjectionRepository(tx)
	ctx := context.Background()

	gameDate := time.Date(2026, 1, 10, 0, 0, 0, 0, time.UTC)
	rec := &projection.Record{
		PlayerID:     9001,
		MarketCode:   testsupport.UniqueCode("rec_yds"),
		ModelName:    "ridge_v1",
		Lookback:     5,
		AsOfGameDate: gameDate,
		Prediction:   68.4,
		Features:     json.RawMessage(`{"mean":62.4,"stddev":11.2,"weighted_mean":65.0,"trend":0.08}`),
	}

	require.NoError(t, repo.Upsert(ctx, rec))

	// Same natural key, fresh values
	rec.Prediction = 71.2
	rec.Features = json.RawMessage(`{"mean":64.0,"stddev":10.1,"weighted_mean":66.5,"trend":0.12}`)
	require.NoError(t, repo.Upsert(ctx, rec))

	var count int
	require.NoError(t, tx.QueryRow(`
		SELECT COUNT(*) FROM ml_projections
		WHERE player_id = $1 AND market_code = $2`,
		rec.PlayerID, rec.MarketCode,
	).Scan(&count))
	assert.Equal(t, 1, count, "second upsert must overwrite, not append")

	rows, err := repo.History(ctx, projection.HistoryFilter{
		PlayerID:   rec.PlayerID,
		MarketCode: rec.MarketCode,
		ModelName:  rec.ModelName,
		Lookback:   rec.Lookback,
		Limit:      10,
	})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.InDelta(t, 71.2, rows[0].Prediction, 1e-9)

	var features map[string]float64
	require.NoError(t, json.Unmarshal(rows[0].Features, &features))
	assert.InDelta(t, 64.0, features["mean"], 1e-9)
}

func TestProjectionRepository_HistoryOrderAndLimit(t *testing.T) {
	tx := setupTestTx(t)
	repo := NewProjectionRepository(tx)
	ctx := context.Background()

	marketCode := testsupport.UniqueCode("rec_yds")
	dates := []time.Time{
		time.Date(2025, 12, 20, 0, 0, 0, 0, time.UTC),
		time.Date(2026, 1, 3, 0, 0, 0, 0, time.UTC),
		time.Date(2026, 1, 10, 0, 0, 0, 0, time.UTC),
	}
	for i, d := range dates {
		require.NoError(t, repo.Upsert(ctx, &projection.Record{
			PlayerID:     9002,
			MarketCode:   marketCode,
			ModelName:    "ridge_v1",
			Lookback:     5,
			AsOfGameDate: d,
			Prediction:   float64(50 + i),
		}))
	}

	rows, err := repo.History(ctx, projection.HistoryFilter{
		PlayerID:   9002,
		MarketCode: marketCode,
		ModelName:  "ridge_v1",
		Lookback:   5,
		Limit:      2,
	})
	require.NoError(t, err)
	require.Len(t, rows, 2, "limit must truncate")
	assert.Equal(t, "2026-01-10", rows[0].AsOfGameDate.Format("2006-01-02"))
	assert.Equal(t, "2026-01-03", rows[1].AsOfGameDate.Format("2006-01-02"))
}

func TestProjectionRepository_HistoryEmptyIsValid(t *testing.T) {
	tx := setupTestTx(t)
	repo := NewProjectionRepository(tx)

	rows, err := repo.History(context.Background(), projection.HistoryFilter{
		PlayerID:   9003,
		MarketCode: testsupport.UniqueCode("none"),
		ModelName:  "ridge_v1",
		Lookback:   5,
		Limit:      20,
	})
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestBaselineRepository_Latest(t *testing.T) {
	tx := setupTestTx(t)
	repo := NewBaselineRepository(tx)
	ctx := context.Background()

	playerID := seeds.SeedPlayer(t, tx, seeds.PlayerFixture{LastName: testsupport.UniqueName("Receiver")})
	marketID := seeds.SeedMarket(t, tx, testsupport.UniqueCode("rec_yds"), "Receiving Yards", "receiving_yards")

	seeds.SeedBaseline(t, tx, playerID, marketID, "baseline_lb5",
		time.Date(2026, 1, 3, 0, 0, 0, 0, time.UTC), 58.0, 12.0, 0.48)
	seeds.SeedBaseline(t, tx, playerID, marketID, "baseline_lb5",
		time.Date(2026, 1, 10, 0, 0, 0, 0, time.UTC), 62.4, 11.2, 0.54)

	baseline, err := repo.Latest(ctx, playerID, marketID, "baseline_lb5")
	require.NoError(t, err)
	assert.Equal(t, "2026-01-10", baseline.GameDate.Format("2006-01-02"))
	assert.InDelta(t, 62.4, baseline.Mean, 1e-9)
	assert.InDelta(t, 0.54, baseline.POver, 1e-9)
}

func TestBaselineRepository_LatestNotFound(t *testing.T) {
	tx := setupTestTx(t)
	repo := NewBaselineRepository(tx)

	_, err := repo.Latest(context.Background(), 9004, 9005, "baseline_lb5")
	assert.True(t, errors.Is(err, errors.ErrNotFound))
}
