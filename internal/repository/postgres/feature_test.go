package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gridiron/internal/testsupport"
	"gridiron/internal/testsupport/seeds"
	"gridiron/pkg/errors"
)

func TestFeatureRepository_LatestPicksNewestDate(t *testing.T) {
	tx := setupTestTx(t)
	repo := NewFeatureRepository(tx)
	ctx := context.Background()

	playerID := seeds.SeedPlayer(t, tx, seeds.PlayerFixture{LastName: testsupport.UniqueName("Receiver")})
	marketID := seeds.SeedMarket(t, tx, testsupport.UniqueCode("rec_yds"), "Receiving Yards", "receiving_yards")

	seeds.SeedFeature(t, tx, seeds.FeatureFixture{
		PlayerID: playerID, MarketID: marketID, Lookback: 5,
		AsOfGameDate: time.Date(2026, 1, 3, 0, 0, 0, 0, time.UTC),
		Mean:         55.0, StdDev: 13.0, WeightedMean: 57.1, Trend: -0.02,
	})
	seeds.SeedFeature(t, tx, seeds.FeatureFixture{
		PlayerID: playerID, MarketID: marketID, Lookback: 5,
		AsOfGameDate: time.Date(2026, 1, 10, 0, 0, 0, 0, time.UTC),
		Opponent:     "NE",
		Mean:         62.4, StdDev: 11.2, WeightedMean: 65.0, Trend: 0.08,
	})

	snap, err := repo.Latest(ctx, playerID, marketID, 5)
	require.NoError(t, err)
	assert.Equal(t, "2026-01-10", snap.AsOfGameDate.Format("2006-01-02"))
	assert.Equal(t, []float64{62.4, 11.2, 65.0, 0.08}, snap.Vector())
	require.NotNil(t, snap.Opponent)
	assert.Equal(t, "NE", *snap.Opponent)
}

func TestFeatureRepository_LatestWrongLookback(t *testing.T) {
	tx := setupTestTx(t)
	repo := NewFeatureRepository(tx)
	ctx := context.Background()

	playerID := seeds.SeedPlayer(t, tx, seeds.PlayerFixture{LastName: testsupport.UniqueName("Receiver")})
	marketID := seeds.SeedMarket(t, tx, testsupport.UniqueCode("rec_yds"), "Receiving Yards", "receiving_yards")

	seeds.SeedFeature(t, tx, seeds.FeatureFixture{
		PlayerID: playerID, MarketID: marketID, Lookback: 5,
		AsOfGameDate: time.Date(2026, 1, 10, 0, 0, 0, 0, time.UTC),
		Mean:         62.4, StdDev: 11.2, WeightedMean: 65.0, Trend: 0.08,
	})

	// Rows exist for lookback 5 only
	_, err := repo.Latest(ctx, playerID, marketID, 10)
	assert.True(t, errors.Is(err, errors.ErrFeatureNotFound))
}
