package projection

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"gridiron/internal/domain/feature"
	"gridiron/internal/domain/market"
	"gridiron/internal/domain/player"
	"gridiron/internal/domain/projection"
	"gridiron/internal/domain/registry"
	"gridiron/internal/ml"
	"gridiron/pkg/errors"
	"gridiron/pkg/logger"
)

func testLogger() *logger.Logger {
	zapLogger, _ := zap.NewDevelopment()
	return &logger.Logger{SugaredLogger: zapLogger.Sugar()}
}

// MockPlayerRepository is a mock for player.Repository
type MockPlayerRepository struct {
	mock.Mock
}

func (m *MockPlayerRepository) GetByID(ctx context.Context, id int64) (*player.Player, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*player.Player), args.Error(1)
}

func (m *MockPlayerRepository) List(ctx context.Context, filter player.ListFilter) ([]player.Player, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]player.Player), args.Error(1)
}

func (m *MockPlayerRepository) Count(ctx context.Context, filter player.ListFilter) (int, error) {
	args := m.Called(ctx, filter)
	return args.Int(0), args.Error(1)
}

// MockMarketRepository is a mock for market.Repository
type MockMarketRepository struct {
	mock.Mock
}

func (m *MockMarketRepository) GetByCode(ctx context.Context, code string) (*market.Market, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*market.Market), args.Error(1)
}

func (m *MockMarketRepository) List(ctx context.Context) ([]market.Market, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]market.Market), args.Error(1)
}

// MockRegistryRepository is a mock for registry.Repository
type MockRegistryRepository struct {
	mock.Mock
}

func (m *MockRegistryRepository) GetActive(ctx context.Context, marketID int64) (*registry.ActiveModelBinding, error) {
	args := m.Called(ctx, marketID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*registry.ActiveModelBinding), args.Error(1)
}

func (m *MockRegistryRepository) ListTrained(ctx context.Context, marketID int64) ([]registry.TrainedModel, error) {
	args := m.Called(ctx, marketID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]registry.TrainedModel), args.Error(1)
}

// MockFeatureRepository is a mock for feature.Repository
type MockFeatureRepository struct {
	mock.Mock
}

func (m *MockFeatureRepository) Latest(ctx context.Context, playerID, marketID int64, lookback int) (*feature.Snapshot, error) {
	args := m.Called(ctx, playerID, marketID, lookback)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*feature.Snapshot), args.Error(1)
}

// MockProjectionRepository is a mock for projection.Repository
type MockProjectionRepository struct {
	mock.Mock
}

func (m *MockProjectionRepository) Upsert(ctx context.Context, rec *projection.Record) error {
	args := m.Called(ctx, rec)
	return args.Error(0)
}

func (m *MockProjectionRepository) History(ctx context.Context, filter projection.HistoryFilter) ([]projection.Record, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]projection.Record), args.Error(1)
}

// MockBaselineRepository is a mock for projection.BaselineRepository
type MockBaselineRepository struct {
	mock.Mock
}

func (m *MockBaselineRepository) Latest(ctx context.Context, playerID, marketID int64, modelName string) (*projection.Baseline, error) {
	args := m.Called(ctx, playerID, marketID, modelName)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*projection.Baseline), args.Error(1)
}

// MockLoader is a mock for ArtifactLoader
type MockLoader struct {
	mock.Mock
}

func (m *MockLoader) Load(path string) (ml.Artifact, error) {
	args := m.Called(path)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(ml.Artifact), args.Error(1)
}

type testEnv struct {
	players     *MockPlayerRepository
	markets     *MockMarketRepository
	registry    *MockRegistryRepository
	features    *MockFeatureRepository
	projections *MockProjectionRepository
	baselines   *MockBaselineRepository
	loader      *MockLoader
	service     *Service
}

func newTestEnv() *testEnv {
	env := &testEnv{
		players:     new(MockPlayerRepository),
		markets:     new(MockMarketRepository),
		registry:    new(MockRegistryRepository),
		features:    new(MockFeatureRepository),
		projections: new(MockProjectionRepository),
		baselines:   new(MockBaselineRepository),
		loader:      new(MockLoader),
	}
	env.service = NewService(
		env.players, env.markets, env.registry, env.features,
		env.projections, env.baselines, env.loader,
		nil, nil, testLogger(),
	)
	return env
}

var (
	testPlayer  = &player.Player{ID: 123, FirstName: "Test", LastName: "Receiver"}
	testMarket  = &market.Market{ID: 7, Code: "rec_yds", Name: "Receiving Yards", StatField: "receiving_yards"}
	testBinding = &registry.ActiveModelBinding{
		MarketID:     7,
		ModelName:    "ridge_v1",
		Lookback:     5,
		ArtifactPath: "/models/ridge_v1.bin",
	}
)

func testSnapshot() *feature.Snapshot {
	opp := "NE"
	return &feature.Snapshot{
		PlayerID:     123,
		MarketID:     7,
		Lookback:     5,
		AsOfGameDate: time.Date(2026, 1, 10, 0, 0, 0, 0, time.UTC),
		Opponent:     &opp,
		Mean:         62.4,
		StdDev:       11.2,
		WeightedMean: 65.0,
		Trend:        0.08,
	}
}

// identityArtifact returns the first feature value, making assertions exact
type identityArtifact struct{}

func (identityArtifact) Predict(features []float64) (float64, error) {
	return features[0], nil
}

func TestService_Project_Success(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	artifact, err := ml.NewLinearModel(&ml.LinearParams{
		Coef:      []float64{0.8, -0.1, 0.3, 5.0},
		Intercept: 10.0,
	}, nil)
	require.NoError(t, err)

	env.players.On("GetByID", ctx, int64(123)).Return(testPlayer, nil)
	env.markets.On("GetByCode", ctx, "rec_yds").Return(testMarket, nil)
	env.registry.On("GetActive", ctx, int64(7)).Return(testBinding, nil)
	env.features.On("Latest", ctx, int64(123), int64(7), 5).Return(testSnapshot(), nil)
	env.loader.On("Load", "/models/ridge_v1.bin").Return(artifact, nil)
	env.projections.On("Upsert", ctx, mock.AnythingOfType("*projection.Record")).Return(nil)

	result, err := env.service.Project(ctx, Request{
		PlayerID:   123,
		MarketCode: "rec_yds",
		Lookback:   5,
	})
	require.NoError(t, err)

	// Vector handed to the model is [62.4, 11.2, 65.0, 0.08] in schema order
	expected := 10.0 + 0.8*62.4 - 0.1*11.2 + 0.3*65.0 + 5.0*0.08
	assert.InDelta(t, expected, result.Prediction, 1e-9)
	assert.Equal(t, "ridge_v1", result.ModelName)
	assert.Equal(t, 5, result.Lookback)
	assert.Equal(t, "2026-01-10", result.AsOfGameDate.Format("2006-01-02"))
	assert.Equal(t, map[string]float64{
		"mean":          62.4,
		"stddev":        11.2,
		"weighted_mean": 65.0,
		"trend":         0.08,
	}, result.Features)

	// Persisted record carries the same key, prediction and features
	env.projections.AssertCalled(t, "Upsert", ctx, mock.MatchedBy(func(rec *projection.Record) bool {
		var features map[string]float64
		if err := json.Unmarshal(rec.Features, &features); err != nil {
			return false
		}
		return rec.PlayerID == 123 &&
			rec.MarketCode == "rec_yds" &&
			rec.ModelName == "ridge_v1" &&
			rec.Lookback == 5 &&
			rec.AsOfGameDate.Format("2006-01-02") == "2026-01-10" &&
			features["mean"] == 62.4
	}))
}

func TestService_Project_Deterministic(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	env.players.On("GetByID", ctx, int64(123)).Return(testPlayer, nil)
	env.markets.On("GetByCode", ctx, "rec_yds").Return(testMarket, nil)
	env.registry.On("GetActive", ctx, int64(7)).Return(testBinding, nil)
	env.features.On("Latest", ctx, int64(123), int64(7), 5).Return(testSnapshot(), nil)
	env.loader.On("Load", "/models/ridge_v1.bin").Return(identityArtifact{}, nil)
	env.projections.On("Upsert", ctx, mock.Anything).Return(nil)

	req := Request{PlayerID: 123, MarketCode: "rec_yds", Lookback: 5}

	first, err := env.service.Project(ctx, req)
	require.NoError(t, err)
	second, err := env.service.Project(ctx, req)
	require.NoError(t, err)

	// Model and features held fixed: identical prediction, and each run
	// writes through the same upsert key rather than appending
	assert.Equal(t, first.Prediction, second.Prediction)
	env.projections.AssertNumberOfCalls(t, "Upsert", 2)
}

func TestService_Project_PlayerNotFound(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	env.players.On("GetByID", ctx, int64(999)).Return(nil, errors.ErrPlayerNotFound)

	_, err := env.service.Project(ctx, Request{PlayerID: 999, MarketCode: "rec_yds", Lookback: 5})
	assert.True(t, errors.Is(err, errors.ErrPlayerNotFound))
	env.projections.AssertNotCalled(t, "Upsert", mock.Anything, mock.Anything)
}

func TestService_Project_MarketNotFound(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	env.players.On("GetByID", ctx, int64(123)).Return(testPlayer, nil)
	env.markets.On("GetByCode", ctx, "bogus").Return(nil, errors.ErrMarketNotFound)

	_, err := env.service.Project(ctx, Request{PlayerID: 123, MarketCode: "bogus", Lookback: 5})
	assert.True(t, errors.Is(err, errors.ErrMarketNotFound))
}

func TestService_Project_NoActiveModel(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	env.players.On("GetByID", ctx, int64(123)).Return(testPlayer, nil)
	env.markets.On("GetByCode", ctx, "rec_yds").Return(testMarket, nil)
	env.registry.On("GetActive", ctx, int64(7)).Return(nil, errors.ErrNoActiveModel)

	_, err := env.service.Project(ctx, Request{PlayerID: 123, MarketCode: "rec_yds", Lookback: 5})
	assert.True(t, errors.Is(err, errors.ErrNoActiveModel))
}

func TestService_Project_LookbackMismatch(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	env.players.On("GetByID", ctx, int64(123)).Return(testPlayer, nil)
	env.markets.On("GetByCode", ctx, "rec_yds").Return(testMarket, nil)
	env.registry.On("GetActive", ctx, int64(7)).Return(testBinding, nil)

	_, err := env.service.Project(ctx, Request{PlayerID: 123, MarketCode: "rec_yds", Lookback: 3})
	require.Error(t, err)

	var mismatch *errors.LookbackMismatchError
	require.True(t, errors.As(err, &mismatch))
	assert.Equal(t, 5, mismatch.Bound)
	assert.Equal(t, 3, mismatch.Requested)

	// The gate rejects before feature retrieval or inference
	env.features.AssertNotCalled(t, "Latest", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	env.loader.AssertNotCalled(t, "Load", mock.Anything)
	env.projections.AssertNotCalled(t, "Upsert", mock.Anything, mock.Anything)
}

func TestService_Project_FeatureNotFound(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	env.players.On("GetByID", ctx, int64(123)).Return(testPlayer, nil)
	env.markets.On("GetByCode", ctx, "rec_yds").Return(testMarket, nil)
	env.registry.On("GetActive", ctx, int64(7)).Return(testBinding, nil)
	env.features.On("Latest", ctx, int64(123), int64(7), 5).Return(nil, errors.ErrFeatureNotFound)

	_, err := env.service.Project(ctx, Request{PlayerID: 123, MarketCode: "rec_yds", Lookback: 5})
	assert.True(t, errors.Is(err, errors.ErrFeatureNotFound))
	env.projections.AssertNotCalled(t, "Upsert", mock.Anything, mock.Anything)
}

func TestService_Project_ArtifactMissing(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	env.players.On("GetByID", ctx, int64(123)).Return(testPlayer, nil)
	env.markets.On("GetByCode", ctx, "rec_yds").Return(testMarket, nil)
	env.registry.On("GetActive", ctx, int64(7)).Return(testBinding, nil)
	env.features.On("Latest", ctx, int64(123), int64(7), 5).Return(testSnapshot(), nil)
	env.loader.On("Load", "/models/ridge_v1.bin").
		Return(nil, errors.Wrap(errors.ErrArtifactMissing, "artifact at /models/ridge_v1.bin"))

	_, err := env.service.Project(ctx, Request{PlayerID: 123, MarketCode: "rec_yds", Lookback: 5})
	assert.True(t, errors.Is(err, errors.ErrArtifactMissing))

	// A missing artifact never produces a record
	env.projections.AssertNotCalled(t, "Upsert", mock.Anything, mock.Anything)
}

// failingArtifact simulates a training/serving schema contract violation
type failingArtifact struct{}

func (failingArtifact) Predict(features []float64) (float64, error) {
	return 0, errors.New("expected 22 features, got 4")
}

func TestService_Project_InferenceFailure(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	env.players.On("GetByID", ctx, int64(123)).Return(testPlayer, nil)
	env.markets.On("GetByCode", ctx, "rec_yds").Return(testMarket, nil)
	env.registry.On("GetActive", ctx, int64(7)).Return(testBinding, nil)
	env.features.On("Latest", ctx, int64(123), int64(7), 5).Return(testSnapshot(), nil)
	env.loader.On("Load", "/models/ridge_v1.bin").Return(failingArtifact{}, nil)

	_, err := env.service.Project(ctx, Request{PlayerID: 123, MarketCode: "rec_yds", Lookback: 5})
	assert.True(t, errors.Is(err, errors.ErrInference))

	// A failed inference leaves no partial record
	env.projections.AssertNotCalled(t, "Upsert", mock.Anything, mock.Anything)
}

func TestService_History_DefaultLimit(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	env.projections.On("History", ctx, projection.HistoryFilter{
		PlayerID:   123,
		MarketCode: "rec_yds",
		ModelName:  "ridge_v1",
		Lookback:   5,
		Limit:      20,
	}).Return([]projection.Record{}, nil)

	rows, err := env.service.History(ctx, projection.HistoryFilter{
		PlayerID:   123,
		MarketCode: "rec_yds",
		ModelName:  "ridge_v1",
		Lookback:   5,
	})
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestService_Baseline_NotFound(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	env.players.On("GetByID", ctx, int64(123)).Return(testPlayer, nil)
	env.markets.On("GetByCode", ctx, "rec_yds").Return(testMarket, nil)
	env.baselines.On("Latest", ctx, int64(123), int64(7), "baseline_lb5").
		Return(nil, errors.ErrNotFound)

	_, err := env.service.Baseline(ctx, 123, "rec_yds", "baseline_lb5")
	assert.True(t, errors.Is(err, errors.ErrNotFound))
}

func TestService_TrainedModels(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	models := []registry.TrainedModel{
		{ModelName: "ridge_v2", MarketID: 7, Lookback: 5, MAE: 12.1},
		{ModelName: "ridge_v1", MarketID: 7, Lookback: 5, MAE: 13.4},
	}
	env.markets.On("GetByCode", ctx, "rec_yds").Return(testMarket, nil)
	env.registry.On("ListTrained", ctx, int64(7)).Return(models, nil)

	got, err := env.service.TrainedModels(ctx, "rec_yds")
	require.NoError(t, err)
	assert.Len(t, got, 2)
	assert.Equal(t, "ridge_v2", got[0].ModelName)
}
