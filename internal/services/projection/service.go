package projection

import (
	"context"
	"encoding/json"
	"time"

	clickhouserepo "gridiron/internal/repository/clickhouse"

	"gridiron/internal/domain/feature"
	"gridiron/internal/domain/market"
	"gridiron/internal/domain/player"
	"gridiron/internal/domain/projection"
	"gridiron/internal/domain/registry"
	"gridiron/internal/events"
	"gridiron/internal/metrics"
	"gridiron/internal/ml"
	"gridiron/pkg/errors"
	"gridiron/pkg/logger"
)

// Request is one projection request after HTTP-level validation
type Request struct {
	RequestID  string
	PlayerID   int64
	MarketCode string
	Lookback   int
}

// Result is the served projection, echoing everything the caller needs to
// audit the prediction: the vector used and the model identity
type Result struct {
	PlayerID     int64
	MarketCode   string
	ModelName    string
	Lookback     int
	AsOfGameDate time.Time
	Opponent     *string
	Prediction   float64
	Features     map[string]float64
	ArtifactPath string
}

// ArtifactLoader supplies callable model artifacts by path.
// Satisfied by *ml.Loader.
type ArtifactLoader interface {
	Load(path string) (ml.Artifact, error)
}

// Service runs the model-versioned projection pipeline.
//
// Every stage is a gate: resolve market and binding, validate the lookback,
// fetch the latest feature snapshot, load the artifact, infer, persist.
// A failure at any gate aborts the request with a distinct error; there is
// no partial projection and no automatic retry.
type Service struct {
	players     player.Repository
	markets     market.Repository
	registry    registry.Repository
	features    feature.Repository
	projections projection.Repository
	baselines   projection.BaselineRepository
	loader      ArtifactLoader

	publisher *events.Publisher           // optional
	audit     *clickhouserepo.AuditWriter // optional

	log *logger.Logger
}

// NewService creates the projection service. Publisher and audit may be nil;
// the pipeline never depends on observability collaborators being up.
func NewService(
	players player.Repository,
	markets market.Repository,
	modelRegistry registry.Repository,
	features feature.Repository,
	projections projection.Repository,
	baselines projection.BaselineRepository,
	loader ArtifactLoader,
	publisher *events.Publisher,
	audit *clickhouserepo.AuditWriter,
	log *logger.Logger,
) *Service {
	return &Service{
		players:     players,
		markets:     markets,
		registry:    modelRegistry,
		features:    features,
		projections: projections,
		baselines:   baselines,
		loader:      loader,
		publisher:   publisher,
		audit:       audit,
		log:         log.With("service", "projection"),
	}
}

// Project resolves the active model for the market, validates the requested
// lookback against it, fetches the latest features, runs inference and
// idempotently records the outcome.
func (s *Service) Project(ctx context.Context, req Request) (*Result, error) {
	start := time.Now()

	if _, err := s.players.GetByID(ctx, req.PlayerID); err != nil {
		return nil, s.fail(ctx, req, "", start, "player_not_found", err)
	}

	m, err := s.markets.GetByCode(ctx, req.MarketCode)
	if err != nil {
		return nil, s.fail(ctx, req, "", start, "market_not_found", err)
	}

	binding, err := s.registry.GetActive(ctx, m.ID)
	if err != nil {
		return nil, s.fail(ctx, req, "", start, "no_active_model", err)
	}

	// The binding's lookback is the only window this market serves.
	// A mismatched request is rejected before any feature retrieval: a
	// model fed a window it was not trained on would return a number
	// computed from the wrong horizon, silently.
	if binding.Lookback != req.Lookback {
		err := errors.NewLookbackMismatch(binding.Lookback, req.Lookback)
		return nil, s.fail(ctx, req, binding.ModelName, start, "lookback_mismatch", err)
	}

	snap, err := s.features.Latest(ctx, req.PlayerID, m.ID, binding.Lookback)
	if err != nil {
		return nil, s.fail(ctx, req, binding.ModelName, start, "feature_not_found", err)
	}

	artifact, err := s.loader.Load(binding.ArtifactPath)
	if err != nil {
		if errors.Is(err, errors.ErrArtifactMissing) {
			// The registry points at a file that is not there; an
			// operational fault that needs an operator, not the caller.
			s.log.ErrorWithContext(ctx, err, map[string]string{
				"market_code":   req.MarketCode,
				"model_name":    binding.ModelName,
				"artifact_path": binding.ArtifactPath,
			})
		}
		return nil, s.fail(ctx, req, binding.ModelName, start, "artifact_missing", err)
	}

	vector := snap.Vector()
	prediction, err := artifact.Predict(vector)
	if err != nil {
		// Contract violation between training and serving, not transient
		wrapped := errors.Wrapf(errors.ErrInference, "model %s: %v", binding.ModelName, err)
		return nil, s.fail(ctx, req, binding.ModelName, start, "inference_error", wrapped)
	}

	featuresJSON, err := json.Marshal(snap.Map())
	if err != nil {
		return nil, s.fail(ctx, req, binding.ModelName, start, "internal_error", err)
	}

	rec := &projection.Record{
		PlayerID:     req.PlayerID,
		MarketCode:   req.MarketCode,
		ModelName:    binding.ModelName,
		Lookback:     binding.Lookback,
		AsOfGameDate: snap.AsOfGameDate,
		Prediction:   prediction,
		Features:     featuresJSON,
	}
	if err := s.projections.Upsert(ctx, rec); err != nil {
		return nil, s.fail(ctx, req, binding.ModelName, start, "write_error",
			errors.Wrap(err, "failed to persist projection"))
	}

	metrics.RecordProjection(req.MarketCode, "success", time.Since(start))
	metrics.RecordPrediction(req.MarketCode, binding.ModelName, prediction)

	s.publishCreated(ctx, req, binding, snap.AsOfGameDate, prediction)
	s.recordAudit(ctx, req, binding.ModelName, "success", "", prediction, start)

	s.log.Infow("Projection served",
		"request_id", req.RequestID,
		"player_id", req.PlayerID,
		"market_code", req.MarketCode,
		"model_name", binding.ModelName,
		"lookback", binding.Lookback,
		"as_of_game_date", snap.AsOfGameDate.Format("2006-01-02"),
		"prediction", prediction,
	)

	return &Result{
		PlayerID:     req.PlayerID,
		MarketCode:   req.MarketCode,
		ModelName:    binding.ModelName,
		Lookback:     binding.Lookback,
		AsOfGameDate: snap.AsOfGameDate,
		Opponent:     snap.Opponent,
		Prediction:   prediction,
		Features:     snap.Map(),
		ArtifactPath: binding.ArtifactPath,
	}, nil
}

// History returns previously recorded projections, newest game date first.
// Absence of rows is a valid empty result, unlike the pipeline gates.
func (s *Service) History(ctx context.Context, filter projection.HistoryFilter) ([]projection.Record, error) {
	if filter.Limit <= 0 {
		filter.Limit = 20
	}
	return s.projections.History(ctx, filter)
}

// Baseline returns the latest precomputed statistical projection; a pure
// read of a batch collaborator's output, no inference involved
func (s *Service) Baseline(ctx context.Context, playerID int64, marketCode, modelName string) (*projection.Baseline, error) {
	if _, err := s.players.GetByID(ctx, playerID); err != nil {
		return nil, err
	}

	m, err := s.markets.GetByCode(ctx, marketCode)
	if err != nil {
		return nil, err
	}

	return s.baselines.Latest(ctx, playerID, m.ID, modelName)
}

// TrainedModels lists the training registry rows for a market, for
// diagnostics alongside the active binding
func (s *Service) TrainedModels(ctx context.Context, marketCode string) ([]registry.TrainedModel, error) {
	m, err := s.markets.GetByCode(ctx, marketCode)
	if err != nil {
		return nil, err
	}
	return s.registry.ListTrained(ctx, m.ID)
}

// fail records the outcome of a gated failure and passes the error through
func (s *Service) fail(ctx context.Context, req Request, modelName string, start time.Time, status string, err error) error {
	metrics.RecordProjection(req.MarketCode, status, time.Since(start))
	s.recordAudit(ctx, req, modelName, status, err.Error(), 0, start)
	return err
}

func (s *Service) publishCreated(ctx context.Context, req Request, binding *registry.ActiveModelBinding, gameDate time.Time, prediction float64) {
	if s.publisher == nil {
		return
	}
	s.publisher.PublishProjectionCreated(ctx, events.ProjectionCreatedEvent{
		RequestID:    req.RequestID,
		PlayerID:     req.PlayerID,
		MarketCode:   req.MarketCode,
		ModelName:    binding.ModelName,
		Lookback:     binding.Lookback,
		AsOfGameDate: gameDate.Format("2006-01-02"),
		Prediction:   prediction,
		CreatedAt:    time.Now(),
	})
}

func (s *Service) recordAudit(ctx context.Context, req Request, modelName, status, detail string, prediction float64, start time.Time) {
	if s.audit == nil {
		return
	}
	s.audit.Record(ctx, clickhouserepo.AuditEvent{
		RequestID:  req.RequestID,
		PlayerID:   req.PlayerID,
		MarketCode: req.MarketCode,
		ModelName:  modelName,
		Lookback:   int32(req.Lookback),
		Status:     status,
		Detail:     detail,
		Prediction: prediction,
		LatencyMS:  float64(time.Since(start).Microseconds()) / 1000.0,
	})
}
