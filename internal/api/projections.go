package api

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"gridiron/internal/domain/projection"
	"gridiron/internal/domain/registry"
	projectionsvc "gridiron/internal/services/projection"
)

const (
	defaultLookback = 5
	maxLookback     = 50
	defaultHistory  = 20
	maxHistory      = 200

	defaultBaselineModel = "baseline_lb5"
)

// ProjectionService is the slice of the projection service the handlers use
type ProjectionService interface {
	Project(ctx context.Context, req projectionsvc.Request) (*projectionsvc.Result, error)
	History(ctx context.Context, filter projection.HistoryFilter) ([]projection.Record, error)
	Baseline(ctx context.Context, playerID int64, marketCode, modelName string) (*projection.Baseline, error)
	TrainedModels(ctx context.Context, marketCode string) ([]registry.TrainedModel, error)
}

// ProjectionHandler serves the projection endpoints
type ProjectionHandler struct {
	projections ProjectionService
}

// NewProjectionHandler creates the projection handler
func NewProjectionHandler(projections ProjectionService) *ProjectionHandler {
	return &ProjectionHandler{projections: projections}
}

type projectionResponse struct {
	PlayerID     int64              `json:"player_id"`
	MarketCode   string             `json:"market_code"`
	ModelName    string             `json:"model_name"`
	Lookback     int                `json:"lookback"`
	AsOfGameDate string             `json:"as_of_game_date"`
	Opponent     *string            `json:"opponent"`
	Prediction   float64            `json:"prediction"`
	Features     map[string]float64 `json:"features"`
}

// HandleProject serves GET /api/v1/players/{player_id}/projection_ml
func (h *ProjectionHandler) HandleProject(w http.ResponseWriter, r *http.Request) {
	playerID, err := pathID(r, "player_id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	marketCode, err := requireParam(r, "market_code")
	if err != nil {
		writeError(w, r, err)
		return
	}
	lookback, err := intParam(r, "lookback", defaultLookback, 1, maxLookback)
	if err != nil {
		writeError(w, r, err)
		return
	}

	result, err := h.projections.Project(r.Context(), projectionsvc.Request{
		RequestID:  RequestIDFromContext(r.Context()),
		PlayerID:   playerID,
		MarketCode: marketCode,
		Lookback:   lookback,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, projectionResponse{
		PlayerID:     result.PlayerID,
		MarketCode:   result.MarketCode,
		ModelName:    result.ModelName,
		Lookback:     result.Lookback,
		AsOfGameDate: result.AsOfGameDate.Format("2006-01-02"),
		Opponent:     result.Opponent,
		Prediction:   result.Prediction,
		Features:     result.Features,
	})
}

type historyRow struct {
	ModelName    string             `json:"model_name"`
	Lookback     int                `json:"lookback"`
	AsOfGameDate string             `json:"as_of_game_date"`
	Prediction   float64            `json:"prediction"`
	Features     map[string]float64 `json:"features"`
	CreatedAt    time.Time          `json:"created_at"`
}

// HandleHistory serves GET /api/v1/players/{player_id}/ml_projections
func (h *ProjectionHandler) HandleHistory(w http.ResponseWriter, r *http.Request) {
	playerID, err := pathID(r, "player_id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	marketCode, err := requireParam(r, "market_code")
	if err != nil {
		writeError(w, r, err)
		return
	}
	modelName, err := requireParam(r, "model_name")
	if err != nil {
		writeError(w, r, err)
		return
	}
	lookback, err := intParam(r, "lookback", defaultLookback, 1, maxLookback)
	if err != nil {
		writeError(w, r, err)
		return
	}
	limit, err := intParam(r, "limit", defaultHistory, 1, maxHistory)
	if err != nil {
		writeError(w, r, err)
		return
	}

	records, err := h.projections.History(r.Context(), projection.HistoryFilter{
		PlayerID:   playerID,
		MarketCode: marketCode,
		ModelName:  modelName,
		Lookback:   lookback,
		Limit:      limit,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}

	rows := make([]historyRow, 0, len(records))
	for _, rec := range records {
		row := historyRow{
			ModelName:    rec.ModelName,
			Lookback:     rec.Lookback,
			AsOfGameDate: rec.AsOfGameDate.Format("2006-01-02"),
			Prediction:   rec.Prediction,
			CreatedAt:    rec.CreatedAt,
		}
		// Stored as JSONB; a row that predates the features column decodes
		// to nil and is rendered as such
		_ = unmarshalFeatures(rec.Features, &row.Features)
		rows = append(rows, row)
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"player_id":   playerID,
		"market_code": marketCode,
		"rows":        rows,
	})
}

type baselineResponse struct {
	PlayerID  int64   `json:"player_id"`
	ModelName string  `json:"model_name"`
	GameDate  string  `json:"game_date"`
	Opponent  *string `json:"opponent"`
	Mean      float64 `json:"mean"`
	StdDev    float64 `json:"stddev"`
	POver     float64 `json:"p_over"`
}

// HandleBaseline serves GET /api/v1/players/{player_id}/projection_baseline
func (h *ProjectionHandler) HandleBaseline(w http.ResponseWriter, r *http.Request) {
	playerID, err := pathID(r, "player_id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	marketCode, err := requireParam(r, "market_code")
	if err != nil {
		writeError(w, r, err)
		return
	}
	modelName := r.URL.Query().Get("model_name")
	if modelName == "" {
		modelName = defaultBaselineModel
	}

	baseline, err := h.projections.Baseline(r.Context(), playerID, marketCode, modelName)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, baselineResponse{
		PlayerID:  baseline.PlayerID,
		ModelName: baseline.ModelName,
		GameDate:  baseline.GameDate.Format("2006-01-02"),
		Opponent:  baseline.Opponent,
		Mean:      baseline.Mean,
		StdDev:    baseline.StdDev,
		POver:     baseline.POver,
	})
}

func unmarshalFeatures(raw json.RawMessage, dst *map[string]float64) error {
	if len(raw) == 0 {
		return nil
	}
	return json.Unmarshal(raw, dst)
}

// HandleTrainedModels serves GET /api/v1/markets/{market_code}/models
func (h *ProjectionHandler) HandleTrainedModels(w http.ResponseWriter, r *http.Request) {
	marketCode := r.PathValue("market_code")

	models, err := h.projections.TrainedModels(r.Context(), marketCode)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"market_code": marketCode,
		"models":      models,
	})
}
