package registry

import "time"

// ActiveModelBinding declares which trained artifact currently serves a
// market. Exactly one row per market; written only by the training job,
// read by the serving core on every request.
//
// Lookback on the binding is the only lookback the core may serve for the
// market. Requests asking for anything else are rejected, never coerced.
type ActiveModelBinding struct {
	MarketID     int64     `db:"market_id"`
	ModelName    string    `db:"model_name"`
	Lookback     int       `db:"lookback"`
	ArtifactPath string    `db:"artifact_path"`
	UpdatedAt    time.Time `db:"updated_at"`
}

// TrainedModel is the training job's registry row for one trained artifact,
// kept for diagnostics (evaluation metrics alongside the artifact path)
type TrainedModel struct {
	ModelName    string    `db:"model_name" json:"model_name"`
	MarketID     int64     `db:"market_id" json:"market_id"`
	Lookback     int       `db:"lookback" json:"lookback"`
	ArtifactPath string    `db:"artifact_path" json:"artifact_path"`
	TrainRows    int       `db:"train_rows" json:"train_rows"`
	TestRows     int       `db:"test_rows" json:"test_rows"`
	MAE          float64   `db:"mae" json:"mae"`
	RMSE         float64   `db:"rmse" json:"rmse"`
	R2           float64   `db:"r2" json:"r2"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}
