package projection

import (
	"encoding/json"
	"time"
)

// Record is the persisted outcome of one inference. At most one row exists
// per natural key (player, market code, model, lookback, game date); repeated
// inferences for the same key overwrite the row, last write wins.
type Record struct {
	PlayerID     int64           `db:"player_id" json:"player_id"`
	MarketCode   string          `db:"market_code" json:"market_code"`
	ModelName    string          `db:"model_name" json:"model_name"`
	Lookback     int             `db:"lookback" json:"lookback"`
	AsOfGameDate time.Time       `db:"as_of_game_date" json:"as_of_game_date"`
	Prediction   float64         `db:"prediction" json:"prediction"`
	Features     json.RawMessage `db:"features" json:"features"`
	CreatedAt    time.Time       `db:"created_at" json:"created_at"`
}

// HistoryFilter selects previously recorded projections
type HistoryFilter struct {
	PlayerID   int64
	MarketCode string
	ModelName  string
	Lookback   int
	Limit      int
}

// Baseline is a precomputed statistical projection row produced by a batch
// collaborator. Served as-is; no inference involved.
type Baseline struct {
	PlayerID  int64     `db:"player_id"`
	MarketID  int64     `db:"market_id"`
	ModelName string    `db:"model_name"`
	GameDate  time.Time `db:"game_date"`
	Opponent  *string   `db:"opponent"`
	Mean      float64   `db:"mean"`
	StdDev    float64   `db:"stddev"`
	POver     float64   `db:"p_over"`
	CreatedAt time.Time `db:"created_at"`
}
