package feature

import "time"

// Columns is the fixed feature schema, in the exact order the model consumes
// them. Training and serving share this contract; reordering it silently
// corrupts every prediction, so it is a constant, not configuration.
var Columns = []string{"mean", "stddev", "weighted_mean", "trend"}

// Snapshot is one engineered feature row for a player/market/lookback as of a
// game date. Written by the feature job; immutable afterwards. Multiple rows
// exist per key (one per historical game date); serving always takes the
// latest.
type Snapshot struct {
	PlayerID     int64     `db:"player_id"`
	MarketID     int64     `db:"market_id"`
	Lookback     int       `db:"lookback"`
	AsOfGameDate time.Time `db:"as_of_game_date"`
	Opponent     *string   `db:"opponent"`
	Mean         float64   `db:"mean"`
	StdDev       float64   `db:"stddev"`
	WeightedMean float64   `db:"weighted_mean"`
	Trend        float64   `db:"trend"`
}

// Vector returns the feature values positionally, in Columns order
func (s *Snapshot) Vector() []float64 {
	return []float64{s.Mean, s.StdDev, s.WeightedMean, s.Trend}
}

// Map returns the named feature values, for echoing back to callers and for
// the persisted features JSON
func (s *Snapshot) Map() map[string]float64 {
	return map[string]float64{
		"mean":          s.Mean,
		"stddev":        s.StdDev,
		"weighted_mean": s.WeightedMean,
		"trend":         s.Trend,
	}
}
