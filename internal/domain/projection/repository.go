package projection

import "context"

// Repository persists and reads projection records
type Repository interface {
	// Upsert atomically inserts or overwrites the record for its natural
	// key in a single statement. Correct under concurrent writers for the
	// same key: no duplicate rows, last committed write wins.
	Upsert(ctx context.Context, rec *Record) error

	// History returns up to filter.Limit records ordered by
	// as_of_game_date descending. An empty result is valid.
	History(ctx context.Context, filter HistoryFilter) ([]Record, error)
}

// BaselineRepository reads precomputed baseline projections
type BaselineRepository interface {
	// Latest returns the most recent baseline row for the
	// player/market/model. Fails with errors.ErrNotFound when absent.
	Latest(ctx context.Context, playerID, marketID int64, modelName string) (*Baseline, error)
}
