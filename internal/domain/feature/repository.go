package feature

import "context"

// Repository defines read-only access to the feature store
type Repository interface {
	// Latest returns the snapshot with the maximum as_of_game_date for the
	// player/market/lookback. Fails with errors.ErrFeatureNotFound when no
	// snapshot exists yet; recoverable once the feature job runs.
	Latest(ctx context.Context, playerID, marketID int64, lookback int) (*Snapshot, error)
}
