package registry

import "context"

// Repository defines read-only access to the model registry.
// The training job is the single writer of both tables.
type Repository interface {
	// GetActive returns the binding currently serving a market.
	// Fails with errors.ErrNoActiveModel when the market has never had a
	// model bound.
	GetActive(ctx context.Context, marketID int64) (*ActiveModelBinding, error)

	// ListTrained returns all trained model rows for a market, newest first
	ListTrained(ctx context.Context, marketID int64) ([]TrainedModel, error)
}
