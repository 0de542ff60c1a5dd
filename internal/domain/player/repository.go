package player

import "context"

// Repository defines read-only access to the player directory
type Repository interface {
	GetByID(ctx context.Context, id int64) (*Player, error)
	List(ctx context.Context, filter ListFilter) ([]Player, error)
	Count(ctx context.Context, filter ListFilter) (int, error)
}
