package market

import "context"

// Repository defines read-only access to the market directory
type Repository interface {
	GetByCode(ctx context.Context, code string) (*Market, error)
	List(ctx context.Context) ([]Market, error)
}
