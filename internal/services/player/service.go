package player

import (
	"context"

	"gridiron/internal/domain/player"
	"gridiron/pkg/logger"
)

// Service handles player directory reads. The directory is owned by the
// ingestion job; this service only reads it.
type Service struct {
	players player.Repository
	log     *logger.Logger
}

// NewService creates a new player directory service
func NewService(players player.Repository, log *logger.Logger) *Service {
	return &Service{
		players: players,
		log:     log.With("service", "player"),
	}
}

// GetByID retrieves a single player
func (s *Service) GetByID(ctx context.Context, id int64) (*player.Player, error) {
	return s.players.GetByID(ctx, id)
}

// List retrieves players with optional search and pagination.
// When includeTotal is set, also counts all rows matching the filter.
func (s *Service) List(ctx context.Context, filter player.ListFilter, includeTotal bool) ([]player.Player, int, error) {
	if filter.Limit <= 0 {
		filter.Limit = 50
	}

	players, err := s.players.List(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	total := -1
	if includeTotal {
		if total, err = s.players.Count(ctx, filter); err != nil {
			return nil, 0, err
		}
	}

	return players, total, nil
}
