package api

import (
	"context"
	"net/http"

	"gridiron/internal/domain/market"
	"gridiron/internal/domain/player"
)

const (
	defaultPlayerLimit = 50
	maxPlayerLimit     = 500
	maxPlayerOffset    = 1000000
)

// PlayerService is the slice of the player directory service the handlers use
type PlayerService interface {
	GetByID(ctx context.Context, id int64) (*player.Player, error)
	List(ctx context.Context, filter player.ListFilter, includeTotal bool) ([]player.Player, int, error)
}

// PlayerHandler serves the player directory and market enumeration endpoints
type PlayerHandler struct {
	players PlayerService
	markets market.Repository
}

// NewPlayerHandler creates the player directory handler
func NewPlayerHandler(players PlayerService, markets market.Repository) *PlayerHandler {
	return &PlayerHandler{players: players, markets: markets}
}

type playerResponse struct {
	ID         int64   `json:"id"`
	FullName   string  `json:"full_name"`
	FirstName  string  `json:"first_name"`
	LastName   string  `json:"last_name"`
	Position   *string `json:"position,omitempty"`
	Team       *string `json:"team,omitempty"`
	ExternalID *string `json:"external_id,omitempty"`
}

func toPlayerResponse(p *player.Player) playerResponse {
	return playerResponse{
		ID:         p.ID,
		FullName:   p.FullName(),
		FirstName:  p.FirstName,
		LastName:   p.LastName,
		Position:   p.Position,
		Team:       p.Team,
		ExternalID: p.ExternalID,
	}
}

// HandleGet serves GET /api/v1/players/{player_id}
func (h *PlayerHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	playerID, err := pathID(r, "player_id")
	if err != nil {
		writeError(w, r, err)
		return
	}

	p, err := h.players.GetByID(r.Context(), playerID)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, toPlayerResponse(p))
}

// HandleList serves GET /api/v1/players
func (h *PlayerHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	limit, err := intParam(r, "limit", defaultPlayerLimit, 1, maxPlayerLimit)
	if err != nil {
		writeError(w, r, err)
		return
	}
	offset, err := intParam(r, "offset", 0, 0, maxPlayerOffset)
	if err != nil {
		writeError(w, r, err)
		return
	}

	includeTotal := r.URL.Query().Get("include_total") == "true"

	players, total, err := h.players.List(r.Context(), player.ListFilter{
		Search: r.URL.Query().Get("search"),
		Limit:  limit,
		Offset: offset,
	}, includeTotal)
	if err != nil {
		writeError(w, r, err)
		return
	}

	rows := make([]playerResponse, 0, len(players))
	for i := range players {
		rows = append(rows, toPlayerResponse(&players[i]))
	}

	body := map[string]interface{}{
		"players": rows,
		"limit":   limit,
		"offset":  offset,
	}
	if includeTotal {
		body["total"] = total
	}

	writeJSON(w, http.StatusOK, body)
}

// HandleMarkets serves GET /api/v1/markets
func (h *PlayerHandler) HandleMarkets(w http.ResponseWriter, r *http.Request) {
	markets, err := h.markets.List(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"markets": markets,
	})
}
