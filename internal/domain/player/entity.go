package player

// Player is an identity record owned by the ingestion job.
// The serving core only ever reads it.
type Player struct {
	ID         int64   `db:"id" json:"id"`
	ExternalID *string `db:"external_id" json:"external_id,omitempty"`
	FirstName  string  `db:"first_name" json:"first_name"`
	LastName   string  `db:"last_name" json:"last_name"`
	Position   *string `db:"position" json:"position,omitempty"`
	Team       *string `db:"team" json:"team,omitempty"`
}

// FullName returns "First Last" the way the directory endpoints render it
func (p *Player) FullName() string {
	return p.FirstName + " " + p.LastName
}

// ListFilter controls directory listing
type ListFilter struct {
	// Search matches case-insensitively against full name, first name,
	// last name, team, position and external id
	Search string
	Limit  int
	Offset int
}
