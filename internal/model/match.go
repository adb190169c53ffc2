package model

import "time"

// PlayerStatus classifies roster membership
type PlayerStatus string

const (
	StatusConfirmed PlayerStatus = "CONFIRMED"
	StatusWaitlist  PlayerStatus = "WAITLIST"
)

// Player is one entry in a match roster. Order within the roster is
// significant: it determines waitlist promotion order.
type Player struct {
	ID       string
	Name     string
	Username string
	Source   IdentitySource
	Status   PlayerStatus
}

// Match is a single pickup match with its roster
type Match struct {
	// ID is empty until the match store assigns one
	ID string
	// LocalKey is a process-local handle for not-yet-saved matches.
	// It is never sent to the store and never participates in
	// identity matching.
	LocalKey    string
	Title       string
	Date        string
	Time        string
	Location    string
	LocationURL string
	MaxPlayers  int
	Notes       string
	CreatedBy   string
	Players     []Player
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// IsEphemeral reports whether the match has no store-assigned id yet.
// Membership operations are forbidden on ephemeral matches.
func (m *Match) IsEphemeral() bool {
	return m.ID == ""
}

// Key returns the catalog key for this match: the store id, or the
// process-local key while the match is ephemeral.
func (m *Match) Key() string {
	if m.ID != "" {
		return m.ID
	}
	return m.LocalKey
}

// ClonePlayers returns a copy of the roster, used to snapshot state
// before an optimistic mutation.
func (m *Match) ClonePlayers() []Player {
	out := make([]Player, len(m.Players))
	copy(out, m.Players)
	return out
}
