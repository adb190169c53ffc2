package roster

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/openfield/pickup/internal/model"
)

const (
	// DefaultCapacity is used when a match does not specify one
	DefaultCapacity = 12
	// MinCapacity is the smallest capacity a match may have
	MinCapacity = 2
)

// Capacity returns the confirmed-player capacity of a match.
// It never returns less than MinCapacity, and falls back to
// DefaultCapacity when the match does not set one.
func Capacity(m *model.Match) int {
	c := m.MaxPlayers
	if c == 0 {
		c = DefaultCapacity
	}
	if c < MinCapacity {
		return MinCapacity
	}
	return c
}

// CoerceCapacity converts a raw capacity value of unknown type into a
// valid capacity. Non-numeric or missing values fall back to
// DefaultCapacity; anything below MinCapacity is raised to it.
func CoerceCapacity(v any) int {
	c := DefaultCapacity
	switch n := v.(type) {
	case int:
		c = n
	case int64:
		c = int(n)
	case float64:
		c = int(n)
	case json.Number:
		if f, err := n.Float64(); err == nil {
			c = int(f)
		}
	case string:
		if f, err := strconv.ParseFloat(strings.TrimSpace(n), 64); err == nil {
			c = int(f)
		}
	}
	if c == 0 {
		c = DefaultCapacity
	}
	if c < MinCapacity {
		return MinCapacity
	}
	return c
}

// ConfirmedCount returns the number of players holding a confirmed spot
func ConfirmedCount(m *model.Match) int {
	count := 0
	for _, p := range m.Players {
		if p.Status != model.StatusWaitlist {
			count++
		}
	}
	return count
}

// Add appends a player to the roster unless an existing entry already
// matches it by id, username or name. The new entry is confirmed if a
// spot is free, waitlisted otherwise. Returns false if the player was
// already present (idempotent join).
func Add(m *model.Match, p model.Player) bool {
	for _, existing := range m.Players {
		if matches(existing, p.ID, p.Username, p.Name) {
			return false
		}
	}

	if ConfirmedCount(m) < Capacity(m) {
		p.Status = model.StatusConfirmed
	} else {
		p.Status = model.StatusWaitlist
	}
	m.Players = append(m.Players, p)
	return true
}

// Remove deletes every roster entry matching the reference player and,
// if anything was removed, runs one promotion step. Removing an absent
// player is a no-op, not an error.
func Remove(m *model.Match, ref model.Player) bool {
	kept := m.Players[:0]
	removed := false
	for _, p := range m.Players {
		if matches(p, ref.ID, ref.Username, ref.Name) {
			removed = true
			continue
		}
		kept = append(kept, p)
	}
	m.Players = kept

	if removed {
		Promote(m)
	}
	return removed
}

// Promote confirms the earliest waitlisted player if a spot is free.
// It promotes at most one player per call so that repeated removals
// each release exactly one spot in FIFO order.
func Promote(m *model.Match) bool {
	if ConfirmedCount(m) >= Capacity(m) {
		return false
	}
	for i := range m.Players {
		if m.Players[i].Status == model.StatusWaitlist {
			m.Players[i].Status = model.StatusConfirmed
			return true
		}
	}
	return false
}

// IsJoined reports whether the identity already holds a roster entry.
// Matching falls back from id to username to display name because the
// roster may know the player under a different id than the locally
// cached auth state.
func IsJoined(m *model.Match, id model.Identity) bool {
	for _, p := range m.Players {
		if matches(p, id.ID, id.Username, id.DisplayName) {
			return true
		}
	}
	return false
}

// matches implements the cross-source identity rule: an exact id match,
// or a case/whitespace-insensitive match between any of the name-ish
// fields on either side. Legacy rosters carry plain names only, so
// username and name are compared against each other as well.
func matches(p model.Player, id, username, name string) bool {
	if id != "" && p.ID == id {
		return true
	}
	for _, key := range []string{username, name} {
		key = fold(key)
		if key == "" {
			continue
		}
		if fold(p.Username) == key || fold(p.Name) == key {
			return true
		}
	}
	return false
}

func fold(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
