package catalog

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/openfield/pickup/internal/dependencies/random"
	"github.com/openfield/pickup/internal/model"
	"github.com/openfield/pickup/internal/services/roster"
)

// Alias tables for fields whose names drifted across store versions.
// Earlier aliases win when a document carries several.
var (
	idAliases          = []string{"id", "matchId", "match_id", "matchID", "uuid", "matchUUID"}
	titleAliases       = []string{"title", "name"}
	dateAliases        = []string{"date", "matchDate", "match_date"}
	timeAliases        = []string{"time", "startTime", "start_time"}
	locationAliases    = []string{"location", "venue", "place"}
	locationURLAliases = []string{"locationUrl", "location_url", "mapUrl", "map_url"}
	maxPlayersAliases  = []string{"maxPlayers", "max_players", "capacity", "playerLimit", "player_limit"}
	notesAliases       = []string{"notes", "description", "comment"}
	createdByAliases   = []string{"createdBy", "created_by", "creator", "owner"}
	playersAliases     = []string{"players", "roster", "participants"}

	playerIDAliases       = []string{"id", "playerId", "player_id", "userId", "user_id"}
	playerNameAliases     = []string{"name", "displayName", "display_name", "fullName", "full_name"}
	playerUsernameAliases = []string{"username", "handle", "nick"}
)

const localKeyAlphabet = "abcdefghijklmnopqrstuvwxyz0123456789"

// Normalizer converts raw match documents from the store (or older
// local snapshots) into the canonical Match shape. Store documents are
// not trusted to be well-formed: fields may be missing, renamed, or
// hold the wrong type.
type Normalizer struct {
	random random.Random
}

// NewNormalizer creates a Normalizer
func NewNormalizer(rnd random.Random) *Normalizer {
	return &Normalizer{random: rnd}
}

// Match normalizes a single raw match document. It never fails: a
// document that cannot be parsed at all yields an empty ephemeral
// match rather than an error, so that one bad document does not take
// down a whole catalog refresh.
func (n *Normalizer) Match(raw json.RawMessage) *model.Match {
	var doc map[string]json.RawMessage
	if err := json.Unmarshal(raw, &doc); err != nil {
		doc = nil
	}

	m := &model.Match{
		ID:          stringField(doc, idAliases),
		Title:       stringField(doc, titleAliases),
		Date:        stringField(doc, dateAliases),
		Time:        stringField(doc, timeAliases),
		Location:    stringField(doc, locationAliases),
		LocationURL: stringField(doc, locationURLAliases),
		Notes:       stringField(doc, notesAliases),
		CreatedBy:   stringField(doc, createdByAliases),
	}

	m.MaxPlayers = roster.CoerceCapacity(anyField(doc, maxPlayersAliases))
	m.Players = n.players(doc)

	// Matches without a store id need a process-local handle so the
	// catalog can still track them.
	if m.ID == "" {
		m.LocalKey = n.LocalKey()
	}

	inferStatuses(m)
	return m
}

// LocalKey mints a fresh process-local handle for an ephemeral match
func (n *Normalizer) LocalKey() string {
	return "local_" + n.random.String(12, localKeyAlphabet)
}

// players extracts and normalizes the roster from a raw document
func (n *Normalizer) players(doc map[string]json.RawMessage) []model.Player {
	var rawList []json.RawMessage
	for _, key := range playersAliases {
		v, ok := doc[key]
		if !ok {
			continue
		}
		if err := json.Unmarshal(v, &rawList); err == nil {
			break
		}
		rawList = nil
	}

	players := make([]model.Player, 0, len(rawList))
	for i, rawPlayer := range rawList {
		p, ok := n.player(rawPlayer, i)
		if !ok {
			continue
		}
		players = append(players, p)
	}
	return players
}

// player normalizes one roster entry. Legacy rosters store players as
// bare name strings; those get a synthesized positional id and count
// as guests.
func (n *Normalizer) player(raw json.RawMessage, pos int) (model.Player, bool) {
	var name string
	if err := json.Unmarshal(raw, &name); err == nil {
		name = strings.TrimSpace(name)
		if name == "" {
			return model.Player{}, false
		}
		return model.Player{
			ID:     fmt.Sprintf("p-%d", pos+1),
			Name:   name,
			Source: model.SourceGuest,
		}, true
	}

	var doc map[string]json.RawMessage
	if err := json.Unmarshal(raw, &doc); err != nil {
		return model.Player{}, false
	}

	p := model.Player{
		ID:       stringField(doc, playerIDAliases),
		Name:     stringField(doc, playerNameAliases),
		Username: stringField(doc, playerUsernameAliases),
		Source:   normalizeSource(stringField(doc, []string{"source"})),
		Status:   normalizeStatus(stringField(doc, []string{"status"})),
	}

	if p.ID == "" && p.Name == "" && p.Username == "" {
		return model.Player{}, false
	}
	if p.ID == "" {
		p.ID = fmt.Sprintf("p-%d", pos+1)
	}
	return p, true
}

// inferStatuses fills in missing player statuses by roster position:
// entries within capacity are confirmed, the rest waitlisted. Explicit
// statuses from the store are kept as-is.
func inferStatuses(m *model.Match) {
	capacity := roster.Capacity(m)
	confirmed := 0
	for i := range m.Players {
		if m.Players[i].Status == model.StatusConfirmed {
			confirmed++
			continue
		}
		if m.Players[i].Status == model.StatusWaitlist {
			continue
		}
		if confirmed < capacity {
			m.Players[i].Status = model.StatusConfirmed
			confirmed++
		} else {
			m.Players[i].Status = model.StatusWaitlist
		}
	}
}

func normalizeStatus(s string) model.PlayerStatus {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "CONFIRMED":
		return model.StatusConfirmed
	case "WAITLIST", "WAITLISTED", "WAITING":
		return model.StatusWaitlist
	default:
		return ""
	}
}

func normalizeSource(s string) model.IdentitySource {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "telegram":
		return model.SourceTelegram
	case "user":
		return model.SourceUser
	default:
		return model.SourceGuest
	}
}

// stringField returns the first alias present in the document that
// holds a usable string. Numbers are stringified because some store
// versions wrote numeric ids.
func stringField(doc map[string]json.RawMessage, aliases []string) string {
	for _, key := range aliases {
		raw, ok := doc[key]
		if !ok {
			continue
		}
		var s string
		if err := json.Unmarshal(raw, &s); err == nil {
			return strings.TrimSpace(s)
		}
		var num json.Number
		if err := json.Unmarshal(raw, &num); err == nil {
			return num.String()
		}
	}
	return ""
}

// anyField returns the first alias present in the document, decoded
// into a generic value, or nil when no alias is set.
func anyField(doc map[string]json.RawMessage, aliases []string) any {
	for _, key := range aliases {
		raw, ok := doc[key]
		if !ok {
			continue
		}
		var v any
		if err := json.Unmarshal(raw, &v); err == nil && v != nil {
			return v
		}
	}
	return nil
}
