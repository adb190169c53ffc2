package roster

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/openfield/pickup/internal/model"
)

type EngineSuite struct {
	suite.Suite
}

func TestEngineSuite(t *testing.T) {
	suite.Run(t, new(EngineSuite))
}

func (s *EngineSuite) player(id, name string) model.Player {
	return model.Player{ID: id, Name: name, Source: model.SourceUser}
}

// Capacity tests

func (s *EngineSuite) TestCapacityDefaults() {
	m := &model.Match{}
	s.Equal(DefaultCapacity, Capacity(m))
}

func (s *EngineSuite) TestCapacityNeverBelowMinimum() {
	for _, raw := range []int{-5, -1, 1} {
		m := &model.Match{MaxPlayers: raw}
		s.Equal(MinCapacity, Capacity(m))
	}
}

func (s *EngineSuite) TestCapacityPassesThroughValidValues() {
	m := &model.Match{MaxPlayers: 10}
	s.Equal(10, Capacity(m))
}

func (s *EngineSuite) TestCoerceCapacity() {
	cases := []struct {
		name string
		in   any
		want int
	}{
		{"int", 8, 8},
		{"float", 10.0, 10},
		{"numeric string", "14", 14},
		{"padded string", " 6 ", 6},
		{"json number", json.Number("9"), 9},
		{"garbage string", "plenty", DefaultCapacity},
		{"nil", nil, DefaultCapacity},
		{"zero", 0, DefaultCapacity},
		{"below minimum", 1, MinCapacity},
		{"negative", -3, MinCapacity},
	}
	for _, tc := range cases {
		s.Equal(tc.want, CoerceCapacity(tc.in), tc.name)
	}
}

// Add tests

func (s *EngineSuite) TestAddConfirmsWhileSpotsFree() {
	m := &model.Match{ID: "m1", MaxPlayers: 2}

	s.True(Add(m, s.player("u1", "Alice")))
	s.True(Add(m, s.player("u2", "Bob")))

	s.Len(m.Players, 2)
	s.Equal(model.StatusConfirmed, m.Players[0].Status)
	s.Equal(model.StatusConfirmed, m.Players[1].Status)
}

func (s *EngineSuite) TestAddWaitlistsBeyondCapacity() {
	m := &model.Match{ID: "m1", MaxPlayers: 2}
	Add(m, s.player("u1", "Alice"))
	Add(m, s.player("u2", "Bob"))

	s.True(Add(m, s.player("u3", "Carol")))

	s.Len(m.Players, 3)
	s.Equal(model.StatusWaitlist, m.Players[2].Status)
	s.Equal(2, ConfirmedCount(m))
}

func (s *EngineSuite) TestAddIsIdempotent() {
	m := &model.Match{ID: "m1", MaxPlayers: 4}
	Add(m, s.player("u1", "Alice"))

	before := m.ClonePlayers()
	s.False(Add(m, s.player("u1", "Alice")))
	s.Equal(before, m.Players)
}

func (s *EngineSuite) TestAddRejectsNameCollisionAcrossSources() {
	// Legacy rosters carry plain names; a signed-in user with the same
	// display name must not produce a duplicate entry.
	m := &model.Match{ID: "m1", MaxPlayers: 4}
	Add(m, model.Player{ID: "p-1", Name: "Dave", Source: model.SourceGuest})

	s.False(Add(m, model.Player{ID: "u9", Name: " dave ", Source: model.SourceUser}))
	s.Len(m.Players, 1)
}

func (s *EngineSuite) TestConfirmedNeverExceedsCapacity() {
	m := &model.Match{ID: "m1", MaxPlayers: 3}
	names := []string{"a", "b", "c", "d", "e", "f"}
	for i, n := range names {
		Add(m, s.player(n, n))
		if i%2 == 1 {
			Remove(m, model.Player{ID: names[i-1]})
		}
		s.LessOrEqual(ConfirmedCount(m), Capacity(m))
	}
}

// Remove and promotion tests

func (s *EngineSuite) TestRemoveAbsentPlayerIsNoop() {
	m := &model.Match{ID: "m1", MaxPlayers: 2}
	Add(m, s.player("u1", "Alice"))

	s.False(Remove(m, model.Player{ID: "ghost"}))
	s.Len(m.Players, 1)
}

func (s *EngineSuite) TestRemovePromotesEarliestWaitlisted() {
	m := &model.Match{ID: "m1", MaxPlayers: 2}
	Add(m, s.player("u1", "A"))
	Add(m, s.player("u2", "B"))
	Add(m, s.player("u3", "C"))
	Add(m, s.player("u4", "D"))

	s.True(Remove(m, model.Player{ID: "u1"}))

	s.Len(m.Players, 3)
	s.Equal("u2", m.Players[0].ID)
	s.Equal(model.StatusConfirmed, m.Players[0].Status)
	// C waited longest, so C is promoted; D stays waitlisted
	s.Equal(model.StatusConfirmed, m.Players[1].Status)
	s.Equal(model.StatusWaitlist, m.Players[2].Status)
}

func (s *EngineSuite) TestFullRosterScenario() {
	// maxPlayers=2, roster [A, B] confirmed; add(C) waitlists C, then
	// remove(A) promotes C.
	m := &model.Match{ID: "m1", MaxPlayers: 2}
	Add(m, s.player("a", "A"))
	Add(m, s.player("b", "B"))

	Add(m, s.player("c", "C"))
	s.Len(m.Players, 3)
	s.Equal(model.StatusWaitlist, m.Players[2].Status)
	s.Equal(2, ConfirmedCount(m))

	Remove(m, model.Player{ID: "a"})
	s.Len(m.Players, 2)
	s.Equal("b", m.Players[0].ID)
	s.Equal(model.StatusConfirmed, m.Players[0].Status)
	s.Equal("c", m.Players[1].ID)
	s.Equal(model.StatusConfirmed, m.Players[1].Status)
}

func (s *EngineSuite) TestPromoteIsSingleStep() {
	m := &model.Match{ID: "m1", MaxPlayers: 4}
	m.Players = []model.Player{
		{ID: "u1", Status: model.StatusConfirmed},
		{ID: "u2", Status: model.StatusWaitlist},
		{ID: "u3", Status: model.StatusWaitlist},
	}

	s.True(Promote(m))
	s.Equal(model.StatusConfirmed, m.Players[1].Status)
	s.Equal(model.StatusWaitlist, m.Players[2].Status)
}

func (s *EngineSuite) TestPromoteWithoutFreeSpotDoesNothing() {
	m := &model.Match{ID: "m1", MaxPlayers: 2}
	m.Players = []model.Player{
		{ID: "u1", Status: model.StatusConfirmed},
		{ID: "u2", Status: model.StatusConfirmed},
		{ID: "u3", Status: model.StatusWaitlist},
	}

	s.False(Promote(m))
	s.Equal(model.StatusWaitlist, m.Players[2].Status)
}

// IsJoined tests

func (s *EngineSuite) TestIsJoinedById() {
	m := &model.Match{ID: "m1"}
	Add(m, s.player("u1", "Alice"))

	s.True(IsJoined(m, model.Identity{ID: "u1"}))
	s.False(IsJoined(m, model.Identity{ID: "u2"}))
}

func (s *EngineSuite) TestIsJoinedByUsernameCaseInsensitive() {
	m := &model.Match{ID: "m1"}
	Add(m, model.Player{ID: "u1", Username: "bob", Source: model.SourceUser})

	s.True(IsJoined(m, model.Identity{Username: "Bob "}))
}

func (s *EngineSuite) TestIsJoinedByDisplayNameAgainstLegacyEntry() {
	m := &model.Match{ID: "m1"}
	m.Players = []model.Player{
		{ID: "p-1", Name: "Carol", Status: model.StatusConfirmed},
	}

	s.True(IsJoined(m, model.Identity{ID: "u7", DisplayName: "  carol"}))
	s.False(IsJoined(m, model.Identity{ID: "u8", DisplayName: "Caroline"}))
}

func (s *EngineSuite) TestIsJoinedIgnoresEmptyFields() {
	m := &model.Match{ID: "m1"}
	m.Players = []model.Player{
		{ID: "p-1", Name: "", Username: "", Status: model.StatusConfirmed},
	}

	s.False(IsJoined(m, model.Identity{}))
}
