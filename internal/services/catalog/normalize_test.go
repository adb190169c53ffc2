package catalog

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/openfield/pickup/internal/dependencies/mocks"
	"github.com/openfield/pickup/internal/model"
)

type NormalizeSuite struct {
	suite.Suite
	random     *mocks.MockRandom
	normalizer *Normalizer
}

func TestNormalizeSuite(t *testing.T) {
	suite.Run(t, new(NormalizeSuite))
}

func (s *NormalizeSuite) SetupTest() {
	s.random = mocks.NewMockRandom()
	s.normalizer = NewNormalizer(s.random)
}

func (s *NormalizeSuite) TestCanonicalDocument() {
	raw := json.RawMessage(`{
		"id": "m_1",
		"title": "Friday Footy",
		"date": "2026-09-04",
		"time": "19:00",
		"location": "Victoria Park",
		"locationUrl": "https://maps.example/vp",
		"maxPlayers": 10,
		"notes": "bring both shirts",
		"createdBy": "user-1",
		"players": [
			{"id": "user-1", "name": "Alice", "username": "alice", "source": "user", "status": "CONFIRMED"}
		]
	}`)

	m := s.normalizer.Match(raw)

	s.Equal("m_1", m.ID)
	s.Equal("Friday Footy", m.Title)
	s.Equal("2026-09-04", m.Date)
	s.Equal("19:00", m.Time)
	s.Equal("Victoria Park", m.Location)
	s.Equal("https://maps.example/vp", m.LocationURL)
	s.Equal(10, m.MaxPlayers)
	s.Equal("bring both shirts", m.Notes)
	s.Equal("user-1", m.CreatedBy)
	s.Require().Len(m.Players, 1)
	s.Equal(model.StatusConfirmed, m.Players[0].Status)
	s.False(m.IsEphemeral())
}

func (s *NormalizeSuite) TestFieldAliases() {
	raw := json.RawMessage(`{
		"match_id": "m_2",
		"name": "Old format match",
		"matchDate": "2026-09-05",
		"startTime": "18:30",
		"venue": "The Cage",
		"map_url": "https://maps.example/cage",
		"capacity": 8,
		"description": "legacy doc",
		"creator": "user-2"
	}`)

	m := s.normalizer.Match(raw)

	s.Equal("m_2", m.ID)
	s.Equal("Old format match", m.Title)
	s.Equal("2026-09-05", m.Date)
	s.Equal("18:30", m.Time)
	s.Equal("The Cage", m.Location)
	s.Equal("https://maps.example/cage", m.LocationURL)
	s.Equal(8, m.MaxPlayers)
	s.Equal("legacy doc", m.Notes)
	s.Equal("user-2", m.CreatedBy)
}

func (s *NormalizeSuite) TestStringCapacity() {
	m := s.normalizer.Match(json.RawMessage(`{"id": "m_3", "maxPlayers": "14"}`))
	s.Equal(14, m.MaxPlayers)
}

func (s *NormalizeSuite) TestMissingCapacityDefaults() {
	m := s.normalizer.Match(json.RawMessage(`{"id": "m_4"}`))
	s.Equal(12, m.MaxPlayers)
}

func (s *NormalizeSuite) TestPlayersAsStrings() {
	raw := json.RawMessage(`{
		"id": "m_5",
		"maxPlayers": 2,
		"players": ["Alice", " Bob ", "Carol"]
	}`)

	m := s.normalizer.Match(raw)

	s.Require().Len(m.Players, 3)
	s.Equal("p-1", m.Players[0].ID)
	s.Equal("Alice", m.Players[0].Name)
	s.Equal(model.SourceGuest, m.Players[0].Source)
	s.Equal("Bob", m.Players[1].Name)

	// Positional status inference against capacity
	s.Equal(model.StatusConfirmed, m.Players[0].Status)
	s.Equal(model.StatusConfirmed, m.Players[1].Status)
	s.Equal(model.StatusWaitlist, m.Players[2].Status)
}

func (s *NormalizeSuite) TestPlayerAliasesAndSynthesizedID() {
	raw := json.RawMessage(`{
		"id": "m_6",
		"roster": [
			{"displayName": "Dana", "handle": "dana_k"},
			{"user_id": "user-9", "full_name": "Erik"}
		]
	}`)

	m := s.normalizer.Match(raw)

	s.Require().Len(m.Players, 2)
	s.Equal("p-1", m.Players[0].ID)
	s.Equal("Dana", m.Players[0].Name)
	s.Equal("dana_k", m.Players[0].Username)
	s.Equal("user-9", m.Players[1].ID)
	s.Equal("Erik", m.Players[1].Name)
}

func (s *NormalizeSuite) TestExplicitStatusesPreserved() {
	raw := json.RawMessage(`{
		"id": "m_7",
		"maxPlayers": 5,
		"players": [
			{"id": "a", "name": "A", "status": "waitlisted"},
			{"id": "b", "name": "B"}
		]
	}`)

	m := s.normalizer.Match(raw)

	s.Equal(model.StatusWaitlist, m.Players[0].Status)
	s.Equal(model.StatusConfirmed, m.Players[1].Status)
}

func (s *NormalizeSuite) TestSkipsEmptyPlayers() {
	raw := json.RawMessage(`{
		"id": "m_8",
		"players": ["", {"notes": true}, 42, {"id": "user-1"}]
	}`)

	m := s.normalizer.Match(raw)

	s.Require().Len(m.Players, 1)
	s.Equal("user-1", m.Players[0].ID)
}

func (s *NormalizeSuite) TestMissingIDGetsLocalKey() {
	s.random.QueueString("abc123def456")

	m := s.normalizer.Match(json.RawMessage(`{"title": "Draft match"}`))

	s.True(m.IsEphemeral())
	s.Equal("local_abc123def456", m.LocalKey)
	s.Equal("local_abc123def456", m.Key())
}

func (s *NormalizeSuite) TestGarbageDocument() {
	s.random.QueueString("zzz")

	m := s.normalizer.Match(json.RawMessage(`"not an object"`))

	s.True(m.IsEphemeral())
	s.Equal(12, m.MaxPlayers)
	s.Empty(m.Players)
}

func (s *NormalizeSuite) TestNumericID() {
	m := s.normalizer.Match(json.RawMessage(`{"id": 42}`))
	s.Equal("42", m.ID)
	s.False(m.IsEphemeral())
}
