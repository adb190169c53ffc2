package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/suite"

	"github.com/openfield/pickup/internal/model"
)

type StorageSuite struct {
	suite.Suite
	mini    *miniredis.Miniredis
	storage *Storage
	ctx     context.Context
}

func TestStorageSuite(t *testing.T) {
	suite.Run(t, new(StorageSuite))
}

func (s *StorageSuite) SetupTest() {
	s.mini = miniredis.RunT(s.T())

	client := redis.NewClient(&redis.Options{
		Addr: s.mini.Addr(),
	})

	cfg := DefaultConfig()
	cfg.GuestUserTTL = time.Hour

	s.storage = NewWithClient(client, cfg)
	s.ctx = context.Background()
}

func (s *StorageSuite) TearDownTest() {
	if s.storage != nil {
		_ = s.storage.Close()
	}
	if s.mini != nil {
		s.mini.Close()
	}
}

// User tests

func (s *StorageSuite) TestSaveAndGetUser() {
	user := &model.User{
		ID:          "user-1",
		Username:    "alice",
		DisplayName: "Alice",
		Source:      model.SourceUser,
		CreatedAt:   time.Now(),
	}

	err := s.storage.SaveUser(s.ctx, user)
	s.Require().NoError(err)

	retrieved, err := s.storage.GetUser(s.ctx, "user-1")
	s.Require().NoError(err)
	s.Equal(user.Username, retrieved.Username)
}

func (s *StorageSuite) TestGetUserNotFound() {
	_, err := s.storage.GetUser(s.ctx, "nonexistent")
	s.ErrorIs(err, model.ErrUserNotFound)
}

func (s *StorageSuite) TestGetUserByUsername() {
	user := &model.User{ID: "user-1", Username: "alice", Source: model.SourceUser}
	_ = s.storage.SaveUser(s.ctx, user)

	retrieved, err := s.storage.GetUserByUsername(s.ctx, "alice")
	s.Require().NoError(err)
	s.Equal("user-1", retrieved.ID)
}

func (s *StorageSuite) TestGetUserByTelegramID() {
	user := &model.User{ID: "user-1", TelegramID: 4242, Source: model.SourceTelegram}
	_ = s.storage.SaveUser(s.ctx, user)

	retrieved, err := s.storage.GetUserByTelegramID(s.ctx, 4242)
	s.Require().NoError(err)
	s.Equal("user-1", retrieved.ID)
}

func (s *StorageSuite) TestGuestUserTTL() {
	guest := &model.User{ID: "guest-1", Source: model.SourceGuest}
	registered := &model.User{ID: "registered-1", Source: model.SourceUser}

	_ = s.storage.SaveUser(s.ctx, guest)
	_ = s.storage.SaveUser(s.ctx, registered)

	guestTTL := s.mini.TTL(userKey(guest.ID))
	registeredTTL := s.mini.TTL(userKey(registered.ID))

	s.True(guestTTL > 0, "Guest user should have TTL")
	s.Equal(time.Duration(0), registeredTTL, "Registered user should not have TTL")
}

func (s *StorageSuite) TestDeleteUserRemovesIndexes() {
	user := &model.User{ID: "user-1", Username: "alice", TelegramID: 7}
	_ = s.storage.SaveUser(s.ctx, user)

	err := s.storage.DeleteUser(s.ctx, "user-1")
	s.Require().NoError(err)

	_, err = s.storage.GetUser(s.ctx, "user-1")
	s.ErrorIs(err, model.ErrUserNotFound)
	_, err = s.storage.GetUserByUsername(s.ctx, "alice")
	s.ErrorIs(err, model.ErrUserNotFound)
}

func (s *StorageSuite) TestListUsers() {
	_ = s.storage.SaveUser(s.ctx, &model.User{ID: "user-1"})
	_ = s.storage.SaveUser(s.ctx, &model.User{ID: "user-2"})

	users, err := s.storage.ListUsers(s.ctx)
	s.Require().NoError(err)
	s.Len(users, 2)
}

// Match tests

func (s *StorageSuite) TestSaveAndGetMatch() {
	match := &model.Match{
		ID:         "match-1",
		Title:      "Sunday five-a-side",
		MaxPlayers: 10,
		Players: []model.Player{
			{ID: "user-1", Name: "Alice", Status: model.StatusConfirmed},
		},
	}

	err := s.storage.SaveMatch(s.ctx, match)
	s.Require().NoError(err)

	retrieved, err := s.storage.GetMatch(s.ctx, "match-1")
	s.Require().NoError(err)
	s.Equal(match.Title, retrieved.Title)
	s.Len(retrieved.Players, 1)
	s.Equal(model.StatusConfirmed, retrieved.Players[0].Status)
}

func (s *StorageSuite) TestGetMatchNotFound() {
	_, err := s.storage.GetMatch(s.ctx, "nonexistent")
	s.ErrorIs(err, model.ErrMatchNotFound)
}

func (s *StorageSuite) TestListMatches() {
	_ = s.storage.SaveMatch(s.ctx, &model.Match{ID: "match-1"})
	_ = s.storage.SaveMatch(s.ctx, &model.Match{ID: "match-2"})

	matches, err := s.storage.ListMatches(s.ctx)
	s.Require().NoError(err)
	s.Len(matches, 2)
}

func (s *StorageSuite) TestDeleteMatchRemovesFromIndex() {
	_ = s.storage.SaveMatch(s.ctx, &model.Match{ID: "match-1"})

	err := s.storage.DeleteMatch(s.ctx, "match-1")
	s.Require().NoError(err)

	matches, err := s.storage.ListMatches(s.ctx)
	s.Require().NoError(err)
	s.Empty(matches)
}

// Local identity tests

func (s *StorageSuite) TestLocalIdentityLifecycle() {
	_, err := s.storage.GetLocalIdentity(s.ctx)
	s.ErrorIs(err, model.ErrNoIdentity)

	identity := &model.Identity{ID: "g_1", DisplayName: "Guest", Source: model.SourceGuest}
	err = s.storage.SaveLocalIdentity(s.ctx, identity)
	s.Require().NoError(err)

	retrieved, err := s.storage.GetLocalIdentity(s.ctx)
	s.Require().NoError(err)
	s.Equal("g_1", retrieved.ID)

	err = s.storage.ClearLocalIdentity(s.ctx)
	s.Require().NoError(err)

	_, err = s.storage.GetLocalIdentity(s.ctx)
	s.ErrorIs(err, model.ErrNoIdentity)
}
