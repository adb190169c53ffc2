package match

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/openfield/pickup/internal/dependencies/mocks"
	"github.com/openfield/pickup/internal/model"
	"github.com/openfield/pickup/internal/storage/memory"
	"github.com/openfield/pickup/internal/testutil"
)

type ControllerSuite struct {
	suite.Suite
	storage    *memory.Storage
	clock      *mocks.MockClock
	controller *Controller
	ctx        context.Context

	alice *model.User
	bob   *model.User
	carol *model.User
	admin *model.User
}

func TestControllerSuite(t *testing.T) {
	suite.Run(t, new(ControllerSuite))
}

func (s *ControllerSuite) SetupTest() {
	s.storage = memory.New()
	s.clock = mocks.NewMockClock(time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC))
	s.controller = NewController(s.storage, s.clock, mocks.NewMockRandom(), testutil.NopLogger())
	s.ctx = context.Background()

	s.alice = &model.User{ID: "user-alice", Username: "alice", DisplayName: "Alice", Role: model.RoleMember, Source: model.SourceUser}
	s.bob = &model.User{ID: "user-bob", Username: "bob", DisplayName: "Bob", Role: model.RoleMember, Source: model.SourceUser}
	s.carol = &model.User{ID: "user-carol", Username: "carol", DisplayName: "Carol", Role: model.RoleMember, Source: model.SourceUser}
	s.admin = &model.User{ID: "user-admin", Username: "admin", DisplayName: "Admin", Role: model.RoleAdmin, Source: model.SourceUser}
}

func (s *ControllerSuite) createMatch(maxPlayers int) *model.Match {
	m, err := s.controller.Create(s.ctx, CreateParams{
		Title:      "Friday Footy",
		Date:       "2026-09-04",
		Time:       "19:00",
		MaxPlayers: maxPlayers,
	}, s.alice.ID)
	s.Require().NoError(err)
	return m
}

func (s *ControllerSuite) TestCreatePersists() {
	m := s.createMatch(10)

	s.NotEmpty(m.ID)
	s.Equal(s.alice.ID, m.CreatedBy)
	s.Equal(10, m.MaxPlayers)

	stored, err := s.controller.Get(s.ctx, m.ID)
	s.Require().NoError(err)
	s.Equal("Friday Footy", stored.Title)
}

func (s *ControllerSuite) TestCreateCoercesCapacity() {
	m, err := s.controller.Create(s.ctx, CreateParams{Title: "Tiny", MaxPlayers: 1}, s.alice.ID)
	s.Require().NoError(err)
	s.Equal(2, m.MaxPlayers)

	m, err = s.controller.Create(s.ctx, CreateParams{Title: "Unspecified"}, s.alice.ID)
	s.Require().NoError(err)
	s.Equal(12, m.MaxPlayers)
}

func (s *ControllerSuite) TestListSorted() {
	_, err := s.controller.Create(s.ctx, CreateParams{Title: "Later", Date: "2026-09-05", Time: "10:00"}, s.alice.ID)
	s.Require().NoError(err)
	_, err = s.controller.Create(s.ctx, CreateParams{Title: "Sooner", Date: "2026-09-04", Time: "19:00"}, s.alice.ID)
	s.Require().NoError(err)

	matches, err := s.controller.List(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(matches, 2)
	s.Equal("Sooner", matches[0].Title)
	s.Equal("Later", matches[1].Title)
}

func (s *ControllerSuite) TestJoinConfirmsUntilFull() {
	m := s.createMatch(2)

	_, err := s.controller.Join(s.ctx, m.ID, s.alice)
	s.Require().NoError(err)
	_, err = s.controller.Join(s.ctx, m.ID, s.bob)
	s.Require().NoError(err)
	updated, err := s.controller.Join(s.ctx, m.ID, s.carol)
	s.Require().NoError(err)

	s.Require().Len(updated.Players, 3)
	s.Equal(model.StatusConfirmed, updated.Players[0].Status)
	s.Equal(model.StatusConfirmed, updated.Players[1].Status)
	s.Equal(model.StatusWaitlist, updated.Players[2].Status)
}

func (s *ControllerSuite) TestJoinTwiceRejected() {
	m := s.createMatch(4)

	_, err := s.controller.Join(s.ctx, m.ID, s.alice)
	s.Require().NoError(err)

	_, err = s.controller.Join(s.ctx, m.ID, s.alice)
	s.ErrorIs(err, model.ErrAlreadyJoined)
}

func (s *ControllerSuite) TestLeavePromotesWaitlist() {
	m := s.createMatch(2)

	_, err := s.controller.Join(s.ctx, m.ID, s.alice)
	s.Require().NoError(err)
	_, err = s.controller.Join(s.ctx, m.ID, s.bob)
	s.Require().NoError(err)
	_, err = s.controller.Join(s.ctx, m.ID, s.carol)
	s.Require().NoError(err)

	updated, err := s.controller.Leave(s.ctx, m.ID, s.alice)
	s.Require().NoError(err)

	s.Require().Len(updated.Players, 2)
	s.Equal("user-bob", updated.Players[0].ID)
	s.Equal("user-carol", updated.Players[1].ID)
	s.Equal(model.StatusConfirmed, updated.Players[1].Status)
}

func (s *ControllerSuite) TestLeaveNotJoined() {
	m := s.createMatch(4)

	_, err := s.controller.Leave(s.ctx, m.ID, s.alice)
	s.ErrorIs(err, model.ErrNotJoined)
}

func (s *ControllerSuite) TestUpdateByCreator() {
	m := s.createMatch(4)

	title := "Saturday Footy"
	updated, err := s.controller.Update(s.ctx, m.ID, Patch{Title: &title}, s.alice)
	s.Require().NoError(err)
	s.Equal("Saturday Footy", updated.Title)
	s.Equal("2026-09-04", updated.Date) // untouched fields kept
}

func (s *ControllerSuite) TestUpdateByOtherMemberRejected() {
	m := s.createMatch(4)

	title := "Hijacked"
	_, err := s.controller.Update(s.ctx, m.ID, Patch{Title: &title}, s.bob)
	s.ErrorIs(err, model.ErrPermissionDenied)
}

func (s *ControllerSuite) TestUpdateByAdmin() {
	m := s.createMatch(4)

	title := "Moderated"
	updated, err := s.controller.Update(s.ctx, m.ID, Patch{Title: &title}, s.admin)
	s.Require().NoError(err)
	s.Equal("Moderated", updated.Title)
}

func (s *ControllerSuite) TestRaisingCapacityPromotes() {
	m := s.createMatch(2)

	_, err := s.controller.Join(s.ctx, m.ID, s.alice)
	s.Require().NoError(err)
	_, err = s.controller.Join(s.ctx, m.ID, s.bob)
	s.Require().NoError(err)
	_, err = s.controller.Join(s.ctx, m.ID, s.carol)
	s.Require().NoError(err)

	capacity := 4
	updated, err := s.controller.Update(s.ctx, m.ID, Patch{MaxPlayers: &capacity}, s.alice)
	s.Require().NoError(err)
	s.Equal(model.StatusConfirmed, updated.Players[2].Status)
}

func (s *ControllerSuite) TestLoweringCapacityKeepsConfirmed() {
	m := s.createMatch(4)

	_, err := s.controller.Join(s.ctx, m.ID, s.alice)
	s.Require().NoError(err)
	_, err = s.controller.Join(s.ctx, m.ID, s.bob)
	s.Require().NoError(err)
	_, err = s.controller.Join(s.ctx, m.ID, s.carol)
	s.Require().NoError(err)

	capacity := 2
	updated, err := s.controller.Update(s.ctx, m.ID, Patch{MaxPlayers: &capacity}, s.alice)
	s.Require().NoError(err)

	for _, p := range updated.Players {
		s.Equal(model.StatusConfirmed, p.Status)
	}
}

func (s *ControllerSuite) TestDeleteByCreator() {
	m := s.createMatch(4)

	err := s.controller.Delete(s.ctx, m.ID, s.alice)
	s.Require().NoError(err)

	_, err = s.controller.Get(s.ctx, m.ID)
	s.ErrorIs(err, model.ErrMatchNotFound)
}

func (s *ControllerSuite) TestDeleteByOtherMemberRejected() {
	m := s.createMatch(4)

	err := s.controller.Delete(s.ctx, m.ID, s.bob)
	s.ErrorIs(err, model.ErrPermissionDenied)
}

func (s *ControllerSuite) TestKickNotSupported() {
	m := s.createMatch(4)

	_, err := s.controller.Join(s.ctx, m.ID, s.bob)
	s.Require().NoError(err)

	err = s.controller.Kick(s.ctx, m.ID, s.bob.ID, s.alice)
	s.ErrorIs(err, model.ErrKickNotSupported)
}

func (s *ControllerSuite) TestKickUnknownMatch() {
	err := s.controller.Kick(s.ctx, "nope", "someone", s.alice)
	s.ErrorIs(err, model.ErrMatchNotFound)
}
