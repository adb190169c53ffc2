package catalog

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/openfield/pickup/internal/model"
	"github.com/openfield/pickup/internal/storage/memory"
	"github.com/openfield/pickup/internal/testutil"
)

type ServiceSuite struct {
	suite.Suite
	storage *memory.Storage
	service *Service
	ctx     context.Context
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func (s *ServiceSuite) SetupTest() {
	s.storage = memory.New()
	s.service = NewService(s.storage, testutil.NopLogger())
	s.ctx = context.Background()
}

func (s *ServiceSuite) TestGetNotFound() {
	_, err := s.service.Get("nope")
	s.ErrorIs(err, model.ErrMatchNotFound)
}

func (s *ServiceSuite) TestUpsertAndGet() {
	m := &model.Match{ID: "m_1", Title: "Friday Footy"}
	s.service.Upsert(m)

	got, err := s.service.Get("m_1")
	s.Require().NoError(err)
	s.Equal("Friday Footy", got.Title)
}

func (s *ServiceSuite) TestUpsertEphemeralUsesLocalKey() {
	m := &model.Match{LocalKey: "local_abc", Title: "Draft"}
	s.service.Upsert(m)

	got, err := s.service.Get("local_abc")
	s.Require().NoError(err)
	s.Equal("Draft", got.Title)
}

func (s *ServiceSuite) TestListSorted() {
	s.service.Upsert(&model.Match{ID: "m_1", Title: "Zeta", Date: "2026-09-05", Time: "10:00"})
	s.service.Upsert(&model.Match{ID: "m_2", Title: "alpha", Date: "2026-09-05", Time: "10:00"})
	s.service.Upsert(&model.Match{ID: "m_3", Title: "Early", Date: "2026-09-04", Time: "19:00"})
	s.service.Upsert(&model.Match{ID: "m_4", Title: "Later slot", Date: "2026-09-05", Time: "18:00"})

	matches := s.service.List()

	s.Require().Len(matches, 4)
	s.Equal("m_3", matches[0].ID)
	s.Equal("m_2", matches[1].ID) // same slot, title tiebreak is case-insensitive
	s.Equal("m_1", matches[2].ID)
	s.Equal("m_4", matches[3].ID)
}

func (s *ServiceSuite) TestRemove() {
	s.service.Upsert(&model.Match{ID: "m_1"})
	s.service.Remove("m_1")

	_, err := s.service.Get("m_1")
	s.ErrorIs(err, model.ErrMatchNotFound)

	// Removing again is a no-op
	s.service.Remove("m_1")
}

func (s *ServiceSuite) TestRekey() {
	m := &model.Match{LocalKey: "local_abc", Title: "Draft"}
	s.service.Upsert(m)

	m.ID = "m_9"
	s.service.Rekey("local_abc", m)

	_, err := s.service.Get("local_abc")
	s.ErrorIs(err, model.ErrMatchNotFound)

	got, err := s.service.Get("m_9")
	s.Require().NoError(err)
	s.Equal("Draft", got.Title)
}

func (s *ServiceSuite) TestReplaceAllKeepsEphemeral() {
	s.service.Upsert(&model.Match{ID: "m_1", Title: "Stale"})
	s.service.Upsert(&model.Match{LocalKey: "local_abc", Title: "Draft"})

	s.service.ReplaceAll([]*model.Match{
		{ID: "m_2", Title: "Fresh"},
	})

	_, err := s.service.Get("m_1")
	s.ErrorIs(err, model.ErrMatchNotFound)

	got, err := s.service.Get("m_2")
	s.Require().NoError(err)
	s.Equal("Fresh", got.Title)

	draft, err := s.service.Get("local_abc")
	s.Require().NoError(err)
	s.Equal("Draft", draft.Title)
}

func (s *ServiceSuite) TestSnapshotRoundTrip() {
	s.service.Upsert(&model.Match{ID: "m_1", Title: "Persisted"})
	s.service.Upsert(&model.Match{LocalKey: "local_abc", Title: "Draft"})

	err := s.service.SaveSnapshot(s.ctx)
	s.Require().NoError(err)

	restored := NewService(s.storage, testutil.NopLogger())
	err = restored.LoadSnapshot(s.ctx)
	s.Require().NoError(err)

	got, err := restored.Get("m_1")
	s.Require().NoError(err)
	s.Equal("Persisted", got.Title)

	// Ephemeral matches are not persisted
	_, err = restored.Get("local_abc")
	s.ErrorIs(err, model.ErrMatchNotFound)
}
