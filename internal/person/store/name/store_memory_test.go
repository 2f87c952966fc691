package name

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"demographics/internal/person/models"
	id "demographics/pkg/domain"
	"demographics/pkg/platform/sentinel"
)

type NameStoreSuite struct {
	suite.Suite
	store *InMemory
	ctx   context.Context
	actor id.ActorID
	now   time.Time
}

func TestNameStoreSuite(t *testing.T) {
	suite.Run(t, new(NameStoreSuite))
}

func (s *NameStoreSuite) SetupTest() {
	s.store = NewInMemory()
	s.ctx = context.Background()
	s.actor = id.ActorID(uuid.New())
	s.now = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
}

func (s *NameStoreSuite) newName(owner id.PersonID, first string, preferred bool) *models.PersonName {
	n, err := models.NewPersonName(id.NewPersonNameID(), owner, models.NameFields{FirstName: first}, preferred, s.actor, s.now)
	s.Require().NoError(err)
	return n
}

func (s *NameStoreSuite) TestOwnerQueries() {
	owner := id.NewPersonID()
	other := id.NewPersonID()
	a := s.newName(owner, "A", true)
	b := s.newName(owner, "B", false)
	c := s.newName(owner, "C", false)
	s.Require().NoError(c.MarkVoided(s.actor, "typo", s.now))
	for _, n := range []*models.PersonName{a, b, c, s.newName(other, "X", true)} {
		s.Require().NoError(s.store.Save(s.ctx, n))
	}

	s.Run("keeps insertion order and filters voided", func() {
		got, err := s.store.FindAllByOwner(s.ctx, owner, false)
		s.Require().NoError(err)
		s.Require().Len(got, 2)
		s.Equal("A", got[0].FirstName)
		s.Equal("B", got[1].FirstName)

		all, err := s.store.FindAllByOwner(s.ctx, owner, true)
		s.Require().NoError(err)
		s.Len(all, 3)
	})

	s.Run("re-saving keeps position", func() {
		a.Preferred = false
		s.Require().NoError(s.store.Save(s.ctx, a))
		got, err := s.store.FindAllByOwner(s.ctx, owner, true)
		s.Require().NoError(err)
		s.Equal(a.ID, got[0].ID)
		s.False(got[0].Preferred)
	})

	s.Run("finds preferred", func() {
		b.Preferred = true
		s.Require().NoError(s.store.Save(s.ctx, b))
		got, err := s.store.FindPreferred(s.ctx, owner)
		s.Require().NoError(err)
		s.Equal(b.ID, got.ID)
	})

	s.Run("delete by owner leaves others", func() {
		s.Require().NoError(s.store.DeleteByOwner(s.ctx, owner))
		_, err := s.store.FindByID(s.ctx, a.ID)
		s.ErrorIs(err, sentinel.ErrNotFound)
		_, err = s.store.FindPreferred(s.ctx, owner)
		s.ErrorIs(err, sentinel.ErrNotFound)
		got, err := s.store.FindAllByOwner(s.ctx, other, false)
		s.Require().NoError(err)
		s.Len(got, 1)
	})
}

func (s *NameStoreSuite) TestSaveRejectsOwnerChange() {
	n := s.newName(id.NewPersonID(), "A", true)
	s.Require().NoError(s.store.Save(s.ctx, n))
	moved := *n
	moved.PersonID = id.NewPersonID()
	s.ErrorIs(s.store.Save(s.ctx, &moved), sentinel.ErrAlreadyUsed)
}
