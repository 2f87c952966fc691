package models_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"demographics/internal/person/models"
	id "demographics/pkg/domain"
	dErrors "demographics/pkg/domain-errors"
)

type AggregateSuite struct {
	suite.Suite
	actor id.ActorID
	now   time.Time
}

func TestAggregateSuite(t *testing.T) {
	suite.Run(t, new(AggregateSuite))
}

func (s *AggregateSuite) SetupTest() {
	s.actor = id.ActorID(uuid.New())
	s.now = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
}

func (s *AggregateSuite) newAggregate() *models.Aggregate {
	p, err := models.NewPerson(id.NewPersonID(), "F", nil, false, s.actor, s.now)
	s.Require().NoError(err)
	return models.NewAggregate(p)
}

func (s *AggregateSuite) newName(agg *models.Aggregate, first, last string, preferred bool) *models.PersonName {
	n, err := models.NewPersonName(id.NewPersonNameID(), agg.Person.ID,
		models.NameFields{FirstName: first, LastName: last}, preferred, s.actor, s.now)
	s.Require().NoError(err)
	return n
}

func (s *AggregateSuite) newAddress(agg *models.Aggregate, line string, preferred bool) *models.PersonAddress {
	a, err := models.NewPersonAddress(id.NewPersonAddressID(), agg.Person.ID,
		models.AddressFields{AddressLine1: line}, preferred, s.actor, s.now)
	s.Require().NoError(err)
	return a
}

func (s *AggregateSuite) newAttribute(agg *models.Aggregate, typeID id.AttributeTypeID, value string, preferred bool) *models.PersonAttribute {
	a, err := models.NewPersonAttribute(id.NewPersonAttributeID(), agg.Person.ID, typeID, value, preferred, s.actor, s.now)
	s.Require().NoError(err)
	return a
}

func countPreferred[T any](items []T, preferred func(T) bool) int {
	n := 0
	for _, it := range items {
		if preferred(it) {
			n++
		}
	}
	return n
}

func namePreferred(n *models.PersonName) bool { return n.Preferred }

// ============================================================================
// Preferred names
// ============================================================================

func (s *AggregateSuite) TestNamePreferredScenario() {
	agg := s.newAggregate()

	johnDoe := s.newName(agg, "John", "Doe", false)
	touched, err := agg.AddName(johnDoe, s.actor, s.now)
	s.Require().NoError(err)
	s.Empty(touched)
	s.True(johnDoe.Preferred, "first name defaults to preferred")

	queen := s.newName(agg, "Queen", "Lizzy", false)
	touched, err = agg.AddName(queen, s.actor, s.now)
	s.Require().NoError(err)
	s.Empty(touched)
	s.False(queen.Preferred)
	s.Len(agg.Names(false), 2)
	s.Equal(johnDoe.ID, agg.PreferredName().ID)

	second := s.newName(agg, "John", "Doe", true)
	touched, err = agg.AddName(second, s.actor, s.now)
	s.Require().NoError(err)
	s.Require().Len(touched, 1)
	s.Equal(johnDoe.ID, touched[0].ID)
	s.False(johnDoe.Preferred)
	s.NotNil(johnDoe.LastModifiedBy)
	s.True(second.Preferred)

	names := agg.Names(false)
	s.Len(names, 3)
	s.Equal(1, countPreferred(names, namePreferred))
	s.Equal(second.ID, agg.PreferredName().ID)
	s.Equal([]id.PersonNameID{johnDoe.ID, queen.ID, second.ID},
		[]id.PersonNameID{names[0].ID, names[1].ID, names[2].ID}, "creation order is kept")
}

func (s *AggregateSuite) TestAddNameRejections() {
	s.Run("duplicate id", func() {
		agg := s.newAggregate()
		n := s.newName(agg, "Ada", "Lovelace", false)
		_, err := agg.AddName(n, s.actor, s.now)
		s.Require().NoError(err)

		dup := *n
		_, err = agg.AddName(&dup, s.actor, s.now)
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeConflict))
		s.Len(agg.Names(true), 1)
	})

	s.Run("name owned by another person", func() {
		agg := s.newAggregate()
		other := s.newAggregate()
		n := s.newName(other, "Ada", "Lovelace", false)
		_, err := agg.AddName(n, s.actor, s.now)
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeInvariantViolation))
	})

	s.Run("voided input", func() {
		agg := s.newAggregate()
		n := s.newName(agg, "Ada", "Lovelace", false)
		s.Require().NoError(n.MarkVoided(s.actor, "typo", s.now))
		_, err := agg.AddName(n, s.actor, s.now)
		s.Require().Error(err)
		s.Empty(agg.Names(true))
	})

	s.Run("voided person", func() {
		agg := s.newAggregate()
		s.Require().NoError(agg.Person.Void("duplicate record", s.actor, s.now))
		_, err := agg.AddName(s.newName(agg, "Ada", "Lovelace", false), s.actor, s.now)
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeConflict))
	})
}

func (s *AggregateSuite) TestVoidNameGuard() {
	s.Run("voiding the only name leaves no preferred name", func() {
		agg := s.newAggregate()
		n := s.newName(agg, "Ada", "Lovelace", false)
		_, err := agg.AddName(n, s.actor, s.now)
		s.Require().NoError(err)

		voided, err := agg.VoidName(n.ID, "entered in error", s.actor, s.now)
		s.Require().NoError(err)
		s.True(voided.Voided)
		s.Nil(agg.PreferredName())
		s.Empty(agg.Names(false))
		s.Len(agg.Names(true), 1)
	})

	s.Run("voiding the preferred name while another exists is a conflict", func() {
		agg := s.newAggregate()
		first := s.newName(agg, "Ada", "Lovelace", false)
		second := s.newName(agg, "Augusta", "King", false)
		_, err := agg.AddName(first, s.actor, s.now)
		s.Require().NoError(err)
		_, err = agg.AddName(second, s.actor, s.now)
		s.Require().NoError(err)

		_, err = agg.VoidName(first.ID, "entered in error", s.actor, s.now)
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeConflict))
		s.False(first.Voided)
		s.Equal(first.ID, agg.PreferredName().ID)
	})

	s.Run("voiding a non-preferred name keeps the preferred one", func() {
		agg := s.newAggregate()
		first := s.newName(agg, "Ada", "Lovelace", false)
		second := s.newName(agg, "Augusta", "King", false)
		_, err := agg.AddName(first, s.actor, s.now)
		s.Require().NoError(err)
		_, err = agg.AddName(second, s.actor, s.now)
		s.Require().NoError(err)

		_, err = agg.VoidName(second.ID, "entered in error", s.actor, s.now)
		s.Require().NoError(err)
		s.Equal(first.ID, agg.PreferredName().ID)
	})

	s.Run("voiding never promotes another member", func() {
		agg := s.newAggregate()
		first := s.newName(agg, "Ada", "Lovelace", false)
		second := s.newName(agg, "Augusta", "King", false)
		_, err := agg.AddName(first, s.actor, s.now)
		s.Require().NoError(err)
		_, err = agg.AddName(second, s.actor, s.now)
		s.Require().NoError(err)
		_, err = agg.VoidName(second.ID, "entered in error", s.actor, s.now)
		s.Require().NoError(err)
		_, err = agg.VoidName(first.ID, "entered in error", s.actor, s.now)
		s.Require().NoError(err)

		s.Nil(agg.PreferredName())
	})

	s.Run("second void leaves the first void untouched", func() {
		agg := s.newAggregate()
		n := s.newName(agg, "Ada", "Lovelace", false)
		_, err := agg.AddName(n, s.actor, s.now)
		s.Require().NoError(err)
		_, err = agg.VoidName(n.ID, "first reason", s.actor, s.now)
		s.Require().NoError(err)

		later := s.now.Add(time.Hour)
		_, err = agg.VoidName(n.ID, "second reason", id.ActorID(uuid.New()), later)
		s.Require().ErrorIs(err, models.ErrAlreadyVoided)
		s.Equal("first reason", n.VoidReason)
		s.Equal(s.actor, *n.VoidedBy)
		s.Equal(s.now, *n.VoidedAt)
	})

	s.Run("unknown name", func() {
		agg := s.newAggregate()
		_, err := agg.VoidName(id.NewPersonNameID(), "reason", s.actor, s.now)
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
	})
}

func preferredPatch(preferred bool) models.NamePatch {
	return models.NamePatch{Preferred: &preferred}
}

func (s *AggregateSuite) TestUpdateNamePreferredFlag() {
	s.Run("setting preferred demotes the incumbent", func() {
		agg := s.newAggregate()
		first := s.newName(agg, "Ada", "Lovelace", false)
		second := s.newName(agg, "Augusta", "King", false)
		_, err := agg.AddName(first, s.actor, s.now)
		s.Require().NoError(err)
		_, err = agg.AddName(second, s.actor, s.now)
		s.Require().NoError(err)

		touched, err := agg.UpdateName(second.ID, preferredPatch(true), s.actor, s.now)
		s.Require().NoError(err)
		s.Len(touched, 2)
		s.False(first.Preferred)
		s.True(second.Preferred)
		s.Equal(second.ID, agg.PreferredName().ID)
	})

	s.Run("clearing preferred with other members is a conflict", func() {
		agg := s.newAggregate()
		first := s.newName(agg, "Ada", "Lovelace", false)
		_, err := agg.AddName(first, s.actor, s.now)
		s.Require().NoError(err)
		_, err = agg.AddName(s.newName(agg, "Augusta", "King", false), s.actor, s.now)
		s.Require().NoError(err)

		_, err = agg.UpdateName(first.ID, preferredPatch(false), s.actor, s.now)
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeConflict))
		s.True(first.Preferred)
	})

	s.Run("clearing the sole member is allowed", func() {
		agg := s.newAggregate()
		first := s.newName(agg, "Ada", "Lovelace", false)
		_, err := agg.AddName(first, s.actor, s.now)
		s.Require().NoError(err)

		_, err = agg.UpdateName(first.ID, preferredPatch(false), s.actor, s.now)
		s.Require().NoError(err)
		s.Nil(agg.PreferredName())
	})

	s.Run("unchanged flag touches only the target", func() {
		agg := s.newAggregate()
		first := s.newName(agg, "Ada", "Lovelace", false)
		_, err := agg.AddName(first, s.actor, s.now)
		s.Require().NoError(err)

		touched, err := agg.UpdateName(first.ID, preferredPatch(true), s.actor, s.now)
		s.Require().NoError(err)
		s.Require().Len(touched, 1)
		s.Equal(first.ID, touched[0].ID)
		s.True(first.Preferred)
	})

	s.Run("voided name cannot change", func() {
		agg := s.newAggregate()
		first := s.newName(agg, "Ada", "Lovelace", false)
		_, err := agg.AddName(first, s.actor, s.now)
		s.Require().NoError(err)
		_, err = agg.VoidName(first.ID, "typo", s.actor, s.now)
		s.Require().NoError(err)

		_, err = agg.UpdateName(first.ID, preferredPatch(true), s.actor, s.now)
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeConflict))
	})
}

func (s *AggregateSuite) TestUpdateName() {
	s.Run("patches fields and preferred together", func() {
		agg := s.newAggregate()
		first := s.newName(agg, "Ada", "Lovelace", false)
		second := s.newName(agg, "Augusta", "King", false)
		_, err := agg.AddName(first, s.actor, s.now)
		s.Require().NoError(err)
		_, err = agg.AddName(second, s.actor, s.now)
		s.Require().NoError(err)

		last := "Byron"
		preferred := true
		touched, err := agg.UpdateName(second.ID, models.NamePatch{LastName: &last, Preferred: &preferred}, s.actor, s.now)
		s.Require().NoError(err)
		s.Len(touched, 2)
		s.Equal("Byron", second.LastName)
		s.Equal("Augusta Byron", second.FullName())
		s.Equal(second.ID, agg.PreferredName().ID)
	})

	s.Run("invalid field leaves the name unchanged", func() {
		agg := s.newAggregate()
		first := s.newName(agg, "Ada", "Lovelace", false)
		_, err := agg.AddName(first, s.actor, s.now)
		s.Require().NoError(err)

		empty := "  "
		_, err = agg.UpdateName(first.ID, models.NamePatch{FirstName: &empty}, s.actor, s.now)
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeValidation))
		s.Equal("Ada", first.FirstName)
		s.Nil(first.LastModifiedAt)
	})
}

// ============================================================================
// Addresses and attributes
// ============================================================================

func (s *AggregateSuite) TestAddressPreferred() {
	agg := s.newAggregate()
	home := s.newAddress(agg, "1 Main St", false)
	work := s.newAddress(agg, "2 Side St", true)

	_, err := agg.AddAddress(home, s.actor, s.now)
	s.Require().NoError(err)
	s.True(home.Preferred)

	touched, err := agg.AddAddress(work, s.actor, s.now)
	s.Require().NoError(err)
	s.Require().Len(touched, 1)
	s.False(home.Preferred)
	s.Equal(work.ID, agg.PreferredAddress().ID)

	_, err = agg.VoidAddress(work.ID, "moved", s.actor, s.now)
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeConflict))

	lat := 91.0
	_, err = agg.UpdateAddress(home.ID, models.AddressPatch{Latitude: &lat}, s.actor, s.now)
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeValidation))
}

func (s *AggregateSuite) TestAttributePreferredPerType() {
	agg := s.newAggregate()
	bloodType := id.NewAttributeTypeID()
	phone := id.NewAttributeTypeID()

	aPlus := s.newAttribute(agg, bloodType, "A+", false)
	_, err := agg.AddAttribute(aPlus, s.actor, s.now)
	s.Require().NoError(err)
	s.True(aPlus.Preferred, "first attribute of its type defaults to preferred")

	mobile := s.newAttribute(agg, phone, "+15550100", false)
	touched, err := agg.AddAttribute(mobile, s.actor, s.now)
	s.Require().NoError(err)
	s.Empty(touched)
	s.True(mobile.Preferred, "types are scoped independently")
	s.True(aPlus.Preferred)

	bPlus := s.newAttribute(agg, bloodType, "B+", true)
	touched, err = agg.AddAttribute(bPlus, s.actor, s.now)
	s.Require().NoError(err)
	s.Require().Len(touched, 1)
	s.Equal(aPlus.ID, touched[0].ID)
	s.False(aPlus.Preferred)
	s.Equal(bPlus.ID, agg.PreferredAttribute(bloodType).ID)
	s.Equal(mobile.ID, agg.PreferredAttribute(phone).ID)
	s.Len(agg.Attributes(false), 3)
	s.Nil(agg.PreferredAttribute(id.NewAttributeTypeID()))

	value := "AB+"
	_, err = agg.UpdateAttribute(aPlus.ID, models.AttributePatch{Value: &value}, s.actor, s.now)
	s.Require().NoError(err)
	s.Equal("AB+", aPlus.Value)
	s.False(aPlus.Preferred)

	_, err = agg.VoidAttribute(mobile.ID, "number changed", s.actor, s.now)
	s.Require().NoError(err, "sole member of its type can be voided")
	s.Nil(agg.PreferredAttribute(phone))
}

// ============================================================================
// Rehydrate
// ============================================================================

func (s *AggregateSuite) TestRehydrate() {
	s.Run("rebuilds the preferred index", func() {
		src := s.newAggregate()
		first := s.newName(src, "Ada", "Lovelace", false)
		second := s.newName(src, "Augusta", "King", true)
		_, err := src.AddName(first, s.actor, s.now)
		s.Require().NoError(err)
		_, err = src.AddName(second, s.actor, s.now)
		s.Require().NoError(err)

		agg, err := models.Rehydrate(src.Person, src.Names(true), src.Addresses(true), src.Attributes(true))
		s.Require().NoError(err)
		s.Equal(second.ID, agg.PreferredName().ID)
		s.Len(agg.Names(false), 2)
	})

	s.Run("two preferred rows fail", func() {
		src := s.newAggregate()
		first := s.newName(src, "Ada", "Lovelace", true)
		second := s.newName(src, "Augusta", "King", true)

		_, err := models.Rehydrate(src.Person, []*models.PersonName{first, second}, nil, nil)
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeInvariantViolation))
	})

	s.Run("voided preferred rows are ignored by the index", func() {
		src := s.newAggregate()
		old := s.newName(src, "Ada", "Lovelace", true)
		s.Require().NoError(old.MarkVoided(s.actor, "typo", s.now))
		current := s.newName(src, "Augusta", "King", true)

		agg, err := models.Rehydrate(src.Person, []*models.PersonName{old, current}, nil, nil)
		s.Require().NoError(err)
		s.Equal(current.ID, agg.PreferredName().ID)
	})

	s.Run("rows of another person fail", func() {
		src := s.newAggregate()
		other := s.newAggregate()
		_, err := models.Rehydrate(src.Person, []*models.PersonName{s.newName(other, "Ada", "Lovelace", false)}, nil, nil)
		s.Require().Error(err)
	})
}
