package service

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/suite"

	"demographics/internal/person/metrics"
	"demographics/internal/person/models"
	addressStore "demographics/internal/person/store/address"
	attributeStore "demographics/internal/person/store/attribute"
	attributeTypeStore "demographics/internal/person/store/attributetype"
	nameStore "demographics/internal/person/store/name"
	personStore "demographics/internal/person/store/person"
	id "demographics/pkg/domain"
	dErrors "demographics/pkg/domain-errors"
	"demographics/pkg/platform/audit"
	auditpublisher "demographics/pkg/platform/audit/publisher"
	auditstore "demographics/pkg/platform/audit/store/memory"
	"demographics/pkg/platform/tx"
	"demographics/pkg/requestcontext"
)

// =============================================================================
// Person Service Test Suite
// =============================================================================
// Runs the use-cases against the in-memory stores and the sharded runner so
// the preferred rules are checked end to end through persistence.

type PersonServiceSuite struct {
	suite.Suite
	ctx       context.Context
	actor     id.ActorID
	now       time.Time
	auditLog  *auditstore.InMemoryStore
	metrics   *metrics.Metrics
	locations *stubResolver
	service   *Service
}

func TestPersonServiceSuite(t *testing.T) {
	suite.Run(t, new(PersonServiceSuite))
}

func (s *PersonServiceSuite) SetupTest() {
	s.actor = id.ActorID(uuid.New())
	s.now = time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	s.ctx = requestcontext.WithActor(context.Background(), s.actor)
	s.ctx = requestcontext.WithTime(s.ctx, s.now)
	s.ctx = requestcontext.WithRequestID(s.ctx, "req-1")

	s.auditLog = auditstore.NewInMemoryStore()
	s.metrics = metrics.NewWithRegistry(prometheus.NewRegistry())
	s.locations = &stubResolver{}

	var err error
	s.service, err = New(Stores{
		Persons:        personStore.NewInMemory(),
		Names:          nameStore.NewInMemory(),
		Addresses:      addressStore.NewInMemory(),
		Attributes:     attributeStore.NewInMemory(),
		AttributeTypes: attributeTypeStore.NewInMemory(),
	}, tx.NewShardedRunner(time.Second),
		WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
		WithMetrics(s.metrics),
		WithAuditPublisher(auditpublisher.NewPublisher(s.auditLog)),
		WithLocationResolver(s.locations),
	)
	s.Require().NoError(err)
}

type stubResolver struct {
	err error
}

func (r *stubResolver) Resolve(_ context.Context, loc models.Location) (models.Location, error) {
	if r.err != nil {
		return models.Location{}, r.err
	}
	for _, ref := range loc.Refs() {
		if ref.IsSet() {
			ref.Name = "name-" + ref.ID
			ref.Code = "code-" + ref.ID
		}
	}
	return loc, nil
}

func (s *PersonServiceSuite) newPerson() id.PersonID {
	details, err := s.service.AddPerson(s.ctx, models.NewPersonCommand{Gender: "F"})
	s.Require().NoError(err)
	return details.ID
}

func (s *PersonServiceSuite) addName(personID id.PersonID, first string, preferred bool) *models.PersonName {
	name, err := s.service.AddPersonName(s.ctx, personID, models.NewNameCommand{
		NameFields: models.NameFields{FirstName: first, LastName: "Otieno"},
		Preferred:  preferred,
	})
	s.Require().NoError(err)
	return name
}

func (s *PersonServiceSuite) newAttributeType(name string) *models.AttributeType {
	t, err := s.service.CreateAttributeType(s.ctx, models.NewAttributeTypeCommand{Name: name})
	s.Require().NoError(err)
	return t
}

func (s *PersonServiceSuite) preferredNames(personID id.PersonID) []*models.PersonName {
	names, err := s.service.ListPersonNames(s.ctx, personID, false)
	s.Require().NoError(err)
	var out []*models.PersonName
	for _, n := range names {
		if n.Preferred {
			out = append(out, n)
		}
	}
	return out
}

func (s *PersonServiceSuite) auditActions(personID id.PersonID) []string {
	events, err := s.auditLog.ListByPerson(s.ctx, personID)
	s.Require().NoError(err)
	actions := make([]string, 0, len(events))
	for _, e := range events {
		actions = append(actions, e.Action)
	}
	return actions
}

// =============================================================================
// Constructor
// =============================================================================

func (s *PersonServiceSuite) TestNew() {
	stores := Stores{
		Persons:        personStore.NewInMemory(),
		Names:          nameStore.NewInMemory(),
		Addresses:      addressStore.NewInMemory(),
		Attributes:     attributeStore.NewInMemory(),
		AttributeTypes: attributeTypeStore.NewInMemory(),
	}

	s.Run("missing store is rejected", func() {
		incomplete := stores
		incomplete.Names = nil
		_, err := New(incomplete, tx.NewShardedRunner(0))
		s.Require().Error(err)
		s.Contains(err.Error(), "name store is required")
	})

	s.Run("missing tx runner is rejected", func() {
		_, err := New(stores, nil)
		s.Require().Error(err)
		s.Contains(err.Error(), "tx runner is required")
	})
}

// =============================================================================
// Person lifecycle
// =============================================================================

func (s *PersonServiceSuite) TestAddPerson() {
	s.Run("creates person with initial collections", func() {
		t := s.newAttributeType("Telephone")
		birth := time.Date(1990, 5, 17, 15, 30, 0, 0, time.UTC)

		details, err := s.service.AddPerson(s.ctx, models.NewPersonCommand{
			Gender:    "m",
			BirthDate: &birth,
			Names: []models.NewNameCommand{
				{NameFields: models.NameFields{FirstName: "Amina"}},
				{NameFields: models.NameFields{FirstName: "Mina"}, Preferred: true},
			},
			Addresses: []models.NewAddressCommand{
				{AddressFields: models.AddressFields{Location: models.Location{Country: models.LocationRef{ID: "KE"}}}},
			},
			Attributes: []models.NewAttributeCommand{
				{AttributeTypeID: t.ID, Value: "+254700000000"},
			},
		})
		s.Require().NoError(err)

		s.Equal(models.GenderMale, details.Gender)
		s.Equal(time.Date(1990, 5, 17, 0, 0, 0, 0, time.UTC), *details.BirthDate)
		s.Equal(s.actor, details.CreatedBy)
		s.Equal(s.now, details.CreatedAt)

		s.Require().Len(details.Names, 2)
		s.False(details.Names[0].Preferred, "first name demoted by later preferred name")
		s.True(details.Names[1].Preferred)

		s.Require().Len(details.Addresses, 1)
		s.True(details.Addresses[0].Preferred, "sole address becomes preferred")
		s.Equal("name-KE", details.Addresses[0].Location.Country.Name)

		s.Require().Len(details.Attributes, 1)
		s.True(details.Attributes[0].Preferred)

		s.Equal([]string{string(audit.EventPersonCreated)}, s.auditActions(details.ID))
		s.Equal(float64(1), testutil.ToFloat64(s.metrics.PersonsCreated))
	})

	s.Run("rejects unknown attribute type", func() {
		_, err := s.service.AddPerson(s.ctx, models.NewPersonCommand{
			Gender:     "F",
			Attributes: []models.NewAttributeCommand{{AttributeTypeID: id.NewAttributeTypeID(), Value: "x"}},
		})
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
	})

	s.Run("rejects invalid gender", func() {
		_, err := s.service.AddPerson(s.ctx, models.NewPersonCommand{Gender: "X"})
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeValidation))
	})

	s.Run("rejects birth date in the future", func() {
		future := s.now.AddDate(0, 0, 2)
		_, err := s.service.AddPerson(s.ctx, models.NewPersonCommand{Gender: "F", BirthDate: &future})
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeValidation))
	})

	s.Run("requires an acting user", func() {
		_, err := s.service.AddPerson(context.Background(), models.NewPersonCommand{Gender: "F"})
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeValidation))
	})
}

func (s *PersonServiceSuite) TestUpdatePerson() {
	personID := s.newPerson()

	s.Run("records death and clears it again", func() {
		dead := true
		cause := "illness"
		deathDate := s.now.AddDate(0, 0, -1)
		p, err := s.service.UpdatePerson(s.ctx, personID, models.PersonPatch{Dead: &dead, DeathDate: &deathDate, CauseOfDeath: &cause}, false)
		s.Require().NoError(err)
		s.True(p.Dead)
		s.Equal("illness", p.CauseOfDeath)
		s.Require().NotNil(p.LastModifiedBy)
		s.Equal(s.actor, *p.LastModifiedBy)

		alive := false
		p, err = s.service.UpdatePerson(s.ctx, personID, models.PersonPatch{Dead: &alive}, false)
		s.Require().NoError(err)
		s.False(p.Dead)
		s.Nil(p.DeathDate)
		s.Empty(p.CauseOfDeath)
	})

	s.Run("unknown person is not found", func() {
		gender := "M"
		_, err := s.service.UpdatePerson(s.ctx, id.NewPersonID(), models.PersonPatch{Gender: &gender}, false)
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
	})

	s.Run("voided person needs includeVoided", func() {
		voidedID := s.newPerson()
		_, err := s.service.VoidPerson(s.ctx, voidedID, "duplicate")
		s.Require().NoError(err)

		gender := "O"
		_, err = s.service.UpdatePerson(s.ctx, voidedID, models.PersonPatch{Gender: &gender}, false)
		s.True(dErrors.HasCode(err, dErrors.CodeNotFound))

		p, err := s.service.UpdatePerson(s.ctx, voidedID, models.PersonPatch{Gender: &gender}, true)
		s.Require().NoError(err)
		s.Equal(models.GenderOther, p.Gender)
	})
}

func (s *PersonServiceSuite) TestVoidPerson() {
	s.Run("voids once and reports a repeat", func() {
		personID := s.newPerson()
		name := s.addName(personID, "Amina", false)

		result, err := s.service.VoidPerson(s.ctx, personID, "  duplicate record ")
		s.Require().NoError(err)
		s.True(result.Voided)
		s.False(result.AlreadyVoided)
		s.Equal("duplicate record", result.VoidReason)

		later := requestcontext.WithTime(s.ctx, s.now.Add(time.Hour))
		again, err := s.service.VoidPerson(later, personID, "another reason")
		s.Require().NoError(err)
		s.True(again.AlreadyVoided)
		s.Equal("duplicate record", again.VoidReason)
		s.Equal(s.now, *again.VoidedAt)

		s.Equal([]string{
			string(audit.EventPersonCreated),
			string(audit.EventNameAdded),
			string(audit.EventPersonVoided),
		}, s.auditActions(personID))

		// sub-records keep their own state
		kept, err := s.service.GetPersonName(s.ctx, personID, name.ID)
		s.Require().NoError(err)
		s.True(kept.IsActive())
	})

	s.Run("void reason is required", func() {
		personID := s.newPerson()
		_, err := s.service.VoidPerson(s.ctx, personID, "   ")
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeValidation))
	})

	s.Run("voided person hides from reads and writes", func() {
		personID := s.newPerson()
		_, err := s.service.VoidPerson(s.ctx, personID, "merged")
		s.Require().NoError(err)

		_, err = s.service.GetPerson(s.ctx, personID, false)
		s.True(dErrors.HasCode(err, dErrors.CodeNotFound))

		details, err := s.service.GetPerson(s.ctx, personID, true)
		s.Require().NoError(err)
		s.True(details.Voided)

		_, err = s.service.AddPersonName(s.ctx, personID, models.NewNameCommand{NameFields: models.NameFields{FirstName: "Late"}})
		s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
	})
}

func (s *PersonServiceSuite) TestGetPersonFiltersVoidedSubRecords() {
	personID := s.newPerson()
	s.addName(personID, "Amina", true)
	spare := s.addName(personID, "Mina", false)
	_, err := s.service.VoidPersonName(s.ctx, personID, spare.ID, "typo")
	s.Require().NoError(err)

	active, err := s.service.GetPerson(s.ctx, personID, false)
	s.Require().NoError(err)
	s.Len(active.Names, 1)

	all, err := s.service.GetPerson(s.ctx, personID, true)
	s.Require().NoError(err)
	s.Len(all.Names, 2)
}

func (s *PersonServiceSuite) TestListPersons() {
	first := s.newPerson()
	later := requestcontext.WithTime(s.ctx, s.now.Add(time.Minute))
	created, err := s.service.AddPerson(later, models.NewPersonCommand{Gender: "M"})
	s.Require().NoError(err)
	second := created.ID
	_, err = s.service.VoidPerson(s.ctx, second, "test")
	s.Require().NoError(err)

	active, err := s.service.ListPersons(s.ctx, models.ListPersonsQuery{})
	s.Require().NoError(err)
	s.Require().Len(active, 1)
	s.Equal(first, active[0].ID)

	all, err := s.service.ListPersons(s.ctx, models.ListPersonsQuery{IncludeVoided: true})
	s.Require().NoError(err)
	s.Len(all, 2)

	paged, err := s.service.ListPersons(s.ctx, models.ListPersonsQuery{IncludeVoided: true, Limit: 1, Offset: 1})
	s.Require().NoError(err)
	s.Require().Len(paged, 1)
	s.Equal(second, paged[0].ID)
}

func (s *PersonServiceSuite) TestPurgePerson() {
	personID := s.newPerson()
	name := s.addName(personID, "Amina", true)

	s.Require().NoError(s.service.PurgePerson(s.ctx, personID))

	_, err := s.service.GetPerson(s.ctx, personID, true)
	s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
	_, err = s.service.GetPersonName(s.ctx, personID, name.ID)
	s.True(dErrors.HasCode(err, dErrors.CodeNotFound))

	err = s.service.PurgePerson(s.ctx, personID)
	s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
}

// =============================================================================
// Names
// =============================================================================

func (s *PersonServiceSuite) TestNamePreferredRules() {
	s.Run("first name becomes preferred", func() {
		personID := s.newPerson()
		name := s.addName(personID, "Amina", false)
		s.True(name.Preferred)
	})

	s.Run("preferred name demotes the incumbent", func() {
		personID := s.newPerson()
		first := s.addName(personID, "Amina", true)
		second := s.addName(personID, "Mina", true)

		preferred := s.preferredNames(personID)
		s.Require().Len(preferred, 1)
		s.Equal(second.ID, preferred[0].ID)

		demoted, err := s.service.GetPersonName(s.ctx, personID, first.ID)
		s.Require().NoError(err)
		s.False(demoted.Preferred)
		s.Require().NotNil(demoted.LastModifiedBy)
		s.Equal(s.actor, *demoted.LastModifiedBy)
	})

	s.Run("non-preferred addition leaves the incumbent", func() {
		personID := s.newPerson()
		first := s.addName(personID, "Amina", true)
		s.addName(personID, "Mina", false)

		got, err := s.service.GetPreferredName(s.ctx, personID)
		s.Require().NoError(err)
		s.Equal(first.ID, got.ID)
	})

	s.Run("update moves the preferred flag", func() {
		personID := s.newPerson()
		s.addName(personID, "Amina", true)
		second := s.addName(personID, "Mina", false)

		yes := true
		updated, err := s.service.UpdatePersonName(s.ctx, personID, second.ID, models.NamePatch{Preferred: &yes})
		s.Require().NoError(err)
		s.True(updated.Preferred)

		preferred := s.preferredNames(personID)
		s.Require().Len(preferred, 1)
		s.Equal(second.ID, preferred[0].ID)
	})

	s.Run("clearing the preferred flag needs a replacement", func() {
		personID := s.newPerson()
		first := s.addName(personID, "Amina", true)
		s.addName(personID, "Mina", false)

		no := false
		_, err := s.service.UpdatePersonName(s.ctx, personID, first.ID, models.NamePatch{Preferred: &no})
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeConflict))
		s.Equal(float64(1), testutil.ToFloat64(s.metrics.PreferredConflicts.WithLabelValues(entityName)))
	})
}

func (s *PersonServiceSuite) TestVoidPersonName() {
	s.Run("preferred name cannot be voided while others are active", func() {
		personID := s.newPerson()
		first := s.addName(personID, "Amina", true)
		s.addName(personID, "Mina", false)

		_, err := s.service.VoidPersonName(s.ctx, personID, first.ID, "typo")
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeConflict))

		still, err := s.service.GetPersonName(s.ctx, personID, first.ID)
		s.Require().NoError(err)
		s.True(still.IsActive())
	})

	s.Run("last active name can be voided", func() {
		personID := s.newPerson()
		only := s.addName(personID, "Amina", true)

		voided, err := s.service.VoidPersonName(s.ctx, personID, only.ID, "wrong person")
		s.Require().NoError(err)
		s.True(voided.Voided)

		_, err = s.service.GetPreferredName(s.ctx, personID)
		s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
	})

	s.Run("non-preferred name is voided without promotion", func() {
		personID := s.newPerson()
		first := s.addName(personID, "Amina", true)
		second := s.addName(personID, "Mina", false)

		_, err := s.service.VoidPersonName(s.ctx, personID, second.ID, "typo")
		s.Require().NoError(err)

		got, err := s.service.GetPreferredName(s.ctx, personID)
		s.Require().NoError(err)
		s.Equal(first.ID, got.ID)
	})

	s.Run("second void keeps the first outcome", func() {
		personID := s.newPerson()
		s.addName(personID, "Amina", true)
		spare := s.addName(personID, "Mina", false)

		_, err := s.service.VoidPersonName(s.ctx, personID, spare.ID, "typo")
		s.Require().NoError(err)
		again, err := s.service.VoidPersonName(s.ctx, personID, spare.ID, "other")
		s.Require().NoError(err)
		s.Equal("typo", again.VoidReason)

		voids := 0
		for _, action := range s.auditActions(personID) {
			if action == string(audit.EventNameVoided) {
				voids++
			}
		}
		s.Equal(1, voids)
	})

	s.Run("name of another person is not found", func() {
		owner := s.newPerson()
		other := s.newPerson()
		name := s.addName(owner, "Amina", true)

		_, err := s.service.GetPersonName(s.ctx, other, name.ID)
		s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
		_, err = s.service.VoidPersonName(s.ctx, other, name.ID, "typo")
		s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
	})
}

func (s *PersonServiceSuite) TestRepeatVoidIsNoOp() {
	countOf := func(personID id.PersonID, event audit.AuditEvent) int {
		n := 0
		for _, action := range s.auditActions(personID) {
			if action == string(event) {
				n++
			}
		}
		return n
	}

	s.Run("address", func() {
		personID := s.newPerson()
		addr, err := s.service.AddPersonAddress(s.ctx, personID, models.NewAddressCommand{
			AddressFields: models.AddressFields{Location: models.Location{Country: models.LocationRef{ID: "KE"}}},
		})
		s.Require().NoError(err)

		_, err = s.service.VoidPersonAddress(s.ctx, personID, addr.ID, "moved")
		s.Require().NoError(err)
		again, err := s.service.VoidPersonAddress(s.ctx, personID, addr.ID, "entered twice")
		s.Require().NoError(err)
		s.True(again.Voided)
		s.Equal("moved", again.VoidReason)
		s.Equal(1, countOf(personID, audit.EventAddressVoided))
	})

	s.Run("attribute", func() {
		personID := s.newPerson()
		t := s.newAttributeType("Alternate Phone")
		attr, err := s.service.AddPersonAttribute(s.ctx, personID, models.NewAttributeCommand{
			AttributeTypeID: t.ID,
			Value:           "+254711000000",
		})
		s.Require().NoError(err)

		_, err = s.service.VoidPersonAttribute(s.ctx, personID, attr.ID, "disconnected")
		s.Require().NoError(err)
		again, err := s.service.VoidPersonAttribute(s.ctx, personID, attr.ID, "other")
		s.Require().NoError(err)
		s.True(again.Voided)
		s.Equal("disconnected", again.VoidReason)
		s.Equal(1, countOf(personID, audit.EventAttributeVoided))
	})

	s.Run("attribute type", func() {
		t := s.newAttributeType("Birthplace")

		_, err := s.service.VoidAttributeType(s.ctx, t.ID, "unused")
		s.Require().NoError(err)
		again, err := s.service.VoidAttributeType(s.ctx, t.ID, "other")
		s.Require().NoError(err)
		s.True(again.Voided)
		s.Equal("unused", again.VoidReason)
	})
}

func (s *PersonServiceSuite) TestConcurrentPreferredNames() {
	personID := s.newPerson()

	const writers = 20
	var wg sync.WaitGroup
	errs := make(chan error, writers)
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := s.service.AddPersonName(s.ctx, personID, models.NewNameCommand{
				NameFields: models.NameFields{FirstName: "Writer"},
				Preferred:  true,
			})
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		s.Require().NoError(err)
	}

	names, err := s.service.ListPersonNames(s.ctx, personID, false)
	s.Require().NoError(err)
	s.Len(names, writers)
	s.Len(s.preferredNames(personID), 1)
}

// =============================================================================
// Addresses
// =============================================================================

func (s *PersonServiceSuite) TestAddresses() {
	s.Run("location display values are resolved", func() {
		personID := s.newPerson()
		addr, err := s.service.AddPersonAddress(s.ctx, personID, models.NewAddressCommand{
			AddressFields: models.AddressFields{
				Location:     models.Location{Country: models.LocationRef{ID: "KE"}, County: models.LocationRef{ID: "KE-30"}},
				AddressLine1: " 12 Moi Avenue ",
			},
		})
		s.Require().NoError(err)
		s.True(addr.Preferred)
		s.Equal("12 Moi Avenue", addr.AddressLine1)
		s.Equal("code-KE-30", addr.Location.County.Code)
	})

	s.Run("failed lookup keeps the ids", func() {
		s.locations.err = errors.New("metadata service down")
		defer func() { s.locations.err = nil }()

		personID := s.newPerson()
		addr, err := s.service.AddPersonAddress(s.ctx, personID, models.NewAddressCommand{
			AddressFields: models.AddressFields{Location: models.Location{Country: models.LocationRef{ID: "KE"}}},
		})
		s.Require().NoError(err)
		s.Equal("KE", addr.Location.Country.ID)
		s.Empty(addr.Location.Country.Name)
		s.Equal(float64(1), testutil.ToFloat64(s.metrics.LocationLookupFails))
	})

	s.Run("invalid coordinates are rejected", func() {
		personID := s.newPerson()
		lat := 123.0
		_, err := s.service.AddPersonAddress(s.ctx, personID, models.NewAddressCommand{
			AddressFields: models.AddressFields{Latitude: &lat},
		})
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeValidation))
	})

	s.Run("preferred address follows the name rules", func() {
		personID := s.newPerson()
		home, err := s.service.AddPersonAddress(s.ctx, personID, models.NewAddressCommand{Preferred: true})
		s.Require().NoError(err)
		work, err := s.service.AddPersonAddress(s.ctx, personID, models.NewAddressCommand{Preferred: true})
		s.Require().NoError(err)

		got, err := s.service.GetPreferredAddress(s.ctx, personID)
		s.Require().NoError(err)
		s.Equal(work.ID, got.ID)

		_, err = s.service.VoidPersonAddress(s.ctx, personID, work.ID, "moved")
		s.True(dErrors.HasCode(err, dErrors.CodeConflict))

		_, err = s.service.VoidPersonAddress(s.ctx, personID, home.ID, "moved")
		s.Require().NoError(err)

		list, err := s.service.ListPersonAddresses(s.ctx, personID, false)
		s.Require().NoError(err)
		s.Len(list, 1)
	})
}

// =============================================================================
// Attributes
// =============================================================================

func (s *PersonServiceSuite) TestAttributesPreferredPerType() {
	phone := s.newAttributeType("Phone")
	email := s.newAttributeType("Email")
	personID := s.newPerson()

	add := func(typeID id.AttributeTypeID, value string, preferred bool) *models.PersonAttribute {
		attr, err := s.service.AddPersonAttribute(s.ctx, personID, models.NewAttributeCommand{
			AttributeTypeID: typeID,
			Value:           value,
			Preferred:       preferred,
		})
		s.Require().NoError(err)
		return attr
	}

	homePhone := add(phone.ID, "0700000000", false)
	workPhone := add(phone.ID, "0711111111", true)
	mail := add(email.ID, "amina@example.com", false)

	s.True(mail.Preferred, "first attribute of a type is preferred")

	got, err := s.service.GetPreferredAttribute(s.ctx, personID, phone.ID)
	s.Require().NoError(err)
	s.Equal(workPhone.ID, got.ID)

	got, err = s.service.GetPreferredAttribute(s.ctx, personID, email.ID)
	s.Require().NoError(err)
	s.Equal(mail.ID, got.ID)

	yes := true
	_, err = s.service.UpdatePersonAttribute(s.ctx, personID, homePhone.ID, models.AttributePatch{Preferred: &yes})
	s.Require().NoError(err)

	got, err = s.service.GetPreferredAttribute(s.ctx, personID, email.ID)
	s.Require().NoError(err)
	s.Equal(mail.ID, got.ID, "other types are untouched")

	_, err = s.service.VoidPersonAttribute(s.ctx, personID, mail.ID, "bounced")
	s.Require().NoError(err, "last active attribute of its type")
}

func (s *PersonServiceSuite) TestAttributeValidation() {
	personID := s.newPerson()

	s.Run("unknown type is not found", func() {
		_, err := s.service.AddPersonAttribute(s.ctx, personID, models.NewAttributeCommand{
			AttributeTypeID: id.NewAttributeTypeID(),
			Value:           "x",
		})
		s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
	})

	s.Run("voided type refuses new attributes", func() {
		t := s.newAttributeType("Retired")
		_, err := s.service.VoidAttributeType(s.ctx, t.ID, "unused")
		s.Require().NoError(err)

		_, err = s.service.AddPersonAttribute(s.ctx, personID, models.NewAttributeCommand{AttributeTypeID: t.ID, Value: "x"})
		s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
	})

	s.Run("empty value is rejected", func() {
		t := s.newAttributeType("Nickname")
		_, err := s.service.AddPersonAttribute(s.ctx, personID, models.NewAttributeCommand{AttributeTypeID: t.ID, Value: "  "})
		s.True(dErrors.HasCode(err, dErrors.CodeValidation))
	})
}

// =============================================================================
// Attribute types
// =============================================================================

func (s *PersonServiceSuite) TestAttributeTypeRegistry() {
	s.Run("names are unique ignoring case", func() {
		s.newAttributeType("Birthplace")
		_, err := s.service.CreateAttributeType(s.ctx, models.NewAttributeTypeCommand{Name: " BIRTHPLACE "})
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeConflict))
	})

	s.Run("rename onto an active name conflicts", func() {
		s.newAttributeType("Mother Name")
		other := s.newAttributeType("Father Name")
		name := "mother name"
		_, err := s.service.UpdateAttributeType(s.ctx, other.ID, models.AttributeTypePatch{Name: &name})
		s.True(dErrors.HasCode(err, dErrors.CodeConflict))
	})

	s.Run("renaming a type to its own name is allowed", func() {
		t := s.newAttributeType("Tribe")
		name := "TRIBE"
		updated, err := s.service.UpdateAttributeType(s.ctx, t.ID, models.AttributeTypePatch{Name: &name})
		s.Require().NoError(err)
		s.Equal("TRIBE", updated.Name)
	})

	s.Run("voided name can be reused", func() {
		old := s.newAttributeType("Clan")
		_, err := s.service.VoidAttributeType(s.ctx, old.ID, "renamed")
		s.Require().NoError(err)

		fresh := s.newAttributeType("clan")
		s.NotEqual(old.ID, fresh.ID)

		again, err := s.service.VoidAttributeType(s.ctx, old.ID, "second")
		s.Require().NoError(err)
		s.Equal("renamed", again.VoidReason)
	})

	s.Run("listing hides voided types unless asked", func() {
		active, err := s.service.ListAttributeTypes(s.ctx, false)
		s.Require().NoError(err)
		for _, t := range active {
			s.True(t.IsActive())
		}

		all, err := s.service.ListAttributeTypes(s.ctx, true)
		s.Require().NoError(err)
		s.Greater(len(all), len(active))
	})

	s.Run("invalid format is rejected", func() {
		_, err := s.service.CreateAttributeType(s.ctx, models.NewAttributeTypeCommand{Name: "Odd", Format: "blob"})
		s.True(dErrors.HasCode(err, dErrors.CodeValidation))
	})
}
