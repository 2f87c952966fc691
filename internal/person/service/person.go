package service

import (
	"context"
	"errors"
	"fmt"

	"go.opentelemetry.io/otel/attribute"

	"demographics/internal/person/models"
	id "demographics/pkg/domain"
	dErrors "demographics/pkg/domain-errors"
	"demographics/pkg/platform/audit"
)

// AddPerson creates a person with its optional initial names, addresses and
// attributes. Initial members follow the same preferred rules as later
// additions, applied in the order given.
func (s *Service) AddPerson(ctx context.Context, cmd models.NewPersonCommand) (_ *models.PersonDetails, err error) {
	ctx, done := s.begin(ctx, "add_person")
	defer func() { done(err) }()

	actor, err := s.actor(ctx)
	if err != nil {
		return nil, err
	}
	now := s.now(ctx)

	if err := s.requireActiveTypes(ctx, cmd.Attributes); err != nil {
		return nil, err
	}

	person, err := models.NewPerson(id.NewPersonID(), cmd.Gender, cmd.BirthDate, cmd.BirthDateEstimated, actor, now)
	if err != nil {
		return nil, asValidation(err)
	}
	agg := models.NewAggregate(person)

	for _, n := range cmd.Names {
		name, err := models.NewPersonName(id.NewPersonNameID(), person.ID, n.NameFields, n.Preferred, actor, now)
		if err != nil {
			return nil, asValidation(err)
		}
		if _, err := agg.AddName(name, actor, now); err != nil {
			return nil, err
		}
	}
	for _, a := range cmd.Addresses {
		fields := a.AddressFields
		fields.Location = s.resolveLocation(ctx, fields.Location)
		addr, err := models.NewPersonAddress(id.NewPersonAddressID(), person.ID, fields, a.Preferred, actor, now)
		if err != nil {
			return nil, asValidation(err)
		}
		if _, err := agg.AddAddress(addr, actor, now); err != nil {
			return nil, err
		}
	}
	for _, a := range cmd.Attributes {
		attr, err := models.NewPersonAttribute(id.NewPersonAttributeID(), person.ID, a.AttributeTypeID, a.Value, a.Preferred, actor, now)
		if err != nil {
			return nil, asValidation(err)
		}
		if _, err := agg.AddAttribute(attr, actor, now); err != nil {
			return nil, err
		}
	}

	err = s.tx.RunInTx(ctx, personKey(person.ID), func(ctx context.Context) error {
		if err := s.persons.Save(ctx, person); err != nil {
			return s.storeErr(ctx, err, "person", person.ID, "save")
		}
		if err := s.saveNames(ctx, agg.Names(true)...); err != nil {
			return err
		}
		if err := s.saveAddresses(ctx, agg.Addresses(true)...); err != nil {
			return err
		}
		return s.saveAttributes(ctx, agg.Attributes(true)...)
	})
	if err != nil {
		return nil, s.finish(ctx, err, "add person")
	}

	s.emit(ctx, auditRecord{
		event:      audit.EventPersonCreated,
		entityType: "person",
		entityID:   person.ID.String(),
		personID:   person.ID,
		actor:      actor,
	}, now)
	if s.metrics != nil {
		s.metrics.IncrementPersonsCreated()
	}
	return agg.Details(false), nil
}

// UpdatePerson applies the non-nil fields of patch. Voided persons are only
// found when includeVoided is set.
func (s *Service) UpdatePerson(ctx context.Context, personID id.PersonID, patch models.PersonPatch, includeVoided bool) (_ *models.Person, err error) {
	ctx, done := s.begin(ctx, "update_person", attribute.String("person_id", personID.String()))
	defer func() { done(err) }()

	actor, err := s.actor(ctx)
	if err != nil {
		return nil, err
	}
	now := s.now(ctx)

	var updated *models.Person
	err = s.tx.RunInTx(ctx, personKey(personID), func(ctx context.Context) error {
		person, err := s.persons.FindByIDForUpdate(ctx, personID)
		if err != nil {
			return s.storeErr(ctx, err, "person", personID, "load")
		}
		if !person.IsActive() && !includeVoided {
			return dErrors.Newf(dErrors.CodeNotFound, "person %s not found", personID)
		}
		if err := person.ApplyPatch(patch, actor, now); err != nil {
			return err
		}
		if err := s.persons.Save(ctx, person); err != nil {
			return s.storeErr(ctx, err, "person", personID, "save")
		}
		updated = person
		return nil
	})
	if err != nil {
		return nil, s.finish(ctx, err, "update person")
	}

	s.emit(ctx, auditRecord{
		event:      audit.EventPersonUpdated,
		entityType: "person",
		entityID:   personID.String(),
		personID:   personID,
		actor:      actor,
	}, now)
	return updated, nil
}

// VoidPerson marks a person voided. Owned names, addresses and attributes
// keep their own state. Voiding an already voided person changes nothing and
// reports AlreadyVoided.
func (s *Service) VoidPerson(ctx context.Context, personID id.PersonID, reason string) (_ *models.VoidResult, err error) {
	ctx, done := s.begin(ctx, "void_person", attribute.String("person_id", personID.String()))
	defer func() { done(err) }()

	actor, err := s.actor(ctx)
	if err != nil {
		return nil, err
	}
	now := s.now(ctx)

	result := &models.VoidResult{PersonID: personID}
	err = s.tx.RunInTx(ctx, personKey(personID), func(ctx context.Context) error {
		person, err := s.persons.FindByIDForUpdate(ctx, personID)
		if err != nil {
			return s.storeErr(ctx, err, "person", personID, "load")
		}
		if err := person.Void(reason, actor, now); err != nil {
			if errors.Is(err, models.ErrAlreadyVoided) {
				result.AlreadyVoided = true
				result.Voided = true
				result.VoidedAt = person.VoidedAt
				result.VoidReason = person.VoidReason
				return nil
			}
			return err
		}
		if err := s.persons.Save(ctx, person); err != nil {
			return s.storeErr(ctx, err, "person", personID, "save")
		}
		result.Voided = true
		result.VoidedAt = person.VoidedAt
		result.VoidReason = person.VoidReason
		return nil
	})
	if err != nil {
		return nil, s.finish(ctx, err, "void person")
	}

	if result.AlreadyVoided {
		s.logger.WarnContext(ctx, "person already voided",
			"person_id", personID.String(),
			"actor_id", actor.String(),
		)
		return result, nil
	}
	s.emit(ctx, auditRecord{
		event:      audit.EventPersonVoided,
		entityType: "person",
		entityID:   personID.String(),
		personID:   personID,
		actor:      actor,
		reason:     result.VoidReason,
	}, now)
	if s.metrics != nil {
		s.metrics.IncrementVoid("person")
	}
	return result, nil
}

// GetPerson returns a person with its collections. includeVoided controls
// both whether a voided person is found and whether voided sub-records are
// included.
func (s *Service) GetPerson(ctx context.Context, personID id.PersonID, includeVoided bool) (_ *models.PersonDetails, err error) {
	ctx, done := s.begin(ctx, "get_person", attribute.String("person_id", personID.String()))
	defer func() { done(err) }()

	var details *models.PersonDetails
	err = s.tx.RunInTx(ctx, personKey(personID), func(ctx context.Context) error {
		agg, err := s.loadAggregate(ctx, personID, includeVoided, false)
		if err != nil {
			return err
		}
		details = agg.Details(includeVoided)
		return nil
	})
	if err != nil {
		return nil, s.finish(ctx, err, "get person")
	}
	return details, nil
}

// ListPersons pages through person records without their collections.
func (s *Service) ListPersons(ctx context.Context, q models.ListPersonsQuery) (_ []*models.Person, err error) {
	ctx, done := s.begin(ctx, "list_persons")
	defer func() { done(err) }()

	q = q.Normalize()
	persons, err := s.persons.List(ctx, q)
	if err != nil {
		scope := listScope(fmt.Sprintf("limit=%d offset=%d include_voided=%t", q.Limit, q.Offset, q.IncludeVoided))
		return nil, s.storeErr(ctx, err, "persons", scope, "list")
	}
	return persons, nil
}

// PurgePerson hard-deletes a person and every row it owns. It is meant for
// administrative tooling; normal callers void instead.
func (s *Service) PurgePerson(ctx context.Context, personID id.PersonID) (err error) {
	ctx, done := s.begin(ctx, "purge_person", attribute.String("person_id", personID.String()))
	defer func() { done(err) }()

	actor, err := s.actor(ctx)
	if err != nil {
		return err
	}
	now := s.now(ctx)

	err = s.tx.RunInTx(ctx, personKey(personID), func(ctx context.Context) error {
		if _, err := s.persons.FindByIDForUpdate(ctx, personID); err != nil {
			return s.storeErr(ctx, err, "person", personID, "load")
		}
		if err := s.attributes.DeleteByOwner(ctx, personID); err != nil {
			return s.storeErr(ctx, err, "person attribute", personID, "delete")
		}
		if err := s.addresses.DeleteByOwner(ctx, personID); err != nil {
			return s.storeErr(ctx, err, "person address", personID, "delete")
		}
		if err := s.names.DeleteByOwner(ctx, personID); err != nil {
			return s.storeErr(ctx, err, "person name", personID, "delete")
		}
		if err := s.persons.Delete(ctx, personID); err != nil {
			return s.storeErr(ctx, err, "person", personID, "delete")
		}
		return nil
	})
	if err != nil {
		return s.finish(ctx, err, "purge person")
	}

	s.emit(ctx, auditRecord{
		event:      audit.EventPersonPurged,
		entityType: "person",
		entityID:   personID.String(),
		personID:   personID,
		actor:      actor,
	}, now)
	return nil
}

func (s *Service) requireActiveTypes(ctx context.Context, attrs []models.NewAttributeCommand) error {
	seen := make(map[id.AttributeTypeID]bool, len(attrs))
	for _, a := range attrs {
		if seen[a.AttributeTypeID] {
			continue
		}
		if _, err := s.activeAttributeType(ctx, a.AttributeTypeID); err != nil {
			return err
		}
		seen[a.AttributeTypeID] = true
	}
	return nil
}

func (s *Service) activeAttributeType(ctx context.Context, typeID id.AttributeTypeID) (*models.AttributeType, error) {
	if typeID.IsNil() {
		return nil, dErrors.New(dErrors.CodeValidation, "attribute type is required")
	}
	t, err := s.attributeTypes.FindByID(ctx, typeID)
	if err != nil {
		return nil, s.storeErr(ctx, err, "attribute type", typeID, "load")
	}
	if !t.IsActive() {
		return nil, dErrors.Newf(dErrors.CodeNotFound, "attribute type %s not found", typeID)
	}
	return t, nil
}
