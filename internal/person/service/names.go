package service

import (
	"context"
	"errors"

	"go.opentelemetry.io/otel/attribute"

	"demographics/internal/person/models"
	id "demographics/pkg/domain"
	dErrors "demographics/pkg/domain-errors"
	"demographics/pkg/platform/audit"
)

const entityName = "person name"

// AddPersonName adds a name. A preferred name demotes the current preferred
// name; the first active name becomes preferred regardless of the request.
func (s *Service) AddPersonName(ctx context.Context, personID id.PersonID, cmd models.NewNameCommand) (_ *models.PersonName, err error) {
	ctx, done := s.begin(ctx, "add_person_name", attribute.String("person_id", personID.String()))
	defer func() { done(err) }()

	actor, err := s.actor(ctx)
	if err != nil {
		return nil, err
	}
	now := s.now(ctx)

	name, err := models.NewPersonName(id.NewPersonNameID(), personID, cmd.NameFields, cmd.Preferred, actor, now)
	if err != nil {
		return nil, asValidation(err)
	}

	err = s.tx.RunInTx(ctx, personKey(personID), func(ctx context.Context) error {
		agg, err := s.loadAggregate(ctx, personID, false, true)
		if err != nil {
			return err
		}
		touched, err := agg.AddName(name, actor, now)
		if err != nil {
			return err
		}
		return s.saveNames(ctx, append(touched, name)...)
	})
	if err != nil {
		return nil, s.finish(ctx, err, "add person name")
	}

	s.emit(ctx, auditRecord{
		event:      audit.EventNameAdded,
		entityType: entityName,
		entityID:   name.ID.String(),
		personID:   personID,
		actor:      actor,
	}, now)
	if s.metrics != nil {
		s.metrics.IncrementSubRecordAdded(entityName)
	}
	return name, nil
}

// UpdatePersonName patches the name fields and, when requested, moves the
// preferred flag through the aggregate.
func (s *Service) UpdatePersonName(ctx context.Context, personID id.PersonID, nameID id.PersonNameID, patch models.NamePatch) (_ *models.PersonName, err error) {
	ctx, done := s.begin(ctx, "update_person_name", attribute.String("person_id", personID.String()))
	defer func() { done(err) }()

	actor, err := s.actor(ctx)
	if err != nil {
		return nil, err
	}
	now := s.now(ctx)

	var updated *models.PersonName
	err = s.tx.RunInTx(ctx, personKey(personID), func(ctx context.Context) error {
		agg, err := s.loadAggregate(ctx, personID, false, true)
		if err != nil {
			return err
		}
		touched, err := agg.UpdateName(nameID, patch, actor, now)
		if err != nil {
			s.countConflict(err, entityName)
			return err
		}
		updated, _ = agg.Name(nameID)
		return s.saveNames(ctx, touched...)
	})
	if err != nil {
		return nil, s.finish(ctx, err, "update person name")
	}

	s.emit(ctx, auditRecord{
		event:      audit.EventNameUpdated,
		entityType: entityName,
		entityID:   nameID.String(),
		personID:   personID,
		actor:      actor,
	}, now)
	return updated, nil
}

// VoidPersonName voids a name. The preferred name can only be voided when it
// is the last active name. A second void returns the name unchanged.
func (s *Service) VoidPersonName(ctx context.Context, personID id.PersonID, nameID id.PersonNameID, reason string) (_ *models.PersonName, err error) {
	ctx, done := s.begin(ctx, "void_person_name", attribute.String("person_id", personID.String()))
	defer func() { done(err) }()

	actor, err := s.actor(ctx)
	if err != nil {
		return nil, err
	}
	now := s.now(ctx)

	var (
		voided        *models.PersonName
		alreadyVoided bool
	)
	err = s.tx.RunInTx(ctx, personKey(personID), func(ctx context.Context) error {
		agg, err := s.loadAggregate(ctx, personID, false, true)
		if err != nil {
			return err
		}
		name, err := agg.VoidName(nameID, reason, actor, now)
		if errors.Is(err, models.ErrAlreadyVoided) {
			voided, alreadyVoided = name, true
			return nil
		}
		if err != nil {
			s.countConflict(err, entityName)
			return err
		}
		voided = name
		return s.saveNames(ctx, name)
	})
	if err != nil {
		return nil, s.finish(ctx, err, "void person name")
	}

	if alreadyVoided {
		s.logger.WarnContext(ctx, "person name already voided",
			"person_id", personID.String(),
			"name_id", nameID.String(),
		)
		return voided, nil
	}
	s.emit(ctx, auditRecord{
		event:      audit.EventNameVoided,
		entityType: entityName,
		entityID:   nameID.String(),
		personID:   personID,
		actor:      actor,
		reason:     voided.VoidReason,
	}, now)
	if s.metrics != nil {
		s.metrics.IncrementVoid(entityName)
	}
	return voided, nil
}

// GetPersonName returns a name owned by the person, voided or not.
func (s *Service) GetPersonName(ctx context.Context, personID id.PersonID, nameID id.PersonNameID) (*models.PersonName, error) {
	name, err := s.names.FindByID(ctx, nameID)
	if err != nil {
		return nil, s.storeErr(ctx, err, entityName, nameID, "load")
	}
	if name.PersonID != personID {
		return nil, dErrors.Newf(dErrors.CodeNotFound, "%s %s not found", entityName, nameID)
	}
	return name, nil
}

// ListPersonNames returns the names of an active person in creation order.
func (s *Service) ListPersonNames(ctx context.Context, personID id.PersonID, includeVoided bool) ([]*models.PersonName, error) {
	if err := s.requirePerson(ctx, personID); err != nil {
		return nil, err
	}
	names, err := s.names.FindAllByOwner(ctx, personID, includeVoided)
	if err != nil {
		return nil, s.storeErr(ctx, err, entityName, personID, "list")
	}
	return names, nil
}

// GetPreferredName returns the preferred active name of a person.
func (s *Service) GetPreferredName(ctx context.Context, personID id.PersonID) (*models.PersonName, error) {
	if err := s.requirePerson(ctx, personID); err != nil {
		return nil, err
	}
	name, err := s.names.FindPreferred(ctx, personID)
	if err != nil {
		return nil, s.storeErr(ctx, err, "preferred name of person", personID, "load")
	}
	return name, nil
}

func (s *Service) saveNames(ctx context.Context, names ...*models.PersonName) error {
	for _, n := range names {
		if err := s.names.Save(ctx, n); err != nil {
			return s.storeErr(ctx, err, entityName, n.ID, "save")
		}
	}
	return nil
}

// requirePerson fails with NotFound unless the person exists and is active.
func (s *Service) requirePerson(ctx context.Context, personID id.PersonID) error {
	person, err := s.persons.FindByID(ctx, personID)
	if err != nil {
		return s.storeErr(ctx, err, "person", personID, "load")
	}
	if !person.IsActive() {
		return dErrors.Newf(dErrors.CodeNotFound, "person %s not found", personID)
	}
	return nil
}
