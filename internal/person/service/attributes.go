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

const entityAttribute = "person attribute"

// AddPersonAttribute adds an attribute of an active type. The preferred flag
// is scoped to the attribute type.
func (s *Service) AddPersonAttribute(ctx context.Context, personID id.PersonID, cmd models.NewAttributeCommand) (_ *models.PersonAttribute, err error) {
	ctx, done := s.begin(ctx, "add_person_attribute",
		attribute.String("person_id", personID.String()),
		attribute.String("attribute_type_id", cmd.AttributeTypeID.String()),
	)
	defer func() { done(err) }()

	actor, err := s.actor(ctx)
	if err != nil {
		return nil, err
	}
	now := s.now(ctx)

	if _, err := s.activeAttributeType(ctx, cmd.AttributeTypeID); err != nil {
		return nil, err
	}
	attr, err := models.NewPersonAttribute(id.NewPersonAttributeID(), personID, cmd.AttributeTypeID, cmd.Value, cmd.Preferred, actor, now)
	if err != nil {
		return nil, asValidation(err)
	}

	err = s.tx.RunInTx(ctx, personKey(personID), func(ctx context.Context) error {
		agg, err := s.loadAggregate(ctx, personID, false, true)
		if err != nil {
			return err
		}
		touched, err := agg.AddAttribute(attr, actor, now)
		if err != nil {
			return err
		}
		return s.saveAttributes(ctx, append(touched, attr)...)
	})
	if err != nil {
		return nil, s.finish(ctx, err, "add person attribute")
	}

	s.emit(ctx, auditRecord{
		event:      audit.EventAttributeAdded,
		entityType: entityAttribute,
		entityID:   attr.ID.String(),
		personID:   personID,
		actor:      actor,
	}, now)
	if s.metrics != nil {
		s.metrics.IncrementSubRecordAdded(entityAttribute)
	}
	return attr, nil
}

// UpdatePersonAttribute changes the value and, when requested, moves the
// preferred flag within the attribute's type.
func (s *Service) UpdatePersonAttribute(ctx context.Context, personID id.PersonID, attrID id.PersonAttributeID, patch models.AttributePatch) (_ *models.PersonAttribute, err error) {
	ctx, done := s.begin(ctx, "update_person_attribute", attribute.String("person_id", personID.String()))
	defer func() { done(err) }()

	actor, err := s.actor(ctx)
	if err != nil {
		return nil, err
	}
	now := s.now(ctx)

	var updated *models.PersonAttribute
	err = s.tx.RunInTx(ctx, personKey(personID), func(ctx context.Context) error {
		agg, err := s.loadAggregate(ctx, personID, false, true)
		if err != nil {
			return err
		}
		touched, err := agg.UpdateAttribute(attrID, patch, actor, now)
		if err != nil {
			s.countConflict(err, entityAttribute)
			return err
		}
		updated, _ = agg.Attribute(attrID)
		return s.saveAttributes(ctx, touched...)
	})
	if err != nil {
		return nil, s.finish(ctx, err, "update person attribute")
	}

	s.emit(ctx, auditRecord{
		event:      audit.EventAttributeUpdated,
		entityType: entityAttribute,
		entityID:   attrID.String(),
		personID:   personID,
		actor:      actor,
	}, now)
	return updated, nil
}

// VoidPersonAttribute voids an attribute. The preferred attribute of a type
// can only be voided when it is the last active attribute of that type.
func (s *Service) VoidPersonAttribute(ctx context.Context, personID id.PersonID, attrID id.PersonAttributeID, reason string) (_ *models.PersonAttribute, err error) {
	ctx, done := s.begin(ctx, "void_person_attribute", attribute.String("person_id", personID.String()))
	defer func() { done(err) }()

	actor, err := s.actor(ctx)
	if err != nil {
		return nil, err
	}
	now := s.now(ctx)

	var (
		voided        *models.PersonAttribute
		alreadyVoided bool
	)
	err = s.tx.RunInTx(ctx, personKey(personID), func(ctx context.Context) error {
		agg, err := s.loadAggregate(ctx, personID, false, true)
		if err != nil {
			return err
		}
		attr, err := agg.VoidAttribute(attrID, reason, actor, now)
		if errors.Is(err, models.ErrAlreadyVoided) {
			voided, alreadyVoided = attr, true
			return nil
		}
		if err != nil {
			s.countConflict(err, entityAttribute)
			return err
		}
		voided = attr
		return s.saveAttributes(ctx, attr)
	})
	if err != nil {
		return nil, s.finish(ctx, err, "void person attribute")
	}

	if alreadyVoided {
		s.logger.WarnContext(ctx, "person attribute already voided",
			"person_id", personID.String(),
			"attribute_id", attrID.String(),
		)
		return voided, nil
	}
	s.emit(ctx, auditRecord{
		event:      audit.EventAttributeVoided,
		entityType: entityAttribute,
		entityID:   attrID.String(),
		personID:   personID,
		actor:      actor,
		reason:     voided.VoidReason,
	}, now)
	if s.metrics != nil {
		s.metrics.IncrementVoid(entityAttribute)
	}
	return voided, nil
}

// GetPersonAttribute returns an attribute owned by the person, voided or not.
func (s *Service) GetPersonAttribute(ctx context.Context, personID id.PersonID, attrID id.PersonAttributeID) (*models.PersonAttribute, error) {
	attr, err := s.attributes.FindByID(ctx, attrID)
	if err != nil {
		return nil, s.storeErr(ctx, err, entityAttribute, attrID, "load")
	}
	if attr.PersonID != personID {
		return nil, dErrors.Newf(dErrors.CodeNotFound, "%s %s not found", entityAttribute, attrID)
	}
	return attr, nil
}

// ListPersonAttributes returns the attributes of an active person in creation
// order.
func (s *Service) ListPersonAttributes(ctx context.Context, personID id.PersonID, includeVoided bool) ([]*models.PersonAttribute, error) {
	if err := s.requirePerson(ctx, personID); err != nil {
		return nil, err
	}
	attrs, err := s.attributes.FindAllByOwner(ctx, personID, includeVoided)
	if err != nil {
		return nil, s.storeErr(ctx, err, entityAttribute, personID, "list")
	}
	return attrs, nil
}

// GetPreferredAttribute returns the preferred active attribute of one type.
func (s *Service) GetPreferredAttribute(ctx context.Context, personID id.PersonID, typeID id.AttributeTypeID) (*models.PersonAttribute, error) {
	if err := s.requirePerson(ctx, personID); err != nil {
		return nil, err
	}
	attr, err := s.attributes.FindPreferred(ctx, personID, typeID)
	if err != nil {
		return nil, s.storeErr(ctx, err, "preferred attribute of type", typeID, "load")
	}
	return attr, nil
}

func (s *Service) saveAttributes(ctx context.Context, attrs ...*models.PersonAttribute) error {
	for _, a := range attrs {
		if err := s.attributes.Save(ctx, a); err != nil {
			return s.storeErr(ctx, err, entityAttribute, a.ID, "save")
		}
	}
	return nil
}
