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
	"demographics/pkg/platform/sentinel"
)

const (
	entityAttributeType = "attribute type"

	// catalogKey serializes registry writes so the name check and the save
	// see the same catalog.
	catalogKey = "attribute-types"
)

// CreateAttributeType registers a type. Names are unique among active types,
// ignoring case.
func (s *Service) CreateAttributeType(ctx context.Context, cmd models.NewAttributeTypeCommand) (_ *models.AttributeType, err error) {
	ctx, done := s.begin(ctx, "create_attribute_type")
	defer func() { done(err) }()

	actor, err := s.actor(ctx)
	if err != nil {
		return nil, err
	}
	now := s.now(ctx)

	t, err := models.NewAttributeType(id.NewAttributeTypeID(), cmd.Name, cmd.Description, cmd.Format, actor, now)
	if err != nil {
		return nil, asValidation(err)
	}

	err = s.tx.RunInTx(ctx, catalogKey, func(ctx context.Context) error {
		if err := s.ensureNameAvailable(ctx, t.Name, t.ID); err != nil {
			return err
		}
		if err := s.attributeTypes.Save(ctx, t); err != nil {
			return s.storeErr(ctx, err, entityAttributeType, t.ID, "save")
		}
		return nil
	})
	if err != nil {
		return nil, s.finish(ctx, err, "create attribute type")
	}

	s.emit(ctx, auditRecord{
		event:      audit.EventAttributeTypeCreated,
		entityType: entityAttributeType,
		entityID:   t.ID.String(),
		actor:      actor,
	}, now)
	return t, nil
}

// UpdateAttributeType patches an active type.
func (s *Service) UpdateAttributeType(ctx context.Context, typeID id.AttributeTypeID, patch models.AttributeTypePatch) (_ *models.AttributeType, err error) {
	ctx, done := s.begin(ctx, "update_attribute_type", attribute.String("attribute_type_id", typeID.String()))
	defer func() { done(err) }()

	actor, err := s.actor(ctx)
	if err != nil {
		return nil, err
	}
	now := s.now(ctx)

	var updated *models.AttributeType
	err = s.tx.RunInTx(ctx, catalogKey, func(ctx context.Context) error {
		t, err := s.attributeTypes.FindByID(ctx, typeID)
		if err != nil {
			return s.storeErr(ctx, err, entityAttributeType, typeID, "load")
		}
		if err := t.ApplyPatch(patch, actor, now); err != nil {
			return err
		}
		if patch.Name != nil {
			if err := s.ensureNameAvailable(ctx, t.Name, t.ID); err != nil {
				return err
			}
		}
		if err := s.attributeTypes.Save(ctx, t); err != nil {
			return s.storeErr(ctx, err, entityAttributeType, typeID, "save")
		}
		updated = t
		return nil
	})
	if err != nil {
		return nil, s.finish(ctx, err, "update attribute type")
	}

	s.emit(ctx, auditRecord{
		event:      audit.EventAttributeTypeUpdated,
		entityType: entityAttributeType,
		entityID:   typeID.String(),
		actor:      actor,
	}, now)
	return updated, nil
}

// VoidAttributeType retires a type. Existing attributes keep referring to it;
// new attributes of the type are refused.
func (s *Service) VoidAttributeType(ctx context.Context, typeID id.AttributeTypeID, reason string) (_ *models.AttributeType, err error) {
	ctx, done := s.begin(ctx, "void_attribute_type", attribute.String("attribute_type_id", typeID.String()))
	defer func() { done(err) }()

	actor, err := s.actor(ctx)
	if err != nil {
		return nil, err
	}
	now := s.now(ctx)

	var (
		voided        *models.AttributeType
		alreadyVoided bool
	)
	err = s.tx.RunInTx(ctx, catalogKey, func(ctx context.Context) error {
		t, err := s.attributeTypes.FindByID(ctx, typeID)
		if err != nil {
			return s.storeErr(ctx, err, entityAttributeType, typeID, "load")
		}
		voided = t
		if err := t.Void(reason, actor, now); err != nil {
			if errors.Is(err, models.ErrAlreadyVoided) {
				alreadyVoided = true
				return nil
			}
			return err
		}
		if err := s.attributeTypes.Save(ctx, t); err != nil {
			return s.storeErr(ctx, err, entityAttributeType, typeID, "save")
		}
		return nil
	})
	if err != nil {
		return nil, s.finish(ctx, err, "void attribute type")
	}

	if alreadyVoided {
		s.logger.WarnContext(ctx, "attribute type already voided",
			"attribute_type_id", typeID.String(),
		)
		return voided, nil
	}
	s.emit(ctx, auditRecord{
		event:      audit.EventAttributeTypeVoided,
		entityType: entityAttributeType,
		entityID:   typeID.String(),
		actor:      actor,
		reason:     voided.VoidReason,
	}, now)
	return voided, nil
}

// GetAttributeType returns a type, voided or not.
func (s *Service) GetAttributeType(ctx context.Context, typeID id.AttributeTypeID) (*models.AttributeType, error) {
	t, err := s.attributeTypes.FindByID(ctx, typeID)
	if err != nil {
		return nil, s.storeErr(ctx, err, entityAttributeType, typeID, "load")
	}
	return t, nil
}

// ListAttributeTypes returns the registry ordered by name.
func (s *Service) ListAttributeTypes(ctx context.Context, includeVoided bool) ([]*models.AttributeType, error) {
	types, err := s.attributeTypes.List(ctx, includeVoided)
	if err != nil {
		scope := listScope(fmt.Sprintf("include_voided=%t", includeVoided))
		return nil, s.storeErr(ctx, err, "attribute types", scope, "list")
	}
	return types, nil
}

func (s *Service) ensureNameAvailable(ctx context.Context, name string, self id.AttributeTypeID) error {
	existing, err := s.attributeTypes.FindByName(ctx, name)
	if errors.Is(err, sentinel.ErrNotFound) {
		return nil
	}
	if err != nil {
		return s.storeErr(ctx, err, entityAttributeType, self, "load")
	}
	if existing.ID != self {
		return dErrors.Newf(dErrors.CodeConflict, "attribute type name %q is already used", name)
	}
	return nil
}
