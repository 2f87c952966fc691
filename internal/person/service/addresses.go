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

const entityAddress = "person address"

// AddPersonAddress adds an address. Location ids are resolved to display
// values before the unit of work; a failed lookup keeps the ids only.
func (s *Service) AddPersonAddress(ctx context.Context, personID id.PersonID, cmd models.NewAddressCommand) (_ *models.PersonAddress, err error) {
	ctx, done := s.begin(ctx, "add_person_address", attribute.String("person_id", personID.String()))
	defer func() { done(err) }()

	actor, err := s.actor(ctx)
	if err != nil {
		return nil, err
	}
	now := s.now(ctx)

	fields := cmd.AddressFields
	fields.Location = s.resolveLocation(ctx, fields.Location)
	addr, err := models.NewPersonAddress(id.NewPersonAddressID(), personID, fields, cmd.Preferred, actor, now)
	if err != nil {
		return nil, asValidation(err)
	}

	err = s.tx.RunInTx(ctx, personKey(personID), func(ctx context.Context) error {
		agg, err := s.loadAggregate(ctx, personID, false, true)
		if err != nil {
			return err
		}
		touched, err := agg.AddAddress(addr, actor, now)
		if err != nil {
			return err
		}
		return s.saveAddresses(ctx, append(touched, addr)...)
	})
	if err != nil {
		return nil, s.finish(ctx, err, "add person address")
	}

	s.emit(ctx, auditRecord{
		event:      audit.EventAddressAdded,
		entityType: entityAddress,
		entityID:   addr.ID.String(),
		personID:   personID,
		actor:      actor,
	}, now)
	if s.metrics != nil {
		s.metrics.IncrementSubRecordAdded(entityAddress)
	}
	return addr, nil
}

// UpdatePersonAddress patches the address and, when requested, moves the
// preferred flag through the aggregate.
func (s *Service) UpdatePersonAddress(ctx context.Context, personID id.PersonID, addressID id.PersonAddressID, patch models.AddressPatch) (_ *models.PersonAddress, err error) {
	ctx, done := s.begin(ctx, "update_person_address", attribute.String("person_id", personID.String()))
	defer func() { done(err) }()

	actor, err := s.actor(ctx)
	if err != nil {
		return nil, err
	}
	now := s.now(ctx)

	if patch.Location != nil {
		resolved := s.resolveLocation(ctx, *patch.Location)
		patch.Location = &resolved
	}

	var updated *models.PersonAddress
	err = s.tx.RunInTx(ctx, personKey(personID), func(ctx context.Context) error {
		agg, err := s.loadAggregate(ctx, personID, false, true)
		if err != nil {
			return err
		}
		touched, err := agg.UpdateAddress(addressID, patch, actor, now)
		if err != nil {
			s.countConflict(err, entityAddress)
			return err
		}
		updated, _ = agg.Address(addressID)
		return s.saveAddresses(ctx, touched...)
	})
	if err != nil {
		return nil, s.finish(ctx, err, "update person address")
	}

	s.emit(ctx, auditRecord{
		event:      audit.EventAddressUpdated,
		entityType: entityAddress,
		entityID:   addressID.String(),
		personID:   personID,
		actor:      actor,
	}, now)
	return updated, nil
}

// VoidPersonAddress voids an address under the same rules as names.
func (s *Service) VoidPersonAddress(ctx context.Context, personID id.PersonID, addressID id.PersonAddressID, reason string) (_ *models.PersonAddress, err error) {
	ctx, done := s.begin(ctx, "void_person_address", attribute.String("person_id", personID.String()))
	defer func() { done(err) }()

	actor, err := s.actor(ctx)
	if err != nil {
		return nil, err
	}
	now := s.now(ctx)

	var (
		voided        *models.PersonAddress
		alreadyVoided bool
	)
	err = s.tx.RunInTx(ctx, personKey(personID), func(ctx context.Context) error {
		agg, err := s.loadAggregate(ctx, personID, false, true)
		if err != nil {
			return err
		}
		addr, err := agg.VoidAddress(addressID, reason, actor, now)
		if errors.Is(err, models.ErrAlreadyVoided) {
			voided, alreadyVoided = addr, true
			return nil
		}
		if err != nil {
			s.countConflict(err, entityAddress)
			return err
		}
		voided = addr
		return s.saveAddresses(ctx, addr)
	})
	if err != nil {
		return nil, s.finish(ctx, err, "void person address")
	}

	if alreadyVoided {
		s.logger.WarnContext(ctx, "person address already voided",
			"person_id", personID.String(),
			"address_id", addressID.String(),
		)
		return voided, nil
	}
	s.emit(ctx, auditRecord{
		event:      audit.EventAddressVoided,
		entityType: entityAddress,
		entityID:   addressID.String(),
		personID:   personID,
		actor:      actor,
		reason:     voided.VoidReason,
	}, now)
	if s.metrics != nil {
		s.metrics.IncrementVoid(entityAddress)
	}
	return voided, nil
}

// GetPersonAddress returns an address owned by the person, voided or not.
func (s *Service) GetPersonAddress(ctx context.Context, personID id.PersonID, addressID id.PersonAddressID) (*models.PersonAddress, error) {
	addr, err := s.addresses.FindByID(ctx, addressID)
	if err != nil {
		return nil, s.storeErr(ctx, err, entityAddress, addressID, "load")
	}
	if addr.PersonID != personID {
		return nil, dErrors.Newf(dErrors.CodeNotFound, "%s %s not found", entityAddress, addressID)
	}
	return addr, nil
}

// ListPersonAddresses returns the addresses of an active person in creation
// order.
func (s *Service) ListPersonAddresses(ctx context.Context, personID id.PersonID, includeVoided bool) ([]*models.PersonAddress, error) {
	if err := s.requirePerson(ctx, personID); err != nil {
		return nil, err
	}
	addrs, err := s.addresses.FindAllByOwner(ctx, personID, includeVoided)
	if err != nil {
		return nil, s.storeErr(ctx, err, entityAddress, personID, "list")
	}
	return addrs, nil
}

// GetPreferredAddress returns the preferred active address of a person.
func (s *Service) GetPreferredAddress(ctx context.Context, personID id.PersonID) (*models.PersonAddress, error) {
	if err := s.requirePerson(ctx, personID); err != nil {
		return nil, err
	}
	addr, err := s.addresses.FindPreferred(ctx, personID)
	if err != nil {
		return nil, s.storeErr(ctx, err, "preferred address of person", personID, "load")
	}
	return addr, nil
}

func (s *Service) saveAddresses(ctx context.Context, addrs ...*models.PersonAddress) error {
	for _, a := range addrs {
		if err := s.addresses.Save(ctx, a); err != nil {
			return s.storeErr(ctx, err, entityAddress, a.ID, "save")
		}
	}
	return nil
}
