package models

import (
	"time"

	id "demographics/pkg/domain"
	dErrors "demographics/pkg/domain-errors"
)

// Aggregate is a person together with the names, addresses and attributes it
// owns. All changes to the owned collections go through it so the preferred
// flag stays consistent.
//
// Invariants:
//   - at most one active preferred name
//   - at most one active preferred address
//   - at most one active preferred attribute per attribute type
//   - every member is owned by Person.ID
type Aggregate struct {
	Person *Person

	names      *collection[id.PersonNameID, *PersonName]
	addresses  *collection[id.PersonAddressID, *PersonAddress]
	attributes *collection[id.PersonAttributeID, *PersonAttribute]
}

// NewAggregate wraps a newly created person with empty collections.
func NewAggregate(p *Person) *Aggregate {
	return &Aggregate{
		Person:     p,
		names:      newCollection[id.PersonNameID, *PersonName]("person name"),
		addresses:  newCollection[id.PersonAddressID, *PersonAddress]("person address"),
		attributes: newCollection[id.PersonAttributeID, *PersonAttribute]("person attribute"),
	}
}

// Rehydrate rebuilds an aggregate from persisted rows. Rows are kept in the
// order given. Two active preferred members in one group fail with
// CodeInvariantViolation.
func Rehydrate(p *Person, names []*PersonName, addresses []*PersonAddress, attributes []*PersonAttribute) (*Aggregate, error) {
	if p == nil {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "person is required")
	}
	agg := NewAggregate(p)
	for _, n := range names {
		if err := agg.names.load(n, p.ID); err != nil {
			return nil, err
		}
	}
	for _, a := range addresses {
		if err := agg.addresses.load(a, p.ID); err != nil {
			return nil, err
		}
	}
	for _, a := range attributes {
		if err := agg.attributes.load(a, p.ID); err != nil {
			return nil, err
		}
	}
	return agg, nil
}

func (a *Aggregate) ensureMutable() error {
	if !a.Person.IsActive() {
		return dErrors.Newf(dErrors.CodeConflict, "person %s is voided", a.Person.ID)
	}
	return nil
}

// ============================================================================
// Names
// ============================================================================

// AddName adds n and returns the names it demoted.
func (a *Aggregate) AddName(n *PersonName, by id.ActorID, at time.Time) ([]*PersonName, error) {
	if n == nil {
		return nil, dErrors.New(dErrors.CodeValidation, "name is required")
	}
	if err := a.ensureMutable(); err != nil {
		return nil, err
	}
	return a.names.add(n, a.Person.ID, by, at)
}

// Name returns a name by id, voided or not.
func (a *Aggregate) Name(nameID id.PersonNameID) (*PersonName, bool) {
	return a.names.get(nameID)
}

// PreferredName returns the preferred active name, or nil.
func (a *Aggregate) PreferredName() *PersonName {
	n, _ := a.names.preferredOf("")
	return n
}

// Names returns names in creation order.
func (a *Aggregate) Names(includeVoided bool) []*PersonName {
	return a.names.list(includeVoided)
}

// UpdateName applies field changes and then the preferred flag, returning
// every name it modified.
func (a *Aggregate) UpdateName(nameID id.PersonNameID, patch NamePatch, by id.ActorID, at time.Time) ([]*PersonName, error) {
	if err := a.ensureMutable(); err != nil {
		return nil, err
	}
	n, ok := a.names.get(nameID)
	if !ok {
		return nil, dErrors.Newf(dErrors.CodeNotFound, "person name %s not found", nameID)
	}
	if !n.IsActive() {
		return nil, dErrors.Newf(dErrors.CodeConflict, "person name %s is voided", nameID)
	}

	fields := n.fields()
	setString(&fields.FirstName, patch.FirstName)
	setString(&fields.MiddleName, patch.MiddleName)
	setString(&fields.LastName, patch.LastName)
	setString(&fields.OtherName, patch.OtherName)
	fields = fields.normalized()
	if err := fields.validate(); err != nil {
		return nil, err
	}

	var touched []*PersonName
	if patch.Preferred != nil {
		changed, err := a.names.setPreferred(nameID, *patch.Preferred, by, at)
		if err != nil {
			return nil, err
		}
		touched = changed
	}

	n.FirstName, n.MiddleName, n.LastName, n.OtherName = fields.FirstName, fields.MiddleName, fields.LastName, fields.OtherName
	n.MarkModified(by, at)
	return appendIfMissing(touched, n), nil
}

// VoidName voids a name. Voiding an already voided name returns
// ErrAlreadyVoided.
func (a *Aggregate) VoidName(nameID id.PersonNameID, reason string, by id.ActorID, at time.Time) (*PersonName, error) {
	if err := a.ensureMutable(); err != nil {
		return nil, err
	}
	return a.names.void(nameID, reason, by, at)
}

// ============================================================================
// Addresses
// ============================================================================

// AddAddress adds addr and returns the addresses it demoted.
func (a *Aggregate) AddAddress(addr *PersonAddress, by id.ActorID, at time.Time) ([]*PersonAddress, error) {
	if addr == nil {
		return nil, dErrors.New(dErrors.CodeValidation, "address is required")
	}
	if err := a.ensureMutable(); err != nil {
		return nil, err
	}
	return a.addresses.add(addr, a.Person.ID, by, at)
}

// Address returns an address by id, voided or not.
func (a *Aggregate) Address(addressID id.PersonAddressID) (*PersonAddress, bool) {
	return a.addresses.get(addressID)
}

// PreferredAddress returns the preferred active address, or nil.
func (a *Aggregate) PreferredAddress() *PersonAddress {
	addr, _ := a.addresses.preferredOf("")
	return addr
}

// Addresses returns addresses in creation order.
func (a *Aggregate) Addresses(includeVoided bool) []*PersonAddress {
	return a.addresses.list(includeVoided)
}

// UpdateAddress applies field changes and then the preferred flag.
func (a *Aggregate) UpdateAddress(addressID id.PersonAddressID, patch AddressPatch, by id.ActorID, at time.Time) ([]*PersonAddress, error) {
	if err := a.ensureMutable(); err != nil {
		return nil, err
	}
	addr, ok := a.addresses.get(addressID)
	if !ok {
		return nil, dErrors.Newf(dErrors.CodeNotFound, "person address %s not found", addressID)
	}
	if !addr.IsActive() {
		return nil, dErrors.Newf(dErrors.CodeConflict, "person address %s is voided", addressID)
	}

	fields := patch.apply(addr.AddressFields).normalized()
	if err := fields.validate(); err != nil {
		return nil, err
	}

	var touched []*PersonAddress
	if patch.Preferred != nil {
		changed, err := a.addresses.setPreferred(addressID, *patch.Preferred, by, at)
		if err != nil {
			return nil, err
		}
		touched = changed
	}

	addr.AddressFields = fields
	addr.MarkModified(by, at)
	return appendIfMissing(touched, addr), nil
}

// VoidAddress voids an address.
func (a *Aggregate) VoidAddress(addressID id.PersonAddressID, reason string, by id.ActorID, at time.Time) (*PersonAddress, error) {
	if err := a.ensureMutable(); err != nil {
		return nil, err
	}
	return a.addresses.void(addressID, reason, by, at)
}

// ============================================================================
// Attributes
// ============================================================================

// AddAttribute adds attr and returns the attributes of the same type it
// demoted.
func (a *Aggregate) AddAttribute(attr *PersonAttribute, by id.ActorID, at time.Time) ([]*PersonAttribute, error) {
	if attr == nil {
		return nil, dErrors.New(dErrors.CodeValidation, "attribute is required")
	}
	if err := a.ensureMutable(); err != nil {
		return nil, err
	}
	return a.attributes.add(attr, a.Person.ID, by, at)
}

// Attribute returns an attribute by id, voided or not.
func (a *Aggregate) Attribute(attrID id.PersonAttributeID) (*PersonAttribute, bool) {
	return a.attributes.get(attrID)
}

// PreferredAttribute returns the preferred active attribute of a type, or nil.
func (a *Aggregate) PreferredAttribute(typeID id.AttributeTypeID) *PersonAttribute {
	attr, _ := a.attributes.preferredOf(typeID.String())
	return attr
}

// Attributes returns attributes in creation order.
func (a *Aggregate) Attributes(includeVoided bool) []*PersonAttribute {
	return a.attributes.list(includeVoided)
}

// UpdateAttribute changes the value and then the preferred flag.
func (a *Aggregate) UpdateAttribute(attrID id.PersonAttributeID, patch AttributePatch, by id.ActorID, at time.Time) ([]*PersonAttribute, error) {
	if err := a.ensureMutable(); err != nil {
		return nil, err
	}
	attr, ok := a.attributes.get(attrID)
	if !ok {
		return nil, dErrors.Newf(dErrors.CodeNotFound, "person attribute %s not found", attrID)
	}
	if !attr.IsActive() {
		return nil, dErrors.Newf(dErrors.CodeConflict, "person attribute %s is voided", attrID)
	}

	value := attr.Value
	if patch.Value != nil {
		v, err := normalizeAttributeValue(*patch.Value)
		if err != nil {
			return nil, err
		}
		value = v
	}

	var touched []*PersonAttribute
	if patch.Preferred != nil {
		changed, err := a.attributes.setPreferred(attrID, *patch.Preferred, by, at)
		if err != nil {
			return nil, err
		}
		touched = changed
	}

	attr.Value = value
	attr.MarkModified(by, at)
	return appendIfMissing(touched, attr), nil
}

// VoidAttribute voids an attribute.
func (a *Aggregate) VoidAttribute(attrID id.PersonAttributeID, reason string, by id.ActorID, at time.Time) (*PersonAttribute, error) {
	if err := a.ensureMutable(); err != nil {
		return nil, err
	}
	return a.attributes.void(attrID, reason, by, at)
}

func appendIfMissing[T comparable](items []T, item T) []T {
	for _, it := range items {
		if it == item {
			return items
		}
	}
	return append(items, item)
}

// PersonDetails is a read view of an aggregate.
type PersonDetails struct {
	*Person
	Names      []*PersonName      `json:"names"`
	Addresses  []*PersonAddress   `json:"addresses"`
	Attributes []*PersonAttribute `json:"attributes"`
}

// Details returns the person with its collections in creation order.
func (a *Aggregate) Details(includeVoided bool) *PersonDetails {
	return &PersonDetails{
		Person:     a.Person,
		Names:      a.Names(includeVoided),
		Addresses:  a.Addresses(includeVoided),
		Attributes: a.Attributes(includeVoided),
	}
}
