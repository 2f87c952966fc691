package domain

import (
	"github.com/google/uuid"

	dErrors "demographics/pkg/domain-errors"
)

// Typed identifiers keep the compiler between a person id and the id of one of
// its sub-records. All share the same parsing rules.
type (
	PersonID          uuid.UUID
	PersonNameID      uuid.UUID
	PersonAddressID   uuid.UUID
	PersonAttributeID uuid.UUID
	AttributeTypeID   uuid.UUID
	// ActorID identifies whoever performs a mutation (user, system job, import).
	ActorID uuid.UUID
)

// parseUUID is the single trust-boundary parser behind every Parse* function.
func parseUUID(kind, s string) (uuid.UUID, error) {
	if s == "" {
		return uuid.Nil, dErrors.Newf(dErrors.CodeInvalidInput, "%s cannot be empty", kind)
	}
	u, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, dErrors.Newf(dErrors.CodeInvalidInput, "invalid %s", kind)
	}
	if u == uuid.Nil {
		return uuid.Nil, dErrors.Newf(dErrors.CodeInvalidInput, "%s cannot be nil", kind)
	}
	return u, nil
}

func ParsePersonID(s string) (PersonID, error) {
	u, err := parseUUID("person id", s)
	return PersonID(u), err
}

func ParsePersonNameID(s string) (PersonNameID, error) {
	u, err := parseUUID("person name id", s)
	return PersonNameID(u), err
}

func ParsePersonAddressID(s string) (PersonAddressID, error) {
	u, err := parseUUID("person address id", s)
	return PersonAddressID(u), err
}

func ParsePersonAttributeID(s string) (PersonAttributeID, error) {
	u, err := parseUUID("person attribute id", s)
	return PersonAttributeID(u), err
}

func ParseAttributeTypeID(s string) (AttributeTypeID, error) {
	u, err := parseUUID("attribute type id", s)
	return AttributeTypeID(u), err
}

func ParseActorID(s string) (ActorID, error) {
	u, err := parseUUID("actor id", s)
	return ActorID(u), err
}

func NewPersonID() PersonID                   { return PersonID(uuid.New()) }
func NewPersonNameID() PersonNameID           { return PersonNameID(uuid.New()) }
func NewPersonAddressID() PersonAddressID     { return PersonAddressID(uuid.New()) }
func NewPersonAttributeID() PersonAttributeID { return PersonAttributeID(uuid.New()) }
func NewAttributeTypeID() AttributeTypeID     { return AttributeTypeID(uuid.New()) }

func (id PersonID) String() string          { return uuid.UUID(id).String() }
func (id PersonNameID) String() string      { return uuid.UUID(id).String() }
func (id PersonAddressID) String() string   { return uuid.UUID(id).String() }
func (id PersonAttributeID) String() string { return uuid.UUID(id).String() }
func (id AttributeTypeID) String() string   { return uuid.UUID(id).String() }
func (id ActorID) String() string           { return uuid.UUID(id).String() }

func (id PersonID) IsNil() bool          { return uuid.UUID(id) == uuid.Nil }
func (id PersonNameID) IsNil() bool      { return uuid.UUID(id) == uuid.Nil }
func (id PersonAddressID) IsNil() bool   { return uuid.UUID(id) == uuid.Nil }
func (id PersonAttributeID) IsNil() bool { return uuid.UUID(id) == uuid.Nil }
func (id AttributeTypeID) IsNil() bool   { return uuid.UUID(id) == uuid.Nil }
func (id ActorID) IsNil() bool           { return uuid.UUID(id) == uuid.Nil }

// MarshalText lets typed ids travel as plain UUID strings in JSON.
func (id PersonID) MarshalText() ([]byte, error)          { return uuid.UUID(id).MarshalText() }
func (id PersonNameID) MarshalText() ([]byte, error)      { return uuid.UUID(id).MarshalText() }
func (id PersonAddressID) MarshalText() ([]byte, error)   { return uuid.UUID(id).MarshalText() }
func (id PersonAttributeID) MarshalText() ([]byte, error) { return uuid.UUID(id).MarshalText() }
func (id AttributeTypeID) MarshalText() ([]byte, error)   { return uuid.UUID(id).MarshalText() }
func (id ActorID) MarshalText() ([]byte, error)           { return uuid.UUID(id).MarshalText() }

func unmarshalUUID(b []byte) (uuid.UUID, error) { return uuid.ParseBytes(b) }

func (id *PersonID) UnmarshalText(b []byte) error {
	u, err := unmarshalUUID(b)
	*id = PersonID(u)
	return err
}

func (id *PersonNameID) UnmarshalText(b []byte) error {
	u, err := unmarshalUUID(b)
	*id = PersonNameID(u)
	return err
}

func (id *PersonAddressID) UnmarshalText(b []byte) error {
	u, err := unmarshalUUID(b)
	*id = PersonAddressID(u)
	return err
}

func (id *PersonAttributeID) UnmarshalText(b []byte) error {
	u, err := unmarshalUUID(b)
	*id = PersonAttributeID(u)
	return err
}

func (id *AttributeTypeID) UnmarshalText(b []byte) error {
	u, err := unmarshalUUID(b)
	*id = AttributeTypeID(u)
	return err
}

func (id *ActorID) UnmarshalText(b []byte) error {
	u, err := unmarshalUUID(b)
	*id = ActorID(u)
	return err
}
