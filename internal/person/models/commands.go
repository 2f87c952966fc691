package models

import (
	"time"

	id "demographics/pkg/domain"
)

// NewPersonCommand creates a person with optional initial sub-records. Initial
// members pass through the same preferred rules as later additions, in order.
type NewPersonCommand struct {
	Gender             string
	BirthDate          *time.Time
	BirthDateEstimated bool
	Names              []NewNameCommand
	Addresses          []NewAddressCommand
	Attributes         []NewAttributeCommand
}

// NewNameCommand adds a name to a person.
type NewNameCommand struct {
	NameFields
	Preferred bool
}

// NewAddressCommand adds an address to a person.
type NewAddressCommand struct {
	AddressFields
	Preferred bool
}

// NewAttributeCommand adds an attribute to a person.
type NewAttributeCommand struct {
	AttributeTypeID id.AttributeTypeID
	Value           string
	Preferred       bool
}

// NewAttributeTypeCommand registers an attribute type.
type NewAttributeTypeCommand struct {
	Name        string
	Description string
	Format      string
}

// ListPersonsQuery pages through persons ordered by creation time.
type ListPersonsQuery struct {
	Limit         int
	Offset        int
	IncludeVoided bool
}

const (
	DefaultListLimit = 50
	MaxListLimit     = 500
)

// Normalize clamps paging values into range.
func (q ListPersonsQuery) Normalize() ListPersonsQuery {
	if q.Limit <= 0 {
		q.Limit = DefaultListLimit
	}
	if q.Limit > MaxListLimit {
		q.Limit = MaxListLimit
	}
	if q.Offset < 0 {
		q.Offset = 0
	}
	return q
}

// VoidResult reports the outcome of voiding a person.
type VoidResult struct {
	PersonID      id.PersonID `json:"person_id"`
	Voided        bool        `json:"voided"`
	AlreadyVoided bool        `json:"already_voided"`
	VoidedAt      *time.Time  `json:"voided_at,omitempty"`
	VoidReason    string      `json:"void_reason,omitempty"`
}
