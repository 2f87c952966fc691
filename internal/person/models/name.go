package models

import (
	"strings"
	"time"

	id "demographics/pkg/domain"
	dErrors "demographics/pkg/domain-errors"
)

const maxNameLength = 50

// PersonName is one of the names a person is known by.
type PersonName struct {
	ID         id.PersonNameID `json:"name_id"`
	PersonID   id.PersonID     `json:"person_id"`
	FirstName  string          `json:"first_name"`
	MiddleName string          `json:"middle_name,omitempty"`
	LastName   string          `json:"last_name,omitempty"`
	OtherName  string          `json:"other_name,omitempty"`
	Preferred  bool            `json:"preferred"`
	AuditTrail
}

// NameFields are the editable parts of a name.
type NameFields struct {
	FirstName  string
	MiddleName string
	LastName   string
	OtherName  string
}

func (f NameFields) normalized() NameFields {
	return NameFields{
		FirstName:  strings.TrimSpace(f.FirstName),
		MiddleName: strings.TrimSpace(f.MiddleName),
		LastName:   strings.TrimSpace(f.LastName),
		OtherName:  strings.TrimSpace(f.OtherName),
	}
}

func (f NameFields) validate() error {
	if f.FirstName == "" {
		return dErrors.New(dErrors.CodeValidation, "first name is required")
	}
	for _, v := range []string{f.FirstName, f.MiddleName, f.LastName, f.OtherName} {
		if len(v) > maxNameLength {
			return dErrors.New(dErrors.CodeValidation, "name parts must be 50 characters or less")
		}
	}
	return nil
}

// NewPersonName builds an active name owned by personID.
func NewPersonName(nameID id.PersonNameID, personID id.PersonID, fields NameFields, preferred bool, by id.ActorID, at time.Time) (*PersonName, error) {
	if nameID.IsNil() || personID.IsNil() {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "name id and person id are required")
	}
	fields = fields.normalized()
	if err := fields.validate(); err != nil {
		return nil, err
	}
	return &PersonName{
		ID:         nameID,
		PersonID:   personID,
		FirstName:  fields.FirstName,
		MiddleName: fields.MiddleName,
		LastName:   fields.LastName,
		OtherName:  fields.OtherName,
		Preferred:  preferred,
		AuditTrail: NewAuditTrail(by, at),
	}, nil
}

// NamePatch carries a partial name update; nil fields are left unchanged.
type NamePatch struct {
	FirstName  *string
	MiddleName *string
	LastName   *string
	OtherName  *string
	Preferred  *bool
}

// FullName joins the non-empty parts of the name.
func (n *PersonName) FullName() string {
	parts := make([]string, 0, 3)
	for _, p := range []string{n.FirstName, n.MiddleName, n.LastName} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, " ")
}

func (n *PersonName) fields() NameFields {
	return NameFields{FirstName: n.FirstName, MiddleName: n.MiddleName, LastName: n.LastName, OtherName: n.OtherName}
}

func (n *PersonName) memberKey() id.PersonNameID { return n.ID }
func (n *PersonName) ownerID() id.PersonID       { return n.PersonID }
func (n *PersonName) groupKey() string           { return "" }
func (n *PersonName) isPreferred() bool          { return n.Preferred }
func (n *PersonName) setPreferred(v bool)        { n.Preferred = v }
