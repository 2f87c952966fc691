package models

import (
	"strings"
	"time"

	id "demographics/pkg/domain"
	dErrors "demographics/pkg/domain-errors"
)

const maxAttributeValueLength = 255

// PersonAttribute is a typed value attached to a person. The preferred flag is
// scoped to the attribute type.
type PersonAttribute struct {
	ID              id.PersonAttributeID `json:"attribute_id"`
	PersonID        id.PersonID          `json:"person_id"`
	AttributeTypeID id.AttributeTypeID   `json:"attribute_type_id"`
	Value           string               `json:"value"`
	Preferred       bool                 `json:"preferred"`
	AuditTrail
}

// NewPersonAttribute builds an active attribute owned by personID. The value
// is checked against the type's format by the caller.
func NewPersonAttribute(attrID id.PersonAttributeID, personID id.PersonID, typeID id.AttributeTypeID, value string, preferred bool, by id.ActorID, at time.Time) (*PersonAttribute, error) {
	if attrID.IsNil() || personID.IsNil() {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "attribute id and person id are required")
	}
	if typeID.IsNil() {
		return nil, dErrors.New(dErrors.CodeValidation, "attribute type is required")
	}
	value, err := normalizeAttributeValue(value)
	if err != nil {
		return nil, err
	}
	return &PersonAttribute{
		ID:              attrID,
		PersonID:        personID,
		AttributeTypeID: typeID,
		Value:           value,
		Preferred:       preferred,
		AuditTrail:      NewAuditTrail(by, at),
	}, nil
}

func normalizeAttributeValue(v string) (string, error) {
	v = strings.TrimSpace(v)
	if v == "" {
		return "", dErrors.New(dErrors.CodeValidation, "attribute value is required")
	}
	if len(v) > maxAttributeValueLength {
		return "", dErrors.New(dErrors.CodeValidation, "attribute value must be 255 characters or less")
	}
	return v, nil
}

// AttributePatch carries a partial attribute update. The type is immutable.
type AttributePatch struct {
	Value     *string
	Preferred *bool
}

func (a *PersonAttribute) memberKey() id.PersonAttributeID { return a.ID }
func (a *PersonAttribute) ownerID() id.PersonID            { return a.PersonID }
func (a *PersonAttribute) groupKey() string                { return a.AttributeTypeID.String() }
func (a *PersonAttribute) isPreferred() bool               { return a.Preferred }
func (a *PersonAttribute) setPreferred(v bool)             { a.Preferred = v }
