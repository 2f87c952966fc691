package models

import (
	"strings"
	"time"

	id "demographics/pkg/domain"
	dErrors "demographics/pkg/domain-errors"
)

// AttributeFormat tags the kind of value an attribute type holds.
type AttributeFormat string

const (
	FormatText    AttributeFormat = "text"
	FormatNumber  AttributeFormat = "number"
	FormatBoolean AttributeFormat = "boolean"
	FormatDate    AttributeFormat = "date"
	FormatCoded   AttributeFormat = "coded"
)

var validFormats = map[AttributeFormat]bool{
	FormatText:    true,
	FormatNumber:  true,
	FormatBoolean: true,
	FormatDate:    true,
	FormatCoded:   true,
}

// ParseAttributeFormat validates a format; empty defaults to text.
func ParseAttributeFormat(s string) (AttributeFormat, error) {
	f := AttributeFormat(strings.ToLower(strings.TrimSpace(s)))
	if f == "" {
		return FormatText, nil
	}
	if !validFormats[f] {
		return "", dErrors.New(dErrors.CodeValidation, "format must be one of text, number, boolean, date, coded")
	}
	return f, nil
}

const (
	maxAttributeTypeNameLength        = 50
	maxAttributeTypeDescriptionLength = 255
)

// AttributeType is a registry entry describing a kind of person attribute.
// Name uniqueness among active types is checked by the service against the
// store.
type AttributeType struct {
	ID          id.AttributeTypeID `json:"attribute_type_id"`
	Name        string             `json:"name"`
	Description string             `json:"description,omitempty"`
	Format      AttributeFormat    `json:"format"`
	AuditTrail
}

// NewAttributeType builds an active attribute type.
func NewAttributeType(typeID id.AttributeTypeID, name, description, format string, by id.ActorID, at time.Time) (*AttributeType, error) {
	if typeID.IsNil() {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "attribute type id cannot be nil")
	}
	name, err := normalizeAttributeTypeName(name)
	if err != nil {
		return nil, err
	}
	description, err = normalizeAttributeTypeDescription(description)
	if err != nil {
		return nil, err
	}
	f, err := ParseAttributeFormat(format)
	if err != nil {
		return nil, err
	}
	return &AttributeType{
		ID:          typeID,
		Name:        name,
		Description: description,
		Format:      f,
		AuditTrail:  NewAuditTrail(by, at),
	}, nil
}

// AttributeTypePatch carries a partial update; nil fields are left unchanged.
type AttributeTypePatch struct {
	Name        *string
	Description *string
	Format      *string
}

// ApplyPatch validates every field before changing any of them.
func (t *AttributeType) ApplyPatch(patch AttributeTypePatch, by id.ActorID, at time.Time) error {
	if !t.IsActive() {
		return dErrors.Newf(dErrors.CodeConflict, "attribute type %s is voided", t.ID)
	}
	name, description, format := t.Name, t.Description, t.Format
	var err error
	if patch.Name != nil {
		if name, err = normalizeAttributeTypeName(*patch.Name); err != nil {
			return err
		}
	}
	if patch.Description != nil {
		if description, err = normalizeAttributeTypeDescription(*patch.Description); err != nil {
			return err
		}
	}
	if patch.Format != nil {
		if format, err = ParseAttributeFormat(*patch.Format); err != nil {
			return err
		}
	}
	t.Name, t.Description, t.Format = name, description, format
	t.MarkModified(by, at)
	return nil
}

// Void marks the type voided. Attributes already using it are kept.
func (t *AttributeType) Void(reason string, by id.ActorID, at time.Time) error {
	return t.MarkVoided(by, reason, at)
}

// SameName reports whether name matches this type's name, ignoring case.
func (t *AttributeType) SameName(name string) bool {
	return strings.EqualFold(t.Name, strings.TrimSpace(name))
}

func normalizeAttributeTypeName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", dErrors.New(dErrors.CodeValidation, "attribute type name is required")
	}
	if len(name) > maxAttributeTypeNameLength {
		return "", dErrors.New(dErrors.CodeValidation, "attribute type name must be 50 characters or less")
	}
	return name, nil
}

func normalizeAttributeTypeDescription(d string) (string, error) {
	d = strings.TrimSpace(d)
	if len(d) > maxAttributeTypeDescriptionLength {
		return "", dErrors.New(dErrors.CodeValidation, "attribute type description must be 255 characters or less")
	}
	return d, nil
}
