package models

import (
	"strings"
	"time"

	"github.com/google/uuid"

	id "demographics/pkg/domain"
	dErrors "demographics/pkg/domain-errors"
)

// ErrAlreadyVoided is returned when a void is attempted on an entity that is
// already voided. The entity is left untouched.
var ErrAlreadyVoided = dErrors.New(dErrors.CodeConflict, "entity is already voided")

const maxVoidReasonLength = 255

// AuditTrail is embedded in every persisted entity.
//
// Invariants:
//   - UUID is assigned once at construction and never regenerated
//   - CreatedBy and CreatedAt are immutable
//   - Voided, VoidedBy, VoidedAt and VoidReason are set together exactly once
//   - a voided entity never becomes active again
type AuditTrail struct {
	UUID           uuid.UUID   `json:"uuid"`
	CreatedBy      id.ActorID  `json:"created_by"`
	CreatedAt      time.Time   `json:"created_at"`
	LastModifiedBy *id.ActorID `json:"last_modified_by,omitempty"`
	LastModifiedAt *time.Time  `json:"last_modified_at,omitempty"`
	Voided         bool        `json:"voided"`
	VoidedBy       *id.ActorID `json:"voided_by,omitempty"`
	VoidedAt       *time.Time  `json:"voided_at,omitempty"`
	VoidReason     string      `json:"void_reason,omitempty"`
}

// NewAuditTrail stamps creation fields and assigns a fresh UUID.
func NewAuditTrail(by id.ActorID, at time.Time) AuditTrail {
	return AuditTrail{
		UUID:      uuid.New(),
		CreatedBy: by,
		CreatedAt: at,
	}
}

// IsActive reports whether the entity has not been voided.
func (a *AuditTrail) IsActive() bool {
	return !a.Voided
}

// MarkModified records the latest modifier unconditionally.
func (a *AuditTrail) MarkModified(by id.ActorID, at time.Time) {
	a.LastModifiedBy = &by
	a.LastModifiedAt = &at
}

// CanVoid checks whether MarkVoided would succeed.
func (a *AuditTrail) CanVoid(reason string) error {
	if a.Voided {
		return ErrAlreadyVoided
	}
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return dErrors.New(dErrors.CodeValidation, "void reason is required")
	}
	if len(reason) > maxVoidReasonLength {
		return dErrors.New(dErrors.CodeValidation, "void reason must be 255 characters or less")
	}
	return nil
}

// MarkVoided sets the void fields. A second call returns ErrAlreadyVoided and
// leaves the first reason, actor and timestamp in place.
func (a *AuditTrail) MarkVoided(by id.ActorID, reason string, at time.Time) error {
	if err := a.CanVoid(reason); err != nil {
		return err
	}
	a.Voided = true
	a.VoidedBy = &by
	a.VoidedAt = &at
	a.VoidReason = strings.TrimSpace(reason)
	return nil
}

func (a *AuditTrail) trail() *AuditTrail {
	return a
}
