// Package auditrow maps models.AuditTrail to the audit columns shared by every
// person table.
package auditrow

import (
	"database/sql"
	"time"

	"github.com/google/uuid"

	"demographics/internal/person/models"
	id "demographics/pkg/domain"
)

// Columns lists the audit columns in the order used by Args and Row.Dest.
const Columns = "uuid, created_by, created_at, last_modified_by, last_modified_at, voided, voided_by, voided_at, void_reason"

// UpdateSet is the ON CONFLICT assignment for the mutable audit columns.
const UpdateSet = `last_modified_by = EXCLUDED.last_modified_by,
	last_modified_at = EXCLUDED.last_modified_at,
	voided = EXCLUDED.voided,
	voided_by = EXCLUDED.voided_by,
	voided_at = EXCLUDED.voided_at,
	void_reason = EXCLUDED.void_reason`

// Args returns the audit values for an insert.
func Args(a models.AuditTrail) []any {
	return []any{
		a.UUID,
		uuid.UUID(a.CreatedBy),
		a.CreatedAt,
		nullActor(a.LastModifiedBy),
		nullTime(a.LastModifiedAt),
		a.Voided,
		nullActor(a.VoidedBy),
		nullTime(a.VoidedAt),
		a.VoidReason,
	}
}

// Row receives scanned audit columns.
type Row struct {
	UUID           uuid.UUID
	CreatedBy      uuid.UUID
	CreatedAt      time.Time
	LastModifiedBy uuid.NullUUID
	LastModifiedAt sql.NullTime
	Voided         bool
	VoidedBy       uuid.NullUUID
	VoidedAt       sql.NullTime
	VoidReason     string
}

// Dest returns scan destinations in Columns order.
func (r *Row) Dest() []any {
	return []any{
		&r.UUID,
		&r.CreatedBy,
		&r.CreatedAt,
		&r.LastModifiedBy,
		&r.LastModifiedAt,
		&r.Voided,
		&r.VoidedBy,
		&r.VoidedAt,
		&r.VoidReason,
	}
}

// Trail converts the scanned row.
func (r *Row) Trail() models.AuditTrail {
	return models.AuditTrail{
		UUID:           r.UUID,
		CreatedBy:      id.ActorID(r.CreatedBy),
		CreatedAt:      r.CreatedAt,
		LastModifiedBy: actorPtr(r.LastModifiedBy),
		LastModifiedAt: TimePtr(r.LastModifiedAt),
		Voided:         r.Voided,
		VoidedBy:       actorPtr(r.VoidedBy),
		VoidedAt:       TimePtr(r.VoidedAt),
		VoidReason:     r.VoidReason,
	}
}

func nullActor(a *id.ActorID) uuid.NullUUID {
	if a == nil {
		return uuid.NullUUID{}
	}
	return uuid.NullUUID{UUID: uuid.UUID(*a), Valid: true}
}

func actorPtr(n uuid.NullUUID) *id.ActorID {
	if !n.Valid {
		return nil
	}
	a := id.ActorID(n.UUID)
	return &a
}

func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}

// NullTime converts an optional time for a query argument.
func NullTime(t *time.Time) sql.NullTime {
	return nullTime(t)
}

// TimePtr converts a scanned nullable time; dates come back in UTC.
func TimePtr(n sql.NullTime) *time.Time {
	if !n.Valid {
		return nil
	}
	t := n.Time.UTC()
	return &t
}
