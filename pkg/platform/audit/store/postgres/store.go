package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	id "demographics/pkg/domain"
	audit "demographics/pkg/platform/audit"
	txcontext "demographics/pkg/platform/tx"
)

// Store implements audit.Store using the transactional outbox pattern.
// Events land in audit_outbox and are published to Kafka by the relay.
type Store struct {
	db  *sql.DB
	now func() time.Time
}

// New creates a new PostgreSQL audit store that writes to the outbox.
func New(db *sql.DB) *Store {
	return &Store{db: db, now: time.Now}
}

// Append writes an audit event to the outbox. Inside a unit of work it joins
// the transaction.
func (s *Store) Append(ctx context.Context, event audit.Event) error {
	// The category map is the source of truth.
	event.Category = audit.AuditEvent(event.Action).Category()

	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal audit payload: %w", err)
	}

	var personID *uuid.UUID
	if !event.PersonID.IsNil() {
		pid := uuid.UUID(event.PersonID)
		personID = &pid
	}

	query := `
		INSERT INTO audit_outbox (id, person_id, entity_type, entity_id, action, category,
			actor_id, reason, request_id, payload, occurred_at, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`
	_, err = txcontext.Conn(ctx, s.db).ExecContext(ctx, query,
		uuid.New(),
		personID,
		event.EntityType,
		event.EntityID,
		event.Action,
		string(event.Category),
		uuid.UUID(event.ActorID),
		event.Reason,
		event.RequestID,
		payload,
		event.Timestamp,
		s.now(),
	)
	if err != nil {
		return fmt.Errorf("insert outbox entry: %w", err)
	}
	return nil
}

// ListByPerson returns a person's events, oldest first.
func (s *Store) ListByPerson(ctx context.Context, personID id.PersonID) ([]audit.Event, error) {
	query := `
		SELECT category, occurred_at, action, entity_type, entity_id, actor_id, reason, request_id
		FROM audit_outbox
		WHERE person_id = $1
		ORDER BY occurred_at, created_at
	`
	rows, err := txcontext.Conn(ctx, s.db).QueryContext(ctx, query, uuid.UUID(personID))
	if err != nil {
		return nil, fmt.Errorf("query audit events: %w", err)
	}
	defer rows.Close()

	var events []audit.Event
	for rows.Next() {
		var (
			category string
			actorID  uuid.UUID
			event    audit.Event
		)
		if err := rows.Scan(&category, &event.Timestamp, &event.Action, &event.EntityType,
			&event.EntityID, &actorID, &event.Reason, &event.RequestID); err != nil {
			return nil, fmt.Errorf("scan audit event: %w", err)
		}
		event.Category = audit.EventCategory(category)
		event.PersonID = personID
		event.ActorID = id.ActorID(actorID)
		events = append(events, event)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate audit events: %w", err)
	}
	return events, nil
}

// Relay claims up to limit unpublished entries, hands them to publish and
// marks them published, all in one transaction. Rows claimed by a concurrent
// relay are skipped. A publish error rolls the claim back.
func (s *Store) Relay(ctx context.Context, limit int, publish func(context.Context, []audit.OutboxEntry) error) (int, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin relay: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	rows, err := tx.QueryContext(ctx, `
		SELECT id, person_id, action, payload
		FROM audit_outbox
		WHERE published_at IS NULL
		ORDER BY created_at
		LIMIT $1
		FOR UPDATE SKIP LOCKED
	`, limit)
	if err != nil {
		return 0, fmt.Errorf("claim outbox entries: %w", err)
	}
	var entries []audit.OutboxEntry
	for rows.Next() {
		var (
			e        audit.OutboxEntry
			personID uuid.NullUUID
		)
		if err := rows.Scan(&e.ID, &personID, &e.Action, &e.Payload); err != nil {
			rows.Close()
			return 0, fmt.Errorf("scan outbox entry: %w", err)
		}
		if personID.Valid {
			e.PersonID = id.PersonID(personID.UUID)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return 0, fmt.Errorf("iterate outbox entries: %w", err)
	}
	rows.Close()

	if len(entries) == 0 {
		return 0, nil
	}
	if err := publish(ctx, entries); err != nil {
		return 0, err
	}

	ids := make([]string, len(entries))
	for i, e := range entries {
		ids[i] = e.ID.String()
	}
	if _, err := tx.ExecContext(ctx,
		`UPDATE audit_outbox SET published_at = $1 WHERE id = ANY($2::uuid[])`,
		s.now(), ids); err != nil {
		return 0, fmt.Errorf("mark outbox entries published: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit relay: %w", err)
	}
	return len(entries), nil
}
