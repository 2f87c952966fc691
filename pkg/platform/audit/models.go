package audit

import (
	"context"
	"time"

	"github.com/google/uuid"

	id "demographics/pkg/domain"
)

// EventCategory classifies audit events by their primary purpose.
// This enables different retention policies and routing per sink.
type EventCategory string

const (
	// CategoryCompliance covers changes to demographic records: creation,
	// edits and voids of persons and their sub-records. Long retention.
	CategoryCompliance EventCategory = "compliance"

	// CategoryOperations covers catalog maintenance and routine activity.
	CategoryOperations EventCategory = "operations"
)

// Event is emitted from the service layer after a unit of work commits. It is
// transport-agnostic so stores and sinks can fan out.
type Event struct {
	Category   EventCategory `json:"category"`
	Timestamp  time.Time     `json:"timestamp"`
	Action     string        `json:"action"`
	EntityType string        `json:"entity_type"`
	EntityID   string        `json:"entity_id"`
	// PersonID is the owning person; nil for catalog events.
	PersonID  id.PersonID `json:"person_id"`
	ActorID   id.ActorID  `json:"actor_id"`
	Reason    string      `json:"reason,omitempty"`
	RequestID string      `json:"request_id,omitempty"`
}

type AuditEvent string

const (
	// Person events
	EventPersonCreated AuditEvent = "person_created"
	EventPersonUpdated AuditEvent = "person_updated"
	EventPersonVoided  AuditEvent = "person_voided"
	EventPersonPurged  AuditEvent = "person_purged"

	// Sub-record events
	EventNameAdded        AuditEvent = "person_name_added"
	EventNameUpdated      AuditEvent = "person_name_updated"
	EventNameVoided       AuditEvent = "person_name_voided"
	EventAddressAdded     AuditEvent = "person_address_added"
	EventAddressUpdated   AuditEvent = "person_address_updated"
	EventAddressVoided    AuditEvent = "person_address_voided"
	EventAttributeAdded   AuditEvent = "person_attribute_added"
	EventAttributeUpdated AuditEvent = "person_attribute_updated"
	EventAttributeVoided  AuditEvent = "person_attribute_voided"

	// Catalog events
	EventAttributeTypeCreated AuditEvent = "attribute_type_created"
	EventAttributeTypeUpdated AuditEvent = "attribute_type_updated"
	EventAttributeTypeVoided  AuditEvent = "attribute_type_voided"
)

var eventCategories = map[AuditEvent]EventCategory{
	EventPersonCreated:    CategoryCompliance,
	EventPersonUpdated:    CategoryCompliance,
	EventPersonVoided:     CategoryCompliance,
	EventPersonPurged:     CategoryCompliance,
	EventNameAdded:        CategoryCompliance,
	EventNameUpdated:      CategoryCompliance,
	EventNameVoided:       CategoryCompliance,
	EventAddressAdded:     CategoryCompliance,
	EventAddressUpdated:   CategoryCompliance,
	EventAddressVoided:    CategoryCompliance,
	EventAttributeAdded:   CategoryCompliance,
	EventAttributeUpdated: CategoryCompliance,
	EventAttributeVoided:  CategoryCompliance,

	EventAttributeTypeCreated: CategoryOperations,
	EventAttributeTypeUpdated: CategoryOperations,
	EventAttributeTypeVoided:  CategoryOperations,
}

// Category returns the EventCategory for this audit event.
// Unknown events default to CategoryOperations.
func (e AuditEvent) Category() EventCategory {
	if cat, ok := eventCategories[e]; ok {
		return cat
	}
	return CategoryOperations
}

// Store persists audit events.
type Store interface {
	Append(ctx context.Context, event Event) error
	ListByPerson(ctx context.Context, personID id.PersonID) ([]Event, error)
}

// OutboxEntry is a stored event awaiting publication to the event log.
type OutboxEntry struct {
	ID       uuid.UUID
	PersonID id.PersonID
	Action   string
	Payload  []byte
}

// Key is the partition key: the owning person, or the entry id for catalog
// events, so one person's history stays ordered.
func (e OutboxEntry) Key() []byte {
	if e.PersonID.IsNil() {
		return []byte(e.ID.String())
	}
	return []byte(e.PersonID.String())
}
