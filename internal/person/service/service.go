package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"demographics/internal/person/metrics"
	"demographics/internal/person/models"
	id "demographics/pkg/domain"
	dErrors "demographics/pkg/domain-errors"
	"demographics/pkg/platform/audit"
	"demographics/pkg/platform/sentinel"
	"demographics/pkg/requestcontext"
)

const tracerName = "demographics/internal/person/service"

// Stores groups the persistence ports used by the service.
type Stores struct {
	Persons        PersonStore
	Names          NameStore
	Addresses      AddressStore
	Attributes     AttributeStore
	AttributeTypes AttributeTypeStore
}

func (s Stores) validate() error {
	switch {
	case s.Persons == nil:
		return fmt.Errorf("person store is required")
	case s.Names == nil:
		return fmt.Errorf("name store is required")
	case s.Addresses == nil:
		return fmt.Errorf("address store is required")
	case s.Attributes == nil:
		return fmt.Errorf("attribute store is required")
	case s.AttributeTypes == nil:
		return fmt.Errorf("attribute type store is required")
	}
	return nil
}

// Service orchestrates the person aggregate and the attribute type registry.
// Every use-case is one unit of work through the TxRunner.
type Service struct {
	persons        PersonStore
	names          NameStore
	addresses      AddressStore
	attributes     AttributeStore
	attributeTypes AttributeTypeStore
	tx             TxRunner

	logger         *slog.Logger
	metrics        *metrics.Metrics
	auditPublisher AuditPublisher
	locations      LocationResolver
	tracer         trace.Tracer
	clock          func() time.Time
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

func WithAuditPublisher(publisher AuditPublisher) Option {
	return func(s *Service) {
		s.auditPublisher = publisher
	}
}

func WithLocationResolver(resolver LocationResolver) Option {
	return func(s *Service) {
		s.locations = resolver
	}
}

func WithTracer(tracer trace.Tracer) Option {
	return func(s *Service) {
		s.tracer = tracer
	}
}

// WithClock overrides the request clock. Without it the time comes from
// requestcontext.Now.
func WithClock(clock func() time.Time) Option {
	return func(s *Service) {
		s.clock = clock
	}
}

func New(stores Stores, tx TxRunner, opts ...Option) (*Service, error) {
	if err := stores.validate(); err != nil {
		return nil, err
	}
	if tx == nil {
		return nil, fmt.Errorf("tx runner is required")
	}

	svc := &Service{
		persons:        stores.Persons,
		names:          stores.Names,
		addresses:      stores.Addresses,
		attributes:     stores.Attributes,
		attributeTypes: stores.AttributeTypes,
		tx:             tx,
		logger:         slog.Default(),
	}
	for _, opt := range opts {
		opt(svc)
	}
	if svc.tracer == nil {
		svc.tracer = otel.Tracer(tracerName)
	}
	return svc, nil
}

// ============================================================================
// Request scope
// ============================================================================

func (s *Service) actor(ctx context.Context) (id.ActorID, error) {
	actor, ok := requestcontext.Actor(ctx)
	if !ok {
		return id.ActorID{}, dErrors.New(dErrors.CodeValidation, "acting user is required")
	}
	return actor, nil
}

func (s *Service) now(ctx context.Context) time.Time {
	if s.clock != nil {
		return s.clock()
	}
	return requestcontext.Now(ctx)
}

// begin opens a span and returns a finisher that records the outcome and
// the use-case duration.
func (s *Service) begin(ctx context.Context, operation string, attrs ...attribute.KeyValue) (context.Context, func(error)) {
	start := time.Now()
	ctx, span := s.tracer.Start(ctx, "person."+operation, trace.WithAttributes(attrs...))
	return ctx, func(err error) {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, dErrors.MessageOf(err))
		}
		span.End()
		if s.metrics != nil {
			s.metrics.ObserveUseCase(operation, start)
		}
	}
}

func personKey(personID id.PersonID) string {
	return "person:" + personID.String()
}

// listScope identifies a listing in storage failure logs, where there is no
// single entity id.
type listScope string

func (l listScope) String() string { return string(l) }

// ============================================================================
// Error translation
// ============================================================================

// storeErr translates a store error. Missing rows become NotFound naming the
// entity; anything unexpected is logged with its context and surfaced as a
// generic internal error.
func (s *Service) storeErr(ctx context.Context, err error, entity string, entityID fmt.Stringer, operation string) error {
	switch {
	case errors.Is(err, sentinel.ErrNotFound):
		return dErrors.Newf(dErrors.CodeNotFound, "%s %s not found", entity, entityID)
	case errors.Is(err, sentinel.ErrAlreadyUsed):
		return dErrors.Wrap(err, dErrors.CodeConflict, fmt.Sprintf("%s %s already exists", entity, entityID))
	case errors.Is(err, sentinel.ErrConflict):
		return dErrors.Wrap(err, dErrors.CodeConflict, fmt.Sprintf("%s %s was changed concurrently", entity, entityID))
	}
	s.logger.ErrorContext(ctx, "storage failure",
		"entity", entity,
		"id", entityID.String(),
		"operation", operation,
		"request_id", requestcontext.RequestID(ctx),
		"error", err,
	)
	return dErrors.Wrap(err, dErrors.CodeInternal, fmt.Sprintf("failed to %s %s", operation, entity))
}

// finish makes sure every error leaving the service carries a code.
// Uncoded errors come from the unit of work itself (begin, commit, lock).
func (s *Service) finish(ctx context.Context, err error, operation string) error {
	if err == nil {
		return nil
	}
	var de *dErrors.Error
	if errors.As(err, &de) {
		return err
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return dErrors.Wrap(err, dErrors.CodeTimeout, operation+" timed out")
	}
	s.logger.ErrorContext(ctx, "unit of work failed",
		"operation", operation,
		"request_id", requestcontext.RequestID(ctx),
		"error", err,
	)
	return dErrors.Wrap(err, dErrors.CodeInternal, operation+" failed")
}

// asValidation reports constructor invariant failures as input problems.
func asValidation(err error) error {
	if dErrors.HasCode(err, dErrors.CodeInvariantViolation) {
		return dErrors.New(dErrors.CodeValidation, dErrors.MessageOf(err))
	}
	return err
}

func (s *Service) countConflict(err error, entity string) {
	if s.metrics != nil && dErrors.HasCode(err, dErrors.CodeConflict) {
		s.metrics.IncrementPreferredConflict(entity)
	}
}

// ============================================================================
// Audit
// ============================================================================

type auditRecord struct {
	event      audit.AuditEvent
	entityType string
	entityID   string
	personID   id.PersonID
	actor      id.ActorID
	reason     string
}

func (s *Service) emit(ctx context.Context, rec auditRecord, at time.Time) {
	requestID := requestcontext.RequestID(ctx)
	s.logger.InfoContext(ctx, string(rec.event),
		"event", string(rec.event),
		"log_type", "audit",
		"entity", rec.entityType,
		"id", rec.entityID,
		"person_id", rec.personID.String(),
		"actor_id", rec.actor.String(),
		"request_id", requestID,
	)
	if s.auditPublisher == nil {
		return
	}
	err := s.auditPublisher.Emit(ctx, audit.Event{
		Category:   rec.event.Category(),
		Timestamp:  at,
		Action:     string(rec.event),
		EntityType: rec.entityType,
		EntityID:   rec.entityID,
		PersonID:   rec.personID,
		ActorID:    rec.actor,
		Reason:     rec.reason,
		RequestID:  requestID,
	})
	if err != nil {
		s.logger.WarnContext(ctx, "failed to publish audit event",
			"event", string(rec.event),
			"error", err,
		)
	}
}

// ============================================================================
// Aggregate loading
// ============================================================================

// loadAggregate reads the person together with every owned row, voided ones
// included, so the preferred index sees the whole group. Writers pass
// forUpdate to hold the person until the unit of work ends.
func (s *Service) loadAggregate(ctx context.Context, personID id.PersonID, includeVoidedPerson, forUpdate bool) (*models.Aggregate, error) {
	find := s.persons.FindByID
	if forUpdate {
		find = s.persons.FindByIDForUpdate
	}
	person, err := find(ctx, personID)
	if err != nil {
		return nil, s.storeErr(ctx, err, "person", personID, "load")
	}
	if !person.IsActive() && !includeVoidedPerson {
		return nil, dErrors.Newf(dErrors.CodeNotFound, "person %s not found", personID)
	}
	names, err := s.names.FindAllByOwner(ctx, personID, true)
	if err != nil {
		return nil, s.storeErr(ctx, err, "person name", personID, "load")
	}
	addresses, err := s.addresses.FindAllByOwner(ctx, personID, true)
	if err != nil {
		return nil, s.storeErr(ctx, err, "person address", personID, "load")
	}
	attributes, err := s.attributes.FindAllByOwner(ctx, personID, true)
	if err != nil {
		return nil, s.storeErr(ctx, err, "person attribute", personID, "load")
	}
	agg, err := models.Rehydrate(person, names, addresses, attributes)
	if err != nil {
		s.logger.ErrorContext(ctx, "stored person rows violate aggregate invariants",
			"person_id", personID.String(),
			"error", err,
		)
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "person record is inconsistent")
	}
	return agg, nil
}

// resolveLocation fills display values for an address. Failures are tolerated:
// the address keeps its ids.
func (s *Service) resolveLocation(ctx context.Context, loc models.Location) models.Location {
	if s.locations == nil {
		return loc
	}
	resolved, err := s.locations.Resolve(ctx, loc)
	if err != nil {
		s.logger.WarnContext(ctx, "location lookup failed, keeping ids only",
			"error", err,
			"request_id", requestcontext.RequestID(ctx),
		)
		if s.metrics != nil {
			s.metrics.IncrementLocationLookupFailure()
		}
		return loc
	}
	return resolved
}
