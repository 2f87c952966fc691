package handler

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"demographics/internal/person/models"
	id "demographics/pkg/domain"
	dErrors "demographics/pkg/domain-errors"
	"demographics/pkg/platform/httputil"
	"demographics/pkg/requestcontext"
)

// Service defines the person operations exposed over HTTP.
type Service interface {
	AddPerson(ctx context.Context, cmd models.NewPersonCommand) (*models.PersonDetails, error)
	UpdatePerson(ctx context.Context, personID id.PersonID, patch models.PersonPatch, includeVoided bool) (*models.Person, error)
	VoidPerson(ctx context.Context, personID id.PersonID, reason string) (*models.VoidResult, error)
	GetPerson(ctx context.Context, personID id.PersonID, includeVoided bool) (*models.PersonDetails, error)
	ListPersons(ctx context.Context, q models.ListPersonsQuery) ([]*models.Person, error)

	AddPersonName(ctx context.Context, personID id.PersonID, cmd models.NewNameCommand) (*models.PersonName, error)
	UpdatePersonName(ctx context.Context, personID id.PersonID, nameID id.PersonNameID, patch models.NamePatch) (*models.PersonName, error)
	VoidPersonName(ctx context.Context, personID id.PersonID, nameID id.PersonNameID, reason string) (*models.PersonName, error)
	GetPersonName(ctx context.Context, personID id.PersonID, nameID id.PersonNameID) (*models.PersonName, error)
	ListPersonNames(ctx context.Context, personID id.PersonID, includeVoided bool) ([]*models.PersonName, error)
	GetPreferredName(ctx context.Context, personID id.PersonID) (*models.PersonName, error)

	AddPersonAddress(ctx context.Context, personID id.PersonID, cmd models.NewAddressCommand) (*models.PersonAddress, error)
	UpdatePersonAddress(ctx context.Context, personID id.PersonID, addressID id.PersonAddressID, patch models.AddressPatch) (*models.PersonAddress, error)
	VoidPersonAddress(ctx context.Context, personID id.PersonID, addressID id.PersonAddressID, reason string) (*models.PersonAddress, error)
	GetPersonAddress(ctx context.Context, personID id.PersonID, addressID id.PersonAddressID) (*models.PersonAddress, error)
	ListPersonAddresses(ctx context.Context, personID id.PersonID, includeVoided bool) ([]*models.PersonAddress, error)
	GetPreferredAddress(ctx context.Context, personID id.PersonID) (*models.PersonAddress, error)

	AddPersonAttribute(ctx context.Context, personID id.PersonID, cmd models.NewAttributeCommand) (*models.PersonAttribute, error)
	UpdatePersonAttribute(ctx context.Context, personID id.PersonID, attrID id.PersonAttributeID, patch models.AttributePatch) (*models.PersonAttribute, error)
	VoidPersonAttribute(ctx context.Context, personID id.PersonID, attrID id.PersonAttributeID, reason string) (*models.PersonAttribute, error)
	GetPersonAttribute(ctx context.Context, personID id.PersonID, attrID id.PersonAttributeID) (*models.PersonAttribute, error)
	ListPersonAttributes(ctx context.Context, personID id.PersonID, includeVoided bool) ([]*models.PersonAttribute, error)
	GetPreferredAttribute(ctx context.Context, personID id.PersonID, typeID id.AttributeTypeID) (*models.PersonAttribute, error)

	CreateAttributeType(ctx context.Context, cmd models.NewAttributeTypeCommand) (*models.AttributeType, error)
	UpdateAttributeType(ctx context.Context, typeID id.AttributeTypeID, patch models.AttributeTypePatch) (*models.AttributeType, error)
	VoidAttributeType(ctx context.Context, typeID id.AttributeTypeID, reason string) (*models.AttributeType, error)
	GetAttributeType(ctx context.Context, typeID id.AttributeTypeID) (*models.AttributeType, error)
	ListAttributeTypes(ctx context.Context, includeVoided bool) ([]*models.AttributeType, error)
}

// Handler wires person and attribute type endpoints to the service.
type Handler struct {
	service Service
	logger  *slog.Logger
}

func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Register mounts the endpoints on the router.
func (h *Handler) Register(r chi.Router) {
	r.Route("/persons", func(r chi.Router) {
		r.Post("/", h.HandleCreatePerson)
		r.Get("/", h.HandleListPersons)

		r.Route("/{personID}", func(r chi.Router) {
			r.Get("/", h.HandleGetPerson)
			r.Patch("/", h.HandleUpdatePerson)
			r.Post("/void", h.HandleVoidPerson)

			r.Post("/names", h.HandleAddName)
			r.Get("/names", h.HandleListNames)
			r.Get("/names/preferred", h.HandleGetPreferredName)
			r.Get("/names/{nameID}", h.HandleGetName)
			r.Patch("/names/{nameID}", h.HandleUpdateName)
			r.Post("/names/{nameID}/void", h.HandleVoidName)

			r.Post("/addresses", h.HandleAddAddress)
			r.Get("/addresses", h.HandleListAddresses)
			r.Get("/addresses/preferred", h.HandleGetPreferredAddress)
			r.Get("/addresses/{addressID}", h.HandleGetAddress)
			r.Patch("/addresses/{addressID}", h.HandleUpdateAddress)
			r.Post("/addresses/{addressID}/void", h.HandleVoidAddress)

			r.Post("/attributes", h.HandleAddAttribute)
			r.Get("/attributes", h.HandleListAttributes)
			r.Get("/attributes/preferred/{typeID}", h.HandleGetPreferredAttribute)
			r.Get("/attributes/{attributeID}", h.HandleGetAttribute)
			r.Patch("/attributes/{attributeID}", h.HandleUpdateAttribute)
			r.Post("/attributes/{attributeID}/void", h.HandleVoidAttribute)
		})
	})

	r.Route("/attribute-types", func(r chi.Router) {
		r.Post("/", h.HandleCreateAttributeType)
		r.Get("/", h.HandleListAttributeTypes)
		r.Get("/{typeID}", h.HandleGetAttributeType)
		r.Patch("/{typeID}", h.HandleUpdateAttributeType)
		r.Post("/{typeID}/void", h.HandleVoidAttributeType)
	})
}

// ============================================================================
// Request helpers
// ============================================================================

// pathID parses a path parameter; on failure it writes a 400 and returns false.
func pathID[T any](w http.ResponseWriter, r *http.Request, param string, parse func(string) (T, error)) (T, bool) {
	v, err := parse(chi.URLParam(r, param))
	if err != nil {
		httputil.WriteError(w, err)
		return v, false
	}
	return v, true
}

func queryBool(r *http.Request, name string) (bool, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return false, nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return false, dErrors.Newf(dErrors.CodeBadRequest, "%s must be a boolean", name)
	}
	return v, nil
}

func queryInt(r *http.Request, name string) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return 0, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 0 {
		return 0, dErrors.Newf(dErrors.CodeBadRequest, "%s must be a non-negative integer", name)
	}
	return v, nil
}

func includeVoided(w http.ResponseWriter, r *http.Request) (bool, bool) {
	v, err := queryBool(r, "include_voided")
	if err != nil {
		httputil.WriteError(w, err)
		return false, false
	}
	return v, true
}

// fail logs a failed use-case and writes the mapped error. Client errors are
// logged at warn level; the service already logged storage failures.
func (h *Handler) fail(ctx context.Context, w http.ResponseWriter, err error, msg string, attrs ...any) {
	attrs = append(attrs, "request_id", requestcontext.RequestID(ctx), "error", err)
	if dErrors.CodeOf(err) == dErrors.CodeInternal {
		h.logger.ErrorContext(ctx, msg, attrs...)
	} else {
		h.logger.WarnContext(ctx, msg, attrs...)
	}
	httputil.WriteError(w, err)
}

// ============================================================================
// Persons
// ============================================================================

// HandleCreatePerson handles POST /persons.
func (h *Handler) HandleCreatePerson(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[CreatePersonRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	details, err := h.service.AddPerson(ctx, req.Command())
	if err != nil {
		h.fail(ctx, w, err, "create person failed")
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, FromDetails(details))
}

// HandleListPersons handles GET /persons?limit=&offset=&include_voided=.
func (h *Handler) HandleListPersons(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	limit, err := queryInt(r, "limit")
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	offset, err := queryInt(r, "offset")
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	voided, ok := includeVoided(w, r)
	if !ok {
		return
	}

	q := models.ListPersonsQuery{Limit: limit, Offset: offset, IncludeVoided: voided}.Normalize()
	persons, err := h.service.ListPersons(ctx, q)
	if err != nil {
		h.fail(ctx, w, err, "list persons failed")
		return
	}
	httputil.WriteJSON(w, http.StatusOK, ListPersonsResponse{Persons: persons, Limit: q.Limit, Offset: q.Offset})
}

// HandleGetPerson handles GET /persons/{personID}.
func (h *Handler) HandleGetPerson(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	personID, ok := pathID(w, r, "personID", id.ParsePersonID)
	if !ok {
		return
	}
	voided, ok := includeVoided(w, r)
	if !ok {
		return
	}

	details, err := h.service.GetPerson(ctx, personID, voided)
	if err != nil {
		h.fail(ctx, w, err, "get person failed", "person_id", personID.String())
		return
	}
	httputil.WriteJSON(w, http.StatusOK, FromDetails(details))
}

// HandleUpdatePerson handles PATCH /persons/{personID}.
func (h *Handler) HandleUpdatePerson(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	personID, ok := pathID(w, r, "personID", id.ParsePersonID)
	if !ok {
		return
	}
	voided, ok := includeVoided(w, r)
	if !ok {
		return
	}
	req, ok := httputil.DecodeAndPrepare[UpdatePersonRequest](w, r, h.logger, ctx, requestcontext.RequestID(ctx))
	if !ok {
		return
	}

	person, err := h.service.UpdatePerson(ctx, personID, req.Patch(), voided)
	if err != nil {
		h.fail(ctx, w, err, "update person failed", "person_id", personID.String())
		return
	}
	httputil.WriteJSON(w, http.StatusOK, person)
}

// HandleVoidPerson handles POST /persons/{personID}/void. A repeated void
// answers 200 with already_voided set.
func (h *Handler) HandleVoidPerson(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	personID, ok := pathID(w, r, "personID", id.ParsePersonID)
	if !ok {
		return
	}
	req, ok := httputil.DecodeAndPrepare[VoidRequest](w, r, h.logger, ctx, requestcontext.RequestID(ctx))
	if !ok {
		return
	}

	result, err := h.service.VoidPerson(ctx, personID, req.VoidReason)
	if err != nil {
		h.fail(ctx, w, err, "void person failed", "person_id", personID.String())
		return
	}
	httputil.WriteJSON(w, http.StatusOK, result)
}

// ============================================================================
// Names
// ============================================================================

func (h *Handler) HandleAddName(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	personID, ok := pathID(w, r, "personID", id.ParsePersonID)
	if !ok {
		return
	}
	req, ok := httputil.DecodeAndPrepare[NameRequest](w, r, h.logger, ctx, requestcontext.RequestID(ctx))
	if !ok {
		return
	}

	name, err := h.service.AddPersonName(ctx, personID, req.Command())
	if err != nil {
		h.fail(ctx, w, err, "add person name failed", "person_id", personID.String())
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, name)
}

func (h *Handler) HandleListNames(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	personID, ok := pathID(w, r, "personID", id.ParsePersonID)
	if !ok {
		return
	}
	voided, ok := includeVoided(w, r)
	if !ok {
		return
	}

	names, err := h.service.ListPersonNames(ctx, personID, voided)
	if err != nil {
		h.fail(ctx, w, err, "list person names failed", "person_id", personID.String())
		return
	}
	httputil.WriteJSON(w, http.StatusOK, ListNamesResponse{Names: names})
}

func (h *Handler) HandleGetPreferredName(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	personID, ok := pathID(w, r, "personID", id.ParsePersonID)
	if !ok {
		return
	}

	name, err := h.service.GetPreferredName(ctx, personID)
	if err != nil {
		h.fail(ctx, w, err, "get preferred name failed", "person_id", personID.String())
		return
	}
	httputil.WriteJSON(w, http.StatusOK, name)
}

func (h *Handler) HandleGetName(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	personID, ok := pathID(w, r, "personID", id.ParsePersonID)
	if !ok {
		return
	}
	nameID, ok := pathID(w, r, "nameID", id.ParsePersonNameID)
	if !ok {
		return
	}

	name, err := h.service.GetPersonName(ctx, personID, nameID)
	if err != nil {
		h.fail(ctx, w, err, "get person name failed", "person_id", personID.String(), "name_id", nameID.String())
		return
	}
	httputil.WriteJSON(w, http.StatusOK, name)
}

func (h *Handler) HandleUpdateName(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	personID, ok := pathID(w, r, "personID", id.ParsePersonID)
	if !ok {
		return
	}
	nameID, ok := pathID(w, r, "nameID", id.ParsePersonNameID)
	if !ok {
		return
	}
	req, ok := httputil.DecodeAndPrepare[UpdateNameRequest](w, r, h.logger, ctx, requestcontext.RequestID(ctx))
	if !ok {
		return
	}

	name, err := h.service.UpdatePersonName(ctx, personID, nameID, req.Patch())
	if err != nil {
		h.fail(ctx, w, err, "update person name failed", "person_id", personID.String(), "name_id", nameID.String())
		return
	}
	httputil.WriteJSON(w, http.StatusOK, name)
}

func (h *Handler) HandleVoidName(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	personID, ok := pathID(w, r, "personID", id.ParsePersonID)
	if !ok {
		return
	}
	nameID, ok := pathID(w, r, "nameID", id.ParsePersonNameID)
	if !ok {
		return
	}
	req, ok := httputil.DecodeAndPrepare[VoidRequest](w, r, h.logger, ctx, requestcontext.RequestID(ctx))
	if !ok {
		return
	}

	name, err := h.service.VoidPersonName(ctx, personID, nameID, req.VoidReason)
	if err != nil {
		h.fail(ctx, w, err, "void person name failed", "person_id", personID.String(), "name_id", nameID.String())
		return
	}
	httputil.WriteJSON(w, http.StatusOK, name)
}

// ============================================================================
// Addresses
// ============================================================================

func (h *Handler) HandleAddAddress(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	personID, ok := pathID(w, r, "personID", id.ParsePersonID)
	if !ok {
		return
	}
	req, ok := httputil.DecodeAndPrepare[AddressRequest](w, r, h.logger, ctx, requestcontext.RequestID(ctx))
	if !ok {
		return
	}

	addr, err := h.service.AddPersonAddress(ctx, personID, req.Command())
	if err != nil {
		h.fail(ctx, w, err, "add person address failed", "person_id", personID.String())
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, addr)
}

func (h *Handler) HandleListAddresses(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	personID, ok := pathID(w, r, "personID", id.ParsePersonID)
	if !ok {
		return
	}
	voided, ok := includeVoided(w, r)
	if !ok {
		return
	}

	addrs, err := h.service.ListPersonAddresses(ctx, personID, voided)
	if err != nil {
		h.fail(ctx, w, err, "list person addresses failed", "person_id", personID.String())
		return
	}
	httputil.WriteJSON(w, http.StatusOK, ListAddressesResponse{Addresses: addrs})
}

func (h *Handler) HandleGetPreferredAddress(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	personID, ok := pathID(w, r, "personID", id.ParsePersonID)
	if !ok {
		return
	}

	addr, err := h.service.GetPreferredAddress(ctx, personID)
	if err != nil {
		h.fail(ctx, w, err, "get preferred address failed", "person_id", personID.String())
		return
	}
	httputil.WriteJSON(w, http.StatusOK, addr)
}

func (h *Handler) HandleGetAddress(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	personID, ok := pathID(w, r, "personID", id.ParsePersonID)
	if !ok {
		return
	}
	addressID, ok := pathID(w, r, "addressID", id.ParsePersonAddressID)
	if !ok {
		return
	}

	addr, err := h.service.GetPersonAddress(ctx, personID, addressID)
	if err != nil {
		h.fail(ctx, w, err, "get person address failed", "person_id", personID.String(), "address_id", addressID.String())
		return
	}
	httputil.WriteJSON(w, http.StatusOK, addr)
}

func (h *Handler) HandleUpdateAddress(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	personID, ok := pathID(w, r, "personID", id.ParsePersonID)
	if !ok {
		return
	}
	addressID, ok := pathID(w, r, "addressID", id.ParsePersonAddressID)
	if !ok {
		return
	}
	req, ok := httputil.DecodeAndPrepare[UpdateAddressRequest](w, r, h.logger, ctx, requestcontext.RequestID(ctx))
	if !ok {
		return
	}

	addr, err := h.service.UpdatePersonAddress(ctx, personID, addressID, req.Patch())
	if err != nil {
		h.fail(ctx, w, err, "update person address failed", "person_id", personID.String(), "address_id", addressID.String())
		return
	}
	httputil.WriteJSON(w, http.StatusOK, addr)
}

func (h *Handler) HandleVoidAddress(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	personID, ok := pathID(w, r, "personID", id.ParsePersonID)
	if !ok {
		return
	}
	addressID, ok := pathID(w, r, "addressID", id.ParsePersonAddressID)
	if !ok {
		return
	}
	req, ok := httputil.DecodeAndPrepare[VoidRequest](w, r, h.logger, ctx, requestcontext.RequestID(ctx))
	if !ok {
		return
	}

	addr, err := h.service.VoidPersonAddress(ctx, personID, addressID, req.VoidReason)
	if err != nil {
		h.fail(ctx, w, err, "void person address failed", "person_id", personID.String(), "address_id", addressID.String())
		return
	}
	httputil.WriteJSON(w, http.StatusOK, addr)
}

// ============================================================================
// Attributes
// ============================================================================

func (h *Handler) HandleAddAttribute(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	personID, ok := pathID(w, r, "personID", id.ParsePersonID)
	if !ok {
		return
	}
	req, ok := httputil.DecodeAndPrepare[AttributeRequest](w, r, h.logger, ctx, requestcontext.RequestID(ctx))
	if !ok {
		return
	}

	attr, err := h.service.AddPersonAttribute(ctx, personID, req.Command())
	if err != nil {
		h.fail(ctx, w, err, "add person attribute failed", "person_id", personID.String())
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, attr)
}

func (h *Handler) HandleListAttributes(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	personID, ok := pathID(w, r, "personID", id.ParsePersonID)
	if !ok {
		return
	}
	voided, ok := includeVoided(w, r)
	if !ok {
		return
	}

	attrs, err := h.service.ListPersonAttributes(ctx, personID, voided)
	if err != nil {
		h.fail(ctx, w, err, "list person attributes failed", "person_id", personID.String())
		return
	}
	httputil.WriteJSON(w, http.StatusOK, ListAttributesResponse{Attributes: attrs})
}

func (h *Handler) HandleGetPreferredAttribute(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	personID, ok := pathID(w, r, "personID", id.ParsePersonID)
	if !ok {
		return
	}
	typeID, ok := pathID(w, r, "typeID", id.ParseAttributeTypeID)
	if !ok {
		return
	}

	attr, err := h.service.GetPreferredAttribute(ctx, personID, typeID)
	if err != nil {
		h.fail(ctx, w, err, "get preferred attribute failed", "person_id", personID.String(), "attribute_type_id", typeID.String())
		return
	}
	httputil.WriteJSON(w, http.StatusOK, attr)
}

func (h *Handler) HandleGetAttribute(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	personID, ok := pathID(w, r, "personID", id.ParsePersonID)
	if !ok {
		return
	}
	attrID, ok := pathID(w, r, "attributeID", id.ParsePersonAttributeID)
	if !ok {
		return
	}

	attr, err := h.service.GetPersonAttribute(ctx, personID, attrID)
	if err != nil {
		h.fail(ctx, w, err, "get person attribute failed", "person_id", personID.String(), "attribute_id", attrID.String())
		return
	}
	httputil.WriteJSON(w, http.StatusOK, attr)
}

func (h *Handler) HandleUpdateAttribute(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	personID, ok := pathID(w, r, "personID", id.ParsePersonID)
	if !ok {
		return
	}
	attrID, ok := pathID(w, r, "attributeID", id.ParsePersonAttributeID)
	if !ok {
		return
	}
	req, ok := httputil.DecodeAndPrepare[UpdateAttributeRequest](w, r, h.logger, ctx, requestcontext.RequestID(ctx))
	if !ok {
		return
	}

	attr, err := h.service.UpdatePersonAttribute(ctx, personID, attrID, req.Patch())
	if err != nil {
		h.fail(ctx, w, err, "update person attribute failed", "person_id", personID.String(), "attribute_id", attrID.String())
		return
	}
	httputil.WriteJSON(w, http.StatusOK, attr)
}

func (h *Handler) HandleVoidAttribute(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	personID, ok := pathID(w, r, "personID", id.ParsePersonID)
	if !ok {
		return
	}
	attrID, ok := pathID(w, r, "attributeID", id.ParsePersonAttributeID)
	if !ok {
		return
	}
	req, ok := httputil.DecodeAndPrepare[VoidRequest](w, r, h.logger, ctx, requestcontext.RequestID(ctx))
	if !ok {
		return
	}

	attr, err := h.service.VoidPersonAttribute(ctx, personID, attrID, req.VoidReason)
	if err != nil {
		h.fail(ctx, w, err, "void person attribute failed", "person_id", personID.String(), "attribute_id", attrID.String())
		return
	}
	httputil.WriteJSON(w, http.StatusOK, attr)
}

// ============================================================================
// Attribute types
// ============================================================================

func (h *Handler) HandleCreateAttributeType(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	req, ok := httputil.DecodeAndPrepare[CreateAttributeTypeRequest](w, r, h.logger, ctx, requestcontext.RequestID(ctx))
	if !ok {
		return
	}

	t, err := h.service.CreateAttributeType(ctx, req.Command())
	if err != nil {
		h.fail(ctx, w, err, "create attribute type failed", "name", req.Name)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, t)
}

func (h *Handler) HandleListAttributeTypes(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	voided, ok := includeVoided(w, r)
	if !ok {
		return
	}

	types, err := h.service.ListAttributeTypes(ctx, voided)
	if err != nil {
		h.fail(ctx, w, err, "list attribute types failed")
		return
	}
	httputil.WriteJSON(w, http.StatusOK, ListAttributeTypesResponse{AttributeTypes: types})
}

func (h *Handler) HandleGetAttributeType(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	typeID, ok := pathID(w, r, "typeID", id.ParseAttributeTypeID)
	if !ok {
		return
	}

	t, err := h.service.GetAttributeType(ctx, typeID)
	if err != nil {
		h.fail(ctx, w, err, "get attribute type failed", "attribute_type_id", typeID.String())
		return
	}
	httputil.WriteJSON(w, http.StatusOK, t)
}

func (h *Handler) HandleUpdateAttributeType(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	typeID, ok := pathID(w, r, "typeID", id.ParseAttributeTypeID)
	if !ok {
		return
	}
	req, ok := httputil.DecodeAndPrepare[UpdateAttributeTypeRequest](w, r, h.logger, ctx, requestcontext.RequestID(ctx))
	if !ok {
		return
	}

	t, err := h.service.UpdateAttributeType(ctx, typeID, req.Patch())
	if err != nil {
		h.fail(ctx, w, err, "update attribute type failed", "attribute_type_id", typeID.String())
		return
	}
	httputil.WriteJSON(w, http.StatusOK, t)
}

func (h *Handler) HandleVoidAttributeType(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	typeID, ok := pathID(w, r, "typeID", id.ParseAttributeTypeID)
	if !ok {
		return
	}
	req, ok := httputil.DecodeAndPrepare[VoidRequest](w, r, h.logger, ctx, requestcontext.RequestID(ctx))
	if !ok {
		return
	}

	t, err := h.service.VoidAttributeType(ctx, typeID, req.VoidReason)
	if err != nil {
		h.fail(ctx, w, err, "void attribute type failed", "attribute_type_id", typeID.String())
		return
	}
	httputil.WriteJSON(w, http.StatusOK, t)
}
