package handler

import (
	"strings"
	"time"

	"demographics/internal/person/models"
	id "demographics/pkg/domain"
	dErrors "demographics/pkg/domain-errors"
)

const dateLayout = "2006-01-02"

func parseDate(field string, raw *string) (*time.Time, error) {
	if raw == nil {
		return nil, nil
	}
	t, err := time.Parse(dateLayout, strings.TrimSpace(*raw))
	if err != nil {
		return nil, dErrors.Newf(dErrors.CodeValidation, "%s must be a date formatted %s", field, dateLayout)
	}
	return &t, nil
}

func trimPtr(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	return &v
}

// =============================================================================
// Persons
// =============================================================================

// CreatePersonRequest is the body of POST /persons.
type CreatePersonRequest struct {
	Gender             string             `json:"gender" validate:"required,max=1"`
	BirthDate          *string            `json:"birth_date" validate:"omitempty,datetime=2006-01-02"`
	BirthDateEstimated bool               `json:"birth_date_estimated"`
	Names              []NameRequest      `json:"names" validate:"omitempty,max=20,dive"`
	Addresses          []AddressRequest   `json:"addresses" validate:"omitempty,max=20,dive"`
	Attributes         []AttributeRequest `json:"attributes" validate:"omitempty,max=50,dive"`

	birthDate *time.Time
}

// Validate parses dates and the nested bodies.
// Implements the Validatable interface for httputil.DecodeAndPrepare.
func (r *CreatePersonRequest) Validate() error {
	var err error
	if r.birthDate, err = parseDate("birth_date", r.BirthDate); err != nil {
		return err
	}
	for i := range r.Names {
		if err := r.Names[i].Validate(); err != nil {
			return err
		}
	}
	for i := range r.Addresses {
		if err := r.Addresses[i].Validate(); err != nil {
			return err
		}
	}
	for i := range r.Attributes {
		if err := r.Attributes[i].Validate(); err != nil {
			return err
		}
	}
	return nil
}

// Command converts the validated request.
func (r *CreatePersonRequest) Command() models.NewPersonCommand {
	cmd := models.NewPersonCommand{
		Gender:             r.Gender,
		BirthDate:          r.birthDate,
		BirthDateEstimated: r.BirthDateEstimated,
	}
	for i := range r.Names {
		cmd.Names = append(cmd.Names, r.Names[i].Command())
	}
	for i := range r.Addresses {
		cmd.Addresses = append(cmd.Addresses, r.Addresses[i].Command())
	}
	for i := range r.Attributes {
		cmd.Attributes = append(cmd.Attributes, r.Attributes[i].Command())
	}
	return cmd
}

// UpdatePersonRequest is the body of PATCH /persons/{personID}. Absent fields
// are left unchanged.
type UpdatePersonRequest struct {
	Gender             *string `json:"gender" validate:"omitempty,len=1"`
	BirthDate          *string `json:"birth_date" validate:"omitempty,datetime=2006-01-02"`
	BirthDateEstimated *bool   `json:"birth_date_estimated"`
	Dead               *bool   `json:"dead"`
	DeathDate          *string `json:"death_date" validate:"omitempty,datetime=2006-01-02"`
	CauseOfDeath       *string `json:"cause_of_death" validate:"omitempty,max=255"`

	birthDate *time.Time
	deathDate *time.Time
}

func (r *UpdatePersonRequest) Validate() error {
	var err error
	if r.birthDate, err = parseDate("birth_date", r.BirthDate); err != nil {
		return err
	}
	if r.deathDate, err = parseDate("death_date", r.DeathDate); err != nil {
		return err
	}
	if r.Patch().IsEmpty() {
		return dErrors.New(dErrors.CodeValidation, "at least one field must be provided")
	}
	return nil
}

func (r *UpdatePersonRequest) Patch() models.PersonPatch {
	return models.PersonPatch{
		Gender:             r.Gender,
		BirthDate:          r.birthDate,
		BirthDateEstimated: r.BirthDateEstimated,
		Dead:               r.Dead,
		DeathDate:          r.deathDate,
		CauseOfDeath:       r.CauseOfDeath,
	}
}

// VoidRequest is the body of every void endpoint.
type VoidRequest struct {
	VoidReason string `json:"void_reason" validate:"required,max=255"`
}

func (r *VoidRequest) Validate() error {
	r.VoidReason = strings.TrimSpace(r.VoidReason)
	if r.VoidReason == "" {
		return dErrors.New(dErrors.CodeValidation, "void_reason is required")
	}
	return nil
}

// =============================================================================
// Names
// =============================================================================

// NameRequest adds a name, inline on person creation or on its own.
type NameRequest struct {
	FirstName  string `json:"first_name" validate:"required,max=50"`
	MiddleName string `json:"middle_name" validate:"max=50"`
	LastName   string `json:"last_name" validate:"max=50"`
	OtherName  string `json:"other_name" validate:"max=50"`
	Preferred  bool   `json:"preferred"`
}

func (r *NameRequest) Validate() error {
	if strings.TrimSpace(r.FirstName) == "" {
		return dErrors.New(dErrors.CodeValidation, "first_name is required")
	}
	return nil
}

func (r *NameRequest) Command() models.NewNameCommand {
	return models.NewNameCommand{
		NameFields: models.NameFields{
			FirstName:  r.FirstName,
			MiddleName: r.MiddleName,
			LastName:   r.LastName,
			OtherName:  r.OtherName,
		},
		Preferred: r.Preferred,
	}
}

// UpdateNameRequest patches a name. Setting preferred to true moves the flag
// here; false is only accepted when no other active name exists.
type UpdateNameRequest struct {
	FirstName  *string `json:"first_name" validate:"omitempty,max=50"`
	MiddleName *string `json:"middle_name" validate:"omitempty,max=50"`
	LastName   *string `json:"last_name" validate:"omitempty,max=50"`
	OtherName  *string `json:"other_name" validate:"omitempty,max=50"`
	Preferred  *bool   `json:"preferred"`
}

func (r *UpdateNameRequest) Validate() error {
	if r.FirstName == nil && r.MiddleName == nil && r.LastName == nil && r.OtherName == nil && r.Preferred == nil {
		return dErrors.New(dErrors.CodeValidation, "at least one field must be provided")
	}
	return nil
}

func (r *UpdateNameRequest) Patch() models.NamePatch {
	return models.NamePatch{
		FirstName:  trimPtr(r.FirstName),
		MiddleName: trimPtr(r.MiddleName),
		LastName:   trimPtr(r.LastName),
		OtherName:  trimPtr(r.OtherName),
		Preferred:  r.Preferred,
	}
}

// =============================================================================
// Addresses
// =============================================================================

// LocationRequest carries location ids; display values are resolved server side.
type LocationRequest struct {
	Country   string `json:"country" validate:"max=64"`
	State     string `json:"state" validate:"max=64"`
	County    string `json:"county" validate:"max=64"`
	City      string `json:"city" validate:"max=64"`
	Community string `json:"community" validate:"max=64"`
}

func (r LocationRequest) location() models.Location {
	return models.Location{
		Country:   models.LocationRef{ID: r.Country},
		State:     models.LocationRef{ID: r.State},
		County:    models.LocationRef{ID: r.County},
		City:      models.LocationRef{ID: r.City},
		Community: models.LocationRef{ID: r.Community},
	}
}

// AddressRequest adds an address.
type AddressRequest struct {
	Location     LocationRequest `json:"location"`
	AddressLine1 string          `json:"address_line_1" validate:"max=255"`
	AddressLine2 string          `json:"address_line_2" validate:"max=255"`
	AddressLine3 string          `json:"address_line_3" validate:"max=255"`
	PostalCode   string          `json:"postal_code" validate:"max=255"`
	Landmark     string          `json:"landmark" validate:"max=255"`
	Latitude     *float64        `json:"latitude"`
	Longitude    *float64        `json:"longitude"`
	StartDate    *string         `json:"start_date" validate:"omitempty,datetime=2006-01-02"`
	EndDate      *string         `json:"end_date" validate:"omitempty,datetime=2006-01-02"`
	Preferred    bool            `json:"preferred"`

	startDate *time.Time
	endDate   *time.Time
}

func (r *AddressRequest) Validate() error {
	var err error
	if r.startDate, err = parseDate("start_date", r.StartDate); err != nil {
		return err
	}
	if r.endDate, err = parseDate("end_date", r.EndDate); err != nil {
		return err
	}
	return nil
}

func (r *AddressRequest) Command() models.NewAddressCommand {
	return models.NewAddressCommand{
		AddressFields: models.AddressFields{
			Location:     r.Location.location(),
			AddressLine1: r.AddressLine1,
			AddressLine2: r.AddressLine2,
			AddressLine3: r.AddressLine3,
			PostalCode:   r.PostalCode,
			Landmark:     r.Landmark,
			Latitude:     r.Latitude,
			Longitude:    r.Longitude,
			StartDate:    r.startDate,
			EndDate:      r.endDate,
		},
		Preferred: r.Preferred,
	}
}

// UpdateAddressRequest patches an address. A location replaces the whole
// hierarchy.
type UpdateAddressRequest struct {
	Location     *LocationRequest `json:"location"`
	AddressLine1 *string          `json:"address_line_1" validate:"omitempty,max=255"`
	AddressLine2 *string          `json:"address_line_2" validate:"omitempty,max=255"`
	AddressLine3 *string          `json:"address_line_3" validate:"omitempty,max=255"`
	PostalCode   *string          `json:"postal_code" validate:"omitempty,max=255"`
	Landmark     *string          `json:"landmark" validate:"omitempty,max=255"`
	Latitude     *float64         `json:"latitude"`
	Longitude    *float64         `json:"longitude"`
	StartDate    *string          `json:"start_date" validate:"omitempty,datetime=2006-01-02"`
	EndDate      *string          `json:"end_date" validate:"omitempty,datetime=2006-01-02"`
	Preferred    *bool            `json:"preferred"`

	startDate *time.Time
	endDate   *time.Time
}

func (r *UpdateAddressRequest) Validate() error {
	var err error
	if r.startDate, err = parseDate("start_date", r.StartDate); err != nil {
		return err
	}
	if r.endDate, err = parseDate("end_date", r.EndDate); err != nil {
		return err
	}
	return nil
}

func (r *UpdateAddressRequest) Patch() models.AddressPatch {
	patch := models.AddressPatch{
		AddressLine1: r.AddressLine1,
		AddressLine2: r.AddressLine2,
		AddressLine3: r.AddressLine3,
		PostalCode:   r.PostalCode,
		Landmark:     r.Landmark,
		Latitude:     r.Latitude,
		Longitude:    r.Longitude,
		StartDate:    r.startDate,
		EndDate:      r.endDate,
		Preferred:    r.Preferred,
	}
	if r.Location != nil {
		loc := r.Location.location()
		patch.Location = &loc
	}
	return patch
}

// =============================================================================
// Attributes
// =============================================================================

// AttributeRequest adds an attribute of a registered type.
type AttributeRequest struct {
	AttributeTypeID string `json:"attribute_type_id" validate:"required,uuid"`
	Value           string `json:"value" validate:"required,max=255"`
	Preferred       bool   `json:"preferred"`

	typeID id.AttributeTypeID
}

func (r *AttributeRequest) Validate() error {
	typeID, err := id.ParseAttributeTypeID(r.AttributeTypeID)
	if err != nil {
		return err
	}
	r.typeID = typeID
	return nil
}

func (r *AttributeRequest) Command() models.NewAttributeCommand {
	return models.NewAttributeCommand{
		AttributeTypeID: r.typeID,
		Value:           r.Value,
		Preferred:       r.Preferred,
	}
}

// UpdateAttributeRequest patches an attribute. The type cannot change.
type UpdateAttributeRequest struct {
	Value     *string `json:"value" validate:"omitempty,max=255"`
	Preferred *bool   `json:"preferred"`
}

func (r *UpdateAttributeRequest) Validate() error {
	if r.Value == nil && r.Preferred == nil {
		return dErrors.New(dErrors.CodeValidation, "at least one field must be provided")
	}
	return nil
}

func (r *UpdateAttributeRequest) Patch() models.AttributePatch {
	return models.AttributePatch{Value: r.Value, Preferred: r.Preferred}
}

// =============================================================================
// Attribute types
// =============================================================================

// CreateAttributeTypeRequest is the body of POST /attribute-types.
type CreateAttributeTypeRequest struct {
	Name        string `json:"name" validate:"required,max=50"`
	Description string `json:"description" validate:"max=255"`
	Format      string `json:"format" validate:"omitempty,oneof=text number boolean date coded"`
}

func (r *CreateAttributeTypeRequest) Validate() error {
	r.Name = strings.TrimSpace(r.Name)
	if r.Name == "" {
		return dErrors.New(dErrors.CodeValidation, "name is required")
	}
	return nil
}

func (r *CreateAttributeTypeRequest) Command() models.NewAttributeTypeCommand {
	return models.NewAttributeTypeCommand{
		Name:        r.Name,
		Description: r.Description,
		Format:      r.Format,
	}
}

// UpdateAttributeTypeRequest patches an attribute type.
type UpdateAttributeTypeRequest struct {
	Name        *string `json:"name" validate:"omitempty,max=50"`
	Description *string `json:"description" validate:"omitempty,max=255"`
	Format      *string `json:"format" validate:"omitempty,oneof=text number boolean date coded"`
}

func (r *UpdateAttributeTypeRequest) Validate() error {
	if r.Name == nil && r.Description == nil && r.Format == nil {
		return dErrors.New(dErrors.CodeValidation, "at least one field must be provided")
	}
	return nil
}

func (r *UpdateAttributeTypeRequest) Patch() models.AttributeTypePatch {
	return models.AttributeTypePatch{
		Name:        r.Name,
		Description: r.Description,
		Format:      r.Format,
	}
}
