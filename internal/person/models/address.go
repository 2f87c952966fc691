package models

import (
	"strings"
	"time"

	id "demographics/pkg/domain"
	dErrors "demographics/pkg/domain-errors"
)

const maxAddressFieldLength = 255

// LocationRef points at a location in the metadata service. Name and Code are
// display values filled in by the location resolver and may be empty.
type LocationRef struct {
	ID   string `json:"id"`
	Name string `json:"name,omitempty"`
	Code string `json:"code,omitempty"`
}

// IsSet reports whether the reference carries an id.
func (r LocationRef) IsSet() bool {
	return r.ID != ""
}

// Location is the administrative hierarchy of an address.
type Location struct {
	Country   LocationRef `json:"country"`
	State     LocationRef `json:"state"`
	County    LocationRef `json:"county"`
	City      LocationRef `json:"city"`
	Community LocationRef `json:"community"`
}

// Refs returns pointers to every reference in hierarchy order.
func (l *Location) Refs() []*LocationRef {
	return []*LocationRef{&l.Country, &l.State, &l.County, &l.City, &l.Community}
}

// PersonAddress is one of the addresses a person has lived at.
type PersonAddress struct {
	ID       id.PersonAddressID `json:"address_id"`
	PersonID id.PersonID        `json:"person_id"`
	AddressFields
	Preferred bool `json:"preferred"`
	AuditTrail
}

// AddressFields are the editable parts of an address.
type AddressFields struct {
	Location     Location   `json:"location"`
	AddressLine1 string     `json:"address_line_1,omitempty"`
	AddressLine2 string     `json:"address_line_2,omitempty"`
	AddressLine3 string     `json:"address_line_3,omitempty"`
	PostalCode   string     `json:"postal_code,omitempty"`
	Landmark     string     `json:"landmark,omitempty"`
	Longitude    *float64   `json:"longitude,omitempty"`
	Latitude     *float64   `json:"latitude,omitempty"`
	StartDate    *time.Time `json:"start_date,omitempty"`
	EndDate      *time.Time `json:"end_date,omitempty"`
}

func (f AddressFields) normalized() AddressFields {
	f.AddressLine1 = strings.TrimSpace(f.AddressLine1)
	f.AddressLine2 = strings.TrimSpace(f.AddressLine2)
	f.AddressLine3 = strings.TrimSpace(f.AddressLine3)
	f.PostalCode = strings.TrimSpace(f.PostalCode)
	f.Landmark = strings.TrimSpace(f.Landmark)
	f.StartDate = truncateDate(f.StartDate)
	f.EndDate = truncateDate(f.EndDate)
	for _, ref := range f.Location.Refs() {
		ref.ID = strings.TrimSpace(ref.ID)
	}
	return f
}

func (f AddressFields) validate() error {
	for _, v := range []string{f.AddressLine1, f.AddressLine2, f.AddressLine3, f.PostalCode, f.Landmark} {
		if len(v) > maxAddressFieldLength {
			return dErrors.New(dErrors.CodeValidation, "address fields must be 255 characters or less")
		}
	}
	if f.Latitude != nil && (*f.Latitude < -90 || *f.Latitude > 90) {
		return dErrors.New(dErrors.CodeValidation, "latitude must be between -90 and 90")
	}
	if f.Longitude != nil && (*f.Longitude < -180 || *f.Longitude > 180) {
		return dErrors.New(dErrors.CodeValidation, "longitude must be between -180 and 180")
	}
	if f.StartDate != nil && f.EndDate != nil && f.EndDate.Before(*f.StartDate) {
		return dErrors.New(dErrors.CodeValidation, "end date cannot be before start date")
	}
	return nil
}

// NewPersonAddress builds an active address owned by personID.
func NewPersonAddress(addressID id.PersonAddressID, personID id.PersonID, fields AddressFields, preferred bool, by id.ActorID, at time.Time) (*PersonAddress, error) {
	if addressID.IsNil() || personID.IsNil() {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "address id and person id are required")
	}
	fields = fields.normalized()
	if err := fields.validate(); err != nil {
		return nil, err
	}
	return &PersonAddress{
		ID:            addressID,
		PersonID:      personID,
		AddressFields: fields,
		Preferred:     preferred,
		AuditTrail:    NewAuditTrail(by, at),
	}, nil
}

// AddressPatch carries a partial address update; nil fields are left
// unchanged. A non-nil Location replaces the whole hierarchy.
type AddressPatch struct {
	Location     *Location
	AddressLine1 *string
	AddressLine2 *string
	AddressLine3 *string
	PostalCode   *string
	Landmark     *string
	Longitude    *float64
	Latitude     *float64
	StartDate    *time.Time
	EndDate      *time.Time
	Preferred    *bool
}

func (p AddressPatch) apply(f AddressFields) AddressFields {
	if p.Location != nil {
		f.Location = *p.Location
	}
	setString(&f.AddressLine1, p.AddressLine1)
	setString(&f.AddressLine2, p.AddressLine2)
	setString(&f.AddressLine3, p.AddressLine3)
	setString(&f.PostalCode, p.PostalCode)
	setString(&f.Landmark, p.Landmark)
	if p.Longitude != nil {
		f.Longitude = p.Longitude
	}
	if p.Latitude != nil {
		f.Latitude = p.Latitude
	}
	if p.StartDate != nil {
		f.StartDate = p.StartDate
	}
	if p.EndDate != nil {
		f.EndDate = p.EndDate
	}
	return f
}

func setString(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}

func (a *PersonAddress) memberKey() id.PersonAddressID { return a.ID }
func (a *PersonAddress) ownerID() id.PersonID          { return a.PersonID }
func (a *PersonAddress) groupKey() string              { return "" }
func (a *PersonAddress) isPreferred() bool             { return a.Preferred }
func (a *PersonAddress) setPreferred(v bool)           { a.Preferred = v }
