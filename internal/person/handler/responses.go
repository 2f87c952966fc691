package handler

import (
	"demographics/internal/person/models"
)

// PersonResponse is a person with its collections and the display name taken
// from the preferred name.
type PersonResponse struct {
	*models.PersonDetails
	PreferredName string `json:"preferred_name,omitempty"`
}

func FromDetails(d *models.PersonDetails) PersonResponse {
	resp := PersonResponse{PersonDetails: d}
	for _, n := range d.Names {
		if n.Preferred && n.IsActive() {
			resp.PreferredName = n.FullName()
			break
		}
	}
	return resp
}

type ListPersonsResponse struct {
	Persons []*models.Person `json:"persons"`
	Limit   int              `json:"limit"`
	Offset  int              `json:"offset"`
}

type ListNamesResponse struct {
	Names []*models.PersonName `json:"names"`
}

type ListAddressesResponse struct {
	Addresses []*models.PersonAddress `json:"addresses"`
}

type ListAttributesResponse struct {
	Attributes []*models.PersonAttribute `json:"attributes"`
}

type ListAttributeTypesResponse struct {
	AttributeTypes []*models.AttributeType `json:"attribute_types"`
}
