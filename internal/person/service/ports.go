package service

//go:generate mockgen -source=ports.go -destination=mocks/mocks.go -package=mocks

import (
	"context"

	"demographics/internal/person/models"
	id "demographics/pkg/domain"
	"demographics/pkg/platform/audit"
)

// PersonStore persists person records. Stores return sentinel.ErrNotFound for
// missing rows.
type PersonStore interface {
	Save(ctx context.Context, p *models.Person) error
	FindByID(ctx context.Context, personID id.PersonID) (*models.Person, error)
	// FindByIDForUpdate reads the person and holds it against concurrent
	// writers until the surrounding unit of work ends.
	FindByIDForUpdate(ctx context.Context, personID id.PersonID) (*models.Person, error)
	List(ctx context.Context, q models.ListPersonsQuery) ([]*models.Person, error)
	Delete(ctx context.Context, personID id.PersonID) error
}

type NameStore interface {
	Save(ctx context.Context, n *models.PersonName) error
	FindByID(ctx context.Context, nameID id.PersonNameID) (*models.PersonName, error)
	FindAllByOwner(ctx context.Context, personID id.PersonID, includeVoided bool) ([]*models.PersonName, error)
	FindPreferred(ctx context.Context, personID id.PersonID) (*models.PersonName, error)
	DeleteByOwner(ctx context.Context, personID id.PersonID) error
}

type AddressStore interface {
	Save(ctx context.Context, a *models.PersonAddress) error
	FindByID(ctx context.Context, addressID id.PersonAddressID) (*models.PersonAddress, error)
	FindAllByOwner(ctx context.Context, personID id.PersonID, includeVoided bool) ([]*models.PersonAddress, error)
	FindPreferred(ctx context.Context, personID id.PersonID) (*models.PersonAddress, error)
	DeleteByOwner(ctx context.Context, personID id.PersonID) error
}

type AttributeStore interface {
	Save(ctx context.Context, a *models.PersonAttribute) error
	FindByID(ctx context.Context, attrID id.PersonAttributeID) (*models.PersonAttribute, error)
	FindAllByOwner(ctx context.Context, personID id.PersonID, includeVoided bool) ([]*models.PersonAttribute, error)
	FindPreferred(ctx context.Context, personID id.PersonID, typeID id.AttributeTypeID) (*models.PersonAttribute, error)
	DeleteByOwner(ctx context.Context, personID id.PersonID) error
}

type AttributeTypeStore interface {
	Save(ctx context.Context, t *models.AttributeType) error
	FindByID(ctx context.Context, typeID id.AttributeTypeID) (*models.AttributeType, error)
	// FindByName matches active types case-insensitively.
	FindByName(ctx context.Context, name string) (*models.AttributeType, error)
	List(ctx context.Context, includeVoided bool) ([]*models.AttributeType, error)
}

// TxRunner runs fn as one unit of work. Calls sharing a key are serialized.
type TxRunner interface {
	RunInTx(ctx context.Context, key string, fn func(ctx context.Context) error) error
}

type AuditPublisher interface {
	Emit(ctx context.Context, event audit.Event) error
}

// LocationResolver fills display names and codes for the location ids of an
// address. Callers keep the ids when it fails.
type LocationResolver interface {
	Resolve(ctx context.Context, loc models.Location) (models.Location, error)
}
