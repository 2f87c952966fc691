package attribute

import (
	"context"
	"sync"

	"demographics/internal/person/models"
	id "demographics/pkg/domain"
	"demographics/pkg/platform/sentinel"
)

// InMemory stores person attributes by value, keeping each owner's attributes
// in insertion order.
type InMemory struct {
	mu         sync.RWMutex
	attributes map[id.PersonAttributeID]models.PersonAttribute
	byOwner    map[id.PersonID][]id.PersonAttributeID
}

func NewInMemory() *InMemory {
	return &InMemory{
		attributes: make(map[id.PersonAttributeID]models.PersonAttribute),
		byOwner:    make(map[id.PersonID][]id.PersonAttributeID),
	}
}

func (s *InMemory) Save(_ context.Context, a *models.PersonAttribute) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	existing, ok := s.attributes[a.ID]
	if ok && (existing.PersonID != a.PersonID || existing.AttributeTypeID != a.AttributeTypeID) {
		return sentinel.ErrAlreadyUsed
	}
	if !ok {
		s.byOwner[a.PersonID] = append(s.byOwner[a.PersonID], a.ID)
	}
	s.attributes[a.ID] = *a
	return nil
}

func (s *InMemory) FindByID(_ context.Context, attrID id.PersonAttributeID) (*models.PersonAttribute, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	a, ok := s.attributes[attrID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return &a, nil
}

func (s *InMemory) FindAllByOwner(_ context.Context, personID id.PersonID, includeVoided bool) ([]*models.PersonAttribute, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*models.PersonAttribute, 0, len(s.byOwner[personID]))
	for _, attrID := range s.byOwner[personID] {
		a := s.attributes[attrID]
		if !includeVoided && a.Voided {
			continue
		}
		out = append(out, &a)
	}
	return out, nil
}

// FindPreferred returns the active preferred attribute of the given type.
func (s *InMemory) FindPreferred(_ context.Context, personID id.PersonID, typeID id.AttributeTypeID) (*models.PersonAttribute, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, attrID := range s.byOwner[personID] {
		a := s.attributes[attrID]
		if a.AttributeTypeID == typeID && a.Preferred && !a.Voided {
			return &a, nil
		}
	}
	return nil, sentinel.ErrNotFound
}

func (s *InMemory) DeleteByOwner(_ context.Context, personID id.PersonID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, attrID := range s.byOwner[personID] {
		delete(s.attributes, attrID)
	}
	delete(s.byOwner, personID)
	return nil
}
