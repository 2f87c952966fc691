package address

import (
	"context"
	"sync"

	"demographics/internal/person/models"
	id "demographics/pkg/domain"
	"demographics/pkg/platform/sentinel"
)

// InMemory stores person addresses by value, keeping each owner's addresses in
// insertion order.
type InMemory struct {
	mu        sync.RWMutex
	addresses map[id.PersonAddressID]models.PersonAddress
	byOwner   map[id.PersonID][]id.PersonAddressID
}

func NewInMemory() *InMemory {
	return &InMemory{
		addresses: make(map[id.PersonAddressID]models.PersonAddress),
		byOwner:   make(map[id.PersonID][]id.PersonAddressID),
	}
}

func (s *InMemory) Save(_ context.Context, a *models.PersonAddress) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	existing, ok := s.addresses[a.ID]
	if ok && existing.PersonID != a.PersonID {
		return sentinel.ErrAlreadyUsed
	}
	if !ok {
		s.byOwner[a.PersonID] = append(s.byOwner[a.PersonID], a.ID)
	}
	s.addresses[a.ID] = *a
	return nil
}

func (s *InMemory) FindByID(_ context.Context, addressID id.PersonAddressID) (*models.PersonAddress, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	a, ok := s.addresses[addressID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return &a, nil
}

func (s *InMemory) FindAllByOwner(_ context.Context, personID id.PersonID, includeVoided bool) ([]*models.PersonAddress, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*models.PersonAddress, 0, len(s.byOwner[personID]))
	for _, addressID := range s.byOwner[personID] {
		a := s.addresses[addressID]
		if !includeVoided && a.Voided {
			continue
		}
		out = append(out, &a)
	}
	return out, nil
}

func (s *InMemory) FindPreferred(_ context.Context, personID id.PersonID) (*models.PersonAddress, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, addressID := range s.byOwner[personID] {
		a := s.addresses[addressID]
		if a.Preferred && !a.Voided {
			return &a, nil
		}
	}
	return nil, sentinel.ErrNotFound
}

func (s *InMemory) DeleteByOwner(_ context.Context, personID id.PersonID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, addressID := range s.byOwner[personID] {
		delete(s.addresses, addressID)
	}
	delete(s.byOwner, personID)
	return nil
}
