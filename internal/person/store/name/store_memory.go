package name

import (
	"context"
	"sync"

	"demographics/internal/person/models"
	id "demographics/pkg/domain"
	"demographics/pkg/platform/sentinel"
)

// InMemory stores person names by value, keeping each owner's names in
// insertion order.
type InMemory struct {
	mu      sync.RWMutex
	names   map[id.PersonNameID]models.PersonName
	byOwner map[id.PersonID][]id.PersonNameID
}

func NewInMemory() *InMemory {
	return &InMemory{
		names:   make(map[id.PersonNameID]models.PersonName),
		byOwner: make(map[id.PersonID][]id.PersonNameID),
	}
}

func (s *InMemory) Save(_ context.Context, n *models.PersonName) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if existing, ok := s.names[n.ID]; ok && existing.PersonID != n.PersonID {
		return sentinel.ErrAlreadyUsed
	}
	if _, ok := s.names[n.ID]; !ok {
		s.byOwner[n.PersonID] = append(s.byOwner[n.PersonID], n.ID)
	}
	s.names[n.ID] = *n
	return nil
}

func (s *InMemory) FindByID(_ context.Context, nameID id.PersonNameID) (*models.PersonName, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	n, ok := s.names[nameID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return &n, nil
}

func (s *InMemory) FindAllByOwner(_ context.Context, personID id.PersonID, includeVoided bool) ([]*models.PersonName, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*models.PersonName, 0, len(s.byOwner[personID]))
	for _, nameID := range s.byOwner[personID] {
		n := s.names[nameID]
		if !includeVoided && n.Voided {
			continue
		}
		out = append(out, &n)
	}
	return out, nil
}

func (s *InMemory) FindPreferred(_ context.Context, personID id.PersonID) (*models.PersonName, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, nameID := range s.byOwner[personID] {
		n := s.names[nameID]
		if n.Preferred && !n.Voided {
			return &n, nil
		}
	}
	return nil, sentinel.ErrNotFound
}

func (s *InMemory) DeleteByOwner(_ context.Context, personID id.PersonID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, nameID := range s.byOwner[personID] {
		delete(s.names, nameID)
	}
	delete(s.byOwner, personID)
	return nil
}
