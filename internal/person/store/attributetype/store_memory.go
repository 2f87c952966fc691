package attributetype

import (
	"context"
	"sort"
	"strings"
	"sync"

	"demographics/internal/person/models"
	id "demographics/pkg/domain"
	"demographics/pkg/platform/sentinel"
)

// InMemory is the attribute type catalog held in memory. Active names are
// unique case-insensitively, matching the partial index used in PostgreSQL.
type InMemory struct {
	mu    sync.RWMutex
	types map[id.AttributeTypeID]models.AttributeType
}

func NewInMemory() *InMemory {
	return &InMemory{types: make(map[id.AttributeTypeID]models.AttributeType)}
}

func (s *InMemory) Save(_ context.Context, t *models.AttributeType) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !t.Voided {
		for _, other := range s.types {
			if other.ID != t.ID && !other.Voided && other.SameName(t.Name) {
				return sentinel.ErrAlreadyUsed
			}
		}
	}
	s.types[t.ID] = *t
	return nil
}

func (s *InMemory) FindByID(_ context.Context, typeID id.AttributeTypeID) (*models.AttributeType, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	t, ok := s.types[typeID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return &t, nil
}

func (s *InMemory) FindByName(_ context.Context, name string) (*models.AttributeType, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	name = strings.TrimSpace(name)
	for _, t := range s.types {
		if !t.Voided && t.SameName(name) {
			return &t, nil
		}
	}
	return nil, sentinel.ErrNotFound
}

// List returns types ordered by name.
func (s *InMemory) List(_ context.Context, includeVoided bool) ([]*models.AttributeType, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*models.AttributeType, 0, len(s.types))
	for _, t := range s.types {
		if !includeVoided && t.Voided {
			continue
		}
		out = append(out, &t)
	}
	sort.Slice(out, func(i, j int) bool {
		a, b := strings.ToLower(out[i].Name), strings.ToLower(out[j].Name)
		if a != b {
			return a < b
		}
		return out[i].ID.String() < out[j].ID.String()
	})
	return out, nil
}

