package person

import (
	"context"
	"sort"
	"sync"

	"demographics/internal/person/models"
	id "demographics/pkg/domain"
	"demographics/pkg/platform/sentinel"
)

// InMemory stores person records by value; callers get copies.
type InMemory struct {
	mu      sync.RWMutex
	persons map[id.PersonID]models.Person
}

func NewInMemory() *InMemory {
	return &InMemory{persons: make(map[id.PersonID]models.Person)}
}

func (s *InMemory) Save(_ context.Context, p *models.Person) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.persons[p.ID] = *p
	return nil
}

func (s *InMemory) FindByID(_ context.Context, personID id.PersonID) (*models.Person, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.persons[personID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return &p, nil
}

// FindByIDForUpdate is FindByID; the sharded tx runner holds the lock.
func (s *InMemory) FindByIDForUpdate(ctx context.Context, personID id.PersonID) (*models.Person, error) {
	return s.FindByID(ctx, personID)
}

func (s *InMemory) List(_ context.Context, q models.ListPersonsQuery) ([]*models.Person, error) {
	s.mu.RLock()
	all := make([]models.Person, 0, len(s.persons))
	for _, p := range s.persons {
		if !q.IncludeVoided && p.Voided {
			continue
		}
		all = append(all, p)
	}
	s.mu.RUnlock()

	sort.Slice(all, func(i, j int) bool {
		if all[i].CreatedAt.Equal(all[j].CreatedAt) {
			return all[i].ID.String() < all[j].ID.String()
		}
		return all[i].CreatedAt.Before(all[j].CreatedAt)
	})

	if q.Offset >= len(all) {
		return []*models.Person{}, nil
	}
	end := len(all)
	if q.Limit > 0 && q.Offset+q.Limit < end {
		end = q.Offset + q.Limit
	}
	out := make([]*models.Person, 0, end-q.Offset)
	for i := q.Offset; i < end; i++ {
		p := all[i]
		out = append(out, &p)
	}
	return out, nil
}

func (s *InMemory) Delete(_ context.Context, personID id.PersonID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.persons[personID]; !ok {
		return sentinel.ErrNotFound
	}
	delete(s.persons, personID)
	return nil
}
