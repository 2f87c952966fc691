package models

import (
	"fmt"
	"time"

	id "demographics/pkg/domain"
	dErrors "demographics/pkg/domain-errors"
)

// member is implemented by the owned sub-records. groupKey scopes the
// preferred flag: one group for names and addresses, one per attribute type.
type member[K comparable] interface {
	memberKey() K
	ownerID() id.PersonID
	groupKey() string
	isPreferred() bool
	setPreferred(bool)
	trail() *AuditTrail
}

// collection is an arena of owned members plus an index of the preferred
// member per group.
//
// Invariants:
//   - preferred[g] names the only active member of group g with the flag set
//   - a group with at least one active member added through add has a
//     preferred member, until that member is voided or cleared
type collection[K comparable, M member[K]] struct {
	kind      string
	items     map[K]M
	order     []K
	preferred map[string]K
}

func newCollection[K comparable, M member[K]](kind string) *collection[K, M] {
	return &collection[K, M]{
		kind:      kind,
		items:     make(map[K]M),
		preferred: make(map[string]K),
	}
}

func (c *collection[K, M]) get(key K) (M, bool) {
	m, ok := c.items[key]
	return m, ok
}

func (c *collection[K, M]) preferredOf(group string) (M, bool) {
	key, ok := c.preferred[group]
	if !ok {
		var zero M
		return zero, false
	}
	return c.items[key], true
}

func (c *collection[K, M]) activeCount(group string) int {
	n := 0
	for _, m := range c.items {
		if m.groupKey() == group && m.trail().IsActive() {
			n++
		}
	}
	return n
}

func (c *collection[K, M]) list(includeVoided bool) []M {
	out := make([]M, 0, len(c.order))
	for _, key := range c.order {
		m := c.items[key]
		if !includeVoided && !m.trail().IsActive() {
			continue
		}
		out = append(out, m)
	}
	return out
}

func (c *collection[K, M]) insert(m M) {
	key := m.memberKey()
	c.items[key] = m
	c.order = append(c.order, key)
	if m.isPreferred() && m.trail().IsActive() {
		c.preferred[m.groupKey()] = key
	}
}

// add inserts m, demoting the incumbent preferred member when m is preferred
// and forcing m preferred when its group has no active member. Demoted members
// are returned so they can be persisted alongside m.
func (c *collection[K, M]) add(m M, owner id.PersonID, by id.ActorID, at time.Time) ([]M, error) {
	key := m.memberKey()
	if _, exists := c.items[key]; exists {
		return nil, dErrors.Newf(dErrors.CodeConflict, "%s %v already exists", c.kind, key)
	}
	if m.ownerID() != owner {
		return nil, dErrors.Newf(dErrors.CodeInvariantViolation, "%s %v belongs to another person", c.kind, key)
	}
	if !m.trail().IsActive() {
		return nil, dErrors.Newf(dErrors.CodeInvariantViolation, "cannot add voided %s %v", c.kind, key)
	}

	group := m.groupKey()
	var touched []M
	if m.isPreferred() {
		if cur, ok := c.preferredOf(group); ok {
			cur.setPreferred(false)
			cur.trail().MarkModified(by, at)
			touched = append(touched, cur)
		}
	} else if c.activeCount(group) == 0 {
		m.setPreferred(true)
	}

	c.insert(m)
	return touched, nil
}

// setPreferred changes the flag of an active member. Clearing the preferred
// member is refused while its group holds other active members.
func (c *collection[K, M]) setPreferred(key K, preferred bool, by id.ActorID, at time.Time) ([]M, error) {
	m, ok := c.items[key]
	if !ok {
		return nil, dErrors.Newf(dErrors.CodeNotFound, "%s %v not found", c.kind, key)
	}
	if !m.trail().IsActive() {
		return nil, dErrors.Newf(dErrors.CodeConflict, "%s %v is voided", c.kind, key)
	}
	if m.isPreferred() == preferred {
		return nil, nil
	}

	group := m.groupKey()
	if !preferred {
		if c.activeCount(group) > 1 {
			return nil, dErrors.Newf(dErrors.CodeConflict,
				"cannot clear preferred %s %v while other active entries exist; mark another one preferred instead", c.kind, key)
		}
		m.setPreferred(false)
		m.trail().MarkModified(by, at)
		delete(c.preferred, group)
		return []M{m}, nil
	}

	var touched []M
	if cur, ok := c.preferredOf(group); ok {
		cur.setPreferred(false)
		cur.trail().MarkModified(by, at)
		touched = append(touched, cur)
	}
	m.setPreferred(true)
	m.trail().MarkModified(by, at)
	c.preferred[group] = key
	return append(touched, m), nil
}

// void marks a member voided. The preferred member can only be voided when it
// is the last active member of its group; no other member is promoted.
func (c *collection[K, M]) void(key K, reason string, by id.ActorID, at time.Time) (M, error) {
	m, ok := c.items[key]
	if !ok {
		var zero M
		return zero, dErrors.Newf(dErrors.CodeNotFound, "%s %v not found", c.kind, key)
	}
	if !m.trail().IsActive() {
		return m, ErrAlreadyVoided
	}
	group := m.groupKey()
	if m.isPreferred() && c.activeCount(group) > 1 {
		return m, dErrors.Newf(dErrors.CodeConflict,
			"cannot void preferred %s %v while other active entries exist; mark another one preferred first", c.kind, key)
	}
	if err := m.trail().MarkVoided(by, reason, at); err != nil {
		return m, err
	}
	if m.isPreferred() {
		delete(c.preferred, group)
	}
	return m, nil
}

// load inserts a persisted member without applying add rules.
func (c *collection[K, M]) load(m M, owner id.PersonID) error {
	key := m.memberKey()
	if _, exists := c.items[key]; exists {
		return dErrors.Newf(dErrors.CodeInvariantViolation, "%s %v loaded twice", c.kind, key)
	}
	if m.ownerID() != owner {
		return dErrors.Newf(dErrors.CodeInvariantViolation, "%s %v belongs to another person", c.kind, key)
	}
	if m.isPreferred() && m.trail().IsActive() {
		if cur, ok := c.preferred[m.groupKey()]; ok {
			return dErrors.New(dErrors.CodeInvariantViolation,
				fmt.Sprintf("%s %v and %v are both preferred", c.kind, cur, key))
		}
	}
	c.insert(m)
	return nil
}
