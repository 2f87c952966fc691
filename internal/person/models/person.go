package models

import (
	"strings"
	"time"

	id "demographics/pkg/domain"
	dErrors "demographics/pkg/domain-errors"
)

// Gender is a single character code.
type Gender string

const (
	GenderMale    Gender = "M"
	GenderFemale  Gender = "F"
	GenderOther   Gender = "O"
	GenderUnknown Gender = "U"
)

var validGenders = map[Gender]bool{
	GenderMale:    true,
	GenderFemale:  true,
	GenderOther:   true,
	GenderUnknown: true,
}

// ParseGender normalizes and validates a gender code.
func ParseGender(s string) (Gender, error) {
	g := Gender(strings.ToUpper(strings.TrimSpace(s)))
	if !validGenders[g] {
		return "", dErrors.New(dErrors.CodeValidation, "gender must be one of M, F, O, U")
	}
	return g, nil
}

const maxCauseOfDeathLength = 255

// Person is the root record of the person aggregate. The owned collections live
// in Aggregate; sub-records point back through their PersonID only.
//
// Invariants:
//   - Gender is a valid code
//   - BirthDate, when set, is not in the future
//   - DeathDate and CauseOfDeath are only set when Dead is true
//   - DeathDate, when set, is not before BirthDate
type Person struct {
	ID                 id.PersonID `json:"person_id"`
	Gender             Gender      `json:"gender"`
	BirthDate          *time.Time  `json:"birth_date,omitempty"`
	BirthDateEstimated bool        `json:"birth_date_estimated"`
	Dead               bool        `json:"dead"`
	DeathDate          *time.Time  `json:"death_date,omitempty"`
	CauseOfDeath       string      `json:"cause_of_death,omitempty"`
	AuditTrail
}

// NewPerson constructs a living person.
func NewPerson(personID id.PersonID, gender string, birthDate *time.Time, estimated bool, by id.ActorID, at time.Time) (*Person, error) {
	if personID.IsNil() {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "person id cannot be nil")
	}
	g, err := ParseGender(gender)
	if err != nil {
		return nil, err
	}
	birthDate = truncateDate(birthDate)
	if birthDate != nil && birthDate.After(at) {
		return nil, dErrors.New(dErrors.CodeValidation, "birth date cannot be in the future")
	}
	return &Person{
		ID:                 personID,
		Gender:             g,
		BirthDate:          birthDate,
		BirthDateEstimated: estimated,
		AuditTrail:         NewAuditTrail(by, at),
	}, nil
}

// PersonPatch carries a partial update; nil fields are left unchanged.
type PersonPatch struct {
	Gender             *string
	BirthDate          *time.Time
	BirthDateEstimated *bool
	Dead               *bool
	DeathDate          *time.Time
	CauseOfDeath       *string
}

// IsEmpty reports whether the patch would change nothing.
func (p PersonPatch) IsEmpty() bool {
	return p.Gender == nil && p.BirthDate == nil && p.BirthDateEstimated == nil &&
		p.Dead == nil && p.DeathDate == nil && p.CauseOfDeath == nil
}

// ApplyPatch validates the patched state as a whole before touching the record.
// Setting Dead to false clears DeathDate and CauseOfDeath.
func (p *Person) ApplyPatch(patch PersonPatch, by id.ActorID, at time.Time) error {
	next := *p

	if patch.Gender != nil {
		g, err := ParseGender(*patch.Gender)
		if err != nil {
			return err
		}
		next.Gender = g
	}
	if patch.BirthDate != nil {
		next.BirthDate = truncateDate(patch.BirthDate)
	}
	if patch.BirthDateEstimated != nil {
		next.BirthDateEstimated = *patch.BirthDateEstimated
	}
	if patch.Dead != nil {
		next.Dead = *patch.Dead
		if !next.Dead {
			next.DeathDate = nil
			next.CauseOfDeath = ""
		}
	}
	if patch.DeathDate != nil {
		next.DeathDate = truncateDate(patch.DeathDate)
	}
	if patch.CauseOfDeath != nil {
		next.CauseOfDeath = strings.TrimSpace(*patch.CauseOfDeath)
	}

	if err := next.validate(at); err != nil {
		return err
	}

	p.Gender = next.Gender
	p.BirthDate = next.BirthDate
	p.BirthDateEstimated = next.BirthDateEstimated
	p.Dead = next.Dead
	p.DeathDate = next.DeathDate
	p.CauseOfDeath = next.CauseOfDeath
	p.MarkModified(by, at)
	return nil
}

func (p *Person) validate(now time.Time) error {
	if !validGenders[p.Gender] {
		return dErrors.New(dErrors.CodeValidation, "gender must be one of M, F, O, U")
	}
	if p.BirthDate != nil && p.BirthDate.After(now) {
		return dErrors.New(dErrors.CodeValidation, "birth date cannot be in the future")
	}
	if !p.Dead && (p.DeathDate != nil || p.CauseOfDeath != "") {
		return dErrors.New(dErrors.CodeValidation, "death date and cause of death require dead to be true")
	}
	if p.DeathDate != nil {
		if p.DeathDate.After(now) {
			return dErrors.New(dErrors.CodeValidation, "death date cannot be in the future")
		}
		if p.BirthDate != nil && p.DeathDate.Before(*p.BirthDate) {
			return dErrors.New(dErrors.CodeValidation, "death date cannot be before birth date")
		}
	}
	if len(p.CauseOfDeath) > maxCauseOfDeathLength {
		return dErrors.New(dErrors.CodeValidation, "cause of death must be 255 characters or less")
	}
	return nil
}

// Void marks the person voided. Sub-records keep their own state.
func (p *Person) Void(reason string, by id.ActorID, at time.Time) error {
	return p.MarkVoided(by, reason, at)
}

// truncateDate drops the time of day; dates are calendar dates in UTC.
func truncateDate(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	y, m, d := t.Date()
	date := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return &date
}
