package person

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"demographics/internal/person/models"
	"demographics/internal/person/store/auditrow"
	id "demographics/pkg/domain"
	"demographics/pkg/platform/sentinel"
	txcontext "demographics/pkg/platform/tx"
)

const selectColumns = `id, gender, birth_date, birth_date_estimated, dead, death_date, cause_of_death, ` + auditrow.Columns

// PostgresStore persists person records in PostgreSQL.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgres constructs a PostgreSQL-backed person store.
func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Save(ctx context.Context, p *models.Person) error {
	args := append([]any{
		uuid.UUID(p.ID),
		string(p.Gender),
		auditrow.NullTime(p.BirthDate),
		p.BirthDateEstimated,
		p.Dead,
		auditrow.NullTime(p.DeathDate),
		p.CauseOfDeath,
	}, auditrow.Args(p.AuditTrail)...)

	query := `
		INSERT INTO persons (id, gender, birth_date, birth_date_estimated, dead, death_date, cause_of_death, ` + auditrow.Columns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
		ON CONFLICT (id) DO UPDATE SET
			gender = EXCLUDED.gender,
			birth_date = EXCLUDED.birth_date,
			birth_date_estimated = EXCLUDED.birth_date_estimated,
			dead = EXCLUDED.dead,
			death_date = EXCLUDED.death_date,
			cause_of_death = EXCLUDED.cause_of_death,
			` + auditrow.UpdateSet
	if _, err := txcontext.Conn(ctx, s.db).ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("save person: %w", err)
	}
	return nil
}

func (s *PostgresStore) FindByID(ctx context.Context, personID id.PersonID) (*models.Person, error) {
	return s.find(ctx, `SELECT `+selectColumns+` FROM persons WHERE id = $1`, personID)
}

// FindByIDForUpdate locks the person row until the surrounding transaction
// ends.
func (s *PostgresStore) FindByIDForUpdate(ctx context.Context, personID id.PersonID) (*models.Person, error) {
	return s.find(ctx, `SELECT `+selectColumns+` FROM persons WHERE id = $1 FOR UPDATE`, personID)
}

func (s *PostgresStore) find(ctx context.Context, query string, personID id.PersonID) (*models.Person, error) {
	row := txcontext.Conn(ctx, s.db).QueryRowContext(ctx, query, uuid.UUID(personID))
	p, err := scanPerson(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("find person by id: %w", err)
	}
	return p, nil
}

func (s *PostgresStore) List(ctx context.Context, q models.ListPersonsQuery) ([]*models.Person, error) {
	query := `SELECT ` + selectColumns + ` FROM persons
		WHERE ($1 OR NOT voided)
		ORDER BY created_at, id
		LIMIT $2 OFFSET $3`
	rows, err := txcontext.Conn(ctx, s.db).QueryContext(ctx, query, q.IncludeVoided, q.Limit, q.Offset)
	if err != nil {
		return nil, fmt.Errorf("list persons: %w", err)
	}
	defer rows.Close()

	persons := make([]*models.Person, 0)
	for rows.Next() {
		p, err := scanPerson(rows)
		if err != nil {
			return nil, fmt.Errorf("scan person: %w", err)
		}
		persons = append(persons, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate persons: %w", err)
	}
	return persons, nil
}

func (s *PostgresStore) Delete(ctx context.Context, personID id.PersonID) error {
	res, err := txcontext.Conn(ctx, s.db).ExecContext(ctx, `DELETE FROM persons WHERE id = $1`, uuid.UUID(personID))
	if err != nil {
		return fmt.Errorf("delete person: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete person rows affected: %w", err)
	}
	if n == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanPerson(row scanner) (*models.Person, error) {
	var (
		personID     uuid.UUID
		gender       string
		birthDate    sql.NullTime
		estimated    bool
		dead         bool
		deathDate    sql.NullTime
		causeOfDeath string
		audit        auditrow.Row
	)
	dest := append([]any{&personID, &gender, &birthDate, &estimated, &dead, &deathDate, &causeOfDeath}, audit.Dest()...)
	if err := row.Scan(dest...); err != nil {
		return nil, err
	}
	return &models.Person{
		ID:                 id.PersonID(personID),
		Gender:             models.Gender(gender),
		BirthDate:          auditrow.TimePtr(birthDate),
		BirthDateEstimated: estimated,
		Dead:               dead,
		DeathDate:          auditrow.TimePtr(deathDate),
		CauseOfDeath:       causeOfDeath,
		AuditTrail:         audit.Trail(),
	}, nil
}
