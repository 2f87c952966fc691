package name

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

const selectColumns = `id, person_id, first_name, middle_name, last_name, other_name, preferred, ` + auditrow.Columns

// PostgresStore persists person names in PostgreSQL.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgres constructs a PostgreSQL-backed name store.
func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Save(ctx context.Context, n *models.PersonName) error {
	args := append([]any{
		uuid.UUID(n.ID),
		uuid.UUID(n.PersonID),
		n.FirstName,
		n.MiddleName,
		n.LastName,
		n.OtherName,
		n.Preferred,
	}, auditrow.Args(n.AuditTrail)...)

	query := `
		INSERT INTO person_names (id, person_id, first_name, middle_name, last_name, other_name, preferred, ` + auditrow.Columns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
		ON CONFLICT (id) DO UPDATE SET
			first_name = EXCLUDED.first_name,
			middle_name = EXCLUDED.middle_name,
			last_name = EXCLUDED.last_name,
			other_name = EXCLUDED.other_name,
			preferred = EXCLUDED.preferred,
			` + auditrow.UpdateSet + `
		WHERE person_names.person_id = EXCLUDED.person_id`
	res, err := txcontext.Conn(ctx, s.db).ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("save person name: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return sentinel.ErrAlreadyUsed
	}
	return nil
}

func (s *PostgresStore) FindByID(ctx context.Context, nameID id.PersonNameID) (*models.PersonName, error) {
	row := txcontext.Conn(ctx, s.db).QueryRowContext(ctx,
		`SELECT `+selectColumns+` FROM person_names WHERE id = $1`, uuid.UUID(nameID))
	n, err := scanName(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("find person name by id: %w", err)
	}
	return n, nil
}

func (s *PostgresStore) FindAllByOwner(ctx context.Context, personID id.PersonID, includeVoided bool) ([]*models.PersonName, error) {
	rows, err := txcontext.Conn(ctx, s.db).QueryContext(ctx,
		`SELECT `+selectColumns+` FROM person_names
		WHERE person_id = $1 AND ($2 OR NOT voided)
		ORDER BY created_at, seq`, uuid.UUID(personID), includeVoided)
	if err != nil {
		return nil, fmt.Errorf("find person names by owner: %w", err)
	}
	defer rows.Close()

	names := make([]*models.PersonName, 0)
	for rows.Next() {
		n, err := scanName(rows)
		if err != nil {
			return nil, fmt.Errorf("scan person name: %w", err)
		}
		names = append(names, n)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate person names: %w", err)
	}
	return names, nil
}

func (s *PostgresStore) FindPreferred(ctx context.Context, personID id.PersonID) (*models.PersonName, error) {
	row := txcontext.Conn(ctx, s.db).QueryRowContext(ctx,
		`SELECT `+selectColumns+` FROM person_names
		WHERE person_id = $1 AND preferred AND NOT voided`, uuid.UUID(personID))
	n, err := scanName(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("find preferred person name: %w", err)
	}
	return n, nil
}

func (s *PostgresStore) DeleteByOwner(ctx context.Context, personID id.PersonID) error {
	if _, err := txcontext.Conn(ctx, s.db).ExecContext(ctx,
		`DELETE FROM person_names WHERE person_id = $1`, uuid.UUID(personID)); err != nil {
		return fmt.Errorf("delete person names: %w", err)
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanName(row scanner) (*models.PersonName, error) {
	var (
		nameID, personID uuid.UUID
		n                models.PersonName
		audit            auditrow.Row
	)
	dest := append([]any{&nameID, &personID, &n.FirstName, &n.MiddleName, &n.LastName, &n.OtherName, &n.Preferred}, audit.Dest()...)
	if err := row.Scan(dest...); err != nil {
		return nil, err
	}
	n.ID = id.PersonNameID(nameID)
	n.PersonID = id.PersonID(personID)
	n.AuditTrail = audit.Trail()
	return &n, nil
}
