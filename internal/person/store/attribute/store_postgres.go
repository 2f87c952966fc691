package attribute

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

const selectColumns = `id, person_id, attribute_type_id, value, preferred, ` + auditrow.Columns

// PostgresStore persists person attributes in PostgreSQL.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgres constructs a PostgreSQL-backed attribute store.
func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Save(ctx context.Context, a *models.PersonAttribute) error {
	args := append([]any{
		uuid.UUID(a.ID),
		uuid.UUID(a.PersonID),
		uuid.UUID(a.AttributeTypeID),
		a.Value,
		a.Preferred,
	}, auditrow.Args(a.AuditTrail)...)

	query := `
		INSERT INTO person_attributes (id, person_id, attribute_type_id, value, preferred, ` + auditrow.Columns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		ON CONFLICT (id) DO UPDATE SET
			value = EXCLUDED.value,
			preferred = EXCLUDED.preferred,
			` + auditrow.UpdateSet + `
		WHERE person_attributes.person_id = EXCLUDED.person_id
			AND person_attributes.attribute_type_id = EXCLUDED.attribute_type_id`
	res, err := txcontext.Conn(ctx, s.db).ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("save person attribute: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return sentinel.ErrAlreadyUsed
	}
	return nil
}

func (s *PostgresStore) FindByID(ctx context.Context, attrID id.PersonAttributeID) (*models.PersonAttribute, error) {
	row := txcontext.Conn(ctx, s.db).QueryRowContext(ctx,
		`SELECT `+selectColumns+` FROM person_attributes WHERE id = $1`, uuid.UUID(attrID))
	a, err := scanAttribute(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("find person attribute by id: %w", err)
	}
	return a, nil
}

func (s *PostgresStore) FindAllByOwner(ctx context.Context, personID id.PersonID, includeVoided bool) ([]*models.PersonAttribute, error) {
	rows, err := txcontext.Conn(ctx, s.db).QueryContext(ctx,
		`SELECT `+selectColumns+` FROM person_attributes
		WHERE person_id = $1 AND ($2 OR NOT voided)
		ORDER BY created_at, seq`, uuid.UUID(personID), includeVoided)
	if err != nil {
		return nil, fmt.Errorf("find person attributes by owner: %w", err)
	}
	defer rows.Close()

	attrs := make([]*models.PersonAttribute, 0)
	for rows.Next() {
		a, err := scanAttribute(rows)
		if err != nil {
			return nil, fmt.Errorf("scan person attribute: %w", err)
		}
		attrs = append(attrs, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate person attributes: %w", err)
	}
	return attrs, nil
}

func (s *PostgresStore) FindPreferred(ctx context.Context, personID id.PersonID, typeID id.AttributeTypeID) (*models.PersonAttribute, error) {
	row := txcontext.Conn(ctx, s.db).QueryRowContext(ctx,
		`SELECT `+selectColumns+` FROM person_attributes
		WHERE person_id = $1 AND attribute_type_id = $2 AND preferred AND NOT voided`,
		uuid.UUID(personID), uuid.UUID(typeID))
	a, err := scanAttribute(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("find preferred person attribute: %w", err)
	}
	return a, nil
}

func (s *PostgresStore) DeleteByOwner(ctx context.Context, personID id.PersonID) error {
	if _, err := txcontext.Conn(ctx, s.db).ExecContext(ctx,
		`DELETE FROM person_attributes WHERE person_id = $1`, uuid.UUID(personID)); err != nil {
		return fmt.Errorf("delete person attributes: %w", err)
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanAttribute(row scanner) (*models.PersonAttribute, error) {
	var (
		attrID, personID, typeID uuid.UUID
		a                        models.PersonAttribute
		audit                    auditrow.Row
	)
	dest := append([]any{&attrID, &personID, &typeID, &a.Value, &a.Preferred}, audit.Dest()...)
	if err := row.Scan(dest...); err != nil {
		return nil, err
	}
	a.ID = id.PersonAttributeID(attrID)
	a.PersonID = id.PersonID(personID)
	a.AttributeTypeID = id.AttributeTypeID(typeID)
	a.AuditTrail = audit.Trail()
	return &a, nil
}
