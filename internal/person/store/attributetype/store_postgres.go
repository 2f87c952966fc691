package attributetype

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"

	"demographics/internal/person/models"
	"demographics/internal/person/store/auditrow"
	id "demographics/pkg/domain"
	"demographics/pkg/platform/sentinel"
	txcontext "demographics/pkg/platform/tx"
)

const selectColumns = `id, name, description, format, ` + auditrow.Columns

// PostgresStore persists the attribute type catalog in PostgreSQL.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgres constructs a PostgreSQL-backed attribute type store.
func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Save(ctx context.Context, t *models.AttributeType) error {
	args := append([]any{
		uuid.UUID(t.ID),
		t.Name,
		t.Description,
		string(t.Format),
	}, auditrow.Args(t.AuditTrail)...)

	query := `
		INSERT INTO person_attribute_types (id, name, description, format, ` + auditrow.Columns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name,
			description = EXCLUDED.description,
			format = EXCLUDED.format,
			` + auditrow.UpdateSet
	if _, err := txcontext.Conn(ctx, s.db).ExecContext(ctx, query, args...); err != nil {
		if isUniqueViolation(err) {
			return sentinel.ErrAlreadyUsed
		}
		return fmt.Errorf("save attribute type: %w", err)
	}
	return nil
}

func (s *PostgresStore) FindByID(ctx context.Context, typeID id.AttributeTypeID) (*models.AttributeType, error) {
	row := txcontext.Conn(ctx, s.db).QueryRowContext(ctx,
		`SELECT `+selectColumns+` FROM person_attribute_types WHERE id = $1`, uuid.UUID(typeID))
	t, err := scanAttributeType(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("find attribute type by id: %w", err)
	}
	return t, nil
}

func (s *PostgresStore) FindByName(ctx context.Context, name string) (*models.AttributeType, error) {
	row := txcontext.Conn(ctx, s.db).QueryRowContext(ctx,
		`SELECT `+selectColumns+` FROM person_attribute_types
		WHERE LOWER(name) = LOWER($1) AND NOT voided`, strings.TrimSpace(name))
	t, err := scanAttributeType(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("find attribute type by name: %w", err)
	}
	return t, nil
}

func (s *PostgresStore) List(ctx context.Context, includeVoided bool) ([]*models.AttributeType, error) {
	rows, err := txcontext.Conn(ctx, s.db).QueryContext(ctx,
		`SELECT `+selectColumns+` FROM person_attribute_types
		WHERE $1 OR NOT voided
		ORDER BY LOWER(name), id`, includeVoided)
	if err != nil {
		return nil, fmt.Errorf("list attribute types: %w", err)
	}
	defer rows.Close()

	types := make([]*models.AttributeType, 0)
	for rows.Next() {
		t, err := scanAttributeType(rows)
		if err != nil {
			return nil, fmt.Errorf("scan attribute type: %w", err)
		}
		types = append(types, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate attribute types: %w", err)
	}
	return types, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanAttributeType(row scanner) (*models.AttributeType, error) {
	var (
		typeID uuid.UUID
		format string
		t      models.AttributeType
		audit  auditrow.Row
	)
	dest := append([]any{&typeID, &t.Name, &t.Description, &format}, audit.Dest()...)
	if err := row.Scan(dest...); err != nil {
		return nil, err
	}
	t.ID = id.AttributeTypeID(typeID)
	t.Format = models.AttributeFormat(format)
	t.AuditTrail = audit.Trail()
	return &t, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return false
}
