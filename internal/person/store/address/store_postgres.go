package address

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"demographics/internal/person/models"
	"demographics/internal/person/store/auditrow"
	id "demographics/pkg/domain"
	"demographics/pkg/platform/sentinel"
	txcontext "demographics/pkg/platform/tx"
)

const selectColumns = `id, person_id, location, address_line_1, address_line_2, address_line_3, postal_code, landmark,
	longitude, latitude, start_date, end_date, preferred, ` + auditrow.Columns

// PostgresStore persists person addresses in PostgreSQL. The location
// hierarchy is kept as JSONB.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgres constructs a PostgreSQL-backed address store.
func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Save(ctx context.Context, a *models.PersonAddress) error {
	location, err := json.Marshal(a.Location)
	if err != nil {
		return fmt.Errorf("marshal address location: %w", err)
	}
	args := append([]any{
		uuid.UUID(a.ID),
		uuid.UUID(a.PersonID),
		location,
		a.AddressLine1,
		a.AddressLine2,
		a.AddressLine3,
		a.PostalCode,
		a.Landmark,
		nullFloat(a.Longitude),
		nullFloat(a.Latitude),
		auditrow.NullTime(a.StartDate),
		auditrow.NullTime(a.EndDate),
		a.Preferred,
	}, auditrow.Args(a.AuditTrail)...)

	query := `
		INSERT INTO person_addresses (id, person_id, location, address_line_1, address_line_2, address_line_3,
			postal_code, landmark, longitude, latitude, start_date, end_date, preferred, ` + auditrow.Columns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21, $22)
		ON CONFLICT (id) DO UPDATE SET
			location = EXCLUDED.location,
			address_line_1 = EXCLUDED.address_line_1,
			address_line_2 = EXCLUDED.address_line_2,
			address_line_3 = EXCLUDED.address_line_3,
			postal_code = EXCLUDED.postal_code,
			landmark = EXCLUDED.landmark,
			longitude = EXCLUDED.longitude,
			latitude = EXCLUDED.latitude,
			start_date = EXCLUDED.start_date,
			end_date = EXCLUDED.end_date,
			preferred = EXCLUDED.preferred,
			` + auditrow.UpdateSet + `
		WHERE person_addresses.person_id = EXCLUDED.person_id`
	res, err := txcontext.Conn(ctx, s.db).ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("save person address: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return sentinel.ErrAlreadyUsed
	}
	return nil
}

func (s *PostgresStore) FindByID(ctx context.Context, addressID id.PersonAddressID) (*models.PersonAddress, error) {
	row := txcontext.Conn(ctx, s.db).QueryRowContext(ctx,
		`SELECT `+selectColumns+` FROM person_addresses WHERE id = $1`, uuid.UUID(addressID))
	a, err := scanAddress(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("find person address by id: %w", err)
	}
	return a, nil
}

func (s *PostgresStore) FindAllByOwner(ctx context.Context, personID id.PersonID, includeVoided bool) ([]*models.PersonAddress, error) {
	rows, err := txcontext.Conn(ctx, s.db).QueryContext(ctx,
		`SELECT `+selectColumns+` FROM person_addresses
		WHERE person_id = $1 AND ($2 OR NOT voided)
		ORDER BY created_at, seq`, uuid.UUID(personID), includeVoided)
	if err != nil {
		return nil, fmt.Errorf("find person addresses by owner: %w", err)
	}
	defer rows.Close()

	addrs := make([]*models.PersonAddress, 0)
	for rows.Next() {
		a, err := scanAddress(rows)
		if err != nil {
			return nil, fmt.Errorf("scan person address: %w", err)
		}
		addrs = append(addrs, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate person addresses: %w", err)
	}
	return addrs, nil
}

func (s *PostgresStore) FindPreferred(ctx context.Context, personID id.PersonID) (*models.PersonAddress, error) {
	row := txcontext.Conn(ctx, s.db).QueryRowContext(ctx,
		`SELECT `+selectColumns+` FROM person_addresses
		WHERE person_id = $1 AND preferred AND NOT voided`, uuid.UUID(personID))
	a, err := scanAddress(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("find preferred person address: %w", err)
	}
	return a, nil
}

func (s *PostgresStore) DeleteByOwner(ctx context.Context, personID id.PersonID) error {
	if _, err := txcontext.Conn(ctx, s.db).ExecContext(ctx,
		`DELETE FROM person_addresses WHERE person_id = $1`, uuid.UUID(personID)); err != nil {
		return fmt.Errorf("delete person addresses: %w", err)
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanAddress(row scanner) (*models.PersonAddress, error) {
	var (
		addressID, personID uuid.UUID
		location            []byte
		longitude, latitude sql.NullFloat64
		startDate, endDate  sql.NullTime
		a                   models.PersonAddress
		audit               auditrow.Row
	)
	dest := append([]any{
		&addressID, &personID, &location,
		&a.AddressLine1, &a.AddressLine2, &a.AddressLine3, &a.PostalCode, &a.Landmark,
		&longitude, &latitude, &startDate, &endDate, &a.Preferred,
	}, audit.Dest()...)
	if err := row.Scan(dest...); err != nil {
		return nil, err
	}
	if len(location) > 0 {
		if err := json.Unmarshal(location, &a.Location); err != nil {
			return nil, fmt.Errorf("unmarshal address location: %w", err)
		}
	}
	a.ID = id.PersonAddressID(addressID)
	a.PersonID = id.PersonID(personID)
	a.Longitude = floatPtr(longitude)
	a.Latitude = floatPtr(latitude)
	a.StartDate = auditrow.TimePtr(startDate)
	a.EndDate = auditrow.TimePtr(endDate)
	a.AuditTrail = audit.Trail()
	return &a, nil
}

func nullFloat(f *float64) sql.NullFloat64 {
	if f == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *f, Valid: true}
}

func floatPtr(n sql.NullFloat64) *float64 {
	if !n.Valid {
		return nil
	}
	f := n.Float64
	return &f
}
