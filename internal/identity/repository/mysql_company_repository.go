package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"

	"github.com/credvault/credvault/internal/database"
	apperrors "github.com/credvault/credvault/internal/errors"
	identityDomain "github.com/credvault/credvault/internal/identity/domain"
)

// MySQLCompanyRepository implements Company persistence for MySQL.
// Uses BINARY(16) for UUIDs with transaction support via database.GetTx().
type MySQLCompanyRepository struct {
	db *sql.DB
}

// Create inserts a new company into the MySQL database.
func (m *MySQLCompanyRepository) Create(
	ctx context.Context,
	company *identityDomain.Company,
) error {
	querier := database.GetTx(ctx, m.db)

	companyID, err := company.ID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal company id")
	}

	query := `INSERT INTO companies (id, name, created_at) VALUES (?, ?, ?)`

	_, err = querier.ExecContext(ctx, query, companyID, company.Name, company.CreatedAt)
	if err != nil {
		return apperrors.Wrap(err, "failed to create company")
	}
	return nil
}

// Get retrieves a company by ID from the MySQL database.
func (m *MySQLCompanyRepository) Get(
	ctx context.Context,
	companyID uuid.UUID,
) (*identityDomain.Company, error) {
	querier := database.GetTx(ctx, m.db)

	id, err := companyID.MarshalBinary()
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to marshal company id")
	}

	query := `SELECT id, name, created_at FROM companies WHERE id = ?`

	var company identityDomain.Company
	var idBytes []byte
	err = querier.QueryRowContext(ctx, query, id).Scan(
		&idBytes,
		&company.Name,
		&company.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, identityDomain.ErrCompanyNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get company")
	}

	if err := company.ID.UnmarshalBinary(idBytes); err != nil {
		return nil, apperrors.Wrap(err, "failed to unmarshal company id")
	}

	return &company, nil
}

// Delete removes a company from the MySQL database. Users and credentials
// cascade at the schema level.
func (m *MySQLCompanyRepository) Delete(ctx context.Context, companyID uuid.UUID) error {
	querier := database.GetTx(ctx, m.db)

	id, err := companyID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal company id")
	}

	result, err := querier.ExecContext(ctx, `DELETE FROM companies WHERE id = ?`, id)
	if err != nil {
		return apperrors.Wrap(err, "failed to delete company")
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return apperrors.Wrap(err, "failed to get rows affected")
	}
	if rowsAffected == 0 {
		return identityDomain.ErrCompanyNotFound
	}

	return nil
}

// NewMySQLCompanyRepository creates a new MySQL company repository instance.
func NewMySQLCompanyRepository(db *sql.DB) *MySQLCompanyRepository {
	return &MySQLCompanyRepository{db: db}
}
