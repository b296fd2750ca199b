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

// PostgreSQLCompanyRepository implements Company persistence for PostgreSQL.
type PostgreSQLCompanyRepository struct {
	db *sql.DB
}

// Create inserts a new company into the PostgreSQL database.
func (p *PostgreSQLCompanyRepository) Create(
	ctx context.Context,
	company *identityDomain.Company,
) error {
	querier := database.GetTx(ctx, p.db)

	query := `INSERT INTO companies (id, name, created_at) VALUES ($1, $2, $3)`

	_, err := querier.ExecContext(ctx, query, company.ID, company.Name, company.CreatedAt)
	if err != nil {
		return apperrors.Wrap(err, "failed to create company")
	}
	return nil
}

// Get retrieves a company by ID from the PostgreSQL database.
func (p *PostgreSQLCompanyRepository) Get(
	ctx context.Context,
	companyID uuid.UUID,
) (*identityDomain.Company, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT id, name, created_at FROM companies WHERE id = $1`

	var company identityDomain.Company
	err := querier.QueryRowContext(ctx, query, companyID).Scan(
		&company.ID,
		&company.Name,
		&company.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, identityDomain.ErrCompanyNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get company")
	}

	return &company, nil
}

// Delete removes a company from the PostgreSQL database. Users and
// credentials cascade at the schema level.
func (p *PostgreSQLCompanyRepository) Delete(ctx context.Context, companyID uuid.UUID) error {
	querier := database.GetTx(ctx, p.db)

	result, err := querier.ExecContext(ctx, `DELETE FROM companies WHERE id = $1`, companyID)
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

// NewPostgreSQLCompanyRepository creates a new PostgreSQL company repository instance.
func NewPostgreSQLCompanyRepository(db *sql.DB) *PostgreSQLCompanyRepository {
	return &PostgreSQLCompanyRepository{db: db}
}
