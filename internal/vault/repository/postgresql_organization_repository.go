// Package repository implements data persistence for vault entities.
//
// Provides PostgreSQL and MySQL implementations with transaction support via
// database.GetTx(). PostgreSQL uses native UUID types, MySQL uses BINARY(16)
// types. Credential URL lists are stored as JSON documents; deletion of live
// rows always happens together with a trash snapshot in the use case layer.
package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/credvault/credvault/internal/database"
	apperrors "github.com/credvault/credvault/internal/errors"
	vaultDomain "github.com/credvault/credvault/internal/vault/domain"
)

// PostgreSQLOrganizationRepository implements Organization persistence for PostgreSQL.
type PostgreSQLOrganizationRepository struct {
	db *sql.DB
}

// Create inserts a new organization into the PostgreSQL database.
func (p *PostgreSQLOrganizationRepository) Create(
	ctx context.Context,
	org *vaultDomain.Organization,
) error {
	querier := database.GetTx(ctx, p.db)

	query := `INSERT INTO organizations (id, company_id, name, contact_email, created_at, updated_at)
			  VALUES ($1, $2, $3, $4, $5, $6)`

	_, err := querier.ExecContext(
		ctx,
		query,
		org.ID,
		org.CompanyID,
		org.Name,
		org.ContactEmail,
		org.CreatedAt,
		org.UpdatedAt,
	)
	if err != nil {
		return apperrors.Wrap(err, "failed to create organization")
	}
	return nil
}

// Get retrieves an organization by ID from the PostgreSQL database.
func (p *PostgreSQLOrganizationRepository) Get(
	ctx context.Context,
	orgID uuid.UUID,
) (*vaultDomain.Organization, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT id, company_id, name, contact_email, created_at, updated_at
			  FROM organizations WHERE id = $1`

	var org vaultDomain.Organization
	err := querier.QueryRowContext(ctx, query, orgID).Scan(
		&org.ID,
		&org.CompanyID,
		&org.Name,
		&org.ContactEmail,
		&org.CreatedAt,
		&org.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, vaultDomain.ErrOrganizationNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get organization")
	}

	return &org, nil
}

// GetByIDs retrieves organizations matching the given set of IDs in one
// query. Missing IDs are silently absent from the result.
func (p *PostgreSQLOrganizationRepository) GetByIDs(
	ctx context.Context,
	orgIDs []uuid.UUID,
) ([]*vaultDomain.Organization, error) {
	if len(orgIDs) == 0 {
		return nil, nil
	}

	querier := database.GetTx(ctx, p.db)

	placeholders := make([]string, len(orgIDs))
	args := make([]any, len(orgIDs))
	for i, id := range orgIDs {
		placeholders[i] = fmt.Sprintf("$%d", i+1)
		args[i] = id
	}

	query := fmt.Sprintf(
		`SELECT id, company_id, name, contact_email, created_at, updated_at
		 FROM organizations WHERE id IN (%s)`,
		strings.Join(placeholders, ", "),
	)

	rows, err := querier.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to get organizations by ids")
	}
	defer rows.Close()

	var orgs []*vaultDomain.Organization
	for rows.Next() {
		var org vaultDomain.Organization
		if err := rows.Scan(
			&org.ID,
			&org.CompanyID,
			&org.Name,
			&org.ContactEmail,
			&org.CreatedAt,
			&org.UpdatedAt,
		); err != nil {
			return nil, apperrors.Wrap(err, "failed to scan organization")
		}
		orgs = append(orgs, &org)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, "failed to iterate organizations")
	}

	return orgs, nil
}

// ListByCompany retrieves organizations of a company ordered by creation time.
func (p *PostgreSQLOrganizationRepository) ListByCompany(
	ctx context.Context,
	companyID uuid.UUID,
	offset, limit int,
) ([]*vaultDomain.Organization, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT id, company_id, name, contact_email, created_at, updated_at
			  FROM organizations WHERE company_id = $1
			  ORDER BY created_at ASC
			  OFFSET $2 LIMIT $3`

	rows, err := querier.QueryContext(ctx, query, companyID, offset, limit)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list organizations")
	}
	defer rows.Close()

	var orgs []*vaultDomain.Organization
	for rows.Next() {
		var org vaultDomain.Organization
		if err := rows.Scan(
			&org.ID,
			&org.CompanyID,
			&org.Name,
			&org.ContactEmail,
			&org.CreatedAt,
			&org.UpdatedAt,
		); err != nil {
			return nil, apperrors.Wrap(err, "failed to scan organization")
		}
		orgs = append(orgs, &org)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, "failed to iterate organizations")
	}

	return orgs, nil
}

// Update modifies an existing organization in the PostgreSQL database.
func (p *PostgreSQLOrganizationRepository) Update(
	ctx context.Context,
	org *vaultDomain.Organization,
) error {
	querier := database.GetTx(ctx, p.db)

	query := `UPDATE organizations
			  SET name = $1, contact_email = $2, updated_at = $3
			  WHERE id = $4`

	result, err := querier.ExecContext(ctx, query, org.Name, org.ContactEmail, org.UpdatedAt, org.ID)
	if err != nil {
		return apperrors.Wrap(err, "failed to update organization")
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return apperrors.Wrap(err, "failed to get rows affected")
	}
	if rowsAffected == 0 {
		return vaultDomain.ErrOrganizationNotFound
	}

	return nil
}

// Delete removes an organization from the PostgreSQL database.
func (p *PostgreSQLOrganizationRepository) Delete(ctx context.Context, orgID uuid.UUID) error {
	querier := database.GetTx(ctx, p.db)

	result, err := querier.ExecContext(ctx, `DELETE FROM organizations WHERE id = $1`, orgID)
	if err != nil {
		return apperrors.Wrap(err, "failed to delete organization")
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return apperrors.Wrap(err, "failed to get rows affected")
	}
	if rowsAffected == 0 {
		return vaultDomain.ErrOrganizationNotFound
	}

	return nil
}

// NewPostgreSQLOrganizationRepository creates a new PostgreSQL organization repository instance.
func NewPostgreSQLOrganizationRepository(db *sql.DB) *PostgreSQLOrganizationRepository {
	return &PostgreSQLOrganizationRepository{db: db}
}
