package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/google/uuid"

	"github.com/credvault/credvault/internal/database"
	apperrors "github.com/credvault/credvault/internal/errors"
	vaultDomain "github.com/credvault/credvault/internal/vault/domain"
)

// MySQLOrganizationRepository implements Organization persistence for MySQL.
// Uses BINARY(16) for UUIDs with transaction support via database.GetTx().
type MySQLOrganizationRepository struct {
	db *sql.DB
}

// Create inserts a new organization into the MySQL database.
func (m *MySQLOrganizationRepository) Create(
	ctx context.Context,
	organization *vaultDomain.Organization,
) error {
	querier := database.GetTx(ctx, m.db)

	organizationID, err := organization.ID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal organization id")
	}

	companyID, err := organization.CompanyID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal company id")
	}

	query := `INSERT INTO organizations (id, company_id, name, contact_email, created_at, updated_at)
			  VALUES (?, ?, ?, ?, ?, ?)`

	_, err = querier.ExecContext(
		ctx,
		query,
		organizationID,
		companyID,
		organization.Name,
		organization.ContactEmail,
		organization.CreatedAt,
		organization.UpdatedAt,
	)
	if err != nil {
		return apperrors.Wrap(err, "failed to create organization")
	}
	return nil
}

// Get retrieves an organization by ID from the MySQL database.
func (m *MySQLOrganizationRepository) Get(
	ctx context.Context,
	organizationID uuid.UUID,
) (*vaultDomain.Organization, error) {
	querier := database.GetTx(ctx, m.db)

	id, err := organizationID.MarshalBinary()
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to marshal organization id")
	}

	query := `SELECT id, company_id, name, contact_email, created_at, updated_at
			  FROM organizations WHERE id = ?`

	return scanOrganizationMySQL(querier.QueryRowContext(ctx, query, id))
}

// GetByIDs retrieves organizations matching the given set of IDs in one
// query. Missing IDs are silently absent from the result.
func (m *MySQLOrganizationRepository) GetByIDs(
	ctx context.Context,
	organizationIDs []uuid.UUID,
) ([]*vaultDomain.Organization, error) {
	if len(organizationIDs) == 0 {
		return nil, nil
	}

	querier := database.GetTx(ctx, m.db)

	placeholders := make([]string, len(organizationIDs))
	args := make([]any, len(organizationIDs))
	for i, id := range organizationIDs {
		b, err := id.MarshalBinary()
		if err != nil {
			return nil, apperrors.Wrap(err, "failed to marshal organization id")
		}
		placeholders[i] = "?"
		args[i] = b
	}

	query := `SELECT id, company_id, name, contact_email, created_at, updated_at
			  FROM organizations WHERE id IN (` + strings.Join(placeholders, ", ") + `)`

	rows, err := querier.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to get organizations by ids")
	}
	defer rows.Close()

	var organizations []*vaultDomain.Organization
	for rows.Next() {
		organization, err := scanOrganizationMySQL(rows)
		if err != nil {
			return nil, err
		}
		organizations = append(organizations, organization)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, "failed to iterate organizations")
	}

	return organizations, nil
}

// ListByCompany retrieves organizations of a company ordered by creation time.
func (m *MySQLOrganizationRepository) ListByCompany(
	ctx context.Context,
	companyID uuid.UUID,
	offset, limit int,
) ([]*vaultDomain.Organization, error) {
	querier := database.GetTx(ctx, m.db)

	id, err := companyID.MarshalBinary()
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to marshal company id")
	}

	query := `SELECT id, company_id, name, contact_email, created_at, updated_at
			  FROM organizations WHERE company_id = ?
			  ORDER BY created_at ASC
			  LIMIT ? OFFSET ?`

	rows, err := querier.QueryContext(ctx, query, id, limit, offset)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list organizations")
	}
	defer rows.Close()

	var organizations []*vaultDomain.Organization
	for rows.Next() {
		organization, err := scanOrganizationMySQL(rows)
		if err != nil {
			return nil, err
		}
		organizations = append(organizations, organization)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, "failed to iterate organizations")
	}

	return organizations, nil
}

// Update modifies an existing organization in the MySQL database.
func (m *MySQLOrganizationRepository) Update(
	ctx context.Context,
	organization *vaultDomain.Organization,
) error {
	querier := database.GetTx(ctx, m.db)

	organizationID, err := organization.ID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal organization id")
	}

	query := `UPDATE organizations
			  SET name = ?, contact_email = ?, updated_at = ?
			  WHERE id = ?`

	result, err := querier.ExecContext(
		ctx,
		query,
		organization.Name,
		organization.ContactEmail,
		organization.UpdatedAt,
		organizationID,
	)
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

// Delete removes an organization from the MySQL database.
func (m *MySQLOrganizationRepository) Delete(
	ctx context.Context,
	organizationID uuid.UUID,
) error {
	querier := database.GetTx(ctx, m.db)

	id, err := organizationID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal organization id")
	}

	result, err := querier.ExecContext(ctx, `DELETE FROM organizations WHERE id = ?`, id)
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

func scanOrganizationMySQL(row rowScanner) (*vaultDomain.Organization, error) {
	var organization vaultDomain.Organization
	var idBytes, companyIDBytes []byte

	err := row.Scan(
		&idBytes,
		&companyIDBytes,
		&organization.Name,
		&organization.ContactEmail,
		&organization.CreatedAt,
		&organization.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, vaultDomain.ErrOrganizationNotFound
		}
		return nil, apperrors.Wrap(err, "failed to scan organization")
	}

	if err := organization.ID.UnmarshalBinary(idBytes); err != nil {
		return nil, apperrors.Wrap(err, "failed to unmarshal organization id")
	}
	if err := organization.CompanyID.UnmarshalBinary(companyIDBytes); err != nil {
		return nil, apperrors.Wrap(err, "failed to unmarshal company id")
	}

	return &organization, nil
}

// NewMySQLOrganizationRepository creates a new MySQL organization repository instance.
func NewMySQLOrganizationRepository(db *sql.DB) *MySQLOrganizationRepository {
	return &MySQLOrganizationRepository{db: db}
}
