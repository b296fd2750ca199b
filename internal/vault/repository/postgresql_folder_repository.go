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

// PostgreSQLFolderRepository implements Folder persistence for PostgreSQL.
type PostgreSQLFolderRepository struct {
	db *sql.DB
}

// Create inserts a new folder into the PostgreSQL database.
func (p *PostgreSQLFolderRepository) Create(ctx context.Context, folder *vaultDomain.Folder) error {
	querier := database.GetTx(ctx, p.db)

	query := `INSERT INTO folders (id, company_id, organization_id, collection_id, name, created_at, updated_at)
			  VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err := querier.ExecContext(
		ctx,
		query,
		folder.ID,
		folder.CompanyID,
		folder.OrganizationID,
		folder.CollectionID,
		folder.Name,
		folder.CreatedAt,
		folder.UpdatedAt,
	)
	if err != nil {
		return apperrors.Wrap(err, "failed to create folder")
	}
	return nil
}

// Get retrieves a folder by ID from the PostgreSQL database.
func (p *PostgreSQLFolderRepository) Get(
	ctx context.Context,
	folderID uuid.UUID,
) (*vaultDomain.Folder, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT id, company_id, organization_id, collection_id, name, created_at, updated_at
			  FROM folders WHERE id = $1`

	return scanFolderPG(querier.QueryRowContext(ctx, query, folderID))
}

// GetByIDs retrieves folders matching the given set of IDs in one query.
// Missing IDs are silently absent from the result.
func (p *PostgreSQLFolderRepository) GetByIDs(
	ctx context.Context,
	folderIDs []uuid.UUID,
) ([]*vaultDomain.Folder, error) {
	if len(folderIDs) == 0 {
		return nil, nil
	}

	querier := database.GetTx(ctx, p.db)

	placeholders := make([]string, len(folderIDs))
	args := make([]any, len(folderIDs))
	for i, id := range folderIDs {
		placeholders[i] = fmt.Sprintf("$%d", i+1)
		args[i] = id
	}

	query := fmt.Sprintf(
		`SELECT id, company_id, organization_id, collection_id, name, created_at, updated_at
		 FROM folders WHERE id IN (%s)`,
		strings.Join(placeholders, ", "),
	)

	rows, err := querier.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to get folders by ids")
	}
	defer rows.Close()

	var folders []*vaultDomain.Folder
	for rows.Next() {
		folder, err := scanFolderPG(rows)
		if err != nil {
			return nil, err
		}
		folders = append(folders, folder)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, "failed to iterate folders")
	}

	return folders, nil
}

// ListByCompany retrieves folders of a company ordered by creation time.
func (p *PostgreSQLFolderRepository) ListByCompany(
	ctx context.Context,
	companyID uuid.UUID,
	offset, limit int,
) ([]*vaultDomain.Folder, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT id, company_id, organization_id, collection_id, name, created_at, updated_at
			  FROM folders WHERE company_id = $1
			  ORDER BY created_at ASC
			  OFFSET $2 LIMIT $3`

	rows, err := querier.QueryContext(ctx, query, companyID, offset, limit)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list folders")
	}
	defer rows.Close()

	var folders []*vaultDomain.Folder
	for rows.Next() {
		folder, err := scanFolderPG(rows)
		if err != nil {
			return nil, err
		}
		folders = append(folders, folder)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, "failed to iterate folders")
	}

	return folders, nil
}

// Update modifies an existing folder in the PostgreSQL database.
func (p *PostgreSQLFolderRepository) Update(ctx context.Context, folder *vaultDomain.Folder) error {
	querier := database.GetTx(ctx, p.db)

	query := `UPDATE folders
			  SET organization_id = $1, collection_id = $2, name = $3, updated_at = $4
			  WHERE id = $5`

	result, err := querier.ExecContext(
		ctx,
		query,
		folder.OrganizationID,
		folder.CollectionID,
		folder.Name,
		folder.UpdatedAt,
		folder.ID,
	)
	if err != nil {
		return apperrors.Wrap(err, "failed to update folder")
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return apperrors.Wrap(err, "failed to get rows affected")
	}
	if rowsAffected == 0 {
		return vaultDomain.ErrFolderNotFound
	}

	return nil
}

// Delete removes a folder from the PostgreSQL database.
func (p *PostgreSQLFolderRepository) Delete(ctx context.Context, folderID uuid.UUID) error {
	querier := database.GetTx(ctx, p.db)

	result, err := querier.ExecContext(ctx, `DELETE FROM folders WHERE id = $1`, folderID)
	if err != nil {
		return apperrors.Wrap(err, "failed to delete folder")
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return apperrors.Wrap(err, "failed to get rows affected")
	}
	if rowsAffected == 0 {
		return vaultDomain.ErrFolderNotFound
	}

	return nil
}

// scanFolderPG scans a folder row with nullable grouping references.
func scanFolderPG(row rowScanner) (*vaultDomain.Folder, error) {
	var folder vaultDomain.Folder

	err := row.Scan(
		&folder.ID,
		&folder.CompanyID,
		&folder.OrganizationID,
		&folder.CollectionID,
		&folder.Name,
		&folder.CreatedAt,
		&folder.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, vaultDomain.ErrFolderNotFound
		}
		return nil, apperrors.Wrap(err, "failed to scan folder")
	}

	return &folder, nil
}

// NewPostgreSQLFolderRepository creates a new PostgreSQL folder repository instance.
func NewPostgreSQLFolderRepository(db *sql.DB) *PostgreSQLFolderRepository {
	return &PostgreSQLFolderRepository{db: db}
}
