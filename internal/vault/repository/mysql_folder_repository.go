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

// MySQLFolderRepository implements Folder persistence for MySQL.
// Uses BINARY(16) for UUIDs with transaction support via database.GetTx().
type MySQLFolderRepository struct {
	db *sql.DB
}

// Create inserts a new folder into the MySQL database.
func (m *MySQLFolderRepository) Create(ctx context.Context, folder *vaultDomain.Folder) error {
	querier := database.GetTx(ctx, m.db)

	folderID, err := folder.ID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal folder id")
	}

	companyID, err := folder.CompanyID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal company id")
	}

	organizationID, err := uuidPtrBinary(folder.OrganizationID)
	if err != nil {
		return err
	}

	collectionID, err := uuidPtrBinary(folder.CollectionID)
	if err != nil {
		return err
	}

	query := `INSERT INTO folders (id, company_id, organization_id, collection_id, name, created_at, updated_at)
			  VALUES (?, ?, ?, ?, ?, ?, ?)`

	_, err = querier.ExecContext(
		ctx,
		query,
		folderID,
		companyID,
		organizationID,
		collectionID,
		folder.Name,
		folder.CreatedAt,
		folder.UpdatedAt,
	)
	if err != nil {
		return apperrors.Wrap(err, "failed to create folder")
	}
	return nil
}

// Get retrieves a folder by ID from the MySQL database.
func (m *MySQLFolderRepository) Get(
	ctx context.Context,
	folderID uuid.UUID,
) (*vaultDomain.Folder, error) {
	querier := database.GetTx(ctx, m.db)

	id, err := folderID.MarshalBinary()
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to marshal folder id")
	}

	query := `SELECT id, company_id, organization_id, collection_id, name, created_at, updated_at
			  FROM folders WHERE id = ?`

	return scanFolderMySQL(querier.QueryRowContext(ctx, query, id))
}

// GetByIDs retrieves folders matching the given set of IDs in one query.
// Missing IDs are silently absent from the result.
func (m *MySQLFolderRepository) GetByIDs(
	ctx context.Context,
	folderIDs []uuid.UUID,
) ([]*vaultDomain.Folder, error) {
	if len(folderIDs) == 0 {
		return nil, nil
	}

	querier := database.GetTx(ctx, m.db)

	placeholders := make([]string, len(folderIDs))
	args := make([]any, len(folderIDs))
	for i, id := range folderIDs {
		b, err := id.MarshalBinary()
		if err != nil {
			return nil, apperrors.Wrap(err, "failed to marshal folder id")
		}
		placeholders[i] = "?"
		args[i] = b
	}

	query := `SELECT id, company_id, organization_id, collection_id, name, created_at, updated_at
			  FROM folders WHERE id IN (` + strings.Join(placeholders, ", ") + `)`

	rows, err := querier.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to get folders by ids")
	}
	defer rows.Close()

	var folders []*vaultDomain.Folder
	for rows.Next() {
		folder, err := scanFolderMySQL(rows)
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
func (m *MySQLFolderRepository) ListByCompany(
	ctx context.Context,
	companyID uuid.UUID,
	offset, limit int,
) ([]*vaultDomain.Folder, error) {
	querier := database.GetTx(ctx, m.db)

	id, err := companyID.MarshalBinary()
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to marshal company id")
	}

	query := `SELECT id, company_id, organization_id, collection_id, name, created_at, updated_at
			  FROM folders WHERE company_id = ?
			  ORDER BY created_at ASC
			  LIMIT ? OFFSET ?`

	rows, err := querier.QueryContext(ctx, query, id, limit, offset)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list folders")
	}
	defer rows.Close()

	var folders []*vaultDomain.Folder
	for rows.Next() {
		folder, err := scanFolderMySQL(rows)
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

// Update modifies an existing folder in the MySQL database.
func (m *MySQLFolderRepository) Update(ctx context.Context, folder *vaultDomain.Folder) error {
	querier := database.GetTx(ctx, m.db)

	folderID, err := folder.ID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal folder id")
	}

	organizationID, err := uuidPtrBinary(folder.OrganizationID)
	if err != nil {
		return err
	}

	collectionID, err := uuidPtrBinary(folder.CollectionID)
	if err != nil {
		return err
	}

	query := `UPDATE folders
			  SET organization_id = ?, collection_id = ?, name = ?, updated_at = ?
			  WHERE id = ?`

	result, err := querier.ExecContext(
		ctx,
		query,
		organizationID,
		collectionID,
		folder.Name,
		folder.UpdatedAt,
		folderID,
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

// Delete removes a folder from the MySQL database.
func (m *MySQLFolderRepository) Delete(ctx context.Context, folderID uuid.UUID) error {
	querier := database.GetTx(ctx, m.db)

	id, err := folderID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal folder id")
	}

	result, err := querier.ExecContext(ctx, `DELETE FROM folders WHERE id = ?`, id)
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

func scanFolderMySQL(row rowScanner) (*vaultDomain.Folder, error) {
	var folder vaultDomain.Folder
	var idBytes, companyIDBytes, organizationIDBytes, collectionIDBytes []byte

	err := row.Scan(
		&idBytes,
		&companyIDBytes,
		&organizationIDBytes,
		&collectionIDBytes,
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

	if err := folder.ID.UnmarshalBinary(idBytes); err != nil {
		return nil, apperrors.Wrap(err, "failed to unmarshal folder id")
	}
	if err := folder.CompanyID.UnmarshalBinary(companyIDBytes); err != nil {
		return nil, apperrors.Wrap(err, "failed to unmarshal company id")
	}

	organizationID, err := binaryUUIDPtr(organizationIDBytes)
	if err != nil {
		return nil, err
	}
	folder.OrganizationID = organizationID

	collectionID, err := binaryUUIDPtr(collectionIDBytes)
	if err != nil {
		return nil, err
	}
	folder.CollectionID = collectionID

	return &folder, nil
}

// NewMySQLFolderRepository creates a new MySQL folder repository instance.
func NewMySQLFolderRepository(db *sql.DB) *MySQLFolderRepository {
	return &MySQLFolderRepository{db: db}
}
