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

// MySQLCollectionRepository implements Collection persistence for MySQL.
// Uses BINARY(16) for UUIDs with transaction support via database.GetTx().
type MySQLCollectionRepository struct {
	db *sql.DB
}

// Create inserts a new collection into the MySQL database.
func (m *MySQLCollectionRepository) Create(
	ctx context.Context,
	collection *vaultDomain.Collection,
) error {
	querier := database.GetTx(ctx, m.db)

	collectionID, err := collection.ID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal collection id")
	}

	companyID, err := collection.CompanyID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal company id")
	}

	organizationID, err := uuidPtrBinary(collection.OrganizationID)
	if err != nil {
		return err
	}

	query := `INSERT INTO collections (id, company_id, organization_id, name, created_at, updated_at)
			  VALUES (?, ?, ?, ?, ?, ?)`

	_, err = querier.ExecContext(
		ctx,
		query,
		collectionID,
		companyID,
		organizationID,
		collection.Name,
		collection.CreatedAt,
		collection.UpdatedAt,
	)
	if err != nil {
		return apperrors.Wrap(err, "failed to create collection")
	}
	return nil
}

// Get retrieves a collection by ID from the MySQL database.
func (m *MySQLCollectionRepository) Get(
	ctx context.Context,
	collectionID uuid.UUID,
) (*vaultDomain.Collection, error) {
	querier := database.GetTx(ctx, m.db)

	id, err := collectionID.MarshalBinary()
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to marshal collection id")
	}

	query := `SELECT id, company_id, organization_id, name, created_at, updated_at
			  FROM collections WHERE id = ?`

	return scanCollectionMySQL(querier.QueryRowContext(ctx, query, id))
}

// GetByIDs retrieves collections matching the given set of IDs in one query.
// Missing IDs are silently absent from the result.
func (m *MySQLCollectionRepository) GetByIDs(
	ctx context.Context,
	collectionIDs []uuid.UUID,
) ([]*vaultDomain.Collection, error) {
	if len(collectionIDs) == 0 {
		return nil, nil
	}

	querier := database.GetTx(ctx, m.db)

	placeholders := make([]string, len(collectionIDs))
	args := make([]any, len(collectionIDs))
	for i, id := range collectionIDs {
		b, err := id.MarshalBinary()
		if err != nil {
			return nil, apperrors.Wrap(err, "failed to marshal collection id")
		}
		placeholders[i] = "?"
		args[i] = b
	}

	query := `SELECT id, company_id, organization_id, name, created_at, updated_at
			  FROM collections WHERE id IN (` + strings.Join(placeholders, ", ") + `)`

	rows, err := querier.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to get collections by ids")
	}
	defer rows.Close()

	var collections []*vaultDomain.Collection
	for rows.Next() {
		collection, err := scanCollectionMySQL(rows)
		if err != nil {
			return nil, err
		}
		collections = append(collections, collection)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, "failed to iterate collections")
	}

	return collections, nil
}

// ListByCompany retrieves collections of a company ordered by creation time.
func (m *MySQLCollectionRepository) ListByCompany(
	ctx context.Context,
	companyID uuid.UUID,
	offset, limit int,
) ([]*vaultDomain.Collection, error) {
	querier := database.GetTx(ctx, m.db)

	id, err := companyID.MarshalBinary()
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to marshal company id")
	}

	query := `SELECT id, company_id, organization_id, name, created_at, updated_at
			  FROM collections WHERE company_id = ?
			  ORDER BY created_at ASC
			  LIMIT ? OFFSET ?`

	rows, err := querier.QueryContext(ctx, query, id, limit, offset)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list collections")
	}
	defer rows.Close()

	var collections []*vaultDomain.Collection
	for rows.Next() {
		collection, err := scanCollectionMySQL(rows)
		if err != nil {
			return nil, err
		}
		collections = append(collections, collection)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, "failed to iterate collections")
	}

	return collections, nil
}

// Update modifies an existing collection in the MySQL database.
func (m *MySQLCollectionRepository) Update(
	ctx context.Context,
	collection *vaultDomain.Collection,
) error {
	querier := database.GetTx(ctx, m.db)

	collectionID, err := collection.ID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal collection id")
	}

	organizationID, err := uuidPtrBinary(collection.OrganizationID)
	if err != nil {
		return err
	}

	query := `UPDATE collections
			  SET organization_id = ?, name = ?, updated_at = ?
			  WHERE id = ?`

	result, err := querier.ExecContext(
		ctx,
		query,
		organizationID,
		collection.Name,
		collection.UpdatedAt,
		collectionID,
	)
	if err != nil {
		return apperrors.Wrap(err, "failed to update collection")
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return apperrors.Wrap(err, "failed to get rows affected")
	}
	if rowsAffected == 0 {
		return vaultDomain.ErrCollectionNotFound
	}

	return nil
}

// Delete removes a collection from the MySQL database.
func (m *MySQLCollectionRepository) Delete(ctx context.Context, collectionID uuid.UUID) error {
	querier := database.GetTx(ctx, m.db)

	id, err := collectionID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal collection id")
	}

	result, err := querier.ExecContext(ctx, `DELETE FROM collections WHERE id = ?`, id)
	if err != nil {
		return apperrors.Wrap(err, "failed to delete collection")
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return apperrors.Wrap(err, "failed to get rows affected")
	}
	if rowsAffected == 0 {
		return vaultDomain.ErrCollectionNotFound
	}

	return nil
}

func scanCollectionMySQL(row rowScanner) (*vaultDomain.Collection, error) {
	var collection vaultDomain.Collection
	var idBytes, companyIDBytes, organizationIDBytes []byte

	err := row.Scan(
		&idBytes,
		&companyIDBytes,
		&organizationIDBytes,
		&collection.Name,
		&collection.CreatedAt,
		&collection.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, vaultDomain.ErrCollectionNotFound
		}
		return nil, apperrors.Wrap(err, "failed to scan collection")
	}

	if err := collection.ID.UnmarshalBinary(idBytes); err != nil {
		return nil, apperrors.Wrap(err, "failed to unmarshal collection id")
	}
	if err := collection.CompanyID.UnmarshalBinary(companyIDBytes); err != nil {
		return nil, apperrors.Wrap(err, "failed to unmarshal company id")
	}

	organizationID, err := binaryUUIDPtr(organizationIDBytes)
	if err != nil {
		return nil, err
	}
	collection.OrganizationID = organizationID

	return &collection, nil
}

// NewMySQLCollectionRepository creates a new MySQL collection repository instance.
func NewMySQLCollectionRepository(db *sql.DB) *MySQLCollectionRepository {
	return &MySQLCollectionRepository{db: db}
}
