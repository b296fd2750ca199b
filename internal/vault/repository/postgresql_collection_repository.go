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

// PostgreSQLCollectionRepository implements Collection persistence for PostgreSQL.
type PostgreSQLCollectionRepository struct {
	db *sql.DB
}

// Create inserts a new collection into the PostgreSQL database.
func (p *PostgreSQLCollectionRepository) Create(
	ctx context.Context,
	collection *vaultDomain.Collection,
) error {
	querier := database.GetTx(ctx, p.db)

	query := `INSERT INTO collections (id, company_id, organization_id, name, created_at, updated_at)
			  VALUES ($1, $2, $3, $4, $5, $6)`

	_, err := querier.ExecContext(
		ctx,
		query,
		collection.ID,
		collection.CompanyID,
		collection.OrganizationID,
		collection.Name,
		collection.CreatedAt,
		collection.UpdatedAt,
	)
	if err != nil {
		return apperrors.Wrap(err, "failed to create collection")
	}
	return nil
}

// Get retrieves a collection by ID from the PostgreSQL database.
func (p *PostgreSQLCollectionRepository) Get(
	ctx context.Context,
	collectionID uuid.UUID,
) (*vaultDomain.Collection, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT id, company_id, organization_id, name, created_at, updated_at
			  FROM collections WHERE id = $1`

	collection, err := scanCollectionPG(querier.QueryRowContext(ctx, query, collectionID))
	if err != nil {
		return nil, err
	}
	return collection, nil
}

// GetByIDs retrieves collections matching the given set of IDs in one query.
// Missing IDs are silently absent from the result.
func (p *PostgreSQLCollectionRepository) GetByIDs(
	ctx context.Context,
	collectionIDs []uuid.UUID,
) ([]*vaultDomain.Collection, error) {
	if len(collectionIDs) == 0 {
		return nil, nil
	}

	querier := database.GetTx(ctx, p.db)

	placeholders := make([]string, len(collectionIDs))
	args := make([]any, len(collectionIDs))
	for i, id := range collectionIDs {
		placeholders[i] = fmt.Sprintf("$%d", i+1)
		args[i] = id
	}

	query := fmt.Sprintf(
		`SELECT id, company_id, organization_id, name, created_at, updated_at
		 FROM collections WHERE id IN (%s)`,
		strings.Join(placeholders, ", "),
	)

	rows, err := querier.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to get collections by ids")
	}
	defer rows.Close()

	var collections []*vaultDomain.Collection
	for rows.Next() {
		collection, err := scanCollectionPG(rows)
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
func (p *PostgreSQLCollectionRepository) ListByCompany(
	ctx context.Context,
	companyID uuid.UUID,
	offset, limit int,
) ([]*vaultDomain.Collection, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT id, company_id, organization_id, name, created_at, updated_at
			  FROM collections WHERE company_id = $1
			  ORDER BY created_at ASC
			  OFFSET $2 LIMIT $3`

	rows, err := querier.QueryContext(ctx, query, companyID, offset, limit)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list collections")
	}
	defer rows.Close()

	var collections []*vaultDomain.Collection
	for rows.Next() {
		collection, err := scanCollectionPG(rows)
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

// Update modifies an existing collection in the PostgreSQL database.
func (p *PostgreSQLCollectionRepository) Update(
	ctx context.Context,
	collection *vaultDomain.Collection,
) error {
	querier := database.GetTx(ctx, p.db)

	query := `UPDATE collections
			  SET organization_id = $1, name = $2, updated_at = $3
			  WHERE id = $4`

	result, err := querier.ExecContext(
		ctx,
		query,
		collection.OrganizationID,
		collection.Name,
		collection.UpdatedAt,
		collection.ID,
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

// Delete removes a collection from the PostgreSQL database.
func (p *PostgreSQLCollectionRepository) Delete(ctx context.Context, collectionID uuid.UUID) error {
	querier := database.GetTx(ctx, p.db)

	result, err := querier.ExecContext(ctx, `DELETE FROM collections WHERE id = $1`, collectionID)
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

// scanCollectionPG scans a collection row with a nullable organization reference.
func scanCollectionPG(row rowScanner) (*vaultDomain.Collection, error) {
	var collection vaultDomain.Collection

	err := row.Scan(
		&collection.ID,
		&collection.CompanyID,
		&collection.OrganizationID,
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

	return &collection, nil
}

// NewPostgreSQLCollectionRepository creates a new PostgreSQL collection repository instance.
func NewPostgreSQLCollectionRepository(db *sql.DB) *PostgreSQLCollectionRepository {
	return &PostgreSQLCollectionRepository{db: db}
}
