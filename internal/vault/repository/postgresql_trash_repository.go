package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/credvault/credvault/internal/database"
	apperrors "github.com/credvault/credvault/internal/errors"
	vaultDomain "github.com/credvault/credvault/internal/vault/domain"
)

// PostgreSQLTrashRepository implements TrashRecord persistence for PostgreSQL.
type PostgreSQLTrashRepository struct {
	db *sql.DB
}

// Create inserts a new trash record into the PostgreSQL database.
func (p *PostgreSQLTrashRepository) Create(
	ctx context.Context,
	record *vaultDomain.TrashRecord,
) error {
	querier := database.GetTx(ctx, p.db)

	query := `INSERT INTO trash_records (id, company_id, entity_type, entity_id, snapshot, deleted_by, created_at)
			  VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err := querier.ExecContext(
		ctx,
		query,
		record.ID,
		record.CompanyID,
		record.EntityType,
		record.EntityID,
		[]byte(record.Snapshot),
		record.DeletedBy,
		record.CreatedAt,
	)
	if err != nil {
		return apperrors.Wrap(err, "failed to create trash record")
	}
	return nil
}

// Get retrieves a trash record by ID from the PostgreSQL database.
func (p *PostgreSQLTrashRepository) Get(
	ctx context.Context,
	recordID uuid.UUID,
) (*vaultDomain.TrashRecord, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT id, company_id, entity_type, entity_id, snapshot, deleted_by, created_at
			  FROM trash_records WHERE id = $1`

	return scanTrashRecordPG(querier.QueryRowContext(ctx, query, recordID))
}

// ListByCompany retrieves trash records of a company ordered by deletion time.
func (p *PostgreSQLTrashRepository) ListByCompany(
	ctx context.Context,
	companyID uuid.UUID,
	offset, limit int,
) ([]*vaultDomain.TrashRecord, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT id, company_id, entity_type, entity_id, snapshot, deleted_by, created_at
			  FROM trash_records WHERE company_id = $1
			  ORDER BY created_at DESC
			  OFFSET $2 LIMIT $3`

	rows, err := querier.QueryContext(ctx, query, companyID, offset, limit)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list trash records")
	}
	defer rows.Close()

	var records []*vaultDomain.TrashRecord
	for rows.Next() {
		record, err := scanTrashRecordPG(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, "failed to iterate trash records")
	}
	return records, nil
}

// Delete removes a trash record, used by both restore and purge.
func (p *PostgreSQLTrashRepository) Delete(ctx context.Context, recordID uuid.UUID) error {
	querier := database.GetTx(ctx, p.db)

	result, err := querier.ExecContext(ctx, `DELETE FROM trash_records WHERE id = $1`, recordID)
	if err != nil {
		return apperrors.Wrap(err, "failed to delete trash record")
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return apperrors.Wrap(err, "failed to get rows affected")
	}
	if rowsAffected == 0 {
		return vaultDomain.ErrTrashRecordNotFound
	}

	return nil
}

// DeleteOlderThan removes all trash records created before the cutoff time
// and returns the number of purged records.
func (p *PostgreSQLTrashRepository) DeleteOlderThan(
	ctx context.Context,
	cutoff time.Time,
) (int64, error) {
	querier := database.GetTx(ctx, p.db)

	result, err := querier.ExecContext(
		ctx,
		`DELETE FROM trash_records WHERE created_at < $1`,
		cutoff,
	)
	if err != nil {
		return 0, apperrors.Wrap(err, "failed to purge trash records")
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, apperrors.Wrap(err, "failed to get rows affected")
	}
	return rowsAffected, nil
}

func scanTrashRecordPG(row rowScanner) (*vaultDomain.TrashRecord, error) {
	var record vaultDomain.TrashRecord
	var snapshot []byte

	err := row.Scan(
		&record.ID,
		&record.CompanyID,
		&record.EntityType,
		&record.EntityID,
		&snapshot,
		&record.DeletedBy,
		&record.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, vaultDomain.ErrTrashRecordNotFound
		}
		return nil, apperrors.Wrap(err, "failed to scan trash record")
	}

	record.Snapshot = snapshot
	return &record, nil
}

// NewPostgreSQLTrashRepository creates a new PostgreSQL trash repository instance.
func NewPostgreSQLTrashRepository(db *sql.DB) *PostgreSQLTrashRepository {
	return &PostgreSQLTrashRepository{db: db}
}
