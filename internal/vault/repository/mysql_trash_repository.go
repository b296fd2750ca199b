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

// MySQLTrashRepository implements TrashRecord persistence for MySQL.
// Uses BINARY(16) for UUIDs with transaction support via database.GetTx().
type MySQLTrashRepository struct {
	db *sql.DB
}

// Create inserts a new trash record into the MySQL database.
func (m *MySQLTrashRepository) Create(ctx context.Context, record *vaultDomain.TrashRecord) error {
	querier := database.GetTx(ctx, m.db)

	recordID, err := record.ID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal trash record id")
	}

	companyID, err := record.CompanyID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal company id")
	}

	entityID, err := record.EntityID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal entity id")
	}

	deletedBy, err := record.DeletedBy.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal deleted by")
	}

	query := `INSERT INTO trash_records (id, company_id, entity_type, entity_id, snapshot, deleted_by, created_at)
			  VALUES (?, ?, ?, ?, ?, ?, ?)`

	_, err = querier.ExecContext(
		ctx,
		query,
		recordID,
		companyID,
		record.EntityType,
		entityID,
		[]byte(record.Snapshot),
		deletedBy,
		record.CreatedAt,
	)
	if err != nil {
		return apperrors.Wrap(err, "failed to create trash record")
	}
	return nil
}

// Get retrieves a trash record by ID from the MySQL database.
func (m *MySQLTrashRepository) Get(
	ctx context.Context,
	recordID uuid.UUID,
) (*vaultDomain.TrashRecord, error) {
	querier := database.GetTx(ctx, m.db)

	id, err := recordID.MarshalBinary()
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to marshal trash record id")
	}

	query := `SELECT id, company_id, entity_type, entity_id, snapshot, deleted_by, created_at
			  FROM trash_records WHERE id = ?`

	return scanTrashRecordMySQL(querier.QueryRowContext(ctx, query, id))
}

// ListByCompany retrieves trash records of a company ordered by deletion time.
func (m *MySQLTrashRepository) ListByCompany(
	ctx context.Context,
	companyID uuid.UUID,
	offset, limit int,
) ([]*vaultDomain.TrashRecord, error) {
	querier := database.GetTx(ctx, m.db)

	id, err := companyID.MarshalBinary()
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to marshal company id")
	}

	query := `SELECT id, company_id, entity_type, entity_id, snapshot, deleted_by, created_at
			  FROM trash_records WHERE company_id = ?
			  ORDER BY created_at DESC
			  LIMIT ? OFFSET ?`

	rows, err := querier.QueryContext(ctx, query, id, limit, offset)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list trash records")
	}
	defer rows.Close()

	var records []*vaultDomain.TrashRecord
	for rows.Next() {
		record, err := scanTrashRecordMySQL(rows)
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
func (m *MySQLTrashRepository) Delete(ctx context.Context, recordID uuid.UUID) error {
	querier := database.GetTx(ctx, m.db)

	id, err := recordID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal trash record id")
	}

	result, err := querier.ExecContext(ctx, `DELETE FROM trash_records WHERE id = ?`, id)
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
func (m *MySQLTrashRepository) DeleteOlderThan(
	ctx context.Context,
	cutoff time.Time,
) (int64, error) {
	querier := database.GetTx(ctx, m.db)

	result, err := querier.ExecContext(
		ctx,
		`DELETE FROM trash_records WHERE created_at < ?`,
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

func scanTrashRecordMySQL(row rowScanner) (*vaultDomain.TrashRecord, error) {
	var record vaultDomain.TrashRecord
	var idBytes, companyIDBytes, entityIDBytes, deletedByBytes, snapshot []byte

	err := row.Scan(
		&idBytes,
		&companyIDBytes,
		&record.EntityType,
		&entityIDBytes,
		&snapshot,
		&deletedByBytes,
		&record.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, vaultDomain.ErrTrashRecordNotFound
		}
		return nil, apperrors.Wrap(err, "failed to scan trash record")
	}

	if err := record.ID.UnmarshalBinary(idBytes); err != nil {
		return nil, apperrors.Wrap(err, "failed to unmarshal trash record id")
	}
	if err := record.CompanyID.UnmarshalBinary(companyIDBytes); err != nil {
		return nil, apperrors.Wrap(err, "failed to unmarshal company id")
	}
	if err := record.EntityID.UnmarshalBinary(entityIDBytes); err != nil {
		return nil, apperrors.Wrap(err, "failed to unmarshal entity id")
	}
	if err := record.DeletedBy.UnmarshalBinary(deletedByBytes); err != nil {
		return nil, apperrors.Wrap(err, "failed to unmarshal deleted by")
	}

	record.Snapshot = snapshot
	return &record, nil
}

// NewMySQLTrashRepository creates a new MySQL trash repository instance.
func NewMySQLTrashRepository(db *sql.DB) *MySQLTrashRepository {
	return &MySQLTrashRepository{db: db}
}
