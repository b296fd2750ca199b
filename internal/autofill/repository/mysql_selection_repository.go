package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"

	autofillDomain "github.com/credvault/credvault/internal/autofill/domain"
	"github.com/credvault/credvault/internal/database"
	apperrors "github.com/credvault/credvault/internal/errors"
)

// MySQLSelectionRepository implements Selection persistence for MySQL.
// Uses BINARY(16) for UUIDs with transaction support via database.GetTx().
type MySQLSelectionRepository struct {
	db *sql.DB
}

// Get retrieves the remembered selection for a (user, host) pair.
func (m *MySQLSelectionRepository) Get(
	ctx context.Context,
	userID uuid.UUID,
	host string,
) (*autofillDomain.Selection, error) {
	querier := database.GetTx(ctx, m.db)

	userIDBytes, err := userID.MarshalBinary()
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to marshal user id")
	}

	query := `SELECT user_id, host, credential_id, updated_at
			  FROM selections WHERE user_id = ? AND host = ?`

	selection := &autofillDomain.Selection{}
	var scannedUserID, credentialID []byte
	err = querier.QueryRowContext(ctx, query, userIDBytes, host).Scan(
		&scannedUserID,
		&selection.Host,
		&credentialID,
		&selection.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, autofillDomain.ErrSelectionNotFound
		}
		return nil, apperrors.Wrap(err, "failed to scan selection")
	}

	if err := selection.UserID.UnmarshalBinary(scannedUserID); err != nil {
		return nil, apperrors.Wrap(err, "failed to unmarshal user id")
	}
	if err := selection.CredentialID.UnmarshalBinary(credentialID); err != nil {
		return nil, apperrors.Wrap(err, "failed to unmarshal credential id")
	}
	return selection, nil
}

// Upsert stores a selection, replacing any previous choice for the same
// (user, host) pair.
func (m *MySQLSelectionRepository) Upsert(
	ctx context.Context,
	selection *autofillDomain.Selection,
) error {
	querier := database.GetTx(ctx, m.db)

	userIDBytes, err := selection.UserID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal user id")
	}
	credentialIDBytes, err := selection.CredentialID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal credential id")
	}

	query := `INSERT INTO selections (user_id, host, credential_id, updated_at)
			  VALUES (?, ?, ?, ?)
			  ON DUPLICATE KEY UPDATE credential_id = VALUES(credential_id), updated_at = VALUES(updated_at)`

	_, err = querier.ExecContext(
		ctx,
		query,
		userIDBytes,
		selection.Host,
		credentialIDBytes,
		selection.UpdatedAt,
	)
	if err != nil {
		return apperrors.Wrap(err, "failed to upsert selection")
	}
	return nil
}

// NewMySQLSelectionRepository creates a new MySQL selection repository instance.
func NewMySQLSelectionRepository(db *sql.DB) *MySQLSelectionRepository {
	return &MySQLSelectionRepository{db: db}
}
