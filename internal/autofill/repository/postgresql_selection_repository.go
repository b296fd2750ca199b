// Package repository provides PostgreSQL and MySQL implementations of
// selection persistence. The (user_id, host) pair is the primary key and
// writes are last-write-wins.
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

// PostgreSQLSelectionRepository implements Selection persistence for PostgreSQL.
type PostgreSQLSelectionRepository struct {
	db *sql.DB
}

// Get retrieves the remembered selection for a (user, host) pair.
func (p *PostgreSQLSelectionRepository) Get(
	ctx context.Context,
	userID uuid.UUID,
	host string,
) (*autofillDomain.Selection, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT user_id, host, credential_id, updated_at
			  FROM selections WHERE user_id = $1 AND host = $2`

	selection := &autofillDomain.Selection{}
	err := querier.QueryRowContext(ctx, query, userID, host).Scan(
		&selection.UserID,
		&selection.Host,
		&selection.CredentialID,
		&selection.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, autofillDomain.ErrSelectionNotFound
		}
		return nil, apperrors.Wrap(err, "failed to scan selection")
	}
	return selection, nil
}

// Upsert stores a selection, replacing any previous choice for the same
// (user, host) pair.
func (p *PostgreSQLSelectionRepository) Upsert(
	ctx context.Context,
	selection *autofillDomain.Selection,
) error {
	querier := database.GetTx(ctx, p.db)

	query := `INSERT INTO selections (user_id, host, credential_id, updated_at)
			  VALUES ($1, $2, $3, $4)
			  ON CONFLICT (user_id, host)
			  DO UPDATE SET credential_id = EXCLUDED.credential_id, updated_at = EXCLUDED.updated_at`

	_, err := querier.ExecContext(
		ctx,
		query,
		selection.UserID,
		selection.Host,
		selection.CredentialID,
		selection.UpdatedAt,
	)
	if err != nil {
		return apperrors.Wrap(err, "failed to upsert selection")
	}
	return nil
}

// NewPostgreSQLSelectionRepository creates a new PostgreSQL selection repository.
func NewPostgreSQLSelectionRepository(db *sql.DB) *PostgreSQLSelectionRepository {
	return &PostgreSQLSelectionRepository{db: db}
}
