package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/credvault/credvault/internal/database"
	apperrors "github.com/credvault/credvault/internal/errors"
	vaultDomain "github.com/credvault/credvault/internal/vault/domain"
)

const credentialColumnsPG = `id, company_id, organization_id, collection_id, folder_id, name, urls,
	dek_id, username_ciphertext, username_nonce, secret_ciphertext, secret_nonce,
	notes_ciphertext, notes_nonce, created_at, updated_at`

// PostgreSQLCredentialRepository implements Credential persistence for PostgreSQL.
type PostgreSQLCredentialRepository struct {
	db *sql.DB
}

// Create inserts a new credential into the PostgreSQL database.
func (p *PostgreSQLCredentialRepository) Create(
	ctx context.Context,
	credential *vaultDomain.Credential,
) error {
	querier := database.GetTx(ctx, p.db)

	urlsJSON, err := json.Marshal(credential.URLs)
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal urls")
	}

	query := `INSERT INTO credentials (` + credentialColumnsPG + `)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)`

	_, err = querier.ExecContext(
		ctx,
		query,
		credential.ID,
		credential.CompanyID,
		credential.OrganizationID,
		credential.CollectionID,
		credential.FolderID,
		credential.Name,
		urlsJSON,
		credential.DekID,
		credential.UsernameCiphertext,
		credential.UsernameNonce,
		credential.SecretCiphertext,
		credential.SecretNonce,
		credential.NotesCiphertext,
		credential.NotesNonce,
		credential.CreatedAt,
		credential.UpdatedAt,
	)
	if err != nil {
		return apperrors.Wrap(err, "failed to create credential")
	}
	return nil
}

// Get retrieves a credential by ID from the PostgreSQL database.
func (p *PostgreSQLCredentialRepository) Get(
	ctx context.Context,
	credentialID uuid.UUID,
) (*vaultDomain.Credential, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT ` + credentialColumnsPG + ` FROM credentials WHERE id = $1`

	return scanCredentialPG(querier.QueryRowContext(ctx, query, credentialID))
}

// ListByCompany retrieves credentials of a company ordered by most recent update.
func (p *PostgreSQLCredentialRepository) ListByCompany(
	ctx context.Context,
	companyID uuid.UUID,
	offset, limit int,
) ([]*vaultDomain.Credential, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT ` + credentialColumnsPG + `
			  FROM credentials WHERE company_id = $1
			  ORDER BY updated_at DESC
			  OFFSET $2 LIMIT $3`

	rows, err := querier.QueryContext(ctx, query, companyID, offset, limit)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list credentials")
	}
	defer rows.Close()

	return collectCredentialsPG(rows)
}

// Search runs the broad first-pass filter over credentials. The result is a
// superset of the true answer and is ordered by most recent update; callers
// must apply the strict permission re-check and the exact host match to every
// returned row.
func (p *PostgreSQLCredentialRepository) Search(
	ctx context.Context,
	search vaultDomain.CredentialSearch,
) ([]*vaultDomain.Credential, error) {
	if search.Empty() {
		return nil, nil
	}

	querier := database.GetTx(ctx, p.db)

	var conditions []string
	var args []any

	arg := func(value any) string {
		args = append(args, value)
		return fmt.Sprintf("$%d", len(args))
	}

	if !search.AllCompanies {
		conditions = append(conditions, fmt.Sprintf("company_id = %s", arg(search.CompanyID)))
	}

	if !search.AllCompanies && !search.CompanyWide {
		var membership []string
		if len(search.FolderIDs) > 0 {
			placeholders := make([]string, len(search.FolderIDs))
			for i, id := range search.FolderIDs {
				placeholders[i] = arg(id)
			}
			membership = append(membership,
				fmt.Sprintf("folder_id IN (%s)", strings.Join(placeholders, ", ")))
		}
		if len(search.CollectionIDs) > 0 {
			placeholders := make([]string, len(search.CollectionIDs))
			for i, id := range search.CollectionIDs {
				placeholders[i] = arg(id)
			}
			membership = append(membership,
				fmt.Sprintf("(folder_id IS NULL AND collection_id IN (%s))",
					strings.Join(placeholders, ", ")))
		}
		conditions = append(conditions, "("+strings.Join(membership, " OR ")+")")
	}

	if search.BaseHost != "" {
		pattern := "%" + escapeLike(search.BaseHost) + "%"
		conditions = append(conditions, fmt.Sprintf("urls::text LIKE %s", arg(pattern)))
	}

	query := `SELECT ` + credentialColumnsPG + ` FROM credentials`
	if len(conditions) > 0 {
		query += ` WHERE ` + strings.Join(conditions, " AND ")
	}
	query += ` ORDER BY updated_at DESC`

	rows, err := querier.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to search credentials")
	}
	defer rows.Close()

	return collectCredentialsPG(rows)
}

// Update modifies an existing credential in the PostgreSQL database.
func (p *PostgreSQLCredentialRepository) Update(
	ctx context.Context,
	credential *vaultDomain.Credential,
) error {
	querier := database.GetTx(ctx, p.db)

	urlsJSON, err := json.Marshal(credential.URLs)
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal urls")
	}

	query := `UPDATE credentials
			  SET organization_id = $1,
				  collection_id = $2,
				  folder_id = $3,
				  name = $4,
				  urls = $5,
				  dek_id = $6,
				  username_ciphertext = $7,
				  username_nonce = $8,
				  secret_ciphertext = $9,
				  secret_nonce = $10,
				  notes_ciphertext = $11,
				  notes_nonce = $12,
				  updated_at = $13
			  WHERE id = $14`

	result, err := querier.ExecContext(
		ctx,
		query,
		credential.OrganizationID,
		credential.CollectionID,
		credential.FolderID,
		credential.Name,
		urlsJSON,
		credential.DekID,
		credential.UsernameCiphertext,
		credential.UsernameNonce,
		credential.SecretCiphertext,
		credential.SecretNonce,
		credential.NotesCiphertext,
		credential.NotesNonce,
		credential.UpdatedAt,
		credential.ID,
	)
	if err != nil {
		return apperrors.Wrap(err, "failed to update credential")
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return apperrors.Wrap(err, "failed to get rows affected")
	}
	if rowsAffected == 0 {
		return vaultDomain.ErrCredentialNotFound
	}

	return nil
}

// Delete removes a credential from the PostgreSQL database.
func (p *PostgreSQLCredentialRepository) Delete(ctx context.Context, credentialID uuid.UUID) error {
	querier := database.GetTx(ctx, p.db)

	result, err := querier.ExecContext(ctx, `DELETE FROM credentials WHERE id = $1`, credentialID)
	if err != nil {
		return apperrors.Wrap(err, "failed to delete credential")
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return apperrors.Wrap(err, "failed to get rows affected")
	}
	if rowsAffected == 0 {
		return vaultDomain.ErrCredentialNotFound
	}

	return nil
}

// collectCredentialsPG drains a credential result set.
func collectCredentialsPG(rows *sql.Rows) ([]*vaultDomain.Credential, error) {
	var credentials []*vaultDomain.Credential
	for rows.Next() {
		credential, err := scanCredentialPG(rows)
		if err != nil {
			return nil, err
		}
		credentials = append(credentials, credential)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, "failed to iterate credentials")
	}
	return credentials, nil
}

// scanCredentialPG scans a credential row including the URL list JSON document.
func scanCredentialPG(row rowScanner) (*vaultDomain.Credential, error) {
	var credential vaultDomain.Credential
	var urlsJSON []byte

	err := row.Scan(
		&credential.ID,
		&credential.CompanyID,
		&credential.OrganizationID,
		&credential.CollectionID,
		&credential.FolderID,
		&credential.Name,
		&urlsJSON,
		&credential.DekID,
		&credential.UsernameCiphertext,
		&credential.UsernameNonce,
		&credential.SecretCiphertext,
		&credential.SecretNonce,
		&credential.NotesCiphertext,
		&credential.NotesNonce,
		&credential.CreatedAt,
		&credential.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, vaultDomain.ErrCredentialNotFound
		}
		return nil, apperrors.Wrap(err, "failed to scan credential")
	}

	if len(urlsJSON) > 0 {
		if err := json.Unmarshal(urlsJSON, &credential.URLs); err != nil {
			return nil, apperrors.Wrap(err, "failed to unmarshal urls")
		}
	}

	return &credential, nil
}

// NewPostgreSQLCredentialRepository creates a new PostgreSQL credential repository instance.
func NewPostgreSQLCredentialRepository(db *sql.DB) *PostgreSQLCredentialRepository {
	return &PostgreSQLCredentialRepository{db: db}
}
