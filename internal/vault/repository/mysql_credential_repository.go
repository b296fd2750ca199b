package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"strings"

	"github.com/google/uuid"

	"github.com/credvault/credvault/internal/database"
	apperrors "github.com/credvault/credvault/internal/errors"
	vaultDomain "github.com/credvault/credvault/internal/vault/domain"
)

const credentialColumnsMySQL = `id, company_id, organization_id, collection_id, folder_id, name, urls,
	dek_id, username_ciphertext, username_nonce, secret_ciphertext, secret_nonce,
	notes_ciphertext, notes_nonce, created_at, updated_at`

// MySQLCredentialRepository implements Credential persistence for MySQL.
// Uses BINARY(16) for UUIDs with transaction support via database.GetTx().
type MySQLCredentialRepository struct {
	db *sql.DB
}

// credentialArgsMySQL marshals the credential identifiers shared by Create and Update.
type credentialArgsMySQL struct {
	id             []byte
	companyID      []byte
	organizationID any
	collectionID   any
	folderID       any
	urlsJSON       []byte
	dekID          []byte
}

func marshalCredentialMySQL(credential *vaultDomain.Credential) (*credentialArgsMySQL, error) {
	id, err := credential.ID.MarshalBinary()
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to marshal credential id")
	}

	companyID, err := credential.CompanyID.MarshalBinary()
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to marshal company id")
	}

	organizationID, err := uuidPtrBinary(credential.OrganizationID)
	if err != nil {
		return nil, err
	}

	collectionID, err := uuidPtrBinary(credential.CollectionID)
	if err != nil {
		return nil, err
	}

	folderID, err := uuidPtrBinary(credential.FolderID)
	if err != nil {
		return nil, err
	}

	urlsJSON, err := json.Marshal(credential.URLs)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to marshal urls")
	}

	dekID, err := credential.DekID.MarshalBinary()
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to marshal dek id")
	}

	return &credentialArgsMySQL{
		id:             id,
		companyID:      companyID,
		organizationID: organizationID,
		collectionID:   collectionID,
		folderID:       folderID,
		urlsJSON:       urlsJSON,
		dekID:          dekID,
	}, nil
}

// Create inserts a new credential into the MySQL database.
func (m *MySQLCredentialRepository) Create(
	ctx context.Context,
	credential *vaultDomain.Credential,
) error {
	querier := database.GetTx(ctx, m.db)

	args, err := marshalCredentialMySQL(credential)
	if err != nil {
		return err
	}

	query := `INSERT INTO credentials (` + credentialColumnsMySQL + `)
			  VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	_, err = querier.ExecContext(
		ctx,
		query,
		args.id,
		args.companyID,
		args.organizationID,
		args.collectionID,
		args.folderID,
		credential.Name,
		args.urlsJSON,
		args.dekID,
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

// Get retrieves a credential by ID from the MySQL database.
func (m *MySQLCredentialRepository) Get(
	ctx context.Context,
	credentialID uuid.UUID,
) (*vaultDomain.Credential, error) {
	querier := database.GetTx(ctx, m.db)

	id, err := credentialID.MarshalBinary()
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to marshal credential id")
	}

	query := `SELECT ` + credentialColumnsMySQL + ` FROM credentials WHERE id = ?`

	return scanCredentialMySQL(querier.QueryRowContext(ctx, query, id))
}

// ListByCompany retrieves credentials of a company ordered by most recent update.
func (m *MySQLCredentialRepository) ListByCompany(
	ctx context.Context,
	companyID uuid.UUID,
	offset, limit int,
) ([]*vaultDomain.Credential, error) {
	querier := database.GetTx(ctx, m.db)

	id, err := companyID.MarshalBinary()
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to marshal company id")
	}

	query := `SELECT ` + credentialColumnsMySQL + `
			  FROM credentials WHERE company_id = ?
			  ORDER BY updated_at DESC
			  LIMIT ? OFFSET ?`

	rows, err := querier.QueryContext(ctx, query, id, limit, offset)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list credentials")
	}
	defer rows.Close()

	return collectCredentialsMySQL(rows)
}

// Search runs the broad first-pass filter over credentials. The result is a
// superset of the true answer and is ordered by most recent update; callers
// must apply the strict permission re-check and the exact host match to every
// returned row.
func (m *MySQLCredentialRepository) Search(
	ctx context.Context,
	search vaultDomain.CredentialSearch,
) ([]*vaultDomain.Credential, error) {
	if search.Empty() {
		return nil, nil
	}

	querier := database.GetTx(ctx, m.db)

	var conditions []string
	var args []any

	if !search.AllCompanies {
		companyID, err := search.CompanyID.MarshalBinary()
		if err != nil {
			return nil, apperrors.Wrap(err, "failed to marshal company id")
		}
		conditions = append(conditions, "company_id = ?")
		args = append(args, companyID)
	}

	if !search.AllCompanies && !search.CompanyWide {
		var membership []string
		if len(search.FolderIDs) > 0 {
			placeholders := make([]string, len(search.FolderIDs))
			for i, id := range search.FolderIDs {
				b, err := id.MarshalBinary()
				if err != nil {
					return nil, apperrors.Wrap(err, "failed to marshal folder id")
				}
				placeholders[i] = "?"
				args = append(args, b)
			}
			membership = append(membership,
				"folder_id IN ("+strings.Join(placeholders, ", ")+")")
		}
		if len(search.CollectionIDs) > 0 {
			placeholders := make([]string, len(search.CollectionIDs))
			for i, id := range search.CollectionIDs {
				b, err := id.MarshalBinary()
				if err != nil {
					return nil, apperrors.Wrap(err, "failed to marshal collection id")
				}
				placeholders[i] = "?"
				args = append(args, b)
			}
			membership = append(membership,
				"(folder_id IS NULL AND collection_id IN ("+strings.Join(placeholders, ", ")+"))")
		}
		conditions = append(conditions, "("+strings.Join(membership, " OR ")+")")
	}

	if search.BaseHost != "" {
		conditions = append(conditions, "urls LIKE ?")
		args = append(args, "%"+escapeLike(search.BaseHost)+"%")
	}

	query := `SELECT ` + credentialColumnsMySQL + ` FROM credentials`
	if len(conditions) > 0 {
		query += ` WHERE ` + strings.Join(conditions, " AND ")
	}
	query += ` ORDER BY updated_at DESC`

	rows, err := querier.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to search credentials")
	}
	defer rows.Close()

	return collectCredentialsMySQL(rows)
}

// Update modifies an existing credential in the MySQL database.
func (m *MySQLCredentialRepository) Update(
	ctx context.Context,
	credential *vaultDomain.Credential,
) error {
	querier := database.GetTx(ctx, m.db)

	args, err := marshalCredentialMySQL(credential)
	if err != nil {
		return err
	}

	query := `UPDATE credentials
			  SET organization_id = ?,
				  collection_id = ?,
				  folder_id = ?,
				  name = ?,
				  urls = ?,
				  dek_id = ?,
				  username_ciphertext = ?,
				  username_nonce = ?,
				  secret_ciphertext = ?,
				  secret_nonce = ?,
				  notes_ciphertext = ?,
				  notes_nonce = ?,
				  updated_at = ?
			  WHERE id = ?`

	result, err := querier.ExecContext(
		ctx,
		query,
		args.organizationID,
		args.collectionID,
		args.folderID,
		credential.Name,
		args.urlsJSON,
		args.dekID,
		credential.UsernameCiphertext,
		credential.UsernameNonce,
		credential.SecretCiphertext,
		credential.SecretNonce,
		credential.NotesCiphertext,
		credential.NotesNonce,
		credential.UpdatedAt,
		args.id,
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

// Delete removes a credential from the MySQL database.
func (m *MySQLCredentialRepository) Delete(ctx context.Context, credentialID uuid.UUID) error {
	querier := database.GetTx(ctx, m.db)

	id, err := credentialID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal credential id")
	}

	result, err := querier.ExecContext(ctx, `DELETE FROM credentials WHERE id = ?`, id)
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

func collectCredentialsMySQL(rows *sql.Rows) ([]*vaultDomain.Credential, error) {
	var credentials []*vaultDomain.Credential
	for rows.Next() {
		credential, err := scanCredentialMySQL(rows)
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

// scanCredentialMySQL scans a credential row with BINARY(16) UUID columns.
func scanCredentialMySQL(row rowScanner) (*vaultDomain.Credential, error) {
	var credential vaultDomain.Credential
	var idBytes, companyIDBytes, dekIDBytes []byte
	var organizationIDBytes, collectionIDBytes, folderIDBytes []byte
	var urlsJSON []byte

	err := row.Scan(
		&idBytes,
		&companyIDBytes,
		&organizationIDBytes,
		&collectionIDBytes,
		&folderIDBytes,
		&credential.Name,
		&urlsJSON,
		&dekIDBytes,
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

	if err := credential.ID.UnmarshalBinary(idBytes); err != nil {
		return nil, apperrors.Wrap(err, "failed to unmarshal credential id")
	}
	if err := credential.CompanyID.UnmarshalBinary(companyIDBytes); err != nil {
		return nil, apperrors.Wrap(err, "failed to unmarshal company id")
	}
	if err := credential.DekID.UnmarshalBinary(dekIDBytes); err != nil {
		return nil, apperrors.Wrap(err, "failed to unmarshal dek id")
	}

	organizationID, err := binaryUUIDPtr(organizationIDBytes)
	if err != nil {
		return nil, err
	}
	credential.OrganizationID = organizationID

	collectionID, err := binaryUUIDPtr(collectionIDBytes)
	if err != nil {
		return nil, err
	}
	credential.CollectionID = collectionID

	folderID, err := binaryUUIDPtr(folderIDBytes)
	if err != nil {
		return nil, err
	}
	credential.FolderID = folderID

	if len(urlsJSON) > 0 {
		if err := json.Unmarshal(urlsJSON, &credential.URLs); err != nil {
			return nil, apperrors.Wrap(err, "failed to unmarshal urls")
		}
	}

	return &credential, nil
}

// NewMySQLCredentialRepository creates a new MySQL credential repository instance.
func NewMySQLCredentialRepository(db *sql.DB) *MySQLCredentialRepository {
	return &MySQLCredentialRepository{db: db}
}
