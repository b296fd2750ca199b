package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"

	"github.com/google/uuid"

	"github.com/credvault/credvault/internal/database"
	apperrors "github.com/credvault/credvault/internal/errors"
	identityDomain "github.com/credvault/credvault/internal/identity/domain"
)

// MySQLUserRepository implements User persistence for MySQL.
// Uses BINARY(16) for UUIDs with transaction support via database.GetTx().
type MySQLUserRepository struct {
	db *sql.DB
}

// Create inserts a new user into the MySQL database.
func (m *MySQLUserRepository) Create(ctx context.Context, user *identityDomain.User) error {
	querier := database.GetTx(ctx, m.db)

	permissionsJSON, err := json.Marshal(user.Permissions)
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal permissions")
	}

	userID, err := user.ID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal user id")
	}

	companyID, err := user.CompanyID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal company id")
	}

	query := `INSERT INTO users (id, company_id, email, name, password_hash, role, is_active, permissions, created_at, updated_at)
			  VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	_, err = querier.ExecContext(
		ctx,
		query,
		userID,
		companyID,
		user.Email,
		user.Name,
		user.PasswordHash,
		user.Role,
		user.IsActive,
		permissionsJSON,
		user.CreatedAt,
		user.UpdatedAt,
	)
	if err != nil {
		return apperrors.Wrap(err, "failed to create user")
	}
	return nil
}

// Update modifies an existing user in the MySQL database.
func (m *MySQLUserRepository) Update(ctx context.Context, user *identityDomain.User) error {
	querier := database.GetTx(ctx, m.db)

	permissionsJSON, err := json.Marshal(user.Permissions)
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal permissions")
	}

	userID, err := user.ID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal user id")
	}

	query := `UPDATE users
			  SET email = ?,
				  name = ?,
				  password_hash = ?,
				  is_active = ?,
				  permissions = ?,
				  updated_at = ?
			  WHERE id = ?`

	result, err := querier.ExecContext(
		ctx,
		query,
		user.Email,
		user.Name,
		user.PasswordHash,
		user.IsActive,
		permissionsJSON,
		user.UpdatedAt,
		userID,
	)
	if err != nil {
		return apperrors.Wrap(err, "failed to update user")
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return apperrors.Wrap(err, "failed to get rows affected")
	}
	if rowsAffected == 0 {
		return identityDomain.ErrUserNotFound
	}

	return nil
}

// Get retrieves a user by ID from the MySQL database.
func (m *MySQLUserRepository) Get(
	ctx context.Context,
	userID uuid.UUID,
) (*identityDomain.User, error) {
	querier := database.GetTx(ctx, m.db)

	id, err := userID.MarshalBinary()
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to marshal user id")
	}

	query := `SELECT id, company_id, email, name, password_hash, role, is_active, permissions, created_at, updated_at
			  FROM users WHERE id = ?`

	return scanUserMySQL(querier.QueryRowContext(ctx, query, id))
}

// GetByEmail retrieves a user by email from the MySQL database.
func (m *MySQLUserRepository) GetByEmail(
	ctx context.Context,
	email string,
) (*identityDomain.User, error) {
	querier := database.GetTx(ctx, m.db)

	query := `SELECT id, company_id, email, name, password_hash, role, is_active, permissions, created_at, updated_at
			  FROM users WHERE email = ?`

	return scanUserMySQL(querier.QueryRowContext(ctx, query, email))
}

// ListByCompany retrieves users of a company ordered by creation time.
func (m *MySQLUserRepository) ListByCompany(
	ctx context.Context,
	companyID uuid.UUID,
	offset, limit int,
) ([]*identityDomain.User, error) {
	querier := database.GetTx(ctx, m.db)

	id, err := companyID.MarshalBinary()
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to marshal company id")
	}

	query := `SELECT id, company_id, email, name, password_hash, role, is_active, permissions, created_at, updated_at
			  FROM users WHERE company_id = ?
			  ORDER BY created_at ASC
			  LIMIT ? OFFSET ?`

	rows, err := querier.QueryContext(ctx, query, id, limit, offset)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list users")
	}
	defer rows.Close()

	var users []*identityDomain.User
	for rows.Next() {
		user, err := scanUserMySQL(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, user)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, "failed to iterate users")
	}

	return users, nil
}

// Delete removes a user from the MySQL database.
func (m *MySQLUserRepository) Delete(ctx context.Context, userID uuid.UUID) error {
	querier := database.GetTx(ctx, m.db)

	id, err := userID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal user id")
	}

	result, err := querier.ExecContext(ctx, `DELETE FROM users WHERE id = ?`, id)
	if err != nil {
		return apperrors.Wrap(err, "failed to delete user")
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return apperrors.Wrap(err, "failed to get rows affected")
	}
	if rowsAffected == 0 {
		return identityDomain.ErrUserNotFound
	}

	return nil
}

// scanUserMySQL scans a user row with BINARY(16) UUID columns.
func scanUserMySQL(row rowScanner) (*identityDomain.User, error) {
	var user identityDomain.User
	var idBytes, companyIDBytes, permissionsJSON []byte

	err := row.Scan(
		&idBytes,
		&companyIDBytes,
		&user.Email,
		&user.Name,
		&user.PasswordHash,
		&user.Role,
		&user.IsActive,
		&permissionsJSON,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, identityDomain.ErrUserNotFound
		}
		return nil, apperrors.Wrap(err, "failed to scan user")
	}

	if err := user.ID.UnmarshalBinary(idBytes); err != nil {
		return nil, apperrors.Wrap(err, "failed to unmarshal user id")
	}
	if err := user.CompanyID.UnmarshalBinary(companyIDBytes); err != nil {
		return nil, apperrors.Wrap(err, "failed to unmarshal company id")
	}

	if len(permissionsJSON) > 0 {
		if err := json.Unmarshal(permissionsJSON, &user.Permissions); err != nil {
			return nil, apperrors.Wrap(err, "failed to unmarshal permissions")
		}
	}

	return &user, nil
}

// NewMySQLUserRepository creates a new MySQL user repository instance.
func NewMySQLUserRepository(db *sql.DB) *MySQLUserRepository {
	return &MySQLUserRepository{db: db}
}
