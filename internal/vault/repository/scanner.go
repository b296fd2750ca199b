package repository

import (
	"strings"

	"github.com/google/uuid"

	apperrors "github.com/credvault/credvault/internal/errors"
)

// rowScanner abstracts *sql.Row and *sql.Rows scanning.
type rowScanner interface {
	Scan(dest ...any) error
}

// uuidPtrBinary marshals an optional UUID into a nullable BINARY(16) argument.
func uuidPtrBinary(id *uuid.UUID) (any, error) {
	if id == nil {
		return nil, nil
	}
	b, err := id.MarshalBinary()
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to marshal uuid")
	}
	return b, nil
}

// binaryUUIDPtr converts a nullable BINARY(16) column into an optional UUID.
func binaryUUIDPtr(b []byte) (*uuid.UUID, error) {
	if b == nil {
		return nil, nil
	}
	var id uuid.UUID
	if err := id.UnmarshalBinary(b); err != nil {
		return nil, apperrors.Wrap(err, "failed to unmarshal uuid")
	}
	return &id, nil
}

// escapeLike escapes LIKE pattern metacharacters in a literal so a coarse
// substring query cannot be steered by characters in the input.
func escapeLike(literal string) string {
	replacer := strings.NewReplacer(
		`\`, `\\`,
		`%`, `\%`,
		`_`, `\_`,
	)
	return replacer.Replace(literal)
}
