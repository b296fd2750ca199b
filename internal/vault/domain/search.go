package domain

import (
	"github.com/google/uuid"
)

// CredentialSearch is the broad first-pass storage filter used by credential
// resolution. It is deliberately a superset of the true answer: rows it
// returns must still pass the strict per-record permission re-check and the
// exact base-domain match before being surfaced.
type CredentialSearch struct {
	// CompanyID scopes the search to one company. Ignored when AllCompanies
	// is set.
	CompanyID uuid.UUID

	// AllCompanies disables company scoping (master admin resolution).
	AllCompanies bool

	// CompanyWide includes every credential of the company regardless of
	// grouping (company super admin resolution).
	CompanyWide bool

	// FolderIDs are the caller's chain-valid folder grants: a credential
	// matches when its folder reference is in this set.
	FolderIDs []uuid.UUID

	// CollectionIDs are the caller's chain-valid collection grants: a
	// credential matches when it has no folder reference and its collection
	// reference is in this set.
	CollectionIDs []uuid.UUID

	// BaseHost, when set, coarsely restricts rows to those whose stored URL
	// list contains it as a substring. LIKE metacharacters are escaped by the
	// repository before use.
	BaseHost string
}

// Empty reports whether a restricted search can only ever match nothing.
// Deny-by-default: a company user with no chain-valid grants resolves to the
// empty set without touching storage.
func (s CredentialSearch) Empty() bool {
	return !s.AllCompanies && !s.CompanyWide && len(s.FolderIDs) == 0 && len(s.CollectionIDs) == 0
}
