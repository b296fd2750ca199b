// Package access implements the permission resolution chain shared by every
// read and write path that touches vault entities. Visibility for restricted
// users follows the containment chain: a credential in a folder is visible
// only when the folder, the folder's collection and that collection's
// organization are each independently granted. A missing link at any level
// voids visibility regardless of grants above or below it.
//
// Resolution is always two-pass. ResolveScope produces the broad storage
// filter, a deliberate superset of the true answer, and FilterCredentials
// re-validates every returned row against freshly loaded folder and
// collection records before anything is surfaced.
package access

import (
	"github.com/google/uuid"

	identityDomain "github.com/credvault/credvault/internal/identity/domain"
	vaultDomain "github.com/credvault/credvault/internal/vault/domain"
)

// grantSet is a lookup view over one of a user's grant lists.
type grantSet map[uuid.UUID]struct{}

func newGrantSet(ids []uuid.UUID) grantSet {
	set := make(grantSet, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set
}

func (g grantSet) has(id uuid.UUID) bool {
	_, ok := g[id]
	return ok
}

// Scope is the resolved authorization context of one request. It is built
// from the stored user record, never from token claims, so permission edits
// and deactivation take effect on the next request.
type Scope struct {
	UserID    uuid.UUID
	Role      identityDomain.Role
	CompanyID uuid.UUID

	// Chain-valid grant subsets used by the broad filter. Only populated for
	// company users.
	ValidFolderIDs     []uuid.UUID
	ValidCollectionIDs []uuid.UUID

	// Raw grant sets used by the strict per-record re-check.
	organizations grantSet
	collections   grantSet
	folders       grantSet
}

// NewScope builds a scope from a stored user record's identity fields and
// raw grant lists. The grant sets only matter for company users; admin roles
// are not grant-filtered. ValidFolderIDs and ValidCollectionIDs are computed
// by the resolver, which checks each grant's chain against storage.
func NewScope(
	userID uuid.UUID,
	role identityDomain.Role,
	companyID uuid.UUID,
	grants identityDomain.PermissionGrants,
) *Scope {
	return &Scope{
		UserID:        userID,
		Role:          role,
		CompanyID:     companyID,
		organizations: newGrantSet(grants.Organizations),
		collections:   newGrantSet(grants.Collections),
		folders:       newGrantSet(grants.Folders),
	}
}

// AllCompanies reports whether the scope spans every tenant.
func (s *Scope) AllCompanies() bool {
	return s.Role == identityDomain.RoleMasterAdmin
}

// CompanyWide reports whether the scope covers the whole company without
// grant filtering.
func (s *Scope) CompanyWide() bool {
	return s.Role == identityDomain.RoleCompanySuperAdmin
}

// CanManageVault reports whether the caller may create, reorganize and delete
// vault groupings and manage users and grants.
func (s *Scope) CanManageVault() bool {
	return s.Role == identityDomain.RoleMasterAdmin || s.Role == identityDomain.RoleCompanySuperAdmin
}

// HasOrganizationGrant reports whether the organization is directly granted.
func (s *Scope) HasOrganizationGrant(organizationID uuid.UUID) bool {
	return s.organizations.has(organizationID)
}

// HasCollectionGrant reports whether the collection is directly granted,
// ignoring chain validity.
func (s *Scope) HasCollectionGrant(collectionID uuid.UUID) bool {
	return s.collections.has(collectionID)
}

// HasFolderGrant reports whether the folder is directly granted, ignoring
// chain validity.
func (s *Scope) HasFolderGrant(folderID uuid.UUID) bool {
	return s.folders.has(folderID)
}

// Search builds the broad first-pass credential filter for this scope. For a
// company user with no chain-valid grants the filter is empty and resolution
// short-circuits to the empty set without touching storage.
func (s *Scope) Search(baseHost string) vaultDomain.CredentialSearch {
	search := vaultDomain.CredentialSearch{BaseHost: baseHost}

	switch {
	case s.AllCompanies():
		search.AllCompanies = true
	case s.CompanyWide():
		search.CompanyID = s.CompanyID
		search.CompanyWide = true
	default:
		search.CompanyID = s.CompanyID
		search.FolderIDs = s.ValidFolderIDs
		search.CollectionIDs = s.ValidCollectionIDs
	}

	return search
}

// collectionChainValid reports whether a collection grant is effective: the
// collection itself must be granted and, when it belongs to an organization,
// that organization must be granted too.
func (s *Scope) collectionChainValid(collection *vaultDomain.Collection) bool {
	if collection == nil || collection.CompanyID != s.CompanyID {
		return false
	}
	if !s.collections.has(collection.ID) {
		return false
	}
	if collection.OrganizationID != nil && !s.organizations.has(*collection.OrganizationID) {
		return false
	}
	return true
}

// folderChainValid reports whether a folder grant is effective. A folder in a
// collection requires the full collection chain; a folder attached directly
// to an organization requires that organization's grant.
func (s *Scope) folderChainValid(
	folder *vaultDomain.Folder,
	collections map[uuid.UUID]*vaultDomain.Collection,
) bool {
	if folder == nil || folder.CompanyID != s.CompanyID {
		return false
	}
	if !s.folders.has(folder.ID) {
		return false
	}
	if folder.CollectionID != nil {
		return s.collectionChainValid(collections[*folder.CollectionID])
	}
	if folder.OrganizationID != nil {
		return s.organizations.has(*folder.OrganizationID)
	}
	return true
}

// credentialChainValid applies the strict per-record rule to one credential.
// A credential in a folder is checked through the folder's own chain; a
// folder-less credential in a collection is checked through the collection
// chain; a credential with neither reference is never visible to a company
// user.
func (s *Scope) credentialChainValid(
	credential *vaultDomain.Credential,
	folders map[uuid.UUID]*vaultDomain.Folder,
	collections map[uuid.UUID]*vaultDomain.Collection,
) bool {
	if credential.CompanyID != s.CompanyID {
		return false
	}
	if credential.FolderID != nil {
		return s.folderChainValid(folders[*credential.FolderID], collections)
	}
	if credential.CollectionID != nil {
		return s.collectionChainValid(collections[*credential.CollectionID])
	}
	return false
}
