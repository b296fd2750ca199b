package access

import (
	"context"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	apperrors "github.com/credvault/credvault/internal/errors"
	identityDomain "github.com/credvault/credvault/internal/identity/domain"
	vaultDomain "github.com/credvault/credvault/internal/vault/domain"
)

// UserRepository loads the caller's stored user record.
type UserRepository interface {
	Get(ctx context.Context, userID uuid.UUID) (*identityDomain.User, error)
}

// FolderRepository batch-loads folders referenced by grants or credentials.
type FolderRepository interface {
	GetByIDs(ctx context.Context, folderIDs []uuid.UUID) ([]*vaultDomain.Folder, error)
}

// CollectionRepository batch-loads collections referenced by grants, folders
// or credentials.
type CollectionRepository interface {
	GetByIDs(ctx context.Context, collectionIDs []uuid.UUID) ([]*vaultDomain.Collection, error)
}

// Resolver is the single authorization component consumed by every handler
// and usecase that exposes vault entities.
type Resolver struct {
	userRepository       UserRepository
	folderRepository     FolderRepository
	collectionRepository CollectionRepository
}

// ResolveScope turns a verified token identity into an authorization scope.
// Permission grants are always re-read from storage; the token is trusted for
// identity only. A missing or inactive user, or a company mismatch between
// token and stored record, is a hard forbidden stop.
func (r *Resolver) ResolveScope(
	ctx context.Context,
	identity identityDomain.Identity,
) (*Scope, error) {
	user, err := r.userRepository.Get(ctx, identity.UserID)
	if err != nil {
		if apperrors.Is(err, apperrors.ErrNotFound) {
			return nil, ErrCallerUnknown
		}
		return nil, apperrors.Wrap(err, "failed to load caller")
	}

	if !user.IsActive {
		return nil, identityDomain.ErrUserInactive
	}
	if user.Role != identityDomain.RoleMasterAdmin && user.CompanyID != identity.CompanyID {
		return nil, ErrCompanyMismatch
	}

	scope := NewScope(user.ID, user.Role, user.CompanyID, user.Permissions)

	if user.Role != identityDomain.RoleCompanyUser {
		return scope, nil
	}

	if user.Permissions.Empty() {
		return scope, nil
	}

	// Batch-fetch granted folders and collections concurrently; the two
	// lookups are independent.
	var folders []*vaultDomain.Folder
	var collections []*vaultDomain.Collection

	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(func() error {
		var err error
		folders, err = r.folderRepository.GetByIDs(groupCtx, user.Permissions.Folders)
		return err
	})
	group.Go(func() error {
		var err error
		collections, err = r.collectionRepository.GetByIDs(groupCtx, user.Permissions.Collections)
		return err
	})
	if err := group.Wait(); err != nil {
		return nil, apperrors.Wrap(err, "failed to load granted entities")
	}

	collectionsByID := collectionsByID(collections)
	for _, collection := range collections {
		if scope.collectionChainValid(collection) {
			scope.ValidCollectionIDs = append(scope.ValidCollectionIDs, collection.ID)
		}
	}
	for _, folder := range folders {
		if scope.folderChainValid(folder, collectionsByID) {
			scope.ValidFolderIDs = append(scope.ValidFolderIDs, folder.ID)
		}
	}

	return scope, nil
}

// FilterCredentials is the strict second pass. Every candidate produced by
// the broad filter is re-validated against freshly loaded folder and
// collection records before being surfaced; the broad filter is treated as a
// query optimization, never as the visibility decision.
func (r *Resolver) FilterCredentials(
	ctx context.Context,
	scope *Scope,
	credentials []*vaultDomain.Credential,
) ([]*vaultDomain.Credential, error) {
	if len(credentials) == 0 {
		return nil, nil
	}

	if scope.AllCompanies() {
		return credentials, nil
	}

	if scope.CompanyWide() {
		var allowed []*vaultDomain.Credential
		for _, credential := range credentials {
			if credential.CompanyID == scope.CompanyID {
				allowed = append(allowed, credential)
			}
		}
		return allowed, nil
	}

	folders, collections, err := r.loadCredentialChains(ctx, credentials)
	if err != nil {
		return nil, err
	}

	var allowed []*vaultDomain.Credential
	for _, credential := range credentials {
		if scope.credentialChainValid(credential, folders, collections) {
			allowed = append(allowed, credential)
		}
	}
	return allowed, nil
}

// AllowCredential applies the strict check to a single credential. Denial is
// an explicit forbidden error so single-item endpoints stay distinguishable
// from not-found.
func (r *Resolver) AllowCredential(
	ctx context.Context,
	scope *Scope,
	credential *vaultDomain.Credential,
) error {
	allowed, err := r.FilterCredentials(ctx, scope, []*vaultDomain.Credential{credential})
	if err != nil {
		return err
	}
	if len(allowed) == 0 {
		return ErrCredentialDenied
	}
	return nil
}

// loadCredentialChains fetches the folder and collection records referenced
// by a candidate set. Folder lookups and the folder-less credentials' direct
// collection lookups run concurrently; collections referenced by the fetched
// folders are loaded in one follow-up batch.
func (r *Resolver) loadCredentialChains(
	ctx context.Context,
	credentials []*vaultDomain.Credential,
) (map[uuid.UUID]*vaultDomain.Folder, map[uuid.UUID]*vaultDomain.Collection, error) {
	folderIDs := make(map[uuid.UUID]struct{})
	collectionIDs := make(map[uuid.UUID]struct{})
	for _, credential := range credentials {
		if credential.FolderID != nil {
			folderIDs[*credential.FolderID] = struct{}{}
		} else if credential.CollectionID != nil {
			collectionIDs[*credential.CollectionID] = struct{}{}
		}
	}

	var folders []*vaultDomain.Folder
	var collections []*vaultDomain.Collection

	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(func() error {
		var err error
		folders, err = r.folderRepository.GetByIDs(groupCtx, uuidSetToSlice(folderIDs))
		return err
	})
	group.Go(func() error {
		var err error
		collections, err = r.collectionRepository.GetByIDs(groupCtx, uuidSetToSlice(collectionIDs))
		return err
	})
	if err := group.Wait(); err != nil {
		return nil, nil, apperrors.Wrap(err, "failed to load credential chains")
	}

	collectionMap := collectionsByID(collections)

	var missing []uuid.UUID
	for _, folder := range folders {
		if folder.CollectionID != nil {
			if _, ok := collectionMap[*folder.CollectionID]; !ok {
				missing = append(missing, *folder.CollectionID)
			}
		}
	}
	if len(missing) > 0 {
		more, err := r.collectionRepository.GetByIDs(ctx, missing)
		if err != nil {
			return nil, nil, apperrors.Wrap(err, "failed to load folder collections")
		}
		for _, collection := range more {
			collectionMap[collection.ID] = collection
		}
	}

	folderMap := make(map[uuid.UUID]*vaultDomain.Folder, len(folders))
	for _, folder := range folders {
		folderMap[folder.ID] = folder
	}

	return folderMap, collectionMap, nil
}

func collectionsByID(collections []*vaultDomain.Collection) map[uuid.UUID]*vaultDomain.Collection {
	m := make(map[uuid.UUID]*vaultDomain.Collection, len(collections))
	for _, collection := range collections {
		m[collection.ID] = collection
	}
	return m
}

func uuidSetToSlice(set map[uuid.UUID]struct{}) []uuid.UUID {
	if len(set) == 0 {
		return nil
	}
	ids := make([]uuid.UUID, 0, len(set))
	for id := range set {
		ids = append(ids, id)
	}
	return ids
}

// NewResolver creates a new permission resolver instance.
func NewResolver(
	userRepository UserRepository,
	folderRepository FolderRepository,
	collectionRepository CollectionRepository,
) *Resolver {
	return &Resolver{
		userRepository:       userRepository,
		folderRepository:     folderRepository,
		collectionRepository: collectionRepository,
	}
}
