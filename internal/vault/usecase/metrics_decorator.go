package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	identityDomain "github.com/credvault/credvault/internal/identity/domain"
	"github.com/credvault/credvault/internal/metrics"
	vaultDomain "github.com/credvault/credvault/internal/vault/domain"
)

// organizationUseCaseWithMetrics decorates OrganizationUseCase with metrics
// instrumentation.
type organizationUseCaseWithMetrics struct {
	next    OrganizationUseCase
	metrics metrics.BusinessMetrics
}

// NewOrganizationUseCaseWithMetrics wraps an OrganizationUseCase with metrics recording.
func NewOrganizationUseCaseWithMetrics(useCase OrganizationUseCase, m metrics.BusinessMetrics) OrganizationUseCase {
	return &organizationUseCaseWithMetrics{
		next:    useCase,
		metrics: m,
	}
}

func (o *organizationUseCaseWithMetrics) record(ctx context.Context, operation string, start time.Time, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}

	o.metrics.RecordOperation(ctx, "vault", operation, status)
	o.metrics.RecordDuration(ctx, "vault", operation, time.Since(start), status)
}

func (o *organizationUseCaseWithMetrics) Create(
	ctx context.Context,
	identity identityDomain.Identity,
	input *vaultDomain.CreateOrganizationInput,
) (*vaultDomain.Organization, error) {
	start := time.Now()
	organization, err := o.next.Create(ctx, identity, input)
	o.record(ctx, "organization_create", start, err)
	return organization, err
}

func (o *organizationUseCaseWithMetrics) Get(
	ctx context.Context,
	identity identityDomain.Identity,
	organizationID uuid.UUID,
) (*vaultDomain.Organization, error) {
	start := time.Now()
	organization, err := o.next.Get(ctx, identity, organizationID)
	o.record(ctx, "organization_get", start, err)
	return organization, err
}

func (o *organizationUseCaseWithMetrics) List(
	ctx context.Context,
	identity identityDomain.Identity,
	offset, limit int,
) ([]*vaultDomain.Organization, error) {
	start := time.Now()
	organizations, err := o.next.List(ctx, identity, offset, limit)
	o.record(ctx, "organization_list", start, err)
	return organizations, err
}

func (o *organizationUseCaseWithMetrics) Update(
	ctx context.Context,
	identity identityDomain.Identity,
	organizationID uuid.UUID,
	input *vaultDomain.UpdateOrganizationInput,
) (*vaultDomain.Organization, error) {
	start := time.Now()
	organization, err := o.next.Update(ctx, identity, organizationID, input)
	o.record(ctx, "organization_update", start, err)
	return organization, err
}

func (o *organizationUseCaseWithMetrics) Delete(
	ctx context.Context,
	identity identityDomain.Identity,
	organizationID uuid.UUID,
) error {
	start := time.Now()
	err := o.next.Delete(ctx, identity, organizationID)
	o.record(ctx, "organization_delete", start, err)
	return err
}

// collectionUseCaseWithMetrics decorates CollectionUseCase with metrics
// instrumentation.
type collectionUseCaseWithMetrics struct {
	next    CollectionUseCase
	metrics metrics.BusinessMetrics
}

// NewCollectionUseCaseWithMetrics wraps a CollectionUseCase with metrics recording.
func NewCollectionUseCaseWithMetrics(useCase CollectionUseCase, m metrics.BusinessMetrics) CollectionUseCase {
	return &collectionUseCaseWithMetrics{
		next:    useCase,
		metrics: m,
	}
}

func (c *collectionUseCaseWithMetrics) record(ctx context.Context, operation string, start time.Time, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}

	c.metrics.RecordOperation(ctx, "vault", operation, status)
	c.metrics.RecordDuration(ctx, "vault", operation, time.Since(start), status)
}

func (c *collectionUseCaseWithMetrics) Create(
	ctx context.Context,
	identity identityDomain.Identity,
	input *vaultDomain.CreateCollectionInput,
) (*vaultDomain.Collection, error) {
	start := time.Now()
	collection, err := c.next.Create(ctx, identity, input)
	c.record(ctx, "collection_create", start, err)
	return collection, err
}

func (c *collectionUseCaseWithMetrics) Get(
	ctx context.Context,
	identity identityDomain.Identity,
	collectionID uuid.UUID,
) (*vaultDomain.Collection, error) {
	start := time.Now()
	collection, err := c.next.Get(ctx, identity, collectionID)
	c.record(ctx, "collection_get", start, err)
	return collection, err
}

func (c *collectionUseCaseWithMetrics) List(
	ctx context.Context,
	identity identityDomain.Identity,
	offset, limit int,
) ([]*vaultDomain.Collection, error) {
	start := time.Now()
	collections, err := c.next.List(ctx, identity, offset, limit)
	c.record(ctx, "collection_list", start, err)
	return collections, err
}

func (c *collectionUseCaseWithMetrics) Update(
	ctx context.Context,
	identity identityDomain.Identity,
	collectionID uuid.UUID,
	input *vaultDomain.UpdateCollectionInput,
) (*vaultDomain.Collection, error) {
	start := time.Now()
	collection, err := c.next.Update(ctx, identity, collectionID, input)
	c.record(ctx, "collection_update", start, err)
	return collection, err
}

func (c *collectionUseCaseWithMetrics) Delete(
	ctx context.Context,
	identity identityDomain.Identity,
	collectionID uuid.UUID,
) error {
	start := time.Now()
	err := c.next.Delete(ctx, identity, collectionID)
	c.record(ctx, "collection_delete", start, err)
	return err
}

// folderUseCaseWithMetrics decorates FolderUseCase with metrics instrumentation.
type folderUseCaseWithMetrics struct {
	next    FolderUseCase
	metrics metrics.BusinessMetrics
}

// NewFolderUseCaseWithMetrics wraps a FolderUseCase with metrics recording.
func NewFolderUseCaseWithMetrics(useCase FolderUseCase, m metrics.BusinessMetrics) FolderUseCase {
	return &folderUseCaseWithMetrics{
		next:    useCase,
		metrics: m,
	}
}

func (f *folderUseCaseWithMetrics) record(ctx context.Context, operation string, start time.Time, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}

	f.metrics.RecordOperation(ctx, "vault", operation, status)
	f.metrics.RecordDuration(ctx, "vault", operation, time.Since(start), status)
}

func (f *folderUseCaseWithMetrics) Create(
	ctx context.Context,
	identity identityDomain.Identity,
	input *vaultDomain.CreateFolderInput,
) (*vaultDomain.Folder, error) {
	start := time.Now()
	folder, err := f.next.Create(ctx, identity, input)
	f.record(ctx, "folder_create", start, err)
	return folder, err
}

func (f *folderUseCaseWithMetrics) Get(
	ctx context.Context,
	identity identityDomain.Identity,
	folderID uuid.UUID,
) (*vaultDomain.Folder, error) {
	start := time.Now()
	folder, err := f.next.Get(ctx, identity, folderID)
	f.record(ctx, "folder_get", start, err)
	return folder, err
}

func (f *folderUseCaseWithMetrics) List(
	ctx context.Context,
	identity identityDomain.Identity,
	offset, limit int,
) ([]*vaultDomain.Folder, error) {
	start := time.Now()
	folders, err := f.next.List(ctx, identity, offset, limit)
	f.record(ctx, "folder_list", start, err)
	return folders, err
}

func (f *folderUseCaseWithMetrics) Update(
	ctx context.Context,
	identity identityDomain.Identity,
	folderID uuid.UUID,
	input *vaultDomain.UpdateFolderInput,
) (*vaultDomain.Folder, error) {
	start := time.Now()
	folder, err := f.next.Update(ctx, identity, folderID, input)
	f.record(ctx, "folder_update", start, err)
	return folder, err
}

func (f *folderUseCaseWithMetrics) Delete(
	ctx context.Context,
	identity identityDomain.Identity,
	folderID uuid.UUID,
) error {
	start := time.Now()
	err := f.next.Delete(ctx, identity, folderID)
	f.record(ctx, "folder_delete", start, err)
	return err
}

// credentialUseCaseWithMetrics decorates CredentialUseCase with metrics
// instrumentation. Decryption happens inside Get, so its duration covers the
// full unwrap path.
type credentialUseCaseWithMetrics struct {
	next    CredentialUseCase
	metrics metrics.BusinessMetrics
}

// NewCredentialUseCaseWithMetrics wraps a CredentialUseCase with metrics recording.
func NewCredentialUseCaseWithMetrics(useCase CredentialUseCase, m metrics.BusinessMetrics) CredentialUseCase {
	return &credentialUseCaseWithMetrics{
		next:    useCase,
		metrics: m,
	}
}

func (c *credentialUseCaseWithMetrics) record(ctx context.Context, operation string, start time.Time, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}

	c.metrics.RecordOperation(ctx, "vault", operation, status)
	c.metrics.RecordDuration(ctx, "vault", operation, time.Since(start), status)
}

func (c *credentialUseCaseWithMetrics) Create(
	ctx context.Context,
	identity identityDomain.Identity,
	input *vaultDomain.CreateCredentialInput,
) (*vaultDomain.Credential, error) {
	start := time.Now()
	credential, err := c.next.Create(ctx, identity, input)
	c.record(ctx, "credential_create", start, err)
	return credential, err
}

func (c *credentialUseCaseWithMetrics) Get(
	ctx context.Context,
	identity identityDomain.Identity,
	credentialID uuid.UUID,
) (*vaultDomain.Credential, error) {
	start := time.Now()
	credential, err := c.next.Get(ctx, identity, credentialID)
	c.record(ctx, "credential_get", start, err)
	return credential, err
}

func (c *credentialUseCaseWithMetrics) List(
	ctx context.Context,
	identity identityDomain.Identity,
	offset, limit int,
) ([]*vaultDomain.Credential, error) {
	start := time.Now()
	credentials, err := c.next.List(ctx, identity, offset, limit)
	c.record(ctx, "credential_list", start, err)
	return credentials, err
}

func (c *credentialUseCaseWithMetrics) Update(
	ctx context.Context,
	identity identityDomain.Identity,
	credentialID uuid.UUID,
	input *vaultDomain.UpdateCredentialInput,
) (*vaultDomain.Credential, error) {
	start := time.Now()
	credential, err := c.next.Update(ctx, identity, credentialID, input)
	c.record(ctx, "credential_update", start, err)
	return credential, err
}

func (c *credentialUseCaseWithMetrics) Delete(
	ctx context.Context,
	identity identityDomain.Identity,
	credentialID uuid.UUID,
) error {
	start := time.Now()
	err := c.next.Delete(ctx, identity, credentialID)
	c.record(ctx, "credential_delete", start, err)
	return err
}

// trashUseCaseWithMetrics decorates TrashUseCase with metrics instrumentation.
type trashUseCaseWithMetrics struct {
	next    TrashUseCase
	metrics metrics.BusinessMetrics
}

// NewTrashUseCaseWithMetrics wraps a TrashUseCase with metrics recording.
func NewTrashUseCaseWithMetrics(useCase TrashUseCase, m metrics.BusinessMetrics) TrashUseCase {
	return &trashUseCaseWithMetrics{
		next:    useCase,
		metrics: m,
	}
}

func (t *trashUseCaseWithMetrics) record(ctx context.Context, operation string, start time.Time, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}

	t.metrics.RecordOperation(ctx, "vault", operation, status)
	t.metrics.RecordDuration(ctx, "vault", operation, time.Since(start), status)
}

func (t *trashUseCaseWithMetrics) List(
	ctx context.Context,
	identity identityDomain.Identity,
	offset, limit int,
) ([]*vaultDomain.TrashRecord, error) {
	start := time.Now()
	records, err := t.next.List(ctx, identity, offset, limit)
	t.record(ctx, "trash_list", start, err)
	return records, err
}

func (t *trashUseCaseWithMetrics) Restore(
	ctx context.Context,
	identity identityDomain.Identity,
	recordID uuid.UUID,
) error {
	start := time.Now()
	err := t.next.Restore(ctx, identity, recordID)
	t.record(ctx, "trash_restore", start, err)
	return err
}

func (t *trashUseCaseWithMetrics) Purge(
	ctx context.Context,
	identity identityDomain.Identity,
	recordID uuid.UUID,
) error {
	start := time.Now()
	err := t.next.Purge(ctx, identity, recordID)
	t.record(ctx, "trash_purge", start, err)
	return err
}
