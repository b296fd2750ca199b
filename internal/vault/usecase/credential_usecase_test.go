package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/credvault/credvault/internal/access"
	cryptoDomain "github.com/credvault/credvault/internal/crypto/domain"
	cryptoServiceMocks "github.com/credvault/credvault/internal/crypto/service/mocks"
	databaseMocks "github.com/credvault/credvault/internal/database/mocks"
	apperrors "github.com/credvault/credvault/internal/errors"
	identityDomain "github.com/credvault/credvault/internal/identity/domain"
	vaultDomain "github.com/credvault/credvault/internal/vault/domain"
	vaultUsecaseMocks "github.com/credvault/credvault/internal/vault/usecase/mocks"
)

type credentialFixture struct {
	txManager        *databaseMocks.MockTxManager
	credentialRepo   *vaultUsecaseMocks.MockCredentialRepository
	organizationRepo *vaultUsecaseMocks.MockOrganizationRepository
	collectionRepo   *vaultUsecaseMocks.MockCollectionRepository
	folderRepo       *vaultUsecaseMocks.MockFolderRepository
	trashRepo        *vaultUsecaseMocks.MockTrashRepository
	dekRepo          *vaultUsecaseMocks.MockDekRepository
	resolver         *vaultUsecaseMocks.MockScopeResolver
	aeadManager      *cryptoServiceMocks.MockAEADManager
	keyManager       *cryptoServiceMocks.MockKeyManager
	kek              *cryptoDomain.Kek
	kekChain         *cryptoDomain.KekChain
	usecase          CredentialUseCase
}

func newCredentialFixture(t *testing.T) *credentialFixture {
	t.Helper()

	f := &credentialFixture{
		txManager:        &databaseMocks.MockTxManager{},
		credentialRepo:   &vaultUsecaseMocks.MockCredentialRepository{},
		organizationRepo: &vaultUsecaseMocks.MockOrganizationRepository{},
		collectionRepo:   &vaultUsecaseMocks.MockCollectionRepository{},
		folderRepo:       &vaultUsecaseMocks.MockFolderRepository{},
		trashRepo:        &vaultUsecaseMocks.MockTrashRepository{},
		dekRepo:          &vaultUsecaseMocks.MockDekRepository{},
		resolver:         &vaultUsecaseMocks.MockScopeResolver{},
		aeadManager:      &cryptoServiceMocks.MockAEADManager{},
		keyManager:       &cryptoServiceMocks.MockKeyManager{},
	}

	f.kek = &cryptoDomain.Kek{
		ID:        uuid.Must(uuid.NewV7()),
		Algorithm: cryptoDomain.AESGCM,
		Key:       make([]byte, 32),
		Version:   1,
		CreatedAt: time.Now().UTC(),
	}
	f.kekChain = cryptoDomain.NewKekChain([]*cryptoDomain.Kek{f.kek})
	t.Cleanup(f.kekChain.Close)

	f.usecase = NewCredentialUseCase(
		f.txManager,
		f.credentialRepo,
		f.organizationRepo,
		f.collectionRepo,
		f.folderRepo,
		f.trashRepo,
		f.dekRepo,
		f.resolver,
		f.kekChain,
		f.aeadManager,
		f.keyManager,
		cryptoDomain.AESGCM,
	)
	return f
}

func (f *credentialFixture) expectEncrypt(t *testing.T) cryptoDomain.Dek {
	t.Helper()

	dek := cryptoDomain.Dek{
		ID:        uuid.Must(uuid.NewV7()),
		KekID:     f.kek.ID,
		Algorithm: cryptoDomain.AESGCM,
		CreatedAt: time.Now().UTC(),
	}
	cipher := &cryptoServiceMocks.MockAEAD{}
	dekKey := make([]byte, 32)

	f.keyManager.On("CreateDek", f.kek, cryptoDomain.AESGCM).Return(dek, nil)
	f.dekRepo.On("Create", mock.Anything, &dek).Return(nil)
	f.keyManager.On("DecryptDek", &dek, f.kek).Return(dekKey, nil)
	f.aeadManager.On("CreateCipher", mock.Anything, cryptoDomain.AESGCM).Return(cipher, nil)
	cipher.On("Encrypt", mock.Anything, mock.Anything).Return([]byte("ct"), []byte("nonce"), nil)
	return dek
}

func TestCredentialUseCase_Create(t *testing.T) {
	ctx := context.Background()
	identity := identityDomain.Identity{UserID: uuid.Must(uuid.NewV7())}

	t.Run("SuperAdminSuccess", func(t *testing.T) {
		f := newCredentialFixture(t)

		companyID := uuid.Must(uuid.NewV7())
		scope := &access.Scope{
			UserID:    identity.UserID,
			Role:      identityDomain.RoleCompanySuperAdmin,
			CompanyID: companyID,
		}
		f.resolver.On("ResolveScope", ctx, identity).Return(scope, nil)
		f.txManager.On("WithTx", ctx, mock.Anything).Return(nil)
		dek := f.expectEncrypt(t)
		f.credentialRepo.On("Create", mock.Anything, mock.MatchedBy(func(c *vaultDomain.Credential) bool {
			return c.CompanyID == companyID &&
				c.DekID == dek.ID &&
				c.Name == "Example App" &&
				len(c.UsernameCiphertext) > 0 &&
				len(c.SecretCiphertext) > 0
		})).Return(nil)

		credential, err := f.usecase.Create(ctx, identity, &vaultDomain.CreateCredentialInput{
			Name:     "Example App",
			URLs:     []string{"https://app.example.com"},
			Username: "alice",
			Secret:   "hunter2",
		})
		require.NoError(t, err)
		assert.Equal(t, companyID, credential.CompanyID)
		assert.Equal(t, dek.ID, credential.DekID)
		f.credentialRepo.AssertExpectations(t)
	})

	t.Run("CompanyUserOutsideGrantsDenied", func(t *testing.T) {
		f := newCredentialFixture(t)

		folderID := uuid.Must(uuid.NewV7())
		companyID := uuid.Must(uuid.NewV7())
		scope := &access.Scope{
			UserID:    identity.UserID,
			Role:      identityDomain.RoleCompanyUser,
			CompanyID: companyID,
		}
		f.resolver.On("ResolveScope", ctx, identity).Return(scope, nil)
		f.folderRepo.On("Get", ctx, folderID).Return(&vaultDomain.Folder{
			ID:        folderID,
			CompanyID: companyID,
		}, nil)
		f.resolver.On("AllowCredential", ctx, scope, mock.Anything).
			Return(access.ErrCredentialDenied)

		credential, err := f.usecase.Create(ctx, identity, &vaultDomain.CreateCredentialInput{
			FolderID: &folderID,
			Name:     "Example App",
		})
		assert.Nil(t, credential)
		assert.ErrorIs(t, err, apperrors.ErrForbidden)
	})

	t.Run("CrossCompanyFolderRejected", func(t *testing.T) {
		f := newCredentialFixture(t)

		folderID := uuid.Must(uuid.NewV7())
		scope := &access.Scope{
			UserID:    identity.UserID,
			Role:      identityDomain.RoleCompanySuperAdmin,
			CompanyID: uuid.Must(uuid.NewV7()),
		}
		f.resolver.On("ResolveScope", ctx, identity).Return(scope, nil)
		f.folderRepo.On("Get", ctx, folderID).Return(&vaultDomain.Folder{
			ID:        folderID,
			CompanyID: uuid.Must(uuid.NewV7()),
		}, nil)

		credential, err := f.usecase.Create(ctx, identity, &vaultDomain.CreateCredentialInput{
			FolderID: &folderID,
			Name:     "Example App",
		})
		assert.Nil(t, credential)
		assert.ErrorIs(t, err, vaultDomain.ErrCrossCompanyReference)
	})
}

func TestCredentialUseCase_Get(t *testing.T) {
	ctx := context.Background()
	identity := identityDomain.Identity{UserID: uuid.Must(uuid.NewV7())}

	t.Run("DecryptsFields", func(t *testing.T) {
		f := newCredentialFixture(t)

		companyID := uuid.Must(uuid.NewV7())
		scope := &access.Scope{
			UserID:    identity.UserID,
			Role:      identityDomain.RoleCompanySuperAdmin,
			CompanyID: companyID,
		}
		dek := &cryptoDomain.Dek{
			ID:        uuid.Must(uuid.NewV7()),
			KekID:     f.kek.ID,
			Algorithm: cryptoDomain.AESGCM,
		}
		credential := &vaultDomain.Credential{
			ID:                 uuid.Must(uuid.NewV7()),
			CompanyID:          companyID,
			Name:               "Example App",
			DekID:              dek.ID,
			UsernameCiphertext: []byte("u-ct"),
			UsernameNonce:      []byte("u-n"),
			SecretCiphertext:   []byte("s-ct"),
			SecretNonce:        []byte("s-n"),
			NotesCiphertext:    []byte("n-ct"),
			NotesNonce:         []byte("n-n"),
		}

		f.resolver.On("ResolveScope", ctx, identity).Return(scope, nil)
		f.credentialRepo.On("Get", ctx, credential.ID).Return(credential, nil)
		f.resolver.On("AllowCredential", ctx, scope, credential).Return(nil)
		f.dekRepo.On("Get", ctx, dek.ID).Return(dek, nil)

		dekKey := make([]byte, 32)
		cipher := &cryptoServiceMocks.MockAEAD{}
		f.keyManager.On("DecryptDek", dek, f.kek).Return(dekKey, nil)
		f.aeadManager.On("CreateCipher", mock.Anything, cryptoDomain.AESGCM).Return(cipher, nil)
		cipher.On("Decrypt", []byte("u-ct"), []byte("u-n"), mock.Anything).Return([]byte("alice"), nil)
		cipher.On("Decrypt", []byte("s-ct"), []byte("s-n"), mock.Anything).Return([]byte("hunter2"), nil)
		cipher.On("Decrypt", []byte("n-ct"), []byte("n-n"), mock.Anything).Return([]byte("vpn notes"), nil)

		got, err := f.usecase.Get(ctx, identity, credential.ID)
		require.NoError(t, err)
		assert.Equal(t, "alice", got.Username)
		assert.Equal(t, "hunter2", got.Secret)
		assert.Equal(t, "vpn notes", got.Notes)
		assert.Equal(t, "Example App (alice)", got.Label())
	})

	t.Run("DeniedIsForbiddenNotNotFound", func(t *testing.T) {
		f := newCredentialFixture(t)

		scope := &access.Scope{UserID: identity.UserID, Role: identityDomain.RoleCompanyUser}
		credential := &vaultDomain.Credential{ID: uuid.Must(uuid.NewV7())}

		f.resolver.On("ResolveScope", ctx, identity).Return(scope, nil)
		f.credentialRepo.On("Get", ctx, credential.ID).Return(credential, nil)
		f.resolver.On("AllowCredential", ctx, scope, credential).
			Return(access.ErrCredentialDenied)

		got, err := f.usecase.Get(ctx, identity, credential.ID)
		assert.Nil(t, got)
		assert.ErrorIs(t, err, apperrors.ErrForbidden)
		assert.False(t, apperrors.Is(err, apperrors.ErrNotFound))
	})

	t.Run("MissingIsNotFound", func(t *testing.T) {
		f := newCredentialFixture(t)

		scope := &access.Scope{UserID: identity.UserID, Role: identityDomain.RoleCompanySuperAdmin}
		credentialID := uuid.Must(uuid.NewV7())

		f.resolver.On("ResolveScope", ctx, identity).Return(scope, nil)
		f.credentialRepo.On("Get", ctx, credentialID).Return(nil, vaultDomain.ErrCredentialNotFound)

		got, err := f.usecase.Get(ctx, identity, credentialID)
		assert.Nil(t, got)
		assert.ErrorIs(t, err, apperrors.ErrNotFound)
	})
}

func TestCredentialUseCase_List(t *testing.T) {
	ctx := context.Background()
	identity := identityDomain.Identity{UserID: uuid.Must(uuid.NewV7())}

	t.Run("CompanyUserGoesThroughBothPasses", func(t *testing.T) {
		f := newCredentialFixture(t)

		companyID := uuid.Must(uuid.NewV7())
		scope := &access.Scope{
			UserID:         identity.UserID,
			Role:           identityDomain.RoleCompanyUser,
			CompanyID:      companyID,
			ValidFolderIDs: []uuid.UUID{uuid.Must(uuid.NewV7())},
		}
		candidates := []*vaultDomain.Credential{
			{ID: uuid.Must(uuid.NewV7()), CompanyID: companyID},
			{ID: uuid.Must(uuid.NewV7()), CompanyID: companyID},
		}
		filtered := candidates[:1]

		f.resolver.On("ResolveScope", ctx, identity).Return(scope, nil)
		f.credentialRepo.On("Search", ctx, scope.Search("")).Return(candidates, nil)
		f.resolver.On("FilterCredentials", ctx, scope, candidates).Return(filtered, nil)

		credentials, err := f.usecase.List(ctx, identity, 0, 50)
		require.NoError(t, err)
		assert.Equal(t, filtered, credentials)
	})
}

func TestCredentialUseCase_Delete(t *testing.T) {
	ctx := context.Background()
	identity := identityDomain.Identity{UserID: uuid.Must(uuid.NewV7())}

	f := newCredentialFixture(t)

	companyID := uuid.Must(uuid.NewV7())
	scope := &access.Scope{
		UserID:    identity.UserID,
		Role:      identityDomain.RoleCompanySuperAdmin,
		CompanyID: companyID,
	}
	credential := &vaultDomain.Credential{
		ID:        uuid.Must(uuid.NewV7()),
		CompanyID: companyID,
		Name:      "Example App",
	}

	f.resolver.On("ResolveScope", ctx, identity).Return(scope, nil)
	f.credentialRepo.On("Get", ctx, credential.ID).Return(credential, nil)
	f.resolver.On("AllowCredential", ctx, scope, credential).Return(nil)
	f.txManager.On("WithTx", ctx, mock.Anything).Return(nil)
	f.trashRepo.On("Create", mock.Anything, mock.MatchedBy(func(record *vaultDomain.TrashRecord) bool {
		return record.EntityType == vaultDomain.EntityCredential &&
			record.EntityID == credential.ID &&
			record.CompanyID == companyID &&
			record.DeletedBy == identity.UserID
	})).Return(nil)
	f.credentialRepo.On("Delete", mock.Anything, credential.ID).Return(nil)

	err := f.usecase.Delete(ctx, identity, credential.ID)
	require.NoError(t, err)
	f.trashRepo.AssertExpectations(t)
	f.credentialRepo.AssertExpectations(t)
}
