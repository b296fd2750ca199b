package usecase

import (
	"context"
	"encoding/base64"
	"errors"
	"os"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	cryptoDomain "github.com/credvault/credvault/internal/crypto/domain"
	serviceMocks "github.com/credvault/credvault/internal/crypto/service/mocks"
	usecaseMocks "github.com/credvault/credvault/internal/crypto/usecase/mocks"
	databaseMocks "github.com/credvault/credvault/internal/database/mocks"
)

// createMasterKeyChain builds a real MasterKeyChain through the environment
// loader so tests exercise the same path the application uses.
func createMasterKeyChain(t *testing.T, activeID string, masterKey *cryptoDomain.MasterKey) *cryptoDomain.MasterKeyChain {
	t.Helper()

	encodedKey := base64.StdEncoding.EncodeToString(masterKey.Key)
	t.Setenv("MASTER_KEYS", masterKey.ID+":"+encodedKey)
	t.Setenv("ACTIVE_MASTER_KEY_ID", activeID)

	mkc, err := cryptoDomain.LoadMasterKeyChainFromEnv()
	require.NoError(t, err)
	return mkc
}

func TestKekUseCase_Create(t *testing.T) {
	ctx := context.Background()
	masterKeyID := "test-master-key"
	masterKey := &cryptoDomain.MasterKey{ID: masterKeyID, Key: make([]byte, 32)}

	t.Run("Success", func(t *testing.T) {
		kekRepo := &usecaseMocks.MockKekRepository{}
		keyManager := &serviceMocks.MockKeyManager{}
		uc := NewKekUseCase(&databaseMocks.MockTxManager{}, kekRepo, keyManager)

		masterKeyChain := createMasterKeyChain(t, masterKeyID, masterKey)
		defer masterKeyChain.Close()

		createdKek := cryptoDomain.Kek{
			ID:           uuid.Must(uuid.NewV7()),
			MasterKeyID:  masterKeyID,
			Algorithm:    cryptoDomain.AESGCM,
			EncryptedKey: []byte("encrypted-kek"),
			Nonce:        []byte("nonce"),
			Version:      1,
		}

		keyManager.On("CreateKek", mock.MatchedBy(func(mk *cryptoDomain.MasterKey) bool {
			return mk.ID == masterKeyID
		}), cryptoDomain.AESGCM).Return(createdKek, nil)
		kekRepo.On("Create", ctx, mock.MatchedBy(func(kek *cryptoDomain.Kek) bool {
			return kek.ID == createdKek.ID && kek.MasterKeyID == masterKeyID
		})).Return(nil)

		err := uc.Create(ctx, masterKeyChain, cryptoDomain.AESGCM)
		assert.NoError(t, err)
		kekRepo.AssertExpectations(t)
		keyManager.AssertExpectations(t)
	})

	t.Run("ActiveMasterKeyMissingFailsAtLoad", func(t *testing.T) {
		encodedKey := base64.StdEncoding.EncodeToString(masterKey.Key)
		t.Setenv("MASTER_KEYS", masterKeyID+":"+encodedKey)
		t.Setenv("ACTIVE_MASTER_KEY_ID", "non-existent-key")

		masterKeyChain, err := cryptoDomain.LoadMasterKeyChainFromEnv()
		assert.Error(t, err)
		assert.Nil(t, masterKeyChain)
		assert.Contains(t, err.Error(), "active master key not found")
	})

	t.Run("KeyManagerError", func(t *testing.T) {
		keyManager := &serviceMocks.MockKeyManager{}
		uc := NewKekUseCase(&databaseMocks.MockTxManager{}, &usecaseMocks.MockKekRepository{}, keyManager)

		masterKeyChain := createMasterKeyChain(t, masterKeyID, masterKey)
		defer masterKeyChain.Close()

		keyManager.On("CreateKek", mock.Anything, cryptoDomain.AESGCM).
			Return(cryptoDomain.Kek{}, cryptoDomain.ErrUnsupportedAlgorithm)

		err := uc.Create(ctx, masterKeyChain, cryptoDomain.AESGCM)
		assert.ErrorIs(t, err, cryptoDomain.ErrUnsupportedAlgorithm)
	})

	t.Run("RepositoryError", func(t *testing.T) {
		kekRepo := &usecaseMocks.MockKekRepository{}
		keyManager := &serviceMocks.MockKeyManager{}
		uc := NewKekUseCase(&databaseMocks.MockTxManager{}, kekRepo, keyManager)

		masterKeyChain := createMasterKeyChain(t, masterKeyID, masterKey)
		defer masterKeyChain.Close()

		expectedErr := errors.New("database error")
		keyManager.On("CreateKek", mock.Anything, cryptoDomain.AESGCM).
			Return(cryptoDomain.Kek{ID: uuid.Must(uuid.NewV7())}, nil)
		kekRepo.On("Create", ctx, mock.Anything).Return(expectedErr)

		err := uc.Create(ctx, masterKeyChain, cryptoDomain.AESGCM)
		assert.ErrorIs(t, err, expectedErr)
	})
}

func TestKekUseCase_Rotate(t *testing.T) {
	ctx := context.Background()
	masterKeyID := "test-master-key"
	masterKey := &cryptoDomain.MasterKey{ID: masterKeyID, Key: make([]byte, 32)}

	t.Run("RotatesExistingKek", func(t *testing.T) {
		txManager := &databaseMocks.MockTxManager{}
		kekRepo := &usecaseMocks.MockKekRepository{}
		keyManager := &serviceMocks.MockKeyManager{}
		uc := NewKekUseCase(txManager, kekRepo, keyManager)

		masterKeyChain := createMasterKeyChain(t, masterKeyID, masterKey)
		defer masterKeyChain.Close()

		currentKek := &cryptoDomain.Kek{
			ID:          uuid.Must(uuid.NewV7()),
			MasterKeyID: masterKeyID,
			Algorithm:   cryptoDomain.AESGCM,
			Version:     3,
		}
		newKek := cryptoDomain.Kek{
			ID:          uuid.Must(uuid.NewV7()),
			MasterKeyID: masterKeyID,
			Algorithm:   cryptoDomain.ChaCha20,
			Version:     1,
		}

		txManager.On("WithTx", ctx, mock.Anything).Return(nil)
		kekRepo.On("List", ctx).Return([]*cryptoDomain.Kek{currentKek}, nil)
		keyManager.On("CreateKek", mock.Anything, cryptoDomain.ChaCha20).Return(newKek, nil)
		kekRepo.On("Create", ctx, mock.MatchedBy(func(kek *cryptoDomain.Kek) bool {
			return kek.Version == 4
		})).Return(nil)

		err := uc.Rotate(ctx, masterKeyChain, cryptoDomain.ChaCha20)
		assert.NoError(t, err)
		kekRepo.AssertExpectations(t)
	})

	t.Run("CreatesFirstKekWhenNoneExist", func(t *testing.T) {
		txManager := &databaseMocks.MockTxManager{}
		kekRepo := &usecaseMocks.MockKekRepository{}
		keyManager := &serviceMocks.MockKeyManager{}
		uc := NewKekUseCase(txManager, kekRepo, keyManager)

		masterKeyChain := createMasterKeyChain(t, masterKeyID, masterKey)
		defer masterKeyChain.Close()

		firstKek := cryptoDomain.Kek{
			ID:          uuid.Must(uuid.NewV7()),
			MasterKeyID: masterKeyID,
			Algorithm:   cryptoDomain.AESGCM,
			Version:     1,
		}

		txManager.On("WithTx", ctx, mock.Anything).Return(nil)
		kekRepo.On("List", ctx).Return([]*cryptoDomain.Kek{}, nil)
		keyManager.On("CreateKek", mock.Anything, cryptoDomain.AESGCM).Return(firstKek, nil)
		kekRepo.On("Create", ctx, mock.MatchedBy(func(kek *cryptoDomain.Kek) bool {
			return kek.Version == 1
		})).Return(nil)

		err := uc.Rotate(ctx, masterKeyChain, cryptoDomain.AESGCM)
		assert.NoError(t, err)
		kekRepo.AssertExpectations(t)
	})

	t.Run("ListError", func(t *testing.T) {
		txManager := &databaseMocks.MockTxManager{}
		kekRepo := &usecaseMocks.MockKekRepository{}
		uc := NewKekUseCase(txManager, kekRepo, &serviceMocks.MockKeyManager{})

		masterKeyChain := createMasterKeyChain(t, masterKeyID, masterKey)
		defer masterKeyChain.Close()

		expectedErr := errors.New("database error")
		txManager.On("WithTx", ctx, mock.Anything).Return(nil)
		kekRepo.On("List", ctx).Return(nil, expectedErr)

		err := uc.Rotate(ctx, masterKeyChain, cryptoDomain.ChaCha20)
		assert.ErrorIs(t, err, expectedErr)
	})

	t.Run("CreateKekError", func(t *testing.T) {
		txManager := &databaseMocks.MockTxManager{}
		kekRepo := &usecaseMocks.MockKekRepository{}
		keyManager := &serviceMocks.MockKeyManager{}
		uc := NewKekUseCase(txManager, kekRepo, keyManager)

		masterKeyChain := createMasterKeyChain(t, masterKeyID, masterKey)
		defer masterKeyChain.Close()

		currentKek := &cryptoDomain.Kek{ID: uuid.Must(uuid.NewV7()), MasterKeyID: masterKeyID, Version: 1}

		txManager.On("WithTx", ctx, mock.Anything).Return(nil)
		kekRepo.On("List", ctx).Return([]*cryptoDomain.Kek{currentKek}, nil)
		keyManager.On("CreateKek", mock.Anything, cryptoDomain.ChaCha20).
			Return(cryptoDomain.Kek{}, cryptoDomain.ErrUnsupportedAlgorithm)

		err := uc.Rotate(ctx, masterKeyChain, cryptoDomain.ChaCha20)
		assert.ErrorIs(t, err, cryptoDomain.ErrUnsupportedAlgorithm)
	})
}

func TestKekUseCase_Unwrap(t *testing.T) {
	ctx := context.Background()
	masterKeyID := "test-master-key"
	masterKey := &cryptoDomain.MasterKey{ID: masterKeyID, Key: make([]byte, 32)}

	t.Run("UnwrapsSingleKek", func(t *testing.T) {
		kekRepo := &usecaseMocks.MockKekRepository{}
		keyManager := &serviceMocks.MockKeyManager{}
		uc := NewKekUseCase(&databaseMocks.MockTxManager{}, kekRepo, keyManager)

		masterKeyChain := createMasterKeyChain(t, masterKeyID, masterKey)
		defer masterKeyChain.Close()

		kek := &cryptoDomain.Kek{
			ID:           uuid.Must(uuid.NewV7()),
			MasterKeyID:  masterKeyID,
			Algorithm:    cryptoDomain.AESGCM,
			EncryptedKey: []byte("encrypted-kek"),
			Nonce:        []byte("nonce"),
			Version:      1,
		}
		decryptedKey := make([]byte, 32)

		kekRepo.On("List", ctx).Return([]*cryptoDomain.Kek{kek}, nil)
		keyManager.On("DecryptKek", kek, mock.MatchedBy(func(mk *cryptoDomain.MasterKey) bool {
			return mk.ID == masterKeyID
		})).Return(decryptedKey, nil)

		kekChain, err := uc.Unwrap(ctx, masterKeyChain)
		require.NoError(t, err)
		assert.Equal(t, kek.ID, kekChain.ActiveKekID())

		unwrapped, found := kekChain.Get(kek.ID)
		assert.True(t, found)
		assert.Equal(t, decryptedKey, unwrapped.Key)
	})

	t.Run("UnwrapsMultipleKeks", func(t *testing.T) {
		kekRepo := &usecaseMocks.MockKekRepository{}
		keyManager := &serviceMocks.MockKeyManager{}
		uc := NewKekUseCase(&databaseMocks.MockTxManager{}, kekRepo, keyManager)

		masterKeyChain := createMasterKeyChain(t, masterKeyID, masterKey)
		defer masterKeyChain.Close()

		kek1 := &cryptoDomain.Kek{ID: uuid.Must(uuid.NewV7()), MasterKeyID: masterKeyID, Version: 2}
		kek2 := &cryptoDomain.Kek{ID: uuid.Must(uuid.NewV7()), MasterKeyID: masterKeyID, Version: 1}

		kekRepo.On("List", ctx).Return([]*cryptoDomain.Kek{kek1, kek2}, nil)
		keyManager.On("DecryptKek", kek1, mock.Anything).Return([]byte("key-1"), nil)
		keyManager.On("DecryptKek", kek2, mock.Anything).Return([]byte("key-2"), nil)

		kekChain, err := uc.Unwrap(ctx, masterKeyChain)
		require.NoError(t, err)

		// The newest KEK (first in the list) becomes the active one.
		assert.Equal(t, kek1.ID, kekChain.ActiveKekID())

		unwrapped2, found := kekChain.Get(kek2.ID)
		assert.True(t, found)
		assert.Equal(t, []byte("key-2"), unwrapped2.Key)
	})

	t.Run("ListError", func(t *testing.T) {
		kekRepo := &usecaseMocks.MockKekRepository{}
		uc := NewKekUseCase(&databaseMocks.MockTxManager{}, kekRepo, &serviceMocks.MockKeyManager{})

		masterKeyChain := createMasterKeyChain(t, masterKeyID, masterKey)
		defer masterKeyChain.Close()

		expectedErr := errors.New("database error")
		kekRepo.On("List", ctx).Return(nil, expectedErr)

		kekChain, err := uc.Unwrap(ctx, masterKeyChain)
		assert.ErrorIs(t, err, expectedErr)
		assert.Nil(t, kekChain)
	})

	t.Run("MasterKeyMissingForKek", func(t *testing.T) {
		kekRepo := &usecaseMocks.MockKekRepository{}
		uc := NewKekUseCase(&databaseMocks.MockTxManager{}, kekRepo, &serviceMocks.MockKeyManager{})

		masterKeyChain := createMasterKeyChain(t, masterKeyID, masterKey)
		defer masterKeyChain.Close()

		kek := &cryptoDomain.Kek{
			ID:          uuid.Must(uuid.NewV7()),
			MasterKeyID: "retired-master-key",
			Version:     1,
		}
		kekRepo.On("List", ctx).Return([]*cryptoDomain.Kek{kek}, nil)

		kekChain, err := uc.Unwrap(ctx, masterKeyChain)
		assert.ErrorIs(t, err, cryptoDomain.ErrMasterKeyNotFound)
		assert.Nil(t, kekChain)
	})

	t.Run("DecryptKekError", func(t *testing.T) {
		kekRepo := &usecaseMocks.MockKekRepository{}
		keyManager := &serviceMocks.MockKeyManager{}
		uc := NewKekUseCase(&databaseMocks.MockTxManager{}, kekRepo, keyManager)

		masterKeyChain := createMasterKeyChain(t, masterKeyID, masterKey)
		defer masterKeyChain.Close()

		kek := &cryptoDomain.Kek{ID: uuid.Must(uuid.NewV7()), MasterKeyID: masterKeyID, Version: 1}
		kekRepo.On("List", ctx).Return([]*cryptoDomain.Kek{kek}, nil)
		keyManager.On("DecryptKek", kek, mock.Anything).Return(nil, cryptoDomain.ErrDecryptionFailed)

		kekChain, err := uc.Unwrap(ctx, masterKeyChain)
		assert.ErrorIs(t, err, cryptoDomain.ErrDecryptionFailed)
		assert.Nil(t, kekChain)
	})
}
