package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	cryptoDomain "github.com/credvault/credvault/internal/crypto/domain"
	serviceMocks "github.com/credvault/credvault/internal/crypto/service/mocks"
	usecaseMocks "github.com/credvault/credvault/internal/crypto/usecase/mocks"
	databaseMocks "github.com/credvault/credvault/internal/database/mocks"
)

func TestDekUseCase_Rewrap(t *testing.T) {
	ctx := context.Background()
	batchSize := 10

	t.Run("RewrapsBatch", func(t *testing.T) {
		dekRepo := &usecaseMocks.MockDekRepository{}
		keyManager := &serviceMocks.MockKeyManager{}
		uc := NewDekUseCase(&databaseMocks.MockTxManager{}, dekRepo, keyManager)

		oldKek := &cryptoDomain.Kek{
			ID:      uuid.Must(uuid.NewV7()),
			Key:     []byte("old-key"),
			Version: 1,
		}
		newKek := &cryptoDomain.Kek{
			ID:      uuid.Must(uuid.NewV7()),
			Key:     []byte("new-key"),
			Version: 2,
		}
		kekChain := cryptoDomain.NewKekChain([]*cryptoDomain.Kek{newKek, oldKek})

		dek := &cryptoDomain.Dek{
			ID:           uuid.Must(uuid.NewV7()),
			KekID:        oldKek.ID,
			Algorithm:    cryptoDomain.AESGCM,
			EncryptedKey: []byte("dek-encrypted-old"),
			Nonce:        []byte("dek-nonce-old"),
			CreatedAt:    time.Now(),
		}

		dekRepo.On("GetBatchNotKekID", ctx, newKek.ID, batchSize).
			Return([]*cryptoDomain.Dek{dek}, nil)
		keyManager.On("DecryptDek", dek, oldKek).Return([]byte("dek-plaintext"), nil)
		keyManager.On("EncryptDek", []byte("dek-plaintext"), newKek).
			Return([]byte("dek-encrypted-new"), []byte("dek-nonce-new"), nil)
		dekRepo.On("Update", ctx, mock.MatchedBy(func(updated *cryptoDomain.Dek) bool {
			return updated.ID == dek.ID &&
				updated.KekID == newKek.ID &&
				string(updated.EncryptedKey) == "dek-encrypted-new" &&
				string(updated.Nonce) == "dek-nonce-new"
		})).Return(nil)

		rewrapped, err := uc.Rewrap(ctx, kekChain, newKek.ID, batchSize)
		assert.NoError(t, err)
		assert.Equal(t, 1, rewrapped)
		dekRepo.AssertExpectations(t)
		keyManager.AssertExpectations(t)
	})

	t.Run("NothingToRewrap", func(t *testing.T) {
		dekRepo := &usecaseMocks.MockDekRepository{}
		uc := NewDekUseCase(&databaseMocks.MockTxManager{}, dekRepo, &serviceMocks.MockKeyManager{})

		newKek := &cryptoDomain.Kek{ID: uuid.Must(uuid.NewV7()), Key: []byte("new-key")}
		kekChain := cryptoDomain.NewKekChain([]*cryptoDomain.Kek{newKek})

		dekRepo.On("GetBatchNotKekID", ctx, newKek.ID, batchSize).
			Return([]*cryptoDomain.Dek{}, nil)

		rewrapped, err := uc.Rewrap(ctx, kekChain, newKek.ID, batchSize)
		assert.NoError(t, err)
		assert.Equal(t, 0, rewrapped)
	})

	t.Run("NewKekNotInChain", func(t *testing.T) {
		dekRepo := &usecaseMocks.MockDekRepository{}
		uc := NewDekUseCase(&databaseMocks.MockTxManager{}, dekRepo, &serviceMocks.MockKeyManager{})

		kekChain := cryptoDomain.NewKekChain([]*cryptoDomain.Kek{{ID: uuid.Must(uuid.NewV7())}})
		missingKekID := uuid.Must(uuid.NewV7())

		dek := &cryptoDomain.Dek{ID: uuid.Must(uuid.NewV7()), KekID: uuid.Must(uuid.NewV7())}
		dekRepo.On("GetBatchNotKekID", ctx, missingKekID, batchSize).
			Return([]*cryptoDomain.Dek{dek}, nil)

		rewrapped, err := uc.Rewrap(ctx, kekChain, missingKekID, batchSize)
		assert.ErrorIs(t, err, cryptoDomain.ErrKekNotFound)
		assert.Equal(t, 0, rewrapped)
	})

	t.Run("OldKekNotInChain", func(t *testing.T) {
		dekRepo := &usecaseMocks.MockDekRepository{}
		uc := NewDekUseCase(&databaseMocks.MockTxManager{}, dekRepo, &serviceMocks.MockKeyManager{})

		newKek := &cryptoDomain.Kek{ID: uuid.Must(uuid.NewV7()), Key: []byte("new-key")}
		kekChain := cryptoDomain.NewKekChain([]*cryptoDomain.Kek{newKek})

		dek := &cryptoDomain.Dek{ID: uuid.Must(uuid.NewV7()), KekID: uuid.Must(uuid.NewV7())}
		dekRepo.On("GetBatchNotKekID", ctx, newKek.ID, batchSize).
			Return([]*cryptoDomain.Dek{dek}, nil)

		rewrapped, err := uc.Rewrap(ctx, kekChain, newKek.ID, batchSize)
		assert.ErrorIs(t, err, cryptoDomain.ErrKekNotFound)
		assert.Equal(t, 0, rewrapped)
	})

	t.Run("DecryptDekError", func(t *testing.T) {
		dekRepo := &usecaseMocks.MockDekRepository{}
		keyManager := &serviceMocks.MockKeyManager{}
		uc := NewDekUseCase(&databaseMocks.MockTxManager{}, dekRepo, keyManager)

		oldKek := &cryptoDomain.Kek{ID: uuid.Must(uuid.NewV7()), Key: []byte("old-key")}
		newKek := &cryptoDomain.Kek{ID: uuid.Must(uuid.NewV7()), Key: []byte("new-key")}
		kekChain := cryptoDomain.NewKekChain([]*cryptoDomain.Kek{newKek, oldKek})

		dek := &cryptoDomain.Dek{ID: uuid.Must(uuid.NewV7()), KekID: oldKek.ID}
		expectedErr := errors.New("decryption failed")

		dekRepo.On("GetBatchNotKekID", ctx, newKek.ID, batchSize).
			Return([]*cryptoDomain.Dek{dek}, nil)
		keyManager.On("DecryptDek", dek, oldKek).Return(nil, expectedErr)

		rewrapped, err := uc.Rewrap(ctx, kekChain, newKek.ID, batchSize)
		assert.ErrorIs(t, err, expectedErr)
		assert.Equal(t, 0, rewrapped)
	})

	t.Run("EncryptDekError", func(t *testing.T) {
		dekRepo := &usecaseMocks.MockDekRepository{}
		keyManager := &serviceMocks.MockKeyManager{}
		uc := NewDekUseCase(&databaseMocks.MockTxManager{}, dekRepo, keyManager)

		oldKek := &cryptoDomain.Kek{ID: uuid.Must(uuid.NewV7()), Key: []byte("old-key")}
		newKek := &cryptoDomain.Kek{ID: uuid.Must(uuid.NewV7()), Key: []byte("new-key")}
		kekChain := cryptoDomain.NewKekChain([]*cryptoDomain.Kek{newKek, oldKek})

		dek := &cryptoDomain.Dek{ID: uuid.Must(uuid.NewV7()), KekID: oldKek.ID}
		expectedErr := errors.New("encryption failed")

		dekRepo.On("GetBatchNotKekID", ctx, newKek.ID, batchSize).
			Return([]*cryptoDomain.Dek{dek}, nil)
		keyManager.On("DecryptDek", dek, oldKek).Return([]byte("dek-plaintext"), nil)
		keyManager.On("EncryptDek", mock.Anything, newKek).Return(nil, nil, expectedErr)

		rewrapped, err := uc.Rewrap(ctx, kekChain, newKek.ID, batchSize)
		assert.ErrorIs(t, err, expectedErr)
		assert.Equal(t, 0, rewrapped)
	})

	t.Run("UpdateError", func(t *testing.T) {
		dekRepo := &usecaseMocks.MockDekRepository{}
		keyManager := &serviceMocks.MockKeyManager{}
		uc := NewDekUseCase(&databaseMocks.MockTxManager{}, dekRepo, keyManager)

		oldKek := &cryptoDomain.Kek{ID: uuid.Must(uuid.NewV7()), Key: []byte("old-key")}
		newKek := &cryptoDomain.Kek{ID: uuid.Must(uuid.NewV7()), Key: []byte("new-key")}
		kekChain := cryptoDomain.NewKekChain([]*cryptoDomain.Kek{newKek, oldKek})

		dek := &cryptoDomain.Dek{ID: uuid.Must(uuid.NewV7()), KekID: oldKek.ID}
		expectedErr := errors.New("update failed")

		dekRepo.On("GetBatchNotKekID", ctx, newKek.ID, batchSize).
			Return([]*cryptoDomain.Dek{dek}, nil)
		keyManager.On("DecryptDek", dek, oldKek).Return([]byte("dek-plaintext"), nil)
		keyManager.On("EncryptDek", mock.Anything, newKek).
			Return([]byte("enc"), []byte("nonce"), nil)
		dekRepo.On("Update", ctx, dek).Return(expectedErr)

		rewrapped, err := uc.Rewrap(ctx, kekChain, newKek.ID, batchSize)
		assert.ErrorIs(t, err, expectedErr)
		assert.Equal(t, 0, rewrapped)
	})
}
