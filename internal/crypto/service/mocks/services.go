// Package mocks provides mock implementations of the cryptographic service
// interfaces for testing.
package mocks

import (
	"github.com/stretchr/testify/mock"

	cryptoDomain "github.com/credvault/credvault/internal/crypto/domain"
	cryptoService "github.com/credvault/credvault/internal/crypto/service"
)

// MockAEAD is a mock implementation of service.AEAD.
type MockAEAD struct {
	mock.Mock
}

// Encrypt mocks the Encrypt method of AEAD.
func (m *MockAEAD) Encrypt(plaintext, aad []byte) ([]byte, []byte, error) {
	args := m.Called(plaintext, aad)
	var ciphertext, nonce []byte
	if args.Get(0) != nil {
		ciphertext = args.Get(0).([]byte)
	}
	if args.Get(1) != nil {
		nonce = args.Get(1).([]byte)
	}
	return ciphertext, nonce, args.Error(2)
}

// Decrypt mocks the Decrypt method of AEAD.
func (m *MockAEAD) Decrypt(ciphertext, nonce, aad []byte) ([]byte, error) {
	args := m.Called(ciphertext, nonce, aad)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

// MockAEADManager is a mock implementation of service.AEADManager.
type MockAEADManager struct {
	mock.Mock
}

// CreateCipher mocks the CreateCipher method of AEADManager.
func (m *MockAEADManager) CreateCipher(
	key []byte,
	alg cryptoDomain.Algorithm,
) (cryptoService.AEAD, error) {
	args := m.Called(key, alg)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(cryptoService.AEAD), args.Error(1)
}

// MockKeyManager is a mock implementation of service.KeyManager.
type MockKeyManager struct {
	mock.Mock
}

// CreateKek mocks the CreateKek method of KeyManager.
func (m *MockKeyManager) CreateKek(
	masterKey *cryptoDomain.MasterKey,
	alg cryptoDomain.Algorithm,
) (cryptoDomain.Kek, error) {
	args := m.Called(masterKey, alg)
	return args.Get(0).(cryptoDomain.Kek), args.Error(1)
}

// DecryptKek mocks the DecryptKek method of KeyManager.
func (m *MockKeyManager) DecryptKek(
	kek *cryptoDomain.Kek,
	masterKey *cryptoDomain.MasterKey,
) ([]byte, error) {
	args := m.Called(kek, masterKey)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

// CreateDek mocks the CreateDek method of KeyManager.
func (m *MockKeyManager) CreateDek(
	kek *cryptoDomain.Kek,
	alg cryptoDomain.Algorithm,
) (cryptoDomain.Dek, error) {
	args := m.Called(kek, alg)
	return args.Get(0).(cryptoDomain.Dek), args.Error(1)
}

// DecryptDek mocks the DecryptDek method of KeyManager.
func (m *MockKeyManager) DecryptDek(
	dek *cryptoDomain.Dek,
	kek *cryptoDomain.Kek,
) ([]byte, error) {
	args := m.Called(dek, kek)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

// EncryptDek mocks the EncryptDek method of KeyManager.
func (m *MockKeyManager) EncryptDek(
	dekKey []byte,
	kek *cryptoDomain.Kek,
) ([]byte, []byte, error) {
	args := m.Called(dekKey, kek)
	var encryptedKey, nonce []byte
	if args.Get(0) != nil {
		encryptedKey = args.Get(0).([]byte)
	}
	if args.Get(1) != nil {
		nonce = args.Get(1).([]byte)
	}
	return encryptedKey, nonce, args.Error(2)
}
