package usecase

import (
	"context"

	cryptoDomain "github.com/credvault/credvault/internal/crypto/domain"
	cryptoService "github.com/credvault/credvault/internal/crypto/service"
	vaultDomain "github.com/credvault/credvault/internal/vault/domain"
)

// FieldDecrypter decrypts the encrypted fields of credentials on behalf of
// read paths outside this package, such as credential resolution for
// autofill. It shares the decryption sequence used by the credential use
// case.
type FieldDecrypter struct {
	dekRepo     DekRepository
	kekChain    *cryptoDomain.KekChain
	keyManager  cryptoService.KeyManager
	aeadManager cryptoService.AEADManager
}

// NewFieldDecrypter creates a new field decrypter instance.
func NewFieldDecrypter(
	dekRepo DekRepository,
	kekChain *cryptoDomain.KekChain,
	keyManager cryptoService.KeyManager,
	aeadManager cryptoService.AEADManager,
) *FieldDecrypter {
	return &FieldDecrypter{
		dekRepo:     dekRepo,
		kekChain:    kekChain,
		keyManager:  keyManager,
		aeadManager: aeadManager,
	}
}

// Decrypt populates the plaintext username, secret and notes of a credential
// from its ciphertexts.
func (d *FieldDecrypter) Decrypt(ctx context.Context, credential *vaultDomain.Credential) error {
	return decryptCredentialFields(ctx, d.dekRepo, d.kekChain, d.keyManager, d.aeadManager, credential)
}

func decryptCredentialFields(
	ctx context.Context,
	dekRepo DekRepository,
	kekChain *cryptoDomain.KekChain,
	keyManager cryptoService.KeyManager,
	aeadManager cryptoService.AEADManager,
	credential *vaultDomain.Credential,
) error {
	dek, err := dekRepo.Get(ctx, credential.DekID)
	if err != nil {
		return err
	}

	kek, found := kekChain.Get(dek.KekID)
	if !found {
		return cryptoDomain.ErrKekNotFound
	}

	dekKey, err := keyManager.DecryptDek(dek, kek)
	if err != nil {
		return err
	}
	defer cryptoDomain.Zero(dekKey)

	cipher, err := aeadManager.CreateCipher(dekKey, dek.Algorithm)
	if err != nil {
		return err
	}

	username, err := cipher.Decrypt(credential.UsernameCiphertext, credential.UsernameNonce, nil)
	if err != nil {
		return cryptoDomain.ErrDecryptionFailed
	}
	secret, err := cipher.Decrypt(credential.SecretCiphertext, credential.SecretNonce, nil)
	if err != nil {
		return cryptoDomain.ErrDecryptionFailed
	}
	notes, err := cipher.Decrypt(credential.NotesCiphertext, credential.NotesNonce, nil)
	if err != nil {
		return cryptoDomain.ErrDecryptionFailed
	}

	credential.Username = string(username)
	credential.Secret = string(secret)
	credential.Notes = string(notes)
	return nil
}
