package domain

import (
	"context"
	"encoding/base64"
	"fmt"
	"os"
	"strings"
)

// KMSKeeper decrypts ciphertext using an external key management service.
// *secrets.Keeper from gocloud.dev satisfies this interface.
type KMSKeeper interface {
	Decrypt(ctx context.Context, ciphertext []byte) ([]byte, error)
	Close() error
}

// LoadMasterKeyChainWithKMS loads master keys whose material is wrapped by an
// external KMS.
//
// The environment variables mirror the plaintext loader, except each key value
// is the base64 encoding of KMS-encrypted key material:
//   - MASTER_KEYS: Comma-separated list of entries in format "id:base64ciphertext"
//   - ACTIVE_MASTER_KEY_ID: ID of the master key to use for encrypting new KEKs
//
// Each entry is unwrapped through the provided keeper and must decrypt to
// exactly 32 bytes. On any failure the partially built keychain is closed so
// no key material survives a failed startup.
func LoadMasterKeyChainWithKMS(ctx context.Context, keeper KMSKeeper) (*MasterKeyChain, error) {
	raw := os.Getenv("MASTER_KEYS")
	if raw == "" {
		return nil, ErrMasterKeysNotSet
	}

	active := os.Getenv("ACTIVE_MASTER_KEY_ID")
	if active == "" {
		return nil, ErrActiveMasterKeyIDNotSet
	}

	mkc := &MasterKeyChain{activeID: active}

	parts := strings.SplitSeq(raw, ",")
	for part := range parts {
		p := strings.SplitN(strings.TrimSpace(part), ":", 2)
		if len(p) != 2 {
			mkc.Close()
			return nil, fmt.Errorf("%w: %q", ErrInvalidMasterKeysFormat, part)
		}
		id := p[0]
		ciphertext, err := base64.StdEncoding.DecodeString(p[1])
		if err != nil {
			mkc.Close()
			return nil, fmt.Errorf("%w for %s: %v", ErrInvalidMasterKeyBase64, id, err)
		}

		key, err := keeper.Decrypt(ctx, ciphertext)
		if err != nil {
			mkc.Close()
			return nil, fmt.Errorf("failed to unwrap master key %s: %w", id, err)
		}
		if len(key) != 32 {
			Zero(key)
			mkc.Close()
			return nil, fmt.Errorf(
				"%w: master key %s must be 32 bytes, got %d",
				ErrInvalidKeySize,
				id,
				len(key),
			)
		}

		stored := make([]byte, len(key))
		copy(stored, key)
		mkc.keys.Store(id, &MasterKey{ID: id, Key: stored})
		Zero(key)
	}

	if _, ok := mkc.Get(active); !ok {
		mkc.Close()
		return nil, fmt.Errorf("%w: ACTIVE_MASTER_KEY_ID=%s", ErrActiveMasterKeyNotFound, active)
	}

	return mkc, nil
}
