package commands

import (
	"context"
	"fmt"
	"log/slog"

	cryptoDomain "github.com/credvault/credvault/internal/crypto/domain"
	cryptoUseCase "github.com/credvault/credvault/internal/crypto/usecase"
)

// RunRotateKek rotates the existing Key Encryption Key using the specified algorithm.
// Creates a new KEK version and marks the previous active KEK as inactive. The new KEK is
// encrypted using the active master key. This operation is atomic and maintains backward
// compatibility - existing DEKs encrypted with the old KEK remain readable.
//
// Key rotation recommended every 90 days or when suspecting KEK compromise, changing encryption
// algorithms, or rotating master keys.
//
// Requirements: An active KEK must already exist, MASTER_KEYS and ACTIVE_MASTER_KEY_ID must be set.
func RunRotateKek(
	ctx context.Context,
	kekUseCase cryptoUseCase.KekUseCase,
	masterKeyChain *cryptoDomain.MasterKeyChain,
	logger *slog.Logger,
	algorithmStr string,
) error {
	logger.Info("rotating KEK", slog.String("algorithm", algorithmStr))

	// Parse algorithm
	algorithm, err := parseAlgorithm(algorithmStr)
	if err != nil {
		return err
	}

	logger.Info("master key chain loaded",
		slog.String("active_master_key_id", masterKeyChain.ActiveMasterKeyID()),
	)

	// Rotate the KEK
	if err := kekUseCase.Rotate(ctx, masterKeyChain, algorithm); err != nil {
		return fmt.Errorf("failed to rotate KEK: %w", err)
	}

	logger.Info("KEK rotated successfully",
		slog.String("algorithm", string(algorithm)),
		slog.String("master_key_id", masterKeyChain.ActiveMasterKeyID()),
	)

	return nil
}
