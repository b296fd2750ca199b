package commands

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	vaultUseCase "github.com/credvault/credvault/internal/vault/usecase"
)

// RunPurgeTrash permanently deletes trash records older than the retention
// window, across all companies. Purged entities cannot be restored afterwards.
func RunPurgeTrash(
	ctx context.Context,
	trashRepository vaultUseCase.TrashRepository,
	logger *slog.Logger,
	retentionDays int,
) error {
	if retentionDays < 0 {
		return fmt.Errorf("invalid retention days: %d", retentionDays)
	}

	cutoff := time.Now().UTC().AddDate(0, 0, -retentionDays)
	logger.Info("purging trash records",
		slog.Int("retention_days", retentionDays),
		slog.Time("cutoff", cutoff),
	)

	purged, err := trashRepository.DeleteOlderThan(ctx, cutoff)
	if err != nil {
		return fmt.Errorf("failed to purge trash records: %w", err)
	}

	logger.Info("trash purge completed", slog.Int64("purged_records", purged))
	return nil
}
