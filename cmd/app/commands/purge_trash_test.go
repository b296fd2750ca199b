package commands

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	vaultMocks "github.com/credvault/credvault/internal/vault/usecase/mocks"
)

func TestRunPurgeTrash(t *testing.T) {
	ctx := context.Background()
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))

	t.Run("success", func(t *testing.T) {
		mockRepo := &vaultMocks.MockTrashRepository{}
		mockRepo.On("DeleteOlderThan", ctx, mock.MatchedBy(func(cutoff time.Time) bool {
			return time.Since(cutoff) > 29*24*time.Hour
		})).Return(int64(3), nil)

		err := RunPurgeTrash(ctx, mockRepo, logger, 30)
		require.NoError(t, err)
		mockRepo.AssertExpectations(t)
	})

	t.Run("negative-retention", func(t *testing.T) {
		mockRepo := &vaultMocks.MockTrashRepository{}
		err := RunPurgeTrash(ctx, mockRepo, logger, -1)
		require.Error(t, err)
		require.Contains(t, err.Error(), "invalid retention days")
	})

	t.Run("repository-error", func(t *testing.T) {
		mockRepo := &vaultMocks.MockTrashRepository{}
		mockRepo.On("DeleteOlderThan", ctx, mock.AnythingOfType("time.Time")).
			Return(int64(0), errors.New("connection refused"))

		err := RunPurgeTrash(ctx, mockRepo, logger, 7)
		require.Error(t, err)
		require.Contains(t, err.Error(), "failed to purge trash records")
		mockRepo.AssertExpectations(t)
	})
}
