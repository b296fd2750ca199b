package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	autofillDomain "github.com/credvault/credvault/internal/autofill/domain"
	apperrors "github.com/credvault/credvault/internal/errors"
	identityDomain "github.com/credvault/credvault/internal/identity/domain"
	"github.com/credvault/credvault/internal/metrics"
)

// locatorUseCaseWithMetrics decorates LocatorUseCase with metrics
// instrumentation. Locate outcomes are split further than success/error:
// matched, none and forbidden are separate statuses.
type locatorUseCaseWithMetrics struct {
	next    LocatorUseCase
	metrics metrics.BusinessMetrics
}

// NewLocatorUseCaseWithMetrics wraps a LocatorUseCase with metrics recording.
func NewLocatorUseCaseWithMetrics(useCase LocatorUseCase, m metrics.BusinessMetrics) LocatorUseCase {
	return &locatorUseCaseWithMetrics{
		next:    useCase,
		metrics: m,
	}
}

// Locate records metrics for credential resolution operations.
func (l *locatorUseCaseWithMetrics) Locate(
	ctx context.Context,
	identity identityDomain.Identity,
	input *autofillDomain.LocateInput,
) (*autofillDomain.LocateResult, error) {
	start := time.Now()
	result, err := l.next.Locate(ctx, identity, input)

	status := "matched"
	switch {
	case apperrors.Is(err, apperrors.ErrForbidden):
		status = "forbidden"
	case err != nil:
		status = "error"
	case result.MatchCount == 0:
		status = "none"
	}

	l.metrics.RecordOperation(ctx, "autofill", "locate", status)
	l.metrics.RecordDuration(ctx, "autofill", "locate", time.Since(start), status)

	return result, err
}

// SetSelection records metrics for selection writes.
func (l *locatorUseCaseWithMetrics) SetSelection(
	ctx context.Context,
	identity identityDomain.Identity,
	host string,
	credentialID uuid.UUID,
) error {
	start := time.Now()
	err := l.next.SetSelection(ctx, identity, host, credentialID)

	status := "success"
	if err != nil {
		status = "error"
	}

	l.metrics.RecordOperation(ctx, "autofill", "set_selection", status)
	l.metrics.RecordDuration(ctx, "autofill", "set_selection", time.Since(start), status)

	return err
}
