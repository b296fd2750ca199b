package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	identityDomain "github.com/credvault/credvault/internal/identity/domain"
	"github.com/credvault/credvault/internal/metrics"
)

// authUseCaseWithMetrics decorates AuthUseCase with metrics instrumentation.
type authUseCaseWithMetrics struct {
	next    AuthUseCase
	metrics metrics.BusinessMetrics
}

// NewAuthUseCaseWithMetrics wraps an AuthUseCase with metrics recording.
func NewAuthUseCaseWithMetrics(useCase AuthUseCase, m metrics.BusinessMetrics) AuthUseCase {
	return &authUseCaseWithMetrics{
		next:    useCase,
		metrics: m,
	}
}

func (a *authUseCaseWithMetrics) record(ctx context.Context, operation string, start time.Time, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}

	a.metrics.RecordOperation(ctx, "identity", operation, status)
	a.metrics.RecordDuration(ctx, "identity", operation, time.Since(start), status)
}

func (a *authUseCaseWithMetrics) Register(
	ctx context.Context,
	input *identityDomain.RegisterInput,
) (*identityDomain.RegisterOutput, error) {
	start := time.Now()
	output, err := a.next.Register(ctx, input)
	a.record(ctx, "register", start, err)
	return output, err
}

func (a *authUseCaseWithMetrics) Login(
	ctx context.Context,
	input *identityDomain.LoginInput,
) (*identityDomain.LoginOutput, error) {
	start := time.Now()
	output, err := a.next.Login(ctx, input)
	a.record(ctx, "login", start, err)
	return output, err
}

func (a *authUseCaseWithMetrics) Authenticate(
	ctx context.Context,
	token string,
) (*identityDomain.Identity, error) {
	start := time.Now()
	identity, err := a.next.Authenticate(ctx, token)
	a.record(ctx, "authenticate", start, err)
	return identity, err
}

// userUseCaseWithMetrics decorates UserUseCase with metrics instrumentation.
type userUseCaseWithMetrics struct {
	next    UserUseCase
	metrics metrics.BusinessMetrics
}

// NewUserUseCaseWithMetrics wraps a UserUseCase with metrics recording.
func NewUserUseCaseWithMetrics(useCase UserUseCase, m metrics.BusinessMetrics) UserUseCase {
	return &userUseCaseWithMetrics{
		next:    useCase,
		metrics: m,
	}
}

func (u *userUseCaseWithMetrics) record(ctx context.Context, operation string, start time.Time, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}

	u.metrics.RecordOperation(ctx, "identity", operation, status)
	u.metrics.RecordDuration(ctx, "identity", operation, time.Since(start), status)
}

func (u *userUseCaseWithMetrics) Create(
	ctx context.Context,
	identity identityDomain.Identity,
	input *identityDomain.CreateUserInput,
) (*identityDomain.User, error) {
	start := time.Now()
	user, err := u.next.Create(ctx, identity, input)
	u.record(ctx, "user_create", start, err)
	return user, err
}

func (u *userUseCaseWithMetrics) Get(
	ctx context.Context,
	identity identityDomain.Identity,
	userID uuid.UUID,
) (*identityDomain.User, error) {
	start := time.Now()
	user, err := u.next.Get(ctx, identity, userID)
	u.record(ctx, "user_get", start, err)
	return user, err
}

func (u *userUseCaseWithMetrics) List(
	ctx context.Context,
	identity identityDomain.Identity,
	offset, limit int,
) ([]*identityDomain.User, error) {
	start := time.Now()
	users, err := u.next.List(ctx, identity, offset, limit)
	u.record(ctx, "user_list", start, err)
	return users, err
}

func (u *userUseCaseWithMetrics) Update(
	ctx context.Context,
	identity identityDomain.Identity,
	userID uuid.UUID,
	input *identityDomain.UpdateUserInput,
) (*identityDomain.User, error) {
	start := time.Now()
	user, err := u.next.Update(ctx, identity, userID, input)
	u.record(ctx, "user_update", start, err)
	return user, err
}

func (u *userUseCaseWithMetrics) UpdatePermissions(
	ctx context.Context,
	identity identityDomain.Identity,
	userID uuid.UUID,
	grants identityDomain.PermissionGrants,
) (*identityDomain.User, error) {
	start := time.Now()
	user, err := u.next.UpdatePermissions(ctx, identity, userID, grants)
	u.record(ctx, "user_update_permissions", start, err)
	return user, err
}

func (u *userUseCaseWithMetrics) Delete(
	ctx context.Context,
	identity identityDomain.Identity,
	userID uuid.UUID,
) error {
	start := time.Now()
	err := u.next.Delete(ctx, identity, userID)
	u.record(ctx, "user_delete", start, err)
	return err
}
