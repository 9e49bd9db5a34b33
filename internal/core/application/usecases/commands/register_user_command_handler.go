package commands

import (
	"context"
	"errors"

	"orders/internal/core/domain/model/user"
	"orders/internal/core/ports"
	"orders/internal/pkg/errs"
)

// RegisterUserCommandHandler creates a user account.
// An email that is already registered yields errs.ConflictError.
type RegisterUserCommandHandler struct {
	uowFactory UserUoWFactory
	hasher     ports.PasswordHasher
	clock      ports.Clock
}

func NewRegisterUserCommandHandler(
	uowFactory UserUoWFactory,
	hasher ports.PasswordHasher,
	clock ports.Clock,
) RegisterUserCommandHandler {
	return RegisterUserCommandHandler{
		uowFactory: uowFactory,
		hasher:     hasher,
		clock:      clock,
	}
}

func (h RegisterUserCommandHandler) Handle(ctx context.Context, cmd RegisterUserCommand) (*user.User, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	userRepo := uow.UserRepository()

	_, err := userRepo.GetByEmail(ctx, cmd.Email())
	switch {
	case err == nil:
		return nil, errs.NewConflictError("user", cmd.Email())
	case !errors.Is(err, errs.ErrObjectNotFound):
		return nil, err
	}

	hash, err := h.hasher.Hash(cmd.Password())
	if err != nil {
		return nil, err
	}

	registered, err := user.NewUser(cmd.UserID(), cmd.Name(), cmd.Email(), hash, h.clock.Now())
	if err != nil {
		return nil, err
	}

	// A concurrent registration of the same email still surfaces as a conflict
	// through the unique index.
	if err = userRepo.Add(ctx, registered); err != nil {
		return nil, err
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	return registered, nil
}
