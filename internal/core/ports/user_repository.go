package ports

import (
	"context"

	"orders/internal/core/domain/model/kernel"
	"orders/internal/core/domain/model/user"
)

// UserRepository defines the persistence contract for user aggregates.
type UserRepository interface {
	// Add persists a new user. A duplicate email yields errs.ConflictError.
	Add(ctx context.Context, aggregate *user.User) error

	// GetByEmail looks a user up by the normalized email.
	GetByEmail(ctx context.Context, email kernel.Email) (*user.User, error)
}
