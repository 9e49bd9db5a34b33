// Package ports defines the contracts between the order domain and infrastructure:
// persistence, time, password hashing and access tokens.
package ports

import (
	"context"

	"orders/internal/core/domain/model/kernel"
	"orders/internal/core/domain/model/order"
)

// OrderRepository defines the persistence contract for order aggregates.
//
// Implementations translate storage failures into the errs taxonomy:
//   - a missing row becomes errs.ObjectNotFoundError
//   - a lost optimistic update becomes errs.ConflictError
//   - anything unexpected becomes errs.PersistenceError
type OrderRepository interface {
	// Add persists a new order aggregate.
	Add(ctx context.Context, aggregate *order.Order) error

	// Update writes the status and updated_at of an existing order, provided the
	// stored version still equals aggregate.Version(). On success both the
	// stored version and the aggregate's version are incremented.
	Update(ctx context.Context, aggregate *order.Order) error

	// Get retrieves an order by its identifier.
	Get(ctx context.Context, id kernel.UUID) (*order.Order, error)

	// GetAllInStatus returns every order currently in status, oldest first.
	//
	// Example:
	//   pending, err := repo.GetAllInStatus(ctx, order.Pending)
	//   if err != nil {
	//       return fmt.Errorf("load pending orders: %w", err)
	//   }
	GetAllInStatus(ctx context.Context, status order.Status) ([]*order.Order, error)
}
