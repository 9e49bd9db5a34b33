// Package queries contains read-only use cases. Handlers read straight from the
// database with raw SQL and never go through the aggregates' repositories.
package queries

import (
	"errors"
	"time"

	"orders/internal/core/domain/model/kernel"
	"orders/internal/core/domain/model/order"
	"orders/internal/pkg/guard"
)

var ErrListOrdersQueryIsNotConstructed = errors.New(
	"ListOrdersQuery must be created via NewListOrdersQuery constructor",
)

// ListOrdersQuery retrieves every order of a single owner.
//
// Example:
//
//	query, err := NewListOrdersQuery(callerID)
//	if err != nil {
//	    return err
//	}
//
//	orders, err := handler.Handle(ctx, query)
//	fmt.Printf("%d orders, newest first\n", len(orders))
type ListOrdersQuery struct {
	ownerID kernel.UUID

	guard guard.ConstructorGuard
}

func NewListOrdersQuery(ownerID kernel.UUID) (ListOrdersQuery, error) {
	if err := ownerID.Validate(); err != nil {
		return ListOrdersQuery{}, err
	}

	return ListOrdersQuery{
		ownerID: ownerID,
		guard:   guard.NewConstructorGuard(),
	}, nil
}

func (q ListOrdersQuery) Validate() error {
	return q.guard.Validate(ErrListOrdersQueryIsNotConstructed)
}

func (q ListOrdersQuery) OwnerID() kernel.UUID {
	return q.ownerID
}

// ListOrdersQueryResponse is a read model of a single order.
type ListOrdersQueryResponse struct {
	ID          kernel.UUID
	OwnerID     kernel.UUID
	ProductName string
	Amount      kernel.Amount
	Status      order.Status
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
