package commands

import (
	"errors"
	"strings"

	"orders/internal/core/domain/model/kernel"
	"orders/internal/pkg/errs"
	"orders/internal/pkg/guard"

	"github.com/shopspring/decimal"
)

var ErrCreateOrderCommandIsNotConstructed = errors.New(
	"CreateOrderCommand must be created via NewCreateOrderCommand constructor",
)

// CreateOrderCommand represents a request of an authenticated user to place an order.
//
// Example:
//
//	cmd, err := NewCreateOrderCommand(kernel.NewUUID(), userID, "Laptop", decimal.RequireFromString("999.99"))
//	if err != nil {
//	    return fmt.Errorf("invalid order data: %w", err)
//	}
//
//	created, err := handler.Handle(ctx, cmd)
type CreateOrderCommand struct { //nolint:recvcheck //using for validation
	orderID     kernel.UUID
	ownerID     kernel.UUID
	productName string
	amount      kernel.Amount

	guard guard.ConstructorGuard
}

// NewCreateOrderCommand validates the caller input. Every failure is a validation
// error (see errs.IsValidation) and all of them are joined together.
func NewCreateOrderCommand(
	orderID kernel.UUID,
	ownerID kernel.UUID,
	productName string,
	amount decimal.Decimal,
) (CreateOrderCommand, error) {
	cmd := CreateOrderCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setOrderID(orderID),
		cmd.setOwnerID(ownerID),
		cmd.setProductName(productName),
		cmd.setAmount(amount),
	); err != nil {
		return CreateOrderCommand{}, err
	}

	return cmd, nil
}

func (c CreateOrderCommand) Validate() error {
	return c.guard.Validate(ErrCreateOrderCommandIsNotConstructed)
}

func (c CreateOrderCommand) OrderID() kernel.UUID {
	return c.orderID
}

func (c CreateOrderCommand) OwnerID() kernel.UUID {
	return c.ownerID
}

func (c CreateOrderCommand) ProductName() string {
	return c.productName
}

func (c CreateOrderCommand) Amount() kernel.Amount {
	return c.amount
}

func (c *CreateOrderCommand) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}

	c.orderID = orderID
	return nil
}

func (c *CreateOrderCommand) setOwnerID(ownerID kernel.UUID) error {
	if err := ownerID.Validate(); err != nil {
		return errs.NewValueIsRequiredErrorWithCause("owner_id", err)
	}

	c.ownerID = ownerID
	return nil
}

func (c *CreateOrderCommand) setProductName(productName string) error {
	if strings.TrimSpace(productName) == "" {
		return errs.NewValueIsRequiredError("product_name")
	}

	c.productName = productName
	return nil
}

func (c *CreateOrderCommand) setAmount(amount decimal.Decimal) error {
	a, err := kernel.NewAmount(amount)
	if err != nil {
		return err
	}

	c.amount = a
	return nil
}
