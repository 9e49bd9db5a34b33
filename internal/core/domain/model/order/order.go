package order

import (
	"errors"
	"strings"
	"time"
	"unicode/utf8"

	"orders/internal/core/domain/model/kernel"
	"orders/internal/pkg/errs"
)

const (
	// ProductNameMaxLength bounds Order.ProductName, in characters.
	ProductNameMaxLength = 200

	// InitialVersion is the version of a freshly created order.
	InitialVersion = 1
)

// ErrOrderIsNotConstructed is returned when an Order was not created via
// NewOrder or RestoreOrder.
var ErrOrderIsNotConstructed = errors.New("Order must be created via NewOrder constructor")

// Order is the aggregate root of a single purchase.
//
// Order follows these invariants:
//   - id, ownerID, productName, amount and createdAt never change after creation
//   - amount is strictly positive
//   - status only moves along the edges defined by Status.CanTransitionTo
//   - updatedAt is refreshed on every status change
type Order struct {
	id          kernel.UUID
	ownerID     kernel.UUID
	productName string
	amount      kernel.Amount
	status      Status
	createdAt   time.Time
	updatedAt   time.Time
	// version is the optimistic concurrency token the store last saw.
	version int

	isConstructed bool
}

// NewOrder creates a Pending order owned by ownerID.
// All validation errors are joined, so callers see every problem at once.
//
// Example:
//
//	o, err := order.NewOrder(kernel.NewUUID(), userID, "Laptop", kernel.MustAmount("999.99"), clock.Now())
//	if err != nil {
//	    return nil, err
//	}
func NewOrder(
	id kernel.UUID,
	ownerID kernel.UUID,
	productName string,
	amount kernel.Amount,
	now time.Time,
) (*Order, error) {
	o := &Order{
		status:        Pending,
		createdAt:     now.UTC(),
		updatedAt:     now.UTC(),
		version:       InitialVersion,
		isConstructed: true,
	}

	if err := errors.Join(
		o.setID(id),
		o.setOwnerID(ownerID),
		o.setProductName(productName),
		o.setAmount(amount),
	); err != nil {
		return nil, err
	}

	return o, nil
}

// RestoreOrder rebuilds an order from persisted state, re-checking every invariant.
func RestoreOrder(
	id kernel.UUID,
	ownerID kernel.UUID,
	productName string,
	amount kernel.Amount,
	status Status,
	createdAt time.Time,
	updatedAt time.Time,
	version int,
) (*Order, error) {
	o := &Order{
		createdAt:     createdAt.UTC(),
		updatedAt:     updatedAt.UTC(),
		version:       version,
		isConstructed: true,
	}

	if err := errors.Join(
		o.setID(id),
		o.setOwnerID(ownerID),
		o.setProductName(productName),
		o.setAmount(amount),
		o.setStatus(status),
		validateTimestamps(createdAt, updatedAt),
		validateVersion(version),
	); err != nil {
		return nil, err
	}

	return o, nil
}

// Validate ensures the Order was built by NewOrder or RestoreOrder.
func (o *Order) Validate() error {
	if o == nil || !o.isConstructed {
		return ErrOrderIsNotConstructed
	}
	return nil
}

// IsEqual compares two orders by identifier.
func (o *Order) IsEqual(other *Order) bool {
	return other != nil && o.id.IsEqual(other.id)
}

func (o *Order) ID() kernel.UUID {
	return o.id
}

func (o *Order) OwnerID() kernel.UUID {
	return o.ownerID
}

func (o *Order) ProductName() string {
	return o.productName
}

func (o *Order) Amount() kernel.Amount {
	return o.amount
}

func (o *Order) Status() Status {
	return o.status
}

func (o *Order) CreatedAt() time.Time {
	return o.createdAt
}

func (o *Order) UpdatedAt() time.Time {
	return o.updatedAt
}

// Version returns the concurrency token the store last saw for this order.
func (o *Order) Version() int {
	return o.version
}

// MarkPersisted records that the store accepted an update of this order, so the
// aggregate carries the stored version and can be updated again.
func (o *Order) MarkPersisted() {
	o.version++
}

// IsOwnedBy reports whether userID created the order.
func (o *Order) IsOwnedBy(userID kernel.UUID) bool {
	return o.ownerID.IsEqual(userID)
}

// Cancel moves a Pending order to Cancelled.
// Ownership is checked by the caller; this method only enforces the lifecycle.
func (o *Order) Cancel(now time.Time) error {
	return o.transitionTo(Cancelled, now)
}

// Advance moves the order one automatic step (Pending -> Processing or
// Processing -> Completed) and returns the new status.
func (o *Order) Advance(now time.Time) (Status, error) {
	next, ok := o.status.NextAutoState()
	if !ok {
		return o.status, &errs.InvalidTransitionError{From: o.status.String(), To: "next automatic status"}
	}
	if err := o.transitionTo(next, now); err != nil {
		return o.status, err
	}
	return next, nil
}

// transitionTo is the only place where status changes.
func (o *Order) transitionTo(next Status, now time.Time) error {
	if !o.status.CanTransitionTo(next) {
		return errs.NewInvalidTransitionError(o.status, next)
	}
	o.status = next
	o.updatedAt = now.UTC()
	return nil
}

func (o *Order) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	o.id = id
	return nil
}

func (o *Order) setOwnerID(ownerID kernel.UUID) error {
	if err := ownerID.Validate(); err != nil {
		return errs.NewValueIsRequiredErrorWithCause("owner_id", err)
	}
	o.ownerID = ownerID
	return nil
}

func (o *Order) setProductName(productName string) error {
	trimmed := strings.TrimSpace(productName)
	if trimmed == "" {
		return errs.NewValueIsRequiredError("product_name")
	}
	if n := utf8.RuneCountInString(trimmed); n > ProductNameMaxLength {
		return errs.NewValueIsOutOfRangeError("product_name length", n, 1, ProductNameMaxLength)
	}
	o.productName = trimmed
	return nil
}

func (o *Order) setAmount(amount kernel.Amount) error {
	if err := amount.Validate(); err != nil {
		return err
	}
	o.amount = amount
	return nil
}

func (o *Order) setStatus(status Status) error {
	if err := status.Validate(); err != nil {
		return err
	}
	o.status = status
	return nil
}

func validateTimestamps(createdAt, updatedAt time.Time) error {
	if createdAt.IsZero() {
		return errs.NewValueIsRequiredError("created_at")
	}
	if updatedAt.Before(createdAt) {
		return errs.NewValueIsInvalidError("updated_at is before created_at")
	}
	return nil
}

func validateVersion(version int) error {
	if version < InitialVersion {
		return errs.NewValueIsOutOfRangeError("version", version, InitialVersion, "unbounded")
	}
	return nil
}
