package kernel

import (
	"fmt"

	"orders/internal/pkg/errs"

	"github.com/shopspring/decimal"
)

// ErrAmountIsNotConstructed indicates a zero-value Amount.
var ErrAmountIsNotConstructed = errs.NewValueIsRequiredError("amount must be created via NewAmount or AmountFromString")

// Amount is a strictly positive decimal value, such as an order total.
type Amount struct {
	value decimal.Decimal
}

// NewAmount returns an Amount, rejecting zero and negative values.
func NewAmount(value decimal.Decimal) (Amount, error) {
	if !value.IsPositive() {
		return Amount{}, errs.NewValueIsInvalidErrorWithCause(
			"amount",
			fmt.Errorf("%s is not greater than 0", value.String()),
		)
	}
	return Amount{value: value}, nil
}

// AmountFromString parses a decimal literal such as "999.99".
func AmountFromString(s string) (Amount, error) {
	value, err := decimal.NewFromString(s)
	if err != nil {
		return Amount{}, errs.NewValueIsInvalidErrorWithCause("amount", err)
	}
	return NewAmount(value)
}

// MustAmount is NewAmount for literals known to be valid. It panics otherwise.
func MustAmount(s string) Amount {
	a, err := AmountFromString(s)
	if err != nil {
		panic(err)
	}
	return a
}

// Decimal returns the underlying decimal value.
func (a Amount) Decimal() decimal.Decimal {
	return a.value
}

// Float64 returns the nearest float64, for JSON responses.
func (a Amount) Float64() float64 {
	return a.value.InexactFloat64()
}

func (a Amount) String() string {
	return a.value.String()
}

// IsEqual compares numerically, so 1.5 equals 1.50.
func (a Amount) IsEqual(other Amount) bool {
	return a.value.Equal(other.value)
}

// Validate fails for the zero value.
func (a Amount) Validate() error {
	if !a.value.IsPositive() {
		return ErrAmountIsNotConstructed
	}
	return nil
}
