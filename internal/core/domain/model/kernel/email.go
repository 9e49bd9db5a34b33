package kernel

import (
	"fmt"
	"net/mail"
	"strings"

	"orders/internal/pkg/errs"
)

const emailMaxLength = 100

// ErrEmailIsNotConstructed indicates a zero-value Email.
var ErrEmailIsNotConstructed = errs.NewValueIsRequiredError("email must be created via NewEmail")

// Email is a lower-cased, syntactically valid address without a display name.
type Email struct {
	address string
}

// NewEmail trims and lower-cases s before validating it.
func NewEmail(s string) (Email, error) {
	normalized := strings.ToLower(strings.TrimSpace(s))
	if normalized == "" {
		return Email{}, errs.NewValueIsRequiredError("email")
	}
	if len(normalized) > emailMaxLength {
		return Email{}, errs.NewValueIsOutOfRangeError("email length", len(normalized), 3, emailMaxLength)
	}

	parsed, err := mail.ParseAddress(normalized)
	if err != nil {
		return Email{}, errs.NewValueIsInvalidErrorWithCause("email", err)
	}
	if parsed.Address != normalized {
		return Email{}, errs.NewValueIsInvalidErrorWithCause("email", fmt.Errorf("%q is not a bare address", s))
	}

	return Email{address: normalized}, nil
}

func (e Email) String() string {
	return e.address
}

func (e Email) IsEqual(other Email) bool {
	return e.address == other.address
}

// Validate fails for the zero value.
func (e Email) Validate() error {
	if e.address == "" {
		return ErrEmailIsNotConstructed
	}
	return nil
}
