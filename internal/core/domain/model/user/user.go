package user

import (
	"errors"
	"strings"
	"time"
	"unicode/utf8"

	"orders/internal/core/domain/model/kernel"
	"orders/internal/pkg/errs"
)

const (
	NameMinLength = 2
	NameMaxLength = 100
)

var ErrUserIsNotConstructed = errors.New("User must be created via NewUser constructor")

// User is an account that can own orders.
type User struct {
	id           kernel.UUID
	name         string
	email        kernel.Email
	passwordHash string
	createdAt    time.Time

	isConstructed bool
}

// NewUser creates a user. passwordHash must already be hashed by a PasswordHasher.
func NewUser(id kernel.UUID, name string, email kernel.Email, passwordHash string, now time.Time) (*User, error) {
	u := &User{
		createdAt:     now.UTC(),
		isConstructed: true,
	}

	if err := errors.Join(
		u.setID(id),
		u.setName(name),
		u.setEmail(email),
		u.setPasswordHash(passwordHash),
	); err != nil {
		return nil, err
	}

	return u, nil
}

// RestoreUser rebuilds a user from persisted state.
func RestoreUser(id kernel.UUID, name string, email kernel.Email, passwordHash string, createdAt time.Time) (*User, error) {
	return NewUser(id, name, email, passwordHash, createdAt)
}

func (u *User) Validate() error {
	if u == nil || !u.isConstructed {
		return ErrUserIsNotConstructed
	}
	return nil
}

func (u *User) ID() kernel.UUID {
	return u.id
}

func (u *User) Name() string {
	return u.name
}

func (u *User) Email() kernel.Email {
	return u.email
}

func (u *User) PasswordHash() string {
	return u.passwordHash
}

func (u *User) CreatedAt() time.Time {
	return u.createdAt
}

func (u *User) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	u.id = id
	return nil
}

func (u *User) setName(name string) error {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return errs.NewValueIsRequiredError("name")
	}
	if n := utf8.RuneCountInString(trimmed); n < NameMinLength || n > NameMaxLength {
		return errs.NewValueIsOutOfRangeError("name length", n, NameMinLength, NameMaxLength)
	}
	u.name = trimmed
	return nil
}

func (u *User) setEmail(email kernel.Email) error {
	if err := email.Validate(); err != nil {
		return err
	}
	u.email = email
	return nil
}

func (u *User) setPasswordHash(hash string) error {
	if hash == "" {
		return errs.NewValueIsRequiredError("password_hash")
	}
	u.passwordHash = hash
	return nil
}
