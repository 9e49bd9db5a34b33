package commands

import (
	"errors"
	"strings"

	"orders/internal/core/domain/model/kernel"
	"orders/internal/pkg/errs"
	"orders/internal/pkg/guard"
)

const (
	PasswordMinLength = 6
	// PasswordMaxLength is the bcrypt input limit, in bytes.
	PasswordMaxLength = 72
)

var ErrRegisterUserCommandIsNotConstructed = errors.New(
	"RegisterUserCommand must be created via NewRegisterUserCommand constructor",
)

// RegisterUserCommand carries a sign-up request. The password is kept in clear
// text only until the handler hashes it.
type RegisterUserCommand struct { //nolint:recvcheck //using for validation
	userID   kernel.UUID
	name     string
	email    kernel.Email
	password string

	guard guard.ConstructorGuard
}

func NewRegisterUserCommand(userID kernel.UUID, name, email, password string) (RegisterUserCommand, error) {
	cmd := RegisterUserCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setUserID(userID),
		cmd.setName(name),
		cmd.setEmail(email),
		cmd.setPassword(password),
	); err != nil {
		return RegisterUserCommand{}, err
	}

	return cmd, nil
}

func (c RegisterUserCommand) Validate() error {
	return c.guard.Validate(ErrRegisterUserCommandIsNotConstructed)
}

func (c RegisterUserCommand) UserID() kernel.UUID {
	return c.userID
}

func (c RegisterUserCommand) Name() string {
	return c.name
}

func (c RegisterUserCommand) Email() kernel.Email {
	return c.email
}

func (c RegisterUserCommand) Password() string {
	return c.password
}

func (c *RegisterUserCommand) setUserID(userID kernel.UUID) error {
	if err := userID.Validate(); err != nil {
		return err
	}

	c.userID = userID
	return nil
}

func (c *RegisterUserCommand) setName(name string) error {
	if strings.TrimSpace(name) == "" {
		return errs.NewValueIsRequiredError("name")
	}

	c.name = name
	return nil
}

func (c *RegisterUserCommand) setEmail(email string) error {
	e, err := kernel.NewEmail(email)
	if err != nil {
		return err
	}

	c.email = e
	return nil
}

func (c *RegisterUserCommand) setPassword(password string) error {
	if password == "" {
		return errs.NewValueIsRequiredError("password")
	}
	if n := len(password); n < PasswordMinLength || n > PasswordMaxLength {
		return errs.NewValueIsOutOfRangeError("password length", n, PasswordMinLength, PasswordMaxLength)
	}

	c.password = password
	return nil
}
