package queries

import (
	"errors"

	"orders/internal/core/domain/model/kernel"
	"orders/internal/pkg/errs"
	"orders/internal/pkg/guard"
)

const TokenTypeBearer = "bearer"

var (
	ErrAuthenticateUserQueryIsNotConstructed = errors.New(
		"AuthenticateUserQuery must be created via NewAuthenticateUserQuery constructor",
	)
	// ErrInvalidCredentials hides whether the email or the password was wrong.
	ErrInvalidCredentials = errors.New("incorrect email or password")
)

// AuthenticateUserQuery exchanges an email and password for an access token.
type AuthenticateUserQuery struct {
	email    kernel.Email
	password string

	guard guard.ConstructorGuard
}

func NewAuthenticateUserQuery(email, password string) (AuthenticateUserQuery, error) {
	e, err := kernel.NewEmail(email)
	if err != nil {
		return AuthenticateUserQuery{}, err
	}
	if password == "" {
		return AuthenticateUserQuery{}, errs.NewValueIsRequiredError("password")
	}

	return AuthenticateUserQuery{
		email:    e,
		password: password,
		guard:    guard.NewConstructorGuard(),
	}, nil
}

func (q AuthenticateUserQuery) Validate() error {
	return q.guard.Validate(ErrAuthenticateUserQueryIsNotConstructed)
}

func (q AuthenticateUserQuery) Email() kernel.Email {
	return q.email
}

func (q AuthenticateUserQuery) Password() string {
	return q.password
}

// AuthenticateUserQueryResponse is the login result.
type AuthenticateUserQueryResponse struct {
	UserID      kernel.UUID
	AccessToken string
	TokenType   string
	// ExpiresIn is the token lifetime in minutes.
	ExpiresIn int
}
