package ports

import (
	"time"

	"orders/internal/core/domain/model/kernel"
)

// PasswordHasher hashes and verifies user passwords.
type PasswordHasher interface {
	Hash(password string) (string, error)

	// Compare returns nil only when password matches hash.
	Compare(hash, password string) error
}

// AccessToken is a signed bearer token handed out on login.
type AccessToken struct {
	Value     string
	ExpiresAt time.Time
	TTL       time.Duration
}

// TokenIssuer signs access tokens for authenticated users.
type TokenIssuer interface {
	Issue(userID kernel.UUID) (AccessToken, error)
}

// TokenParser verifies an access token and returns the user it was issued to.
type TokenParser interface {
	Parse(token string) (kernel.UUID, error)
}
