package security

import (
	"errors"
	"fmt"
	"time"

	"orders/internal/core/domain/model/kernel"
	"orders/internal/core/ports"
	"orders/internal/pkg/errs"

	"github.com/golang-jwt/jwt/v5"
)

const DefaultTokenTTL = 15 * time.Minute

// ErrInvalidToken covers every reason a bearer token is rejected: bad
// signature, wrong algorithm, expiry or a malformed subject.
var ErrInvalidToken = errors.New("invalid access token")

// JWTTokens issues and verifies HS256 access tokens whose subject is the user id.
// It implements both ports.TokenIssuer and ports.TokenParser.
type JWTTokens struct {
	secret []byte
	ttl    time.Duration
	clock  ports.Clock
}

func NewJWTTokens(secret string, ttl time.Duration, clock ports.Clock) (*JWTTokens, error) {
	if secret == "" {
		return nil, errs.NewValueIsRequiredError("jwt secret")
	}
	if clock == nil {
		return nil, errs.NewValueIsRequiredError("clock")
	}
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}

	return &JWTTokens{
		secret: []byte(secret),
		ttl:    ttl,
		clock:  clock,
	}, nil
}

func (t *JWTTokens) Issue(userID kernel.UUID) (ports.AccessToken, error) {
	if err := userID.Validate(); err != nil {
		return ports.AccessToken{}, err
	}

	now := t.clock.Now()
	expiresAt := now.Add(t.ttl)

	claims := jwt.RegisteredClaims{
		Subject:   userID.String(),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(expiresAt),
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.secret)
	if err != nil {
		return ports.AccessToken{}, fmt.Errorf("sign access token: %w", err)
	}

	return ports.AccessToken{
		Value:     signed,
		ExpiresAt: expiresAt,
		TTL:       t.ttl,
	}, nil
}

func (t *JWTTokens) Parse(token string) (kernel.UUID, error) {
	claims := &jwt.RegisteredClaims{}

	parsed, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (any, error) {
		return t.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(t.clock.Now),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return kernel.UUID{}, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}
	if !parsed.Valid {
		return kernel.UUID{}, ErrInvalidToken
	}

	userID, err := kernel.UUIDFromString(claims.Subject)
	if err != nil {
		return kernel.UUID{}, fmt.Errorf("%w: subject: %w", ErrInvalidToken, err)
	}
	return userID, nil
}
