package queries

import (
	"context"

	"orders/internal/core/domain/model/kernel"
	"orders/internal/core/ports"
	"orders/internal/pkg/errs"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// AuthenticateUserQueryHandler verifies credentials and issues an access token.
// Unknown emails and wrong passwords both yield ErrInvalidCredentials.
//
// Example:
//
//	query, _ := NewAuthenticateUserQuery("alice@example.com", "secret")
//	resp, err := handler.Handle(ctx, query)
//	if errors.Is(err, ErrInvalidCredentials) {
//	    return echo.ErrUnauthorized
//	}
type AuthenticateUserQueryHandler struct {
	db     *gorm.DB
	hasher ports.PasswordHasher
	issuer ports.TokenIssuer
}

func NewAuthenticateUserQueryHandler(
	db *gorm.DB,
	hasher ports.PasswordHasher,
	issuer ports.TokenIssuer,
) AuthenticateUserQueryHandler {
	return AuthenticateUserQueryHandler{
		db:     db,
		hasher: hasher,
		issuer: issuer,
	}
}

func (h AuthenticateUserQueryHandler) Handle(
	ctx context.Context,
	query AuthenticateUserQuery,
) (AuthenticateUserQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return AuthenticateUserQueryResponse{}, err
	}

	var row struct {
		ID           uuid.UUID
		PasswordHash string
	}

	result := h.db.WithContext(ctx).Raw(`
		SELECT
			id,
			password_hash
		FROM users
		WHERE email = ?
	`, query.Email().String()).Scan(&row)
	if result.Error != nil {
		return AuthenticateUserQueryResponse{}, errs.NewPersistenceError("users.authenticate", result.Error)
	}
	if result.RowsAffected == 0 {
		return AuthenticateUserQueryResponse{}, ErrInvalidCredentials
	}

	if err := h.hasher.Compare(row.PasswordHash, query.Password()); err != nil {
		return AuthenticateUserQueryResponse{}, ErrInvalidCredentials
	}

	userID, err := kernel.UUIDFromBytes(row.ID[:])
	if err != nil {
		return AuthenticateUserQueryResponse{}, err
	}

	token, err := h.issuer.Issue(userID)
	if err != nil {
		return AuthenticateUserQueryResponse{}, err
	}

	return AuthenticateUserQueryResponse{
		UserID:      userID,
		AccessToken: token.Value,
		TokenType:   TokenTypeBearer,
		ExpiresIn:   int(token.TTL.Minutes()),
	}, nil
}
