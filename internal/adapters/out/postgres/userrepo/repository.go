package userrepo

import (
	"context"
	"errors"

	"orders/internal/core/domain/model/kernel"
	"orders/internal/core/domain/model/user"
	"orders/internal/pkg/errs"

	"gorm.io/gorm"
)

// GormUserRepository implements ports.UserRepository using GORM.
type GormUserRepository struct {
	db *gorm.DB
}

func NewGormUserRepository(db *gorm.DB) *GormUserRepository {
	return &GormUserRepository{db: db}
}

// Add saves a new user. The unique email index turns a duplicate into errs.ConflictError;
// this needs gorm.Config.TranslateError.
func (r *GormUserRepository) Add(ctx context.Context, aggregate *user.User) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return errs.NewConflictErrorWithCause("user", aggregate.Email(), err)
		}
		return errs.NewPersistenceError("user.add", err)
	}

	return nil
}

func (r *GormUserRepository) GetByEmail(ctx context.Context, email kernel.Email) (*user.User, error) {
	if err := email.Validate(); err != nil {
		return nil, err
	}

	return r.first(ctx, "user.get_by_email", "email", email.String(), "email = ?", email.String())
}

func (r *GormUserRepository) first(ctx context.Context, op, param string, id any, conds ...any) (*user.User, error) {
	var dto UserDTO
	if err := r.db.WithContext(ctx).First(&dto, conds...).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundErrorWithCause(param, id, err)
		}
		return nil, errs.NewPersistenceError(op, err)
	}

	return toDomain(dto)
}
