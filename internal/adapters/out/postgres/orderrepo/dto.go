// Package orderrepo persists order aggregates with GORM.
// It converts between the domain aggregate and its table representation.
package orderrepo

import (
	"time"

	"orders/internal/core/domain/model/kernel"
	"orders/internal/core/domain/model/order"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderDTO is the row layout of the orders table.
// Timestamps come from the domain clock, so GORM's auto time tracking is disabled.
type OrderDTO struct {
	ID          uuid.UUID       `gorm:"type:uuid;primaryKey"`
	OwnerID     uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductName string          `gorm:"type:varchar(200);not null"`
	Amount      decimal.Decimal `gorm:"type:numeric;not null"`
	Status      string          `gorm:"type:varchar(20);not null;index"`
	CreatedAt   time.Time       `gorm:"not null;index;autoCreateTime:false"`
	UpdatedAt   time.Time       `gorm:"not null;autoUpdateTime:false"`
	Version     int             `gorm:"not null;default:1"`
}

// TableName specifies the database table name for order entities.
func (OrderDTO) TableName() string {
	return "orders"
}

func fromDomain(aggregate *order.Order) OrderDTO {
	return OrderDTO{
		ID:          aggregate.ID().Bytes(),
		OwnerID:     aggregate.OwnerID().Bytes(),
		ProductName: aggregate.ProductName(),
		Amount:      aggregate.Amount().Decimal(),
		Status:      aggregate.Status().String(),
		CreatedAt:   aggregate.CreatedAt(),
		UpdatedAt:   aggregate.UpdatedAt(),
		Version:     aggregate.Version(),
	}
}

// toDomain rebuilds the aggregate with RestoreOrder, so a corrupted row is
// reported instead of silently loaded.
func toDomain(dto OrderDTO) (*order.Order, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	ownerID, err := kernel.UUIDFromBytes(dto.OwnerID[:])
	if err != nil {
		return nil, err
	}

	amount, err := kernel.NewAmount(dto.Amount)
	if err != nil {
		return nil, err
	}

	status, err := order.StatusFromString(dto.Status)
	if err != nil {
		return nil, err
	}

	return order.RestoreOrder(id, ownerID, dto.ProductName, amount, status, dto.CreatedAt, dto.UpdatedAt, dto.Version)
}
