package queries

import (
	"context"

	"orders/internal/core/domain/model/kernel"
	"orders/internal/core/domain/model/order"
	"orders/internal/pkg/errs"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ListOrdersQueryHandler reads an owner's orders, newest first.
// Orders of other owners are never returned.
type ListOrdersQueryHandler struct {
	db *gorm.DB
}

func NewListOrdersQueryHandler(db *gorm.DB) ListOrdersQueryHandler {
	return ListOrdersQueryHandler{db: db}
}

func (h ListOrdersQueryHandler) Handle(ctx context.Context, query ListOrdersQuery) ([]ListOrdersQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	orders := make([]ListOrdersQueryResponse, 0)

	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT
			id,
			owner_id,
			product_name,
			amount,
			status,
			created_at,
			updated_at
		FROM orders
		WHERE owner_id = ?
		ORDER BY created_at DESC, id
	`, query.OwnerID().Bytes()).Rows()
	if err != nil {
		return nil, errs.NewPersistenceError("orders.list", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			resp        ListOrdersQueryResponse
			id, ownerID uuid.UUID
			amount      decimal.Decimal
			status      string
		)

		err = rows.Scan(
			&id,
			&ownerID,
			&resp.ProductName,
			&amount,
			&status,
			&resp.CreatedAt,
			&resp.UpdatedAt,
		)
		if err != nil {
			return nil, errs.NewPersistenceError("orders.list", err)
		}

		if resp.ID, err = kernel.UUIDFromBytes(id[:]); err != nil {
			return nil, err
		}
		if resp.OwnerID, err = kernel.UUIDFromBytes(ownerID[:]); err != nil {
			return nil, err
		}
		if resp.Amount, err = kernel.NewAmount(amount); err != nil {
			return nil, err
		}
		if resp.Status, err = order.StatusFromString(status); err != nil {
			return nil, err
		}
		resp.CreatedAt = resp.CreatedAt.UTC()
		resp.UpdatedAt = resp.UpdatedAt.UTC()

		orders = append(orders, resp)
	}

	if err = rows.Err(); err != nil {
		return nil, errs.NewPersistenceError("orders.list", err)
	}

	return orders, nil
}
