package postgres

import (
	"orders/internal/adapters/out/postgres/orderrepo"
	"orders/internal/adapters/out/postgres/userrepo"

	"gorm.io/gorm"
)

// Migrate creates or updates the users and orders tables.
// orders.owner_id carries no foreign key, matching the aggregate boundary between
// users and orders.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(&userrepo.UserDTO{}, &orderrepo.OrderDTO{})
}
