// internal/domain/customer/entity.go
package customer

import (
	"database/sql"
	"time"
)

// Customer is one khata account: a person who buys on credit from the shop.
// TotalDue is held in paise and is never negative; payments that exceed the
// outstanding due clamp the balance at zero instead of going into credit.
type Customer struct {
	ID           string `json:"customer_id" db:"id"`
	ShopkeeperID string `json:"shopkeeper_id" db:"shopkeeper_id"`

	Name    string         `json:"name" db:"name"`
	Phone   string         `json:"phone" db:"phone"`
	Address sql.NullString `json:"address,omitempty" db:"address"`

	TotalDue int64 `json:"total_due" db:"total_due"`

	// Version is bumped on every write and checked on balance updates so
	// two devices recording transactions concurrently cannot lose one.
	Version int64 `json:"version" db:"version"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// HasDue reports whether the customer still owes the shop anything.
func (c *Customer) HasDue() bool {
	return c.TotalDue > 0
}

type CustomerStats struct {
	TotalCustomers int64 `json:"total_customers"`
	WithDue        int64 `json:"with_due"`
	Clear          int64 `json:"clear"`
	TotalDue       int64 `json:"total_due"`
}
