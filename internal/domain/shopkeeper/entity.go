// internal/domain/shopkeeper/entity.go
package shopkeeper

import (
	"database/sql"
	"time"
)

// Shopkeeper is the tenant: every customer and transaction is scoped to the
// owning shopkeeper's id.
type Shopkeeper struct {
	ID        string         `json:"shopkeeper_id" db:"id"`
	ShopName  string         `json:"shop_name" db:"shop_name"`
	OwnerName string         `json:"owner_name" db:"owner_name"`
	Phone     string         `json:"phone" db:"phone"`
	Email     sql.NullString `json:"email,omitempty" db:"email"`

	PasswordHash string `json:"-" db:"password_hash"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}
