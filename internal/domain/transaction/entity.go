// internal/domain/transaction/entity.go
package transaction

import "time"

// Type carries the direction of a khata entry. This is shop-ledger
// terminology, not accounting debit/credit: a debit is a purchase on credit
// (due goes up), a credit is a payment received (due goes down).
type Type string

const (
	TypeDebit  Type = "debit"
	TypeCredit Type = "credit"
)

// Valid reports whether t is a known transaction type.
func (t Type) Valid() bool {
	return t == TypeDebit || t == TypeCredit
}

// Transaction is one immutable khata entry. Amount is positive paise; the
// direction lives in Type. Date is the user-entered calendar day of the sale
// or payment, CreatedAt is when the entry was actually recorded. Recency
// ordering always uses CreatedAt.
type Transaction struct {
	ID           string `json:"transaction_id" db:"id"`
	CustomerID   string `json:"customer_id" db:"customer_id"`
	ShopkeeperID string `json:"shopkeeper_id" db:"shopkeeper_id"`

	Amount      int64  `json:"amount" db:"amount"`
	Type        Type   `json:"type" db:"type"`
	Description string `json:"description" db:"description"`

	Date      time.Time `json:"date" db:"date"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

type TransactionStats struct {
	Count       int   `json:"count"`
	TotalDebit  int64 `json:"total_debit"`
	TotalCredit int64 `json:"total_credit"`
}
