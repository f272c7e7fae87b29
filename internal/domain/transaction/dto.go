// internal/domain/transaction/dto.go
package transaction

type RecordTransactionRequest struct {
	CustomerID  string `json:"customer_id" binding:"required"`
	Amount      int64  `json:"amount" binding:"required,gt=0"`
	Type        Type   `json:"type" binding:"required,oneof=debit credit"`
	Description string `json:"description" binding:"required"`
	// Date is the calendar day in YYYY-MM-DD form; defaults to today.
	Date string `json:"date"`
}

// UpdateTransactionRequest edits a recorded entry. Balances are not
// adjusted on edit; reconcile the customer afterwards.
type UpdateTransactionRequest struct {
	Amount      *int64  `json:"amount" binding:"omitempty,gt=0"`
	Type        *Type   `json:"type" binding:"omitempty,oneof=debit credit"`
	Description *string `json:"description"`
	Date        *string `json:"date"`
}

type TransactionListFilters struct {
	CustomerID string `form:"customer_id"`
	// Type is one of: all, debit, credit.
	Type string `form:"type" binding:"omitempty,oneof=all debit credit"`
	// Period is one of: all, today, week, month (by transaction date).
	Period string `form:"period" binding:"omitempty,oneof=all today week month"`
}

type TransactionListResponse struct {
	Transactions []Transaction    `json:"transactions"`
	Stats        TransactionStats `json:"stats"`
}

// RecordTransactionResponse returns the recorded entry together with the
// customer's balance after the ledger update, so the client can render the
// new due without a second read.
type RecordTransactionResponse struct {
	Transaction Transaction `json:"transaction"`
	TotalDue    int64       `json:"total_due"`
}
