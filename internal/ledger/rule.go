// internal/ledger/rule.go
//
// Package ledger holds the khata balance rules and an in-memory store
// implementation. The rule is the single place that turns a transaction into
// a balance mutation; both the memory store and the Postgres repository call
// into it so the clamp semantics cannot drift between backends.
package ledger

import (
	"khata-service/internal/domain/transaction"
)

// Apply returns the customer's due after one transaction.
//
// A debit (purchase on credit) adds the amount; a credit (payment) subtracts
// it and clamps at zero. Over-payments are absorbed, not carried as negative
// due; the overpaid amount stays visible only in the transaction log.
// Callers must have validated amount > 0 and customer existence already.
func Apply(due int64, t transaction.Type, amount int64) int64 {
	switch t {
	case transaction.TypeDebit:
		return due + amount
	case transaction.TypeCredit:
		due -= amount
		if due < 0 {
			return 0
		}
		return due
	}
	return due
}

// Recompute folds Apply over a customer's full transaction history, oldest
// first, starting from zero. Because the credit clamp destroys information,
// order matters: this must receive the entries in the order they were
// recorded. Used to repair incremental-balance drift and by tests to check
// incremental/recomputed equivalence.
func Recompute(txs []transaction.Transaction) int64 {
	var due int64
	for _, t := range txs {
		due = Apply(due, t.Type, t.Amount)
	}
	return due
}
