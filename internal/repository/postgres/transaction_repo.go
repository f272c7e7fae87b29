// internal/repository/postgres/transaction_repo.go
package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"khata-service/internal/domain/customer"
	"khata-service/internal/domain/transaction"
	"khata-service/internal/ledger"
	xerrors "khata-service/internal/pkg/errors"
)

const transactionColumns = `id, customer_id, shopkeeper_id, amount, type, description, date, created_at`

type TransactionRepository struct {
	db *pgxpool.Pool
}

func NewTransactionRepository(db *pgxpool.Pool) *TransactionRepository {
	return &TransactionRepository{db: db}
}

// RecordTransaction appends the entry and applies the balance rule to the
// customer in one database transaction. The customer row is locked first, so
// two devices recording against the same khata serialize instead of losing
// an update; the balance rule never runs for a missing customer.
func (r *TransactionRepository) RecordTransaction(ctx context.Context, t *transaction.Transaction) (*customer.Customer, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	lockQuery := fmt.Sprintf(`
		SELECT %s FROM customers
		WHERE shopkeeper_id = $1 AND id = $2
		FOR UPDATE
	`, customerColumns)

	c, err := scanCustomer(tx.QueryRow(ctx, lockQuery, t.ShopkeeperID, t.CustomerID))
	if errors.Is(err, xerrors.ErrNotFound) {
		return nil, xerrors.ErrCustomerMissing
	}
	if err != nil {
		return nil, err
	}

	insertQuery := `
		INSERT INTO transactions (id, customer_id, shopkeeper_id, amount, type, description, date)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at
	`
	err = tx.QueryRow(
		ctx, insertQuery,
		t.ID, t.CustomerID, t.ShopkeeperID, t.Amount, t.Type, t.Description, t.Date,
	).Scan(&t.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to insert transaction: %w", err)
	}

	c.TotalDue = ledger.Apply(c.TotalDue, t.Type, t.Amount)

	updateQuery := `
		UPDATE customers
		SET total_due = $1, version = version + 1, updated_at = $2
		WHERE shopkeeper_id = $3 AND id = $4
	`
	if _, err := tx.Exec(ctx, updateQuery, c.TotalDue, t.CreatedAt, t.ShopkeeperID, t.CustomerID); err != nil {
		return nil, fmt.Errorf("failed to update customer balance: %w", err)
	}
	c.Version++
	c.UpdatedAt = t.CreatedAt

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return c, nil
}

// ListTransactions returns the shop's transactions newest-insertion-first.
func (r *TransactionRepository) ListTransactions(ctx context.Context, shopID string) ([]transaction.Transaction, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM transactions
		WHERE shopkeeper_id = $1
		ORDER BY seq DESC
	`, transactionColumns)

	rows, err := r.db.Query(ctx, query, shopID)
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}
	defer rows.Close()

	return scanTransactions(rows)
}

func (r *TransactionRepository) ListTransactionsByCustomer(ctx context.Context, shopID, customerID string) ([]transaction.Transaction, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM transactions
		WHERE shopkeeper_id = $1 AND customer_id = $2
		ORDER BY seq DESC
	`, transactionColumns)

	rows, err := r.db.Query(ctx, query, shopID, customerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list customer transactions: %w", err)
	}
	defer rows.Close()

	return scanTransactions(rows)
}

func (r *TransactionRepository) FindTransactionByID(ctx context.Context, shopID, id string) (*transaction.Transaction, error) {
	query := fmt.Sprintf(`SELECT %s FROM transactions WHERE shopkeeper_id = $1 AND id = $2`, transactionColumns)

	var t transaction.Transaction
	err := r.db.QueryRow(ctx, query, shopID, id).Scan(
		&t.ID, &t.CustomerID, &t.ShopkeeperID, &t.Amount, &t.Type,
		&t.Description, &t.Date, &t.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, xerrors.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find transaction: %w", err)
	}
	return &t, nil
}

// UpdateTransaction replaces an entry by id. Balances are NOT adjusted here;
// a caller that changes amounts must reconcile the customer afterwards.
func (r *TransactionRepository) UpdateTransaction(ctx context.Context, t *transaction.Transaction) error {
	query := `
		UPDATE transactions
		SET amount = $1, type = $2, description = $3, date = $4
		WHERE shopkeeper_id = $5 AND id = $6
	`

	result, err := r.db.Exec(ctx, query, t.Amount, t.Type, t.Description, t.Date, t.ShopkeeperID, t.ID)
	if err != nil {
		return fmt.Errorf("failed to update transaction: %w", err)
	}
	if result.RowsAffected() == 0 {
		return xerrors.ErrNotFound
	}
	return nil
}

// DeleteTransaction removes an entry by id, again without balance
// adjustment.
func (r *TransactionRepository) DeleteTransaction(ctx context.Context, shopID, id string) error {
	result, err := r.db.Exec(ctx, `DELETE FROM transactions WHERE shopkeeper_id = $1 AND id = $2`, shopID, id)
	if err != nil {
		return fmt.Errorf("failed to delete transaction: %w", err)
	}
	if result.RowsAffected() == 0 {
		return xerrors.ErrNotFound
	}
	return nil
}

func scanTransactions(rows pgx.Rows) ([]transaction.Transaction, error) {
	transactions := []transaction.Transaction{}
	for rows.Next() {
		var t transaction.Transaction
		if err := rows.Scan(
			&t.ID, &t.CustomerID, &t.ShopkeeperID, &t.Amount, &t.Type,
			&t.Description, &t.Date, &t.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}
		transactions = append(transactions, t)
	}
	return transactions, rows.Err()
}
