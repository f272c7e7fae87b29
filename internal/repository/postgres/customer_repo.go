// internal/repository/postgres/customer_repo.go
package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"khata-service/internal/domain/customer"
	xerrors "khata-service/internal/pkg/errors"
)

const customerColumns = `id, shopkeeper_id, name, phone, address, total_due, version, created_at, updated_at`

type CustomerRepository struct {
	db *pgxpool.Pool
}

func NewCustomerRepository(db *pgxpool.Pool) *CustomerRepository {
	return &CustomerRepository{db: db}
}

func (r *CustomerRepository) CreateCustomer(ctx context.Context, c *customer.Customer) error {
	query := `
		INSERT INTO customers (id, shopkeeper_id, name, phone, address, total_due, version)
		VALUES ($1, $2, $3, $4, $5, $6, 1)
		RETURNING version, created_at, updated_at
	`

	err := r.db.QueryRow(
		ctx, query,
		c.ID, c.ShopkeeperID, c.Name, c.Phone, c.Address, c.TotalDue,
	).Scan(&c.Version, &c.CreatedAt, &c.UpdatedAt)

	// Unique (shopkeeper_id, phone) backs up the caller-side uniqueness
	// check, which can race across two devices.
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return xerrors.ErrDuplicateEntry
	}
	if err != nil {
		return fmt.Errorf("failed to create customer: %w", err)
	}

	return nil
}

func (r *CustomerRepository) FindCustomerByID(ctx context.Context, shopID, id string) (*customer.Customer, error) {
	query := fmt.Sprintf(`SELECT %s FROM customers WHERE shopkeeper_id = $1 AND id = $2`, customerColumns)
	return scanCustomer(r.db.QueryRow(ctx, query, shopID, id))
}

func (r *CustomerRepository) FindCustomerByPhone(ctx context.Context, shopID, phone string) (*customer.Customer, error) {
	query := fmt.Sprintf(`SELECT %s FROM customers WHERE shopkeeper_id = $1 AND phone = $2`, customerColumns)
	return scanCustomer(r.db.QueryRow(ctx, query, shopID, phone))
}

// ListCustomers returns the shop's customers in insertion order.
func (r *CustomerRepository) ListCustomers(ctx context.Context, shopID string) ([]customer.Customer, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM customers
		WHERE shopkeeper_id = $1
		ORDER BY created_at ASC, id ASC
	`, customerColumns)

	rows, err := r.db.Query(ctx, query, shopID)
	if err != nil {
		return nil, fmt.Errorf("failed to list customers: %w", err)
	}
	defer rows.Close()

	customers := []customer.Customer{}
	for rows.Next() {
		var c customer.Customer
		if err := rows.Scan(
			&c.ID, &c.ShopkeeperID, &c.Name, &c.Phone, &c.Address,
			&c.TotalDue, &c.Version, &c.CreatedAt, &c.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan customer: %w", err)
		}
		customers = append(customers, c)
	}

	return customers, rows.Err()
}

// UpdateCustomer replaces the stored record. The version predicate turns a
// write based on a stale read into ErrVersionConflict instead of a lost
// update; a row that simply does not exist surfaces as ErrNotFound.
func (r *CustomerRepository) UpdateCustomer(ctx context.Context, c *customer.Customer) error {
	query := `
		UPDATE customers
		SET name = $1, phone = $2, address = $3, total_due = $4,
		    version = version + 1, updated_at = $5
		WHERE shopkeeper_id = $6 AND id = $7 AND version = $8
	`

	result, err := r.db.Exec(
		ctx, query,
		c.Name, c.Phone, c.Address, c.TotalDue, time.Now(),
		c.ShopkeeperID, c.ID, c.Version,
	)

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return xerrors.ErrDuplicateEntry
	}
	if err != nil {
		return fmt.Errorf("failed to update customer: %w", err)
	}

	if result.RowsAffected() == 0 {
		if _, err := r.FindCustomerByID(ctx, c.ShopkeeperID, c.ID); err != nil {
			return err
		}
		return xerrors.ErrVersionConflict
	}

	c.Version++
	return nil
}

// DeleteCustomer removes the customer row only; their transactions stay in
// the log.
func (r *CustomerRepository) DeleteCustomer(ctx context.Context, shopID, id string) error {
	result, err := r.db.Exec(ctx, `DELETE FROM customers WHERE shopkeeper_id = $1 AND id = $2`, shopID, id)
	if err != nil {
		return fmt.Errorf("failed to delete customer: %w", err)
	}
	if result.RowsAffected() == 0 {
		return xerrors.ErrNotFound
	}
	return nil
}

func scanCustomer(row pgx.Row) (*customer.Customer, error) {
	var c customer.Customer
	err := row.Scan(
		&c.ID, &c.ShopkeeperID, &c.Name, &c.Phone, &c.Address,
		&c.TotalDue, &c.Version, &c.CreatedAt, &c.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, xerrors.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find customer: %w", err)
	}
	return &c, nil
}
