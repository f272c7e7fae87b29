// internal/repository/postgres/shopkeeper_repo.go
package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"khata-service/internal/domain/shopkeeper"
	xerrors "khata-service/internal/pkg/errors"
)

type ShopkeeperRepository struct {
	db *pgxpool.Pool
}

func NewShopkeeperRepository(db *pgxpool.Pool) *ShopkeeperRepository {
	return &ShopkeeperRepository{db: db}
}

func (r *ShopkeeperRepository) CreateShopkeeper(ctx context.Context, s *shopkeeper.Shopkeeper) error {
	query := `
		INSERT INTO shopkeepers (id, shop_name, owner_name, phone, email, password_hash)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at, updated_at
	`

	err := r.db.QueryRow(
		ctx, query,
		s.ID, s.ShopName, s.OwnerName, s.Phone, s.Email, s.PasswordHash,
	).Scan(&s.CreatedAt, &s.UpdatedAt)

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return xerrors.ErrDuplicateEntry
	}
	if err != nil {
		return fmt.Errorf("failed to create shopkeeper: %w", err)
	}

	return nil
}

func (r *ShopkeeperRepository) FindShopkeeperByPhone(ctx context.Context, phone string) (*shopkeeper.Shopkeeper, error) {
	query := `
		SELECT id, shop_name, owner_name, phone, email, password_hash, created_at, updated_at
		FROM shopkeepers
		WHERE phone = $1
	`
	return r.scanOne(r.db.QueryRow(ctx, query, phone))
}

func (r *ShopkeeperRepository) FindShopkeeperByID(ctx context.Context, id string) (*shopkeeper.Shopkeeper, error) {
	query := `
		SELECT id, shop_name, owner_name, phone, email, password_hash, created_at, updated_at
		FROM shopkeepers
		WHERE id = $1
	`
	return r.scanOne(r.db.QueryRow(ctx, query, id))
}

func (r *ShopkeeperRepository) scanOne(row pgx.Row) (*shopkeeper.Shopkeeper, error) {
	var s shopkeeper.Shopkeeper
	err := row.Scan(
		&s.ID, &s.ShopName, &s.OwnerName, &s.Phone, &s.Email,
		&s.PasswordHash, &s.CreatedAt, &s.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, xerrors.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find shopkeeper: %w", err)
	}
	return &s, nil
}
