// internal/service/transaction/transaction.go
package transaction

import (
	"context"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"
	"go.uber.org/zap"

	"khata-service/internal/domain/customer"
	"khata-service/internal/domain/transaction"
	xerrors "khata-service/internal/pkg/errors"
)

const dateLayout = "2006-01-02"

// Store is the transaction persistence surface. RecordTransaction applies
// the ledger update rule and returns the customer with the new balance; the
// store guarantees entry and balance land together or not at all.
type Store interface {
	RecordTransaction(ctx context.Context, t *transaction.Transaction) (*customer.Customer, error)
	ListTransactions(ctx context.Context, shopID string) ([]transaction.Transaction, error)
	ListTransactionsByCustomer(ctx context.Context, shopID, customerID string) ([]transaction.Transaction, error)
	FindTransactionByID(ctx context.Context, shopID, id string) (*transaction.Transaction, error)
	UpdateTransaction(ctx context.Context, t *transaction.Transaction) error
	DeleteTransaction(ctx context.Context, shopID, id string) error
}

// Notifier pushes change events to connected devices. May be nil.
type Notifier interface {
	BroadcastLedgerEvent(shopkeeperID, eventType string, data interface{})
}

type Service struct {
	store    Store
	notifier Notifier
	logger   *zap.Logger
}

func NewService(store Store, notifier Notifier, logger *zap.Logger) *Service {
	return &Service{store: store, notifier: notifier, logger: logger}
}

// Record validates and writes one ledger entry. Debit raises the customer's
// due, credit lowers it, never below zero.
func (s *Service) Record(ctx context.Context, shopID string, req *transaction.RecordTransactionRequest) (*transaction.RecordTransactionResponse, error) {
	if req.Amount <= 0 {
		return nil, xerrors.Wrap(xerrors.ErrInvalidInput, "amount must be greater than zero")
	}
	if !req.Type.Valid() {
		return nil, xerrors.Wrap(xerrors.ErrInvalidInput, "type must be debit or credit")
	}
	desc := strings.TrimSpace(req.Description)
	if desc == "" {
		return nil, xerrors.Wrap(xerrors.ErrInvalidInput, "description is required")
	}

	date, err := parseDate(req.Date)
	if err != nil {
		return nil, err
	}

	t := &transaction.Transaction{
		ID:           ulid.Make().String(),
		CustomerID:   req.CustomerID,
		ShopkeeperID: shopID,
		Amount:       req.Amount,
		Type:         req.Type,
		Description:  desc,
		Date:         date,
		CreatedAt:    time.Now().UTC(),
	}

	updated, err := s.store.RecordTransaction(ctx, t)
	if err != nil {
		return nil, err
	}

	s.logger.Info("transaction recorded",
		zap.String("shopkeeper_id", shopID),
		zap.String("customer_id", t.CustomerID),
		zap.String("type", string(t.Type)),
		zap.Int64("amount", t.Amount),
		zap.Int64("total_due", updated.TotalDue))

	if s.notifier != nil {
		s.notifier.BroadcastLedgerEvent(shopID, "transaction.recorded", t)
		s.notifier.BroadcastLedgerEvent(shopID, "customer.updated", updated)
	}

	return &transaction.RecordTransactionResponse{
		Transaction: *t,
		TotalDue:    updated.TotalDue,
	}, nil
}

func (s *Service) Get(ctx context.Context, shopID, id string) (*transaction.Transaction, error) {
	return s.store.FindTransactionByID(ctx, shopID, id)
}

// List returns the shop's log, newest entries first, narrowed by the
// optional customer, type, and period filters, with debit/credit totals over
// what matched.
func (s *Service) List(ctx context.Context, shopID string, filters transaction.TransactionListFilters) (*transaction.TransactionListResponse, error) {
	var (
		txs []transaction.Transaction
		err error
	)
	if filters.CustomerID != "" {
		txs, err = s.store.ListTransactionsByCustomer(ctx, shopID, filters.CustomerID)
	} else {
		txs, err = s.store.ListTransactions(ctx, shopID)
	}
	if err != nil {
		return nil, err
	}

	since := periodStart(filters.Period, time.Now())
	out := make([]transaction.Transaction, 0, len(txs))
	stats := transaction.TransactionStats{}
	for _, t := range txs {
		if filters.Type != "" && filters.Type != "all" && string(t.Type) != filters.Type {
			continue
		}
		if !since.IsZero() && t.Date.Before(since) {
			continue
		}
		out = append(out, t)
		stats.Count++
		switch t.Type {
		case transaction.TypeDebit:
			stats.TotalDebit += t.Amount
		case transaction.TypeCredit:
			stats.TotalCredit += t.Amount
		}
	}

	return &transaction.TransactionListResponse{Transactions: out, Stats: stats}, nil
}

// Update edits a recorded entry. The customer's balance is deliberately
// left alone; a reconcile on the customer repairs it from the log.
func (s *Service) Update(ctx context.Context, shopID, id string, req *transaction.UpdateTransactionRequest) (*transaction.Transaction, error) {
	t, err := s.store.FindTransactionByID(ctx, shopID, id)
	if err != nil {
		return nil, err
	}

	if req.Amount != nil {
		if *req.Amount <= 0 {
			return nil, xerrors.Wrap(xerrors.ErrInvalidInput, "amount must be greater than zero")
		}
		t.Amount = *req.Amount
	}
	if req.Type != nil {
		if !req.Type.Valid() {
			return nil, xerrors.Wrap(xerrors.ErrInvalidInput, "type must be debit or credit")
		}
		t.Type = *req.Type
	}
	if req.Description != nil {
		desc := strings.TrimSpace(*req.Description)
		if desc == "" {
			return nil, xerrors.Wrap(xerrors.ErrInvalidInput, "description is required")
		}
		t.Description = desc
	}
	if req.Date != nil {
		date, err := parseDate(*req.Date)
		if err != nil {
			return nil, err
		}
		t.Date = date
	}

	if err := s.store.UpdateTransaction(ctx, t); err != nil {
		return nil, err
	}

	s.logger.Info("transaction updated",
		zap.String("shopkeeper_id", shopID),
		zap.String("transaction_id", t.ID))

	if s.notifier != nil {
		s.notifier.BroadcastLedgerEvent(shopID, "transaction.updated", t)
	}
	return t, nil
}

// Delete removes an entry from the log, again without balance adjustment.
func (s *Service) Delete(ctx context.Context, shopID, id string) error {
	if err := s.store.DeleteTransaction(ctx, shopID, id); err != nil {
		return err
	}

	s.logger.Info("transaction deleted",
		zap.String("shopkeeper_id", shopID),
		zap.String("transaction_id", id))

	if s.notifier != nil {
		s.notifier.BroadcastLedgerEvent(shopID, "transaction.deleted", map[string]string{"id": id})
	}
	return nil
}

func parseDate(raw string) (time.Time, error) {
	if strings.TrimSpace(raw) == "" {
		now := time.Now().UTC()
		return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC), nil
	}
	date, err := time.ParseInLocation(dateLayout, raw, time.UTC)
	if err != nil {
		return time.Time{}, xerrors.Wrap(xerrors.ErrInvalidInput, "date must be in YYYY-MM-DD form")
	}
	if today := time.Now().UTC().Truncate(24 * time.Hour); date.After(today) {
		return time.Time{}, xerrors.Wrap(xerrors.ErrInvalidInput, "date cannot be in the future")
	}
	return date, nil
}

// periodStart returns the inclusive lower bound for a period filter, or the
// zero time when no bound applies.
func periodStart(period string, now time.Time) time.Time {
	day := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	switch period {
	case "today":
		return day
	case "week":
		return day.AddDate(0, 0, -6)
	case "month":
		return day.AddDate(0, -1, 0)
	default:
		return time.Time{}
	}
}
