// internal/service/customer/customer.go
package customer

import (
	"context"
	"regexp"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"
	"go.uber.org/zap"

	"khata-service/internal/domain/customer"
	"khata-service/internal/domain/transaction"
	"khata-service/internal/ledger"
	xerrors "khata-service/internal/pkg/errors"
)

var phonePattern = regexp.MustCompile(`^[0-9]{10}$`)

// Store is the customer persistence surface. Both the in-memory ledger store
// and the postgres repository satisfy it.
type Store interface {
	CreateCustomer(ctx context.Context, c *customer.Customer) error
	FindCustomerByID(ctx context.Context, shopID, id string) (*customer.Customer, error)
	FindCustomerByPhone(ctx context.Context, shopID, phone string) (*customer.Customer, error)
	ListCustomers(ctx context.Context, shopID string) ([]customer.Customer, error)
	UpdateCustomer(ctx context.Context, c *customer.Customer) error
	DeleteCustomer(ctx context.Context, shopID, id string) error
}

// TransactionLog is the read side of the transaction store that reconcile
// and per-customer stats need.
type TransactionLog interface {
	ListTransactionsByCustomer(ctx context.Context, shopID, customerID string) ([]transaction.Transaction, error)
}

// Notifier pushes change events to connected devices. May be nil.
type Notifier interface {
	BroadcastLedgerEvent(shopkeeperID, eventType string, data interface{})
}

type Service struct {
	store    Store
	txLog    TransactionLog
	notifier Notifier
	logger   *zap.Logger
}

func NewService(store Store, txLog TransactionLog, notifier Notifier, logger *zap.Logger) *Service {
	return &Service{store: store, txLog: txLog, notifier: notifier, logger: logger}
}

func (s *Service) Create(ctx context.Context, shopID string, req *customer.CreateCustomerRequest) (*customer.Customer, error) {
	name := strings.TrimSpace(req.Name)
	phone := strings.TrimSpace(req.Phone)

	if name == "" {
		return nil, xerrors.Wrap(xerrors.ErrInvalidInput, "customer name is required")
	}
	if !phonePattern.MatchString(phone) {
		return nil, xerrors.Wrap(xerrors.ErrInvalidInput, "phone must be a 10 digit number")
	}

	// the store's uniqueness constraint backs this check under races
	if existing, err := s.store.FindCustomerByPhone(ctx, shopID, phone); err == nil && existing != nil {
		return nil, xerrors.Wrap(xerrors.ErrDuplicateEntry, "a customer with this phone already exists")
	}

	now := time.Now().UTC()
	c := &customer.Customer{
		ID:           ulid.Make().String(),
		ShopkeeperID: shopID,
		Name:         name,
		Phone:        phone,
		TotalDue:     0,
		Version:      1,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if addr := strings.TrimSpace(req.Address); addr != "" {
		c.Address.String = addr
		c.Address.Valid = true
	}

	if err := s.store.CreateCustomer(ctx, c); err != nil {
		return nil, err
	}

	s.logger.Info("customer created",
		zap.String("shopkeeper_id", shopID),
		zap.String("customer_id", c.ID))
	s.notify(shopID, "customer.created", c)
	return c, nil
}

func (s *Service) Get(ctx context.Context, shopID, id string) (*customer.Customer, error) {
	return s.store.FindCustomerByID(ctx, shopID, id)
}

// List returns the shop's customers, optionally narrowed by a name or phone
// search and a due/clear filter.
func (s *Service) List(ctx context.Context, shopID string, filters customer.CustomerListFilters) (*customer.CustomerListResponse, error) {
	all, err := s.store.ListCustomers(ctx, shopID)
	if err != nil {
		return nil, err
	}

	search := strings.ToLower(strings.TrimSpace(filters.Search))
	out := make([]customer.Customer, 0, len(all))
	for _, c := range all {
		if search != "" &&
			!strings.Contains(strings.ToLower(c.Name), search) &&
			!strings.Contains(c.Phone, search) {
			continue
		}
		switch filters.Filter {
		case customer.FilterDue:
			if !c.HasDue() {
				continue
			}
		case customer.FilterClear:
			if c.HasDue() {
				continue
			}
		}
		out = append(out, c)
	}

	return &customer.CustomerListResponse{Customers: out, Total: len(out)}, nil
}

// Update applies partial edits. The request carries the version the caller
// last saw; a mismatch means another device edited in between.
func (s *Service) Update(ctx context.Context, shopID, id string, req *customer.UpdateCustomerRequest) (*customer.Customer, error) {
	c, err := s.store.FindCustomerByID(ctx, shopID, id)
	if err != nil {
		return nil, err
	}
	if req.Version != 0 {
		c.Version = req.Version
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, xerrors.Wrap(xerrors.ErrInvalidInput, "customer name is required")
		}
		c.Name = name
	}
	if req.Phone != nil {
		phone := strings.TrimSpace(*req.Phone)
		if !phonePattern.MatchString(phone) {
			return nil, xerrors.Wrap(xerrors.ErrInvalidInput, "phone must be a 10 digit number")
		}
		if phone != c.Phone {
			if other, err := s.store.FindCustomerByPhone(ctx, shopID, phone); err == nil && other != nil && other.ID != c.ID {
				return nil, xerrors.Wrap(xerrors.ErrDuplicateEntry, "a customer with this phone already exists")
			}
		}
		c.Phone = phone
	}
	if req.Address != nil {
		addr := strings.TrimSpace(*req.Address)
		c.Address.String = addr
		c.Address.Valid = addr != ""
	}

	c.UpdatedAt = time.Now().UTC()
	if err := s.store.UpdateCustomer(ctx, c); err != nil {
		return nil, err
	}

	s.logger.Info("customer updated",
		zap.String("shopkeeper_id", shopID),
		zap.String("customer_id", c.ID))
	s.notify(shopID, "customer.updated", c)
	return c, nil
}

// Delete removes the customer record. Their transactions stay in the log as
// history of money that actually moved.
func (s *Service) Delete(ctx context.Context, shopID, id string) error {
	if err := s.store.DeleteCustomer(ctx, shopID, id); err != nil {
		return err
	}

	s.logger.Info("customer deleted",
		zap.String("shopkeeper_id", shopID),
		zap.String("customer_id", id))
	s.notify(shopID, "customer.deleted", map[string]string{"id": id})
	return nil
}

// Stats summarizes the shop's book: how many customers, how many owe, and
// the total outstanding.
func (s *Service) Stats(ctx context.Context, shopID string) (*customer.CustomerStats, error) {
	all, err := s.store.ListCustomers(ctx, shopID)
	if err != nil {
		return nil, err
	}

	stats := &customer.CustomerStats{TotalCustomers: int64(len(all))}
	for _, c := range all {
		if c.HasDue() {
			stats.WithDue++
			stats.TotalDue += c.TotalDue
		} else {
			stats.Clear++
		}
	}
	return stats, nil
}

// Reconcile replays the customer's full transaction history and writes the
// recomputed balance back. This is the repair path after transactions are
// edited or deleted out of band.
func (s *Service) Reconcile(ctx context.Context, shopID, id string) (*customer.Customer, error) {
	c, err := s.store.FindCustomerByID(ctx, shopID, id)
	if err != nil {
		return nil, err
	}

	txs, err := s.txLog.ListTransactionsByCustomer(ctx, shopID, id)
	if err != nil {
		return nil, err
	}

	// the log is newest first; replay wants oldest first
	for i, j := 0, len(txs)-1; i < j; i, j = i+1, j-1 {
		txs[i], txs[j] = txs[j], txs[i]
	}

	due := ledger.Recompute(txs)
	if due == c.TotalDue {
		return c, nil
	}

	c.TotalDue = due
	c.UpdatedAt = time.Now().UTC()
	if err := s.store.UpdateCustomer(ctx, c); err != nil {
		return nil, err
	}

	s.logger.Info("customer balance reconciled",
		zap.String("shopkeeper_id", shopID),
		zap.String("customer_id", c.ID),
		zap.Int64("total_due", due))
	s.notify(shopID, "customer.updated", c)
	return c, nil
}

func (s *Service) notify(shopID, event string, data interface{}) {
	if s.notifier != nil {
		s.notifier.BroadcastLedgerEvent(shopID, event, data)
	}
}
