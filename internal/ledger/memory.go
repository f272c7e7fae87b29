// internal/ledger/memory.go
package ledger

import (
	"context"
	"sync"
	"time"

	"khata-service/internal/domain/customer"
	"khata-service/internal/domain/shopkeeper"
	"khata-service/internal/domain/transaction"
	xerrors "khata-service/internal/pkg/errors"
)

// MemoryStore keeps the whole ledger in process memory: shopkeepers,
// customers in insertion order, and transactions newest-first. It is the
// store the services run on when STORE_DRIVER=memory (state resets on
// restart, matching the original mock backend) and the substrate for the
// service unit tests.
//
// All methods take the owning shopkeeper id; records from other shops are
// invisible, including to FindByID.
type MemoryStore struct {
	mu           sync.RWMutex
	shopkeepers  []shopkeeper.Shopkeeper
	customers    []customer.Customer
	transactions []transaction.Transaction
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// ========== Shopkeepers ==========

func (s *MemoryStore) CreateShopkeeper(ctx context.Context, sk *shopkeeper.Shopkeeper) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.shopkeepers {
		if s.shopkeepers[i].Phone == sk.Phone {
			return xerrors.ErrDuplicateEntry
		}
	}

	now := time.Now()
	sk.CreatedAt = now
	sk.UpdatedAt = now
	s.shopkeepers = append(s.shopkeepers, *sk)
	return nil
}

func (s *MemoryStore) FindShopkeeperByPhone(ctx context.Context, phone string) (*shopkeeper.Shopkeeper, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for i := range s.shopkeepers {
		if s.shopkeepers[i].Phone == phone {
			sk := s.shopkeepers[i]
			return &sk, nil
		}
	}
	return nil, xerrors.ErrNotFound
}

func (s *MemoryStore) FindShopkeeperByID(ctx context.Context, id string) (*shopkeeper.Shopkeeper, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for i := range s.shopkeepers {
		if s.shopkeepers[i].ID == id {
			sk := s.shopkeepers[i]
			return &sk, nil
		}
	}
	return nil, xerrors.ErrNotFound
}

// ========== Customers ==========

func (s *MemoryStore) CreateCustomer(ctx context.Context, c *customer.Customer) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.customers {
		if s.customers[i].ShopkeeperID == c.ShopkeeperID && s.customers[i].Phone == c.Phone {
			return xerrors.ErrDuplicateEntry
		}
	}

	now := time.Now()
	c.CreatedAt = now
	c.UpdatedAt = now
	c.Version = 1
	s.customers = append(s.customers, *c)
	return nil
}

func (s *MemoryStore) FindCustomerByID(ctx context.Context, shopID, id string) (*customer.Customer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if i := s.customerIndex(shopID, id); i >= 0 {
		c := s.customers[i]
		return &c, nil
	}
	return nil, xerrors.ErrNotFound
}

func (s *MemoryStore) FindCustomerByPhone(ctx context.Context, shopID, phone string) (*customer.Customer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for i := range s.customers {
		if s.customers[i].ShopkeeperID == shopID && s.customers[i].Phone == phone {
			c := s.customers[i]
			return &c, nil
		}
	}
	return nil, xerrors.ErrNotFound
}

// ListCustomers returns the shop's customers in insertion order.
func (s *MemoryStore) ListCustomers(ctx context.Context, shopID string) ([]customer.Customer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := []customer.Customer{}
	for i := range s.customers {
		if s.customers[i].ShopkeeperID == shopID {
			out = append(out, s.customers[i])
		}
	}
	return out, nil
}

// UpdateCustomer replaces the stored record matching the customer's id. A
// missing id is an error, not a silent no-op. The version check rejects
// writes based on a stale read.
func (s *MemoryStore) UpdateCustomer(ctx context.Context, c *customer.Customer) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.customerIndex(c.ShopkeeperID, c.ID)
	if i < 0 {
		return xerrors.ErrNotFound
	}
	if s.customers[i].Version != c.Version {
		return xerrors.ErrVersionConflict
	}

	c.Version++
	c.UpdatedAt = time.Now()
	c.CreatedAt = s.customers[i].CreatedAt
	s.customers[i] = *c
	return nil
}

// DeleteCustomer removes the customer only. Their transactions stay in the
// log; history of a settled khata remains readable after the account is
// closed.
func (s *MemoryStore) DeleteCustomer(ctx context.Context, shopID, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.customerIndex(shopID, id)
	if i < 0 {
		return xerrors.ErrNotFound
	}
	s.customers = append(s.customers[:i], s.customers[i+1:]...)
	return nil
}

func (s *MemoryStore) customerIndex(shopID, id string) int {
	for i := range s.customers {
		if s.customers[i].ShopkeeperID == shopID && s.customers[i].ID == id {
			return i
		}
	}
	return -1
}

// ========== Transactions ==========

// RecordTransaction appends the entry at the head of the log and applies the
// balance rule to the customer, atomically under the store lock. The rule is
// never applied when the customer does not exist.
func (s *MemoryStore) RecordTransaction(ctx context.Context, t *transaction.Transaction) (*customer.Customer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.customerIndex(t.ShopkeeperID, t.CustomerID)
	if i < 0 {
		return nil, xerrors.ErrCustomerMissing
	}

	t.CreatedAt = time.Now()
	s.transactions = append([]transaction.Transaction{*t}, s.transactions...)

	c := &s.customers[i]
	c.TotalDue = Apply(c.TotalDue, t.Type, t.Amount)
	c.Version++
	c.UpdatedAt = t.CreatedAt

	updated := *c
	return &updated, nil
}

// ListTransactions returns the shop's transactions newest-insertion-first.
func (s *MemoryStore) ListTransactions(ctx context.Context, shopID string) ([]transaction.Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := []transaction.Transaction{}
	for i := range s.transactions {
		if s.transactions[i].ShopkeeperID == shopID {
			out = append(out, s.transactions[i])
		}
	}
	return out, nil
}

func (s *MemoryStore) ListTransactionsByCustomer(ctx context.Context, shopID, customerID string) ([]transaction.Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := []transaction.Transaction{}
	for i := range s.transactions {
		if s.transactions[i].ShopkeeperID == shopID && s.transactions[i].CustomerID == customerID {
			out = append(out, s.transactions[i])
		}
	}
	return out, nil
}

func (s *MemoryStore) FindTransactionByID(ctx context.Context, shopID, id string) (*transaction.Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if i := s.transactionIndex(shopID, id); i >= 0 {
		t := s.transactions[i]
		return &t, nil
	}
	return nil, xerrors.ErrNotFound
}

// UpdateTransaction replaces an entry by id. It does NOT touch any customer
// balance; callers that change amounts must reconcile the customer
// afterwards.
func (s *MemoryStore) UpdateTransaction(ctx context.Context, t *transaction.Transaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.transactionIndex(t.ShopkeeperID, t.ID)
	if i < 0 {
		return xerrors.ErrNotFound
	}
	t.CreatedAt = s.transactions[i].CreatedAt
	s.transactions[i] = *t
	return nil
}

// DeleteTransaction removes an entry by id, again without balance
// adjustment.
func (s *MemoryStore) DeleteTransaction(ctx context.Context, shopID, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.transactionIndex(shopID, id)
	if i < 0 {
		return xerrors.ErrNotFound
	}
	s.transactions = append(s.transactions[:i], s.transactions[i+1:]...)
	return nil
}

func (s *MemoryStore) transactionIndex(shopID, id string) int {
	for i := range s.transactions {
		if s.transactions[i].ShopkeeperID == shopID && s.transactions[i].ID == id {
			return i
		}
	}
	return -1
}
