package customer

import (
	"context"
	"testing"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"khata-service/internal/domain/customer"
	"khata-service/internal/domain/transaction"
	"khata-service/internal/ledger"
	xerrors "khata-service/internal/pkg/errors"
)

const shopID = "01SHOPAAAAAAAAAAAAAAAAAAAA"

func newTestService() (*Service, *ledger.MemoryStore) {
	store := ledger.NewMemoryStore()
	return NewService(store, store, nil, zap.NewNop()), store
}

func createCustomer(t *testing.T, svc *Service, name, phone string) *customer.Customer {
	t.Helper()
	c, err := svc.Create(context.Background(), shopID, &customer.CreateCustomerRequest{
		Name:  name,
		Phone: phone,
	})
	require.NoError(t, err)
	return c
}

func TestCreateStartsWithZeroDue(t *testing.T) {
	svc, _ := newTestService()

	c := createCustomer(t, svc, "Anita Devi", "9000000001")
	assert.Equal(t, int64(0), c.TotalDue)
	assert.Equal(t, int64(1), c.Version)
	assert.False(t, c.HasDue())
}

func TestCreateValidation(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	_, err := svc.Create(ctx, shopID, &customer.CreateCustomerRequest{Name: "  ", Phone: "9000000001"})
	assert.ErrorIs(t, err, xerrors.ErrInvalidInput)

	_, err = svc.Create(ctx, shopID, &customer.CreateCustomerRequest{Name: "Anita", Phone: "12345"})
	assert.ErrorIs(t, err, xerrors.ErrInvalidInput)
}

func TestCreateDuplicatePhoneSameShop(t *testing.T) {
	svc, _ := newTestService()

	createCustomer(t, svc, "Anita Devi", "9000000001")
	_, err := svc.Create(context.Background(), shopID, &customer.CreateCustomerRequest{
		Name:  "Someone Else",
		Phone: "9000000001",
	})
	assert.ErrorIs(t, err, xerrors.ErrDuplicateEntry)
}

func TestListSearchAndFilter(t *testing.T) {
	svc, store := newTestService()
	ctx := context.Background()

	anita := createCustomer(t, svc, "Anita Devi", "9000000001")
	createCustomer(t, svc, "Bhavesh Patel", "9000000002")

	_, err := store.RecordTransaction(ctx, &transaction.Transaction{
		ID:           ulid.Make().String(),
		CustomerID:   anita.ID,
		ShopkeeperID: shopID,
		Amount:       50000,
		Type:         transaction.TypeDebit,
		Description:  "groceries",
		Date:         time.Now(),
	})
	require.NoError(t, err)

	resp, err := svc.List(ctx, shopID, customer.CustomerListFilters{})
	require.NoError(t, err)
	assert.Equal(t, 2, resp.Total)

	resp, err = svc.List(ctx, shopID, customer.CustomerListFilters{Search: "anita"})
	require.NoError(t, err)
	require.Equal(t, 1, resp.Total)
	assert.Equal(t, anita.ID, resp.Customers[0].ID)

	resp, err = svc.List(ctx, shopID, customer.CustomerListFilters{Search: "9000000002"})
	require.NoError(t, err)
	assert.Equal(t, 1, resp.Total)

	resp, err = svc.List(ctx, shopID, customer.CustomerListFilters{Filter: customer.FilterDue})
	require.NoError(t, err)
	require.Equal(t, 1, resp.Total)
	assert.Equal(t, anita.ID, resp.Customers[0].ID)

	resp, err = svc.List(ctx, shopID, customer.CustomerListFilters{Filter: customer.FilterClear})
	require.NoError(t, err)
	assert.Equal(t, 1, resp.Total)
}

func TestUpdatePartialAndVersion(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	c := createCustomer(t, svc, "Anita Devi", "9000000001")

	newName := "Anita Kumari"
	updated, err := svc.Update(ctx, shopID, c.ID, &customer.UpdateCustomerRequest{
		Name:    &newName,
		Version: c.Version,
	})
	require.NoError(t, err)
	assert.Equal(t, "Anita Kumari", updated.Name)
	assert.Equal(t, "9000000001", updated.Phone)
	assert.Equal(t, c.Version+1, updated.Version)

	// retry with the stale version the first device saw
	_, err = svc.Update(ctx, shopID, c.ID, &customer.UpdateCustomerRequest{
		Name:    &newName,
		Version: c.Version,
	})
	assert.ErrorIs(t, err, xerrors.ErrVersionConflict)
}

func TestUpdatePhoneConflict(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	createCustomer(t, svc, "Anita Devi", "9000000001")
	b := createCustomer(t, svc, "Bhavesh Patel", "9000000002")

	taken := "9000000001"
	_, err := svc.Update(ctx, shopID, b.ID, &customer.UpdateCustomerRequest{Phone: &taken})
	assert.ErrorIs(t, err, xerrors.ErrDuplicateEntry)
}

func TestUpdateMissingCustomer(t *testing.T) {
	svc, _ := newTestService()

	name := "Ghost"
	_, err := svc.Update(context.Background(), shopID, "no-such-id", &customer.UpdateCustomerRequest{Name: &name})
	assert.ErrorIs(t, err, xerrors.ErrNotFound)
}

func TestDeleteKeepsTransactions(t *testing.T) {
	svc, store := newTestService()
	ctx := context.Background()

	c := createCustomer(t, svc, "Anita Devi", "9000000001")
	_, err := store.RecordTransaction(ctx, &transaction.Transaction{
		ID:           ulid.Make().String(),
		CustomerID:   c.ID,
		ShopkeeperID: shopID,
		Amount:       30000,
		Type:         transaction.TypeDebit,
		Description:  "kirana",
		Date:         time.Now(),
	})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, shopID, c.ID))

	_, err = svc.Get(ctx, shopID, c.ID)
	assert.ErrorIs(t, err, xerrors.ErrNotFound)

	txs, err := store.ListTransactionsByCustomer(ctx, shopID, c.ID)
	require.NoError(t, err)
	assert.Len(t, txs, 1)

	assert.ErrorIs(t, svc.Delete(ctx, shopID, c.ID), xerrors.ErrNotFound)
}

func TestStats(t *testing.T) {
	svc, store := newTestService()
	ctx := context.Background()

	a := createCustomer(t, svc, "Anita Devi", "9000000001")
	createCustomer(t, svc, "Bhavesh Patel", "9000000002")
	createCustomer(t, svc, "Chetan Rao", "9000000003")

	_, err := store.RecordTransaction(ctx, &transaction.Transaction{
		ID:           ulid.Make().String(),
		CustomerID:   a.ID,
		ShopkeeperID: shopID,
		Amount:       150000,
		Type:         transaction.TypeDebit,
		Description:  "monthly ration",
		Date:         time.Now(),
	})
	require.NoError(t, err)

	stats, err := svc.Stats(ctx, shopID)
	require.NoError(t, err)
	assert.Equal(t, int64(3), stats.TotalCustomers)
	assert.Equal(t, int64(1), stats.WithDue)
	assert.Equal(t, int64(2), stats.Clear)
	assert.Equal(t, int64(150000), stats.TotalDue)
}

func TestReconcileRepairsBalance(t *testing.T) {
	svc, store := newTestService()
	ctx := context.Background()

	c := createCustomer(t, svc, "Anita Devi", "9000000001")

	debit := &transaction.Transaction{
		ID:           ulid.Make().String(),
		CustomerID:   c.ID,
		ShopkeeperID: shopID,
		Amount:       100000,
		Type:         transaction.TypeDebit,
		Description:  "stock",
		Date:         time.Now(),
	}
	_, err := store.RecordTransaction(ctx, debit)
	require.NoError(t, err)

	_, err = store.RecordTransaction(ctx, &transaction.Transaction{
		ID:           ulid.Make().String(),
		CustomerID:   c.ID,
		ShopkeeperID: shopID,
		Amount:       40000,
		Type:         transaction.TypeCredit,
		Description:  "part payment",
		Date:         time.Now(),
	})
	require.NoError(t, err)

	// editing an entry does not touch the balance until reconcile runs
	debit.Amount = 60000
	require.NoError(t, store.UpdateTransaction(ctx, debit))

	before, err := svc.Get(ctx, shopID, c.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(60000), before.TotalDue)

	after, err := svc.Reconcile(ctx, shopID, c.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(20000), after.TotalDue)
}

func TestReconcileClampsAtZero(t *testing.T) {
	svc, store := newTestService()
	ctx := context.Background()

	c := createCustomer(t, svc, "Anita Devi", "9000000001")

	_, err := store.RecordTransaction(ctx, &transaction.Transaction{
		ID:           ulid.Make().String(),
		CustomerID:   c.ID,
		ShopkeeperID: shopID,
		Amount:       50000,
		Type:         transaction.TypeCredit,
		Description:  "advance",
		Date:         time.Now(),
	})
	require.NoError(t, err)

	after, err := svc.Reconcile(ctx, shopID, c.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), after.TotalDue)
}
