package transaction

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

func newTestService(t *testing.T) (*Service, *ledger.MemoryStore, *customer.Customer) {
	t.Helper()

	store := ledger.NewMemoryStore()
	c := &customer.Customer{
		ID:           ulid.Make().String(),
		ShopkeeperID: shopID,
		Name:         "Anita Devi",
		Phone:        "9000000001",
		Version:      1,
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}
	require.NoError(t, store.CreateCustomer(context.Background(), c))

	return NewService(store, nil, zap.NewNop()), store, c
}

func record(t *testing.T, svc *Service, customerID string, amount int64, typ transaction.Type) *transaction.RecordTransactionResponse {
	t.Helper()
	resp, err := svc.Record(context.Background(), shopID, &transaction.RecordTransactionRequest{
		CustomerID:  customerID,
		Amount:      amount,
		Type:        typ,
		Description: "test entry",
	})
	require.NoError(t, err)
	return resp
}

func TestRecordDebitRaisesDue(t *testing.T) {
	svc, _, c := newTestService(t)

	resp := record(t, svc, c.ID, 100000, transaction.TypeDebit)
	assert.Equal(t, int64(100000), resp.TotalDue)
	assert.NotEmpty(t, resp.Transaction.ID)
}

func TestRecordCreditClampsAtZero(t *testing.T) {
	svc, _, c := newTestService(t)

	record(t, svc, c.ID, 100000, transaction.TypeDebit)
	resp := record(t, svc, c.ID, 150000, transaction.TypeCredit)

	// overpayment settles the book, it does not go negative
	assert.Equal(t, int64(0), resp.TotalDue)
}

func TestRecordValidation(t *testing.T) {
	svc, _, c := newTestService(t)
	ctx := context.Background()

	cases := []struct {
		name string
		req  *transaction.RecordTransactionRequest
	}{
		{"zero amount", &transaction.RecordTransactionRequest{CustomerID: c.ID, Amount: 0, Type: transaction.TypeDebit, Description: "x"}},
		{"negative amount", &transaction.RecordTransactionRequest{CustomerID: c.ID, Amount: -5, Type: transaction.TypeDebit, Description: "x"}},
		{"bad type", &transaction.RecordTransactionRequest{CustomerID: c.ID, Amount: 100, Type: "refund", Description: "x"}},
		{"empty description", &transaction.RecordTransactionRequest{CustomerID: c.ID, Amount: 100, Type: transaction.TypeDebit, Description: "  "}},
		{"bad date", &transaction.RecordTransactionRequest{CustomerID: c.ID, Amount: 100, Type: transaction.TypeDebit, Description: "x", Date: "31-01-2026"}},
		{"future date", &transaction.RecordTransactionRequest{CustomerID: c.ID, Amount: 100, Type: transaction.TypeDebit, Description: "x", Date: time.Now().UTC().AddDate(0, 0, 2).Format("2006-01-02")}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Record(ctx, shopID, tc.req)
			assert.ErrorIs(t, err, xerrors.ErrInvalidInput)
		})
	}
}

func TestRecordMissingCustomer(t *testing.T) {
	svc, store, _ := newTestService(t)

	_, err := svc.Record(context.Background(), shopID, &transaction.RecordTransactionRequest{
		CustomerID:  "no-such-customer",
		Amount:      100,
		Type:        transaction.TypeDebit,
		Description: "x",
	})
	assert.ErrorIs(t, err, xerrors.ErrCustomerMissing)

	// the failed record must not leave a log entry behind
	txs, err := store.ListTransactions(context.Background(), shopID)
	require.NoError(t, err)
	assert.Empty(t, txs)
}

func TestListNewestFirst(t *testing.T) {
	svc, _, c := newTestService(t)

	first := record(t, svc, c.ID, 100, transaction.TypeDebit)
	second := record(t, svc, c.ID, 200, transaction.TypeDebit)
	third := record(t, svc, c.ID, 300, transaction.TypeCredit)

	resp, err := svc.List(context.Background(), shopID, transaction.TransactionListFilters{})
	require.NoError(t, err)
	require.Len(t, resp.Transactions, 3)
	assert.Equal(t, third.Transaction.ID, resp.Transactions[0].ID)
	assert.Equal(t, second.Transaction.ID, resp.Transactions[1].ID)
	assert.Equal(t, first.Transaction.ID, resp.Transactions[2].ID)
}

func TestListTypeFilterAndStats(t *testing.T) {
	svc, _, c := newTestService(t)
	ctx := context.Background()

	record(t, svc, c.ID, 100000, transaction.TypeDebit)
	record(t, svc, c.ID, 50000, transaction.TypeDebit)
	record(t, svc, c.ID, 30000, transaction.TypeCredit)

	resp, err := svc.List(ctx, shopID, transaction.TransactionListFilters{})
	require.NoError(t, err)
	assert.Equal(t, 3, resp.Stats.Count)
	assert.Equal(t, int64(150000), resp.Stats.TotalDebit)
	assert.Equal(t, int64(30000), resp.Stats.TotalCredit)

	resp, err = svc.List(ctx, shopID, transaction.TransactionListFilters{Type: "credit"})
	require.NoError(t, err)
	require.Len(t, resp.Transactions, 1)
	assert.Equal(t, int64(30000), resp.Stats.TotalCredit)
	assert.Equal(t, int64(0), resp.Stats.TotalDebit)
}

func TestListPeriodFilter(t *testing.T) {
	svc, store, c := newTestService(t)
	ctx := context.Background()

	old := time.Now().UTC().AddDate(0, -2, 0)
	_, err := store.RecordTransaction(ctx, &transaction.Transaction{
		ID:           ulid.Make().String(),
		CustomerID:   c.ID,
		ShopkeeperID: shopID,
		Amount:       70000,
		Type:         transaction.TypeDebit,
		Description:  "old entry",
		Date:         time.Date(old.Year(), old.Month(), old.Day(), 0, 0, 0, 0, time.UTC),
		CreatedAt:    old,
	})
	require.NoError(t, err)

	record(t, svc, c.ID, 20000, transaction.TypeDebit)

	resp, err := svc.List(ctx, shopID, transaction.TransactionListFilters{Period: "today"})
	require.NoError(t, err)
	require.Len(t, resp.Transactions, 1)
	assert.Equal(t, int64(20000), resp.Transactions[0].Amount)

	resp, err = svc.List(ctx, shopID, transaction.TransactionListFilters{Period: "month"})
	require.NoError(t, err)
	assert.Len(t, resp.Transactions, 1)

	resp, err = svc.List(ctx, shopID, transaction.TransactionListFilters{})
	require.NoError(t, err)
	assert.Len(t, resp.Transactions, 2)
}

func TestListByCustomer(t *testing.T) {
	svc, store, c := newTestService(t)
	ctx := context.Background()

	other := &customer.Customer{
		ID:           ulid.Make().String(),
		ShopkeeperID: shopID,
		Name:         "Bhavesh Patel",
		Phone:        "9000000002",
		Version:      1,
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}
	require.NoError(t, store.CreateCustomer(ctx, other))

	record(t, svc, c.ID, 100, transaction.TypeDebit)
	record(t, svc, other.ID, 200, transaction.TypeDebit)

	resp, err := svc.List(ctx, shopID, transaction.TransactionListFilters{CustomerID: c.ID})
	require.NoError(t, err)
	require.Len(t, resp.Transactions, 1)
	assert.Equal(t, c.ID, resp.Transactions[0].CustomerID)
}

func TestUpdateLeavesBalanceAlone(t *testing.T) {
	svc, store, c := newTestService(t)
	ctx := context.Background()

	resp := record(t, svc, c.ID, 100000, transaction.TypeDebit)

	newAmount := int64(60000)
	updated, err := svc.Update(ctx, shopID, resp.Transaction.ID, &transaction.UpdateTransactionRequest{
		Amount: &newAmount,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(60000), updated.Amount)

	// due still reflects the original amount until a reconcile runs
	fresh, err := store.FindCustomerByID(ctx, shopID, c.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(100000), fresh.TotalDue)
}

func TestUpdateValidation(t *testing.T) {
	svc, _, c := newTestService(t)
	ctx := context.Background()

	resp := record(t, svc, c.ID, 100, transaction.TypeDebit)

	bad := int64(-5)
	_, err := svc.Update(ctx, shopID, resp.Transaction.ID, &transaction.UpdateTransactionRequest{Amount: &bad})
	assert.ErrorIs(t, err, xerrors.ErrInvalidInput)

	empty := "  "
	_, err = svc.Update(ctx, shopID, resp.Transaction.ID, &transaction.UpdateTransactionRequest{Description: &empty})
	assert.ErrorIs(t, err, xerrors.ErrInvalidInput)

	_, err = svc.Update(ctx, shopID, "missing", &transaction.UpdateTransactionRequest{})
	assert.ErrorIs(t, err, xerrors.ErrNotFound)
}

func TestDeleteLeavesBalanceAlone(t *testing.T) {
	svc, store, c := newTestService(t)
	ctx := context.Background()

	resp := record(t, svc, c.ID, 100000, transaction.TypeDebit)

	require.NoError(t, svc.Delete(ctx, shopID, resp.Transaction.ID))

	_, err := svc.Get(ctx, shopID, resp.Transaction.ID)
	assert.ErrorIs(t, err, xerrors.ErrNotFound)

	fresh, err := store.FindCustomerByID(ctx, shopID, c.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(100000), fresh.TotalDue)

	assert.ErrorIs(t, svc.Delete(ctx, shopID, resp.Transaction.ID), xerrors.ErrNotFound)
}

func TestGet(t *testing.T) {
	svc, _, c := newTestService(t)

	resp := record(t, svc, c.ID, 100, transaction.TypeDebit)

	got, err := svc.Get(context.Background(), shopID, resp.Transaction.ID)
	require.NoError(t, err)
	assert.Equal(t, resp.Transaction.ID, got.ID)

	_, err = svc.Get(context.Background(), shopID, "missing")
	assert.ErrorIs(t, err, xerrors.ErrNotFound)
}
