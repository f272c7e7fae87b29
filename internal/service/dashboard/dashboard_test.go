package dashboard

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/oklog/ulid/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"khata-service/internal/domain/customer"
	"khata-service/internal/domain/transaction"
	"khata-service/internal/ledger"
)

const shopID = "01SHOPAAAAAAAAAAAAAAAAAAAA"

func seedStore(t *testing.T) *ledger.MemoryStore {
	t.Helper()
	ctx := context.Background()
	store := ledger.NewMemoryStore()

	a := &customer.Customer{ID: ulid.Make().String(), ShopkeeperID: shopID, Name: "Anita Devi", Phone: "9000000001", Version: 1}
	b := &customer.Customer{ID: ulid.Make().String(), ShopkeeperID: shopID, Name: "Bhavesh Patel", Phone: "9000000002", Version: 1}
	require.NoError(t, store.CreateCustomer(ctx, a))
	require.NoError(t, store.CreateCustomer(ctx, b))

	today := time.Now().UTC()
	day := time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, time.UTC)

	for i, tx := range []transaction.Transaction{
		{CustomerID: a.ID, Amount: 100000, Type: transaction.TypeDebit, Description: "ration", Date: day.AddDate(0, 0, -3)},
		{CustomerID: a.ID, Amount: 20000, Type: transaction.TypeCredit, Description: "payment", Date: day},
		{CustomerID: b.ID, Amount: 50000, Type: transaction.TypeDebit, Description: "stock", Date: day},
	} {
		tx.ID = ulid.Make().String()
		tx.ShopkeeperID = shopID
		tx.CreatedAt = time.Now().Add(time.Duration(i) * time.Millisecond)
		_, err := store.RecordTransaction(ctx, &tx)
		require.NoError(t, err)
	}
	return store
}

func TestSummaryAggregates(t *testing.T) {
	store := seedStore(t)
	svc := NewService(store, store, nil, zap.NewNop())

	summary, err := svc.Summary(context.Background(), shopID)
	require.NoError(t, err)

	assert.Equal(t, int64(2), summary.TotalCustomers)
	assert.Equal(t, int64(2), summary.CustomersWithDue)
	assert.Equal(t, int64(130000), summary.TotalDue)
	assert.Equal(t, 2, summary.TodayCount)
	assert.Equal(t, int64(50000), summary.TodayDebit)
	assert.Equal(t, int64(20000), summary.TodayCredit)

	require.Len(t, summary.Recent, 3)
	assert.Equal(t, "stock", summary.Recent[0].Description)
}

func TestSummaryRecentLimit(t *testing.T) {
	ctx := context.Background()
	store := ledger.NewMemoryStore()
	c := &customer.Customer{ID: ulid.Make().String(), ShopkeeperID: shopID, Name: "Anita Devi", Phone: "9000000001", Version: 1}
	require.NoError(t, store.CreateCustomer(ctx, c))

	for i := 0; i < 8; i++ {
		_, err := store.RecordTransaction(ctx, &transaction.Transaction{
			ID:           ulid.Make().String(),
			CustomerID:   c.ID,
			ShopkeeperID: shopID,
			Amount:       int64(100 * (i + 1)),
			Type:         transaction.TypeDebit,
			Description:  "entry",
			Date:         time.Now().UTC(),
		})
		require.NoError(t, err)
	}

	svc := NewService(store, store, nil, zap.NewNop())
	summary, err := svc.Summary(ctx, shopID)
	require.NoError(t, err)

	require.Len(t, summary.Recent, 5)
	assert.Equal(t, int64(800), summary.Recent[0].Amount)
}

func TestSummaryCache(t *testing.T) {
	mr := miniredis.RunT(t)
	cache := redis.NewClient(&redis.Options{Addr: mr.Addr()})

	store := seedStore(t)
	svc := NewService(store, store, cache, zap.NewNop())
	ctx := context.Background()

	first, err := svc.Summary(ctx, shopID)
	require.NoError(t, err)

	// a new write does not show until the cache is invalidated
	_, err = store.RecordTransaction(ctx, &transaction.Transaction{
		ID:           ulid.Make().String(),
		CustomerID:   first.Recent[0].CustomerID,
		ShopkeeperID: shopID,
		Amount:       999,
		Type:         transaction.TypeDebit,
		Description:  "late entry",
		Date:         time.Now().UTC(),
	})
	require.NoError(t, err)

	cached, err := svc.Summary(ctx, shopID)
	require.NoError(t, err)
	assert.Equal(t, first.TotalDue, cached.TotalDue)

	svc.Invalidate(ctx, shopID)

	fresh, err := svc.Summary(ctx, shopID)
	require.NoError(t, err)
	assert.Equal(t, first.TotalDue+999, fresh.TotalDue)
}

func TestSummaryEmptyShop(t *testing.T) {
	store := ledger.NewMemoryStore()
	svc := NewService(store, store, nil, zap.NewNop())

	summary, err := svc.Summary(context.Background(), shopID)
	require.NoError(t, err)
	assert.Zero(t, summary.TotalDue)
	assert.Zero(t, summary.TotalCustomers)
	assert.Empty(t, summary.Recent)
}
