// internal/service/dashboard/dashboard.go
package dashboard

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"khata-service/internal/domain/customer"
	"khata-service/internal/domain/transaction"
)

const (
	cacheTTL       = 30 * time.Second
	recentLimit    = 5
	cacheKeyPrefix = "dashboard:"
)

// Summary is the shop's home screen in one payload.
type Summary struct {
	TotalDue         int64                     `json:"total_due"`
	TotalCustomers   int64                     `json:"total_customers"`
	CustomersWithDue int64                     `json:"customers_with_due"`
	TodayCount       int                       `json:"today_count"`
	TodayDebit       int64                     `json:"today_debit"`
	TodayCredit      int64                     `json:"today_credit"`
	Recent           []transaction.Transaction `json:"recent_transactions"`
}

// CustomerStore and TransactionLog are the read surfaces the dashboard
// aggregates over.
type CustomerStore interface {
	ListCustomers(ctx context.Context, shopID string) ([]customer.Customer, error)
}

type TransactionLog interface {
	ListTransactions(ctx context.Context, shopID string) ([]transaction.Transaction, error)
}

type Service struct {
	customers CustomerStore
	txLog     TransactionLog
	cache     *redis.Client
	logger    *zap.Logger
}

// NewService builds the dashboard. cache may be nil, in which case every
// request aggregates fresh.
func NewService(customers CustomerStore, txLog TransactionLog, cache *redis.Client, logger *zap.Logger) *Service {
	return &Service{customers: customers, txLog: txLog, cache: cache, logger: logger}
}

func (s *Service) Summary(ctx context.Context, shopID string) (*Summary, error) {
	if cached := s.fromCache(ctx, shopID); cached != nil {
		return cached, nil
	}

	all, err := s.customers.ListCustomers(ctx, shopID)
	if err != nil {
		return nil, err
	}

	summary := &Summary{TotalCustomers: int64(len(all))}
	for _, c := range all {
		if c.HasDue() {
			summary.CustomersWithDue++
			summary.TotalDue += c.TotalDue
		}
	}

	txs, err := s.txLog.ListTransactions(ctx, shopID)
	if err != nil {
		return nil, err
	}

	today := startOfToday()
	for _, t := range txs {
		if !t.Date.Before(today) {
			summary.TodayCount++
			switch t.Type {
			case transaction.TypeDebit:
				summary.TodayDebit += t.Amount
			case transaction.TypeCredit:
				summary.TodayCredit += t.Amount
			}
		}
	}

	// the log is already newest first
	if len(txs) > recentLimit {
		txs = txs[:recentLimit]
	}
	summary.Recent = txs

	s.toCache(ctx, shopID, summary)
	return summary, nil
}

// Invalidate drops the cached summary after a write. Callers may skip it
// when no cache is configured.
func (s *Service) Invalidate(ctx context.Context, shopID string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Del(ctx, cacheKeyPrefix+shopID).Err(); err != nil {
		s.logger.Warn("failed to invalidate dashboard cache",
			zap.String("shopkeeper_id", shopID),
			zap.Error(err))
	}
}

func (s *Service) fromCache(ctx context.Context, shopID string) *Summary {
	if s.cache == nil {
		return nil
	}
	raw, err := s.cache.Get(ctx, cacheKeyPrefix+shopID).Bytes()
	if err != nil {
		return nil
	}
	var summary Summary
	if err := json.Unmarshal(raw, &summary); err != nil {
		return nil
	}
	return &summary
}

func (s *Service) toCache(ctx context.Context, shopID string, summary *Summary) {
	if s.cache == nil {
		return
	}
	raw, err := json.Marshal(summary)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, cacheKeyPrefix+shopID, raw, cacheTTL).Err(); err != nil {
		s.logger.Warn("failed to cache dashboard summary", zap.Error(err))
	}
}

func startOfToday() time.Time {
	now := time.Now().UTC()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
}
