// internal/app/server.go
package app

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"khata-service/internal/config"
	"khata-service/internal/database"
	"khata-service/internal/db"
	authhandler "khata-service/internal/handlers/auth"
	customerhandler "khata-service/internal/handlers/customer"
	dashboardhandler "khata-service/internal/handlers/dashboard"
	transactionhandler "khata-service/internal/handlers/transaction"
	wshandler "khata-service/internal/handlers/websocket"
	"khata-service/internal/ledger"
	"khata-service/internal/pkg/jwt"
	"khata-service/internal/pkg/session"
	"khata-service/internal/repository/postgres"
	authsvc "khata-service/internal/service/auth"
	customersvc "khata-service/internal/service/customer"
	dashboardsvc "khata-service/internal/service/dashboard"
	txsvc "khata-service/internal/service/transaction"
	"khata-service/internal/websocket"
)

// Server owns every long-lived component and their shutdown order.
type Server struct {
	cfg    config.AppConfig
	logger *zap.Logger

	httpServer *http.Server
	hub        *websocket.Hub
	hubCancel  context.CancelFunc

	pool  *pgxpool.Pool
	cache *redis.Client
}

// stores groups the persistence interfaces the services consume. Both
// backends fill it with implementations sharing the same method sets.
type stores struct {
	shopkeepers authsvc.ShopkeeperStore
	customers   customersvc.Store
	txs         txsvc.Store
	sessions    session.Store
	dashCust    dashboardsvc.CustomerStore
	dashTx      dashboardsvc.TransactionLog
	custTxLog   customersvc.TransactionLog
}

func NewServer(cfg config.AppConfig, logger *zap.Logger) (*Server, error) {
	s := &Server{cfg: cfg, logger: logger}

	jwtManager, err := jwt.NewManager(cfg.JWT)
	if err != nil {
		return nil, fmt.Errorf("jwt: %w", err)
	}

	st, err := s.openStores()
	if err != nil {
		return nil, err
	}

	sessionManager := session.NewManager(st.sessions)

	hubCtx, cancel := context.WithCancel(context.Background())
	s.hubCancel = cancel
	s.hub = websocket.NewHub(jwtManager, sessionManager, logger)
	go s.hub.Run(hubCtx)

	authService := authsvc.NewService(st.shopkeepers, jwtManager, sessionManager, logger)
	dashboardService := dashboardsvc.NewService(st.dashCust, st.dashTx, s.cache, logger)
	customerService := customersvc.NewService(st.customers, st.custTxLog, s.hub, logger)
	transactionService := txsvc.NewService(st.txs, s.hub, logger)

	handlers := &Handlers{
		Auth:        authhandler.NewHandler(authService),
		Customer:    customerhandler.NewHandler(customerService, dashboardService),
		Transaction: transactionhandler.NewHandler(transactionService, dashboardService),
		Dashboard:   dashboardhandler.NewHandler(dashboardService),
		WebSocket:   wshandler.NewHandler(s.hub, logger),
	}

	router := SetupRouter(handlers, authService, logger)
	s.httpServer = &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	return s, nil
}

// openStores wires the configured backend. "memory" runs the whole ledger
// in process for local development and demos; "postgres" is the real thing
// with Redis-backed sessions.
func (s *Server) openStores() (*stores, error) {
	switch s.cfg.StoreDriver {
	case "memory":
		s.logger.Warn("using in-memory store, data is lost on restart")
		mem := ledger.NewMemoryStore()
		return &stores{
			shopkeepers: mem,
			customers:   mem,
			txs:         mem,
			sessions:    session.NewMemoryStore(),
			dashCust:    mem,
			dashTx:      mem,
			custTxLog:   mem,
		}, nil

	case "postgres":
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if s.cfg.RunMigrations {
			if err := database.RunMigrations(s.cfg.DatabaseURL, "migrations"); err != nil {
				return nil, fmt.Errorf("migrations: %w", err)
			}
		}

		pool, err := db.ConnectDB(ctx, s.cfg.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("postgres: %w", err)
		}
		s.pool = pool

		cache, err := db.NewRedisClient(db.RedisConfig{
			Addr:     s.cfg.RedisAddr,
			Password: s.cfg.RedisPass,
			DB:       s.cfg.RedisDB,
		})
		if err != nil {
			return nil, fmt.Errorf("redis: %w", err)
		}
		s.cache = cache

		return &stores{
			shopkeepers: postgres.NewShopkeeperRepository(pool),
			customers:   postgres.NewCustomerRepository(pool),
			txs:         postgres.NewTransactionRepository(pool),
			sessions:    session.NewRedisStore(cache),
			dashCust:    postgres.NewCustomerRepository(pool),
			dashTx:      postgres.NewTransactionRepository(pool),
			custTxLog:   postgres.NewTransactionRepository(pool),
		}, nil

	default:
		return nil, fmt.Errorf("unknown store driver %q", s.cfg.StoreDriver)
	}
}

func (s *Server) Start() error {
	s.logger.Info("http server listening",
		zap.String("addr", s.cfg.HTTPAddr),
		zap.String("store", s.cfg.StoreDriver))
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown drains in-flight requests, then closes the hub and the backends.
func (s *Server) Shutdown(ctx context.Context) error {
	err := s.httpServer.Shutdown(ctx)

	s.hubCancel()
	if s.cache != nil {
		s.cache.Close()
	}
	if s.pool != nil {
		s.pool.Close()
	}
	return err
}
