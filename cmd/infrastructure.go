package cmd

import (
	"context"
	"fmt"
	"time"

	"posimarket/api/health"
	"posimarket/config"
	"posimarket/domain/cart"
	"posimarket/domain/catalog"
	"posimarket/domain/order"
	"posimarket/domain/payment"
	"posimarket/domain/shared"
	"posimarket/infrastructure/persistence/mocks"
	"posimarket/infrastructure/persistence/mysql"
	"posimarket/infrastructure/persistence/outbox"
	"posimarket/infrastructure/persistence/retry"
	"posimarket/infrastructure/redisx"
	"posimarket/pkg/logger"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Infrastructure repositories and connections for the selected persistence layer
type Infrastructure struct {
	UnitOfWork shared.UnitOfWorkFactory
	Products   catalog.ProductRepository
	Users      catalog.UserRepository
	CartLines  cart.Repository
	Orders     order.Repository
	Payments   payment.Repository
	Outbox     outbox.Store
	Redis      *redis.Client // nil when redis is disabled or unreachable
	Pingers    map[string]health.Pinger

	closers []func() error
}

// OpenInfrastructure connects MySQL or builds the in-memory store, then Redis when
// enabled. store is only used with database.type=mock; nil gets a seeded one.
func OpenInfrastructure(ctx context.Context, cfg *config.Config, store *mocks.Store) (*Infrastructure, error) {
	infra := &Infrastructure{Pingers: make(map[string]health.Pinger)}

	if cfg.UsesMySQL() {
		logger.Info("Using MySQL/GORM persistence layer")
		db, err := NewMySQLConfig(cfg).Connect()
		if err != nil {
			return nil, fmt.Errorf("failed to connect to MySQL: %w", err)
		}
		if err := mysql.Migrate(db); err != nil {
			return nil, err
		}
		infra.UnitOfWork = mysql.NewUnitOfWorkFactory(db, retry.FromAppConfig(cfg), cfg.Database.TxTimeout)
		infra.Products = mysql.NewProductRepository(db)
		infra.Users = mysql.NewUserRepository(db)
		infra.CartLines = mysql.NewCartRepository(db)
		infra.Orders = mysql.NewOrderRepository(db)
		infra.Payments = mysql.NewPaymentRepository(db)
		infra.Outbox = mysql.NewOutboxRepository(db)
		infra.Pingers["database"] = mysql.NewPinger(db)
		infra.closers = append(infra.closers, func() error {
			sqlDB, err := db.DB()
			if err != nil {
				return err
			}
			return sqlDB.Close()
		})
	} else {
		logger.Info("Using in-memory persistence layer")
		if store == nil {
			store = mocks.NewStore()
			store.Seed(time.Now().UTC())
		}
		infra.UnitOfWork = mocks.NewUnitOfWorkFactory(store)
		infra.Products = mocks.NewProductRepository(store)
		infra.Users = mocks.NewUserRepository(store)
		infra.CartLines = mocks.NewCartRepository(store)
		infra.Orders = mocks.NewOrderRepository(store)
		infra.Payments = mocks.NewPaymentRepository(store)
		infra.Outbox = mocks.NewOutboxRepository(store)
		infra.Pingers["database"] = store
	}

	if cfg.Redis.Enabled {
		rdb, err := redisx.New(ctx, cfg.Redis)
		if err != nil {
			// the local limiter takes over; readiness does not depend on redis
			logger.Warn("Redis unavailable, continuing without it", zap.Error(err))
		} else {
			infra.Redis = rdb
			infra.Pingers["redis"] = redisx.NewPinger(rdb)
			infra.closers = append(infra.closers, rdb.Close)
		}
	}

	return infra, nil
}

// Close releases connections in reverse order of opening
func (i *Infrastructure) Close() {
	for n := len(i.closers) - 1; n >= 0; n-- {
		if err := i.closers[n](); err != nil {
			logger.Warn("Failed to close resource", zap.Error(err))
		}
	}
}
