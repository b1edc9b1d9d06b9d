package cmd

import (
	"context"
	"net/http"

	"posimarket/api"
	apicart "posimarket/api/cart"
	apicheckout "posimarket/api/checkout"
	"posimarket/api/health"
	"posimarket/api/middleware"
	apiorder "posimarket/api/order"
	apipayment "posimarket/api/payment"
	apishipping "posimarket/api/shipping"
	cartapp "posimarket/application/cart"
	checkoutapp "posimarket/application/checkout"
	orderapp "posimarket/application/order"
	paymentapp "posimarket/application/payment"
	shippingapp "posimarket/application/shipping"
	"posimarket/config"
	"posimarket/domain/payment"
	"posimarket/domain/shared"
	"posimarket/domain/shipping"
	"posimarket/infrastructure/carrier"
	"posimarket/infrastructure/persistence/mocks"
	"posimarket/infrastructure/ratelimit"
	"posimarket/pkg/logger"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// AppBuilder builds an App; the defaults come from configuration
type AppBuilder struct {
	cfg     *config.Config
	gateway payment.Gateway
	clock   shared.Clock
	store   *mocks.Store
}

// NewBuilder creates a new AppBuilder
func NewBuilder(cfg *config.Config) *AppBuilder {
	return &AppBuilder{
		cfg:     cfg,
		gateway: payment.SimulatedGateway{},
		clock:   shared.SystemClock{},
	}
}

// WithGateway replaces the simulated payment gateway
func (b *AppBuilder) WithGateway(g payment.Gateway) *AppBuilder {
	b.gateway = g
	return b
}

func (b *AppBuilder) WithClock(c shared.Clock) *AppBuilder {
	b.clock = c
	return b
}

// WithStore in-memory store to use with database.type=mock
func (b *AppBuilder) WithStore(s *mocks.Store) *AppBuilder {
	b.store = s
	return b
}

// Build connects infrastructure and wires services, controllers and the router
func (b *AppBuilder) Build(ctx context.Context) (*App, error) {
	logger.Info("Starting application",
		zap.String("app", b.cfg.App.Name),
		zap.String("version", b.cfg.App.Version),
		zap.String("env", b.cfg.App.Env))

	infra, err := OpenInfrastructure(ctx, b.cfg, b.store)
	if err != nil {
		return nil, err
	}

	carts := cartapp.NewApplicationService(infra.UnitOfWork, infra.CartLines, infra.Products, infra.Users,
		b.clock, b.cfg.Reservation.TTL)
	quotes := shippingapp.NewApplicationService(b.newQuoter(), infra.Products, infra.Users, infra.CartLines, b.clock)
	checkout := checkoutapp.NewApplicationService(infra.UnitOfWork, infra.Orders, infra.Products, infra.Users,
		infra.CartLines, carts.Ledger(), quotes, decimal.NewFromFloat(b.cfg.Platform.FeeRate), b.clock)
	orders := orderapp.NewApplicationService(infra.UnitOfWork, infra.Orders, infra.Products, b.clock)
	payments := paymentapp.NewApplicationService(infra.UnitOfWork, infra.Orders, infra.Payments, b.gateway, orders, b.clock)

	router := api.NewRouter(b.cfg, middleware.NewAuthenticator(b.cfg.Auth.JWTSecret), b.newLimiter(infra), api.Controllers{
		Health:   health.NewController(b.cfg, infra.Pingers),
		Cart:     apicart.NewController(carts),
		Shipping: apishipping.NewController(quotes),
		Checkout: apicheckout.NewController(checkout),
		Order:    apiorder.NewController(orders),
		Payment:  apipayment.NewController(payments),
	})
	router.SetupRoutes()

	server := &http.Server{
		Addr:         ":" + b.cfg.Server.Port,
		Handler:      router.GetEngine(),
		ReadTimeout:  b.cfg.Server.ReadTimeout,
		WriteTimeout: b.cfg.Server.WriteTimeout,
	}

	return &App{
		config: b.cfg,
		router: router,
		server: server,
		infra:  infra,
		carts:  carts,
	}, nil
}

func (b *AppBuilder) newQuoter() *shipping.Quoter {
	calculator := shipping.NewCalculator(shipping.DefaultRateTable(), b.cfg.Shipping.HubPostalCode)
	if b.cfg.Shipping.ProviderURL == "" {
		return shipping.NewQuoter(calculator, nil)
	}
	logger.Info("Using external shipping rate provider", zap.String("url", b.cfg.Shipping.ProviderURL))
	return shipping.NewQuoter(calculator, carrier.NewHTTPProvider(b.cfg.Shipping.ProviderURL, b.cfg.Shipping.ProviderTimeout))
}

// newLimiter Redis window shared by every instance when available, degrading to
// the in-process token bucket whenever Redis errors
func (b *AppBuilder) newLimiter(infra *Infrastructure) ratelimit.Limiter {
	rl := b.cfg.Server.RateLimit
	if !rl.Enabled {
		return nil
	}
	local := ratelimit.NewLocalLimiter(rl.Rate, rl.Burst)
	if infra.Redis == nil {
		return local
	}
	return ratelimit.Fallback{
		Primary:   ratelimit.NewRedisLimiter(infra.Redis, rl.Rate, rl.Burst, rl.Window),
		Secondary: local,
		OnError: func(err error) {
			logger.Warn("Redis rate limiter failed, using local limiter", zap.Error(err))
		},
	}
}
