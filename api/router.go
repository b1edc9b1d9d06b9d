package api

import (
	"net/http"

	"posimarket/api/cart"
	"posimarket/api/checkout"
	"posimarket/api/health"
	"posimarket/api/middleware"
	"posimarket/api/order"
	"posimarket/api/payment"
	"posimarket/api/shipping"
	"posimarket/api/validation"
	"posimarket/config"
	"posimarket/infrastructure/ratelimit"

	"github.com/gin-gonic/gin"
)

// Controllers every HTTP controller the router mounts
type Controllers struct {
	Health   *health.Controller
	Cart     *cart.Controller
	Shipping *shipping.Controller
	Checkout *checkout.Controller
	Order    *order.Controller
	Payment  *payment.Controller
}

// Router Route configuration
type Router struct {
	engine      *gin.Engine
	config      *config.Config
	auth        *middleware.Authenticator
	controllers Controllers
}

// NewRouter limiter may be nil to disable rate limiting
func NewRouter(cfg *config.Config, auth *middleware.Authenticator, limiter ratelimit.Limiter, controllers Controllers) *Router {
	if cfg.IsDevelopment() {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}
	validation.Register()

	engine := gin.New()

	// order matters: the request id must exist before anything logs
	engine.Use(middleware.RequestIDMiddleware())
	engine.Use(middleware.RecoveryMiddleware())
	engine.Use(middleware.LoggingMiddleware())
	engine.Use(middleware.CORSMiddleware(&cfg.CORS))
	engine.Use(middleware.RateLimitMiddleware(limiter))

	return &Router{
		engine:      engine,
		config:      cfg,
		auth:        auth,
		controllers: controllers,
	}
}

// SetupRoutes Set up all routes
func (r *Router) SetupRoutes() {
	apiGroup := r.engine.Group("/api/v1")
	r.controllers.Health.RegisterRoutes(apiGroup)

	public := apiGroup.Group("", r.auth.Optional())
	r.controllers.Cart.RegisterPublicRoutes(public)

	protected := apiGroup.Group("", r.auth.Required())
	r.controllers.Cart.RegisterRoutes(protected)
	r.controllers.Shipping.RegisterRoutes(protected)
	r.controllers.Checkout.RegisterRoutes(protected)
	r.controllers.Order.RegisterRoutes(protected)
	r.controllers.Payment.RegisterRoutes(protected)

	r.engine.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"name":    r.config.App.Name,
			"version": r.config.App.Version,
			"env":     r.config.App.Env,
			"health":  "/api/v1/health",
		})
	})
}

// GetEngine Get Gin engine
func (r *Router) GetEngine() *gin.Engine {
	return r.engine
}
