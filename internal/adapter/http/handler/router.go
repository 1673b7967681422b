package handler

import (
	"marketplace-core/internal/adapter/http/middleware"
	redisStore "marketplace-core/internal/adapter/storage/redis"
	"marketplace-core/internal/core/ports"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
)

// RouterDeps holds all dependencies needed to set up routes.
type RouterDeps struct {
	WalletSvc      ports.WalletQueryService
	HistorySvc     ports.TransactionHistoryService
	SellerOrderSvc ports.SellerOrderService
	OrderStatusSvc ports.OrderStatusService
	TokenSvc       ports.TokenService
	RateLimitStore *redisStore.RateLimitStore // nil = rate limiting disabled
	HealthCheckers []ports.HealthChecker
	AuditSvc       ports.AuditService // nil = denied attempts are not audited
	LoginPath      string
	Logger         zerolog.Logger
}

// SetupRouter initialises the Gin engine with all routes and middleware.
func SetupRouter(deps RouterDeps) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()

	// Global middleware
	r.Use(middleware.Recovery(deps.Logger))
	r.Use(middleware.RequestID())
	r.Use(middleware.RequestLogger(deps.Logger))
	r.Use(middleware.Metrics())
	r.Use(middleware.MaxBodySize(1 << 20)) // 1 MB request body limit

	r.GET("/health", HealthCheck(deps.HealthCheckers...))
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	swagger := r.Group("/swagger")
	{
		swagger.GET("", SwaggerUI)
		swagger.GET("/spec", SwaggerSpec)
	}

	rules := middleware.DefaultRateLimitRules()

	// Helper: return rate limiter middleware if store is available, else noop.
	rl := func(group string) gin.HandlerFunc {
		if deps.RateLimitStore == nil {
			return func(c *gin.Context) { c.Next() }
		}
		rule, ok := rules[group]
		if !ok {
			return func(c *gin.Context) { c.Next() }
		}
		return middleware.RateLimiter(deps.RateLimitStore, group, rule, deps.Logger)
	}

	v1 := r.Group("/api/v1", middleware.Session(deps.TokenSvc, deps.Logger))
	if deps.AuditSvc != nil {
		v1.Use(middleware.AuditDenied(deps.AuditSvc))
	}

	walletHandler := NewWalletHandler(deps.WalletSvc, deps.LoginPath)
	txHandler := NewTransactionHandler(deps.HistorySvc)
	wallet := v1.Group("/wallet", rl("wallet"))
	{
		wallet.GET("", walletHandler.GetWallet)
		wallet.GET("/balance", walletHandler.GetBalance)
		wallet.GET("/transactions", txHandler.List)
		wallet.GET("/transactions/export", txHandler.Export)
	}

	sellerHandler := NewSellerOrderHandler(deps.SellerOrderSvc, deps.OrderStatusSvc)
	seller := v1.Group("/seller")
	{
		seller.GET("/orders", rl("seller_orders"), sellerHandler.List)

		items := seller.Group("/order-items/:id", rl("order_status"))
		items.PATCH("/status", sellerHandler.UpdateStatus)
		items.POST("/processing", sellerHandler.MarkProcessing)
		items.POST("/deliver", sellerHandler.MarkDelivered)
	}

	return r
}
