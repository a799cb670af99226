package handler

import (
	"time"

	"payflow/internal/adapter/http/middleware"
	"payflow/internal/core/ports"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
)

var tokenLimit = middleware.RateLimitRule{Limit: 10, Window: time.Minute}

// RouterDeps holds all dependencies needed to set up routes.
type RouterDeps struct {
	PaymentSvc     ports.PaymentService
	AdminSvc       ports.AdminService
	AuthSvc        ports.AuthService
	TokenSvc       ports.TokenService
	RateLimitStore ports.RateLimitStore // nil = rate limiting disabled
	SubmitLimit    middleware.RateLimitRule
	HealthCheckers []ports.HealthChecker
	Mode           string // gin mode; empty means release
	Logger         zerolog.Logger
}

// SetupRouter initialises the Gin engine with all routes and middleware.
func SetupRouter(deps RouterDeps) *gin.Engine {
	mode := deps.Mode
	if mode == "" {
		mode = gin.ReleaseMode
	}
	gin.SetMode(mode)
	r := gin.New()

	r.Use(middleware.RequestID())
	r.Use(middleware.Recovery(deps.Logger))
	r.Use(middleware.RequestLogger(deps.Logger))
	r.Use(middleware.Metrics())
	r.Use(middleware.MaxBodySize(1 << 20))

	r.GET("/health", HealthCheck(deps.HealthCheckers...))
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	rl := func(group string, rule middleware.RateLimitRule) gin.HandlerFunc {
		if deps.RateLimitStore == nil || rule.Limit <= 0 {
			return func(c *gin.Context) { c.Next() }
		}
		return middleware.RateLimiter(deps.RateLimitStore, group, rule, deps.Logger)
	}

	v1 := r.Group("/api/v1")
	v1.Use(middleware.OperatorAudit(deps.Logger))

	authHandler := NewAuthHandler(deps.AuthSvc)
	v1.POST("/auth/token", rl("auth_token", tokenLimit), authHandler.IssueToken)

	jwtAuth := middleware.JWTAuth(deps.TokenSvc, deps.Logger)

	paymentHandler := NewPaymentHandler(deps.PaymentSvc)
	payments := v1.Group("/payments")
	{
		payments.POST("", rl("payments_submit", deps.SubmitLimit), paymentHandler.Submit)
		payments.GET("/:id", paymentHandler.Get)
		payments.POST("/:id/cancel", paymentHandler.Cancel)
		payments.POST("/:id/resume", jwtAuth, paymentHandler.Resume)
	}

	adminHandler := NewAdminHandler(deps.AdminSvc)
	admin := v1.Group("/admin", jwtAuth)
	{
		admin.GET("/dlq", adminHandler.ListDLQ)
		admin.POST("/dlq/:id/retry", adminHandler.RetryDLQ)
		admin.POST("/dlq/:id/resolve", adminHandler.ResolveDLQ)
		admin.POST("/dlq/:id/archive", adminHandler.ArchiveDLQ)
		admin.GET("/pools/:id", adminHandler.PoolStatus)
		admin.POST("/rebalance/scan", adminHandler.RebalanceScan)
		admin.GET("/breakers", adminHandler.Breakers)
	}

	return r
}
