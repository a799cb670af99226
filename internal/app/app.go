// Package app is the composition root: it builds storage, collaborators,
// services, the HTTP router and background workers from configuration.
package app

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"net/http"
	"time"

	"payflow/config"
	"payflow/internal/adapter/collaborator"
	httpHandler "payflow/internal/adapter/http/handler"
	"payflow/internal/adapter/http/middleware"
	"payflow/internal/adapter/storage/memory"
	pgStorage "payflow/internal/adapter/storage/postgres"
	redisStorage "payflow/internal/adapter/storage/redis"
	"payflow/internal/core/domain"
	"payflow/internal/core/ports"
	"payflow/internal/observability"
	"payflow/internal/service"
	"payflow/internal/worker"
	"payflow/pkg/logger"

	"github.com/gin-gonic/gin"
	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 10 * time.Second

// storage groups the repositories selected by storage.driver.
type storage struct {
	payments    ports.PaymentRepository
	audit       ports.SagaAuditRepository
	liquidity   ports.LiquidityRepository
	failedTasks ports.FailedTaskRepository
	idempotency ports.IdempotencyStore
	rateLimit   ports.RateLimitStore
	health      []ports.HealthChecker
}

// App holds every wired component. Build it with New, release it with Close.
type App struct {
	cfg *config.Config
	log zerolog.Logger

	Payments  *service.PaymentSaga
	Liquidity *service.LiquidityService
	Admin     *service.AdminService
	Auth      *service.OperatorAuthService
	Tokens    *service.JWTTokenService
	Router    *gin.Engine
	Workers   []*worker.Periodic

	closers []func()
}

// New wires the application. Pools listed in cfg.Pools are created if missing.
func New(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*App, error) {
	a := &App{cfg: cfg, log: log}
	observability.Init()

	st, err := a.openStorage(ctx)
	if err != nil {
		a.Close()
		return nil, err
	}

	sims := collaborator.NewSuite(cfg.Simulator)
	breakers := service.NewBreakerRegistry(service.BreakerConfig{
		FailureThreshold: cfg.Breaker.FailureThreshold,
		Cooldown:         cfg.Breaker.Cooldown,
	}, observability.SetBreakerState, log)

	guard := service.CallGuard{Breakers: breakers, Timeout: cfg.Saga.StageTimeout}

	history := service.NewUsageHistory(cfg.Liquidity.HistoryWindow)
	strategy, err := service.NewRebalanceStrategy(cfg.Liquidity.Strategy, cfg.Liquidity.BaseBuffer, history, sims.Risk, guard, log)
	if err != nil {
		a.Close()
		return nil, err
	}
	a.Liquidity = service.NewLiquidityService(st.liquidity, strategy, history, sims.Rebalancer, guard, service.LiquidityConfig{
		MaxUtilization: cfg.Liquidity.MaxUtilization,
		ReservationTTL: cfg.Liquidity.ReservationTTL,
		StuckAfter:     cfg.Liquidity.StuckAfter,
	}, logger.Component(log, "liquidity"))

	if err := seedPools(ctx, st.liquidity, cfg.Pools, log); err != nil {
		a.Close()
		return nil, err
	}

	dlq := service.NewDeadLetterQueue(st.failedTasks, cfg.DLQ.MaxRetries, log)
	idem := service.NewIdempotencyLock(st.idempotency, cfg.Idempotency.TTL, log)

	a.Payments = service.NewPaymentSaga(
		st.payments,
		st.audit,
		idem,
		a.Liquidity,
		dlq,
		breakers,
		service.RetryPolicy{
			MaxAttempts:    cfg.Retry.MaxAttempts,
			InitialBackoff: cfg.Retry.InitialBackoff,
			MaxBackoff:     cfg.Retry.MaxBackoff,
		},
		service.Collaborators{
			Router:     sims.Router,
			Compliance: sims.Compliance,
			Rates:      sims.Rates,
			Execution:  sims.Execution,
			Settlement: sims.Settlement,
			Notifier:   newNotifier(cfg.Webhook, log),
			Yield:      sims.Yield,
		},
		service.SagaConfig{
			MinAmount:        cfg.Saga.MinAmount,
			MaxAmount:        cfg.Saga.MaxAmount,
			Corridors:        cfg.Saga.Corridors,
			StageTimeout:     cfg.Saga.StageTimeout,
			ExecutionTimeout: cfg.Saga.ExecutionTimeout,
			RateFreshness:    cfg.Saga.RateFreshness,
			DLQMaxRetries:    cfg.DLQ.MaxRetries,
		},
		logger.Component(log, "saga"),
	)
	a.Admin = service.NewAdminService(dlq, a.Liquidity, breakers)

	secret := cfg.Admin.JWTSecret
	if secret == "" {
		secret = randomSecret()
		log.Warn().Msg("admin.jwt_secret not set, using an ephemeral secret; tokens will not survive a restart")
	}
	a.Tokens = service.NewJWTTokenService(secret, cfg.Admin.TokenTTL, cfg.Admin.Issuer)
	a.Auth = service.NewOperatorAuthService(cfg.Admin.Operators, service.NewArgon2HashService(service.Argon2Params{}), a.Tokens, log)

	a.Router = httpHandler.SetupRouter(httpHandler.RouterDeps{
		PaymentSvc:     a.Payments,
		AdminSvc:       a.Admin,
		AuthSvc:        a.Auth,
		TokenSvc:       a.Tokens,
		RateLimitStore: st.rateLimit,
		SubmitLimit: middleware.RateLimitRule{
			Limit:  int64(cfg.RateLimit.SubmitLimit),
			Window: cfg.RateLimit.SubmitWindow,
		},
		HealthCheckers: st.health,
		Mode:           cfg.Server.Mode,
		Logger:         logger.Component(log, "http"),
	})

	a.Workers = a.buildWorkers()
	return a, nil
}

func (a *App) openStorage(ctx context.Context) (*storage, error) {
	cfg := a.cfg
	st := &storage{}

	switch cfg.Storage.Driver {
	case config.DriverPostgres:
		pool, err := pgStorage.NewPool(ctx, cfg.Database, a.log)
		if err != nil {
			return nil, fmt.Errorf("connecting to postgres: %w", err)
		}
		a.closers = append(a.closers, pool.Close)
		if err := pgStorage.EnsureSchema(ctx, pool); err != nil {
			return nil, fmt.Errorf("ensuring schema: %w", err)
		}
		st.payments = pgStorage.NewPaymentRepo(pool)
		st.audit = pgStorage.NewSagaAuditRepo(pool)
		st.liquidity = pgStorage.NewLiquidityRepo(pool)
		st.failedTasks = pgStorage.NewFailedTaskRepo(pool)
		st.health = append(st.health, pgStorage.NewHealthCheck(pool))
	default:
		st.payments = memory.NewPaymentStore()
		st.audit = memory.NewAuditStore()
		st.liquidity = memory.NewLiquidityStore()
		st.failedTasks = memory.NewFailedTaskStore()
	}

	var rdb *goredis.Client
	if cfg.Storage.Idempotency == config.DriverRedis {
		client, err := redisStorage.NewClient(ctx, cfg.Redis, a.log)
		if err != nil {
			return nil, fmt.Errorf("connecting to redis: %w", err)
		}
		rdb = client
		a.closers = append(a.closers, func() { _ = client.Close() })
		st.health = append(st.health, redisStorage.NewHealthCheck(client))
	}

	if rdb != nil {
		st.idempotency = redisStorage.NewIdempotencyStore(rdb)
		st.rateLimit = redisStorage.NewRateLimitStore(rdb)
	} else {
		st.idempotency = memory.NewIdempotencyStore()
		st.rateLimit = memory.NewRateLimitStore()
	}

	a.log.Info().
		Str("driver", cfg.Storage.Driver).
		Str("idempotency", cfg.Storage.Idempotency).
		Msg("storage ready")
	return st, nil
}

func newNotifier(cfg config.WebhookConfig, log zerolog.Logger) ports.Notifier {
	if cfg.URL == "" {
		return collaborator.NewLogNotifier(log)
	}
	return collaborator.NewWebhookNotifier(
		cfg.URL,
		cfg.Secret,
		service.NewHMACSignatureService(),
		&http.Client{Timeout: cfg.Timeout},
		log,
	)
}

func (a *App) buildWorkers() []*worker.Periodic {
	cfg := a.cfg
	var ws []*worker.Periodic
	if cfg.Liquidity.SweepInterval > 0 {
		ws = append(ws, worker.NewReservationSweep(a.Liquidity, cfg.Liquidity.SweepInterval, cfg.Recovery.BatchSize, a.log))
	}
	if cfg.Liquidity.RebalanceInterval > 0 {
		ws = append(ws, worker.NewRebalanceScan(a.Liquidity, cfg.Liquidity.RebalanceInterval, a.log))
	}
	if cfg.Recovery.Interval > 0 && cfg.Recovery.StaleAfter > 0 {
		ws = append(ws, worker.NewStaleRecovery(a.Payments, cfg.Recovery.Interval, cfg.Recovery.StaleAfter, cfg.Recovery.BatchSize, a.log))
	}
	return ws
}

// seedPools creates configured pools that do not exist yet. Existing pools
// keep their balances.
func seedPools(ctx context.Context, repo ports.LiquidityRepository, seeds []config.PoolSeed, log zerolog.Logger) error {
	for _, s := range seeds {
		existing, err := repo.GetPool(ctx, s.ID)
		if err != nil {
			return fmt.Errorf("loading pool %s: %w", s.ID, err)
		}
		if existing != nil {
			observability.SetPoolBalances(existing)
			continue
		}
		pool := &domain.LiquidityPool{
			ID:           s.ID,
			FromCurrency: s.From,
			ToCurrency:   s.To,
			Total:        s.Total,
			Available:    s.Total,
			Status:       domain.PoolStatusActive,
			UpdatedAt:    time.Now().UTC(),
		}
		if err := repo.CreatePool(ctx, pool); err != nil {
			return fmt.Errorf("seeding pool %s: %w", s.ID, err)
		}
		observability.SetPoolBalances(pool)
		log.Info().Str("pool_id", s.ID).Str("corridor", pool.Corridor()).Str("total", s.Total.String()).Msg("liquidity pool seeded")
	}
	return nil
}

// Run serves HTTP and runs the workers until ctx is canceled or one of them
// fails, then shuts the server down gracefully.
func (a *App) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:         a.cfg.Server.Addr(),
		Handler:      a.Router,
		ReadTimeout:  a.cfg.Server.ReadTimeout,
		WriteTimeout: a.cfg.Server.WriteTimeout,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		a.log.Info().Str("addr", srv.Addr).Msg("HTTP server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		a.log.Info().Msg("Shutting down server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			a.log.Error().Err(err).Msg("Server forced to shutdown")
			return err
		}
		return nil
	})

	for _, w := range a.Workers {
		g.Go(func() error { return w.Start(gctx) })
	}

	err := g.Wait()
	a.log.Info().Msg("Server exited")
	return err
}

// Close releases database and cache connections in reverse order.
func (a *App) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
	a.closers = nil
}

func randomSecret() string {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		panic(fmt.Sprintf("reading random secret: %v", err))
	}
	return hex.EncodeToString(b)
}
