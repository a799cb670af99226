package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
)

// Storage drivers.
const (
	DriverMemory   = "memory"
	DriverPostgres = "postgres"
	DriverRedis    = "redis"
)

// Config holds all application configuration.
type Config struct {
	Server      ServerConfig      `mapstructure:"server"`
	Database    DatabaseConfig    `mapstructure:"database"`
	Redis       RedisConfig       `mapstructure:"redis"`
	Log         LogConfig         `mapstructure:"log"`
	Storage     StorageConfig     `mapstructure:"storage"`
	Idempotency IdempotencyConfig `mapstructure:"idempotency"`
	Saga        SagaConfig        `mapstructure:"saga"`
	Retry       RetryConfig       `mapstructure:"retry"`
	Breaker     BreakerConfig     `mapstructure:"breaker"`
	Liquidity   LiquidityConfig   `mapstructure:"liquidity"`
	Pools       []PoolSeed        `mapstructure:"pools"`
	DLQ         DLQConfig         `mapstructure:"dlq"`
	Recovery    RecoveryConfig    `mapstructure:"recovery"`
	Admin       AdminConfig       `mapstructure:"admin"`
	Webhook     WebhookConfig     `mapstructure:"webhook"`
	RateLimit   RateLimitConfig   `mapstructure:"ratelimit"`
	Simulator   SimulatorConfig   `mapstructure:"simulator"`
}

type ServerConfig struct {
	Host         string        `mapstructure:"host"`
	Port         int           `mapstructure:"port"`
	Mode         string        `mapstructure:"mode"` // debug, release, test
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
}

// Addr returns the listen address.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

type DatabaseConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	User            string        `mapstructure:"user"`
	Password        string        `mapstructure:"password"`
	DBName          string        `mapstructure:"dbname"`
	SSLMode         string        `mapstructure:"sslmode"`
	MaxConns        int32         `mapstructure:"max_conns"`
	MinConns        int32         `mapstructure:"min_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
}

// DSN returns the PostgreSQL connection string.
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.DBName, d.SSLMode,
	)
}

type RedisConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// Addr returns the Redis address string.
func (r RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", r.Host, r.Port)
}

type LogConfig struct {
	Level  string `mapstructure:"level"`  // debug, info, warn, error
	Pretty bool   `mapstructure:"pretty"` // human-readable output (dev only)
}

// StorageConfig selects the backends. Driver covers payments, pools, the DLQ
// and the audit trail; Idempotency covers the idempotency lock store.
type StorageConfig struct {
	Driver      string `mapstructure:"driver"`      // memory, postgres
	Idempotency string `mapstructure:"idempotency"` // memory, redis
}

type IdempotencyConfig struct {
	TTL time.Duration `mapstructure:"ttl"`
}

type SagaConfig struct {
	MinAmountRaw     string        `mapstructure:"min_amount"`
	MaxAmountRaw     string        `mapstructure:"max_amount"`
	Corridors        []string      `mapstructure:"corridors"`
	StageTimeout     time.Duration `mapstructure:"stage_timeout"`
	ExecutionTimeout time.Duration `mapstructure:"execution_timeout"`
	RateFreshness    time.Duration `mapstructure:"rate_freshness"`

	MinAmount decimal.Decimal `mapstructure:"-"`
	MaxAmount decimal.Decimal `mapstructure:"-"`
}

type RetryConfig struct {
	MaxAttempts    int           `mapstructure:"max_attempts"`
	InitialBackoff time.Duration `mapstructure:"initial_backoff"`
	MaxBackoff     time.Duration `mapstructure:"max_backoff"`
}

type BreakerConfig struct {
	FailureThreshold int           `mapstructure:"failure_threshold"`
	Cooldown         time.Duration `mapstructure:"cooldown"`
}

type LiquidityConfig struct {
	MaxUtilizationRaw string        `mapstructure:"max_utilization"`
	BaseBufferRaw     string        `mapstructure:"base_buffer"`
	ReservationTTL    time.Duration `mapstructure:"reservation_ttl"`
	HistoryWindow     int           `mapstructure:"history_window"`
	Strategy          string        `mapstructure:"strategy"` // plain, risk_aware
	SweepInterval     time.Duration `mapstructure:"sweep_interval"`
	RebalanceInterval time.Duration `mapstructure:"rebalance_interval"`
	StuckAfter        time.Duration `mapstructure:"stuck_after"` // 0 derives from saga.stage_timeout

	MaxUtilization decimal.Decimal `mapstructure:"-"`
	BaseBuffer     decimal.Decimal `mapstructure:"-"`
}

// PoolSeed describes a pool created at startup if it does not exist yet.
type PoolSeed struct {
	ID       string `mapstructure:"id"`
	From     string `mapstructure:"from"`
	To       string `mapstructure:"to"`
	TotalRaw string `mapstructure:"total"`

	Total decimal.Decimal `mapstructure:"-"`
}

type DLQConfig struct {
	MaxRetries int `mapstructure:"max_retries"`
}

type RecoveryConfig struct {
	StaleAfter time.Duration `mapstructure:"stale_after"`
	Interval   time.Duration `mapstructure:"interval"`
	BatchSize  int           `mapstructure:"batch_size"`
}

// AdminConfig configures operator authentication. Operators maps a username
// to its argon2id password hash.
type AdminConfig struct {
	JWTSecret string            `mapstructure:"jwt_secret"`
	TokenTTL  time.Duration     `mapstructure:"token_ttl"`
	Issuer    string            `mapstructure:"issuer"`
	Operators map[string]string `mapstructure:"operators"`
}

type WebhookConfig struct {
	URL     string        `mapstructure:"url"`
	Secret  string        `mapstructure:"secret"`
	Timeout time.Duration `mapstructure:"timeout"`
}

type RateLimitConfig struct {
	SubmitLimit  int           `mapstructure:"submit_limit"`
	SubmitWindow time.Duration `mapstructure:"submit_window"`
}

// SimulatorConfig drives the built-in collaborator simulators. Map keys are
// lower-cased by viper; corridors and currencies are upper-cased on load.
type SimulatorConfig struct {
	Latency          time.Duration     `mapstructure:"latency"`
	FailureRate      float64           `mapstructure:"failure_rate"`
	Seed             int64             `mapstructure:"seed"`
	FeeBps           int64             `mapstructure:"fee_bps"`
	ReviewAboveRaw   string            `mapstructure:"review_above"`
	BlockedCountries []string          `mapstructure:"blocked_countries"`
	RatesRaw         map[string]string `mapstructure:"rates"`           // corridor -> rate
	YieldRaw         map[string]string `mapstructure:"yield_positions"` // pool id -> amount
	RiskLevels       map[string]string `mapstructure:"risk_levels"`     // corridor -> low|medium|high

	ReviewAbove decimal.Decimal            `mapstructure:"-"`
	Rates       map[string]decimal.Decimal `mapstructure:"-"`
	Yield       map[string]decimal.Decimal `mapstructure:"-"`
}

// Load reads configuration from file and environment variables.
// Environment variables override file values. Prefix: PAYFLOW_.
// Nested keys use underscore: PAYFLOW_DATABASE_HOST, PAYFLOW_ADMIN_JWT_SECRET, etc.
// A .env file in the working directory is loaded first if present.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("loading .env: %w", err)
	}

	v := viper.New()
	setDefaults(v)

	// File config
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
	}

	// Environment variables: PAYFLOW_DATABASE_HOST -> database.host
	v.SetEnvPrefix("PAYFLOW")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Read config file (not required, env vars can suffice)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	if err := cfg.parseDecimals(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.mode", "debug")
	v.SetDefault("server.read_timeout", "10s")
	v.SetDefault("server.write_timeout", "30s")

	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "postgres")
	v.SetDefault("database.password", "postgres")
	v.SetDefault("database.dbname", "payflow")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("database.max_conns", 20)
	v.SetDefault("database.min_conns", 5)
	v.SetDefault("database.conn_max_lifetime", "30m")

	v.SetDefault("redis.host", "localhost")
	v.SetDefault("redis.port", 6379)
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.pretty", false)

	v.SetDefault("storage.driver", DriverMemory)
	v.SetDefault("storage.idempotency", DriverMemory)
	v.SetDefault("idempotency.ttl", "24h")

	v.SetDefault("saga.min_amount", "1")
	v.SetDefault("saga.max_amount", "1000000")
	v.SetDefault("saga.corridors", []string{})
	v.SetDefault("saga.stage_timeout", "10s")
	v.SetDefault("saga.execution_timeout", "30s")
	v.SetDefault("saga.rate_freshness", "60s")

	v.SetDefault("retry.max_attempts", 3)
	v.SetDefault("retry.initial_backoff", "100ms")
	v.SetDefault("retry.max_backoff", "2s")

	v.SetDefault("breaker.failure_threshold", 5)
	v.SetDefault("breaker.cooldown", "30s")

	v.SetDefault("liquidity.max_utilization", "0.8")
	v.SetDefault("liquidity.base_buffer", "100000")
	v.SetDefault("liquidity.reservation_ttl", "5m")
	v.SetDefault("liquidity.history_window", 100)
	v.SetDefault("liquidity.strategy", "plain")
	v.SetDefault("liquidity.sweep_interval", "30s")
	v.SetDefault("liquidity.rebalance_interval", "1m")

	v.SetDefault("dlq.max_retries", 3)

	v.SetDefault("recovery.stale_after", "10m")
	v.SetDefault("recovery.interval", "1m")
	v.SetDefault("recovery.batch_size", 100)

	v.SetDefault("admin.jwt_secret", "")
	v.SetDefault("admin.token_ttl", "1h")
	v.SetDefault("admin.issuer", "payflow")

	v.SetDefault("webhook.url", "")
	v.SetDefault("webhook.secret", "")
	v.SetDefault("webhook.timeout", "5s")

	v.SetDefault("ratelimit.submit_limit", 100)
	v.SetDefault("ratelimit.submit_window", "1m")

	v.SetDefault("simulator.latency", "20ms")
	v.SetDefault("simulator.failure_rate", 0.0)
	v.SetDefault("simulator.seed", 1)
	v.SetDefault("simulator.fee_bps", 50)
	v.SetDefault("simulator.review_above", "10000")
	v.SetDefault("simulator.blocked_countries", []string{"KP", "IR"})
	v.SetDefault("simulator.rates", map[string]string{
		"usd-ngn": "1550.00",
		"usd-kes": "129.50",
		"gbp-ngn": "1960.00",
		"eur-ghs": "16.40",
	})
}

func (c *Config) parseDecimals() error {
	var err error
	if c.Saga.MinAmount, err = parseDecimal("saga.min_amount", c.Saga.MinAmountRaw); err != nil {
		return err
	}
	if c.Saga.MaxAmount, err = parseDecimal("saga.max_amount", c.Saga.MaxAmountRaw); err != nil {
		return err
	}
	if c.Liquidity.MaxUtilization, err = parseDecimal("liquidity.max_utilization", c.Liquidity.MaxUtilizationRaw); err != nil {
		return err
	}
	if c.Liquidity.BaseBuffer, err = parseDecimal("liquidity.base_buffer", c.Liquidity.BaseBufferRaw); err != nil {
		return err
	}
	if c.Simulator.ReviewAbove, err = parseDecimal("simulator.review_above", c.Simulator.ReviewAboveRaw); err != nil {
		return err
	}
	c.Simulator.Rates = make(map[string]decimal.Decimal, len(c.Simulator.RatesRaw))
	for corridor, raw := range c.Simulator.RatesRaw {
		rate, err := parseDecimal("simulator.rates."+corridor, raw)
		if err != nil {
			return err
		}
		c.Simulator.Rates[strings.ToUpper(corridor)] = rate
	}
	c.Simulator.Yield = make(map[string]decimal.Decimal, len(c.Simulator.YieldRaw))
	for poolID, raw := range c.Simulator.YieldRaw {
		amount, err := parseDecimal("simulator.yield_positions."+poolID, raw)
		if err != nil {
			return err
		}
		c.Simulator.Yield[poolID] = amount
	}
	for i := range c.Pools {
		key := fmt.Sprintf("pools[%d].total", i)
		if c.Pools[i].Total, err = parseDecimal(key, c.Pools[i].TotalRaw); err != nil {
			return err
		}
	}
	return nil
}

// parseDecimal treats an empty value as zero.
func parseDecimal(key, raw string) (decimal.Decimal, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return decimal.Zero, nil
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid decimal for %s: %w", key, err)
	}
	return d, nil
}

// Validate checks cross-field constraints viper cannot express.
func (c *Config) Validate() error {
	switch c.Storage.Driver {
	case DriverMemory, DriverPostgres:
	default:
		return fmt.Errorf("storage.driver must be %q or %q, got %q", DriverMemory, DriverPostgres, c.Storage.Driver)
	}
	switch c.Storage.Idempotency {
	case DriverMemory, DriverRedis:
	default:
		return fmt.Errorf("storage.idempotency must be %q or %q, got %q", DriverMemory, DriverRedis, c.Storage.Idempotency)
	}
	if c.Saga.MinAmount.IsNegative() {
		return fmt.Errorf("saga.min_amount must not be negative")
	}
	if c.Saga.MaxAmount.IsPositive() && c.Saga.MaxAmount.LessThan(c.Saga.MinAmount) {
		return fmt.Errorf("saga.max_amount must be >= saga.min_amount")
	}
	if !c.Liquidity.MaxUtilization.IsPositive() || c.Liquidity.MaxUtilization.GreaterThan(decimal.NewFromInt(1)) {
		return fmt.Errorf("liquidity.max_utilization must be in (0, 1]")
	}
	if c.Simulator.FailureRate < 0 || c.Simulator.FailureRate > 1 {
		return fmt.Errorf("simulator.failure_rate must be in [0, 1]")
	}
	for i, p := range c.Pools {
		if p.ID == "" || p.From == "" || p.To == "" {
			return fmt.Errorf("pools[%d]: id, from and to are required", i)
		}
		if p.Total.IsNegative() {
			return fmt.Errorf("pools[%d]: total must not be negative", i)
		}
	}
	return nil
}
