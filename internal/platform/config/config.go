package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v2"
)

type Config struct {
	Addr                     string        `yaml:"addr"`
	Environment              string        `yaml:"environment"`
	LogLevel                 string        `yaml:"log_level"`
	DatabaseURL              string        `yaml:"database_url"`
	SessionSecret            string        `yaml:"session_secret"`
	CookieSecure             bool          `yaml:"cookie_secure"`
	RedisAddr                string        `yaml:"redis_addr"`
	RedisPassword            string        `yaml:"redis_password"`
	RedisDB                  int           `yaml:"redis_db"`
	AMQPURL                  string        `yaml:"amqp_url"`
	AMQPExchange             string        `yaml:"amqp_exchange"`
	RunMigrations            bool          `yaml:"run_migrations"`
	MigrationsDir            string        `yaml:"migrations_dir"`
	RunSeed                  bool          `yaml:"run_seed"`
	SeedAdminNationalID      string        `yaml:"seed_admin_national_id"`
	SeedAdminEmail           string        `yaml:"seed_admin_email"`
	SeedAdminPassword        string        `yaml:"seed_admin_password"`
	MaxBodyBytes             int64         `yaml:"max_body_bytes"`
	RateLimitPerMinute       int           `yaml:"rate_limit_per_minute"`
	PayrollReconcileInterval time.Duration `yaml:"payroll_reconcile_interval"`
	MetricsEnabled           bool          `yaml:"metrics_enabled"`
}

func Defaults() Config {
	return Config{
		Addr:                     ":8080",
		Environment:              "development",
		LogLevel:                 "info",
		AMQPExchange:             "paydesk.events",
		RunMigrations:            true,
		MigrationsDir:            "migrations",
		RunSeed:                  true,
		MaxBodyBytes:             1048576,
		RateLimitPerMinute:       120,
		PayrollReconcileInterval: time.Hour,
		MetricsEnabled:           true,
	}
}

// Load builds the configuration from defaults, an optional YAML file named by
// CONFIG_FILE, an optional .env file and the process environment, in that order.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}

	base := Defaults()
	if path := os.Getenv("CONFIG_FILE"); path != "" {
		fromFile, err := loadFile(path, base)
		if err != nil {
			return Config{}, err
		}
		base = fromFile
	}
	return applyEnv(base), nil
}

func loadFile(path string, base Config) (Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config file %s: %w", path, err)
	}
	cfg := base
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config file %s: %w", path, err)
	}
	return cfg, nil
}

func applyEnv(base Config) Config {
	return Config{
		Addr:                     getEnv("APP_ADDR", base.Addr),
		Environment:              getEnv("APP_ENV", base.Environment),
		LogLevel:                 getEnv("LOG_LEVEL", base.LogLevel),
		DatabaseURL:              getEnv("DATABASE_URL", base.DatabaseURL),
		SessionSecret:            getEnv("SESSION_SECRET", base.SessionSecret),
		CookieSecure:             getEnvBool("COOKIE_SECURE", base.CookieSecure),
		RedisAddr:                getEnv("REDIS_ADDR", base.RedisAddr),
		RedisPassword:            getEnv("REDIS_PASSWORD", base.RedisPassword),
		RedisDB:                  getEnvInt("REDIS_DB", base.RedisDB),
		AMQPURL:                  getEnv("AMQP_URL", base.AMQPURL),
		AMQPExchange:             getEnv("AMQP_EXCHANGE", base.AMQPExchange),
		RunMigrations:            getEnvBool("RUN_MIGRATIONS", base.RunMigrations),
		MigrationsDir:            getEnv("MIGRATIONS_DIR", base.MigrationsDir),
		RunSeed:                  getEnvBool("RUN_SEED", base.RunSeed),
		SeedAdminNationalID:      getEnv("SEED_ADMIN_NATIONAL_ID", base.SeedAdminNationalID),
		SeedAdminEmail:           getEnv("SEED_ADMIN_EMAIL", base.SeedAdminEmail),
		SeedAdminPassword:        getEnv("SEED_ADMIN_PASSWORD", base.SeedAdminPassword),
		MaxBodyBytes:             int64(getEnvInt("MAX_BODY_BYTES", int(base.MaxBodyBytes))),
		RateLimitPerMinute:       getEnvInt("RATE_LIMIT_PER_MINUTE", base.RateLimitPerMinute),
		PayrollReconcileInterval: getEnvDuration("PAYROLL_RECONCILE_INTERVAL", base.PayrollReconcileInterval),
		MetricsEnabled:           getEnvBool("METRICS_ENABLED", base.MetricsEnabled),
	}
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvInt(key string, fallback int) int {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := time.ParseDuration(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func (c Config) IsProduction() bool {
	return c.Environment == "production"
}

func (c Config) Validate() error {
	if strings.TrimSpace(c.DatabaseURL) == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}
	if c.IsProduction() {
		if len(strings.TrimSpace(c.SessionSecret)) < 32 {
			return fmt.Errorf("SESSION_SECRET must be at least 32 characters in production")
		}
		if c.RunSeed && strings.TrimSpace(c.SeedAdminPassword) == "" {
			return fmt.Errorf("SEED_ADMIN_PASSWORD must be set or RUN_SEED disabled in production")
		}
	}
	if c.MaxBodyBytes < 1024 {
		return fmt.Errorf("MAX_BODY_BYTES must be at least 1024")
	}
	if c.RateLimitPerMinute <= 0 {
		return fmt.Errorf("RATE_LIMIT_PER_MINUTE must be positive")
	}
	if c.PayrollReconcileInterval < 0 {
		return fmt.Errorf("PAYROLL_RECONCILE_INTERVAL must not be negative")
	}
	return nil
}
