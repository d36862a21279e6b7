package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config aggregates runtime configuration for the service.
type Config struct {
	App          AppConfig
	Postgres     PostgresConfig
	Redis        RedisConfig
	Logger       LoggerConfig
	Auth         AuthConfig
	Notification NotificationConfig
}

// AppConfig controls server level behavior.
type AppConfig struct {
	Name                  string
	Env                   string
	Host                  string
	Port                  string
	Version               string
	RequestTimeoutSeconds int
}

// PostgresConfig holds DB connection values.
type PostgresConfig struct {
	DSN            string
	MaxConns       int32
	MinConns       int32
	RunMigrations  bool
	MigrationsDir  string
	ConnMaxIdleSec int32
	ConnMaxLifeSec int32
}

// RedisConfig holds Redis connection values.
type RedisConfig struct {
	Addr           string
	Password       string
	DB             int
	DialTimeoutSec int
	PoolSize       int
}

// LoggerConfig configures logging behavior.
type LoggerConfig struct {
	Level string
}

// AuthConfig defines authentication parameters.
type AuthConfig struct {
	JWTSecret               string
	AccessTokenTTLMinutes   int
	PasswordResetTTLMinutes int
	BcryptCost              int
}

// NotificationConfig holds stub notification endpoints.
type NotificationConfig struct {
	EmailFrom  string
	WebhookURL string
}

const devJWTSecret = "dev-secret"

// Load reads configuration from the environment (and an optional .env
// file), applies defaults, and validates the result.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		App:          loadApp(),
		Postgres:     loadPostgres(),
		Redis:        loadRedis(),
		Logger:       LoggerConfig{Level: envString("LOG_LEVEL", "info")},
		Auth:         loadAuth(),
		Notification: loadNotification(),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects configurations that must never reach production:
// the development JWT secret and a missing database DSN.
func (c *Config) Validate() error {
	if c.App.Env != "production" {
		return nil
	}
	if c.Auth.JWTSecret == devJWTSecret {
		return fmt.Errorf("AUTH_JWT_SECRET must be set in production")
	}
	if c.Postgres.DSN == "" {
		return fmt.Errorf("POSTGRES_DSN must be set in production")
	}
	return nil
}

func loadApp() AppConfig {
	return AppConfig{
		Name:                  envString("APP_NAME", "casework-service"),
		Env:                   envString("APP_ENV", "development"),
		Host:                  envString("APP_HOST", "0.0.0.0"),
		Port:                  envString("APP_PORT", "8080"),
		Version:               envString("APP_VERSION", "dev"),
		RequestTimeoutSeconds: envInt("HTTP_REQUEST_TIMEOUT_SECONDS", 30),
	}
}

func loadPostgres() PostgresConfig {
	return PostgresConfig{
		DSN:            os.Getenv("POSTGRES_DSN"),
		MaxConns:       int32(envInt("POSTGRES_MAX_CONNS", 10)),
		MinConns:       int32(envInt("POSTGRES_MIN_CONNS", 2)),
		RunMigrations:  envBool("POSTGRES_RUN_MIGRATIONS", true),
		MigrationsDir:  envString("POSTGRES_MIGRATIONS_DIR", "migrations"),
		ConnMaxIdleSec: int32(envInt("POSTGRES_CONN_MAX_IDLE_SECONDS", 30)),
		ConnMaxLifeSec: int32(envInt("POSTGRES_CONN_MAX_LIFE_SECONDS", 300)),
	}
}

func loadRedis() RedisConfig {
	return RedisConfig{
		Addr:           envString("REDIS_ADDR", "127.0.0.1:6379"),
		Password:       os.Getenv("REDIS_PASSWORD"),
		DB:             envInt("REDIS_DB", 0),
		DialTimeoutSec: envInt("REDIS_DIAL_TIMEOUT_SECONDS", 5),
		PoolSize:       envInt("REDIS_POOL_SIZE", 10),
	}
}

func loadAuth() AuthConfig {
	return AuthConfig{
		JWTSecret:               envString("AUTH_JWT_SECRET", devJWTSecret),
		AccessTokenTTLMinutes:   envInt("AUTH_ACCESS_TOKEN_TTL_MINUTES", 60),
		PasswordResetTTLMinutes: envInt("AUTH_PASSWORD_RESET_TTL_MINUTES", 30),
		BcryptCost:              envInt("AUTH_BCRYPT_COST", 12),
	}
}

func loadNotification() NotificationConfig {
	return NotificationConfig{
		EmailFrom:  envString("NOTIFY_EMAIL_FROM", "noreply@example.com"),
		WebhookURL: envString("NOTIFY_WEBHOOK_URL", ""),
	}
}

// Addr returns the HTTP bind address.
func (a AppConfig) Addr() string {
	return fmt.Sprintf("%s:%s", a.Host, a.Port)
}

// RequestTimeout returns the configured request timeout duration.
func (a AppConfig) RequestTimeout() time.Duration {
	if a.RequestTimeoutSeconds <= 0 {
		return 0
	}
	return time.Duration(a.RequestTimeoutSeconds) * time.Second
}

func envString(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func envInt(key string, fallback int) int {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(val)
	if err != nil {
		return fallback
	}
	return parsed
}

func envBool(key string, fallback bool) bool {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(val)
	if err != nil {
		return fallback
	}
	return parsed
}
