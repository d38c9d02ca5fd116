package config

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

const (
	StorageDriverPostgres = "postgres"
	StorageDriverBadger   = "badger"
)

// Config holds application level configuration loaded from environment and flags.
type Config struct {
	RunAddress            string `validate:"required"`
	StorageDriver         string `validate:"oneof=postgres badger"`
	DatabaseURI           string `validate:"required_if=StorageDriver postgres"`
	BadgerPath            string
	JWTSecret             string `validate:"required"`
	TokenTTL              time.Duration
	BcryptCost            int `validate:"omitempty,min=4,max=31"`
	AdminToken            string
	MarketDataURL         string `validate:"required,url"`
	MarketRefreshInterval time.Duration
	MarketSnapshotMaxAge  time.Duration
	ResendAPIKey          string
	MailFrom              string `validate:"required"`
	MailWorkers           int
	MailQueueSize         int
	LedgerMaxRetries      int
	ShutdownTimeout       time.Duration
	LogLevel              string `validate:"oneof=debug info warn error"`
	LogFile               string
}

const (
	defaultRunAddress            = ":8080"
	defaultStorageDriver         = StorageDriverPostgres
	defaultJWTSecret             = "change-me-in-production"
	defaultTokenTTL              = 24 * time.Hour
	defaultBcryptCost            = 10
	defaultMarketDataURL         = "https://api.coingecko.com/api/v3"
	defaultMarketRefreshInterval = time.Minute
	defaultMarketSnapshotMaxAge  = 5 * time.Minute
	defaultMailFrom              = "OC Exchange <onboarding@resend.dev>"
	defaultMailWorkers           = 2
	defaultMailQueueSize         = 64
	defaultLedgerMaxRetries      = 3
	defaultShutdownTimeout       = 10 * time.Second
	defaultLogLevel              = "info"
	defaultEnvFile               = ".env"
)

var validate = validator.New()

// Load parses configuration from a .env file, flags and environment variables.
// Variables already present in the environment win over the .env file.
func Load() (*Config, error) {
	envFile := defaultEnvFile
	if v, ok := os.LookupEnv("ENV_FILE"); ok && v != "" {
		envFile = v
	}
	if err := loadEnvFile(envFile); err != nil {
		return nil, err
	}
	return load(os.Args[1:], os.LookupEnv)
}

func loadEnvFile(path string) error {
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("load env file: %w", err)
	}
	return nil
}

type envLookup func(string) (string, bool)

func load(args []string, lookup envLookup) (*Config, error) {
	cfg := &Config{
		RunAddress:            getString(lookup, "RUN_ADDRESS", defaultRunAddress),
		StorageDriver:         getString(lookup, "STORAGE_DRIVER", defaultStorageDriver),
		DatabaseURI:           getString(lookup, "DATABASE_URI", ""),
		BadgerPath:            getString(lookup, "BADGER_PATH", ""),
		JWTSecret:             getString(lookup, "JWT_SECRET", defaultJWTSecret),
		TokenTTL:              getDuration(lookup, "TOKEN_TTL", defaultTokenTTL),
		BcryptCost:            getInt(lookup, "BCRYPT_COST", defaultBcryptCost),
		AdminToken:            getString(lookup, "ADMIN_TOKEN", ""),
		MarketDataURL:         getString(lookup, "MARKET_DATA_URL", defaultMarketDataURL),
		MarketRefreshInterval: getDuration(lookup, "MARKET_REFRESH_INTERVAL", defaultMarketRefreshInterval),
		MarketSnapshotMaxAge:  getDuration(lookup, "MARKET_SNAPSHOT_MAX_AGE", defaultMarketSnapshotMaxAge),
		ResendAPIKey:          getString(lookup, "RESEND_API_KEY", ""),
		MailFrom:              getString(lookup, "MAIL_FROM", defaultMailFrom),
		MailWorkers:           getInt(lookup, "MAIL_WORKERS", defaultMailWorkers),
		MailQueueSize:         getInt(lookup, "MAIL_QUEUE_SIZE", defaultMailQueueSize),
		LedgerMaxRetries:      getInt(lookup, "LEDGER_MAX_RETRIES", defaultLedgerMaxRetries),
		ShutdownTimeout:       getDuration(lookup, "SHUTDOWN_TIMEOUT", defaultShutdownTimeout),
		LogLevel:              getString(lookup, "LOG_LEVEL", defaultLogLevel),
		LogFile:               getString(lookup, "LOG_FILE", ""),
	}

	flags := flag.NewFlagSet("ocexchange", flag.ContinueOnError)
	flags.SetOutput(io.Discard)

	var (
		refreshIntervalStr = cfg.MarketRefreshInterval.String()
		shutdownTimeoutStr = cfg.ShutdownTimeout.String()
	)

	flags.StringVar(&cfg.RunAddress, "a", cfg.RunAddress, "HTTP server listen address")
	flags.StringVar(&cfg.StorageDriver, "s", cfg.StorageDriver, "Storage driver: postgres or badger")
	flags.StringVar(&cfg.DatabaseURI, "d", cfg.DatabaseURI, "PostgreSQL DSN")
	flags.StringVar(&cfg.BadgerPath, "b", cfg.BadgerPath, "Badger data directory, empty for in-memory")
	flags.StringVar(&cfg.JWTSecret, "jwt-secret", cfg.JWTSecret, "Secret for signing auth tokens")
	flags.StringVar(&cfg.MarketDataURL, "market-url", cfg.MarketDataURL, "Market data API base URL")
	flags.StringVar(&refreshIntervalStr, "market-refresh", refreshIntervalStr, "Interval between market data refreshes")
	flags.IntVar(&cfg.MailWorkers, "mail-workers", cfg.MailWorkers, "Number of concurrent mail workers")
	flags.IntVar(&cfg.LedgerMaxRetries, "ledger-retries", cfg.LedgerMaxRetries, "Retries of conflicting balance transactions")
	flags.StringVar(&shutdownTimeoutStr, "shutdown-timeout", shutdownTimeoutStr, "Graceful shutdown timeout")
	flags.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "Log level: debug, info, warn or error")

	if err := flags.Parse(args); err != nil {
		return nil, fmt.Errorf("parse flags: %w", err)
	}

	var err error

	if cfg.MarketRefreshInterval, err = time.ParseDuration(refreshIntervalStr); err != nil {
		return nil, fmt.Errorf("invalid market refresh interval: %w", err)
	}

	if cfg.ShutdownTimeout, err = time.ParseDuration(shutdownTimeoutStr); err != nil {
		return nil, fmt.Errorf("invalid shutdown timeout: %w", err)
	}

	if secretFile, ok := lookup("JWT_SECRET_FILE"); ok && secretFile != "" {
		content, err := os.ReadFile(secretFile)
		if err != nil {
			return nil, fmt.Errorf("read jwt secret file: %w", err)
		}
		cfg.JWTSecret = string(content)
	}

	if cfg.MailWorkers <= 0 {
		cfg.MailWorkers = defaultMailWorkers
	}

	if cfg.MailQueueSize <= 0 {
		cfg.MailQueueSize = defaultMailQueueSize
	}

	if cfg.LedgerMaxRetries < 0 {
		cfg.LedgerMaxRetries = defaultLedgerMaxRetries
	}

	if cfg.MarketRefreshInterval <= 0 {
		cfg.MarketRefreshInterval = defaultMarketRefreshInterval
	}

	if cfg.MarketSnapshotMaxAge <= 0 {
		cfg.MarketSnapshotMaxAge = defaultMarketSnapshotMaxAge
	}

	if cfg.TokenTTL <= 0 {
		cfg.TokenTTL = defaultTokenTTL
	}

	if cfg.ShutdownTimeout <= 0 {
		cfg.ShutdownTimeout = defaultShutdownTimeout
	}

	if err := validate.Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

func getString(lookup envLookup, key, def string) string {
	if v, ok := lookup(key); ok && v != "" {
		return v
	}
	return def
}

func getInt(lookup envLookup, key string, def int) int {
	if v, ok := lookup(key); ok && v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func getDuration(lookup envLookup, key string, def time.Duration) time.Duration {
	if v, ok := lookup(key); ok && v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}
