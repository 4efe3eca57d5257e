package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

const defaultConnectionString = "Host=localhost;Port=5432;Database=simple_banking_db;Username=postgres;Password=postgres;Timeout=30;CommandTimeout=30"
const defaultHTTPAddr = ":8080"
const defaultSessionSecret = "simple-banking-dev-secret"

const (
	StorageMemory   = "memory"
	StoragePostgres = "postgres"

	// PostingSession writes validated effects to the store.
	PostingSession = "session"
	// PostingPreview computes effects and discards them.
	PostingPreview = "preview"
)

type Config struct {
	HTTPAddr              string
	StorageDriver         string
	DatabaseDSN           string
	MigrationsDir         string
	PostingMode           string
	ProcessingDelay       time.Duration
	ProcessingConcurrency int64
	DepositCeiling        decimal.Decimal
	WithdrawalCeiling     decimal.Decimal
	SessionSecret         string
	SessionTTL            time.Duration
	RecentTransactions    int
}

func Load() (Config, error) {
	cfg := Config{
		HTTPAddr:      envOrDefault("HTTP_ADDR", defaultHTTPAddr),
		StorageDriver: strings.ToLower(envOrDefault("STORAGE_DRIVER", StorageMemory)),
		DatabaseDSN:   normalizeConnectionString(envOrDefault("DATABASE_DSN", defaultConnectionString)),
		MigrationsDir: strings.TrimSpace(os.Getenv("MIGRATIONS_DIR")),
		PostingMode:   strings.ToLower(envOrDefault("POSTING_MODE", PostingSession)),
		SessionSecret: envOrDefault("SESSION_SECRET", defaultSessionSecret),
	}

	switch cfg.StorageDriver {
	case StorageMemory, StoragePostgres:
	default:
		return Config{}, fmt.Errorf("STORAGE_DRIVER must be %q or %q, got %q", StorageMemory, StoragePostgres, cfg.StorageDriver)
	}

	switch cfg.PostingMode {
	case PostingSession, PostingPreview:
	default:
		return Config{}, fmt.Errorf("POSTING_MODE must be %q or %q, got %q", PostingSession, PostingPreview, cfg.PostingMode)
	}

	var err error
	if cfg.ProcessingDelay, err = durationEnv("PROCESSING_DELAY", 2*time.Second); err != nil {
		return Config{}, err
	}
	if cfg.SessionTTL, err = durationEnv("SESSION_TTL", 30*time.Minute); err != nil {
		return Config{}, err
	}
	if cfg.SessionTTL <= 0 {
		return Config{}, fmt.Errorf("SESSION_TTL must be positive")
	}
	if cfg.DepositCeiling, err = decimalEnv("DEPOSIT_CEILING", decimal.NewFromInt(10000)); err != nil {
		return Config{}, err
	}
	if cfg.WithdrawalCeiling, err = decimalEnv("WITHDRAWAL_CEILING", decimal.NewFromInt(500)); err != nil {
		return Config{}, err
	}

	concurrency := envOrDefault("PROCESSING_CONCURRENCY", "64")
	cfg.ProcessingConcurrency, err = strconv.ParseInt(concurrency, 10, 64)
	if err != nil || cfg.ProcessingConcurrency <= 0 {
		return Config{}, fmt.Errorf("PROCESSING_CONCURRENCY must be a positive integer, got %q", concurrency)
	}

	recent := envOrDefault("RECENT_TRANSACTIONS", "5")
	cfg.RecentTransactions, err = strconv.Atoi(recent)
	if err != nil || cfg.RecentTransactions < 0 {
		return Config{}, fmt.Errorf("RECENT_TRANSACTIONS must be a non-negative integer, got %q", recent)
	}

	return cfg, nil
}

// MigrationsPath is the on-disk migrations directory, or "" when the
// embedded migrations should be used.
func (c Config) MigrationsPath() string {
	if c.MigrationsDir == "" {
		return ""
	}
	return filepath.Clean(c.MigrationsDir)
}

func envOrDefault(key string, fallback string) string {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback
	}
	return value
}

func durationEnv(key string, fallback time.Duration) (time.Duration, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil || d < 0 {
		return 0, fmt.Errorf("%s must be a non-negative duration, got %q", key, raw)
	}
	return d, nil
}

func decimalEnv(key string, fallback decimal.Decimal) (decimal.Decimal, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback, nil
	}
	d, err := decimal.NewFromString(raw)
	if err != nil || !d.IsPositive() {
		return decimal.Decimal{}, fmt.Errorf("%s must be a positive amount, got %q", key, raw)
	}
	return d, nil
}

func normalizeConnectionString(raw string) string {
	// Already in lib/pq form.
	if strings.HasPrefix(raw, "postgres://") || strings.HasPrefix(raw, "postgresql://") {
		return raw
	}

	parts := strings.Split(raw, ";")
	out := make([]string, 0, len(parts))
	hasSSLMode := false

	for _, part := range parts {
		p := strings.TrimSpace(part)
		if p == "" {
			continue
		}

		kv := strings.SplitN(p, "=", 2)
		if len(kv) != 2 {
			continue
		}

		key := strings.ToLower(strings.TrimSpace(kv[0]))
		val := strings.TrimSpace(kv[1])

		switch key {
		case "host":
			out = append(out, "host="+val)
		case "port":
			out = append(out, "port="+val)
		case "database":
			out = append(out, "dbname="+val)
		case "username":
			out = append(out, "user="+val)
		case "password":
			out = append(out, "password="+val)
		case "timeout", "connect timeout":
			out = append(out, "connect_timeout="+val)
		case "commandtimeout", "command timeout":
			out = append(out, "statement_timeout="+val+"s")
		case "sslmode":
			hasSSLMode = true
			out = append(out, "sslmode="+val)
		default:
			out = append(out, key+"="+val)
		}
	}

	if len(out) == 0 {
		return raw
	}

	if !hasSSLMode {
		out = append(out, "sslmode=disable")
	}

	return strings.Join(out, " ")
}
