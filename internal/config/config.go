package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
)

// Config holds application configuration values.
type Config struct {
	Secret         string
	HTTPPort       string
	DatabaseDriver string
	DatabaseDSN    string
	RedisAddr      string
	StatsCacheTTL  time.Duration
	CORSOrigins    []string
	LogLevel       string

	TraceExporter string
	OTLPEndpoint  string

	LowStockThreshold float64
	ShippingFlat      decimal.Decimal
	FreeShippingOver  decimal.Decimal

	AdminEmail    string
	AdminPassword string
}

// Load reads configuration from environment variables with reasonable defaults.
// A .env file in the working directory is applied first when present.
func Load() Config {
	_ = godotenv.Load()

	cfg := Config{
		Secret:         getenv("SECRET", "dev_secret"),
		HTTPPort:       getenv("HTTP_PORT", "8080"),
		DatabaseDriver: getenv("DATABASE_DRIVER", "sqlite"),
		DatabaseDSN:    getenv("DATABASE_DSN", "printshop.db"),
		RedisAddr:      os.Getenv("REDIS_ADDR"),
		LogLevel:       getenv("LOG_LEVEL", "info"),
		TraceExporter:  getenv("OTEL_TRACES_EXPORTER", "none"),
		OTLPEndpoint:   os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT"),
		AdminEmail:     os.Getenv("ADMIN_EMAIL"),
		AdminPassword:  os.Getenv("ADMIN_PASSWORD"),
	}

	// Validate that port is numeric.
	if _, err := strconv.Atoi(cfg.HTTPPort); err != nil {
		log.Printf("invalid HTTP_PORT value %q, defaulting to 8080", cfg.HTTPPort)
		cfg.HTTPPort = "8080"
	}

	switch cfg.DatabaseDriver {
	case "sqlite", "pgx":
	default:
		log.Printf("unsupported DATABASE_DRIVER %q, defaulting to sqlite", cfg.DatabaseDriver)
		cfg.DatabaseDriver = "sqlite"
	}

	cfg.StatsCacheTTL = 30 * time.Second
	if raw := os.Getenv("STATS_CACHE_TTL"); raw != "" {
		if ttl, err := time.ParseDuration(raw); err == nil {
			cfg.StatsCacheTTL = ttl
		} else {
			log.Printf("invalid STATS_CACHE_TTL value %q, defaulting to %s", raw, cfg.StatsCacheTTL)
		}
	}

	cfg.CORSOrigins = []string{"*"}
	if raw := strings.TrimSpace(os.Getenv("CORS_ORIGINS")); raw != "" {
		cfg.CORSOrigins = splitList(raw)
	}

	cfg.LowStockThreshold = 5
	if raw := os.Getenv("LOW_STOCK_THRESHOLD"); raw != "" {
		if v, err := strconv.ParseFloat(raw, 64); err == nil && v >= 0 {
			cfg.LowStockThreshold = v
		}
	}

	cfg.ShippingFlat = getDecimal("SHIPPING_FLAT", decimal.NewFromInt(5))
	cfg.FreeShippingOver = getDecimal("FREE_SHIPPING_OVER", decimal.NewFromInt(100))

	return cfg
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getDecimal(key string, fallback decimal.Decimal) decimal.Decimal {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	v, err := decimal.NewFromString(raw)
	if err != nil || v.IsNegative() {
		log.Printf("invalid %s value %q, defaulting to %s", key, raw, fallback)
		return fallback
	}
	return v
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
