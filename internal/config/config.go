package config

import (
	"fmt"
	"net"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// DefaultCORSOrigins are the frontend origins allowed to call the API with credentials.
var DefaultCORSOrigins = []string{
	"http://localhost:5173",                 // local dev
	"https://remotage-frontend.vercel.app", // production
}

const (
	defaultMongoURI    = "mongodb://localhost:27017/remotage"
	defaultMongoDbName = "remotage"
)

// Config holds all configuration for the application.
type Config struct {
	// Environment
	RunMode     string // Set via flag, not env
	Environment string
	LogLevel    string

	// MongoDB
	MongoURI           string
	MongoDbName        string
	DbOperationTimeout time.Duration

	// Redis (lead expiry sweep queue). Empty RedisAddr disables the worker.
	RedisAddr     string
	RedisPassword string
	RedisDB       int

	// Server
	ApiPort        string
	ServiceApiPort string // loopback admin API
	CORSOrigins    []string
	MaxBodyBytes   int64
	// Reverse proxies whose X-Forwarded-For is believed when resolving the
	// client IP. Empty means the socket peer address is used.
	TrustedProxies []string

	// Leads
	LeadTTL                time.Duration
	LeadSweepInterval      string // asynq cron spec
	LeadRateLimitPerMinute int
	LeadRateLimitBurst     int
}

// Load configuration from environment variables.
// RunMode needs to be passed in as it comes from command-line flags.
func Load(runMode string) (*Config, error) {
	// Load .env file, ignoring errors if it doesn't exist
	_ = godotenv.Load()

	cfg := &Config{
		RunMode: runMode,
	}

	var err error

	getEnv := func(key, defaultValue string) string {
		if value, exists := os.LookupEnv(key); exists && value != "" {
			return value
		}
		return defaultValue
	}

	cfg.Environment = getEnv("ENVIRONMENT", "development")
	cfg.LogLevel = getEnv("LOG_LEVEL", "info")
	cfg.MongoURI = getEnv("MONGODB_URI", defaultMongoURI)
	cfg.MongoDbName = getEnv("MONGODB_DB_NAME", databaseFromURI(cfg.MongoURI))
	cfg.RedisAddr = getEnv("REDIS_ADDR", "")
	cfg.RedisPassword = getEnv("REDIS_PASSWORD", "")
	cfg.ApiPort = getEnv("PORT", "3001")
	cfg.ServiceApiPort = getEnv("SERVICE_API_PORT", "3002")
	cfg.LeadSweepInterval = getEnv("LEAD_SWEEP_INTERVAL", "@every 1h")
	cfg.CORSOrigins = splitList(getEnv("CORS_ORIGINS", ""))
	if len(cfg.CORSOrigins) == 0 {
		cfg.CORSOrigins = append([]string(nil), DefaultCORSOrigins...)
	}

	cfg.TrustedProxies = splitList(getEnv("TRUSTED_PROXIES", ""))
	for _, proxy := range cfg.TrustedProxies {
		if !validProxy(proxy) {
			return nil, fmt.Errorf("invalid TRUSTED_PROXIES entry %q: want an IP or CIDR", proxy)
		}
	}

	cfg.RedisDB, err = strconv.Atoi(getEnv("REDIS_DB", "0"))
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_DB: %w", err)
	}

	cfg.MaxBodyBytes, err = strconv.ParseInt(getEnv("MAX_BODY_BYTES", "52428800"), 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid MAX_BODY_BYTES: %w", err)
	}

	dbTimeoutSeconds, err := strconv.ParseInt(getEnv("DB_OPERATION_TIMEOUT_SECONDS", "10"), 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid DB_OPERATION_TIMEOUT_SECONDS: %w", err)
	}
	cfg.DbOperationTimeout = time.Duration(dbTimeoutSeconds) * time.Second

	leadTTLSeconds, err := strconv.ParseInt(getEnv("LEAD_TTL_SECONDS", "604800"), 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid LEAD_TTL_SECONDS: %w", err)
	}
	if leadTTLSeconds <= 0 {
		return nil, fmt.Errorf("invalid LEAD_TTL_SECONDS: must be positive, got %d", leadTTLSeconds)
	}
	cfg.LeadTTL = time.Duration(leadTTLSeconds) * time.Second

	cfg.LeadRateLimitPerMinute, err = strconv.Atoi(getEnv("LEAD_RATE_LIMIT_PER_MINUTE", "30"))
	if err != nil {
		return nil, fmt.Errorf("invalid LEAD_RATE_LIMIT_PER_MINUTE: %w", err)
	}
	cfg.LeadRateLimitBurst, err = strconv.Atoi(getEnv("LEAD_RATE_LIMIT_BURST", "10"))
	if err != nil {
		return nil, fmt.Errorf("invalid LEAD_RATE_LIMIT_BURST: %w", err)
	}

	return cfg, nil
}

// IsProduction reports whether the process runs with ENVIRONMENT=production.
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// SweepEnabled reports whether the background lead expiry sweep can run.
func (c *Config) SweepEnabled() bool {
	return c.RedisAddr != ""
}

// databaseFromURI returns the database named in the URI path, or the default.
func databaseFromURI(uri string) string {
	u, err := url.Parse(uri)
	if err != nil {
		return defaultMongoDbName
	}
	name := strings.Trim(u.Path, "/")
	if name == "" {
		return defaultMongoDbName
	}
	return name
}

func validProxy(s string) bool {
	if strings.Contains(s, "/") {
		_, _, err := net.ParseCIDR(s)
		return err == nil
	}
	return net.ParseIP(s) != nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
