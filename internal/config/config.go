package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds application configuration.
type Config struct {
	AppName     string
	AppVersion  string
	Environment string
	InstanceID  string

	HTTPAddr string

	OTLPEndpoint string

	Cloud CloudConfig

	DBType            string
	DBHost            string
	DBPort            string
	DBName            string
	DBUser            string
	DBPassword        string
	DBSSLMode         string
	DBMaxIdleConn     int
	DBMaxOpenConn     int
	DBConnMaxLifetime int

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	// DraftStore selects the snapshot backend: memory, redis or db.
	DraftStore string
	// DraftTTL bounds how long an orphaned draft survives in redis.
	DraftTTL time.Duration
	// DraftDebounceInterval is the default quiet period before an
	// auto-save fires.
	DraftDebounceInterval time.Duration

	TRNVerifyEndpoint string
	TRNVerifyAPIKey   string
	TRNVerifyTimeout  time.Duration

	RateLimit RateLimitConfig
}

// RateLimitConfig bounds external verification traffic per client.
type RateLimitConfig struct {
	Enabled     bool
	VerifyRate  float64
	VerifyBurst int
}

type CloudConfig struct {
	OrganizationID string
	Metrics        CloudMetricsConfig
}

type CloudMetricsConfig struct {
	Enabled   bool
	Exporter  string
	Endpoint  string
	AuthToken string
}

const (
	DraftStoreMemory = "memory"
	DraftStoreRedis  = "redis"
	DraftStoreDB     = "db"
)

// Load loads configuration from environment variables and .env file.
func Load() Config {
	_ = godotenv.Load()

	return Config{
		AppName:     getenv("APP_SERVICE", "steelcore"),
		AppVersion:  getenv("APP_VERSION", "0.1.0"),
		Environment: getenv("ENVIRONMENT", "development"),
		InstanceID:  strings.TrimSpace(getenv("INSTANCE_ID", "")),

		HTTPAddr: getenv("HTTP_ADDR", ":8080"),

		OTLPEndpoint: getenv("OTLP_ENDPOINT", "localhost:4317"),

		Cloud: CloudConfig{
			OrganizationID: strings.TrimSpace(getenv("CLOUD_ORGANIZATION_ID", "")),
			Metrics: CloudMetricsConfig{
				Enabled:   getenvBool("CLOUD_METRICS_ENABLED", false),
				Exporter:  strings.ToLower(getenv("CLOUD_METRICS_EXPORTER", "")),
				Endpoint:  strings.TrimSpace(getenv("CLOUD_METRICS_ENDPOINT", "")),
				AuthToken: strings.TrimSpace(getenv("CLOUD_METRICS_AUTH_TOKEN", "")),
			},
		},

		DBType:            getenv("DATABASE_TYPE", "sqlite"),
		DBHost:            getenv("DATABASE_HOST", "localhost"),
		DBPort:            getenv("DATABASE_PORT", "5432"),
		DBName:            getenv("DATABASE_NAME", "steelcore"),
		DBUser:            getenv("DATABASE_USER", "postgres"),
		DBPassword:        getenv("DATABASE_PASSWORD", ""),
		DBSSLMode:         getenv("DATABASE_SSLMODE", "disable"),
		DBMaxIdleConn:     getenvInt("DATABASE_MAX_IDLE_CONN", 2),
		DBMaxOpenConn:     getenvInt("DATABASE_MAX_OPEN_CONN", 10),
		DBConnMaxLifetime: getenvInt("DATABASE_CONN_MAX_LIFETIME", 3600),

		RedisAddr:     strings.TrimSpace(getenv("REDIS_ADDR", "")),
		RedisPassword: getenv("REDIS_PASSWORD", ""),
		RedisDB:       getenvInt("REDIS_DB", 0),

		DraftStore:            strings.ToLower(getenv("DRAFT_STORE", DraftStoreMemory)),
		DraftTTL:              getenvDuration("DRAFT_TTL", 7*24*time.Hour),
		DraftDebounceInterval: getenvDuration("DRAFT_DEBOUNCE_INTERVAL", 30*time.Second),

		TRNVerifyEndpoint: strings.TrimSpace(getenv("TRN_VERIFY_ENDPOINT", "")),
		TRNVerifyAPIKey:   strings.TrimSpace(getenv("TRN_VERIFY_API_KEY", "")),
		TRNVerifyTimeout:  getenvDuration("TRN_VERIFY_TIMEOUT", 10*time.Second),

		RateLimit: RateLimitConfig{
			Enabled:     getenvBool("RATE_LIMIT_ENABLED", true),
			VerifyRate:  getenvFloat("RATE_LIMIT_VERIFY_RATE", 1),
			VerifyBurst: getenvInt("RATE_LIMIT_VERIFY_BURST", 5),
		},
	}
}

// IsCloud reports whether this instance reports accounting metrics to a
// hosted control plane.
func (c Config) IsCloud() bool {
	return c.Cloud.OrganizationID != ""
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvBool(key string, def bool) bool {
	value := strings.ToLower(strings.TrimSpace(os.Getenv(key)))
	if value == "" {
		return def
	}
	switch value {
	case "1", "true", "yes", "y", "on":
		return true
	case "0", "false", "no", "n", "off":
		return false
	default:
		return def
	}
}

func getenvInt(key string, def int) int {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return def
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return def
	}
	return parsed
}

func getenvFloat(key string, def float64) float64 {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return def
	}
	parsed, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return def
	}
	return parsed
}

func getenvDuration(key string, def time.Duration) time.Duration {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return def
	}
	parsed, err := time.ParseDuration(value)
	if err != nil {
		return def
	}
	return parsed
}
