package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	DriverPostgres = "postgres"
	DriverMemory   = "memory"
)

// Config is built once at startup and shared read-only.
type Config struct {
	AppEnv string
	Port   string

	// Database
	DBDriver       string
	DBHost         string
	DBPort         string
	DBUser         string
	DBPassword     string
	DBName         string
	DBSSLMode      string
	DBMaxOpenConns int
	DBMaxIdleConns int

	// JWT
	JWTSecret        string
	JWTAccessExpiry  time.Duration
	JWTRefreshExpiry time.Duration

	// Telegram Mini App
	TelegramBotToken       string
	TelegramInitDataMaxAge time.Duration

	// HTTP
	CORSOrigins         string
	RateLimitPerMinute  int
	AuthRateLimitPerMin int

	// Observability
	SentryDSN        string
	LogRetentionDays int
}

func Load() *Config {
	return &Config{
		AppEnv: getEnv("APP_ENV", "development"),
		Port:   getEnv("PORT", "8080"),

		DBDriver:       strings.ToLower(getEnv("DB_DRIVER", DriverPostgres)),
		DBHost:         getEnv("DB_HOST", "localhost"),
		DBPort:         getEnv("DB_PORT", "5432"),
		DBUser:         getEnv("DB_USER", "postgres"),
		DBPassword:     getEnv("DB_PASSWORD", ""),
		DBName:         getEnv("DB_NAME", "nutriai"),
		DBSSLMode:      getEnv("DB_SSLMODE", "disable"),
		DBMaxOpenConns: getInt("DB_MAX_OPEN_CONNS", 50),
		DBMaxIdleConns: getInt("DB_MAX_IDLE_CONNS", 25),

		JWTSecret:        getEnv("JWT_SECRET", ""),
		JWTAccessExpiry:  parseDuration(getEnv("JWT_ACCESS_EXPIRY", "24h"), 24*time.Hour),
		JWTRefreshExpiry: parseDuration(getEnv("JWT_REFRESH_EXPIRY", "720h"), 720*time.Hour),

		TelegramBotToken:       getEnv("TELEGRAM_BOT_TOKEN", ""),
		TelegramInitDataMaxAge: parseDuration(getEnv("TELEGRAM_INIT_DATA_MAX_AGE", "24h"), 24*time.Hour),

		CORSOrigins:         getEnv("CORS_ORIGINS", "http://localhost:5173"),
		RateLimitPerMinute:  getInt("RATE_LIMIT_PER_MINUTE", 120),
		AuthRateLimitPerMin: getInt("AUTH_RATE_LIMIT_PER_MINUTE", 10),

		SentryDSN:        getEnv("SENTRY_DSN", ""),
		LogRetentionDays: getInt("LOG_RETENTION_DAYS", 30),
	}
}

// Validate reports settings the server cannot start without.
func (c *Config) Validate() error {
	var errs []error
	if c.JWTSecret == "" {
		errs = append(errs, errors.New("JWT_SECRET environment variable is required"))
	}
	switch c.DBDriver {
	case DriverPostgres:
		if c.DBPassword == "" {
			errs = append(errs, errors.New("DB_PASSWORD environment variable is required"))
		}
	case DriverMemory:
	default:
		errs = append(errs, errors.New("DB_DRIVER must be postgres or memory"))
	}
	return errors.Join(errs...)
}

func (c *Config) DSN() string {
	return "host=" + c.DBHost +
		" user=" + c.DBUser +
		" password=" + c.DBPassword +
		" dbname=" + c.DBName +
		" port=" + c.DBPort +
		" sslmode=" + c.DBSSLMode +
		" TimeZone=UTC"
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getInt(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		if n, err := strconv.Atoi(val); err == nil {
			return n
		}
	}
	return fallback
}

func parseDuration(s string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(s)
	if err != nil {
		return fallback
	}
	return d
}
