package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// DefaultJWTSecret is only acceptable outside of prod.
const DefaultJWTSecret = "supersecretkey"

type Config struct {
	Port string

	DBHost string
	DBPort string
	DBName string
	DBUser string
	DBPass string

	// DBMaxOpenConns is the maximum number of open connections to the database (default 25).
	DBMaxOpenConns int
	// DBMaxIdleConns is the maximum number of idle connections (default 5).
	DBMaxIdleConns int

	// Storage is "postgres" (default) or "memory".
	Storage string

	JWTSecret string

	// Env is "dev" (default) or "prod". When "prod", JWT_SECRET must be set and not the default.
	Env string

	// JWTExpireMinutes is the token lifetime in minutes (default 30). Set via JWT_EXPIRE_MINUTES.
	JWTExpireMinutes int

	// BcryptCost is the bcrypt work factor (default 10).
	BcryptCost int

	// TLSCertFile and TLSKeyFile enable HTTPS when both are set.
	// When empty, the API listens with plain HTTP.
	TLSCertFile string
	TLSKeyFile  string

	// LogFormat is "text" (default) or "json" for structured logging.
	LogFormat string
	LogLevel  string

	// CORSAllowedOrigins is a list of origins allowed for CORS (e.g. https://app.example.com, http://localhost:3000).
	// Set via CORS_ALLOWED_ORIGINS (comma-separated). When empty, no CORS headers are sent (same-origin only).
	CORSAllowedOrigins []string

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	// ReportStore is "file" (default) or "s3".
	ReportStore string
	ReportDir   string
	// ReportRetentionHours is how long finished report artifacts are kept (default 24).
	ReportRetentionHours int
	// ReportSweepSchedule is a cron expression for the worker's retention sweep.
	ReportSweepSchedule string
	// WorkerMetricsAddr, when set, is where the worker serves /metrics (e.g. ":9091").
	WorkerMetricsAddr string

	S3Bucket   string
	S3Region   string
	S3Endpoint string
	S3Access   string
	S3Secret   string
}

// Load reads a .env file when present and then the process environment.
func Load() Config {
	_ = godotenv.Load()

	return Config{
		Port: getEnv("PORT", "8080"),

		DBHost: getEnv("DB_HOST", "localhost"),
		DBPort: getEnv("DB_PORT", "5432"),
		DBName: getEnv("DB_NAME", "candidatedb"),
		DBUser: getEnv("DB_USER", "candidate"),
		DBPass: getEnv("DB_PASS", "candidate"),

		DBMaxOpenConns: getEnvInt("DB_MAX_OPEN_CONNS", 25),
		DBMaxIdleConns: getEnvInt("DB_MAX_IDLE_CONNS", 5),

		Storage: strings.ToLower(getEnv("STORAGE", "postgres")),

		JWTSecret:        getEnv("JWT_SECRET", DefaultJWTSecret),
		Env:              getEnv("ENV", "dev"),
		JWTExpireMinutes: getEnvInt("JWT_EXPIRE_MINUTES", 30),
		BcryptCost:       getEnvInt("BCRYPT_COST", 10),

		// Optional TLS configuration for HTTPS.
		TLSCertFile: getEnv("TLS_CERT_FILE", ""),
		TLSKeyFile:  getEnv("TLS_KEY_FILE", ""),

		LogFormat: getEnv("LOG_FORMAT", "text"),
		LogLevel:  getEnv("LOG_LEVEL", "info"),

		CORSAllowedOrigins: parseCORSOrigins(getEnv("CORS_ALLOWED_ORIGINS", "")),

		RedisAddr:     getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       getEnvInt("REDIS_DB", 0),

		ReportStore:          strings.ToLower(getEnv("REPORT_STORE", "file")),
		ReportDir:            getEnv("REPORT_DIR", "reports"),
		ReportRetentionHours: getEnvInt("REPORT_RETENTION_HOURS", 24),
		ReportSweepSchedule:  getEnv("REPORT_SWEEP_SCHEDULE", "@every 1h"),
		WorkerMetricsAddr:    getEnv("WORKER_METRICS_ADDR", ""),

		S3Bucket:   getEnv("S3_BUCKET", ""),
		S3Region:   getEnv("S3_REGION", "us-east-1"),
		S3Endpoint: getEnv("S3_ENDPOINT", ""),
		S3Access:   getEnv("S3_ACCESS_KEY", ""),
		S3Secret:   getEnv("S3_SECRET_KEY", ""),
	}
}

// Validate reports configuration that must stop the process from starting.
func (c Config) Validate() error {
	var errs []error
	if c.JWTSecret == "" {
		errs = append(errs, errors.New("JWT_SECRET must be set"))
	}
	if c.Env == "prod" && c.JWTSecret == DefaultJWTSecret {
		errs = append(errs, errors.New("JWT_SECRET must not be the default in prod"))
	}
	switch c.Storage {
	case "postgres", "memory":
	default:
		errs = append(errs, fmt.Errorf("STORAGE must be postgres or memory, got %q", c.Storage))
	}
	switch c.ReportStore {
	case "file":
	case "s3":
		if c.S3Bucket == "" {
			errs = append(errs, errors.New("S3_BUCKET must be set when REPORT_STORE=s3"))
		}
	default:
		errs = append(errs, fmt.Errorf("REPORT_STORE must be file or s3, got %q", c.ReportStore))
	}
	return errors.Join(errs...)
}

// TokenTTL is the lifetime of issued access tokens.
func (c Config) TokenTTL() time.Duration {
	return time.Duration(c.JWTExpireMinutes) * time.Minute
}

// ReportRetention is how long report artifacts are kept before the sweep removes them.
func (c Config) ReportRetention() time.Duration {
	return time.Duration(c.ReportRetentionHours) * time.Hour
}

// DatabaseURL is the postgres URL used by the migrator.
func (c Config) DatabaseURL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable",
		c.DBUser, c.DBPass, c.DBHost, c.DBPort, c.DBName)
}

// parseCORSOrigins splits a comma-separated list of origins and trims spaces. Empty strings are omitted.
func parseCORSOrigins(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if o := strings.TrimSpace(p); o != "" {
			out = append(out, o)
		}
	}
	return out
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return n
		}
	}
	return fallback
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
