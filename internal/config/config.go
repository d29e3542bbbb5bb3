package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

const defaultJWTSecret = "your-super-secret-jwt-key-change-in-production"

type Config struct {
	Port       string
	Production bool

	// PostgreSQL is used when DatabaseURL is set and Production is true;
	// the embedded SQLite store otherwise.
	DatabaseURL string
	SQLitePath  string

	JWTSecret string
	JWTExpiry time.Duration

	// First-run admin bootstrap credentials.
	AdminUsername string
	AdminPassword string

	// Object storage for lesson image uploads.
	GCSBucket          string
	GCSCredentialsFile string

	FrontendURL string

	RateLimitMax     int
	AuthRateLimitMax int
	RateLimitWindow  time.Duration

	MaxUploadBytes int64
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Port:               getEnv("PORT", "3000"),
		Production:         getEnv("APP_ENV", getEnv("NODE_ENV", "development")) == "production",
		DatabaseURL:        os.Getenv("DATABASE_URL"),
		SQLitePath:         getEnv("SQLITE_PATH", "./data/school.db"),
		JWTSecret:          os.Getenv("JWT_SECRET"),
		JWTExpiry:          getDuration("JWT_EXPIRY", 7*24*time.Hour),
		AdminUsername:      getEnv("ADMIN_USERNAME", "admin"),
		AdminPassword:      getEnv("ADMIN_PASSWORD", "ChangeThisPassword123!"),
		GCSBucket:          os.Getenv("GCS_BUCKET"),
		GCSCredentialsFile: os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"),
		FrontendURL:        getEnv("FRONTEND_URL", "http://localhost:3000"),
		RateLimitMax:       getInt("RATE_LIMIT_MAX", 1000),
		AuthRateLimitMax:   getInt("AUTH_RATE_LIMIT_MAX", 100),
		RateLimitWindow:    getDuration("RATE_LIMIT_WINDOW", 15*time.Minute),
		MaxUploadBytes:     10 << 20,
	}

	if cfg.JWTSecret == "" || cfg.JWTSecret == defaultJWTSecret {
		return nil, fmt.Errorf("JWT_SECRET not set or using default value")
	}
	if cfg.Production && len(cfg.JWTSecret) < 32 {
		return nil, fmt.Errorf("JWT_SECRET must be at least 32 characters in production")
	}

	return cfg, nil
}

// UsePostgres reports whether the networked dialect is selected for this process.
func (c *Config) UsePostgres() bool {
	return c.DatabaseURL != "" && c.Production
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
