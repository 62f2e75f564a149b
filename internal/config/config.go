package config

import (
	"os"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	// Database
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string

	// JWT
	JWTSecret       string
	JWTAccessExpiry time.Duration

	// Admin
	AdminEmails string
	AdminToken  string

	// Payment provider callback
	PaymentWebhookSecret string

	// Exempt accounts (deploy-time allowlist)
	ExemptConfigPath string
	ExemptTeacherIDs string
	FreeTeacherID    string

	// Expiration sweeper
	SweepInterval time.Duration

	// Server
	Port        string
	CORSOrigins string
}

func Load() *Config {
	// Missing .env is fine in production; env vars win either way.
	_ = godotenv.Load()

	return &Config{
		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     getEnv("DB_USER", "postgres"),
		DBPassword: getEnv("DB_PASSWORD", ""),
		DBName:     getEnv("DB_NAME", "tadrees_db"),
		DBSSLMode:  getEnv("DB_SSLMODE", "disable"),

		JWTSecret:       getEnv("JWT_SECRET", ""),
		JWTAccessExpiry: parseDuration(getEnv("JWT_ACCESS_EXPIRY", "24h"), 24*time.Hour),

		AdminEmails: getEnv("ADMIN_EMAILS", ""),
		AdminToken:  getEnv("ADMIN_TOKEN", ""),

		PaymentWebhookSecret: getEnv("PAYMENT_WEBHOOK_SECRET", ""),

		ExemptConfigPath: getEnv("EXEMPT_CONFIG_PATH", ""),
		ExemptTeacherIDs: getEnv("EXEMPT_TEACHER_IDS", ""),
		FreeTeacherID:    getEnv("FREE_TEACHER_ID", ""),

		SweepInterval: parseDuration(getEnv("SWEEP_INTERVAL", "24h"), 24*time.Hour),

		Port:        getEnv("PORT", "8080"),
		CORSOrigins: getEnv("CORS_ORIGINS", "*"),
	}
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

func parseDuration(s string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(s)
	if err != nil {
		return fallback
	}
	return d
}
