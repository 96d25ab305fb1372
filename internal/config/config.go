package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/joho/godotenv"
)

type Config struct {
	Database   DatabaseConfig
	JWT        JWTConfig
	App        AppConfig
	Attendance AttendanceConfig
}

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Name     string
	SSLMode  string
}

// JWTConfig holds JWT configuration
type JWTConfig struct {
	Secret           string
	AccessExpiration string
}

// AppConfig holds application configuration
type AppConfig struct {
	Port           int
	Env            string
	LogLevel       string
	AllowedOrigins []string
}

// AttendanceConfig holds the punch engine's runtime settings
type AttendanceConfig struct {
	Timezone                string
	PolicyFile              string
	ScheduleCacheTTL        time.Duration
	PunchRateLimit          float64 // requests per second per employee
	PunchRateBurst          int
	CreditRecomputeInterval time.Duration
}

// Load reads .env when present and then the process environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		slog.Debug("No .env file loaded, using process environment", "error", err)
	}
	return FromEnv()
}

func FromEnv() (*Config, error) {
	config := &Config{}

	// Database configuration
	dbPort, err := strconv.Atoi(getEnv("DB_PORT", "5432"))
	if err != nil {
		return nil, fmt.Errorf("invalid DB_PORT: %w", err)
	}

	config.Database = DatabaseConfig{
		Host:     getEnv("DB_HOST", "localhost"),
		Port:     dbPort,
		User:     getEnv("DB_USER", "postgres"),
		Password: getEnv("DB_PASSWORD", ""),
		Name:     getEnv("DB_NAME", "cmlabs-hris"),
		SSLMode:  getEnv("DB_SSL_MODE", "disable"),
	}

	// Application configuration
	appPort, err := strconv.Atoi(getEnv("APP_PORT", "8080"))
	if err != nil {
		return nil, fmt.Errorf("invalid APP_PORT: %w", err)
	}

	config.App = AppConfig{
		Port:           appPort,
		Env:            getEnv("APP_ENV", "development"),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		AllowedOrigins: getEnvSlice("CORS_ALLOWED_ORIGINS"),
	}

	// JWT configuration
	config.JWT = JWTConfig{
		Secret:           getEnv("JWT_SECRET_KEY", ""),
		AccessExpiration: getEnv("JWT_ACCESS_EXPIRATION_TIME", "1h"),
	}

	// Attendance configuration
	cacheTTL, err := time.ParseDuration(getEnv("SCHEDULE_CACHE_TTL", "5m"))
	if err != nil {
		return nil, fmt.Errorf("invalid SCHEDULE_CACHE_TTL: %w", err)
	}

	rateLimit, err := strconv.ParseFloat(getEnv("PUNCH_RATE_LIMIT_PER_SEC", "1"), 64)
	if err != nil {
		return nil, fmt.Errorf("invalid PUNCH_RATE_LIMIT_PER_SEC: %w", err)
	}

	rateBurst, err := strconv.Atoi(getEnv("PUNCH_RATE_BURST", "3"))
	if err != nil {
		return nil, fmt.Errorf("invalid PUNCH_RATE_BURST: %w", err)
	}

	recomputeInterval, err := time.ParseDuration(getEnv("CREDIT_RECOMPUTE_INTERVAL", "1h"))
	if err != nil {
		return nil, fmt.Errorf("invalid CREDIT_RECOMPUTE_INTERVAL: %w", err)
	}

	config.Attendance = AttendanceConfig{
		Timezone:                getEnv("ATTENDANCE_TIMEZONE", "Asia/Jakarta"),
		PolicyFile:              getEnv("ATTENDANCE_POLICY_FILE", ""),
		ScheduleCacheTTL:        cacheTTL,
		PunchRateLimit:          rateLimit,
		PunchRateBurst:          rateBurst,
		CreditRecomputeInterval: recomputeInterval,
	}

	// Validate required fields
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Database.Password == "" {
		return fmt.Errorf("DB_PASSWORD is required")
	}
	if c.JWT.Secret == "" {
		return fmt.Errorf("JWT_SECRET_KEY is required")
	}
	if _, err := time.ParseDuration(c.JWT.AccessExpiration); err != nil {
		return fmt.Errorf("invalid JWT_ACCESS_EXPIRATION_TIME: %w", err)
	}
	if _, err := time.LoadLocation(c.Attendance.Timezone); err != nil {
		return fmt.Errorf("invalid ATTENDANCE_TIMEZONE %q: %w", c.Attendance.Timezone, err)
	}
	if c.Attendance.PunchRateLimit <= 0 {
		return fmt.Errorf("PUNCH_RATE_LIMIT_PER_SEC must be positive")
	}
	if c.Attendance.PunchRateBurst <= 0 {
		return fmt.Errorf("PUNCH_RATE_BURST must be positive")
	}
	if c.Attendance.CreditRecomputeInterval <= 0 {
		return fmt.Errorf("CREDIT_RECOMPUTE_INTERVAL must be positive")
	}
	return nil
}

// DatabaseURL returns the PostgreSQL connection string
func (c *Config) DatabaseURL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Name,
		c.Database.SSLMode,
	)
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvSlice(env string) []string {
	value := getEnv(env, "")
	if value == "" {
		return []string{}
	}
	var result []string = strings.Split(value, ",")
	return result
}
