package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	Database DatabaseConfig
	Server   ServerConfig
	App      AppConfig
	Redis    RedisConfig
}

// DatabaseConfig holds database connection settings
type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
}

// ServerConfig holds server settings
type ServerConfig struct {
	Port string
}

// AppConfig holds application-specific settings
type AppConfig struct {
	DashboardBaseURL string
	SignupGrant      int64
	ReferralBonus    int64
}

// RedisConfig holds the optional scoreboard cache settings. An empty Addr
// disables caching entirely.
type RedisConfig struct {
	Addr          string
	ScoreboardTTL time.Duration
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	// Try to load .env file (ignore error if it doesn't exist)
	_ = godotenv.Load()

	signupGrant, err := getEnvInt("SIGNUP_GRANT", 10000)
	if err != nil {
		return nil, err
	}
	referralBonus, err := getEnvInt("REFERRAL_BONUS", 100)
	if err != nil {
		return nil, err
	}
	cacheTTL, err := getEnvInt("SCOREBOARD_CACHE_TTL_SECONDS", 30)
	if err != nil {
		return nil, err
	}

	config := &Config{
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", ""),
			DBName:   getEnv("DB_NAME", "referral_arcade"),
		},
		Server: ServerConfig{
			Port: getEnv("SERVER_PORT", "8080"),
		},
		App: AppConfig{
			DashboardBaseURL: getEnv("DASHBOARD_BASE_URL", "http://localhost:8080/dashboard"),
			SignupGrant:      signupGrant,
			ReferralBonus:    referralBonus,
		},
		Redis: RedisConfig{
			Addr:          getEnv("REDIS_ADDR", ""),
			ScoreboardTTL: time.Duration(cacheTTL) * time.Second,
		},
	}

	return config, nil
}

// GetDSN returns the PostgreSQL connection string
func (c *Config) GetDSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		c.Database.Host,
		c.Database.Port,
		c.Database.User,
		c.Database.Password,
		c.Database.DBName,
	)
}

// getEnv gets an environment variable with a fallback default value
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

// getEnvInt gets an integer environment variable with a fallback default value
func getEnvInt(key string, defaultValue int64) (int64, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	parsed, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer, got %q", key, value)
	}
	return parsed, nil
}
