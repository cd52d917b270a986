package config

import (
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	Database DatabaseConfig
	App      AppConfig
	Paystack PaystackConfig
	Billing  BillingConfig
}

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Name     string
	SSLMode  string
}

// AppConfig holds application configuration
type AppConfig struct {
	Port     int
	Env      string
	LogLevel string
}

// PaystackConfig holds payment gateway configuration
type PaystackConfig struct {
	SecretKey string
	BaseURL   string
	// CallbackURL is where the gateway redirects after a hosted payment page
	CallbackURL string
}

// BillingConfig holds billing engine tunables
type BillingConfig struct {
	// DataRetentionDays is how long suspended tenant data is kept before
	// it becomes eligible for deletion
	DataRetentionDays int
	// DeletionWarningDays is how many days before the retention end the
	// warning notification goes out
	DeletionWarningDays int
	// RenewalWorkers bounds the per-tenant worker pool in the daily batch
	RenewalWorkers int
	// JobHistoryRetentionDays is how long job execution records are kept
	JobHistoryRetentionDays int
}

func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

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
		Name:     getEnv("DB_NAME", "pastcare-billing"),
		SSLMode:  getEnv("DB_SSL_MODE", "disable"),
	}

	// Application configuration
	appPort, err := strconv.Atoi(getEnv("APP_PORT", "8080"))
	if err != nil {
		return nil, fmt.Errorf("invalid APP_PORT: %w", err)
	}

	config.App = AppConfig{
		Port:     appPort,
		Env:      getEnv("APP_ENV", "development"),
		LogLevel: getEnv("LOG_LEVEL", "info"),
	}

	// Paystack configuration
	config.Paystack = PaystackConfig{
		SecretKey:   getEnv("PAYSTACK_SECRET_KEY", ""),
		BaseURL:     getEnv("PAYSTACK_BASE_URL", "https://api.paystack.co"),
		CallbackURL: getEnv("PAYSTACK_CALLBACK_URL", ""),
	}

	// Billing configuration
	retentionDays, err := strconv.Atoi(getEnv("BILLING_DATA_RETENTION_DAYS", "90"))
	if err != nil {
		return nil, fmt.Errorf("invalid BILLING_DATA_RETENTION_DAYS: %w", err)
	}
	warningDays, err := strconv.Atoi(getEnv("BILLING_DELETION_WARNING_DAYS", "7"))
	if err != nil {
		return nil, fmt.Errorf("invalid BILLING_DELETION_WARNING_DAYS: %w", err)
	}
	renewalWorkers, err := strconv.Atoi(getEnv("BILLING_RENEWAL_WORKERS", "4"))
	if err != nil {
		return nil, fmt.Errorf("invalid BILLING_RENEWAL_WORKERS: %w", err)
	}
	jobRetentionDays, err := strconv.Atoi(getEnv("BILLING_JOB_HISTORY_RETENTION_DAYS", "90"))
	if err != nil {
		return nil, fmt.Errorf("invalid BILLING_JOB_HISTORY_RETENTION_DAYS: %w", err)
	}

	config.Billing = BillingConfig{
		DataRetentionDays:       retentionDays,
		DeletionWarningDays:     warningDays,
		RenewalWorkers:          renewalWorkers,
		JobHistoryRetentionDays: jobRetentionDays,
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
	if c.Paystack.SecretKey == "" {
		return fmt.Errorf("PAYSTACK_SECRET_KEY is required")
	}
	if c.Billing.DataRetentionDays < 1 {
		return fmt.Errorf("BILLING_DATA_RETENTION_DAYS must be at least 1")
	}
	if c.Billing.RenewalWorkers < 1 {
		return fmt.Errorf("BILLING_RENEWAL_WORKERS must be at least 1")
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
