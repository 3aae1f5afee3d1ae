package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Config holds configuration for both binaries: the admin service reads
// Port, LogLevel and StoreURL; the order store reads StorePort, Storage,
// DB, Kafka and RateLimit.
type Config struct {
	Port     int
	LogLevel string
	Env      string

	// StoreURL is the base URL of the remote order store the admin talks to.
	StoreURL string

	StorePort int
	// Storage selects the store backend: "postgres" or "memory".
	Storage string

	DB        DBConfig
	Kafka     KafkaConfig
	RateLimit RateLimitConfig
}

// DBConfig holds the store's database configuration.
type DBConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Name     string
	SSLMode  string
}

// KafkaConfig holds the store's event publishing configuration.
// Empty Brokers disables publishing.
type KafkaConfig struct {
	Brokers     []string
	OrdersTopic string
}

// RateLimitConfig configures the store API token bucket.
type RateLimitConfig struct {
	MaxTokens  float64
	RefillRate float64
}

// getEnv retrieves an environment variable or returns a default.
func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}

	return defaultValue
}

func getEnvInt(key string, defaultValue int) (int, error) {
	raw := getEnv(key, strconv.Itoa(defaultValue))
	value, err := strconv.Atoi(raw)

	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return value, nil
}

func getEnvFloat(key string, defaultValue float64) (float64, error) {
	raw := getEnv(key, strconv.FormatFloat(defaultValue, 'f', -1, 64))
	value, err := strconv.ParseFloat(raw, 64)

	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return value, nil
}

// Load reads the configuration from environment variables.
func Load() (*Config, error) {
	port, err := getEnvInt("PORT", 8080)

	if err != nil {
		return nil, err
	}

	storePort, err := getEnvInt("STORE_PORT", 3001)

	if err != nil {
		return nil, err
	}

	dbPort, err := getEnvInt("DB_PORT", 5432)

	if err != nil {
		return nil, err
	}

	maxTokens, err := getEnvFloat("RATE_LIMIT_MAX_TOKENS", 100)

	if err != nil {
		return nil, err
	}

	refillRate, err := getEnvFloat("RATE_LIMIT_REFILL_RATE", 50)

	if err != nil {
		return nil, err
	}

	var brokers []string
	if raw := getEnv("KAFKA_BROKERS", ""); raw != "" {
		brokers = strings.Split(raw, ",")
	}

	return &Config{
		Port:      port,
		LogLevel:  getEnv("LOG_LEVEL", "info"),
		Env:       getEnv("APP_ENV", "development"),
		StoreURL:  getEnv("ORDER_STORE_URL", "http://localhost:3001"),
		StorePort: storePort,
		Storage:   getEnv("STORE_STORAGE", "memory"),
		DB: DBConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     dbPort,
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", "postgres"),
			Name:     getEnv("DB_NAME", "orderstore"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		Kafka: KafkaConfig{
			Brokers:     brokers,
			OrdersTopic: getEnv("KAFKA_ORDERS_TOPIC", "order-events"),
		},
		RateLimit: RateLimitConfig{
			MaxTokens:  maxTokens,
			RefillRate: refillRate,
		},
	}, nil
}

// GetDBConnString returns the database connection string.
func (c *Config) GetDBConnString() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.DB.Host, c.DB.Port, c.DB.User, c.DB.Password, c.DB.Name, c.DB.SSLMode)
}
