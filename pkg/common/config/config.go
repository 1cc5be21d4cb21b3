package config

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	// Server
	ServerPort     string
	ServerHost     string
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
	MaxRequestBody int64

	// Database
	PostgresHost     string
	PostgresPort     string
	PostgresUser     string
	PostgresPassword string
	PostgresDB       string
	PostgresSSLMode  string

	// Redis
	RedisHost     string
	RedisPort     string
	RedisPassword string
	RedisDB       int

	// Kafka
	KafkaBrokers    []string
	KafkaGroupID    string
	ScanEventsTopic string

	// Classifier API
	ClassifierBaseURL      string
	ClassifierClientID     string
	ClassifierClientSecret string
	ClassifierTokenURL     string
	ClassifierTimeout      time.Duration
	ClassifierMockMode     bool

	// Clinical thresholds
	ThresholdsPath string

	// Trend cache
	TrendCacheTTL    time.Duration
	TrendCachePrefix string
}

func Load() *Config {
	return &Config{
		ServerPort:     getEnv("SERVER_PORT", "8080"),
		ServerHost:     getEnv("SERVER_HOST", "0.0.0.0"),
		ReadTimeout:    getDuration("READ_TIMEOUT", 30*time.Second),
		WriteTimeout:   getDuration("WRITE_TIMEOUT", 30*time.Second),
		MaxRequestBody: int64(getIntEnv("MAX_REQUEST_BODY_BYTES", 8*1024*1024)),

		PostgresHost:     getEnv("POSTGRES_HOST", "localhost"),
		PostgresPort:     getEnv("POSTGRES_PORT", "5432"),
		PostgresUser:     getEnv("POSTGRES_USER", "nopressure"),
		PostgresPassword: getEnv("POSTGRES_PASSWORD", "nopressure123"),
		PostgresDB:       getEnv("POSTGRES_DB", "nopressure"),
		PostgresSSLMode:  getEnv("POSTGRES_SSLMODE", "disable"),

		RedisHost:     getEnv("REDIS_HOST", "localhost"),
		RedisPort:     getEnv("REDIS_PORT", "6379"),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       getIntEnv("REDIS_DB", 0),

		KafkaBrokers:    getStringSliceEnv("KAFKA_BROKERS", []string{"localhost:9092"}),
		KafkaGroupID:    getEnv("KAFKA_GROUP_ID", "nopressure-platform"),
		ScanEventsTopic: getEnv("SCAN_EVENTS_TOPIC", "wound-scans"),

		ClassifierBaseURL:      getEnv("CLASSIFIER_BASE_URL", ""),
		ClassifierClientID:     getEnv("CLASSIFIER_CLIENT_ID", ""),
		ClassifierClientSecret: getEnv("CLASSIFIER_CLIENT_SECRET", ""),
		ClassifierTokenURL:     getEnv("CLASSIFIER_TOKEN_URL", ""),
		ClassifierTimeout:      getDuration("CLASSIFIER_TIMEOUT", 10*time.Second),
		ClassifierMockMode:     getBoolEnv("CLASSIFIER_MOCK_MODE", true),

		ThresholdsPath: getEnv("CLINICAL_THRESHOLDS_PATH", ""),

		TrendCacheTTL:    getDuration("TREND_CACHE_TTL", 10*time.Minute),
		TrendCachePrefix: getEnv("TREND_CACHE_PREFIX", "trend"),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getBoolEnv(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

func getStringSliceEnv(key string, defaultValue []string) []string {
	if value := os.Getenv(key); value != "" {
		return []string{value}
	}
	return defaultValue
}

func getDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
