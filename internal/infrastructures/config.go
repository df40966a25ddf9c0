package infrastructures

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

type AppConfig struct {
	APP_PORT       string
	LOG_LEVEL      string
	DATABASE_URL   string
	REDIS_ADDRESS  string
	REDIS_PASSWORD string
	REDIS_DB       int
	REDIS_PREFIX   string

	RATE_LIMIT_REQUESTS int
	RATE_LIMIT_WINDOW   time.Duration

	MARKETPLACE_BASE_URL  string
	MARKETPLACE_API_KEY   string
	MARKETPLACE_TIMEOUT   time.Duration
	MARKETPLACE_CACHE_TTL time.Duration

	PAYMENT_LINK_TTL     time.Duration
	EXPIRY_SCAN_INTERVAL time.Duration
	COUNTDOWN_TICK       time.Duration
}

var Config *AppConfig

func LoadConfig() *AppConfig {
	// a missing .env is fine, the process environment still applies
	_ = godotenv.Load()

	Config = &AppConfig{
		APP_PORT:       getEnv("APP_PORT", "8080"),
		LOG_LEVEL:      getEnv("LOG_LEVEL", "info"),
		DATABASE_URL:   os.Getenv("DATABASE_URL"),
		REDIS_ADDRESS:  getEnv("REDIS_ADDRESS", "localhost:6379"),
		REDIS_PASSWORD: os.Getenv("REDIS_PASSWORD"),
		REDIS_DB:       getEnvInt("REDIS_DB", 0),
		REDIS_PREFIX:   getEnv("REDIS_PREFIX", "paylink"),

		RATE_LIMIT_REQUESTS: getEnvInt("RATE_LIMIT_REQUESTS", 60),
		RATE_LIMIT_WINDOW:   getEnvDuration("RATE_LIMIT_WINDOW", time.Minute),

		MARKETPLACE_BASE_URL:  getEnv("MARKETPLACE_BASE_URL", "http://localhost:3000/api"),
		MARKETPLACE_API_KEY:   os.Getenv("MARKETPLACE_API_KEY"),
		MARKETPLACE_TIMEOUT:   getEnvDuration("MARKETPLACE_TIMEOUT", 30*time.Second),
		MARKETPLACE_CACHE_TTL: getEnvDuration("MARKETPLACE_CACHE_TTL", 10*time.Second),

		PAYMENT_LINK_TTL:     getEnvDuration("PAYMENT_LINK_TTL", 15*time.Minute),
		EXPIRY_SCAN_INTERVAL: getEnvDuration("EXPIRY_SCAN_INTERVAL", time.Second),
		COUNTDOWN_TICK:       getEnvDuration("COUNTDOWN_TICK", time.Second),
	}

	return Config
}

// getEnv gets environment variable with default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		logrus.Warnf("invalid %s=%q, using %d", key, value, defaultValue)
		return defaultValue
	}
	return n
}

// getEnvDuration accepts Go duration strings ("15m") or plain seconds ("900").
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	if d, err := time.ParseDuration(value); err == nil && d > 0 {
		return d
	}
	if secs, err := strconv.Atoi(value); err == nil && secs > 0 {
		return time.Duration(secs) * time.Second
	}
	logrus.Warnf("invalid %s=%q, using %s", key, value, defaultValue)
	return defaultValue
}
