package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
)

var AppEnv Config

type Config struct {
	Environment string
	LogLevel    string
	Port        string

	MongoURI string
	DBName   string

	RedisAddr       string
	ProductCacheTTL time.Duration

	JWTSecret      string
	AccessTokenTTL time.Duration

	// Seed credentials for the in-memory gateway's admin account.
	AdminEmail    string
	AdminPassword string

	SessionCacheSize int

	TaxRatePercent        decimal.Decimal
	FreeShippingThreshold int64
	FlatShippingFee       int64
}

// UsesMongo reports whether the remote gateway is MongoDB rather than the
// in-memory store.
func (c Config) UsesMongo() bool {
	return c.MongoURI != ""
}

func Load() {
	if err := godotenv.Load(); err != nil {
		log.Println(".env not loaded:", err)
	}
	AppEnv = Config{
		Environment:           getEnvOrDefault("APP_ENV", "production"),
		LogLevel:              getEnvOrDefault("LOG_LEVEL", "info"),
		Port:                  getEnvOrDefault("PORT", "8080"),
		MongoURI:              getEnvOrDefault("MONGO_URI", ""),
		DBName:                getEnvOrDefault("DB_NAME", "agrilink"),
		RedisAddr:             getEnvOrDefault("REDIS_ADDR", ""),
		ProductCacheTTL:       getDurationEnv("PRODUCT_CACHE_TTL", 10, time.Minute),
		JWTSecret:             getEnvOrDefault("JWT_SECRET", ""),
		AccessTokenTTL:        getDurationEnv("ACCESS_TOKEN_TTL", 20, time.Minute),
		AdminEmail:            getEnvOrDefault("ADMIN_EMAIL", ""),
		AdminPassword:         getEnvOrDefault("ADMIN_PASSWORD", ""),
		SessionCacheSize:      getIntEnv("SESSION_CACHE_SIZE", 1024),
		TaxRatePercent:        getDecimalEnv("TAX_RATE_PERCENT", decimal.NewFromInt(18)),
		FreeShippingThreshold: int64(getIntEnv("FREE_SHIPPING_THRESHOLD", 100000)),
		FlatShippingFee:       int64(getIntEnv("FLAT_SHIPPING_FEE", 5000)),
	}

	if AppEnv.UsesMongo() {
		requireEnv("JWT_SECRET", AppEnv.JWTSecret)
	} else if AppEnv.JWTSecret == "" {
		log.Println("JWT_SECRET not set, using development secret for in-memory mode")
		AppEnv.JWTSecret = "agrilink-dev-secret"
	}
}

func requireEnv(key, value string) {
	if value == "" {
		log.Fatalf("ENV %s is required", key)
	}
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil && parsed >= 0 {
			return parsed
		}
		log.Printf("ENV %s=%q is not a non-negative integer, using %d", key, value, defaultValue)
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue int, unit time.Duration) time.Duration {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil && parsed > 0 {
			return time.Duration(parsed) * unit
		}
	}
	return time.Duration(defaultValue) * unit
}

func getDecimalEnv(key string, defaultValue decimal.Decimal) decimal.Decimal {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		if parsed, err := decimal.NewFromString(value); err == nil && !parsed.IsNegative() {
			return parsed
		}
		log.Printf("ENV %s=%q is not a valid percentage, using %s", key, value, defaultValue)
	}
	return defaultValue
}
