package config

import (
	"log"
	"os"
	"strconv"
)

type Config struct {
	Env                 string
	Port                string
	DBURL               string
	RedisAddr           string
	AccessTokenSecret   string
	RefreshTokenSecret  string
	AccessExpiryMin     int
	RefreshExpiryMin    int
	ReissueThresholdMin int

	MaxActiveRefreshTokens int
	LoginMaxAttempts       int
	LockDurationSec        int

	TOTPIssuer string

	RateLimitPerMin    int
	ListingCacheTTLSec int
}

func Load() *Config {
	return &Config{
		Env:                 getEnv("ENV", "development"),
		Port:                getEnv("PORT", "8080"),
		DBURL:               mustGetEnv("DB_URL"),
		RedisAddr:           getEnv("REDIS_ADDR", "localhost:6379"),
		AccessTokenSecret:   mustGetEnv("ACCESS_TOKEN_SECRET"),
		RefreshTokenSecret:  mustGetEnv("REFRESH_TOKEN_SECRET"),
		AccessExpiryMin:     getEnvAsInt("ACCESS_TOKEN_EXPIRY", 60),
		RefreshExpiryMin:    getEnvAsInt("REFRESH_TOKEN_EXPIRY", 10080),
		ReissueThresholdMin: getEnvAsInt("ACCESS_REISSUE_THRESHOLD", 5),

		MaxActiveRefreshTokens: getEnvAsInt("MAX_ACTIVE_REFRESH_TOKENS", 5),
		LoginMaxAttempts:       getEnvAsInt("LOGIN_MAX_ATTEMPTS", 5),
		LockDurationSec:        getEnvAsInt("LOCK_DURATION_SECONDS", 900),

		TOTPIssuer: getEnv("TOTP_ISSUER", "EcoPropertyHub"),

		RateLimitPerMin:    getEnvAsInt("RATE_LIMIT_PER_MIN", 15),
		ListingCacheTTLSec: getEnvAsInt("LISTING_CACHE_TTL", 300),
	}
}

func getEnv(key string, defaultVal string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultVal
}

func mustGetEnv(key string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	log.Fatalf("Missing required environment variable: %s", key)
	return ""
}

func getEnvAsInt(key string, defaultVal int) int {
	valStr := os.Getenv(key)
	if valStr == "" {
		return defaultVal
	}
	val, err := strconv.Atoi(valStr)
	if err != nil {
		log.Printf("Invalid value for %s, using default %d", key, defaultVal)
		return defaultVal
	}
	return val
}
