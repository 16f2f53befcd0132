package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds application configuration
type Config struct {
	// Server
	Port string
	Env  string

	// JWT
	JWTSecret        string
	JWTExpirationDur time.Duration

	// Cache backend: "memory" or "database"
	CacheBackend string

	// Market-data providers. An empty Alpha Vantage key disables that
	// provider rather than failing startup.
	YahooBaseURL        string
	AlphaVantageBaseURL string
	AlphaVantageAPIKey  string

	// Rate limiting (fixed window per client IP)
	RateLimitRequests int
	RateLimitWindow   time.Duration
}

var appConfig *Config

// Load loads configuration from environment variables
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found")
	}

	config := &Config{
		Port: getEnv("PORT", "8080"),
		Env:  getEnv("ENV", "development"),

		JWTSecret: getEnv("JWT_SECRET", "fallback-secret-key-for-dev-only"),

		CacheBackend: getEnv("CACHE_BACKEND", "memory"),

		YahooBaseURL:        getEnv("YAHOO_BASE_URL", "https://query1.finance.yahoo.com"),
		AlphaVantageBaseURL: getEnv("ALPHAVANTAGE_BASE_URL", "https://www.alphavantage.co"),
		AlphaVantageAPIKey:  getEnv("ALPHAVANTAGE_API_KEY", ""),

		RateLimitRequests: getEnvInt("RATE_LIMIT_REQUESTS", 100),
	}

	expStr := getEnv("JWT_EXPIRES_IN", "24h")
	expDur, err := time.ParseDuration(expStr)
	if err != nil {
		log.Printf("Warning: invalid JWT_EXPIRES_IN value '%s', falling back to 24h\n", expStr)
		expDur = 24 * time.Hour
	}
	config.JWTExpirationDur = expDur

	winStr := getEnv("RATE_LIMIT_WINDOW", "1m")
	winDur, err := time.ParseDuration(winStr)
	if err != nil {
		log.Printf("Warning: invalid RATE_LIMIT_WINDOW value '%s', falling back to 1m\n", winStr)
		winDur = time.Minute
	}
	config.RateLimitWindow = winDur

	appConfig = config
	return config, nil
}

// Get returns the application configuration
func Get() *Config {
	if appConfig == nil {
		var err error
		appConfig, err = Load()
		if err != nil {
			log.Fatalf("Failed to load configuration: %v", err)
		}
	}
	return appConfig
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt retrieves an integer environment variable or returns a default value
func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		log.Printf("Warning: invalid %s value '%s', falling back to %d\n", key, value, defaultValue)
		return defaultValue
	}
	return n
}
