package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	ServerPort  string
	WebPort     string
	DBPath      string
	Environment string
	LogLevel    string
	// APIURL is the base URL the web front-end uses to reach the API server
	APIURL string
	AppURL string
	// Email (Resend)
	ResendAPIKey  string
	EmailFrom     string
	EmailFromName string
	EmailTestMode bool // When true, emails are logged instead of sent
	// Sessions
	SessionTTL   time.Duration
	CookieSecure bool
	// Other
	AllowedOrigins []string
	LoginRateLimit int
	SearchDebounce time.Duration
}

func Load() *Config {
	// Load .env file (ignore error if not present - use system env vars)
	_ = godotenv.Load()

	environment := getEnv("ENVIRONMENT", "development")

	return &Config{
		ServerPort:     getEnv("SERVER_PORT", "8000"),
		WebPort:        getEnv("WEB_PORT", "3000"),
		DBPath:         getEnv("DB_PATH", "db/app.db"),
		Environment:    environment,
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		APIURL:         strings.TrimRight(getEnv("API_URL", "http://localhost:8000"), "/"),
		AppURL:         strings.TrimRight(getEnv("APP_URL", "http://localhost:3000"), "/"),
		ResendAPIKey:   getEnv("RESEND_API_KEY", ""),
		EmailFrom:      getEnv("EMAIL_FROM", "noreply@example.com"),
		EmailFromName:  getEnv("EMAIL_FROM_NAME", "営業日報システム"),
		EmailTestMode:  getEnvBool("EMAIL_TEST_MODE", true), // Default true for safety
		SessionTTL:     time.Duration(getEnvInt("SESSION_TTL_HOURS", 7*24)) * time.Hour,
		CookieSecure:   getEnvBool("COOKIE_SECURE", environment == "production"),
		AllowedOrigins: strings.Split(getEnv("ALLOWED_ORIGINS", "http://localhost:3000"), ","),
		LoginRateLimit: getEnvInt("LOGIN_RATE_LIMIT", 5),
		SearchDebounce: time.Duration(getEnvInt("SEARCH_DEBOUNCE_MS", 300)) * time.Millisecond,
	}
}

// IsProduction reports whether the app runs in production mode
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil || n < 0 {
		return defaultValue
	}
	return n
}

func getEnvBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	// Accept common boolean representations
	switch strings.ToLower(value) {
	case "true", "1", "yes", "on":
		return true
	case "false", "0", "no", "off":
		return false
	default:
		return defaultValue
	}
}
