package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Cache backends for raw catalog responses
const (
	CacheNone   = "none"
	CacheMemory = "memory"
	CacheRedis  = "redis"
)

// DefaultStopwords are dropped by the fallback keyword extractor.
var DefaultStopwords = []string{
	"the", "and", "for", "you", "me", "show", "want", "need", "looking",
	"with", "have", "has", "this", "that", "these", "those",
}

// Config holds all configuration for the application
type Config struct {
	Server     ServerConfig
	Catalog    CatalogConfig
	AI         AIConfig
	Ranking    RankingConfig
	Intent     IntentConfig
	PostgreSQL PostgreSQLConfig
	Users      UsersConfig
	Logging    LoggingConfig
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Port           int
	Host           string
	GinMode        string
	AllowedOrigins []string
	StaticDir      string
}

// CatalogConfig holds product catalog client configuration
type CatalogConfig struct {
	BaseURL       string
	Timeout       time.Duration
	RatePerSecond float64
	Burst         int
	CacheType     string
	CacheTTL      time.Duration
	RedisAddr     string
	RedisPassword string
	RedisDB       int
}

// AIConfig holds the OpenAI-compatible chat completions configuration
// used for intent extraction.
type AIConfig struct {
	APIKey          string
	APIBase         string
	ChatModel       string
	ChatTemperature float64
	ChatMaxTokens   int
	Timeout         time.Duration
	Enabled         bool
}

// RankingConfig holds the product scoring weights
type RankingConfig struct {
	WeightKeyword       int
	WeightColorMatch    int
	PenaltyColorMiss    int
	BonusHighRating     int
	HighRatingThreshold float64
}

// IntentConfig holds fallback extractor settings
type IntentConfig struct {
	Stopwords []string
}

// PostgreSQLConfig holds the chat log database configuration
type PostgreSQLConfig struct {
	Enabled            bool
	DSN                string
	Host               string
	Port               int
	User               string
	Password           string
	Database           string
	SSLMode            string
	MaxConnections     int
	MaxIdleConnections int
}

// UsersConfig holds the user store and token settings
type UsersConfig struct {
	FilePath      string
	JWTSecret     string
	TokenExpiry   time.Duration
	SeedDefaults  bool
	AdminEmail    string
	AdminPassword string
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string
	Format string
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	// Try to load .env file (optional)
	_ = godotenv.Load()

	aiKey := getEnv("GEMINI_API_KEY", getEnv("OPENAI_API_KEY", ""))

	cfg := &Config{
		Server: ServerConfig{
			Port:           getEnvAsInt("SERVER_PORT", 5000),
			Host:           getEnv("SERVER_HOST", "0.0.0.0"),
			GinMode:        getEnv("GIN_MODE", "release"),
			AllowedOrigins: getEnvAsList("CORS_ALLOWED_ORIGINS", []string{"*"}),
			StaticDir:      getEnv("STATIC_DIR", "../web/dist"),
		},
		Catalog: CatalogConfig{
			BaseURL:       strings.TrimRight(getEnv("CATALOG_BASE_URL", "https://fakestoreapi.com"), "/"),
			Timeout:       getEnvAsDuration("CATALOG_TIMEOUT", 10*time.Second),
			RatePerSecond: getEnvAsFloat("CATALOG_RATE_PER_SECOND", 5),
			Burst:         getEnvAsInt("CATALOG_BURST", 5),
			CacheType:     strings.ToLower(getEnv("CATALOG_CACHE", CacheNone)),
			CacheTTL:      getEnvAsDuration("CATALOG_CACHE_TTL", 5*time.Minute),
			RedisAddr:     getEnv("REDIS_ADDR", "localhost:6379"),
			RedisPassword: getEnv("REDIS_PASSWORD", ""),
			RedisDB:       getEnvAsInt("REDIS_DB", 0),
		},
		AI: AIConfig{
			APIKey:          aiKey,
			APIBase:         strings.TrimRight(getEnv("AI_API_BASE", "https://generativelanguage.googleapis.com/v1beta/openai"), "/"),
			ChatModel:       getEnv("AI_CHAT_MODEL", "gemini-2.5-flash-lite"),
			ChatTemperature: getEnvAsFloat("AI_CHAT_TEMPERATURE", 0.2),
			ChatMaxTokens:   getEnvAsInt("AI_CHAT_MAX_TOKENS", 256),
			Timeout:         getEnvAsDuration("AI_TIMEOUT", 10*time.Second),
			Enabled:         aiKey != "" && getEnvAsBool("AI_ENABLED", true),
		},
		Ranking: RankingConfig{
			WeightKeyword:       getEnvAsInt("RANK_WEIGHT_KEYWORD", 3),
			WeightColorMatch:    getEnvAsInt("RANK_WEIGHT_COLOR_MATCH", 5),
			PenaltyColorMiss:    getEnvAsInt("RANK_PENALTY_COLOR_MISS", 2),
			BonusHighRating:     getEnvAsInt("RANK_BONUS_HIGH_RATING", 1),
			HighRatingThreshold: getEnvAsFloat("RANK_HIGH_RATING_THRESHOLD", 4.5),
		},
		Intent: IntentConfig{
			Stopwords: getEnvAsList("INTENT_STOPWORDS", DefaultStopwords),
		},
		PostgreSQL: PostgreSQLConfig{
			Enabled:            getEnvAsBool("CHATLOG_ENABLED", false),
			DSN:                getEnv("DATABASE_URL", getEnv("PG_DSN", "")),
			Host:               getEnv("PG_HOST", "localhost"),
			Port:               getEnvAsInt("PG_PORT", 5432),
			User:               getEnv("PG_USER", "postgres"),
			Password:           getEnv("PG_PASSWORD", ""),
			Database:           getEnv("PG_DATABASE", "shopassist"),
			SSLMode:            getEnv("PG_SSLMODE", "disable"),
			MaxConnections:     getEnvAsInt("PG_MAX_CONNECTIONS", 10),
			MaxIdleConnections: getEnvAsInt("PG_MAX_IDLE_CONNECTIONS", 2),
		},
		Users: UsersConfig{
			FilePath:      getEnv("USERS_FILE", "users.json"),
			JWTSecret:     getEnv("JWT_SECRET", "change-me-in-production"),
			TokenExpiry:   getEnvAsDuration("JWT_EXPIRY", 24*time.Hour),
			SeedDefaults:  getEnvAsBool("USERS_SEED_DEFAULTS", true),
			AdminEmail:    getEnv("ADMIN_EMAIL", "admin@gmail.com"),
			AdminPassword: getEnv("ADMIN_PASSWORD", "admin123"),
		},
		Logging: LoggingConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "json"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks settings that would otherwise fail at first use.
func (c *Config) Validate() error {
	switch c.Catalog.CacheType {
	case CacheNone, CacheMemory, CacheRedis:
	default:
		return fmt.Errorf("invalid CATALOG_CACHE %q (want none, memory or redis)", c.Catalog.CacheType)
	}
	if c.Catalog.Timeout <= 0 {
		return errors.New("CATALOG_TIMEOUT must be positive")
	}
	if c.Catalog.RatePerSecond <= 0 || c.Catalog.Burst <= 0 {
		return errors.New("catalog rate limit must be positive")
	}
	if c.AI.Timeout <= 0 {
		return errors.New("AI_TIMEOUT must be positive")
	}
	if c.Users.JWTSecret == "" {
		return errors.New("JWT_SECRET must not be empty")
	}
	if c.Users.TokenExpiry <= 0 {
		return errors.New("JWT_EXPIRY must be positive")
	}
	return nil
}

// GetPostgreSQLDSN returns PostgreSQL connection string
func (c *Config) GetPostgreSQLDSN() string {
	if c.PostgreSQL.DSN != "" {
		return c.PostgreSQL.DSN
	}

	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.PostgreSQL.Host,
		c.PostgreSQL.Port,
		c.PostgreSQL.User,
		c.PostgreSQL.Password,
		c.PostgreSQL.Database,
		c.PostgreSQL.SSLMode,
	)
}

// Helper functions

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		log.Printf("Warning: Invalid integer value for %s, using default %d", key, defaultValue)
		return defaultValue
	}
	return value
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseFloat(valueStr, 64)
	if err != nil {
		log.Printf("Warning: Invalid float value for %s, using default %f", key, defaultValue)
		return defaultValue
	}
	return value
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		log.Printf("Warning: Invalid bool value for %s, using default %t", key, defaultValue)
		return defaultValue
	}
	return value
}

// getEnvAsDuration accepts Go durations ("10s") or bare seconds ("10").
func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	if secs, err := strconv.Atoi(valueStr); err == nil {
		return time.Duration(secs) * time.Second
	}
	value, err := time.ParseDuration(valueStr)
	if err != nil {
		log.Printf("Warning: Invalid duration value for %s, using default %s", key, defaultValue)
		return defaultValue
	}
	return value
}

func getEnvAsList(key string, defaultValue []string) []string {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	var out []string
	for _, part := range strings.Split(valueStr, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return defaultValue
	}
	return out
}
