package config

import (
	"fmt"
	"log"
	"math"
	"os"
	"strconv"
	"time"

	"housematch/internal/model"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	PostgreSQL   PostgreSQLConfig
	Server       ServerConfig
	Session      SessionConfig
	Match        MatchConfig
	Conversation ConversationConfig
	Logging      LoggingConfig
	OpenAI       OpenAIConfig
	MockMode     bool
}

// PostgreSQLConfig holds house catalog database configuration
type PostgreSQLConfig struct {
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

// ServerConfig holds server configuration
type ServerConfig struct {
	Port           int
	Host           string
	GinMode        string
	AllowedOrigins string
}

// SessionConfig holds session store configuration
type SessionConfig struct {
	Backend       string // "memory" or "redis"
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	TTL           time.Duration
}

// MatchConfig holds scoring weights and decay constants.
// Weights must sum to 1.0; Validate enforces it at startup.
type MatchConfig struct {
	WeightPrice    float64
	WeightArea     float64
	WeightBedrooms float64
	WeightTags     float64
	MaxDeviation   float64 // relative deviation outside a range at which a sub-score reaches 0
	BedroomPenalty float64 // sub-score penalty per bedroom of difference
	MaxReasons     int
	DefaultLimit   int
	MaxLimit       int
}

// ConversationConfig holds the elicitation state machine settings
type ConversationConfig struct {
	MaxRetries   int
	IdleTimeout  time.Duration
	ReapInterval time.Duration
	MockSeed     int64
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	JSON  bool
	Debug bool
}

// OpenAIConfig holds OpenAI API configuration
type OpenAIConfig struct {
	APIKey      string
	APIBase     string
	Model       string
	MaxTokens   int
	Temperature float64
	Timeout     time.Duration
	Enabled     bool
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	// Try to load .env file (optional)
	_ = godotenv.Load()

	cfg := &Config{
		PostgreSQL: PostgreSQLConfig{
			DSN:                getEnv("DATABASE_URL", getEnv("PG_DSN", "")),
			Host:               getEnv("PG_HOST", "localhost"),
			Port:               getEnvAsInt("PG_PORT", 5432),
			User:               getEnv("PG_USER", "postgres"),
			Password:           getEnv("PG_PASSWORD", ""),
			Database:           getEnv("PG_DATABASE", "houses"),
			SSLMode:            getEnv("PG_SSLMODE", "disable"),
			MaxConnections:     getEnvAsInt("PG_MAX_CONNECTIONS", 25),
			MaxIdleConnections: getEnvAsInt("PG_MAX_IDLE_CONNECTIONS", 5),
		},
		Server: ServerConfig{
			Port:           getEnvAsInt("SERVER_PORT", 8080),
			Host:           getEnv("SERVER_HOST", "0.0.0.0"),
			GinMode:        getEnv("GIN_MODE", "release"),
			AllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "*"),
		},
		Session: SessionConfig{
			Backend:       getEnv("SESSION_BACKEND", "memory"),
			RedisAddr:     getEnv("REDIS_ADDR", "localhost:6379"),
			RedisPassword: getEnv("REDIS_PASSWORD", ""),
			RedisDB:       getEnvAsInt("REDIS_DB", 0),
			TTL:           getEnvAsDuration("SESSION_TTL", 24*time.Hour),
		},
		Match: MatchConfig{
			WeightPrice:    getEnvAsFloat("MATCH_WEIGHT_PRICE", 0.35),
			WeightArea:     getEnvAsFloat("MATCH_WEIGHT_AREA", 0.25),
			WeightBedrooms: getEnvAsFloat("MATCH_WEIGHT_BEDROOMS", 0.25),
			WeightTags:     getEnvAsFloat("MATCH_WEIGHT_TAGS", 0.15),
			MaxDeviation:   getEnvAsFloat("MATCH_MAX_DEVIATION", 1.0),
			BedroomPenalty: getEnvAsFloat("MATCH_BEDROOM_PENALTY", 0.25),
			MaxReasons:     getEnvAsInt("EXPLAIN_MAX_REASONS", 3),
			DefaultLimit:   getEnvAsInt("MATCH_DEFAULT_LIMIT", 3),
			MaxLimit:       getEnvAsInt("MATCH_MAX_LIMIT", 10),
		},
		Conversation: ConversationConfig{
			MaxRetries:   getEnvAsInt("CONVERSATION_MAX_RETRIES", 3),
			IdleTimeout:  getEnvAsDuration("CONVERSATION_IDLE_TIMEOUT", 30*time.Minute),
			ReapInterval: getEnvAsDuration("CONVERSATION_REAP_INTERVAL", time.Minute),
			MockSeed:     int64(getEnvAsInt("MOCK_SEED", 1)),
		},
		Logging: LoggingConfig{
			JSON:  getEnv("LOG_FORMAT", "json") == "json",
			Debug: getEnv("LOG_LEVEL", "info") == "debug",
		},
		OpenAI: OpenAIConfig{
			APIKey:      getEnv("OPENAI_API_KEY", ""),
			APIBase:     getEnv("OPENAI_API_BASE", "https://api.openai.com/v1"),
			Model:       getEnv("OPENAI_MODEL", "gpt-3.5-turbo"),
			MaxTokens:   getEnvAsInt("OPENAI_MAX_TOKENS", 1000),
			Temperature: getEnvAsFloat("OPENAI_TEMPERATURE", 0.7),
			Timeout:     getEnvAsDuration("OPENAI_TIMEOUT", 30*time.Second),
			Enabled:     getEnv("OPENAI_API_KEY", "") != "",
		},
		MockMode: getEnvAsBool("MOCK_MODE", false),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks the scoring and conversation settings. Violations are
// fatal at startup, never raised mid-conversation.
func (c *Config) Validate() error {
	sum := c.Match.WeightPrice + c.Match.WeightArea + c.Match.WeightBedrooms + c.Match.WeightTags
	if math.Abs(sum-1.0) > 1e-9 {
		return &model.ConfigurationError{Msg: fmt.Sprintf("match weights must sum to 1.0, got %.4f", sum)}
	}
	if c.Match.WeightPrice < 0 || c.Match.WeightArea < 0 || c.Match.WeightBedrooms < 0 || c.Match.WeightTags < 0 {
		return &model.ConfigurationError{Msg: "match weights must be non-negative"}
	}
	if c.Match.MaxDeviation <= 0 {
		return &model.ConfigurationError{Msg: "MATCH_MAX_DEVIATION must be positive"}
	}
	if c.Match.BedroomPenalty <= 0 || c.Match.BedroomPenalty > 1 {
		return &model.ConfigurationError{Msg: "MATCH_BEDROOM_PENALTY must be in (0, 1]"}
	}
	if c.Match.MaxReasons <= 0 {
		return &model.ConfigurationError{Msg: "EXPLAIN_MAX_REASONS must be positive"}
	}
	if c.Conversation.MaxRetries < 1 {
		return &model.ConfigurationError{Msg: "CONVERSATION_MAX_RETRIES must be at least 1"}
	}
	if c.Conversation.IdleTimeout <= 0 {
		return &model.ConfigurationError{Msg: "CONVERSATION_IDLE_TIMEOUT must be positive"}
	}
	if c.Session.Backend != "memory" && c.Session.Backend != "redis" {
		return &model.ConfigurationError{Msg: "SESSION_BACKEND must be memory or redis"}
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
		log.Printf("Warning: Invalid boolean value for %s, using default %v", key, defaultValue)
		return defaultValue
	}
	return value
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := time.ParseDuration(valueStr)
	if err != nil {
		log.Printf("Warning: Invalid duration value for %s, using default %s", key, defaultValue)
		return defaultValue
	}
	return value
}
