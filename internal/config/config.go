package config

import (
	"fmt"
	"time"

	"github.com/scribeworks/veritas/internal/configs/env"
)

// Config holds all configuration for the application
type Config struct {
	// MongoDB
	MongoURI    string
	MongoDBName string

	// Redis
	RedisHost               string
	RedisPassword           string
	RedisDB                 int
	RedisStreamKey          string
	RedisConsumerGroup      string
	RedisConsumerName       string
	RedisDeadLetterKey      string
	StreamRetentionDuration time.Duration
	StatusTTL               time.Duration

	// JWT
	JWTSecret string
	JWTIssuer string

	// Rate Limiting
	RateLimitRPS float64

	// Similarity
	MinSimilarity     float64
	MinCommonWords    int
	MaxMatches        int
	NGramSize         int
	ShingleSize       int
	MinHashCount      int
	MinDocumentLength int
	Strictness        string
	CheckTimeout      time.Duration
	GrowthTarget      int

	// Logging
	LogLevel string

	// Server
	ServerPort string
}

func Load() (*Config, error) {
	cfg := &Config{}

	// MongoDB
	cfg.MongoURI = env.GetEnv("MONGO_URI", "")
	cfg.MongoDBName = env.GetEnv("MONGO_DB_NAME", "")

	// Redis
	cfg.RedisHost = env.GetEnv("REDIS_HOST", "localhost:6379")
	cfg.RedisPassword = env.GetEnv("REDIS_PASSWORD", "")
	cfg.RedisDB = env.GetEnvInt("REDIS_DB", 0)
	cfg.RedisStreamKey = env.GetEnv("REDIS_STREAM_KEY", "veritas:documents")
	cfg.RedisConsumerGroup = env.GetEnv("REDIS_CONSUMER_GROUP", "veritas:ingest")
	cfg.RedisConsumerName = env.GetEnv("REDIS_CONSUMER_NAME", "veritas-1")
	cfg.RedisDeadLetterKey = env.GetEnv("REDIS_DEAD_LETTER_KEY", "veritas:dlq")
	retentionHours := env.GetEnvInt("STREAM_RETENTION_HOURS", 24)
	cfg.StreamRetentionDuration = time.Duration(retentionHours) * time.Hour
	statusTTLHours := env.GetEnvInt("STATUS_TTL_HOURS", 24)
	cfg.StatusTTL = time.Duration(statusTTLHours) * time.Hour

	// JWT
	cfg.JWTSecret = env.GetEnv("JWT_SECRET", "")
	cfg.JWTIssuer = env.GetEnv("JWT_ISSUER", "veritas")

	// Rate Limiting
	cfg.RateLimitRPS = env.GetEnvFloat("RATE_LIMIT_RPS", 10.0)

	// Similarity
	cfg.MinSimilarity = env.GetEnvFloat("MIN_SIMILARITY_PERCENT", 2.0)
	cfg.MinCommonWords = env.GetEnvInt("MIN_COMMON_WORDS", 2)
	cfg.MaxMatches = env.GetEnvInt("MAX_MATCHES", 20)
	cfg.NGramSize = env.GetEnvInt("NGRAM_SIZE", 5)
	cfg.ShingleSize = env.GetEnvInt("SHINGLE_SIZE", 5)
	cfg.MinHashCount = env.GetEnvInt("MINHASH_COUNT", 100)
	cfg.MinDocumentLength = env.GetEnvInt("MIN_DOCUMENT_LENGTH", 50)
	cfg.Strictness = env.GetEnv("STRICTNESS", "standard")
	timeoutSeconds := env.GetEnvInt("CHECK_TIMEOUT_SECONDS", 30)
	cfg.CheckTimeout = time.Duration(timeoutSeconds) * time.Second
	cfg.GrowthTarget = env.GetEnvInt("CORPUS_GROWTH_TARGET", 50)

	// Logging
	cfg.LogLevel = env.GetEnv("LOG_LEVEL", "info")

	// Server
	cfg.ServerPort = env.GetEnv("SERVER_PORT", "8080")

	return cfg, nil
}

func (c *Config) Validate() error {
	if c.MongoURI == "" {
		return fmt.Errorf("MONGO_URI is required")
	}
	if c.MongoDBName == "" {
		return fmt.Errorf("MONGO_DB_NAME is required")
	}
	if c.RedisHost == "" {
		return fmt.Errorf("REDIS_HOST is required")
	}
	if c.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET is required")
	}
	if c.MinSimilarity < 0 || c.MinSimilarity > 100 {
		return fmt.Errorf("MIN_SIMILARITY_PERCENT must be between 0 and 100")
	}
	if c.MinCommonWords <= 0 {
		return fmt.Errorf("MIN_COMMON_WORDS must be greater than 0")
	}
	if c.MaxMatches <= 0 {
		return fmt.Errorf("MAX_MATCHES must be greater than 0")
	}
	if c.NGramSize <= 0 {
		return fmt.Errorf("NGRAM_SIZE must be greater than 0")
	}
	if c.ShingleSize <= 0 {
		return fmt.Errorf("SHINGLE_SIZE must be greater than 0")
	}
	if c.MinHashCount <= 0 {
		return fmt.Errorf("MINHASH_COUNT must be greater than 0")
	}
	if c.CheckTimeout <= 0 {
		return fmt.Errorf("CHECK_TIMEOUT_SECONDS must be greater than 0")
	}
	if c.StreamRetentionDuration <= 0 {
		return fmt.Errorf("STREAM_RETENTION_HOURS must be greater than 0")
	}
	return nil
}
