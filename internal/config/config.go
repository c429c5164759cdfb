package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/smallwat3r/textdrop/internal/codegen"
	"github.com/smallwat3r/textdrop/internal/domain"
	"github.com/smallwat3r/textdrop/internal/utility"
)

// Store backends.
const (
	BackendRedis    = "redis"
	BackendDynamoDB = "dynamodb"
	BackendSQLite   = "sqlite"
	BackendMemory   = "memory"
)

const (
	minCodeLength = 4
	maxCodeLength = 64
)

// Config holds all application configuration.
type Config struct {
	// Server settings
	Port              string
	ReadTimeout       time.Duration
	ReadHeaderTimeout time.Duration
	WriteTimeout      time.Duration
	IdleTimeout       time.Duration
	MaxHeaderBytes    int

	// Sharing settings
	ShareTTL     time.Duration
	CodeLength   int
	CodeAlphabet string
	MaxTextSize  int

	// Storage settings
	StoreBackend  string
	SealKey       string // encrypt texts at rest when set
	SweepInterval time.Duration

	RedisURL          string
	RedisPoolSize     int
	RedisMinIdle      int
	RedisDialTimeout  time.Duration
	RedisReadTimeout  time.Duration
	RedisWriteTimeout time.Duration
	RedisPoolTimeout  time.Duration

	DynamoDBTable string
	AWSRegion     string

	SQLitePath string

	// Rate limiting (redis backend only)
	RateLimitPost int
	RateLimitGet  int

	// Shutdown settings
	ShutdownTimeout time.Duration

	// Security settings
	RequireHTTPS bool // enforce HTTPS with HSTS header (disable with NO_HTTPS=1)
	TrustProxy   bool // take client IPs from X-Real-IP / X-Forwarded-For (TRUST_PROXY=1)
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Port:              "8080",
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
		MaxHeaderBytes:    1 << 20, // 1 MB

		ShareTTL:     domain.DefaultTTL,
		CodeLength:   domain.DefaultCodeLength,
		CodeAlphabet: domain.URLAlphabet,
		MaxTextSize:  domain.MaxTextSize,

		StoreBackend:  BackendRedis,
		SweepInterval: time.Minute,

		RedisURL:          "redis://localhost:6379/0",
		RedisPoolSize:     10,
		RedisMinIdle:      2,
		RedisDialTimeout:  5 * time.Second,
		RedisReadTimeout:  3 * time.Second,
		RedisWriteTimeout: 3 * time.Second,
		RedisPoolTimeout:  4 * time.Second,

		DynamoDBTable: "textdrop",
		AWSRegion:     "us-east-1",

		SQLitePath: "textdrop.db",

		RateLimitPost: 30,
		RateLimitGet:  120,

		ShutdownTimeout: 5 * time.Second,

		RequireHTTPS: true,
	}
}

// Load reads configuration from environment variables and validates it.
func Load() (Config, error) {
	cfg := DefaultConfig()

	// Server settings
	if port := os.Getenv("PORT"); port != "" {
		if _, err := strconv.Atoi(port); err != nil {
			return Config{}, fmt.Errorf("PORT must be a valid number: %w", err)
		}
		cfg.Port = port
	}

	// Sharing settings
	if ttl := os.Getenv("SHARE_TTL"); ttl != "" {
		secs, err := strconv.Atoi(ttl)
		if err != nil || secs < 1 {
			return Config{}, errors.New("SHARE_TTL must be a positive number of seconds")
		}
		cfg.ShareTTL = time.Duration(secs) * time.Second
	}

	if length := os.Getenv("CODE_LENGTH"); length != "" {
		n, err := strconv.Atoi(length)
		if err != nil || n < minCodeLength || n > maxCodeLength {
			return Config{}, fmt.Errorf(
				"CODE_LENGTH must be an integer between %d and %d", minCodeLength, maxCodeLength)
		}
		cfg.CodeLength = n
	}

	if alphabet := os.Getenv("CODE_ALPHABET"); alphabet != "" {
		if err := codegen.ValidateAlphabet(alphabet); err != nil {
			return Config{}, fmt.Errorf("CODE_ALPHABET: %w", err)
		}
		cfg.CodeAlphabet = alphabet
	}

	if size := os.Getenv("MAX_TEXT_SIZE"); size != "" {
		n, err := strconv.Atoi(size)
		if err != nil || n < 1 {
			return Config{}, errors.New("MAX_TEXT_SIZE must be a positive integer")
		}
		cfg.MaxTextSize = n
	}

	// Storage settings
	if backend := os.Getenv("STORE_BACKEND"); backend != "" {
		switch backend {
		case BackendRedis, BackendDynamoDB, BackendSQLite, BackendMemory:
			cfg.StoreBackend = backend
		default:
			return Config{}, fmt.Errorf(
				"STORE_BACKEND must be one of: redis, dynamodb, sqlite, memory (got %q)", backend)
		}
	}

	cfg.SealKey = os.Getenv("SEAL_KEY")

	if interval := os.Getenv("SWEEP_INTERVAL"); interval != "" {
		dur, err := time.ParseDuration(interval)
		if err != nil || dur <= 0 {
			return Config{}, errors.New("SWEEP_INTERVAL must be a positive duration")
		}
		cfg.SweepInterval = dur
	}

	cfg.RedisURL = utility.Getenv("REDIS_URL", cfg.RedisURL)

	if poolSize := os.Getenv("REDIS_POOL_SIZE"); poolSize != "" {
		size, err := strconv.Atoi(poolSize)
		if err != nil || size < 1 {
			return Config{}, errors.New("REDIS_POOL_SIZE must be a positive integer")
		}
		cfg.RedisPoolSize = size
	}

	if minIdle := os.Getenv("REDIS_MIN_IDLE"); minIdle != "" {
		idle, err := strconv.Atoi(minIdle)
		if err != nil || idle < 0 {
			return Config{}, errors.New("REDIS_MIN_IDLE must be a non-negative integer")
		}
		cfg.RedisMinIdle = idle
	}

	cfg.DynamoDBTable = utility.Getenv("DYNAMODB_TABLE", cfg.DynamoDBTable)
	cfg.AWSRegion = utility.Getenv("AWS_REGION", cfg.AWSRegion)
	cfg.SQLitePath = utility.Getenv("SQLITE_PATH", cfg.SQLitePath)

	// Rate limiting
	if limit := os.Getenv("RATE_LIMIT_POST"); limit != "" {
		n, err := strconv.Atoi(limit)
		if err != nil || n < 1 {
			return Config{}, errors.New("RATE_LIMIT_POST must be a positive integer")
		}
		cfg.RateLimitPost = n
	}
	if limit := os.Getenv("RATE_LIMIT_GET"); limit != "" {
		n, err := strconv.Atoi(limit)
		if err != nil || n < 1 {
			return Config{}, errors.New("RATE_LIMIT_GET must be a positive integer")
		}
		cfg.RateLimitGet = n
	}

	// Shutdown settings
	if timeout := os.Getenv("SHUTDOWN_TIMEOUT"); timeout != "" {
		dur, err := time.ParseDuration(timeout)
		if err != nil {
			return Config{}, fmt.Errorf(
				"SHUTDOWN_TIMEOUT must be a valid duration: %w", err)
		}
		cfg.ShutdownTimeout = dur
	}

	// Security settings
	if noHTTPS := os.Getenv("NO_HTTPS"); noHTTPS == "1" || noHTTPS == "true" {
		cfg.RequireHTTPS = false
	}
	if trust := os.Getenv("TRUST_PROXY"); trust == "1" || trust == "true" {
		cfg.TrustProxy = true
	}

	return cfg, nil
}

// ListenAddr returns the address string for the HTTP server.
func (c Config) ListenAddr() string {
	return ":" + c.Port
}
