package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Supabase SupabaseConfig
	OpenAI   OpenAIConfig
	Telegram TelegramConfig
	Queue    QueueConfig
	Log      LogConfig
}

// ServerConfig holds HTTP server settings
type ServerConfig struct {
	Port            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
	// BaseURL is the public URL used in feed links.
	BaseURL            string
	RateLimitPerMinute int
	RateLimitBurst     int
}

// DatabaseConfig holds database connection settings
type DatabaseConfig struct {
	URL            string
	MaxOpenConns   int
	MaxIdleConns   int
	MaxLifetime    time.Duration
	MigrateOnStart bool
}

type SupabaseConfig struct {
	URL           string
	ServiceKey    string
	Bucket        string
	SignedURLTTL  time.Duration
	MaxAudioBytes int64
}

type OpenAIConfig struct {
	APIKey            string
	BaseURL           string
	ChatModel         string
	TranscribeModel   string
	GenerationTimeout time.Duration
}

type TelegramConfig struct {
	BotToken string
}

// QueueConfig enables asynq delivery when RedisAddr is set.
type QueueConfig struct {
	RedisAddr string
}

// LogConfig holds logging settings
type LogConfig struct {
	Level  string
	Format string // "json" or "pretty"
}

// Load reads .env when present, then the environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	cfg := &Config{
		Server: ServerConfig{
			Port:               getEnv("PORT", "8080"),
			ReadTimeout:        getDurationEnv("SERVER_READ_TIMEOUT", 30*time.Second),
			WriteTimeout:       getDurationEnv("SERVER_WRITE_TIMEOUT", 0),
			ShutdownTimeout:    getDurationEnv("SERVER_SHUTDOWN_TIMEOUT", 30*time.Second),
			BaseURL:            getEnv("BASE_URL", ""),
			RateLimitPerMinute: getIntEnv("RATE_LIMIT_PER_MINUTE", 6),
			RateLimitBurst:     getIntEnv("RATE_LIMIT_BURST", 3),
		},
		Database: DatabaseConfig{
			URL:            getEnv("DATABASE_URL", ""),
			MaxOpenConns:   getIntEnv("DB_MAX_OPEN_CONNS", 25),
			MaxIdleConns:   getIntEnv("DB_MAX_IDLE_CONNS", 5),
			MaxLifetime:    getDurationEnv("DB_MAX_LIFETIME", 5*time.Minute),
			MigrateOnStart: getBoolEnv("MIGRATE_ON_START", true),
		},
		Supabase: SupabaseConfig{
			URL:           getEnv("SUPABASE_URL", ""),
			ServiceKey:    getEnv("SUPABASE_SERVICE_KEY", ""),
			Bucket:        getEnv("STORAGE_BUCKET", "podcasts"),
			SignedURLTTL:  getDurationEnv("SIGNED_URL_TTL", time.Hour),
			MaxAudioBytes: getInt64Env("MAX_AUDIO_BYTES", 25*1024*1024), // Whisper upload limit
		},
		OpenAI: OpenAIConfig{
			APIKey:            getEnv("OPENAI_API_KEY", ""),
			BaseURL:           getEnv("OPENAI_BASE_URL", ""),
			ChatModel:         getEnv("OPENAI_CHAT_MODEL", "gpt-4o"),
			TranscribeModel:   getEnv("OPENAI_TRANSCRIBE_MODEL", "whisper-1"),
			GenerationTimeout: getDurationEnv("GENERATION_TIMEOUT", 10*time.Minute),
		},
		Telegram: TelegramConfig{
			BotToken: getEnv("TELEGRAM_BOT_TOKEN", ""),
		},
		Queue: QueueConfig{
			RedisAddr: getEnv("REDIS_ADDR", ""),
		},
		Log: LogConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "json"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks the settings every binary needs.
func (c *Config) Validate() error {
	if c.Database.URL == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}
	return nil
}

// ValidateServer checks the settings the API server needs on top of Validate.
func (c *Config) ValidateServer() error {
	if err := c.Validate(); err != nil {
		return err
	}
	if c.Supabase.URL == "" {
		return fmt.Errorf("SUPABASE_URL is required")
	}
	if c.Supabase.ServiceKey == "" {
		return fmt.Errorf("SUPABASE_SERVICE_KEY is required")
	}
	if c.OpenAI.APIKey == "" {
		return fmt.Errorf("OPENAI_API_KEY is required")
	}
	if c.Server.RateLimitPerMinute <= 0 || c.Server.RateLimitBurst <= 0 {
		return fmt.Errorf("RATE_LIMIT_PER_MINUTE and RATE_LIMIT_BURST must be positive")
	}
	return nil
}

// getDurationEnv accepts a Go duration ("90s") or a bare number of seconds.
func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
		if secs, err := strconv.Atoi(value); err == nil {
			return time.Duration(secs) * time.Second
		}
	}
	return defaultValue
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getInt64Env(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.ParseInt(value, 10, 64); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getBoolEnv(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}
