package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	BotToken string

	OpenAIKey     string
	OpenAIBaseURL string
	OpenAIModel   string

	TextRuKey string
	TextRuURL string

	RequestTimeout time.Duration

	Port        string
	AdminToken  string
	AdminChatID int64

	DatabaseURL string
	SessionTTL  time.Duration

	S3 S3Config

	LogLevel string
}

// S3Config: архив завершённых запросов; пустой Endpoint выключает архив
type S3Config struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	Region    string
}

func (c S3Config) Enabled() bool {
	return c.Endpoint != ""
}

// Load читает конфиг из окружения (.env подгружается в main).
func Load() (*Config, error) {
	cfg := &Config{
		BotToken: os.Getenv("BOT_TOKEN"),

		OpenAIKey:     os.Getenv("OPENAI_API_KEY"),
		OpenAIBaseURL: getEnv("OPENAI_BASE_URL", "https://api.openai.com/v1"),
		OpenAIModel:   getEnv("OPENAI_MODEL", "gpt-4o-mini"),

		TextRuKey: os.Getenv("TEXTRU_API_KEY"),
		TextRuURL: getEnv("TEXTRU_URL", "https://api.text.ru/post"),

		RequestTimeout: getEnvDuration("REQUEST_TIMEOUT", 60*time.Second),

		Port:        getEnv("PORT", "8080"),
		AdminToken:  os.Getenv("ADMIN_TOKEN"),
		AdminChatID: getEnvInt64("ADMIN_CHAT_ID", 0),

		DatabaseURL: os.Getenv("DATABASE_URL"),
		SessionTTL:  getEnvDuration("SESSION_TTL", 0),

		S3: S3Config{
			Endpoint:  os.Getenv("S3_ENDPOINT"),
			AccessKey: os.Getenv("S3_ACCESS_KEY"),
			SecretKey: os.Getenv("S3_SECRET_KEY"),
			Bucket:    os.Getenv("S3_BUCKET"),
			Region:    os.Getenv("S3_REGION"),
		},

		LogLevel: strings.ToLower(getEnv("LOG_LEVEL", "info")),
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	if c.BotToken == "" {
		return fmt.Errorf("BOT_TOKEN environment variable is required")
	}
	if c.RequestTimeout <= 0 {
		return fmt.Errorf("REQUEST_TIMEOUT must be > 0")
	}
	if c.SessionTTL < 0 {
		return fmt.Errorf("SESSION_TTL must be >= 0")
	}
	if c.S3.Enabled() && c.S3.Bucket == "" {
		return fmt.Errorf("S3_BUCKET is required when S3_ENDPOINT is set")
	}
	return nil
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func getEnvInt64(key string, fallback int64) int64 {
	v, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	n, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64)
	if err != nil {
		return fallback
	}
	return n
}

// getEnvDuration понимает "90s", "5m" и голые секунды ("60").
func getEnvDuration(key string, fallback time.Duration) time.Duration {
	v, ok := os.LookupEnv(key)
	if !ok || strings.TrimSpace(v) == "" {
		return fallback
	}
	v = strings.TrimSpace(v)
	if secs, err := strconv.Atoi(v); err == nil {
		return time.Duration(secs) * time.Second
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fallback
	}
	return d
}
