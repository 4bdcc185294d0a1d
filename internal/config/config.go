package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config contains all runtime settings for the chat widget service.
type Config struct {
	BindAddr         string
	ShutdownTimeout  time.Duration
	MetricsNamespace string

	OpenAIAPIKey  string
	OpenAIModel   string
	OpenAIBaseURL string

	CompletionTimeout time.Duration
	SinkTimeout       time.Duration
	SessionIdleTTL    time.Duration

	SlackWebhookURL string
	SpreadsheetID   string
	SheetsCredsFile string

	LogLevel string
}

// Load reads environment variables and applies safe defaults. A .env file in
// the working directory is merged in first when present. The OpenAI API key
// is required; Load fails without it so the process never starts half-wired.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return Config{}, fmt.Errorf(".env load error: %w", err)
	}

	cfg := Config{
		BindAddr:         envOrDefault("APP_BIND_ADDR", ":8080"),
		MetricsNamespace: envOrDefault("APP_METRICS_NAMESPACE", "samassist"),
		OpenAIAPIKey:     envTrimmed("OPENAI_API_KEY"),
		OpenAIModel:      envOrDefault("OPENAI_MODEL", "gpt-4o-mini"),
		OpenAIBaseURL:    envTrimmed("OPENAI_BASE_URL"),
		SlackWebhookURL:  envTrimmed("SLACK_WEBHOOK_URL"),
		SpreadsheetID:    envTrimmed("SHEETS_SPREADSHEET_ID"),
		SheetsCredsFile:  envTrimmed("SHEETS_CREDENTIALS_FILE"),
		LogLevel:         envOrDefault("LOG_LEVEL", "info"),

		ShutdownTimeout:   15 * time.Second,
		CompletionTimeout: 30 * time.Second,
		SinkTimeout:       10 * time.Second,
		SessionIdleTTL:    30 * time.Minute,
	}

	var err error
	cfg.ShutdownTimeout, err = durationFromEnv("APP_SHUTDOWN_TIMEOUT", cfg.ShutdownTimeout)
	if err != nil {
		return Config{}, err
	}
	cfg.CompletionTimeout, err = durationFromEnv("APP_COMPLETION_TIMEOUT", cfg.CompletionTimeout)
	if err != nil {
		return Config{}, err
	}
	cfg.SinkTimeout, err = durationFromEnv("APP_SINK_TIMEOUT", cfg.SinkTimeout)
	if err != nil {
		return Config{}, err
	}
	cfg.SessionIdleTTL, err = durationFromEnv("APP_SESSION_IDLE_TTL", cfg.SessionIdleTTL)
	if err != nil {
		return Config{}, err
	}

	if cfg.OpenAIAPIKey == "" {
		return Config{}, fmt.Errorf("OPENAI_API_KEY must be set")
	}
	if cfg.CompletionTimeout <= 0 {
		return Config{}, fmt.Errorf("APP_COMPLETION_TIMEOUT must be positive")
	}
	if cfg.SinkTimeout <= 0 {
		return Config{}, fmt.Errorf("APP_SINK_TIMEOUT must be positive")
	}
	if cfg.SessionIdleTTL < time.Minute {
		return Config{}, fmt.Errorf("APP_SESSION_IDLE_TTL must be at least 1m")
	}
	if cfg.SpreadsheetID != "" && cfg.SheetsCredsFile == "" {
		return Config{}, fmt.Errorf("SHEETS_CREDENTIALS_FILE must be set when SHEETS_SPREADSHEET_ID is set")
	}

	return cfg, nil
}

func envOrDefault(key, fallback string) string {
	v := envTrimmed(key)
	if v == "" {
		return fallback
	}
	return v
}

func envTrimmed(key string) string {
	return strings.TrimSpace(os.Getenv(key))
}

func durationFromEnv(key string, fallback time.Duration) (time.Duration, error) {
	v := envTrimmed(key)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("%s parse error: %w", key, err)
	}
	return d, nil
}
