package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	// Telegram
	BotToken string
	AdminIDs []int64

	// Persistence
	DataFile  string
	BackupDir string

	// Quiz
	QuizThreshold int

	// Broadcast
	BroadcastDelayMs int

	// Rate Limiting
	RateLimitPerUser int

	// Application
	AppEnv   string
	LogLevel string
}

func LoadConfig() (*Config, error) {
	cfg := &Config{
		BotToken: getEnv("BOT_TOKEN", ""),

		DataFile:  getEnv("DATA_FILE", "bot_data.json"),
		BackupDir: getEnv("BACKUP_DIR", "backups"),

		QuizThreshold:    getEnvInt("QUIZ_THRESHOLD", 10),
		BroadcastDelayMs: getEnvInt("BROADCAST_DELAY_MS", 100),
		RateLimitPerUser: getEnvInt("RATE_LIMIT_PER_USER", 20),

		AppEnv:   getEnv("APP_ENV", "development"),
		LogLevel: getEnv("LOG_LEVEL", "info"),
	}

	// Parse admin telegram IDs
	adminStr := getEnv("ADMIN_IDS", "")
	for _, part := range strings.Split(adminStr, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := strconv.ParseInt(part, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid ADMIN_IDS entry %q: %w", part, err)
		}
		cfg.AdminIDs = append(cfg.AdminIDs, id)
	}

	// Validate required fields
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	if c.BotToken == "" {
		return fmt.Errorf("BOT_TOKEN is required")
	}
	if len(c.AdminIDs) == 0 {
		return fmt.Errorf("ADMIN_IDS is required")
	}
	if c.QuizThreshold <= 0 {
		return fmt.Errorf("QUIZ_THRESHOLD must be positive")
	}
	return nil
}

// IsAdmin reports whether the user id belongs to an operator.
func (c *Config) IsAdmin(userID int64) bool {
	for _, id := range c.AdminIDs {
		if id == userID {
			return true
		}
	}
	return false
}

func (c *Config) GetBroadcastDelay() time.Duration {
	return time.Duration(c.BroadcastDelayMs) * time.Millisecond
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}
