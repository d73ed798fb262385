package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/vladimiradmaev/qadha-helper/internal/logger"
	"github.com/vladimiradmaev/qadha-helper/internal/qadha"
)

type Config struct {
	TelegramToken string
	GeminiAPIKey  string
	OpenAIAPIKey  string
	DB            DBConfig
	Redis         RedisConfig
	Logger        LoggerConfig
	Metrics       MetricsConfig
	Qadha         QadhaConfig
}

type DBConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
}

// DSN builds the postgres connection string used by gorm.
func (c DBConfig) DSN() string {
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
		c.Host, c.User, c.Password, c.DBName, c.Port)
}

// RedisConfig is optional: with an empty Host dialog state is kept in memory.
type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

func (c RedisConfig) Enabled() bool {
	return c.Host != ""
}

func (c RedisConfig) Addr() string {
	return c.Host + ":" + c.Port
}

type LoggerConfig struct {
	Level      logger.LogLevel
	OutputPath string
	Format     string
}

type MetricsConfig struct {
	Enabled bool
	Port    string
}

type QadhaConfig struct {
	EvaluationOrder qadha.EvaluationOrder
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	value, err := strconv.ParseBool(getEnvOrDefault(key, strconv.FormatBool(defaultValue)))
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvInt(key string, defaultValue int) int {
	value, err := strconv.Atoi(getEnvOrDefault(key, strconv.Itoa(defaultValue)))
	if err != nil {
		return defaultValue
	}
	return value
}

func Load() (*Config, error) {
	order, err := qadha.ParseEvaluationOrder(os.Getenv("QADHA_EVALUATION_ORDER"))
	if err != nil {
		return nil, fmt.Errorf("QADHA_EVALUATION_ORDER: %w", err)
	}

	cfg := &Config{
		TelegramToken: os.Getenv("TELEGRAM_BOT_TOKEN"),
		GeminiAPIKey:  os.Getenv("GEMINI_API_KEY"),
		OpenAIAPIKey:  os.Getenv("OPENAI_API_KEY"),
		DB: DBConfig{
			Host:     getEnvOrDefault("DB_HOST", "localhost"),
			Port:     getEnvOrDefault("DB_PORT", "5432"),
			User:     getEnvOrDefault("DB_USER", "postgres"),
			Password: getEnvOrDefault("DB_PASSWORD", "postgres"),
			DBName:   getEnvOrDefault("DB_NAME", "qadha_helper"),
		},
		Redis: RedisConfig{
			Host:     os.Getenv("REDIS_HOST"),
			Port:     getEnvOrDefault("REDIS_PORT", "6379"),
			Password: os.Getenv("REDIS_PASSWORD"),
			DB:       getEnvInt("REDIS_DB", 0),
		},
		Logger: LoggerConfig{
			Level:      logger.ParseLevel(getEnvOrDefault("LOG_LEVEL", "info")),
			OutputPath: getEnvOrDefault("LOG_OUTPUT", "logs/app.log"),
			Format:     getEnvOrDefault("LOG_FORMAT", "json"),
		},
		Metrics: MetricsConfig{
			Enabled: getEnvBool("METRICS_ENABLED", true),
			Port:    getEnvOrDefault("METRICS_PORT", "9090"),
		},
		Qadha: QadhaConfig{
			EvaluationOrder: order,
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate reports every missing or malformed value at once.
func (c *Config) Validate() error {
	var problems []string
	if c.TelegramToken == "" {
		problems = append(problems, "TELEGRAM_BOT_TOKEN is required")
	}
	if c.DB.Host == "" || c.DB.DBName == "" {
		problems = append(problems, "DB_HOST and DB_NAME are required")
	}
	if _, err := strconv.Atoi(c.DB.Port); err != nil {
		problems = append(problems, fmt.Sprintf("DB_PORT must be a number, got %q", c.DB.Port))
	}
	if c.Redis.Enabled() {
		if _, err := strconv.Atoi(c.Redis.Port); err != nil {
			problems = append(problems, fmt.Sprintf("REDIS_PORT must be a number, got %q", c.Redis.Port))
		}
	}
	if c.Metrics.Enabled {
		if _, err := strconv.Atoi(c.Metrics.Port); err != nil {
			problems = append(problems, fmt.Sprintf("METRICS_PORT must be a number, got %q", c.Metrics.Port))
		}
	}
	if c.Logger.Format != "json" && c.Logger.Format != "text" {
		problems = append(problems, fmt.Sprintf("LOG_FORMAT must be json or text, got %q", c.Logger.Format))
	}
	if len(problems) > 0 {
		return fmt.Errorf("invalid configuration:\n  - %s", strings.Join(problems, "\n  - "))
	}
	return nil
}

// AIEnabled reports whether at least one FAQ assistant provider is configured.
func (c *Config) AIEnabled() bool {
	return c.GeminiAPIKey != "" || c.OpenAIAPIKey != ""
}
