package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/vladimiradmaev/qadha-helper/internal/config"
)

func main() {
	fmt.Println("🔍 Checking configuration...")

	if err := godotenv.Load(); err != nil {
		fmt.Printf("⚠️  .env file not found: %v\n", err)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("❌ Configuration is invalid:\n%v\n", err)
		os.Exit(1)
	}

	fmt.Println("✅ Configuration is valid!")
	fmt.Printf("📋 Details:\n")
	fmt.Printf("  - Telegram Token: %s\n", maskToken(cfg.TelegramToken))
	fmt.Printf("  - Gemini API Key: %s\n", maskToken(cfg.GeminiAPIKey))
	fmt.Printf("  - OpenAI API Key: %s\n", maskToken(cfg.OpenAIAPIKey))
	fmt.Printf("  - DB Host: %s\n", cfg.DB.Host)
	fmt.Printf("  - DB Port: %s\n", cfg.DB.Port)
	fmt.Printf("  - DB User: %s\n", cfg.DB.User)
	fmt.Printf("  - DB Name: %s\n", cfg.DB.DBName)
	if cfg.Redis.Enabled() {
		fmt.Printf("  - Redis: %s (db %d)\n", cfg.Redis.Addr(), cfg.Redis.DB)
	} else {
		fmt.Printf("  - Redis: <disabled, in-memory state>\n")
	}
	fmt.Printf("  - Log Level: %v\n", cfg.Logger.Level)
	fmt.Printf("  - Log Output: %s\n", cfg.Logger.OutputPath)
	fmt.Printf("  - Log Format: %s\n", cfg.Logger.Format)
	fmt.Printf("  - Metrics: enabled=%t port=%s\n", cfg.Metrics.Enabled, cfg.Metrics.Port)
	fmt.Printf("  - Qadha evaluation order: %s\n", cfg.Qadha.EvaluationOrder)
	if !cfg.AIEnabled() {
		fmt.Println("ℹ️  No AI key set: the FAQ assistant will only serve static answers")
	}
}

func maskToken(token string) string {
	if token == "" {
		return "<not set>"
	}
	if len(token) <= 8 {
		return "***"
	}
	return token[:4] + "..." + token[len(token)-4:]
}
