package main

import (
	"context"
	"errors"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/vladimiradmaev/qadha-helper/internal/bot"
	"github.com/vladimiradmaev/qadha-helper/internal/bot/handlers"
	"github.com/vladimiradmaev/qadha-helper/internal/bot/state"
	"github.com/vladimiradmaev/qadha-helper/internal/config"
	"github.com/vladimiradmaev/qadha-helper/internal/database"
	"github.com/vladimiradmaev/qadha-helper/internal/logger"
	"github.com/vladimiradmaev/qadha-helper/internal/metrics"
	"github.com/vladimiradmaev/qadha-helper/internal/qadha"
	"github.com/vladimiradmaev/qadha-helper/internal/services"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if err := logger.InitWithConfig(logger.Config{
		Level:      cfg.Logger.Level,
		OutputPath: cfg.Logger.OutputPath,
		Format:     cfg.Logger.Format,
	}); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Close()
	logger.Info("Starting Qadha Helper Bot", "evaluation_order", cfg.Qadha.EvaluationOrder.String())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.NewPostgresDB(cfg.DB)
	if err != nil {
		logger.Fatal("Failed to connect to database", "error", err)
	}

	if cfg.Metrics.Enabled {
		metrics.Register()
		go metrics.Serve(ctx, ":"+cfg.Metrics.Port)
	}

	// Initialize services
	aiService, err := services.NewAIService(ctx, cfg.GeminiAPIKey, cfg.OpenAIAPIKey)
	if err != nil {
		logger.Fatal("Failed to create AI service", "error", err)
	}
	defer aiService.Close()
	if !aiService.Enabled() {
		logger.Warn("No AI API keys configured, free-form FAQ questions are disabled")
	}

	estimator := qadha.NewEstimator(qadha.WithEvaluationOrder(cfg.Qadha.EvaluationOrder))
	deps := handlers.Dependencies{
		UserService: services.NewUserService(db),
		ProfileSvc:  services.NewProfileService(db),
		QadhaSvc:    services.NewQadhaService(db, estimator),
		LedgerSvc:   services.NewLedgerService(db),
		AISvc:       aiService,
	}
	logger.Info("Services initialized successfully")

	var stateManager state.StateManager = state.NewManager()
	if cfg.Redis.Enabled() {
		redisManager, err := state.NewRedisManager(ctx, state.RedisOptions{
			Addr:     cfg.Redis.Addr(),
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			logger.Fatal("Failed to connect to Redis", "error", err)
		}
		defer redisManager.Close()
		stateManager = redisManager
		logger.Info("Dialog state is stored in Redis", "addr", cfg.Redis.Addr())
	}

	telegramBot, err := bot.NewBot(cfg.TelegramToken, deps, stateManager)
	if err != nil {
		logger.Fatal("Failed to create bot", "error", err)
	}

	logger.Info("Bot is running. Press Ctrl+C to stop.")
	if err := telegramBot.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("Bot stopped with error", "error", err)
	}
}
