package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/pinlon/community_bot/internal/config"
	"github.com/pinlon/community_bot/internal/handlers"
	"github.com/pinlon/community_bot/internal/repositories"
	"github.com/pinlon/community_bot/internal/storage"
	"github.com/pinlon/community_bot/pkg/logger"
	"github.com/pinlon/community_bot/telegram"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment")
	}

	// Initialize logger
	logger.Init()
	defer logger.Sync()

	logger.Info("Starting Community Bot...")

	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Fatal("Failed to load config", err)
	}

	// Open the snapshot store and load whatever is on disk. An unreadable
	// snapshot is not fatal: only a missing bot token stops the process.
	store := storage.NewSnapshotStore(cfg.DataFile, cfg.BackupDir)
	snapshot, err := store.Load()
	if err != nil {
		logger.Error("Snapshot unreadable, starting with an empty store", "error", err, "path", store.Path())
		if quarantined, qerr := store.Quarantine(); qerr != nil {
			logger.Error("Failed to move corrupt snapshot aside", "error", qerr)
		} else {
			logger.Warn("Corrupt snapshot moved aside", "path", quarantined)
		}
		snapshot = nil
	}

	repo := repositories.NewContentRepository()
	if snapshot != nil {
		repo.ReplaceAll(snapshot)
		logger.Info("Snapshot loaded", "path", store.Path())
	} else {
		if err := repo.SetThreshold(cfg.QuizThreshold); err != nil {
			logger.Fatal("Invalid quiz threshold", err)
		}
		logger.Info("No snapshot on disk, starting empty", "path", store.Path())
	}

	handlerMgr := handlers.NewHandlerManager(cfg, repo, store)

	// Initialize and start Telegram bot
	bot, err := telegram.InitBot(cfg, handlerMgr)
	if err != nil {
		logger.Fatal("Failed to initialize bot", err)
	}

	logger.Info("Bot started successfully", "env", cfg.AppEnv)

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down gracefully...")
	bot.Stop()
	logger.Info("Bot stopped")
}
