package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/sagaforge/adventure-engine/internal/config"
	"github.com/sagaforge/adventure-engine/internal/handlers"
	"github.com/sagaforge/adventure-engine/internal/logger"
	"github.com/sagaforge/adventure-engine/internal/middleware"
	"github.com/sagaforge/adventure-engine/internal/services"
	"github.com/sagaforge/adventure-engine/internal/services/queue"
	"github.com/sagaforge/adventure-engine/internal/storage"
)

func main() {
	// Missing .env is fine; the environment may carry everything.
	_ = godotenv.Load()

	cfg := config.Load()
	log := logger.Setup(cfg)

	log.Info("Starting Adventure Engine API",
		"port", cfg.Port,
		"environment", cfg.Environment,
		"llm_provider", cfg.LLMProvider,
		"model_name", cfg.ModelName,
		"storage_backend", cfg.StorageBackend)

	var narrator services.NarratorService
	switch strings.ToLower(cfg.LLMProvider) {
	case "anthropic":
		if cfg.AnthropicAPIKey == "" {
			log.Error("Anthropic API key is required when using anthropic provider")
			os.Exit(1)
		}
		narrator = services.NewAnthropicService(cfg.AnthropicAPIKey, cfg.ModelName, log)
		log.Info("Using Anthropic narrator provider")
	case "gemini":
		if cfg.GeminiAPIKey == "" {
			log.Error("Gemini API key is required when using gemini provider")
			os.Exit(1)
		}
		gemini, err := services.NewGeminiService(context.Background(), cfg.GeminiAPIKey, cfg.ModelName, log)
		if err != nil {
			log.Error("Failed to initialize Gemini client", "error", err)
			os.Exit(1)
		}
		defer gemini.Close()
		narrator = gemini
		log.Info("Using Gemini narrator provider")
	case "mock":
		narrator = services.NewMockNarrator()
		log.Warn("Using mock narrator provider")
	default:
		log.Error("Invalid LLM provider specified", "provider", cfg.LLMProvider, "supported", []string{"anthropic", "gemini", "mock"})
		os.Exit(1)
	}

	var store storage.Store
	switch strings.ToLower(cfg.StorageBackend) {
	case "redis":
		redisStore := storage.NewRedisStore(cfg.RedisURL, log)
		waitCtx, waitCancel := context.WithTimeout(context.Background(), 2*time.Minute)
		if err := redisStore.WaitForConnection(waitCtx); err != nil {
			waitCancel()
			log.Error("Failed to connect to Redis", "error", err)
			os.Exit(1)
		}
		waitCancel()
		store = redisStore
	case "sqlite":
		sqliteStore, err := storage.NewSQLiteStore(cfg.SQLitePath, log)
		if err != nil {
			log.Error("Failed to open SQLite store", "error", err, "path", cfg.SQLitePath)
			os.Exit(1)
		}
		store = sqliteStore
	case "memory":
		store = storage.NewMockStore()
		log.Warn("Using in-memory storage; saved adventures will not survive restarts")
	default:
		log.Error("Invalid storage backend specified", "backend", cfg.StorageBackend, "supported", []string{"redis", "sqlite", "memory"})
		os.Exit(1)
	}
	log.Info("Storage connection established successfully")

	// Dynamic world events ride on Redis; other backends skip the queue.
	var eventQueue *queue.EventQueue
	if strings.ToLower(cfg.StorageBackend) == "redis" {
		queueClient, err := queue.NewClient(cfg.RedisURL, log)
		if err != nil {
			log.Error("Failed to connect event queue", "error", err)
			os.Exit(1)
		}
		defer func() {
			if err := queueClient.Close(); err != nil {
				log.Error("Error closing event queue connection", "error", err)
			}
		}()
		eventQueue = queue.NewEventQueue(queueClient)
		log.Info("Dynamic event queue enabled")
	}

	initCtx, initCancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer initCancel()
	if err := narrator.InitModel(initCtx, cfg.ModelName); err != nil {
		log.Error("Failed to initialize narrator model", "error", err, "model", cfg.ModelName)
		os.Exit(1)
	}

	mux := http.NewServeMux()

	healthHandler := handlers.NewHealthHandler(store, log)
	mux.Handle("/health", healthHandler)

	adventureHandler := handlers.NewAdventureHandler(store, log)
	mux.Handle("/v1/adventures", adventureHandler)
	mux.Handle("/v1/adventures/", adventureHandler)

	turnHandler := handlers.NewTurnHandler(store, narrator, log)
	if eventQueue != nil {
		turnHandler = turnHandler.WithEventQueue(eventQueue)
	}
	mux.Handle("/v1/turn", turnHandler)

	craftHandler := handlers.NewCraftHandler(store, narrator, log)
	mux.Handle("/v1/craft", craftHandler)

	skillTreeHandler := handlers.NewSkillTreeHandler(narrator, log)
	mux.Handle("/v1/skilltree", skillTreeHandler)

	handler := middleware.Logger(mux)
	server := &http.Server{
		Addr:        ":" + cfg.Port,
		Handler:     handler,
		ReadTimeout: 15 * time.Second,
		IdleTimeout: 60 * time.Second,
	}

	go func() {
		log.Info("Server starting", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("Server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Server is shutting down...")

	if err := store.Close(); err != nil {
		log.Error("Error closing storage connection", "error", err)
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", "error", err)
		os.Exit(1)
	}

	log.Info("Server exited")
}
