// Package main boots the Talkers persona engine and wires application
// dependencies.
package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/talkershq/talkers/internal/chat"
	"github.com/talkershq/talkers/internal/completion"
	"github.com/talkershq/talkers/internal/config"
	"github.com/talkershq/talkers/internal/corpus"
	"github.com/talkershq/talkers/internal/embedding"
	"github.com/talkershq/talkers/internal/models"
	"github.com/talkershq/talkers/internal/prompt"
	"github.com/talkershq/talkers/internal/retrieval"
	"github.com/talkershq/talkers/internal/server"
	"github.com/talkershq/talkers/internal/session"
	"github.com/talkershq/talkers/internal/vectorstore"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	cfg := config.Load()
	slog.Info("configuration loaded", "llm_model", cfg.LLMModel, "embedding_model", cfg.EmbeddingModel, "addr", cfg.HTTPAddr)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := gorm.Open(postgres.Open(cfg.DatabaseURL), &gorm.Config{})
	if err != nil {
		log.Fatalf("failed to open database: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		log.Fatalf("failed to get sql db: %v", err)
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		log.Fatalf("failed to ping database: %v", err)
	}
	defer func() { _ = sqlDB.Close() }()

	embedder, err := embedding.NewGenAIEmbedder(ctx, cfg.GoogleAPIKey, cfg.EmbeddingModel)
	if err != nil {
		log.Fatalf("failed to create embedder: %v", err)
	}

	llm, err := models.NewOpenAIModel(cfg.LLMModel, cfg.LLMAPIKey, cfg.LLMBaseURL)
	if err != nil {
		log.Fatalf("failed to create llm model: %v", err)
	}

	store := vectorstore.NewPostgresStore(db)
	sessions := session.NewRepo(db)
	cache := session.NewCache(cfg.SessionCacheSize, time.Duration(cfg.SessionCacheTTLMin)*time.Minute)
	loader := corpus.NewLoader(store, cfg.ScrollPageSize, cfg.MaxScrollPages)
	retriever := retrieval.NewRetriever(store, cfg.SimilarityThreshold)
	builder := prompt.NewBuilder()
	completer := completion.NewClient(llm)

	engine := chat.NewEngine(sessions, cache, loader, embedder, retriever, builder, completer)
	handlers := server.NewHandlers(engine, time.Duration(cfg.TurnTimeoutSeconds)*time.Second)

	httpServer := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: handlers.Router(),
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("http server starting", "addr", cfg.HTTPAddr)
		errCh <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("http server failed: %v", err)
		}
	case <-ctx.Done():
		slog.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			slog.Error("graceful shutdown failed", "error", err.Error())
		}
	}

	slog.Info("shutdown complete")
}
