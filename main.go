package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/alfaia/alfaia/config"
	"github.com/alfaia/alfaia/internal/adapter/openai"
	"github.com/alfaia/alfaia/internal/domain"
	"github.com/alfaia/alfaia/internal/exercise"
	"github.com/alfaia/alfaia/internal/service"
	"github.com/alfaia/alfaia/internal/store"
	transport "github.com/alfaia/alfaia/internal/transport/http"
	"github.com/alfaia/alfaia/internal/vector"
	"github.com/alfaia/alfaia/policy"
)

func main() {
	// Load configuration
	cfg := config.Load()

	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	logger.Info("starting tutor service",
		zap.Int("http_port", cfg.HTTPPort),
		zap.String("database", cfg.DatabaseURL),
		zap.String("openai_base_url", cfg.OpenAIBaseURL))

	// Initialize store
	db, err := store.NewSQLiteStore(cfg.DatabaseURL)
	if err != nil {
		logger.Fatal("failed to initialize store", zap.Error(err))
	}
	defer db.Close()

	// Initialize the OpenAI provider
	provider := openai.NewProvider(cfg.OpenAIBaseURL, cfg.OpenAIAPIKey, cfg.OpenAITimeout)

	// Initialize the vector index on the shared database handle
	index, err := vector.NewIndex(db.DB(), provider)
	if err != nil {
		logger.Fatal("failed to initialize vector index", zap.Error(err))
	}

	// Initialize policy engine
	ctx := context.Background()
	policyEngine, err := policy.NewEngine(ctx, policy.DefaultPolicy)
	if err != nil {
		logger.Fatal("failed to initialize policy engine", zap.Error(err))
	}

	generator := exercise.NewGenerator()

	// Seed the shared curriculum into the retrieval index, best-effort.
	seedCurriculum(ctx, index, logger)

	// Initialize service
	svc := service.New(db, index, provider, generator, policyEngine, cfg, logger)

	// Create the HTTP server
	server := transport.NewServer(svc)

	go func() {
		addr := fmt.Sprintf(":%d", cfg.HTTPPort)
		if err := server.Start(addr); err != nil && err != http.ErrServerClosed {
			logger.Fatal("failed to start server", zap.Error(err))
		}
	}()

	logger.Info("API started", zap.Int("port", cfg.HTTPPort))

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down tutor service")

	// Graceful shutdown
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Warn("failed to shutdown server gracefully", zap.Error(err))
	}

	logger.Info("tutor service stopped")
}

func newLogger(level string) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	if err := cfg.Level.UnmarshalText([]byte(level)); err != nil {
		cfg.Level = zap.NewAtomicLevelAt(zap.InfoLevel)
	}
	return cfg.Build()
}

// seedCurriculum embeds every passage of the bank as shared retrieval
// context. Failures only degrade free-conversation grounding, so they are
// logged and ignored.
func seedCurriculum(ctx context.Context, index *vector.Index, logger *zap.Logger) {
	count, err := index.CountSource(ctx, domain.VectorSourceCurriculum)
	if err != nil {
		logger.Warn("failed to check curriculum seed state", zap.Error(err))
		return
	}
	if count > 0 {
		return
	}
	for _, p := range exercise.Passages() {
		err := index.Add(ctx, domain.VectorRecord{
			Source:    domain.VectorSourceCurriculum,
			SourceID:  p.ID,
			Content:   p.Text,
			CreatedAt: time.Now(),
		})
		if err != nil {
			logger.Warn("failed to seed curriculum passage", zap.String("passage_id", p.ID), zap.Error(err))
		}
	}
}
