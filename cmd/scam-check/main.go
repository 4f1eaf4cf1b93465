package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/mikey/llm-scam-check/internal/adapters/cache"
	"github.com/mikey/llm-scam-check/internal/adapters/cli"
	"github.com/mikey/llm-scam-check/internal/adapters/webhook"
	"github.com/mikey/llm-scam-check/internal/config"
	"github.com/mikey/llm-scam-check/internal/core"
	"github.com/mikey/llm-scam-check/internal/di"
)

func main() {
	// Optional .env for local runs; real deployments set the environment
	_ = godotenv.Load()

	container, err := di.BuildContainer()
	if err != nil {
		fmt.Printf("Failed to build dependency container: %v\n", err)
		os.Exit(1)
	}

	if err := container.Invoke(run); err != nil {
		fmt.Printf("Application error: %v\n", err)
		os.Exit(1)
	}
}

// run is the main application function that gets all dependencies injected
func run(
	cfg *config.Config,
	logger *zap.Logger,
	loop *cli.Loop,
	server *webhook.Server,
	llmClient core.LLMClient,
	prescreenCache *cache.MemoryCache,
) error {
	defer logger.Sync()

	// Fail fast on missing credentials before any prompt is shown
	if err := cfg.ValidateCredentials(); err != nil {
		return err
	}

	if cfg.GetBool("server.enabled") {
		if err := server.Start(); err != nil {
			return fmt.Errorf("failed to start email intake: %w", err)
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	loopErr := make(chan error, 1)
	go func() {
		loopErr <- loop.Run(ctx)
	}()

	var err error
	select {
	case err = <-loopErr:
	case <-ctx.Done():
		logger.Info("Shutting down...")
	}

	if cfg.GetBool("server.enabled") {
		if stopErr := server.Stop(); stopErr != nil {
			logger.Error("Failed to stop email intake", zap.Error(stopErr))
		}
	}

	if closer, ok := llmClient.(interface{ Close() error }); ok {
		if closeErr := closer.Close(); closeErr != nil {
			logger.Error("Failed to close LLM client", zap.Error(closeErr))
		}
	}

	if prescreenCache != nil {
		prescreenCache.Stop()
	}

	logger.Info("Shutdown complete")
	return err
}
