package main

import (
	"UBASAnthropometry/internal/config"
	"UBASAnthropometry/pkg/landmark"
	"UBASAnthropometry/pkg/log"
	"UBASAnthropometry/pkg/redis"
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
)

const shutdownTimeout = 15 * time.Second

func main() {
	// The logger reads LOG_LEVEL and LOG_DIR, so .env goes first.
	envErr := godotenv.Load()
	logger := log.NewLogger()
	if envErr != nil {
		logger.Warnf("No .env file loaded: %v", envErr)
	}

	server, err := config.NewServer(
		config.WithFiber(config.NewFiber(logger)),
		config.WithLogger(logger),
		config.WithValidator(config.NewValidator()),
		config.WithDatabase(),
		config.WithRedisServer(redis.New(logger)),
		config.WithLandmarkClient(landmark.New(logger)),
		config.WithMiddleware(),
		config.WithS3Client(),
		config.WithGeminiClient(),
		config.WithReportRenderer(),
		config.WithScoringEngine(),
		config.WithAnalysisOptions(),
		config.WithUtils(),
	)
	if err != nil {
		logger.Fatalf("Failed to build server: %v", err)
	}
	server.RegisterHandler()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	runErr := make(chan error, 1)
	go func() {
		runErr <- server.Run()
	}()
	logger.Info("UBAS anthropometry service started")

	select {
	case err := <-runErr:
		if err != nil {
			logger.Errorf("Server stopped: %v", err)
		}
	case <-ctx.Done():
		logger.Info("Shutdown signal received")
	}

	server.Shutdown(shutdownTimeout)
	logger.Info("Server stopped")
}
