package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"

	"github.com/tbouchet/plume/internal/app"
	"github.com/tbouchet/plume/internal/config"
)

func main() {
	logger := zerolog.New(os.Stderr).With().Timestamp().Logger()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle SIGINT/SIGTERM for graceful shutdown
	go func() {
		c := make(chan os.Signal, 1)
		signal.Notify(c, syscall.SIGINT, syscall.SIGTERM)
		<-c
		cancel()
	}()

	cfg := config.LoadConfig()
	application, err := app.NewApp(ctx, cfg, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("startup failed")
	}
	defer application.Close()

	if err := application.Run(ctx); err != nil {
		logger.Fatal().Err(err).Msg("server error")
	}
	logger.Info().Msg("shutdown complete")
}
