package app

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/tbouchet/plume/internal/config"
	"github.com/tbouchet/plume/internal/core"
	db "github.com/tbouchet/plume/internal/core/database"
	"github.com/tbouchet/plume/internal/core/llm"
)

type App struct {
	Store  core.Store
	Server *Server
	log    zerolog.Logger
}

// NewApp connects the database, runs migrations and wires the server.
func NewApp(ctx context.Context, cfg *config.Config, logger zerolog.Logger) (*App, error) {
	initCtx, cancel := context.WithTimeout(ctx, 5*time.Minute)
	defer cancel()

	store, err := db.NewDatabaseClient(initCtx, cfg)
	if err != nil {
		return nil, err
	}
	logger.Info().Msg("database initialized and migrated")

	gen, err := llm.NewOllamaGenerator(cfg.OllamaBaseURL, cfg.AITimeout)
	if err != nil {
		return nil, err
	}

	server := NewServer(cfg, store, gen, logger)
	return &App{Store: store, Server: server, log: logger}, nil
}

// Run serves HTTP until ctx is cancelled, then drains in-flight
// requests before returning.
func (a *App) Run(ctx context.Context) error {
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return a.Server.Start()
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return a.Server.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

func (a *App) Close() {
	if a.Store != nil {
		if err := a.Store.Close(); err != nil {
			a.log.Error().Err(err).Msg("closing store")
		}
	}
}
