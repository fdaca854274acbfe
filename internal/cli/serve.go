package cli

import (
	"context"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-faster/errors"
	"github.com/spf13/cobra"

	"github.com/mrops-br/chaverito-api/internal/app/cart"
	"github.com/mrops-br/chaverito-api/internal/app/service"
	"github.com/mrops-br/chaverito-api/internal/domain"
	"github.com/mrops-br/chaverito-api/internal/infrastructure/config"
	chttp "github.com/mrops-br/chaverito-api/internal/infrastructure/http"
	"github.com/mrops-br/chaverito-api/internal/infrastructure/http/handler"
	"github.com/mrops-br/chaverito-api/internal/infrastructure/repository/memory"
	kvmem "github.com/mrops-br/chaverito-api/internal/infrastructure/storage/memory"
	kvredis "github.com/mrops-br/chaverito-api/internal/infrastructure/storage/redis"
	kvsqlite "github.com/mrops-br/chaverito-api/internal/infrastructure/storage/sqlite"
	"github.com/mrops-br/chaverito-api/internal/infrastructure/telemetry"
)

func newServeCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), a.cfg)
		},
	}
}

// openStorage opens the cart storage selected by the config. The returned
// closer is never nil.
func openStorage(ctx context.Context, cfg config.StorageConfig) (domain.KeyValueStore, io.Closer, error) {
	switch cfg.Driver {
	case config.StorageMemory:
		return kvmem.NewKeyValueStore(), closerFunc(func() error { return nil }), nil
	case config.StorageSQLite:
		s, err := kvsqlite.Open(cfg.SQLitePath)
		if err != nil {
			return nil, nil, err
		}
		return s, s, nil
	case config.StorageRedis:
		s, err := kvredis.Dial(ctx, cfg.RedisAddr, cfg.RedisTTL)
		if err != nil {
			return nil, nil, err
		}
		return s, s, nil
	default:
		return nil, nil, errors.Errorf("unknown storage driver %q", cfg.Driver)
	}
}

type closerFunc func() error

func (f closerFunc) Close() error { return f() }

func runServe(ctx context.Context, cfg *config.Config) error {
	if ctx == nil {
		ctx = context.Background()
	}

	var telem *telemetry.Telemetry
	if cfg.OTLP.ExportEnabled {
		var err error
		telem, err = telemetry.NewTelemetry(ctx, cfg)
		if err != nil {
			return errors.Wrap(err, "initialize telemetry")
		}
	} else {
		telem = telemetry.NewNoOpTelemetry(cfg)
	}

	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := telem.Shutdown(shutdownCtx); err != nil {
			telem.Logger.Error("Error shutting down telemetry", slog.String("error", err.Error()))
		}
	}()

	tracer := telem.TracerProvider.Tracer("chaverito-api")
	meter := telem.MeterProvider.Meter("chaverito-api")
	logger := telem.Logger

	logger.Info("Starting Chaverito API",
		slog.String("storage_driver", cfg.Storage.Driver),
	)

	shipping, err := cfg.ShippingPolicy()
	if err != nil {
		return err
	}

	storage, closer, err := openStorage(ctx, cfg.Storage)
	if err != nil {
		return errors.Wrap(err, "open cart storage")
	}
	defer func() {
		if err := closer.Close(); err != nil {
			logger.Error("Error closing cart storage", slog.String("error", err.Error()))
		}
	}()

	repo := memory.NewCatalogRepository(tracer, logger)
	if err := repo.Seed(ctx); err != nil {
		return errors.Wrap(err, "seed catalog")
	}

	sessions, err := cart.NewSessions(storage, cfg.Storage.CartKey, cart.SessionLimits{
		MaxSessions: cfg.Storage.MaxSessions,
		IdleTTL:     cfg.Storage.SessionIdleTTL,
	}, tracer, meter, logger)
	if err != nil {
		return err
	}
	catalogService := service.NewCatalogService(repo, shipping, tracer, meter, logger)
	cartService := service.NewCartService(repo, shipping, tracer, logger)

	server := chttp.NewServer(
		&cfg.Server,
		handler.NewCartHandler(cartService, logger),
		handler.NewCatalogHandler(catalogService, logger),
		sessions,
		telem,
	)

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	select {
	case err := <-errCh:
		if err != nil {
			logger.Error("Server error", slog.String("error", err.Error()))
		}
		return err
	case <-quit:
		logger.Info("Shutting down server...")
	case <-ctx.Done():
		logger.Info("Context cancelled, shutting down...")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return errors.Wrap(err, "shutdown server")
	}

	logger.Info("Server stopped")
	return nil
}
