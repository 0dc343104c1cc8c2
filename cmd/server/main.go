// Command members-api starts the members-area HTTP API.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/teacherpoli/members-api/internal/api"
	"github.com/teacherpoli/members-api/internal/api/handler"
	"github.com/teacherpoli/members-api/internal/core/ports"
	"github.com/teacherpoli/members-api/internal/core/service"
	"github.com/teacherpoli/members-api/internal/infrastructure/config"
	memorystore "github.com/teacherpoli/members-api/internal/infrastructure/store/memory"
	mongostore "github.com/teacherpoli/members-api/internal/infrastructure/store/mongo"
	redisstore "github.com/teacherpoli/members-api/internal/infrastructure/store/redis"
	"github.com/teacherpoli/members-api/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		// Logger is not up yet; write straight to stderr and die.
		os.Stderr.WriteString(err.Error() + "\n")
		os.Exit(1)
	}

	log := logger.Init(logger.Options{
		Level:  cfg.LogLevel,
		Pretty: cfg.Env == "development",
	})

	purchases, users, checks, cleanup, err := buildStores(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Str("backend", cfg.StoreBackend).Msg("store initialisation failed")
	}
	defer cleanup()

	authService := service.NewAuthService(purchases, users, cfg.JWTSecret, 0)
	webhookService := service.NewWebhookService(purchases, log)

	e := api.NewRouter(api.RouterConfig{
		AuthService:      authService,
		WebhookService:   webhookService,
		JWTSecret:        cfg.JWTSecret,
		WebhookSecret:    cfg.WebhookSecret,
		StoreBackend:     cfg.StoreBackend,
		ReadinessChecks:  checks,
		EnableTestRoutes: cfg.EnableTestRoutes,
		Logger:           log,
	})

	go func() {
		log.Info().Str("port", cfg.Port).Str("backend", cfg.StoreBackend).Msg("server starting")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("shutdown failed")
	}
	log.Info().Msg("shutdown complete")
}

// buildStores wires the purchase and user stores for the configured backend
// and returns the readiness checks that go with it.
func buildStores(ctx context.Context, cfg *config.Config) (
	ports.PurchaseStore, ports.UserStore, map[string]handler.DependencyCheck, func(), error,
) {
	switch cfg.StoreBackend {
	case config.BackendRedis:
		client, err := redisstore.Connect(ctx, redisstore.Config{Addr: cfg.Redis.Addr, DB: cfg.Redis.DB})
		if err != nil {
			return nil, nil, nil, nil, err
		}
		checks := map[string]handler.DependencyCheck{
			"redis": func(ctx context.Context) error { return client.Ping(ctx).Err() },
		}
		cleanup := func() { _ = client.Close() }
		return redisstore.NewPurchaseStore(client), redisstore.NewUserStore(client), checks, cleanup, nil

	case config.BackendMongo:
		client, db, err := mongostore.Connect(ctx, mongostore.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
		if err != nil {
			return nil, nil, nil, nil, err
		}
		checks := map[string]handler.DependencyCheck{
			"mongodb": func(ctx context.Context) error { return client.Ping(ctx, nil) },
		}
		cleanup := func() { _ = client.Disconnect(context.Background()) }
		return mongostore.NewPurchaseStore(db), mongostore.NewUserStore(db), checks, cleanup, nil

	default:
		return memorystore.NewPurchaseStore(), memorystore.NewUserStore(), nil, func() {}, nil
	}
}
