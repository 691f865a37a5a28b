package main

import (
	"context"
	"log/slog"
	"os"

	"nerves/config"
	"nerves/internal/delivery"
	"nerves/internal/delivery/http"
	"nerves/internal/delivery/http/middleware"
	"nerves/internal/delivery/http/router/handler"
	"nerves/internal/infra/auth"
	"nerves/internal/infra/chat"
	logs "nerves/internal/infra/log"
	"nerves/internal/infra/persistence/postgres"
	"nerves/internal/metrics"
	"nerves/internal/security"
	"nerves/internal/usecase/impl"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/fx"
)

type startServerParams struct {
	fx.In
	fx.Lifecycle
	fx.Shutdowner

	Deliveries []delivery.Delivery `group:"deliveries"`
}

func main() {
	fx.New(
		injectInfra(),
		injectRepo(),
		injectService(),
		injectUsecase(),
		injectMiddleware(),
		injectHandler(),
		injectDelivery(),
		fx.Invoke(
			startServer,
		),
	).Run()
}

func injectInfra() fx.Option {
	return fx.Provide(
		config.New,
		// Expose the auth and chat sub-configs for their clients
		func(cfg *config.Config) *config.AuthConfig {
			if cfg == nil || cfg.Auth == nil {
				return &config.AuthConfig{}
			}

			return cfg.Auth
		},
		func(cfg *config.Config) *config.ChatConfig {
			if cfg == nil || cfg.Chat == nil {
				return &config.ChatConfig{}
			}

			return cfg.Chat
		},
		logs.New,
		context.Background,
		postgres.New,
		prometheus.NewRegistry,
		func(reg *prometheus.Registry) prometheus.Registerer { return reg },
		func(reg *prometheus.Registry) prometheus.Gatherer { return reg },
		func(reg prometheus.Registerer) metrics.Collector { return metrics.NewCollector(reg) },
	)
}

func injectRepo() fx.Option {
	return fx.Options(
		fx.Provide(
			postgres.NewTransactionManager,
		),
	)
}

func injectService() fx.Option {
	return fx.Options(
		fx.Provide(
			auth.NewClient,
			chat.NewClient,
			security.NewContentSanitizer,
		),
	)
}

func injectUsecase() fx.Option {
	return fx.Options(
		fx.Provide(
			impl.NewAccountService,
			impl.NewEntryService,
			impl.NewChatService,
		),
	)
}

func injectMiddleware() fx.Option {
	return fx.Options(
		fx.Provide(
			middleware.NewErrorMiddleware,
			middleware.NewAuthMiddleware,
			middleware.NewRateLimitMiddleware,
			middleware.NewRequestIDMiddleware,
			middleware.NewMetricsMiddleware,
		),
	)
}

func injectHandler() fx.Option {
	return fx.Options(
		fx.Provide(
			handler.NewAuthHandler,
			handler.NewEntryHandler,
			handler.NewChatHandler,
		),
	)
}

func injectDelivery() fx.Option {
	return fx.Options(
		fx.Provide(
			fx.Annotate(
				http.NewServer,
				fx.ResultTags(`group:"deliveries"`),
			),
		),
	)
}

func startServer(ctx context.Context, params startServerParams) {
	for _, delivery := range params.Deliveries {
		go func() {
			if err := delivery.Serve(ctx); err != nil {
				slog.Error("Failed to start server", slog.Any("error", err))

				// Trigger graceful shutdown to execute all OnStop hooks
				if shutdownErr := params.Shutdown(); shutdownErr != nil {
					slog.Error("Failed to shutdown gracefully", slog.Any("error", shutdownErr))
					os.Exit(1)
				}
			}
		}()
	}
}
