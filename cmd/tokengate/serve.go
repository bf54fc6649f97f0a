package main

import (
	"context"
	"log/slog"

	"tokengate/config"
	"tokengate/internal/delivery"
	"tokengate/internal/delivery/api"
	apimiddleware "tokengate/internal/delivery/api/middleware"
	"tokengate/internal/delivery/api/router/handler"
	"tokengate/internal/infra/auth"
	logs "tokengate/internal/infra/log"
	"tokengate/internal/infra/persistence/memory"
	"tokengate/internal/infra/persistence/postgres"
	"tokengate/internal/usecase/impl"

	"github.com/spf13/cobra"
	"go.uber.org/fx"
)

type startServerParams struct {
	fx.In

	Shutdowner fx.Shutdowner
	Logger     *slog.Logger
	Deliveries []delivery.Delivery `group:"deliveries"`
}

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe()
		},
	}
}

// runServe loads configuration before building the app so a missing secret fails fast.
func runServe() error {
	cfg, err := config.New()
	if err != nil {
		return err
	}

	fx.New(appOptions(cfg)...).Run()

	return nil
}

func appOptions(cfg *config.Config) []fx.Option {
	return []fx.Option{
		injectInfra(cfg),
		injectRepo(cfg),
		injectService(),
		injectUsecase(),
		injectDelivery(),
		injectMiddleware(),
		injectHandler(),
		fx.Invoke(
			startServer,
		),
	}
}

func injectInfra(cfg *config.Config) fx.Option {
	return fx.Options(
		fx.Supply(cfg),
		fx.Provide(
			logs.New,
			context.Background,
		),
	)
}

// injectRepo wires the user store selected by storage.driver.
func injectRepo(cfg *config.Config) fx.Option {
	if cfg.Storage.Driver == config.StorageDriverMemory {
		return fx.Provide(
			memory.NewStore,
			memory.NewUserRepository,
			memory.NewTransactionManager,
		)
	}

	return fx.Provide(
		postgres.New,
		postgres.NewUserRepository,
		postgres.NewTransactionManager,
	)
}

func injectService() fx.Option {
	return fx.Provide(
		auth.NewBcryptHasher,
		auth.NewJWTService,
	)
}

func injectUsecase() fx.Option {
	return fx.Provide(
		impl.NewAuthService,
	)
}

func injectMiddleware() fx.Option {
	return fx.Provide(
		apimiddleware.NewCookieAuthMiddleware,
	)
}

func injectHandler() fx.Option {
	return fx.Provide(
		handler.NewAuthHandler,
	)
}

func injectDelivery() fx.Option {
	return fx.Provide(
		fx.Annotate(
			api.NewServer,
			fx.ResultTags(`group:"deliveries"`),
		),
	)
}

func startServer(ctx context.Context, params startServerParams) {
	for _, d := range params.Deliveries {
		go func() {
			if err := d.Serve(ctx); err != nil {
				params.Logger.Error("Failed to start server", slog.Any("error", err))
				_ = params.Shutdowner.Shutdown(fx.ExitCode(1))
			}
		}()
	}
}
