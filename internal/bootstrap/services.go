package bootstrap

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/redis/go-redis/v9"
	"github.com/target/sharednav/config"
	redisadapter "github.com/target/sharednav/internal/adapters/redis"
	"github.com/target/sharednav/internal/data"
	"github.com/target/sharednav/internal/domain/claims"
	"github.com/target/sharednav/internal/domain/model"
	"github.com/target/sharednav/internal/ports"
	"github.com/target/sharednav/internal/service"
	"golang.org/x/sync/errgroup"
)

// ServiceContainer holds all application services.
type ServiceContainer struct {
	Auth         *service.AuthService
	Plants       *service.PlantSelectionService
	Registration *service.UserRegistrationService
	Values       ports.SessionValueStore
	Claims       *claims.Extractor
}

// ServiceDeps groups dependencies for service initialization.
type ServiceDeps struct {
	Config      *config.AppConfig
	DB          *sql.DB
	RedisClient redis.UniversalClient
	Logger      *slog.Logger
}

// serviceRepositories groups data adapters backing service ports.
type serviceRepositories struct {
	Plants *data.PlantRepo
	Users  *data.UserRepo
	Values *redisadapter.SessionValueStore
}

// buildRepositories builds repositories backing service ports; no business rules here.
func buildRepositories(deps *ServiceDeps) *serviceRepositories {
	repos := &serviceRepositories{}
	if deps.DB != nil {
		repos.Plants = data.NewPlantRepo(deps.DB, deps.Config.Plant.Table)
		repos.Users = data.NewUserRepo(deps.DB, data.UserRepoOptions{Table: deps.Config.Registration.Table})
	}
	if deps.RedisClient != nil {
		repos.Values = redisadapter.NewSessionValueStore(redisadapter.SessionValueStoreOptions{
			Client:  deps.RedisClient,
			Prefix:  deps.Config.Session.KeyPrefix,
			IdleTTL: deps.Config.Session.IdleTTL,
		})
	}
	return repos
}

// NewServices wires repositories into the navigation services.
func NewServices(deps *ServiceDeps) ServiceContainer {
	if deps == nil || deps.Config == nil {
		return ServiceContainer{}
	}
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	cfg := deps.Config
	repos := buildRepositories(deps)

	// Typed nils must not leak into the interface-typed options.
	var values ports.SessionValueStore
	if repos.Values != nil {
		values = repos.Values
	}

	extractor := claims.Default()
	container := ServiceContainer{Values: values, Claims: extractor}

	container.Auth = BuildAuthService(AuthConfig{
		Auth:        cfg.Auth,
		Session:     cfg.Session,
		RedisClient: deps.RedisClient,
		Values:      values,
		Claims:      extractor,
		Logger:      logger,
	})

	if repos.Users != nil {
		container.Registration = service.NewUserRegistrationService(service.UserRegistrationServiceOptions{
			Repo:   repos.Users,
			Logger: logger,
		})
	}

	if repos.Plants != nil {
		opts := service.PlantSelectionServiceOptions{
			Plants:       repos.Plants,
			Cache:        service.NewPlantCache(service.PlantCacheOptions{Expiration: cfg.Plant.CacheExpiration, Logger: logger}),
			Claims:       extractor,
			CookieName:   cfg.Plant.CookieName,
			CookieMaxAge: cfg.Plant.CookieMaxAge,
			Logger:       logger,
		}
		if repos.Users != nil {
			opts.Users = repos.Users
		}
		container.Plants = service.NewPlantSelectionService(opts)
		container.Plants.Subscribe(func(ctx context.Context, ev model.PlantChangedEvent) {
			logger.DebugContext(ctx, "plant changed", "plant_code", ev.PlantCode, "plant_name", ev.PlantName)
		})
	}

	return container
}

// ServiceOrchestrationConfig contains dependencies for running the service.
type ServiceOrchestrationConfig struct {
	Config   *config.AppConfig
	Services ServiceContainer
	Logger   *slog.Logger
}

// RunServicesWithShutdown serves HTTP until SIGINT/SIGTERM or a server
// failure, then shuts the server down gracefully.
func RunServicesWithShutdown(cfg *ServiceOrchestrationConfig) error {
	if cfg == nil {
		return errors.New("service orchestration config is required")
	}
	if cfg.Config == nil {
		return errors.New("service orchestration config missing AppConfig")
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	server := NewHTTPServer(&HTTPServerConfig{
		Config:   cfg.Config,
		Services: cfg.Services,
		Logger:   logger,
	})

	return serve(ctx, server, cfg.Config.HTTP, logger)
}

// serve runs server until ctx is canceled or ListenAndServe fails.
func serve(ctx context.Context, server *http.Server, httpCfg config.HTTPConfig, logger *slog.Logger) error {
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("starting HTTP server", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down services...")
		return ShutdownHTTPServer(ShutdownConfig{
			Context: context.WithoutCancel(gctx),
			Server:  server,
			Timeout: httpCfg.ShutdownTimeout,
			Logger:  logger,
		})
	})

	return g.Wait()
}
