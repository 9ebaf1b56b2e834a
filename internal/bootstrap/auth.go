package bootstrap

import (
	"log/slog"

	"github.com/redis/go-redis/v9"
	"github.com/target/sharednav/config"
	"github.com/target/sharednav/internal/adapters/devauth"
	"github.com/target/sharednav/internal/adapters/oidc"
	redisadapter "github.com/target/sharednav/internal/adapters/redis"
	"github.com/target/sharednav/internal/domain/claims"
	"github.com/target/sharednav/internal/ports"
	"github.com/target/sharednav/internal/service"
)

// AuthConfig contains configuration for auth service.
type AuthConfig struct {
	Auth        config.AuthConfig
	Session     config.SessionConfig
	RedisClient redis.UniversalClient
	// Values is dropped alongside the session on logout; optional.
	Values ports.SessionValueStore
	Claims *claims.Extractor
	Logger *slog.Logger
}

// BuildAuthService creates an auth service based on the configured auth mode.
// Returns nil if auth is not configured or configuration is invalid.
func BuildAuthService(cfg AuthConfig) *service.AuthService {
	if cfg.RedisClient == nil {
		if cfg.Logger != nil {
			cfg.Logger.Warn("auth service disabled: redis client not configured", "mode", cfg.Auth.Mode)
		}
		return nil
	}

	sessionStore := redisadapter.NewSessionStoreWithPrefix(cfg.RedisClient, cfg.Session.KeyPrefix)

	var provider ports.AuthProvider
	switch cfg.Auth.Mode {
	case config.AuthModeMock:
		provider = buildDevAuthProvider(cfg)
	case config.AuthModeOAuth:
		provider = buildOAuthProvider(cfg)
	}
	if provider == nil {
		return nil
	}

	return service.NewAuthService(service.AuthServiceOptions{
		Provider:   provider,
		Sessions:   sessionStore,
		Values:     cfg.Values,
		SessionTTL: cfg.Session.IdleTTL,
	})
}

//nolint:ireturn // callers only need the port.
func buildDevAuthProvider(cfg AuthConfig) ports.AuthProvider {
	dev := cfg.Auth.DevAuth
	prov, err := devauth.NewProvider(devauth.Config{
		ObjectID:    dev.ObjectID,
		Email:       dev.Email,
		DisplayName: dev.DisplayName,
		Plant:       dev.Plant,
		Department:  dev.Department,
		// session duration defaults inside provider
	})
	if err != nil {
		if cfg.Logger != nil {
			cfg.Logger.Warn("failed to create dev auth provider, auth disabled", "error", err)
		}
		return nil
	}
	return prov
}

//nolint:ireturn // callers only need the port.
func buildOAuthProvider(cfg AuthConfig) ports.AuthProvider {
	// Only enable when fully configured
	oauth := cfg.Auth.OAuth
	if oauth.DiscoveryURL == "" || oauth.ClientID == "" || oauth.ClientSecret == "" {
		if cfg.Logger != nil {
			cfg.Logger.Warn("AuthModeOAuth selected but required config missing; auth disabled",
				"discovery_url_empty", oauth.DiscoveryURL == "",
				"client_id_empty", oauth.ClientID == "",
				"client_secret_empty", oauth.ClientSecret == "",
			)
		}
		return nil
	}

	prov, err := oidc.NewProvider(oidc.ProviderConfig{
		ClientID:     oauth.ClientID,
		ClientSecret: oauth.ClientSecret,
		RedirectURL:  oauth.RedirectURL,
		Scope:        oauth.Scope,
		DiscoveryURL: oauth.DiscoveryURL,
		Extractor:    cfg.Claims,
	})
	if err != nil {
		if cfg.Logger != nil {
			cfg.Logger.Warn("failed to create OIDC provider, auth disabled", "error", err)
		}
		return nil
	}
	return prov
}
