package httpx

import (
	"log/slog"
	"net/http"

	"github.com/target/sharednav/internal/domain/claims"
	"github.com/target/sharednav/internal/ports"
	"github.com/target/sharednav/internal/service"
)

// RouterServices holds all the services needed by the HTTP router.
type RouterServices struct {
	Auth         *service.AuthService
	Plants       *service.PlantSelectionService
	Registration *service.UserRegistrationService
	// Values is the per-session value store shared by selection and registration.
	Values ports.SessionValueStore
	Claims *claims.Extractor

	CookieDomain      string
	SessionCookieName string
	LogoutURL         string

	// Registration middleware switches.
	RegistrationEnabled bool
	AutoRegisterUsers   bool
	ExcludedPaths       []string

	// CSRFEnabled guards state-changing selector calls with a double-submit token.
	CSRFEnabled bool

	Logger *slog.Logger
}

// NewRouter creates and configures a new HTTP router.
func NewRouter(services RouterServices) http.Handler {
	mux := http.NewServeMux()

	mux.Handle("GET /healthz", http.HandlerFunc(healthHandler))
	mux.Handle("HEAD /healthz", http.HandlerFunc(healthHandler))

	var authSvc AuthServiceInterface
	if services.Auth != nil {
		authSvc = services.Auth
		registerAuthRoutes(mux, &AuthHandlers{
			Svc:               services.Auth,
			CookieDomain:      services.CookieDomain,
			SessionCookieName: services.SessionCookieName,
			LogoutURL:         services.LogoutURL,
			Logger:            services.Logger,
		})
	}

	if services.Plants != nil {
		registerPlantRoutes(mux, &PlantHandlers{
			Svc:          services.Plants,
			Values:       services.Values,
			CookieDomain: services.CookieDomain,
			Logger:       services.Logger,
		}, plantRouteConfig{
			Auth:         authSvc,
			CookieName:   services.SessionCookieName,
			CookieDomain: services.CookieDomain,
			CSRF:         services.CSRFEnabled,
		})
	}

	var registration func(http.Handler) http.Handler
	if services.Registration != nil {
		registration = UserRegistration(RegistrationConfig{
			Registrar:     services.Registration,
			Values:        services.Values,
			Claims:        services.Claims,
			Enabled:       services.RegistrationEnabled,
			AutoRegister:  services.AutoRegisterUsers,
			ExcludedPaths: services.ExcludedPaths,
			Logger:        services.Logger,
		})
	}

	var optionalAuth func(http.Handler) http.Handler
	if authSvc != nil {
		optionalAuth = OptionalAuth(authSvc, services.SessionCookieName)
	}

	return Chain(mux, optionalAuth, registration)
}

// plantRouteConfig holds configuration for plant route registration.
type plantRouteConfig struct {
	Auth         AuthServiceInterface
	CookieName   string
	CookieDomain string
	CSRF         bool
}

// authWrap returns a no-op wrapper when auth is nil, otherwise applies RequireAuth.
func (cfg plantRouteConfig) authWrap() func(http.Handler) http.Handler {
	if cfg.Auth == nil {
		return func(h http.Handler) http.Handler { return h }
	}
	return RequireAuth(cfg.Auth, cfg.CookieName)
}

// csrfWrap layers CSRF protection under authWrap when enabled. Safe methods
// pass through and receive the token cookie that later POSTs must echo.
func (cfg plantRouteConfig) csrfWrap() func(http.Handler) http.Handler {
	auth := cfg.authWrap()
	if !cfg.CSRF {
		return auth
	}
	csrf := CSRFProtection(CSRFConfig{CookieDomain: cfg.CookieDomain})
	return func(h http.Handler) http.Handler {
		return auth(csrf(h))
	}
}

func registerPlantRoutes(mux *http.ServeMux, h *PlantHandlers, cfg plantRouteConfig) {
	wrap := cfg.csrfWrap()
	mux.Handle("GET /_plantselector/plants", wrap(http.HandlerFunc(h.Plants)))
	mux.Handle("GET /_plantselector/current", wrap(http.HandlerFunc(h.Current)))
	mux.Handle("GET /_plantselector/test", wrap(http.HandlerFunc(h.Test)))
	mux.Handle("POST /_plantselector/changeplant", wrap(http.HandlerFunc(h.ChangePlant)))
	mux.Handle("POST /_plantselector/refresh", wrap(http.HandlerFunc(h.Refresh)))
}

func registerAuthRoutes(mux *http.ServeMux, h *AuthHandlers) {
	mux.HandleFunc("GET /auth/login", h.Login)
	mux.HandleFunc("GET /auth/callback", h.Callback)
	mux.HandleFunc("POST /auth/logout", h.Logout)
	mux.HandleFunc("GET /auth/status", h.Status)
}
