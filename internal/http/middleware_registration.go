package httpx

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/target/sharednav/internal/domain/claims"
	"github.com/target/sharednav/internal/domain/model"
	"github.com/target/sharednav/internal/ports"
	"github.com/target/sharednav/internal/service"
)

// Registrar is the subset of service.UserRegistrationService the middleware needs.
type Registrar interface {
	CheckAndRegister(ctx context.Context, objectID, email, displayName string) model.RegistrationResult
}

// RegistrationConfig configures UserRegistration.
type RegistrationConfig struct {
	Registrar Registrar
	// Values receives profile fields after a successful registration; optional.
	Values ports.SessionValueStore
	Claims *claims.Extractor

	Enabled      bool
	AutoRegister bool
	// ExcludedPaths are case-insensitive path prefixes that skip registration.
	ExcludedPaths []string
	Logger        *slog.Logger
}

// UserRegistration returns a middleware that makes sure every authenticated
// caller has a local profile. It never fails the request; problems are logged.
// It must run after OptionalAuth so the session is in the context.
func UserRegistration(cfg RegistrationConfig) func(http.Handler) http.Handler {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	extractor := cfg.Claims
	if extractor == nil {
		extractor = claims.Default()
	}
	excluded := make([]string, 0, len(cfg.ExcludedPaths))
	for _, p := range cfg.ExcludedPaths {
		if p = strings.ToLower(strings.TrimSpace(p)); p != "" {
			excluded = append(excluded, p)
		}
	}

	return func(next http.Handler) http.Handler {
		if !cfg.Enabled || cfg.Registrar == nil {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if isExcludedPath(r.URL.Path, excluded) {
				next.ServeHTTP(w, r)
				return
			}
			session, ok := GetUserSessionFromContext(r.Context())
			if !ok {
				next.ServeHTTP(w, r)
				return
			}

			principal := extractor.Resolve(session.Claims)
			objectID := firstNonEmpty(principal.ObjectID, session.ObjectID)
			if objectID == "" || !cfg.AutoRegister {
				next.ServeHTTP(w, r)
				return
			}
			email := firstNonEmpty(principal.Email, session.Email)
			displayName := firstNonEmpty(principal.DisplayName, session.DisplayName)

			res := cfg.Registrar.CheckAndRegister(r.Context(), objectID, email, displayName)
			switch {
			case res.Error != "":
				logger.WarnContext(r.Context(), "user registration failed", "object_id", objectID, "error", res.Error)
			case res.WasCreated:
				logger.InfoContext(r.Context(), "user auto-registered", "object_id", objectID)
			}

			if res.IsRegistered && res.Profile != nil && cfg.Values != nil {
				storeProfileValues(r.Context(), cfg.Values.ForSession(session.ID), res.Profile, logger)
			}

			next.ServeHTTP(w, r)
		})
	}
}

func storeProfileValues(ctx context.Context, values ports.SessionValues, p *model.UserProfile, logger *slog.Logger) {
	err := values.SetValues(ctx, map[string]string{
		service.SessionKeyProfileDepartment:  p.Department,
		service.SessionKeyProfilePlant:       p.Plant,
		service.SessionKeyProfileUserID:      p.ID.String(),
		service.SessionKeyProfileEmail:       p.Email,
		service.SessionKeyProfileDisplayName: p.DisplayName,
	})
	if err != nil {
		logger.WarnContext(ctx, "store profile in session", "object_id", p.ObjectID, "error", err)
		return
	}
	logger.DebugContext(ctx, "stored profile in session",
		"object_id", p.ObjectID,
		"department", p.Department,
		"plant_code", p.Plant,
	)
}

func isExcludedPath(path string, prefixes []string) bool {
	path = strings.ToLower(path)
	for _, p := range prefixes {
		if strings.HasPrefix(path, p) {
			return true
		}
	}
	return false
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
