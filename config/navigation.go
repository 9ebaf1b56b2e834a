package config

import (
	"regexp"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

// sqlIdentPattern allows optionally schema-qualified SQL identifiers.
var sqlIdentPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*(\.[A-Za-z_][A-Za-z0-9_]*)?$`)

func validateSQLIdentifier(fl validator.FieldLevel) bool {
	return sqlIdentPattern.MatchString(fl.Field().String())
}

// SessionConfig controls the server-side browser session.
type SessionConfig struct {
	// CookieName is the cookie carrying the opaque session id.
	CookieName string `env:"COOKIE_NAME" envDefault:"session_id" validate:"required"`
	// KeyPrefix namespaces session keys in Redis.
	KeyPrefix string `env:"KEY_PREFIX" envDefault:"session:" validate:"required"`
	// IdleTTL is how long session values survive without writes.
	IdleTTL time.Duration `env:"IDLE_TTL" envDefault:"8h" validate:"gt=0"`
}

// Sanitize applies defaults for blank values.
func (s *SessionConfig) Sanitize() {
	s.CookieName = strings.TrimSpace(s.CookieName)
	if s.CookieName == "" {
		s.CookieName = "session_id"
	}
	if s.KeyPrefix == "" {
		s.KeyPrefix = "session:"
	}
	if s.IdleTTL <= 0 {
		s.IdleTTL = 8 * time.Hour
	}
}

// PlantConfig controls the plant selector.
type PlantConfig struct {
	// Table is the reference table holding plants.
	Table string `env:"TABLE" envDefault:"plants" validate:"sqlident"`
	// CacheExpiration bounds how long a session reuses its cached plant list.
	CacheExpiration time.Duration `env:"CACHE_EXPIRATION" envDefault:"15m" validate:"gt=0"`
	// CookieName is the durable cookie holding the selected plant code.
	CookieName string `env:"COOKIE_NAME" envDefault:"SelectedPlant" validate:"required"`
	// CookieMaxAge is the lifetime of the selection cookie.
	CookieMaxAge time.Duration `env:"COOKIE_MAX_AGE" envDefault:"720h" validate:"gt=0"`
}

// Sanitize applies defaults for blank values.
func (p *PlantConfig) Sanitize() {
	p.Table = strings.TrimSpace(p.Table)
	if p.Table == "" {
		p.Table = "plants"
	}
	if p.CacheExpiration <= 0 {
		p.CacheExpiration = 15 * time.Minute
	}
	if strings.TrimSpace(p.CookieName) == "" {
		p.CookieName = "SelectedPlant"
	}
	if p.CookieMaxAge <= 0 {
		p.CookieMaxAge = 30 * 24 * time.Hour
	}
}

// RegistrationConfig controls automatic user registration.
type RegistrationConfig struct {
	// Table is the profile table.
	Table string `env:"TABLE" envDefault:"user_profiles" validate:"sqlident"`
	// EnableMiddleware toggles the per-request registration hook.
	EnableMiddleware bool `env:"ENABLE_MIDDLEWARE" envDefault:"true"`
	// AutoRegisterUsers toggles profile creation for unseen identities.
	AutoRegisterUsers bool `env:"AUTO_REGISTER_USERS" envDefault:"true"`
	// ExcludedPaths are path prefixes the hook skips (case-insensitive).
	ExcludedPaths []string `env:"EXCLUDED_PATHS" envDefault:"/auth/logout;/auth/signed-out;/api/;/.well-known/;/healthz" envSeparator:";"`
}

// Sanitize trims table names and drops blank excluded paths.
func (r *RegistrationConfig) Sanitize() {
	r.Table = strings.TrimSpace(r.Table)
	if r.Table == "" {
		r.Table = "user_profiles"
	}
	paths := make([]string, 0, len(r.ExcludedPaths))
	for _, p := range r.ExcludedPaths {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			paths = append(paths, trimmed)
		}
	}
	r.ExcludedPaths = paths
}
