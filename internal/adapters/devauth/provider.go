package devauth

// Package devauth provides a simple, config-driven AuthProvider for local development.

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"time"

	"github.com/target/sharednav/internal/domain/auth"
	"github.com/target/sharednav/internal/ports"
)

// Config controls the dev auth provider behavior.
// ObjectID and Email are required; Plant and Department become custom claims when set.
type Config struct {
	ObjectID        string
	Email           string
	DisplayName     string
	Plant           string
	Department      string
	SessionDuration time.Duration // default 8h when zero
}

// Provider implements ports.AuthProvider for local development.
// It short-circuits the OAuth flow by redirecting back to our own callback
// with locally generated state and nonce.
// Exchange ignores the code and returns the configured identity.
type Provider struct {
	identity        auth.Identity
	sessionDuration time.Duration
	now             func() time.Time
}

// NewProvider constructs a dev auth provider from Config.
func NewProvider(cfg Config) (*Provider, error) {
	if cfg.ObjectID == "" {
		return nil, errors.New("dev auth: ObjectID is required")
	}
	if cfg.Email == "" {
		return nil, errors.New("dev auth: Email is required")
	}
	dur := cfg.SessionDuration
	if dur == 0 {
		dur = 8 * time.Hour
	}

	// claim names mirror what the production IdP issues
	claimSet := map[string]any{
		"oid":                cfg.ObjectID,
		"preferred_username": cfg.Email,
	}
	if cfg.DisplayName != "" {
		claimSet["name"] = cfg.DisplayName
	}
	if cfg.Plant != "" {
		claimSet["custom_plant"] = cfg.Plant
	}
	if cfg.Department != "" {
		claimSet["custom_department"] = cfg.Department
	}

	return &Provider{
		identity: auth.Identity{
			ObjectID:    cfg.ObjectID,
			Email:       cfg.Email,
			DisplayName: cfg.DisplayName,
			Claims:      claimSet,
		},
		sessionDuration: dur,
		now:             time.Now,
	}, nil
}

// Begin returns a local callback URL and cryptographically secure state and nonce.
func (p *Provider) Begin(_ context.Context, _ ports.BeginInput) (string, string, string, error) {
	state, err := randomString(24)
	if err != nil {
		return "", "", "", fmt.Errorf("generate state: %w", err)
	}
	nonce, err := randomString(24)
	if err != nil {
		return "", "", "", fmt.Errorf("generate nonce: %w", err)
	}
	// Our standard handler expects GET /auth/callback?code=...&state=...
	return "/auth/callback?code=dev&state=" + state, state, nonce, nil
}

// Exchange ignores the provided code/state/nonce (validation handled by handler) and returns the dev identity.
// Each call gets a fresh expiry and its own copy of the claims.
func (p *Provider) Exchange(_ context.Context, _ ports.ExchangeInput) (auth.Identity, error) {
	id := p.identity
	id.Claims = make(map[string]any, len(p.identity.Claims))
	for k, v := range p.identity.Claims {
		id.Claims[k] = v
	}
	id.ExpiresAt = p.now().Add(p.sessionDuration)
	return id, nil
}

func randomString(n int) (string, error) {
	if n <= 0 {
		return "", nil
	}
	b := make([]byte, (n*3+3)/4+1)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b)[:n], nil
}
