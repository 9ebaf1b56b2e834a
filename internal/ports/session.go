package ports

import (
	"context"
	"time"
)

// SessionValues is the string-keyed state channel of one session.
// Multi-key writes and removals are applied atomically so paired entries
// (such as a cached payload and its timestamp) never diverge.
type SessionValues interface {
	// Get returns the value for key and whether it was present.
	Get(ctx context.Context, key string) (string, bool, error)
	// GetValues returns the present subset of keys.
	GetValues(ctx context.Context, keys ...string) (map[string]string, error)
	SetValues(ctx context.Context, values map[string]string) error
	RemoveValues(ctx context.Context, keys ...string) error
}

// SessionValueStore opens the value channel for a session id.
type SessionValueStore interface {
	ForSession(sessionID string) SessionValues
	// Drop removes every value held for the session.
	Drop(ctx context.Context, sessionID string) error
}

// CookieChannel reads request cookies and writes response cookies.
type CookieChannel interface {
	Read(name string) (string, bool)
	Write(name, value string, maxAge time.Duration) error
}
