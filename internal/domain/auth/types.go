package auth

// Package auth contains domain-level types for authentication and sessions.
// It is pure and free of framework/adapter concerns.

import "time"

// Identity represents the authenticated principal returned by an IdP.
// Adapters copy the raw token claims into Claims; field extraction happens
// in the claims package so the fallback order stays in one place.
type Identity struct {
	ObjectID    string // stable external identifier (oid or sub)
	Email       string
	DisplayName string
	Claims      map[string]any
	ExpiresAt   time.Time // absolute expiry from IdP token
}

// Session is the server-side record we persist for an authenticated user.
// ID is an opaque session identifier (e.g., random URL-safe string).
type Session struct {
	ID          string         `json:"id"`
	ObjectID    string         `json:"object_id"`
	Email       string         `json:"email"`
	DisplayName string         `json:"display_name"`
	Claims      map[string]any `json:"claims,omitempty"`
	ExpiresAt   time.Time      `json:"expires_at"`
}

// Expired reports whether the session is past its expiry at now.
func (s Session) Expired(now time.Time) bool {
	return !s.ExpiresAt.IsZero() && !now.Before(s.ExpiresAt)
}

// Name returns the best human-readable label for the session owner.
func (s Session) Name() string {
	if s.DisplayName != "" {
		return s.DisplayName
	}
	if s.Email != "" {
		return s.Email
	}
	return s.ObjectID
}
