// Package core defines the repository ports the navigation services depend on.
package core

import (
	"context"
	"errors"

	"github.com/target/sharednav/internal/domain/model"
)

// This file contains repository interface definitions (ports in hexagonal architecture).
// These interfaces define the contracts between the service layer and data layer.
// Service implementations should depend on these interfaces, not concrete implementations.

// ErrUserProfileNotFound is returned by UserRepository lookups that match no active profile.
var ErrUserProfileNotFound = errors.New("user profile not found")

// PlantRepository is the read-only reference store for plants.
type PlantRepository interface {
	// List returns every plant ordered by plant code. Failures are data source errors.
	List(ctx context.Context) ([]model.Plant, error)
}

// UserRepository persists user profiles keyed by external object id.
type UserRepository interface {
	// GetByObjectID returns ErrUserProfileNotFound when no active profile exists.
	GetByObjectID(ctx context.Context, objectID string) (*model.UserProfile, error)
	GetByEmail(ctx context.Context, email string) (*model.UserProfile, error)
	Create(ctx context.Context, p *model.UserProfile) (*model.UserProfile, error)
	Update(ctx context.Context, p *model.UserProfile) (*model.UserProfile, error)
	Exists(ctx context.Context, objectID string) (bool, error)
}
