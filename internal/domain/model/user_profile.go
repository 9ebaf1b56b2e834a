//revive:disable-next-line:var-naming // legacy package name widely used across the project
package model

import (
	"time"

	"github.com/google/uuid"
)

// UserProfile is the locally stored record for an externally authenticated user.
type UserProfile struct {
	ID           uuid.UUID  `json:"id"`
	ObjectID     string     `json:"objectId"`
	Email        string     `json:"email"`
	DisplayName  string     `json:"displayName"`
	Department   string     `json:"department,omitempty"`
	Plant        string     `json:"plant,omitempty"`
	CreatedAt    time.Time  `json:"createdAt"`
	UpdatedAt    *time.Time `json:"updatedAt,omitempty"`
	IsActive     bool       `json:"isActive"`
	LastSignInAt *time.Time `json:"lastSignInAt,omitempty"`
}

// RegistrationResult reports the outcome of a check-and-register call.
// Error is a human-readable message; it is empty on success.
type RegistrationResult struct {
	IsRegistered bool         `json:"isRegistered"`
	WasCreated   bool         `json:"wasCreated"`
	Profile      *UserProfile `json:"profile,omitempty"`
	Error        string       `json:"error,omitempty"`
}
