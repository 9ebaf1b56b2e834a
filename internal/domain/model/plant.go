//revive:disable-next-line:var-naming // legacy package name widely used across the project
package model

import (
	"strings"
	"time"
)

// Plant is a physical site/facility the application partitions data by.
// Values are treated as immutable once loaded into a cache generation.
//
// JSON names match what existing navigation clients read, including the
// "longtitude" spelling.
type Plant struct {
	PlantCode string   `json:"plantCode"`
	Name      string   `json:"name"`
	Location  string   `json:"location"`
	Country   string   `json:"country"`
	Latitude  *float64 `json:"latitude,omitempty"`
	Longitude *float64 `json:"longtitude,omitempty"`
	IsDefault bool     `json:"isDefault"`
}

// FindPlant returns the plant whose code matches exactly.
func FindPlant(plants []Plant, code string) (*Plant, bool) {
	for i := range plants {
		if plants[i].PlantCode == code {
			p := plants[i]
			return &p, true
		}
	}
	return nil, false
}

// SamePlantCode compares two plant codes ignoring case and surrounding space.
func SamePlantCode(a, b string) bool {
	return strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b))
}

// PlantChangedEvent is published after a selection has been committed to
// both the session and the cookie.
type PlantChangedEvent struct {
	PlantCode string    `json:"plantCode"`
	PlantName string    `json:"plantName"`
	Plant     Plant     `json:"plant"`
	Timestamp time.Time `json:"timestamp"`
}
