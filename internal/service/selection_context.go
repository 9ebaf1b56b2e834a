package service

import (
	"github.com/target/sharednav/internal/ports"
)

// Session value keys shared by the plant and registration services.
const (
	SessionKeySelectedPlant      = "SelectedPlant_Id"
	SessionKeyPlantsCache        = "Plants_Cache"
	SessionKeyPlantsCacheStamp   = "Plants_Cache_Timestamp"
	SessionKeyProfileDepartment  = "Department"
	SessionKeyProfilePlant       = "Plant"
	SessionKeyProfileUserID      = "UserId"
	SessionKeyProfileEmail       = "Email"
	SessionKeyProfileDisplayName = "DisplayName"
)

// SelectionContext carries the per-request state channels and principal that
// plant selection operates on. Build one per request; it is not shared.
type SelectionContext struct {
	// Values is the session's value channel; nil means no session.
	Values ports.SessionValues
	// Cookies is the request/response cookie channel; nil means none.
	Cookies ports.CookieChannel
	// ObjectID and Claims describe the authenticated principal, when any.
	ObjectID string
	Claims   map[string]any
}

func (sc *SelectionContext) values() ports.SessionValues {
	if sc == nil {
		return nil
	}
	return sc.Values
}

func (sc *SelectionContext) cookies() ports.CookieChannel {
	if sc == nil {
		return nil
	}
	return sc.Cookies
}

func (sc *SelectionContext) claims() map[string]any {
	if sc == nil {
		return nil
	}
	return sc.Claims
}

func (sc *SelectionContext) objectID() string {
	if sc == nil {
		return ""
	}
	return sc.ObjectID
}
