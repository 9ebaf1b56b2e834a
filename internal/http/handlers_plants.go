package httpx

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/target/sharednav/internal/domain/model"
	apperrors "github.com/target/sharednav/internal/errors"
	"github.com/target/sharednav/internal/ports"
	"github.com/target/sharednav/internal/service"
)

// PlantSelector is the subset of service.PlantSelectionService used by the handlers.
type PlantSelector interface {
	ListPlants(ctx context.Context, sc *service.SelectionContext) []model.Plant
	CurrentPlant(ctx context.Context, sc *service.SelectionContext) (*model.Plant, bool)
	SetCurrentPlant(ctx context.Context, sc *service.SelectionContext, code string) (*model.Plant, error)
	Refresh(ctx context.Context, sc *service.SelectionContext) (int, error)
	DefaultPlantCode(ctx context.Context, sc *service.SelectionContext) string
}

// PlantHandlers serves the /_plantselector API.
type PlantHandlers struct {
	Svc PlantSelector
	// Values resolves the per-session value hash. Without it there is no
	// session to hold a selection and changeplant answers 500.
	Values       ports.SessionValueStore
	CookieDomain string
	Logger       *slog.Logger
	Now          func() time.Time
}

type changePlantRequest struct {
	PlantCode string `json:"plantCode"`
}

func (h *PlantHandlers) logger() *slog.Logger {
	if h != nil && h.Logger != nil {
		return h.Logger
	}
	return slog.Default()
}

func (h *PlantHandlers) now() time.Time {
	if h.Now != nil {
		return h.Now()
	}
	return time.Now()
}

// selection builds the per-request state handed to the plant service.
func (h *PlantHandlers) selection(w http.ResponseWriter, r *http.Request) *service.SelectionContext {
	sc := &service.SelectionContext{Cookies: NewCookieChannel(w, r, h.CookieDomain)}
	if session, ok := GetUserSessionFromContext(r.Context()); ok {
		sc.ObjectID = session.ObjectID
		sc.Claims = session.Claims
		if h.Values != nil {
			sc.Values = h.Values.ForSession(session.ID)
		}
	}
	return sc
}

// Plants lists every plant, flagging the caller's default.
// GET /_plantselector/plants.
func (h *PlantHandlers) Plants(w http.ResponseWriter, r *http.Request) {
	sc := h.selection(w, r)
	plants := h.Svc.ListPlants(r.Context(), sc)
	plants = service.WithDefaultFlag(plants, h.Svc.DefaultPlantCode(r.Context(), sc))

	WriteJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"count":   len(plants),
		"data":    plants,
	})
}

// Current returns the selected plant, or null data when none resolves.
// GET /_plantselector/current.
func (h *PlantHandlers) Current(w http.ResponseWriter, r *http.Request) {
	plant, ok := h.Svc.CurrentPlant(r.Context(), h.selection(w, r))
	if !ok {
		WriteJSON(w, http.StatusOK, map[string]any{
			"success": true,
			"data":    nil,
			"message": "No plant selected",
		})
		return
	}
	WriteJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"data":    plant,
	})
}

// ChangePlant commits a new selection.
// POST /_plantselector/changeplant with body {"plantCode": "..."}.
func (h *PlantHandlers) ChangePlant(w http.ResponseWriter, r *http.Request) {
	var req changePlantRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger().WarnContext(r.Context(), "change plant request with unreadable body", "error", err)
		writePlantFailure(w, http.StatusBadRequest, "Plant code is required")
		return
	}

	sc := h.selection(w, r)
	plant, err := h.Svc.SetCurrentPlant(r.Context(), sc, req.PlantCode)
	if err != nil {
		status, msg := plantErrorResponse(err, "An error occurred while changing plant. Please try again.")
		h.logger().WarnContext(r.Context(), "change plant failed",
			"object_id", sc.ObjectID,
			"plant_code", req.PlantCode,
			"status", status,
			"error", err,
		)
		writePlantFailure(w, status, msg)
		return
	}

	WriteJSON(w, http.StatusOK, map[string]any{
		"success":   true,
		"message":   "Plant changed successfully",
		"plantCode": plant.PlantCode,
		"plantName": plant.Name,
		"plant":     plant,
	})
}

// Refresh reloads the caller's cached plant list.
// POST /_plantselector/refresh.
func (h *PlantHandlers) Refresh(w http.ResponseWriter, r *http.Request) {
	sc := h.selection(w, r)
	count, err := h.Svc.Refresh(r.Context(), sc)
	if err != nil {
		h.logger().ErrorContext(r.Context(), "refresh plants failed", "object_id", sc.ObjectID, "error", err)
		writePlantFailure(w, http.StatusInternalServerError, "Error refreshing plants. Please try again.")
		return
	}
	WriteJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "Plants refreshed successfully",
		"count":   count,
	})
}

// Test is a liveness check for the selector API.
// GET /_plantselector/test.
func (h *PlantHandlers) Test(w http.ResponseWriter, r *http.Request) {
	user := "Anonymous"
	if session, ok := GetUserSessionFromContext(r.Context()); ok {
		if name := session.Name(); name != "" {
			user = name
		}
	}
	WriteJSON(w, http.StatusOK, map[string]any{
		"success":   true,
		"message":   "PlantSelector is working!",
		"timestamp": h.now().UTC(),
		"user":      user,
	})
}

// plantErrorResponse maps a service error to a status and client message.
// Only caller-correctable errors expose their own message.
func plantErrorResponse(err error, fallback string) (int, string) {
	var appErr *apperrors.AppError
	switch {
	case apperrors.IsValidation(err) && errors.As(err, &appErr):
		return http.StatusBadRequest, appErr.Message
	case apperrors.IsInvalidSelection(err) && errors.As(err, &appErr):
		return http.StatusNotFound, appErr.Message
	default:
		return http.StatusInternalServerError, fallback
	}
}

func writePlantFailure(w http.ResponseWriter, status int, message string) {
	WriteJSON(w, status, map[string]any{
		"success": false,
		"message": message,
	})
}
