package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/target/sharednav/internal/core"
	"github.com/target/sharednav/internal/domain/claims"
	"github.com/target/sharednav/internal/domain/model"
	apperrors "github.com/target/sharednav/internal/errors"
)

// Selection cookie defaults.
const (
	DefaultPlantCookieName   = "SelectedPlant"
	DefaultPlantCookieMaxAge = 30 * 24 * time.Hour
)

// PlantSelectionServiceOptions groups dependencies for PlantSelectionService.
type PlantSelectionServiceOptions struct {
	Plants core.PlantRepository
	// Users is optional; without it the default plant comes from claims only.
	Users  core.UserRepository
	Cache  *PlantCache
	Events *PlantEvents
	Claims *claims.Extractor

	CookieName   string
	CookieMaxAge time.Duration
	Now          func() time.Time
	Logger       *slog.Logger
}

// PlantSelectionService lists plants and tracks the current selection for a
// session. It holds no per-session state; every call receives the request's
// SelectionContext.
type PlantSelectionService struct {
	plants       core.PlantRepository
	users        core.UserRepository
	cache        *PlantCache
	events       *PlantEvents
	claims       *claims.Extractor
	cookieName   string
	cookieMaxAge time.Duration
	now          func() time.Time
	logger       *slog.Logger
}

// NewPlantSelectionService constructs a PlantSelectionService.
func NewPlantSelectionService(opts PlantSelectionServiceOptions) *PlantSelectionService {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	cache := opts.Cache
	if cache == nil {
		cache = NewPlantCache(PlantCacheOptions{Now: now, Logger: logger})
	}
	events := opts.Events
	if events == nil {
		events = NewPlantEvents(logger)
	}
	extractor := opts.Claims
	if extractor == nil {
		extractor = claims.Default()
	}
	name := strings.TrimSpace(opts.CookieName)
	if name == "" {
		name = DefaultPlantCookieName
	}
	maxAge := opts.CookieMaxAge
	if maxAge <= 0 {
		maxAge = DefaultPlantCookieMaxAge
	}
	return &PlantSelectionService{
		plants:       opts.Plants,
		users:        opts.Users,
		cache:        cache,
		events:       events,
		claims:       extractor,
		cookieName:   name,
		cookieMaxAge: maxAge,
		now:          now,
		logger:       logger.With("component", "plant_selection"),
	}
}

// Events exposes the change notification list.
func (s *PlantSelectionService) Events() *PlantEvents { return s.events }

// Subscribe registers fn for committed selections.
func (s *PlantSelectionService) Subscribe(fn PlantChangedHandler) func() {
	return s.events.Subscribe(fn)
}

// CookieName reports the selection cookie name.
func (s *PlantSelectionService) CookieName() string { return s.cookieName }

// ListPlants returns the session's cached list when valid, otherwise the
// reference store's list. It never fails; a fetch failure yields an empty slice.
func (s *PlantSelectionService) ListPlants(ctx context.Context, sc *SelectionContext) []model.Plant {
	plants, err := s.loadPlants(ctx, sc)
	if err != nil {
		s.logger.ErrorContext(ctx, "list plants failed", "object_id", sc.objectID(), "error", err)
		return []model.Plant{}
	}
	return plants
}

func (s *PlantSelectionService) loadPlants(ctx context.Context, sc *SelectionContext) ([]model.Plant, error) {
	values := sc.values()
	if cached, ok := s.cache.Get(ctx, values); ok {
		return cached, nil
	}
	if s.plants == nil {
		return nil, apperrors.DataSource(errors.New("no plant repository configured"), "list plants")
	}
	plants, err := s.plants.List(ctx)
	if err != nil {
		if !apperrors.IsDataSource(err) {
			err = apperrors.DataSource(err, "list plants")
		}
		return nil, err
	}
	if plants == nil {
		plants = []model.Plant{}
	}
	if len(plants) > 0 && values != nil {
		if err := s.cache.Put(ctx, values, plants); err != nil {
			s.logger.WarnContext(ctx, "populate plant cache", "object_id", sc.objectID(), "error", err)
		}
	}
	return plants, nil
}

// CurrentPlantID resolves the selected plant code from the cookie, mirroring
// it into the session. The session value is used only when no cookie is sent.
func (s *PlantSelectionService) CurrentPlantID(ctx context.Context, sc *SelectionContext) (string, bool) {
	values := sc.values()
	stored := ""
	if values != nil {
		code, ok, err := values.Get(ctx, SessionKeySelectedPlant)
		switch {
		case err != nil:
			s.logger.WarnContext(ctx, "read selected plant from session", "object_id", sc.objectID(), "error", err)
		case ok:
			stored = code
		}
	}

	if cookies := sc.cookies(); cookies != nil {
		if code, ok := cookies.Read(s.cookieName); ok && code != "" {
			if values != nil && code != stored {
				if err := values.SetValues(ctx, map[string]string{SessionKeySelectedPlant: code}); err != nil {
					s.logger.WarnContext(ctx, "mirror plant cookie into session",
						"object_id", sc.objectID(), "plant_code", code, "error", err)
				}
			}
			return code, true
		}
	}

	if stored != "" {
		return stored, true
	}
	return "", false
}

// CurrentPlant resolves the selected plant against the current list. When
// nothing is selected, the principal's default plant is persisted as the
// selection first. A code no longer in the list resolves to absent.
func (s *PlantSelectionService) CurrentPlant(ctx context.Context, sc *SelectionContext) (*model.Plant, bool) {
	code, ok := s.CurrentPlantID(ctx, sc)
	if !ok {
		code = s.defaultPlantCode(ctx, sc)
		if code == "" {
			return nil, false
		}
		s.persistDefault(ctx, sc, code)
	}
	return model.FindPlant(s.ListPlants(ctx, sc), code)
}

// defaultPlantCode reads the plant from claims, then from the stored profile.
func (s *PlantSelectionService) defaultPlantCode(ctx context.Context, sc *SelectionContext) string {
	if code := strings.TrimSpace(s.claims.Value(sc.claims(), claims.FieldPlant)); code != "" {
		return code
	}
	oid := sc.objectID()
	if oid == "" {
		oid = s.claims.Value(sc.claims(), claims.FieldObjectID)
	}
	if s.users == nil || oid == "" {
		return ""
	}
	profile, err := s.users.GetByObjectID(ctx, oid)
	if err != nil {
		if !errors.Is(err, core.ErrUserProfileNotFound) {
			s.logger.WarnContext(ctx, "lookup profile for default plant", "object_id", oid, "error", err)
		}
		return ""
	}
	return strings.TrimSpace(profile.Plant)
}

func (s *PlantSelectionService) persistDefault(ctx context.Context, sc *SelectionContext, code string) {
	if err := s.writeSelection(ctx, sc, code); err != nil {
		s.logger.WarnContext(ctx, "persist default plant",
			"object_id", sc.objectID(), "plant_code", code, "error", err)
	}
}

// SetCurrentPlant validates code against the reference list and commits it
// to the session and the cookie, then notifies subscribers.
func (s *PlantSelectionService) SetCurrentPlant(ctx context.Context, sc *SelectionContext, code string) (*model.Plant, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return nil, apperrors.ValidationField("plantCode", "Plant code is required")
	}

	plants, err := s.loadPlants(ctx, sc)
	if err != nil {
		s.logger.ErrorContext(ctx, "load plants for selection",
			"object_id", sc.objectID(), "plant_code", code, "error", err)
		return nil, err
	}
	plant, ok := model.FindPlant(plants, code)
	if !ok {
		s.logger.WarnContext(ctx, "invalid plant selection", "object_id", sc.objectID(), "plant_code", code)
		return nil, apperrors.InvalidSelectionf("Plant '%s' not found", code)
	}

	if err := s.writeSelection(ctx, sc, plant.PlantCode); err != nil {
		s.logger.ErrorContext(ctx, "persist plant selection",
			"object_id", sc.objectID(), "plant_code", code, "error", err)
		return nil, err
	}

	s.logger.InfoContext(ctx, "plant selected", "object_id", sc.objectID(), "plant_code", plant.PlantCode)
	s.events.Publish(ctx, model.PlantChangedEvent{
		PlantCode: plant.PlantCode,
		PlantName: plant.Name,
		Plant:     *plant,
		Timestamp: s.now().UTC(),
	})
	return plant, nil
}

// writeSelection stores code in the session and then the cookie. When the
// cookie write fails the session is rolled back to its previous value so the
// two channels never disagree about a selection the caller saw fail.
func (s *PlantSelectionService) writeSelection(ctx context.Context, sc *SelectionContext, code string) error {
	values := sc.values()
	if values == nil {
		return apperrors.StateUnavailable(errNoSessionValues, "Session is unavailable")
	}
	cookies := sc.cookies()
	if cookies == nil {
		return apperrors.StateUnavailable(errors.New("cookie channel unavailable"), "Cookies are unavailable")
	}

	previous, hadPrevious, err := values.Get(ctx, SessionKeySelectedPlant)
	if err != nil {
		return apperrors.StateUnavailable(err, "Failed to read plant selection from session")
	}
	if err := values.SetValues(ctx, map[string]string{SessionKeySelectedPlant: code}); err != nil {
		return apperrors.StateUnavailable(err, "Failed to store plant selection in session")
	}
	if err := cookies.Write(s.cookieName, code, s.cookieMaxAge); err != nil {
		s.restoreSelection(ctx, sc, previous, hadPrevious)
		return apperrors.StateUnavailable(err, "Failed to store plant selection cookie")
	}
	return nil
}

func (s *PlantSelectionService) restoreSelection(ctx context.Context, sc *SelectionContext, previous string, hadPrevious bool) {
	values := sc.values()
	var err error
	if hadPrevious {
		err = values.SetValues(ctx, map[string]string{SessionKeySelectedPlant: previous})
	} else {
		err = values.RemoveValues(ctx, SessionKeySelectedPlant)
	}
	if err != nil {
		s.logger.ErrorContext(ctx, "restore plant selection after cookie failure",
			"object_id", sc.objectID(), "plant_code", previous, "error", err)
	}
}

// IsValidPlant reports whether code names a plant in the current list.
func (s *PlantSelectionService) IsValidPlant(ctx context.Context, sc *SelectionContext, code string) bool {
	code = strings.TrimSpace(code)
	if code == "" {
		return false
	}
	_, ok := model.FindPlant(s.ListPlants(ctx, sc), code)
	return ok
}

// IsPlantSelected reports whether code matches the current selection,
// ignoring case.
func (s *PlantSelectionService) IsPlantSelected(ctx context.Context, sc *SelectionContext, code string) bool {
	if strings.TrimSpace(code) == "" {
		return false
	}
	current, ok := s.CurrentPlantID(ctx, sc)
	return ok && model.SamePlantCode(current, code)
}

// Refresh drops the session's cached list and reloads it, returning the
// number of plants now available.
func (s *PlantSelectionService) Refresh(ctx context.Context, sc *SelectionContext) (int, error) {
	values := sc.values()
	if values != nil {
		if err := s.cache.Clear(ctx, values); err != nil {
			s.logger.ErrorContext(ctx, "clear plant cache", "object_id", sc.objectID(), "error", err)
			return 0, apperrors.StateUnavailable(err, "Failed to clear plant cache")
		}
	}
	plants, err := s.loadPlants(ctx, sc)
	if err != nil {
		s.logger.ErrorContext(ctx, "refresh plants", "object_id", sc.objectID(), "error", err)
		return 0, err
	}
	s.logger.InfoContext(ctx, "plant cache refreshed", "object_id", sc.objectID(), "count", len(plants))
	return len(plants), nil
}

// WithDefaultFlag returns a copy of plants with IsDefault set on code.
func WithDefaultFlag(plants []model.Plant, code string) []model.Plant {
	out := make([]model.Plant, len(plants))
	copy(out, plants)
	if code == "" {
		return out
	}
	for i := range out {
		out[i].IsDefault = model.SamePlantCode(out[i].PlantCode, code)
	}
	return out
}

// DefaultPlantCode exposes the principal's default plant without persisting it.
func (s *PlantSelectionService) DefaultPlantCode(ctx context.Context, sc *SelectionContext) string {
	return s.defaultPlantCode(ctx, sc)
}
