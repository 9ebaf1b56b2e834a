package httpx

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	domainauth "github.com/target/sharednav/internal/domain/auth"
	"github.com/target/sharednav/internal/domain/model"
	apperrors "github.com/target/sharednav/internal/errors"
	"github.com/target/sharednav/internal/mocks"
	authmocks "github.com/target/sharednav/internal/mocks/auth"
	"github.com/target/sharednav/internal/service"
	"go.uber.org/mock/gomock"
)

var handlerPlants = []model.Plant{
	{PlantCode: "BkkP", Name: "Bangkok"},
	{PlantCode: "HmjP", Name: "Hemaraj"},
}

type plantHandlerFixture struct {
	h      *PlantHandlers
	repo   *mocks.MockPlantRepository
	values *authmocks.MemorySessionValues
	sess   *domainauth.Session
}

func newPlantHandlerFixture(t *testing.T) *plantHandlerFixture {
	t.Helper()
	ctrl := gomock.NewController(t)

	f := &plantHandlerFixture{
		repo:   mocks.NewMockPlantRepository(ctrl),
		values: authmocks.NewMemorySessionValues(),
		sess: &domainauth.Session{
			ID:          "sess-1",
			ObjectID:    "oid-1",
			DisplayName: "Somchai Jaidee (IT)",
			Claims:      map[string]any{"oid": "oid-1", "custom_plant": "HmjP"},
			ExpiresAt:   time.Now().Add(time.Hour),
		},
	}
	svc := service.NewPlantSelectionService(service.PlantSelectionServiceOptions{Plants: f.repo})
	f.h = &PlantHandlers{
		Svc:    svc,
		Values: f.values,
		Now:    func() time.Time { return time.Date(2024, 3, 1, 8, 0, 0, 0, time.UTC) },
	}
	return f
}

func (f *plantHandlerFixture) request(method, target, body string) *http.Request {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	return req.WithContext(SetSessionInContext(req.Context(), f.sess))
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

func TestPlantHandlers_Plants_FlagsDefault(t *testing.T) {
	f := newPlantHandlerFixture(t)
	f.repo.EXPECT().List(gomock.Any()).Return(handlerPlants, nil)

	w := httptest.NewRecorder()
	f.h.Plants(w, f.request(http.MethodGet, "/_plantselector/plants", ""))

	require.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, true, body["success"])
	assert.EqualValues(t, 2, body["count"])

	data, ok := body["data"].([]any)
	require.True(t, ok)
	require.Len(t, data, 2)
	assert.Equal(t, false, data[0].(map[string]any)["isDefault"])
	assert.Equal(t, true, data[1].(map[string]any)["isDefault"])
}

func TestPlantHandlers_PlantFieldNames(t *testing.T) {
	lat, lng := 13.0827, 101.0365
	plants := []model.Plant{{
		PlantCode: "HmjP", Name: "Hemaraj", Location: "Rayong", Country: "TH",
		Latitude: &lat, Longitude: &lng,
	}}

	f := newPlantHandlerFixture(t)
	f.repo.EXPECT().List(gomock.Any()).Return(plants, nil)

	w := httptest.NewRecorder()
	f.h.Plants(w, f.request(http.MethodGet, "/_plantselector/plants", ""))
	require.Equal(t, http.StatusOK, w.Code)

	data, ok := decodeBody(t, w)["data"].([]any)
	require.True(t, ok)
	require.Len(t, data, 1)
	listed := data[0].(map[string]any)
	assert.Equal(t, "HmjP", listed["plantCode"])
	assert.Equal(t, "Hemaraj", listed["name"])
	assert.Equal(t, "Rayong", listed["location"])
	assert.Equal(t, "TH", listed["country"])
	assert.InDelta(t, lat, listed["latitude"], 0.0001)
	assert.InDelta(t, lng, listed["longtitude"], 0.0001)
	assert.Equal(t, true, listed["isDefault"])
	assert.NotContains(t, listed, "plantName")

	w = httptest.NewRecorder()
	f.h.ChangePlant(w, f.request(http.MethodPost, "/_plantselector/changeplant", `{"plantCode":"HmjP"}`))
	require.Equal(t, http.StatusOK, w.Code)

	changed, ok := decodeBody(t, w)["plant"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "Hemaraj", changed["name"])
	assert.Equal(t, "Rayong", changed["location"])
}

func TestPlantHandlers_Plants_DataSourceFailureIsEmpty(t *testing.T) {
	f := newPlantHandlerFixture(t)
	f.repo.EXPECT().List(gomock.Any()).Return(nil, errors.New("db down"))

	w := httptest.NewRecorder()
	f.h.Plants(w, f.request(http.MethodGet, "/_plantselector/plants", ""))

	require.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	assert.EqualValues(t, 0, body["count"])
	assert.Equal(t, []any{}, body["data"])
}

func TestPlantHandlers_ChangePlant_Success(t *testing.T) {
	f := newPlantHandlerFixture(t)
	f.repo.EXPECT().List(gomock.Any()).Return(handlerPlants, nil)

	w := httptest.NewRecorder()
	f.h.ChangePlant(w, f.request(http.MethodPost, "/_plantselector/changeplant", `{"plantCode":"BkkP"}`))

	require.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, "Plant changed successfully", body["message"])
	assert.Equal(t, "BkkP", body["plantCode"])
	assert.Equal(t, "Bangkok", body["plantName"])

	resp := w.Result()
	defer resp.Body.Close()
	var cookie *http.Cookie
	for _, c := range resp.Cookies() {
		if c.Name == service.DefaultPlantCookieName {
			cookie = c
		}
	}
	require.NotNil(t, cookie)
	assert.Equal(t, "BkkP", cookie.Value)
	assert.True(t, cookie.HttpOnly)
	assert.Equal(t, "/", cookie.Path)
	assert.Equal(t, http.SameSiteLaxMode, cookie.SameSite)
	assert.False(t, cookie.Secure)
	assert.Equal(t, int(service.DefaultPlantCookieMaxAge/time.Second), cookie.MaxAge)

	v, ok, err := f.values.ForSession("sess-1").Get(context.Background(), service.SessionKeySelectedPlant)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "BkkP", v)
}

func TestPlantHandlers_ChangePlant_Errors(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		listCalls  int
		wantStatus int
		wantMsg    string
	}{
		{name: "malformed body", body: `{`, wantStatus: http.StatusBadRequest, wantMsg: "Plant code is required"},
		{name: "blank code", body: `{"plantCode":"  "}`, wantStatus: http.StatusBadRequest, wantMsg: "Plant code is required"},
		{
			name: "unknown code", body: `{"plantCode":"XxxP"}`, listCalls: 1,
			wantStatus: http.StatusNotFound, wantMsg: "Plant 'XxxP' not found",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newPlantHandlerFixture(t)
			f.repo.EXPECT().List(gomock.Any()).Return(handlerPlants, nil).Times(tt.listCalls)

			w := httptest.NewRecorder()
			f.h.ChangePlant(w, f.request(http.MethodPost, "/_plantselector/changeplant", tt.body))

			assert.Equal(t, tt.wantStatus, w.Code)
			body := decodeBody(t, w)
			assert.Equal(t, false, body["success"])
			assert.Equal(t, tt.wantMsg, body["message"])
		})
	}
}

func TestPlantHandlers_ChangePlant_DataSourceFailureIsGeneric(t *testing.T) {
	f := newPlantHandlerFixture(t)
	f.repo.EXPECT().List(gomock.Any()).Return(nil, errors.New("connection refused on 10.0.0.5"))

	w := httptest.NewRecorder()
	f.h.ChangePlant(w, f.request(http.MethodPost, "/_plantselector/changeplant", `{"plantCode":"BkkP"}`))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotContains(t, w.Body.String(), "10.0.0.5")
	assert.Contains(t, w.Body.String(), "An error occurred while changing plant")
}

func TestPlantHandlers_ChangePlant_WithoutSessionValues(t *testing.T) {
	f := newPlantHandlerFixture(t)
	f.h.Values = nil
	f.repo.EXPECT().List(gomock.Any()).Return(handlerPlants, nil)

	w := httptest.NewRecorder()
	f.h.ChangePlant(w, f.request(http.MethodPost, "/_plantselector/changeplant", `{"plantCode":"BkkP"}`))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, false, decodeBody(t, w)["success"])
	resp := w.Result()
	defer resp.Body.Close()
	assert.Empty(t, resp.Cookies())
}

func TestPlantHandlers_Current(t *testing.T) {
	t.Run("selected", func(t *testing.T) {
		f := newPlantHandlerFixture(t)
		f.repo.EXPECT().List(gomock.Any()).Return(handlerPlants, nil)
		require.NoError(t, f.values.ForSession("sess-1").SetValues(context.Background(),
			map[string]string{service.SessionKeySelectedPlant: "BkkP"}))

		w := httptest.NewRecorder()
		f.h.Current(w, f.request(http.MethodGet, "/_plantselector/current", ""))

		require.Equal(t, http.StatusOK, w.Code)
		body := decodeBody(t, w)
		data, ok := body["data"].(map[string]any)
		require.True(t, ok)
		assert.Equal(t, "BkkP", data["plantCode"])
	})

	t.Run("none resolves", func(t *testing.T) {
		f := newPlantHandlerFixture(t)
		f.sess.Claims = nil
		f.sess.ObjectID = ""

		w := httptest.NewRecorder()
		f.h.Current(w, f.request(http.MethodGet, "/_plantselector/current", ""))

		require.Equal(t, http.StatusOK, w.Code)
		body := decodeBody(t, w)
		assert.Equal(t, true, body["success"])
		assert.Nil(t, body["data"])
		assert.Equal(t, "No plant selected", body["message"])
	})
}

func TestPlantHandlers_Refresh(t *testing.T) {
	f := newPlantHandlerFixture(t)
	f.repo.EXPECT().List(gomock.Any()).Return(handlerPlants, nil)

	w := httptest.NewRecorder()
	f.h.Refresh(w, f.request(http.MethodPost, "/_plantselector/refresh", ""))

	require.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, "Plants refreshed successfully", body["message"])
	assert.EqualValues(t, 2, body["count"])
}

func TestPlantHandlers_Refresh_Failure(t *testing.T) {
	f := newPlantHandlerFixture(t)
	f.repo.EXPECT().List(gomock.Any()).Return(nil, errors.New("db down"))

	w := httptest.NewRecorder()
	f.h.Refresh(w, f.request(http.MethodPost, "/_plantselector/refresh", ""))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, false, body["success"])
	assert.Equal(t, "Error refreshing plants. Please try again.", body["message"])
}

func TestPlantHandlers_Test(t *testing.T) {
	f := newPlantHandlerFixture(t)

	w := httptest.NewRecorder()
	f.h.Test(w, f.request(http.MethodGet, "/_plantselector/test", ""))

	require.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, "PlantSelector is working!", body["message"])
	assert.Equal(t, "Somchai Jaidee (IT)", body["user"])
	assert.Equal(t, "2024-03-01T08:00:00Z", body["timestamp"])

	w = httptest.NewRecorder()
	f.h.Test(w, httptest.NewRequest(http.MethodGet, "/_plantselector/test", nil))
	assert.Equal(t, "Anonymous", decodeBody(t, w)["user"])
}

func TestPlantErrorResponse(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantMsg    string
	}{
		{"validation", apperrors.ValidationField("plantCode", "Plant code is required"), http.StatusBadRequest, "Plant code is required"},
		{"invalid selection", apperrors.InvalidSelectionf("Plant '%s' not found", "X"), http.StatusNotFound, "Plant 'X' not found"},
		{"state unavailable", apperrors.StateUnavailable(errors.New("redis"), "Session unavailable"), http.StatusInternalServerError, "fallback"},
		{"plain", errors.New("boom"), http.StatusInternalServerError, "fallback"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, msg := plantErrorResponse(tt.err, "fallback")
			assert.Equal(t, tt.wantStatus, status)
			assert.Equal(t, tt.wantMsg, msg)
		})
	}
}
