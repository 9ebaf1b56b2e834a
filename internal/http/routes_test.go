package httpx

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	domainauth "github.com/target/sharednav/internal/domain/auth"
	"github.com/target/sharednav/internal/domain/model"
	"github.com/target/sharednav/internal/mocks"
	authmocks "github.com/target/sharednav/internal/mocks/auth"
	"github.com/target/sharednav/internal/service"
	"go.uber.org/mock/gomock"
)

type routerFixture struct {
	handler http.Handler
	plants  *mocks.MockPlantRepository
	users   *mocks.MockUserRepository
	values  *authmocks.MemorySessionValues
}

func newRouterFixture(t *testing.T, csrf bool) *routerFixture {
	t.Helper()
	ctrl := gomock.NewController(t)

	store := authmocks.NewMemorySessionStore()
	require.NoError(t, store.Save(context.Background(), domainauth.Session{
		ID:          "sess-1",
		ObjectID:    "oid-1",
		Email:       "somchai1hmj@example.com",
		DisplayName: "Somchai Jaidee (Finance)",
		Claims:      map[string]any{"oid": "oid-1"},
		ExpiresAt:   time.Now().Add(time.Hour),
	}))

	f := &routerFixture{
		plants: mocks.NewMockPlantRepository(ctrl),
		users:  mocks.NewMockUserRepository(ctrl),
		values: authmocks.NewMemorySessionValues(),
	}
	f.handler = NewRouter(RouterServices{
		Auth: service.NewAuthService(service.AuthServiceOptions{
			Provider: authmocks.NewMockAuthProvider(),
			Sessions: store,
			Values:   f.values,
		}),
		Plants: service.NewPlantSelectionService(service.PlantSelectionServiceOptions{
			Plants: f.plants,
			Users:  f.users,
		}),
		Registration:        service.NewUserRegistrationService(service.UserRegistrationServiceOptions{Repo: f.users}),
		Values:              f.values,
		RegistrationEnabled: true,
		AutoRegisterUsers:   true,
		ExcludedPaths:       []string{"/healthz", "/auth/"},
		CSRFEnabled:         csrf,
	})
	return f
}

func TestRouter_Healthz(t *testing.T) {
	f := newRouterFixture(t, false)

	for _, method := range []string{http.MethodGet, http.MethodHead} {
		w := httptest.NewRecorder()
		f.handler.ServeHTTP(w, httptest.NewRequest(method, "/healthz", nil))
		assert.Equal(t, http.StatusOK, w.Code, method)
	}
}

func TestRouter_PlantRoutesRequireSession(t *testing.T) {
	f := newRouterFixture(t, false)

	routes := []struct{ method, path string }{
		{http.MethodGet, "/_plantselector/plants"},
		{http.MethodGet, "/_plantselector/current"},
		{http.MethodGet, "/_plantselector/test"},
		{http.MethodPost, "/_plantselector/changeplant"},
		{http.MethodPost, "/_plantselector/refresh"},
	}
	for _, rt := range routes {
		t.Run(rt.method+" "+rt.path, func(t *testing.T) {
			w := httptest.NewRecorder()
			f.handler.ServeHTTP(w, httptest.NewRequest(rt.method, rt.path, nil))
			assert.Equal(t, http.StatusUnauthorized, w.Code)
		})
	}
}

func TestRouter_AuthenticatedRequestRegistersAndSelects(t *testing.T) {
	f := newRouterFixture(t, false)

	f.users.EXPECT().GetByObjectID(gomock.Any(), "oid-1").Return(&model.UserProfile{
		ObjectID:   "oid-1",
		Email:      "somchai1hmj@example.com",
		Department: "Finance",
		Plant:      "HmjP",
		IsActive:   true,
	}, nil)
	f.users.EXPECT().Update(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, p *model.UserProfile) (*model.UserProfile, error) { return p, nil })
	f.plants.EXPECT().List(gomock.Any()).Return([]model.Plant{
		{PlantCode: "BkkP", Name: "Bangkok"},
		{PlantCode: "HmjP", Name: "Hemaraj"},
	}, nil)

	req := httptest.NewRequest(http.MethodPost, "/_plantselector/changeplant", strings.NewReader(`{"plantCode":"HmjP"}`))
	req.Header.Set("Content-Type", "application/json")
	req.AddCookie(&http.Cookie{Name: "session_id", Value: "sess-1"})
	w := httptest.NewRecorder()
	f.handler.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	snapshot := f.values.ForSession("sess-1").(*authmocks.MemoryValues).Snapshot()
	assert.Equal(t, "HmjP", snapshot[service.SessionKeySelectedPlant])
	assert.Equal(t, "Finance", snapshot[service.SessionKeyProfileDepartment])
	assert.Equal(t, "somchai1hmj@example.com", snapshot[service.SessionKeyProfileEmail])
}

func TestRouter_CSRFGuardsStateChangingCalls(t *testing.T) {
	f := newRouterFixture(t, true)
	f.users.EXPECT().GetByObjectID(gomock.Any(), "oid-1").Return(&model.UserProfile{ObjectID: "oid-1"}, nil).AnyTimes()
	f.users.EXPECT().Update(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, p *model.UserProfile) (*model.UserProfile, error) { return p, nil }).AnyTimes()

	req := httptest.NewRequest(http.MethodPost, "/_plantselector/refresh", nil)
	req.AddCookie(&http.Cookie{Name: "session_id", Value: "sess-1"})
	w := httptest.NewRecorder()
	f.handler.ServeHTTP(w, req)
	assert.Equal(t, http.StatusForbidden, w.Code)

	f.plants.EXPECT().List(gomock.Any()).Return([]model.Plant{{PlantCode: "BkkP", Name: "Bangkok"}}, nil)

	req = httptest.NewRequest(http.MethodPost, "/_plantselector/refresh", nil)
	req.AddCookie(&http.Cookie{Name: "session_id", Value: "sess-1"})
	req.AddCookie(&http.Cookie{Name: DefaultCSRFCookieName, Value: "tok-123"})
	req.Header.Set(DefaultCSRFHeaderName, "tok-123")
	w = httptest.NewRecorder()
	f.handler.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code, w.Body.String())
}

func TestRouter_NoAuthServiceLeavesPlantRoutesOpen(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mocks.NewMockPlantRepository(ctrl)
	repo.EXPECT().List(gomock.Any()).Return([]model.Plant{{PlantCode: "BkkP", Name: "Bangkok"}}, nil)

	handler := NewRouter(RouterServices{
		Plants: service.NewPlantSelectionService(service.PlantSelectionServiceOptions{Plants: repo}),
	})

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/_plantselector/plants", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"count":1`)
}
