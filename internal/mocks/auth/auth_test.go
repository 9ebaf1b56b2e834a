package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	domainauth "github.com/target/sharednav/internal/domain/auth"
	"github.com/target/sharednav/internal/ports"
)

func TestMockAuthProvider_Begin_Defaults(t *testing.T) {
	provider := NewMockAuthProvider()
	ctx := context.Background()

	input := ports.BeginInput{RedirectURL: "http://localhost:8080/callback"}
	authURL, state, nonce, err := provider.Begin(ctx, input)

	require.NoError(t, err)
	assert.Equal(t, "https://mock-idp/auth", authURL)
	assert.Equal(t, "state-1", state)
	assert.Equal(t, "nonce-1", nonce)

	// Second call should increment counters
	authURL2, state2, nonce2, err2 := provider.Begin(ctx, input)
	require.NoError(t, err2)
	assert.Equal(t, "https://mock-idp/auth", authURL2)
	assert.Equal(t, "state-2", state2)
	assert.Equal(t, "nonce-2", nonce2)
}

func TestMockAuthProvider_Begin_CustomValues(t *testing.T) {
	provider := &MockAuthProvider{
		AuthURL:     "https://custom-idp/login",
		StatePrefix: "custom-state",
		NoncePrefix: "custom-nonce",
	}

	authURL, state, nonce, err := provider.Begin(context.Background(), ports.BeginInput{RedirectURL: "http://localhost:8080/callback"})

	require.NoError(t, err)
	assert.Equal(t, "https://custom-idp/login", authURL)
	assert.Equal(t, "custom-state-1", state)
	assert.Equal(t, "custom-nonce-1", nonce)
}

func TestMockAuthProvider_Exchange_Defaults(t *testing.T) {
	provider := NewMockAuthProvider()

	identity, err := provider.Exchange(context.Background(), ports.ExchangeInput{
		Code:  "auth-code",
		State: "state-1",
		Nonce: "nonce-1",
	})

	require.NoError(t, err)
	assert.Equal(t, "mock-oid-1", identity.ObjectID)
	assert.Equal(t, "mock1hmj@example.com", identity.Email)
	assert.Equal(t, "Mock User (IT)", identity.DisplayName)
	assert.Equal(t, "HmjP", identity.Claims["custom_plant"])
	assert.True(t, identity.ExpiresAt.After(time.Now()))
}

func TestMockAuthProvider_Exchange_CustomUser(t *testing.T) {
	provider := &MockAuthProvider{DefaultUser: domainauth.Identity{
		ObjectID: "custom-oid",
		Email:    "custom@example.com",
	}}

	identity, err := provider.Exchange(context.Background(), ports.ExchangeInput{Code: "c"})

	require.NoError(t, err)
	assert.Equal(t, "custom-oid", identity.ObjectID)
	assert.Equal(t, "custom@example.com", identity.Email)
	assert.True(t, identity.ExpiresAt.After(time.Now()))
}

func TestMockAuthProvider_Exchange_CustomFunc(t *testing.T) {
	provider := &MockAuthProvider{
		ExchangeFunc: func(_ context.Context, _ ports.ExchangeInput) (domainauth.Identity, error) {
			return domainauth.Identity{ObjectID: "func-oid", Email: "func@example.com"}, nil
		},
	}

	identity, err := provider.Exchange(context.Background(), ports.ExchangeInput{Code: "c"})

	require.NoError(t, err)
	assert.Equal(t, "func-oid", identity.ObjectID)
	assert.Equal(t, "func@example.com", identity.Email)
}

func TestMemorySessionStore_SaveAndGet(t *testing.T) {
	store := NewMemorySessionStore()
	ctx := context.Background()

	session := domainauth.Session{
		ID:        "test-session-1",
		ObjectID:  "oid-123",
		Email:     "user@example.com",
		ExpiresAt: time.Now().Add(30 * time.Minute),
	}

	require.NoError(t, store.Save(ctx, session))

	retrieved, err := store.Get(ctx, "test-session-1")
	require.NoError(t, err)
	assert.Equal(t, session.ID, retrieved.ID)
	assert.Equal(t, session.ObjectID, retrieved.ObjectID)
	assert.Equal(t, session.Email, retrieved.Email)
	assert.WithinDuration(t, session.ExpiresAt, retrieved.ExpiresAt, time.Second)
}

func TestMemorySessionStore_GetNonExistent(t *testing.T) {
	store := NewMemorySessionStore()

	_, err := store.Get(context.Background(), "non-existent")
	assert.Equal(t, ErrNotFound, err)

	_, err = store.Get(context.Background(), "")
	assert.Equal(t, ErrNotFound, err)
}

func TestMemorySessionStore_SaveEmptyID(t *testing.T) {
	store := NewMemorySessionStore()

	err := store.Save(context.Background(), domainauth.Session{ObjectID: "oid-123"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "session ID cannot be empty")
}

func TestMemorySessionStore_Delete(t *testing.T) {
	store := NewMemorySessionStore()
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, domainauth.Session{ID: "s1", ObjectID: "oid"}))
	require.NoError(t, store.Delete(ctx, "s1"))

	_, err := store.Get(ctx, "s1")
	assert.Equal(t, ErrNotFound, err)
	assert.NoError(t, store.Delete(ctx, ""))
}

func TestMemorySessionValues_ScopedPerSession(t *testing.T) {
	store := NewMemorySessionValues()
	ctx := context.Background()

	require.NoError(t, store.ForSession("a").SetValues(ctx, map[string]string{"k": "1"}))

	v, ok, err := store.ForSession("a").Get(ctx, "k")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "1", v)

	_, ok, err = store.ForSession("b").Get(ctx, "k")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, store.Drop(ctx, "a"))
	_, ok, _ = store.ForSession("a").Get(ctx, "k")
	assert.False(t, ok)
}

func TestMemoryValues_ErrFailsEveryCall(t *testing.T) {
	boom := errors.New("down")
	v := NewMemoryValues()
	v.Err = boom
	ctx := context.Background()

	_, _, err := v.Get(ctx, "k")
	assert.ErrorIs(t, err, boom)
	_, err = v.GetValues(ctx, "k")
	assert.ErrorIs(t, err, boom)
	assert.ErrorIs(t, v.SetValues(ctx, map[string]string{"k": "v"}), boom)
	assert.ErrorIs(t, v.RemoveValues(ctx, "k"), boom)
	assert.Zero(t, v.SetCalls)
}

func TestCookieJar(t *testing.T) {
	jar := NewCookieJar(map[string]string{"SelectedPlant": "HmjP"})

	v, ok := jar.Read("SelectedPlant")
	assert.True(t, ok)
	assert.Equal(t, "HmjP", v)

	require.NoError(t, jar.Write("SelectedPlant", "BkkP", time.Hour))
	assert.Equal(t, WrittenCookie{Value: "BkkP", MaxAge: time.Hour}, jar.Written["SelectedPlant"])

	jar.Err = errors.New("headers sent")
	assert.Error(t, jar.Write("SelectedPlant", "x", time.Hour))
}
