package httpx

import (
	"crypto/tls"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCookieChannel_Read(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: "SelectedPlant", Value: "HmjP"})

	ch := NewCookieChannel(httptest.NewRecorder(), req, "")

	v, ok := ch.Read("SelectedPlant")
	assert.True(t, ok)
	assert.Equal(t, "HmjP", v)

	_, ok = ch.Read("missing")
	assert.False(t, ok)
}

func TestCookieChannel_WriteAttributes(t *testing.T) {
	now := time.Date(2024, 3, 1, 8, 0, 0, 0, time.UTC)

	tests := []struct {
		name       string
		prepare    func(r *http.Request)
		wantSecure bool
	}{
		{name: "plain http", prepare: func(*http.Request) {}},
		{name: "tls", prepare: func(r *http.Request) { r.TLS = &tls.ConnectionState{} }, wantSecure: true},
		{
			name:       "forwarded https",
			prepare:    func(r *http.Request) { r.Header.Set("X-Forwarded-Proto", "http, HTTPS") },
			wantSecure: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/", nil)
			tt.prepare(req)
			w := httptest.NewRecorder()

			ch := &requestCookies{w: w, r: req, domain: "nav.example.com", now: func() time.Time { return now }}
			require.NoError(t, ch.Write("SelectedPlant", "BkkP", 30*24*time.Hour))

			resp := w.Result()
			defer resp.Body.Close()
			cookies := resp.Cookies()
			require.Len(t, cookies, 1)
			c := cookies[0]
			assert.Equal(t, "BkkP", c.Value)
			assert.Equal(t, "/", c.Path)
			assert.Equal(t, "nav.example.com", c.Domain)
			assert.True(t, c.HttpOnly)
			assert.Equal(t, http.SameSiteLaxMode, c.SameSite)
			assert.Equal(t, 30*24*60*60, c.MaxAge)
			assert.Equal(t, now.Add(30*24*time.Hour), c.Expires.UTC())
			assert.Equal(t, tt.wantSecure, c.Secure)
		})
	}
}

func TestCookieChannel_WriteRejectsInvalidValue(t *testing.T) {
	w := httptest.NewRecorder()
	ch := NewCookieChannel(w, httptest.NewRequest(http.MethodPost, "/", nil), "")

	err := ch.Write("SelectedPlant", "bad\"value;", time.Hour)
	require.Error(t, err)
	assert.Empty(t, w.Header().Values("Set-Cookie"))
}

func TestIsForwardedHTTPS(t *testing.T) {
	tests := []struct {
		header string
		want   bool
	}{
		{"", false},
		{"http", false},
		{"https", true},
		{" HTTPS ", true},
		{"http,https", true},
	}
	for _, tt := range tests {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		if tt.header != "" {
			req.Header.Set("X-Forwarded-Proto", tt.header)
		}
		assert.Equal(t, tt.want, isForwardedHTTPS(req), tt.header)
	}
}
