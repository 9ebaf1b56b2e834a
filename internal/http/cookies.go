package httpx

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/target/sharednav/internal/ports"
)

var _ ports.CookieChannel = (*requestCookies)(nil)

// requestCookies adapts one request/response pair to ports.CookieChannel.
type requestCookies struct {
	w      http.ResponseWriter
	r      *http.Request
	domain string
	now    func() time.Time
}

// NewCookieChannel returns a cookie channel reading from r and writing to w.
func NewCookieChannel(w http.ResponseWriter, r *http.Request, domain string) ports.CookieChannel {
	return &requestCookies{w: w, r: r, domain: domain, now: time.Now}
}

func (c *requestCookies) Read(name string) (string, bool) {
	cookie, err := c.r.Cookie(name)
	if err != nil {
		return "", false
	}
	return cookie.Value, true
}

func (c *requestCookies) Write(name, value string, maxAge time.Duration) error {
	cookie := &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		Domain:   c.domain,
		HttpOnly: true,
		Secure:   isSecureRequest(c.r),
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(maxAge / time.Second),
		Expires:  c.now().Add(maxAge).UTC(),
	}
	if err := cookie.Valid(); err != nil {
		return fmt.Errorf("cookie %s: %w", name, err)
	}
	http.SetCookie(c.w, cookie)
	return nil
}

// isSecureRequest reports whether the request arrived over TLS, directly or
// through a proxy that set X-Forwarded-Proto.
func isSecureRequest(r *http.Request) bool {
	return r.TLS != nil || isForwardedHTTPS(r)
}

// isForwardedHTTPS checks if the request was forwarded over HTTPS.
// Handles comma-separated values in X-Forwarded-Proto header.
func isForwardedHTTPS(r *http.Request) bool {
	xfProto := r.Header.Get("X-Forwarded-Proto")
	if xfProto == "" {
		return false
	}

	for _, proto := range strings.Split(xfProto, ",") {
		if strings.EqualFold(strings.TrimSpace(proto), "https") {
			return true
		}
	}

	return false
}
