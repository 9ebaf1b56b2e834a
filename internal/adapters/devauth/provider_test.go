package devauth

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/target/sharednav/internal/domain/claims"
	"github.com/target/sharednav/internal/ports"
)

func TestProvider_BeginAndExchange(t *testing.T) {
	prov, err := NewProvider(Config{
		ObjectID:    "dev-oid",
		Email:       "dev1hmj@example.com",
		DisplayName: "Dev User (IT)",
		Plant:       "HmjP",
	})
	if err != nil {
		t.Fatalf("NewProvider error: %v", err)
	}
	url, state, nonce, err := prov.Begin(context.Background(), ports.BeginInput{RedirectURL: "/"})
	if err != nil {
		t.Fatalf("Begin error: %v", err)
	}
	if !strings.HasPrefix(url, "/auth/callback?") || !strings.Contains(url, "state="+state) {
		t.Fatalf("unexpected authURL: %s", url)
	}
	if state == "" || nonce == "" {
		t.Fatal("state and nonce should be generated")
	}
	id, err := prov.Exchange(context.Background(), ports.ExchangeInput{Code: "dev", State: state, Nonce: nonce})
	if err != nil {
		t.Fatalf("Exchange error: %v", err)
	}
	if id.ObjectID != "dev-oid" || id.Email != "dev1hmj@example.com" {
		t.Fatalf("unexpected identity: %+v", id)
	}

	p := claims.Default().Resolve(id.Claims)
	if p.ObjectID != "dev-oid" || p.Plant != "HmjP" || p.DisplayName != "Dev User (IT)" {
		t.Fatalf("claims did not resolve: %+v", p)
	}
	if _, ok := id.Claims["custom_department"]; ok {
		t.Fatal("department claim should be absent when not configured")
	}
}

func TestProvider_ExchangeRefreshesExpiryAndCopiesClaims(t *testing.T) {
	prov, err := NewProvider(Config{ObjectID: "o", Email: "e@example.com", SessionDuration: time.Hour})
	if err != nil {
		t.Fatalf("NewProvider error: %v", err)
	}
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	prov.now = func() time.Time { return base }

	id, _ := prov.Exchange(context.Background(), ports.ExchangeInput{})
	if !id.ExpiresAt.Equal(base.Add(time.Hour)) {
		t.Fatalf("unexpected expiry: %v", id.ExpiresAt)
	}
	id.Claims["oid"] = "tampered"

	again, _ := prov.Exchange(context.Background(), ports.ExchangeInput{})
	if again.Claims["oid"] != "o" {
		t.Fatalf("claims should not be shared between exchanges")
	}
}

func TestNewProvider_Validation(t *testing.T) {
	if _, err := NewProvider(Config{Email: "e@example.com"}); err == nil {
		t.Fatal("expected error for missing ObjectID")
	}
	if _, err := NewProvider(Config{ObjectID: "o"}); err == nil {
		t.Fatal("expected error for missing Email")
	}
}
