package auth

import (
	"context"
	"sync"
	"time"

	"github.com/target/sharednav/internal/ports"
)

var (
	_ ports.SessionValueStore = (*MemorySessionValues)(nil)
	_ ports.SessionValues     = (*MemoryValues)(nil)
	_ ports.CookieChannel     = (*CookieJar)(nil)
)

// MemorySessionValues keeps per-session value maps in memory.
type MemorySessionValues struct {
	mu       sync.Mutex
	sessions map[string]*MemoryValues
}

// NewMemorySessionValues creates an empty value store.
func NewMemorySessionValues() *MemorySessionValues {
	return &MemorySessionValues{sessions: make(map[string]*MemoryValues)}
}

func (m *MemorySessionValues) ForSession(sessionID string) ports.SessionValues {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.sessions[sessionID]
	if !ok {
		v = NewMemoryValues()
		m.sessions[sessionID] = v
	}
	return v
}

func (m *MemorySessionValues) Drop(_ context.Context, sessionID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, sessionID)
	return nil
}

// MemoryValues is a single session's value map. Setting Err makes every
// call fail, which simulates an unavailable session backend.
type MemoryValues struct {
	mu     sync.Mutex
	values map[string]string
	Err    error

	SetCalls    int
	RemoveCalls int
}

// NewMemoryValues creates an empty value map.
func NewMemoryValues() *MemoryValues {
	return &MemoryValues{values: make(map[string]string)}
}

func (m *MemoryValues) Get(_ context.Context, key string) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return "", false, m.Err
	}
	v, ok := m.values[key]
	return v, ok, nil
}

func (m *MemoryValues) GetValues(_ context.Context, keys ...string) (map[string]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	out := make(map[string]string, len(keys))
	for _, k := range keys {
		if v, ok := m.values[k]; ok {
			out[k] = v
		}
	}
	return out, nil
}

func (m *MemoryValues) SetValues(_ context.Context, values map[string]string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	m.SetCalls++
	for k, v := range values {
		m.values[k] = v
	}
	return nil
}

func (m *MemoryValues) RemoveValues(_ context.Context, keys ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	m.RemoveCalls++
	for _, k := range keys {
		delete(m.values, k)
	}
	return nil
}

// Snapshot returns a copy of the stored values.
func (m *MemoryValues) Snapshot() map[string]string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make(map[string]string, len(m.values))
	for k, v := range m.values {
		out[k] = v
	}
	return out
}

// CookieJar is an in-memory cookie channel. Incoming holds request cookies;
// Written records what the response would set.
type CookieJar struct {
	Incoming map[string]string
	Written  map[string]WrittenCookie
	Err      error
}

// WrittenCookie records one response cookie.
type WrittenCookie struct {
	Value  string
	MaxAge time.Duration
}

// NewCookieJar creates a jar seeded with request cookies.
func NewCookieJar(incoming map[string]string) *CookieJar {
	if incoming == nil {
		incoming = map[string]string{}
	}
	return &CookieJar{Incoming: incoming, Written: map[string]WrittenCookie{}}
}

func (c *CookieJar) Read(name string) (string, bool) {
	v, ok := c.Incoming[name]
	return v, ok
}

func (c *CookieJar) Write(name, value string, maxAge time.Duration) error {
	if c.Err != nil {
		return c.Err
	}
	c.Written[name] = WrittenCookie{Value: value, MaxAge: maxAge}
	return nil
}
