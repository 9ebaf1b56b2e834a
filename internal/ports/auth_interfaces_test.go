package ports_test

import (
	"testing"

	mocks "github.com/target/sharednav/internal/mocks/auth"
	"github.com/target/sharednav/internal/ports"
)

// This test only verifies that our mocks conform to the ports at compile time.
func TestMocksImplementPorts(t *testing.T) {
	t.Helper()

	var _ ports.AuthProvider = (*mocks.MockAuthProvider)(nil)
	var _ ports.SessionStore = (*mocks.MemorySessionStore)(nil)
	var _ ports.SessionValueStore = (*mocks.MemorySessionValues)(nil)
	var _ ports.SessionValues = (*mocks.MemoryValues)(nil)
	var _ ports.CookieChannel = (*mocks.CookieJar)(nil)
}
