package httpx

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	domainauth "github.com/target/sharednav/internal/domain/auth"
)

func TestSessionContextRoundTrip(t *testing.T) {
	ctx := context.Background()
	_, ok := GetUserSessionFromContext(ctx)
	assert.False(t, ok)
	assert.Nil(t, GetSessionFromContext(ctx))

	assert.Equal(t, ctx, SetSessionInContext(ctx, nil))

	sess := &domainauth.Session{ID: "abc", ObjectID: "oid-1"}
	ctx = SetSessionInContext(ctx, sess)
	got, ok := GetUserSessionFromContext(ctx)
	assert.True(t, ok)
	assert.Same(t, sess, got)
	assert.Same(t, sess, GetSessionFromContext(ctx))
}

func TestIsAuthenticated(t *testing.T) {
	assert.False(t, IsAuthenticated(context.Background()))
	assert.True(t, IsAuthenticated(SetSessionInContext(context.Background(), &domainauth.Session{ID: "s"})))
}
