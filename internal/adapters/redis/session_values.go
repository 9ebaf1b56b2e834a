package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/target/sharednav/internal/ports"
)

var (
	_ ports.SessionValueStore = (*SessionValueStore)(nil)
	_ ports.SessionValues     = (*sessionValues)(nil)
)

// SessionValueStore keeps each session's string values in one Redis hash
// at "<prefix><sessionID>:values". Writes refresh the idle TTL.
type SessionValueStore struct {
	client  redis.UniversalClient
	prefix  string
	idleTTL time.Duration
}

// SessionValueStoreOptions configures NewSessionValueStore.
type SessionValueStoreOptions struct {
	Client  redis.UniversalClient
	Prefix  string
	IdleTTL time.Duration
}

// NewSessionValueStore creates a value store; Prefix defaults to DefaultKeyPrefix.
func NewSessionValueStore(opts SessionValueStoreOptions) *SessionValueStore {
	prefix := opts.Prefix
	if prefix == "" {
		prefix = DefaultKeyPrefix
	}
	return &SessionValueStore{client: opts.Client, prefix: prefix, idleTTL: opts.IdleTTL}
}

func valuesKey(prefix, sessionID string) string {
	return prefix + sessionID + ":values"
}

// ForSession returns the value channel bound to sessionID.
func (s *SessionValueStore) ForSession(sessionID string) ports.SessionValues {
	return &sessionValues{store: s, key: valuesKey(s.prefix, sessionID), empty: sessionID == ""}
}

// Drop deletes every value held for sessionID.
func (s *SessionValueStore) Drop(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return nil
	}
	return s.client.Del(ctx, valuesKey(s.prefix, sessionID)).Err()
}

// ErrNoSession is returned when values are requested without a session id.
var ErrNoSession = errors.New("no session")

type sessionValues struct {
	store *SessionValueStore
	key   string
	empty bool
}

func (v *sessionValues) Get(ctx context.Context, key string) (string, bool, error) {
	if v.empty {
		return "", false, ErrNoSession
	}
	val, err := v.store.client.HGet(ctx, v.key, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("redis hget: %w", err)
	}
	return val, true, nil
}

func (v *sessionValues) GetValues(ctx context.Context, keys ...string) (map[string]string, error) {
	if v.empty {
		return nil, ErrNoSession
	}
	out := make(map[string]string, len(keys))
	if len(keys) == 0 {
		return out, nil
	}
	vals, err := v.store.client.HMGet(ctx, v.key, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("redis hmget: %w", err)
	}
	for i, raw := range vals {
		if s, ok := raw.(string); ok {
			out[keys[i]] = s
		}
	}
	return out, nil
}

// SetValues writes all fields and refreshes the TTL in one MULTI/EXEC.
func (v *sessionValues) SetValues(ctx context.Context, values map[string]string) error {
	if v.empty {
		return ErrNoSession
	}
	if len(values) == 0 {
		return nil
	}
	fields := make([]any, 0, len(values)*2)
	for k, val := range values {
		fields = append(fields, k, val)
	}
	_, err := v.store.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HSet(ctx, v.key, fields...)
		if v.store.idleTTL > 0 {
			pipe.Expire(ctx, v.key, v.store.idleTTL)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("redis hset: %w", err)
	}
	return nil
}

func (v *sessionValues) RemoveValues(ctx context.Context, keys ...string) error {
	if v.empty {
		return ErrNoSession
	}
	if len(keys) == 0 {
		return nil
	}
	if err := v.store.client.HDel(ctx, v.key, keys...).Err(); err != nil {
		return fmt.Errorf("redis hdel: %w", err)
	}
	return nil
}
