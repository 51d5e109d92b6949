package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/valkey-io/valkey-go"
)

// ErrNotFound is returned by Store.Get for unknown or expired conversations.
var ErrNotFound = errors.New("session not found")

// Store persists sessions by conversation id.
type Store interface {
	Get(ctx context.Context, id string) (Session, error)
	Save(ctx context.Context, id string, s Session) error
	Delete(ctx context.Context, id string) error
}

// Cache is a byte-oriented key/value store with expiry. Get returns ErrNotFound
// for a missing key.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

const keyPrefix = "haven:session:"

// CacheStore keeps sessions as JSON in a Cache, refreshing the TTL on every save.
type CacheStore struct {
	cache Cache
	ttl   time.Duration
	log   *slog.Logger
}

// NewCacheStore creates a CacheStore.
func NewCacheStore(cache Cache, ttl time.Duration, log *slog.Logger) *CacheStore {
	return &CacheStore{cache: cache, ttl: ttl, log: log}
}

// Get implements Store.
func (c *CacheStore) Get(ctx context.Context, id string) (Session, error) {
	raw, err := c.cache.Get(ctx, keyPrefix+id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return Session{}, ErrNotFound
		}
		return Session{}, fmt.Errorf("failed to load session: %w", err)
	}

	var s Session
	if err = json.Unmarshal(raw, &s); err != nil {
		c.log.WarnContext(ctx, "Dropping undecodable session", "conversation", id, "error", err)
		return Session{}, ErrNotFound
	}

	return s, nil
}

// Save implements Store.
func (c *CacheStore) Save(ctx context.Context, id string, s Session) error {
	raw, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("failed to encode session: %w", err)
	}

	if err = c.cache.Set(ctx, keyPrefix+id, raw, c.ttl); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}

	return nil
}

// Delete implements Store.
func (c *CacheStore) Delete(ctx context.Context, id string) error {
	if err := c.cache.Delete(ctx, keyPrefix+id); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}

	return nil
}

// ValkeyCache implements Cache using Valkey (Redis-compatible).
type ValkeyCache struct {
	client valkey.Client
}

// NewValkeyCache connects to addr.
func NewValkeyCache(addr string) (*ValkeyCache, error) {
	client, err := valkey.NewClient(valkey.ClientOption{
		InitAddress: []string{addr},
	})
	if err != nil {
		return nil, fmt.Errorf("valkey connect: %w", err)
	}

	return &ValkeyCache{client: client}, nil
}

// Get implements Cache.
func (v *ValkeyCache) Get(ctx context.Context, key string) ([]byte, error) {
	b, err := v.client.Do(ctx, v.client.B().Get().Key(key).Build()).AsBytes()
	if valkey.IsValkeyNil(err) {
		return nil, ErrNotFound
	}

	return b, err
}

// Set implements Cache.
func (v *ValkeyCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	cmd := v.client.B().Set().Key(key).Value(string(value))
	if ttl > 0 {
		return v.client.Do(ctx, cmd.Ex(ttl).Build()).Error()
	}

	return v.client.Do(ctx, cmd.Build()).Error()
}

// Delete implements Cache.
func (v *ValkeyCache) Delete(ctx context.Context, key string) error {
	return v.client.Do(ctx, v.client.B().Del().Key(key).Build()).Error()
}

// Ping checks the connection.
func (v *ValkeyCache) Ping(ctx context.Context) error {
	return v.client.Do(ctx, v.client.B().Ping().Build()).Error()
}

// Close releases the client.
func (v *ValkeyCache) Close() {
	v.client.Close()
}

// MemoryCache is an in-process Cache for single-instance deployments and tests.
type MemoryCache struct {
	mu      sync.Mutex
	entries map[string]memoryEntry
	now     func() time.Time
}

type memoryEntry struct {
	value   []byte
	expires time.Time
}

// NewMemoryCache creates an empty MemoryCache.
func NewMemoryCache() *MemoryCache {
	return &MemoryCache{entries: make(map[string]memoryEntry), now: time.Now}
}

// Get implements Cache.
func (m *MemoryCache) Get(_ context.Context, key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.entries[key]
	if !ok {
		return nil, ErrNotFound
	}
	if !e.expires.IsZero() && !m.now().Before(e.expires) {
		delete(m.entries, key)
		return nil, ErrNotFound
	}

	return e.value, nil
}

// Set implements Cache. A non-positive ttl never expires.
func (m *MemoryCache) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	e := memoryEntry{value: append([]byte(nil), value...)}
	if ttl > 0 {
		e.expires = m.now().Add(ttl)
	}
	m.entries[key] = e

	return nil
}

// Delete implements Cache.
func (m *MemoryCache) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.entries, key)

	return nil
}
