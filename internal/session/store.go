package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/Checker-Finance/maturity-client/pkg/secrets"
)

// DefaultKey is the fixed key the credential lives under in both scopes.
const DefaultKey = "maturity:session:credential"

// Store is one scope of credential storage. Load returns (nil, nil) when
// nothing is stored.
type Store interface {
	Load(ctx context.Context) (*Credential, error)
	Save(ctx context.Context, cred *Credential) error
	Delete(ctx context.Context) error
}

// MemoryStore is the session scope: it lives as long as the process.
type MemoryStore struct {
	cache *secrets.Cache[Credential]
	key   string
}

// NewMemoryStore creates a session-scoped store. ttl bounds credentials
// whose token carries no expiry.
func NewMemoryStore(ttl time.Duration) *MemoryStore {
	return &MemoryStore{
		cache: secrets.NewCache[Credential](ttl),
		key:   DefaultKey,
	}
}

func (s *MemoryStore) Load(_ context.Context) (*Credential, error) {
	cred, ok := s.cache.Get(s.key)
	if !ok {
		return nil, nil
	}
	return &cred, nil
}

func (s *MemoryStore) Save(_ context.Context, cred *Credential) error {
	ttl := cred.TTL(time.Now(), 0)
	if !cred.ExpiresAt.IsZero() && ttl <= 0 {
		return ErrExpired
	}
	s.cache.PutWithTTL(s.key, *cred, ttl)
	return nil
}

func (s *MemoryStore) Delete(_ context.Context) error {
	s.cache.Bust(s.key)
	return nil
}

// StartCleaner evicts expired credentials every interval until stop is
// closed. It blocks; run it on its own goroutine.
func (s *MemoryStore) StartCleaner(interval time.Duration, stop <-chan struct{}) {
	s.cache.StartCleaner(interval, stop)
}

// RedisStore is the persistent scope: it survives process restarts.
type RedisStore struct {
	redis *redis.Client
	key   string
	ttl   time.Duration
}

// NewRedisStore creates a persistent store under key. ttl applies to
// credentials without a token expiry.
func NewRedisStore(rdb *redis.Client, key string, ttl time.Duration) *RedisStore {
	if key == "" {
		key = DefaultKey
	}
	return &RedisStore{redis: rdb, key: key, ttl: ttl}
}

// DialRedis connects and pings a Redis server.
func DialRedis(ctx context.Context, addr string, db int, password string) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		DB:       db,
		Password: password,
	})
	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}
	return rdb, nil
}

func (s *RedisStore) Load(ctx context.Context) (*Credential, error) {
	data, err := s.redis.Get(ctx, s.key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	} else if err != nil {
		return nil, fmt.Errorf("session: redis get: %w", err)
	}

	var cred Credential
	if err := json.Unmarshal(data, &cred); err != nil {
		return nil, fmt.Errorf("session: decode stored credential: %w", err)
	}
	return &cred, nil
}

func (s *RedisStore) Save(ctx context.Context, cred *Credential) error {
	ttl := cred.TTL(time.Now(), s.ttl)
	if !cred.ExpiresAt.IsZero() && ttl <= 0 {
		return ErrExpired
	}
	data, err := json.Marshal(cred)
	if err != nil {
		return err
	}
	if err := s.redis.Set(ctx, s.key, data, ttl).Err(); err != nil {
		return fmt.Errorf("session: redis set: %w", err)
	}
	return nil
}

func (s *RedisStore) Delete(ctx context.Context) error {
	if err := s.redis.Del(ctx, s.key).Err(); err != nil {
		return fmt.Errorf("session: redis del: %w", err)
	}
	return nil
}

// Close releases the Redis connection pool.
func (s *RedisStore) Close() error {
	return s.redis.Close()
}
