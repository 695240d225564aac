package auth

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// JwtBlacklistStore records tokens that were logged out before their expiry.
type JwtBlacklistStore interface {
	// IsBlacklisted checks if the given JWT ID (jti) is blacklisted.
	IsBlacklisted(jti string) (bool, error)
	// AddToBlacklist adds the given JWT ID (jti) to the blacklist with an expiration time.
	AddToBlacklist(jti string, exp time.Time) error
}

// InMemoryBlacklistStore keeps blacklisted token ids in process memory. It is
// the fallback when no Redis instance is configured; entries do not survive a
// restart, which only shortens the logout window to the token lifetime.
type InMemoryBlacklistStore struct {
	blacklist map[string]time.Time
	mu        sync.RWMutex
}

// NewInMemoryBlacklistStore creates the store and starts its cleanup loop.
func NewInMemoryBlacklistStore() *InMemoryBlacklistStore {
	store := &InMemoryBlacklistStore{
		blacklist: make(map[string]time.Time),
	}
	go periodiclyCleanUp(store, time.Minute*5)
	return store
}

func periodiclyCleanUp(store *InMemoryBlacklistStore, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for range ticker.C {
		store.CleanUpExpired()
	}
}

// CleanUpExpired drops entries whose tokens have already expired.
func (s *InMemoryBlacklistStore) CleanUpExpired() {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	for jti, exp := range s.blacklist {
		if exp.Before(now) {
			delete(s.blacklist, jti)
		}
	}
}

// IsBlacklisted checks if the given JWT ID (jti) is blacklisted.
func (s *InMemoryBlacklistStore) IsBlacklisted(jti string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	_, exists := s.blacklist[jti]
	return exists, nil
}

// AddToBlacklist adds the given JWT ID (jti) to the blacklist with an expiration time.
func (s *InMemoryBlacklistStore) AddToBlacklist(jti string, exp time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.blacklist[jti] = exp
	return nil
}

// RedisBlacklistStore keeps blacklisted token ids in Redis so a logout is
// honored by every server instance. Expiry is delegated to the key TTL.
type RedisBlacklistStore struct {
	client *redis.Client
}

// NewRedisBlacklistStore wraps an existing Redis client.
func NewRedisBlacklistStore(client *redis.Client) *RedisBlacklistStore {
	return &RedisBlacklistStore{client: client}
}

func blacklistKey(jti string) string {
	return fmt.Sprintf("jwt-blacklist:%s", jti)
}

// IsBlacklisted checks if the given JWT ID (jti) is blacklisted.
func (s *RedisBlacklistStore) IsBlacklisted(jti string) (bool, error) {
	n, err := s.client.Exists(context.Background(), blacklistKey(jti)).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// AddToBlacklist adds the given JWT ID (jti) to the blacklist with an expiration time.
func (s *RedisBlacklistStore) AddToBlacklist(jti string, exp time.Time) error {
	ttl := time.Until(exp)
	if ttl <= 0 {
		// already expired, nothing to hold
		return nil
	}
	return s.client.Set(context.Background(), blacklistKey(jti), "1", ttl).Err()
}
