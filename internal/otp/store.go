// Package otp stores short-lived password-reset codes keyed by e-mail.
//
// One live code per e-mail: a fresh issue overwrites any pending one. Codes
// expire after five minutes and expiry is enforced at redemption. A matching
// code is consumed atomically so it redeems at most once; a mismatched
// attempt leaves the pending code intact.
package otp

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
	"sync"
	"time"

	"carezy/internal/cache"
	"carezy/internal/models"

	"github.com/redis/go-redis/v9"
)

// TTL is the validity window for a reset code.
const TTL = 5 * time.Minute

// Store issues and consumes one-time password-reset codes.
type Store interface {
	// Put stores code for email, replacing any pending one.
	Put(ctx context.Context, email, code string) error
	// Consume returns true and removes the pending code when the supplied
	// code matches the live, unexpired code for email. A mismatch returns
	// false and leaves the pending code in place.
	Consume(ctx context.Context, email, code string) (bool, error)
}

// GenerateCode returns a 6-digit numeric code from a crypto-random source.
func GenerateCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		return "", fmt.Errorf("otp: generate code: %w", err)
	}
	return fmt.Sprintf("%d", n.Int64()+100000), nil
}

// NewStore returns a Redis-backed store when a client is available and an
// in-memory store otherwise.
func NewStore(rdb *redis.Client) Store {
	if rdb != nil {
		return &redisStore{rdb: rdb}
	}
	return NewMemoryStore()
}

type redisStore struct {
	rdb *redis.Client
}

func (s *redisStore) Put(ctx context.Context, email, code string) error {
	if err := s.rdb.Set(ctx, cache.ResetCodeKey(email), code, TTL).Err(); err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

// consumeScript deletes the key only when its value matches, so a correct
// code redeems at most once even under concurrent attempts while a wrong
// guess leaves it pending. Expiry is the key TTL.
var consumeScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	redis.call("DEL", KEYS[1])
	return 1
end
return 0
`)

func (s *redisStore) Consume(ctx context.Context, email, code string) (bool, error) {
	matched, err := consumeScript.Run(ctx, s.rdb, []string{cache.ResetCodeKey(email)}, code).Int()
	if err != nil {
		return false, models.NewInternalError(err)
	}
	return matched == 1, nil
}

type memoryEntry struct {
	code      string
	expiresAt time.Time
}

// MemoryStore is a mutex-guarded in-process code store.
type MemoryStore struct {
	mu      sync.Mutex
	entries map[string]memoryEntry
	now     func() time.Time
}

// NewMemoryStore returns an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		entries: make(map[string]memoryEntry),
		now:     time.Now,
	}
}

func (s *MemoryStore) Put(_ context.Context, email, code string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries[email] = memoryEntry{code: code, expiresAt: s.now().Add(TTL)}
	return nil
}

func (s *MemoryStore) Consume(_ context.Context, email, code string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.entries[email]
	if !ok {
		return false, nil
	}
	if s.now().After(entry.expiresAt) {
		delete(s.entries, email)
		return false, nil
	}
	if entry.code != code {
		return false, nil
	}
	delete(s.entries, email)
	return true, nil
}
