// Package chat stores per-user chatbot transcripts.
//
// Transcripts are ordered, append-only sequences of turns keyed by user id.
// The Redis-backed store is the production implementation: list commands give
// one-writer-per-key ordering, transcripts are capped, and idle conversations
// expire. The in-memory store is the fallback when Redis is not configured
// and the default in tests.
package chat

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"carezy/internal/assistant"
	"carezy/internal/cache"
	"carezy/internal/models"

	"github.com/redis/go-redis/v9"
)

const (
	// MaxTurns bounds a transcript; the oldest turns are dropped first.
	MaxTurns = 200
	// HistoryTTL expires transcripts with no recent activity.
	HistoryTTL = 24 * time.Hour
)

// Store holds per-user conversation transcripts.
type Store interface {
	Append(ctx context.Context, userID uint, turn assistant.Turn) error
	History(ctx context.Context, userID uint) ([]assistant.Turn, error)
	Clear(ctx context.Context, userID uint) error
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

func (s *redisStore) Append(ctx context.Context, userID uint, turn assistant.Turn) error {
	b, err := json.Marshal(turn)
	if err != nil {
		return models.NewInternalError(err)
	}

	key := cache.ChatHistoryKey(userID)
	pipe := s.rdb.TxPipeline()
	pipe.RPush(ctx, key, b)
	pipe.LTrim(ctx, key, -MaxTurns, -1)
	pipe.Expire(ctx, key, HistoryTTL)
	if _, err := pipe.Exec(ctx); err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (s *redisStore) History(ctx context.Context, userID uint) ([]assistant.Turn, error) {
	raw, err := s.rdb.LRange(ctx, cache.ChatHistoryKey(userID), 0, -1).Result()
	if err != nil {
		return nil, models.NewInternalError(err)
	}

	turns := make([]assistant.Turn, 0, len(raw))
	for _, item := range raw {
		var t assistant.Turn
		if err := json.Unmarshal([]byte(item), &t); err != nil {
			return nil, models.NewInternalError(err)
		}
		turns = append(turns, t)
	}
	return turns, nil
}

func (s *redisStore) Clear(ctx context.Context, userID uint) error {
	if err := s.rdb.Del(ctx, cache.ChatHistoryKey(userID)).Err(); err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

// MemoryStore is a mutex-guarded in-process transcript store.
type MemoryStore struct {
	mu      sync.Mutex
	history map[uint][]assistant.Turn
}

// NewMemoryStore returns an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{history: make(map[uint][]assistant.Turn)}
}

func (s *MemoryStore) Append(_ context.Context, userID uint, turn assistant.Turn) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	turns := append(s.history[userID], turn)
	if len(turns) > MaxTurns {
		turns = turns[len(turns)-MaxTurns:]
	}
	s.history[userID] = turns
	return nil
}

func (s *MemoryStore) History(_ context.Context, userID uint) ([]assistant.Turn, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	turns := make([]assistant.Turn, len(s.history[userID]))
	copy(turns, s.history[userID])
	return turns, nil
}

func (s *MemoryStore) Clear(_ context.Context, userID uint) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.history, userID)
	return nil
}
