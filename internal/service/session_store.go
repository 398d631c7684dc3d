package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"monsterhouse_backend/internal/util"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"
)

// SessionStore 每个学员最多一个进行中的训练会话
type SessionStore interface {
	Get(ctx context.Context, userID string) (*WorkoutSession, error)
	Save(ctx context.Context, s *WorkoutSession) error
	// Delete 仅当存储中的会话 ID 与 sessionID 一致时删除；sessionID 为空时无条件删除
	Delete(ctx context.Context, userID, sessionID string) error
}

type memoryEntry struct {
	session   *WorkoutSession
	expiresAt time.Time
}

// MemorySessionStore 单实例部署与测试使用
type MemorySessionStore struct {
	mu       sync.Mutex
	sessions map[string]memoryEntry
	ttl      time.Duration
	now      func() time.Time
}

func NewMemorySessionStore(ttl time.Duration) *MemorySessionStore {
	return &MemorySessionStore{
		sessions: make(map[string]memoryEntry),
		ttl:      ttl,
		now:      time.Now,
	}
}

func (m *MemorySessionStore) Get(ctx context.Context, userID string) (*WorkoutSession, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, ok := m.sessions[userID]
	if !ok {
		return nil, util.ErrSessionNotFound
	}
	if m.ttl > 0 && m.now().After(entry.expiresAt) {
		delete(m.sessions, userID)
		return nil, util.ErrSessionNotFound
	}
	return entry.session.Clone(), nil
}

func (m *MemorySessionStore) Save(ctx context.Context, s *WorkoutSession) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.sessions[s.UserID] = memoryEntry{
		session:   s.Clone(),
		expiresAt: m.now().Add(m.ttl),
	}
	return nil
}

func (m *MemorySessionStore) Delete(ctx context.Context, userID, sessionID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, ok := m.sessions[userID]
	if !ok {
		return nil
	}
	if sessionID != "" && entry.session.ID != sessionID {
		return nil
	}
	delete(m.sessions, userID)
	return nil
}

// RedisSessionStore 多实例部署时共享会话，JSON 序列化并设置 TTL
type RedisSessionStore struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewRedisSessionStore(rdb *redis.Client, ttl time.Duration) *RedisSessionStore {
	return &RedisSessionStore{rdb: rdb, ttl: ttl}
}

func sessionKey(userID string) string {
	return "workout_session:" + userID
}

func (r *RedisSessionStore) Get(ctx context.Context, userID string) (*WorkoutSession, error) {
	data, err := r.rdb.Get(ctx, sessionKey(userID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, util.ErrSessionNotFound
	}
	if err != nil {
		return nil, util.Retryable("load workout session", err)
	}
	var s WorkoutSession
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("decode workout session: %w", err)
	}
	return &s, nil
}

func (r *RedisSessionStore) Save(ctx context.Context, s *WorkoutSession) error {
	data, err := json.Marshal(s)
	if err != nil {
		return err
	}
	if err := r.rdb.Set(ctx, sessionKey(s.UserID), data, r.ttl).Err(); err != nil {
		return util.Retryable("save workout session", err)
	}
	return nil
}

func (r *RedisSessionStore) Delete(ctx context.Context, userID, sessionID string) error {
	key := sessionKey(userID)
	if sessionID == "" {
		return r.rdb.Del(ctx, key).Err()
	}
	// WATCH 保证不会误删同一学员刚开始的新会话
	return r.rdb.Watch(ctx, func(tx *redis.Tx) error {
		data, err := tx.Get(ctx, key).Bytes()
		if errors.Is(err, redis.Nil) {
			return nil
		}
		if err != nil {
			return err
		}
		var s WorkoutSession
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		if s.ID != sessionID {
			return nil
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Del(ctx, key)
			return nil
		})
		return err
	}, key)
}
