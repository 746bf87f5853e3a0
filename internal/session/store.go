package session

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/d60-Lab/gin-blog/internal/model"
	"github.com/d60-Lab/gin-blog/internal/repository"
)

var ErrNotFound = errors.New("session not found")

// Store 服务端会话存储
type Store interface {
	Save(ctx context.Context, sessionID string, userID uint, ttl time.Duration) error
	// Load 返回会话对应的用户；不存在或已过期返回 ErrNotFound
	Load(ctx context.Context, sessionID string) (uint, error)
	Delete(ctx context.Context, sessionID string) error
}

// DatabaseStore 会话保存在 sessions 表
type DatabaseStore struct {
	repo repository.SessionRepository
	now  func() time.Time
}

func NewDatabaseStore(repo repository.SessionRepository) *DatabaseStore {
	return &DatabaseStore{repo: repo, now: func() time.Time { return time.Now().UTC() }}
}

func (s *DatabaseStore) Save(ctx context.Context, sessionID string, userID uint, ttl time.Duration) error {
	return s.repo.Create(ctx, &model.Session{ID: sessionID, UserID: userID, ExpiresAt: s.now().Add(ttl)})
}

func (s *DatabaseStore) Load(ctx context.Context, sessionID string) (uint, error) {
	sess, err := s.repo.GetActive(ctx, sessionID, s.now())
	if err != nil {
		if repository.IsNotFound(err) {
			return 0, ErrNotFound
		}
		return 0, err
	}
	return sess.UserID, nil
}

func (s *DatabaseStore) Delete(ctx context.Context, sessionID string) error {
	return s.repo.Delete(ctx, sessionID)
}

// Cleanup 清理过期会话
func (s *DatabaseStore) Cleanup(ctx context.Context) (int64, error) {
	return s.repo.DeleteExpired(ctx, s.now())
}

// RedisStore 会话保存在 redis，过期由 TTL 处理
type RedisStore struct {
	client *redis.Client
	prefix string
}

func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client, prefix: "session:"}
}

func (s *RedisStore) key(sessionID string) string { return s.prefix + sessionID }

func (s *RedisStore) Save(ctx context.Context, sessionID string, userID uint, ttl time.Duration) error {
	return s.client.Set(ctx, s.key(sessionID), strconv.FormatUint(uint64(userID), 10), ttl).Err()
}

func (s *RedisStore) Load(ctx context.Context, sessionID string) (uint, error) {
	v, err := s.client.Get(ctx, s.key(sessionID)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return 0, ErrNotFound
		}
		return 0, err
	}
	id, err := strconv.ParseUint(v, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("corrupt session %s: %w", sessionID, err)
	}
	return uint(id), nil
}

func (s *RedisStore) Delete(ctx context.Context, sessionID string) error {
	return s.client.Del(ctx, s.key(sessionID)).Err()
}
