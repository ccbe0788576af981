package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/ntwoods/dealerdocs/internal/domain/session"
)

// RedisSessionStore keeps one session per scope in Redis. Keys expire when
// the session does, so an abandoned session never outlives its token.
type RedisSessionStore struct {
	client *redis.Client
	prefix string // e.g. "dealer_docs_session:"
	now    func() time.Time
}

// NewRedisSessionStore creates a store writing keys under prefix.
func NewRedisSessionStore(client *redis.Client, prefix string) *RedisSessionStore {
	return &RedisSessionStore{
		client: client,
		prefix: prefix,
		now:    time.Now,
	}
}

// Load returns the stored session, or nil when the key is absent.
// A value that no longer decodes is removed and reported as absent.
func (s *RedisSessionStore) Load(ctx context.Context, scope string) (*session.Session, error) {
	if scope == "" {
		return nil, nil
	}

	data, err := s.client.Get(ctx, s.buildKey(scope)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to load session from redis: %w", err)
	}

	var sess session.Session
	if err := json.Unmarshal(data, &sess); err != nil {
		_ = s.Clear(ctx, scope)
		return nil, nil
	}
	return &sess, nil
}

// Save writes sess with a TTL running until sess.ExpiresAt. A session that
// has already expired clears the scope instead.
func (s *RedisSessionStore) Save(ctx context.Context, scope string, sess *session.Session) error {
	if scope == "" {
		return errors.New("session scope cannot be empty")
	}
	if sess == nil {
		return s.Clear(ctx, scope)
	}

	ttl := sess.ExpiresAt.Sub(s.now())
	if ttl <= 0 {
		return s.Clear(ctx, scope)
	}

	data, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}
	if err := s.client.Set(ctx, s.buildKey(scope), data, ttl).Err(); err != nil {
		return fmt.Errorf("failed to store session in redis: %w", err)
	}
	return nil
}

// Clear deletes the scope's session. Clearing an empty scope is a no-op.
func (s *RedisSessionStore) Clear(ctx context.Context, scope string) error {
	if scope == "" {
		return nil
	}
	if err := s.client.Del(ctx, s.buildKey(scope)).Err(); err != nil {
		return fmt.Errorf("failed to delete session from redis: %w", err)
	}
	return nil
}

func (s *RedisSessionStore) buildKey(scope string) string {
	return s.prefix + scope
}
