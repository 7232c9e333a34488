package session

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/jesseg-dev/portfolio-site/internal/auth/domain"
)

const (
	sessionKeyPrefix = "portfolio:session:" // portfolio:session:{session_id} -> session JSON
	userSetPrefix    = "portfolio:user:"    // portfolio:user:{user_id}:sessions -> set of session ids
)

// Store keeps admin sessions in Redis. Each session key expires with the
// session itself, so an expired session is indistinguishable from a missing one.
type Store struct {
	client *redis.Client
}

func NewStore(client *redis.Client) *Store {
	return &Store{client: client}
}

// Save writes the session with a TTL matching its expiry.
func (s *Store) Save(ctx context.Context, sess *domain.Session) error {
	ttl := time.Until(sess.ExpiresAt)
	if ttl <= 0 {
		return fmt.Errorf("session %s already expired", sess.ID)
	}

	data, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}

	userKey := s.userSetKey(sess.UserID)

	pipe := s.client.TxPipeline()
	pipe.Set(ctx, s.sessionKey(sess.ID), data, ttl)
	pipe.SAdd(ctx, userKey, sess.ID)
	pipe.Expire(ctx, userKey, ttl)

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	return nil
}

// Get returns the session or domain.ErrUnauthorized when it is absent or expired.
func (s *Store) Get(ctx context.Context, sessionID string) (*domain.Session, error) {
	data, err := s.client.Get(ctx, s.sessionKey(sessionID)).Result()
	if err == redis.Nil {
		return nil, domain.ErrUnauthorized
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get session: %w", err)
	}

	var sess domain.Session
	if err := json.Unmarshal([]byte(data), &sess); err != nil {
		return nil, fmt.Errorf("failed to unmarshal session: %w", err)
	}
	return &sess, nil
}

// Delete revokes one session. Deleting an unknown session is not an error.
func (s *Store) Delete(ctx context.Context, sess *domain.Session) error {
	pipe := s.client.TxPipeline()
	pipe.Del(ctx, s.sessionKey(sess.ID))
	pipe.SRem(ctx, s.userSetKey(sess.UserID), sess.ID)

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}

// DeleteAllForUser revokes every session of a user, e.g. after a password change.
func (s *Store) DeleteAllForUser(ctx context.Context, userID string) error {
	userKey := s.userSetKey(userID)

	ids, err := s.client.SMembers(ctx, userKey).Result()
	if err != nil {
		return fmt.Errorf("failed to list sessions for user: %w", err)
	}

	pipe := s.client.TxPipeline()
	for _, id := range ids {
		pipe.Del(ctx, s.sessionKey(id))
	}
	pipe.Del(ctx, userKey)

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to delete sessions for user: %w", err)
	}
	return nil
}

func (s *Store) sessionKey(sessionID string) string {
	return sessionKeyPrefix + sessionID
}

func (s *Store) userSetKey(userID string) string {
	return fmt.Sprintf("%s%s:sessions", userSetPrefix, userID)
}
