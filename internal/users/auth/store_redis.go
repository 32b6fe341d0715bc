// Copyright (c) 2026 Rentiva. All rights reserved.
// Author: platform@rentiva.app

package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/rentiva/rentiva/internal/platform/apperr"
	"github.com/rentiva/rentiva/internal/platform/constants"
)

// # Redis Session Store

// RedisSessionStore implements the SessionStore interface on Redis.
//
// # Layout
//
//   - auth:session:<id>       → JSON session record, TTL = hard backstop
//   - auth:session_user:<uid> → SET of session ids owned by the user
//
// The per-user index makes DeleteAllForUser a bounded operation instead of a
// keyspace scan.
type RedisSessionStore struct {
	client *redis.Client
}

// NewRedisSessionStore creates a new Redis implementation of SessionStore.
func NewRedisSessionStore(client *redis.Client) *RedisSessionStore {
	return &RedisSessionStore{client: client}
}

func sessionKey(sessionID string) string {
	return constants.RedisPrefixSession + sessionID
}

func userIndexKey(userID string) string {
	return constants.RedisPrefixSessionUser + userID
}

/*
Save writes the session record under its ID with the given TTL.

Description: Serializes the record as JSON and updates the per-user index in
the same pipeline. The index key carries the same TTL so it cannot outlive
the sessions it references by more than one backstop period.

Parameters:
  - context: context.Context
  - session: *Session
  - ttl: time.Duration

Returns:
  - error: Serialization or persistence failures
*/
func (store *RedisSessionStore) Save(context context.Context, session *Session, ttl time.Duration) error {
	payload, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("redis_session_store_marshal_failed: %w", err)
	}

	pipeline := store.client.TxPipeline()
	pipeline.Set(context, sessionKey(session.ID), payload, ttl)
	pipeline.SAdd(context, userIndexKey(session.UserID), session.ID)
	pipeline.Expire(context, userIndexKey(session.UserID), ttl)

	if _, err := pipeline.Exec(context); err != nil {
		return fmt.Errorf("redis_session_store_save_failed: %w", err)
	}

	return nil
}

/*
Find returns the session stored under the given ID.

Returns:
  - *Session: Hydrated record
  - error: apperr.NotFound when absent, otherwise retrieval failures
*/
func (store *RedisSessionStore) Find(context context.Context, sessionID string) (*Session, error) {
	payload, err := store.client.Get(context, sessionKey(sessionID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, apperr.NotFound("Session")
		}
		return nil, fmt.Errorf("redis_session_store_find_failed: %w", err)
	}

	session := &Session{}
	if err := json.Unmarshal(payload, session); err != nil {
		return nil, fmt.Errorf("redis_session_store_unmarshal_failed: %w", err)
	}

	session.ID = sessionID
	return session, nil
}

/*
Delete removes the session record and its index entry. Absent sessions are
ignored.
*/
func (store *RedisSessionStore) Delete(context context.Context, sessionID string) error {
	// Resolve the owner first so the index entry can be removed too. A
	// missing record still gets its key deleted (no-op).
	session, err := store.Find(context, sessionID)
	if err != nil {
		if apperr.IsAppError(err) {
			return nil
		}
		return err
	}

	pipeline := store.client.TxPipeline()
	pipeline.Del(context, sessionKey(sessionID))
	pipeline.SRem(context, userIndexKey(session.UserID), sessionID)

	if _, err := pipeline.Exec(context); err != nil {
		return fmt.Errorf("redis_session_store_delete_failed: %w", err)
	}

	return nil
}

/*
DeleteAllForUser removes every session belonging to the user via the per-user
index.
*/
func (store *RedisSessionStore) DeleteAllForUser(context context.Context, userID string) error {
	sessionIDs, err := store.client.SMembers(context, userIndexKey(userID)).Result()
	if err != nil {
		return fmt.Errorf("redis_session_store_index_read_failed: %w", err)
	}

	if len(sessionIDs) == 0 {
		return nil
	}

	keys := make([]string, 0, len(sessionIDs)+1)
	for _, sessionID := range sessionIDs {
		keys = append(keys, sessionKey(sessionID))
	}
	keys = append(keys, userIndexKey(userID))

	if err := store.client.Del(context, keys...).Err(); err != nil {
		return fmt.Errorf("redis_session_store_delete_all_failed: %w", err)
	}

	return nil
}
