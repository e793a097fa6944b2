// Copyright (c) 2026 Clanboard. All rights reserved.
// Author: dev@clanboard.app

package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/clanboard/api/internal/platform/constants"
)

// # Volatile Repository Implementation

// RedisWebSessionRepository implements [WebSessionRepository] on Redis.
//
// Entries are stored as JSON under a prefixed key and expire server-side
// after [WebSessionTTL]; no sweeping is needed for this store.
type RedisWebSessionRepository struct {
	client *redis.Client
}

// NewWebSessionRepository creates a Redis-backed web session store.
func NewWebSessionRepository(client *redis.Client) *RedisWebSessionRepository {
	return &RedisWebSessionRepository{client: client}
}

func webSessionKey(sessionID string) string {
	return constants.RedisPrefixWebSession + sessionID
}

/*
Put stores the web session as JSON with the standard TTL. Rewriting an
existing key also resets its TTL, which gives active users a sliding window.

Parameters:
  - context: context.Context
  - sessionID: string
  - session: *WebSession

Returns:
  - error: Serialization or Redis failures
*/
func (repository *RedisWebSessionRepository) Put(context context.Context, sessionID string, session *WebSession) error {
	payload, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("redis_web_session_repo_marshal_failed: %w", err)
	}

	err = repository.client.Set(context, webSessionKey(sessionID), payload, WebSessionTTL).Err()
	if err != nil {
		return fmt.Errorf("redis_web_session_repo_put_failed: %w", err)
	}

	return nil
}

/*
Get retrieves a web session, or nil when it is absent or has expired.

Parameters:
  - context: context.Context
  - sessionID: string

Returns:
  - *WebSession: Hydrated entry, nil when absent
  - error: Deserialization or Redis failures
*/
func (repository *RedisWebSessionRepository) Get(context context.Context, sessionID string) (*WebSession, error) {
	payload, err := repository.client.Get(context, webSessionKey(sessionID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("redis_web_session_repo_get_failed: %w", err)
	}

	session := &WebSession{}
	if err := json.Unmarshal(payload, session); err != nil {
		return nil, fmt.Errorf("redis_web_session_repo_unmarshal_failed: %w", err)
	}

	return session, nil
}

/*
Delete removes a web session. Deleting an absent key is not an error.

Parameters:
  - context: context.Context
  - sessionID: string

Returns:
  - error: Redis failures
*/
func (repository *RedisWebSessionRepository) Delete(context context.Context, sessionID string) error {
	if err := repository.client.Del(context, webSessionKey(sessionID)).Err(); err != nil {
		return fmt.Errorf("redis_web_session_repo_delete_failed: %w", err)
	}

	return nil
}
