// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package registry

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/danielhkuo/devpoker/models"
)

// redisStore implements Store with one JSON value per session and game.
//
// Keys (after the prefix):
//
//	session:<chat>:<key>          session blob
//	resolutions:<chat>:<key>      list of resolved snapshots
//	game:<id>                     game blob
//	game:<id>:resolutions         list of resolved session keys
//	game:<id>:topics              set of resolved session keys
//	active-game:<chat>:<owner>    id of the started game
type redisStore struct {
	client *redis.Client
	prefix string
	now    func() time.Time
}

func newRedisStore(client *redis.Client, prefix string, now func() time.Time) *redisStore {
	return &redisStore{client: client, prefix: prefix, now: now}
}

func (s *redisStore) sessionKey(chatID int64, key int) string {
	return fmt.Sprintf("%ssession:%d:%d", s.prefix, chatID, key)
}

func (s *redisStore) resolutionsKey(chatID int64, key int) string {
	return fmt.Sprintf("%sresolutions:%d:%d", s.prefix, chatID, key)
}

func (s *redisStore) gameKey(id string) string {
	return s.prefix + "game:" + id
}

func (s *redisStore) activeGameKey(chatID, ownerID int64) string {
	return fmt.Sprintf("%sactive-game:%d:%d", s.prefix, chatID, ownerID)
}

func (s *redisStore) FindSession(ctx context.Context, chatID int64, key int) (*models.Session, error) {
	val, err := s.client.Get(ctx, s.sessionKey(chatID, key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get session: %w", err)
	}

	var sess models.Session
	if err := json.Unmarshal(val, &sess); err != nil {
		return nil, fmt.Errorf("failed to decode session: %w", err)
	}
	return &sess, nil
}

func (s *redisStore) CreateSession(ctx context.Context, sess *models.Session) error {
	prevID := sess.ID
	sess.ID = uuid.NewString()

	data, err := json.Marshal(sess)
	if err != nil {
		sess.ID = prevID
		return fmt.Errorf("failed to encode session: %w", err)
	}

	ok, err := s.client.SetNX(ctx, s.sessionKey(sess.ChatID, sess.SessionKey), data, 0).Result()
	if err != nil {
		sess.ID = prevID
		return fmt.Errorf("failed to set session: %w", err)
	}
	if !ok {
		sess.ID = prevID
		return fmt.Errorf("session %d in chat %d: %w", sess.SessionKey, sess.ChatID, models.ErrAlreadyExists)
	}

	return nil
}

func (s *redisStore) UpdateSession(ctx context.Context, sess *models.Session) error {
	data, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("failed to encode session: %w", err)
	}

	ok, err := s.client.SetXX(ctx, s.sessionKey(sess.ChatID, sess.SessionKey), data, 0).Result()
	if err != nil {
		return fmt.Errorf("failed to set session: %w", err)
	}
	if !ok {
		return models.ErrNotFound
	}

	return nil
}

func (s *redisStore) RecordResolution(ctx context.Context, sess *models.Session) error {
	data, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("failed to encode session: %w", err)
	}

	member := strconv.Itoa(sess.SessionKey)
	_, err = s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.RPush(ctx, s.resolutionsKey(sess.ChatID, sess.SessionKey), data)
		if sess.GameID != "" {
			pipe.RPush(ctx, s.gameKey(sess.GameID)+":resolutions", member)
			pipe.SAdd(ctx, s.gameKey(sess.GameID)+":topics", member)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to record resolution: %w", err)
	}

	return nil
}

func (s *redisStore) CreateGame(ctx context.Context, g *models.Game) error {
	prevID := g.ID
	g.ID = uuid.NewString()
	g.CreatedAt = s.now().UTC()

	data, err := json.Marshal(g)
	if err != nil {
		g.ID = prevID
		return fmt.Errorf("failed to encode game: %w", err)
	}

	_, err = s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, s.gameKey(g.ID), data, 0)
		if g.Active() {
			pipe.Set(ctx, s.activeGameKey(g.ChatID, g.Owner.ID), g.ID, 0)
		}
		return nil
	})
	if err != nil {
		g.ID = prevID
		return fmt.Errorf("failed to store game: %w", err)
	}

	return nil
}

func (s *redisStore) FindGame(ctx context.Context, id string) (*models.Game, error) {
	val, err := s.client.Get(ctx, s.gameKey(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get game: %w", err)
	}
	return decodeGame(val)
}

func (s *redisStore) FindActiveGame(ctx context.Context, chatID, ownerID int64) (*models.Game, error) {
	id, err := s.client.Get(ctx, s.activeGameKey(chatID, ownerID)).Result()
	if errors.Is(err, redis.Nil) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get active game: %w", err)
	}

	g, err := s.FindGame(ctx, id)
	if err != nil {
		return nil, err
	}
	if !g.Active() {
		return nil, models.ErrNotFound
	}
	return g, nil
}

func (s *redisStore) EndGame(ctx context.Context, g *models.Game) error {
	prevStatus := g.Status
	g.Status = models.GameStatusEnded

	data, err := json.Marshal(g)
	if err != nil {
		g.Status = prevStatus
		return fmt.Errorf("failed to encode game: %w", err)
	}

	ok, err := s.client.SetXX(ctx, s.gameKey(g.ID), data, 0).Result()
	if err != nil {
		g.Status = prevStatus
		return fmt.Errorf("failed to end game: %w", err)
	}
	if !ok {
		g.Status = prevStatus
		return models.ErrNotFound
	}

	activeKey := s.activeGameKey(g.ChatID, g.Owner.ID)
	if current, err := s.client.Get(ctx, activeKey).Result(); err == nil && current == g.ID {
		if err := s.client.Del(ctx, activeKey).Err(); err != nil {
			return fmt.Errorf("failed to clear active game: %w", err)
		}
	}

	return nil
}

func (s *redisStore) GameStatistics(ctx context.Context, gameID string) (models.GameStatistics, error) {
	var total *redis.IntCmd
	var topics *redis.IntCmd

	_, err := s.client.Pipelined(ctx, func(pipe redis.Pipeliner) error {
		total = pipe.LLen(ctx, s.gameKey(gameID)+":resolutions")
		topics = pipe.SCard(ctx, s.gameKey(gameID)+":topics")
		return nil
	})
	if err != nil {
		return models.GameStatistics{}, fmt.Errorf("failed to query game statistics: %w", err)
	}

	return models.GameStatistics{
		SessionsCount:          int(total.Val()),
		EstimatedSessionsCount: int(topics.Val()),
	}, nil
}

func (s *redisStore) Close() error {
	return s.client.Close()
}
