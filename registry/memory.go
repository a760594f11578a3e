// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package registry

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/danielhkuo/devpoker/models"
)

type sessionKey struct {
	chatID int64
	key    int
}

type resolution struct {
	gameID     string
	sessionKey sessionKey
}

// memoryStore keeps serialized blobs in maps, so callers never share
// pointers with stored state.
type memoryStore struct {
	mu          sync.RWMutex
	sessions    map[sessionKey][]byte
	games       map[string][]byte
	resolutions []resolution
	now         func() time.Time
}

func newMemoryStore(now func() time.Time) *memoryStore {
	return &memoryStore{
		sessions: make(map[sessionKey][]byte),
		games:    make(map[string][]byte),
		now:      now,
	}
}

func (s *memoryStore) FindSession(ctx context.Context, chatID int64, key int) (*models.Session, error) {
	s.mu.RLock()
	data, ok := s.sessions[sessionKey{chatID, key}]
	s.mu.RUnlock()

	if !ok {
		return nil, models.ErrNotFound
	}

	var sess models.Session
	if err := json.Unmarshal(data, &sess); err != nil {
		return nil, fmt.Errorf("failed to decode session: %w", err)
	}
	return &sess, nil
}

func (s *memoryStore) CreateSession(ctx context.Context, sess *models.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	k := sessionKey{sess.ChatID, sess.SessionKey}
	if _, exists := s.sessions[k]; exists {
		return fmt.Errorf("session %d in chat %d: %w", sess.SessionKey, sess.ChatID, models.ErrAlreadyExists)
	}

	prevID := sess.ID
	sess.ID = uuid.NewString()
	data, err := json.Marshal(sess)
	if err != nil {
		sess.ID = prevID
		return fmt.Errorf("failed to encode session: %w", err)
	}

	s.sessions[k] = data
	return nil
}

func (s *memoryStore) UpdateSession(ctx context.Context, sess *models.Session) error {
	data, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("failed to encode session: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	k := sessionKey{sess.ChatID, sess.SessionKey}
	if _, exists := s.sessions[k]; !exists {
		return models.ErrNotFound
	}

	s.sessions[k] = data
	return nil
}

func (s *memoryStore) RecordResolution(ctx context.Context, sess *models.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.resolutions = append(s.resolutions, resolution{
		gameID:     sess.GameID,
		sessionKey: sessionKey{sess.ChatID, sess.SessionKey},
	})
	return nil
}

func (s *memoryStore) CreateGame(ctx context.Context, g *models.Game) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	prevID := g.ID
	g.ID = uuid.NewString()
	g.CreatedAt = s.now().UTC()

	data, err := json.Marshal(g)
	if err != nil {
		g.ID = prevID
		return fmt.Errorf("failed to encode game: %w", err)
	}

	s.games[g.ID] = data
	return nil
}

func (s *memoryStore) FindGame(ctx context.Context, id string) (*models.Game, error) {
	s.mu.RLock()
	data, ok := s.games[id]
	s.mu.RUnlock()

	if !ok {
		return nil, models.ErrNotFound
	}
	return decodeGame(data)
}

func (s *memoryStore) FindActiveGame(ctx context.Context, chatID, ownerID int64) (*models.Game, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var latest *models.Game
	for _, data := range s.games {
		g, err := decodeGame(data)
		if err != nil {
			return nil, err
		}
		if g.ChatID != chatID || g.Owner.ID != ownerID || !g.Active() {
			continue
		}
		if latest == nil || g.CreatedAt.After(latest.CreatedAt) {
			latest = g
		}
	}

	if latest == nil {
		return nil, models.ErrNotFound
	}
	return latest, nil
}

func (s *memoryStore) EndGame(ctx context.Context, g *models.Game) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.games[g.ID]; !ok {
		return models.ErrNotFound
	}

	prevStatus := g.Status
	g.Status = models.GameStatusEnded
	data, err := json.Marshal(g)
	if err != nil {
		g.Status = prevStatus
		return fmt.Errorf("failed to encode game: %w", err)
	}

	s.games[g.ID] = data
	return nil
}

func (s *memoryStore) GameStatistics(ctx context.Context, gameID string) (models.GameStatistics, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var stats models.GameStatistics
	topics := make(map[sessionKey]bool)
	for _, r := range s.resolutions {
		if r.gameID != gameID {
			continue
		}
		stats.SessionsCount++
		topics[r.sessionKey] = true
	}
	stats.EstimatedSessionsCount = len(topics)

	return stats, nil
}

func (s *memoryStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.sessions = nil
	s.games = nil
	s.resolutions = nil
	return nil
}
