// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package registry

import (
	"context"
	"fmt"
	"sync"

	"github.com/danielhkuo/devpoker/models"
)

// Registry is the only way the bot loads or stores sessions and games.
// Callers hold Lock around each load-mutate-store cycle of a session.
type Registry struct {
	store Store
	locks *keyLocks
}

func New(store Store) *Registry {
	return &Registry{
		store: store,
		locks: newKeyLocks(),
	}
}

// Lock serializes work on one session. Call the returned func to release.
func (r *Registry) Lock(chatID int64, sessionKey int) (unlock func()) {
	return r.locks.lock(fmt.Sprintf("%d:%d", chatID, sessionKey))
}

// LockOwner serializes game commands of one facilitator in a chat.
func (r *Registry) LockOwner(chatID, ownerID int64) (unlock func()) {
	return r.locks.lock(fmt.Sprintf("owner:%d:%d", chatID, ownerID))
}

func (r *Registry) FindSession(ctx context.Context, chatID int64, sessionKey int) (*models.Session, error) {
	return r.store.FindSession(ctx, chatID, sessionKey)
}

func (r *Registry) CreateSession(ctx context.Context, s *models.Session) error {
	return r.store.CreateSession(ctx, s)
}

func (r *Registry) UpdateSession(ctx context.Context, s *models.Session) error {
	return r.store.UpdateSession(ctx, s)
}

func (r *Registry) RecordResolution(ctx context.Context, s *models.Session) error {
	return r.store.RecordResolution(ctx, s)
}

func (r *Registry) CreateGame(ctx context.Context, g *models.Game) error {
	return r.store.CreateGame(ctx, g)
}

func (r *Registry) FindGame(ctx context.Context, id string) (*models.Game, error) {
	return r.store.FindGame(ctx, id)
}

func (r *Registry) FindActiveGame(ctx context.Context, chatID, ownerID int64) (*models.Game, error) {
	return r.store.FindActiveGame(ctx, chatID, ownerID)
}

func (r *Registry) EndGame(ctx context.Context, g *models.Game) error {
	return r.store.EndGame(ctx, g)
}

func (r *Registry) GameStatistics(ctx context.Context, gameID string) (models.GameStatistics, error) {
	return r.store.GameStatistics(ctx, gameID)
}

func (r *Registry) Close() error {
	return r.store.Close()
}

// keyLocks hands out one mutex per key and forgets it once nobody holds it.
type keyLocks struct {
	mu    sync.Mutex
	locks map[string]*keyLock
}

type keyLock struct {
	mu   sync.Mutex
	refs int
}

func newKeyLocks() *keyLocks {
	return &keyLocks{locks: make(map[string]*keyLock)}
}

func (l *keyLocks) lock(key string) func() {
	l.mu.Lock()
	kl, ok := l.locks[key]
	if !ok {
		kl = &keyLock{}
		l.locks[key] = kl
	}
	kl.refs++
	l.mu.Unlock()

	kl.mu.Lock()

	return func() {
		kl.mu.Unlock()

		l.mu.Lock()
		kl.refs--
		if kl.refs == 0 {
			delete(l.locks, key)
		}
		l.mu.Unlock()
	}
}

func (l *keyLocks) size() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.locks)
}
