// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package registry

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/danielhkuo/devpoker/models"
)

// sqlStore implements Store on SQLite or PostgreSQL. Queries use $N
// placeholders, which both drivers accept.
type sqlStore struct {
	db  *sql.DB
	now func() time.Time
}

func newSQLStore(db *sql.DB, now func() time.Time) *sqlStore {
	return &sqlStore{db: db, now: now}
}

func (s *sqlStore) FindSession(ctx context.Context, chatID int64, sessionKey int) (*models.Session, error) {
	var data string
	err := s.db.QueryRowContext(ctx, `
		SELECT json_data FROM game_session
		WHERE chat_id = $1 AND session_key = $2
	`, chatID, sessionKey).Scan(&data)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query session: %w", err)
	}

	var sess models.Session
	if err := json.Unmarshal([]byte(data), &sess); err != nil {
		return nil, fmt.Errorf("failed to decode session: %w", err)
	}

	return &sess, nil
}

func (s *sqlStore) CreateSession(ctx context.Context, sess *models.Session) error {
	prevID := sess.ID
	sess.ID = uuid.NewString()

	data, err := json.Marshal(sess)
	if err != nil {
		sess.ID = prevID
		return fmt.Errorf("failed to encode session: %w", err)
	}

	now := s.now().UTC()
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO game_session
		(id, game_id, chat_id, owner_id, session_key, rendered_message_id, phase, topic, json_data, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`, sess.ID, nullString(sess.GameID), sess.ChatID, sess.Owner.ID, sess.SessionKey,
		sess.RenderedMessageID, string(sess.Phase()), sess.Topic, string(data), now, now)

	if err != nil {
		sess.ID = prevID
		if isUniqueViolation(err) {
			return fmt.Errorf("session %d in chat %d: %w", sess.SessionKey, sess.ChatID, models.ErrAlreadyExists)
		}
		return fmt.Errorf("failed to insert session: %w", err)
	}

	return nil
}

func (s *sqlStore) UpdateSession(ctx context.Context, sess *models.Session) error {
	data, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("failed to encode session: %w", err)
	}

	res, err := s.db.ExecContext(ctx, `
		UPDATE game_session
		SET rendered_message_id = $1, phase = $2, topic = $3, json_data = $4, updated_at = $5
		WHERE chat_id = $6 AND session_key = $7
	`, sess.RenderedMessageID, string(sess.Phase()), sess.Topic, string(data), s.now().UTC(),
		sess.ChatID, sess.SessionKey)
	if err != nil {
		return fmt.Errorf("failed to update session: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to update session: %w", err)
	}
	if n == 0 {
		return models.ErrNotFound
	}

	return nil
}

func (s *sqlStore) RecordResolution(ctx context.Context, sess *models.Session) error {
	data, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("failed to encode session: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO session_resolution
		(id, session_id, game_id, chat_id, session_key, round, json_data, resolved_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`, uuid.NewString(), sess.ID, nullString(sess.GameID), sess.ChatID, sess.SessionKey,
		sess.Round(), string(data), s.now().UTC())
	if err != nil {
		return fmt.Errorf("failed to insert resolution: %w", err)
	}

	return nil
}

func (s *sqlStore) CreateGame(ctx context.Context, g *models.Game) error {
	prevID := g.ID
	g.ID = uuid.NewString()
	g.CreatedAt = s.now().UTC()

	data, err := json.Marshal(g)
	if err != nil {
		g.ID = prevID
		return fmt.Errorf("failed to encode game: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO game
		(id, chat_id, owner_id, owner_message_id, rendered_message_id, status, name, json_data, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`, g.ID, g.ChatID, g.Owner.ID, g.OwnerMessageID, g.RenderedMessageID, g.Status, g.Name,
		string(data), g.CreatedAt, g.CreatedAt)
	if err != nil {
		g.ID = prevID
		return fmt.Errorf("failed to insert game: %w", err)
	}

	return nil
}

func (s *sqlStore) FindGame(ctx context.Context, id string) (*models.Game, error) {
	var data string
	err := s.db.QueryRowContext(ctx, `SELECT json_data FROM game WHERE id = $1`, id).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query game: %w", err)
	}

	return decodeGame([]byte(data))
}

func (s *sqlStore) FindActiveGame(ctx context.Context, chatID, ownerID int64) (*models.Game, error) {
	var data string
	err := s.db.QueryRowContext(ctx, `
		SELECT json_data FROM game
		WHERE chat_id = $1 AND owner_id = $2 AND status = $3
		ORDER BY created_at DESC
		LIMIT 1
	`, chatID, ownerID, models.GameStatusStarted).Scan(&data)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query active game: %w", err)
	}

	return decodeGame([]byte(data))
}

func (s *sqlStore) EndGame(ctx context.Context, g *models.Game) error {
	prevStatus := g.Status
	g.Status = models.GameStatusEnded

	data, err := json.Marshal(g)
	if err != nil {
		g.Status = prevStatus
		return fmt.Errorf("failed to encode game: %w", err)
	}

	res, err := s.db.ExecContext(ctx, `
		UPDATE game SET status = $1, json_data = $2, updated_at = $3
		WHERE id = $4
	`, g.Status, string(data), s.now().UTC(), g.ID)
	if err != nil {
		g.Status = prevStatus
		return fmt.Errorf("failed to end game: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to end game: %w", err)
	}
	if n == 0 {
		g.Status = prevStatus
		return models.ErrNotFound
	}

	return nil
}

func (s *sqlStore) GameStatistics(ctx context.Context, gameID string) (models.GameStatistics, error) {
	var stats models.GameStatistics
	err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(*), COUNT(DISTINCT session_key)
		FROM session_resolution
		WHERE game_id = $1
	`, gameID).Scan(&stats.SessionsCount, &stats.EstimatedSessionsCount)
	if err != nil {
		return models.GameStatistics{}, fmt.Errorf("failed to query game statistics: %w", err)
	}

	return stats, nil
}

func (s *sqlStore) Close() error {
	return s.db.Close()
}

func decodeGame(data []byte) (*models.Game, error) {
	var g models.Game
	if err := json.Unmarshal(data, &g); err != nil {
		return nil, fmt.Errorf("failed to decode game: %w", err)
	}
	return &g, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

// isUniqueViolation recognizes duplicate key errors from both drivers.
func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "23505"
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}
