// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package testutil

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	_ "modernc.org/sqlite"

	"github.com/danielhkuo/devpoker/cliparse"
	"github.com/danielhkuo/devpoker/db"
	"github.com/danielhkuo/devpoker/models"
	"github.com/danielhkuo/devpoker/render"
)

// Test participants
var (
	Facilitator = models.Participant{ID: 1001, FirstName: "Olga", LastName: "Owner", Username: "olga"}
	Alice       = models.Participant{ID: 1002, FirstName: "Alice", LastName: "Smith", Username: "alice"}
	Bob         = models.Participant{ID: 1003, FirstName: "Bob"}
)

// TestChatID is the chat every fixture lives in
const TestChatID int64 = -100123

// SetupTestDB opens a private in-memory SQLite database with the full schema.
func SetupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	conn, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	// Every connection to :memory: is a new database
	conn.SetMaxOpenConns(1)

	if err := db.CreateSchema(conn); err != nil {
		t.Fatalf("Failed to create schema: %v", err)
	}

	return conn
}

// TestQueryToken is the bearer token GetTestConfig enables the query routes with
const TestQueryToken = "test-query-token"

// GetTestConfig returns a standard test configuration
func GetTestConfig() cliparse.Config {
	return cliparse.Config{
		Port:         3318,
		DatabaseType: "memory",
		BotToken:     "test-token",
		Mode:         cliparse.ModePolling,
		QueryToken:   TestQueryToken,
		LogLevel:     "info",
	}
}

// SentMessage is a message posted through FakeMessenger.
type SentMessage struct {
	ChatID    int64
	MessageID int
	View      render.View
}

// Answer is a callback acknowledgment recorded by FakeMessenger.
type Answer struct {
	CallbackID string
	Text       string
}

// FakeMessenger records outgoing traffic instead of talking to a chat service.
type FakeMessenger struct {
	mu      sync.Mutex
	nextID  int
	Sent    []SentMessage
	Edits   []SentMessage
	Answers []Answer

	// EditErr is returned from every EditView when set.
	EditErr error
	// SendErr is returned from every SendView when set.
	SendErr error
}

func NewFakeMessenger() *FakeMessenger {
	return &FakeMessenger{nextID: 5000}
}

func (m *FakeMessenger) SendView(ctx context.Context, chatID int64, view render.View) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.SendErr != nil {
		return 0, m.SendErr
	}

	m.nextID++
	m.Sent = append(m.Sent, SentMessage{ChatID: chatID, MessageID: m.nextID, View: view})
	return m.nextID, nil
}

func (m *FakeMessenger) EditView(ctx context.Context, chatID int64, messageID int, view render.View) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.Edits = append(m.Edits, SentMessage{ChatID: chatID, MessageID: messageID, View: view})
	return m.EditErr
}

func (m *FakeMessenger) AnswerCallback(ctx context.Context, callbackID, text string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.Answers = append(m.Answers, Answer{CallbackID: callbackID, Text: text})
	return nil
}

// LastAnswer returns the most recent callback acknowledgment.
func (m *FakeMessenger) LastAnswer(t *testing.T) Answer {
	t.Helper()
	m.mu.Lock()
	defer m.mu.Unlock()

	if len(m.Answers) == 0 {
		t.Fatal("no callback was answered")
	}
	return m.Answers[len(m.Answers)-1]
}

// LastSent returns the most recently posted message.
func (m *FakeMessenger) LastSent(t *testing.T) SentMessage {
	t.Helper()
	m.mu.Lock()
	defer m.mu.Unlock()

	if len(m.Sent) == 0 {
		t.Fatal("no message was sent")
	}
	return m.Sent[len(m.Sent)-1]
}

// LastEdit returns the most recent edit.
func (m *FakeMessenger) LastEdit(t *testing.T) SentMessage {
	t.Helper()
	m.mu.Lock()
	defer m.mu.Unlock()

	if len(m.Edits) == 0 {
		t.Fatal("no message was edited")
	}
	return m.Edits[len(m.Edits)-1]
}

// Counts returns how many sends, edits and answers were recorded.
func (m *FakeMessenger) Counts() (sent, edits, answers int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Sent), len(m.Edits), len(m.Answers)
}

// ErrTransport simulates a chat API failure
var ErrTransport = errors.New("chat api unavailable")

// MakeRequest creates an HTTP test request
func MakeRequest(method, path string, body interface{}, headers map[string]string) *http.Request {
	var req *http.Request
	if body != nil {
		jsonBody, _ := json.Marshal(body)
		req = httptest.NewRequest(method, path, bytes.NewReader(jsonBody))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}

	for k, v := range headers {
		req.Header.Set(k, v)
	}

	return req
}

// AssertStatus checks that the response has the expected status code
func AssertStatus(t *testing.T, w *httptest.ResponseRecorder, expected int) {
	t.Helper()
	if w.Code != expected {
		t.Errorf("Expected status %d, got %d. Body: %s", expected, w.Code, w.Body.String())
	}
}

// AssertJSON decodes the response body into the provided struct
func AssertJSON(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.NewDecoder(w.Body).Decode(v); err != nil {
		t.Fatalf("Failed to decode JSON response: %v", err)
	}
}
