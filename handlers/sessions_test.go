// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/danielhkuo/devpoker/models"
	"github.com/danielhkuo/devpoker/registry"
	"github.com/danielhkuo/devpoker/testutil"
)

func setupSessionHandler(t *testing.T) (*SessionHandler, *registry.Registry, *http.ServeMux) {
	t.Helper()

	store, err := registry.NewStore(registry.StoreTypeSQLite, registry.WithDB(testutil.SetupTestDB(t)))
	if err != nil {
		t.Fatalf("NewStore() error = %v", err)
	}
	reg := registry.New(store)
	t.Cleanup(func() { reg.Close() })

	h := NewSessionHandler(reg)
	mux := http.NewServeMux()
	mux.HandleFunc("GET /chats/{chat}/sessions/{key}", h.GetSession)
	mux.HandleFunc("GET /games/{id}/statistics", h.GetGameStatistics)
	return h, reg, mux
}

func TestGetSession(t *testing.T) {
	_, reg, mux := setupSessionHandler(t)
	ctx := context.Background()

	sess := models.NewSession(testutil.TestChatID, 77, "Checkout flow", testutil.Facilitator)
	sess.RenderedMessageID = 78
	if err := reg.CreateSession(ctx, sess); err != nil {
		t.Fatalf("CreateSession() error = %v", err)
	}
	if err := sess.StartEstimation(); err != nil {
		t.Fatal(err)
	}
	if err := sess.AddEstimationVote(testutil.Alice, "13", nil); err != nil {
		t.Fatal(err)
	}
	if err := reg.UpdateSession(ctx, sess); err != nil {
		t.Fatalf("UpdateSession() error = %v", err)
	}

	t.Run("masked while estimating", func(t *testing.T) {
		w := httptest.NewRecorder()
		mux.ServeHTTP(w, testutil.MakeRequest("GET", "/chats/-100123/sessions/77", nil, nil))
		testutil.AssertStatus(t, w, http.StatusOK)

		var resp models.SessionResponse
		testutil.AssertJSON(t, w, &resp)

		if resp.Phase != models.PhaseEstimation || resp.Topic != "Checkout flow" || resp.RenderedMessageID != 78 {
			t.Errorf("response = %+v", resp)
		}
		if resp.Facilitator != testutil.Facilitator.Key() {
			t.Errorf("Facilitator = %q, want %q", resp.Facilitator, testutil.Facilitator.Key())
		}
		if len(resp.Votes) != 1 {
			t.Fatalf("got %d votes, want 1", len(resp.Votes))
		}
		if resp.Votes[0].Mark != models.CardSuits[0] {
			t.Errorf("Mark = %q, want mask %q", resp.Votes[0].Mark, models.CardSuits[0])
		}
	})

	t.Run("revealed after resolution", func(t *testing.T) {
		if err := sess.EndEstimation(); err != nil {
			t.Fatal(err)
		}
		if err := reg.UpdateSession(ctx, sess); err != nil {
			t.Fatalf("UpdateSession() error = %v", err)
		}

		w := httptest.NewRecorder()
		mux.ServeHTTP(w, testutil.MakeRequest("GET", "/chats/-100123/sessions/77", nil, nil))
		testutil.AssertStatus(t, w, http.StatusOK)

		var resp models.SessionResponse
		testutil.AssertJSON(t, w, &resp)
		if len(resp.Votes) != 1 || resp.Votes[0].Mark != "13" {
			t.Errorf("Votes = %+v, want revealed 13", resp.Votes)
		}
	})
}

func TestGetSessionErrors(t *testing.T) {
	_, _, mux := setupSessionHandler(t)

	tests := []struct {
		name       string
		path       string
		wantStatus int
	}{
		{"bad chat", "/chats/abc/sessions/1", http.StatusBadRequest},
		{"bad key", "/chats/1/sessions/xyz", http.StatusBadRequest},
		{"missing", "/chats/1/sessions/2", http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			mux.ServeHTTP(w, testutil.MakeRequest("GET", tt.path, nil, nil))
			testutil.AssertStatus(t, w, tt.wantStatus)
		})
	}
}

func TestGetGameStatistics(t *testing.T) {
	_, reg, mux := setupSessionHandler(t)
	ctx := context.Background()

	game := models.NewGame(testutil.TestChatID, 1, "Sprint 7", testutil.Facilitator)
	if err := reg.CreateGame(ctx, game); err != nil {
		t.Fatalf("CreateGame() error = %v", err)
	}

	sess := models.NewSession(testutil.TestChatID, 5, "search", testutil.Facilitator)
	sess.GameID = game.ID
	if err := reg.CreateSession(ctx, sess); err != nil {
		t.Fatalf("CreateSession() error = %v", err)
	}
	if err := sess.StartEstimation(); err != nil {
		t.Fatal(err)
	}
	if err := sess.EndEstimation(); err != nil {
		t.Fatal(err)
	}
	if err := reg.RecordResolution(ctx, sess); err != nil {
		t.Fatalf("RecordResolution() error = %v", err)
	}

	w := httptest.NewRecorder()
	mux.ServeHTTP(w, testutil.MakeRequest("GET", "/games/"+game.ID+"/statistics", nil, nil))
	testutil.AssertStatus(t, w, http.StatusOK)

	var resp models.GameStatisticsResponse
	testutil.AssertJSON(t, w, &resp)
	if resp.Game.ID != game.ID || resp.Game.Name != "Sprint 7" {
		t.Errorf("Game = %+v", resp.Game)
	}
	want := models.GameStatistics{SessionsCount: 1, EstimatedSessionsCount: 1}
	if resp.Statistics != want {
		t.Errorf("Statistics = %+v, want %+v", resp.Statistics, want)
	}

	w = httptest.NewRecorder()
	mux.ServeHTTP(w, testutil.MakeRequest("GET", "/games/nope/statistics", nil, nil))
	testutil.AssertStatus(t, w, http.StatusNotFound)
}
