// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"context"
	"errors"
	"strings"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/danielhkuo/devpoker/callback"
	"github.com/danielhkuo/devpoker/deck"
	"github.com/danielhkuo/devpoker/models"
	"github.com/danielhkuo/devpoker/registry"
	"github.com/danielhkuo/devpoker/render"
	"github.com/danielhkuo/devpoker/testutil"
)

var errStoreDown = errors.New("store unavailable")

// countingStore records how often the dispatcher writes.
type countingStore struct {
	registry.Store
	updates     atomic.Int32
	resolutions atomic.Int32
	// failUpdates makes every UpdateSession fail with errStoreDown.
	failUpdates atomic.Bool
}

func (s *countingStore) UpdateSession(ctx context.Context, sess *models.Session) error {
	s.updates.Add(1)
	if s.failUpdates.Load() {
		return errStoreDown
	}
	return s.Store.UpdateSession(ctx, sess)
}

func (s *countingStore) RecordResolution(ctx context.Context, sess *models.Session) error {
	s.resolutions.Add(1)
	return s.Store.RecordResolution(ctx, sess)
}

type fixture struct {
	store     *countingStore
	reg       *registry.Registry
	messenger *testutil.FakeMessenger
	disp      *Dispatcher
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	store, err := registry.NewStore(registry.StoreTypeMemory)
	if err != nil {
		t.Fatalf("NewStore() error = %v", err)
	}
	counting := &countingStore{Store: store}
	reg := registry.New(counting)
	t.Cleanup(func() { reg.Close() })

	messenger := testutil.NewFakeMessenger()
	return &fixture{
		store:     counting,
		reg:       reg,
		messenger: messenger,
		disp:      NewDispatcher(reg, messenger, deck.Default()),
	}
}

// poker opens a session from a facilitator message and returns it.
func (f *fixture) poker(t *testing.T, messageID int, args string) *models.Session {
	t.Helper()

	err := f.disp.HandleCommand(context.Background(), Command{
		ChatID:    testutil.TestChatID,
		MessageID: messageID,
		Name:      CommandPoker,
		Args:      args,
		Sender:    testutil.Facilitator,
	})
	if err != nil {
		t.Fatalf("HandleCommand(poker) error = %v", err)
	}
	return f.session(t, messageID)
}

func (f *fixture) session(t *testing.T, key int) *models.Session {
	t.Helper()
	sess, err := f.reg.FindSession(context.Background(), testutil.TestChatID, key)
	if err != nil {
		t.Fatalf("FindSession() error = %v", err)
	}
	return sess
}

func (f *fixture) click(t *testing.T, from models.Participant, data string) testutil.Answer {
	t.Helper()
	err := f.disp.HandleCallback(context.Background(), Callback{
		ID:     "cb",
		ChatID: testutil.TestChatID,
		Data:   data,
		Sender: from,
	})
	if err != nil {
		t.Fatalf("HandleCallback(%q) error = %v", data, err)
	}
	return f.messenger.LastAnswer(t)
}

func (f *fixture) operate(t *testing.T, from models.Participant, op models.Operation, key int) testutil.Answer {
	t.Helper()
	return f.click(t, from, callback.Operation(op, key))
}

func TestHelpCommands(t *testing.T) {
	for _, name := range []string{CommandStart, CommandHelp} {
		t.Run(name, func(t *testing.T) {
			f := newFixture(t)
			err := f.disp.HandleCommand(context.Background(), Command{ChatID: testutil.TestChatID, Name: name})
			if err != nil {
				t.Fatalf("HandleCommand() error = %v", err)
			}
			sent := f.messenger.LastSent(t)
			if sent.View.ParseMode != render.ParseModeMarkdownV2 || !sent.View.DisableWebPagePreview {
				t.Errorf("help view = %+v, want MarkdownV2 without previews", sent.View)
			}
		})
	}
}

func TestUnknownCommandIgnored(t *testing.T) {
	f := newFixture(t)
	if err := f.disp.HandleCommand(context.Background(), Command{ChatID: testutil.TestChatID, Name: "dance"}); err != nil {
		t.Fatalf("HandleCommand() error = %v", err)
	}
	if sent, _, _ := f.messenger.Counts(); sent != 0 {
		t.Errorf("sent %d messages for unknown command, want 0", sent)
	}
}

func TestPokerCommand(t *testing.T) {
	tests := []struct {
		name      string
		args      string
		wantTopic string
	}{
		{"with topic", "https://issue.tracker/TASK-123", "https://issue.tracker/TASK-123"},
		{"multiline topic", "TASK-123\nDesign keyboard layout", "TASK-123\nDesign keyboard layout"},
		{"no topic", "", "(no topic)"},
		{"blank topic", "   \n ", "(no topic)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			sess := f.poker(t, 100, tt.args)

			if sess.Topic != tt.wantTopic {
				t.Errorf("Topic = %q, want %q", sess.Topic, tt.wantTopic)
			}
			if sess.Phase() != models.PhaseDiscussion {
				t.Errorf("Phase() = %s, want discussion", sess.Phase())
			}
			if !sess.Owner.Is(testutil.Facilitator) {
				t.Errorf("Owner = %v, want facilitator", sess.Owner)
			}

			sent := f.messenger.LastSent(t)
			if sess.RenderedMessageID != sent.MessageID {
				t.Errorf("RenderedMessageID = %d, want sent message %d", sess.RenderedMessageID, sent.MessageID)
			}
			if !strings.Contains(sent.View.Text, "Discussion for: "+tt.wantTopic) {
				t.Errorf("sent text %q does not name the topic", sent.View.Text)
			}
			if len(sent.View.Keyboard) == 0 {
				t.Error("session message has no keyboard")
			}
		})
	}
}

func TestPokerCommandRedelivered(t *testing.T) {
	f := newFixture(t)
	f.poker(t, 100, "first")
	f.poker(t, 100, "first")

	if sent, _, _ := f.messenger.Counts(); sent != 1 {
		t.Errorf("sent %d messages, want 1", sent)
	}
}

func TestPokerCommandSendFailure(t *testing.T) {
	f := newFixture(t)
	f.messenger.SendErr = testutil.ErrTransport

	err := f.disp.HandleCommand(context.Background(), Command{
		ChatID: testutil.TestChatID, MessageID: 100, Name: CommandPoker, Sender: testutil.Facilitator,
	})
	if !errors.Is(err, testutil.ErrTransport) {
		t.Fatalf("HandleCommand() error = %v, want transport error", err)
	}
	if _, err := f.reg.FindSession(context.Background(), testutil.TestChatID, 100); !errors.Is(err, models.ErrNotFound) {
		t.Errorf("FindSession() error = %v, want ErrNotFound", err)
	}
}

// Scenarios A to E walk one session through its whole life.
func TestSessionScenarios(t *testing.T) {
	f := newFixture(t)
	const key = 100
	sess := f.poker(t, key, "Fix bug")
	messageID := sess.RenderedMessageID

	// A: discussion vote, then start estimation
	answer := f.click(t, testutil.Facilitator, callback.Vote(callback.ActionDiscussionVote, key, models.StatusToEstimate))
	if answer.Text != "Vote `to_estimate` accepted" {
		t.Errorf("answer = %q", answer.Text)
	}
	sess = f.session(t, key)
	if sess.DiscussionVoteCount() != 1 {
		t.Fatalf("DiscussionVoteCount() = %d, want 1", sess.DiscussionVoteCount())
	}
	vote, _ := sess.DiscussionVote(testutil.Facilitator.Key())
	if vote.Status != models.StatusToEstimate || vote.Icon() != "👍" {
		t.Errorf("discussion vote = %+v icon %q", vote, vote.Icon())
	}
	if edit := f.messenger.LastEdit(t); edit.MessageID != messageID || !strings.Contains(edit.View.Text, "👍 "+testutil.Facilitator.Key()) {
		t.Errorf("edit = %+v, want refreshed session message", edit)
	}

	f.operate(t, testutil.Facilitator, models.OperationStartEstimation, key)
	if sess = f.session(t, key); sess.Phase() != models.PhaseEstimation {
		t.Fatalf("Phase() = %s, want estimation", sess.Phase())
	}

	// B: masked votes and a revote
	f.click(t, testutil.Alice, callback.Vote(callback.ActionEstimationVote, key, "5"))
	f.click(t, testutil.Alice, callback.Vote(callback.ActionEstimationVote, key, "8"))
	sess = f.session(t, key)
	est, _ := sess.EstimationVote(testutil.Alice.Key())
	if est.Revision != 1 || est.Masked() != models.CardSuits[1] {
		t.Errorf("estimation vote = %+v mask %q, want revision 1 mask %q", est, est.Masked(), models.CardSuits[1])
	}
	text := f.messenger.LastEdit(t).View.Text
	if strings.Contains(text, " 5 ") || strings.Contains(text, "8 @") {
		t.Errorf("estimation text leaks a vote value: %q", text)
	}
	if !strings.Contains(text, models.CardSuits[1]+" "+testutil.Alice.Key()) {
		t.Errorf("estimation text %q lacks mask", text)
	}

	// C: reveal
	f.operate(t, testutil.Facilitator, models.OperationEndEstimation, key)
	sess = f.session(t, key)
	if sess.Phase() != models.PhaseResolution {
		t.Fatalf("Phase() = %s, want resolution", sess.Phase())
	}
	if text := f.messenger.LastEdit(t).View.Text; !strings.Contains(text, "8 "+testutil.Alice.Key()) {
		t.Errorf("resolution text %q does not reveal the vote", text)
	}
	if n := f.store.resolutions.Load(); n != 1 {
		t.Errorf("recorded %d resolutions, want 1", n)
	}

	// D: re-estimate freezes the old message and posts a new one
	sentBefore, _, _ := f.messenger.Counts()
	f.operate(t, testutil.Facilitator, models.OperationReEstimate, key)
	sess = f.session(t, key)
	if sess.Phase() != models.PhaseEstimation || sess.EstimationVoteCount() != 0 || sess.Round() != 2 {
		t.Fatalf("after re-estimate phase %s votes %d round %d", sess.Phase(), sess.EstimationVoteCount(), sess.Round())
	}
	frozen := f.messenger.LastEdit(t)
	if frozen.MessageID != messageID || len(frozen.View.Keyboard) != 0 {
		t.Errorf("old message edit = %+v, want frozen text on %d", frozen, messageID)
	}
	if !strings.Contains(frozen.View.Text, "8 "+testutil.Alice.Key()) {
		t.Errorf("frozen text %q lost the results", frozen.View.Text)
	}
	sentAfter, _, _ := f.messenger.Counts()
	if sentAfter != sentBefore+1 {
		t.Fatalf("sent %d new messages, want 1", sentAfter-sentBefore)
	}
	fresh := f.messenger.LastSent(t)
	if sess.RenderedMessageID != fresh.MessageID || sess.RenderedMessageID == messageID {
		t.Errorf("RenderedMessageID = %d, want new message %d", sess.RenderedMessageID, fresh.MessageID)
	}

	// E: non-owner control is rejected without a write
	f.click(t, testutil.Bob, callback.Vote(callback.ActionEstimationVote, key, "3"))
	updates := f.store.updates.Load()
	answer = f.operate(t, testutil.Bob, models.OperationClearVotes, key)
	if answer.Text != "Operation `clear_votes` is available only for facilitator" {
		t.Errorf("answer = %q", answer.Text)
	}
	if n := f.store.updates.Load(); n != updates {
		t.Errorf("unauthorized operation wrote %d times", n-updates)
	}
	if sess = f.session(t, key); sess.EstimationVoteCount() != 1 {
		t.Errorf("EstimationVoteCount() = %d, want Bob's vote kept", sess.EstimationVoteCount())
	}
}

func TestCallbackRejections(t *testing.T) {
	const key = 100

	tests := []struct {
		name  string
		setup []models.Operation
		from  models.Participant
		data  string
		want  string
	}{
		{
			name: "missing session",
			from: testutil.Alice,
			data: callback.Vote(callback.ActionDiscussionVote, 999, models.StatusToEstimate),
			want: "No such game",
		},
		{
			name: "estimation vote while discussing",
			from: testutil.Alice,
			data: callback.Vote(callback.ActionEstimationVote, key, "5"),
			want: "Can't vote not in estimation phase",
		},
		{
			name:  "discussion vote while estimating",
			setup: []models.Operation{models.OperationStartEstimation},
			from:  testutil.Alice,
			data:  callback.Vote(callback.ActionDiscussionVote, key, models.StatusNeedDiscuss),
			want:  "Can't vote not in discussion phase",
		},
		{
			name:  "card outside the deck",
			setup: []models.Operation{models.OperationStartEstimation},
			from:  testutil.Alice,
			data:  callback.Vote(callback.ActionEstimationVote, key, "100"),
			want:  "Unknown vote `100`",
		},
		{
			name: "unknown discussion status",
			from: testutil.Alice,
			data: callback.Vote(callback.ActionDiscussionVote, key, "maybe"),
			want: "Unknown vote `maybe`",
		},
		{
			name: "end estimation while discussing",
			from: testutil.Facilitator,
			data: callback.Operation(models.OperationEndEstimation, key),
			want: "Operation `end_estimation` is not available in discussion phase",
		},
		{
			name: "clear votes while discussing",
			from: testutil.Facilitator,
			data: callback.Operation(models.OperationClearVotes, key),
			want: "Operation `clear_votes` is not available in discussion phase",
		},
		{
			name:  "re-estimate while estimating",
			setup: []models.Operation{models.OperationStartEstimation},
			from:  testutil.Facilitator,
			data:  callback.Operation(models.OperationReEstimate, key),
			want:  "Operation `re_estimate` is not available in estimation phase",
		},
		{
			name: "start estimation by participant",
			from: testutil.Alice,
			data: callback.Operation(models.OperationStartEstimation, key),
			want: "Operation `start_estimation` is available only for facilitator",
		},
		{
			name: "malformed payload",
			from: testutil.Alice,
			data: "garbage",
			want: "Unknown action",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			f.poker(t, key, "topic")
			for _, op := range tt.setup {
				f.operate(t, testutil.Facilitator, op, key)
			}
			before := f.session(t, key)
			updates := f.store.updates.Load()
			_, edits, _ := f.messenger.Counts()

			answer := f.click(t, tt.from, tt.data)
			if answer.Text != tt.want {
				t.Errorf("answer = %q, want %q", answer.Text, tt.want)
			}

			if n := f.store.updates.Load(); n != updates {
				t.Errorf("rejected callback wrote %d times", n-updates)
			}
			if _, n, _ := f.messenger.Counts(); n != edits {
				t.Errorf("rejected callback edited %d messages", n-edits)
			}
			after := f.session(t, key)
			if after.Phase() != before.Phase() ||
				after.DiscussionVoteCount() != before.DiscussionVoteCount() ||
				after.EstimationVoteCount() != before.EstimationVoteCount() {
				t.Error("rejected callback changed the session")
			}
		})
	}
}

func TestClearVotes(t *testing.T) {
	f := newFixture(t)
	const key = 100
	f.poker(t, key, "topic")
	f.operate(t, testutil.Facilitator, models.OperationStartEstimation, key)
	f.click(t, testutil.Alice, callback.Vote(callback.ActionEstimationVote, key, "3"))
	f.click(t, testutil.Bob, callback.Vote(callback.ActionEstimationVote, key, "5"))

	f.operate(t, testutil.Facilitator, models.OperationClearVotes, key)

	sess := f.session(t, key)
	if sess.Phase() != models.PhaseEstimation || sess.EstimationVoteCount() != 0 {
		t.Errorf("after clear phase %s votes %d, want estimation with none", sess.Phase(), sess.EstimationVoteCount())
	}
	if text := f.messenger.LastEdit(t).View.Text; strings.Contains(text, "Votes") {
		t.Errorf("cleared session still renders votes: %q", text)
	}
}

func TestTransportErrorsAfterCommitAreSwallowed(t *testing.T) {
	f := newFixture(t)
	const key = 100
	f.poker(t, key, "topic")
	f.messenger.EditErr = testutil.ErrTransport

	answer := f.click(t, testutil.Alice, callback.Vote(callback.ActionDiscussionVote, key, models.StatusTakeABreak))
	if answer.Text != "Vote `take_a_break` accepted" {
		t.Errorf("answer = %q", answer.Text)
	}
	if sess := f.session(t, key); sess.DiscussionVoteCount() != 1 {
		t.Errorf("DiscussionVoteCount() = %d, want vote stored despite edit failure", sess.DiscussionVoteCount())
	}
}

func TestReEstimateSendFailureKeepsOldMessage(t *testing.T) {
	f := newFixture(t)
	const key = 100
	sess := f.poker(t, key, "topic")
	oldID := sess.RenderedMessageID
	f.operate(t, testutil.Facilitator, models.OperationStartEstimation, key)
	f.operate(t, testutil.Facilitator, models.OperationEndEstimation, key)

	f.messenger.SendErr = testutil.ErrTransport
	f.operate(t, testutil.Facilitator, models.OperationReEstimate, key)

	sess = f.session(t, key)
	if sess.Phase() != models.PhaseEstimation {
		t.Errorf("Phase() = %s, want estimation", sess.Phase())
	}
	if sess.RenderedMessageID != oldID {
		t.Errorf("RenderedMessageID = %d, want old message %d", sess.RenderedMessageID, oldID)
	}
	if edit := f.messenger.LastEdit(t); len(edit.View.Keyboard) == 0 {
		t.Error("old message was not turned back into a live session")
	}
}

func TestReEstimateStoreFailureKeepsOldMessageLive(t *testing.T) {
	f := newFixture(t)
	const key = 100
	sess := f.poker(t, key, "topic")
	oldID := sess.RenderedMessageID
	f.operate(t, testutil.Facilitator, models.OperationStartEstimation, key)
	f.click(t, testutil.Alice, callback.Vote(callback.ActionEstimationVote, key, "5"))
	f.operate(t, testutil.Facilitator, models.OperationEndEstimation, key)

	f.store.failUpdates.Store(true)
	_, editsBefore, _ := f.messenger.Counts()
	err := f.disp.HandleCallback(context.Background(), Callback{
		ID:     "cb",
		ChatID: testutil.TestChatID,
		Data:   callback.Operation(models.OperationReEstimate, key),
		Sender: testutil.Facilitator,
	})
	if !errors.Is(err, errStoreDown) {
		t.Fatalf("HandleCallback() error = %v, want errStoreDown", err)
	}
	if answer := f.messenger.LastAnswer(t); answer.Text != failureAnswer {
		t.Errorf("answer = %q, want %q", answer.Text, failureAnswer)
	}

	sess = f.session(t, key)
	if sess.Phase() != models.PhaseResolution || sess.RenderedMessageID != oldID {
		t.Fatalf("stored phase %s message %d, want resolution on %d", sess.Phase(), sess.RenderedMessageID, oldID)
	}

	fresh := f.messenger.LastSent(t)
	retract := f.messenger.LastEdit(t)
	if retract.MessageID != fresh.MessageID || len(retract.View.Keyboard) != 0 {
		t.Errorf("new message edit = %+v, want buttons removed from %d", retract, fresh.MessageID)
	}
	for _, edit := range f.messenger.Edits[editsBefore:] {
		if edit.MessageID == oldID {
			t.Errorf("old message %d was edited before the session was stored", oldID)
		}
	}

	// The old message still carries a working Re-estimate button
	f.store.failUpdates.Store(false)
	if answer := f.operate(t, testutil.Facilitator, models.OperationReEstimate, key); answer.Text != "" {
		t.Errorf("retry answer = %q, want empty", answer.Text)
	}
	sess = f.session(t, key)
	if sess.Phase() != models.PhaseEstimation || sess.Round() != 2 {
		t.Errorf("after retry phase %s round %d, want estimation round 2", sess.Phase(), sess.Round())
	}
	if sess.RenderedMessageID == oldID || sess.RenderedMessageID == fresh.MessageID {
		t.Errorf("RenderedMessageID = %d, want a message from the retry", sess.RenderedMessageID)
	}
}

func TestConcurrentVotesAreAllKept(t *testing.T) {
	store, err := registry.NewStore(registry.StoreTypeSQLite, registry.WithDB(testutil.SetupTestDB(t)))
	if err != nil {
		t.Fatalf("NewStore() error = %v", err)
	}
	reg := registry.New(store)
	defer reg.Close()

	messenger := testutil.NewFakeMessenger()
	disp := NewDispatcher(reg, messenger, deck.Default())
	ctx := context.Background()

	const key = 100
	err = disp.HandleCommand(ctx, Command{ChatID: testutil.TestChatID, MessageID: key, Name: CommandPoker, Sender: testutil.Facilitator})
	if err != nil {
		t.Fatalf("HandleCommand() error = %v", err)
	}
	err = disp.HandleCallback(ctx, Callback{ChatID: testutil.TestChatID, Data: callback.Operation(models.OperationStartEstimation, key), Sender: testutil.Facilitator})
	if err != nil {
		t.Fatalf("HandleCallback() error = %v", err)
	}

	const voters = 25
	var wg sync.WaitGroup
	for i := 0; i < voters; i++ {
		wg.Add(1)
		go func(id int64) {
			defer wg.Done()
			err := disp.HandleCallback(ctx, Callback{
				ChatID: testutil.TestChatID,
				Data:   callback.Vote(callback.ActionEstimationVote, key, "3"),
				Sender: models.Participant{ID: id, FirstName: "Voter"},
			})
			if err != nil {
				t.Errorf("HandleCallback() error = %v", err)
			}
		}(int64(2000 + i))
	}
	wg.Wait()

	sess, err := reg.FindSession(ctx, testutil.TestChatID, key)
	if err != nil {
		t.Fatalf("FindSession() error = %v", err)
	}
	if sess.EstimationVoteCount() != voters {
		t.Errorf("EstimationVoteCount() = %d, want %d", sess.EstimationVoteCount(), voters)
	}
}

func TestGameCommands(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	game := func(name, args string, messageID int) {
		t.Helper()
		err := f.disp.HandleCommand(ctx, Command{
			ChatID: testutil.TestChatID, MessageID: messageID, Name: name, Args: args, Sender: testutil.Facilitator,
		})
		if err != nil {
			t.Fatalf("HandleCommand(%s) error = %v", name, err)
		}
	}

	game(CommandGame, "", 1)
	if text := f.messenger.LastSent(t).View.Text; text != "Usage: /game <name>" {
		t.Errorf("empty /game reply = %q", text)
	}

	game(CommandGame, "Sprint 12", 2)
	active, err := f.reg.FindActiveGame(ctx, testutil.TestChatID, testutil.Facilitator.ID)
	if err != nil {
		t.Fatalf("FindActiveGame() error = %v", err)
	}
	if active.RenderedMessageID != f.messenger.LastSent(t).MessageID {
		t.Errorf("RenderedMessageID = %d, want game message", active.RenderedMessageID)
	}

	game(CommandGame, "Sprint 13", 3)
	if text := f.messenger.LastSent(t).View.Text; !strings.Contains(text, "still running") {
		t.Errorf("second /game reply = %q", text)
	}

	// Two topics, the first estimated twice
	first := f.poker(t, 10, "login")
	if first.GameID != active.ID || first.GameName != "Sprint 12" {
		t.Errorf("session game = %q %q, want %q", first.GameID, first.GameName, active.ID)
	}
	if text := f.messenger.LastSent(t).View.Text; !strings.HasPrefix(text, "Game: Sprint 12\n") {
		t.Errorf("session text %q lacks game line", text)
	}
	f.operate(t, testutil.Facilitator, models.OperationStartEstimation, 10)
	f.operate(t, testutil.Facilitator, models.OperationEndEstimation, 10)
	f.operate(t, testutil.Facilitator, models.OperationReEstimate, 10)
	f.operate(t, testutil.Facilitator, models.OperationEndEstimation, 10)

	f.poker(t, 20, "logout")
	f.operate(t, testutil.Facilitator, models.OperationStartEstimation, 20)
	f.operate(t, testutil.Facilitator, models.OperationEndEstimation, 20)

	game(CommandEndGame, "", 30)
	text := f.messenger.LastSent(t).View.Text
	if !strings.Contains(text, "Resolved sessions: 3") || !strings.Contains(text, "Estimated topics: 2") {
		t.Errorf("statistics text = %q", text)
	}
	if edit := f.messenger.LastEdit(t); edit.MessageID != active.RenderedMessageID {
		t.Errorf("edited message %d, want game message %d", edit.MessageID, active.RenderedMessageID)
	}

	if _, err := f.reg.FindActiveGame(ctx, testutil.TestChatID, testutil.Facilitator.ID); !errors.Is(err, models.ErrNotFound) {
		t.Errorf("FindActiveGame() after /endgame error = %v, want ErrNotFound", err)
	}

	// Sessions after the game are standalone
	if loose := f.poker(t, 40, "later"); loose.GameID != "" {
		t.Errorf("GameID = %q after game ended", loose.GameID)
	}

	game(CommandEndGame, "", 50)
	if text := f.messenger.LastSent(t).View.Text; !strings.HasPrefix(text, "No active game") {
		t.Errorf("/endgame without game reply = %q", text)
	}
}
