// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/danielhkuo/devpoker/callback"
	"github.com/danielhkuo/devpoker/deck"
	"github.com/danielhkuo/devpoker/models"
	"github.com/danielhkuo/devpoker/registry"
	"github.com/danielhkuo/devpoker/render"
)

// Command names, without the leading slash.
const (
	CommandStart   = "start"
	CommandHelp    = "help"
	CommandPoker   = "poker"
	CommandGame    = "game"
	CommandEndGame = "endgame"
)

const (
	noTopic       = "(no topic)"
	failureAnswer = "Something went wrong, please try again"
)

// Messenger delivers views to a chat.
type Messenger interface {
	// SendView posts a new message and returns its id.
	SendView(ctx context.Context, chatID int64, view render.View) (int, error)
	EditView(ctx context.Context, chatID int64, messageID int, view render.View) error
	AnswerCallback(ctx context.Context, callbackID, text string) error
}

// Command is a slash command sent to the bot.
type Command struct {
	ChatID    int64
	MessageID int
	Name      string
	Args      string
	Sender    models.Participant
}

// Callback is an inline button press.
type Callback struct {
	ID     string
	ChatID int64
	Data   string
	Sender models.Participant
}

// Dispatcher turns chat events into session state changes. Every change
// is a locked load-mutate-store cycle followed by a re-render.
type Dispatcher struct {
	reg       *registry.Registry
	messenger Messenger
	deck      deck.Deck
}

func NewDispatcher(reg *registry.Registry, messenger Messenger, d deck.Deck) *Dispatcher {
	return &Dispatcher{reg: reg, messenger: messenger, deck: d}
}

// HandleCommand runs a slash command. Unknown commands are ignored.
func (d *Dispatcher) HandleCommand(ctx context.Context, cmd Command) error {
	switch cmd.Name {
	case CommandStart, CommandHelp:
		_, err := d.messenger.SendView(ctx, cmd.ChatID, render.Help())
		return err
	case CommandPoker:
		return d.startSession(ctx, cmd)
	case CommandGame:
		return d.startGame(ctx, cmd)
	case CommandEndGame:
		return d.endGame(ctx, cmd)
	default:
		slog.Debug("ignoring unknown command", "command", cmd.Name, "chat_id", cmd.ChatID)
		return nil
	}
}

func (d *Dispatcher) startSession(ctx context.Context, cmd Command) error {
	topic := strings.TrimSpace(cmd.Args)
	if topic == "" {
		topic = noTopic
	}

	unlock := d.reg.Lock(cmd.ChatID, cmd.MessageID)
	defer unlock()

	// Redelivered update
	if _, err := d.reg.FindSession(ctx, cmd.ChatID, cmd.MessageID); err == nil {
		slog.Warn("session already exists", "chat_id", cmd.ChatID, "session_key", cmd.MessageID)
		return nil
	} else if !errors.Is(err, models.ErrNotFound) {
		return fmt.Errorf("failed to look up session: %w", err)
	}

	sess := models.NewSession(cmd.ChatID, cmd.MessageID, topic, cmd.Sender)

	game, err := d.reg.FindActiveGame(ctx, cmd.ChatID, cmd.Sender.ID)
	switch {
	case err == nil:
		sess.GameID = game.ID
		sess.GameName = game.Name
	case !errors.Is(err, models.ErrNotFound):
		slog.Error("failed to look up active game", "error", err, "chat_id", cmd.ChatID)
	}

	messageID, err := d.messenger.SendView(ctx, cmd.ChatID, render.Session(sess, d.deck))
	if err != nil {
		return fmt.Errorf("failed to send session message: %w", err)
	}
	sess.RenderedMessageID = messageID

	if err := d.reg.CreateSession(ctx, sess); err != nil {
		return fmt.Errorf("failed to create session: %w", err)
	}

	slog.Info("session created",
		"chat_id", sess.ChatID,
		"session_key", sess.SessionKey,
		"facilitator", sess.Owner.Key(),
		"game_id", sess.GameID,
	)
	return nil
}

func (d *Dispatcher) startGame(ctx context.Context, cmd Command) error {
	name := strings.TrimSpace(cmd.Args)
	if name == "" {
		return d.reply(ctx, cmd.ChatID, "Usage: /game <name>")
	}

	unlock := d.reg.LockOwner(cmd.ChatID, cmd.Sender.ID)
	defer unlock()

	active, err := d.reg.FindActiveGame(ctx, cmd.ChatID, cmd.Sender.ID)
	if err == nil {
		return d.reply(ctx, cmd.ChatID, fmt.Sprintf("Game %q is still running, finish it with /endgame first", active.Name))
	}
	if !errors.Is(err, models.ErrNotFound) {
		return fmt.Errorf("failed to look up active game: %w", err)
	}

	game := models.NewGame(cmd.ChatID, cmd.MessageID, name, cmd.Sender)
	messageID, err := d.messenger.SendView(ctx, cmd.ChatID, render.Game(game, nil))
	if err != nil {
		return fmt.Errorf("failed to send game message: %w", err)
	}
	game.RenderedMessageID = messageID

	if err := d.reg.CreateGame(ctx, game); err != nil {
		return fmt.Errorf("failed to create game: %w", err)
	}

	slog.Info("game started", "game_id", game.ID, "chat_id", game.ChatID, "name", game.Name)
	return nil
}

func (d *Dispatcher) endGame(ctx context.Context, cmd Command) error {
	unlock := d.reg.LockOwner(cmd.ChatID, cmd.Sender.ID)
	defer unlock()

	game, err := d.reg.FindActiveGame(ctx, cmd.ChatID, cmd.Sender.ID)
	if errors.Is(err, models.ErrNotFound) {
		return d.reply(ctx, cmd.ChatID, "No active game, start one with /game <name>")
	}
	if err != nil {
		return fmt.Errorf("failed to look up active game: %w", err)
	}

	if err := d.reg.EndGame(ctx, game); err != nil {
		return fmt.Errorf("failed to end game: %w", err)
	}

	stats, err := d.reg.GameStatistics(ctx, game.ID)
	if err != nil {
		return fmt.Errorf("failed to load game statistics: %w", err)
	}

	view := render.Game(game, &stats)
	if err := d.messenger.EditView(ctx, game.ChatID, game.RenderedMessageID, view); err != nil {
		slog.Error("failed to update game message", "error", err, "game_id", game.ID)
	}
	if _, err := d.messenger.SendView(ctx, game.ChatID, view); err != nil {
		slog.Error("failed to send game statistics", "error", err, "game_id", game.ID)
	}

	slog.Info("game ended",
		"game_id", game.ID,
		"sessions", stats.SessionsCount,
		"estimated", stats.EstimatedSessionsCount,
	)
	return nil
}

// HandleCallback runs a button press. Rejected presses are answered and
// leave the stored session untouched.
func (d *Dispatcher) HandleCallback(ctx context.Context, cb Callback) error {
	payload, err := callback.Parse(cb.Data)
	if err != nil {
		slog.Warn("rejected callback", "error", err, "chat_id", cb.ChatID)
		d.answer(ctx, cb, "Unknown action")
		return nil
	}

	unlock := d.reg.Lock(cb.ChatID, payload.SessionKey)
	defer unlock()

	sess, err := d.reg.FindSession(ctx, cb.ChatID, payload.SessionKey)
	if errors.Is(err, models.ErrNotFound) {
		d.answer(ctx, cb, "No such game")
		return nil
	}
	if err != nil {
		d.answer(ctx, cb, failureAnswer)
		return fmt.Errorf("failed to load session: %w", err)
	}

	if payload.IsVote() {
		return d.vote(ctx, cb, sess, payload)
	}

	op, _ := payload.Operation()
	return d.operate(ctx, cb, sess, op)
}

func (d *Dispatcher) vote(ctx context.Context, cb Callback, sess *models.Session, p callback.Payload) error {
	var err error
	phase := models.PhaseDiscussion
	if p.Action == callback.ActionEstimationVote {
		phase = models.PhaseEstimation
		err = sess.AddEstimationVote(cb.Sender, p.Value, d.deck)
	} else {
		err = sess.AddDiscussionVote(cb.Sender, p.Value)
	}

	switch {
	case errors.Is(err, models.ErrPhaseViolation):
		d.answer(ctx, cb, fmt.Sprintf("Can't vote not in %s phase", phase))
		return nil
	case errors.Is(err, models.ErrInvalidVote):
		d.answer(ctx, cb, fmt.Sprintf("Unknown vote `%s`", p.Value))
		return nil
	case err != nil:
		d.answer(ctx, cb, failureAnswer)
		return err
	}

	if err := d.reg.UpdateSession(ctx, sess); err != nil {
		d.answer(ctx, cb, failureAnswer)
		return fmt.Errorf("failed to store vote: %w", err)
	}

	d.refresh(ctx, sess)
	d.answer(ctx, cb, fmt.Sprintf("Vote `%s` accepted", p.Value))

	slog.Info("vote accepted",
		"chat_id", sess.ChatID,
		"session_key", sess.SessionKey,
		"phase", sess.Phase(),
		"participant", cb.Sender.Key(),
	)
	return nil
}

func (d *Dispatcher) operate(ctx context.Context, cb Callback, sess *models.Session, op models.Operation) error {
	if err := sess.Authorize(cb.Sender); err != nil {
		d.answer(ctx, cb, fmt.Sprintf("Operation `%s` is available only for facilitator", op))
		return nil
	}
	if !sess.Allows(op) {
		d.answer(ctx, cb, fmt.Sprintf("Operation `%s` is not available in %s phase", op, sess.Phase()))
		return nil
	}

	if op == models.OperationReEstimate {
		return d.reEstimate(ctx, cb, sess)
	}

	if err := sess.Apply(op); err != nil {
		d.answer(ctx, cb, failureAnswer)
		return err
	}

	if err := d.reg.UpdateSession(ctx, sess); err != nil {
		d.answer(ctx, cb, failureAnswer)
		return fmt.Errorf("failed to store session: %w", err)
	}

	if op == models.OperationEndEstimation {
		if err := d.reg.RecordResolution(ctx, sess); err != nil {
			slog.Error("failed to record resolution", "error", err, "session_id", sess.ID)
		}
	}

	d.refresh(ctx, sess)
	d.answer(ctx, cb, "")

	slog.Info("operation applied",
		"chat_id", sess.ChatID,
		"session_key", sess.SessionKey,
		"operation", op,
		"phase", sess.Phase(),
	)
	return nil
}

// reEstimate leaves the resolved results behind as a plain message and
// continues the session in a fresh one. The old message keeps its buttons
// until the next round is stored.
func (d *Dispatcher) reEstimate(ctx context.Context, cb Callback, sess *models.Session) error {
	frozen := render.Frozen(sess)
	oldMessageID := sess.RenderedMessageID

	if err := sess.ReEstimate(); err != nil {
		d.answer(ctx, cb, failureAnswer)
		return err
	}

	view := render.Session(sess, d.deck)
	messageID, sendErr := d.messenger.SendView(ctx, sess.ChatID, view)
	if sendErr == nil {
		sess.RenderedMessageID = messageID
	} else {
		slog.Error("failed to send re-estimate message", "error", sendErr, "session_key", sess.SessionKey)
	}

	if err := d.reg.UpdateSession(ctx, sess); err != nil {
		if sendErr == nil {
			// Nothing stored points at the new message
			if err := d.messenger.EditView(ctx, sess.ChatID, messageID, frozen); err != nil {
				slog.Error("failed to retract re-estimate message", "error", err, "message_id", messageID)
			}
		}
		d.answer(ctx, cb, failureAnswer)
		return fmt.Errorf("failed to store session: %w", err)
	}

	if sendErr != nil {
		// Keep the session usable through the old message
		if err := d.messenger.EditView(ctx, sess.ChatID, oldMessageID, view); err != nil {
			slog.Error("failed to update session message", "error", err, "message_id", oldMessageID)
		}
	} else if err := d.messenger.EditView(ctx, sess.ChatID, oldMessageID, frozen); err != nil {
		slog.Error("failed to freeze resolved message", "error", err, "message_id", oldMessageID)
	}

	d.answer(ctx, cb, "")

	slog.Info("session re-estimated",
		"chat_id", sess.ChatID,
		"session_key", sess.SessionKey,
		"round", sess.Round(),
	)
	return nil
}

// refresh re-renders the session message. The change is already stored,
// so failures are only logged.
func (d *Dispatcher) refresh(ctx context.Context, sess *models.Session) {
	err := d.messenger.EditView(ctx, sess.ChatID, sess.RenderedMessageID, render.Session(sess, d.deck))
	if err != nil {
		slog.Error("failed to update session message",
			"error", err,
			"chat_id", sess.ChatID,
			"message_id", sess.RenderedMessageID,
		)
	}
}

func (d *Dispatcher) answer(ctx context.Context, cb Callback, text string) {
	if err := d.messenger.AnswerCallback(ctx, cb.ID, text); err != nil {
		slog.Error("failed to answer callback", "error", err, "callback_id", cb.ID)
	}
}

func (d *Dispatcher) reply(ctx context.Context, chatID int64, text string) error {
	_, err := d.messenger.SendView(ctx, chatID, render.View{Text: text})
	return err
}
