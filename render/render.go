// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package render

import (
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/danielhkuo/devpoker/callback"
	"github.com/danielhkuo/devpoker/deck"
	"github.com/danielhkuo/devpoker/models"
)

// Button is one inline keyboard button.
type Button struct {
	Text string `json:"text"`
	Data string `json:"callback_data"`
}

// View is everything the transport needs to post or edit a message.
type View struct {
	Text                  string     `json:"text"`
	Keyboard              [][]Button `json:"keyboard,omitempty"`
	ParseMode             string     `json:"parse_mode,omitempty"`
	DisableWebPagePreview bool       `json:"disable_web_page_preview,omitempty"`
}

// discussionLayout is the button grid shown while discussing.
var discussionLayout = [][]struct{ status, label string }{
	{{models.StatusToEstimate, "👍 To estimate"}, {models.StatusNeedDiscuss, "⁉️ Discuss"}},
	{{models.StatusSplitTask, "✂️ Split"}, {models.StatusCancelTask, "☠️ Cancel"}},
	{{models.StatusEstimationImpossible, "♾️ Impossible"}, {models.StatusTakeABreak, "☕️ Take a break"}},
}

var topicPrefixes = map[models.Phase]string{
	models.PhaseDiscussion: "Discussion for: ",
	models.PhaseEstimation: "Estimation for: ",
	models.PhaseResolution: "Resolution for: ",
}

// Session renders the live message for a session.
func Session(s *models.Session, d deck.Deck) View {
	return View{
		Text:     SessionText(s),
		Keyboard: sessionKeyboard(s, d),
	}
}

// Frozen renders a session without buttons. Used for the message a
// re-estimate leaves behind.
func Frozen(s *models.Session) View {
	return View{Text: SessionText(s)}
}

// SessionText renders the header and vote summary.
func SessionText(s *models.Session) string {
	var b strings.Builder

	if s.GameName != "" {
		fmt.Fprintf(&b, "Game: %s\n", s.GameName)
	}
	fmt.Fprintf(&b, "Facilitator: %s\n", s.Owner.Key())
	b.WriteString(topicPrefixes[s.Phase()])
	b.WriteString(s.Topic)
	b.WriteString("\n")
	if s.Round() > 1 {
		fmt.Fprintf(&b, "Round: %s\n", humanize.Ordinal(s.Round()))
	}
	b.WriteString("\n")

	votes := Votes(s)
	if len(votes) > 0 {
		fmt.Fprintf(&b, "Votes (%d):", len(votes))
		for _, v := range votes {
			b.WriteString("\n")
			b.WriteString(v.Mark)
			b.WriteString(" ")
			b.WriteString(v.Participant)
		}
	}

	return b.String()
}

// Votes lists the votes relevant to the current phase, sorted by participant.
// Estimation values stay masked until resolution.
func Votes(s *models.Session) []models.VoteView {
	if s.Phase() == models.PhaseDiscussion {
		keys := s.DiscussionKeys()
		views := make([]models.VoteView, 0, len(keys))
		for _, key := range keys {
			v, _ := s.DiscussionVote(key)
			views = append(views, models.VoteView{Participant: key, Mark: v.Icon()})
		}
		return views
	}

	keys := s.EstimationKeys()
	views := make([]models.VoteView, 0, len(keys))
	for _, key := range keys {
		v, _ := s.EstimationVote(key)
		mark := v.Masked()
		if s.Phase() == models.PhaseResolution {
			mark = v.Value
		}
		views = append(views, models.VoteView{Participant: key, Mark: mark})
	}
	return views
}

func sessionKeyboard(s *models.Session, d deck.Deck) [][]Button {
	var rows [][]Button

	switch s.Phase() {
	case models.PhaseDiscussion:
		for _, layoutRow := range discussionLayout {
			row := make([]Button, 0, len(layoutRow))
			for _, opt := range layoutRow {
				row = append(row, Button{
					Text: opt.label,
					Data: callback.Vote(callback.ActionDiscussionVote, s.SessionKey, opt.status),
				})
			}
			rows = append(rows, row)
		}
		rows = append(rows, []Button{
			operationButton(s, models.OperationStartEstimation, "Start estimation"),
		})

	case models.PhaseEstimation:
		for _, deckRow := range d.Rows {
			row := make([]Button, 0, len(deckRow))
			for _, card := range deckRow {
				row = append(row, Button{
					Text: card,
					Data: callback.Vote(callback.ActionEstimationVote, s.SessionKey, card),
				})
			}
			rows = append(rows, row)
		}
		rows = append(rows, []Button{
			operationButton(s, models.OperationClearVotes, "Clear votes"),
			operationButton(s, models.OperationEndEstimation, "End estimation"),
		})

	case models.PhaseResolution:
		rows = append(rows, []Button{
			operationButton(s, models.OperationReEstimate, "Re-estimate"),
		})
	}

	return rows
}

func operationButton(s *models.Session, op models.Operation, label string) Button {
	return Button{Text: label, Data: callback.Operation(op, s.SessionKey)}
}
