// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package models

import (
	"encoding/json"
	"fmt"
	"sort"
)

// Phase is the stage of a game session.
type Phase string

const (
	PhaseDiscussion Phase = "discussion"
	PhaseEstimation Phase = "estimation"
	PhaseResolution Phase = "resolution"
)

// Operation is a facilitator-only control.
type Operation string

const (
	OperationStartEstimation Operation = "start_estimation"
	OperationEndEstimation   Operation = "end_estimation"
	OperationClearVotes      Operation = "clear_votes"
	OperationReEstimate      Operation = "re_estimate"
)

// Operations lists every facilitator control in button order.
var Operations = []Operation{
	OperationStartEstimation,
	OperationEndEstimation,
	OperationClearVotes,
	OperationReEstimate,
}

// transitions maps (phase, operation) to the resulting phase.
// Pairs missing from the table are phase violations.
var transitions = map[Phase]map[Operation]Phase{
	PhaseDiscussion: {
		OperationStartEstimation: PhaseEstimation,
	},
	PhaseEstimation: {
		OperationEndEstimation: PhaseResolution,
		OperationClearVotes:    PhaseEstimation,
	},
	PhaseResolution: {
		OperationReEstimate: PhaseEstimation,
	},
}

// Session is one estimation round tied to the facilitator's /poker message.
type Session struct {
	ID                string
	ChatID            int64
	SessionKey        int // message id of the command that opened the session
	RenderedMessageID int // bot message edited in place
	GameID            string
	GameName          string
	Topic             string
	Owner             Participant

	phase           Phase
	round           int
	discussionVotes map[string]*DiscussionVote
	estimationVotes map[string]*EstimationVote
}

// NewSession opens a session in the discussion phase.
func NewSession(chatID int64, sessionKey int, topic string, owner Participant) *Session {
	return &Session{
		ChatID:          chatID,
		SessionKey:      sessionKey,
		Topic:           topic,
		Owner:           owner,
		phase:           PhaseDiscussion,
		round:           1,
		discussionVotes: make(map[string]*DiscussionVote),
		estimationVotes: make(map[string]*EstimationVote),
	}
}

func (s *Session) Phase() Phase { return s.phase }

// Round counts estimation rounds; re-estimate starts the next one.
func (s *Session) Round() int { return s.round }

// Authorize checks that p owns the session. Compares raw account ids only.
func (s *Session) Authorize(p Participant) error {
	if !s.Owner.Is(p) {
		return ErrUnauthorized
	}
	return nil
}

// Allows reports whether op is a legal transition from the current phase.
func (s *Session) Allows(op Operation) bool {
	_, ok := transitions[s.phase][op]
	return ok
}

// Apply runs a facilitator operation by name.
func (s *Session) Apply(op Operation) error {
	switch op {
	case OperationStartEstimation:
		return s.StartEstimation()
	case OperationEndEstimation:
		return s.EndEstimation()
	case OperationClearVotes:
		return s.ClearVotes()
	case OperationReEstimate:
		return s.ReEstimate()
	default:
		return fmt.Errorf("%w: %q", ErrUnknownOperation, op)
	}
}

func (s *Session) transition(op Operation) error {
	next, ok := transitions[s.phase][op]
	if !ok {
		return fmt.Errorf("%w: %s during %s", ErrPhaseViolation, op, s.phase)
	}
	s.phase = next
	return nil
}

func (s *Session) StartEstimation() error {
	return s.transition(OperationStartEstimation)
}

func (s *Session) EndEstimation() error {
	return s.transition(OperationEndEstimation)
}

// ClearVotes drops every estimation vote and keeps estimating.
func (s *Session) ClearVotes() error {
	if err := s.transition(OperationClearVotes); err != nil {
		return err
	}
	s.estimationVotes = make(map[string]*EstimationVote)
	return nil
}

// ReEstimate reopens a resolved session with an empty vote set.
func (s *Session) ReEstimate() error {
	if err := s.transition(OperationReEstimate); err != nil {
		return err
	}
	s.estimationVotes = make(map[string]*EstimationVote)
	s.round++
	return nil
}

// Cards reports which estimation values are on offer.
type Cards interface {
	Contains(value string) bool
}

// AddDiscussionVote records p's lobby status. Only legal while discussing.
func (s *Session) AddDiscussionVote(p Participant, status string) error {
	if s.phase != PhaseDiscussion {
		return fmt.Errorf("%w: discussion vote during %s", ErrPhaseViolation, s.phase)
	}
	if !IsDiscussionStatus(status) {
		return fmt.Errorf("%w: status %q", ErrInvalidVote, status)
	}

	key := p.Key()
	vote, ok := s.discussionVotes[key]
	if !ok {
		vote = &DiscussionVote{}
		s.discussionVotes[key] = vote
	}
	vote.Set(status)
	return nil
}

// AddEstimationVote records p's card. Re-voting bumps the same entry's revision.
// A nil cards accepts any non-empty value.
func (s *Session) AddEstimationVote(p Participant, value string, cards Cards) error {
	if s.phase != PhaseEstimation {
		return fmt.Errorf("%w: estimation vote during %s", ErrPhaseViolation, s.phase)
	}
	if value == "" || (cards != nil && !cards.Contains(value)) {
		return fmt.Errorf("%w: card %q", ErrInvalidVote, value)
	}

	key := p.Key()
	vote, ok := s.estimationVotes[key]
	if !ok {
		vote = NewEstimationVote()
		s.estimationVotes[key] = vote
	}
	vote.Set(value)
	return nil
}

// DiscussionVote returns the vote cast under key, if any.
func (s *Session) DiscussionVote(key string) (DiscussionVote, bool) {
	v, ok := s.discussionVotes[key]
	if !ok {
		return DiscussionVote{}, false
	}
	return *v, true
}

// EstimationVote returns the vote cast under key, if any.
func (s *Session) EstimationVote(key string) (EstimationVote, bool) {
	v, ok := s.estimationVotes[key]
	if !ok {
		return EstimationVote{}, false
	}
	return *v, true
}

func (s *Session) DiscussionVoteCount() int { return len(s.discussionVotes) }

func (s *Session) EstimationVoteCount() int { return len(s.estimationVotes) }

// DiscussionKeys returns voter keys in sorted order.
func (s *Session) DiscussionKeys() []string {
	return sortedKeys(s.discussionVotes)
}

// EstimationKeys returns voter keys in sorted order.
func (s *Session) EstimationKeys() []string {
	return sortedKeys(s.estimationVotes)
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// sessionRecord is the persisted shape of a session.
type sessionRecord struct {
	ID                string                     `json:"id"`
	ChatID            int64                      `json:"chat_id"`
	SessionKey        int                        `json:"session_key"`
	RenderedMessageID int                        `json:"rendered_message_id"`
	GameID            string                     `json:"game_id,omitempty"`
	GameName          string                     `json:"game_name,omitempty"`
	Topic             string                     `json:"topic"`
	Owner             Participant                `json:"owner"`
	Phase             Phase                      `json:"phase"`
	Round             int                        `json:"round"`
	DiscussionVotes   map[string]*DiscussionVote `json:"discussion_votes"`
	EstimationVotes   map[string]*EstimationVote `json:"estimation_votes"`
}

// MarshalJSON implements json.Marshaler
func (s *Session) MarshalJSON() ([]byte, error) {
	return json.Marshal(sessionRecord{
		ID:                s.ID,
		ChatID:            s.ChatID,
		SessionKey:        s.SessionKey,
		RenderedMessageID: s.RenderedMessageID,
		GameID:            s.GameID,
		GameName:          s.GameName,
		Topic:             s.Topic,
		Owner:             s.Owner,
		Phase:             s.phase,
		Round:             s.round,
		DiscussionVotes:   s.discussionVotes,
		EstimationVotes:   s.estimationVotes,
	})
}

// UnmarshalJSON implements json.Unmarshaler
func (s *Session) UnmarshalJSON(data []byte) error {
	var rec sessionRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return err
	}

	switch rec.Phase {
	case PhaseDiscussion, PhaseEstimation, PhaseResolution:
	default:
		return fmt.Errorf("invalid session phase %q", rec.Phase)
	}

	if rec.Round < 1 {
		rec.Round = 1
	}
	if rec.DiscussionVotes == nil {
		rec.DiscussionVotes = make(map[string]*DiscussionVote)
	}
	if rec.EstimationVotes == nil {
		rec.EstimationVotes = make(map[string]*EstimationVote)
	}
	for k, v := range rec.DiscussionVotes {
		if v == nil {
			delete(rec.DiscussionVotes, k)
		}
	}
	for k, v := range rec.EstimationVotes {
		if v == nil {
			delete(rec.EstimationVotes, k)
		}
	}

	*s = Session{
		ID:                rec.ID,
		ChatID:            rec.ChatID,
		SessionKey:        rec.SessionKey,
		RenderedMessageID: rec.RenderedMessageID,
		GameID:            rec.GameID,
		GameName:          rec.GameName,
		Topic:             rec.Topic,
		Owner:             rec.Owner,
		phase:             rec.Phase,
		round:             rec.Round,
		discussionVotes:   rec.DiscussionVotes,
		estimationVotes:   rec.EstimationVotes,
	}
	return nil
}
