// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package models

// CardSuits rotate with each re-vote so a changed vote is visible without its value.
var CardSuits = [4]string{"♥️", "♠️", "♦️", "♣️"}

// EstimationVote is one participant's card in the estimation phase.
type EstimationVote struct {
	Value    string `json:"value"`
	Revision int    `json:"revision"`
}

// NewEstimationVote returns a vote that has not been cast yet (revision -1).
func NewEstimationVote() *EstimationVote {
	return &EstimationVote{Revision: -1}
}

// Set records a cast. Revision advances even when the value is unchanged.
func (v *EstimationVote) Set(value string) {
	v.Value = value
	v.Revision++
}

// Masked returns the suit shown in place of the value until resolution.
func (v *EstimationVote) Masked() string {
	n := len(CardSuits)
	return CardSuits[((v.Revision%n)+n)%n]
}

// Discussion statuses
const (
	StatusToEstimate           = "to_estimate"
	StatusNeedDiscuss          = "need_discuss"
	StatusSplitTask            = "split_task"
	StatusCancelTask           = "cancel_task"
	StatusEstimationImpossible = "estimation_impossible"
	StatusTakeABreak           = "take_a_break"
)

var discussionIcons = map[string]string{
	StatusToEstimate:           "👍",
	StatusNeedDiscuss:          "⁉️",
	StatusSplitTask:            "✂️",
	StatusCancelTask:           "☠️",
	StatusEstimationImpossible: "♾️",
	StatusTakeABreak:           "☕️",
}

// IsDiscussionStatus reports whether status is one of the known lobby choices.
func IsDiscussionStatus(status string) bool {
	_, ok := discussionIcons[status]
	return ok
}

// DiscussionVote is one participant's lobby status. No masking, no revisions.
type DiscussionVote struct {
	Status string `json:"status"`
}

func (v *DiscussionVote) Set(status string) {
	v.Status = status
}

// Icon returns the glyph for the status, or "" when the status is unknown.
func (v *DiscussionVote) Icon() string {
	return discussionIcons[v.Status]
}
