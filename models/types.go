package models

// Response types

// VoteView is one rendered vote. Mark is the icon, suit mask or revealed value
// depending on the session phase.
type VoteView struct {
	Participant string `json:"participant"`
	Mark        string `json:"mark"`
}

type SessionResponse struct {
	ChatID            int64      `json:"chat_id"`
	SessionKey        int        `json:"session_key"`
	RenderedMessageID int        `json:"rendered_message_id"`
	GameID            string     `json:"game_id,omitempty"`
	Topic             string     `json:"topic"`
	Facilitator       string     `json:"facilitator"`
	Phase             Phase      `json:"phase"`
	Round             int        `json:"round"`
	Votes             []VoteView `json:"votes"`
}

type GameStatisticsResponse struct {
	Game       Game           `json:"game"`
	Statistics GameStatistics `json:"statistics"`
}

// Error response

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
