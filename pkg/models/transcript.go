package models

import "time"

// Transcript is the durable record of a finished session: the final graph
// position, the full turn history, and everything extracted along the way.
type Transcript struct {
	SessionID  string             `json:"session_id"`
	ScriptName string             `json:"script_name"`
	FinalState string             `json:"final_state"`
	EndReason  string             `json:"end_reason,omitempty"`
	Turns      []ConversationTurn `json:"turns,omitempty"`
	Entities   map[string]string  `json:"entities,omitempty"`
	StartedAt  time.Time          `json:"started_at"`
	EndedAt    time.Time          `json:"ended_at"`
}

// TranscriptFromContext snapshots a session context into a transcript.
func TranscriptFromContext(turnContext *TurnContext, endReason string, endedAt time.Time) *Transcript {
	return &Transcript{
		SessionID:  turnContext.SessionID,
		ScriptName: turnContext.ScriptName,
		FinalState: turnContext.CurrentState,
		EndReason:  endReason,
		Turns:      turnContext.History,
		Entities:   turnContext.Entities,
		StartedAt:  turnContext.StartedAt,
		EndedAt:    endedAt,
	}
}
