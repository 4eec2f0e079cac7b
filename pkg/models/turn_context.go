package models

import "time"

// ConversationTurn is one completed exchange within a session.
type ConversationTurn struct {
	UserInput   string    `json:"user_input"`
	AgentOutput string    `json:"agent_output"`
	Timestamp   time.Time `json:"timestamp"`
	State       string    `json:"state"`
}

// TurnContext is the accumulated conversational state of one session's flow.
// It is owned exclusively by that session's flow executor: entities accumulate
// across turns (last write wins per key), intents are replaced wholesale each
// turn, and history is append-only. Nothing outside the owning executor
// mutates it.
type TurnContext struct {
	SessionID    string             `json:"session_id"`
	ScriptName   string             `json:"script_name"`
	CurrentState string             `json:"current_state"`
	Entities     map[string]string  `json:"entities"`
	Intents      map[string]float64 `json:"intents"`
	History      []ConversationTurn `json:"history"`
	StartedAt    time.Time          `json:"started_at"`
	UpdatedAt    time.Time          `json:"updated_at"`
}

// NewTurnContext creates the context for a session entering a script flow.
func NewTurnContext(sessionID, scriptName, startingState string) *TurnContext {
	now := time.Now().UTC()

	return &TurnContext{
		SessionID:    sessionID,
		ScriptName:   scriptName,
		CurrentState: startingState,
		Entities:     make(map[string]string),
		Intents:      make(map[string]float64),
		History:      make([]ConversationTurn, 0),
		StartedAt:    now,
		UpdatedAt:    now,
	}
}

// MergeEntities folds newly extracted entities into the accumulated set.
func (c *TurnContext) MergeEntities(entities map[string]string) {
	for name, value := range entities {
		c.Entities[name] = value
	}
}

// ReplaceIntents swaps in this turn's intent scores. A nil map clears them.
func (c *TurnContext) ReplaceIntents(intents map[string]float64) {
	if intents == nil {
		intents = make(map[string]float64)
	}

	c.Intents = intents
}

// AppendTurn records a completed exchange at the current state.
func (c *TurnContext) AppendTurn(userInput, agentOutput string) {
	now := time.Now().UTC()

	c.History = append(c.History, ConversationTurn{
		UserInput:   userInput,
		AgentOutput: agentOutput,
		Timestamp:   now,
		State:       c.CurrentState,
	})
	c.UpdatedAt = now
}
