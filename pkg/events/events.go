// Package events defines the flow lifecycle notifications published by the
// session manager.
package events

import (
	"time"

	"github.com/google/uuid"
)

type EventType string

const (
	FlowStartedEvent       EventType = "flow.started"
	TurnProcessedEvent     EventType = "flow.turn.processed"
	StateTransitionedEvent EventType = "flow.state.transitioned"
	FlowEndedEvent         EventType = "flow.ended"
)

const EventTypeMetadataKey = "event_type"

// BaseEvent carries the fields common to every flow event.
type BaseEvent struct {
	ID         string         `json:"id"`
	Type       EventType      `json:"type"`
	Timestamp  time.Time      `json:"timestamp"`
	SessionID  string         `json:"session_id"`
	ScriptName string         `json:"script_name"`
	Metadata   map[string]any `json:"metadata,omitempty"`
}

func newBaseEvent(eventType EventType, sessionID, scriptName string) BaseEvent {
	return BaseEvent{
		ID:         uuid.New().String(),
		Type:       eventType,
		Timestamp:  time.Now().UTC(),
		SessionID:  sessionID,
		ScriptName: scriptName,
	}
}

// FlowStarted is published when a session begins executing a script.
type FlowStarted struct {
	BaseEvent

	StartingState string `json:"starting_state"`
}

func NewFlowStarted(sessionID, scriptName, startingState string) FlowStarted {
	return FlowStarted{
		BaseEvent:     newBaseEvent(FlowStartedEvent, sessionID, scriptName),
		StartingState: startingState,
	}
}

func (e FlowStarted) GetType() EventType {
	return FlowStartedEvent
}

// TurnProcessed is published after every completed turn, whether or not it
// caused a transition.
type TurnProcessed struct {
	BaseEvent

	State        string `json:"state"`
	UserInput    string `json:"user_input"`
	AgentOutput  string `json:"agent_output"`
	Transitioned bool   `json:"transitioned"`
}

func NewTurnProcessed(sessionID, scriptName, state, userInput, agentOutput string, transitioned bool) TurnProcessed {
	return TurnProcessed{
		BaseEvent:    newBaseEvent(TurnProcessedEvent, sessionID, scriptName),
		State:        state,
		UserInput:    userInput,
		AgentOutput:  agentOutput,
		Transitioned: transitioned,
	}
}

func (e TurnProcessed) GetType() EventType {
	return TurnProcessedEvent
}

// StateTransitioned is published when a turn moves the session to a new
// state.
type StateTransitioned struct {
	BaseEvent

	FromState string `json:"from_state"`
	ToState   string `json:"to_state"`
	Terminal  bool   `json:"terminal"`
}

func NewStateTransitioned(sessionID, scriptName, fromState, toState string, terminal bool) StateTransitioned {
	return StateTransitioned{
		BaseEvent: newBaseEvent(StateTransitionedEvent, sessionID, scriptName),
		FromState: fromState,
		ToState:   toState,
		Terminal:  terminal,
	}
}

func (e StateTransitioned) GetType() EventType {
	return StateTransitionedEvent
}

// FlowEnded is published when a session finishes, either by reaching a
// terminal state or by an explicit end request.
type FlowEnded struct {
	BaseEvent

	FinalState string        `json:"final_state"`
	Turns      int           `json:"turns"`
	Duration   time.Duration `json:"duration"`
	Reason     string        `json:"reason"`
}

func NewFlowEnded(sessionID, scriptName, finalState, reason string, turns int, duration time.Duration) FlowEnded {
	return FlowEnded{
		BaseEvent:  newBaseEvent(FlowEndedEvent, sessionID, scriptName),
		FinalState: finalState,
		Turns:      turns,
		Duration:   duration,
		Reason:     reason,
	}
}

func (e FlowEnded) GetType() EventType {
	return FlowEndedEvent
}
