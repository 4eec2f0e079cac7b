package models

// StateType is the closed set of state kinds. Older scripts used a looser
// vocabulary (confirmation, final, alternative, escalation); the loader maps
// those onto this set and reports the substitution as a warning instead of
// accepting arbitrary strings.
type StateType string

const (
	StateTypeInitial     StateType = "initial"
	StateTypeInformation StateType = "information"
	StateTypeProcessing  StateType = "processing"
	StateTypeDecision    StateType = "decision"
	StateTypeTerminal    StateType = "terminal"
)

// legacyStateTypes maps retired vocabulary onto the closed set.
var legacyStateTypes = map[string]StateType{
	"final":        StateTypeTerminal,
	"confirmation": StateTypeDecision,
	"alternative":  StateTypeDecision,
	"escalation":   StateTypeProcessing,
}

// NormalizeStateType resolves a raw type string to a member of the closed set.
// The second return reports whether the input was already canonical; legacy
// and unknown values normalize (unknown ones to information) and return false
// so the loader can attach a warning.
func NormalizeStateType(raw string) (StateType, bool) {
	switch StateType(raw) {
	case StateTypeInitial, StateTypeInformation, StateTypeProcessing, StateTypeDecision, StateTypeTerminal:
		return StateType(raw), true
	}

	if mapped, ok := legacyStateTypes[raw]; ok {
		return mapped, false
	}

	return StateTypeInformation, false
}

// State is one node of the flow graph. It carries the instruction template
// handed to the generation layer while the session occupies it. States are
// never mutated by the executor, only referenced by name.
type State struct {
	Name        string         `json:"name"   validate:"required"`
	Type        StateType      `json:"type"   validate:"required"`
	Prompt      string         `json:"prompt" validate:"required"`
	Tools       []string       `json:"tools,omitempty"`
	Description string         `json:"description,omitempty"`
	Metadata    map[string]any `json:"metadata,omitempty"`
}

// IsTerminal reports whether reaching this state signals the caller to end
// the flow after the current turn completes.
func (s *State) IsTerminal() bool {
	return s.Type == StateTypeTerminal
}
