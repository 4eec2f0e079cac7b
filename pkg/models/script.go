// Package models defines the core domain models for script-driven conversation flows.
package models

// Script is a named, versioned conversation flow: states connected by
// optionally conditioned edges, plus the tools and variables available to the
// generation layer. A Script is immutable once installed by the loader; the
// executor only reads it, which is what makes it safe to share across
// concurrent call sessions.
type Script struct {
	Name             string            `json:"name"                        validate:"required"`
	Description      string            `json:"description,omitempty"`
	Version          string            `json:"version,omitempty"`
	GeneralPrompt    string            `json:"general_prompt,omitempty"`
	StartingState    string            `json:"starting_state,omitempty"`
	Sections         []ScriptSection   `json:"sections,omitempty"`
	States           []State           `json:"states"`
	Edges            []Edge            `json:"edges,omitempty"`
	Tools            []Tool            `json:"tools,omitempty"`
	GeneralTools     []string          `json:"general_tools,omitempty"`
	DynamicVariables map[string]string `json:"dynamic_variables,omitempty"`
	Metadata         map[string]any    `json:"metadata,omitempty"`

	statesByName map[string]*State
	toolsByName  map[string]*Tool
	outgoing     map[string][]*Edge
}

// ScriptSection is one ordered instruction block of a script, carried through
// to the prompt template unchanged.
type ScriptSection struct {
	Title   string  `json:"title"   validate:"required"`
	Content string  `json:"content" validate:"required"`
	Weight  float64 `json:"weight,omitempty"`
}

// Tool declares a capability a state may hand to the generation layer.
type Tool struct {
	Name        string                   `json:"name"        validate:"required"`
	Description string                   `json:"description"`
	Parameters  map[string]ToolParameter `json:"parameters,omitempty"`
	Required    bool                     `json:"required,omitempty"`
}

// ToolParameter describes a single named parameter of a tool.
type ToolParameter struct {
	Type        string `json:"type"`
	Description string `json:"description,omitempty"`
	Required    bool   `json:"required,omitempty"`
}

// BuildIndexes precomputes the name and edge lookups used on every turn.
// The loader calls this exactly once, after validation and before the script
// becomes visible to any session; the indexes are read-only afterwards.
func (s *Script) BuildIndexes() {
	s.statesByName = make(map[string]*State, len(s.States))
	for i := range s.States {
		s.statesByName[s.States[i].Name] = &s.States[i]
	}

	s.toolsByName = make(map[string]*Tool, len(s.Tools))
	for i := range s.Tools {
		s.toolsByName[s.Tools[i].Name] = &s.Tools[i]
	}

	s.outgoing = make(map[string][]*Edge)
	for i := range s.Edges {
		edge := &s.Edges[i]
		s.outgoing[edge.FromState] = append(s.outgoing[edge.FromState], edge)
	}
}

// StateByName returns the state with the given name, or nil.
func (s *Script) StateByName(name string) *State {
	if s.statesByName != nil {
		return s.statesByName[name]
	}

	for i := range s.States {
		if s.States[i].Name == name {
			return &s.States[i]
		}
	}

	return nil
}

// ToolByName returns the declared tool with the given name, or nil.
func (s *Script) ToolByName(name string) *Tool {
	if s.toolsByName != nil {
		return s.toolsByName[name]
	}

	for i := range s.Tools {
		if s.Tools[i].Name == name {
			return &s.Tools[i]
		}
	}

	return nil
}

// OutgoingEdges returns the edges leaving the named state, in declaration
// order. Declaration order is load-bearing: the transition resolver uses it as
// the priority among simultaneously satisfiable conditions.
func (s *Script) OutgoingEdges(state string) []*Edge {
	if s.outgoing != nil {
		return s.outgoing[state]
	}

	var result []*Edge

	for i := range s.Edges {
		if s.Edges[i].FromState == state {
			result = append(result, &s.Edges[i])
		}
	}

	return result
}

// ResolveStartingState returns the effective entry state: the declared
// starting_state, or the sole state of a single-state script.
func (s *Script) ResolveStartingState() string {
	if s.StartingState != "" {
		return s.StartingState
	}

	if len(s.States) == 1 {
		return s.States[0].Name
	}

	return ""
}
