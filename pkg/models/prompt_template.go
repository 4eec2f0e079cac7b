package models

// StructureType distinguishes single-prompt templates from multi-state ones.
type StructureType string

const (
	StructureSingle StructureType = "single"
	StructureMulti  StructureType = "multi_prompt"
)

// StateInstruction is the per-state slice of a prompt template: the state's
// instruction plus every tool reachable in that state (its own tools and the
// script's general tools).
type StateInstruction struct {
	Name           string   `json:"name"`
	Prompt         string   `json:"prompt"`
	ReachableTools []string `json:"reachable_tools,omitempty"`
	Description    string   `json:"description,omitempty"`
}

// TemplateEdge is the connectivity record carried into a template so the
// generation layer can describe upcoming transitions.
type TemplateEdge struct {
	FromState   string `json:"from_state"`
	ToState     string `json:"to_state"`
	Condition   string `json:"condition,omitempty"`
	Description string `json:"description,omitempty"`
}

// PromptTemplate is the declarative shape handed to the generation layer:
// ordered instruction sections plus, for multi-state scripts, per-state
// instructions and the edges between them. Produced only from validated
// scripts, so the conversion is total.
type PromptTemplate struct {
	Name             string             `json:"name"`
	StructureType    StructureType      `json:"structure_type"`
	Sections         []ScriptSection    `json:"sections,omitempty"`
	States           []StateInstruction `json:"states,omitempty"`
	Edges            []TemplateEdge     `json:"edges,omitempty"`
	GeneralPrompt    string             `json:"general_prompt,omitempty"`
	GeneralTools     []string           `json:"general_tools,omitempty"`
	StartingState    string             `json:"starting_state,omitempty"`
	DynamicVariables map[string]string  `json:"dynamic_variables,omitempty"`
}

// StateInstructionByName returns the instruction for the named state, or nil.
func (t *PromptTemplate) StateInstructionByName(name string) *StateInstruction {
	for i := range t.States {
		if t.States[i].Name == name {
			return &t.States[i]
		}
	}

	return nil
}
