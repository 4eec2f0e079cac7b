package web

import "github.com/voxline/scriptflow/pkg/validation"

// StartSessionRequest begins a flow on an installed script.
type StartSessionRequest struct {
	ScriptName string `json:"script_name" validate:"required"`
}

// TurnRequest carries one caller utterance into a session.
type TurnRequest struct {
	Input string `json:"input" validate:"required"`
}

// RegisterScriptResponse reports a successful registration, including the
// non-fatal diagnostics the load produced.
type RegisterScriptResponse struct {
	Name     string   `json:"name"`
	Version  string   `json:"version"`
	States   int      `json:"states"`
	Edges    int      `json:"edges"`
	Warnings []string `json:"warnings,omitempty"`
}

// LintResponse is the advisory check verdict for a candidate document.
type LintResponse struct {
	Result *validation.Result `json:"result"`
}
