// Package validation checks candidate scripts against structural and
// referential invariants before they can be installed.
package validation

import (
	"fmt"
	"strings"

	"github.com/voxline/scriptflow/pkg/graph"
	"github.com/voxline/scriptflow/pkg/models"
)

// Severity classifies how a caller wants a diagnostic reported.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

// Result is a validation verdict. Malformed input never panics or errors out
// of the validator; every failure mode lands in Errors or Warnings.
type Result struct {
	Valid    bool     `json:"valid"`
	Errors   []string `json:"errors,omitempty"`
	Warnings []string `json:"warnings,omitempty"`
}

func (r *Result) addError(format string, args ...any) {
	r.Errors = append(r.Errors, fmt.Sprintf(format, args...))
}

func (r *Result) addWarning(format string, args ...any) {
	r.Warnings = append(r.Warnings, fmt.Sprintf(format, args...))
}

func (r *Result) add(severity Severity, format string, args ...any) {
	if severity == SeverityError {
		r.addError(format, args...)
	} else {
		r.addWarning(format, args...)
	}
}

// Validate runs the strict check set used by the loader: unreachable states
// are errors and block installation.
func Validate(script *models.Script) *Result {
	return validate(script, SeverityError)
}

// ValidateAdvisory runs the same checks with unreachable states downgraded to
// warnings, for authoring tools that want diagnostics without rejection.
func ValidateAdvisory(script *models.Script) *Result {
	return validate(script, SeverityWarning)
}

func validate(script *models.Script, reachabilitySeverity Severity) *Result {
	result := &Result{}

	if script == nil {
		result.addError("script is nil")
		result.Valid = false

		return result
	}

	if script.Name == "" {
		result.addError("script name is required")
	}

	if len(script.States) == 0 {
		result.addError("script has no states")
	}

	checkStartingState(script, result)
	checkStateNames(script, result)
	checkEdgeReferences(script, result)
	checkToolReferences(script, result)
	checkReachability(script, result, reachabilitySeverity)

	result.Valid = len(result.Errors) == 0

	return result
}

func checkStartingState(script *models.Script, result *Result) {
	if script.StartingState != "" {
		if script.StateByName(script.StartingState) == nil {
			result.addError("starting state %q not found in states", script.StartingState)
		}

		return
	}

	// A single-state script has an unambiguous entry point, so the missing
	// starting_state is only flagged, not rejected. Multi-state scripts must
	// name one.
	switch len(script.States) {
	case 0:
	case 1:
		result.addWarning("no starting state declared; defaulting to sole state %q", script.States[0].Name)
	default:
		result.addError("no starting state defined for multi-state script")
	}
}

func checkStateNames(script *models.Script, result *Result) {
	seen := make(map[string]int, len(script.States))
	for i := range script.States {
		seen[script.States[i].Name]++
	}

	var duplicates []string

	for i := range script.States {
		name := script.States[i].Name
		if seen[name] > 1 {
			duplicates = append(duplicates, name)
			seen[name] = 0 // report each duplicate name once
		}
	}

	if len(duplicates) > 0 {
		result.addError("duplicate state names found: %s", strings.Join(duplicates, ", "))
	}

	for i := range script.States {
		if script.States[i].Prompt == "" {
			result.addError("state %q is missing prompt content", script.States[i].Name)
		}
	}
}

func checkEdgeReferences(script *models.Script, result *Result) {
	for i := range script.Edges {
		edge := &script.Edges[i]

		if script.StateByName(edge.FromState) == nil {
			result.addError("edge %d references non-existent from_state %q", i, edge.FromState)
		}

		if script.StateByName(edge.ToState) == nil {
			result.addError("edge %d (%s -> %s) references non-existent to_state %q",
				i, edge.FromState, edge.ToState, edge.ToState)
		}
	}
}

func checkToolReferences(script *models.Script, result *Result) {
	generalTools := make(map[string]struct{}, len(script.GeneralTools))
	for _, name := range script.GeneralTools {
		generalTools[name] = struct{}{}
	}

	for i := range script.States {
		state := &script.States[i]

		for _, toolName := range state.Tools {
			if script.ToolByName(toolName) == nil {
				if _, general := generalTools[toolName]; !general {
					result.addError("tool %q referenced in state %q is not defined", toolName, state.Name)
				}
			}
		}
	}

	for _, toolName := range script.GeneralTools {
		if script.ToolByName(toolName) == nil {
			result.addError("general tool %q is not defined", toolName)
		}
	}
}

// checkReachability is the single reachability implementation shared by the
// strict and advisory paths; only the severity classification differs.
func checkReachability(script *models.Script, result *Result, severity Severity) {
	start := script.ResolveStartingState()
	if start == "" || script.StateByName(start) == nil {
		// Starting-state problems are already reported; reachability from an
		// unresolvable start would only produce noise.
		return
	}

	reachable := graph.ReachableStates(script, start)

	for i := range script.States {
		name := script.States[i].Name
		if _, ok := reachable[name]; !ok {
			result.add(severity, "state %q is not reachable from starting state %q", name, start)
		}
	}
}
