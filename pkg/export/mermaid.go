// Package export renders scripts into visual formats: Mermaid flowcharts,
// GraphViz DOT, and a standalone HTML page.
package export

import (
	"fmt"
	"strings"

	"github.com/voxline/scriptflow/pkg/models"
)

// Mermaid renders the script as a top-down Mermaid flowchart. State kinds
// map onto shapes: stadium for initial, trapezoid for terminal, hexagon for
// decision, subroutine for processing, rectangle for everything else.
func Mermaid(script *models.Script) string {
	var builder strings.Builder

	builder.WriteString("flowchart TD\n")

	for i := range script.States {
		state := &script.States[i]
		builder.WriteString("    ")
		builder.WriteString(mermaidNode(state))
		builder.WriteString("\n")
	}

	for i := range script.Edges {
		edge := &script.Edges[i]

		if label := edgeLabel(edge); label != "" {
			builder.WriteString(fmt.Sprintf("    %s -->|%s| %s\n", edge.FromState, label, edge.ToState))
		} else {
			builder.WriteString(fmt.Sprintf("    %s --> %s\n", edge.FromState, edge.ToState))
		}
	}

	return builder.String()
}

func mermaidNode(state *models.State) string {
	label := fmt.Sprintf("%q", state.Name)

	switch state.Type {
	case models.StateTypeInitial:
		return fmt.Sprintf("%s([%s])", state.Name, label)
	case models.StateTypeTerminal:
		return fmt.Sprintf("%s[/%s/]", state.Name, label)
	case models.StateTypeDecision:
		return fmt.Sprintf("%s{{%s}}", state.Name, label)
	case models.StateTypeProcessing:
		return fmt.Sprintf("%s[[%s]]", state.Name, label)
	default:
		return fmt.Sprintf("%s[%s]", state.Name, label)
	}
}

// edgeLabel prefers the authored description, falling back to a short
// rendering of the condition.
func edgeLabel(edge *models.Edge) string {
	if edge.Description != "" {
		return edge.Description
	}

	if edge.Condition != nil {
		return string(edge.Condition.Type)
	}

	return ""
}
