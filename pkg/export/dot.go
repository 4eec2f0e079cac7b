package export

import (
	"fmt"
	"strings"

	"github.com/voxline/scriptflow/pkg/models"
)

// DOT renders the script as a GraphViz digraph.
func DOT(script *models.Script) string {
	var builder strings.Builder

	builder.WriteString("digraph CallFlow {\n")
	builder.WriteString("    rankdir=TB;\n")
	builder.WriteString("    node [shape=box];\n")

	for i := range script.States {
		state := &script.States[i]
		builder.WriteString(fmt.Sprintf("    %q [shape=%q, label=%q];\n",
			state.Name, dotShape(state.Type), state.Name))
	}

	for i := range script.Edges {
		edge := &script.Edges[i]

		if label := edgeLabel(edge); label != "" {
			builder.WriteString(fmt.Sprintf("    %q -> %q [label=%q];\n", edge.FromState, edge.ToState, label))
		} else {
			builder.WriteString(fmt.Sprintf("    %q -> %q;\n", edge.FromState, edge.ToState))
		}
	}

	builder.WriteString("}\n")

	return builder.String()
}

func dotShape(stateType models.StateType) string {
	switch stateType {
	case models.StateTypeInitial:
		return "oval"
	case models.StateTypeTerminal:
		return "doublecircle"
	case models.StateTypeDecision:
		return "diamond"
	case models.StateTypeProcessing:
		return "box3d"
	default:
		return "box"
	}
}
