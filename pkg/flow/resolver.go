// Package flow executes script-driven conversation sessions: it resolves
// transitions after each turn, runs the generation layer, and manages the
// per-session state.
package flow

import (
	"log/slog"

	"github.com/voxline/scriptflow/pkg/conditions"
	"github.com/voxline/scriptflow/pkg/models"
)

// Resolver picks the edge a session follows after a turn. Resolution is
// deterministic: for the same script, context and input it always returns
// the same edge.
type Resolver struct {
	evaluator *conditions.Evaluator
	logger    *slog.Logger
}

func NewResolver(evaluator *conditions.Evaluator, logger *slog.Logger) *Resolver {
	return &Resolver{evaluator: evaluator, logger: logger}
}

// Resolve returns the edge to follow from the session's current state, or
// nil to stay put.
//
// Edges are tried in declaration order. Conditioned edges win over
// unconditional ones: the first satisfied condition is taken, and only when
// no condition holds does the first unconditional edge serve as the
// fallback. A sole unconditional edge is followed directly.
func (r *Resolver) Resolve(script *models.Script, turnCtx *models.TurnContext, userInput string) *models.Edge {
	edges := script.OutgoingEdges(turnCtx.CurrentState)
	if len(edges) == 0 {
		return nil
	}

	if len(edges) == 1 && edges[0].Condition == nil {
		return edges[0]
	}

	var fallback *models.Edge

	for _, edge := range edges {
		if edge.Condition == nil {
			if fallback == nil {
				fallback = edge
			}

			continue
		}

		if r.evaluator.Evaluate(edge.Condition, userInput, turnCtx) {
			r.logger.Debug("Transition condition satisfied",
				"session_id", turnCtx.SessionID,
				"from_state", edge.FromState,
				"to_state", edge.ToState,
				"condition_type", edge.Condition.Type)

			return edge
		}
	}

	return fallback
}
