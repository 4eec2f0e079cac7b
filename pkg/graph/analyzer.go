// Package graph provides structural analysis over a script's state graph.
package graph

import "github.com/voxline/scriptflow/pkg/models"

// ReachableStates returns the set of state names reachable from start by
// following outgoing edges, including start itself. Traversal order does not
// affect the result set, so a plain worklist stack is used.
func ReachableStates(script *models.Script, start string) map[string]struct{} {
	reachable := make(map[string]struct{})
	worklist := []string{start}

	for len(worklist) > 0 {
		current := worklist[len(worklist)-1]
		worklist = worklist[:len(worklist)-1]

		if _, seen := reachable[current]; seen {
			continue
		}

		reachable[current] = struct{}{}

		for _, edge := range script.OutgoingEdges(current) {
			if _, seen := reachable[edge.ToState]; !seen {
				worklist = append(worklist, edge.ToState)
			}
		}
	}

	return reachable
}

// LongestPath returns the longest acyclic sequence of state names reachable
// from start, computed by depth-first search with per-state memoization.
// Back edges are skipped, so a cyclic graph yields the longest simple path
// along its spanning DAG rather than recursing forever. A state with no
// outgoing edges is its own longest path.
func LongestPath(script *models.Script, start string) []string {
	memo := make(map[string][]string)
	onStack := make(map[string]struct{})

	var dfs func(state string) []string
	dfs = func(state string) []string {
		if cached, ok := memo[state]; ok {
			return cached
		}

		best := []string{state}

		onStack[state] = struct{}{}

		for _, edge := range script.OutgoingEdges(state) {
			if _, visiting := onStack[edge.ToState]; visiting {
				continue
			}

			path := dfs(edge.ToState)
			if len(path)+1 > len(best) {
				best = append([]string{state}, path...)
			}
		}

		delete(onStack, state)

		memo[state] = best

		return best
	}

	return dfs(start)
}

// TerminalStates lists the names of all terminal-typed states.
func TerminalStates(script *models.Script) []string {
	var terminals []string

	for i := range script.States {
		if script.States[i].IsTerminal() {
			terminals = append(terminals, script.States[i].Name)
		}
	}

	return terminals
}

// DecisionStates lists the names of all decision-typed states.
func DecisionStates(script *models.Script) []string {
	var decisions []string

	for i := range script.States {
		if script.States[i].Type == models.StateTypeDecision {
			decisions = append(decisions, script.States[i].Name)
		}
	}

	return decisions
}
