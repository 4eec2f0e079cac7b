package graph_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/voxline/scriptflow/pkg/graph"
	"github.com/voxline/scriptflow/pkg/models"
)

func buildScript(t *testing.T, states []string, edges [][2]string) *models.Script {
	t.Helper()

	script := &models.Script{Name: "graph-test"}
	for _, name := range states {
		script.States = append(script.States, models.State{
			Name:   name,
			Type:   models.StateTypeInformation,
			Prompt: "p",
		})
	}

	for _, pair := range edges {
		script.Edges = append(script.Edges, models.Edge{FromState: pair[0], ToState: pair[1]})
	}

	script.BuildIndexes()

	return script
}

func TestReachableStates(t *testing.T) {
	script := buildScript(t,
		[]string{"a", "b", "c", "d", "island"},
		[][2]string{{"a", "b"}, {"b", "c"}, {"a", "c"}, {"c", "d"}},
	)

	reachable := graph.ReachableStates(script, "a")

	assert.Len(t, reachable, 4)
	assert.Contains(t, reachable, "a")
	assert.Contains(t, reachable, "d")
	assert.NotContains(t, reachable, "island")
}

func TestReachableStates_CycleTerminates(t *testing.T) {
	script := buildScript(t,
		[]string{"a", "b"},
		[][2]string{{"a", "b"}, {"b", "a"}},
	)

	reachable := graph.ReachableStates(script, "a")

	assert.Len(t, reachable, 2)
}

func TestReachableStates_IncludesStartOnly(t *testing.T) {
	script := buildScript(t, []string{"solo"}, nil)

	reachable := graph.ReachableStates(script, "solo")

	assert.Len(t, reachable, 1)
	assert.Contains(t, reachable, "solo")
}

func TestLongestPath(t *testing.T) {
	// Diamond with one long arm: a->b->c->d and the shortcut a->d.
	script := buildScript(t,
		[]string{"a", "b", "c", "d"},
		[][2]string{{"a", "b"}, {"b", "c"}, {"c", "d"}, {"a", "d"}},
	)

	path := graph.LongestPath(script, "a")

	assert.Equal(t, []string{"a", "b", "c", "d"}, path)
}

func TestLongestPath_CycleTerminates(t *testing.T) {
	// Two-state loop with an exit, the shape a retry edge produces.
	script := buildScript(t,
		[]string{"a", "b", "c"},
		[][2]string{{"a", "b"}, {"b", "a"}, {"b", "c"}},
	)

	path := graph.LongestPath(script, "a")

	assert.Equal(t, []string{"a", "b", "c"}, path)
}

func TestLongestPath_RetryLoopMidGraph(t *testing.T) {
	// Mirrors the appointment booking flow: collect and propose cycle until
	// the caller accepts, then the path continues to the end.
	script := buildScript(t,
		[]string{"greet", "collect", "propose", "book", "bye"},
		[][2]string{
			{"greet", "collect"},
			{"collect", "propose"},
			{"propose", "book"},
			{"propose", "collect"},
			{"book", "bye"},
		},
	)

	path := graph.LongestPath(script, "greet")

	assert.Equal(t, []string{"greet", "collect", "propose", "book", "bye"}, path)
}

func TestLongestPath_LeafIsItself(t *testing.T) {
	script := buildScript(t, []string{"leaf"}, nil)

	assert.Equal(t, []string{"leaf"}, graph.LongestPath(script, "leaf"))
}

func TestTerminalAndDecisionStates(t *testing.T) {
	script := &models.Script{
		States: []models.State{
			{Name: "start", Type: models.StateTypeInitial, Prompt: "p"},
			{Name: "choose", Type: models.StateTypeDecision, Prompt: "p"},
			{Name: "bye", Type: models.StateTypeTerminal, Prompt: "p"},
		},
	}
	script.BuildIndexes()

	require.Equal(t, []string{"bye"}, graph.TerminalStates(script))
	require.Equal(t, []string{"choose"}, graph.DecisionStates(script))
}
