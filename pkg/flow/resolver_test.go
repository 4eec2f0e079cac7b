package flow

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/voxline/scriptflow/pkg/conditions"
	"github.com/voxline/scriptflow/pkg/log"
	"github.com/voxline/scriptflow/pkg/models"
)

func newTestResolver() *Resolver {
	logger := log.WithModule("resolver-test")

	return NewResolver(conditions.NewEvaluator(logger), logger)
}

func resolverScript(edges []models.Edge) *models.Script {
	script := &models.Script{
		Name:          "resolver-fixture",
		StartingState: "a",
		States: []models.State{
			{Name: "a", Type: models.StateTypeInitial, Prompt: "A."},
			{Name: "b", Type: models.StateTypeInformation, Prompt: "B."},
			{Name: "c", Type: models.StateTypeTerminal, Prompt: "C."},
		},
		Edges: edges,
	}
	script.BuildIndexes()

	return script
}

func TestResolverNoEdges(t *testing.T) {
	script := resolverScript(nil)
	turnCtx := models.NewTurnContext("s", script.Name, "a")

	assert.Nil(t, newTestResolver().Resolve(script, turnCtx, "anything"))
}

func TestResolverSingleUnconditionalEdge(t *testing.T) {
	script := resolverScript([]models.Edge{
		{FromState: "a", ToState: "b"},
	})
	turnCtx := models.NewTurnContext("s", script.Name, "a")

	edge := newTestResolver().Resolve(script, turnCtx, "anything")
	require.NotNil(t, edge)
	assert.Equal(t, "b", edge.ToState)
}

func TestResolverConditionedBeatsUnconditional(t *testing.T) {
	// The unconditional edge is declared first, but a satisfied condition
	// still wins.
	script := resolverScript([]models.Edge{
		{FromState: "a", ToState: "b"},
		{FromState: "a", ToState: "c", Condition: &models.EdgeCondition{
			Type:  models.ConditionConfirmation,
			Value: true,
		}},
	})
	turnCtx := models.NewTurnContext("s", script.Name, "a")

	edge := newTestResolver().Resolve(script, turnCtx, "yes please")
	require.NotNil(t, edge)
	assert.Equal(t, "c", edge.ToState)
}

func TestResolverFallsBackToUnconditional(t *testing.T) {
	script := resolverScript([]models.Edge{
		{FromState: "a", ToState: "c", Condition: &models.EdgeCondition{
			Type:  models.ConditionConfirmation,
			Value: true,
		}},
		{FromState: "a", ToState: "b"},
	})
	turnCtx := models.NewTurnContext("s", script.Name, "a")

	edge := newTestResolver().Resolve(script, turnCtx, "hmm let me think")
	require.NotNil(t, edge)
	assert.Equal(t, "b", edge.ToState)
}

func TestResolverDeclarationOrderBreaksTies(t *testing.T) {
	// Both conditions hold; the first declared edge wins.
	script := resolverScript([]models.Edge{
		{FromState: "a", ToState: "b", Condition: &models.EdgeCondition{
			Type:  models.ConditionConfirmation,
			Value: true,
		}},
		{FromState: "a", ToState: "c", Condition: &models.EdgeCondition{
			Type:  models.ConditionSentiment,
			Value: true,
		}},
	})
	turnCtx := models.NewTurnContext("s", script.Name, "a")

	edge := newTestResolver().Resolve(script, turnCtx, "yes that is great")
	require.NotNil(t, edge)
	assert.Equal(t, "b", edge.ToState)
}

func TestResolverNoConditionNoFallbackStaysPut(t *testing.T) {
	script := resolverScript([]models.Edge{
		{FromState: "a", ToState: "c", Condition: &models.EdgeCondition{
			Type:  models.ConditionConfirmation,
			Value: true,
		}},
	})
	turnCtx := models.NewTurnContext("s", script.Name, "a")

	assert.Nil(t, newTestResolver().Resolve(script, turnCtx, "maybe later"))
}

func TestResolverEntityCompleteUsesAccumulatedContext(t *testing.T) {
	script := resolverScript([]models.Edge{
		{FromState: "a", ToState: "b", Condition: &models.EdgeCondition{
			Type:     models.ConditionEntityComplete,
			Value:    []any{"name", "time"},
			Operator: models.OperatorAllPresent,
		}},
	})

	turnCtx := models.NewTurnContext("s", script.Name, "a")
	turnCtx.MergeEntities(map[string]string{"name": "Jordan"})

	resolver := newTestResolver()
	assert.Nil(t, resolver.Resolve(script, turnCtx, "whenever"))

	turnCtx.MergeEntities(map[string]string{"time": "3:00 PM"})

	edge := resolver.Resolve(script, turnCtx, "whenever")
	require.NotNil(t, edge)
	assert.Equal(t, "b", edge.ToState)
}

func TestResolverDeterministic(t *testing.T) {
	script := resolverScript([]models.Edge{
		{FromState: "a", ToState: "b", Condition: &models.EdgeCondition{
			Type:  models.ConditionConfirmation,
			Value: true,
		}},
		{FromState: "a", ToState: "c"},
	})

	resolver := newTestResolver()

	for range 50 {
		turnCtx := models.NewTurnContext("s", script.Name, "a")

		edge := resolver.Resolve(script, turnCtx, "yes")
		require.NotNil(t, edge)
		assert.Equal(t, "b", edge.ToState)
	}
}
