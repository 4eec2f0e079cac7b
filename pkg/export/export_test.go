package export

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/voxline/scriptflow/pkg/models"
)

func exportScript() *models.Script {
	return &models.Script{
		Name:          "booking",
		Version:       "1.0",
		Description:   "Appointment booking flow.",
		StartingState: "greet",
		States: []models.State{
			{Name: "greet", Type: models.StateTypeInitial, Prompt: "Greet."},
			{Name: "decide", Type: models.StateTypeDecision, Prompt: "Decide."},
			{Name: "process", Type: models.StateTypeProcessing, Prompt: "Process."},
			{Name: "inform", Type: models.StateTypeInformation, Prompt: "Inform."},
			{Name: "bye", Type: models.StateTypeTerminal, Prompt: "Goodbye."},
		},
		Edges: []models.Edge{
			{FromState: "greet", ToState: "decide", Description: "caller responded"},
			{FromState: "decide", ToState: "process", Condition: &models.EdgeCondition{
				Type:  models.ConditionConfirmation,
				Value: true,
			}},
			{FromState: "process", ToState: "bye"},
		},
	}
}

func TestMermaidShapesPerStateType(t *testing.T) {
	chart := Mermaid(exportScript())

	assert.True(t, strings.HasPrefix(chart, "flowchart TD\n"))
	assert.Contains(t, chart, `greet(["greet"])`)
	assert.Contains(t, chart, `decide{{"decide"}}`)
	assert.Contains(t, chart, `process[["process"]]`)
	assert.Contains(t, chart, `inform["inform"]`)
	assert.Contains(t, chart, `bye[/"bye"/]`)
}

func TestMermaidEdgeLabels(t *testing.T) {
	chart := Mermaid(exportScript())

	assert.Contains(t, chart, "greet -->|caller responded| decide")
	assert.Contains(t, chart, "decide -->|confirmation| process")
	assert.Contains(t, chart, "process --> bye")
}

func TestDOTOutput(t *testing.T) {
	dot := DOT(exportScript())

	assert.True(t, strings.HasPrefix(dot, "digraph CallFlow {"))
	assert.True(t, strings.HasSuffix(strings.TrimSpace(dot), "}"))
	assert.Contains(t, dot, `"greet" [shape="oval", label="greet"];`)
	assert.Contains(t, dot, `"decide" [shape="diamond", label="decide"];`)
	assert.Contains(t, dot, `"process" [shape="box3d", label="process"];`)
	assert.Contains(t, dot, `"inform" [shape="box", label="inform"];`)
	assert.Contains(t, dot, `"bye" [shape="doublecircle", label="bye"];`)
	assert.Contains(t, dot, `"greet" -> "decide" [label="caller responded"];`)
	assert.Contains(t, dot, `"process" -> "bye";`)
}

func TestHTMLPage(t *testing.T) {
	page, err := HTML(exportScript())
	require.NoError(t, err)

	assert.Contains(t, page, "<title>booking - Script Flow Visualization</title>")
	assert.Contains(t, page, "mermaid.min.js")
	assert.Contains(t, page, "<td>greet</td>")
	assert.Contains(t, page, "<td>terminal</td>")
	assert.Contains(t, page, "<td>confirmation</td>")
}
