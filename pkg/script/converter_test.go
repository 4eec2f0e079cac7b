package script

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/voxline/scriptflow/pkg/models"
)

func TestConvertToTemplateSinglePrompt(t *testing.T) {
	script := &models.Script{
		Name:          "faq",
		GeneralPrompt: "Answer questions.",
		States: []models.State{
			{Name: "answer", Type: models.StateTypeInformation, Prompt: "Answer the caller."},
		},
	}

	template := ConvertToTemplate(script)

	assert.Equal(t, models.StructureSingle, template.StructureType)
	assert.Equal(t, "answer", template.StartingState)
	require.Len(t, template.States, 1)
	assert.Empty(t, template.Edges)
}

func TestConvertToTemplateMultiPrompt(t *testing.T) {
	script := &models.Script{
		Name:          "booking",
		StartingState: "greet",
		GeneralTools:  []string{"transfer_call"},
		Sections: []models.ScriptSection{
			{Title: "Persona", Content: "Friendly and brief."},
		},
		States: []models.State{
			{Name: "greet", Type: models.StateTypeInitial, Prompt: "Greet.", Tools: []string{"check_calendar"}},
			{Name: "book", Type: models.StateTypeProcessing, Prompt: "Book.", Tools: []string{"check_calendar", "transfer_call"}},
			{Name: "bye", Type: models.StateTypeTerminal, Prompt: "Say goodbye."},
		},
		Edges: []models.Edge{
			{FromState: "greet", ToState: "book", Condition: &models.EdgeCondition{
				Type:     models.ConditionIntent,
				Value:    "schedule",
				Operator: models.OperatorEquals,
			}},
			{FromState: "book", ToState: "bye"},
		},
		Tools: []models.Tool{
			{Name: "check_calendar"},
			{Name: "transfer_call"},
		},
	}

	template := ConvertToTemplate(script)

	assert.Equal(t, models.StructureMulti, template.StructureType)
	assert.Equal(t, "greet", template.StartingState)
	assert.Len(t, template.Sections, 1)
	require.Len(t, template.States, 3)
	require.Len(t, template.Edges, 2)

	// State tools come first, general tools are appended, duplicates collapse.
	greet := template.StateInstructionByName("greet")
	require.NotNil(t, greet)
	assert.Equal(t, []string{"check_calendar", "transfer_call"}, greet.ReachableTools)

	book := template.StateInstructionByName("book")
	require.NotNil(t, book)
	assert.Equal(t, []string{"check_calendar", "transfer_call"}, book.ReachableTools)

	assert.Contains(t, template.Edges[0].Condition, "intent")
	assert.Contains(t, template.Edges[0].Condition, "schedule")
	assert.Empty(t, template.Edges[1].Condition)
}

func TestConvertToTemplateConditionDescriptions(t *testing.T) {
	entity := describeCondition(&models.EdgeCondition{
		Type:     models.ConditionEntityComplete,
		Value:    []any{"name", "time"},
		Operator: models.OperatorAllPresent,
	})
	assert.Contains(t, entity, "entity_complete")
	assert.Contains(t, entity, "all_present")

	window := describeCondition(&models.EdgeCondition{
		Type:     models.ConditionTimeRange,
		Value:    []any{"9:00", "17:00"},
		Operator: models.OperatorInRange,
	})
	assert.Contains(t, window, "[9:00, 17:00]")

	assert.Empty(t, describeCondition(nil))
}

func TestConvertToTemplateSurvivesSerializeReload(t *testing.T) {
	loader := newTestLoader(t)

	original, _, err := loader.Load([]byte(canonicalDocument))
	require.NoError(t, err)

	serialized, err := json.Marshal(original)
	require.NoError(t, err)

	reloaded, result, err := loader.Load(serialized)
	require.NoError(t, err)
	require.True(t, result.Valid)

	template := ConvertToTemplate(reloaded)

	require.Len(t, template.States, len(original.States))

	for i := range original.States {
		assert.Equal(t, original.States[i].Name, template.States[i].Name)
		assert.Equal(t, original.States[i].Prompt, template.States[i].Prompt)
	}

	require.Len(t, template.Edges, len(original.Edges))

	for i := range original.Edges {
		assert.Equal(t, original.Edges[i].FromState, template.Edges[i].FromState)
		assert.Equal(t, original.Edges[i].ToState, template.Edges[i].ToState)
	}

	assert.Equal(t, original.ResolveStartingState(), template.StartingState)
}
