package script

import (
	"fmt"

	"github.com/voxline/scriptflow/pkg/models"
)

// ConvertToTemplate flattens a validated script into the declarative prompt
// template shape consumed by the generation layer. Single-state scripts
// produce a single-prompt template; everything else becomes a multi-prompt
// template with per-state instructions and edge descriptions.
func ConvertToTemplate(script *models.Script) *models.PromptTemplate {
	template := &models.PromptTemplate{
		Name:             script.Name,
		Sections:         script.Sections,
		GeneralPrompt:    script.GeneralPrompt,
		GeneralTools:     script.GeneralTools,
		StartingState:    script.ResolveStartingState(),
		DynamicVariables: script.DynamicVariables,
	}

	if len(script.States) <= 1 && len(script.Edges) == 0 {
		template.StructureType = models.StructureSingle

		if len(script.States) == 1 {
			template.States = []models.StateInstruction{stateInstruction(script, &script.States[0])}
		}

		return template
	}

	template.StructureType = models.StructureMulti

	template.States = make([]models.StateInstruction, 0, len(script.States))
	for i := range script.States {
		template.States = append(template.States, stateInstruction(script, &script.States[i]))
	}

	template.Edges = make([]models.TemplateEdge, 0, len(script.Edges))
	for i := range script.Edges {
		edge := &script.Edges[i]

		template.Edges = append(template.Edges, models.TemplateEdge{
			FromState:   edge.FromState,
			ToState:     edge.ToState,
			Condition:   describeCondition(edge.Condition),
			Description: edge.Description,
		})
	}

	return template
}

// stateInstruction builds the per-state template slice. Reachable tools are
// the state's own tools plus the general tools, deduplicated in that order.
func stateInstruction(script *models.Script, state *models.State) models.StateInstruction {
	seen := make(map[string]struct{}, len(state.Tools)+len(script.GeneralTools))

	var reachable []string

	for _, name := range state.Tools {
		if _, dup := seen[name]; dup {
			continue
		}

		seen[name] = struct{}{}
		reachable = append(reachable, name)
	}

	for _, name := range script.GeneralTools {
		if _, dup := seen[name]; dup {
			continue
		}

		seen[name] = struct{}{}
		reachable = append(reachable, name)
	}

	return models.StateInstruction{
		Name:           state.Name,
		Prompt:         state.Prompt,
		ReachableTools: reachable,
		Description:    state.Description,
	}
}

// describeCondition renders an edge condition as the short human-readable
// form used in template edge listings.
func describeCondition(condition *models.EdgeCondition) string {
	if condition == nil {
		return ""
	}

	switch condition.Type {
	case models.ConditionEntityComplete:
		return fmt.Sprintf("%s %v %s", condition.Type, condition.EntityNames(), condition.EffectiveOperator())
	case models.ConditionTimeRange:
		start, end, ok := condition.RangeValue()
		if ok {
			return fmt.Sprintf("%s [%s, %s] %s", condition.Type, start, end, condition.EffectiveOperator())
		}
	}

	return fmt.Sprintf("%s %v %s", condition.Type, condition.Value, condition.EffectiveOperator())
}
