package flow

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/voxline/scriptflow/pkg/extraction"
	"github.com/voxline/scriptflow/pkg/genai"
	"github.com/voxline/scriptflow/pkg/models"
	"github.com/voxline/scriptflow/pkg/template"
)

// fallbackReply is spoken when the generation layer fails. The turn still
// completes, but the session does not transition, so the caller can retry
// from the same state.
const fallbackReply = "I'm sorry, I'm having trouble responding right now. Could you repeat that?"

// TurnResult reports what one processed turn did to the session.
type TurnResult struct {
	SessionID     string `json:"session_id"`
	AgentOutput   string `json:"agent_output"`
	PreviousState string `json:"previous_state"`
	CurrentState  string `json:"current_state"`
	Transitioned  bool   `json:"transitioned"`
	Terminal      bool   `json:"terminal"`
	Degraded      bool   `json:"degraded,omitempty"`
}

// Executor runs single turns: generation, extraction, transition resolution.
// It mutates only the turn context it is handed; one Executor serves all
// sessions concurrently.
type Executor struct {
	resolver  *Resolver
	extractor extraction.Extractor
	generator genai.Generator
	logger    *slog.Logger
}

func NewExecutor(resolver *Resolver, extractor extraction.Extractor, generator genai.Generator, logger *slog.Logger) *Executor {
	return &Executor{
		resolver:  resolver,
		extractor: extractor,
		generator: generator,
		logger:    logger,
	}
}

// ProcessTurn advances the session by one exchange: generate first, then
// commit context mutations, then resolve the transition. The context is not
// touched until the generation outcome is known, so an abandoned request
// leaves the session exactly as it was. Extracted entities are merged before
// the transition is resolved, so a condition can be satisfied by the very
// input that completes it. A generation failure degrades the turn: the
// fallback reply is recorded and the session stays in its state.
func (e *Executor) ProcessTurn(ctx context.Context, script *models.Script, turnCtx *models.TurnContext, userInput string) (*TurnResult, error) {
	state := script.StateByName(turnCtx.CurrentState)
	if state == nil {
		return nil, fmt.Errorf("current state %q not found in script %q", turnCtx.CurrentState, script.Name)
	}

	reply, genErr := e.generator.Generate(ctx, e.composePrompt(script, state, turnCtx), userInput)
	if genErr != nil {
		e.logger.Error("Generation failed, degrading turn",
			"session_id", turnCtx.SessionID,
			"state", state.Name,
			"error", genErr)

		reply = fallbackReply
	}

	turnCtx.AppendTurn(userInput, reply)

	result := &TurnResult{
		SessionID:     turnCtx.SessionID,
		AgentOutput:   reply,
		PreviousState: state.Name,
		CurrentState:  state.Name,
	}

	if genErr != nil {
		result.Degraded = true
		result.Terminal = state.IsTerminal()

		return result, nil
	}

	turnCtx.MergeEntities(e.extractor.ExtractEntities(userInput))
	turnCtx.ReplaceIntents(e.extractor.DetectIntents(userInput))

	if edge := e.resolver.Resolve(script, turnCtx, userInput); edge != nil {
		turnCtx.CurrentState = edge.ToState
		result.CurrentState = edge.ToState
		result.Transitioned = true
	}

	if current := script.StateByName(result.CurrentState); current != nil {
		result.Terminal = current.IsTerminal()
	}

	return result, nil
}

// composePrompt assembles the system prompt for the current state: general
// prompt, sections, then the state instruction, with placeholders filled
// from the script's dynamic variables and the session's entities.
func (e *Executor) composePrompt(script *models.Script, state *models.State, turnCtx *models.TurnContext) string {
	var builder strings.Builder

	if script.GeneralPrompt != "" {
		builder.WriteString(script.GeneralPrompt)
		builder.WriteString("\n\n")
	}

	for _, section := range script.Sections {
		builder.WriteString("## ")
		builder.WriteString(section.Title)
		builder.WriteString("\n")
		builder.WriteString(section.Content)
		builder.WriteString("\n\n")
	}

	builder.WriteString(state.Prompt)

	return template.Render(builder.String(),
		template.Layer(script.DynamicVariables),
		template.Layer(turnCtx.Entities))
}
