package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/voxline/scriptflow/pkg/conditions"
	"github.com/voxline/scriptflow/pkg/extraction"
	"github.com/voxline/scriptflow/pkg/flow"
	"github.com/voxline/scriptflow/pkg/genai"
	"github.com/voxline/scriptflow/pkg/log"
	"github.com/voxline/scriptflow/pkg/models"
	"github.com/voxline/scriptflow/pkg/persistence"
	"github.com/voxline/scriptflow/pkg/persistence/file"
	"github.com/voxline/scriptflow/pkg/script"
)

func newSessionService(t *testing.T) *Session {
	t.Helper()

	logger := log.WithModule("session-service-test")

	registry := script.NewRegistry()

	linear := &models.Script{
		Name:          "linear",
		StartingState: "a",
		States: []models.State{
			{Name: "a", Type: models.StateTypeInitial, Prompt: "A."},
			{Name: "b", Type: models.StateTypeTerminal, Prompt: "B."},
		},
		Edges: []models.Edge{
			{FromState: "a", ToState: "b"},
		},
	}
	linear.BuildIndexes()
	registry.Install(linear)

	store := file.NewPersistence(t.TempDir())

	resolver := flow.NewResolver(conditions.NewEvaluator(logger), logger)
	executor := flow.NewExecutor(resolver, extraction.NewKeywordExtractor(), &genai.StaticGenerator{Reply: "ok"}, logger)

	manager := flow.NewManager(flow.ManagerConfig{
		Registry: registry,
		Executor: executor,
		Store:    store,
		Logger:   logger,
	})

	return NewSession(manager, store, logger)
}

func TestSessionServiceLifecycle(t *testing.T) {
	ctx := context.Background()
	service := newSessionService(t)

	start, err := service.StartSession(ctx, "linear")
	require.NoError(t, err)
	assert.Equal(t, 1, service.ActiveSessions())

	turn, err := service.ProcessTurn(ctx, start.SessionID, "hello")
	require.NoError(t, err)
	assert.True(t, turn.Terminal)
	assert.Equal(t, 0, service.ActiveSessions())

	transcript, err := service.Transcript(ctx, start.SessionID)
	require.NoError(t, err)
	assert.Equal(t, "b", transcript.FinalState)

	transcripts, err := service.TranscriptsForScript(ctx, "linear")
	require.NoError(t, err)
	assert.Len(t, transcripts, 1)
}

func TestSessionServiceValidation(t *testing.T) {
	ctx := context.Background()
	service := newSessionService(t)

	_, err := service.StartSession(ctx, "")
	assert.ErrorIs(t, err, ErrScriptNameRequired)

	_, err = service.ProcessTurn(ctx, "", "hello")
	assert.ErrorIs(t, err, ErrInvalidRequest)

	start, err := service.StartSession(ctx, "linear")
	require.NoError(t, err)

	_, err = service.ProcessTurn(ctx, start.SessionID, "   ")
	assert.ErrorIs(t, err, ErrEmptyUserInput)
}

func TestSessionServiceEndSession(t *testing.T) {
	ctx := context.Background()
	service := newSessionService(t)

	start, err := service.StartSession(ctx, "linear")
	require.NoError(t, err)

	transcript, err := service.EndSession(ctx, start.SessionID)
	require.NoError(t, err)
	assert.Equal(t, flow.EndReasonRequested, transcript.EndReason)

	_, err = service.EndSession(ctx, start.SessionID)
	assert.True(t, IsNotFoundError(err))
}

func TestSessionServiceUnknownScript(t *testing.T) {
	service := newSessionService(t)

	_, err := service.StartSession(context.Background(), "ghost")
	assert.True(t, IsNotFoundError(err))
}

func TestSessionServiceTranscriptNotFound(t *testing.T) {
	service := newSessionService(t)

	_, err := service.Transcript(context.Background(), "missing")
	assert.ErrorIs(t, err, persistence.ErrTranscriptNotFound)
}
