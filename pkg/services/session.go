package services

import (
	"context"
	"log/slog"
	"strings"

	"github.com/voxline/scriptflow/pkg/flow"
	"github.com/voxline/scriptflow/pkg/models"
	"github.com/voxline/scriptflow/pkg/persistence"
)

// Session provides the conversational operations: starting flows, running
// turns, ending sessions and retrieving transcripts.
type Session struct {
	manager *flow.Manager
	store   persistence.Persistence
	logger  *slog.Logger
}

func NewSession(manager *flow.Manager, store persistence.Persistence, logger *slog.Logger) *Session {
	return &Session{
		manager: manager,
		store:   store,
		logger:  logger,
	}
}

// StartSession begins a flow on the named script.
func (s *Session) StartSession(ctx context.Context, scriptName string) (*flow.StartResult, error) {
	if scriptName == "" {
		return nil, ErrScriptNameRequired
	}

	return s.manager.StartFlow(ctx, scriptName)
}

// ResumeSession restores a session from its snapshot.
func (s *Session) ResumeSession(ctx context.Context, sessionID string) (*flow.StartResult, error) {
	if sessionID == "" {
		return nil, ErrInvalidRequest
	}

	return s.manager.ResumeFlow(ctx, sessionID)
}

// ProcessTurn runs one exchange on the session.
func (s *Session) ProcessTurn(ctx context.Context, sessionID, userInput string) (*flow.TurnResult, error) {
	if sessionID == "" {
		return nil, ErrInvalidRequest
	}

	if strings.TrimSpace(userInput) == "" {
		return nil, ErrEmptyUserInput
	}

	return s.manager.ProcessTurn(ctx, sessionID, userInput)
}

// EndSession finishes a session early and returns its transcript.
func (s *Session) EndSession(ctx context.Context, sessionID string) (*models.Transcript, error) {
	if sessionID == "" {
		return nil, ErrInvalidRequest
	}

	return s.manager.EndFlow(ctx, sessionID)
}

// SessionContext returns the current context of a live session.
func (s *Session) SessionContext(sessionID string) (*models.TurnContext, error) {
	if sessionID == "" {
		return nil, ErrInvalidRequest
	}

	return s.manager.SessionContext(sessionID)
}

// ActiveSessions returns the number of live sessions.
func (s *Session) ActiveSessions() int {
	return s.manager.ActiveSessions()
}

// Transcript returns the stored transcript of a finished session.
func (s *Session) Transcript(ctx context.Context, sessionID string) (*models.Transcript, error) {
	if sessionID == "" {
		return nil, ErrInvalidRequest
	}

	if s.store == nil {
		return nil, persistence.NewTranscriptError("Transcript", sessionID, persistence.ErrTranscriptNotFound)
	}

	return s.store.TranscriptBySession(ctx, sessionID)
}

// TranscriptsForScript lists stored transcripts for one script.
func (s *Session) TranscriptsForScript(ctx context.Context, scriptName string) ([]*models.Transcript, error) {
	if scriptName == "" {
		return nil, ErrScriptNameRequired
	}

	if s.store == nil {
		return nil, nil
	}

	return s.store.TranscriptsByScript(ctx, scriptName)
}
