package flow

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/voxline/scriptflow/pkg/eventbus"
	"github.com/voxline/scriptflow/pkg/events"
	"github.com/voxline/scriptflow/pkg/models"
	"github.com/voxline/scriptflow/pkg/otelhelper"
	"github.com/voxline/scriptflow/pkg/persistence"
	redisstore "github.com/voxline/scriptflow/pkg/persistence/redis"
	"github.com/voxline/scriptflow/pkg/script"
)

var (
	// ErrSessionNotFound indicates no active session exists under the ID.
	ErrSessionNotFound = errors.New("session not found")

	// ErrNoStartingState indicates the script cannot resolve an entry state.
	ErrNoStartingState = errors.New("script has no resolvable starting state")
)

// End reasons recorded on transcripts and flow.ended events.
const (
	EndReasonTerminal  = "terminal_state"
	EndReasonRequested = "requested"
)

// StartResult reports a newly started (or resumed) session.
type StartResult struct {
	SessionID    string `json:"session_id"`
	ScriptName   string `json:"script_name"`
	CurrentState string `json:"current_state"`
}

type session struct {
	mu      sync.Mutex
	script  *models.Script
	turnCtx *models.TurnContext
	ended   bool
}

// ManagerConfig wires a Manager. Registry, Executor and Logger are required;
// the event bus, snapshot store, transcript store and tracer are optional
// and skipped when nil.
type ManagerConfig struct {
	Registry  *script.Registry
	Executor  *Executor
	EventBus  eventbus.EventBus
	Snapshots *redisstore.SnapshotStore
	Store     persistence.Persistence
	Tracer    trace.Tracer
	Logger    *slog.Logger
}

// Manager owns the live sessions. Turns within one session are serialized;
// different sessions run concurrently.
type Manager struct {
	registry  *script.Registry
	executor  *Executor
	eventBus  eventbus.EventBus
	snapshots *redisstore.SnapshotStore
	store     persistence.Persistence
	tracer    trace.Tracer
	logger    *slog.Logger

	mu       sync.Mutex
	sessions map[string]*session
}

func NewManager(config ManagerConfig) *Manager {
	tracer := config.Tracer
	if tracer == nil {
		tracer = noop.NewTracerProvider().Tracer("scriptflow")
	}

	return &Manager{
		registry:  config.Registry,
		executor:  config.Executor,
		eventBus:  config.EventBus,
		snapshots: config.Snapshots,
		store:     config.Store,
		tracer:    tracer,
		logger:    config.Logger,
		sessions:  make(map[string]*session),
	}
}

// StartFlow begins a session on the named script at its starting state.
func (m *Manager) StartFlow(ctx context.Context, scriptName string) (*StartResult, error) {
	ctx, span := otelhelper.StartSpan(ctx, m.tracer, "flow.start",
		attribute.String(otelhelper.ScriptNameKey, scriptName))
	defer span.End()

	scr, err := m.registry.Get(scriptName)
	if err != nil {
		otelhelper.SetError(span, err)

		return nil, err
	}

	start := scr.ResolveStartingState()
	if start == "" {
		otelhelper.SetError(span, ErrNoStartingState)

		return nil, fmt.Errorf("%w: %s", ErrNoStartingState, scriptName)
	}

	sessionID := uuid.New().String()
	turnCtx := models.NewTurnContext(sessionID, scriptName, start)

	m.mu.Lock()
	m.sessions[sessionID] = &session{script: scr, turnCtx: turnCtx}
	m.mu.Unlock()

	span.SetAttributes(attribute.String(otelhelper.SessionIDKey, sessionID))

	m.publish(ctx, events.NewFlowStarted(sessionID, scriptName, start))
	m.snapshot(ctx, turnCtx)

	m.logger.Info("Flow started",
		"session_id", sessionID,
		"script", scriptName,
		"starting_state", start)

	return &StartResult{SessionID: sessionID, ScriptName: scriptName, CurrentState: start}, nil
}

// ResumeFlow restores a session from its snapshot after a restart.
func (m *Manager) ResumeFlow(ctx context.Context, sessionID string) (*StartResult, error) {
	if m.snapshots == nil {
		return nil, errors.New("no snapshot store configured")
	}

	turnCtx, err := m.snapshots.Load(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	scr, err := m.registry.Get(turnCtx.ScriptName)
	if err != nil {
		return nil, err
	}

	m.mu.Lock()
	m.sessions[sessionID] = &session{script: scr, turnCtx: turnCtx}
	m.mu.Unlock()

	m.logger.Info("Flow resumed",
		"session_id", sessionID,
		"script", turnCtx.ScriptName,
		"state", turnCtx.CurrentState)

	return &StartResult{
		SessionID:    sessionID,
		ScriptName:   turnCtx.ScriptName,
		CurrentState: turnCtx.CurrentState,
	}, nil
}

// ProcessTurn runs one exchange on the session. When the turn lands on a
// terminal state the session is finalized before returning; the result's
// Terminal flag tells the caller the flow is over.
func (m *Manager) ProcessTurn(ctx context.Context, sessionID, userInput string) (*TurnResult, error) {
	sess, err := m.session(sessionID)
	if err != nil {
		return nil, err
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()

	if sess.ended {
		return nil, fmt.Errorf("%w: %s", ErrSessionNotFound, sessionID)
	}

	ctx, span := otelhelper.StartSpan(ctx, m.tracer, "flow.turn",
		attribute.String(otelhelper.SessionIDKey, sessionID),
		attribute.String(otelhelper.ScriptNameKey, sess.turnCtx.ScriptName),
		attribute.String(otelhelper.StateNameKey, sess.turnCtx.CurrentState))
	defer span.End()

	result, err := m.executor.ProcessTurn(ctx, sess.script, sess.turnCtx, userInput)
	if err != nil {
		otelhelper.SetError(span, err)

		return nil, err
	}

	m.publish(ctx, events.NewTurnProcessed(sessionID, sess.turnCtx.ScriptName,
		result.PreviousState, userInput, result.AgentOutput, result.Transitioned))

	if result.Transitioned {
		span.SetAttributes(
			attribute.String(otelhelper.FromStateKey, result.PreviousState),
			attribute.String(otelhelper.ToStateKey, result.CurrentState))

		m.publish(ctx, events.NewStateTransitioned(sessionID, sess.turnCtx.ScriptName,
			result.PreviousState, result.CurrentState, result.Terminal))
	}

	if result.Terminal {
		m.finalize(ctx, sessionID, sess, EndReasonTerminal)
	} else {
		m.snapshot(ctx, sess.turnCtx)
	}

	return result, nil
}

// EndFlow finishes a session explicitly, before any terminal state.
func (m *Manager) EndFlow(ctx context.Context, sessionID string) (*models.Transcript, error) {
	sess, err := m.session(sessionID)
	if err != nil {
		return nil, err
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()

	if sess.ended {
		return nil, fmt.Errorf("%w: %s", ErrSessionNotFound, sessionID)
	}

	return m.finalize(ctx, sessionID, sess, EndReasonRequested), nil
}

// SessionContext returns a copy of the session's current context.
func (m *Manager) SessionContext(sessionID string) (*models.TurnContext, error) {
	sess, err := m.session(sessionID)
	if err != nil {
		return nil, err
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()

	snapshot := *sess.turnCtx

	return &snapshot, nil
}

// ActiveSessions returns the number of live sessions.
func (m *Manager) ActiveSessions() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	return len(m.sessions)
}

func (m *Manager) session(sessionID string) (*session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	sess, ok := m.sessions[sessionID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrSessionNotFound, sessionID)
	}

	return sess, nil
}

// finalize ends a session: transcript save, flow.ended event, snapshot
// cleanup. Caller holds the session lock.
func (m *Manager) finalize(ctx context.Context, sessionID string, sess *session, reason string) *models.Transcript {
	sess.ended = true

	m.mu.Lock()
	delete(m.sessions, sessionID)
	m.mu.Unlock()

	endedAt := time.Now().UTC()
	transcript := models.TranscriptFromContext(sess.turnCtx, reason, endedAt)

	if m.store != nil {
		if err := m.store.SaveTranscript(ctx, transcript); err != nil {
			m.logger.Error("Failed to save transcript", "session_id", sessionID, "error", err)
		}
	}

	m.publish(ctx, events.NewFlowEnded(sessionID, sess.turnCtx.ScriptName,
		sess.turnCtx.CurrentState, reason, len(sess.turnCtx.History), endedAt.Sub(sess.turnCtx.StartedAt)))

	if m.snapshots != nil {
		if err := m.snapshots.Delete(ctx, sessionID); err != nil {
			m.logger.Error("Failed to delete session snapshot", "session_id", sessionID, "error", err)
		}
	}

	m.logger.Info("Flow ended",
		"session_id", sessionID,
		"final_state", sess.turnCtx.CurrentState,
		"reason", reason,
		"turns", len(sess.turnCtx.History))

	return transcript
}

// publish sends a flow event, best effort: delivery failures are logged,
// never surfaced to the turn.
func (m *Manager) publish(ctx context.Context, event eventbus.Event) {
	if m.eventBus == nil {
		return
	}

	if err := m.eventBus.Publish(ctx, event); err != nil {
		m.logger.Error("Failed to publish event", "event_type", event.GetType(), "error", err)
	}
}

// snapshot persists the session context, best effort.
func (m *Manager) snapshot(ctx context.Context, turnCtx *models.TurnContext) {
	if m.snapshots == nil {
		return
	}

	if err := m.snapshots.Save(ctx, turnCtx); err != nil {
		m.logger.Error("Failed to snapshot session", "session_id", turnCtx.SessionID, "error", err)
	}
}
