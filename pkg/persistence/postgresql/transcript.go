package postgresql

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/voxline/scriptflow/pkg/models"
	"github.com/voxline/scriptflow/pkg/persistence"
)

// TranscriptRepository stores finished-session transcripts, with the turn
// history and extracted entities as JSONB columns.
type TranscriptRepository struct {
	db     *sql.DB
	logger *slog.Logger
}

func NewTranscriptRepository(db *sql.DB, logger *slog.Logger) *TranscriptRepository {
	return &TranscriptRepository{db: db, logger: logger}
}

func (r *TranscriptRepository) Save(ctx context.Context, transcript *models.Transcript) error {
	turns, err := json.Marshal(transcript.Turns)
	if err != nil {
		return persistence.NewTranscriptError("Save", transcript.SessionID, err)
	}

	entities, err := json.Marshal(transcript.Entities)
	if err != nil {
		return persistence.NewTranscriptError("Save", transcript.SessionID, err)
	}

	query := `
		INSERT INTO transcripts (session_id, script_name, final_state, end_reason, turns, entities, started_at, ended_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (session_id) DO UPDATE
		SET final_state = EXCLUDED.final_state,
			end_reason = EXCLUDED.end_reason,
			turns = EXCLUDED.turns,
			entities = EXCLUDED.entities,
			ended_at = EXCLUDED.ended_at
	`

	_, err = r.db.ExecContext(ctx, query,
		transcript.SessionID,
		transcript.ScriptName,
		transcript.FinalState,
		transcript.EndReason,
		turns,
		entities,
		transcript.StartedAt,
		transcript.EndedAt,
	)
	if err != nil {
		return persistence.NewTranscriptError("Save", transcript.SessionID, err)
	}

	return nil
}

func (r *TranscriptRepository) GetBySession(ctx context.Context, sessionID string) (*models.Transcript, error) {
	query := `
		SELECT session_id, script_name, final_state, COALESCE(end_reason, ''), turns, entities, started_at, ended_at
		FROM transcripts
		WHERE session_id = $1
	`

	transcript, err := scanTranscript(r.db.QueryRowContext(ctx, query, sessionID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, persistence.NewTranscriptError("GetBySession", sessionID, persistence.ErrTranscriptNotFound)
		}

		return nil, persistence.NewTranscriptError("GetBySession", sessionID, err)
	}

	return transcript, nil
}

func (r *TranscriptRepository) GetByScript(ctx context.Context, scriptName string) ([]*models.Transcript, error) {
	query := `
		SELECT session_id, script_name, final_state, COALESCE(end_reason, ''), turns, entities, started_at, ended_at
		FROM transcripts
		WHERE script_name = $1
		ORDER BY ended_at
	`

	rows, err := r.db.QueryContext(ctx, query, scriptName)
	if err != nil {
		return nil, fmt.Errorf("failed to query transcripts: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var transcripts []*models.Transcript

	for rows.Next() {
		transcript, err := scanTranscript(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan transcript row: %w", err)
		}

		transcripts = append(transcripts, transcript)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate transcript rows: %w", err)
	}

	return transcripts, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTranscript(row rowScanner) (*models.Transcript, error) {
	var (
		transcript models.Transcript
		turns      []byte
		entities   []byte
	)

	err := row.Scan(
		&transcript.SessionID,
		&transcript.ScriptName,
		&transcript.FinalState,
		&transcript.EndReason,
		&turns,
		&entities,
		&transcript.StartedAt,
		&transcript.EndedAt,
	)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal(turns, &transcript.Turns); err != nil {
		return nil, fmt.Errorf("failed to decode turns: %w", err)
	}

	if err := json.Unmarshal(entities, &transcript.Entities); err != nil {
		return nil, fmt.Errorf("failed to decode entities: %w", err)
	}

	return &transcript, nil
}
