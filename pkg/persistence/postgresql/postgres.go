// Package postgresql provides the PostgreSQL persistence backend for script
// documents and session transcripts.
package postgresql

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	// Registers the postgres driver.
	_ "github.com/lib/pq"

	"github.com/voxline/scriptflow/pkg/models"
	"github.com/voxline/scriptflow/pkg/persistence/sqlbase"
)

// Persistence implements the persistence layer for PostgreSQL.
type Persistence struct {
	db             *sql.DB
	logger         *slog.Logger
	scriptRepo     *ScriptRepository
	transcriptRepo *TranscriptRepository
}

// NewPersistence connects, runs migrations and returns a ready persistence
// layer.
func NewPersistence(ctx context.Context, logger *slog.Logger, databaseURL string) (*Persistence, error) {
	database, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to PostgreSQL database: %w", err)
	}

	err = database.PingContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	migrationManager := sqlbase.NewMigrationManager(logger, database, migrations())

	err = migrationManager.RunMigrations(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return &Persistence{
		db:             database,
		logger:         logger,
		scriptRepo:     NewScriptRepository(database, logger),
		transcriptRepo: NewTranscriptRepository(database, logger),
	}, nil
}

// Close closes the database connection.
func (p *Persistence) Close(_ context.Context) error {
	if p.db != nil {
		err := p.db.Close()
		if err != nil {
			return fmt.Errorf("failed to close database connection: %w", err)
		}
	}

	return nil
}

// HealthCheck verifies the database connection is healthy.
func (p *Persistence) HealthCheck(ctx context.Context) error {
	err := p.db.PingContext(ctx)
	if err != nil {
		return fmt.Errorf("failed to ping database: %w", err)
	}

	return nil
}

func (p *Persistence) Scripts(ctx context.Context) ([]*models.Script, error) {
	return p.scriptRepo.GetAll(ctx)
}

func (p *Persistence) SaveScript(ctx context.Context, script *models.Script) error {
	return p.scriptRepo.Save(ctx, script)
}

func (p *Persistence) ScriptByName(ctx context.Context, name string) (*models.Script, error) {
	return p.scriptRepo.GetByName(ctx, name)
}

func (p *Persistence) DeleteScript(ctx context.Context, name string) error {
	return p.scriptRepo.Delete(ctx, name)
}

func (p *Persistence) SaveTranscript(ctx context.Context, transcript *models.Transcript) error {
	return p.transcriptRepo.Save(ctx, transcript)
}

func (p *Persistence) TranscriptBySession(ctx context.Context, sessionID string) (*models.Transcript, error) {
	return p.transcriptRepo.GetBySession(ctx, sessionID)
}

func (p *Persistence) TranscriptsByScript(ctx context.Context, scriptName string) ([]*models.Transcript, error) {
	return p.transcriptRepo.GetByScript(ctx, scriptName)
}

// migrations returns the schema migrations, keyed by version.
func migrations() map[int]string {
	return map[int]string{
		1: `
			CREATE TABLE IF NOT EXISTS scripts (
				name TEXT PRIMARY KEY,
				version TEXT NOT NULL DEFAULT '1.0',
				document JSONB NOT NULL,
				created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
				updated_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
			);

			CREATE TABLE IF NOT EXISTS transcripts (
				session_id TEXT PRIMARY KEY,
				script_name TEXT NOT NULL,
				final_state TEXT NOT NULL,
				end_reason TEXT,
				turns JSONB NOT NULL DEFAULT '[]'::jsonb,
				entities JSONB NOT NULL DEFAULT '{}'::jsonb,
				started_at TIMESTAMP WITH TIME ZONE NOT NULL,
				ended_at TIMESTAMP WITH TIME ZONE NOT NULL
			);

			CREATE INDEX IF NOT EXISTS idx_transcripts_script_name ON transcripts (script_name);
		`,
	}
}
