// Package persistence provides the storage abstraction for script documents
// and session transcripts.
package persistence

import (
	"context"

	"github.com/voxline/scriptflow/pkg/models"
)

type Persistence interface {
	Scripts(ctx context.Context) ([]*models.Script, error)
	SaveScript(ctx context.Context, script *models.Script) error
	ScriptByName(ctx context.Context, name string) (*models.Script, error)
	DeleteScript(ctx context.Context, name string) error

	SaveTranscript(ctx context.Context, transcript *models.Transcript) error
	TranscriptBySession(ctx context.Context, sessionID string) (*models.Transcript, error)
	TranscriptsByScript(ctx context.Context, scriptName string) ([]*models.Transcript, error)

	HealthCheck(ctx context.Context) error
	Close(ctx context.Context) error
}
