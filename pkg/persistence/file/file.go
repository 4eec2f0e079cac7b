// Package file provides file-based persistence for script documents and
// transcripts, suitable for local development and tests.
package file

import (
	"context"
	"os"
	"strings"

	"github.com/voxline/scriptflow/pkg/models"
	"github.com/voxline/scriptflow/pkg/persistence"
)

// Persistence implements persistence.Persistence using the file system. Each
// script and transcript is one JSON file under the root directory.
type Persistence struct {
	root           string
	scriptRepo     *ScriptRepository
	transcriptRepo *TranscriptRepository
}

// NewPersistence creates a file persistence layer rooted at the given
// directory. Accepts plain paths and file:// URLs.
func NewPersistence(root string) persistence.Persistence {
	cleanRoot := strings.Replace(root, "file://", "", 1)

	return &Persistence{
		root:           cleanRoot,
		scriptRepo:     NewScriptRepository(cleanRoot),
		transcriptRepo: NewTranscriptRepository(cleanRoot),
	}
}

// Close performs any necessary cleanup. For file persistence there is
// nothing to clean up.
func (fp *Persistence) Close(_ context.Context) error {
	return nil
}

// HealthCheck verifies the root directory exists.
func (fp *Persistence) HealthCheck(_ context.Context) error {
	if _, err := os.Stat(fp.root); os.IsNotExist(err) {
		return os.ErrNotExist
	}

	return nil
}

func (fp *Persistence) Scripts(ctx context.Context) ([]*models.Script, error) {
	return fp.scriptRepo.GetAll(ctx)
}

func (fp *Persistence) SaveScript(ctx context.Context, script *models.Script) error {
	return fp.scriptRepo.Save(ctx, script)
}

func (fp *Persistence) ScriptByName(ctx context.Context, name string) (*models.Script, error) {
	return fp.scriptRepo.GetByName(ctx, name)
}

func (fp *Persistence) DeleteScript(ctx context.Context, name string) error {
	return fp.scriptRepo.Delete(ctx, name)
}

func (fp *Persistence) SaveTranscript(ctx context.Context, transcript *models.Transcript) error {
	return fp.transcriptRepo.Save(ctx, transcript)
}

func (fp *Persistence) TranscriptBySession(ctx context.Context, sessionID string) (*models.Transcript, error) {
	return fp.transcriptRepo.GetBySession(ctx, sessionID)
}

func (fp *Persistence) TranscriptsByScript(ctx context.Context, scriptName string) ([]*models.Transcript, error) {
	return fp.transcriptRepo.GetByScript(ctx, scriptName)
}
