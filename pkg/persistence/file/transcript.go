package file

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/voxline/scriptflow/pkg/models"
	"github.com/voxline/scriptflow/pkg/persistence"
)

// TranscriptRepository stores one JSON document per finished session under
// <root>/transcripts/.
type TranscriptRepository struct {
	dir string
}

func NewTranscriptRepository(root string) *TranscriptRepository {
	return &TranscriptRepository{dir: filepath.Join(root, "transcripts")}
}

func (r *TranscriptRepository) path(sessionID string) string {
	return filepath.Join(r.dir, unsafeNameChars.ReplaceAllString(sessionID, "_")+".json")
}

func (r *TranscriptRepository) Save(_ context.Context, transcript *models.Transcript) error {
	if err := os.MkdirAll(r.dir, 0o755); err != nil {
		return persistence.NewTranscriptError("Save", transcript.SessionID, err)
	}

	data, err := json.MarshalIndent(transcript, "", "  ")
	if err != nil {
		return persistence.NewTranscriptError("Save", transcript.SessionID, err)
	}

	if err := os.WriteFile(r.path(transcript.SessionID), data, 0o644); err != nil {
		return persistence.NewTranscriptError("Save", transcript.SessionID, err)
	}

	return nil
}

func (r *TranscriptRepository) GetBySession(_ context.Context, sessionID string) (*models.Transcript, error) {
	data, err := os.ReadFile(r.path(sessionID))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, persistence.NewTranscriptError("GetBySession", sessionID, persistence.ErrTranscriptNotFound)
		}

		return nil, persistence.NewTranscriptError("GetBySession", sessionID, err)
	}

	var transcript models.Transcript
	if err := json.Unmarshal(data, &transcript); err != nil {
		return nil, persistence.NewTranscriptError("GetBySession", sessionID, err)
	}

	return &transcript, nil
}

func (r *TranscriptRepository) GetByScript(_ context.Context, scriptName string) ([]*models.Transcript, error) {
	entries, err := os.ReadDir(r.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}

		return nil, fmt.Errorf("failed to list transcripts directory: %w", err)
	}

	var transcripts []*models.Transcript

	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}

		data, err := os.ReadFile(filepath.Join(r.dir, entry.Name()))
		if err != nil {
			return nil, fmt.Errorf("failed to read transcript file %s: %w", entry.Name(), err)
		}

		var transcript models.Transcript
		if err := json.Unmarshal(data, &transcript); err != nil {
			return nil, fmt.Errorf("failed to decode transcript file %s: %w", entry.Name(), err)
		}

		if transcript.ScriptName == scriptName {
			transcripts = append(transcripts, &transcript)
		}
	}

	sort.Slice(transcripts, func(i, j int) bool {
		return transcripts[i].EndedAt.Before(transcripts[j].EndedAt)
	})

	return transcripts, nil
}
