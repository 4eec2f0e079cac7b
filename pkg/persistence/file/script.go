package file

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/voxline/scriptflow/pkg/models"
	"github.com/voxline/scriptflow/pkg/persistence"
)

// unsafeNameChars matches everything that must not appear in a file name
// derived from a script name.
var unsafeNameChars = regexp.MustCompile(`[^a-zA-Z0-9._-]`)

// ScriptRepository stores one JSON document per script under
// <root>/scripts/.
type ScriptRepository struct {
	dir string
}

func NewScriptRepository(root string) *ScriptRepository {
	return &ScriptRepository{dir: filepath.Join(root, "scripts")}
}

func (r *ScriptRepository) path(name string) string {
	return filepath.Join(r.dir, unsafeNameChars.ReplaceAllString(name, "_")+".json")
}

func (r *ScriptRepository) Save(_ context.Context, script *models.Script) error {
	if err := os.MkdirAll(r.dir, 0o755); err != nil {
		return persistence.NewScriptError("Save", script.Name, err)
	}

	data, err := json.MarshalIndent(script, "", "  ")
	if err != nil {
		return persistence.NewScriptError("Save", script.Name, err)
	}

	if err := os.WriteFile(r.path(script.Name), data, 0o644); err != nil {
		return persistence.NewScriptError("Save", script.Name, err)
	}

	return nil
}

func (r *ScriptRepository) GetByName(_ context.Context, name string) (*models.Script, error) {
	data, err := os.ReadFile(r.path(name))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, persistence.NewScriptError("GetByName", name, persistence.ErrScriptNotFound)
		}

		return nil, persistence.NewScriptError("GetByName", name, err)
	}

	var script models.Script
	if err := json.Unmarshal(data, &script); err != nil {
		return nil, persistence.NewScriptError("GetByName", name, err)
	}

	script.BuildIndexes()

	return &script, nil
}

func (r *ScriptRepository) GetAll(_ context.Context) ([]*models.Script, error) {
	entries, err := os.ReadDir(r.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}

		return nil, fmt.Errorf("failed to list scripts directory: %w", err)
	}

	var scripts []*models.Script

	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}

		data, err := os.ReadFile(filepath.Join(r.dir, entry.Name()))
		if err != nil {
			return nil, fmt.Errorf("failed to read script file %s: %w", entry.Name(), err)
		}

		var script models.Script
		if err := json.Unmarshal(data, &script); err != nil {
			return nil, fmt.Errorf("failed to decode script file %s: %w", entry.Name(), err)
		}

		script.BuildIndexes()
		scripts = append(scripts, &script)
	}

	sort.Slice(scripts, func(i, j int) bool { return scripts[i].Name < scripts[j].Name })

	return scripts, nil
}

func (r *ScriptRepository) Delete(_ context.Context, name string) error {
	err := os.Remove(r.path(name))
	if err != nil {
		if os.IsNotExist(err) {
			return persistence.NewScriptError("Delete", name, persistence.ErrScriptNotFound)
		}

		return persistence.NewScriptError("Delete", name, err)
	}

	return nil
}
