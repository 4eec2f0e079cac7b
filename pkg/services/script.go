package services

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/voxline/scriptflow/pkg/export"
	"github.com/voxline/scriptflow/pkg/graph"
	"github.com/voxline/scriptflow/pkg/models"
	"github.com/voxline/scriptflow/pkg/persistence"
	"github.com/voxline/scriptflow/pkg/script"
	"github.com/voxline/scriptflow/pkg/validation"
)

// Export formats accepted by ExportScript.
const (
	FormatMermaid = "mermaid"
	FormatDOT     = "dot"
	FormatHTML    = "html"
)

// Script provides script management: registering documents, listing,
// exporting visualizations and converting to prompt templates. The
// persistence layer is optional; without it scripts live only in the
// registry.
type Script struct {
	loader   *script.Loader
	registry *script.Registry
	store    persistence.Persistence
	logger   *slog.Logger
}

func NewScript(loader *script.Loader, registry *script.Registry, store persistence.Persistence, logger *slog.Logger) *Script {
	return &Script{
		loader:   loader,
		registry: registry,
		store:    store,
		logger:   logger,
	}
}

// HealthCheck checks the health of the persistence layer.
func (s *Script) HealthCheck(ctx context.Context) (string, bool) {
	if s.store == nil {
		return "Persistence layer not configured", true
	}

	err := s.store.HealthCheck(ctx)
	if err != nil {
		return "Persistence layer is unhealthy: " + err.Error(), false
	}

	return "Persistence layer is healthy", true
}

// RegisterScript loads a raw document, installs it in the registry and, when
// a store is configured, persists it.
func (s *Script) RegisterScript(ctx context.Context, data []byte) (*models.Script, *validation.Result, error) {
	scr, result, err := s.loader.Load(data)
	if err != nil {
		return nil, result, err
	}

	s.registry.Install(scr)

	if s.store != nil {
		if err := s.store.SaveScript(ctx, scr); err != nil {
			return nil, result, fmt.Errorf("failed to persist script %s: %w", scr.Name, err)
		}
	}

	return scr, result, nil
}

// LintScript runs the advisory check pipeline without installing anything.
func (s *Script) LintScript(data []byte) (*validation.Result, error) {
	return s.loader.Lint(data)
}

// LoadDirectory registers every .json document found in dir. Documents that
// fail the load pipeline are skipped with a warning; the count of installed
// scripts is returned.
func (s *Script) LoadDirectory(ctx context.Context, dir string) (int, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return 0, fmt.Errorf("failed to read scripts directory %s: %w", dir, err)
	}

	loaded := 0

	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}

		path := filepath.Join(dir, entry.Name())

		data, err := os.ReadFile(path)
		if err != nil {
			return loaded, fmt.Errorf("failed to read %s: %w", path, err)
		}

		if _, _, err := s.RegisterScript(ctx, data); err != nil {
			s.logger.Warn("Skipping invalid script document", "path", path, "error", err)

			continue
		}

		loaded++
	}

	return loaded, nil
}

// RestoreFromStore installs every persisted script into the registry. Called
// at startup so registrations survive restarts.
func (s *Script) RestoreFromStore(ctx context.Context) (int, error) {
	if s.store == nil {
		return 0, nil
	}

	scripts, err := s.store.Scripts(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to restore scripts: %w", err)
	}

	for _, scr := range scripts {
		s.registry.Install(scr)
	}

	return len(scripts), nil
}

// ListScripts returns a summary per installed script.
func (s *Script) ListScripts() []script.Summary {
	return s.registry.Summaries()
}

// GetScript returns the installed script with the given name.
func (s *Script) GetScript(name string) (*models.Script, error) {
	if name == "" {
		return nil, ErrScriptNameRequired
	}

	return s.registry.Get(name)
}

// DeleteScript removes the script from the registry and the store.
func (s *Script) DeleteScript(ctx context.Context, name string) error {
	if err := s.registry.Remove(name); err != nil {
		return err
	}

	if s.store != nil {
		if err := s.store.DeleteScript(ctx, name); err != nil && !persistence.IsNotFound(err) {
			return fmt.Errorf("failed to delete persisted script %s: %w", name, err)
		}
	}

	return nil
}

// ExportScript renders the named script in the requested format.
func (s *Script) ExportScript(name, format string) (string, error) {
	scr, err := s.GetScript(name)
	if err != nil {
		return "", err
	}

	switch format {
	case FormatMermaid:
		return export.Mermaid(scr), nil
	case FormatDOT:
		return export.DOT(scr), nil
	case FormatHTML:
		return export.HTML(scr)
	default:
		return "", fmt.Errorf("%w: %s", ErrUnknownFormat, format)
	}
}

// TemplateForScript converts the named script into its prompt template.
func (s *Script) TemplateForScript(name string) (*models.PromptTemplate, error) {
	scr, err := s.GetScript(name)
	if err != nil {
		return nil, err
	}

	return script.ConvertToTemplate(scr), nil
}

// Analysis summarizes the graph structure of a script.
type Analysis struct {
	Name           string   `json:"name"`
	States         int      `json:"states"`
	Edges          int      `json:"edges"`
	TerminalStates []string `json:"terminal_states,omitempty"`
	DecisionStates []string `json:"decision_states,omitempty"`
	LongestPath    []string `json:"longest_path,omitempty"`
}

// AnalyzeScript computes the graph summary for the named script.
func (s *Script) AnalyzeScript(name string) (*Analysis, error) {
	scr, err := s.GetScript(name)
	if err != nil {
		return nil, err
	}

	analysis := &Analysis{
		Name:           scr.Name,
		States:         len(scr.States),
		Edges:          len(scr.Edges),
		TerminalStates: graph.TerminalStates(scr),
		DecisionStates: graph.DecisionStates(scr),
	}

	if start := scr.ResolveStartingState(); start != "" {
		analysis.LongestPath = graph.LongestPath(scr, start)
	}

	return analysis, nil
}
