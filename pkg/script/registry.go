package script

import (
	"fmt"
	"sort"
	"sync"

	"github.com/voxline/scriptflow/pkg/models"
)

// ErrScriptNotFound is returned by Registry.Get for unknown script names.
var ErrScriptNotFound = fmt.Errorf("script not found")

// Summary is the listing view of an installed script.
type Summary struct {
	Name        string `json:"name"`
	Version     string `json:"version"`
	Description string `json:"description,omitempty"`
	States      int    `json:"states"`
	Edges       int    `json:"edges"`
}

// Registry holds the installed scripts, keyed by name. Scripts are immutable
// after Install, so Get hands out the shared pointer; concurrent sessions read
// the same script without copying.
type Registry struct {
	mu      sync.RWMutex
	scripts map[string]*models.Script
}

func NewRegistry() *Registry {
	return &Registry{scripts: make(map[string]*models.Script)}
}

// Install registers a loaded script under its name, replacing any previous
// version. Sessions already holding the old pointer keep it until they end.
func (r *Registry) Install(script *models.Script) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.scripts[script.Name] = script
}

// Get returns the installed script with the given name.
func (r *Registry) Get(name string) (*models.Script, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	script, ok := r.scripts[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrScriptNotFound, name)
	}

	return script, nil
}

// Remove uninstalls a script. Returns ErrScriptNotFound if it was not
// installed.
func (r *Registry) Remove(name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.scripts[name]; !ok {
		return fmt.Errorf("%w: %s", ErrScriptNotFound, name)
	}

	delete(r.scripts, name)

	return nil
}

// Names returns the installed script names, sorted.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.scripts))
	for name := range r.scripts {
		names = append(names, name)
	}

	sort.Strings(names)

	return names
}

// Summaries returns a listing entry per installed script, sorted by name.
func (r *Registry) Summaries() []Summary {
	r.mu.RLock()
	defer r.mu.RUnlock()

	summaries := make([]Summary, 0, len(r.scripts))
	for _, script := range r.scripts {
		summaries = append(summaries, Summary{
			Name:        script.Name,
			Version:     script.Version,
			Description: script.Description,
			States:      len(script.States),
			Edges:       len(script.Edges),
		})
	}

	sort.Slice(summaries, func(i, j int) bool { return summaries[i].Name < summaries[j].Name })

	return summaries
}
