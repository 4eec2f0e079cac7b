package script

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/voxline/scriptflow/pkg/models"
)

const canonicalDocument = `{
	"name": "appointment",
	"version": "2.1",
	"starting_state": "greeting",
	"general_prompt": "You are a scheduling assistant.",
	"states": [
		{"name": "greeting", "type": "initial", "prompt": "Greet the caller."},
		{"name": "collect", "type": "information", "prompt": "Collect the details.", "tools": ["check_calendar"]},
		{"name": "done", "type": "terminal", "prompt": "Say goodbye."}
	],
	"edges": [
		{"from_state": "greeting", "to_state": "collect"},
		{"from_state": "collect", "to_state": "done", "condition": {"type": "entity_complete", "value": ["name", "time"], "operator": "all_present"}}
	],
	"tools": [
		{"name": "check_calendar", "description": "Look up free slots."}
	]
}`

func newTestLoader(t *testing.T) *Loader {
	t.Helper()

	loader, err := NewLoader()
	require.NoError(t, err)

	return loader
}

func TestLoaderLoadCanonicalDocument(t *testing.T) {
	loader := newTestLoader(t)

	script, result, err := loader.Load([]byte(canonicalDocument))
	require.NoError(t, err)
	require.NotNil(t, script)

	assert.True(t, result.Valid)
	assert.Empty(t, result.Warnings)
	assert.Equal(t, "appointment", script.Name)
	assert.Equal(t, "2.1", script.Version)
	assert.Equal(t, "greeting", script.StartingState)
	assert.Len(t, script.States, 3)
	assert.Len(t, script.Edges, 2)

	// Indexes are built as part of the load.
	assert.NotNil(t, script.StateByName("collect"))
	assert.Len(t, script.OutgoingEdges("greeting"), 1)
}

func TestLoaderNormalizesFieldAliases(t *testing.T) {
	document := `{
		"name": "legacy",
		"initial_state": "start",
		"nodes": [
			{"name": "start", "type": "initial", "prompt": "Begin."},
			{"name": "end", "type": "terminal", "prompt": "Finish."}
		],
		"transitions": [
			{"from_state": "start", "to_state": "end"}
		]
	}`

	loader := newTestLoader(t)

	script, result, err := loader.Load([]byte(document))
	require.NoError(t, err)

	assert.True(t, result.Valid)
	assert.Equal(t, "start", script.StartingState)
	assert.Len(t, script.States, 2)
	assert.Len(t, script.Edges, 1)
	assert.Equal(t, defaultVersion, script.Version)
}

func TestLoaderNormalizesLegacyStateTypes(t *testing.T) {
	document := `{
		"name": "legacy-types",
		"starting_state": "ask",
		"states": [
			{"name": "ask", "type": "initial", "prompt": "Ask."},
			{"name": "verify", "type": "confirmation", "prompt": "Verify."},
			{"name": "wrap", "type": "final", "prompt": "Wrap up."}
		],
		"edges": [
			{"from_state": "ask", "to_state": "verify"},
			{"from_state": "verify", "to_state": "wrap"}
		]
	}`

	loader := newTestLoader(t)

	script, result, err := loader.Load([]byte(document))
	require.NoError(t, err)

	assert.Equal(t, models.StateTypeDecision, script.StateByName("verify").Type)
	assert.Equal(t, models.StateTypeTerminal, script.StateByName("wrap").Type)

	require.Len(t, result.Warnings, 2)
	assert.Contains(t, result.Warnings[0], `legacy type "confirmation"`)
	assert.Contains(t, result.Warnings[1], `legacy type "final"`)
}

func TestLoaderWarnsOnMissingStateType(t *testing.T) {
	document := `{
		"name": "untyped",
		"states": [
			{"name": "only", "prompt": "Do everything."}
		]
	}`

	loader := newTestLoader(t)

	script, result, err := loader.Load([]byte(document))
	require.NoError(t, err)

	assert.Equal(t, models.StateTypeInformation, script.States[0].Type)

	require.NotEmpty(t, result.Warnings)
	assert.Contains(t, result.Warnings[0], "declares no type")
}

func TestLoaderRejectsMalformedJSON(t *testing.T) {
	loader := newTestLoader(t)

	_, _, err := loader.Load([]byte(`{"name": `))
	require.Error(t, err)

	var loadErr *LoadError
	require.True(t, errors.As(err, &loadErr))
	assert.Equal(t, StageParse, loadErr.Stage)
}

func TestLoaderRejectsSchemaViolations(t *testing.T) {
	loader := newTestLoader(t)

	_, _, err := loader.Load([]byte(`{"states": "not-a-list"}`))
	require.Error(t, err)

	var loadErr *LoadError
	require.True(t, errors.As(err, &loadErr))
	assert.Equal(t, StageSchema, loadErr.Stage)
	assert.NotEmpty(t, loadErr.Diagnostics)
}

func TestLoaderRejectsInvalidReferences(t *testing.T) {
	document := `{
		"name": "broken",
		"starting_state": "start",
		"states": [
			{"name": "start", "type": "initial", "prompt": "Begin."}
		],
		"edges": [
			{"from_state": "start", "to_state": "missing"}
		]
	}`

	loader := newTestLoader(t)

	script, result, err := loader.Load([]byte(document))
	require.Error(t, err)
	assert.Nil(t, script)

	var loadErr *LoadError
	require.True(t, errors.As(err, &loadErr))
	assert.Equal(t, StageValidate, loadErr.Stage)

	require.NotNil(t, result)
	assert.False(t, result.Valid)
	assert.NotEmpty(t, result.Errors)
}

func TestLoaderLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "appointment.json")
	require.NoError(t, os.WriteFile(path, []byte(canonicalDocument), 0o644))

	loader := newTestLoader(t)

	script, result, err := loader.LoadFile(path)
	require.NoError(t, err)
	assert.True(t, result.Valid)
	assert.Equal(t, "appointment", script.Name)
}

func TestLoaderLoadFileMissing(t *testing.T) {
	loader := newTestLoader(t)

	_, _, err := loader.LoadFile(filepath.Join(t.TempDir(), "nope.json"))
	assert.Error(t, err)
}

func TestLoaderLoadsShippedExamples(t *testing.T) {
	loader := newTestLoader(t)

	paths, err := filepath.Glob(filepath.Join("..", "..", "examples", "scripts", "*.json"))
	require.NoError(t, err)
	require.NotEmpty(t, paths)

	for _, path := range paths {
		t.Run(filepath.Base(path), func(t *testing.T) {
			script, result, err := loader.LoadFile(path)
			require.NoError(t, err)

			assert.True(t, result.Valid)
			assert.Empty(t, result.Warnings)
			assert.NotEmpty(t, script.ResolveStartingState())
		})
	}
}
