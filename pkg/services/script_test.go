package services

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/voxline/scriptflow/pkg/log"
	"github.com/voxline/scriptflow/pkg/models"
	"github.com/voxline/scriptflow/pkg/persistence/file"
	"github.com/voxline/scriptflow/pkg/script"
)

const bookingDocument = `{
	"name": "booking",
	"starting_state": "greet",
	"states": [
		{"name": "greet", "type": "initial", "prompt": "Greet."},
		{"name": "decide", "type": "decision", "prompt": "Decide."},
		{"name": "bye", "type": "terminal", "prompt": "Goodbye."}
	],
	"edges": [
		{"from_state": "greet", "to_state": "decide"},
		{"from_state": "decide", "to_state": "bye"}
	]
}`

func newScriptService(t *testing.T) *Script {
	t.Helper()

	loader, err := script.NewLoader()
	require.NoError(t, err)

	return NewScript(loader, script.NewRegistry(), file.NewPersistence(t.TempDir()), log.WithModule("script-service-test"))
}

func TestScriptServiceRegisterAndGet(t *testing.T) {
	ctx := context.Background()
	service := newScriptService(t)

	registered, result, err := service.RegisterScript(ctx, []byte(bookingDocument))
	require.NoError(t, err)
	assert.True(t, result.Valid)
	assert.Equal(t, "booking", registered.Name)

	fetched, err := service.GetScript("booking")
	require.NoError(t, err)
	assert.Equal(t, registered, fetched)

	summaries := service.ListScripts()
	require.Len(t, summaries, 1)
	assert.Equal(t, 3, summaries[0].States)
}

func TestScriptServiceRegisterRejectsInvalid(t *testing.T) {
	service := newScriptService(t)

	_, result, err := service.RegisterScript(context.Background(), []byte(`{
		"name": "broken",
		"starting_state": "nowhere",
		"states": [{"name": "a", "type": "initial", "prompt": "A."}]
	}`))
	require.Error(t, err)
	assert.True(t, IsRejectionError(err))
	require.NotNil(t, result)
	assert.False(t, result.Valid)

	assert.Empty(t, service.ListScripts())
}

func TestScriptServiceGetRequiresName(t *testing.T) {
	service := newScriptService(t)

	_, err := service.GetScript("")
	assert.ErrorIs(t, err, ErrScriptNameRequired)
	assert.True(t, IsValidationError(err))
}

func TestScriptServiceDelete(t *testing.T) {
	ctx := context.Background()
	service := newScriptService(t)

	_, _, err := service.RegisterScript(ctx, []byte(bookingDocument))
	require.NoError(t, err)

	require.NoError(t, service.DeleteScript(ctx, "booking"))

	_, err = service.GetScript("booking")
	assert.True(t, IsNotFoundError(err))
}

func TestScriptServiceLoadDirectorySkipsInvalid(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "good.json"), []byte(bookingDocument), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "bad.json"), []byte(`{"states": 7}`), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("not a script"), 0o644))

	service := newScriptService(t)

	loaded, err := service.LoadDirectory(context.Background(), dir)
	require.NoError(t, err)
	assert.Equal(t, 1, loaded)
	assert.Len(t, service.ListScripts(), 1)
}

func TestScriptServiceRestoreFromStore(t *testing.T) {
	ctx := context.Background()

	loader, err := script.NewLoader()
	require.NoError(t, err)

	store := file.NewPersistence(t.TempDir())
	logger := log.WithModule("script-service-test")

	first := NewScript(loader, script.NewRegistry(), store, logger)
	_, _, err = first.RegisterScript(ctx, []byte(bookingDocument))
	require.NoError(t, err)

	// A fresh registry stands in for a restarted process.
	second := NewScript(loader, script.NewRegistry(), store, logger)

	restored, err := second.RestoreFromStore(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, restored)

	_, err = second.GetScript("booking")
	assert.NoError(t, err)
}

func TestScriptServiceExportFormats(t *testing.T) {
	ctx := context.Background()
	service := newScriptService(t)

	_, _, err := service.RegisterScript(ctx, []byte(bookingDocument))
	require.NoError(t, err)

	mermaid, err := service.ExportScript("booking", FormatMermaid)
	require.NoError(t, err)
	assert.Contains(t, mermaid, "flowchart TD")

	dot, err := service.ExportScript("booking", FormatDOT)
	require.NoError(t, err)
	assert.Contains(t, dot, "digraph CallFlow")

	page, err := service.ExportScript("booking", FormatHTML)
	require.NoError(t, err)
	assert.Contains(t, page, "<!DOCTYPE html>")

	_, err = service.ExportScript("booking", "png")
	assert.ErrorIs(t, err, ErrUnknownFormat)
}

func TestScriptServiceTemplateConversion(t *testing.T) {
	ctx := context.Background()
	service := newScriptService(t)

	_, _, err := service.RegisterScript(ctx, []byte(bookingDocument))
	require.NoError(t, err)

	template, err := service.TemplateForScript("booking")
	require.NoError(t, err)
	assert.Equal(t, models.StructureMulti, template.StructureType)
	assert.Len(t, template.States, 3)
}

func TestScriptServiceAnalyze(t *testing.T) {
	ctx := context.Background()
	service := newScriptService(t)

	_, _, err := service.RegisterScript(ctx, []byte(bookingDocument))
	require.NoError(t, err)

	analysis, err := service.AnalyzeScript("booking")
	require.NoError(t, err)
	assert.Equal(t, 3, analysis.States)
	assert.Equal(t, []string{"bye"}, analysis.TerminalStates)
	assert.Equal(t, []string{"decide"}, analysis.DecisionStates)
	assert.Equal(t, []string{"greet", "decide", "bye"}, analysis.LongestPath)
}

func TestScriptServiceAnalyzeCyclicScript(t *testing.T) {
	ctx := context.Background()
	service := newScriptService(t)

	// Retry loop between decide and greet, the shape the shipped example
	// scripts use for "offer another slot".
	_, _, err := service.RegisterScript(ctx, []byte(`{
		"name": "retry",
		"starting_state": "greet",
		"states": [
			{"name": "greet", "type": "initial", "prompt": "Greet."},
			{"name": "decide", "type": "decision", "prompt": "Decide."},
			{"name": "bye", "type": "terminal", "prompt": "Goodbye."}
		],
		"edges": [
			{"from_state": "greet", "to_state": "decide"},
			{"from_state": "decide", "to_state": "greet"},
			{"from_state": "decide", "to_state": "bye"}
		]
	}`))
	require.NoError(t, err)

	analysis, err := service.AnalyzeScript("retry")
	require.NoError(t, err)
	assert.Equal(t, []string{"greet", "decide", "bye"}, analysis.LongestPath)
}

func TestScriptServiceLint(t *testing.T) {
	service := newScriptService(t)

	result, err := service.LintScript([]byte(`{
		"name": "draft",
		"starting_state": "a",
		"states": [
			{"name": "a", "type": "initial", "prompt": "A."},
			{"name": "orphan", "type": "information", "prompt": "Orphan."}
		]
	}`))
	require.NoError(t, err)

	// Advisory mode downgrades the unreachable state to a warning.
	assert.True(t, result.Valid)
	assert.NotEmpty(t, result.Warnings)
}
