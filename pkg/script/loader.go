// Package script loads, normalizes and registers conversation scripts, and
// converts them into prompt templates for the generation layer.
package script

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/xeipuuv/gojsonschema"

	"github.com/voxline/scriptflow/pkg/log"
	"github.com/voxline/scriptflow/pkg/models"
	"github.com/voxline/scriptflow/pkg/validation"
)

// defaultVersion is stamped onto documents that declare none.
const defaultVersion = "1.0"

// Load stages, in the order they run. A LoadError names the stage that
// rejected the document.
const (
	StageParse    = "parse"
	StageSchema   = "schema"
	StageDecode   = "decode"
	StageValidate = "validate"
)

// LoadError is a structured load failure: the stage that rejected the
// document plus the individual diagnostics, so callers can render them
// without string-splitting the error text.
type LoadError struct {
	Stage       string
	Diagnostics []string
	Err         error
}

func (e *LoadError) Error() string {
	if len(e.Diagnostics) > 0 {
		return fmt.Sprintf("script load failed at %s stage: %s", e.Stage, strings.Join(e.Diagnostics, "; "))
	}

	return fmt.Sprintf("script load failed at %s stage: %v", e.Stage, e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// Loader turns raw script documents into validated, indexed models. The
// schema is compiled once at construction; a single Loader is safe for
// concurrent use.
type Loader struct {
	logger *slog.Logger
	schema *gojsonschema.Schema
	check  *validator.Validate
}

// NewLoader compiles the document schema and returns a ready loader.
func NewLoader() (*Loader, error) {
	schema, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(documentSchema))
	if err != nil {
		return nil, fmt.Errorf("failed to compile script document schema: %w", err)
	}

	return &Loader{
		logger: log.WithModule("script-loader"),
		schema: schema,
		check:  validator.New(),
	}, nil
}

// LoadFile reads and loads a script document from disk.
func (l *Loader) LoadFile(path string) (*models.Script, *validation.Result, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read script file %s: %w", path, err)
	}

	return l.Load(data)
}

// Load runs the full pipeline on a raw JSON document: parse, schema gate,
// alias and state-type normalization, decode, structural validation, index
// build. On success the returned validation result is valid but may still
// carry warnings (legacy state types, implicit starting state). On failure
// the error is a *LoadError naming the stage that rejected the document.
func (l *Loader) Load(data []byte) (*models.Script, *validation.Result, error) {
	var doc map[string]any
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, nil, &LoadError{Stage: StageParse, Err: err}
	}

	return l.LoadDocument(doc)
}

// LoadDocument runs the pipeline on an already-parsed document. The document
// map is modified in place by normalization.
func (l *Loader) LoadDocument(doc map[string]any) (*models.Script, *validation.Result, error) {
	schemaResult, err := l.schema.Validate(gojsonschema.NewGoLoader(doc))
	if err != nil {
		return nil, nil, &LoadError{Stage: StageSchema, Err: err}
	}

	if !schemaResult.Valid() {
		diagnostics := make([]string, 0, len(schemaResult.Errors()))
		for _, desc := range schemaResult.Errors() {
			diagnostics = append(diagnostics, desc.String())
		}

		return nil, nil, &LoadError{Stage: StageSchema, Diagnostics: diagnostics}
	}

	normWarnings := normalizeDocument(doc)

	normalized, err := json.Marshal(doc)
	if err != nil {
		return nil, nil, &LoadError{Stage: StageDecode, Err: err}
	}

	var script models.Script
	if err := json.Unmarshal(normalized, &script); err != nil {
		return nil, nil, &LoadError{Stage: StageDecode, Err: err}
	}

	if err := l.check.Struct(&script); err != nil {
		var diagnostics []string

		var fieldErrors validator.ValidationErrors
		if errors.As(err, &fieldErrors) {
			for _, fieldError := range fieldErrors {
				diagnostics = append(diagnostics, fmt.Sprintf("field %s failed %s validation", fieldError.Field(), fieldError.Tag()))
			}
		}

		return nil, nil, &LoadError{Stage: StageDecode, Diagnostics: diagnostics, Err: err}
	}

	result := validation.Validate(&script)
	result.Warnings = append(normWarnings, result.Warnings...)

	for _, warning := range result.Warnings {
		l.logger.Warn("Script diagnostic", "script", script.Name, "warning", warning)
	}

	if !result.Valid {
		return nil, result, &LoadError{Stage: StageValidate, Diagnostics: result.Errors}
	}

	script.BuildIndexes()

	l.logger.Info("Script loaded",
		"script", script.Name,
		"version", script.Version,
		"states", len(script.States),
		"edges", len(script.Edges))

	return &script, result, nil
}

// Lint runs the loader pipeline in advisory mode for authoring tools: the
// document is parsed, normalized and checked, but reachability problems are
// warnings and nothing is installed. Only documents too broken to decode
// return an error.
func (l *Loader) Lint(data []byte) (*validation.Result, error) {
	var doc map[string]any
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, &LoadError{Stage: StageParse, Err: err}
	}

	schemaResult, err := l.schema.Validate(gojsonschema.NewGoLoader(doc))
	if err != nil {
		return nil, &LoadError{Stage: StageSchema, Err: err}
	}

	if !schemaResult.Valid() {
		result := &validation.Result{}
		for _, desc := range schemaResult.Errors() {
			result.Errors = append(result.Errors, desc.String())
		}

		return result, nil
	}

	normWarnings := normalizeDocument(doc)

	normalized, err := json.Marshal(doc)
	if err != nil {
		return nil, &LoadError{Stage: StageDecode, Err: err}
	}

	var script models.Script
	if err := json.Unmarshal(normalized, &script); err != nil {
		return nil, &LoadError{Stage: StageDecode, Err: err}
	}

	result := validation.ValidateAdvisory(&script)
	result.Warnings = append(normWarnings, result.Warnings...)

	return result, nil
}

// normalizeDocument rewrites historical field aliases onto the canonical
// names, stamps the default version, and maps state types onto the closed
// set. Returns the warnings produced by type normalization.
func normalizeDocument(doc map[string]any) []string {
	renameField(doc, "nodes", "states")
	renameField(doc, "transitions", "edges")
	renameField(doc, "initial_state", "starting_state")
	renameField(doc, "start", "starting_state")

	if _, ok := doc["version"]; !ok {
		doc["version"] = defaultVersion
	}

	var warnings []string

	states, _ := doc["states"].([]any)
	for _, raw := range states {
		state, ok := raw.(map[string]any)
		if !ok {
			continue
		}

		name, _ := state["name"].(string)
		rawType, _ := state["type"].(string)

		normalized, canonical := models.NormalizeStateType(rawType)
		if !canonical {
			if rawType == "" {
				warnings = append(warnings, fmt.Sprintf("state %q declares no type; defaulting to %q", name, normalized))
			} else {
				warnings = append(warnings, fmt.Sprintf("state %q uses legacy type %q; normalized to %q", name, rawType, normalized))
			}
		}

		state["type"] = string(normalized)
	}

	return warnings
}

// renameField moves doc[from] to doc[to] unless the canonical field is
// already present, in which case the alias is dropped.
func renameField(doc map[string]any, from, to string) {
	value, ok := doc[from]
	if !ok {
		return
	}

	delete(doc, from)

	if _, exists := doc[to]; !exists {
		doc[to] = value
	}
}
