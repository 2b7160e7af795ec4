// Package schema validates structured documents against the embedded
// toolkit schemas before they are trusted by the rest of the system.
package schema

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/fulmenhq/toolkit/internal/assets"
	"github.com/xeipuuv/gojsonschema"
	"gopkg.in/yaml.v3"
)

// Result holds the validation result.
type Result struct {
	Valid  bool              `json:"valid"`
	Errors []ValidationError `json:"errors,omitempty"`
}

// ValidationError represents a single validation error.
type ValidationError struct {
	Path    string `json:"path,omitempty"`
	Message string `json:"message"`
}

// registry caches compiled schemas by name for reuse
var (
	schemaRegistry = make(map[string]*gojsonschema.Schema)
	regMu          sync.RWMutex
)

// compiled returns the cached compiled schema by name, compiling it on
// first use from the embedded asset.
func compiled(name string) (*gojsonschema.Schema, error) {
	regMu.RLock()
	sch, ok := schemaRegistry[name]
	regMu.RUnlock()
	if ok {
		return sch, nil
	}

	data, ok := assets.GetSchema(name)
	if !ok {
		return nil, fmt.Errorf("unknown schema %q", name)
	}
	sch, err := compileSchemaBytes(data)
	if err != nil {
		return nil, fmt.Errorf("failed to compile schema %q: %w", name, err)
	}

	regMu.Lock()
	schemaRegistry[name] = sch
	regMu.Unlock()
	return sch, nil
}

// compileSchemaBytes compiles schema source that may be YAML or JSON.
func compileSchemaBytes(schemaBytes []byte) (*gojsonschema.Schema, error) {
	// Try YAML first; if it parses, convert to canonical JSON bytes for the loader
	var tmp any
	if err := yaml.Unmarshal(schemaBytes, &tmp); err == nil {
		jb, jerr := json.Marshal(tmp)
		if jerr != nil {
			return nil, fmt.Errorf("failed to encode schema to JSON: %w", jerr)
		}
		schemaBytes = jb
	}
	loader := gojsonschema.NewBytesLoader(schemaBytes)
	sch, err := gojsonschema.NewSchema(loader)
	if err != nil {
		return nil, fmt.Errorf("failed to load schema: %w", err)
	}
	return sch, nil
}

// ValidateBytes validates a JSON document against the named embedded schema.
// A document that is not well-formed JSON is reported as invalid, not as an
// internal error, so callers get one uniform corrupt-document signal.
func ValidateBytes(schemaName string, doc []byte) (*Result, error) {
	sch, err := compiled(schemaName)
	if err != nil {
		return nil, err
	}

	var tmp any
	if err := json.Unmarshal(doc, &tmp); err != nil {
		return &Result{Valid: false, Errors: []ValidationError{{Message: fmt.Sprintf("document is not valid JSON: %v", err)}}}, nil
	}

	res, err := sch.Validate(gojsonschema.NewBytesLoader(doc))
	if err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	out := &Result{Valid: res.Valid()}
	for _, e := range res.Errors() {
		out.Errors = append(out.Errors, ValidationError{Path: e.Field(), Message: e.Description()})
	}
	return out, nil
}
