package dashboard

import (
	"bytes"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"maps"
	"slices"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

//go:embed schemas/*.json
var embeddedSchemas embed.FS

// Payload schema names.
const (
	SchemaEvent   = "event"
	SchemaTicket  = "ticket"
	SchemaAdmin   = "admin"
	SchemaProfile = "profile"
)

// PayloadValidator validates command payloads against a named schema.
type PayloadValidator interface {
	Validate(schema string, payload any) error
}

// JSONSchemaValidator compiles embedded schemas lazily and validates payloads.
type JSONSchemaValidator struct {
	mu       sync.RWMutex
	compiled map[string]*jsonschema.Schema
}

// NewJSONSchemaValidator builds a validator backed by jsonschema v5.
func NewJSONSchemaValidator() *JSONSchemaValidator {
	return &JSONSchemaValidator{
		compiled: make(map[string]*jsonschema.Schema),
	}
}

// Validate round-trips payload through JSON and checks it against the schema.
func (v *JSONSchemaValidator) Validate(name string, payload any) error {
	schema, err := v.schemaFor(name)
	if err != nil {
		return err
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("dashboard: marshal %s payload: %w", name, err)
	}
	var doc any
	if err := json.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("dashboard: normalize %s payload: %w", name, err)
	}
	if err := schema.Validate(doc); err != nil {
		return newPayloadError(name, err)
	}
	return nil
}

// PayloadError reports a payload rejected by its schema. Fields maps the
// JSON path of each offending value ("" for the document itself) to the
// schema's message.
type PayloadError struct {
	Schema string
	Fields map[string]string
	err    error
}

func newPayloadError(name string, err error) *PayloadError {
	pe := &PayloadError{Schema: name, Fields: map[string]string{}, err: err}
	var verr *jsonschema.ValidationError
	if errors.As(err, &verr) {
		collectLeaves(verr, pe.Fields)
	}
	return pe
}

// collectLeaves keeps the deepest causes; their parents only repeat
// "doesn't validate with ...".
func collectLeaves(verr *jsonschema.ValidationError, into map[string]string) {
	if len(verr.Causes) == 0 {
		field := strings.TrimPrefix(verr.InstanceLocation, "/")
		if _, seen := into[field]; !seen {
			into[field] = verr.Message
		}
		return
	}
	for _, cause := range verr.Causes {
		collectLeaves(cause, into)
	}
}

func (e *PayloadError) Error() string {
	fields := slices.Sorted(maps.Keys(e.Fields))
	parts := make([]string, 0, len(fields))
	for _, f := range fields {
		if f == "" {
			parts = append(parts, e.Fields[f])
			continue
		}
		parts = append(parts, f+": "+e.Fields[f])
	}
	return fmt.Sprintf("dashboard: invalid %s payload: %s", e.Schema, strings.Join(parts, "; "))
}

func (e *PayloadError) Unwrap() error { return e.err }

func (v *JSONSchemaValidator) schemaFor(name string) (*jsonschema.Schema, error) {
	v.mu.RLock()
	schema, ok := v.compiled[name]
	v.mu.RUnlock()
	if ok {
		return schema, nil
	}
	data, err := embeddedSchemas.ReadFile("schemas/" + name + ".json")
	if err != nil {
		return nil, fmt.Errorf("dashboard: unknown schema %s: %w", name, err)
	}
	compiler := jsonschema.NewCompiler()
	compiler.AssertFormat = true
	resource := name + ".json"
	if err := compiler.AddResource(resource, bytes.NewReader(data)); err != nil {
		return nil, fmt.Errorf("dashboard: load schema %s: %w", name, err)
	}
	compiled, err := compiler.Compile(resource)
	if err != nil {
		return nil, fmt.Errorf("dashboard: compile schema %s: %w", name, err)
	}
	v.mu.Lock()
	v.compiled[name] = compiled
	v.mu.Unlock()
	return compiled, nil
}
