// Package schema declares the structured-response schemas an act call can
// request and validates model replies against them.
package schema

import (
	"context"
	"fmt"
	"strings"

	"github.com/goccy/go-json"
	goskema "github.com/reoring/goskema"
	g "github.com/reoring/goskema/dsl"
)

// Schema describes the shape an act response must take.
type Schema interface {
	// Name is a short label used in logs.
	Name() string

	// Describe returns the JSON Schema document shown to the model.
	Describe() (string, error)

	// Parse validates raw JSON and returns the parsed value.
	Parse(ctx context.Context, raw []byte) (any, error)
}

// Typed adapts a goskema schema to Schema while keeping typed access.
type Typed[T any] struct {
	name  string
	inner goskema.Schema[T]
}

// New wraps a goskema schema under a name.
func New[T any](name string, s goskema.Schema[T]) *Typed[T] {
	return &Typed[T]{name: name, inner: s}
}

// Name implements Schema.
func (t *Typed[T]) Name() string { return t.name }

// Describe implements Schema.
func (t *Typed[T]) Describe() (string, error) {
	doc, err := t.inner.JSONSchema()
	if err != nil {
		return "", fmt.Errorf("failed to build JSON schema for %s: %w", t.name, err)
	}
	out, err := json.Marshal(doc)
	if err != nil {
		return "", fmt.Errorf("failed to encode JSON schema for %s: %w", t.name, err)
	}
	return string(out), nil
}

// Parse implements Schema.
func (t *Typed[T]) Parse(ctx context.Context, raw []byte) (any, error) {
	return t.ParseTyped(ctx, raw)
}

// ParseTyped validates raw JSON and returns the typed value.
func (t *Typed[T]) ParseTyped(ctx context.Context, raw []byte) (T, error) {
	var zero T
	var wire any
	if err := json.Unmarshal(raw, &wire); err != nil {
		return zero, fmt.Errorf("response is not valid JSON: %w", err)
	}
	v, err := t.inner.Parse(ctx, wire)
	if err != nil {
		return zero, &ValidationError{Schema: t.name, Err: err}
	}
	return v, nil
}

// ValidationError reports a reply that was JSON but did not match a schema.
type ValidationError struct {
	Schema string
	Err    error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("response does not match %s schema: %s", e.Schema, IssueSummary(e.Err))
}

func (e *ValidationError) Unwrap() error { return e.Err }

// IssueSummary flattens goskema issues into "path: message" pairs.
func IssueSummary(err error) string {
	issues, ok := goskema.AsIssues(err)
	if !ok || len(issues) == 0 {
		return err.Error()
	}
	parts := make([]string, 0, len(issues))
	for _, iss := range issues {
		path := iss.Path
		if path == "" {
			path = "/"
		}
		parts = append(parts, path+": "+iss.Message)
	}
	return strings.Join(parts, "; ")
}

// Value extracts a typed value from a parsed response.
func Value[T any](parsed any) (T, bool) {
	v, ok := parsed.(T)
	return v, ok
}

// Bool matches a bare JSON boolean.
var Bool = New[bool]("bool", g.Bool())

// String matches a bare JSON string.
var String = New[string]("string", g.String())
