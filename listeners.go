package jsonavro

import (
	"log/slog"

	"github.com/reoring/jsonavro/avsc"
)

// UnknownFieldListener is told about JSON fields that match no schema field
// when the schema has no catch-all field. Returning an error aborts the
// conversion.
type UnknownFieldListener interface {
	OnUnknownField(name string, value any, path string) error
}

// UnknownFieldFunc adapts a function to UnknownFieldListener.
type UnknownFieldFunc func(name string, value any, path string) error

func (f UnknownFieldFunc) OnUnknownField(name string, value any, path string) error {
	return f(name, value, path)
}

// FailOnUnknownField rejects the document with an unknown_field issue.
var FailOnUnknownField UnknownFieldListener = UnknownFieldFunc(func(name string, value any, path string) error {
	return issue(CodeUnknownField, path, value, map[string]string{"field": name})
})

// IgnoreUnknownField drops unknown fields silently.
var IgnoreUnknownField UnknownFieldListener = UnknownFieldFunc(func(string, any, string) error { return nil })

// LogOnUnknownField drops unknown fields after logging a warning. A nil
// logger means slog.Default().
func LogOnUnknownField(logger *slog.Logger) UnknownFieldListener {
	if logger == nil {
		logger = slog.Default()
	}
	return UnknownFieldFunc(func(name string, value any, path string) error {
		logger.Warn("field missing in schema, dropped", "field", name, "path", path, "value", describeValue(value))
		return nil
	})
}

// PostAction transforms a fully built record. Actions queued by a failure
// listener run after the top-level record is built, in queue order.
type PostAction func(*Record) (*Record, error)

// FieldFailure describes a field whose conversion failed.
type FieldFailure struct {
	Field    string       // schema field name (after the name transform)
	Original string       // JSON key as it appeared in the input
	Schema   *avsc.Schema // schema of the field
	Value    any          // offending JSON value
	Path     string       // dotted path of the field
	Err      error        // conversion error

	call *call
}

// Enqueue registers an action to run on the top-level record once it is
// built. Actions belong to the current conversion call only.
func (f *FieldFailure) Enqueue(a PostAction) {
	if f.call != nil && a != nil {
		f.call.actions = append(f.call.actions, a)
	}
}

// FieldFailureListener recovers from field conversion errors. The returned
// value is stored in place of the failed field; returning an error aborts
// the conversion with that error.
type FieldFailureListener interface {
	OnFieldFailure(f *FieldFailure) (any, error)
}

// FieldFailureFunc adapts a function to FieldFailureListener.
type FieldFailureFunc func(f *FieldFailure) (any, error)

func (fn FieldFailureFunc) OnFieldFailure(f *FieldFailure) (any, error) { return fn(f) }
