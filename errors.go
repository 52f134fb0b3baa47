package jsonavro

import (
	"errors"
	"fmt"
	"strings"

	"github.com/reoring/jsonavro/i18n"
)

// Issue codes.
const (
	CodeUnsupportedType = "unsupported_type"
	CodeTypeMismatch    = "type_mismatch"
	CodeEnumMismatch    = "enum_mismatch"
	CodeUnionExhausted  = "union_exhausted"
	CodeNumberFormat    = "number_format"
	CodeDateTimeParse   = "datetime_parse"
	CodeDecimalScale    = "decimal_scale"
	CodeUnknownField    = "unknown_field"
	CodeMissingField    = "missing_field"
	CodeDuplicateKey    = "duplicate_key"
	CodeParseError      = "parse_error"
)

// Issue represents a single conversion error.
type Issue struct {
	Path    string // Dotted field path (for example: order.items.price).
	Code    string // One of the codes listed above.
	Message string
	Hint    string // Optional: expected type or format.
	Value   any    // Optional: the offending JSON value.
	Cause   error  // Optional: underlying error.
	Offset  int64  // Byte offset in the input (-1 when unknown).
	// Params carries structured parameters (e.g., {"field":"a", "scale":2})
	// for i18n and observability.
	Params map[string]any
}

// Issues is a collection of conversion errors that implements error.
type Issues []Issue

// Error summarizes the first few issues.
func (iss Issues) Error() string {
	if len(iss) == 0 {
		return ""
	}
	const maxShown = 3
	b := &strings.Builder{}
	lim := min(len(iss), maxShown)
	for i := 0; i < lim; i++ {
		if i > 0 {
			b.WriteString("; ")
		}
		it := iss[i]
		// e.g. type_mismatch at order.id: Field id is expected to be type: long, ...
		fmt.Fprintf(b, "%s at %s", it.Code, displayPath(it.Path))
		if it.Message != "" {
			b.WriteString(": ")
			b.WriteString(it.Message)
		}
	}
	if n := len(iss); n > lim {
		fmt.Fprintf(b, "; ... (total %d)", n)
	}
	return b.String()
}

// Unwrap exposes the causes so errors.Is/As can reach them.
func (iss Issues) Unwrap() []error {
	var out []error
	for _, it := range iss {
		if it.Cause != nil {
			out = append(out, it.Cause)
		}
	}
	return out
}

func displayPath(p string) string {
	if p == "" {
		return "<root>"
	}
	return p
}

// AppendIssues appends issues to the destination, initializing the slice when
// needed.
func AppendIssues(dst Issues, more ...Issue) Issues {
	if dst == nil {
		dst = Issues{}
	}
	return append(dst, more...)
}

// AsIssues extracts Issues from an error using errors.As internally.
func AsIssues(err error) (Issues, bool) {
	if err == nil {
		return nil, false
	}
	var iss Issues
	if errors.As(err, &iss) {
		return iss, true
	}
	return nil, false
}

// HasCode reports whether err carries an issue with the given code.
func HasCode(err error, code string) bool {
	iss, ok := AsIssues(err)
	if !ok {
		return false
	}
	for _, it := range iss {
		if it.Code == code {
			return true
		}
	}
	return false
}

// issue builds a single-entry Issues whose message comes from the current
// translator.
func issue(code, path string, v any, data map[string]string) Issues {
	if data == nil {
		data = map[string]string{}
	}
	data["path"] = displayPath(path)
	if _, ok := data["value"]; !ok {
		data["value"] = describeValue(v)
	}
	params := make(map[string]any, len(data))
	for k, s := range data {
		params[k] = s
	}
	return Issues{{
		Path:    path,
		Code:    code,
		Message: i18n.T(code, data),
		Hint:    data["expected"],
		Value:   v,
		Offset:  -1,
		Params:  params,
	}}
}

func withCause(iss Issues, err error) Issues {
	if len(iss) > 0 {
		iss[0].Cause = err
	}
	return iss
}
