package jsonavro

import (
	"github.com/reoring/jsonavro/avsc"
)

// Converter turns JSON value trees into Records. It is immutable after New
// and safe for concurrent use; each call keeps its own path, additional
// properties and deferred actions.
type Converter struct {
	opts         Options
	extraSources map[string]bool
}

// New returns a Converter configured by opts.
func New(opts Options) *Converter {
	opts = opts.withDefaults()
	src := make(map[string]bool, len(opts.ExtraPropsSources))
	for _, n := range opts.ExtraPropsSources {
		src[n] = true
	}
	return &Converter{opts: opts, extraSources: src}
}

// Options returns the effective configuration.
func (c *Converter) Options() Options { return c.opts }

// Input is one conversion request handed to a TypeConverter.
type Input struct {
	Field       string       // schema field name the value belongs to
	Schema      *avsc.Schema // schema node to convert against
	Value       any          // JSON value (nil, bool, json.Number or other numbers, string, []any, map[string]any)
	Path        Path         // path including Field
	Speculative bool         // true while trying union branches

	conv *Converter
	call *call
}

// Convert converts a nested value in the same mode as in, e.g. the elements
// of a custom container type.
func (in Input) Convert(field string, s *avsc.Schema, v any) (Result, error) {
	return in.conv.dispatch(in.call, Input{Field: field, Schema: s, Value: v, Path: in.Path, Speculative: in.Speculative})
}

// Result is the outcome of converting one value: either an accepted value or,
// in speculative mode, a rejection describing what was expected.
type Result struct {
	Value    any
	Rejected bool
	Expected string
}

// Accept wraps a converted value.
func Accept(v any) Result { return Result{Value: v} }

// Reject reports that the value does not fit; expected describes what would.
func Reject(expected string) Result { return Result{Rejected: true, Expected: expected} }

// TypeConverter converts values for the schema nodes it claims. Custom
// converters run before the built-in ones, in the order given in Options.
type TypeConverter interface {
	CanHandle(s *avsc.Schema, p Path) bool
	Convert(in Input) (Result, error)
}

// call is the per-conversion state. trials counts the union branches being
// tried on the current descent; the failure hook is off while it is non-zero.
type call struct {
	actions []PostAction
	trials  int
}

func (cl *call) mark() int { return len(cl.actions) }

// rollback drops actions queued after mark, e.g. by a rejected union branch.
func (cl *call) rollback(mark int) {
	for i := mark; i < len(cl.actions); i++ {
		cl.actions[i] = nil
	}
	cl.actions = cl.actions[:mark]
}

// dispatch routes in to the first converter that handles its schema:
// custom converters, then logical types, then the schema kind.
func (c *Converter) dispatch(cl *call, in Input) (Result, error) {
	in.Path = in.Path.Enter(in.Field)
	in.conv, in.call = c, cl
	for _, tc := range c.opts.Converters {
		if tc.CanHandle(in.Schema, in.Path) {
			r, err := tc.Convert(in)
			if err != nil || !r.Rejected || in.Speculative {
				return r, err
			}
			return Result{}, mismatch(in, r.Expected)
		}
	}
	if in.Schema == nil {
		return Result{}, issue(CodeUnsupportedType, in.Path.String(), in.Value, map[string]string{"field": in.Field, "expected": "<nil>"})
	}
	if in.Schema.Logical != avsc.NoLogical {
		if lc, ok := logicalConverters[logicalKey{in.Schema.Type, in.Schema.Logical}]; ok {
			return lc(in)
		}
	}
	switch in.Schema.Type {
	case avsc.Boolean:
		return convertBoolean(in)
	case avsc.String:
		return convertString(in)
	case avsc.Int:
		return convertInt(in)
	case avsc.Long:
		return convertLong(in)
	case avsc.Float:
		return convertFloat(in)
	case avsc.Double:
		return convertDouble(in)
	case avsc.Bytes:
		return convertBytes(in)
	case avsc.Enum:
		return convertEnum(in)
	case avsc.Null:
		return convertNull(in)
	case avsc.Record:
		return c.convertRecordValue(in)
	case avsc.Array:
		return c.convertArray(in)
	case avsc.Map:
		return c.convertMap(in)
	case avsc.Union:
		return c.convertUnion(in)
	}
	return Result{}, issue(CodeUnsupportedType, in.Path.String(), in.Value, map[string]string{"field": in.Field, "expected": in.Schema.Describe()})
}

// fail reports a conversion failure: a rejection in speculative mode, an
// error otherwise.
func fail(in Input, expected, code string, data map[string]string, cause error) (Result, error) {
	if in.Speculative {
		return Reject(expected), nil
	}
	if data == nil {
		data = map[string]string{}
	}
	data["field"] = in.Field
	if _, ok := data["expected"]; !ok {
		data["expected"] = expected
	}
	if _, ok := data["actual"]; !ok {
		data["actual"] = jsonKind(in.Value)
	}
	return Result{}, withCause(issue(code, in.Path.String(), in.Value, data), cause)
}

func mismatch(in Input, expected string) error {
	_, err := fail(Input{Field: in.Field, Schema: in.Schema, Value: in.Value, Path: in.Path}, expected, CodeTypeMismatch, nil, nil)
	return err
}
