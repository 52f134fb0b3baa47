package jsonavro

import (
	"fmt"

	"github.com/reoring/jsonavro/avsc"
)

// Record is a converted Avro record: one value per schema field, in field
// order. A Record is immutable; With returns a modified copy.
//
// Field values use these Go types: null → nil, boolean → bool, int → int32,
// long → int64, float → float32, double → float64, string → string,
// bytes → []byte, enum → EnumSymbol, record → *Record, array → []any,
// map → map[string]any. Logical types keep their base representation:
// date and time-millis → int32, time-micros and timestamps → int64,
// decimal → []byte (unscaled two's complement), uuid → string.
type Record struct {
	schema *avsc.Schema
	values []any
	set    []bool
}

// EnumSymbol is the converted value of an enum field.
type EnumSymbol string

// Schema returns the record schema.
func (r *Record) Schema() *avsc.Schema { return r.schema }

// Get returns the value of the named field, or nil for an unknown name.
func (r *Record) Get(name string) any {
	v, _ := r.Lookup(name)
	return v
}

// Lookup returns the value of the named field and whether the field exists.
func (r *Record) Lookup(name string) (any, bool) {
	f, ok := r.schema.Field(name)
	if !ok {
		return nil, false
	}
	return r.values[f.Pos], true
}

// IsSet reports whether the field was given a value explicitly rather than
// filled from its default.
func (r *Record) IsSet(name string) bool {
	f, ok := r.schema.Field(name)
	return ok && r.set[f.Pos]
}

// With returns a copy of r with the named field replaced.
func (r *Record) With(name string, v any) (*Record, error) {
	f, ok := r.schema.Field(name)
	if !ok {
		return nil, fmt.Errorf("jsonavro: record %s has no field %q", r.schema.Name, name)
	}
	out := &Record{schema: r.schema, values: append([]any(nil), r.values...), set: append([]bool(nil), r.set...)}
	out.values[f.Pos] = v
	out.set[f.Pos] = true
	return out, nil
}

// Map returns the field values keyed by field name. Nested records are left
// as *Record.
func (r *Record) Map() map[string]any {
	m := make(map[string]any, len(r.values))
	for i, f := range r.schema.Fields {
		m[f.Name] = r.values[i]
	}
	return m
}

// RecordBuilder accumulates field values for one record schema. Each field
// is normally set once; setting it again replaces the earlier value.
type RecordBuilder struct {
	schema *avsc.Schema
	values []any
	set    []bool
	err    error
}

// NewRecordBuilder returns a builder for record schema s.
func NewRecordBuilder(s *avsc.Schema) *RecordBuilder {
	return &RecordBuilder{schema: s, values: make([]any, len(s.Fields)), set: make([]bool, len(s.Fields))}
}

// Set stores v for the named field. Unknown names make Build fail.
func (b *RecordBuilder) Set(name string, v any) *RecordBuilder {
	if b.err != nil {
		return b
	}
	f, ok := b.schema.Field(name)
	if !ok {
		b.err = issue(CodeUnknownField, name, v, map[string]string{"field": name})
		return b
	}
	b.values[f.Pos] = v
	b.set[f.Pos] = true
	return b
}

// Has reports whether the named field was set.
func (b *RecordBuilder) Has(name string) bool {
	f, ok := b.schema.Field(name)
	return ok && b.set[f.Pos]
}

// Build finalizes the record. Unset fields take their schema default; a
// field with neither value nor default is an error unless it accepts null.
func (b *RecordBuilder) Build() (*Record, error) {
	return b.build(New(Options{UnknownField: IgnoreUnknownField}), RootPath)
}

func (b *RecordBuilder) build(c *Converter, at Path) (*Record, error) {
	if b.err != nil {
		return nil, b.err
	}
	r := &Record{schema: b.schema, values: b.values, set: b.set}
	for i, f := range b.schema.Fields {
		if b.set[i] {
			continue
		}
		switch {
		case f.HasDefault:
			v, err := c.defaultValue(f, at)
			if err != nil {
				return nil, err
			}
			r.values[i] = v
		case f.Type.Nullable():
			r.values[i] = nil
		default:
			return nil, issue(CodeMissingField, at.Enter(f.Name).String(), nil, map[string]string{"field": f.Name})
		}
	}
	b.values, b.set = nil, nil
	b.err = fmt.Errorf("jsonavro: builder for %s already built", b.schema.Name)
	return r, nil
}

// defaultValue converts a schema default with c, minus its failure hook.
// Bytes defaults (decimal included) are strings holding one code point per
// byte, so they are decoded as ISO-8859-1 rather than parsed.
func (c *Converter) defaultValue(f *avsc.Field, at Path) (any, error) {
	s := f.Type
	if s.Type == avsc.Union && len(s.Branches) > 0 {
		s = s.Branches[0]
	}
	if f.Default == nil && s.Type == avsc.Null {
		return nil, nil
	}
	if lit, ok := f.Default.(string); ok && s.Type == avsc.Bytes {
		b, ok := latin1(lit)
		if !ok {
			return nil, issue(CodeTypeMismatch, at.Enter(f.Name).String(), lit, map[string]string{"expected": s.Describe()})
		}
		return b, nil
	}
	d := *c
	d.opts.OnFieldFailure = nil
	r, err := d.dispatch(&call{}, Input{Field: f.Name, Schema: s, Value: f.Default, Path: at})
	if err != nil {
		return nil, err
	}
	return r.Value, nil
}

func latin1(s string) ([]byte, bool) {
	b := make([]byte, 0, len(s))
	for _, r := range s {
		if r > 0xFF {
			return nil, false
		}
		b = append(b, byte(r))
	}
	return b, true
}
