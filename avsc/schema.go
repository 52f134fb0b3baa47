// Package avsc models Avro schemas as an in-memory tree and reads them from
// their JSON (.avsc) or YAML form.
package avsc

import (
	"sort"
	"strings"
)

// Type is the kind of an Avro schema node.
type Type int

const (
	Null Type = iota
	Boolean
	Int
	Long
	Float
	Double
	Bytes
	String
	Record
	Enum
	Array
	Map
	Union
	Fixed
)

var typeNames = [...]string{
	Null: "null", Boolean: "boolean", Int: "int", Long: "long", Float: "float",
	Double: "double", Bytes: "bytes", String: "string", Record: "record",
	Enum: "enum", Array: "array", Map: "map", Union: "union", Fixed: "fixed",
}

func (t Type) String() string {
	if int(t) < len(typeNames) {
		return typeNames[t]
	}
	return "unknown"
}

// IsPrimitive reports whether t is one of the eight primitive types.
func (t Type) IsPrimitive() bool { return t <= String }

// IsNamed reports whether t declares a name (record, enum, fixed).
func (t Type) IsNamed() bool { return t == Record || t == Enum || t == Fixed }

func typeByName(name string) (Type, bool) {
	for i, n := range typeNames {
		if n == name && Type(i) != Union {
			return Type(i), true
		}
	}
	if name == "error" {
		return Record, true
	}
	return 0, false
}

// LogicalType annotates a base type with an interpretation.
type LogicalType string

const (
	NoLogical       LogicalType = ""
	Date            LogicalType = "date"
	TimeMillis      LogicalType = "time-millis"
	TimeMicros      LogicalType = "time-micros"
	TimestampMillis LogicalType = "timestamp-millis"
	TimestampMicros LogicalType = "timestamp-micros"
	Decimal         LogicalType = "decimal"
	UUID            LogicalType = "uuid"
)

// baseOf lists the base types each logical type may annotate.
var baseOf = map[LogicalType][]Type{
	Date:            {Int},
	TimeMillis:      {Int},
	TimeMicros:      {Long},
	TimestampMillis: {Long},
	TimestampMicros: {Long},
	Decimal:         {Bytes, Fixed},
	UUID:            {String},
}

// Applies reports whether l is valid on base type t.
func (l LogicalType) Applies(t Type) bool {
	for _, b := range baseOf[l] {
		if b == t {
			return true
		}
	}
	return false
}

// Schema is a node in an Avro schema tree. Named types referenced more than
// once, including recursive references, share a single *Schema.
type Schema struct {
	Type Type
	// Name is the full name of a record, enum or fixed.
	Name string
	Doc  string

	Logical   LogicalType
	Precision int
	Scale     int
	Size      int

	Fields   []*Field
	Symbols  []string
	Items    *Schema
	Values   *Schema
	Branches []*Schema

	// Props holds attributes the parser did not interpret.
	Props map[string]any

	index map[string]int
}

// Field is a named member of a record.
type Field struct {
	Name       string
	Type       *Schema
	Default    any
	HasDefault bool
	Doc        string
	Aliases    []string
	Pos        int
}

// Field looks up a record field by name.
func (s *Schema) Field(name string) (*Field, bool) {
	if s == nil || s.Type != Record {
		return nil, false
	}
	i, ok := s.index[name]
	if !ok {
		return nil, false
	}
	return s.Fields[i], true
}

// HasField reports whether the record declares a field with the given name.
func (s *Schema) HasField(name string) bool {
	_, ok := s.Field(name)
	return ok
}

// ShortName returns the name without its namespace.
func (s *Schema) ShortName() string {
	if i := strings.LastIndexByte(s.Name, '.'); i >= 0 {
		return s.Name[i+1:]
	}
	return s.Name
}

// Namespace returns the namespace part of a full name.
func (s *Schema) Namespace() string {
	if i := strings.LastIndexByte(s.Name, '.'); i >= 0 {
		return s.Name[:i]
	}
	return ""
}

// HasSymbol reports whether sym is one of an enum's symbols.
func (s *Schema) HasSymbol(sym string) bool {
	for _, v := range s.Symbols {
		if v == sym {
			return true
		}
	}
	return false
}

// TypeName is the name Avro uses to tag a value of this schema inside a
// union: the full name for named types, the type name otherwise.
func (s *Schema) TypeName() string {
	if s.Type.IsNamed() {
		return s.Name
	}
	return s.Type.String()
}

// Describe renders a short human-readable type description used in error
// messages, e.g. "long(timestamp-millis)" or "union[null, string]".
func (s *Schema) Describe() string {
	if s == nil {
		return "<nil>"
	}
	switch s.Type {
	case Union:
		parts := make([]string, len(s.Branches))
		for i, b := range s.Branches {
			parts[i] = b.Describe()
		}
		return "union[" + strings.Join(parts, ", ") + "]"
	case Array:
		return "array<" + s.Items.Describe() + ">"
	case Map:
		return "map<" + s.Values.Describe() + ">"
	}
	base := s.TypeName()
	if s.Type.IsNamed() {
		base = s.Type.String() + " " + s.Name
	}
	if s.Logical != NoLogical {
		return base + "(" + string(s.Logical) + ")"
	}
	return base
}

// Nullable reports whether null is an acceptable value for s.
func (s *Schema) Nullable() bool {
	if s.Type == Null {
		return true
	}
	if s.Type == Union {
		for _, b := range s.Branches {
			if b.Type == Null {
				return true
			}
		}
	}
	return false
}

func (s *Schema) String() string {
	b, err := s.MarshalJSON()
	if err != nil {
		return s.Describe()
	}
	return string(b)
}

func (s *Schema) reindex() {
	s.index = make(map[string]int, len(s.Fields))
	for i, f := range s.Fields {
		f.Pos = i
		s.index[f.Name] = i
	}
}

// FieldNames returns the declared field names in order.
func (s *Schema) FieldNames() []string {
	out := make([]string, len(s.Fields))
	for i, f := range s.Fields {
		out[i] = f.Name
	}
	return out
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
