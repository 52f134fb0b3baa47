package avsc

// Constructors for assembling schemas in code.

// Primitive returns a schema for one of the primitive types.
func Primitive(t Type) *Schema { return &Schema{Type: t} }

// NewLogical returns base annotated with a logical type.
func NewLogical(base Type, l LogicalType) *Schema { return &Schema{Type: base, Logical: l} }

// NewDecimal returns a bytes-backed decimal schema.
func NewDecimal(precision, scale int) *Schema {
	return &Schema{Type: Bytes, Logical: Decimal, Precision: precision, Scale: scale}
}

// NewRecord returns a record schema with the given full name and fields.
func NewRecord(name string, fields ...*Field) *Schema {
	s := &Schema{Type: Record, Name: name, Fields: fields}
	s.reindex()
	return s
}

// NewField returns a field without a default value.
func NewField(name string, t *Schema) *Field { return &Field{Name: name, Type: t} }

// WithDefault sets the field's default value (in its JSON form).
func (f *Field) WithDefault(v any) *Field {
	f.Default = v
	f.HasDefault = true
	return f
}

// NewArray returns an array schema.
func NewArray(items *Schema) *Schema { return &Schema{Type: Array, Items: items} }

// NewMap returns a map schema with string keys.
func NewMap(values *Schema) *Schema { return &Schema{Type: Map, Values: values} }

// NewUnion returns a union of the given branches in declaration order.
func NewUnion(branches ...*Schema) *Schema { return &Schema{Type: Union, Branches: branches} }

// NewEnum returns an enum schema.
func NewEnum(name string, symbols ...string) *Schema {
	return &Schema{Type: Enum, Name: name, Symbols: symbols}
}

// NewFixed returns a fixed-size schema.
func NewFixed(name string, size int) *Schema { return &Schema{Type: Fixed, Name: name, Size: size} }

// Optional wraps t into union[null, t].
func Optional(t *Schema) *Schema { return NewUnion(Primitive(Null), t) }
