package jsonavro

// Default additional-properties names.
const (
	// DefaultExtraPropsField is the catch-all field that receives JSON fields
	// the schema does not declare.
	DefaultExtraPropsField = "_airbyte_additional_properties"
)

// DefaultExtraPropsSources lists JSON field names whose object value is
// merged wholesale into the additional properties.
var DefaultExtraPropsSources = []string{"_ab_additional_properties", "_airbyte_additional_properties"}

// Severity expresses the severity level for input enforcement.
type Severity int

const (
	Ignore Severity = iota
	Warn
	Error
)

// DecodeOpt bundles options for turning JSON bytes into a value tree.
type DecodeOpt struct {
	OnDuplicateKey Severity // Ignore, Warn (reported via OnWarning) or Error.
	MaxDepth       int      // 0 means unlimited.
	MaxBytes       int64    // 0 means unlimited.
	// Select is an optional gjson path; only the matching sub-document is
	// decoded (for example "payload.after").
	Select string
	// OnWarning receives non-fatal issues such as duplicate keys under Warn.
	OnWarning func(Issue)
}

// Options configures a Converter. The zero value is usable: identity name
// transform, default additional-properties names, unknown fields rejected,
// no failure hook.
type Options struct {
	// NameTransform maps a JSON key to the schema field name it is matched
	// against. Nil means identity.
	NameTransform func(string) string
	// ExtraPropsSources are JSON field names whose object value is merged
	// into the additional properties instead of being converted. Nil means
	// DefaultExtraPropsSources; an empty non-nil slice disables the merge.
	ExtraPropsSources []string
	// ExtraPropsField is the catch-all map field. Empty means
	// DefaultExtraPropsField.
	ExtraPropsField string
	// UnknownField handles JSON fields that have no schema field when no
	// catch-all field exists. Nil means FailOnUnknownField.
	UnknownField UnknownFieldListener
	// OnFieldFailure, when set, receives field conversion errors and may
	// substitute a value. Nil means errors propagate.
	OnFieldFailure FieldFailureListener
	// Converters are consulted before the built-in converters, in order.
	Converters []TypeConverter
	// Decode applies to ConvertBytes and ConvertReader.
	Decode DecodeOpt
}

func (o Options) withDefaults() Options {
	if o.NameTransform == nil {
		o.NameTransform = func(s string) string { return s }
	}
	if o.ExtraPropsSources == nil {
		o.ExtraPropsSources = DefaultExtraPropsSources
	}
	if o.ExtraPropsField == "" {
		o.ExtraPropsField = DefaultExtraPropsField
	}
	if o.UnknownField == nil {
		o.UnknownField = FailOnUnknownField
	}
	return o
}
