package jsonavro_test

import (
	"bytes"
	"reflect"
	"strings"
	"testing"

	jsonavro "github.com/reoring/jsonavro"
	"github.com/reoring/jsonavro/avsc"
)

func mustSchema(t *testing.T, src string) *avsc.Schema {
	t.Helper()
	s, err := avsc.Parse([]byte(src))
	if err != nil {
		t.Fatalf("schema: %v", err)
	}
	return s
}

func mustDoc(t *testing.T, src string) map[string]any {
	t.Helper()
	v, err := jsonavro.DecodeJSON([]byte(src), jsonavro.DecodeOpt{})
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	m, ok := v.(map[string]any)
	if !ok {
		t.Fatalf("not an object: %T", v)
	}
	return m
}

func firstIssue(t *testing.T, err error) jsonavro.Issue {
	t.Helper()
	iss, ok := jsonavro.AsIssues(err)
	if !ok || len(iss) == 0 {
		t.Fatalf("expected Issues, got %v", err)
	}
	return iss[0]
}

const primitivesSchema = `{
  "type": "record", "name": "P",
  "fields": [
    {"name": "b", "type": "boolean"},
    {"name": "i", "type": "int"},
    {"name": "l", "type": "long"},
    {"name": "f", "type": "float"},
    {"name": "d", "type": "double"},
    {"name": "s", "type": "string"},
    {"name": "raw", "type": "bytes"},
    {"name": "e", "type": {"type": "enum", "name": "Color", "symbols": ["RED", "GREEN"]}}
  ]
}`

func TestConvert_Primitives(t *testing.T) {
	s := mustSchema(t, primitivesSchema)
	doc := mustDoc(t, `{"b": true, "i": 42, "l": 9007199254740993, "f": 1.5, "d": 2.25, "s": "hi", "raw": "AB", "e": "GREEN"}`)
	rec, err := jsonavro.New(jsonavro.Options{}).Convert(doc, s)
	if err != nil {
		t.Fatalf("convert: %v", err)
	}
	want := map[string]any{
		"b": true, "i": int32(42), "l": int64(9007199254740993), "f": float32(1.5), "d": 2.25,
		"s": "hi", "raw": []byte("AB"), "e": jsonavro.EnumSymbol("GREEN"),
	}
	if got := rec.Map(); !reflect.DeepEqual(got, want) {
		t.Fatalf("got %#v\nwant %#v", got, want)
	}
}

func TestConvert_TypeMismatchNamesPath(t *testing.T) {
	s := mustSchema(t, `{"type": "record", "name": "R", "fields": [
		{"name": "user", "type": {"type": "record", "name": "U", "fields": [{"name": "age", "type": "int"}]}}
	]}`)
	_, err := jsonavro.New(jsonavro.Options{}).Convert(mustDoc(t, `{"user": {"age": "x"}}`), s)
	it := firstIssue(t, err)
	if it.Code != jsonavro.CodeTypeMismatch || it.Path != "user.age" {
		t.Fatalf("unexpected issue %+v", it)
	}
	if it.Message != `Field age is expected to be type: int, but it is: string` {
		t.Fatalf("unexpected message %q", it.Message)
	}
	if !strings.Contains(err.Error(), "type_mismatch at user.age") {
		t.Fatalf("unexpected error text %q", err.Error())
	}
}

func TestConvert_IntegerChecks(t *testing.T) {
	s := mustSchema(t, `{"type": "record", "name": "R", "fields": [{"name": "i", "type": "int"}]}`)
	c := jsonavro.New(jsonavro.Options{})
	for _, in := range []string{`{"i": 1.5}`, `{"i": 2147483648}`} {
		_, err := c.Convert(mustDoc(t, in), s)
		if !jsonavro.HasCode(err, jsonavro.CodeNumberFormat) {
			t.Fatalf("%s: expected number_format, got %v", in, err)
		}
	}
	rec, err := c.Convert(mustDoc(t, `{"i": 1e3}`), s)
	if err != nil || rec.Get("i") != int32(1000) {
		t.Fatalf("1e3 should convert to 1000: %v %v", rec, err)
	}
	rec, err = c.Convert(map[string]any{"i": 7}, s)
	if err != nil || rec.Get("i") != int32(7) {
		t.Fatalf("Go ints must be accepted: %v", err)
	}
}

func TestConvert_EnumMismatch(t *testing.T) {
	s := mustSchema(t, primitivesSchema)
	doc := mustDoc(t, `{"b": true, "i": 1, "l": 1, "f": 1, "d": 1, "s": "", "raw": "", "e": "BLUE"}`)
	_, err := jsonavro.New(jsonavro.Options{}).Convert(doc, s)
	it := firstIssue(t, err)
	if it.Code != jsonavro.CodeEnumMismatch || it.Path != "e" {
		t.Fatalf("unexpected issue %+v", it)
	}
	if !strings.Contains(it.Message, "[RED, GREEN]") || !strings.Contains(it.Message, "BLUE") {
		t.Fatalf("message should list symbols and value: %q", it.Message)
	}
}

func TestConvert_NullSkip(t *testing.T) {
	s := mustSchema(t, `{"type": "record", "name": "R", "fields": [
		{"name": "a", "type": ["null", "string"], "default": null},
		{"name": "b", "type": "int"}
	]}`)
	rec, err := jsonavro.New(jsonavro.Options{}).Convert(mustDoc(t, `{"a": null, "b": 1}`), s)
	if err != nil {
		t.Fatalf("convert: %v", err)
	}
	if rec.IsSet("a") || rec.Get("a") != nil {
		t.Fatalf("a must be left unset, got set=%v value=%v", rec.IsSet("a"), rec.Get("a"))
	}
	if !rec.IsSet("b") || rec.Get("b") != int32(1) {
		t.Fatalf("b = %v", rec.Get("b"))
	}
}

func TestConvert_NullForRequiredFieldIsMissing(t *testing.T) {
	s := mustSchema(t, `{"type": "record", "name": "R", "fields": [{"name": "b", "type": "int"}]}`)
	_, err := jsonavro.New(jsonavro.Options{}).Convert(mustDoc(t, `{"b": null}`), s)
	if it := firstIssue(t, err); it.Code != jsonavro.CodeMissingField || it.Path != "b" {
		t.Fatalf("unexpected issue %+v", it)
	}
}

func TestConvert_Defaults(t *testing.T) {
	s := mustSchema(t, `{"type": "record", "name": "R", "fields": [
		{"name": "n", "type": "int", "default": 7},
		{"name": "tags", "type": {"type": "array", "items": "string"}, "default": ["x"]},
		{"name": "when", "type": {"type": "int", "logicalType": "date"}, "default": 18628},
		{"name": "opt", "type": ["null", "long"]}
	]}`)
	rec, err := jsonavro.New(jsonavro.Options{}).Convert(map[string]any{}, s)
	if err != nil {
		t.Fatalf("convert: %v", err)
	}
	if rec.Get("n") != int32(7) || rec.IsSet("n") {
		t.Fatalf("n = %v", rec.Get("n"))
	}
	if !reflect.DeepEqual(rec.Get("tags"), []any{"x"}) {
		t.Fatalf("tags = %#v", rec.Get("tags"))
	}
	if rec.Get("when") != int32(18628) || rec.Get("opt") != nil {
		t.Fatalf("when=%v opt=%v", rec.Get("when"), rec.Get("opt"))
	}
}

func TestConvert_UnknownFieldDefault(t *testing.T) {
	s := mustSchema(t, `{"type": "record", "name": "R", "fields": [{"name": "a", "type": "int"}]}`)
	_, err := jsonavro.New(jsonavro.Options{}).Convert(mustDoc(t, `{"a": 1, "x": 1}`), s)
	it := firstIssue(t, err)
	if it.Code != jsonavro.CodeUnknownField || it.Path != "x" {
		t.Fatalf("unexpected issue %+v", it)
	}
}

func TestConvert_UnknownFieldNested(t *testing.T) {
	s := mustSchema(t, `{"type": "record", "name": "R", "fields": [
		{"name": "inner", "type": {"type": "record", "name": "I", "fields": []}}
	]}`)
	_, err := jsonavro.New(jsonavro.Options{}).Convert(mustDoc(t, `{"inner": {"zz": true}}`), s)
	if it := firstIssue(t, err); it.Path != "inner.zz" {
		t.Fatalf("unexpected path %q", it.Path)
	}
}

const extraSchema = `{"type": "record", "name": "R", "fields": [
	{"name": "a", "type": "int"},
	{"name": "extra_props", "type": ["null", {"type": "map", "values": "string"}], "default": null}
]}`

func TestConvert_AdditionalPropertiesFromSource(t *testing.T) {
	s := mustSchema(t, extraSchema)
	c := jsonavro.New(jsonavro.Options{ExtraPropsField: "extra_props", ExtraPropsSources: []string{"extra"}})
	rec, err := c.Convert(mustDoc(t, `{"a": 1, "extra": {"k": 1, "s": "v"}}`), s)
	if err != nil {
		t.Fatalf("convert: %v", err)
	}
	want := map[string]any{"k": "1", "s": "v"}
	if got := rec.Get("extra_props"); !reflect.DeepEqual(got, want) {
		t.Fatalf("extra_props = %#v", got)
	}
}

func TestConvert_AdditionalPropertiesHarvestUnknown(t *testing.T) {
	s := mustSchema(t, extraSchema)
	c := jsonavro.New(jsonavro.Options{ExtraPropsField: "extra_props"})
	rec, err := c.Convert(mustDoc(t, `{"a": 1, "obj": {"n": [1, true]}, "str": "plain", "num": 2.5}`), s)
	if err != nil {
		t.Fatalf("convert: %v", err)
	}
	want := map[string]any{"obj": `{"n":[1,true]}`, "str": "plain", "num": "2.5"}
	if got := rec.Get("extra_props"); !reflect.DeepEqual(got, want) {
		t.Fatalf("extra_props = %#v", got)
	}
}

func TestConvert_AdditionalPropertiesAbsentWhenEmpty(t *testing.T) {
	s := mustSchema(t, extraSchema)
	rec, err := jsonavro.New(jsonavro.Options{ExtraPropsField: "extra_props"}).Convert(mustDoc(t, `{"a": 1}`), s)
	if err != nil {
		t.Fatalf("convert: %v", err)
	}
	if rec.IsSet("extra_props") {
		t.Fatalf("catch-all must stay unset when nothing was harvested")
	}
}

func TestConvert_DefaultExtraPropsNames(t *testing.T) {
	s := mustSchema(t, `{"type": "record", "name": "R", "fields": [
		{"name": "_airbyte_additional_properties", "type": ["null", {"type": "map", "values": "string"}], "default": null}
	]}`)
	rec, err := jsonavro.New(jsonavro.Options{}).Convert(mustDoc(t, `{"_ab_additional_properties": {"x": "1"}, "y": false}`), s)
	if err != nil {
		t.Fatalf("convert: %v", err)
	}
	want := map[string]any{"x": "1", "y": "false"}
	if got := rec.Get("_airbyte_additional_properties"); !reflect.DeepEqual(got, want) {
		t.Fatalf("got %#v", got)
	}
}

func TestSerializeExtraProp(t *testing.T) {
	cases := []struct {
		in   any
		want string
	}{
		{"v", "v"},
		{true, "true"},
		{nil, "null"},
		{map[string]any{"b": 1, "a": "x"}, `{"a":"x","b":1}`},
		{[]any{"x", 2}, `["x",2]`},
	}
	for _, tc := range cases {
		got, err := jsonavro.SerializeExtraProp(tc.in)
		if err != nil || got != tc.want {
			t.Fatalf("SerializeExtraProp(%v) = %q, %v; want %q", tc.in, got, err, tc.want)
		}
	}
}

func TestConvert_NameTransform(t *testing.T) {
	s := mustSchema(t, `{"type": "record", "name": "R", "fields": [{"name": "user_id", "type": "long"}]}`)
	c := jsonavro.New(jsonavro.Options{NameTransform: func(k string) string { return strings.ReplaceAll(strings.ToLower(k), "-", "_") }})
	rec, err := c.Convert(mustDoc(t, `{"User-ID": 5}`), s)
	if err != nil || rec.Get("user_id") != int64(5) {
		t.Fatalf("got %v, %v", rec, err)
	}
}

func TestConvert_NameTransformCollision(t *testing.T) {
	s := mustSchema(t, `{"type": "record", "name": "R", "fields": [{"name": "a", "type": "int"}]}`)
	c := jsonavro.New(jsonavro.Options{NameTransform: strings.ToLower})
	_, err := c.Convert(mustDoc(t, `{"A": 1, "a": 2}`), s)
	it := firstIssue(t, err)
	if it.Code != jsonavro.CodeDuplicateKey || it.Path != "a" || !strings.Contains(it.Message, "Field a") {
		t.Fatalf("unexpected issue %+v", it)
	}
	rec, err := c.Convert(mustDoc(t, `{"A": null, "a": 2}`), s)
	if err != nil || rec.Get("a") != int32(2) {
		t.Fatalf("null key should not collide: %v, %v", rec, err)
	}
}

func TestConvert_ArraysAndMaps(t *testing.T) {
	s := mustSchema(t, `{"type": "record", "name": "R", "fields": [
		{"name": "xs", "type": {"type": "array", "items": "int"}},
		{"name": "m", "type": {"type": "map", "values": {"type": "array", "items": "string"}}}
	]}`)
	c := jsonavro.New(jsonavro.Options{})
	rec, err := c.Convert(mustDoc(t, `{"xs": [1, 2], "m": {"k": ["a"]}}`), s)
	if err != nil {
		t.Fatalf("convert: %v", err)
	}
	if !reflect.DeepEqual(rec.Get("xs"), []any{int32(1), int32(2)}) {
		t.Fatalf("xs = %#v", rec.Get("xs"))
	}
	if !reflect.DeepEqual(rec.Get("m"), map[string]any{"k": []any{"a"}}) {
		t.Fatalf("m = %#v", rec.Get("m"))
	}
	_, err = c.Convert(mustDoc(t, `{"xs": [1, "two"], "m": {}}`), s)
	if it := firstIssue(t, err); it.Code != jsonavro.CodeTypeMismatch || it.Path != "xs" {
		t.Fatalf("unexpected issue %+v", it)
	}
}

func TestConvert_RootMustBeRecord(t *testing.T) {
	_, err := jsonavro.New(jsonavro.Options{}).Convert(map[string]any{}, avsc.Primitive(avsc.String))
	if !jsonavro.HasCode(err, jsonavro.CodeUnsupportedType) {
		t.Fatalf("expected unsupported_type, got %v", err)
	}
}

func TestConvert_FixedIsUnsupported(t *testing.T) {
	s := mustSchema(t, `{"type": "record", "name": "R", "fields": [
		{"name": "h", "type": ["null", {"type": "fixed", "name": "Hash", "size": 4}]}
	]}`)
	_, err := jsonavro.New(jsonavro.Options{}).Convert(mustDoc(t, `{"h": "abcd"}`), s)
	if !jsonavro.HasCode(err, jsonavro.CodeUnsupportedType) {
		t.Fatalf("expected unsupported_type from inside the union, got %v", err)
	}
}

func TestConvertValue(t *testing.T) {
	s := avsc.NewArray(avsc.NewLogical(avsc.Long, avsc.TimestampMillis))
	v, err := jsonavro.New(jsonavro.Options{}).ConvertValue("ts", s, []any{"1970-01-01T00:00:01Z", 5})
	if err != nil {
		t.Fatalf("convert: %v", err)
	}
	if !reflect.DeepEqual(v, []any{int64(1000), int64(5)}) {
		t.Fatalf("got %#v", v)
	}
}

func TestConvertBytes(t *testing.T) {
	s := mustSchema(t, `{"type": "record", "name": "R", "fields": [{"name": "a", "type": "int"}]}`)
	c := jsonavro.New(jsonavro.Options{Decode: jsonavro.DecodeOpt{OnDuplicateKey: jsonavro.Error}})
	if _, err := c.ConvertBytes([]byte(`{"a": 1, "a": 2}`), s); !jsonavro.HasCode(err, jsonavro.CodeDuplicateKey) {
		t.Fatalf("expected duplicate_key, got %v", err)
	}
	if _, err := c.ConvertBytes([]byte(`[1]`), s); !jsonavro.HasCode(err, jsonavro.CodeTypeMismatch) {
		t.Fatalf("expected type_mismatch for non-object root, got %v", err)
	}
	if _, err := c.ConvertBytes([]byte(`{"a": `), s); !jsonavro.HasCode(err, jsonavro.CodeParseError) {
		t.Fatalf("expected parse_error, got %v", err)
	}

	sel := jsonavro.New(jsonavro.Options{Decode: jsonavro.DecodeOpt{Select: "payload.after"}})
	rec, err := sel.ConvertBytes([]byte(`{"payload": {"after": {"a": 3}}}`), s)
	if err != nil || rec.Get("a") != int32(3) {
		t.Fatalf("selector: %v, %v", rec, err)
	}
}

func TestConvertReader(t *testing.T) {
	s := mustSchema(t, `{"type": "record", "name": "R", "fields": [{"name": "a", "type": "int"}]}`)
	var got []any
	err := jsonavro.New(jsonavro.Options{}).ConvertReader(bytes.NewBufferString(`[{"a": 1}, {"a": 2}] {"a": 3}`), s, func(i int, rec *jsonavro.Record) error {
		got = append(got, rec.Get("a"))
		return nil
	})
	if err != nil {
		t.Fatalf("convert: %v", err)
	}
	if !reflect.DeepEqual(got, []any{int32(1), int32(2), int32(3)}) {
		t.Fatalf("got %v", got)
	}

	err = jsonavro.New(jsonavro.Options{}).ConvertReader(bytes.NewBufferString(`{"a": 1} {"a": "x"}`), s, func(int, *jsonavro.Record) error { return nil })
	if !jsonavro.HasCode(err, jsonavro.CodeTypeMismatch) || !strings.Contains(err.Error(), "document 1") {
		t.Fatalf("expected wrapped type_mismatch for document 1, got %v", err)
	}
}
