package avsc_test

import (
	"errors"
	"sync"
	"testing"

	"github.com/reoring/jsonavro/avsc"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const userSchema = `{
  "type": "record",
  "name": "User",
  "namespace": "com.example",
  "fields": [
    {"name": "id", "type": "long"},
    {"name": "name", "type": ["null", "string"], "default": null},
    {"name": "born", "type": {"type": "int", "logicalType": "date"}},
    {"name": "balance", "type": {"type": "bytes", "logicalType": "decimal", "precision": 10, "scale": 2}},
    {"name": "role", "type": {"type": "enum", "name": "Role", "symbols": ["ADMIN", "USER"]}},
    {"name": "tags", "type": {"type": "array", "items": "string"}},
    {"name": "attrs", "type": {"type": "map", "values": "long"}},
    {"name": "boss", "type": ["null", "User"], "default": null},
    {"name": "other_role", "type": "Role"}
  ]
}`

func TestParse_Record(t *testing.T) {
	s, err := avsc.Parse([]byte(userSchema))
	require.NoError(t, err)
	assert.Equal(t, avsc.Record, s.Type)
	assert.Equal(t, "com.example.User", s.Name)
	assert.Equal(t, "User", s.ShortName())
	assert.Equal(t, "com.example", s.Namespace())
	assert.Equal(t, []string{"id", "name", "born", "balance", "role", "tags", "attrs", "boss", "other_role"}, s.FieldNames())

	name, ok := s.Field("name")
	require.True(t, ok)
	assert.True(t, name.HasDefault)
	assert.Nil(t, name.Default)
	assert.True(t, name.Type.Nullable())
	assert.Equal(t, 1, name.Pos)

	born, _ := s.Field("born")
	assert.Equal(t, avsc.Int, born.Type.Type)
	assert.Equal(t, avsc.Date, born.Type.Logical)

	bal, _ := s.Field("balance")
	assert.Equal(t, avsc.Decimal, bal.Type.Logical)
	assert.Equal(t, 10, bal.Type.Precision)
	assert.Equal(t, 2, bal.Type.Scale)

	role, _ := s.Field("role")
	other, _ := s.Field("other_role")
	assert.Same(t, role.Type, other.Type)
	assert.Equal(t, "com.example.Role", role.Type.Name)
	assert.True(t, role.Type.HasSymbol("ADMIN"))

	boss, _ := s.Field("boss")
	assert.Same(t, s, boss.Type.Branches[1])
	assert.False(t, s.HasField("missing"))
}

func TestParse_Primitives(t *testing.T) {
	for name, want := range map[string]avsc.Type{
		`"null"`: avsc.Null, `"boolean"`: avsc.Boolean, `"int"`: avsc.Int, `"long"`: avsc.Long,
		`"float"`: avsc.Float, `"double"`: avsc.Double, `"bytes"`: avsc.Bytes, `"string"`: avsc.String,
		`{"type": "string"}`: avsc.String,
	} {
		s, err := avsc.Parse([]byte(name))
		require.NoError(t, err, name)
		assert.Equal(t, want, s.Type, name)
	}
}

func TestParse_LogicalOnWrongBaseIsIgnored(t *testing.T) {
	s, err := avsc.Parse([]byte(`{"type": "string", "logicalType": "date"}`))
	require.NoError(t, err)
	assert.Equal(t, avsc.NoLogical, s.Logical)
	assert.Equal(t, "date", s.Props["logicalType"])
}

func TestParse_Invalid(t *testing.T) {
	cases := []string{
		`"nope"`,
		`{"type": "record", "fields": []}`,
		`{"type": "record", "name": "R"}`,
		`{"type": "record", "name": "R", "fields": [{"name": "a", "type": "int"}, {"name": "a", "type": "int"}]}`,
		`["int", "int"]`,
		`["int", ["null"]]`,
		`{"type": "bytes", "logicalType": "decimal", "precision": 2, "scale": 3}`,
		`{"type": "enum", "name": "E", "symbols": ["A", "A"]}`,
		`{"type": "array"}`,
		`{"type": "fixed", "name": "F"}`,
		`42`,
	}
	for _, src := range cases {
		_, err := avsc.Parse([]byte(src))
		require.Error(t, err, src)
		assert.True(t, errors.Is(err, avsc.ErrInvalidSchema), "%s: %v", src, err)
	}
	_, err := avsc.Parse([]byte(`{`))
	assert.Error(t, err)
}

func TestParseYAML(t *testing.T) {
	src := `
type: record
name: Event
fields:
  - name: at
    type: {type: long, logicalType: timestamp-micros}
  - name: amount
    type: {type: bytes, logicalType: decimal, precision: 6, scale: 3}
  - name: id
    type: {type: string, logicalType: uuid}
`
	s, err := avsc.ParseYAML([]byte(src))
	require.NoError(t, err)
	at, _ := s.Field("at")
	assert.Equal(t, avsc.TimestampMicros, at.Type.Logical)
	amount, _ := s.Field("amount")
	assert.Equal(t, 3, amount.Type.Scale)
	id, _ := s.Field("id")
	assert.Equal(t, avsc.UUID, id.Type.Logical)
}

func TestMarshalJSON_RoundTrip(t *testing.T) {
	s := avsc.MustParse(userSchema)
	b, err := s.MarshalJSON()
	require.NoError(t, err)
	again, err := avsc.Parse(b)
	require.NoError(t, err)
	assert.Equal(t, s.FieldNames(), again.FieldNames())
	boss, _ := again.Field("boss")
	assert.Same(t, again, boss.Type.Branches[1])
	bal, _ := again.Field("balance")
	assert.Equal(t, 2, bal.Type.Scale)
}

func TestBuilders(t *testing.T) {
	s := avsc.NewRecord("R",
		avsc.NewField("a", avsc.Primitive(avsc.Int)),
		avsc.NewField("b", avsc.Optional(avsc.Primitive(avsc.String))).WithDefault(nil),
		avsc.NewField("d", avsc.NewDecimal(5, 2)),
	)
	assert.True(t, s.HasField("b"))
	b, _ := s.Field("b")
	assert.True(t, b.HasDefault)
	assert.Equal(t, "union[null, string]", b.Type.Describe())
	d, _ := s.Field("d")
	assert.Equal(t, "bytes(decimal)", d.Type.Describe())
	assert.Equal(t, "array<map<long>>", avsc.NewArray(avsc.NewMap(avsc.Primitive(avsc.Long))).Describe())
	assert.Equal(t, "record R", s.Describe())
}

func TestCache(t *testing.T) {
	c := avsc.NewCache()
	var wg sync.WaitGroup
	out := make([]*avsc.Schema, 8)
	for i := range out {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			s, err := c.Get([]byte(userSchema))
			if err == nil {
				out[i] = s
			}
		}(i)
	}
	wg.Wait()
	first := out[0]
	require.NotNil(t, first)
	for _, s := range out {
		assert.Same(t, first, s)
	}
	assert.Equal(t, 1, c.Len())

	_, err := c.Get([]byte(`"bogus"`))
	assert.Error(t, err)
	assert.Equal(t, 1, c.Len())
}
