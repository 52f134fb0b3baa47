package avsc

import (
	"bytes"
	"errors"
	"fmt"
	"strconv"
	"strings"

	json "github.com/goccy/go-json"
	"gopkg.in/yaml.v3"
)

// ErrInvalidSchema is wrapped by every error Parse and ParseYAML return for a
// well-formed document that is not a valid Avro schema.
var ErrInvalidSchema = errors.New("avsc: invalid schema")

// Parse reads an Avro schema from its JSON form.
func Parse(data []byte) (*Schema, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, fmt.Errorf("avsc: decode schema: %w", err)
	}
	return FromValue(v)
}

// ParseYAML reads an Avro schema written as YAML.
func ParseYAML(data []byte) (*Schema, error) {
	var v any
	if err := yaml.Unmarshal(data, &v); err != nil {
		return nil, fmt.Errorf("avsc: decode yaml schema: %w", err)
	}
	return FromValue(normalizeYAML(v))
}

// MustParse is like Parse but panics on error.
func MustParse(src string) *Schema {
	s, err := Parse([]byte(src))
	if err != nil {
		panic(err)
	}
	return s
}

// FromValue builds a schema from an already decoded JSON value.
func FromValue(v any) (*Schema, error) {
	p := &parser{names: map[string]*Schema{}}
	return p.parse(v, "", "$")
}

type parser struct {
	names map[string]*Schema
}

func invalid(at, format string, args ...any) error {
	return fmt.Errorf("%w at %s: %s", ErrInvalidSchema, at, fmt.Sprintf(format, args...))
}

func (p *parser) parse(v any, ns, at string) (*Schema, error) {
	switch t := v.(type) {
	case string:
		return p.named(t, ns, at)
	case []any:
		return p.union(t, ns, at)
	case map[string]any:
		return p.complex(t, ns, at)
	default:
		return nil, invalid(at, "unexpected %T", v)
	}
}

func (p *parser) named(name, ns, at string) (*Schema, error) {
	if t, ok := typeByName(name); ok && t.IsPrimitive() {
		return Primitive(t), nil
	}
	if !strings.Contains(name, ".") && ns != "" {
		if s, ok := p.names[ns+"."+name]; ok {
			return s, nil
		}
	}
	if s, ok := p.names[name]; ok {
		return s, nil
	}
	return nil, invalid(at, "unknown type %q", name)
}

func (p *parser) union(items []any, ns, at string) (*Schema, error) {
	u := &Schema{Type: Union, Branches: make([]*Schema, 0, len(items))}
	seen := map[string]bool{}
	for i, it := range items {
		b, err := p.parse(it, ns, at+"["+strconv.Itoa(i)+"]")
		if err != nil {
			return nil, err
		}
		if b.Type == Union {
			return nil, invalid(at, "union may not immediately contain another union")
		}
		key := b.TypeName()
		if seen[key] {
			return nil, invalid(at, "duplicate %s in union", key)
		}
		seen[key] = true
		u.Branches = append(u.Branches, b)
	}
	return u, nil
}

func (p *parser) complex(m map[string]any, ns, at string) (*Schema, error) {
	raw, ok := m["type"]
	if !ok {
		return nil, invalid(at, "missing \"type\"")
	}
	tn, ok := raw.(string)
	if !ok {
		// {"type": {...}} and {"type": [...]} wrap another schema.
		return p.parse(raw, ns, at+".type")
	}
	t, ok := typeByName(tn)
	if !ok {
		s, err := p.named(tn, ns, at)
		if err != nil {
			return nil, err
		}
		return s, nil
	}
	var s *Schema
	var err error
	switch t {
	case Record:
		s, err = p.record(m, ns, at)
	case Enum:
		s, err = p.enum(m, ns, at)
	case Fixed:
		s, err = p.fixed(m, ns, at)
	case Array:
		items, ok := m["items"]
		if !ok {
			return nil, invalid(at, "array without \"items\"")
		}
		s = &Schema{Type: Array}
		s.Items, err = p.parse(items, ns, at+".items")
	case Map:
		values, ok := m["values"]
		if !ok {
			return nil, invalid(at, "map without \"values\"")
		}
		s = &Schema{Type: Map}
		s.Values, err = p.parse(values, ns, at+".values")
	default:
		s = Primitive(t)
	}
	if err != nil {
		return nil, err
	}
	if err := p.logical(s, m, at); err != nil {
		return nil, err
	}
	if d, ok := m["doc"].(string); ok {
		s.Doc = d
	}
	for _, k := range sortedKeys(m) {
		if reserved[k] {
			continue
		}
		if s.Props == nil {
			s.Props = map[string]any{}
		}
		s.Props[k] = m[k]
	}
	return s, nil
}

var reserved = map[string]bool{
	"type": true, "name": true, "namespace": true, "doc": true, "fields": true,
	"symbols": true, "items": true, "values": true, "size": true, "aliases": true,
	"logicalType": true, "precision": true, "scale": true, "default": true,
}

// logical applies a "logicalType" attribute. Annotations on a base type they
// do not apply to are ignored, as Avro prescribes.
func (p *parser) logical(s *Schema, m map[string]any, at string) error {
	lt, ok := m["logicalType"].(string)
	if !ok {
		return nil
	}
	l := LogicalType(lt)
	if !l.Applies(s.Type) {
		if s.Props == nil {
			s.Props = map[string]any{}
		}
		s.Props["logicalType"] = lt
		return nil
	}
	if l == Decimal {
		prec, ok := intAttr(m["precision"])
		if !ok || prec <= 0 {
			return invalid(at, "decimal requires a positive precision")
		}
		scale := 0
		if raw, has := m["scale"]; has {
			if scale, ok = intAttr(raw); !ok || scale < 0 || scale > prec {
				return invalid(at, "decimal scale must be between 0 and precision")
			}
		}
		s.Precision, s.Scale = prec, scale
	}
	s.Logical = l
	return nil
}

func (p *parser) fullName(m map[string]any, ns, at string) (string, string, error) {
	name, _ := m["name"].(string)
	if name == "" {
		return "", "", invalid(at, "named type without \"name\"")
	}
	if i := strings.LastIndexByte(name, '.'); i >= 0 {
		return name, name[:i], nil
	}
	if n, ok := m["namespace"].(string); ok {
		ns = n
	}
	if ns == "" {
		return name, "", nil
	}
	return ns + "." + name, ns, nil
}

func (p *parser) define(s *Schema, at string) error {
	if _, dup := p.names[s.Name]; dup {
		return invalid(at, "type %q redefined", s.Name)
	}
	p.names[s.Name] = s
	return nil
}

func (p *parser) record(m map[string]any, ns, at string) (*Schema, error) {
	full, inner, err := p.fullName(m, ns, at)
	if err != nil {
		return nil, err
	}
	s := &Schema{Type: Record, Name: full}
	if err := p.define(s, at); err != nil {
		return nil, err
	}
	raw, ok := m["fields"].([]any)
	if !ok {
		return nil, invalid(at, "record %s without \"fields\"", full)
	}
	for i, rf := range raw {
		fat := at + ".fields[" + strconv.Itoa(i) + "]"
		fm, ok := rf.(map[string]any)
		if !ok {
			return nil, invalid(fat, "field must be an object")
		}
		name, _ := fm["name"].(string)
		if name == "" {
			return nil, invalid(fat, "field without \"name\"")
		}
		ft, ok := fm["type"]
		if !ok {
			return nil, invalid(fat, "field %s without \"type\"", name)
		}
		typ, err := p.parse(ft, inner, fat+".type")
		if err != nil {
			return nil, err
		}
		f := &Field{Name: name, Type: typ}
		if d, has := fm["default"]; has {
			f.Default, f.HasDefault = d, true
		}
		if d, ok := fm["doc"].(string); ok {
			f.Doc = d
		}
		if al, ok := fm["aliases"].([]any); ok {
			for _, a := range al {
				if as, ok := a.(string); ok {
					f.Aliases = append(f.Aliases, as)
				}
			}
		}
		if s.HasField(name) {
			return nil, invalid(fat, "duplicate field %q", name)
		}
		s.Fields = append(s.Fields, f)
		s.reindex()
	}
	if s.index == nil {
		s.reindex()
	}
	return s, nil
}

func (p *parser) enum(m map[string]any, ns, at string) (*Schema, error) {
	full, _, err := p.fullName(m, ns, at)
	if err != nil {
		return nil, err
	}
	raw, ok := m["symbols"].([]any)
	if !ok {
		return nil, invalid(at, "enum %s without \"symbols\"", full)
	}
	s := &Schema{Type: Enum, Name: full}
	for _, r := range raw {
		sym, ok := r.(string)
		if !ok {
			return nil, invalid(at, "enum symbols must be strings")
		}
		if s.HasSymbol(sym) {
			return nil, invalid(at, "duplicate enum symbol %q", sym)
		}
		s.Symbols = append(s.Symbols, sym)
	}
	return s, p.define(s, at)
}

func (p *parser) fixed(m map[string]any, ns, at string) (*Schema, error) {
	full, _, err := p.fullName(m, ns, at)
	if err != nil {
		return nil, err
	}
	size, ok := intAttr(m["size"])
	if !ok || size < 0 {
		return nil, invalid(at, "fixed %s requires a non-negative \"size\"", full)
	}
	s := &Schema{Type: Fixed, Name: full, Size: size}
	return s, p.define(s, at)
}

func intAttr(v any) (int, bool) {
	switch n := v.(type) {
	case json.Number:
		i, err := n.Int64()
		return int(i), err == nil
	case int:
		return n, true
	case int64:
		return int(n), true
	case uint64:
		return int(n), true
	case float64:
		if n != float64(int(n)) {
			return 0, false
		}
		return int(n), true
	}
	return 0, false
}

// normalizeYAML converts YAML-decoded values (which may contain map[any]any)
// into JSON-like values recursively.
func normalizeYAML(v any) any {
	switch t := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, vv := range t {
			out[k] = normalizeYAML(vv)
		}
		return out
	case map[any]any:
		out := make(map[string]any, len(t))
		for k, vv := range t {
			ks, ok := k.(string)
			if !ok {
				ks = fmt.Sprint(k)
			}
			out[ks] = normalizeYAML(vv)
		}
		return out
	case []any:
		arr := make([]any, len(t))
		for i := range t {
			arr[i] = normalizeYAML(t[i])
		}
		return arr
	default:
		return v
	}
}
