package avsc

import (
	json "github.com/goccy/go-json"
)

// MarshalJSON renders s in Avro's JSON schema form. A named type is written
// in full on first use and by name afterwards.
func (s *Schema) MarshalJSON() ([]byte, error) {
	return json.Marshal(toJSON(s, map[string]bool{}))
}

func toJSON(s *Schema, seen map[string]bool) any {
	if s.Type.IsNamed() {
		if seen[s.Name] {
			return s.Name
		}
		seen[s.Name] = true
	}
	if s.Type == Union {
		out := make([]any, len(s.Branches))
		for i, b := range s.Branches {
			out[i] = toJSON(b, seen)
		}
		return out
	}
	if s.Type.IsPrimitive() && s.Logical == NoLogical && len(s.Props) == 0 && s.Doc == "" {
		return s.Type.String()
	}
	m := map[string]any{"type": s.Type.String()}
	for k, v := range s.Props {
		m[k] = v
	}
	if s.Doc != "" {
		m["doc"] = s.Doc
	}
	if s.Type.IsNamed() {
		m["name"] = s.Name
	}
	if s.Logical != NoLogical {
		m["logicalType"] = string(s.Logical)
		if s.Logical == Decimal {
			m["precision"] = s.Precision
			m["scale"] = s.Scale
		}
	}
	switch s.Type {
	case Record:
		fields := make([]any, len(s.Fields))
		for i, f := range s.Fields {
			fm := map[string]any{"name": f.Name, "type": toJSON(f.Type, seen)}
			if f.HasDefault {
				fm["default"] = f.Default
			}
			if f.Doc != "" {
				fm["doc"] = f.Doc
			}
			if len(f.Aliases) > 0 {
				fm["aliases"] = f.Aliases
			}
			fields[i] = fm
		}
		m["fields"] = fields
	case Enum:
		m["symbols"] = s.Symbols
	case Fixed:
		m["size"] = s.Size
	case Array:
		m["items"] = toJSON(s.Items, seen)
	case Map:
		m["values"] = toJSON(s.Values, seen)
	}
	return m
}
