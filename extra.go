package jsonavro

import (
	"sort"

	json "github.com/goccy/go-json"
)

// SerializeExtraProp renders a JSON value for the additional-properties map:
// strings verbatim, everything else as compact JSON text.
func SerializeExtraProp(v any) (string, error) {
	if s, ok := v.(string); ok {
		return s, nil
	}
	b, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// extraProps accumulates additional properties for one record conversion.
type extraProps map[string]any

func (e extraProps) put(key string, v any, at Path) error {
	s, err := SerializeExtraProp(v)
	if err != nil {
		return withCause(issue(CodeTypeMismatch, at.Enter(key).String(), v, map[string]string{
			"field":    key,
			"expected": "JSON serializable value",
			"actual":   jsonKind(v),
		}), err)
	}
	e[key] = s
	return nil
}

// merge adds every entry of an extra-properties container object.
func (e extraProps) merge(obj map[string]any, at Path) error {
	for _, k := range sortedKeys(obj) {
		if err := e.put(k, obj[k], at); err != nil {
			return err
		}
	}
	return nil
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
