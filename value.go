package jsonavro

import (
	"math"
	"math/big"
	"strconv"

	json "github.com/goccy/go-json"
)

// jsonKind names the JSON kind of a decoded value.
func jsonKind(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case bool:
		return "boolean"
	case string:
		return "string"
	case []any:
		return "array"
	case map[string]any:
		return "object"
	}
	if _, ok := numberText(v); ok {
		return "number"
	}
	return "unknown"
}

// describeValue renders v as compact JSON for messages.
func describeValue(v any) string {
	const limit = 120
	b, err := json.Marshal(v)
	if err != nil {
		return jsonKind(v)
	}
	if len(b) > limit {
		return string(b[:limit]) + "..."
	}
	return string(b)
}

// numberText returns the literal text of a JSON number in any of the Go
// forms a decoder may produce.
func numberText(v any) (string, bool) {
	switch n := v.(type) {
	case json.Number:
		return string(n), true
	case float64:
		if math.IsNaN(n) || math.IsInf(n, 0) {
			return "", false
		}
		return strconv.FormatFloat(n, 'f', -1, 64), true
	case float32:
		f := float64(n)
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return "", false
		}
		return strconv.FormatFloat(f, 'f', -1, 32), true
	case int:
		return strconv.FormatInt(int64(n), 10), true
	case int8:
		return strconv.FormatInt(int64(n), 10), true
	case int16:
		return strconv.FormatInt(int64(n), 10), true
	case int32:
		return strconv.FormatInt(int64(n), 10), true
	case int64:
		return strconv.FormatInt(n, 10), true
	case uint:
		return strconv.FormatUint(uint64(n), 10), true
	case uint8:
		return strconv.FormatUint(uint64(n), 10), true
	case uint16:
		return strconv.FormatUint(uint64(n), 10), true
	case uint32:
		return strconv.FormatUint(uint64(n), 10), true
	case uint64:
		return strconv.FormatUint(n, 10), true
	}
	return "", false
}

// integerOf parses a number that must be integral and within [lo, hi].
// ok is false when v is not a number at all; err is set when it is a number
// that does not qualify.
func integerOf(v any, lo, hi int64) (n int64, ok bool, err error) {
	text, ok := numberText(v)
	if !ok {
		return 0, false, nil
	}
	if i, perr := strconv.ParseInt(text, 10, 64); perr == nil {
		if i < lo || i > hi {
			return 0, true, strconv.ErrRange
		}
		return i, true, nil
	}
	// 1e3, 5.0 and friends are integral even though not written as such.
	r, okr := new(big.Rat).SetString(text)
	if !okr || !r.IsInt() {
		return 0, true, strconv.ErrSyntax
	}
	if !r.Num().IsInt64() {
		return 0, true, strconv.ErrRange
	}
	i := r.Num().Int64()
	if i < lo || i > hi {
		return 0, true, strconv.ErrRange
	}
	return i, true, nil
}

// floatOf parses a number as a float64.
func floatOf(v any) (float64, bool, error) {
	text, ok := numberText(v)
	if !ok {
		return 0, false, nil
	}
	f, err := strconv.ParseFloat(text, 64)
	return f, true, err
}
