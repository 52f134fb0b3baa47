package codec

import (
	"strings"
	"time"

	json "github.com/goccy/go-json"

	jsonavro "github.com/reoring/jsonavro"
	"github.com/reoring/jsonavro/avsc"
	"github.com/reoring/jsonavro/internal/decimal"
)

// ToJSON renders rec as a plain JSON object tree. Union values are not
// wrapped. Logical types are written back as text: dates as "2006-01-02",
// times of day as "15:04:05.000", timestamps in RFC 3339 (UTC) and decimals
// as plain decimal strings. Bytes and fixed values become strings with one
// character per byte, as in the Avro JSON encoding.
func ToJSON(rec *jsonavro.Record) map[string]any {
	s := rec.Schema()
	out := make(map[string]any, len(s.Fields))
	for _, f := range s.Fields {
		out[f.Name] = jsonValue(f.Type, rec.Get(f.Name))
	}
	return out
}

// MarshalJSON encodes ToJSON(rec).
func MarshalJSON(rec *jsonavro.Record) ([]byte, error) {
	return json.Marshal(ToJSON(rec))
}

func jsonValue(s *avsc.Schema, v any) any {
	if v == nil {
		return nil
	}
	switch s.Type {
	case avsc.Union:
		if b, ok := branchOf(s, v); ok {
			return jsonValue(b, v)
		}
		return v
	case avsc.Record:
		if r, ok := v.(*jsonavro.Record); ok {
			return ToJSON(r)
		}
	case avsc.Array:
		if items, ok := v.([]any); ok {
			out := make([]any, len(items))
			for i, it := range items {
				out[i] = jsonValue(s.Items, it)
			}
			return out
		}
	case avsc.Map:
		if m, ok := v.(map[string]any); ok {
			out := make(map[string]any, len(m))
			for k, it := range m {
				out[k] = jsonValue(s.Values, it)
			}
			return out
		}
	case avsc.Enum:
		if sym, ok := v.(jsonavro.EnumSymbol); ok {
			return string(sym)
		}
	}
	switch x := v.(type) {
	case int32:
		switch s.Logical {
		case avsc.Date:
			return time.Unix(int64(x)*secondsPerDay, 0).UTC().Format(time.DateOnly)
		case avsc.TimeMillis:
			return clock(time.Duration(x)*time.Millisecond, "15:04:05.000")
		}
	case int64:
		switch s.Logical {
		case avsc.TimeMicros:
			return clock(time.Duration(x)*time.Microsecond, "15:04:05.000000")
		case avsc.TimestampMillis:
			return formatRFC3339(time.UnixMilli(x))
		case avsc.TimestampMicros:
			return formatRFC3339(time.UnixMicro(x))
		}
	case []byte:
		if s.Logical == avsc.Decimal {
			return decimal.Decode(x, s.Scale)
		}
		return latin1(x)
	}
	return v
}

func clock(d time.Duration, layout string) string {
	return time.Unix(0, 0).UTC().Add(d).Format(layout)
}

// formatRFC3339 normalizes to UTC; RFC3339Nano trims trailing zeros.
func formatRFC3339(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

func latin1(b []byte) string {
	var sb strings.Builder
	for _, c := range b {
		sb.WriteRune(rune(c))
	}
	return sb.String()
}
