package codec

import (
	"fmt"
	"math/big"
	"time"

	"github.com/linkedin/goavro/v2"

	jsonavro "github.com/reoring/jsonavro"
	"github.com/reoring/jsonavro/avsc"
	"github.com/reoring/jsonavro/internal/decimal"
)

const secondsPerDay = 86400

// branchName is the key goavro uses for a union branch.
func branchName(s *avsc.Schema) string {
	if s.Logical != avsc.NoLogical && !s.Type.IsNamed() {
		return s.Type.String() + "." + string(s.Logical)
	}
	return s.TypeName()
}

// branchOf picks the first union branch whose Go representation matches v.
func branchOf(u *avsc.Schema, v any) (*avsc.Schema, bool) {
	for _, b := range u.Branches {
		if holds(b, v) {
			return b, true
		}
	}
	return nil, false
}

func holds(s *avsc.Schema, v any) bool {
	switch s.Type {
	case avsc.Null:
		return v == nil
	case avsc.Boolean:
		_, ok := v.(bool)
		return ok
	case avsc.Int:
		_, ok := v.(int32)
		return ok
	case avsc.Long:
		_, ok := v.(int64)
		return ok
	case avsc.Float:
		_, ok := v.(float32)
		return ok
	case avsc.Double:
		_, ok := v.(float64)
		return ok
	case avsc.String:
		_, ok := v.(string)
		return ok
	case avsc.Bytes, avsc.Fixed:
		b, ok := v.([]byte)
		return ok && (s.Type == avsc.Bytes || len(b) == s.Size || s.Logical == avsc.Decimal)
	case avsc.Enum:
		sym, ok := v.(jsonavro.EnumSymbol)
		return ok && s.HasSymbol(string(sym))
	case avsc.Record:
		r, ok := v.(*jsonavro.Record)
		return ok && r.Schema().Name == s.Name
	case avsc.Array:
		_, ok := v.([]any)
		return ok
	case avsc.Map:
		_, ok := v.(map[string]any)
		return ok
	}
	return false
}

func mismatchIssue(at jsonavro.Path, s *avsc.Schema, v any) error {
	return jsonavro.Issues{{
		Path:    at.String(),
		Code:    jsonavro.CodeTypeMismatch,
		Message: fmt.Sprintf("value of type %T does not fit %s", v, s.Describe()),
		Hint:    s.Describe(),
		Value:   v,
	}}
}

func recordNative(rec *jsonavro.Record, at jsonavro.Path) (map[string]any, error) {
	s := rec.Schema()
	out := make(map[string]any, len(s.Fields))
	for _, f := range s.Fields {
		v, err := toNative(f.Type, rec.Get(f.Name), at.Enter(f.Name))
		if err != nil {
			return nil, err
		}
		out[f.Name] = v
	}
	return out, nil
}

// toNative maps a Record value to the form goavro encodes.
func toNative(s *avsc.Schema, v any, at jsonavro.Path) (any, error) {
	switch s.Type {
	case avsc.Union:
		if v == nil && s.Nullable() {
			return nil, nil
		}
		b, ok := branchOf(s, v)
		if !ok {
			return nil, mismatchIssue(at, s, v)
		}
		n, err := toNative(b, v, at)
		if err != nil {
			return nil, err
		}
		return goavro.Union(branchName(b), n), nil
	case avsc.Record:
		r, ok := v.(*jsonavro.Record)
		if !ok || r.Schema().Name != s.Name {
			return nil, mismatchIssue(at, s, v)
		}
		return recordNative(r, at)
	case avsc.Array:
		items, ok := v.([]any)
		if !ok {
			return nil, mismatchIssue(at, s, v)
		}
		out := make([]any, len(items))
		for i, it := range items {
			n, err := toNative(s.Items, it, at)
			if err != nil {
				return nil, err
			}
			out[i] = n
		}
		return out, nil
	case avsc.Map:
		m, ok := v.(map[string]any)
		if !ok {
			return nil, mismatchIssue(at, s, v)
		}
		out := make(map[string]any, len(m))
		for k, it := range m {
			n, err := toNative(s.Values, it, at.Enter(k))
			if err != nil {
				return nil, err
			}
			out[k] = n
		}
		return out, nil
	case avsc.Enum:
		sym, ok := v.(jsonavro.EnumSymbol)
		if !ok {
			return nil, mismatchIssue(at, s, v)
		}
		return string(sym), nil
	}
	if !holds(s, v) {
		return nil, mismatchIssue(at, s, v)
	}
	switch s.Logical {
	case avsc.Date:
		return time.Unix(int64(v.(int32))*secondsPerDay, 0).UTC(), nil
	case avsc.TimeMillis:
		return time.Duration(v.(int32)) * time.Millisecond, nil
	case avsc.TimeMicros:
		return time.Duration(v.(int64)) * time.Microsecond, nil
	case avsc.TimestampMillis:
		return time.UnixMilli(v.(int64)).UTC(), nil
	case avsc.TimestampMicros:
		return time.UnixMicro(v.(int64)).UTC(), nil
	case avsc.Decimal:
		d := decimal.Decimal{Unscaled: decimal.FromTwosComplement(v.([]byte)), Scale: s.Scale}
		return d.Rat(), nil
	}
	return v, nil
}

// fromNative maps a value decoded by goavro back to the Record form.
func fromNative(s *avsc.Schema, v any, at jsonavro.Path) (any, error) {
	switch s.Type {
	case avsc.Union:
		if v == nil {
			return nil, nil
		}
		m, ok := v.(map[string]any)
		if !ok || len(m) != 1 {
			return nil, mismatchIssue(at, s, v)
		}
		for name, inner := range m {
			for _, b := range s.Branches {
				if branchName(b) == name {
					return fromNative(b, inner, at)
				}
			}
		}
		return nil, mismatchIssue(at, s, v)
	case avsc.Record:
		m, ok := v.(map[string]any)
		if !ok {
			return nil, mismatchIssue(at, s, v)
		}
		b := jsonavro.NewRecordBuilder(s)
		for _, f := range s.Fields {
			fv, present := m[f.Name]
			if !present {
				continue
			}
			out, err := fromNative(f.Type, fv, at.Enter(f.Name))
			if err != nil {
				return nil, err
			}
			b.Set(f.Name, out)
		}
		return b.Build()
	case avsc.Array:
		items, ok := v.([]any)
		if !ok {
			return nil, mismatchIssue(at, s, v)
		}
		out := make([]any, len(items))
		for i, it := range items {
			n, err := fromNative(s.Items, it, at)
			if err != nil {
				return nil, err
			}
			out[i] = n
		}
		return out, nil
	case avsc.Map:
		m, ok := v.(map[string]any)
		if !ok {
			return nil, mismatchIssue(at, s, v)
		}
		out := make(map[string]any, len(m))
		for k, it := range m {
			n, err := fromNative(s.Values, it, at.Enter(k))
			if err != nil {
				return nil, err
			}
			out[k] = n
		}
		return out, nil
	case avsc.Enum:
		sym, ok := v.(string)
		if !ok {
			return nil, mismatchIssue(at, s, v)
		}
		return jsonavro.EnumSymbol(sym), nil
	}
	switch x := v.(type) {
	case time.Time:
		switch s.Logical {
		case avsc.Date:
			return int32(floorDiv(x.Unix(), secondsPerDay)), nil
		case avsc.TimestampMillis:
			return x.UnixMilli(), nil
		case avsc.TimestampMicros:
			return x.UnixMicro(), nil
		}
	case time.Duration:
		switch s.Logical {
		case avsc.TimeMillis:
			return int32(x / time.Millisecond), nil
		case avsc.TimeMicros:
			return int64(x / time.Microsecond), nil
		}
	case *big.Rat:
		if s.Logical == avsc.Decimal {
			return ratBytes(x, s.Scale), nil
		}
	default:
		return v, nil
	}
	return nil, mismatchIssue(at, s, v)
}

// ratBytes scales r by 10^scale and returns the unscaled two's-complement
// integer. Digits beyond scale are truncated toward zero.
func ratBytes(r *big.Rat, scale int) []byte {
	p := new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(scale)), nil)
	n := new(big.Int).Mul(r.Num(), p)
	n.Quo(n, r.Denom())
	return decimal.TwosComplement(n)
}

func floorDiv(a, b int64) int64 {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}
