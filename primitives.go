package jsonavro

import (
	"math"
	"strconv"
	"strings"
)

func convertNull(in Input) (Result, error) {
	if in.Value == nil {
		return Accept(nil), nil
	}
	return fail(in, "null", CodeTypeMismatch, nil, nil)
}

func convertBoolean(in Input) (Result, error) {
	if b, ok := in.Value.(bool); ok {
		return Accept(b), nil
	}
	return fail(in, "boolean", CodeTypeMismatch, nil, nil)
}

func convertString(in Input) (Result, error) {
	if s, ok := in.Value.(string); ok {
		return Accept(s), nil
	}
	return fail(in, "string", CodeTypeMismatch, nil, nil)
}

func convertBytes(in Input) (Result, error) {
	switch b := in.Value.(type) {
	case string:
		return Accept([]byte(b)), nil
	case []byte:
		return Accept(b), nil
	}
	return fail(in, "bytes", CodeTypeMismatch, nil, nil)
}

func convertInt(in Input) (Result, error) {
	n, err := integer(in, "int", math.MinInt32, math.MaxInt32)
	if err != nil || n.Rejected {
		return n, err
	}
	return Accept(int32(n.Value.(int64))), nil
}

func convertLong(in Input) (Result, error) {
	return integer(in, "long", math.MinInt64, math.MaxInt64)
}

// integer accepts integral numbers in [lo, hi]; fractional or out-of-range
// numbers are number_format failures rather than silently truncated.
func integer(in Input, typ string, lo, hi int64) (Result, error) {
	n, isNum, err := integerOf(in.Value, lo, hi)
	if !isNum {
		return fail(in, typ, CodeTypeMismatch, nil, nil)
	}
	if err != nil {
		return fail(in, typ, CodeNumberFormat, nil, err)
	}
	return Accept(n), nil
}

func convertFloat(in Input) (Result, error) {
	f, isNum, err := floatOf(in.Value)
	if !isNum {
		return fail(in, "float", CodeTypeMismatch, nil, nil)
	}
	if err != nil || math.Abs(f) > math.MaxFloat32 {
		if err == nil {
			err = strconv.ErrRange
		}
		return fail(in, "float", CodeNumberFormat, nil, err)
	}
	return Accept(float32(f)), nil
}

func convertDouble(in Input) (Result, error) {
	f, isNum, err := floatOf(in.Value)
	if !isNum {
		return fail(in, "double", CodeTypeMismatch, nil, nil)
	}
	if err != nil {
		return fail(in, "double", CodeNumberFormat, nil, err)
	}
	return Accept(f), nil
}

func convertEnum(in Input) (Result, error) {
	symbols := "[" + strings.Join(in.Schema.Symbols, ", ") + "]"
	s, ok := in.Value.(string)
	if !ok {
		return fail(in, "enum "+symbols, CodeTypeMismatch, nil, nil)
	}
	if !in.Schema.HasSymbol(s) {
		return fail(in, "enum "+symbols, CodeEnumMismatch, map[string]string{"expected": symbols, "value": s}, nil)
	}
	return Accept(EnumSymbol(s)), nil
}
