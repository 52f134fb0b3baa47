package jsonavro

import (
	"errors"
	"math"
	"strconv"

	"github.com/google/uuid"

	"github.com/reoring/jsonavro/avsc"
	"github.com/reoring/jsonavro/internal/datetime"
	"github.com/reoring/jsonavro/internal/decimal"
)

type logicalKey struct {
	base    avsc.Type
	logical avsc.LogicalType
}

// logicalConverters is matched on both the base type and the logical tag.
var logicalConverters = map[logicalKey]func(Input) (Result, error){
	{avsc.Int, avsc.Date}:             convertDate,
	{avsc.Int, avsc.TimeMillis}:       timeConverter(datetime.Millis),
	{avsc.Long, avsc.TimeMicros}:      timeConverter(datetime.Micros),
	{avsc.Long, avsc.TimestampMillis}: timestampConverter(datetime.Millis),
	{avsc.Long, avsc.TimestampMicros}: timestampConverter(datetime.Micros),
	{avsc.Bytes, avsc.Decimal}:        convertDecimal,
	{avsc.String, avsc.UUID}:          convertUUID,
}

const (
	dateFormats      = "date string, epoch days number"
	timestampFormats = "date time string, timestamp number"
	decimalFormats   = "string number, decimal"
	uuidFormats      = "uuid string"
)

func timeFormats(u datetime.Unit) string { return "time string, " + u.String() + " number" }

func convertDate(in Input) (Result, error) {
	switch v := in.Value.(type) {
	case string:
		days, err := datetime.EpochDay(v)
		if err == nil && (days < math.MinInt32 || days > math.MaxInt32) {
			err = datetime.ErrOverflow
		}
		if err != nil {
			return fail(in, dateFormats, CodeDateTimeParse, nil, err)
		}
		return Accept(int32(days)), nil
	default:
		return passthrough(in, dateFormats, math.MinInt32, math.MaxInt32, true)
	}
}

func timeConverter(u datetime.Unit) func(Input) (Result, error) {
	narrow := u == datetime.Millis
	return func(in Input) (Result, error) {
		s, ok := in.Value.(string)
		if !ok {
			if narrow {
				return passthrough(in, timeFormats(u), math.MinInt32, math.MaxInt32, true)
			}
			return passthrough(in, timeFormats(u), math.MinInt64, math.MaxInt64, false)
		}
		n, err := datetime.TimeOfDay(s, u)
		if err != nil {
			return fail(in, timeFormats(u), CodeDateTimeParse, nil, err)
		}
		if narrow {
			if n < math.MinInt32 || n > math.MaxInt32 {
				return fail(in, timeFormats(u), CodeDateTimeParse, nil, datetime.ErrOverflow)
			}
			return Accept(int32(n)), nil
		}
		return Accept(n), nil
	}
}

func timestampConverter(u datetime.Unit) func(Input) (Result, error) {
	return func(in Input) (Result, error) {
		s, ok := in.Value.(string)
		if !ok {
			return passthrough(in, timestampFormats, math.MinInt64, math.MaxInt64, false)
		}
		n, err := datetime.Epoch(s, u)
		if err != nil {
			return fail(in, timestampFormats, CodeDateTimeParse, nil, err)
		}
		return Accept(n), nil
	}
}

// passthrough takes a number as an already scaled value of the target width.
func passthrough(in Input, expected string, lo, hi int64, narrow bool) (Result, error) {
	n, isNum, err := integerOf(in.Value, lo, hi)
	if !isNum {
		return fail(in, expected, CodeTypeMismatch, nil, nil)
	}
	if err != nil {
		return fail(in, expected, CodeNumberFormat, nil, err)
	}
	if narrow {
		return Accept(int32(n)), nil
	}
	return Accept(n), nil
}

// convertDecimal encodes a decimal string or number as the unscaled
// two's-complement bytes at the schema scale. Literals with more significant
// fraction digits than the scale are rejected.
func convertDecimal(in Input) (Result, error) {
	lit, ok := in.Value.(string)
	if !ok {
		if lit, ok = numberText(in.Value); !ok {
			return fail(in, decimalFormats, CodeTypeMismatch, nil, nil)
		}
	}
	b, err := decimal.Encode(lit, in.Schema.Scale)
	var se *decimal.ScaleError
	switch {
	case err == nil:
		return Accept(b), nil
	case errors.As(err, &se):
		return fail(in, decimalFormats, CodeDecimalScale, map[string]string{
			"expected": strconv.Itoa(se.Max),
			"actual":   strconv.Itoa(se.Scale),
			"value":    lit,
		}, err)
	default:
		return fail(in, decimalFormats, CodeNumberFormat, map[string]string{"value": lit}, err)
	}
}

func convertUUID(in Input) (Result, error) {
	s, ok := in.Value.(string)
	if !ok {
		return fail(in, uuidFormats, CodeTypeMismatch, nil, nil)
	}
	id, err := uuid.Parse(s)
	if err != nil {
		return fail(in, uuidFormats, CodeTypeMismatch, map[string]string{"actual": "string " + strconv.Quote(s)}, err)
	}
	return Accept(id.String()), nil
}
