package datetime

import (
	"errors"
	"math"
	"math/bits"
	"strconv"
	"strings"
)

// Unit selects the precision of an epoch or time-of-day count.
type Unit int

const (
	Millis Unit = iota
	Micros
)

func (u Unit) nanos() int64 {
	if u == Micros {
		return 1_000
	}
	return 1_000_000
}

func (u Unit) String() string {
	if u == Micros {
		return "micros"
	}
	return "millis"
}

// ErrOverflow reports an instant that does not fit in 64 bits at the unit.
var ErrOverflow = errors.New("datetime: value out of range")

// ErrNoTime reports a string that carries a date but no time of day where an
// instant is required.
var ErrNoTime = errors.New("datetime: missing time of day")

// EpochDay returns the number of days since 1970-01-01 of the calendar date
// in s. A time or zone part, when present, does not move the date.
func EpochDay(s string) (int64, error) {
	p, err := Parse(s)
	if err != nil {
		return 0, err
	}
	p.Hour, p.Minute, p.Second, p.Nanos, p.Loc = 0, 0, 0, 0, nil
	return floorDiv(p.Time().Unix(), 86400), nil
}

// Epoch converts a date-time string into a count of units since the Unix
// epoch. Integer literals are taken as an already computed count.
func Epoch(s string, u Unit) (int64, error) {
	if n, ok := integerLiteral(s); ok {
		return n, nil
	}
	p, err := Parse(s)
	if err != nil {
		return 0, err
	}
	if !p.HasTime {
		return 0, ErrNoTime
	}
	t := p.Time()
	return FromInstant(t.Unix(), int64(t.Nanosecond()), u)
}

// TimeOfDay converts a time string into units since midnight. Both bare
// clocks ("12:23:01.541214") and full date-times are accepted; for the
// latter the wall clock as written is used. Integer literals pass through.
func TimeOfDay(s string, u Unit) (int64, error) {
	if n, ok := integerLiteral(s); ok {
		return n, nil
	}
	p, err := ParseClock(s)
	if err != nil {
		if p, err = Parse(s); err != nil {
			return 0, err
		}
		if !p.HasTime {
			return 0, ErrNoTime
		}
	}
	return p.NanoOfDay() / u.nanos(), nil
}

// FromInstant converts seconds plus nanoseconds since the epoch into units,
// flooring sub-unit remainders toward negative infinity.
func FromInstant(sec, nsec int64, u Unit) (int64, error) {
	sec += floorDiv(nsec, 1e9)
	nsec = nsec - floorDiv(nsec, 1e9)*1e9
	per := u.nanos()
	hi, ok := mulExact(sec, 1e9/per)
	if !ok {
		return 0, ErrOverflow
	}
	sum := hi + nsec/per
	if hi > 0 && sum < 0 {
		return 0, ErrOverflow
	}
	return sum, nil
}

func integerLiteral(s string) (int64, bool) {
	s = Clean(s)
	if s == "" {
		return 0, false
	}
	body := strings.TrimPrefix(s, "-")
	if body == "" {
		return 0, false
	}
	for i := 0; i < len(body); i++ {
		if !isDigit(body[i]) {
			return 0, false
		}
	}
	n, err := strconv.ParseInt(s, 10, 64)
	return n, err == nil
}

func floorDiv(a, b int64) int64 {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

func mulExact(a, b int64) (int64, bool) {
	if a == 0 || b == 0 {
		return 0, true
	}
	if a == math.MinInt64 || b == math.MinInt64 {
		return 0, false
	}
	neg := (a < 0) != (b < 0)
	ua, ub := uint64(abs64(a)), uint64(abs64(b))
	hi, lo := bits.Mul64(ua, ub)
	if hi != 0 || lo > math.MaxInt64 {
		return 0, false
	}
	if neg {
		return -int64(lo), true
	}
	return int64(lo), true
}

func abs64(v int64) int64 {
	if v < 0 {
		return -v
	}
	return v
}
