// Package decimal parses decimal literals and encodes them as the unscaled
// big-endian two's-complement integers used by the Avro decimal logical type.
package decimal

import (
	"errors"
	"fmt"
	"math"
	"math/big"
	"strconv"
	"strings"
)

// ErrSyntax reports a literal that is not a decimal number.
var ErrSyntax = errors.New("decimal: invalid literal")

// ErrRange reports a value that needs more than MaxDigits digits at the
// requested scale.
var ErrRange = errors.New("decimal: value out of range")

// MaxDigits bounds the unscaled integer Rescale will build.
const MaxDigits = 1024

// ScaleError reports a literal whose scale exceeds the configured scale.
type ScaleError struct {
	Literal string
	Scale   int // natural scale of the literal
	Max     int // configured scale
}

func (e *ScaleError) Error() string {
	return fmt.Sprintf("decimal: literal %s has scale %d, exceeds scale %d", e.Literal, e.Scale, e.Max)
}

// Decimal is an unscaled integer together with its scale; the value is
// Unscaled * 10^-Scale.
type Decimal struct {
	Unscaled *big.Int
	Scale    int
}

// Parse reads literals such as "12.34", "-0.5", "+3", "1e3" or "1.25E-2".
// The natural scale is the number of fraction digits minus the exponent.
// A negative exponent too large to represent saturates the scale at
// math.MaxInt; a positive one is ErrRange.
func Parse(lit string) (Decimal, error) {
	s := strings.TrimSpace(lit)
	if s == "" {
		return Decimal{}, ErrSyntax
	}
	var exp int64
	expOverflow := false
	if i := strings.IndexAny(s, "eE"); i >= 0 {
		e, err := strconv.ParseInt(s[i+1:], 10, 64)
		switch {
		case err == nil:
		case errors.Is(err, strconv.ErrRange):
			expOverflow = true
			e = math.MinInt64
			if !strings.HasPrefix(s[i+1:], "-") {
				e = math.MaxInt64
			}
		default:
			return Decimal{}, ErrSyntax
		}
		exp = e
		s = s[:i]
	}
	neg := false
	switch {
	case strings.HasPrefix(s, "-"):
		neg = true
		s = s[1:]
	case strings.HasPrefix(s, "+"):
		s = s[1:]
	}
	intPart, frac, _ := strings.Cut(s, ".")
	if intPart == "" && frac == "" {
		return Decimal{}, ErrSyntax
	}
	digits := intPart + frac
	for _, r := range digits {
		if r < '0' || r > '9' {
			return Decimal{}, ErrSyntax
		}
	}
	n, ok := new(big.Int).SetString(digits, 10)
	if !ok {
		return Decimal{}, ErrSyntax
	}
	if neg {
		n.Neg(n)
	}
	if n.Sign() == 0 {
		return Decimal{Unscaled: n}, nil
	}
	scale, ok := naturalScale(int64(len(frac)), exp)
	if !ok || expOverflow {
		if exp > 0 {
			return Decimal{}, ErrRange
		}
		scale = math.MaxInt
	}
	return Decimal{Unscaled: n, Scale: scale}, nil
}

// naturalScale returns frac - exp when it fits an int.
func naturalScale(frac, exp int64) (int, bool) {
	if exp < 0 && frac > math.MaxInt64+exp {
		return 0, false
	}
	sc := frac - exp
	if sc > math.MaxInt || sc < math.MinInt {
		return 0, false
	}
	return int(sc), true
}

// Rescale returns d expressed at exactly the given scale. Trailing zeros of
// the fraction are insignificant; any remaining digit beyond scale is
// rejected with a *ScaleError rather than truncated. Results wider than
// MaxDigits digits are ErrRange.
func (d Decimal) Rescale(scale int, lit string) (Decimal, error) {
	if d.Unscaled == nil || d.Unscaled.Sign() == 0 {
		return Decimal{Unscaled: new(big.Int), Scale: scale}, nil
	}
	text := new(big.Int).Abs(d.Unscaled).Text(10)
	n := new(big.Int).Set(d.Unscaled)
	cur := d.Scale
	if cur > scale {
		tz := len(text) - len(strings.TrimRight(text, "0"))
		if cur-tz > scale {
			return Decimal{}, &ScaleError{Literal: lit, Scale: d.Scale, Max: scale}
		}
		drop := cur - scale
		n.Quo(n, pow10(drop))
		text = text[:len(text)-drop]
		cur = scale
	}
	if cur < scale {
		if cur < scale-MaxDigits || len(text)+(scale-cur) > MaxDigits {
			return Decimal{}, ErrRange
		}
		n.Mul(n, pow10(scale-cur))
	} else if len(text) > MaxDigits {
		return Decimal{}, ErrRange
	}
	return Decimal{Unscaled: n, Scale: scale}, nil
}

func pow10(k int) *big.Int {
	return new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(k)), nil)
}

// String renders the value in plain notation, e.g. "12.34" or "-0.05".
func (d Decimal) String() string {
	if d.Unscaled == nil {
		return "0"
	}
	if d.Scale <= 0 {
		n := new(big.Int).Mul(d.Unscaled, new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(-d.Scale)), nil))
		return n.String()
	}
	abs := new(big.Int).Abs(d.Unscaled).String()
	if len(abs) <= d.Scale {
		abs = strings.Repeat("0", d.Scale-len(abs)+1) + abs
	}
	cut := len(abs) - d.Scale
	out := abs[:cut] + "." + abs[cut:]
	if d.Unscaled.Sign() < 0 {
		out = "-" + out
	}
	return out
}

// Encode converts a decimal literal into the unscaled two's-complement bytes
// for the given scale.
func Encode(lit string, scale int) ([]byte, error) {
	d, err := Parse(lit)
	if err != nil {
		return nil, err
	}
	d, err = d.Rescale(scale, lit)
	if err != nil {
		return nil, err
	}
	return TwosComplement(d.Unscaled), nil
}

// TwosComplement returns the minimal big-endian two's-complement encoding of
// n (the same layout as java.math.BigInteger#toByteArray).
func TwosComplement(n *big.Int) []byte {
	if n.Sign() >= 0 {
		b := n.Bytes()
		if len(b) == 0 || b[0]&0x80 != 0 {
			b = append([]byte{0}, b...)
		}
		return b
	}
	// For negative n, -n-1 >= 0 tells how many bits the magnitude needs.
	m := new(big.Int).Not(n)
	l := m.BitLen()/8 + 1
	mod := new(big.Int).Lsh(big.NewInt(1), uint(l*8))
	b := new(big.Int).Add(mod, n).Bytes()
	out := make([]byte, l)
	copy(out[l-len(b):], b)
	return out
}

// FromTwosComplement decodes a big-endian two's-complement integer.
func FromTwosComplement(b []byte) *big.Int {
	n := new(big.Int).SetBytes(b)
	if len(b) > 0 && b[0]&0x80 != 0 {
		n.Sub(n, new(big.Int).Lsh(big.NewInt(1), uint(len(b)*8)))
	}
	return n
}

// Decode renders unscaled two's-complement bytes at scale as a plain literal.
func Decode(b []byte, scale int) string {
	return Decimal{Unscaled: FromTwosComplement(b), Scale: scale}.String()
}

// Rat returns the value as an exact rational number.
func (d Decimal) Rat() *big.Rat {
	r := new(big.Rat).SetInt(d.Unscaled)
	if d.Scale == 0 {
		return r
	}
	p := new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(abs(d.Scale))), nil)
	if d.Scale > 0 {
		return r.Quo(r, new(big.Rat).SetInt(p))
	}
	return r.Mul(r, new(big.Rat).SetInt(p))
}

func abs(i int) int {
	if i < 0 {
		return -i
	}
	return i
}
