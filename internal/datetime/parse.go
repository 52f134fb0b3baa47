// Package datetime implements the permissive date/time reader behind the
// date, time and timestamp logical types. Accepted shapes include
// "2021-01-01", "2021/1/1 01:01:01", "2018 Jul 15 12:00:00 GMT+08:00",
// "2021-01-01T01:01:01.546+01:00", "2021-01-01T01:01:01 PST" and an optional
// trailing era marker ("BC"/"AD").
package datetime

import (
	"errors"
	"strings"
	"time"
)

// ErrFormat reports input that matches none of the supported layouts.
var ErrFormat = errors.New("datetime: unrecognized format")

// Parsed holds the calendar fields read from a string. Missing parts are
// reported through the Has* flags; Loc is UTC when no zone was given.
type Parsed struct {
	Year, Month, Day int
	HasDate          bool

	Hour, Minute, Second, Nanos int
	HasTime                     bool

	Loc     *time.Location
	HasZone bool
}

// Time returns the instant described by p. Without a time part the instant is
// midnight; without a zone it is UTC.
func (p Parsed) Time() time.Time {
	loc := p.Loc
	if loc == nil {
		loc = time.UTC
	}
	y, m, d := p.Year, p.Month, p.Day
	if !p.HasDate {
		y, m, d = 1970, 1, 1
	}
	return time.Date(y, time.Month(m), d, p.Hour, p.Minute, p.Second, p.Nanos, loc)
}

// NanoOfDay returns the wall-clock offset from midnight in nanoseconds.
func (p Parsed) NanoOfDay() int64 {
	return int64(p.Hour)*int64(time.Hour) + int64(p.Minute)*int64(time.Minute) +
		int64(p.Second)*int64(time.Second) + int64(p.Nanos)
}

// Clean strips line breaks and surrounding blanks.
func Clean(s string) string {
	s = strings.ReplaceAll(s, "\n", "")
	s = strings.ReplaceAll(s, "\r", "")
	return strings.TrimSpace(s)
}

// Parse reads a date with an optional time of day, zone and era.
func Parse(s string) (Parsed, error) {
	sc := &scanner{s: Clean(s)}
	var p Parsed
	if err := sc.date(&p); err != nil {
		return Parsed{}, err
	}
	bc, era := sc.era()
	if sc.startsTime() {
		if err := sc.clock(&p); err != nil {
			return Parsed{}, err
		}
		sc.zone(&p)
		if !era {
			bc, era = sc.era()
		}
	}
	sc.spaces()
	if !sc.eof() {
		return Parsed{}, ErrFormat
	}
	if bc {
		p.Year = 1 - p.Year
	}
	if !validDate(p.Year, p.Month, p.Day) {
		return Parsed{}, ErrFormat
	}
	return p, nil
}

// ParseClock reads a time of day of the form HH:mm[:ss[.fraction]] with an
// optional zone, which is parsed but does not shift the wall clock.
func ParseClock(s string) (Parsed, error) {
	sc := &scanner{s: Clean(s)}
	var p Parsed
	if err := sc.clock(&p); err != nil {
		return Parsed{}, err
	}
	sc.zone(&p)
	sc.spaces()
	if !sc.eof() {
		return Parsed{}, ErrFormat
	}
	return p, nil
}

func validDate(y, m, d int) bool {
	if m < 1 || m > 12 || d < 1 {
		return false
	}
	t := time.Date(y, time.Month(m), d, 0, 0, 0, 0, time.UTC)
	return t.Day() == d && int(t.Month()) == m
}

type scanner struct {
	s string
	i int
}

func (sc *scanner) eof() bool { return sc.i >= len(sc.s) }

func (sc *scanner) peek() byte {
	if sc.eof() {
		return 0
	}
	return sc.s[sc.i]
}

func (sc *scanner) spaces() {
	for !sc.eof() && sc.s[sc.i] == ' ' {
		sc.i++
	}
}

// number consumes between min and max digits.
func (sc *scanner) number(min, max int) (int, int, bool) {
	v, n := 0, 0
	for !sc.eof() && n < max && isDigit(sc.s[sc.i]) {
		v = v*10 + int(sc.s[sc.i]-'0')
		sc.i++
		n++
	}
	return v, n, n >= min
}

func (sc *scanner) word() string {
	start := sc.i
	for !sc.eof() && isLetter(sc.s[sc.i]) {
		sc.i++
	}
	return sc.s[start:sc.i]
}

func (sc *scanner) separators() bool {
	n := 0
	for !sc.eof() && strings.IndexByte("-/. ", sc.s[sc.i]) >= 0 {
		sc.i++
		n++
	}
	return n > 0
}

func (sc *scanner) date(p *Parsed) error {
	y, n, _ := sc.number(1, 4)
	switch n {
	case 4:
		p.Year = y
	case 2:
		p.Year = 2000 + y
	default:
		return ErrFormat
	}
	if !sc.separators() {
		return ErrFormat
	}
	if isLetter(sc.peek()) {
		m, ok := monthByName(sc.word())
		if !ok {
			return ErrFormat
		}
		p.Month = m
	} else {
		m, _, ok := sc.number(1, 2)
		if !ok {
			return ErrFormat
		}
		p.Month = m
	}
	if !sc.separators() {
		return ErrFormat
	}
	d, _, ok := sc.number(1, 2)
	if !ok {
		return ErrFormat
	}
	p.Day = d
	p.HasDate = true
	return nil
}

// era consumes an optional " BC"/" AD" marker.
func (sc *scanner) era() (bc bool, found bool) {
	save := sc.i
	sc.spaces()
	w := strings.ToUpper(sc.word())
	if w != "" && (sc.eof() || sc.peek() == ' ' || sc.peek() == 'T') {
		switch w {
		case "BC", "BCE":
			return true, true
		case "AD", "CE":
			return false, true
		}
	}
	sc.i = save
	return false, false
}

// startsTime reports whether a clock follows, consuming the blank or 'T'
// separator when it does.
func (sc *scanner) startsTime() bool {
	save := sc.i
	sc.spaces()
	if sc.peek() == 'T' || sc.peek() == 't' {
		sc.i++
	}
	if len(sc.s)-sc.i >= 5 && isDigit(sc.s[sc.i]) && isDigit(sc.s[sc.i+1]) && sc.s[sc.i+2] == ':' {
		return true
	}
	sc.i = save
	return false
}

func (sc *scanner) clock(p *Parsed) error {
	h, _, ok := sc.number(2, 2)
	if !ok || sc.peek() != ':' {
		return ErrFormat
	}
	sc.i++
	m, _, ok := sc.number(2, 2)
	if !ok {
		return ErrFormat
	}
	p.Hour, p.Minute = h, m
	if sc.peek() == ':' {
		sc.i++
		s, _, ok := sc.number(2, 2)
		if !ok {
			return ErrFormat
		}
		p.Second = s
		if c := sc.peek(); (c == '.' || c == ',') && sc.i+1 < len(sc.s) && isDigit(sc.s[sc.i+1]) {
			sc.i++
			f, n, _ := sc.number(1, 9)
			for ; n < 9; n++ {
				f *= 10
			}
			p.Nanos = f
		}
	}
	if p.Hour > 23 || p.Minute > 59 || p.Second > 59 {
		return ErrFormat
	}
	p.HasTime = true
	return nil
}

// zone consumes an optional zone designator. Unknown words are left in place
// so that a following era marker can still be read.
func (sc *scanner) zone(p *Parsed) {
	save := sc.i
	sc.spaces()
	switch c := sc.peek(); {
	case c == 'Z' && (sc.i+1 == len(sc.s) || sc.s[sc.i+1] == ' '):
		sc.i++
		p.Loc, p.HasZone = time.UTC, true
		return
	case c == '+' || c == '-':
		if off, ok := sc.offset(); ok {
			p.Loc, p.HasZone = time.FixedZone("", off), true
			return
		}
	case isLetter(c):
		name := sc.zoneName()
		if loc, ok := lookupZone(name); ok {
			if up := strings.ToUpper(name); up == "UTC" || up == "GMT" || up == "UT" {
				if c := sc.peek(); c == '+' || c == '-' {
					off, ok := sc.offset()
					if !ok {
						break
					}
					loc = time.FixedZone(up+formatOffset(off), off)
				}
			}
			p.Loc, p.HasZone = loc, true
			return
		}
	}
	sc.i = save
}

func (sc *scanner) zoneName() string {
	start := sc.i
	for !sc.eof() {
		c := sc.s[sc.i]
		if !isLetter(c) && c != '/' && c != '_' {
			break
		}
		sc.i++
	}
	return sc.s[start:sc.i]
}

// offset reads +HH, +H, +HHMM or +HH:MM and returns seconds east of UTC.
func (sc *scanner) offset() (int, bool) {
	sign := 1
	if sc.s[sc.i] == '-' {
		sign = -1
	}
	sc.i++
	h, n, ok := sc.number(1, 2)
	if !ok {
		return 0, false
	}
	m := 0
	if sc.peek() == ':' {
		sc.i++
		if m, _, ok = sc.number(2, 2); !ok {
			return 0, false
		}
	} else if n == 2 && isDigit(sc.peek()) {
		if m, _, ok = sc.number(2, 2); !ok {
			return 0, false
		}
	}
	if h > 18 || m > 59 {
		return 0, false
	}
	return sign * (h*3600 + m*60), true
}

func formatOffset(off int) string {
	sign := byte('+')
	if off < 0 {
		sign, off = '-', -off
	}
	h, m := off/3600, off%3600/60
	return string([]byte{sign, byte('0' + h/10), byte('0' + h%10), ':', byte('0' + m/10), byte('0' + m%10)})
}

func isDigit(c byte) bool  { return c >= '0' && c <= '9' }
func isLetter(c byte) bool { return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') }
