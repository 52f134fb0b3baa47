// Package naming provides name transforms that map JSON keys onto Avro field
// names.
package naming

import (
	"fmt"
	"sort"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Transform maps a JSON key to a field name.
type Transform func(string) string

// Identity returns the key unchanged.
func Identity(s string) string { return s }

// Upper upper-cases the key using Unicode case mapping.
func Upper(s string) string { return cases.Upper(language.Und).String(s) }

// Lower lower-cases the key using Unicode case mapping.
func Lower(s string) string { return cases.Lower(language.Und).String(s) }

// Sanitize turns arbitrary text into a valid Avro name: accents are
// stripped, every character outside [A-Za-z0-9_] becomes '_', and a leading
// digit gets a '_' prefix. The empty string stays empty.
func Sanitize(s string) string {
	// Decompose, remove nonspacing marks (accents), recompose.
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	plain, _, err := transform.String(t, s)
	if err != nil {
		plain = s
	}
	var b strings.Builder
	for i, r := range plain {
		switch {
		case r == '_' || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z'):
			b.WriteRune(r)
		case r >= '0' && r <= '9':
			if i == 0 {
				b.WriteByte('_')
			}
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}
	return b.String()
}

// Chain applies transforms left to right.
func Chain(ts ...Transform) Transform {
	return func(s string) string {
		for _, t := range ts {
			s = t(s)
		}
		return s
	}
}

var byName = map[string]Transform{
	"identity": Identity,
	"upper":    Upper,
	"lower":    Lower,
	"sanitize": Sanitize,
}

// Lookup resolves a transform by name. A '+'-separated list chains several,
// e.g. "sanitize+lower".
func Lookup(name string) (Transform, error) {
	if name == "" {
		return Identity, nil
	}
	var chain []Transform
	for _, part := range strings.Split(name, "+") {
		t, ok := byName[strings.TrimSpace(part)]
		if !ok {
			return nil, fmt.Errorf("naming: unknown transform %q (known: %s)", part, strings.Join(Names(), ", "))
		}
		chain = append(chain, t)
	}
	if len(chain) == 1 {
		return chain[0], nil
	}
	return Chain(chain...), nil
}

// Names lists the transforms Lookup knows.
func Names() []string {
	out := make([]string, 0, len(byName))
	for n := range byName {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}
