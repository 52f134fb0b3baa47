package datetime

import (
	"strings"
	"time"
	_ "time/tzdata"
)

var months = map[string]int{
	"jan": 1, "feb": 2, "mar": 3, "apr": 4, "may": 5, "jun": 6,
	"jul": 7, "aug": 8, "sep": 9, "oct": 10, "nov": 11, "dec": 12,
}

// monthByName accepts three-letter abbreviations and full English names.
func monthByName(w string) (int, bool) {
	if len(w) < 3 {
		return 0, false
	}
	lw := strings.ToLower(w)
	m, ok := months[lw[:3]]
	if !ok {
		return 0, false
	}
	if len(lw) > 3 && !strings.HasPrefix(strings.ToLower(time.Month(m).String()), lw) {
		return 0, false
	}
	return m, true
}

// abbreviations maps common zone abbreviations to fixed offsets in minutes.
// Abbreviations are ambiguous in general; this table picks the usual reading.
var abbreviations = map[string]int{
	"UTC": 0, "GMT": 0, "UT": 0, "WET": 0,
	"WEST": 60, "BST": 60, "CET": 60, "CEST": 120, "EET": 120, "EEST": 180, "MSK": 180,
	"IST": 330, "JST": 540, "KST": 540, "AWST": 480, "ACST": 570,
	"AEST": 600, "AEDT": 660, "NZST": 720, "NZDT": 780,
	"EST": -300, "EDT": -240, "CST": -360, "CDT": -300,
	"MST": -420, "MDT": -360, "PST": -480, "PDT": -420,
	"AKST": -540, "AKDT": -480, "HST": -600,
}

// lookupZone resolves an abbreviation or an IANA name such as "Europe/Paris".
func lookupZone(name string) (*time.Location, bool) {
	if name == "" {
		return nil, false
	}
	up := strings.ToUpper(name)
	if off, ok := abbreviations[up]; ok {
		if off == 0 && (up == "UTC" || up == "GMT" || up == "UT") {
			return time.UTC, true
		}
		return time.FixedZone(up, off*60), true
	}
	if strings.Contains(name, "/") {
		if loc, err := time.LoadLocation(name); err == nil {
			return loc, true
		}
	}
	return nil, false
}
