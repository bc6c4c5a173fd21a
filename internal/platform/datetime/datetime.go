// Package datetime parses the loosely formatted date strings that show up in
// calendar exports and hand-edited CSVs and renders them in the canonical
// wire form
package datetime

import (
	"regexp"
	"strings"
	"time"

	perr "starpass/internal/platform/errors"

	"github.com/araddon/dateparse"
)

// CanonicalLayout is the format the shift API expects for start timestamps
const CanonicalLayout = "2006-01-02 15:04"

// HumanLayout is the long form used in operator-facing reports
const HumanLayout = "Monday, January 02 2006"

// ordinalRe matches day-of-month ordinal suffixes ("6th", "21st")
var ordinalRe = regexp.MustCompile(`\b(\d{1,2})(?:st|nd|rd|th)\b`)

// meridiemRe matches dotted meridiems ("a.m.", "P.M.")
var meridiemRe = regexp.MustCompile(`(?i)\b([ap])\.m\.`)

// clean rewrites spellings the parser chokes on into forms it accepts
func clean(s string) string {
	s = strings.TrimSpace(s)
	s = ordinalRe.ReplaceAllString(s, "$1")
	s = meridiemRe.ReplaceAllStringFunc(s, func(m string) string {
		if m[0] == 'a' || m[0] == 'A' {
			return "AM"
		}
		return "PM"
	})
	return s
}

// ParseLenient parses a date string in any reasonable format
func ParseLenient(s string) (time.Time, error) {
	cleaned := clean(s)
	if cleaned == "" {
		return time.Time{}, perr.DateParsef("empty date string")
	}
	t, err := dateparse.ParseLocal(cleaned)
	if err != nil {
		return time.Time{}, perr.Wrapf(err, perr.ErrorCodeDateParse, "parse %q", s)
	}
	return t, nil
}

// Canonical parses s leniently and reformats it as CanonicalLayout
func Canonical(s string) (string, error) {
	t, err := ParseLenient(s)
	if err != nil {
		return "", err
	}
	return t.Format(CanonicalLayout), nil
}

// SplitCanonical renders t as separate date and clock strings
func SplitCanonical(t time.Time) (date, clock string) {
	return t.Format("2006-01-02"), t.Format("15:04")
}

// Human renders t in the long report form
func Human(t time.Time) string {
	return t.Format(HumanLayout)
}
