// Package pipeline turns raw, messy order records into canonical validated
// orders. Coercion never fails: every call site supplies a default, and value
// defects surface as warnings on the cleaned record rather than errors.
package pipeline

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// dateLayouts are tried in order; the first successful parse wins.
var dateLayouts = []string{
	"2006-01-02",
	"02/01/2006",
	"01/02/2006",
	"02-01-2006",
	"2006/01/02",
}

// Float coerces a raw scalar to a float64, stripping currency symbols,
// thousands separators, and percent signs. Missing or unparseable input
// yields the default.
func Float(v any, def float64) float64 {
	switch n := v.(type) {
	case nil:
		return def
	case float64:
		return n
	case float32:
		return float64(n)
	case int:
		return float64(n)
	case int64:
		return float64(n)
	}

	s := strings.TrimSpace(fmt.Sprintf("%v", v))
	if s == "" {
		return def
	}
	replacer := strings.NewReplacer(",", "", "$", "", "%", "")
	f, err := strconv.ParseFloat(strings.TrimSpace(replacer.Replace(s)), 64)
	if err != nil {
		return def
	}
	return f
}

// String coerces a raw scalar to a trimmed, title-cased string. Missing or
// empty input yields the field-specific default label.
func String(v any, def string) string {
	if v == nil {
		return def
	}
	s := strings.TrimSpace(fmt.Sprintf("%v", v))
	if s == "" {
		return def
	}
	return cases.Title(language.English).String(s)
}

// RawString coerces a raw scalar to a trimmed string without case changes.
func RawString(v any) string {
	if v == nil {
		return ""
	}
	return strings.TrimSpace(fmt.Sprintf("%v", v))
}

// Day parses a raw date against the supported layouts. The boolean reports
// whether any layout matched; callers substitute today and warn when it did not.
func Day(v any) (time.Time, bool) {
	s := RawString(v)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
