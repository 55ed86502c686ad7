package normalize

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/araddon/dateparse"
)

// Confidence tiers for the date cascade, most specific pattern first.
const (
	confHint         = 1.0
	confCrossSame    = 1.0 // cross-year pattern, both years equal
	confCrossDiffer  = 0.95
	confTwoMonth     = 0.95
	confSameMonth    = 0.9
	confBothSegments = 0.7
	confOneSegment   = 0.4
)

const monthAlt = `(January|February|March|April|May|June|July|August|September|October|November|December)`

var (
	spacingRe   = regexp.MustCompile(`(?i)([A-Za-z]{3,9})(\d)`)
	dashSplitRe = regexp.MustCompile(`\s*[–-]\s*`)

	// Full-month-name range patterns, tried in order.
	crossYearRe = regexp.MustCompile(`(?i)` + monthAlt + `\s+(\d{1,2})\s*,?\s+(\d{4})\s*[–-]\s*` + monthAlt + `\s+(\d{1,2})\s*,?\s+(\d{4})`)
	twoMonthRe  = regexp.MustCompile(`(?i)` + monthAlt + `\s+(\d{1,2})\s*[–-]\s*` + monthAlt + `\s+(\d{1,2}),?\s+(\d{4})`)
	sameMonthRe = regexp.MustCompile(`(?i)` + monthAlt + `\s+(\d{1,2})\s*[–-]\s*(\d{1,2}),?\s+(\d{4})`)
)

var monthsFull = func() map[string]time.Month {
	m := make(map[string]time.Month, 12)
	for i := time.January; i <= time.December; i++ {
		m[strings.ToLower(i.String())] = i
	}
	return m
}()

// ParseDates resolves a free-text date range into ISO start/end dates with a
// confidence score. Pre-resolved hints from an upstream extractor
// short-circuit text parsing at confidence 1.0. The cascade is total and
// deterministic: any parse failure falls through to the next strategy and
// every input yields a definite result, ("", "", 0.0) at worst.
func ParseDates(datesText, tz, startHint, endHint string) (string, string, float64) {
	loc := location(tz)

	if startHint != "" {
		if s, e, ok := parseHints(startHint, endHint, loc); ok {
			return s, e, confHint
		}
	}

	text := strings.TrimSpace(datesText)
	if text == "" {
		return "", "", 0.0
	}
	text = spacingRe.ReplaceAllString(text, "$1 $2")

	if m := crossYearRe.FindStringSubmatch(text); m != nil {
		if s, e, ok := monthRange(m[1], m[2], m[3], m[4], m[5], m[6]); ok {
			if m[3] == m[6] {
				return s, e, confCrossSame
			}
			return s, e, confCrossDiffer
		}
	}
	if m := twoMonthRe.FindStringSubmatch(text); m != nil {
		if s, e, ok := monthRange(m[1], m[2], m[5], m[3], m[4], m[5]); ok {
			return s, e, confTwoMonth
		}
	}
	if m := sameMonthRe.FindStringSubmatch(text); m != nil {
		if s, e, ok := monthRange(m[1], m[2], m[4], m[1], m[3], m[4]); ok {
			return s, e, confSameMonth
		}
	}

	// General-purpose parse of up to two dash-separated segments.
	parts := dashSplitRe.Split(text, -1)
	var start, end string
	if len(parts) > 0 {
		start = parseSegment(parts[0], loc)
	}
	if len(parts) > 1 {
		end = parseSegment(parts[1], loc)
	}
	switch {
	case start != "" && end != "":
		return start, end, confBothSegments
	case start != "" || end != "":
		return start, end, confOneSegment
	default:
		return "", "", 0.0
	}
}

// parseHints strictly parses pre-resolved date hints (ISO dates or fuller
// timestamps) into ISO dates. Both hints must parse for the short-circuit
// to take effect; otherwise the cascade falls through to text parsing.
func parseHints(startHint, endHint string, loc *time.Location) (string, string, bool) {
	s, err := dateparse.ParseIn(strings.TrimSpace(startHint), loc)
	if err != nil {
		return "", "", false
	}
	end := ""
	if endHint != "" {
		e, err := dateparse.ParseIn(strings.TrimSpace(endHint), loc)
		if err != nil {
			return "", "", false
		}
		end = e.Format("2006-01-02")
	}
	return s.Format("2006-01-02"), end, true
}

// parseSegment runs the natural-language parser over one range segment.
func parseSegment(segment string, loc *time.Location) string {
	segment = strings.TrimSpace(segment)
	if segment == "" {
		return ""
	}
	t, err := dateparse.ParseIn(segment, loc)
	if err != nil {
		return ""
	}
	return t.Format("2006-01-02")
}

func monthRange(mon1, day1, year1, mon2, day2, year2 string) (string, string, bool) {
	s, ok1 := fullMonthDate(year1, mon1, day1)
	e, ok2 := fullMonthDate(year2, mon2, day2)
	if !ok1 || !ok2 {
		return "", "", false
	}
	return s, e, true
}

func fullMonthDate(year, monthName, day string) (string, bool) {
	mon, ok := monthsFull[strings.ToLower(monthName)]
	if !ok {
		return "", false
	}
	var y, d int
	if _, err := fmt.Sscanf(year, "%d", &y); err != nil {
		return "", false
	}
	if _, err := fmt.Sscanf(day, "%d", &d); err != nil {
		return "", false
	}
	t := time.Date(y, mon, d, 0, 0, 0, 0, time.UTC)
	if t.Year() != y || t.Month() != mon || t.Day() != d {
		return "", false
	}
	return t.Format("2006-01-02"), true
}

// location resolves a timezone identifier, defaulting to UTC when the
// identifier is unknown or empty.
func location(tz string) *time.Location {
	if tz == "" {
		return time.UTC
	}
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return time.UTC
	}
	return loc
}
