// Package normalize cleans extracted candidate events: marketing boilerplate
// is stripped from titles and free-text date ranges are resolved into ISO
// start/end dates with a confidence score.
package normalize

import (
	"regexp"
	"strings"

	"github.com/stagefind/stagefind/internal/extract"
)

// titlePatterns are applied in order; every pattern runs, not just the
// first match.
var titlePatterns = []struct {
	re  *regexp.Regexp
	rep string
}{
	{regexp.MustCompile(`(?i)^The (Folger|RSC|Globe) Presents[:\s]+`), ""},
	// Marketing prefixes like WILLIAM SHAKESPEARE'S MUCH ADO ABOUT NOTHING,
	// possibly repeated.
	{regexp.MustCompile(`(?i)^(William\s+Shakespeare'?s\s+)+`), ""},
	// A byline accidentally captured as the whole title.
	{regexp.MustCompile(`(?i)^By William Shakespeare$`), ""},
}

// CleanTitle strips configured boilerplate prefixes and byline-only titles.
// The result is trimmed and may be empty.
func CleanTitle(raw string) string {
	title := strings.TrimSpace(raw)
	for _, p := range titlePatterns {
		title = p.re.ReplaceAllString(title, p.rep)
	}
	return strings.TrimSpace(title)
}

// Event is a candidate event after title normalization. Its title no longer
// contains marketing or byline prefixes; dates are carried through if the
// extractor already resolved them.
type Event struct {
	Title     string
	URL       string
	Venue     string
	DatesText string
	StartDate string
	EndDate   string
}

// Apply normalizes one raw candidate.
func Apply(raw extract.RawEvent) Event {
	return Event{
		Title:     CleanTitle(raw.Title),
		URL:       raw.URL,
		Venue:     raw.Venue,
		DatesText: raw.DatesText,
		StartDate: raw.StartDate,
		EndDate:   raw.EndDate,
	}
}
