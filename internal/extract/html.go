package extract

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/stagefind/stagefind/internal/registry"
)

const (
	// maxGenericCandidates caps the generic card scan on unconfigured pages.
	maxGenericCandidates = 40

	// maxDatesTextLen caps the cleaned dates substring.
	maxDatesTextLen = 140

	// byMarkerWindow is how far past a year token a trailing "By " sentence
	// may start and still be treated as promotional copy to drop.
	byMarkerWindow = 40
)

// genericFields are the field-guess selectors used when a company has no
// configured list selector or field map.
var genericFields = registry.FieldMap{
	Title: "h1, h2, h3, figcaption h1",
	Dates: ".date, .dates, figcaption .prod-dates",
	URL:   "a@href",
	Venue: ".venue",
}

const genericListSelector = "article, figure, .event, .show, .production, li"

// HTML applies the heuristic extractor to a listing page and returns the
// candidate events in document order. Inline-detail companies are parsed
// from their figcaption blocks in place of the listing scan; the bool
// reports whether that inline scan produced the returned events, since
// their extractor-resolved ranges are inferred rather than parsed. A page
// without figcaptions falls through to the listing scan. Candidates
// without a resolvable title are dropped. Detail-page crawling is not
// performed here; see DetailRequests.
func HTML(html string, c registry.Company, today time.Time) ([]RawEvent, bool) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, false
	}

	var events []RawEvent
	if c.HTML.InlineDetail {
		if inline := dropTitleless(inlineDetailEvents(doc, today)); len(inline) > 0 {
			return inline, true
		}
	}
	if c.HTML.ListSelector != "" && !c.HTML.Fields.Empty() {
		doc.Find(c.HTML.ListSelector).Each(func(i int, card *goquery.Selection) {
			events = append(events, cardEvent(card, c))
		})
	} else {
		doc.Find(genericListSelector).EachWithBreak(func(i int, card *goquery.Selection) bool {
			if i >= maxGenericCandidates {
				return false
			}
			evt := RawEvent{
				Title:     selectField(card, genericFields.Title),
				DatesText: selectField(card, genericFields.Dates),
				URL:       selectField(card, genericFields.URL),
				Venue:     selectField(card, genericFields.Venue),
			}
			events = append(events, evt)
			return true
		})
	}

	return dropTitleless(events), false
}

func dropTitleless(events []RawEvent) []RawEvent {
	out := events[:0]
	for _, e := range events {
		if e.Title != "" {
			out = append(out, e)
		}
	}
	return out
}

// cardEvent resolves one listing card through the company's field map.
func cardEvent(card *goquery.Selection, c registry.Company) RawEvent {
	evt := RawEvent{
		Title: selectField(card, c.HTML.Fields.Title),
		URL:   selectField(card, c.HTML.Fields.URL),
		Venue: selectField(card, c.HTML.Fields.Venue),
	}

	datesBlock := selectField(card, c.HTML.Fields.Dates)
	if datesBlock != "" {
		evt.DatesText = cleanDatesText(datesBlock)
	}
	evt.StartDate, evt.EndDate = parseRangeDirect(firstNonEmpty(evt.DatesText, datesBlock))

	paragraphs := card.Find("p")
	if paragraphs.Length() > 1 {
		var parts []string
		paragraphs.Slice(1, paragraphs.Length()).Each(func(i int, p *goquery.Selection) {
			if t := collapseSpace(p.Text()); t != "" {
				parts = append(parts, t)
			}
		})
		evt.Description = truncate(strings.Join(parts, " "), 1000)
	}
	if evt.Venue == "" {
		if paragraphs.Length() > 0 {
			evt.Venue = inferStage(collapseSpace(paragraphs.First().Text()), c.Stages)
		}
		if evt.Venue == "" {
			evt.Venue = inferStage(truncate(collapseSpace(card.Text()), 300), c.Stages)
		}
	}
	return evt
}

var (
	letterDigitRe = regexp.MustCompile(`(?i)([A-Za-z]{3,9})(\d)`)
	yearTokenRe   = regexp.MustCompile(`\d{4}`)
)

// cleanDatesText normalizes a raw dates substring: a space is inserted
// between a run of letters and an immediately following digit (concatenated
// month+day), and promotional copy starting with "By " shortly after a year
// token is dropped.
func cleanDatesText(block string) string {
	spaced := letterDigitRe.ReplaceAllString(block, "$1 $2")
	if loc := yearTokenRe.FindStringIndex(spaced); loc != nil {
		yearEnd := loc[1]
		if byPos := strings.Index(spaced[yearEnd:], "By "); byPos != -1 && byPos < byMarkerWindow {
			spaced = spaced[:yearEnd+byPos]
		}
	}
	return truncate(strings.TrimSpace(spaced), maxDatesTextLen)
}

// The three direct range patterns, most specific first.
var (
	rangeCrossYearRe = regexp.MustCompile(`(?i)\b([A-Za-z]{3,9})\.?\s+(\d{1,2})\s*,?\s+(\d{4})\s*[–-]\s*([A-Za-z]{3,9})\.?\s+(\d{1,2})\s*,?\s+(\d{4})`)
	rangeTwoMonthRe  = regexp.MustCompile(`(?i)\b([A-Za-z]{3,9})\.?\s+(\d{1,2})\s*[–-]\s*([A-Za-z]{3,9})\.?\s+(\d{1,2}),?\s+(\d{4})`)
	rangeSameMonthRe = regexp.MustCompile(`(?i)\b([A-Za-z]{3,9})\s+(\d{1,2})\s*[–-]\s*(\d{1,2}),?\s+(\d{4})`)
)

// parseRangeDirect resolves a start/end ISO date pair from a cleaned dates
// string using three range patterns: cross-month/cross-year, one shared
// year, one shared month and year. The first pattern that matches wins;
// no match leaves resolution to the date resolver.
func parseRangeDirect(text string) (string, string) {
	if text == "" {
		return "", ""
	}
	if m := rangeCrossYearRe.FindStringSubmatch(text); m != nil {
		if s, e, ok := rangeDates(m[1], m[2], m[3], m[4], m[5], m[6]); ok {
			return s, e
		}
	}
	if m := rangeTwoMonthRe.FindStringSubmatch(text); m != nil {
		if s, e, ok := rangeDates(m[1], m[2], m[5], m[3], m[4], m[5]); ok {
			return s, e
		}
	}
	if m := rangeSameMonthRe.FindStringSubmatch(text); m != nil {
		if s, e, ok := rangeDates(m[1], m[2], m[4], m[1], m[3], m[4]); ok {
			return s, e
		}
	}
	return "", ""
}

func rangeDates(mon1, day1, year1, mon2, day2, year2 string) (string, string, bool) {
	s, ok1 := isoDate(year1, mon1, day1)
	e, ok2 := isoDate(year2, mon2, day2)
	if !ok1 || !ok2 {
		return "", "", false
	}
	return s, e, true
}

var monthsByName = func() map[string]time.Month {
	m := make(map[string]time.Month)
	for i := time.January; i <= time.December; i++ {
		name := strings.ToLower(i.String())
		m[name] = i
		m[name[:3]] = i
	}
	return m
}()

// monthNumber resolves a month token (full name or 3+ letter prefix,
// optional trailing period) to its number, or 0 when unrecognized.
func monthNumber(token string) time.Month {
	t := strings.ToLower(strings.TrimSuffix(strings.TrimSpace(token), "."))
	if m, ok := monthsByName[t]; ok {
		return m
	}
	if len(t) >= 3 {
		if m, ok := monthsByName[t[:3]]; ok {
			// Prefix must actually belong to the month it abbreviates.
			if strings.HasPrefix(strings.ToLower(m.String()), t) {
				return m
			}
		}
	}
	return 0
}

// isoDate validates and formats a year/month-token/day triple.
func isoDate(year, monthToken, day string) (string, bool) {
	mon := monthNumber(monthToken)
	if mon == 0 {
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

// selectField resolves a field selector within sel. A selector of the form
// "css@attr" addresses an attribute of the first match instead of its text.
func selectField(sel *goquery.Selection, selector string) string {
	if selector == "" {
		return ""
	}
	if css, attr, found := strings.Cut(selector, "@"); found {
		val, _ := sel.Find(css).First().Attr(attr)
		return strings.TrimSpace(val)
	}
	return collapseSpace(sel.Find(selector).First().Text())
}

func collapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
