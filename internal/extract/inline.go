package extract

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
)

const (
	inlineTitleSelector = "h1, h2, h3"
	inlineDatesSelector = ".prod-dates, .dates, .date"
	inlineLinkSelector  = "a.buy-tickets-button"
)

// shortRangeRe matches a yearless same-month range like "Mar 13 – 29".
var shortRangeRe = regexp.MustCompile(`^([A-Za-z]{3,9})\s+(\d{1,2})\s*[–-]\s*(\d{1,2})$`)

// inlineDetailEvents parses figcaption blocks directly on the listing page
// for a heading and a date-like sibling. Date text lacking a 4-digit year
// gets the current year appended, rolled back one year when today is before
// March and the referenced month is October or later (a season straddling
// the new year).
func inlineDetailEvents(doc *goquery.Document, today time.Time) []RawEvent {
	var events []RawEvent
	doc.Find("figcaption").Each(func(i int, fc *goquery.Selection) {
		title := collapseSpace(fc.Find(inlineTitleSelector).First().Text())
		if title == "" {
			return
		}
		datesText := collapseSpace(fc.Find(inlineDatesSelector).First().Text())
		if datesText != "" && !yearTokenRe.MatchString(datesText) {
			if inferred := inferYearShortRange(datesText, today); inferred != "" {
				datesText = inferred
			}
		}
		start, end := parseRangeDirect(datesText)
		url, _ := fc.Find(inlineLinkSelector).First().Attr("href")
		events = append(events, RawEvent{
			Title:     title,
			DatesText: datesText,
			StartDate: start,
			EndDate:   end,
			URL:       strings.TrimSpace(url),
		})
	})
	return events
}

// inferYearShortRange appends a calendar year to a yearless short range.
// Returns "" when the text is not a recognizable short range.
func inferYearShortRange(text string, today time.Time) string {
	m := shortRangeRe.FindStringSubmatch(strings.TrimSpace(text))
	if m == nil {
		return ""
	}
	mon := monthNumber(m[1])
	if mon == 0 {
		return ""
	}
	year := today.Year()
	if today.Month() < time.March && mon >= time.October {
		year--
	}
	return fmt.Sprintf("%s %d", strings.TrimSpace(text), year)
}
