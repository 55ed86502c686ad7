// Package calendar renders production records as iCalendar documents so a
// run can feed personal calendars directly.
package calendar

import (
	"fmt"
	"strings"
	"time"

	"github.com/stagefind/stagefind/internal/report"
)

// GenerateICS generates an iCalendar (.ics) document for a production.
// Productions are all-day ranges; an unresolved start date falls back to a
// week from now so the entry is still importable.
func GenerateICS(rec report.ProductionRecord) string {
	var ics strings.Builder

	ics.WriteString("BEGIN:VCALENDAR\r\n")
	ics.WriteString("VERSION:2.0\r\n")
	ics.WriteString("PRODID:-//stagefind//stagefind//EN\r\n")
	ics.WriteString("CALSCALE:GREGORIAN\r\n")
	ics.WriteString("METHOD:PUBLISH\r\n")
	ics.WriteString("BEGIN:VEVENT\r\n")

	ics.WriteString(fmt.Sprintf("UID:%s@stagefind\r\n", rec.SourceHash))
	ics.WriteString(fmt.Sprintf("DTSTAMP:%s\r\n", time.Now().UTC().Format("20060102T150405Z")))

	start, err := time.Parse("2006-01-02", rec.StartDate)
	if err != nil {
		start = time.Now().AddDate(0, 0, 7)
	}
	end := start
	if t, err := time.Parse("2006-01-02", rec.EndDate); err == nil {
		end = t
	}
	// DTEND is exclusive for all-day events.
	ics.WriteString(fmt.Sprintf("DTSTART;VALUE=DATE:%s\r\n", start.Format("20060102")))
	ics.WriteString(fmt.Sprintf("DTEND;VALUE=DATE:%s\r\n", end.AddDate(0, 0, 1).Format("20060102")))

	title := rec.TitleDisplay
	if rec.CanonicalTitle != "" {
		title = rec.CanonicalTitle
	}
	ics.WriteString(fmt.Sprintf("SUMMARY:%s\r\n", escapeICS(fmt.Sprintf("%s - %s", rec.CompanyName, title))))

	description := rec.TitleDisplay
	if rec.RawDatesText != "" {
		description = fmt.Sprintf("%s\nDates: %s", description, rec.RawDatesText)
	}
	if rec.ShowURL != "" {
		description = fmt.Sprintf("%s\nTickets: %s", description, rec.ShowURL)
	}
	ics.WriteString(fmt.Sprintf("DESCRIPTION:%s\r\n", escapeICS(description)))

	if rec.Venue != "" {
		ics.WriteString(fmt.Sprintf("LOCATION:%s\r\n", escapeICS(rec.Venue)))
	}
	if rec.ShowURL != "" {
		ics.WriteString(fmt.Sprintf("URL:%s\r\n", rec.ShowURL))
	}

	ics.WriteString("STATUS:CONFIRMED\r\n")
	ics.WriteString("SEQUENCE:0\r\n")
	ics.WriteString("TRANSP:TRANSPARENT\r\n")

	ics.WriteString("END:VEVENT\r\n")
	ics.WriteString("END:VCALENDAR\r\n")

	return ics.String()
}

// escapeICS escapes special characters per RFC 5545.
func escapeICS(s string) string {
	s = strings.ReplaceAll(s, "\\", "\\\\")
	s = strings.ReplaceAll(s, ",", "\\,")
	s = strings.ReplaceAll(s, ";", "\\;")
	s = strings.ReplaceAll(s, "\n", "\\n")
	return s
}
