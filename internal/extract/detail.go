package extract

import (
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/stagefind/stagefind/internal/registry"
)

// DetailRequests collects the unique absolute detail-page URLs referenced by
// the company's detail-link selector, resolved against the company's base
// URL, in document order. The fetches themselves happen in the orchestration
// layer; a request that fails simply contributes no enrichment.
func DetailRequests(html string, c registry.Company) []string {
	if c.HTML.DetailLinks == "" || c.HTML.DetailFields.Empty() {
		return nil
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil
	}

	base, _ := url.Parse(c.URL)
	seen := make(map[string]bool)
	var urls []string
	doc.Find(c.HTML.DetailLinks).Each(func(i int, node *goquery.Selection) {
		href, ok := node.Attr("href")
		if !ok {
			href, ok = node.Find("a").First().Attr("href")
		}
		href = strings.TrimSpace(href)
		if !ok || href == "" {
			return
		}
		full := resolveURL(base, href)
		if full == "" || seen[full] {
			return
		}
		seen[full] = true
		urls = append(urls, full)
	})
	return urls
}

// DetailPage extracts one event from a fetched detail page using the
// company's detail field map. Yearless date text gets the same year
// inference as inline-detail mode.
func DetailPage(html string, c registry.Company, pageURL string, today time.Time) RawEvent {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return RawEvent{URL: pageURL}
	}

	root := doc.Selection
	datesText := selectField(root, c.HTML.DetailFields.Dates)
	if datesText != "" && !yearTokenRe.MatchString(datesText) {
		if inferred := inferYearShortRange(datesText, today); inferred != "" {
			datesText = inferred
		}
	}
	start, end := parseRangeDirect(datesText)
	return RawEvent{
		Title:     selectField(root, c.HTML.DetailFields.Title),
		DatesText: datesText,
		StartDate: start,
		EndDate:   end,
		URL:       pageURL,
		Venue:     selectField(root, c.HTML.DetailFields.Venue),
	}
}

// MergeDetail merges enriched detail-page candidates into the list-page
// candidates. A base candidate whose title appears among the enriched set
// is overwritten only on its non-empty fields (detail wins per-field, never
// per-record; empty never overwrites). Enriched titles not present in the
// base list are appended. Candidates without a title are dropped.
func MergeDetail(base, enriched []RawEvent) []RawEvent {
	byTitle := make(map[string]RawEvent, len(enriched))
	for _, e := range enriched {
		if e.Title != "" {
			if _, ok := byTitle[e.Title]; !ok {
				byTitle[e.Title] = e
			}
		}
	}

	merged := make([]RawEvent, 0, len(base)+len(enriched))
	seen := make(map[string]bool, len(base))
	for _, b := range base {
		if b.Title == "" {
			continue
		}
		if d, ok := byTitle[b.Title]; ok {
			merged = append(merged, overlayNonEmpty(b, d))
		} else {
			merged = append(merged, b)
		}
		seen[b.Title] = true
	}
	for _, e := range enriched {
		if e.Title != "" && !seen[e.Title] {
			merged = append(merged, e)
			seen[e.Title] = true
		}
	}
	return merged
}

// overlayNonEmpty copies each non-empty field of d over b.
func overlayNonEmpty(b, d RawEvent) RawEvent {
	if d.Title != "" {
		b.Title = d.Title
	}
	if d.DatesText != "" {
		b.DatesText = d.DatesText
	}
	if d.StartDate != "" {
		b.StartDate = d.StartDate
	}
	if d.EndDate != "" {
		b.EndDate = d.EndDate
	}
	if d.URL != "" {
		b.URL = d.URL
	}
	if d.Venue != "" {
		b.Venue = d.Venue
	}
	if d.Description != "" {
		b.Description = d.Description
	}
	return b
}

func resolveURL(base *url.URL, href string) string {
	ref, err := url.Parse(href)
	if err != nil {
		return ""
	}
	if base == nil {
		return ref.String()
	}
	return base.ResolveReference(ref).String()
}
