package scrape

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stagefind/stagefind/internal/catalog"
	"github.com/stagefind/stagefind/internal/registry"
	"github.com/stagefind/stagefind/internal/resolve"
	"github.com/stagefind/stagefind/internal/staleness"
)

var testToday = time.Date(2025, 9, 13, 0, 0, 0, 0, time.UTC)

// fakeFetcher serves canned pages by URL.
type fakeFetcher struct {
	pages map[string]string
}

func (f *fakeFetcher) Fetch(ctx context.Context, url string) (string, error) {
	if html, ok := f.pages[url]; ok {
		return html, nil
	}
	return "", fmt.Errorf("fetch %s: no such page", url)
}

func newTestScraper(pages map[string]string) *Scraper {
	return New(&fakeFetcher{pages: pages}, resolve.NewMatcher(catalog.New()), nil)
}

const jsonldPage = `<script type="application/ld+json">
{"@type": "TheaterEvent", "name": "William Shakespeare's Hamlet",
 "startDate": "2026-03-19", "endDate": "2026-04-05",
 "url": "https://fst.example.org/hamlet",
 "location": {"name": "Festival Stage"}}
</script>`

func TestRunJSONLDCompany(t *testing.T) {
	c := registry.Company{
		ID:   "fst",
		Name: "Festival Stage Theatre",
		URL:  "https://fst.example.org/season",
	}
	s := newTestScraper(map[string]string{c.URL: jsonldPage})

	r, err := s.Run(context.Background(), []registry.Company{c}, Options{Today: testToday, LocalOnly: true})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if len(r.Companies) != 1 {
		t.Fatalf("companies = %d", len(r.Companies))
	}

	cr := r.Companies[0]
	if len(cr.Events) != 1 {
		t.Fatalf("events = %d", len(cr.Events))
	}

	rec := cr.Events[0]
	if rec.TitleDisplay != "Hamlet" {
		t.Errorf("title = %q, expected boilerplate stripped", rec.TitleDisplay)
	}
	if !rec.IsShakespeare || rec.CanonicalTitle != "Hamlet" {
		t.Errorf("resolution = %q/%v", rec.CanonicalTitle, rec.IsShakespeare)
	}
	if rec.StartDate != "2026-03-19" || rec.EndDate != "2026-04-05" {
		t.Errorf("dates = (%q, %q)", rec.StartDate, rec.EndDate)
	}
	if rec.DateConfidence != "1" {
		t.Errorf("date confidence = %q, expected 1 from structured hints", rec.DateConfidence)
	}
	if rec.Venue != "Festival Stage" {
		t.Errorf("venue = %q", rec.Venue)
	}
	if rec.SourceHash == "" || rec.SourcePage != c.URL {
		t.Errorf("provenance = %q %q", rec.SourceHash, rec.SourcePage)
	}
	if cr.Staleness.Stale {
		t.Errorf("staleness = %+v, expected fresh", cr.Staleness)
	}

	if r.Summary.TotalEvents != 1 || r.Summary.ShakespeareEvents != 1 {
		t.Errorf("summary = %+v", r.Summary)
	}
}

func TestRunHTMLCompanyWithDetailCrawl(t *testing.T) {
	c := registry.Company{
		ID:         "det",
		Name:       "Detail Theatre",
		URL:        "https://det.example.org/season",
		Strategies: []string{"html"},
		HTML: registry.HTMLConfig{
			ListSelector: ".card",
			Fields:       registry.FieldMap{Title: "h3", Dates: ".dates"},
			DetailLinks:  ".card a",
			DetailFields: registry.FieldMap{Title: "h1", Dates: ".run-dates"},
		},
	}
	listing := `<div class="card"><h3>Macbeth</h3><div class="dates">coming soon</div>
<a href="/shows/macbeth">More</a></div>`
	detail := `<h1>Macbeth</h1><div class="run-dates">October 2 – 26, 2025</div>`

	s := newTestScraper(map[string]string{
		c.URL: listing,
		"https://det.example.org/shows/macbeth": detail,
	})

	r, err := s.Run(context.Background(), []registry.Company{c}, Options{Today: testToday, LocalOnly: true})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	events := r.Companies[0].Events
	if len(events) != 1 {
		t.Fatalf("events = %d", len(events))
	}
	rec := events[0]
	if rec.StartDate != "2025-10-02" || rec.EndDate != "2025-10-26" {
		t.Errorf("detail dates = (%q, %q)", rec.StartDate, rec.EndDate)
	}
	if rec.CanonicalTitle != "Macbeth" {
		t.Errorf("canonical = %q", rec.CanonicalTitle)
	}
}

func TestRunFallsBackToOfflineSnapshot(t *testing.T) {
	snapshot := filepath.Join(t.TempDir(), "fst.html")
	if err := os.WriteFile(snapshot, []byte(jsonldPage), 0644); err != nil {
		t.Fatal(err)
	}
	c := registry.Company{
		ID:          "fst",
		Name:        "Festival Stage Theatre",
		URL:         "https://unreachable.example.org/season",
		OfflineHTML: snapshot,
	}
	s := newTestScraper(nil) // every fetch fails

	r, err := s.Run(context.Background(), []registry.Company{c}, Options{Today: testToday, LocalOnly: true})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if len(r.Companies[0].Events) != 1 {
		t.Errorf("events = %d, expected snapshot content", len(r.Companies[0].Events))
	}
}

func TestRunNoNetworkInlineDetail(t *testing.T) {
	snapshot := filepath.Join(t.TempDir(), "tav.html")
	page := `<figure><figcaption>
<h2>The Tempest</h2><div class="prod-dates">Oct 3 – 12</div>
</figcaption></figure>`
	if err := os.WriteFile(snapshot, []byte(page), 0644); err != nil {
		t.Fatal(err)
	}
	c := registry.Company{
		ID:          "tav",
		Name:        "The Tavern",
		URL:         "https://tav.example.org/",
		Strategies:  []string{"html"},
		HTML:        registry.HTMLConfig{InlineDetail: true},
		OfflineHTML: snapshot,
		NoNetwork:   true,
	}
	s := newTestScraper(nil)

	r, err := s.Run(context.Background(), []registry.Company{c}, Options{Today: testToday, LocalOnly: true})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	events := r.Companies[0].Events
	if len(events) != 1 {
		t.Fatalf("events = %d", len(events))
	}
	rec := events[0]
	if rec.StartDate != "2025-10-03" || rec.EndDate != "2025-10-12" {
		t.Errorf("inferred dates = (%q, %q)", rec.StartDate, rec.EndDate)
	}
	if rec.DateConfidence != "range_inferred" {
		t.Errorf("date confidence = %q, expected range_inferred", rec.DateConfidence)
	}
	if rec.CanonicalTitle != "The Tempest" {
		t.Errorf("canonical = %q", rec.CanonicalTitle)
	}
}

func TestRunInlineDetailCompanyWithoutFigcaptions(t *testing.T) {
	c := registry.Company{
		ID:         "tav",
		Name:       "The Tavern",
		URL:        "https://tav.example.org/",
		Strategies: []string{"html"},
		HTML: registry.HTMLConfig{
			InlineDetail: true,
			ListSelector: ".card",
			Fields:       registry.FieldMap{Title: "h3", Dates: ".dates"},
		},
	}
	page := `<div class="card"><h3>Macbeth</h3><div class="dates">October 2 – 26, 2025</div></div>`
	s := newTestScraper(map[string]string{c.URL: page})

	r, err := s.Run(context.Background(), []registry.Company{c}, Options{Today: testToday, LocalOnly: true})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	events := r.Companies[0].Events
	if len(events) != 1 {
		t.Fatalf("events = %d", len(events))
	}
	rec := events[0]
	if rec.StartDate != "2025-10-02" || rec.EndDate != "2025-10-26" {
		t.Errorf("dates = (%q, %q)", rec.StartDate, rec.EndDate)
	}
	if rec.DateConfidence != "1" {
		t.Errorf("date confidence = %q, expected 1 from the listing scan", rec.DateConfidence)
	}
}

func TestRunEmptyCompanyIsStale(t *testing.T) {
	c := registry.Company{
		ID:   "old",
		Name: "Old Theatre",
		URL:  "https://old.example.org/fall-2024",
	}
	s := newTestScraper(map[string]string{c.URL: "<html><body>nothing here</body></html>"})

	r, err := s.Run(context.Background(), []registry.Company{c}, Options{Today: testToday, LocalOnly: true})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	st := r.Companies[0].Staleness
	if !st.Stale || !st.HasReason(staleness.ReasonEmptyPage) {
		t.Errorf("staleness = %+v, expected empty_page", st)
	}
	if st.Severity != staleness.SeverityHigh {
		t.Errorf("severity = %s", st.Severity)
	}
}

func TestFilterCompanies(t *testing.T) {
	companies := []registry.Company{
		{ID: "a", URL: "https://a.example.org/"},
		{ID: "b", URL: "https://b.example.org/", Status: "paused"},
		{ID: "c", URL: ""},
		{ID: "a", URL: "https://a2.example.org/"}, // later entry wins
		{ID: "d", URL: "https://d.example.org/"},
	}

	got := filterCompanies(companies, nil)
	if len(got) != 2 || got[0].ID != "a" || got[1].ID != "d" {
		t.Errorf("filtered = %+v", got)
	}
	if got[0].URL != "https://a2.example.org/" {
		t.Errorf("duplicate resolution = %q, expected later entry", got[0].URL)
	}

	only := filterCompanies(companies, []string{" d "})
	if len(only) != 1 || only[0].ID != "d" {
		t.Errorf("only filter = %+v", only)
	}
}

func TestRunNoCompanies(t *testing.T) {
	s := newTestScraper(nil)

	if _, err := s.Run(context.Background(), nil, Options{}); err == nil {
		t.Fatal("expected error with no companies")
	}

	paused := []registry.Company{{ID: "x", URL: "https://x.example.org/", Status: "paused"}}
	if _, err := s.Run(context.Background(), paused, Options{}); err == nil {
		t.Fatal("expected error when every company is paused")
	}
}
