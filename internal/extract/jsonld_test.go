package extract

import "testing"

func TestJSONLDSingleEvent(t *testing.T) {
	html := `<html><head>
<script type="application/ld+json">
{
  "@context": "https://schema.org",
  "@type": "TheaterEvent",
  "name": "Hamlet",
  "startDate": "2026-03-19",
  "endDate": "2026-04-05",
  "url": "https://example.org/hamlet",
  "location": {"@type": "Place", "name": "Festival Stage"}
}
</script>
</head><body></body></html>`

	events := JSONLD(html, "https://example.org/season")
	if len(events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(events))
	}

	e := events[0]
	if e.Title != "Hamlet" {
		t.Errorf("title = %q, expected Hamlet", e.Title)
	}
	if e.StartDate != "2026-03-19" || e.EndDate != "2026-04-05" {
		t.Errorf("dates = (%q, %q), expected structured dates", e.StartDate, e.EndDate)
	}
	if e.URL != "https://example.org/hamlet" {
		t.Errorf("url = %q, expected event url", e.URL)
	}
	if e.Venue != "Festival Stage" {
		t.Errorf("venue = %q, expected Festival Stage", e.Venue)
	}
	if e.DatesText != "2026-03-19 – 2026-04-05" {
		t.Errorf("dates text = %q, expected synthesized range", e.DatesText)
	}
}

func TestJSONLDGraphAndArrays(t *testing.T) {
	html := `<script type="application/ld+json">
{
  "@context": "https://schema.org",
  "@graph": [
    {"@type": "Organization", "name": "The Theatre"},
    {"@type": "Event", "name": "Macbeth", "startDate": "2026-01-10"},
    {"@type": ["PerformingArtsEvent", "Event"], "name": "Othello"}
  ]
}
</script>
<script type="application/ld+json">
[{"@type": "TheaterEvent", "name": "King Lear"}]
</script>`

	events := JSONLD(html, "https://example.org/")
	if len(events) != 3 {
		t.Fatalf("expected 3 events, got %d", len(events))
	}

	titles := []string{events[0].Title, events[1].Title, events[2].Title}
	want := []string{"Macbeth", "Othello", "King Lear"}
	for i, w := range want {
		if titles[i] != w {
			t.Errorf("event %d title = %q, expected %q", i, titles[i], w)
		}
	}
}

func TestJSONLDDefaultsURLToBase(t *testing.T) {
	html := `<script type="application/ld+json">
{"@type": "Event", "name": "As You Like It"}
</script>`

	events := JSONLD(html, "https://example.org/whats-on")
	if len(events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(events))
	}
	if events[0].URL != "https://example.org/whats-on" {
		t.Errorf("url = %q, expected base URL fallback", events[0].URL)
	}
	if events[0].DatesText != "" {
		t.Errorf("dates text = %q, expected empty without structured dates", events[0].DatesText)
	}
}

func TestJSONLDIgnoresMalformedAndNonEvents(t *testing.T) {
	html := `<script type="application/ld+json">{not json at all</script>
<script type="application/ld+json">{"@type": "Article", "name": "Season announcement"}</script>
<script type="application/ld+json"></script>`

	if events := JSONLD(html, "https://example.org/"); len(events) != 0 {
		t.Errorf("expected no events, got %d", len(events))
	}
}
