package extract

// RawEvent is a transient candidate event produced by an extractor. It has
// no identity; normalization consumes it immediately.
type RawEvent struct {
	Title       string
	DatesText   string
	StartDate   string // ISO date when the source supplied structured dates
	EndDate     string
	URL         string
	Venue       string
	Description string
}

// DedupeByTitle removes events whose title was already seen, keeping the
// first occurrence. Source document order is preserved.
func DedupeByTitle(events []RawEvent) []RawEvent {
	seen := make(map[string]bool, len(events))
	out := make([]RawEvent, 0, len(events))
	for _, e := range events {
		if e.Title == "" || seen[e.Title] {
			continue
		}
		seen[e.Title] = true
		out = append(out, e)
	}
	return out
}
