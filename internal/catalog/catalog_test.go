package catalog

import "testing"

func TestNewCatalog(t *testing.T) {
	c := New()

	if c.Len() != 37 {
		t.Errorf("catalog size = %d, expected the full canon of 37", c.Len())
	}
	if len(c.Titles()) != c.Len() || len(c.Plays()) != c.Len() {
		t.Error("titles and plays must cover the whole catalog")
	}
}

func TestCanonicalTitle(t *testing.T) {
	c := New()

	tests := []struct {
		lookup   string
		expected string
		found    bool
	}{
		{"Hamlet", "Hamlet", true},
		{"hamlet", "Hamlet", true},
		{"The Tragedy of Hamlet", "Hamlet", true},
		{"  MND  ", "A Midsummer Night's Dream", true},
		{"R&J", "Romeo and Juliet", true},
		{"Cats", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.lookup, func(t *testing.T) {
			got, ok := c.CanonicalTitle(tt.lookup)
			if ok != tt.found || got != tt.expected {
				t.Errorf("CanonicalTitle(%q) = (%q, %v), expected (%q, %v)",
					tt.lookup, got, ok, tt.expected, tt.found)
			}
		})
	}
}

func TestBySlug(t *testing.T) {
	c := New()

	p, ok := c.BySlug("macbeth")
	if !ok || p.Title != "Macbeth" {
		t.Errorf("BySlug(macbeth) = (%+v, %v)", p, ok)
	}
	if _, ok := c.BySlug("not-a-play"); ok {
		t.Error("unknown slug should not resolve")
	}
}

func TestFromPlaysIsolated(t *testing.T) {
	c := FromPlays([]Play{{Slug: "x", Title: "X", Aliases: []string{"The X"}}})

	if got, ok := c.CanonicalTitle("the x"); !ok || got != "X" {
		t.Errorf("alias lookup = (%q, %v)", got, ok)
	}
	if c.Len() != 1 {
		t.Errorf("Len = %d, expected 1", c.Len())
	}
}
