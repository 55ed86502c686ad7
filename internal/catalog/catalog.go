package catalog

import "strings"

// Play is a canonical Shakespeare work with its known aliases.
type Play struct {
	Slug    string   `json:"slug"`
	Title   string   `json:"title"`
	Aliases []string `json:"aliases,omitempty"`
}

// Catalog is an immutable lookup structure over the canonical plays.
// It is built once (per run or per test) and passed by reference to
// resolver calls; nothing mutates it after construction.
type Catalog struct {
	plays   []Play
	titles  []string
	byAlias map[string]string // lowercased title or alias -> canonical title
	bySlug  map[string]Play
}

// New builds a catalog over the built-in canon.
func New() *Catalog {
	return FromPlays(CanonicalPlays())
}

// FromPlays builds a catalog from an explicit play list. Titles and aliases
// are indexed case-insensitively.
func FromPlays(plays []Play) *Catalog {
	c := &Catalog{
		plays:   plays,
		titles:  make([]string, 0, len(plays)),
		byAlias: make(map[string]string),
		bySlug:  make(map[string]Play),
	}
	for _, p := range plays {
		c.titles = append(c.titles, p.Title)
		c.byAlias[strings.ToLower(p.Title)] = p.Title
		for _, a := range p.Aliases {
			c.byAlias[strings.ToLower(a)] = p.Title
		}
		c.bySlug[p.Slug] = p
	}
	return c
}

// Titles returns the canonical titles in catalog order.
// Callers must not modify the returned slice.
func (c *Catalog) Titles() []string {
	return c.titles
}

// Plays returns all plays in catalog order.
func (c *Catalog) Plays() []Play {
	return c.plays
}

// CanonicalTitle resolves an exact title or alias (case-insensitive) to its
// canonical title.
func (c *Catalog) CanonicalTitle(titleOrAlias string) (string, bool) {
	t, ok := c.byAlias[strings.ToLower(strings.TrimSpace(titleOrAlias))]
	return t, ok
}

// BySlug looks up a play by its slug.
func (c *Catalog) BySlug(slug string) (Play, bool) {
	p, ok := c.bySlug[slug]
	return p, ok
}

// Len returns the number of plays in the catalog.
func (c *Catalog) Len() int {
	return len(c.plays)
}
