// Package registry loads and models the theatre-company registry.
//
// The registry is a YAML file of company descriptors. All loosely-typed
// parts of an entry (selector maps, stage lists, strategy lists) are
// resolved into typed fields once at load time; nothing downstream
// re-interprets raw config.
package registry

import (
	"fmt"
	"os"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"
)

// Extraction strategy names accepted in a company's strategy list.
const (
	StrategyJSONLD = "jsonld"
	StrategyHTML   = "html"
)

// FieldMap maps event fields to CSS selectors. A selector may address an
// attribute instead of text content with the form "css@attr", e.g. "a@href".
type FieldMap struct {
	Title string `yaml:"title" json:"title,omitempty"`
	Dates string `yaml:"dates" json:"dates,omitempty"`
	URL   string `yaml:"url" json:"url,omitempty"`
	Venue string `yaml:"venue" json:"venue,omitempty"`
}

// Empty reports whether no selector is configured at all.
func (m FieldMap) Empty() bool {
	return m.Title == "" && m.Dates == "" && m.URL == "" && m.Venue == ""
}

// HTMLConfig configures the heuristic HTML extractor for one company.
type HTMLConfig struct {
	// ListSelector selects the repeating card elements on the listing page.
	ListSelector string `yaml:"list" json:"list,omitempty"`
	// Fields resolves event fields within each card.
	Fields FieldMap `yaml:"fields" json:"fields,omitempty"`
	// DetailLinks selects links to per-production detail pages.
	DetailLinks string `yaml:"detail_links" json:"detail_links,omitempty"`
	// DetailFields resolves event fields on a fetched detail page.
	DetailFields FieldMap `yaml:"detail_fields" json:"detail_fields,omitempty"`
	// InlineDetail enables parsing figcaption blocks directly on the
	// listing page instead of following detail links.
	InlineDetail bool `yaml:"inline_detail" json:"inline_detail,omitempty"`
}

// Company describes one theatre company and how to scrape it.
type Company struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	URL      string `json:"url"`
	Timezone string `json:"timezone,omitempty"`

	// Strategies lists enabled extraction strategies; empty enables all.
	Strategies []string `json:"strategies,omitempty"`
	Status     string   `json:"status,omitempty"`

	HTML HTMLConfig `json:"html,omitempty"`

	// Stages are known on-page venue names for this company, matched as
	// whole words during venue inference.
	Stages []string `json:"stages,omitempty"`

	// OfflineHTML is a snapshot path used when live fetch fails (or when
	// NoNetwork is set). OfflineDetailDir holds per-production detail
	// snapshots used when the listing yields nothing.
	OfflineHTML      string `json:"offline_html,omitempty"`
	OfflineDetailDir string `json:"offline_detail_dir,omitempty"`
	NoNetwork        bool   `json:"no_network,omitempty"`
}

// Paused reports whether the company is excluded from scrape passes.
func (c Company) Paused() bool {
	return strings.EqualFold(c.Status, "paused")
}

// StrategyEnabled reports whether the named extraction strategy should run.
// A company with no strategy list runs everything.
func (c Company) StrategyEnabled(name string) bool {
	if len(c.Strategies) == 0 {
		return true
	}
	for _, s := range c.Strategies {
		if strings.EqualFold(strings.TrimSpace(s), name) {
			return true
		}
	}
	return false
}

// rawEntry mirrors the YAML registry shape before type resolution.
type rawEntry struct {
	ID       string `yaml:"id"`
	Name     string `yaml:"name"`
	URL      string `yaml:"url"`
	Timezone string `yaml:"timezone"`
	Status   string `yaml:"status"`

	// strategy accepts a list or a comma-separated string.
	Strategy yaml.Node `yaml:"strategy"`

	HTML struct {
		List        string   `yaml:"list"`
		Fields      FieldMap `yaml:"fields"`
		DetailLinks string   `yaml:"detail_links"`
		Detail      struct {
			Fields FieldMap `yaml:"fields"`
		} `yaml:"detail"`
		InlineDetail bool `yaml:"inline_detail"`
	} `yaml:"html"`

	// stages accepts a list or a comma/newline-separated string.
	Stages yaml.Node `yaml:"stages"`

	OfflineHTML      string `yaml:"offline_html"`
	OfflineDetailDir string `yaml:"offline_detail_dir"`
	NoNetwork        bool   `yaml:"no_network"`
}

var stageSplitRe = regexp.MustCompile(`[\n,]+`)

// Load reads a YAML registry file and resolves each entry into a Company.
func Load(path string) ([]Company, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading registry: %w", err)
	}
	return Parse(data)
}

// Parse resolves registry YAML into companies. Entries without an id are
// rejected; an empty file yields an empty list.
func Parse(data []byte) ([]Company, error) {
	var raw []rawEntry
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parsing registry: %w", err)
	}

	companies := make([]Company, 0, len(raw))
	for i, e := range raw {
		if e.ID == "" {
			return nil, fmt.Errorf("registry entry %d: missing id", i)
		}
		c := Company{
			ID:       e.ID,
			Name:     e.Name,
			URL:      e.URL,
			Timezone: e.Timezone,
			Status:   e.Status,
			HTML: HTMLConfig{
				ListSelector: e.HTML.List,
				Fields:       e.HTML.Fields,
				DetailLinks:  e.HTML.DetailLinks,
				DetailFields: e.HTML.Detail.Fields,
				InlineDetail: e.HTML.InlineDetail,
			},
			Stages:           stringList(e.Stages, stageSplitRe),
			OfflineHTML:      e.OfflineHTML,
			OfflineDetailDir: e.OfflineDetailDir,
			NoNetwork:        e.NoNetwork,
		}
		c.Strategies = stringList(e.Strategy, regexp.MustCompile(`,`))
		if c.Status == "" {
			c.Status = "active"
		}
		companies = append(companies, c)
	}
	return companies, nil
}

// stringList decodes a YAML node that may be a sequence or a delimited
// scalar into a trimmed string slice.
func stringList(n yaml.Node, splitRe *regexp.Regexp) []string {
	switch n.Kind {
	case yaml.SequenceNode:
		var out []string
		for _, item := range n.Content {
			if v := strings.TrimSpace(item.Value); v != "" {
				out = append(out, v)
			}
		}
		return out
	case yaml.ScalarNode:
		var out []string
		for _, part := range splitRe.Split(n.Value, -1) {
			if v := strings.TrimSpace(part); v != "" {
				out = append(out, v)
			}
		}
		return out
	default:
		return nil
	}
}
