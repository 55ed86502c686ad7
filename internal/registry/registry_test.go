package registry

import (
	"os"
	"path/filepath"
	"testing"
)

const sampleRegistry = `
- id: fst
  name: Festival Stage Theatre
  url: https://fst.example.org/season
  timezone: America/Chicago
  strategy: [jsonld, html]
  html:
    list: ".production-card"
    fields:
      title: "h3"
      dates: ".dates"
      url: "a@href"
    detail_links: ".production-card a.more"
    detail:
      fields:
        title: "h1"
        dates: ".run-dates"
  stages:
    - Festival Stage
    - Studio Theatre
- id: tav
  name: The Tavern
  url: https://tav.example.org/
  strategy: html
  status: paused
  html:
    inline_detail: true
  offline_html: testdata/tav.html
  no_network: true
`

func TestParse(t *testing.T) {
	companies, err := Parse([]byte(sampleRegistry))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if len(companies) != 2 {
		t.Fatalf("expected 2 companies, got %d", len(companies))
	}

	fst := companies[0]
	if fst.ID != "fst" || fst.Name != "Festival Stage Theatre" {
		t.Errorf("identity = %q %q", fst.ID, fst.Name)
	}
	if fst.Status != "active" {
		t.Errorf("status = %q, expected default active", fst.Status)
	}
	if len(fst.Strategies) != 2 || fst.Strategies[0] != "jsonld" || fst.Strategies[1] != "html" {
		t.Errorf("strategies = %v", fst.Strategies)
	}
	if fst.HTML.ListSelector != ".production-card" {
		t.Errorf("list selector = %q", fst.HTML.ListSelector)
	}
	if fst.HTML.Fields.Title != "h3" || fst.HTML.Fields.URL != "a@href" {
		t.Errorf("field map = %+v", fst.HTML.Fields)
	}
	if fst.HTML.DetailLinks != ".production-card a.more" {
		t.Errorf("detail links = %q", fst.HTML.DetailLinks)
	}
	if fst.HTML.DetailFields.Title != "h1" || fst.HTML.DetailFields.Dates != ".run-dates" {
		t.Errorf("detail fields = %+v", fst.HTML.DetailFields)
	}
	if len(fst.Stages) != 2 || fst.Stages[0] != "Festival Stage" {
		t.Errorf("stages = %v", fst.Stages)
	}

	tav := companies[1]
	if !tav.Paused() {
		t.Error("expected tav to be paused")
	}
	if !tav.HTML.InlineDetail || !tav.NoNetwork || tav.OfflineHTML != "testdata/tav.html" {
		t.Errorf("offline config = %+v", tav)
	}
	if len(tav.Strategies) != 1 || tav.Strategies[0] != "html" {
		t.Errorf("scalar strategy = %v", tav.Strategies)
	}
}

func TestParseScalarLists(t *testing.T) {
	data := `
- id: x
  name: X
  url: https://x.example.org/
  strategy: "jsonld, html"
  stages: "Main Hall, The Attic"
`
	companies, err := Parse([]byte(data))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	c := companies[0]
	if len(c.Strategies) != 2 || c.Strategies[1] != "html" {
		t.Errorf("strategies = %v", c.Strategies)
	}
	if len(c.Stages) != 2 || c.Stages[1] != "The Attic" {
		t.Errorf("stages = %v", c.Stages)
	}
}

func TestParseMissingID(t *testing.T) {
	if _, err := Parse([]byte("- name: Anonymous\n  url: https://x.example.org/\n")); err == nil {
		t.Fatal("expected error for missing id")
	}
}

func TestParseEmpty(t *testing.T) {
	companies, err := Parse(nil)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if len(companies) != 0 {
		t.Errorf("expected empty list, got %d", len(companies))
	}
}

func TestStrategyEnabled(t *testing.T) {
	all := Company{}
	if !all.StrategyEnabled(StrategyJSONLD) || !all.StrategyEnabled(StrategyHTML) {
		t.Error("empty strategy list should enable everything")
	}

	htmlOnly := Company{Strategies: []string{"html"}}
	if htmlOnly.StrategyEnabled(StrategyJSONLD) {
		t.Error("jsonld should be disabled")
	}
	if !htmlOnly.StrategyEnabled("HTML") {
		t.Error("strategy names compare case-insensitively")
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "registry.yaml")
	if err := os.WriteFile(path, []byte(sampleRegistry), 0644); err != nil {
		t.Fatal(err)
	}

	companies, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(companies) != 2 {
		t.Errorf("expected 2 companies, got %d", len(companies))
	}

	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}
