package export

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/stagefind/stagefind/internal/report"
	"github.com/stagefind/stagefind/internal/staleness"
)

func sampleReport() *report.Report {
	return report.New([]report.CompanyReport{
		{
			Company: report.Company{ID: "fst", Name: "Festival Stage Theatre"},
			Events: []report.ProductionRecord{
				{TitleDisplay: "Hamlet", CanonicalTitle: "Hamlet", IsShakespeare: true},
				{TitleDisplay: "A Holiday Cabaret"},
			},
		},
		{
			Company: report.Company{ID: "old", Name: "Old Theatre"},
			Staleness: staleness.Result{
				Stale:    true,
				Reasons:  []staleness.ReasonCode{staleness.ReasonEmptyPage},
				Severity: staleness.SeverityHigh,
			},
		},
	}, time.Date(2025, 9, 13, 12, 0, 0, 0, time.UTC))
}

func TestWriteReportJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "report.json")

	written, err := WriteReport(sampleReport(), path, "json", true)
	if err != nil {
		t.Fatalf("WriteReport failed: %v", err)
	}

	data, err := os.ReadFile(written)
	if err != nil {
		t.Fatalf("reading export: %v", err)
	}

	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		t.Fatalf("parsing export: %v", err)
	}
	if doc.Meta.RecordCount != 2 {
		t.Errorf("record count = %d, expected 2", doc.Meta.RecordCount)
	}
	if doc.Meta.ShakespeareEvents != 1 {
		t.Errorf("shakespeare events = %d, expected 1", doc.Meta.ShakespeareEvents)
	}
	if doc.Meta.GeneratedAtUTC == "" {
		t.Error("expected generated_at_utc stamp")
	}
	if len(doc.Companies) != 2 {
		t.Errorf("companies = %d, expected 2", len(doc.Companies))
	}
	if doc.Summary.StaleCompanies != 1 {
		t.Errorf("summary stale companies = %d, expected 1", doc.Summary.StaleCompanies)
	}
}

func TestWriteReportYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.yaml")

	written, err := WriteReport(sampleReport(), path, "yaml", false)
	if err != nil {
		t.Fatalf("WriteReport failed: %v", err)
	}

	data, err := os.ReadFile(written)
	if err != nil {
		t.Fatalf("reading export: %v", err)
	}

	var doc Document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		t.Fatalf("parsing yaml export: %v", err)
	}
	if doc.Meta.RecordCount != 2 {
		t.Errorf("record count = %d, expected 2", doc.Meta.RecordCount)
	}
}

func TestWriteReportUnknownFormat(t *testing.T) {
	if _, err := WriteReport(sampleReport(), filepath.Join(t.TempDir(), "x.xml"), "xml", false); err == nil {
		t.Fatal("expected error for unsupported format")
	}
}

func TestWriteStaleReport(t *testing.T) {
	// Non-.json extension is rewritten.
	path := filepath.Join(t.TempDir(), "stale.txt")

	written, err := WriteStaleReport(sampleReport(), path, false)
	if err != nil {
		t.Fatalf("WriteStaleReport failed: %v", err)
	}
	if !strings.HasSuffix(written, ".json") {
		t.Errorf("path = %q, expected .json extension", written)
	}

	data, err := os.ReadFile(written)
	if err != nil {
		t.Fatalf("reading stale report: %v", err)
	}

	var sr StaleReport
	if err := json.Unmarshal(data, &sr); err != nil {
		t.Fatalf("parsing stale report: %v", err)
	}
	if sr.Count != 1 {
		t.Errorf("count = %d, expected 1", sr.Count)
	}
	if len(sr.Stale) != 1 || sr.Stale[0].Company != "old" {
		t.Errorf("stale entries = %+v", sr.Stale)
	}
	if sr.SeverityCounts["high"] != 1 {
		t.Errorf("severity counts = %v", sr.SeverityCounts)
	}
	if sr.SeverityWeighted != 3 {
		t.Errorf("severity weighted = %d, expected 3", sr.SeverityWeighted)
	}
}
