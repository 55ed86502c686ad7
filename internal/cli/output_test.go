package cli

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stagefind/stagefind/internal/report"
	"github.com/stagefind/stagefind/internal/staleness"
)

func outputReport() *report.Report {
	companies := []report.CompanyReport{
		{
			Company: report.Company{ID: "fst", Name: "Festival Stage Theatre"},
			Events: []report.ProductionRecord{
				{
					TitleDisplay:    "Hamlet",
					CanonicalTitle:  "Hamlet",
					IsShakespeare:   true,
					MatchConfidence: 0.9,
					StartDate:       "2026-03-19",
					EndDate:         "2026-04-05",
				},
				{TitleDisplay: "Cats"},
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
	}
	return report.New(companies, time.Date(2025, 9, 13, 0, 0, 0, 0, time.UTC))
}

func TestWriteOutputText(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteOutput(&buf, outputReport(), FormatText, false); err != nil {
		t.Fatalf("write failed: %v", err)
	}
	out := buf.String()

	for _, want := range []string{
		"Scraped 2 companies: 2 events (1 Shakespeare)",
		"  Festival Stage Theatre: 2 events",
		"! Old Theatre: 0 events",
		"stale (high): empty_page",
		"1 stale companies (severity weight 3)",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "Hamlet ->") {
		t.Error("per-production lines should need verbose")
	}
}

func TestWriteOutputTextVerbose(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteOutput(&buf, outputReport(), FormatText, true); err != nil {
		t.Fatalf("write failed: %v", err)
	}
	out := buf.String()

	if !strings.Contains(out, "Hamlet -> Hamlet (0.90) [2026-03-19 to 2026-04-05]") {
		t.Errorf("missing resolved production line:\n%s", out)
	}
	if !strings.Contains(out, "Cats [dates unknown]") {
		t.Errorf("missing undated production line:\n%s", out)
	}
}

func TestWriteOutputJSON(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteOutput(&buf, outputReport(), FormatJSON, false); err != nil {
		t.Fatalf("write failed: %v", err)
	}

	var decoded report.Report
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if len(decoded.Companies) != 2 || decoded.Summary.TotalEvents != 2 {
		t.Errorf("decoded = %+v", decoded.Summary)
	}
}

func TestWriteOutputUnknownFormat(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteOutput(&buf, outputReport(), OutputFormat("xml"), false); err == nil {
		t.Fatal("expected error for unknown format")
	}
}
