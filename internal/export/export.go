// Package export writes scrape reports to disk as JSON or YAML, and can
// emit a separate stale-companies report for monitoring.
package export

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/stagefind/stagefind/internal/report"
	"github.com/stagefind/stagefind/internal/staleness"
)

// Meta is the _meta block stamped on every export.
type Meta struct {
	GeneratedAtUTC    string `json:"generated_at_utc" yaml:"generated_at_utc"`
	RecordCount       int    `json:"record_count" yaml:"record_count"`
	ShakespeareEvents int    `json:"shakespeare_events" yaml:"shakespeare_events"`
}

// Document is the on-disk shape of a full export.
type Document struct {
	Meta      Meta                   `json:"_meta" yaml:"_meta"`
	Companies []report.CompanyReport `json:"companies" yaml:"companies"`
	Summary   report.Summary         `json:"_summary" yaml:"_summary"`
}

// WriteReport writes the report to path in the given format ("json" or
// "yaml"). Parent directories are created as needed. Returns the resolved
// path written.
func WriteReport(r *report.Report, path, format string, pretty bool) (string, error) {
	p, err := ensureDir(path)
	if err != nil {
		return "", err
	}

	doc := Document{
		Meta: Meta{
			GeneratedAtUTC:    time.Now().UTC().Format(time.RFC3339),
			RecordCount:       r.Summary.TotalEvents,
			ShakespeareEvents: r.Summary.ShakespeareEvents,
		},
		Companies: r.Companies,
		Summary:   r.Summary,
	}

	var data []byte
	switch strings.ToLower(format) {
	case "yaml", "yml":
		data, err = yaml.Marshal(doc)
	case "json", "":
		data, err = marshalJSON(doc, pretty)
	default:
		return "", fmt.Errorf("unsupported export format %q", format)
	}
	if err != nil {
		return "", fmt.Errorf("encoding export: %w", err)
	}

	if err := os.WriteFile(p, data, 0644); err != nil {
		return "", fmt.Errorf("writing export: %w", err)
	}
	return p, nil
}

// StaleEntry is one stale company in the stale-only report.
type StaleEntry struct {
	Company  string                 `json:"company"`
	Reasons  []staleness.ReasonCode `json:"reasons"`
	Severity staleness.Severity     `json:"severity"`
	Info     map[string]interface{} `json:"info,omitempty"`
}

// StaleReport is the stale-only report payload.
type StaleReport struct {
	GeneratedAt      string         `json:"generated_at"`
	Count            int            `json:"count"`
	SeverityCounts   map[string]int `json:"severity_counts"`
	SeverityWeighted int            `json:"severity_weighted"`
	Stale            []StaleEntry   `json:"stale"`
}

// WriteStaleReport writes the stale-companies report as JSON. A non-.json
// extension is rewritten to .json. Returns the resolved path written.
func WriteStaleReport(r *report.Report, path string, pretty bool) (string, error) {
	if strings.ToLower(filepath.Ext(path)) != ".json" {
		path = strings.TrimSuffix(path, filepath.Ext(path)) + ".json"
	}
	p, err := ensureDir(path)
	if err != nil {
		return "", err
	}

	entries := []StaleEntry{}
	for _, c := range r.Companies {
		if !c.Staleness.Stale {
			continue
		}
		entries = append(entries, StaleEntry{
			Company:  c.Company.ID,
			Reasons:  c.Staleness.Reasons,
			Severity: c.Staleness.Severity,
			Info:     c.Staleness.Info,
		})
	}

	payload := StaleReport{
		GeneratedAt:      time.Now().UTC().Format(time.RFC3339),
		Count:            len(entries),
		SeverityCounts:   r.Summary.StaleSeverityCounts,
		SeverityWeighted: r.Summary.StaleSeverityWeighted,
		Stale:            entries,
	}

	data, err := marshalJSON(payload, pretty)
	if err != nil {
		return "", fmt.Errorf("encoding stale report: %w", err)
	}
	if err := os.WriteFile(p, data, 0644); err != nil {
		return "", fmt.Errorf("writing stale report: %w", err)
	}
	return p, nil
}

func marshalJSON(v interface{}, pretty bool) ([]byte, error) {
	if pretty {
		return json.MarshalIndent(v, "", "  ")
	}
	return json.Marshal(v)
}

func ensureDir(path string) (string, error) {
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("getting home directory: %w", err)
		}
		path = filepath.Join(home, path[2:])
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("resolving export path: %w", err)
	}
	if dir := filepath.Dir(abs); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return "", fmt.Errorf("creating export directory: %w", err)
		}
	}
	return abs, nil
}
