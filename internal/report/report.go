// Package report defines the durable output of a scrape pass: production
// records, per-company reports, and the aggregate summary.
package report

import (
	"crypto/sha1"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/stagefind/stagefind/internal/staleness"
)

// ProductionRecord is one discovered production. Records are created per
// scrape pass and never mutated after construction; persistence-layer
// "touch last seen" is keyed by SourceHash, not a mutation of the record.
type ProductionRecord struct {
	CompanyID      string  `json:"company_id"`
	CompanyName    string  `json:"company_name"`
	TitleDisplay   string  `json:"title_display"`
	CanonicalTitle string  `json:"canonical_title,omitempty"`
	IsShakespeare  bool    `json:"is_shakespeare"`
	StartDate      string  `json:"start_date,omitempty"`
	EndDate        string  `json:"end_date,omitempty"`
	Venue          string  `json:"venue,omitempty"`
	ShowURL        string  `json:"show_url,omitempty"`
	SourcePage     string  `json:"source_page"`
	SourceHash     string  `json:"source_hash"`
	MatchConfidence float64 `json:"match_confidence"`
	RawDatesText   string  `json:"raw_dates_text,omitempty"`
	// DateConfidence holds a float rendering ("0.95") or a categorical tag
	// such as "range_inferred" from the offline inline path.
	DateConfidence string    `json:"date_confidence"`
	FetchedAt      time.Time `json:"fetched_at"`
	PlayID         string    `json:"play_id,omitempty"`
}

// SourceHash computes the content-derived identity of a record. Two
// extraction runs over unchanged source content yield the same digest,
// enabling upsert-by-hash against persistent storage.
func SourceHash(companyID, titleDisplay, startDate, endDate, venue string) string {
	h := sha1.New()
	h.Write([]byte(strings.Join([]string{companyID, titleDisplay, startDate, endDate, venue}, "|")))
	return fmt.Sprintf("%x", h.Sum(nil))
}

// FormatDateConfidence renders a float confidence for DateConfidence.
func FormatDateConfidence(conf float64) string {
	return strconv.FormatFloat(conf, 'g', -1, 64)
}

// Company identifies a company in a report.
type Company struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	URL  string `json:"url"`
}

// CompanyReport is one company's outcome for a scrape pass: its records in
// source order plus the staleness assessment. Assembled once, never
// partially updated.
type CompanyReport struct {
	Company   Company            `json:"company"`
	Events    []ProductionRecord `json:"events"`
	Staleness staleness.Result   `json:"staleness"`
}

// Summary aggregates a full pass.
type Summary struct {
	TotalEvents           int            `json:"total_events"`
	ShakespeareEvents     int            `json:"shakespeare_events"`
	StaleCompanies        int            `json:"stale_companies"`
	StaleSeverityCounts   map[string]int `json:"stale_severity_counts"`
	StaleSeverityWeighted int            `json:"stale_severity_weighted"`
}

// Report is the complete output of one scrape pass.
type Report struct {
	RunID       string          `json:"run_id"`
	GeneratedAt time.Time       `json:"generated_at"`
	Companies   []CompanyReport `json:"companies"`
	Summary     Summary         `json:"summary"`
}

var severityWeights = map[staleness.Severity]int{
	staleness.SeverityHigh:   3,
	staleness.SeverityMedium: 2,
	staleness.SeverityLow:    1,
}

// New assembles a report over per-company results, sorted by company ID for
// stable output, with a fresh run ID.
func New(companies []CompanyReport, generatedAt time.Time) *Report {
	sorted := make([]CompanyReport, len(companies))
	copy(sorted, companies)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Company.ID < sorted[j].Company.ID })
	return &Report{
		RunID:       uuid.NewString(),
		GeneratedAt: generatedAt.UTC(),
		Companies:   sorted,
		Summary:     Summarize(sorted),
	}
}

// Summarize computes the aggregate summary for a set of company reports.
func Summarize(companies []CompanyReport) Summary {
	s := Summary{
		StaleSeverityCounts: map[string]int{"high": 0, "medium": 0, "low": 0},
	}
	for _, c := range companies {
		s.TotalEvents += len(c.Events)
		for _, e := range c.Events {
			if e.IsShakespeare {
				s.ShakespeareEvents++
			}
		}
		if c.Staleness.Stale {
			s.StaleCompanies++
			if sev := c.Staleness.Severity; sev != "" {
				s.StaleSeverityCounts[string(sev)]++
				s.StaleSeverityWeighted += severityWeights[sev]
			}
		}
	}
	return s
}

// FilterProductions returns the records matching the optional company ID
// and canonical-play filters. The play filter compares case-insensitively
// ignoring spaces, so "kinglear" matches "King Lear".
func (r *Report) FilterProductions(companyID, play string) []ProductionRecord {
	normPlay := strings.ToLower(strings.ReplaceAll(play, " ", ""))
	var out []ProductionRecord
	for _, c := range r.Companies {
		if companyID != "" && c.Company.ID != companyID {
			continue
		}
		for _, e := range c.Events {
			if normPlay != "" {
				canon := strings.ToLower(strings.ReplaceAll(e.CanonicalTitle, " ", ""))
				if canon != normPlay {
					continue
				}
			}
			out = append(out, e)
		}
	}
	return out
}
