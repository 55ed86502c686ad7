package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/stagefind/stagefind/internal/report"
)

// OutputFormat specifies the output format
type OutputFormat string

const (
	FormatText OutputFormat = "text"
	FormatJSON OutputFormat = "json"
)

// WriteOutput writes the report in the specified format
func WriteOutput(w io.Writer, r *report.Report, format OutputFormat, verbose bool) error {
	switch format {
	case FormatJSON:
		return writeJSON(w, r)
	case FormatText:
		return writeText(w, r, verbose)
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
}

// writeJSON outputs the full report as JSON
func writeJSON(w io.Writer, r *report.Report) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(r)
}

// writeText outputs a human-readable run summary
func writeText(w io.Writer, r *report.Report, verbose bool) error {
	fmt.Fprintf(w, "Scraped %d companies: %d events (%d Shakespeare)\n",
		len(r.Companies), r.Summary.TotalEvents, r.Summary.ShakespeareEvents)

	for _, c := range r.Companies {
		marker := " "
		if c.Staleness.Stale {
			marker = "!"
		}
		fmt.Fprintf(w, "%s %s: %d events\n", marker, c.Company.Name, len(c.Events))

		if verbose {
			for _, e := range c.Events {
				title := e.TitleDisplay
				if e.IsShakespeare {
					title = fmt.Sprintf("%s -> %s (%.2f)", e.TitleDisplay, e.CanonicalTitle, e.MatchConfidence)
				}
				dates := "dates unknown"
				if e.StartDate != "" {
					dates = e.StartDate
					if e.EndDate != "" && e.EndDate != e.StartDate {
						dates += " to " + e.EndDate
					}
				}
				fmt.Fprintf(w, "    %s [%s]\n", title, dates)
			}
		}

		if c.Staleness.Stale {
			codes := make([]string, len(c.Staleness.Reasons))
			for i, rc := range c.Staleness.Reasons {
				codes[i] = string(rc)
			}
			fmt.Fprintf(w, "    stale (%s): %s\n", c.Staleness.Severity, strings.Join(codes, ", "))
		}
	}

	if r.Summary.StaleCompanies > 0 {
		fmt.Fprintf(w, "\n%d stale companies (severity weight %d)\n",
			r.Summary.StaleCompanies, r.Summary.StaleSeverityWeighted)
	}
	return nil
}
