package notifier

import (
	"github.com/stagefind/stagefind/internal/report"
)

// Notifier defines the interface for posting stale-company alerts
type Notifier interface {
	// Notify posts alerts for the given stale companies
	Notify(companies []report.CompanyReport) error
}

// StaleCompanies filters a report down to the companies worth alerting on.
func StaleCompanies(r *report.Report) []report.CompanyReport {
	var out []report.CompanyReport
	for _, c := range r.Companies {
		if c.Staleness.Stale {
			out = append(out, c)
		}
	}
	return out
}
