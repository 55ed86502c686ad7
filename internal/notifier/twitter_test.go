package notifier

import (
	"strings"
	"testing"

	"github.com/stagefind/stagefind/internal/report"
	"github.com/stagefind/stagefind/internal/staleness"
)

func TestFormatAlert(t *testing.T) {
	tests := []struct {
		name     string
		company  report.CompanyReport
		contains []string
	}{
		{
			name: "full alert",
			company: report.CompanyReport{
				Company: report.Company{
					ID:   "old",
					Name: "Old Theatre",
					URL:  "https://old.example.org/season-2022",
				},
				Staleness: staleness.Result{
					Stale:    true,
					Reasons:  []staleness.ReasonCode{staleness.ReasonEmptyPage, staleness.ReasonURLYearMismatch},
					Severity: staleness.SeverityHigh,
				},
			},
			contains: []string{
				"Old Theatre",
				"Severity: high",
				"empty_page, url_year_mismatch",
				"https://old.example.org/season-2022",
			},
		},
		{
			name: "no url",
			company: report.CompanyReport{
				Company: report.Company{ID: "x", Name: "X Theatre"},
				Staleness: staleness.Result{
					Stale:    true,
					Reasons:  []staleness.ReasonCode{staleness.ReasonPastOnly},
					Severity: staleness.SeverityLow,
				},
			},
			contains: []string{"X Theatre", "Severity: low", "past_only"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg := formatAlert(tt.company)
			for _, want := range tt.contains {
				if !strings.Contains(msg, want) {
					t.Errorf("alert missing %q:\n%s", want, msg)
				}
			}
			if len(msg) > 280 {
				t.Errorf("alert length %d exceeds 280", len(msg))
			}
		})
	}
}

func TestFormatAlertTruncates(t *testing.T) {
	c := report.CompanyReport{
		Company: report.Company{
			Name: strings.Repeat("Very Long Theatre Name ", 20),
			URL:  "https://example.org/",
		},
		Staleness: staleness.Result{Stale: true, Severity: staleness.SeverityHigh},
	}

	msg := formatAlert(c)
	if len(msg) > 280 {
		t.Errorf("alert length %d exceeds 280", len(msg))
	}
	if !strings.HasSuffix(msg, "...") {
		t.Error("truncated alert should end with ellipsis")
	}
}

func TestNewTwitterNotifierRequiresCredentials(t *testing.T) {
	for _, key := range []string{
		"TWITTER_API_KEY", "TWITTER_API_SECRET", "TWITTER_ACCESS_TOKEN", "TWITTER_ACCESS_SECRET",
	} {
		t.Setenv(key, "")
	}

	if _, err := NewTwitterNotifier(); err == nil {
		t.Fatal("expected error without credentials")
	}
}

func TestStaleCompanies(t *testing.T) {
	r := &report.Report{
		Companies: []report.CompanyReport{
			{Company: report.Company{ID: "fresh"}},
			{Company: report.Company{ID: "old"}, Staleness: staleness.Result{Stale: true}},
		},
	}

	stale := StaleCompanies(r)
	if len(stale) != 1 || stale[0].Company.ID != "old" {
		t.Errorf("stale companies = %+v", stale)
	}
}
