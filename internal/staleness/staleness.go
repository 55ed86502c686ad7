// Package staleness flags companies whose published season data looks
// outdated.
//
// The classifier inspects only a company's configured source URL and its
// resolved events for the current run, plus an injectable reference date,
// so identical inputs always classify identically.
package staleness

import (
	"regexp"
	"sort"
	"strconv"
	"time"
)

// ReasonCode is one of the fixed heuristic triggers.
type ReasonCode string

const (
	ReasonEmptyPage           ReasonCode = "empty_page"
	ReasonPastOnly            ReasonCode = "past_only"
	ReasonURLYearMismatch     ReasonCode = "url_year_mismatch"
	ReasonMissingNewSeason    ReasonCode = "missing_new_season"
	ReasonSeasonWindowExpired ReasonCode = "season_window_expired"
	ReasonSeasonEmptyOld      ReasonCode = "season_empty_old"
	ReasonSeasonNumberEmpty   ReasonCode = "season_number_empty"
)

// Severity ranks how urgently a stale company needs attention.
type Severity string

const (
	SeverityLow    Severity = "low"
	SeverityMedium Severity = "medium"
	SeverityHigh   Severity = "high"
)

// pastOnlyGrace is how long after the latest end date a company may remain
// quiet before past_only fires.
const pastOnlyGrace = 30 * 24 * time.Hour

// severityByReason maps each reason to its fixed severity.
var severityByReason = map[ReasonCode]Severity{
	ReasonEmptyPage:           SeverityHigh,
	ReasonURLYearMismatch:     SeverityHigh,
	ReasonMissingNewSeason:    SeverityHigh,
	ReasonSeasonEmptyOld:      SeverityHigh,
	ReasonSeasonWindowExpired: SeverityMedium,
	ReasonSeasonNumberEmpty:   SeverityMedium,
	ReasonPastOnly:            SeverityLow,
}

var severityRank = map[Severity]int{
	SeverityLow:    1,
	SeverityMedium: 2,
	SeverityHigh:   3,
}

var (
	seasonTokenRe  = regexp.MustCompile(`(?i)\b(spring|summer|fall|autumn|winter|holiday|holidays)\b`)
	yearRe         = regexp.MustCompile(`(20\d{2})`)
	seasonNumberRe = regexp.MustCompile(`(?i)Season[-_ ]?(\d{2,})`)
)

// Event is the slice of a production record the classifier needs.
type Event struct {
	StartDate string
	EndDate   string
}

// Result is the staleness assessment for one company and run.
type Result struct {
	Stale    bool                   `json:"stale"`
	Reasons  []ReasonCode           `json:"reasons,omitempty"`
	Severity Severity               `json:"severity,omitempty"`
	Info     map[string]interface{} `json:"info,omitempty"`
}

// HasReason reports whether a reason was triggered.
func (r Result) HasReason(code ReasonCode) bool {
	for _, c := range r.Reasons {
		if c == code {
			return true
		}
	}
	return false
}

// Analyze classifies one company's source URL and resolved event set
// against the reference date. Each check is computed independently;
// overall severity is the highest among triggered reasons.
func Analyze(sourceURL string, events []Event, today time.Time) Result {
	var reasons []ReasonCode
	info := map[string]interface{}{}

	if len(events) == 0 {
		reasons = append(reasons, ReasonEmptyPage)
	}

	if latest, ok := latestEnd(events); ok {
		info["latest_end"] = latest.Format("2006-01-02")
		if latest.Before(today.Add(-pastOnlyGrace)) {
			reasons = append(reasons, ReasonPastOnly)
		}
	}

	thisYear := today.Year()
	years := yearRe.FindAllString(sourceURL, -1)
	urlYear := 0
	if len(years) > 0 {
		// Latest occurrence wins; earlier path segments may carry an
		// archive year.
		urlYear, _ = strconv.Atoi(years[len(years)-1])
		info["url_year"] = urlYear
		if urlYear < thisYear-1 {
			reasons = append(reasons, ReasonURLYearMismatch)
		}
		if len(events) == 0 && urlYear < thisYear {
			reasons = append(reasons, ReasonMissingNewSeason)
		}
	}

	if seasonTokenRe.MatchString(sourceURL) {
		info["season_token"] = true
		if urlYear != 0 {
			if urlYear < thisYear && today.Month() >= time.March {
				reasons = append(reasons, ReasonSeasonWindowExpired)
			}
			if len(events) == 0 && urlYear < thisYear {
				reasons = append(reasons, ReasonSeasonEmptyOld)
			}
		}
	}

	if m := seasonNumberRe.FindStringSubmatch(sourceURL); m != nil {
		n, _ := strconv.Atoi(m[1])
		info["season_number"] = n
		if len(events) == 0 {
			reasons = append(reasons, ReasonSeasonNumberEmpty)
		}
	}

	res := Result{
		Stale:   len(reasons) > 0,
		Reasons: reasons,
		Info:    info,
	}
	for _, r := range reasons {
		sev := severityByReason[r]
		if severityRank[sev] > severityRank[res.Severity] {
			res.Severity = sev
		}
	}
	return res
}

// latestEnd returns the latest resolvable end date across events. An event
// without an end date falls back to its start date; unparseable dates are
// skipped.
func latestEnd(events []Event) (time.Time, bool) {
	var ends []time.Time
	for _, e := range events {
		d := e.EndDate
		if d == "" {
			d = e.StartDate
		}
		if d == "" {
			continue
		}
		t, err := time.Parse("2006-01-02", d)
		if err != nil {
			continue
		}
		ends = append(ends, t)
	}
	if len(ends) == 0 {
		return time.Time{}, false
	}
	sort.Slice(ends, func(i, j int) bool { return ends[i].Before(ends[j]) })
	return ends[len(ends)-1], true
}
