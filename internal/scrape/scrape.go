package scrape

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/stagefind/stagefind/internal/extract"
	"github.com/stagefind/stagefind/internal/fetch"
	"github.com/stagefind/stagefind/internal/logger"
	"github.com/stagefind/stagefind/internal/normalize"
	"github.com/stagefind/stagefind/internal/registry"
	"github.com/stagefind/stagefind/internal/report"
	"github.com/stagefind/stagefind/internal/resolve"
	"github.com/stagefind/stagefind/internal/staleness"
)

const (
	defaultCompanyConcurrency = 4
	defaultDetailConcurrency  = 4
)

// Options tune one scrape pass.
type Options struct {
	// Only restricts the pass to these company IDs when non-empty.
	Only []string
	// LocalOnly disables the external play directory even when configured.
	LocalOnly bool
	// Today is the reference date for year inference and staleness; zero
	// means the current UTC date.
	Today time.Time
	// Concurrency bounds the company fan-out; zero means the default.
	Concurrency int
}

// Scraper runs discovery passes. Build one per process and reuse it; the
// matcher and directory are shared across runs.
type Scraper struct {
	fetcher fetch.Fetcher
	matcher *resolve.Matcher
	dir     resolve.Directory
}

// New creates a scraper. dir may be nil for local-only resolution.
func New(fetcher fetch.Fetcher, matcher *resolve.Matcher, dir resolve.Directory) *Scraper {
	return &Scraper{fetcher: fetcher, matcher: matcher, dir: dir}
}

// Run executes one pass over the registry and returns the assembled
// report. It fails only when the filtered registry is empty; individual
// company failures degrade to empty company results.
func (s *Scraper) Run(ctx context.Context, companies []registry.Company, opts Options) (*report.Report, error) {
	today := opts.Today
	if today.IsZero() {
		today = time.Now().UTC()
	}

	selected := filterCompanies(companies, opts.Only)
	if len(selected) == 0 {
		return nil, fmt.Errorf("no companies to scrape")
	}

	limit := opts.Concurrency
	if limit <= 0 {
		limit = defaultCompanyConcurrency
	}

	results := make([]report.CompanyReport, len(selected))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)
	for i, c := range selected {
		i, c := i, c
		g.Go(func() error {
			started := time.Now()
			results[i] = s.processCompany(gctx, c, today, opts.LocalOnly)
			logger.RecordTiming("company_scrape", time.Since(started))
			logger.IncrCounter("companies_scraped", 1)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return report.New(results, today), nil
}

// filterCompanies drops paused entries, deduplicates by ID keeping the
// last occurrence, and applies the Only filter.
func filterCompanies(companies []registry.Company, only []string) []registry.Company {
	byID := make(map[string]registry.Company, len(companies))
	order := make([]string, 0, len(companies))
	for _, c := range companies {
		if c.Paused() || c.URL == "" {
			continue
		}
		if _, ok := byID[c.ID]; !ok {
			order = append(order, c.ID)
		}
		byID[c.ID] = c
	}

	wanted := make(map[string]bool, len(only))
	for _, id := range only {
		if id = strings.TrimSpace(id); id != "" {
			wanted[id] = true
		}
	}

	var out []registry.Company
	for _, id := range order {
		if len(wanted) > 0 && !wanted[id] {
			continue
		}
		out = append(out, byID[id])
	}
	return out
}

// processCompany runs the full pipeline for one company. Never fails:
// fetch errors degrade to the offline snapshot or an empty event set, and
// staleness is assessed either way.
func (s *Scraper) processCompany(ctx context.Context, c registry.Company, today time.Time, localOnly bool) report.CompanyReport {
	html, fetched := s.pageHTML(ctx, c)

	var events []extract.RawEvent
	inlineInferred := false
	if fetched {
		events, inlineInferred = s.extractEvents(ctx, html, c, today)
	}
	if len(events) == 0 {
		logger.Warn("no events parsed", logger.Fields{"company": c.ID})
	}

	records := s.buildRecords(ctx, c, events, today, localOnly, inlineInferred)

	stale := staleness.Analyze(c.URL, stalenessEvents(records), today)
	if stale.Stale {
		codes := make([]string, len(stale.Reasons))
		for i, r := range stale.Reasons {
			codes[i] = string(r)
		}
		logger.Warn("stale company", logger.Fields{
			"company":  c.ID,
			"reasons":  strings.Join(codes, ","),
			"severity": string(stale.Severity),
		})
	}

	return report.CompanyReport{
		Company:   report.Company{ID: c.ID, Name: c.Name, URL: c.URL},
		Events:    records,
		Staleness: stale,
	}
}

// pageHTML loads the listing page: offline snapshot when the company is
// marked no-network, live fetch otherwise, falling back to the snapshot on
// fetch failure. The bool reports whether any content was obtained.
func (s *Scraper) pageHTML(ctx context.Context, c registry.Company) (string, bool) {
	if c.NoNetwork && c.OfflineHTML != "" {
		if html, err := os.ReadFile(c.OfflineHTML); err == nil {
			logger.Info("bypassed network, loaded snapshot", logger.Fields{
				"company": c.ID, "path": c.OfflineHTML,
			})
			return string(html), true
		}
	}

	html, err := s.fetcher.Fetch(ctx, c.URL)
	if err == nil {
		return html, true
	}
	logger.Error("fetch failed", logger.Fields{"company": c.ID, "url": c.URL}, err)
	logger.IncrCounter("fetch_failures", 1)

	if c.OfflineHTML != "" {
		data, rerr := os.ReadFile(c.OfflineHTML)
		if rerr != nil {
			logger.Error("offline snapshot read failed", logger.Fields{
				"company": c.ID, "path": c.OfflineHTML,
			}, rerr)
			return "", false
		}
		logger.Info("loaded offline snapshot", logger.Fields{
			"company": c.ID, "path": c.OfflineHTML,
		})
		return string(data), true
	}
	return "", false
}

// extractEvents runs the enabled extraction strategies in fixed order:
// structured markup first, heuristic HTML only when it yielded nothing.
// The bool reports whether surviving events came from the inline-detail
// scan, whose extractor-resolved ranges are inferred rather than parsed;
// listing-scan and offline-detail events never carry it.
func (s *Scraper) extractEvents(ctx context.Context, html string, c registry.Company, today time.Time) ([]extract.RawEvent, bool) {
	var events []extract.RawEvent
	if c.StrategyEnabled(registry.StrategyJSONLD) {
		events = extract.JSONLD(html, c.URL)
	}
	if len(events) > 0 || !c.StrategyEnabled(registry.StrategyHTML) {
		logger.IncrCounter("events_extracted", int64(len(events)))
		return events, false
	}

	events, inline := extract.HTML(html, c, today)
	if len(events) > 0 && !c.NoNetwork {
		if urls := extract.DetailRequests(html, c); len(urls) > 0 {
			events = extract.MergeDetail(events, s.fetchDetails(ctx, urls, c, today))
		}
	}

	if len(events) == 0 && c.OfflineDetailDir != "" {
		events = offlineDetailEvents(c, today)
		inline = false
	}

	logger.IncrCounter("events_extracted", int64(len(events)))
	return events, inline
}

// fetchDetails fetches detail pages with a bounded fan-out, preserving
// request order. A failed fetch contributes no enrichment.
func (s *Scraper) fetchDetails(ctx context.Context, urls []string, c registry.Company, today time.Time) []extract.RawEvent {
	pages := make([]extract.RawEvent, len(urls))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(defaultDetailConcurrency)
	for i, u := range urls {
		i, u := i, u
		g.Go(func() error {
			html, err := s.fetcher.Fetch(gctx, u)
			if err != nil {
				logger.Warn("detail fetch failed", logger.Fields{"company": c.ID, "url": u})
				return nil
			}
			pages[i] = extract.DetailPage(html, c, u, today)
			return nil
		})
	}
	g.Wait() //nolint:errcheck // workers never return errors

	out := make([]extract.RawEvent, 0, len(pages))
	for _, p := range pages {
		if p.Title != "" {
			out = append(out, p)
		}
	}
	return out
}

// offlineDetailEvents parses each snapshot in the company's offline detail
// directory as its own detail page, deduplicated by title.
func offlineDetailEvents(c registry.Company, today time.Time) []extract.RawEvent {
	paths, err := filepath.Glob(filepath.Join(c.OfflineDetailDir, "*.html"))
	if err != nil {
		return nil
	}
	sort.Strings(paths)

	var events []extract.RawEvent
	for _, p := range paths {
		data, err := os.ReadFile(p)
		if err != nil {
			continue
		}
		ev := extract.DetailPage(string(data), c, "", today)
		if ev.Title != "" {
			events = append(events, ev)
		}
	}
	events = extract.DedupeByTitle(events)
	if len(events) > 0 {
		logger.Info("added events from offline detail snapshots", logger.Fields{
			"company": c.ID, "count": len(events),
		})
	}
	return events
}

// buildRecords normalizes, dates, and resolves each candidate into a
// production record.
func (s *Scraper) buildRecords(ctx context.Context, c registry.Company, events []extract.RawEvent, today time.Time, localOnly, inlineInferred bool) []report.ProductionRecord {
	tz := c.Timezone
	if tz == "" {
		tz = os.Getenv("TIMEZONE_DEFAULT")
	}
	if tz == "" {
		tz = "UTC"
	}

	records := make([]report.ProductionRecord, 0, len(events))
	for _, e := range events {
		clean := normalize.Apply(e)

		var start, end, dateConf string
		if inlineInferred && clean.StartDate != "" && clean.EndDate != "" {
			start, end = clean.StartDate, clean.EndDate
			dateConf = "range_inferred"
		} else {
			var conf float64
			start, end, conf = normalize.ParseDates(clean.DatesText, tz, clean.StartDate, clean.EndDate)
			dateConf = report.FormatDateConfidence(conf)
		}
		if start == "" || end == "" {
			logger.Debug("missing start/end", logger.Fields{
				"company": c.ID, "title": clean.Title, "raw": clean.DatesText,
			})
		}

		rec := report.ProductionRecord{
			CompanyID:      c.ID,
			CompanyName:    c.Name,
			TitleDisplay:   clean.Title,
			StartDate:      start,
			EndDate:        end,
			Venue:          clean.Venue,
			ShowURL:        clean.URL,
			SourcePage:     c.URL,
			RawDatesText:   clean.DatesText,
			DateConfidence: dateConf,
			FetchedAt:      time.Now().UTC(),
		}
		rec.SourceHash = report.SourceHash(c.ID, clean.Title, start, end, clean.Venue)

		if s.dir != nil && !localOnly {
			res := s.matcher.Resolve(ctx, clean.Title, s.dir)
			rec.PlayID = res.PlayID
			rec.CanonicalTitle = res.CanonicalTitle
			rec.MatchConfidence = res.Confidence
		} else {
			m := s.matcher.MatchLocal(clean.Title)
			rec.CanonicalTitle = m.CanonicalTitle
			rec.MatchConfidence = m.Confidence
		}
		rec.IsShakespeare = rec.CanonicalTitle != ""

		records = append(records, rec)
	}
	return records
}

func stalenessEvents(records []report.ProductionRecord) []staleness.Event {
	out := make([]staleness.Event, len(records))
	for i, r := range records {
		out[i] = staleness.Event{StartDate: r.StartDate, EndDate: r.EndDate}
	}
	return out
}
