package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/stagefind/stagefind/internal/calendar"
	"github.com/stagefind/stagefind/internal/catalog"
	"github.com/stagefind/stagefind/internal/directory"
	"github.com/stagefind/stagefind/internal/export"
	"github.com/stagefind/stagefind/internal/fetch"
	"github.com/stagefind/stagefind/internal/logger"
	"github.com/stagefind/stagefind/internal/notifier"
	"github.com/stagefind/stagefind/internal/registry"
	"github.com/stagefind/stagefind/internal/report"
	"github.com/stagefind/stagefind/internal/resolve"
	"github.com/stagefind/stagefind/internal/scrape"
	"github.com/stagefind/stagefind/internal/store"
)

const (
	ExitSuccess = 0
	ExitError   = 1
	ExitStale   = 2
)

// errStale signals a completed pass that flagged stale companies. It must
// propagate as a return value, not an os.Exit, so deferred cleanup (the
// sqlite close) still runs.
var errStale = errors.New("stale companies detected")

var (
	flagRegistry    string
	flagOnly        string
	flagLocalOnly   bool
	flagExport      string
	flagFormat      string
	flagPretty      bool
	flagStaleReport string
	flagDB          string
	flagICSDir      string
	flagOutput      string
	flagNotify      bool
	flagDryRun      bool
	flagVerbose     bool
)

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stagefind",
		Short: "Discover Shakespeare productions from theatre-company websites",
		Long: `Scrapes registered theatre-company websites, resolves production
titles to canonical Shakespeare plays, and flags companies whose published
season data looks stale.`,
		RunE: runScrape,
	}

	cmd.Flags().StringVar(&flagRegistry, "registry", "", "Path to registry YAML (required)")
	cmd.Flags().StringVar(&flagOnly, "only", "", "Comma-separated company IDs to process")
	cmd.Flags().BoolVar(&flagLocalOnly, "local-only", false, "Skip the external play directory")
	cmd.Flags().StringVar(&flagExport, "export", "", "Output file path (json or yaml)")
	cmd.Flags().StringVar(&flagFormat, "format", "json", "Export format: json or yaml")
	cmd.Flags().BoolVar(&flagPretty, "pretty", false, "Pretty-print JSON exports")
	cmd.Flags().StringVar(&flagStaleReport, "stale-report", "", "Path to write stale companies report JSON")
	cmd.Flags().StringVar(&flagDB, "db", "", "Sqlite database path for persisting productions")
	cmd.Flags().StringVar(&flagICSDir, "ics-dir", "", "Directory to write .ics files for Shakespeare productions")
	cmd.Flags().StringVar(&flagOutput, "output", "text", "Output format: text or json")
	cmd.Flags().BoolVar(&flagNotify, "notify", false, "Post alerts for stale companies")
	cmd.Flags().BoolVar(&flagDryRun, "dry-run", false, "Print alerts instead of posting them")
	cmd.Flags().BoolVar(&flagVerbose, "verbose", false, "Enable verbose logging")

	cmd.MarkFlagRequired("registry") //nolint:errcheck // flag exists

	return cmd
}

// runScrape is the main command logic
func runScrape(cmd *cobra.Command, args []string) error {
	format := OutputFormat(strings.ToLower(flagOutput))
	if format != FormatText && format != FormatJSON {
		return fmt.Errorf("invalid output format: %s (must be 'text' or 'json')", flagOutput)
	}
	if flagVerbose {
		logger.SetDefault(logger.New(logger.LevelDebug, os.Stderr))
	}

	companies, err := registry.Load(flagRegistry)
	if err != nil {
		return fmt.Errorf("loading registry: %w", err)
	}

	var db *store.Store
	if flagDB != "" {
		db, err = store.Open(flagDB)
		if err != nil {
			return fmt.Errorf("opening database: %w", err)
		}
		defer db.Close()
	}

	ctx := context.Background()
	cat := catalog.New()
	matcher := resolve.NewMatcher(cat)
	dir := buildDirectory(ctx, db, cat)

	sc := scrape.New(fetch.NewClient(), matcher, dir)

	opts := scrape.Options{LocalOnly: flagLocalOnly || dir == nil}
	if flagOnly != "" {
		opts.Only = strings.Split(flagOnly, ",")
	}

	r, err := sc.Run(ctx, companies, opts)
	if err != nil {
		return fmt.Errorf("scraping: %w", err)
	}

	if db != nil {
		if err := persistRecords(ctx, db, r); err != nil {
			return err
		}
	}

	if flagExport != "" {
		path, err := export.WriteReport(r, flagExport, flagFormat, flagPretty)
		if err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "Wrote %s (events=%d, shakespeare=%d, stale_companies=%d, severity_weight=%d)\n",
			path, r.Summary.TotalEvents, r.Summary.ShakespeareEvents,
			r.Summary.StaleCompanies, r.Summary.StaleSeverityWeighted)
	}
	if flagStaleReport != "" {
		path, err := export.WriteStaleReport(r, flagStaleReport, flagPretty)
		if err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "Wrote stale report %s (count=%d)\n", path, r.Summary.StaleCompanies)
	}
	if flagICSDir != "" {
		if err := writeCalendars(r, flagICSDir); err != nil {
			return err
		}
	}

	if flagNotify {
		if err := notifyStale(r); err != nil {
			return fmt.Errorf("notifying: %w", err)
		}
	}

	if err := WriteOutput(os.Stdout, r, format, flagVerbose); err != nil {
		return fmt.Errorf("writing output: %w", err)
	}

	if r.Summary.StaleCompanies > 0 {
		return errStale
	}
	return nil
}

// exitCode maps a command outcome to the process exit code.
func exitCode(err error) int {
	switch {
	case err == nil:
		return ExitSuccess
	case errors.Is(err, errStale):
		return ExitStale
	default:
		return ExitError
	}
}

// buildDirectory picks the play directory for this run: the remote service
// when configured, else the sqlite store seeded from the built-in catalog,
// else none (local-only matching).
func buildDirectory(ctx context.Context, db *store.Store, cat *catalog.Catalog) resolve.Directory {
	if flagLocalOnly {
		return nil
	}
	if remote, err := directory.NewFromEnv(); err == nil {
		return remote
	} else {
		logger.Debug("remote play directory unavailable", logger.Fields{"reason": err.Error()})
	}
	if db != nil {
		if err := db.SeedPlays(ctx, cat); err != nil {
			logger.Warn("seeding play directory failed", logger.Fields{"error": err.Error()})
			return nil
		}
		return db
	}
	return nil
}

func persistRecords(ctx context.Context, db *store.Store, r *report.Report) error {
	for _, c := range r.Companies {
		for _, rec := range c.Events {
			if err := db.UpsertProduction(ctx, rec); err != nil {
				return fmt.Errorf("persisting records: %w", err)
			}
		}
	}
	return nil
}

// writeCalendars writes one .ics per Shakespeare production, named by
// source hash.
func writeCalendars(r *report.Report, dir string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("creating ics directory: %w", err)
	}
	n := 0
	for _, c := range r.Companies {
		for _, rec := range c.Events {
			if !rec.IsShakespeare {
				continue
			}
			path := filepath.Join(dir, rec.SourceHash+".ics")
			if err := os.WriteFile(path, []byte(calendar.GenerateICS(rec)), 0644); err != nil {
				return fmt.Errorf("writing calendar: %w", err)
			}
			n++
		}
	}
	if flagVerbose {
		fmt.Fprintf(os.Stderr, "Wrote %d calendar files to %s\n", n, dir)
	}
	return nil
}

func notifyStale(r *report.Report) error {
	stale := notifier.StaleCompanies(r)
	if len(stale) == 0 {
		return nil
	}

	var n notifier.Notifier
	if flagDryRun {
		n = notifier.NewDryRunNotifier()
	} else {
		tw, err := notifier.NewTwitterNotifier()
		if err != nil {
			return err
		}
		n = tw
	}
	return n.Notify(stale)
}

// Execute runs the CLI
func Execute() {
	cmd := NewRootCmd()
	cmd.SilenceUsage = true
	cmd.SilenceErrors = true

	err := cmd.Execute()
	if err != nil && !errors.Is(err, errStale) {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	}
	os.Exit(exitCode(err))
}
