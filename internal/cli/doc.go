// Package cli implements the stagefind command-line interface.
//
// The CLI runs one scrape pass over a YAML registry of theatre companies
// and reports discovered productions, optionally exporting the full report
// to disk, persisting records to sqlite, writing calendar files, and
// alerting on stale companies.
package cli
