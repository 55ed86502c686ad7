// Package notifier provides notification interfaces and implementations
// for stale-company alerts.
//
// The notifier package supports posting alerts when a company's published
// season data looks outdated, so registry entries can be fixed before a
// whole season of listings is missed. It handles OAuth authentication,
// rate limiting, and message formatting.
package notifier
