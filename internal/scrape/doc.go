// Package scrape orchestrates a full discovery pass: fetching each
// registered company's listing page, running the enabled extractors,
// following detail links, normalizing and resolving candidates, and
// assembling the per-company reports with their staleness assessment.
//
// Companies are processed concurrently with a bounded fan-out. A company
// that cannot be fetched degrades to its offline snapshot or to an empty
// result; only a pass with no companies at all fails.
package scrape
