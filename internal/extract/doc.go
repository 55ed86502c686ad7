// Package extract turns raw theatre-company page text into candidate
// production events.
//
// Two extractors are provided: a structured-markup extractor over embedded
// JSON-LD event objects, and a heuristic HTML extractor driven by
// per-company selector configuration with generic fallbacks. Both are pure
// functions of their input text; detail-page crawling is planned here as
// explicit requests but the fetching itself happens in the orchestration
// layer, so every suspension point stays outside this package.
package extract
