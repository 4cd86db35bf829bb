// Package collector implements the pagination loop over a paged timeline
// source.
//
// A run requests exactly the configured number of pages unless the source
// signals exhaustion first; empty pages do not cut a run short unless the
// consecutive-empty-page stop is explicitly enabled. Records are
// deduplicated by id across pages, preserving first-seen order. A source
// failure surfaces as a *CollectionError that carries the partial
// accumulator, leaving the persist-or-abort decision to the caller.
package collector
