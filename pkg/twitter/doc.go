// Package twitter is the boundary to the upstream timeline API.
//
// The client exposes the timeline as an explicitly paged source: each call
// to FetchTimeline takes an opaque cursor and returns one page of
// loosely-typed items plus the cursor for the next page. Items are not
// interpreted here; the models package maps them into normalized records.
//
// Requests are rate limited through pkg/ratelimit and transient failures are
// retried through pkg/retry. HTTP status codes are mapped onto the error
// taxonomy in pkg/errors so callers can tell retryable conditions apart.
package twitter
