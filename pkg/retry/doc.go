// Package retry provides exponential backoff and retry logic for transient
// failures in page fetches.
//
// Retry decisions are driven by the error taxonomy in pkg/errors: network,
// rate-limit and server errors are retried, parse and not-found errors are
// not. Jitter is applied to avoid synchronized retries.
//
// Basic usage:
//
//	page, err := retry.DoWithResult(func() (*twitter.Page, error) {
//		return client.FetchTimeline(subject, cursor)
//	}, nil)
package retry
