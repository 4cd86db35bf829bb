// Package ratelimit provides rate limiting for outbound page requests.
//
// Pagination is inherently sequential, so a single token bucket between
// page fetches is enough to keep the tool under the upstream request
// budget. The bucket refills to full capacity once per period rather than
// dripping tokens continuously.
//
// All rate limiters implement the Limiter interface:
//
//	limiter := ratelimit.NewTokenBucket(60, time.Minute)
//	limiter.Wait() // blocks until a request is allowed
//
// Unlimited is available for tests and for callers that disable limiting.
package ratelimit
