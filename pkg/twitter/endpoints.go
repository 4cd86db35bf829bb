package twitter

import (
	"fmt"
	"net/url"
	"strings"
)

const (
	// BaseURL is the base URL for the syndication timeline API
	BaseURL = "https://cdn.syndication.twimg.com"

	// TimelineEndpoint is the endpoint pattern for profile timelines
	TimelineEndpoint = "/timeline/profile"

	// SearchEndpoint is the endpoint pattern for hashtag timelines
	SearchEndpoint = "/timeline/search"

	// ProfileEndpoint is the endpoint pattern for account metadata
	ProfileEndpoint = "/widgets/profile"
)

// IsHashtag reports whether a subject refers to a hashtag rather than an account
func IsHashtag(subject string) bool {
	return strings.HasPrefix(subject, "#")
}

// SanitizeSubject normalizes a CLI-supplied subject: surrounding whitespace
// and stray commas from pasted lists are removed, a leading hashtag marker
// is kept.
func SanitizeSubject(subject string) string {
	subject = strings.TrimSpace(subject)
	subject = strings.Trim(subject, ",")
	return subject
}

// GetTimelineURL constructs the URL for fetching one timeline page. An empty
// cursor requests the first page; any other value is the opaque token
// returned with the previous page.
func GetTimelineURL(subject string, cursor string) string {
	params := url.Values{}

	endpoint := TimelineEndpoint
	if IsHashtag(subject) {
		endpoint = SearchEndpoint
		params.Set("q", subject)
	} else {
		params.Set("screen_name", subject)
	}

	if cursor != "" {
		params.Set("cursor", cursor)
	}

	return fmt.Sprintf("%s%s?%s", BaseURL, endpoint, params.Encode())
}

// GetProfileURL constructs the URL for fetching account metadata
func GetProfileURL(subject string) string {
	params := url.Values{}
	params.Set("screen_name", strings.TrimPrefix(subject, "@"))

	return fmt.Sprintf("%s%s?%s", BaseURL, ProfileEndpoint, params.Encode())
}
