package twitter

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	errs "twitterhistory/pkg/errors"
	"twitterhistory/pkg/ratelimit"
)

func newTestClient(server *httptest.Server) *Client {
	c := NewClient(5*time.Second, 1, ratelimit.Unlimited{}, nil)
	c.SetBaseURL(server.URL)
	return c
}

func TestFetchTimeline(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, TimelineEndpoint, r.URL.Path)
		assert.Equal(t, "elonmusk", r.URL.Query().Get("screen_name"))
		assert.Empty(t, r.URL.Query().Get("cursor"))

		fmt.Fprint(w, `{
			"tweets": [
				{"tweetId": "1", "time": "2020-04-04T02:54:39+00:00", "text": "hello"},
				{"tweetId": "2", "time": "2020-04-04T03:00:00+00:00", "text": "world"}
			],
			"cursor": {"bottom": "CURSOR-2"},
			"has_more_items": true
		}`)
	}))
	defer server.Close()

	page, err := newTestClient(server).FetchTimeline("elonmusk", "")
	require.NoError(t, err)

	assert.Len(t, page.Items, 2)
	assert.Equal(t, "CURSOR-2", page.NextCursor)
	assert.True(t, page.HasMore)
}

func TestFetchTimelineThreadsCursor(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "CURSOR-1", r.URL.Query().Get("cursor"))
		fmt.Fprint(w, `{"tweets": [], "cursor": {"bottom": ""}, "has_more_items": false}`)
	}))
	defer server.Close()

	page, err := newTestClient(server).FetchTimeline("elonmusk", "CURSOR-1")
	require.NoError(t, err)

	assert.Empty(t, page.Items)
	assert.False(t, page.HasMore)
}

func TestFetchTimelineHashtagSubject(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, SearchEndpoint, r.URL.Path)
		assert.Equal(t, "#tesla", r.URL.Query().Get("q"))
		assert.Empty(t, r.URL.Query().Get("screen_name"))
		fmt.Fprint(w, `{"tweets": [], "cursor": {"bottom": ""}, "has_more_items": false}`)
	}))
	defer server.Close()

	_, err := newTestClient(server).FetchTimeline("#tesla", "")
	require.NoError(t, err)
}

func TestFetchTimelineStatusMapping(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		expected errs.ErrorType
	}{
		{"not found", http.StatusNotFound, errs.ErrorTypeNotFound},
		{"rate limited", http.StatusTooManyRequests, errs.ErrorTypeRateLimit},
		{"server error", http.StatusInternalServerError, errs.ErrorTypeServerError},
		{"other client error", http.StatusForbidden, errs.ErrorTypeUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
			}))
			defer server.Close()

			_, err := newTestClient(server).FetchTimeline("elonmusk", "")
			require.Error(t, err)
			assert.True(t, errs.IsType(err, tt.expected), "expected %s, got %v", tt.expected, err)
		})
	}
}

func TestFetchTimelineRetriesServerErrors(t *testing.T) {
	attempts := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		if attempts == 1 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		fmt.Fprint(w, `{"tweets": [{"tweetId": "1", "time": "2020-04-04T02:54:39+00:00"}], "cursor": {"bottom": ""}, "has_more_items": false}`)
	}))
	defer server.Close()

	c := NewClient(5*time.Second, 3, ratelimit.Unlimited{}, nil)
	c.SetBaseURL(server.URL)

	page, err := c.FetchTimeline("elonmusk", "")
	require.NoError(t, err)
	assert.Equal(t, 2, attempts)
	assert.Len(t, page.Items, 1)
}

func TestFetchTimelineDoesNotRetryNotFound(t *testing.T) {
	attempts := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	c := NewClient(5*time.Second, 3, ratelimit.Unlimited{}, nil)
	c.SetBaseURL(server.URL)

	_, err := c.FetchTimeline("elonmusk", "")
	require.Error(t, err)
	assert.Equal(t, 1, attempts)
}

func TestFetchTimelineParseError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "<html>not json</html>")
	}))
	defer server.Close()

	_, err := newTestClient(server).FetchTimeline("elonmusk", "")
	require.Error(t, err)
	assert.True(t, errs.IsType(err, errs.ErrorTypeParsing))
}

func TestFetchProfile(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, ProfileEndpoint, r.URL.Path)
		assert.Equal(t, "elonmusk", r.URL.Query().Get("screen_name"))
		fmt.Fprint(w, `{"name": "Elon Musk", "followers_count": 33000000}`)
	}))
	defer server.Close()

	profile, err := newTestClient(server).FetchProfile("elonmusk")
	require.NoError(t, err)

	assert.JSONEq(t, `"Elon Musk"`, string(profile["name"]))
	assert.JSONEq(t, `33000000`, string(profile["followers_count"]))
}

func TestSanitizeSubject(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"elonmusk", "elonmusk"},
		{" elonmusk ", "elonmusk"},
		{"elonmusk,", "elonmusk"},
		{",#tesla,", "#tesla"},
	}

	for _, tt := range tests {
		if got := SanitizeSubject(tt.input); got != tt.expected {
			t.Errorf("SanitizeSubject(%q) = %q, expected %q", tt.input, got, tt.expected)
		}
	}
}

func TestGetTimelineURL(t *testing.T) {
	assert.Equal(t,
		BaseURL+TimelineEndpoint+"?screen_name=elonmusk",
		GetTimelineURL("elonmusk", ""))
	assert.Equal(t,
		BaseURL+TimelineEndpoint+"?cursor=abc&screen_name=elonmusk",
		GetTimelineURL("elonmusk", "abc"))
	assert.Equal(t,
		BaseURL+SearchEndpoint+"?q=%23tesla",
		GetTimelineURL("#tesla", ""))
}

func TestSetHeader(t *testing.T) {
	var got string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Get("X-Test")
		fmt.Fprint(w, `{"tweets": [], "cursor": {"bottom": ""}, "has_more_items": false}`)
	}))
	defer server.Close()

	c := newTestClient(server)
	c.SetHeader("X-Test", "value")

	_, err := c.FetchTimeline("elonmusk", "")
	require.NoError(t, err)
	assert.Equal(t, "value", got)
}
