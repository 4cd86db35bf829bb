package twitter

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	errs "twitterhistory/pkg/errors"
	"twitterhistory/pkg/logger"
	"twitterhistory/pkg/ratelimit"
	"twitterhistory/pkg/retry"
)

// Client fetches timeline pages and account metadata from the upstream
// syndication API. It implements the collector's PageSource.
type Client struct {
	httpClient *http.Client
	headers    map[string]string
	baseURL    string
	limiter    ratelimit.Limiter
	retryCfg   *retry.Config
	logger     logger.Logger
}

// NewClient creates a new timeline API client
func NewClient(timeout time.Duration, maxRetries int, limiter ratelimit.Limiter, log logger.Logger) *Client {
	if log == nil {
		log = logger.GetLogger()
	}
	if limiter == nil {
		limiter = ratelimit.Unlimited{}
	}

	retryCfg := retry.DefaultConfig()
	retryCfg.MaxAttempts = maxRetries
	retryCfg.Logger = log

	return &Client{
		httpClient: &http.Client{
			Timeout: timeout,
		},
		headers: map[string]string{
			"User-Agent":      "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/121.0.0.0 Safari/537.36",
			"Accept":          "application/json, text/plain, */*",
			"Accept-Language": "en-US,en;q=0.9",
		},
		baseURL:  BaseURL,
		limiter:  limiter,
		retryCfg: retryCfg,
		logger:   log,
	}
}

// SetHeader sets a custom header for the client
func (c *Client) SetHeader(key, value string) {
	c.headers[key] = value
}

// SetBaseURL overrides the upstream base URL. Used by tests.
func (c *Client) SetBaseURL(baseURL string) {
	c.baseURL = baseURL
}

// doRequest performs an HTTP request with the configured headers
func (c *Client) doRequest(req *http.Request) (*http.Response, error) {
	for key, value := range c.headers {
		req.Header.Set(key, value)
	}

	start := time.Now()
	c.logger.DebugWithFields("sending HTTP request", map[string]interface{}{
		"method": req.Method,
		"url":    req.URL.String(),
	})

	resp, err := c.httpClient.Do(req)
	duration := time.Since(start)

	if err != nil {
		c.logger.ErrorWithFields("HTTP request failed", map[string]interface{}{
			"method":   req.Method,
			"url":      req.URL.String(),
			"error":    err.Error(),
			"duration": duration,
		})
		return nil, &errs.Error{
			Type:    errs.ErrorTypeNetwork,
			Message: fmt.Sprintf("network error: %v", err),
			Code:    0,
		}
	}

	c.logger.DebugWithFields("HTTP request completed", map[string]interface{}{
		"method":   req.Method,
		"url":      req.URL.String(),
		"status":   resp.StatusCode,
		"duration": duration,
	})

	return resp, nil
}

// Get performs a rate-limited GET request to the specified URL
func (c *Client) Get(url string) (*http.Response, error) {
	req, err := http.NewRequest("GET", url, nil)
	if err != nil {
		return nil, &errs.Error{
			Type:    errs.ErrorTypeUnknown,
			Message: fmt.Sprintf("failed to create request: %v", err),
			Code:    0,
		}
	}

	c.limiter.Wait()
	return c.doRequest(req)
}

// GetJSON performs a GET request and decodes the JSON response
func (c *Client) GetJSON(url string, target interface{}) error {
	resp, err := c.Get(url)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if err := c.checkResponseStatus(resp); err != nil {
		return err
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return &errs.Error{
			Type:    errs.ErrorTypeNetwork,
			Message: fmt.Sprintf("failed to read response body: %v", err),
			Code:    resp.StatusCode,
		}
	}

	if err := json.Unmarshal(body, target); err != nil {
		bodyPreview := string(body)
		if len(bodyPreview) > 200 {
			bodyPreview = bodyPreview[:200] + "..."
		}

		c.logger.ErrorWithFields("failed to parse JSON response", map[string]interface{}{
			"url":          url,
			"status":       resp.StatusCode,
			"error":        err.Error(),
			"body_preview": bodyPreview,
		})
		return &errs.Error{
			Type:    errs.ErrorTypeParsing,
			Message: fmt.Sprintf("failed to parse JSON: %v", err),
			Code:    resp.StatusCode,
		}
	}

	return nil
}

// checkResponseStatus checks the HTTP response status and returns appropriate errors
func (c *Client) checkResponseStatus(resp *http.Response) error {
	switch {
	case resp.StatusCode == http.StatusOK:
		return nil
	case resp.StatusCode == http.StatusNotFound:
		c.logger.WarnWithFields("subject not found", map[string]interface{}{
			"status": resp.StatusCode,
			"url":    resp.Request.URL.String(),
		})
		return &errs.Error{
			Type:    errs.ErrorTypeNotFound,
			Message: "subject not found",
			Code:    resp.StatusCode,
		}
	case resp.StatusCode == http.StatusTooManyRequests:
		c.logger.WarnWithFields("rate limit exceeded", map[string]interface{}{
			"status": resp.StatusCode,
			"url":    resp.Request.URL.String(),
		})
		return &errs.Error{
			Type:    errs.ErrorTypeRateLimit,
			Message: "rate limit exceeded",
			Code:    resp.StatusCode,
		}
	case resp.StatusCode >= 500:
		c.logger.ErrorWithFields("server error", map[string]interface{}{
			"status": resp.StatusCode,
			"url":    resp.Request.URL.String(),
		})
		return &errs.Error{
			Type:    errs.ErrorTypeServerError,
			Message: "server error",
			Code:    resp.StatusCode,
		}
	case resp.StatusCode >= 400:
		c.logger.ErrorWithFields("unexpected API error", map[string]interface{}{
			"status": resp.StatusCode,
			"url":    resp.Request.URL.String(),
		})
		return &errs.Error{
			Type:    errs.ErrorTypeUnknown,
			Message: fmt.Sprintf("unexpected status code: %d", resp.StatusCode),
			Code:    resp.StatusCode,
		}
	default:
		return nil
	}
}

// timelineURL builds a page URL against the configured base URL
func (c *Client) timelineURL(subject, cursor string) string {
	if c.baseURL == BaseURL {
		return GetTimelineURL(subject, cursor)
	}
	// Tests point the client at a local server
	return c.baseURL + GetTimelineURL(subject, cursor)[len(BaseURL):]
}

func (c *Client) profileURL(subject string) string {
	if c.baseURL == BaseURL {
		return GetProfileURL(subject)
	}
	return c.baseURL + GetProfileURL(subject)[len(BaseURL):]
}

// FetchTimeline fetches one timeline page for a subject. The cursor is an
// opaque token from the previous page; empty requests the first page.
func (c *Client) FetchTimeline(subject string, cursor string) (*Page, error) {
	url := c.timelineURL(subject, cursor)

	c.logger.DebugWithFields("fetching timeline page", map[string]interface{}{
		"subject": subject,
		"cursor":  cursor,
		"url":     url,
	})

	response, err := retry.DoWithResult(func() (*timelineResponse, error) {
		var tr timelineResponse
		if err := c.GetJSON(url, &tr); err != nil {
			return nil, err
		}
		return &tr, nil
	}, c.retryCfg)
	if err != nil {
		c.logger.ErrorWithFields("failed to fetch timeline page", map[string]interface{}{
			"subject": subject,
			"cursor":  cursor,
			"error":   err.Error(),
		})
		return nil, err
	}

	return &Page{
		Items:      response.Tweets,
		NextCursor: response.Cursor.Bottom,
		HasMore:    response.More,
	}, nil
}

// NextPage implements the collector's PageSource
func (c *Client) NextPage(subject string, cursor string) (*Page, error) {
	return c.FetchTimeline(subject, cursor)
}

// FetchProfile fetches account metadata for a username subject. The result
// is passed through to the persisted run uninterpreted.
func (c *Client) FetchProfile(subject string) (map[string]json.RawMessage, error) {
	url := c.profileURL(subject)

	c.logger.DebugWithFields("fetching profile", map[string]interface{}{
		"subject": subject,
		"url":     url,
	})

	var profile profileResponse
	if err := c.GetJSON(url, &profile); err != nil {
		return nil, err
	}

	return profile, nil
}
