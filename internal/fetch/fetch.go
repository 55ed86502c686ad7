// Package fetch provides the HTTP fetch capability used by the scrape
// pipeline.
//
// Fetching identifies itself with a project user agent first and retries
// once with a common browser UA when a site answers 403, since some theatre
// sites block unknown bots outright. Failures surface as *Error so callers
// can degrade to offline snapshots instead of aborting a run.
package fetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"
)

const (
	// UserAgent identifies the scraper on the first attempt.
	UserAgent = "stagefind/1.0 (github.com/stagefind/stagefind)"

	// fallbackUserAgent is used for the single 403 retry.
	fallbackUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/127.0.0.1 Safari/537.36"

	// Timeout bounds every fetch; exhaustion is a recoverable failure.
	Timeout = 30 * time.Second
)

// Error describes a failed fetch: origin unreachable, timeout, or a
// non-success HTTP status.
type Error struct {
	URL     string
	Status  int // 0 when the request never got a response
	Message string
}

func (e *Error) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("fetch %s: status %d", e.URL, e.Status)
	}
	return fmt.Sprintf("fetch %s: %s", e.URL, e.Message)
}

// Fetcher fetches a URL and returns its text content.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (string, error)
}

// Client is the default HTTP-backed Fetcher.
type Client struct {
	httpClient *http.Client
}

// NewClient creates a fetch client with the default timeout.
func NewClient() *Client {
	return &Client{
		httpClient: &http.Client{Timeout: Timeout},
	}
}

// NewClientWithHTTP creates a fetch client over an existing http.Client,
// used by tests with httptest servers.
func NewClientWithHTTP(hc *http.Client) *Client {
	return &Client{httpClient: hc}
}

// Fetch retrieves url and returns the body text. A 403 on the first
// attempt triggers one retry with a browser user agent.
func (c *Client) Fetch(ctx context.Context, url string) (string, error) {
	body, status, err := c.get(ctx, url, UserAgent)
	if err != nil {
		return "", err
	}
	if status == http.StatusForbidden {
		body, status, err = c.get(ctx, url, fallbackUserAgent)
		if err != nil {
			return "", err
		}
	}
	if status < 200 || status >= 300 {
		return "", &Error{URL: url, Status: status}
	}
	return body, nil
}

func (c *Client) get(ctx context.Context, url, userAgent string) (string, int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", 0, &Error{URL: url, Message: fmt.Sprintf("creating request: %v", err)}
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", 0, &Error{URL: url, Message: err.Error()}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", 0, &Error{URL: url, Message: fmt.Sprintf("reading body: %v", err)}
	}
	return string(data), resp.StatusCode, nil
}
