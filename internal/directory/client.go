// Package directory provides a client for a remote canonical-play
// directory service.
//
// The directory is an optional collaborator: when credentials are absent
// the resolver runs in local-only mode. Lookups are read-only and cached
// with a TTL.
package directory

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"time"

	"github.com/stagefind/stagefind/internal/resolve"
)

// Environment variables configuring the directory collaborator.
const (
	EnvBaseURL = "PLAY_DIRECTORY_URL"
	EnvAPIKey  = "PLAY_DIRECTORY_API_KEY"
)

// Client queries the play directory over HTTP. It implements
// resolve.Directory.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	cache      *Cache
}

// NewClient creates a directory client.
func NewClient(baseURL, apiKey string) *Client {
	return &Client{
		baseURL:    baseURL,
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: 10 * time.Second},
		cache:      NewCache(),
	}
}

// NewFromEnv builds a client from environment configuration. A missing
// base URL is a configuration error; the caller disables the collaborator
// for the run and falls back to local-only matching.
func NewFromEnv() (*Client, error) {
	base := os.Getenv(EnvBaseURL)
	if base == "" {
		return nil, fmt.Errorf("%s not set; play directory disabled", EnvBaseURL)
	}
	return NewClient(base, os.Getenv(EnvAPIKey)), nil
}

type playResponse struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

// FindPlayByTitle looks up a play by exact title, case-insensitively.
func (c *Client) FindPlayByTitle(ctx context.Context, title string) (*resolve.Play, error) {
	return c.lookup(ctx, "title", title)
}

// FindPlayByAlias looks up a play by one of its known aliases.
func (c *Client) FindPlayByAlias(ctx context.Context, title string) (*resolve.Play, error) {
	return c.lookup(ctx, "alias", title)
}

func (c *Client) lookup(ctx context.Context, kind, title string) (*resolve.Play, error) {
	if title == "" {
		return nil, nil
	}
	if play, ok := c.cache.Get(kind, title); ok {
		return play, nil
	}

	params := url.Values{}
	params.Set(kind, title)
	reqURL := fmt.Sprintf("%s/v1/plays?%s", c.baseURL, params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	if c.apiKey != "" {
		req.Header.Set("Authorization", fmt.Sprintf("Key %s", c.apiKey))
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("querying play directory: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		c.cache.Set(kind, title, nil)
		return nil, nil
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("play directory returned status %d", resp.StatusCode)
	}

	var pr playResponse
	if err := json.NewDecoder(resp.Body).Decode(&pr); err != nil {
		return nil, fmt.Errorf("parsing directory response: %w", err)
	}
	if pr.ID == "" {
		c.cache.Set(kind, title, nil)
		return nil, nil
	}

	play := &resolve.Play{ID: pr.ID, Title: pr.Title}
	c.cache.Set(kind, title, play)
	return play, nil
}
