// Package ucsc is a client for the UCSC Genome Browser REST API.
package ucsc

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"go.uber.org/zap"
)

// DefaultBaseURL is the public UCSC API endpoint.
const DefaultBaseURL = "https://api.genome.ucsc.edu"

// Client fetches assembly listings, chromosome listings and raw sequence.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *zap.Logger
}

// NewClient creates a client for the API rooted at baseURL.
// An empty baseURL selects DefaultBaseURL.
func NewClient(baseURL string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		logger: zap.NewNop(),
	}
}

// SetHTTPClient replaces the HTTP client used for requests.
func (c *Client) SetHTTPClient(hc *http.Client) {
	c.httpClient = hc
}

// SetLogger sets the logger for diagnostic messages.
func (c *Client) SetLogger(l *zap.Logger) {
	c.logger = l
}

// get issues a GET for path with the given query and returns the response.
// The caller closes the body.
func (c *Client) get(ctx context.Context, path string, query url.Values) (*http.Response, error) {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	c.logger.Debug("ucsc request", zap.String("url", u))
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("UCSC API request failed: %w", err)
	}
	return resp, nil
}

// statusError builds an error from a non-2xx response, preferring the
// API's own error message when the body carries one.
func statusError(resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	var e struct {
		Error string `json:"error"`
	}
	if json.Unmarshal(body, &e) == nil && e.Error != "" {
		return fmt.Errorf("UCSC API error %d: %s", resp.StatusCode, e.Error)
	}
	return fmt.Errorf("UCSC API error %d: %s", resp.StatusCode, http.StatusText(resp.StatusCode))
}

func isSuccess(code int) bool {
	return code >= 200 && code < 300
}
