// Package ncbi provides clients for NCBI gene services: the Clinical Tables
// gene search and the E-utilities gene summary.
package ncbi

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"go.uber.org/zap"
)

// Default service endpoints.
const (
	DefaultSearchURL = "https://clinicaltables.nlm.nih.gov/api/ncbi_genes/v3/search"
	DefaultEUtilsURL = "https://eutils.ncbi.nlm.nih.gov/entrez/eutils"
)

// base holds what both clients share.
type base struct {
	httpClient *http.Client
	logger     *zap.Logger
}

func newBase() base {
	return base{
		httpClient: &http.Client{Timeout: 30 * time.Second},
		logger:     zap.NewNop(),
	}
}

// SetHTTPClient replaces the HTTP client used for requests.
func (b *base) SetHTTPClient(hc *http.Client) {
	b.httpClient = hc
}

// SetLogger sets the logger for diagnostic messages.
func (b *base) SetLogger(l *zap.Logger) {
	b.logger = l
}

func (b *base) get(ctx context.Context, rawURL string, query url.Values) (*http.Response, error) {
	u := rawURL + "?" + query.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	b.logger.Debug("ncbi request", zap.String("url", u))
	resp, err := b.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("NCBI request failed: %w", err)
	}
	return resp, nil
}

func isSuccess(code int) bool {
	return code >= 200 && code < 300
}
