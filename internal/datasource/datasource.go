// Package datasource fetches crypto market data. It defines the
// MarketSource interface consumed by the CLI and the API server and
// implements it for the CoinGecko public API and for JSON files on disk.
// News comes from crypto RSS feeds.
package datasource

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/seenimoa/cryptodash/pkg/models"
)

// MarketSource is the data-fetch collaborator of the dashboard. A source
// may support a subset of methods; unsupported methods return
// ErrNotSupported.
type MarketSource interface {
	// Name returns the human-readable name of this source.
	Name() string

	// ListMarkets returns the full market list as one snapshot. On error no
	// partial snapshot is returned.
	ListMarkets(ctx context.Context) (*models.Snapshot, error)

	// GetAssetDetail returns the extended record for one asset id.
	GetAssetDetail(ctx context.Context, id string) (*models.AssetDetail, error)
}

// CacheInvalidator is implemented by sources that cache responses.
type CacheInvalidator interface {
	InvalidateCache()
}

// --- Sentinel errors ---

// ErrNotSupported is returned when a source does not support a method.
var ErrNotSupported = errors.New("operation not supported by this data source")

// ErrAssetNotFound is returned when an asset id cannot be resolved.
var ErrAssetNotFound = errors.New("asset not found")

// ErrRateLimited is returned when the upstream rate-limits the request.
var ErrRateLimited = errors.New("rate limited by data source")

// ErrHTTP wraps an HTTP error with status code.
type ErrHTTP struct {
	StatusCode int
	Status     string
	Body       string
}

func (e *ErrHTTP) Error() string {
	return fmt.Sprintf("HTTP %d %s: %s", e.StatusCode, e.Status, e.Body)
}

// DefaultUserAgent is the user agent sent with every request.
const DefaultUserAgent = "cryptodash/1.0 (+https://github.com/seenimoa/cryptodash)"

// doGet performs a GET request and returns the response body. Responses
// with status >= 400 are returned as *ErrHTTP. The caller closes the body.
func doGet(ctx context.Context, client *http.Client, url string, headers map[string]string) (io.ReadCloser, int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, 0, fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("User-Agent", DefaultUserAgent)
	req.Header.Set("Accept", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("HTTP GET %s: %w", url, err)
	}

	if resp.StatusCode >= 400 {
		defer resp.Body.Close()
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, resp.StatusCode, &ErrHTTP{
			StatusCode: resp.StatusCode,
			Status:     resp.Status,
			Body:       string(body),
		}
	}

	return resp.Body, resp.StatusCode, nil
}
