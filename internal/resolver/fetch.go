package resolver

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/beetlebugorg/kml/internal/iconcache"
	"github.com/beetlebugorg/kml/internal/metrics"
)

// Fetcher returns the raw bytes behind an icon URL.
type Fetcher interface {
	Fetch(ctx context.Context, url string) ([]byte, error)
}

// DefaultMaxIconBytes caps the size of a fetched icon.
const DefaultMaxIconBytes = 4 << 20

var errInsecureRedirect = errors.New("redirect to non-https url")

// HTTPFetcher fetches icons over HTTP. Redirects away from https are refused.
type HTTPFetcher struct {
	Client   *http.Client
	MaxBytes int64
}

// NewHTTPFetcher returns a fetcher whose requests time out after timeout.
func NewHTTPFetcher(timeout time.Duration) *HTTPFetcher {
	return &HTTPFetcher{
		Client: &http.Client{
			Timeout: timeout,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if req.URL.Scheme != "https" {
					return errInsecureRedirect
				}
				if len(via) >= 10 {
					return errors.New("stopped after 10 redirects")
				}
				return nil
			},
		},
		MaxBytes: DefaultMaxIconBytes,
	}
}

func (f *HTTPFetcher) Fetch(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	client := f.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch %s: status %d", url, resp.StatusCode)
	}

	limit := f.MaxBytes
	if limit <= 0 {
		limit = DefaultMaxIconBytes
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, limit+1))
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", url, err)
	}
	if int64(len(data)) > limit {
		return nil, fmt.Errorf("icon %s exceeds %d bytes", url, limit)
	}
	return data, nil
}

// CachingFetcher serves icons from Cache and fills it from Fetcher on a miss.
type CachingFetcher struct {
	Fetcher Fetcher
	Cache   iconcache.Cache
}

func (c *CachingFetcher) Fetch(ctx context.Context, url string) ([]byte, error) {
	if data, ok := c.Cache.Get(ctx, url); ok {
		metrics.IconCacheHitsTotal.Inc()
		return data, nil
	}
	metrics.IconCacheMissesTotal.Inc()

	data, err := c.Fetcher.Fetch(ctx, url)
	if err != nil {
		return nil, err
	}
	c.Cache.Set(ctx, url, data)
	return data, nil
}
