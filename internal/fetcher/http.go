package fetcher

import (
	"context"
	"io"
	"net/http"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/KannedaVIII/books-pipeline/internal/resilience"
)

// HTTPOptions configures the HTTP fetcher.
type HTTPOptions struct {
	UserAgent  string
	Timeout    time.Duration
	MaxRetries int
}

// HTTPFetcher issues GET requests with a fixed user agent, timeout, and
// transient-error retry.
type HTTPFetcher struct {
	client *http.Client
	opts   HTTPOptions
}

// NewHTTP creates an HTTPFetcher.
func NewHTTP(opts HTTPOptions) *HTTPFetcher {
	timeout := opts.Timeout
	if timeout == 0 {
		timeout = 15 * time.Second
	}
	return &HTTPFetcher{
		client: &http.Client{Timeout: timeout},
		opts:   opts,
	}
}

// Get fetches a URL and returns the response body. Non-2xx statuses are
// errors; 429 and 5xx are retried with backoff.
func (f *HTTPFetcher) Get(ctx context.Context, url string) ([]byte, error) {
	var body []byte

	retryCfg := resilience.DefaultRetryConfig()
	if f.opts.MaxRetries > 0 {
		retryCfg.MaxAttempts = f.opts.MaxRetries
	}
	retryCfg.OnRetry = func(attempt int, err error) {
		zap.L().Warn("fetch: retrying request",
			zap.String("url", url),
			zap.Int("attempt", attempt),
			zap.Error(err),
		)
	}

	err := resilience.Do(ctx, retryCfg, func(ctx context.Context) error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return eris.Wrap(err, "fetch: build request")
		}
		if f.opts.UserAgent != "" {
			req.Header.Set("User-Agent", f.opts.UserAgent)
		}

		resp, err := f.client.Do(req)
		if err != nil {
			return resilience.Transient(eris.Wrap(err, "fetch: do request"))
		}
		defer resp.Body.Close()

		if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
			return resilience.Transient(eris.Errorf("fetch: status %d for %s", resp.StatusCode, url))
		}
		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			return eris.Errorf("fetch: status %d for %s", resp.StatusCode, url)
		}

		body, err = io.ReadAll(resp.Body)
		if err != nil {
			return resilience.Transient(eris.Wrap(err, "fetch: read body"))
		}
		return nil
	})
	return body, err
}
