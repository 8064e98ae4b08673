// Package fetch retrieves source extracts from the Banco Central download
// endpoints and decodes them into in-memory tables. Downloads are paced,
// retried with linear backoff, and size-checked; a 404 is terminal for one
// URL so callers can fall through an ordered list of candidate names.
package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"golang.org/x/time/rate"

	apierrors "bcbdata/internal/errors"
)

const (
	// defaultUserAgent mirrors a desktop browser; the BCB content server
	// rejects requests with an empty or generic agent.
	defaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) " +
		"AppleWebKit/537.36 (KHTML, like Gecko) " +
		"Chrome/131.0.0.0 Safari/537.36"

	defaultTimeout    = 120 * time.Second
	defaultRetries    = 3
	defaultRetryDelay = 2 * time.Second

	// maxPayloadBytes caps a single download so a misbehaving endpoint
	// cannot exhaust memory. The largest monthly extract is ~200MB.
	maxPayloadBytes = 512 << 20
)

// Options configures a Client. Zero values fall back to defaults.
type Options struct {
	// Retries is the number of attempts per URL.
	Retries int

	// RetryDelay is the backoff base: attempt n waits (n-1) × RetryDelay.
	RetryDelay time.Duration

	// MinBytes rejects 200 responses at or below this size; the BCB
	// serves HTML error pages with status 200.
	MinBytes int

	// RequestsPerSecond paces outgoing requests. Zero disables pacing.
	RequestsPerSecond float64

	// UserAgent overrides the default browser identity.
	UserAgent string

	// Referer is sent when non-empty.
	Referer string

	// AcceptLanguage is sent when non-empty.
	AcceptLanguage string

	// Timeout bounds a single HTTP attempt.
	Timeout time.Duration
}

// Client downloads extracts with bounded retries and request pacing.
type Client struct {
	httpClient *http.Client
	limiter    *rate.Limiter
	opts       Options
}

// NewClient returns a Client with defaults applied to unset options.
func NewClient(opts Options) *Client {
	if opts.Retries <= 0 {
		opts.Retries = defaultRetries
	}
	if opts.RetryDelay <= 0 {
		opts.RetryDelay = defaultRetryDelay
	}
	if opts.Timeout <= 0 {
		opts.Timeout = defaultTimeout
	}
	if opts.UserAgent == "" {
		opts.UserAgent = defaultUserAgent
	}
	var limiter *rate.Limiter
	if opts.RequestsPerSecond > 0 {
		limiter = rate.NewLimiter(rate.Limit(opts.RequestsPerSecond), 1)
	}
	return &Client{
		httpClient: &http.Client{Timeout: opts.Timeout},
		limiter:    limiter,
		opts:       opts,
	}
}

// Get downloads one URL, retrying transport failures, bad statuses and
// undersized payloads. A 404 is returned immediately so the caller can
// move on to the next candidate name.
func (c *Client) Get(ctx context.Context, url string) ([]byte, error) {
	var lastErr error
	for attempt := 1; attempt <= c.opts.Retries; attempt++ {
		if attempt > 1 {
			if err := sleepCtx(ctx, time.Duration(attempt-1)*c.opts.RetryDelay); err != nil {
				return nil, err
			}
			slog.Debug("retrying download",
				slog.String("url", url),
				slog.Int("attempt", attempt))
		}

		payload, err := c.get(ctx, url)
		if err == nil {
			return payload, nil
		}
		lastErr = err

		if errors.Is(err, apierrors.ErrNotFound) {
			return nil, err
		}
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
	}
	return nil, fmt.Errorf("download failed after %d attempts: %w", c.opts.Retries, lastErr)
}

// GetFirst tries candidate URLs in order and returns the first payload
// that downloads, together with the URL that served it. When every
// candidate fails the individual errors are joined.
func (c *Client) GetFirst(ctx context.Context, urls []string) ([]byte, string, error) {
	if len(urls) == 0 {
		return nil, "", errors.New("no candidate urls")
	}
	var errs []error
	for _, url := range urls {
		payload, err := c.Get(ctx, url)
		if err == nil {
			return payload, url, nil
		}
		errs = append(errs, err)
		if ctx.Err() != nil {
			break
		}
	}
	return nil, "", errors.Join(errs...)
}

func (c *Client) get(ctx context.Context, url string) ([]byte, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, err
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build request for %s: %w", url, err)
	}
	req.Header.Set("User-Agent", c.opts.UserAgent)
	req.Header.Set("Accept", "*/*")
	if c.opts.AcceptLanguage != "" {
		req.Header.Set("Accept-Language", c.opts.AcceptLanguage)
	}
	if c.opts.Referer != "" {
		req.Header.Set("Referer", c.opts.Referer)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, fmt.Errorf("%s: %w", url, apierrors.ErrNotFound)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%s: unexpected status %s", url, resp.Status)
	}

	payload, err := io.ReadAll(io.LimitReader(resp.Body, maxPayloadBytes))
	if err != nil {
		return nil, fmt.Errorf("read body of %s: %w", url, err)
	}
	if len(payload) <= c.opts.MinBytes {
		return nil, fmt.Errorf("%s: %d bytes: %w", url, len(payload), apierrors.ErrPayloadTooSmall)
	}
	return payload, nil
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
