package util

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"easyapply-engine/internal/apperr"

	"github.com/cenkalti/backoff/v4"
)

// MaxBodyBytes caps what a single listing page may return.
const MaxBodyBytes = 8 << 20

// StatusError is an unexpected upstream HTTP status.
type StatusError struct {
	URL  string
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("GET %s: status %d", e.URL, e.Code)
}

func retryable(code int) bool {
	return code == http.StatusTooManyRequests || code >= 500
}

// Getter performs rate-limited GETs with a small exponential retry budget.
type Getter struct {
	Client    *http.Client
	Limiter   *HostLimiter
	UserAgent string
	Accept    string
	MaxTries  uint64
}

func NewGetter(userAgent string, timeout time.Duration) *Getter {
	return &Getter{
		Client:    &http.Client{Timeout: timeout},
		Limiter:   NewHostLimiter(1, 2),
		UserAgent: userAgent,
		MaxTries:  3,
	}
}

// Get returns the body of a 2xx response. 429 and 5xx are retried,
// any other status fails immediately with a *StatusError. A 429 that
// outlasts the retries comes back as a RATE_LIMIT error.
func (g *Getter) Get(ctx context.Context, rawURL string) ([]byte, error) {
	op := func() ([]byte, error) {
		if g.Limiter != nil {
			if err := g.Limiter.WaitURL(ctx, rawURL); err != nil {
				return nil, backoff.Permanent(err)
			}
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
		if err != nil {
			return nil, backoff.Permanent(err)
		}
		if g.UserAgent != "" {
			req.Header.Set("User-Agent", g.UserAgent)
		}
		accept := g.Accept
		if accept == "" {
			accept = "text/html,application/xhtml+xml,application/json;q=0.9,*/*;q=0.8"
		}
		req.Header.Set("Accept", accept)
		req.Header.Set("Accept-Language", "en-US,en;q=0.9")

		res, err := g.Client.Do(req)
		if err != nil {
			if ctx.Err() != nil {
				return nil, backoff.Permanent(err)
			}
			return nil, err
		}
		defer res.Body.Close()

		if res.StatusCode < 200 || res.StatusCode > 299 {
			_, _ = io.Copy(io.Discard, io.LimitReader(res.Body, 4096))
			serr := &StatusError{URL: rawURL, Code: res.StatusCode}
			if retryable(res.StatusCode) {
				return nil, serr
			}
			return nil, backoff.Permanent(serr)
		}
		return io.ReadAll(io.LimitReader(res.Body, MaxBodyBytes))
	}

	tries := g.MaxTries
	if tries == 0 {
		tries = 1
	}
	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = 500 * time.Millisecond
	bo.MaxInterval = 5 * time.Second

	body, err := backoff.RetryWithData(op, backoff.WithContext(backoff.WithMaxRetries(bo, tries-1), ctx))
	var serr *StatusError
	if errors.As(err, &serr) && serr.Code == http.StatusTooManyRequests {
		return nil, apperr.RateLimit("upstream rate limited", err)
	}
	return body, err
}
