package pokeapi

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/KirkDiggler/pokebattle-api/internal/errors"
)

const maxBodyBytes = 8 << 20

// getJSON decodes the resource at url into out, serving from the cache when
// possible. Only bodies that decode are cached.
func (c *client) getJSON(ctx context.Context, url string, out any) error {
	if url == "" {
		return errors.Internal("resource url is empty")
	}

	if body, err := c.cache.Get(ctx, url); err == nil {
		if json.Unmarshal(body, out) == nil {
			return nil
		}
		slog.WarnContext(ctx, "Discarding undecodable cache entry", "url", url)
	} else if !errors.IsNotFound(err) {
		slog.WarnContext(ctx, "Cache read failed", "url", url, "error", err)
	}

	body, err := c.fetchWithRetry(ctx, url)
	if err != nil {
		return err
	}

	if err := json.Unmarshal(body, out); err != nil {
		return errors.WrapWithCode(err, errors.CodeInternal, "malformed upstream response").
			WithMeta("url", url)
	}

	if err := c.cache.Set(ctx, url, body); err != nil {
		slog.WarnContext(ctx, "Cache write failed", "url", url, "error", err)
	}
	return nil
}

func (c *client) fetchWithRetry(ctx context.Context, url string) ([]byte, error) {
	var lastErr error
	for attempt := 1; attempt <= c.maxRetries; attempt++ {
		body, retryable, err := c.fetch(ctx, url)
		if err == nil {
			return body, nil
		}
		if !retryable {
			return nil, err
		}
		lastErr = err

		slog.DebugContext(ctx, "Retrying upstream request",
			"url", url,
			"attempt", attempt,
			"error", err)

		if attempt == c.maxRetries {
			break
		}

		timer := time.NewTimer(c.retryDelay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, errors.Wrap(ctx.Err(), "upstream request aborted")
		case <-timer.C:
		}
	}

	return nil, errors.WrapWithCodef(lastErr, errors.CodeUnavailable,
		"upstream unavailable after %d attempts", c.maxRetries).WithMeta("url", url)
}

// fetch performs a single GET. The bool reports whether a failure may be retried.
func (c *client) fetch(ctx context.Context, url string) ([]byte, bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, false, errors.WrapWithCode(err, errors.CodeInternal, "failed to build request")
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, false, errors.Wrap(ctx.Err(), "upstream request aborted")
		}
		return nil, true, errors.WrapWithCode(err, errors.CodeUnavailable, "upstream request failed")
	}
	defer func() { _ = resp.Body.Close() }()

	switch {
	case resp.StatusCode == http.StatusOK:
	case resp.StatusCode == http.StatusNotFound:
		return nil, false, errors.NotFound("resource not found upstream").WithMeta("url", url)
	case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500:
		return nil, true, errors.Unavailablef("upstream returned status %d", resp.StatusCode).
			WithMeta("url", url)
	default:
		return nil, false, errors.Unavailablef("upstream returned status %d", resp.StatusCode).
			WithMeta("url", url)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, true, errors.WrapWithCode(err, errors.CodeUnavailable, "failed to read upstream response")
	}
	return body, false, nil
}
