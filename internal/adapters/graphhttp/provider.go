// Package graphhttp loads the road network descriptor from a remote
// HTTP endpoint that serves YAML or JSON.
package graphhttp

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"fuel-route-service/internal/adapters/graphfile"
	"fuel-route-service/internal/domain"
	"fuel-route-service/internal/platform/obs"
	"io"
	"log/slog"
	"mime"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"
)

const (
	// maxBodyBytes bounds the descriptor download.
	maxBodyBytes = 8 << 20
	maxAttempts  = 4
	// maxRetryAfter caps a server supplied Retry-After delay.
	maxRetryAfter = 30 * time.Second
)

// HTTPGraphProvider implements GraphProvider over HTTP GET.
// Transient failures are retried with exponential backoff.
//
// The provider is safe for concurrent use.
type HTTPGraphProvider struct {
	session *http.Client
	url     string
	apiKey  string
	backoff time.Duration
}

// fetchError is a non-2xx answer from the graph endpoint.
type fetchError struct {
	Code       int
	Body       string
	RetryAfter time.Duration
}

func (e *fetchError) Error() string {
	return fmt.Sprintf("status %d: %s", e.Code, e.Body)
}

func NewHTTPGraphProvider(url, apiKey string) (*HTTPGraphProvider, error) {
	url = strings.TrimSpace(url)
	if url == "" {
		return nil, errors.New("graph url is empty")
	}

	return &HTTPGraphProvider{
		session: &http.Client{Timeout: 10 * time.Second},
		url:     url,
		apiKey:  apiKey,
		backoff: 200 * time.Millisecond,
	}, nil
}

func (p *HTTPGraphProvider) LoadGraph(ctx context.Context) (_ domain.GraphDescriptor, err error) {
	defer obs.Time(ctx, "graph.http.LoadGraph")(&err)

	body, mediaType, err := p.fetch(ctx)
	if err != nil {
		return domain.GraphDescriptor{}, fmt.Errorf("fetch graph %q: %w", p.url, err)
	}

	if mediaType == "application/json" {
		return decodeJSON(body)
	}
	return graphfile.Parse(body)
}

// fetch downloads the descriptor, retrying network errors, 429 and 5xx.
// A Retry-After header overrides the backoff for that attempt.
func (p *HTTPGraphProvider) fetch(ctx context.Context) ([]byte, string, error) {
	backoff := p.backoff

	for attempt := 1; ; attempt++ {
		if err := ctx.Err(); err != nil {
			return nil, "", err
		}

		body, mediaType, err := p.fetchOnce(ctx)
		if err == nil {
			return body, mediaType, nil
		}

		wait, ok := retryDelay(err, backoff)
		if !ok || attempt == maxAttempts {
			return nil, "", err
		}
		slog.WarnContext(ctx, "graph fetch retry",
			"url", p.url, "attempt", attempt, "wait_ms", wait.Milliseconds(), "err", err)

		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, "", ctx.Err()
		case <-timer.C:
		}
		backoff *= 2
	}
}

func (p *HTTPGraphProvider) fetchOnce(ctx context.Context) ([]byte, string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.url, nil)
	if err != nil {
		return nil, "", fmt.Errorf("create request: %w", err)
	}
	if p.apiKey != "" {
		req.Header.Set("Authorization", p.apiKey)
	}
	req.Header.Set("Accept", "application/yaml, application/json")

	resp, err := p.session.Do(req)
	if err != nil {
		return nil, "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, "", &fetchError{
			Code:       resp.StatusCode,
			Body:       strings.TrimSpace(string(b)),
			RetryAfter: parseRetryAfter(resp.Header.Get("Retry-After")),
		}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes+1))
	if err != nil {
		return nil, "", fmt.Errorf("read body: %w", err)
	}
	if len(body) > maxBodyBytes {
		return nil, "", fmt.Errorf("body larger than %d bytes", maxBodyBytes)
	}

	mediaType, _, _ := mime.ParseMediaType(resp.Header.Get("Content-Type"))
	return body, mediaType, nil
}

// retryDelay reports whether err is transient and how long to wait before
// the next attempt.
func retryDelay(err error, backoff time.Duration) (time.Duration, bool) {
	var fe *fetchError
	if errors.As(err, &fe) {
		switch fe.Code {
		case http.StatusTooManyRequests, http.StatusServiceUnavailable:
			if fe.RetryAfter > 0 {
				return fe.RetryAfter, true
			}
			return backoff, true
		case http.StatusInternalServerError, http.StatusBadGateway, http.StatusGatewayTimeout:
			return backoff, true
		}
		return 0, false
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return backoff, true
	}
	return 0, false
}

// parseRetryAfter accepts delay-seconds only; HTTP dates are ignored.
func parseRetryAfter(v string) time.Duration {
	secs, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil || secs <= 0 {
		return 0
	}
	return min(time.Duration(secs)*time.Second, maxRetryAfter)
}

func decodeJSON(body []byte) (domain.GraphDescriptor, error) {
	var desc domain.GraphDescriptor

	dec := json.NewDecoder(bytes.NewReader(body))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&desc); err != nil {
		return domain.GraphDescriptor{}, fmt.Errorf("parse graph json: %w", err)
	}
	if desc.NodeCount <= 0 {
		return domain.GraphDescriptor{}, errors.New("parse graph json: node_count must be positive")
	}
	return desc, nil
}
