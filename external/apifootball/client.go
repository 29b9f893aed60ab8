// Package apifootball ingests league reference data from the API-Football
// REST service: typed envelopes, header auth and page-based iteration.
package apifootball

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"

	"github.com/eplhub/crawler/internal/domain/ingest"
	"github.com/eplhub/crawler/internal/platform/logging"
)

const defaultBaseURL = "https://v3.football.api-sports.io"

type ClientConfig struct {
	HTTPClient   *http.Client
	BaseURL      string
	Key          string
	Host         string
	Timeout      time.Duration
	MaxRetries   int
	RetryBackoff time.Duration
	Logger       *logging.Logger
}

type Client struct {
	httpClient   *http.Client
	baseURL      string
	key          string
	host         string
	maxRetries   int
	retryBackoff time.Duration
	logger       *logging.Logger
}

func NewClient(cfg ClientConfig) *Client {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}
	if httpClient.Timeout <= 0 {
		httpClient.Timeout = 20 * time.Second
	}

	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}

	maxRetries := cfg.MaxRetries
	if maxRetries < 0 {
		maxRetries = 0
	}
	retryBackoff := cfg.RetryBackoff
	if retryBackoff < 0 {
		retryBackoff = 0
	}

	return &Client{
		httpClient:   httpClient,
		baseURL:      baseURL,
		key:          strings.TrimSpace(cfg.Key),
		host:         strings.TrimSpace(cfg.Host),
		maxRetries:   maxRetries,
		retryBackoff: retryBackoff,
		logger:       logger,
	}
}

// getJSON performs an authenticated GET with retries on transport errors and
// retryable statuses, then decodes the body into target.
func (c *Client) getJSON(ctx context.Context, path string, query map[string]string, target any) error {
	values := url.Values{}
	for key, value := range query {
		values.Set(key, value)
	}

	fullURL := c.baseURL + path
	if encoded := values.Encode(); encoded != "" {
		fullURL += "?" + encoded
	}

	raw, err := c.executeRequest(ctx, fullURL)
	if err != nil {
		return err
	}
	if err := sonic.Unmarshal(raw, target); err != nil {
		return crerr.Mark(fmt.Errorf("decode provider payload for %s: %w", path, err), ingest.ErrDatasetParse)
	}
	return nil
}

func (c *Client) executeRequest(ctx context.Context, fullURL string) ([]byte, error) {
	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
		if err != nil {
			return nil, fmt.Errorf("build request: %w", err)
		}
		req.Header.Set("accept", "application/json")
		req.Header.Set("x-apisports-key", c.key)
		if c.host != "" {
			req.Header.Set("x-apisports-host", c.host)
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = fmt.Errorf("send request: %w", err)
		} else {
			raw, readErr := io.ReadAll(io.LimitReader(resp.Body, 6<<20))
			_ = resp.Body.Close()
			switch {
			case readErr != nil:
				lastErr = fmt.Errorf("read response body: %w", readErr)
			case resp.StatusCode >= 200 && resp.StatusCode < 300:
				return raw, nil
			case isRetryableStatus(resp.StatusCode):
				lastErr = fmt.Errorf("provider status=%d", resp.StatusCode)
			default:
				return nil, fmt.Errorf("provider status=%d", resp.StatusCode)
			}
		}

		if attempt == c.maxRetries {
			break
		}
		timer := time.NewTimer(time.Duration(attempt+1) * c.retryBackoff)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}
	}

	if lastErr == nil {
		lastErr = fmt.Errorf("provider request failed")
	}
	c.logger.WarnContext(ctx, "api-football request failed", "url", fullURL, "error", lastErr)
	return nil, crerr.Mark(lastErr, ingest.ErrTransientFetch)
}

func isRetryableStatus(status int) bool {
	return status == http.StatusTooManyRequests || status >= 500
}
