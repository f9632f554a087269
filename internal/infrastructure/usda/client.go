package usda

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/bitebot/backend/internal/domain"
	"golang.org/x/time/rate"
)

const (
	maxAttempts       = 3
	baseBackoff       = 500 * time.Millisecond
	maxErrorBodyBytes = 2048
	defaultPerHour    = 1000
	defaultBurst      = 10
	searchPageSize    = "10"
)

// Client handles communication with the USDA FoodData Central API
type Client struct {
	httpClient  *http.Client
	apiKey      string
	baseURL     string
	rateLimiter *rate.Limiter
	logger      *slog.Logger
	debug       bool
	sleep       func(ctx context.Context, d time.Duration) error
}

// Option configures a Client
type Option func(*Client)

// WithLogger sets the client logger
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) { c.logger = logger.With(slog.String("component", "usda")) }
}

// WithRequestsPerHour sets the outbound rate limit. Non-positive values keep the default.
func WithRequestsPerHour(n int) Option {
	return func(c *Client) {
		if n > 0 {
			c.rateLimiter = rate.NewLimiter(rate.Limit(float64(n)/3600), defaultBurst)
		}
	}
}

// WithHTTPClient replaces the underlying HTTP client
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// NewClient creates a new USDA API client
func NewClient(apiKey, baseURL string, opts ...Option) *Client {
	c := &Client{
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		apiKey:      apiKey,
		baseURL:     baseURL,
		rateLimiter: rate.NewLimiter(rate.Limit(float64(defaultPerHour)/3600), defaultBurst),
		logger:      slog.Default().With(slog.String("component", "usda")),
		sleep:       sleepContext,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// SetDebug toggles logging of every request and upstream error body
func (c *Client) SetDebug(debug bool) {
	c.debug = debug
}

func (c *Client) debugLog(format string, args ...any) {
	if c.debug {
		c.logger.Debug(fmt.Sprintf(format, args...))
	}
}

// exponentialBackoff returns the wait before retrying after the given attempt (1-based)
func exponentialBackoff(attempt int) time.Duration {
	return baseBackoff * time.Duration(1<<(attempt-1))
}

func sleepContext(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// readLimitedBody reads at most limit bytes of r
func readLimitedBody(r io.Reader, limit int64) ([]byte, error) {
	return io.ReadAll(io.LimitReader(r, limit))
}

// retryable reports whether a status code is worth another attempt
func retryable(status int) bool {
	return status == http.StatusTooManyRequests || status >= http.StatusInternalServerError
}

// doRequest executes an HTTP GET request with proper headers and error handling
func (c *Client) doRequest(ctx context.Context, reqURL string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", "BiteBot/1.0")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrUSDAAPIFailure, err)
	}

	return resp, nil
}

// getJSON performs a rate-limited GET with retries and decodes the body into out.
// 404 maps to ErrProductNotFound; 429 and 5xx are retried; other statuses fail at once.
func (c *Client) getJSON(ctx context.Context, reqURL string, out any) error {
	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if attempt > 1 {
			if err := c.sleep(ctx, exponentialBackoff(attempt-1)); err != nil {
				return fmt.Errorf("%w: %v", domain.ErrUSDAAPIFailure, err)
			}
		}

		if err := c.rateLimiter.Wait(ctx); err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return ctxErr
			}
			return fmt.Errorf("%w: %v", domain.ErrRateLimited, err)
		}

		resp, err := c.doRequest(ctx, reqURL)
		if err != nil {
			if !errors.Is(err, domain.ErrUSDAAPIFailure) {
				return err
			}
			c.logger.Warn("request failed", slog.Int("attempt", attempt), slog.Any("error", err))
			lastErr = err
			if ctx.Err() != nil {
				return err
			}
			continue
		}

		if resp.StatusCode != http.StatusOK {
			body, _ := readLimitedBody(resp.Body, maxErrorBodyBytes)
			resp.Body.Close()
			c.debugLog("status %d body %s", resp.StatusCode, body)

			if resp.StatusCode == http.StatusNotFound {
				return domain.ErrProductNotFound
			}
			lastErr = fmt.Errorf("%w: status %d", domain.ErrUSDAAPIFailure, resp.StatusCode)
			if !retryable(resp.StatusCode) {
				return lastErr
			}
			c.logger.Warn("upstream error", slog.Int("attempt", attempt), slog.Int("status", resp.StatusCode))
			continue
		}

		err = json.NewDecoder(resp.Body).Decode(out)
		resp.Body.Close()
		if err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
		return nil
	}

	c.logger.Error("all retries failed", slog.Any("error", lastErr))
	return lastErr
}

// SearchFoods searches for foods in the USDA database
func (c *Client) SearchFoods(ctx context.Context, query string) (*domain.USDASearchResponse, error) {
	c.debugLog("SearchFoods query=%q", query)

	params := url.Values{}
	params.Add("query", query)
	params.Add("api_key", c.apiKey)
	params.Add("dataType", "Foundation,Survey (FNDDS),SR Legacy,Branded")
	params.Add("pageSize", searchPageSize)
	reqURL := fmt.Sprintf("%s/v1/foods/search?%s", c.baseURL, params.Encode())

	var searchResp domain.USDASearchResponse
	if err := c.getJSON(ctx, reqURL, &searchResp); err != nil {
		return nil, err
	}

	if len(searchResp.Foods) == 0 {
		c.logger.Info("no foods found", slog.String("query", query))
		return nil, domain.ErrProductNotFound
	}

	c.logger.Debug("search complete", slog.String("query", query), slog.Int("foods", len(searchResp.Foods)))
	return &searchResp, nil
}

// GetFoodDetails retrieves detailed nutrition information for a specific food by FDC ID
func (c *Client) GetFoodDetails(ctx context.Context, fdcID string) (*domain.USDAFood, error) {
	params := url.Values{}
	params.Add("api_key", c.apiKey)
	reqURL := fmt.Sprintf("%s/v1/food/%s?%s", c.baseURL, url.PathEscape(fdcID), params.Encode())

	var food domain.USDAFood
	if err := c.getJSON(ctx, reqURL, &food); err != nil {
		return nil, err
	}
	return &food, nil
}
