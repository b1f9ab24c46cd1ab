package sportspress

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/riskibarqy/hoopstats/internal/platform/cache"
	"github.com/riskibarqy/hoopstats/internal/platform/logging"
	"github.com/riskibarqy/hoopstats/internal/platform/resilience"
	"github.com/riskibarqy/hoopstats/internal/usecase"
)

const (
	defaultBaseURL     = "https://2kcompleague.com/wp-json/sportspress/v2"
	defaultUserAgent   = "hoopstats/1.0 (+https://github.com/riskibarqy/hoopstats)"
	defaultTimeout     = 30 * time.Second
	defaultAttempts    = 3
	defaultConcurrency = 10
	defaultPageSize    = 100
	maxBodyBytes       = 16 << 20
)

var errTransient = crerr.New("sportspress transient failure")

// StatusError is a non-2xx answer from the league site.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("sportspress status=%d body=%s", e.Code, e.Body)
}

// IsEndOfPages reports whether err is the HTTP 400 the site returns for a
// page past the last one.
func IsEndOfPages(err error) bool {
	var statusErr *StatusError
	return stderrors.As(err, &statusErr) && statusErr.Code == http.StatusBadRequest
}

// IsTransient reports whether err was classified as retryable.
func IsTransient(err error) bool {
	return stderrors.Is(err, errTransient)
}

type ClientConfig struct {
	HTTPClient     *http.Client
	BaseURL        string
	Timeout        time.Duration
	MaxAttempts    int
	RetryMinWait   time.Duration
	RetryMaxWait   time.Duration
	Concurrency    int
	PageSize       int
	PageDelay      time.Duration
	UserAgent      string
	Logger         *logging.Logger
	CircuitBreaker resilience.CircuitBreakerConfig
}

type Client struct {
	httpClient     *http.Client
	timeout        time.Duration
	baseURL        string
	userAgent      string
	maxAttempts    int
	backoff        resilience.Backoff
	gate           chan struct{}
	pageSize       int
	pageDelay      time.Duration
	logger         *logging.Logger
	breaker        *resilience.CircuitBreaker
	circuitEnabled bool
	flight         resilience.Group[[]byte]
	extractor      *Extractor
	leagueIDs      *cache.Store[string]
}

func NewClient(cfg ClientConfig) *Client {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}
	logger = logger.Named("sportspress")

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{
			Timeout:   timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		}
	}

	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	userAgent := strings.TrimSpace(cfg.UserAgent)
	if userAgent == "" {
		userAgent = defaultUserAgent
	}

	attempts := cfg.MaxAttempts
	if attempts < 1 {
		attempts = defaultAttempts
	}
	concurrency := cfg.Concurrency
	if concurrency < 1 {
		concurrency = defaultConcurrency
	}
	pageSize := cfg.PageSize
	if pageSize < 1 {
		pageSize = defaultPageSize
	}

	backoff := resilience.DefaultBackoff()
	if cfg.RetryMinWait > 0 {
		backoff.Min = cfg.RetryMinWait
	}
	if cfg.RetryMaxWait > 0 {
		backoff.Max = cfg.RetryMaxWait
	}
	if backoff.Max < backoff.Min {
		backoff.Max = backoff.Min
	}

	breakerCfg := resilience.NormalizeCircuitBreakerConfig(cfg.CircuitBreaker)
	breaker := resilience.NewCircuitBreakerFromConfig("sportspress", breakerCfg)
	breaker.OnStateChange(func(name string, from, to resilience.CircuitState) {
		logger.Warn("circuit breaker state changed", "breaker", name, "from", from, "to", to)
	})

	return &Client{
		httpClient:     httpClient,
		timeout:        timeout,
		baseURL:        baseURL,
		userAgent:      userAgent,
		maxAttempts:    attempts,
		backoff:        backoff,
		gate:           make(chan struct{}, concurrency),
		pageSize:       pageSize,
		pageDelay:      cfg.PageDelay,
		logger:         logger,
		breaker:        breaker,
		circuitEnabled: breakerCfg.Enabled,
		extractor:      DefaultExtractor(),
		leagueIDs:      cache.NewStore[string](0),
	}
}

func (c *Client) BaseURL() string {
	return c.baseURL
}

// GetJSON fetches pathOrURL, merging query into any query string it already
// carries, and decodes the body into target when target is non-nil. The raw
// body is returned either way.
func (c *Client) GetJSON(ctx context.Context, pathOrURL string, query url.Values, target any) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	fullURL, err := c.resolveURL(pathOrURL, query)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", usecase.ErrInvalidInput, err)
	}

	if c.circuitEnabled {
		if err := c.breaker.Allow(); err != nil {
			c.logger.WarnContext(ctx, "sportspress circuit breaker rejected request", "state", c.breaker.State(), "url", fullURL)
			return nil, fmt.Errorf("%w: league site is temporarily unavailable", usecase.ErrDependencyUnavailable)
		}
	}

	raw, err, _ := c.flight.DoContext(ctx, fullURL, func() ([]byte, error) {
		flightCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), c.flightBudget())
		defer cancel()

		body, reqErr := c.executeRequest(flightCtx, fullURL)
		if c.circuitEnabled {
			if reqErr != nil && IsTransient(reqErr) {
				c.breaker.RecordFailure()
			} else {
				c.breaker.RecordSuccess()
			}
		}
		return body, reqErr
	})
	if err != nil {
		return nil, err
	}

	if target != nil {
		if err := sonic.Unmarshal(raw, target); err != nil {
			return raw, fmt.Errorf("decode sportspress payload url=%s: %w", fullURL, err)
		}
	}
	return raw, nil
}

// flightBudget bounds one shared request: every attempt at the client
// timeout plus the longest wait between attempts.
func (c *Client) flightBudget() time.Duration {
	return time.Duration(c.maxAttempts)*c.timeout + time.Duration(c.maxAttempts-1)*c.backoff.Max
}

func (c *Client) resolveURL(pathOrURL string, query url.Values) (string, error) {
	raw := strings.TrimSpace(pathOrURL)
	if raw == "" {
		return "", fmt.Errorf("empty request path")
	}
	if !strings.HasPrefix(raw, "http://") && !strings.HasPrefix(raw, "https://") {
		if !strings.HasPrefix(raw, "/") {
			raw = "/" + raw
		}
		raw = c.baseURL + raw
	}

	parsed, err := url.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("parse request url %q: %w", raw, err)
	}
	if len(query) > 0 {
		merged := parsed.Query()
		for key, values := range query {
			merged.Del(key)
			for _, value := range values {
				merged.Add(key, value)
			}
		}
		parsed.RawQuery = merged.Encode()
	}
	return parsed.String(), nil
}

func (c *Client) executeRequest(ctx context.Context, fullURL string) ([]byte, error) {
	var lastErr error
	for attempt := 0; attempt < c.maxAttempts; attempt++ {
		raw, err := c.attempt(ctx, fullURL)
		if err == nil {
			return raw, nil
		}
		lastErr = err

		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		if !IsTransient(err) {
			return nil, err
		}
		if attempt == c.maxAttempts-1 {
			break
		}

		wait := c.backoff.Delay(attempt)
		c.logger.DebugContext(ctx, "retrying sportspress request", "url", fullURL, "attempt", attempt+1, "wait", wait, "error", err)
		if err := resilience.Sleep(ctx, wait); err != nil {
			return nil, err
		}
	}

	c.logger.WarnContext(ctx, "sportspress request failed", "url", fullURL, "attempts", c.maxAttempts, "error", lastErr)
	return nil, lastErr
}

func (c *Client) attempt(ctx context.Context, fullURL string) ([]byte, error) {
	select {
	case c.gate <- struct{}{}:
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	defer func() { <-c.gate }()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: send request: %v", errTransient, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("%w: read response body: %v", errTransient, err)
	}
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return raw, nil
	}

	statusErr := &StatusError{Code: resp.StatusCode, Body: abbreviateBody(raw)}
	if isRetryableStatus(resp.StatusCode) {
		return nil, fmt.Errorf("%w: %w", errTransient, statusErr)
	}
	return nil, statusErr
}

func isRetryableStatus(code int) bool {
	return code == http.StatusTooManyRequests || code >= http.StatusInternalServerError
}

func abbreviateBody(body []byte) string {
	text := strings.TrimSpace(string(body))
	if len(text) <= 240 {
		return text
	}
	return text[:240] + "..."
}
