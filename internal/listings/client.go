package listings

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	gobreaker "github.com/sony/gobreaker/v2"
	"golang.org/x/time/rate"

	"suburbdash/server/config"
	"suburbdash/server/internal/metrics"
	"suburbdash/server/internal/models"
)

// Fetcher is implemented by anything that can run a property search
type Fetcher interface {
	FetchProperties(ctx context.Context, suburb, propertyType string) (*models.SearchResult, error)
}

// Client talks to the suburb properties endpoint of the listings provider
type Client struct {
	logger              *logrus.Logger
	baseURL             string
	token               string
	defaultSuburb       string
	defaultPropertyType string
	client              *http.Client
	limiter             *rate.Limiter
	breaker             *gobreaker.CircuitBreaker[[]byte]
}

func NewClient(cfg *config.Config, logger *logrus.Logger) *Client {
	if logger == nil {
		logger = logrus.New()
		logger.SetFormatter(&logrus.JSONFormatter{})
		logger.SetOutput(os.Stdout)
	}

	limit := rate.Inf
	if cfg.Upstream.RateLimit > 0 {
		limit = rate.Limit(cfg.Upstream.RateLimit)
	}
	burst := cfg.Upstream.RateBurst
	if burst < 1 {
		burst = 1
	}

	c := &Client{
		logger:              logger,
		baseURL:             cfg.Upstream.BaseURL,
		token:               cfg.Upstream.Token,
		defaultSuburb:       cfg.Search.DefaultSuburb,
		defaultPropertyType: cfg.Search.DefaultPropertyType,
		client:              &http.Client{Timeout: cfg.Upstream.Timeout},
		limiter:             rate.NewLimiter(limit, burst),
	}
	c.breaker = newBreaker(cfg, logger)
	metrics.CircuitBreakerState.Set(0)

	return c
}

func newBreaker(cfg *config.Config, logger *logrus.Logger) *gobreaker.CircuitBreaker[[]byte] {
	failures := cfg.Upstream.BreakerFailures
	if failures == 0 {
		failures = 5
	}

	return gobreaker.NewCircuitBreaker[[]byte](gobreaker.Settings{
		Name:        "listings-api",
		MaxRequests: 1,
		Timeout:     cfg.Upstream.BreakerCooldown,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= failures
		},
		// Client errors and cancellations say nothing about provider health
		IsSuccessful: func(err error) bool {
			if err == nil || errors.Is(err, context.Canceled) {
				return true
			}
			var upstreamErr *UpstreamError
			if errors.As(err, &upstreamErr) {
				return upstreamErr.StatusCode < http.StatusInternalServerError
			}
			return false
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.WithFields(logrus.Fields{
				"breaker": name,
				"from":    from.String(),
				"to":      to.String(),
			}).Warn("Circuit breaker state transition")
			metrics.CircuitBreakerState.Set(stateToFloat(to))
		},
	})
}

// FetchProperties fetches and normalizes the listings for a suburb and
// property type. Empty arguments fall back to the configured defaults.
func (c *Client) FetchProperties(ctx context.Context, suburb, propertyType string) (*models.SearchResult, error) {
	suburb = strings.TrimSpace(suburb)
	if suburb == "" {
		suburb = c.defaultSuburb
	}
	propertyType = strings.TrimSpace(propertyType)
	if propertyType == "" {
		propertyType = c.defaultPropertyType
	}

	logger := c.logger.WithFields(logrus.Fields{
		"suburb":        suburb,
		"property_type": propertyType,
	})

	start := time.Now()
	body, err := c.breaker.Execute(func() ([]byte, error) {
		return c.fetch(ctx, suburb, propertyType)
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			metrics.RecordUpstreamRequest("rejected", time.Since(start))
			logger.WithError(err).Warn("Listings request rejected by circuit breaker")
			return nil, fmt.Errorf("%w: %v", ErrCircuitOpen, err)
		}

		var upstreamErr *UpstreamError
		if errors.As(err, &upstreamErr) {
			metrics.RecordUpstreamRequest("http_error", time.Since(start))
		} else {
			metrics.RecordUpstreamRequest("transport_error", time.Since(start))
		}
		logger.WithError(err).Error("Listings request failed")
		return nil, err
	}

	items, err := DecodeResults(Repair(body))
	if err != nil {
		metrics.RecordUpstreamRequest("parse_error", time.Since(start))
		logger.WithError(err).Error("Failed to parse listings response")
		return nil, err
	}
	metrics.RecordUpstreamRequest("success", time.Since(start))

	properties := Normalize(items, c.logger)
	metrics.UpstreamListingsReturned.Observe(float64(len(properties)))

	logger.WithField("count", len(properties)).Info("Fetched properties")

	return &models.SearchResult{
		Properties:   properties,
		Count:        len(properties),
		Suburb:       suburb,
		PropertyType: propertyType,
	}, nil
}

func (c *Client) fetch(ctx context.Context, suburb, propertyType string) ([]byte, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.requestURL(suburb, propertyType), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	c.logger.WithField("url", req.URL.String()).Debug("Requesting listings")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("listings request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil, &UpstreamError{StatusCode: resp.StatusCode}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	return body, nil
}

func (c *Client) requestURL(suburb, propertyType string) string {
	sep := "?"
	if strings.Contains(c.baseURL, "?") {
		sep = "&"
	}
	return c.baseURL + sep + "suburb=" + escape(suburb) + "&property_type=" + escape(propertyType)
}

// escape percent-encodes a query value with spaces as %20
func escape(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}

func stateToFloat(state gobreaker.State) float64 {
	switch state {
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return 0
	}
}
