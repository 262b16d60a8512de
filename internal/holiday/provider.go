package holiday

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"
)

// ErrFetch wraps any provider failure: unreachable endpoint, non-2xx status
// after all retries, or a malformed payload.
var ErrFetch = errors.New("holiday fetch failed")

const (
	// DefaultBaseURL is a BrasilAPI-compatible national holiday endpoint.
	// The year is appended as a path segment.
	DefaultBaseURL = "https://brasilapi.com.br/api/feriados/v1"

	defaultRetryAttempts = 3
	defaultRetryDelay    = time.Second
	providerHTTPTimeout  = 10 * time.Second
)

type apiHoliday struct {
	Date string `json:"date"`
	Name string `json:"name"`
	Type string `json:"type"`
}

// Provider fetches national holidays for a year over HTTP with bounded retry.
type Provider struct {
	baseURL string
	client  *http.Client
	retries int
	delay   time.Duration
	logger  *zap.Logger
}

// NewProvider creates a Provider against the given base URL. Retries below 1
// fall back to the default attempt count.
func NewProvider(baseURL string, retries int, logger *zap.Logger) *Provider {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if retries < 1 {
		retries = defaultRetryAttempts
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Provider{
		baseURL: baseURL,
		client:  &http.Client{Timeout: providerHTTPTimeout},
		retries: retries,
		delay:   defaultRetryDelay,
		logger:  logger.Named("holiday-provider"),
	}
}

// Fetch returns the holiday dates for one year. Transport errors and 5xx
// responses are retried with linear backoff; a malformed payload is not.
func (p *Provider) Fetch(ctx context.Context, year int) ([]time.Time, error) {
	url := fmt.Sprintf("%s/%d", p.baseURL, year)

	var lastErr error
	for attempt := 1; attempt <= p.retries; attempt++ {
		dates, retryable, err := p.fetchOnce(ctx, url)
		if err == nil {
			return dates, nil
		}
		lastErr = err
		if !retryable {
			break
		}

		p.logger.Warn("holiday fetch attempt failed",
			zap.Int("year", year),
			zap.Int("attempt", attempt),
			zap.Error(err))

		if attempt < p.retries {
			select {
			case <-ctx.Done():
				return nil, fmt.Errorf("%w: %v", ErrFetch, ctx.Err())
			case <-time.After(time.Duration(attempt) * p.delay):
			}
		}
	}

	return nil, fmt.Errorf("%w: %v", ErrFetch, lastErr)
}

func (p *Provider) fetchOnce(ctx context.Context, url string) (dates []time.Time, retryable bool, err error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, false, err
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, true, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, resp.StatusCode >= 500, fmt.Errorf("unexpected status %d from %s", resp.StatusCode, url)
	}

	var payload []apiHoliday
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, false, fmt.Errorf("malformed holiday payload: %v", err)
	}

	dates = make([]time.Time, 0, len(payload))
	for _, h := range payload {
		d, err := time.Parse(dateLayout, h.Date)
		if err != nil {
			return nil, false, fmt.Errorf("malformed holiday date %q: %v", h.Date, err)
		}
		dates = append(dates, d)
	}
	return dates, false, nil
}
