package holiday

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// FailurePolicy decides what a classification run does when the holiday
// provider cannot be reached.
type FailurePolicy string

const (
	// FailureAbort surfaces ErrFetch to the caller and aborts the run.
	FailureAbort FailurePolicy = "abort"
	// FailureNoHolidays proceeds with an empty holiday set (degraded mode).
	FailureNoHolidays FailurePolicy = "treat_as_no_holidays"
)

// ParseFailurePolicy validates a configured policy string.
func ParseFailurePolicy(s string) (FailurePolicy, error) {
	switch FailurePolicy(s) {
	case FailureAbort, FailureNoHolidays:
		return FailurePolicy(s), nil
	default:
		return "", fmt.Errorf("unknown holiday fetch failure policy %q", s)
	}
}

// Fetcher is the provider contract the calendar depends on.
type Fetcher interface {
	Fetch(ctx context.Context, year int) ([]time.Time, error)
}

// Cacher is an optional shared cache for holiday sets so they survive across
// process runs. Errors from it are treated as misses.
type Cacher interface {
	Get(ctx context.Context, key string, dest any) error
	Set(ctx context.Context, key string, value any, expiration time.Duration) error
}

const sharedCacheTTL = 30 * 24 * time.Hour

// Calendar memoizes holiday sets per (year, country). A given year is fetched
// at most once per run even under concurrent first access: the in-process map
// is the committed value and a singleflight group dedups the populate path.
// Degraded results (empty sets under FailureNoHolidays) are memoized too, so
// the one-fetch-per-year invariant holds regardless of provider health.
type Calendar struct {
	provider Fetcher
	cache    Cacher // may be nil
	policy   FailurePolicy
	country  string
	logger   *zap.Logger

	mu   sync.RWMutex
	sets map[int]Set
	sf   singleflight.Group
}

// NewCalendar creates a Calendar for one country.
func NewCalendar(provider Fetcher, country string, policy FailurePolicy, cache Cacher, logger *zap.Logger) *Calendar {
	if provider == nil {
		panic("provider must not be nil")
	}
	if policy == "" {
		policy = FailureAbort
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Calendar{
		provider: provider,
		cache:    cache,
		policy:   policy,
		country:  country,
		logger:   logger.Named("holiday-calendar"),
		sets:     make(map[int]Set),
	}
}

// Holidays returns the holiday set for a year, fetching it on first access.
func (c *Calendar) Holidays(ctx context.Context, year int) (Set, error) {
	c.mu.RLock()
	set, ok := c.sets[year]
	c.mu.RUnlock()
	if ok {
		return set, nil
	}

	v, err, _ := c.sf.Do(fmt.Sprintf("%s:%d", c.country, year), func() (any, error) {
		// Another caller may have committed while we queued on the flight.
		c.mu.RLock()
		set, ok := c.sets[year]
		c.mu.RUnlock()
		if ok {
			return set, nil
		}

		set, err := c.resolve(ctx, year)
		if err != nil {
			return nil, err
		}

		c.mu.Lock()
		c.sets[year] = set
		c.mu.Unlock()
		return set, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(Set), nil
}

// RangeHolidays unions the holiday sets of every year the interval spans.
func (c *Calendar) RangeHolidays(ctx context.Context, start, end time.Time) (Set, error) {
	firstYear := start.UTC().Year()
	lastYear := end.UTC().Year()
	if lastYear < firstYear {
		firstYear, lastYear = lastYear, firstYear
	}

	out := Set{}
	for year := firstYear; year <= lastYear; year++ {
		set, err := c.Holidays(ctx, year)
		if err != nil {
			return nil, err
		}
		out = out.Union(set)
	}
	return out, nil
}

func (c *Calendar) resolve(ctx context.Context, year int) (Set, error) {
	cacheKey := fmt.Sprintf("holidays:%s:%d", c.country, year)

	if c.cache != nil {
		var dates []string
		if err := c.cache.Get(ctx, cacheKey, &dates); err == nil {
			c.logger.Debug("holiday set served from shared cache",
				zap.Int("year", year),
				zap.String("country", c.country))
			return SetFromDates(dates), nil
		}
	}

	dates, err := c.provider.Fetch(ctx, year)
	if err != nil {
		if c.policy == FailureNoHolidays {
			c.logger.Warn("holiday provider unavailable, proceeding without holidays",
				zap.Int("year", year),
				zap.String("country", c.country),
				zap.Error(err))
			return Set{}, nil
		}
		return nil, err
	}

	set := NewSet(dates...)
	if c.cache != nil {
		if err := c.cache.Set(ctx, cacheKey, set.Dates(), sharedCacheTTL); err != nil {
			c.logger.Warn("failed to write holiday set to shared cache",
				zap.String("key", cacheKey),
				zap.Error(err))
		}
	}

	c.logger.Info("holiday set fetched",
		zap.Int("year", year),
		zap.String("country", c.country),
		zap.Int("holidays", len(set)))
	return set, nil
}
