package service

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownPriority is returned for any priority outside the policy table.
// Callers surface it; records with unknown priorities are never defaulted.
var ErrUnknownPriority = errors.New("unknown priority")

// Priority is an issue priority as it appears in normalized records.
type Priority string

const (
	PriorityHigh   Priority = "High"
	PriorityMedium Priority = "Medium"
	PriorityLow    Priority = "Low"
)

// Default SLA thresholds in business hours.
const (
	DefaultHighHours   = 24.0
	DefaultMediumHours = 72.0
	DefaultLowHours    = 120.0
)

// SlaPolicy is an immutable priority-to-expected-hours table.
type SlaPolicy struct {
	hours map[Priority]float64
}

// NewSlaPolicy builds a policy from configured thresholds. Hours must be
// positive and strictly increasing from High to Low: a higher priority always
// has the stricter deadline.
func NewSlaPolicy(high, medium, low float64) (*SlaPolicy, error) {
	if high <= 0 || medium <= 0 || low <= 0 {
		return nil, fmt.Errorf("sla hours must be positive, got high=%v medium=%v low=%v", high, medium, low)
	}
	if !(high < medium && medium < low) {
		return nil, fmt.Errorf("sla hours must increase from high to low, got high=%v medium=%v low=%v", high, medium, low)
	}
	return &SlaPolicy{
		hours: map[Priority]float64{
			PriorityHigh:   high,
			PriorityMedium: medium,
			PriorityLow:    low,
		},
	}, nil
}

// DefaultSlaPolicy returns the standard 24/72/120 table.
func DefaultSlaPolicy() *SlaPolicy {
	p, err := NewSlaPolicy(DefaultHighHours, DefaultMediumHours, DefaultLowHours)
	if err != nil {
		panic(err)
	}
	return p
}

// ExpectedHours looks up the SLA threshold for a priority. The lookup is
// case-insensitive to tolerate records from before title-case normalization.
func (p *SlaPolicy) ExpectedHours(priority string) (float64, error) {
	v, ok := p.hours[normalizePriority(priority)]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnknownPriority, priority)
	}
	return v, nil
}

func normalizePriority(s string) Priority {
	s = strings.TrimSpace(s)
	if s == "" {
		return Priority("")
	}
	return Priority(strings.ToUpper(s[:1]) + strings.ToLower(s[1:]))
}
