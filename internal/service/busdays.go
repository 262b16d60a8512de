package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/ebjrabc/fasttrack-sla/internal/holiday"
)

// ErrInvalidRange is returned when an issue resolves before it was created.
var ErrInvalidRange = errors.New("end timestamp before start")

const hoursPerBusinessDay = 24.0

// BusinessHours returns the elapsed business hours between start and end.
//
// Counting is whole-day: a working day contributes a full 24 hours iff its UTC
// calendar date lies in the half-open range [start date, end date) and is
// neither a weekend day nor a listed holiday. Time-of-day is never prorated,
// so a same-instant interval yields 0 and Mon 00:00 to Tue 00:00 yields 24.
func BusinessHours(start, end time.Time, holidays holiday.Set) (float64, error) {
	if end.Before(start) {
		return 0, fmt.Errorf("%w: %s before %s",
			ErrInvalidRange, end.UTC().Format(time.RFC3339), start.UTC().Format(time.RFC3339))
	}

	first := truncateToDay(start)
	last := truncateToDay(end)

	var workingDays int
	for d := first; d.Before(last); d = d.AddDate(0, 0, 1) {
		if isWorkingDay(d, holidays) {
			workingDays++
		}
	}
	return float64(workingDays) * hoursPerBusinessDay, nil
}

func truncateToDay(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}

func isWorkingDay(day time.Time, holidays holiday.Set) bool {
	switch day.Weekday() {
	case time.Saturday, time.Sunday:
		return false
	}
	return !holidays.Contains(day)
}
