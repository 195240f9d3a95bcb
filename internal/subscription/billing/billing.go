// Package billing derives billing dates from a start date and an interval.
// Intervals are fixed day counts, not calendar months or years.
package billing

import (
	"fmt"
	"strings"
	"time"

	"github.com/smallbiznis/subscriptions/internal/subscription/domain"
)

const DateLayout = "2006-01-02"

var intervalDays = map[domain.BillingInterval]int{
	domain.BillingIntervalWeekly:  7,
	domain.BillingIntervalMonthly: 30,
	domain.BillingIntervalYearly:  365,
}

// Period is the billing window a subscription is currently in.
type Period struct {
	Start time.Time
	End   time.Time
}

// ParseDate parses a YYYY-MM-DD date as midnight UTC.
func ParseDate(raw string) (time.Time, error) {
	t, err := time.ParseInLocation(DateLayout, strings.TrimSpace(raw), time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", domain.ErrInvalidStartDate, raw)
	}
	return t, nil
}

// NextBillingDate returns start advanced by the interval's day count.
func NextBillingDate(start time.Time, interval domain.BillingInterval) (time.Time, error) {
	parsed, ok := domain.ParseBillingInterval(string(interval))
	if !ok {
		return time.Time{}, fmt.Errorf("%w: %q", domain.ErrInvalidBillingInterval, interval)
	}
	return truncateDay(start).AddDate(0, 0, intervalDays[parsed]), nil
}

// InitialPeriod is the first billing window, from start to the next billing date.
func InitialPeriod(start time.Time, interval domain.BillingInterval) (Period, error) {
	next, err := NextBillingDate(start, interval)
	if err != nil {
		return Period{}, err
	}
	return Period{Start: truncateDay(start), End: next}, nil
}

func truncateDay(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
