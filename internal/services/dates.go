package services

import (
	"time"

	"github.com/nutriai/backend/internal/models"
)

func dayOf(t time.Time) string {
	return t.UTC().Format(models.DateLayout)
}

// dayBounds returns [start, end) of a YYYY-MM-DD day in UTC.
func dayBounds(date string) (time.Time, time.Time, error) {
	start, err := time.Parse(models.DateLayout, date)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	return start, start.AddDate(0, 0, 1), nil
}

// resolveDate defaults an empty date to today and rejects malformed or
// future dates.
func resolveDate(date string, now time.Time) (string, error) {
	today := dayOf(now)
	if date == "" {
		return today, nil
	}
	d, err := time.Parse(models.DateLayout, date)
	if err != nil {
		return "", invalid("date must be YYYY-MM-DD")
	}
	if d.Format(models.DateLayout) > today {
		return "", invalid("date cannot be in the future")
	}
	return d.Format(models.DateLayout), nil
}

func clamp(v, lo, hi int) int {
	return min(max(v, lo), hi)
}
