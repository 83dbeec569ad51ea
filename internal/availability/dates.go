package availability

import (
	"fmt"
	"time"

	apperrors "gearbook/pkg/errors"
	"gearbook/pkg/model"
)

// ISOWeekday maps time.Weekday to the 1..7 numbering used in configuration
// (1=Monday, 7=Sunday).
func ISOWeekday(t time.Time) int {
	wd := int(t.Weekday())
	if wd == 0 {
		return 7
	}
	return wd
}

// Midnight truncates a timestamp to the start of its calendar day.
func Midnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// NextBookableDates walks forward day by day from the day after start and
// collects exactly maxDays dates whose weekday is allowed and which are not
// holidays. Today is never offered. An empty weekday set can never
// terminate, so it is rejected up front.
func NextBookableDates(start time.Time, maxDays int, allowedWeekdays map[int]bool, holidays map[string]bool) ([]time.Time, error) {
	if maxDays <= 0 {
		return nil, apperrors.InvalidConfiguration(fmt.Sprintf("max lookahead days must be positive, got %d", maxDays))
	}
	if len(allowedWeekdays) == 0 {
		return nil, apperrors.InvalidConfiguration("allowed weekday set is empty")
	}

	base := Midnight(start)
	dates := make([]time.Time, 0, maxDays)
	for delta := 1; len(dates) < maxDays; delta++ {
		day := base.AddDate(0, 0, delta)
		if !allowedWeekdays[ISOWeekday(day)] {
			continue
		}
		if holidays[model.DateKey(day)] {
			continue
		}
		dates = append(dates, day)
	}
	return dates, nil
}
