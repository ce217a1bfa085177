package entity

import (
	"fmt"
	"time"

	"github.com/diillson/aws-cost-dashboard-go/internal/shared/types"
)

// DateLayout is the ISO date format used by Cost Explorer and the date picker.
const DateLayout = "2006-01-02"

// DateRange is a requested reporting window. Start is inclusive, End is exclusive.
type DateRange struct {
	Start time.Time
	End   time.Time
}

// ParseDateRange validates the raw dates submitted by a user.
// Both dates must be on or before today and End must be strictly after Start.
func ParseDateRange(start, end string, today time.Time) (DateRange, error) {
	startDate, err := time.Parse(DateLayout, start)
	if err != nil {
		return DateRange{}, fmt.Errorf("%w: start %q", types.ErrInvalidDate, start)
	}
	endDate, err := time.Parse(DateLayout, end)
	if err != nil {
		return DateRange{}, fmt.Errorf("%w: end %q", types.ErrInvalidDate, end)
	}

	if !endDate.After(startDate) {
		return DateRange{}, types.ErrInvalidDateRange
	}

	limit := truncateDay(today)
	if startDate.After(limit) || endDate.After(limit) {
		return DateRange{}, types.ErrDateInFuture
	}

	return DateRange{Start: startDate, End: endDate}, nil
}

// DefaultDateRange covers the whole previous calendar month relative to now.
func DefaultDateRange(now time.Time) DateRange {
	now = now.UTC()
	currentMonth := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	return DateRange{
		Start: currentMonth.AddDate(0, -1, 0),
		End:   currentMonth,
	}
}

// StartString returns the start date formatted for the billing API.
func (r DateRange) StartString() string {
	return r.Start.Format(DateLayout)
}

// EndString returns the end date formatted for the billing API.
func (r DateRange) EndString() string {
	return r.End.Format(DateLayout)
}

func (r DateRange) String() string {
	return r.StartString() + " - " + r.EndString()
}

func truncateDay(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
