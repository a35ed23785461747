package contract

import (
	"fmt"
	"strings"
	"time"

	"github.com/rehman-1/git-asana-backend/schema"
)

// GitDateTimeFormat is the zone-less timestamp format passed to git --since/--until.
const GitDateTimeFormat = "2006-01-02T15:04:05"

// DateWindow is an inclusive report window spanning whole calendar days:
// Start is at 00:00:00 of the first day and End at 23:59:59 of the last day.
type DateWindow struct {
	Start time.Time
	End   time.Time
}

// ParseDateWindow validates two YYYY-MM-DD dates and builds the inclusive window.
func ParseDateWindow(startDate, endDate string) (DateWindow, error) {
	start, err := time.ParseInLocation(schema.DateLayout, strings.TrimSpace(startDate), time.Local)
	if err != nil {
		return DateWindow{}, fmt.Errorf("%w: start date %q, expected YYYY-MM-DD", schema.ErrInvalidDate, startDate)
	}
	end, err := time.ParseInLocation(schema.DateLayout, strings.TrimSpace(endDate), time.Local)
	if err != nil {
		return DateWindow{}, fmt.Errorf("%w: end date %q, expected YYYY-MM-DD", schema.ErrInvalidDate, endDate)
	}
	if start.After(end) {
		return DateWindow{}, fmt.Errorf("%w: %s > %s", schema.ErrInvalidDateRange, startDate, endDate)
	}
	return DateWindow{
		Start: start,
		End:   time.Date(end.Year(), end.Month(), end.Day(), 23, 59, 59, 0, end.Location()),
	}, nil
}

// StartDate returns the first calendar day as YYYY-MM-DD.
func (w DateWindow) StartDate() string {
	return w.Start.Format(schema.DateLayout)
}

// EndDate returns the last calendar day as YYYY-MM-DD.
func (w DateWindow) EndDate() string {
	return w.End.Format(schema.DateLayout)
}

// Since returns the lower bound in git's date format.
func (w DateWindow) Since() string {
	return w.Start.Format(GitDateTimeFormat)
}

// Until returns the upper bound in git's date format.
func (w DateWindow) Until() string {
	return w.End.Format(GitDateTimeFormat)
}
