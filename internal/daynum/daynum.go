// Package daynum provides integer day-number arithmetic.
//
// A Day is the number of whole days since the Unix epoch, computed in UTC.
// All of the reporting core's date math runs on Days rather than time.Time
// so that scheduling formulas and snapshot ranges are plain integer
// arithmetic, independent of time zones and DST.
package daynum

import (
	"fmt"
	"time"
)

// Day is an integer count of days since 1970-01-01 UTC.
type Day int

const secondsPerDay = 86400

// FromTime converts a wall-clock instant to its Day, truncating in UTC.
func FromTime(t time.Time) Day {
	return Day(t.UTC().Unix() / secondsPerDay)
}

// Today returns the current Day.
func Today() Day {
	return FromTime(time.Now())
}

// Time returns the instant at the start of the day (midnight UTC).
func (d Day) Time() time.Time {
	return time.Unix(int64(d)*secondsPerDay, 0).UTC()
}

// Stamp returns the 8-digit zero-padded YYYYMMDD form used as the DATE
// column of time-series files.
func (d Day) Stamp() string {
	return d.Time().Format("20060102")
}

// ParseStamp parses an 8-digit YYYYMMDD date stamp back into a Day.
func ParseStamp(s string) (Day, error) {
	t, err := time.ParseInLocation("20060102", s, time.UTC)
	if err != nil {
		return 0, fmt.Errorf("parse date stamp %q: %w", s, err)
	}
	return FromTime(t), nil
}

// ParseISO parses an ISO YYYY-MM-DD date (the CLI's effective-date
// argument) into a Day.
func ParseISO(s string) (Day, error) {
	t, err := time.ParseInLocation("2006-01-02", s, time.UTC)
	if err != nil {
		return 0, fmt.Errorf("parse date %q: %w", s, err)
	}
	return FromTime(t), nil
}
