// Package date provides a calendar date with day granularity.
//
// A zero Date means "no date" and is used for optional expiration dates.
package date

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

const readDateFormat = "2006-1-2" // Permissive read date format (allows single-digit month/day).

// DateFormat is the format used to represent dates as strings in ISO-8601 format.
const DateFormat = "2006-01-02" // write date format

// Never is the textual form of the zero Date on the command line.
const Never = "never"

// Date represents a date with day-level granularity.
type Date struct {
	y int
	m time.Month
	d int
}

// New returns a normalized Date for the given year, month, and day.
func New(year int, month time.Month, day int) Date {
	d := Date{year, month, day}
	d.y, d.m, d.d = d.time().Date()
	return d
}

// Of returns the date of t, in t's location.
func Of(t time.Time) Date { return New(t.Date()) }

// Today returns the current date.
func Today() Date { return Of(time.Now()) }

// Year returns current year.
func (d Date) Year() int { return d.y }

// Month returns the month of the date.
func (d Date) Month() time.Month { return d.m }

// Day returns current day of the month.
func (d Date) Day() int { return d.d }

// IsZero returns true if the date is the zero value.
func (d Date) IsZero() bool { return d == Date{} }

// time returns a time.Time that is a canonical representation of that day (at midnight UTC).
func (d Date) time() time.Time { return time.Date(d.y, d.m, d.d, 0, 0, 0, 0, time.UTC) }

// String format the date in its standard format, or "" for the zero date.
func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return d.time().Format(DateFormat)
}

// Before reports whether the day d is before x.
func (d Date) Before(x Date) bool { return d.time().Before(x.time()) }

// After reports whether the day d is after x.
func (d Date) After(x Date) bool { return d.time().After(x.time()) }

// Equal reports whether d and x are the same day.
func (d Date) Equal(x Date) bool { return d == x }

// Add returns a new Date with the given number of days added.
func (d Date) Add(i int) Date { return New(d.y, d.m, d.d+i) }

// AddMonth returns a new Date with the given number of months added.
// Overflowing days roll into the next month, so Aug 31 + 1 month is Oct 1.
func (d Date) AddMonth(i int) Date { return New(d.y, d.m+time.Month(i), d.d) }

// DaysUntil returns the number of days from d to x, negative if x is before d.
func (d Date) DaysUntil(x Date) int { return int(x.time().Sub(d.time()) / (24 * time.Hour)) }

// Parse parses a Date from a string. It is lenient and accepts formats like "2025-7-1".
func Parse(str string) (Date, error) {
	on, err := time.Parse(readDateFormat, strings.TrimSpace(str))
	if err != nil {
		return Date{}, fmt.Errorf("invalid date %q want format %q: %w", str, DateFormat, err)
	}
	return Of(on), nil
}

// MustParse is like Parse but panics on error.
func MustParse(str string) Date {
	d, err := Parse(str)
	if err != nil {
		panic(err.Error())
	}
	return d
}

var relativeDateRE = regexp.MustCompile(`^([+-])(\d+)([dwmy])$`)

// ParseRelative parses a date the way users type it on the command line.
//
// Besides the formats accepted by Parse, it accepts "never" (and "") for the
// zero date, "0d" for today and relative offsets from today like "+3m",
// "-1d", "+2w" or "+1y".
func ParseRelative(str string, today Date) (Date, error) {
	str = strings.TrimSpace(str)
	switch strings.ToLower(str) {
	case "", Never:
		return Date{}, nil
	case "0d":
		return today, nil
	}

	if match := relativeDateRE.FindStringSubmatch(str); match != nil {
		num, err := strconv.Atoi(match[2])
		if err != nil {
			return Date{}, fmt.Errorf("invalid number in relative date %q: %w", str, err)
		}
		if match[1] == "-" {
			num = -num
		}
		switch match[3] {
		case "d":
			return today.Add(num), nil
		case "w":
			return today.Add(num * 7), nil
		case "m":
			return today.AddMonth(num), nil
		case "y":
			return New(today.Year()+num, today.Month(), today.Day()), nil
		}
	}
	return Parse(str)
}

// UnmarshalJSON implements the json specific way to unmarshall a date from a json string.
// Both the empty string and null decode to the zero date.
func (j *Date) UnmarshalJSON(bytes []byte) error {
	if string(bytes) == "null" {
		*j = Date{}
		return nil
	}
	var str string
	if err := json.Unmarshal(bytes, &str); err != nil {
		return err
	}
	return j.UnmarshalText([]byte(str))
}

// MarshalJSON encodes the date as a "YYYY-MM-DD" string.
func (j Date) MarshalJSON() ([]byte, error) {
	str := j.String()
	return json.Marshal(&str)
}

// MarshalText is used by the yaml and toml encoders.
func (j Date) MarshalText() ([]byte, error) { return []byte(j.String()), nil }

// UnmarshalText is used by the yaml and toml decoders.
func (j *Date) UnmarshalText(text []byte) error {
	if strings.TrimSpace(string(text)) == "" {
		*j = Date{}
		return nil
	}
	d, err := Parse(string(text))
	if err != nil {
		return err
	}
	*j = d
	return nil
}

// check that a Date pointer is a valid json marshall/unmarshaller type.
var _ json.Marshaler = (*Date)(nil)
var _ json.Unmarshaler = (*Date)(nil)
