package weather

import (
	"errors"
	"fmt"
	"time"
)

// ErrNotFound is returned by stores when no summary matches a lookup.
var ErrNotFound = errors.New("weather summary not found")

// ConditionUnknown is the aggregate label used when a day's records carry no
// countable condition.
const ConditionUnknown = "Unknown"

// Kind tags which write path produced a Summary. Raw-fetch records carry a
// meaningful AvgTemp only; daily-aggregate records carry all four fields.
type Kind string

const (
	KindRawFetch       Kind = "raw_fetch"
	KindDailyAggregate Kind = "daily_aggregate"
)

// Date is a calendar date with no time component, always UTC.
// It marshals as "2006-01-02".
type Date struct {
	t time.Time
}

// NewDate builds a Date from year, month and day.
func NewDate(year int, month time.Month, day int) Date {
	return Date{t: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// Today returns the current UTC calendar date.
func Today() Date {
	now := time.Now().UTC()
	return NewDate(now.Year(), now.Month(), now.Day())
}

// ParseDate parses a "2006-01-02" string.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(time.DateOnly, s)
	if err != nil {
		return Date{}, fmt.Errorf("invalid date %q: %w", s, err)
	}
	return NewDate(t.Year(), t.Month(), t.Day()), nil
}

func (d Date) String() string { return d.t.Format(time.DateOnly) }

func (d Date) Equal(other Date) bool  { return d.t.Equal(other.t) }
func (d Date) Before(other Date) bool { return d.t.Before(other.t) }
func (d Date) After(other Date) bool  { return d.t.After(other.t) }

// IsZero reports whether the date is the zero value.
func (d Date) IsZero() bool { return d.t.IsZero() }

func (d Date) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.String() + `"`), nil
}

func (d *Date) UnmarshalJSON(data []byte) error {
	s := string(data)
	if len(s) < 2 || s[0] != '"' || s[len(s)-1] != '"' {
		return fmt.Errorf("invalid date %s: want quoted string", s)
	}
	parsed, err := ParseDate(s[1 : len(s)-1])
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// Summary is the persisted weather record. The same shape serves two write
// paths, distinguished by Kind: the fetch cycle upserts one raw_fetch row per
// city per day, and the aggregation cycle appends one daily_aggregate row.
type Summary struct {
	ID                int64   `json:"id"`
	City              string  `json:"city"`
	Date              Date    `json:"date"`
	AvgTemp           float64 `json:"avgTemp"`
	MaxTemp           float64 `json:"maxTemp"`
	MinTemp           float64 `json:"minTemp"`
	DominantCondition string  `json:"dominantCondition"`
	Kind              Kind    `json:"kind"`
}

// KelvinToCelsius converts a raw provider reading to degrees Celsius.
func KelvinToCelsius(kelvin float64) float64 {
	return kelvin - 273.15
}
