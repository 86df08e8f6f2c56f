package personio

import (
	"bytes"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/araddon/dateparse"
)

const dateLayout = "2006-01-02"

// Date is a calendar date without time of day or location.
// The zero value means "not set".
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

func NewDate(year int, month time.Month, day int) Date {
	return Date{Year: year, Month: month, Day: day}
}

// DateOf returns the date of t in t's location.
func DateOf(t time.Time) Date {
	y, m, d := t.Date()
	return Date{Year: y, Month: m, Day: d}
}

// ParseDate reads a YYYY-MM-DD date. Longer ISO-8601 timestamps are accepted
// and truncated to their date part.
func ParseDate(s string) (Date, error) {
	s = strings.TrimSpace(s)
	if len(s) > len(dateLayout) {
		s = s[:len(dateLayout)]
	}
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return Date{}, fmt.Errorf("invalid date %q: %w", s, err)
	}
	return DateOf(t), nil
}

func (d Date) IsZero() bool { return d == Date{} }

// Time returns midnight UTC of d.
func (d Date) Time() time.Time {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, time.UTC)
}

func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return d.Time().Format(dateLayout)
}

func (d Date) Before(o Date) bool { return d.Time().Before(o.Time()) }

func (d Date) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(d.String())
}

func (d *Date) UnmarshalJSON(b []byte) error {
	s, ok, err := jsonString(b)
	if err != nil || !ok {
		*d = Date{}
		return err
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// TimeOfDay is a wall clock time as used by attendance periods.
type TimeOfDay struct {
	Hour   int
	Minute int
}

var timeOfDayPattern = regexp.MustCompile(`^(\d\d?):(\d\d)(?::\d\d)?$`)

// ParseTimeOfDay reads HH:MM (seconds are accepted and dropped).
func ParseTimeOfDay(s string) (TimeOfDay, error) {
	m := timeOfDayPattern.FindStringSubmatch(strings.TrimSpace(s))
	if m == nil {
		return TimeOfDay{}, fmt.Errorf("invalid time of day %q, expected HH:MM", s)
	}
	var t TimeOfDay
	fmt.Sscanf(m[1], "%d", &t.Hour)
	fmt.Sscanf(m[2], "%d", &t.Minute)
	if t.Hour > 23 || t.Minute > 59 {
		return TimeOfDay{}, fmt.Errorf("invalid time of day %q", s)
	}
	return t, nil
}

func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", t.Hour, t.Minute)
}

func (t TimeOfDay) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.String())
}

func (t *TimeOfDay) UnmarshalJSON(b []byte) error {
	s, ok, err := jsonString(b)
	if err != nil || !ok {
		*t = TimeOfDay{}
		return err
	}
	parsed, err := ParseTimeOfDay(s)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// Duration is a span of hours and minutes, written as "hh:mm" by the API.
// Hours may exceed 24.
type Duration time.Duration

var durationPattern = regexp.MustCompile(`^\d\d?:\d\d$`)

// ParseDuration reads "hh:mm" durations such as "06:30", "0:30" or "25:00".
func ParseDuration(s string) (Duration, error) {
	trimmed := strings.TrimSpace(s)
	if !durationPattern.MatchString(trimmed) {
		return 0, fmt.Errorf("the string %q does not represent a valid duration, expected format is 'hh:mm', e.g. '06:30'", s)
	}
	var hh, mm int
	fmt.Sscanf(trimmed, "%d:%d", &hh, &mm)
	return Duration(time.Duration(hh)*time.Hour + time.Duration(mm)*time.Minute), nil
}

func (d Duration) Std() time.Duration { return time.Duration(d) }

// String formats d as "hh:mm", dropping seconds.
func (d Duration) String() string {
	total := int(time.Duration(d) / time.Minute)
	return fmt.Sprintf("%02d:%02d", total/60, total%60)
}

func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

func (d *Duration) UnmarshalJSON(b []byte) error {
	s, ok, err := jsonString(b)
	if err != nil || !ok {
		*d = 0
		return err
	}
	parsed, err := ParseDuration(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// Tags is the value of a multiple choice field, sent as a comma separated
// string by the API.
type Tags []string

func ParseTags(s string) Tags {
	if strings.TrimSpace(s) == "" {
		return Tags{}
	}
	parts := strings.Split(s, ",")
	out := make(Tags, 0, len(parts))
	for _, p := range parts {
		out = append(out, strings.TrimSpace(p))
	}
	return out
}

// Serialize joins the tags with commas. Personio has no escaping for commas,
// so tags containing one are rejected.
func (t Tags) Serialize() (string, error) {
	for _, v := range t {
		if strings.Contains(v, ",") {
			return "", errorf("no commas are allowed in multi selection fields, please adjust '%s'", v)
		}
	}
	return strings.Join(t, ","), nil
}

// ParseDateTime reads ISO-8601 timestamps and falls back to lenient parsing
// for the other formats that show up in custom attributes.
func ParseDateTime(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	t, err := dateparse.ParseAny(s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid datetime %q: %w", s, err)
	}
	return t, nil
}

func jsonString(b []byte) (string, bool, error) {
	if bytes.Equal(bytes.TrimSpace(b), []byte("null")) {
		return "", false, nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return "", false, err
	}
	if strings.TrimSpace(s) == "" {
		return "", false, nil
	}
	return s, true, nil
}

// Ptr returns a pointer to v, handy for optional fields.
func Ptr[T any](v T) *T { return &v }
