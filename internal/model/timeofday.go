package model

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
)

// TimeOfDay is a wall-clock time without a date, stored as the offset from
// midnight. Postgres keeps it in a TIME column.
type TimeOfDay time.Duration

const day = 24 * time.Hour

var ErrInvalidTimeOfDay = errors.New("invalid time of day")

var timeOfDayLayouts = []string{
	"15:04",
	"15:04:05",
	"15:04:05.999999999",
	"3:04 PM",
	"3:04PM",
	"3:04:05 PM",
	time.RFC3339,
	"2006-01-02T15:04",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04",
	"2006-01-02 15:04:05",
}

func NewTimeOfDay(hour, minute, second int) TimeOfDay {
	return TimeOfDay(time.Duration(hour)*time.Hour +
		time.Duration(minute)*time.Minute +
		time.Duration(second)*time.Second)
}

// TimeOfDayFromTime drops the date and sub-second part of ts.
func TimeOfDayFromTime(ts time.Time) TimeOfDay {
	return NewTimeOfDay(ts.Hour(), ts.Minute(), ts.Second())
}

// ParseTimeOfDay accepts clock values ("14:30", "2:30 PM") as well as full
// date-times, of which only the time of day is kept.
func ParseTimeOfDay(raw string) (TimeOfDay, error) {
	value := strings.ToUpper(strings.TrimSpace(raw))
	if value == "" {
		return 0, ErrInvalidTimeOfDay
	}
	for _, layout := range timeOfDayLayouts {
		ts, err := time.Parse(layout, value)
		if err == nil {
			return TimeOfDayFromTime(ts), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrInvalidTimeOfDay, raw)
}

func (t TimeOfDay) Hour() int {
	return int(time.Duration(t) / time.Hour)
}

func (t TimeOfDay) Minute() int {
	return int(time.Duration(t) % time.Hour / time.Minute)
}

func (t TimeOfDay) Second() int {
	return int(time.Duration(t) % time.Minute / time.Second)
}

func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d:%02d", t.Hour(), t.Minute(), t.Second())
}

// Until returns how long it takes to get from t to end. An end earlier than
// t is taken to be on the next day.
func (t TimeOfDay) Until(end TimeOfDay) time.Duration {
	d := time.Duration(end - t)
	if d < 0 {
		d += day
	}
	return d
}

func (TimeOfDay) GormDataType() string {
	return "time"
}

func (t TimeOfDay) Value() (driver.Value, error) {
	return t.String(), nil
}

func (t *TimeOfDay) Scan(src interface{}) error {
	switch v := src.(type) {
	case nil:
		*t = 0
		return nil
	case time.Time:
		*t = TimeOfDayFromTime(v)
		return nil
	case string:
		parsed, err := ParseTimeOfDay(v)
		if err != nil {
			return err
		}
		*t = parsed
		return nil
	case []byte:
		parsed, err := ParseTimeOfDay(string(v))
		if err != nil {
			return err
		}
		*t = parsed
		return nil
	default:
		return fmt.Errorf("scan time of day: unsupported type %T", src)
	}
}

func (t TimeOfDay) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.String())
}

func (t *TimeOfDay) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	parsed, err := ParseTimeOfDay(raw)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}
