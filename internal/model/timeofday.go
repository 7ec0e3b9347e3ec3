package model

import (
	"database/sql/driver"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// TimeOfDay is a wall-clock time without a date, stored as a TIME column.
// Entries never span midnight, so plain second-of-day arithmetic is enough.
type TimeOfDay struct {
	seconds int
}

const secondsPerDay = 24 * 60 * 60

var timeOfDayLayouts = []string{"15:04:05", "15:04"}

func ParseTimeOfDay(raw string) (TimeOfDay, error) {
	for _, layout := range timeOfDayLayouts {
		if parsed, err := time.Parse(layout, raw); err == nil {
			return TimeOfDay{seconds: parsed.Hour()*3600 + parsed.Minute()*60 + parsed.Second()}, nil
		}
	}
	return TimeOfDay{}, fmt.Errorf("invalid time of day %q", raw)
}

func ClockTime(hour, minute, second int) TimeOfDay {
	return TimeOfDay{seconds: hour*3600 + minute*60 + second}
}

func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d:%02d", t.seconds/3600, t.seconds/60%60, t.seconds%60)
}

func (t TimeOfDay) Before(other TimeOfDay) bool {
	return t.seconds < other.seconds
}

// HoursUntil returns the duration from t to end in hours.
func (t TimeOfDay) HoursUntil(end TimeOfDay) decimal.Decimal {
	return decimal.New(int64(end.seconds-t.seconds), 0).Div(decimal.New(3600, 0))
}

func (t TimeOfDay) Value() (driver.Value, error) {
	return t.String(), nil
}

func (t *TimeOfDay) Scan(src interface{}) error {
	switch v := src.(type) {
	case nil:
		t.seconds = 0
		return nil
	case time.Time:
		t.seconds = v.Hour()*3600 + v.Minute()*60 + v.Second()
		return nil
	case string:
		parsed, err := ParseTimeOfDay(v)
		if err != nil {
			return err
		}
		*t = parsed
		return nil
	case []byte:
		return t.Scan(string(v))
	case int64:
		// pgx may hand over TIME as microseconds since midnight.
		t.seconds = int(v / 1e6 % secondsPerDay)
		return nil
	default:
		return fmt.Errorf("cannot scan %T into TimeOfDay", src)
	}
}

// Overlaps reports whether two half-open windows [aStart, aEnd) and
// [bStart, bEnd) intersect. Touching endpoints do not overlap.
func Overlaps(aStart, aEnd, bStart, bEnd TimeOfDay) bool {
	return !(aEnd.seconds <= bStart.seconds || aStart.seconds >= bEnd.seconds)
}
