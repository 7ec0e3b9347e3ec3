package service

import "time"

const dateLayout = "2006-01-02"

func parseOptionalDate(field string, raw *string) (*time.Time, error) {
	if raw == nil {
		return nil, nil
	}
	parsed, err := time.Parse(dateLayout, *raw)
	if err != nil {
		return nil, validationf(field, "date must be in YYYY-MM-DD format")
	}
	return &parsed, nil
}

// dateOnly truncates to midnight UTC so date equality ignores clock parts.
func dateOnly(t time.Time) time.Time {
	if t.IsZero() {
		return t
	}
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
