package database

import (
	"database/sql"
	"time"
)

// SQLiteTimeLayout is a fixed-width UTC layout, so stored values sort
// lexically in time order.
const SQLiteTimeLayout = "2006-01-02T15:04:05.000000Z"

// FormatTime renders t for a SQLite TEXT column.
func FormatTime(t time.Time) string {
	return t.UTC().Format(SQLiteTimeLayout)
}

// FormatNullTime renders an optional time; nil becomes NULL.
func FormatNullTime(t *time.Time) sql.NullString {
	if t == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: FormatTime(*t), Valid: true}
}

// ParseTime reads a value written by FormatTime. RFC3339 values are
// accepted as well.
func ParseTime(s string) (time.Time, error) {
	if t, err := time.Parse(SQLiteTimeLayout, s); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, err
	}
	return t.UTC(), nil
}

// ParseNullTime reads an optional time column.
func ParseNullTime(s sql.NullString) (*time.Time, error) {
	if !s.Valid || s.String == "" {
		return nil, nil
	}
	t, err := ParseTime(s.String)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
