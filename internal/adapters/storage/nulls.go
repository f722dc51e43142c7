package storage

import (
	"database/sql"
	"time"
)

// TimeLayout is the TEXT format of every timestamp column. The fixed-width
// fraction keeps lexical order equal to time order.
const TimeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// FormatTime renders t for storage; the zero time becomes "".
func FormatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(TimeLayout)
}

// ParseTime reads a stored RFC 3339 timestamp; "" and garbage become the
// zero time.
func ParseTime(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}
	}
	return t
}

// StringPtr converts a nullable column to *string.
func StringPtr(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	s := ns.String
	return &s
}

// IntPtr converts a nullable column to *int.
func IntPtr(ni sql.NullInt64) *int {
	if !ni.Valid {
		return nil
	}
	n := int(ni.Int64)
	return &n
}

// BoolPtr converts a nullable 0/1 column to *bool.
func BoolPtr(ni sql.NullInt64) *bool {
	if !ni.Valid {
		return nil
	}
	b := ni.Int64 != 0
	return &b
}

// FloatPtr converts a nullable column to *float64.
func FloatPtr(nf sql.NullFloat64) *float64 {
	if !nf.Valid {
		return nil
	}
	f := nf.Float64
	return &f
}

// TimePtr converts a nullable timestamp column to *time.Time.
func TimePtr(ns sql.NullString) *time.Time {
	if !ns.Valid || ns.String == "" {
		return nil
	}
	t := ParseTime(ns.String)
	return &t
}

// Nullable returns v for storage, or nil when p is nil.
func Nullable[T any](p *T) any {
	if p == nil {
		return nil
	}
	return *p
}

// NullableBool stores *bool as 0/1 or NULL.
func NullableBool(p *bool) any {
	if p == nil {
		return nil
	}
	return BoolInt(*p)
}

// NullableTime stores *time.Time as TEXT or NULL.
func NullableTime(p *time.Time) any {
	if p == nil {
		return nil
	}
	return FormatTime(*p)
}

// BoolInt maps a bool to SQLite's 0/1.
func BoolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
