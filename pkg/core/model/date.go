// Copyright (c) 2024 Hossein Jalali
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package model

import (
	"database/sql/driver"
	"fmt"
	"time"
)

// DateLayout is the wire and storage representation of a Date.
// Reservations are booked at whole-day granularity, so no time of day
// or time zone component is ever serialized.
const DateLayout = "2006-01-02"

// Date represents a calendar date with day granularity. It wraps a
// time.Time which is always normalized to midnight UTC, so two Date
// instances denoting the same calendar day compare equal regardless
// of how they were produced (parsed, scanned from the database, or
// built with NewDate).
// The zero Date is the zero time.Time and reports true from IsZero.
type Date struct {
	t time.Time
}

// NewDate creates a Date for the given year, month, and day numbers.
func NewDate(year int, month time.Month, day int) Date {
	return Date{t: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// ParseDate parses a string in the DateLayout format, e.g. 2024-01-10.
func ParseDate(s string) (Date, error) {
	t, err := time.ParseInLocation(DateLayout, s, time.UTC)
	if err != nil {
		return Date{}, err
	}
	return Date{t: t}, nil
}

// String formats the date using the DateLayout format.
func (d Date) String() string {
	return d.t.Format(DateLayout)
}

// IsZero reports whether d is the zero date (i.e., uninitialized).
func (d Date) IsZero() bool {
	return d.t.IsZero()
}

// Before reports whether d denotes an earlier calendar day than o.
func (d Date) Before(o Date) bool {
	return d.t.Before(o.t)
}

// After reports whether d denotes a later calendar day than o.
func (d Date) After(o Date) bool {
	return d.t.After(o.t)
}

// Equal reports whether d and o denote the same calendar day.
func (d Date) Equal(o Date) bool {
	return d.t.Equal(o.t)
}

// Time returns the underlying time.Time at midnight UTC.
func (d Date) Time() time.Time {
	return d.t
}

// MarshalText implements encoding.TextMarshaler, so a Date is encoded
// as a DateLayout string by the json (and yaml) serializers.
func (d Date) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler. In absence of
// errors, the d receiver will be updated with the parsed date.
func (d *Date) UnmarshalText(data []byte) error {
	dd, err := ParseDate(string(data))
	if err != nil {
		return err
	}
	*d = dd
	return nil
}

// Value implements driver.Valuer, storing the date as a time.Time
// which maps to a DATE column in PostgreSQL.
func (d Date) Value() (driver.Value, error) {
	return d.t, nil
}

// Scan implements sql.Scanner, accepting time.Time values as produced
// by a DATE column scan, in addition to their string representation.
func (d *Date) Scan(src any) error {
	switch v := src.(type) {
	case time.Time:
		d.t = time.Date(
			v.Year(), v.Month(), v.Day(), 0, 0, 0, 0, time.UTC,
		)
		return nil
	case string:
		dd, err := ParseDate(v)
		if err != nil {
			return fmt.Errorf("scanning %q as date: %w", v, err)
		}
		*d = dd
		return nil
	default:
		return fmt.Errorf("unsupported date source type: %T", src)
	}
}

// Overlaps reports whether the [f1, t1] and [f2, t2] date intervals
// share at least one calendar day. Both interval ends are inclusive,
// hence, two intervals overlap iff f1 <= t2 and f2 <= t1.
func Overlaps(f1, t1, f2, t2 Date) bool {
	return !f1.After(t2) && !f2.After(t1)
}
