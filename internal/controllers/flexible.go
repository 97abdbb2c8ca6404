package controllers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// FlexibleID accepts an id as a JSON number or a numeric string.
type FlexibleID uint

func (f *FlexibleID) UnmarshalJSON(data []byte) error {
	if f == nil {
		return fmt.Errorf("FlexibleID: nil receiver")
	}
	trimmed := bytes.TrimSpace(data)

	var s string
	if err := json.Unmarshal(trimmed, &s); err == nil {
		trimmed = []byte(strings.TrimSpace(s))
	}
	n, err := strconv.ParseUint(string(trimmed), 10, 64)
	if err != nil || n == 0 {
		return fmt.Errorf("FlexibleID: expected positive integer, got %s", string(data))
	}
	*f = FlexibleID(n)
	return nil
}

var dateLayouts = []string{time.RFC3339, "2006-01-02", "2006-01"}

func parseDate(s string) (time.Time, error) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid date %q", s)
}

// OptionalDate tells an absent field apart from an explicit null so partial
// updates can clear a date. Accepts RFC 3339, YYYY-MM-DD or YYYY-MM.
type OptionalDate struct {
	Set   bool
	Valid bool
	Time  time.Time
}

func (d *OptionalDate) UnmarshalJSON(data []byte) error {
	d.Set = true
	trimmed := bytes.TrimSpace(data)
	if bytes.Equal(trimmed, []byte("null")) {
		d.Valid = false
		return nil
	}
	var s string
	if err := json.Unmarshal(trimmed, &s); err != nil {
		return fmt.Errorf("OptionalDate: expected string, got %s", string(data))
	}
	if strings.TrimSpace(s) == "" {
		d.Valid = false
		return nil
	}
	t, err := parseDate(strings.TrimSpace(s))
	if err != nil {
		return err
	}
	d.Valid, d.Time = true, t
	return nil
}

// Ptr returns the date, or nil for null or absent.
func (d OptionalDate) Ptr() *time.Time {
	if !d.Valid {
		return nil
	}
	t := d.Time
	return &t
}

// Apply overwrites *dst only when the field was present in the request.
func (d OptionalDate) Apply(dst **time.Time) {
	if d.Set {
		*dst = d.Ptr()
	}
}
