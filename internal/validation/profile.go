package validation

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// Physical bounds accepted on the profile.
const (
	MinHeightCM = 50
	MaxHeightCM = 300
	MinWeightKG = 20
	MaxWeightKG = 500
)

// FieldErrors maps a field name to a human-readable problem.
type FieldErrors map[string]string

// Add records msg for field unless one is already present.
func (f FieldErrors) Add(field, msg string) {
	if _, ok := f[field]; !ok {
		f[field] = msg
	}
}

func (f FieldErrors) Error() string {
	if len(f) == 0 {
		return ""
	}
	keys := make([]string, 0, len(f))
	for k := range f {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s: %s", k, f[k]))
	}
	return strings.Join(parts, "; ")
}

// Err returns nil when no field failed.
func (f FieldErrors) Err() error {
	if len(f) == 0 {
		return nil
	}
	return f
}

// Required adds an error for every blank value.
func (f FieldErrors) Required(fields map[string]string) {
	for name, v := range fields {
		if strings.TrimSpace(v) == "" {
			f.Add(name, "is required")
		}
	}
}

// Range adds an error when v is outside [lo, hi].
func (f FieldErrors) Range(field string, v, lo, hi float64) {
	if v < lo || v > hi {
		f.Add(field, fmt.Sprintf("must be between %g and %g", lo, hi))
	}
}

// ParseBirthdate accepts YYYY-MM-DD or RFC 3339 and rejects future dates.
func ParseBirthdate(raw string, now time.Time) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	t, err := time.Parse(time.DateOnly, raw)
	if err != nil {
		t, err = time.Parse(time.RFC3339, raw)
		if err != nil {
			return time.Time{}, fmt.Errorf("must be a date (YYYY-MM-DD)")
		}
	}
	if t.After(now) {
		return time.Time{}, fmt.Errorf("must not be in the future")
	}
	return t.UTC(), nil
}
