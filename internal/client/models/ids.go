package models

import (
	"time"

	"github.com/google/uuid"
)

// isoLayout matches the millisecond UTC timestamps already present in
// stored data.
const isoLayout = "2006-01-02T15:04:05.000Z"

// NewID returns a fresh random record id.
func NewID() string {
	return uuid.NewString()
}

// Timestamp formats t the way stored timestamps are written.
func Timestamp(t time.Time) string {
	return t.UTC().Format(isoLayout)
}

// Now is the current Timestamp.
func Now() string {
	return Timestamp(time.Now())
}

// Float returns a pointer to v, for optional costs.
func Float(v float64) *float64 { return &v }

// Int returns a pointer to v, for optional ages.
func Int(v int) *int { return &v }
