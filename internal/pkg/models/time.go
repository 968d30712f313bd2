package models

import (
	"time"
)

// Now returns the current time in UTC
func Now() time.Time {
	return time.Now().UTC()
}

// NowMillis returns the current time as milliseconds since the epoch,
// the unit used by PositionSample.LastUpdate
func NowMillis() int64 {
	return time.Now().UnixMilli()
}

// Millis converts a time to epoch milliseconds
func Millis(t time.Time) int64 {
	return t.UnixMilli()
}
