package util

import "time"

// NowUTC is the default Clock.
func NowUTC() time.Time {
	return time.Now().UTC()
}

// Clock is injected wherever expiry math happens so tests can move time.
type Clock func() time.Time
