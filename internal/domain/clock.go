package domain

import "time"

// Clock is the time source used by eligibility windows and timestamps.
type Clock interface {
	Now() time.Time
}

type SystemClock struct{}

func (SystemClock) Now() time.Time {
	return time.Now()
}

// FixedClock always returns the same instant. Useful for tests and replays.
type FixedClock time.Time

func (c FixedClock) Now() time.Time {
	return time.Time(c)
}

// hoursUntil returns the whole hours from now to t, truncated toward zero.
func hoursUntil(now, t time.Time) int64 {
	return int64(t.Sub(now) / time.Hour)
}
