package port

import "time"

// Clock is the session's time source. Elapsed market time is always
// measured against it so tests can drive the period deadline.
type Clock interface {
	Now() time.Time
}

type WallClock struct{}

func (WallClock) Now() time.Time { return time.Now() }
