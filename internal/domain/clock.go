package domain

import "time"

// Clock abstracts time.Now so expiry filtering and document timestamps are
// deterministic in tests.
type Clock interface {
	Now() time.Time
}

// SystemClock is the production Clock.
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now() }
