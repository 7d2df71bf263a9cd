package timeutil

import "time"

// Clock supplies the current wall-clock time. Past/today classification
// depends on it, so services take a Clock instead of calling time.Now
// directly and tests can pin an instant.
type Clock interface {
	Now() time.Time
}

type systemClock struct {
	loc *time.Location
}

// NewSystemClock returns a Clock reading real time in loc. The business
// operates in a single fixed zone; loc pins every past/today decision to it.
func NewSystemClock(loc *time.Location) Clock {
	if loc == nil {
		loc = time.Local
	}
	return systemClock{loc: loc}
}

func (c systemClock) Now() time.Time {
	return time.Now().In(c.loc)
}

// FixedClock always reports the same instant.
type FixedClock struct {
	Instant time.Time
}

func (c FixedClock) Now() time.Time {
	return c.Instant
}
