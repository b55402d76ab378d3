package services

import "time"

// Clock supplies the calendar date every "today"-scoped operation keys on.
// Injected so tests can pin the date; the real clock truncates to midnight
// UTC so date equality survives the round trip through a DATE column.
type Clock interface {
	Now() time.Time
	Today() time.Time
}

type realClock struct {
	loc *time.Location
}

func NewClock(loc *time.Location) Clock {
	if loc == nil {
		loc = time.UTC
	}
	return &realClock{loc: loc}
}

func (c *realClock) Now() time.Time {
	return time.Now().In(c.loc)
}

func (c *realClock) Today() time.Time {
	n := c.Now()
	return time.Date(n.Year(), n.Month(), n.Day(), 0, 0, 0, 0, time.UTC)
}
