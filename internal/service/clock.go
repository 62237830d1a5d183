package service

import (
	"alcyxob/health-tracker/internal/domain"
	"time"
)

// Clock supplies the current instant and the zone that decides which
// calendar date is "today".
type Clock struct {
	Now      func() time.Time
	Location *time.Location
}

func SystemClock(loc *time.Location) Clock {
	if loc == nil {
		loc = time.UTC
	}
	return Clock{Now: time.Now, Location: loc}
}

// Today returns the current calendar date as UTC midnight.
func (c Clock) Today() time.Time {
	return domain.DateOf(c.Now().In(c.Location))
}

// TimeOfDay returns the current wall-clock time as HH:MM:SS.
func (c Clock) TimeOfDay() string {
	return c.Now().In(c.Location).Format(domain.TimeLayout)
}
