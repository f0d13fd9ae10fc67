package service

import (
	"time"

	"github.com/EduFin215/Finomik-CRM-sub001/internal/util"
)

// Calendar decides which calendar day "today" is. Each public entry point reads it once
// and threads the result, so a computation straddling midnight never mixes two days.
type Calendar struct {
	now func() time.Time
	loc *time.Location
}

// NewCalendar returns a Calendar backed by the system clock in loc
func NewCalendar(loc *time.Location) *Calendar {
	if loc == nil {
		loc = time.UTC
	}
	return &Calendar{now: time.Now, loc: loc}
}

// NewFixedCalendar returns a Calendar that always reports the given day
func NewFixedCalendar(today time.Time) *Calendar {
	return &Calendar{
		now: func() time.Time { return today },
		loc: time.UTC,
	}
}

// Today returns the current calendar day as a UTC-midnight date
func (c *Calendar) Today() time.Time {
	return util.Today(c.now(), c.loc)
}

// Location returns the calendar's time zone
func (c *Calendar) Location() *time.Location {
	return c.loc
}
