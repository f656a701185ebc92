package planner

import "time"

// DateLayout is the calendar-date format used for schedule keys. The engine
// works at day granularity; times of day and timezones beyond the caller's
// chosen location are out of scope.
const DateLayout = "2006-01-02"

// DateKey formats t as a schedule date key.
func DateKey(t time.Time) string {
	return t.Format(DateLayout)
}

// DayCapacity maps calendar dates to available study hours. Dates without an
// override fall back to the constant default budget, so a caller can model
// e.g. a zero-availability exam day without enumerating every other day.
type DayCapacity struct {
	defaultHours float64
	overrides    map[string]float64
}

// NewDayCapacity creates a DayCapacity with the given default daily budget.
// A negative default is treated as zero.
func NewDayCapacity(defaultHours float64) *DayCapacity {
	return &DayCapacity{
		defaultHours: max(defaultHours, 0),
		overrides:    make(map[string]float64),
	}
}

// SetDay overrides the available hours for a single date. Negative hours are
// treated as zero.
func (c *DayCapacity) SetDay(date time.Time, hours float64) {
	c.overrides[DateKey(date)] = max(hours, 0)
}

// SetDayKey overrides the available hours for a date given as a
// DateLayout-formatted key.
func (c *DayCapacity) SetDayKey(key string, hours float64) {
	c.overrides[key] = max(hours, 0)
}

// HoursFor returns the available study hours on the given date.
func (c *DayCapacity) HoursFor(date time.Time) float64 {
	return c.HoursForKey(DateKey(date))
}

// HoursForKey returns the available study hours for a date key.
func (c *DayCapacity) HoursForKey(key string) float64 {
	if hours, ok := c.overrides[key]; ok {
		return hours
	}
	return c.defaultHours
}

// DefaultHours returns the constant daily budget used for dates without an
// override.
func (c *DayCapacity) DefaultHours() float64 {
	return c.defaultHours
}
