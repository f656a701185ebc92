package planner

import "sort"

// Entry is one allocation record: some hours of one task on one date.
// A task split across days produces one entry per date; a date with several
// tasks holds several entries.
type Entry struct {
	// TaskID references the allocated task.
	TaskID string `json:"task_id"`

	// Title optionally names the task. Externally proposed schedules may
	// reference tasks by title instead of id; the engine's own allocator
	// always sets TaskID and leaves Title empty.
	Title string `json:"title,omitempty"`

	// Hours is the amount allocated. Positive except for the single
	// zero-hour marker entry given to zero-effort tasks.
	Hours float64 `json:"hours"`
}

// Schedule maps DateLayout-formatted calendar dates to the entries allocated
// on each date. Use Dates for deterministic ascending iteration.
type Schedule map[string][]Entry

// Dates returns the schedule's date keys in ascending order.
func (s Schedule) Dates() []string {
	dates := make([]string, 0, len(s))
	for date := range s {
		dates = append(dates, date)
	}
	sort.Strings(dates)
	return dates
}

// Add appends an entry on the given date.
func (s Schedule) Add(date string, e Entry) {
	s[date] = append(s[date], e)
}

// HoursOn returns the total hours allocated on a date across all entries.
func (s Schedule) HoursOn(date string) float64 {
	var total float64
	for _, e := range s[date] {
		total += e.Hours
	}
	return total
}

// TaskHours returns the total hours allocated to one task across all dates.
func (s Schedule) TaskHours(taskID string) float64 {
	var total float64
	for _, entries := range s {
		for _, e := range entries {
			if e.TaskID == taskID {
				total += e.Hours
			}
		}
	}
	return total
}

// TotalHours returns the total hours allocated across the whole schedule.
func (s Schedule) TotalHours() float64 {
	var total float64
	for date := range s {
		total += s.HoursOn(date)
	}
	return total
}

// DaySummary aggregates one date's load for reporting.
type DaySummary struct {
	Date     string  `json:"date"`
	Hours    float64 `json:"hours"`
	Capacity float64 `json:"capacity"`
	Full     bool    `json:"full"`
}

// Summarize returns a per-day load summary in ascending date order. A day is
// Full when its allocation has consumed the entire capacity.
func Summarize(s Schedule, capacity *DayCapacity) []DaySummary {
	summaries := make([]DaySummary, 0, len(s))
	for _, date := range s.Dates() {
		hours := s.HoursOn(date)
		avail := capacity.HoursForKey(date)
		summaries = append(summaries, DaySummary{
			Date:     date,
			Hours:    hours,
			Capacity: avail,
			Full:     hours >= avail-hoursEpsilon,
		})
	}
	return summaries
}
