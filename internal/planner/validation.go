package planner

import (
	"fmt"

	"github.com/upgrade-ai/studyplan/internal/task"
)

// Reason identifies the structural invariant an externally proposed schedule
// violated.
type Reason string

const (
	// ReasonNotAList indicates a date whose value is not a list of entries.
	ReasonNotAList Reason = "not_a_list"

	// ReasonUnknownTask indicates an entry that references no known task by
	// either id or title.
	ReasonUnknownTask Reason = "unknown_task"

	// ReasonCapacityExceeded indicates a date whose total allocated hours
	// exceed that date's capacity.
	ReasonCapacityExceeded Reason = "capacity_exceeded"

	// ReasonNegativeHours indicates an entry with a negative hour value.
	ReasonNegativeHours Reason = "negative_hours"
)

// CandidateError reports the first structural violation found in an
// externally proposed schedule.
type CandidateError struct {
	Reason  Reason // the violated invariant
	Date    string // the offending date, when date-scoped
	TaskRef string // the offending task reference, when entry-scoped
	Detail  string // human-readable specifics
}

// Error returns the formatted error message.
func (e *CandidateError) Error() string {
	msg := fmt.Sprintf("invalid candidate schedule [%s]", e.Reason)
	if e.Date != "" {
		msg += fmt.Sprintf(" date=%s", e.Date)
	}
	if e.TaskRef != "" {
		msg += fmt.Sprintf(" task=%s", e.TaskRef)
	}
	if e.Detail != "" {
		msg += ": " + e.Detail
	}
	return msg
}

// ValidateCandidate structurally checks an untrusted candidate schedule
// against the task set and capacity before it may replace the engine's own
// allocation. Entries may reference tasks by id or by exact title. The check
// fails fast, returning a *CandidateError for the first violation in
// ascending date order, and mutates nothing.
func ValidateCandidate(candidate Schedule, tasks []task.Task, capacity *DayCapacity) error {
	byID := make(map[string]bool, len(tasks))
	byTitle := make(map[string]bool, len(tasks))
	for _, t := range tasks {
		byID[t.ID] = true
		if t.Title != "" {
			byTitle[t.Title] = true
		}
	}

	for _, date := range candidate.Dates() {
		entries := candidate[date]
		if entries == nil {
			return &CandidateError{
				Reason: ReasonNotAList,
				Date:   date,
				Detail: "date maps to no entry list",
			}
		}

		for _, e := range entries {
			if !byID[e.TaskID] && !byTitle[e.Title] {
				ref := e.TaskID
				if ref == "" {
					ref = e.Title
				}
				return &CandidateError{
					Reason:  ReasonUnknownTask,
					Date:    date,
					TaskRef: ref,
					Detail:  "entry references no known task id or title",
				}
			}
		}

		if total := candidate.HoursOn(date); total > capacity.HoursForKey(date)+hoursEpsilon {
			return &CandidateError{
				Reason: ReasonCapacityExceeded,
				Date:   date,
				Detail: fmt.Sprintf("%.2fh allocated against %.2fh capacity", total, capacity.HoursForKey(date)),
			}
		}

		for _, e := range entries {
			if e.Hours < 0 {
				ref := e.TaskID
				if ref == "" {
					ref = e.Title
				}
				return &CandidateError{
					Reason:  ReasonNegativeHours,
					Date:    date,
					TaskRef: ref,
					Detail:  fmt.Sprintf("%.2f hours", e.Hours),
				}
			}
		}
	}

	return nil
}
