// Package planner contains the deterministic core of the scheduling engine:
// priority ranking, capacity-aware allocation of tasks across calendar days,
// and structural validation of externally proposed schedules.
//
// The allocator is a pure function of its inputs, including the caller's
// notion of "now": identical inputs produce byte-for-byte identical
// schedules, and independent calls may run concurrently without locking
// because nothing is shared between them.
package planner

import (
	"time"

	"github.com/upgrade-ai/studyplan/internal/errors"
	"github.com/upgrade-ai/studyplan/internal/logging"
	"github.com/upgrade-ai/studyplan/internal/risk"
	"github.com/upgrade-ai/studyplan/internal/task"
)

// hoursEpsilon guards float comparisons on accumulated hour values. A
// remainder below it counts as fully allocated.
const hoursEpsilon = 1e-9

// Scheduler allocates tasks to calendar days under per-day capacity.
type Scheduler struct {
	scorer risk.Scorer
	log    *logging.Logger
}

// NewScheduler creates a Scheduler. A nil scorer defaults to the rule-based
// risk scorer; a nil log discards diagnostics.
func NewScheduler(scorer risk.Scorer, log *logging.Logger) *Scheduler {
	if scorer == nil {
		scorer = risk.NewRuleScorer()
	}
	if log == nil {
		log = logging.NopLogger()
	}
	return &Scheduler{scorer: scorer, log: log}
}

// Result is the outcome of one allocation run. Overflow is data, not an
// error: a task that could not be fully placed within the horizon is listed
// in Overflowed while its partial entries remain in the schedule.
type Result struct {
	Schedule   Schedule `json:"schedule"`
	Overflowed []string `json:"overflowed_task_ids"`
}

// CheckInputs validates a scheduling request before any allocation work.
// It returns a *errors.ValidationError on the first violation.
func CheckInputs(tasks []task.Task, horizonDays int) error {
	if horizonDays < 1 {
		return errors.NewValidationError("horizon_days", horizonDays, "must be at least 1")
	}
	for i := range tasks {
		if err := tasks[i].Validate(); err != nil {
			return err
		}
	}
	return nil
}

// Allocate packs tasks into the days start..start+horizonDays-1, first-fit
// in priority order, tracking remaining capacity globally per day so the
// total placed on any single date across all tasks never exceeds that
// date's capacity.
//
// Completed tasks are excluded. Zero-effort tasks receive a single zero-hour
// entry on the start date so they stay visible as scheduled; callers may
// filter those out. Tasks whose hours do not fit inside the horizon keep
// their partial entries and are reported in Result.Overflowed.
func (s *Scheduler) Allocate(tasks []task.Task, start time.Time, capacity *DayCapacity, horizonDays int, now time.Time) (*Result, error) {
	if err := CheckInputs(tasks, horizonDays); err != nil {
		return nil, err
	}
	if capacity == nil {
		return nil, errors.NewValidationError("capacity", nil, "must not be nil")
	}

	schedulable := make([]task.Task, 0, len(tasks))
	for _, t := range tasks {
		if t.Status == task.StatusCompleted {
			continue
		}
		schedulable = append(schedulable, t)
	}

	ordered := SortByPriority(schedulable, risk.ScoreAll(s.scorer, schedulable, now))

	// Day-index keyed remaining-capacity counters, created lazily as the
	// cursor first touches each day. The cursor only ever moves forward:
	// once a day is exhausted it stays exhausted for every later task,
	// which bounds the whole run at O(tasks + horizon) day advances.
	startDay := time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, start.Location())
	dateFor := func(day int) string {
		return DateKey(startDay.AddDate(0, 0, day))
	}
	remaining := make(map[int]float64)
	remainingFor := func(day int) float64 {
		if hours, ok := remaining[day]; ok {
			return hours
		}
		hours := capacity.HoursForKey(dateFor(day))
		remaining[day] = hours
		return hours
	}

	result := &Result{Schedule: make(Schedule)}
	cursor := 0

	for _, t := range ordered {
		if t.EstimatedHours <= hoursEpsilon {
			result.Schedule.Add(dateFor(0), Entry{TaskID: t.ID, Hours: 0})
			continue
		}

		rem := t.EstimatedHours
		for rem > hoursEpsilon && cursor < horizonDays {
			avail := remainingFor(cursor)
			if avail <= hoursEpsilon {
				cursor++
				continue
			}

			alloc := min(rem, avail)
			result.Schedule.Add(dateFor(cursor), Entry{TaskID: t.ID, Hours: alloc})
			rem -= alloc
			remaining[cursor] = avail - alloc

			if remaining[cursor] <= hoursEpsilon {
				cursor++
			}
		}

		if rem > hoursEpsilon {
			result.Overflowed = append(result.Overflowed, t.ID)
			s.log.Warn("task overflowed scheduling horizon",
				"task_id", t.ID, "unallocated_hours", rem, "horizon_days", horizonDays)
		}
	}

	return result, nil
}
