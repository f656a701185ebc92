// Package task defines the unit of work the scheduling engine operates on,
// along with the derived risk-factor view and input validation.
//
// Tasks are supplied fresh per scheduling request by the caller; the engine
// owns no task storage and holds no state between calls.
package task

import (
	"math"
	"time"

	"github.com/upgrade-ai/studyplan/internal/errors"
)

// Status represents the lifecycle state of a task.
type Status string

const (
	// StatusPending indicates the task has not been started.
	StatusPending Status = "pending"

	// StatusInProgress indicates the task is being worked on.
	StatusInProgress Status = "in_progress"

	// StatusCompleted indicates the task is done. Completed tasks are
	// excluded from scheduling and risk alerting but may still be scored
	// for reporting.
	StatusCompleted Status = "completed"
)

// String returns the string representation of the status.
func (s Status) String() string {
	return string(s)
}

// Valid reports whether s is one of the known statuses.
func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusInProgress, StatusCompleted:
		return true
	}
	return false
}

// Task is a single pending work item to be risk-scored and scheduled.
type Task struct {
	// ID is an opaque unique identifier, stable across the task's lifetime.
	ID string `json:"id"`

	// Title is the display string for the task.
	Title string `json:"title"`

	// DueAt is the optional deadline. Nil means no deadline.
	DueAt *time.Time `json:"due_at,omitempty"`

	// EstimatedHours is the non-negative effort estimate.
	// 0 means instantaneous or unspecified.
	EstimatedHours float64 `json:"estimated_effort_hours"`

	// DeclaredPriority is the caller-supplied priority signal (e.g. 0-10),
	// independent of the computed priority rank.
	DeclaredPriority int `json:"declared_priority"`

	// Status is the current lifecycle state.
	Status Status `json:"status"`

	// CreatedAt is when the task was created. The priority ranker derives
	// its urgency contribution from the creation-to-due gap.
	CreatedAt time.Time `json:"created_at,omitempty"`

	// ActualHours is the hours spent so far, used only as a model feature.
	ActualHours float64 `json:"actual_hours,omitempty"`
}

// DaysUntilDue returns the whole number of days between now and the task's
// deadline, floored, so any task due earlier today or before is negative or
// zero-adjacent (e.g. due 12h ago yields -1). The second return value is
// false when the task has no deadline.
func (t *Task) DaysUntilDue(now time.Time) (int, bool) {
	if t.DueAt == nil {
		return 0, false
	}
	return int(math.Floor(t.DueAt.Sub(now).Hours() / 24)), true
}

// Overdue reports whether the task has a deadline in the past.
func (t *Task) Overdue(now time.Time) bool {
	days, ok := t.DaysUntilDue(now)
	return ok && days < 0
}

// Validate checks the task for malformed input. It returns a
// *errors.ValidationError (matching errors.ErrInvalidInput) on the first
// violation found, or nil if the task is well-formed.
func (t *Task) Validate() error {
	if t.ID == "" {
		return errors.NewValidationError("id", t.ID, "must not be empty")
	}
	if t.EstimatedHours < 0 {
		return errors.NewValidationError("estimated_effort_hours", t.EstimatedHours, "must be non-negative")
	}
	if math.IsNaN(t.EstimatedHours) || math.IsInf(t.EstimatedHours, 0) {
		return errors.NewValidationError("estimated_effort_hours", t.EstimatedHours, "must be finite")
	}
	if t.Status != "" && !t.Status.Valid() {
		return errors.NewValidationError("status", t.Status, "must be pending, in_progress, or completed")
	}
	return nil
}

// RiskFactors is the ephemeral per-task view consumed by the rule-based risk
// scorer. It is derived from a Task at scoring time and never stored.
type RiskFactors struct {
	// DaysUntilDue is the signed floored day count until the deadline;
	// negative means overdue. Only meaningful when HasDueDate is true.
	DaysUntilDue int

	// HasDueDate reports whether the task has a deadline at all.
	HasDueDate bool

	// DeclaredPriority is the caller-supplied priority signal.
	DeclaredPriority int

	// EstimatedHours is the effort estimate.
	EstimatedHours float64

	// Status is the task's lifecycle state.
	Status Status
}

// Factors derives the RiskFactors for t as of now.
func Factors(t Task, now time.Time) RiskFactors {
	days, hasDue := t.DaysUntilDue(now)
	return RiskFactors{
		DaysUntilDue:     days,
		HasDueDate:       hasDue,
		DeclaredPriority: t.DeclaredPriority,
		EstimatedHours:   t.EstimatedHours,
		Status:           t.Status,
	}
}
