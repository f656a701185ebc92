// Package strategy selects between externally proposed schedules and the
// engine's own deterministic allocator.
package strategy

import (
	"context"
	"time"

	"github.com/upgrade-ai/studyplan/internal/planner"
	"github.com/upgrade-ai/studyplan/internal/task"
)

// Constraints carries the planning window an external strategy must respect.
type Constraints struct {
	// HoursPerDay is the default daily study budget.
	HoursPerDay float64

	// StartDate is the first schedulable day.
	StartDate time.Time

	// HorizonDays is the number of schedulable days from StartDate.
	HorizonDays int
}

// Strategy proposes a candidate schedule for a task set. Implementations are
// untrusted: every proposal is structurally validated before use, and any
// error or timeout routes the request to the built-in allocator instead.
type Strategy interface {
	// Name identifies the strategy in logs and plan metadata.
	Name() string

	// Propose returns a candidate schedule for the tasks within the given
	// constraints. The context bounds the attempt.
	Propose(ctx context.Context, tasks []task.Task, c Constraints) (planner.Schedule, error)
}
