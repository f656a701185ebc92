package strategy

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/upgrade-ai/studyplan/internal/errors"
	"github.com/upgrade-ai/studyplan/internal/logging"
	"github.com/upgrade-ai/studyplan/internal/planner"
	"github.com/upgrade-ai/studyplan/internal/task"
)

// DefaultTimeout bounds a single external strategy attempt.
const DefaultTimeout = 60 * time.Second

// Request carries everything needed to produce a plan.
type Request struct {
	Tasks       []task.Task
	StartDate   time.Time
	HorizonDays int
	Capacity    *planner.DayCapacity

	// Now anchors urgency calculations. All scoring and ranking derive
	// from it rather than the wall clock.
	Now time.Time
}

// Plan is a finished scheduling result with provenance metadata.
type Plan struct {
	PlanID     string           `json:"plan_id"`
	Schedule   planner.Schedule `json:"schedule"`
	Overflowed []string         `json:"overflowed_task_ids"`

	// StrategyUsed is the name of the strategy whose schedule was adopted,
	// or "fallback" when the built-in allocator produced it.
	StrategyUsed string `json:"strategy_used"`

	// FallbackReason explains why an external strategy was bypassed.
	// Empty when the external schedule was adopted or none was configured.
	FallbackReason string `json:"fallback_reason,omitempty"`
}

// Selector produces plans, preferring an external strategy's proposal when
// one is configured, valid, and timely, and otherwise falling back to the
// deterministic allocator. Fallback is silent at the API level; the reason
// is recorded on the plan and in the log, never surfaced as an error.
type Selector struct {
	scheduler *planner.Scheduler
	strategy  Strategy
	timeout   time.Duration
	log       *logging.Logger
}

// NewSelector creates a Selector. strategy may be nil, in which case every
// plan comes from the built-in allocator. A nil scheduler gets a default
// rule-scored one; a nil logger discards output; a non-positive timeout
// uses DefaultTimeout.
func NewSelector(scheduler *planner.Scheduler, strategy Strategy, timeout time.Duration, log *logging.Logger) *Selector {
	if scheduler == nil {
		scheduler = planner.NewScheduler(nil, log)
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if log == nil {
		log = logging.NopLogger()
	}
	return &Selector{
		scheduler: scheduler,
		strategy:  strategy,
		timeout:   timeout,
		log:       log,
	}
}

// Plan produces a schedule for the request. It returns an error only for
// invalid inputs; strategy failures of any kind degrade to the built-in
// allocator instead.
func (s *Selector) Plan(ctx context.Context, req Request) (*Plan, error) {
	if err := planner.CheckInputs(req.Tasks, req.HorizonDays); err != nil {
		return nil, err
	}
	if req.Capacity == nil {
		return nil, &errors.ValidationError{Field: "capacity", Message: "capacity is required"}
	}

	planID := uuid.New().String()
	log := s.log.WithPlan(planID)

	if s.strategy != nil {
		schedule, err := s.propose(ctx, req)
		if err == nil {
			log.Info("adopted external schedule", "strategy", s.strategy.Name())
			return &Plan{
				PlanID:       planID,
				Schedule:     schedule,
				Overflowed:   underAllocated(req.Tasks, schedule),
				StrategyUsed: s.strategy.Name(),
			}, nil
		}

		reason := errors.FallbackReason(err)
		log.Warn("external strategy bypassed",
			"strategy", s.strategy.Name(),
			"reason", reason,
			"error", err.Error())

		result, allocErr := s.scheduler.Allocate(req.Tasks, req.StartDate, req.Capacity, req.HorizonDays, req.Now)
		if allocErr != nil {
			return nil, allocErr
		}
		return &Plan{
			PlanID:         planID,
			Schedule:       result.Schedule,
			Overflowed:     result.Overflowed,
			StrategyUsed:   "fallback",
			FallbackReason: reason,
		}, nil
	}

	result, err := s.scheduler.Allocate(req.Tasks, req.StartDate, req.Capacity, req.HorizonDays, req.Now)
	if err != nil {
		return nil, err
	}
	return &Plan{
		PlanID:       planID,
		Schedule:     result.Schedule,
		Overflowed:   result.Overflowed,
		StrategyUsed: "fallback",
	}, nil
}

// propose runs the external strategy under the selector's timeout and
// structurally validates its candidate before accepting it.
func (s *Selector) propose(ctx context.Context, req Request) (planner.Schedule, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	candidate, err := s.strategy.Propose(ctx, schedulable(req.Tasks), Constraints{
		HoursPerDay: req.Capacity.DefaultHours(),
		StartDate:   req.StartDate,
		HorizonDays: req.HorizonDays,
	})
	if err != nil {
		if ctx.Err() != nil {
			return nil, errors.NewTimeoutError("strategy "+s.strategy.Name(), errors.ErrStrategyTimeout)
		}
		return nil, err
	}

	if err := planner.ValidateCandidate(candidate, req.Tasks, req.Capacity); err != nil {
		return nil, fmt.Errorf("%w: %v", errors.ErrStrategyInvalidOutput, err)
	}
	return candidate, nil
}

// schedulable filters out completed tasks, which never receive time.
func schedulable(tasks []task.Task) []task.Task {
	open := make([]task.Task, 0, len(tasks))
	for _, t := range tasks {
		if t.Status != task.StatusCompleted {
			open = append(open, t)
		}
	}
	return open
}

// underAllocated lists ids of tasks an adopted external schedule gave less
// time than their estimate, keeping the plan's overflow field meaningful on
// both paths. Ids come back in input order.
func underAllocated(tasks []task.Task, schedule planner.Schedule) []string {
	var ids []string
	for _, t := range tasks {
		if t.Status == task.StatusCompleted {
			continue
		}
		if schedule.TaskHours(t.ID)+1e-9 < t.EstimatedHours {
			ids = append(ids, t.ID)
		}
	}
	return ids
}
