// Package risk computes normalized per-task risk scores.
//
// A risk score estimates, on [0, 1], how likely a task is to be missed or
// delayed. Two scorer variants exist: the rule-based heuristic, which is
// always available, and a model-backed scorer that wraps an opaque
// prediction capability and silently falls back to the rules on any failure.
// Both are pure with respect to the task set and safe for concurrent use.
package risk

import (
	"sort"
	"time"

	"github.com/upgrade-ai/studyplan/internal/task"
)

// Scorer is the capability interface for risk scoring. Implementations must
// return a value in [0, 1] and must not fail: any internal error resolves to
// a fallback score, never an error to the caller.
type Scorer interface {
	Score(t task.Task, now time.Time) float64
}

// RuleScorer computes risk with a deterministic additive heuristic: start at
// zero, add independent contributions for deadline pressure, declared
// priority, effort, and status, then cap at 1.0. The heuristic is monotonic
// in each input and total (no division, no lookups that can fail).
type RuleScorer struct{}

// NewRuleScorer returns the rule-based scorer.
func NewRuleScorer() *RuleScorer {
	return &RuleScorer{}
}

// Score computes the risk for t as of now.
//
// Contributions:
//   - deadline: overdue +0.5, <1 day +0.4, <3 days +0.3, <7 days +0.2.
//     A task with no deadline gets no deadline pressure at all; undated
//     tasks are never treated as urgent by this term alone.
//   - declared priority: >=8 +0.3, >=5 +0.15, >=3 +0.1
//   - effort: >20h +0.2, >10h +0.1
//   - status: in_progress +0.1
func (s *RuleScorer) Score(t task.Task, now time.Time) float64 {
	f := task.Factors(t, now)
	r := 0.0

	if f.HasDueDate {
		switch {
		case f.DaysUntilDue < 0:
			r += 0.5
		case f.DaysUntilDue < 1:
			r += 0.4
		case f.DaysUntilDue < 3:
			r += 0.3
		case f.DaysUntilDue < 7:
			r += 0.2
		}
	}

	switch {
	case f.DeclaredPriority >= 8:
		r += 0.3
	case f.DeclaredPriority >= 5:
		r += 0.15
	case f.DeclaredPriority >= 3:
		r += 0.1
	}

	switch {
	case f.EstimatedHours > 20:
		r += 0.2
	case f.EstimatedHours > 10:
		r += 0.1
	}

	if f.Status == task.StatusInProgress {
		r += 0.1
	}

	return min(r, 1.0)
}

// ScoreAll maps task id to risk score for every task in the slice, including
// completed tasks, which stay scoreable for reporting even though they are
// excluded from scheduling and alerting.
func ScoreAll(s Scorer, tasks []task.Task, now time.Time) map[string]float64 {
	scores := make(map[string]float64, len(tasks))
	for _, t := range tasks {
		scores[t.ID] = s.Score(t, now)
	}
	return scores
}

// DefaultAlertThreshold is the risk score above which a task is considered
// at risk of being missed.
const DefaultAlertThreshold = 0.7

// Alert flags one task whose risk score exceeds the alert threshold.
type Alert struct {
	Task  task.Task `json:"task"`
	Score float64   `json:"risk_score"`
}

// Alerts returns the non-completed tasks whose risk score exceeds threshold,
// most at risk first; ties are broken by task id for determinism. A
// non-positive threshold is replaced by DefaultAlertThreshold.
func Alerts(s Scorer, tasks []task.Task, threshold float64, now time.Time) []Alert {
	if threshold <= 0 {
		threshold = DefaultAlertThreshold
	}

	var alerts []Alert
	for _, t := range tasks {
		if t.Status == task.StatusCompleted {
			continue
		}
		if score := s.Score(t, now); score > threshold {
			alerts = append(alerts, Alert{Task: t, Score: score})
		}
	}

	sort.Slice(alerts, func(i, j int) bool {
		if alerts[i].Score != alerts[j].Score {
			return alerts[i].Score > alerts[j].Score
		}
		return alerts[i].Task.ID < alerts[j].Task.ID
	})

	return alerts
}
