package risk

import (
	"time"

	"github.com/upgrade-ai/studyplan/internal/task"
)

// undatedDaysSentinel stands in for days-until-due when a task has no
// deadline, keeping the feature vector a fixed width. Prediction backends
// are trained against the same sentinel.
const undatedDaysSentinel = 999

// FeatureCount is the fixed width of the feature vector.
const FeatureCount = 8

// Features builds the feature vector consumed by a prediction backend.
// The order is part of the backend contract and must not change:
//
//	0: days until due (999 when undated)
//	1: is overdue (0/1)
//	2: is due within 3 days (0/1)
//	3: estimated effort hours
//	4: declared priority
//	5: is in progress (0/1)
//	6: actual hours so far
//	7: actual/estimated hours ratio (0 when estimate is 0)
func Features(t task.Task, now time.Time) []float64 {
	features := make([]float64, 0, FeatureCount)

	if days, ok := t.DaysUntilDue(now); ok {
		features = append(features, float64(days))
		features = append(features, boolFeature(days < 0))
		features = append(features, boolFeature(days < 3))
	} else {
		features = append(features, undatedDaysSentinel, 0, 0)
	}

	features = append(features, t.EstimatedHours)
	features = append(features, float64(t.DeclaredPriority))
	features = append(features, boolFeature(t.Status == task.StatusInProgress))
	features = append(features, t.ActualHours)

	if t.EstimatedHours > 0 {
		features = append(features, t.ActualHours/t.EstimatedHours)
	} else {
		features = append(features, 0)
	}

	return features
}

func boolFeature(b bool) float64 {
	if b {
		return 1
	}
	return 0
}
