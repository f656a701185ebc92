package planner

import (
	"math"
	"sort"

	"github.com/upgrade-ai/studyplan/internal/task"
)

// MaxRank is the ceiling of the priority rank scale.
const MaxRank = 10

// Rank computes a coarse integer priority in [0, MaxRank] for sort ordering,
// higher meaning more urgent. It is an ordinal, not a probability.
//
// Urgency comes from how tight the task's window was at creation, the gap
// between CreatedAt and the due date rather than the time remaining now, so
// a task created the day before its deadline outranks one that had two weeks
// of lead time even after both become due tomorrow. Risk adds
// floor(risk * 3); tasks over 5 estimated hours get one extra point.
func Rank(t task.Task, risk float64) int {
	rank := 0

	if t.DueAt != nil {
		leadDays := int(math.Floor(t.DueAt.Sub(t.CreatedAt).Hours() / 24))
		switch {
		case leadDays < 1:
			rank += 5
		case leadDays < 3:
			rank += 4
		case leadDays < 7:
			rank += 3
		case leadDays < 14:
			rank += 2
		default:
			rank += 1
		}
	}

	rank += int(math.Floor(risk * 3))

	if t.EstimatedHours > 5 {
		rank++
	}

	return min(rank, MaxRank)
}

// SortByPriority returns a copy of tasks ordered for allocation: descending
// rank, ties broken by ascending due date with undated tasks after all dated
// ones, and finally by task id so identical inputs always produce identical
// order. The risks map supplies each task's risk score by id; missing ids
// rank with zero risk.
func SortByPriority(tasks []task.Task, risks map[string]float64) []task.Task {
	sorted := make([]task.Task, len(tasks))
	copy(sorted, tasks)

	sort.SliceStable(sorted, func(i, j int) bool {
		a, b := sorted[i], sorted[j]

		rankA := Rank(a, risks[a.ID])
		rankB := Rank(b, risks[b.ID])
		if rankA != rankB {
			return rankA > rankB
		}

		switch {
		case a.DueAt != nil && b.DueAt != nil:
			if !a.DueAt.Equal(*b.DueAt) {
				return a.DueAt.Before(*b.DueAt)
			}
		case a.DueAt != nil:
			return true
		case b.DueAt != nil:
			return false
		}

		return a.ID < b.ID
	})

	return sorted
}
