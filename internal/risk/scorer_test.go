package risk

import (
	"testing"
	"time"

	"github.com/upgrade-ai/studyplan/internal/task"
)

var testNow = time.Date(2026, 1, 10, 0, 0, 0, 0, time.UTC)

func dueIn(d time.Duration) *time.Time {
	t := testNow.Add(d)
	return &t
}

func TestRuleScorer_Contributions(t *testing.T) {
	s := NewRuleScorer()

	tests := []struct {
		name string
		task task.Task
		want float64
	}{
		{
			name: "no signals at all",
			task: task.Task{ID: "t1"},
			want: 0.0,
		},
		{
			name: "overdue only",
			task: task.Task{ID: "t1", DueAt: dueIn(-48 * time.Hour)},
			want: 0.5,
		},
		{
			name: "due within a day",
			task: task.Task{ID: "t1", DueAt: dueIn(12 * time.Hour)},
			want: 0.4,
		},
		{
			name: "due within three days",
			task: task.Task{ID: "t1", DueAt: dueIn(2 * 24 * time.Hour)},
			want: 0.3,
		},
		{
			name: "due within a week",
			task: task.Task{ID: "t1", DueAt: dueIn(5 * 24 * time.Hour)},
			want: 0.2,
		},
		{
			name: "distant deadline contributes nothing",
			task: task.Task{ID: "t1", DueAt: dueIn(20 * 24 * time.Hour)},
			want: 0.0,
		},
		{
			name: "high declared priority",
			task: task.Task{ID: "t1", DeclaredPriority: 9},
			want: 0.3,
		},
		{
			name: "medium declared priority",
			task: task.Task{ID: "t1", DeclaredPriority: 5},
			want: 0.15,
		},
		{
			name: "low declared priority",
			task: task.Task{ID: "t1", DeclaredPriority: 3},
			want: 0.1,
		},
		{
			name: "large effort",
			task: task.Task{ID: "t1", EstimatedHours: 25},
			want: 0.2,
		},
		{
			name: "medium effort",
			task: task.Task{ID: "t1", EstimatedHours: 12},
			want: 0.1,
		},
		{
			name: "in progress",
			task: task.Task{ID: "t1", Status: task.StatusInProgress},
			want: 0.1,
		},
		{
			name: "everything stacks and caps at 1",
			task: task.Task{
				ID:               "t1",
				DueAt:            dueIn(-24 * time.Hour),
				DeclaredPriority: 10,
				EstimatedHours:   30,
				Status:           task.StatusInProgress,
			},
			want: 1.0, // 0.5 + 0.3 + 0.2 + 0.1 = 1.1, capped
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := s.Score(tt.task, testNow)
			if !approxEqual(got, tt.want) {
				t.Errorf("Score() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestRuleScorer_OverdueContributionConstant(t *testing.T) {
	// Overdue always contributes exactly 0.5 regardless of how far past.
	s := NewRuleScorer()
	for _, days := range []int{1, 7, 30, 365} {
		tk := task.Task{ID: "t1", DueAt: dueIn(-time.Duration(days) * 24 * time.Hour)}
		if got := s.Score(tk, testNow); !approxEqual(got, 0.5) {
			t.Errorf("overdue by %d days: Score() = %v, want 0.5", days, got)
		}
	}
}

func TestRuleScorer_Bounds(t *testing.T) {
	s := NewRuleScorer()

	// Sweep a grid of inputs; every score must stay in [0, 1].
	for _, due := range []*time.Time{nil, dueIn(-100 * 24 * time.Hour), dueIn(0), dueIn(100 * 24 * time.Hour)} {
		for _, prio := range []int{-5, 0, 3, 5, 8, 100} {
			for _, hours := range []float64{0, 5, 10.5, 21, 1000} {
				for _, status := range []task.Status{task.StatusPending, task.StatusInProgress, task.StatusCompleted} {
					tk := task.Task{ID: "t1", DueAt: due, DeclaredPriority: prio, EstimatedHours: hours, Status: status}
					got := s.Score(tk, testNow)
					if got < 0 || got > 1 {
						t.Fatalf("Score() = %v out of [0,1] for %+v", got, tk)
					}
				}
			}
		}
	}
}

func TestRuleScorer_CompletedStillScored(t *testing.T) {
	// Completed tasks stay scoreable for reporting.
	s := NewRuleScorer()
	tk := task.Task{ID: "t1", DueAt: dueIn(-24 * time.Hour), Status: task.StatusCompleted}
	if got := s.Score(tk, testNow); !approxEqual(got, 0.5) {
		t.Errorf("Score() = %v, want 0.5", got)
	}
}

func TestScoreAll(t *testing.T) {
	s := NewRuleScorer()
	tasks := []task.Task{
		{ID: "a", DueAt: dueIn(-24 * time.Hour)},
		{ID: "b"},
		{ID: "c", Status: task.StatusCompleted, DeclaredPriority: 9},
	}

	scores := ScoreAll(s, tasks, testNow)
	if len(scores) != 3 {
		t.Fatalf("expected 3 scores, got %d", len(scores))
	}
	if !approxEqual(scores["a"], 0.5) {
		t.Errorf("scores[a] = %v, want 0.5", scores["a"])
	}
	if !approxEqual(scores["b"], 0.0) {
		t.Errorf("scores[b] = %v, want 0", scores["b"])
	}
	if !approxEqual(scores["c"], 0.3) {
		t.Errorf("scores[c] = %v, want 0.3 (completed tasks still scored)", scores["c"])
	}
}

func TestAlerts(t *testing.T) {
	s := NewRuleScorer()
	tasks := []task.Task{
		// 0.5 + 0.3 + 0.1 = 0.9
		{ID: "critical", DueAt: dueIn(-24 * time.Hour), DeclaredPriority: 8, Status: task.StatusInProgress},
		// 0.5 + 0.3 = 0.8
		{ID: "also-critical", DueAt: dueIn(-24 * time.Hour), DeclaredPriority: 8},
		// 0.2 only
		{ID: "calm", DueAt: dueIn(5 * 24 * time.Hour)},
		// Would score 1.0 but completed tasks are never alerted.
		{ID: "done", DueAt: dueIn(-24 * time.Hour), DeclaredPriority: 10, EstimatedHours: 30, Status: task.StatusCompleted},
	}

	alerts := Alerts(s, tasks, 0.7, testNow)
	if len(alerts) != 2 {
		t.Fatalf("expected 2 alerts, got %d", len(alerts))
	}
	if alerts[0].Task.ID != "critical" {
		t.Errorf("alerts[0] = %s, want critical (highest score first)", alerts[0].Task.ID)
	}
	if alerts[1].Task.ID != "also-critical" {
		t.Errorf("alerts[1] = %s, want also-critical", alerts[1].Task.ID)
	}
}

func TestAlerts_DefaultThreshold(t *testing.T) {
	s := NewRuleScorer()
	// Scores exactly 0.7: not above the threshold, so no alert.
	borderline := []task.Task{{ID: "edge", DueAt: dueIn(12 * time.Hour), DeclaredPriority: 8}}
	if got := Alerts(s, borderline, 0, testNow); len(got) != 0 {
		t.Errorf("score equal to threshold should not alert, got %d alerts", len(got))
	}

	over := []task.Task{{ID: "over", DueAt: dueIn(-24 * time.Hour), DeclaredPriority: 8}}
	if got := Alerts(s, over, 0, testNow); len(got) != 1 {
		t.Errorf("expected 1 alert with default threshold, got %d", len(got))
	}
}

func approxEqual(a, b float64) bool {
	const eps = 1e-9
	return a-b < eps && b-a < eps
}
