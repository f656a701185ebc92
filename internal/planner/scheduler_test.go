package planner

import (
	"bytes"
	"encoding/json"
	"testing"
	"time"

	"github.com/upgrade-ai/studyplan/internal/errors"
	"github.com/upgrade-ai/studyplan/internal/task"
)

var (
	schedNow   = time.Date(2025, 12, 31, 9, 0, 0, 0, time.UTC)
	schedStart = time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
)

func newTestScheduler() *Scheduler {
	return NewScheduler(nil, nil)
}

func TestAllocate_SingleTaskSplitsAcrossDays(t *testing.T) {
	tasks := []task.Task{
		{ID: "t1", Title: "Thesis chapter", EstimatedHours: 10, Status: task.StatusPending, CreatedAt: schedNow},
	}

	result, err := newTestScheduler().Allocate(tasks, schedStart, NewDayCapacity(8), 30, schedNow)
	if err != nil {
		t.Fatalf("Allocate failed: %v", err)
	}

	if len(result.Overflowed) != 0 {
		t.Fatalf("unexpected overflow: %v", result.Overflowed)
	}

	day1 := result.Schedule["2026-01-01"]
	day2 := result.Schedule["2026-01-02"]
	if len(day1) != 1 || day1[0].Hours != 8 {
		t.Errorf("day 1 = %+v, want one 8h entry", day1)
	}
	if len(day2) != 1 || day2[0].Hours != 2 {
		t.Errorf("day 2 = %+v, want one 2h entry", day2)
	}
	if got := result.Schedule.TaskHours("t1"); got != 10 {
		t.Errorf("total for t1 = %v, want exactly 10", got)
	}
}

func TestAllocate_SharedDayNeverOvercommitted(t *testing.T) {
	// Two tasks both due in 2 days; the higher-ranked one fills day 1 up to
	// capacity, the remainder of the other spills to day 2. Day 1's total
	// must never exceed 8h even though each task alone would fit.
	due := schedNow.Add(2 * 24 * time.Hour)
	tasks := []task.Task{
		{ID: "big", EstimatedHours: 6, DueAt: &due, CreatedAt: schedNow, Status: task.StatusPending},
		{ID: "small", EstimatedHours: 4, DueAt: &due, CreatedAt: schedNow, Status: task.StatusPending},
	}

	result, err := newTestScheduler().Allocate(tasks, schedStart, NewDayCapacity(8), 30, schedNow)
	if err != nil {
		t.Fatalf("Allocate failed: %v", err)
	}

	if got := result.Schedule.HoursOn("2026-01-01"); got != 8 {
		t.Errorf("day 1 total = %v, want exactly 8", got)
	}
	if got := result.Schedule.HoursOn("2026-01-02"); got != 2 {
		t.Errorf("day 2 total = %v, want 2", got)
	}
	// "big" outranks "small" through the long-task bonus, so it is placed
	// first and fits entirely on day 1.
	day1 := result.Schedule["2026-01-01"]
	if day1[0].TaskID != "big" || day1[0].Hours != 6 {
		t.Errorf("day 1 first entry = %+v, want big/6h", day1[0])
	}
	for _, tk := range tasks {
		if got := result.Schedule.TaskHours(tk.ID); got != tk.EstimatedHours {
			t.Errorf("task %s allocated %v, want %v", tk.ID, got, tk.EstimatedHours)
		}
	}
}

func TestAllocate_OverflowReportedAsData(t *testing.T) {
	tasks := []task.Task{
		{ID: "huge", EstimatedHours: 50, Status: task.StatusPending, CreatedAt: schedNow},
	}

	result, err := newTestScheduler().Allocate(tasks, schedStart, NewDayCapacity(8), 2, schedNow)
	if err != nil {
		t.Fatalf("Allocate failed: %v", err)
	}

	if len(result.Overflowed) != 1 || result.Overflowed[0] != "huge" {
		t.Fatalf("Overflowed = %v, want [huge]", result.Overflowed)
	}
	if got := result.Schedule.TotalHours(); got != 16 {
		t.Errorf("partial allocation = %v, want 16 (2 days x 8h)", got)
	}
	// The deficit gets no final entry.
	for _, date := range result.Schedule.Dates() {
		for _, e := range result.Schedule[date] {
			if e.Hours <= 0 {
				t.Errorf("unexpected non-positive entry %+v on %s", e, date)
			}
		}
	}
}

func TestAllocate_OverflowDoesNotAbortRun(t *testing.T) {
	// A task that overflows must not prevent later tasks from being placed,
	// and the higher-priority task consumes the horizon first.
	due := schedNow.Add(24 * time.Hour)
	tasks := []task.Task{
		{ID: "urgent-huge", EstimatedHours: 20, DueAt: &due, CreatedAt: schedNow, Status: task.StatusPending},
		{ID: "calm-small", EstimatedHours: 3, Status: task.StatusPending, CreatedAt: schedNow},
	}

	result, err := newTestScheduler().Allocate(tasks, schedStart, NewDayCapacity(8), 2, schedNow)
	if err != nil {
		t.Fatalf("Allocate failed: %v", err)
	}

	wantOverflow := map[string]bool{"urgent-huge": true, "calm-small": true}
	if len(result.Overflowed) != 2 {
		t.Fatalf("Overflowed = %v, want both tasks", result.Overflowed)
	}
	for _, id := range result.Overflowed {
		if !wantOverflow[id] {
			t.Errorf("unexpected overflow id %s", id)
		}
	}
	if got := result.Schedule.TaskHours("urgent-huge"); got != 16 {
		t.Errorf("urgent-huge allocated %v, want 16", got)
	}
	if got := result.Schedule.TaskHours("calm-small"); got != 0 {
		t.Errorf("calm-small allocated %v, want 0 (horizon consumed)", got)
	}
}

func TestAllocate_ZeroEffortMarkerEntry(t *testing.T) {
	tasks := []task.Task{
		{ID: "instant", Status: task.StatusPending, CreatedAt: schedNow},
	}

	result, err := newTestScheduler().Allocate(tasks, schedStart, NewDayCapacity(8), 5, schedNow)
	if err != nil {
		t.Fatalf("Allocate failed: %v", err)
	}

	entries := result.Schedule["2026-01-01"]
	if len(entries) != 1 || entries[0].TaskID != "instant" || entries[0].Hours != 0 {
		t.Errorf("entries on start date = %+v, want single 0h marker for instant", entries)
	}
	if len(result.Overflowed) != 0 {
		t.Errorf("zero-effort task must not overflow, got %v", result.Overflowed)
	}
}

func TestAllocate_CompletedTasksExcluded(t *testing.T) {
	tasks := []task.Task{
		{ID: "done", EstimatedHours: 4, Status: task.StatusCompleted, CreatedAt: schedNow},
		{ID: "open", EstimatedHours: 4, Status: task.StatusPending, CreatedAt: schedNow},
	}

	result, err := newTestScheduler().Allocate(tasks, schedStart, NewDayCapacity(8), 5, schedNow)
	if err != nil {
		t.Fatalf("Allocate failed: %v", err)
	}

	if got := result.Schedule.TaskHours("done"); got != 0 {
		t.Errorf("completed task allocated %v hours, want 0", got)
	}
	if got := result.Schedule.TaskHours("open"); got != 4 {
		t.Errorf("open task allocated %v, want 4", got)
	}
}

func TestAllocate_ZeroAvailabilityDaySkipped(t *testing.T) {
	capacity := NewDayCapacity(8)
	capacity.SetDayKey("2026-01-02", 0) // exam day

	tasks := []task.Task{
		{ID: "t1", EstimatedHours: 12, Status: task.StatusPending, CreatedAt: schedNow},
	}

	result, err := newTestScheduler().Allocate(tasks, schedStart, capacity, 5, schedNow)
	if err != nil {
		t.Fatalf("Allocate failed: %v", err)
	}

	if got := result.Schedule.HoursOn("2026-01-02"); got != 0 {
		t.Errorf("zero-availability day received %v hours", got)
	}
	if got := result.Schedule.HoursOn("2026-01-01"); got != 8 {
		t.Errorf("day 1 = %v, want 8", got)
	}
	if got := result.Schedule.HoursOn("2026-01-03"); got != 4 {
		t.Errorf("day 3 = %v, want 4 (spilled past the exam day)", got)
	}
}

func TestAllocate_EntryDatesNonDecreasingPerTask(t *testing.T) {
	due := schedNow.Add(3 * 24 * time.Hour)
	tasks := []task.Task{
		{ID: "a", EstimatedHours: 11, DueAt: &due, CreatedAt: schedNow, Status: task.StatusPending},
		{ID: "b", EstimatedHours: 7, DueAt: &due, CreatedAt: schedNow, Status: task.StatusPending},
		{ID: "c", EstimatedHours: 3.5, Status: task.StatusPending, CreatedAt: schedNow},
	}

	result, err := newTestScheduler().Allocate(tasks, schedStart, NewDayCapacity(6), 10, schedNow)
	if err != nil {
		t.Fatalf("Allocate failed: %v", err)
	}

	lastDate := make(map[string]string)
	for _, date := range result.Schedule.Dates() {
		for _, e := range result.Schedule[date] {
			if prev, ok := lastDate[e.TaskID]; ok && date < prev {
				t.Errorf("task %s has entry on %s after %s", e.TaskID, date, prev)
			}
			lastDate[e.TaskID] = date
		}
	}
}

func TestAllocate_CapacityRespectedEverywhere(t *testing.T) {
	capacity := NewDayCapacity(5)
	capacity.SetDayKey("2026-01-03", 2)

	var tasks []task.Task
	due := schedNow.Add(4 * 24 * time.Hour)
	for _, spec := range []struct {
		id    string
		hours float64
	}{
		{"a", 7.5}, {"b", 3}, {"c", 12}, {"d", 0.5}, {"e", 6},
	} {
		tasks = append(tasks, task.Task{
			ID: spec.id, EstimatedHours: spec.hours, DueAt: &due,
			CreatedAt: schedNow, Status: task.StatusPending,
		})
	}

	result, err := newTestScheduler().Allocate(tasks, schedStart, capacity, 14, schedNow)
	if err != nil {
		t.Fatalf("Allocate failed: %v", err)
	}

	for _, date := range result.Schedule.Dates() {
		if got, limit := result.Schedule.HoursOn(date), capacity.HoursForKey(date); got > limit+hoursEpsilon {
			t.Errorf("date %s allocated %v, capacity %v", date, got, limit)
		}
	}
	for _, tk := range tasks {
		if got := result.Schedule.TaskHours(tk.ID); got != tk.EstimatedHours {
			t.Errorf("task %s allocated %v, want %v", tk.ID, got, tk.EstimatedHours)
		}
	}
}

func TestAllocate_Deterministic(t *testing.T) {
	due := schedNow.Add(2 * 24 * time.Hour)
	tasks := []task.Task{
		{ID: "a", EstimatedHours: 9, DueAt: &due, CreatedAt: schedNow, Status: task.StatusPending},
		{ID: "b", EstimatedHours: 4, Status: task.StatusInProgress, CreatedAt: schedNow, DeclaredPriority: 8},
		{ID: "c", EstimatedHours: 2.5, Status: task.StatusPending, CreatedAt: schedNow},
	}

	run := func() []byte {
		result, err := newTestScheduler().Allocate(tasks, schedStart, NewDayCapacity(8), 30, schedNow)
		if err != nil {
			t.Fatalf("Allocate failed: %v", err)
		}
		data, err := json.Marshal(result)
		if err != nil {
			t.Fatalf("marshal failed: %v", err)
		}
		return data
	}

	first := run()
	for i := 0; i < 10; i++ {
		if next := run(); !bytes.Equal(first, next) {
			t.Fatalf("run %d differs:\n%s\nvs\n%s", i, first, next)
		}
	}
}

func TestAllocate_InvalidInput(t *testing.T) {
	s := newTestScheduler()

	tests := []struct {
		name    string
		tasks   []task.Task
		horizon int
	}{
		{"zero horizon", []task.Task{{ID: "t1"}}, 0},
		{"negative horizon", []task.Task{{ID: "t1"}}, -3},
		{"negative effort", []task.Task{{ID: "t1", EstimatedHours: -1}}, 7},
		{"empty task id", []task.Task{{EstimatedHours: 1}}, 7},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := s.Allocate(tt.tasks, schedStart, NewDayCapacity(8), tt.horizon, schedNow)
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !errors.Is(err, errors.ErrInvalidInput) {
				t.Errorf("error = %v, want ErrInvalidInput match", err)
			}
		})
	}

	t.Run("nil capacity", func(t *testing.T) {
		_, err := s.Allocate([]task.Task{{ID: "t1"}}, schedStart, nil, 7, schedNow)
		if !errors.Is(err, errors.ErrInvalidInput) {
			t.Errorf("error = %v, want ErrInvalidInput match", err)
		}
	})
}
