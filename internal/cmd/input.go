package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/upgrade-ai/studyplan/internal/planner"
	"github.com/upgrade-ai/studyplan/internal/task"
)

// loadTasks reads a JSON task list from path. Both a bare array and a
// {"tasks": [...]} wrapper are accepted.
func loadTasks(path string) ([]task.Task, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read tasks file: %w", err)
	}

	var tasks []task.Task
	if err := json.Unmarshal(data, &tasks); err == nil {
		return tasks, nil
	}

	var wrapped struct {
		Tasks []task.Task `json:"tasks"`
	}
	if err := json.Unmarshal(data, &wrapped); err != nil {
		return nil, fmt.Errorf("invalid tasks JSON: %w", err)
	}
	return wrapped.Tasks, nil
}

// loadSchedule reads a candidate schedule from a JSON file, accepting the
// same shapes as strategy proposals.
func loadSchedule(path string) (planner.Schedule, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read schedule file: %w", err)
	}

	var schedule planner.Schedule
	if err := json.Unmarshal(data, &schedule); err == nil {
		return schedule, nil
	}

	var wrapped struct {
		Schedule planner.Schedule `json:"schedule"`
	}
	if err := json.Unmarshal(data, &wrapped); err != nil || wrapped.Schedule == nil {
		return nil, fmt.Errorf("invalid schedule JSON")
	}
	return wrapped.Schedule, nil
}

// parseStartDate resolves the --start flag. Empty means today at midnight in
// the local timezone.
func parseStartDate(flag string) (time.Time, error) {
	if flag == "" {
		now := time.Now()
		return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location()), nil
	}
	start, err := time.ParseInLocation(planner.DateLayout, flag, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid --start date %q (want YYYY-MM-DD)", flag)
	}
	return start, nil
}
